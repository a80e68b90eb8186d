package repository

import (
	"context"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
}

type PGNotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) NotificationRepository {
	return &PGNotificationRepository{db: db}
}

func (r *PGNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.QueryRow(ctx, `INSERT INTO notifications (recipient_id, kind, booking_id, quote_id, message)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		n.RecipientID, n.Kind, n.BookingID, n.QuoteID, n.Message).
		Scan(&n.ID, &n.CreatedAt)
}

func (r *PGNotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx, `SELECT id, recipient_id, kind, booking_id, quote_id, message, created_at
		FROM notifications WHERE recipient_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Kind, &n.BookingID, &n.QuoteID, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

var _ NotificationRepository = (*PGNotificationRepository)(nil)
