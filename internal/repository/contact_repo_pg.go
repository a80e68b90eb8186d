package repository

import (
	"context"
	"errors"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContactRepository interface {
	Create(ctx context.Context, inquiry *domain.ContactInquiry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactInquiry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ContactStatus) (*domain.ContactInquiry, error)
}

type PGContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) ContactRepository {
	return &PGContactRepository{db: db}
}

const contactColumns = `id, name, email, message, status, created_at, updated_at`

func scanContact(row pgx.Row) (*domain.ContactInquiry, error) {
	var c domain.ContactInquiry
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGContactRepository) Create(ctx context.Context, inquiry *domain.ContactInquiry) error {
	inquiry.Status = domain.ContactStatusNew
	return r.db.QueryRow(ctx, `INSERT INTO contact_inquiries (name, email, message, status)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`,
		inquiry.Name, inquiry.Email, inquiry.Message, inquiry.Status).
		Scan(&inquiry.ID, &inquiry.CreatedAt, &inquiry.UpdatedAt)
}

func (r *PGContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactInquiry, error) {
	row := r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contact_inquiries WHERE id=$1`, id)
	return scanContact(row)
}

func (r *PGContactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ContactStatus) (*domain.ContactInquiry, error) {
	row := r.db.QueryRow(ctx, `UPDATE contact_inquiries SET status=$1, updated_at=now()
		WHERE id=$2 AND status=$3
		RETURNING `+contactColumns, to, id, from)
	return scanContact(row)
}

var _ ContactRepository = (*PGContactRepository)(nil)
