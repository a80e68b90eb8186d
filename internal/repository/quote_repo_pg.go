package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type QuoteRepository interface {
	CreateRequest(ctx context.Context, request *domain.QuoteRequest) error
	GetRequest(ctx context.Context, id uuid.UUID) (*domain.QuoteRequest, error)
	Create(ctx context.Context, quote *domain.Quote) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error)
	MarkFirstViewed(ctx context.Context, id uuid.UUID, viewedAt, expiresAt time.Time) (*domain.Quote, error)
	MarkExpired(ctx context.Context, id uuid.UUID) (*domain.Quote, error)
	Cancel(ctx context.Context, id uuid.UUID) (*domain.Quote, error)
}

type PGQuoteRepository struct {
	db *pgxpool.Pool
}

func NewQuoteRepository(db *pgxpool.Pool) QuoteRepository {
	return &PGQuoteRepository{db: db}
}

const quoteColumns = `id, quote_request_id, amount_cents, status, first_viewed_at, expires_at, valid_until, created_at, updated_at`

func scanQuote(row pgx.Row) (*domain.Quote, error) {
	var q domain.Quote
	if err := row.Scan(&q.ID, &q.QuoteRequestID, &q.AmountCents, &q.Status,
		&q.FirstViewedAt, &q.ExpiresAt, &q.ValidUntil, &q.CreatedAt, &q.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *PGQuoteRepository) CreateRequest(ctx context.Context, request *domain.QuoteRequest) error {
	return r.db.QueryRow(ctx, `INSERT INTO quote_requests (customer_id, email, vehicle_description, service_description)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		request.CustomerID, request.Email, request.VehicleDescription, request.ServiceDescription).
		Scan(&request.ID, &request.CreatedAt)
}

func (r *PGQuoteRepository) GetRequest(ctx context.Context, id uuid.UUID) (*domain.QuoteRequest, error) {
	row := r.db.QueryRow(ctx, `SELECT id, customer_id, email, vehicle_description, service_description, created_at
		FROM quote_requests WHERE id=$1`, id)
	var req domain.QuoteRequest
	if err := row.Scan(&req.ID, &req.CustomerID, &req.Email, &req.VehicleDescription, &req.ServiceDescription, &req.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *PGQuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	quote.Status = domain.QuoteStatusPending
	return r.db.QueryRow(ctx, `INSERT INTO quotes (quote_request_id, amount_cents, status, valid_until)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`,
		quote.QuoteRequestID, quote.AmountCents, quote.Status, quote.ValidUntil).
		Scan(&quote.ID, &quote.CreatedAt, &quote.UpdatedAt)
}

func (r *PGQuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	row := r.db.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id=$1`, id)
	return scanQuote(row)
}

// MarkFirstViewed only fires while first_viewed_at is unset, so two racing
// track-view calls produce exactly one first view.
func (r *PGQuoteRepository) MarkFirstViewed(ctx context.Context, id uuid.UUID, viewedAt, expiresAt time.Time) (*domain.Quote, error) {
	row := r.db.QueryRow(ctx, `UPDATE quotes
		SET status=$1, first_viewed_at=$2, expires_at=$3, updated_at=now()
		WHERE id=$4 AND first_viewed_at IS NULL AND status=$5
		RETURNING `+quoteColumns,
		domain.QuoteStatusViewed, viewedAt, expiresAt, id, domain.QuoteStatusPending)
	return scanQuote(row)
}

func (r *PGQuoteRepository) MarkExpired(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	row := r.db.QueryRow(ctx, `UPDATE quotes
		SET status=$1, updated_at=now()
		WHERE id=$2 AND status IN ($3, $4)
		RETURNING `+quoteColumns,
		domain.QuoteStatusExpired, id, domain.QuoteStatusPending, domain.QuoteStatusViewed)
	return scanQuote(row)
}

func (r *PGQuoteRepository) Cancel(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	row := r.db.QueryRow(ctx, `UPDATE quotes
		SET status=$1, updated_at=now()
		WHERE id=$2 AND status IN ($3, $4)
		RETURNING `+quoteColumns,
		domain.QuoteStatusCancelled, id, domain.QuoteStatusPending, domain.QuoteStatusViewed)
	return scanQuote(row)
}

var _ QuoteRepository = (*PGQuoteRepository)(nil)
