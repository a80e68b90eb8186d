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

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListUnassigned(ctx context.Context) ([]domain.Booking, error)
	ListForGarage(ctx context.Context, garageID uuid.UUID) ([]domain.Booking, error)
	ListUpdates(ctx context.Context, bookingID uuid.UUID) ([]domain.BookingUpdate, error)
	Accept(ctx context.Context, id, garageID uuid.UUID, update domain.BookingUpdate) (*domain.Booking, error)
	Decline(ctx context.Context, id, garageID uuid.UUID, notes string, update domain.BookingUpdate) (*domain.Booking, error)
	Start(ctx context.Context, id, garageID uuid.UUID, update domain.BookingUpdate) (*domain.Booking, error)
	Complete(ctx context.Context, id, garageID uuid.UUID, completedAt time.Time, update domain.BookingUpdate) (*domain.Booking, error)
	Requeue(ctx context.Context, id uuid.UUID, update domain.BookingUpdate) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, customer_id, vehicle_description, service_description,
	status, garage_status, current_stage, overall_progress,
	preferred_garage_id, preferred_place_id, preferred_garage_name,
	assigned_garage_id, assigned_at, garage_completed_at, decline_notes,
	created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Reference, &b.CustomerID, &b.VehicleDescription, &b.ServiceDescription,
		&b.Status, &b.GarageStatus, &b.CurrentStage, &b.OverallProgress,
		&b.PreferredGarageID, &b.PreferredPlaceID, &b.PreferredGarageName,
		&b.AssignedGarageID, &b.AssignedAt, &b.GarageCompletedAt, &b.DeclineNotes,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	booking.Status = domain.BookingStatusPending
	booking.GarageStatus = domain.GarageStatusNew
	return r.db.QueryRow(ctx, `INSERT INTO bookings
		(reference, customer_id, vehicle_description, service_description, status, garage_status,
		 preferred_garage_id, preferred_place_id, preferred_garage_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.CustomerID, booking.VehicleDescription, booking.ServiceDescription,
		booking.Status, booking.GarageStatus,
		booking.PreferredGarageID, booking.PreferredPlaceID, booking.PreferredGarageName).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	return scanBooking(row)
}

func (r *PGBookingRepository) ListUnassigned(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE garage_status=$1 ORDER BY created_at`, domain.GarageStatusNew)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListForGarage(ctx context.Context, garageID uuid.UUID) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE assigned_garage_id=$1 OR (garage_status=$2 AND preferred_garage_id=$1)
		ORDER BY created_at`, garageID, domain.GarageStatusNew)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) ListUpdates(ctx context.Context, bookingID uuid.UUID) ([]domain.BookingUpdate, error) {
	rows, err := r.db.Query(ctx, `SELECT id, booking_id, stage, message, actor, created_at
		FROM booking_updates WHERE booking_id=$1 ORDER BY created_at`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updates []domain.BookingUpdate
	for rows.Next() {
		var u domain.BookingUpdate
		if err := rows.Scan(&u.ID, &u.BookingID, &u.Stage, &u.Message, &u.Actor, &u.CreatedAt); err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}

// transition runs a guarded UPDATE and the audit append in one transaction.
// A zero-row UPDATE means the state guard did not hold; the caller re-reads
// to tell NotFound from InvalidTransition.
func (r *PGBookingRepository) transition(ctx context.Context, sql string, update domain.BookingUpdate, args ...any) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	booking, err := scanBooking(tx.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO booking_updates (booking_id, stage, message, actor)
		VALUES ($1, $2, $3, $4)`, booking.ID, update.Stage, update.Message, update.Actor); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *PGBookingRepository) Accept(ctx context.Context, id, garageID uuid.UUID, update domain.BookingUpdate) (*domain.Booking, error) {
	return r.transition(ctx, `UPDATE bookings
		SET garage_status=$1, assigned_garage_id=$2, assigned_at=now(), updated_at=now()
		WHERE id=$3 AND garage_status=$4
		RETURNING `+bookingColumns, update,
		domain.GarageStatusAccepted, garageID, id, domain.GarageStatusNew)
}

func (r *PGBookingRepository) Decline(ctx context.Context, id, garageID uuid.UUID, notes string, update domain.BookingUpdate) (*domain.Booking, error) {
	return r.transition(ctx, `UPDATE bookings
		SET garage_status=$1, assigned_garage_id=NULL, assigned_at=NULL, decline_notes=$2, updated_at=now()
		WHERE id=$3 AND garage_status=$4
		RETURNING `+bookingColumns, update,
		domain.GarageStatusDeclined, notes, id, domain.GarageStatusNew)
}

func (r *PGBookingRepository) Start(ctx context.Context, id, garageID uuid.UUID, update domain.BookingUpdate) (*domain.Booking, error) {
	return r.transition(ctx, `UPDATE bookings
		SET garage_status=$1, status=$2, current_stage=$3, overall_progress=50, updated_at=now()
		WHERE id=$4 AND garage_status=$5 AND assigned_garage_id=$6
		RETURNING `+bookingColumns, update,
		domain.GarageStatusInProgress, domain.BookingStatusInProgress, domain.StageServiceInProgress,
		id, domain.GarageStatusAccepted, garageID)
}

func (r *PGBookingRepository) Complete(ctx context.Context, id, garageID uuid.UUID, completedAt time.Time, update domain.BookingUpdate) (*domain.Booking, error) {
	return r.transition(ctx, `UPDATE bookings
		SET garage_status=$1, status=$2, current_stage=$3, overall_progress=100, garage_completed_at=$4, updated_at=now()
		WHERE id=$5 AND garage_status=$6 AND assigned_garage_id=$7
		RETURNING `+bookingColumns, update,
		domain.GarageStatusCompleted, domain.BookingStatusCompleted, domain.StageServiceCompleted,
		completedAt, id, domain.GarageStatusInProgress, garageID)
}

func (r *PGBookingRepository) Requeue(ctx context.Context, id uuid.UUID, update domain.BookingUpdate) (*domain.Booking, error) {
	return r.transition(ctx, `UPDATE bookings
		SET garage_status=$1, decline_notes='', updated_at=now()
		WHERE id=$2 AND garage_status=$3
		RETURNING `+bookingColumns, update,
		domain.GarageStatusNew, id, domain.GarageStatusDeclined)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
