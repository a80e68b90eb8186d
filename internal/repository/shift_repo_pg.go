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

type ShiftRepository interface {
	Open(ctx context.Context, driverID uuid.UUID, clockIn time.Time) (*domain.Shift, error)
	Close(ctx context.Context, driverID uuid.UUID, clockOut time.Time) (*domain.Shift, error)
	ListOverdue(ctx context.Context, openedBefore time.Time) ([]domain.Shift, error)
	AutoClose(ctx context.Context, id uuid.UUID, clockOut time.Time) (*domain.Shift, error)
}

type PGShiftRepository struct {
	db *pgxpool.Pool
}

func NewShiftRepository(db *pgxpool.Pool) ShiftRepository {
	return &PGShiftRepository{db: db}
}

const shiftColumns = `id, driver_id, clock_in, clock_out, auto_closed, created_at, updated_at`

func scanShift(row pgx.Row) (*domain.Shift, error) {
	var s domain.Shift
	if err := row.Scan(&s.ID, &s.DriverID, &s.ClockIn, &s.ClockOut, &s.AutoClosed, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Open inserts a shift only when the driver has no open one; the WHERE NOT
// EXISTS guard keeps concurrent clock-ins to a single shift.
func (r *PGShiftRepository) Open(ctx context.Context, driverID uuid.UUID, clockIn time.Time) (*domain.Shift, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO shifts (driver_id, clock_in)
		SELECT $1, $2
		WHERE NOT EXISTS (SELECT 1 FROM shifts WHERE driver_id=$1 AND clock_out IS NULL)
		RETURNING `+shiftColumns, driverID, clockIn)
	shift, err := scanShift(row)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidTransition
	}
	return shift, err
}

func (r *PGShiftRepository) Close(ctx context.Context, driverID uuid.UUID, clockOut time.Time) (*domain.Shift, error) {
	row := r.db.QueryRow(ctx, `UPDATE shifts SET clock_out=$1, updated_at=now()
		WHERE driver_id=$2 AND clock_out IS NULL
		RETURNING `+shiftColumns, clockOut, driverID)
	return scanShift(row)
}

func (r *PGShiftRepository) ListOverdue(ctx context.Context, openedBefore time.Time) ([]domain.Shift, error) {
	rows, err := r.db.Query(ctx, `SELECT `+shiftColumns+` FROM shifts
		WHERE clock_out IS NULL AND clock_in < $1 ORDER BY clock_in`, openedBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []domain.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *s)
	}
	return shifts, rows.Err()
}

func (r *PGShiftRepository) AutoClose(ctx context.Context, id uuid.UUID, clockOut time.Time) (*domain.Shift, error) {
	row := r.db.QueryRow(ctx, `UPDATE shifts SET clock_out=$1, auto_closed=true, updated_at=now()
		WHERE id=$2 AND clock_out IS NULL
		RETURNING `+shiftColumns, clockOut, id)
	return scanShift(row)
}

var _ ShiftRepository = (*PGShiftRepository)(nil)
