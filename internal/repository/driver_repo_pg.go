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

type DriverRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Driver, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Driver, error)
	Approve(ctx context.Context, id uuid.UUID) (*domain.Driver, error)
	Reject(ctx context.Context, id uuid.UUID) (*domain.Driver, error)
	BeginContracts(ctx context.Context, id uuid.UUID) (*domain.Driver, error)
	SignContracts(ctx context.Context, id uuid.UUID, signedAt time.Time) (*domain.Driver, error)
}

type PGDriverRepository struct {
	db *pgxpool.Pool
}

func NewDriverRepository(db *pgxpool.Pool) DriverRepository {
	return &PGDriverRepository{db: db}
}

const driverColumns = `id, user_id, status, onboarding_status, employment_type,
	police_check_completed, police_check_document,
	employment_signed_at, conduct_signed_at, deductions_signed_at, privacy_signed_at,
	can_accept_jobs, employee_start_date, created_at, updated_at`

func scanDriver(row pgx.Row) (*domain.Driver, error) {
	var d domain.Driver
	if err := row.Scan(&d.ID, &d.UserID, &d.Status, &d.OnboardingStatus, &d.EmploymentType,
		&d.PoliceCheckCompleted, &d.PoliceCheckDocument,
		&d.EmploymentSignedAt, &d.ConductSignedAt, &d.DeductionsSignedAt, &d.PrivacySignedAt,
		&d.CanAcceptJobs, &d.EmployeeStartDate, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *PGDriverRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	row := r.db.QueryRow(ctx, `SELECT `+driverColumns+` FROM drivers WHERE id=$1`, id)
	return scanDriver(row)
}

func (r *PGDriverRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Driver, error) {
	row := r.db.QueryRow(ctx, `SELECT `+driverColumns+` FROM drivers WHERE user_id=$1`, userID)
	return scanDriver(row)
}

func (r *PGDriverRepository) Approve(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	row := r.db.QueryRow(ctx, `UPDATE drivers
		SET status=$1, onboarding_status=$2, can_accept_jobs=false, updated_at=now()
		WHERE id=$3 AND status=$4 AND onboarding_status=$5
		RETURNING `+driverColumns,
		domain.DriverStatusApproved, domain.OnboardingContractsPending, id,
		domain.DriverStatusPending, domain.OnboardingNotStarted)
	return scanDriver(row)
}

func (r *PGDriverRepository) Reject(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	row := r.db.QueryRow(ctx, `UPDATE drivers
		SET status=$1, can_accept_jobs=false, updated_at=now()
		WHERE id=$2 AND status=$3
		RETURNING `+driverColumns,
		domain.DriverStatusRejected, id, domain.DriverStatusPending)
	return scanDriver(row)
}

// BeginContracts is the legacy auto-fix: an approved driver still sitting at
// not_started is moved to contracts_pending. The state guard in the WHERE
// clause makes concurrent reads race safely to a single winner.
func (r *PGDriverRepository) BeginContracts(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	row := r.db.QueryRow(ctx, `UPDATE drivers
		SET onboarding_status=$1, can_accept_jobs=false, updated_at=now()
		WHERE id=$2 AND onboarding_status=$3 AND status=$4
		RETURNING `+driverColumns,
		domain.OnboardingContractsPending, id, domain.OnboardingNotStarted, domain.DriverStatusApproved)
	return scanDriver(row)
}

func (r *PGDriverRepository) SignContracts(ctx context.Context, id uuid.UUID, signedAt time.Time) (*domain.Driver, error) {
	row := r.db.QueryRow(ctx, `UPDATE drivers
		SET onboarding_status=$1,
			employment_signed_at=$2, conduct_signed_at=$2, deductions_signed_at=$2, privacy_signed_at=$2,
			can_accept_jobs=true, employee_start_date=$2, employment_type=$3, updated_at=now()
		WHERE id=$4 AND onboarding_status IN ($5, $6) AND status=$7 AND police_check_completed
		RETURNING `+driverColumns,
		domain.OnboardingActive, signedAt, domain.EmploymentEmployee, id,
		domain.OnboardingContractsPending, domain.OnboardingNotStarted, domain.DriverStatusApproved)
	return scanDriver(row)
}

var _ DriverRepository = (*PGDriverRepository)(nil)
