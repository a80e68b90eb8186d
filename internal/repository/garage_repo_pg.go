package repository

import (
	"context"
	"errors"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GarageRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Garage, error)
	GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*domain.Garage, error)
	ListApproved(ctx context.Context) ([]domain.Garage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.GarageApprovalStatus) (*domain.Garage, error)
}

type PGGarageRepository struct {
	db *pgxpool.Pool
}

func NewGarageRepository(db *pgxpool.Pool) GarageRepository {
	return &PGGarageRepository{db: db}
}

const garageColumns = `id, owner_user_id, name, linked_place_id, status, created_at, updated_at`

func scanGarage(row pgx.Row) (*domain.Garage, error) {
	var g domain.Garage
	if err := row.Scan(&g.ID, &g.OwnerUserID, &g.Name, &g.LinkedPlaceID, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *PGGarageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Garage, error) {
	row := r.db.QueryRow(ctx, `SELECT `+garageColumns+` FROM garages WHERE id=$1`, id)
	return scanGarage(row)
}

func (r *PGGarageRepository) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*domain.Garage, error) {
	row := r.db.QueryRow(ctx, `SELECT `+garageColumns+` FROM garages WHERE owner_user_id=$1`, ownerUserID)
	return scanGarage(row)
}

func (r *PGGarageRepository) ListApproved(ctx context.Context) ([]domain.Garage, error) {
	rows, err := r.db.Query(ctx, `SELECT `+garageColumns+` FROM garages WHERE status=$1 ORDER BY name`, domain.GarageApprovalApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var garages []domain.Garage
	for rows.Next() {
		g, err := scanGarage(rows)
		if err != nil {
			return nil, err
		}
		garages = append(garages, *g)
	}
	return garages, rows.Err()
}

func (r *PGGarageRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.GarageApprovalStatus) (*domain.Garage, error) {
	row := r.db.QueryRow(ctx, `UPDATE garages SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+garageColumns, status, id)
	return scanGarage(row)
}

var _ GarageRepository = (*PGGarageRepository)(nil)
