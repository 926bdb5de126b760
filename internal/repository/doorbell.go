package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/homewatch/dashboard/internal/model"
)

type DoorbellRepository interface {
	Create(ctx context.Context, doorbell *model.Doorbell) error
	ByFamily(ctx context.Context, familyID string) ([]*model.Doorbell, error)
	ReassignCreator(ctx context.Context, oldID, newID string) error
}

type doorbellRepository struct {
	db Querier
}

func NewDoorbellRepository(db Querier) DoorbellRepository {
	return &doorbellRepository{db: db}
}

func (r *doorbellRepository) Create(ctx context.Context, doorbell *model.Doorbell) error {
	if doorbell.ID == "" {
		doorbell.ID = uuid.New().String()
	}
	if doorbell.CreatedAt.IsZero() {
		doorbell.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO doorbells (id, family_id, name, location, model, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, doorbell.ID, doorbell.FamilyID, doorbell.Name, doorbell.Location, doorbell.Model, doorbell.CreatedBy, doorbell.CreatedAt)

	return err
}

func (r *doorbellRepository) ByFamily(ctx context.Context, familyID string) ([]*model.Doorbell, error) {
	doorbells := []*model.Doorbell{}

	err := r.db.SelectContext(ctx, &doorbells,
		`SELECT * FROM doorbells WHERE family_id = $1 ORDER BY created_at DESC, id ASC`, familyID)
	if err != nil {
		return nil, err
	}

	return doorbells, nil
}

// ReassignCreator moves doorbells registered by oldID to newID.
func (r *doorbellRepository) ReassignCreator(ctx context.Context, oldID, newID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE doorbells SET created_by = $1 WHERE created_by = $2`, newID, oldID)
	return err
}
