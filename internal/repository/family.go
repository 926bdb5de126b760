package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/homewatch/dashboard/internal/model"
)

var (
	ErrFamilyNotFound    = errors.New("family not found")
	ErrDuplicateJoinCode = errors.New("join code already exists")
)

type FamilyRepository interface {
	// Create inserts a family. The UNIQUE index on join_code rejects a
	// duplicate with ErrDuplicateJoinCode even if a concurrent insert won
	// the race after JoinCodeExists returned false.
	Create(ctx context.Context, family *model.Family) error
	ByID(ctx context.Context, id string) (*model.Family, error)
	ByJoinCode(ctx context.Context, code string) (*model.Family, error)
	JoinCodeExists(ctx context.Context, code string) (bool, error)
	// Members returns the roster ordered by join time, oldest first.
	Members(ctx context.Context, familyID string) ([]*model.Member, error)
	ReassignCreator(ctx context.Context, oldID, newID string) error
}

type familyRepository struct {
	db Querier
}

func NewFamilyRepository(db Querier) FamilyRepository {
	return &familyRepository{db: db}
}

func (r *familyRepository) Create(ctx context.Context, family *model.Family) error {
	if family.CreatedAt.IsZero() {
		family.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO families (id, name, join_code, creator_id, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		family.ID,
		family.Name,
		family.JoinCode,
		family.CreatorID,
		family.CreatedAt,
	)
	if isUniqueViolation(err, "join_code") {
		return ErrDuplicateJoinCode
	}
	return err
}

func (r *familyRepository) ByID(ctx context.Context, id string) (*model.Family, error) {
	family := &model.Family{}

	err := r.db.GetContext(ctx, family, `SELECT * FROM families WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFamilyNotFound
	}
	if err != nil {
		return nil, err
	}

	return family, nil
}

func (r *familyRepository) ByJoinCode(ctx context.Context, code string) (*model.Family, error) {
	family := &model.Family{}

	err := r.db.GetContext(ctx, family, `SELECT * FROM families WHERE join_code = $1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFamilyNotFound
	}
	if err != nil {
		return nil, err
	}

	return family, nil
}

func (r *familyRepository) JoinCodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	err := r.db.QueryRowxContext(ctx, `SELECT COUNT(*) FROM families WHERE join_code = $1`, code).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *familyRepository) Members(ctx context.Context, familyID string) ([]*model.Member, error) {
	members := []*model.Member{}
	query := `SELECT id, name, email, image, created_at
	          FROM users
	          WHERE family_id = $1
	          ORDER BY family_joined_at ASC, created_at ASC, id ASC`

	err := r.db.SelectContext(ctx, &members, query, familyID)
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (r *familyRepository) ReassignCreator(ctx context.Context, oldID, newID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE families SET creator_id = $1 WHERE creator_id = $2`, newID, oldID)
	return err
}
