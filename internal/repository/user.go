package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/homewatch/dashboard/internal/model"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrDuplicateUserID  = errors.New("user id already exists")
	ErrFamilyAlreadySet = errors.New("user already belongs to a family")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	// UpdateID rewrites a user's primary key, used when the session issuer
	// and the stored row disagree about the identifier.
	UpdateID(ctx context.Context, oldID, newID string) error
	// SetFamily links a familyless user to a family. It affects no rows
	// (ErrFamilyAlreadySet) when the user already has one.
	SetFamily(ctx context.Context, userID, familyID string, joinedAt time.Time) error
	UpdateImage(ctx context.Context, userID string, image *string) error
}

type userRepository struct {
	db Querier
}

func NewUserRepository(db Querier) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO users (id, email, name, image, password_hash, family_id, family_joined_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Image,
		user.PasswordHash,
		user.FamilyID,
		user.FamilyJoinedAt,
		user.CreatedAt,
	)
	if isUniqueViolation(err, "email") {
		return ErrDuplicateEmail
	}
	if isUniqueViolation(err, "id") {
		return ErrDuplicateUserID
	}
	return err
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) UpdateID(ctx context.Context, oldID, newID string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET id = $1 WHERE id = $2`, newID, oldID)
	if isUniqueViolation(err, "id") {
		return ErrDuplicateUserID
	}
	if err != nil {
		return err
	}

	return requireRow(result, ErrUserNotFound)
}

func (r *userRepository) SetFamily(ctx context.Context, userID, familyID string, joinedAt time.Time) error {
	query := `UPDATE users SET family_id = $1, family_joined_at = $2
	          WHERE id = $3 AND family_id IS NULL`

	result, err := r.db.ExecContext(ctx, query, familyID, joinedAt, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	// Distinguish a missing user from a user who is already linked.
	_, err = r.ByID(ctx, userID)
	if err != nil {
		return err
	}
	return ErrFamilyAlreadySet
}

func (r *userRepository) UpdateImage(ctx context.Context, userID string, image *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET image = $1 WHERE id = $2`, image, userID)
	if err != nil {
		return err
	}

	return requireRow(result, ErrUserNotFound)
}

func requireRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
