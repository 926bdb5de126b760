package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx, so every repository
// can run either on the pool or inside a transaction.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Repos groups the repositories bound to one Querier.
type Repos interface {
	Users() UserRepository
	Families() FamilyRepository
	Doorbells() DoorbellRepository
}

// Store exposes repositories on the shared pool and runs transactions.
type Store interface {
	Repos
	// InTx runs fn inside a single transaction. The transaction commits
	// when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(tx Repos) error) error
}

type repos struct {
	q Querier
}

func (r *repos) Users() UserRepository         { return NewUserRepository(r.q) }
func (r *repos) Families() FamilyRepository    { return NewFamilyRepository(r.q) }
func (r *repos) Doorbells() DoorbellRepository { return NewDoorbellRepository(r.q) }

type sqlStore struct {
	repos
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) Store {
	return &sqlStore{repos: repos{q: db}, db: db}
}

func (s *sqlStore) InTx(ctx context.Context, fn func(tx Repos) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			slog.Warn("transaction rollback failed", "error", rollbackErr)
		}
	}()

	err = fn(&repos{q: tx})
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}
