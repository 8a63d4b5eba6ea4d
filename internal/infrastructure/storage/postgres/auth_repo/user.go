// Package auth_repo provides the PostgreSQL user repository.
package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/internal/domain/auth"
	"stockledger/internal/infrastructure/storage/postgres"
)

const usersTable = "auth_users"

var userColumns = []string{
	"id", "username", "password_hash", "is_admin", "is_active",
	"last_login_at", "created_at",
}

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txm *postgres.TxManager) *UserRepo {
	return &UserRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a user row.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	q := r.builder.
		Insert(usersTable).
		Columns("id", "username", "password_hash", "is_admin", "is_active", "created_at").
		Values(user.ID, user.Username, user.PasswordHash, user.IsAdmin, user.IsActive, squirrel.Expr("now()"))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("user", "username", user.Username)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByUsername returns a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	return r.getBy(ctx, squirrel.Eq{"username": username}, username)
}

// GetByID returns a user by id.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": userID}, userID.String())
}

func (r *UserRepo) getBy(ctx context.Context, where squirrel.Eq, key string) (*auth.User, error) {
	q := r.builder.
		Select(userColumns...).
		From(usersTable).
		Where(where)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var user auth.User
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &user, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", key)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// RecordLogin stamps the last successful login.
func (r *UserRepo) RecordLogin(ctx context.Context, userID id.ID) error {
	q := r.builder.
		Update(usersTable).
		Set("last_login_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": userID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

var _ auth.UserRepository = (*UserRepo)(nil)
