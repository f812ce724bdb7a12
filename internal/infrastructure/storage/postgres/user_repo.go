package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/domain/auth"
)

const usersTable = "users"

// UserRepo implements auth.UserRepository over PostgreSQL.
type UserRepo struct {
	pool    *Pool
	builder squirrel.StatementBuilderType
}

// NewUserRepo creates the durable user repository.
func NewUserRepo(pool *Pool) *UserRepo {
	return &UserRepo{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ auth.UserRepository = (*UserRepo)(nil)

const userColumns = "id, name, username, password_hash, role, created_at, updated_at"

// Create implements auth.UserRepository.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	sql, args, err := r.builder.
		Insert(usersTable).
		Columns("id", "name", "username", "password_hash", "role", "created_at", "updated_at").
		Values(user.ID, user.Name, user.Username, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("user", "username", user.Username)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID implements auth.UserRepository.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	var user auth.User
	err := pgxscan.Get(ctx, r.pool, &user,
		"SELECT "+userColumns+" FROM "+usersTable+" WHERE id = $1", userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// GetByUsername implements auth.UserRepository.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	var user auth.User
	err := pgxscan.Get(ctx, r.pool, &user,
		"SELECT "+userColumns+" FROM "+usersTable+" WHERE username = $1", username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", username)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// Update implements auth.UserRepository.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	sql, args, err := r.builder.
		Update(usersTable).
		Set("name", user.Name).
		Set("username", user.Username).
		Set("password_hash", user.PasswordHash).
		Set("role", user.Role).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", user.ID)
	}
	return nil
}

// Delete implements auth.UserRepository.
func (r *UserRepo) Delete(ctx context.Context, userID id.ID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM "+usersTable+" WHERE id = $1", userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID)
	}
	return nil
}

// List implements auth.UserRepository.
func (r *UserRepo) List(ctx context.Context) ([]auth.User, error) {
	var users []auth.User
	err := pgxscan.Select(ctx, r.pool, &users,
		"SELECT "+userColumns+" FROM "+usersTable+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Exists implements auth.UserRepository.
func (r *UserRepo) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM "+usersTable+" WHERE username = $1)", username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}
