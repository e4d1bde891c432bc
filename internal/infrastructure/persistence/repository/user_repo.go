package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/shareit/internal/application/port"
	"github.com/garyjia/shareit/internal/domain/entity"
	"github.com/garyjia/shareit/internal/infrastructure/persistence/sqlite"
)

// UserRepository implements port.UserRepository on SQLite
type UserRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlite.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a user and assigns its ID
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	result, err := r.db.Executor(ctx).ExecContext(ctx,
		`INSERT INTO users (name, email) VALUES (?, ?)`,
		user.Name, user.Email,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = id
	return nil
}

// FindUser returns (nil, nil) when the user does not exist
func (r *UserRepository) FindUser(ctx context.Context, id int64) (*entity.User, error) {
	return r.findOne(ctx, `SELECT id, name, email FROM users WHERE id = ?`, id)
}

// FindByEmail returns (nil, nil) when no user has the address
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT id, name, email FROM users WHERE email = ?`, email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg interface{}) (*entity.User, error) {
	var user entity.User
	err := r.db.Executor(ctx).QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Name, &user.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get user", zap.Any("key", arg), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// ItemsOwnedBy returns the IDs of the user's items in ascending order
func (r *UserRepository) ItemsOwnedBy(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Executor(ctx).QueryContext(ctx,
		`SELECT id FROM items WHERE owner_id = ? ORDER BY id`, userID)
	if err != nil {
		r.logger.Error("Failed to list owned items", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list owned items: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// List returns every user ordered by ID
func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.db.Executor(ctx).QueryContext(ctx, `SELECT id, name, email FROM users ORDER BY id`)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*entity.User{}
	for rows.Next() {
		var user entity.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// Update writes name and email
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	result, err := r.db.Executor(ctx).ExecContext(ctx,
		`UPDATE users SET name = ?, email = ? WHERE id = ?`,
		user.Name, user.Email, user.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update user", zap.Int64("id", user.ID), zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user not found: %d", user.ID)
	}
	return nil
}

// Delete removes the user; it reports false when no row matched
func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.Executor(ctx).ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete user", zap.Int64("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows == 1, nil
}

var _ port.UserRepository = (*UserRepository)(nil)
