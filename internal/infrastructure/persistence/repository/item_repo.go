package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/garyjia/shareit/internal/application/port"
	"github.com/garyjia/shareit/internal/domain/entity"
	"github.com/garyjia/shareit/internal/infrastructure/persistence/sqlite"
)

// ItemRepository implements port.ItemRepository on SQLite
type ItemRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *sqlite.DB, logger *zap.Logger) *ItemRepository {
	return &ItemRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an item and assigns its ID
func (r *ItemRepository) Create(ctx context.Context, item *entity.Item) error {
	result, err := r.db.Executor(ctx).ExecContext(ctx,
		`INSERT INTO items (name, description, available, owner_id) VALUES (?, ?, ?, ?)`,
		item.Name, item.Description, item.Available, item.OwnerID,
	)
	if err != nil {
		r.logger.Error("Failed to create item", zap.Int64("owner_id", item.OwnerID), zap.Error(err))
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	item.ID = id
	return nil
}

// FindItem returns (nil, nil) when the item does not exist
func (r *ItemRepository) FindItem(ctx context.Context, id int64) (*entity.Item, error) {
	var item entity.Item
	err := r.db.Executor(ctx).QueryRowContext(ctx,
		`SELECT id, name, description, available, owner_id FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Description, &item.Available, &item.OwnerID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get item by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

// Update writes name, description and availability; the owner never changes
func (r *ItemRepository) Update(ctx context.Context, item *entity.Item) error {
	result, err := r.db.Executor(ctx).ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, available = ? WHERE id = ?`,
		item.Name, item.Description, item.Available, item.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update item", zap.Int64("id", item.ID), zap.Error(err))
		return fmt.Errorf("failed to update item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("item not found: %d", item.ID)
	}
	return nil
}

// ListByOwner pages through the owner's items ordered by ID
func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID int64, offset int64, limit int) ([]*entity.Item, error) {
	return r.list(ctx, `
		SELECT id, name, description, available, owner_id FROM items
		WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?
	`, ownerID, limit, offset)
}

// Search matches text against name and description, ignoring ASCII case.
// Unavailable items are never returned.
func (r *ItemRepository) Search(ctx context.Context, text string, offset int64, limit int) ([]*entity.Item, error) {
	pattern := likePattern(text)
	return r.list(ctx, `
		SELECT id, name, description, available, owner_id FROM items
		WHERE available = 1
		  AND (LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')
		ORDER BY id LIMIT ? OFFSET ?
	`, pattern, pattern, limit, offset)
}

func (r *ItemRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entity.Item, error) {
	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list items", zap.Error(err))
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []*entity.Item{}
	for rows.Next() {
		var item entity.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Available, &item.OwnerID); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// likePattern lowercases text and escapes LIKE wildcards so the text matches literally
func likePattern(text string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(text))
	return "%" + escaped + "%"
}

var _ port.ItemRepository = (*ItemRepository)(nil)
