package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/garyjia/shareit/internal/application/port"
	"github.com/garyjia/shareit/internal/domain/entity"
)

// ItemRepository implements port.ItemRepository on PostgreSQL
type ItemRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *DB, logger *zap.Logger) *ItemRepository {
	return &ItemRepository{db: db, logger: logger}
}

func (r *ItemRepository) Create(ctx context.Context, item *entity.Item) error {
	err := r.db.querier(ctx).QueryRow(ctx,
		`INSERT INTO items (name, description, available, owner_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		item.Name, item.Description, item.Available, item.OwnerID,
	).Scan(&item.ID)
	if err != nil {
		r.logger.Error("Failed to create item", zap.Int64("owner_id", item.OwnerID), zap.Error(err))
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (r *ItemRepository) FindItem(ctx context.Context, id int64) (*entity.Item, error) {
	var item entity.Item
	err := r.db.querier(ctx).QueryRow(ctx,
		`SELECT id, name, description, available, owner_id FROM items WHERE id = $1`, id,
	).Scan(&item.ID, &item.Name, &item.Description, &item.Available, &item.OwnerID)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get item by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

func (r *ItemRepository) Update(ctx context.Context, item *entity.Item) error {
	tag, err := r.db.querier(ctx).Exec(ctx,
		`UPDATE items SET name = $1, description = $2, available = $3 WHERE id = $4`,
		item.Name, item.Description, item.Available, item.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update item", zap.Int64("id", item.ID), zap.Error(err))
		return fmt.Errorf("failed to update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item not found: %d", item.ID)
	}
	return nil
}

func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID int64, offset int64, limit int) ([]*entity.Item, error) {
	return r.list(ctx, `
		SELECT id, name, description, available, owner_id FROM items
		WHERE owner_id = $1 ORDER BY id LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
}

// Search matches text against name and description with ILIKE.
// Unavailable items are never returned.
func (r *ItemRepository) Search(ctx context.Context, text string, offset int64, limit int) ([]*entity.Item, error) {
	return r.list(ctx, `
		SELECT id, name, description, available, owner_id FROM items
		WHERE available AND (name ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\')
		ORDER BY id LIMIT $2 OFFSET $3
	`, likePattern(text), limit, offset)
}

func (r *ItemRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.db.querier(ctx).Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list items", zap.Error(err))
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[entity.Item])
	if err != nil {
		return nil, fmt.Errorf("failed to scan items: %w", err)
	}
	if items == nil {
		items = []*entity.Item{}
	}
	return items, nil
}

// likePattern escapes LIKE wildcards so the text matches literally
func likePattern(text string) string {
	return "%" + strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(text) + "%"
}

var _ port.ItemRepository = (*ItemRepository)(nil)
