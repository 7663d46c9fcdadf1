package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LacErnest/dj-assesment-api/internal/domain"
	"github.com/LacErnest/dj-assesment-api/internal/domain/models"
	"github.com/LacErnest/dj-assesment-api/internal/domain/repositories"
)

// menuHierarchyLockID is the advisory lock key serializing structural
// mutations of the hierarchy ("menu" in ASCII).
const menuHierarchyLockID int64 = 0x6d656e75

// MenuItemRepository implements repositories.MenuItemRepository on
// PostgreSQL. All methods pick up a transaction from the context when one
// is present (see GetExecutor).
type MenuItemRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewMenuItemRepository creates a new menu item repository
func NewMenuItemRepository(config *RepositoryConfig) repositories.MenuItemRepository {
	return &MenuItemRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const menuItemColumns = "id, name, parent_id, depth, created_at, updated_at"

func scanMenuItem(row pgx.Row, item *models.MenuItem) error {
	return row.Scan(
		&item.ID,
		&item.Name,
		&item.ParentID,
		&item.Depth,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
}

func collectMenuItems(rows pgx.Rows) ([]models.MenuItem, error) {
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		if err := scanMenuItem(rows, &item); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu items: %w", err)
	}

	return items, nil
}

// Create inserts a new item
func (r *MenuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, parent_id, depth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.MenuItems)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		item.ID,
		item.Name,
		item.ParentID,
		item.Depth,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent %s: %w", *item.ParentID, domain.ErrNotFound)
		}
		return fmt.Errorf("create menu item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by ID
func (r *MenuItemRepository) GetByID(ctx context.Context, id string) (*models.MenuItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, menuItemColumns, r.tables.MenuItems)

	var item models.MenuItem
	err := scanMenuItem(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id), &item)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}

	return &item, nil
}

// Update writes name, parent_id, depth and updated_at for an item
func (r *MenuItemRepository) Update(ctx context.Context, item *models.MenuItem) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, parent_id = $2, depth = $3, updated_at = $4
		WHERE id = $5
	`, r.tables.MenuItems)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		item.Name,
		item.ParentID,
		item.Depth,
		item.UpdatedAt,
		item.ID,
	)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent %s: %w", *item.ParentID, domain.ErrNotFound)
		}
		return fmt.Errorf("update menu item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("menu item %s: %w", item.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a single item
func (r *MenuItemRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.MenuItems)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteSubtree removes an item and all its descendants.
// The foreign key is NO ACTION (end-of-statement check), so deleting the
// whole subtree in one statement satisfies it.
func (r *MenuItemRepository) DeleteSubtree(ctx context.Context, id string) (int64, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM %s WHERE id = $1
			UNION ALL
			SELECT m.id
			FROM %s m
			JOIN subtree s ON m.parent_id = s.id
		)
		DELETE FROM %s WHERE id IN (SELECT id FROM subtree)
	`, r.tables.MenuItems, r.tables.MenuItems, r.tables.MenuItems)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete subtree: %w", err)
	}

	return result.RowsAffected(), nil
}

// ListChildren lists direct children of parentID (roots when nil),
// ordered by created_at then id so the order is stable insertion order.
func (r *MenuItemRepository) ListChildren(ctx context.Context, parentID *string, limit, offset int) ([]models.MenuItem, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE parent_id IS NULL
			ORDER BY created_at ASC, id ASC
		`, menuItemColumns, r.tables.MenuItems)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE parent_id = $1
			ORDER BY created_at ASC, id ASC
		`, menuItemColumns, r.tables.MenuItems)
		args = append(args, *parentID)
	}

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}

	return collectMenuItems(rows)
}

// CountChildren returns the number of direct children of id
func (r *MenuItemRepository) CountChildren(ctx context.Context, id string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE parent_id = $1`, r.tables.MenuItems)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("count children: %w", err)
	}

	return count, nil
}

// ListSubtree lists all descendants of id breadth-first. maxDepth bounds
// the number of hops below id; maxDepth < 0 means unbounded.
func (r *MenuItemRepository) ListSubtree(ctx context.Context, id string, maxDepth int) ([]models.MenuItem, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT %s, 0 AS hops
			FROM %s
			WHERE id = $1
			UNION ALL
			SELECT m.id, m.name, m.parent_id, m.depth, m.created_at, m.updated_at, s.hops + 1
			FROM %s m
			JOIN subtree s ON m.parent_id = s.id
			WHERE $2::int < 0 OR s.hops < $2::int
		)
		SELECT %s
		FROM subtree
		WHERE hops > 0
		ORDER BY hops ASC, created_at ASC, id ASC
	`, menuItemColumns, r.tables.MenuItems, r.tables.MenuItems, menuItemColumns)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, id, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("list subtree: %w", err)
	}

	return collectMenuItems(rows)
}

// ListAncestors lists the ancestor chain of id, immediate parent first
func (r *MenuItemRepository) ListAncestors(ctx context.Context, id string) ([]models.MenuItem, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE ancestors AS (
			SELECT m.id, m.name, m.parent_id, m.depth, m.created_at, m.updated_at, 1 AS hops
			FROM %s m
			JOIN %s c ON m.id = c.parent_id
			WHERE c.id = $1
			UNION ALL
			SELECT m.id, m.name, m.parent_id, m.depth, m.created_at, m.updated_at, a.hops + 1
			FROM %s m
			JOIN ancestors a ON m.id = a.parent_id
		)
		SELECT %s
		FROM ancestors
		ORDER BY hops ASC
	`, r.tables.MenuItems, r.tables.MenuItems, r.tables.MenuItems, menuItemColumns)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list ancestors: %w", err)
	}

	return collectMenuItems(rows)
}

// ListAll returns every item, ordered by created_at
func (r *MenuItemRepository) ListAll(ctx context.Context) ([]models.MenuItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at ASC, id ASC
	`, menuItemColumns, r.tables.MenuItems)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all menu items: %w", err)
	}

	return collectMenuItems(rows)
}

// ShiftSubtreeDepth adds delta to the depth of id and all its descendants
func (r *MenuItemRepository) ShiftSubtreeDepth(ctx context.Context, id string, delta int) error {
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM %s WHERE id = $1
			UNION ALL
			SELECT m.id
			FROM %s m
			JOIN subtree s ON m.parent_id = s.id
		)
		UPDATE %s
		SET depth = depth + $2
		WHERE id IN (SELECT id FROM subtree)
	`, r.tables.MenuItems, r.tables.MenuItems, r.tables.MenuItems)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, delta); err != nil {
		return fmt.Errorf("shift subtree depth: %w", err)
	}

	return nil
}

// LockHierarchy takes a transaction-scoped advisory lock serializing
// structural mutations. Two concurrent moves therefore validate against
// a settled tree; the lock releases at commit or rollback.
func (r *MenuItemRepository) LockHierarchy(ctx context.Context) error {
	if repositories.GetTx(ctx) == nil {
		return fmt.Errorf("lock hierarchy: no transaction in context")
	}

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, menuHierarchyLockID); err != nil {
		return fmt.Errorf("lock hierarchy: %w", err)
	}

	return nil
}
