package repositories

import (
	"context"

	"github.com/LacErnest/dj-assesment-api/internal/domain/models"
)

// MenuItemRepository defines data access operations for menu items.
//
// Implementations are plain row stores: all hierarchy invariants (cycle
// rejection, depth propagation, delete policies) are enforced by the
// service layer, which composes these operations inside a transaction.
type MenuItemRepository interface {
	// Create inserts a new item. The caller supplies ID, Depth and
	// timestamps.
	Create(ctx context.Context, item *models.MenuItem) error

	// GetByID retrieves an item by ID
	GetByID(ctx context.Context, id string) (*models.MenuItem, error)

	// Update writes name, parent_id, depth and updated_at for an item
	Update(ctx context.Context, item *models.MenuItem) error

	// Delete removes a single item (not its descendants)
	Delete(ctx context.Context, id string) error

	// DeleteSubtree removes an item and all its descendants, returning
	// the number of rows removed
	DeleteSubtree(ctx context.Context, id string) (int64, error)

	// ListChildren lists direct children of parentID (roots when nil),
	// ordered by created_at then id. limit <= 0 means no limit.
	ListChildren(ctx context.Context, parentID *string, limit, offset int) ([]models.MenuItem, error)

	// CountChildren returns the number of direct children of id
	CountChildren(ctx context.Context, id string) (int, error)

	// ListSubtree lists all descendants of id (the item itself excluded)
	// in breadth-first order. maxDepth bounds the number of hops below id;
	// maxDepth < 0 means unbounded.
	ListSubtree(ctx context.Context, id string, maxDepth int) ([]models.MenuItem, error)

	// ListAncestors lists the ancestor chain of id, immediate parent
	// first, root last. Empty for roots.
	ListAncestors(ctx context.Context, id string) ([]models.MenuItem, error)

	// ListAll returns every item in the store, ordered by created_at
	ListAll(ctx context.Context) ([]models.MenuItem, error)

	// ShiftSubtreeDepth adds delta to the depth of id and every one of
	// its descendants
	ShiftSubtreeDepth(ctx context.Context, id string, delta int) error

	// LockHierarchy takes the hierarchy write lock for the duration of
	// the enclosing transaction. Structural mutations (move, delete with
	// reparenting) take it first so concurrent cycle checks serialize.
	LockHierarchy(ctx context.Context) error
}
