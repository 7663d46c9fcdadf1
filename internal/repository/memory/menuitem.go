package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/LacErnest/dj-assesment-api/internal/domain"
	"github.com/LacErnest/dj-assesment-api/internal/domain/models"
	"github.com/LacErnest/dj-assesment-api/internal/domain/repositories"
)

// MenuItemRepository implements repositories.MenuItemRepository on a
// Store.
type MenuItemRepository struct {
	store *Store
}

// NewMenuItemRepository creates a repository over the store
func NewMenuItemRepository(store *Store) repositories.MenuItemRepository {
	return &MenuItemRepository{store: store}
}

// rlock takes the read lock unless the context is already inside a
// transaction (which holds the write lock). Returns the matching unlock.
func (r *MenuItemRepository) rlock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	r.store.mu.RLock()
	return r.store.mu.RUnlock
}

// lock takes the write lock unless already inside a transaction
func (r *MenuItemRepository) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

// sortByInsertion orders items by created_at then id, the repository's
// documented stable listing order.
func sortByInsertion(items []models.MenuItem) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

// childrenOf returns the sorted direct children of parentID (roots when
// nil). Caller must hold a lock.
func (r *MenuItemRepository) childrenOf(parentID *string) []models.MenuItem {
	var children []models.MenuItem
	for _, item := range r.store.items {
		switch {
		case parentID == nil && item.ParentID == nil:
			children = append(children, item)
		case parentID != nil && item.ParentID != nil && *item.ParentID == *parentID:
			children = append(children, item)
		}
	}
	sortByInsertion(children)
	return children
}

// Create inserts a new item
func (r *MenuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	unlock := r.lock(ctx)
	defer unlock()

	if item.ParentID != nil {
		if _, ok := r.store.items[*item.ParentID]; !ok {
			return fmt.Errorf("parent %s: %w", *item.ParentID, domain.ErrNotFound)
		}
	}

	r.store.items[item.ID] = *item
	return nil
}

// GetByID retrieves an item by ID
func (r *MenuItemRepository) GetByID(ctx context.Context, id string) (*models.MenuItem, error) {
	unlock := r.rlock(ctx)
	defer unlock()

	item, ok := r.store.items[id]
	if !ok {
		return nil, fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
	}

	return &item, nil
}

// Update writes name, parent_id, depth and updated_at for an item
func (r *MenuItemRepository) Update(ctx context.Context, item *models.MenuItem) error {
	unlock := r.lock(ctx)
	defer unlock()

	if _, ok := r.store.items[item.ID]; !ok {
		return fmt.Errorf("menu item %s: %w", item.ID, domain.ErrNotFound)
	}
	if item.ParentID != nil {
		if _, ok := r.store.items[*item.ParentID]; !ok {
			return fmt.Errorf("parent %s: %w", *item.ParentID, domain.ErrNotFound)
		}
	}

	r.store.items[item.ID] = *item
	return nil
}

// Delete removes a single item
func (r *MenuItemRepository) Delete(ctx context.Context, id string) error {
	unlock := r.lock(ctx)
	defer unlock()

	if _, ok := r.store.items[id]; !ok {
		return fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
	}

	delete(r.store.items, id)
	return nil
}

// DeleteSubtree removes an item and all its descendants
func (r *MenuItemRepository) DeleteSubtree(ctx context.Context, id string) (int64, error) {
	unlock := r.lock(ctx)
	defer unlock()

	if _, ok := r.store.items[id]; !ok {
		return 0, nil
	}

	var removed int64
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, child := range r.childrenOf(&current) {
			queue = append(queue, child.ID)
		}

		delete(r.store.items, current)
		removed++
	}

	return removed, nil
}

// ListChildren lists direct children of parentID (roots when nil)
func (r *MenuItemRepository) ListChildren(ctx context.Context, parentID *string, limit, offset int) ([]models.MenuItem, error) {
	unlock := r.rlock(ctx)
	defer unlock()

	children := r.childrenOf(parentID)

	if offset > 0 {
		if offset >= len(children) {
			return nil, nil
		}
		children = children[offset:]
	}
	if limit > 0 && limit < len(children) {
		children = children[:limit]
	}

	return children, nil
}

// CountChildren returns the number of direct children of id
func (r *MenuItemRepository) CountChildren(ctx context.Context, id string) (int, error) {
	unlock := r.rlock(ctx)
	defer unlock()

	return len(r.childrenOf(&id)), nil
}

// ListSubtree lists all descendants of id breadth-first, at most maxDepth
// hops below id (unbounded when maxDepth < 0). The traversal is iterative
// and checks ctx between levels so huge trees stay cancelable.
func (r *MenuItemRepository) ListSubtree(ctx context.Context, id string, maxDepth int) ([]models.MenuItem, error) {
	unlock := r.rlock(ctx)
	defer unlock()

	if _, ok := r.store.items[id]; !ok {
		return nil, nil
	}

	var result []models.MenuItem
	frontier := []string{id}
	hops := 0

	for len(frontier) > 0 {
		if maxDepth >= 0 && hops >= maxDepth {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Whole level sorted together, matching the SQL backend's
		// (hops, created_at, id) ordering
		var level []models.MenuItem
		for _, current := range frontier {
			level = append(level, r.childrenOf(&current)...)
		}
		sortByInsertion(level)

		frontier = frontier[:0]
		for _, child := range level {
			result = append(result, child)
			frontier = append(frontier, child.ID)
		}
		hops++
	}

	return result, nil
}

// ListAncestors lists the ancestor chain of id, immediate parent first.
// The walk is bounded by the store size, so even a corrupted parent chain
// cannot loop forever.
func (r *MenuItemRepository) ListAncestors(ctx context.Context, id string) ([]models.MenuItem, error) {
	unlock := r.rlock(ctx)
	defer unlock()

	item, ok := r.store.items[id]
	if !ok {
		return nil, nil
	}

	var ancestors []models.MenuItem
	for hops := 0; item.ParentID != nil && hops <= len(r.store.items); hops++ {
		parent, ok := r.store.items[*item.ParentID]
		if !ok {
			break
		}
		ancestors = append(ancestors, parent)
		item = parent
	}

	return ancestors, nil
}

// ListAll returns every item, ordered by created_at
func (r *MenuItemRepository) ListAll(ctx context.Context) ([]models.MenuItem, error) {
	unlock := r.rlock(ctx)
	defer unlock()

	items := make([]models.MenuItem, 0, len(r.store.items))
	for _, item := range r.store.items {
		items = append(items, item)
	}
	sortByInsertion(items)

	return items, nil
}

// ShiftSubtreeDepth adds delta to the depth of id and all its descendants
func (r *MenuItemRepository) ShiftSubtreeDepth(ctx context.Context, id string, delta int) error {
	unlock := r.lock(ctx)
	defer unlock()

	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		item, ok := r.store.items[current]
		if !ok {
			continue
		}
		item.Depth += delta
		r.store.items[current] = item

		for _, child := range r.childrenOf(&current) {
			queue = append(queue, child.ID)
		}
	}

	return nil
}

// LockHierarchy is a no-op: the memory transaction manager already holds
// the store's write lock for the whole transaction, so structural
// mutations are serialized.
func (r *MenuItemRepository) LockHierarchy(ctx context.Context) error {
	if !inTx(ctx) {
		return fmt.Errorf("lock hierarchy: no transaction in context")
	}
	return nil
}
