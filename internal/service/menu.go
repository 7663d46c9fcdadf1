package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/LacErnest/dj-assesment-api/internal/config"
	"github.com/LacErnest/dj-assesment-api/internal/domain"
	"github.com/LacErnest/dj-assesment-api/internal/domain/models"
	"github.com/LacErnest/dj-assesment-api/internal/domain/repositories"
	"github.com/LacErnest/dj-assesment-api/internal/domain/services"
)

// menuService implements services.MenuService. Structural mutations run
// inside a transaction under the hierarchy lock, so cycle validation and
// depth propagation always see a settled tree.
type menuService struct {
	repo      repositories.MenuItemRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewMenuService creates a new menu service
func NewMenuService(
	repo repositories.MenuItemRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.MenuService {
	return &menuService{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

// validateName checks a single name value against the item name rules
func validateName(name string) error {
	if err := validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxMenuItemNameLength),
	); err != nil {
		return fmt.Errorf("%w: name %v", domain.ErrValidation, err)
	}
	return nil
}

// Create creates a new menu item. Depth is derived from the parent inside
// the same transaction as the insert, so there is no window where it is
// stale.
func (s *menuService) Create(ctx context.Context, req *services.CreateMenuItemRequest) (*models.MenuItem, error) {
	req.Name = services.NormalizeName(req.Name)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	item := &models.MenuItem{
		ID:        uuid.New().String(),
		Name:      req.Name,
		ParentID:  req.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockHierarchy(ctx); err != nil {
			return err
		}

		if req.ParentID != nil {
			parent, err := s.repo.GetByID(ctx, *req.ParentID)
			if err != nil {
				return fmt.Errorf("parent: %w", err)
			}
			item.Depth = parent.Depth + 1
		}

		return s.repo.Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("menu item created", "id", item.ID, "depth", item.Depth)
	return item, nil
}

// Get retrieves a single menu item; unknown ids fail with
// domain.ErrNotFound.
func (s *menuService) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	return s.repo.GetByID(ctx, id)
}

// Detail retrieves an item together with its root's name and nested
// subtree.
func (s *menuService) Detail(ctx context.Context, id string) (*models.MenuItemDetail, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rootName := item.Name
	ancestors, err := s.repo.ListAncestors(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(ancestors) > 0 {
		rootName = ancestors[len(ancestors)-1].Name
	}

	descendants, err := s.repo.ListSubtree(ctx, id, -1)
	if err != nil {
		return nil, err
	}

	nodes, _ := nestItems(append([]models.MenuItem{*item}, descendants...))

	return &models.MenuItemDetail{
		Item:     item,
		RootName: rootName,
		Subtree:  nodes[item.ID],
	}, nil
}

// Rename changes the item's name and bumps updated_at. Renaming to the
// current name is a successful mutation and still bumps updated_at.
func (s *menuService) Rename(ctx context.Context, id, name string) (*models.MenuItem, error) {
	name = services.NormalizeName(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	var item *models.MenuItem
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var err error
		item, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		item.Name = name
		item.UpdatedAt = time.Now()
		return s.repo.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// Move re-parents the item under newParentID (root when nil).
func (s *menuService) Move(ctx context.Context, id string, newParentID *string) (*models.MenuItem, error) {
	var item *models.MenuItem
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockHierarchy(ctx); err != nil {
			return err
		}

		var err error
		item, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		return s.moveLocked(ctx, item, newParentID)
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// moveLocked performs the re-parenting of item. Caller must be inside a
// transaction holding the hierarchy lock.
//
// Cycle check: the ancestor chain of the new parent is walked up to its
// root; the move is rejected when item appears on it (or is the new
// parent itself). The chain walk is bounded by tree height and runs under
// the hierarchy lock, so two concurrent moves cannot each validate
// against a pre-move chain and then both commit a cycle.
func (s *menuService) moveLocked(ctx context.Context, item *models.MenuItem, newParentID *string) error {
	newDepth := 0
	if newParentID != nil {
		if *newParentID == item.ID {
			return &domain.CycleError{Message: fmt.Sprintf("menu item %s cannot be its own parent", item.ID)}
		}

		parent, err := s.repo.GetByID(ctx, *newParentID)
		if err != nil {
			return fmt.Errorf("new parent: %w", err)
		}

		ancestors, err := s.repo.ListAncestors(ctx, parent.ID)
		if err != nil {
			return err
		}
		for i := range ancestors {
			if ancestors[i].ID == item.ID {
				return &domain.CycleError{Message: fmt.Sprintf(
					"cannot move menu item %s under its own descendant %s", item.ID, parent.ID)}
			}
		}

		newDepth = parent.Depth + 1
	}

	// Shift the whole subtree first (item included), then write the new
	// parent link. Depth propagation is a single delta because every
	// descendant keeps its distance to item.
	if delta := newDepth - item.Depth; delta != 0 {
		if err := s.repo.ShiftSubtreeDepth(ctx, item.ID, delta); err != nil {
			return err
		}
	}

	item.ParentID = newParentID
	item.Depth = newDepth
	item.UpdatedAt = time.Now()
	return s.repo.Update(ctx, item)
}

// Update applies PATCH semantics: any combination of rename and move in
// one transaction.
func (s *menuService) Update(ctx context.Context, id string, req *services.UpdateMenuItemRequest) (*models.MenuItem, error) {
	if req.Name != nil {
		trimmed := services.NormalizeName(*req.Name)
		req.Name = &trimmed
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var item *models.MenuItem
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockHierarchy(ctx); err != nil {
			return err
		}

		var err error
		item, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if req.ParentID != nil {
			newParentID := req.ParentID
			if *req.ParentID == "" {
				// Empty string moves the item to the root level
				newParentID = nil
			}
			if err := s.moveLocked(ctx, item, newParentID); err != nil {
				return err
			}
		}

		if req.Name != nil {
			item.Name = *req.Name
			item.UpdatedAt = time.Now()
			if err := s.repo.Update(ctx, item); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// Delete removes the item according to policy.
func (s *menuService) Delete(ctx context.Context, id string, policy services.DeletePolicy) error {
	return s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockHierarchy(ctx); err != nil {
			return err
		}

		item, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		switch policy {
		case services.DeleteCascade:
			removed, err := s.repo.DeleteSubtree(ctx, id)
			if err != nil {
				return err
			}
			s.logger.Debug("menu subtree deleted", "id", id, "removed", removed)
			return nil

		case services.DeleteReparentToGrandparent:
			// Each direct child moves up one level, keeping its subtree
			children, err := s.repo.ListChildren(ctx, &id, 0, 0)
			if err != nil {
				return err
			}
			for i := range children {
				if err := s.moveLocked(ctx, &children[i], item.ParentID); err != nil {
					return err
				}
			}
			return s.repo.Delete(ctx, id)

		case services.DeletePromoteChildrenToRoot:
			children, err := s.repo.ListChildren(ctx, &id, 0, 0)
			if err != nil {
				return err
			}
			for i := range children {
				if err := s.moveLocked(ctx, &children[i], nil); err != nil {
					return err
				}
			}
			return s.repo.Delete(ctx, id)

		case services.DeleteRejectIfHasChildren:
			count, err := s.repo.CountChildren(ctx, id)
			if err != nil {
				return err
			}
			if count > 0 {
				return &domain.HasChildrenError{Message: fmt.Sprintf(
					"menu item %s has %d direct children", id, count)}
			}
			return s.repo.Delete(ctx, id)

		default:
			return fmt.Errorf("%w: unknown delete policy %q", domain.ErrValidation, policy)
		}
	})
}

// Children lists direct children of parentID (roots when nil) in stable
// insertion order (created_at, then id).
func (s *menuService) Children(ctx context.Context, parentID *string, page services.Pagination) ([]models.MenuItem, error) {
	if parentID != nil {
		if _, err := s.repo.GetByID(ctx, *parentID); err != nil {
			return nil, err
		}
	}

	limit := page.Limit
	switch {
	case limit <= 0:
		limit = config.DefaultChildrenPageSize
	case limit > config.MaxChildrenPageSize:
		limit = config.MaxChildrenPageSize
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListChildren(ctx, parentID, limit, offset)
}

// Subtree lists all descendants of id breadth-first. Each call
// re-traverses current state; there is no shared cursor.
func (s *menuService) Subtree(ctx context.Context, id string, maxDepth int) ([]models.MenuItem, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListSubtree(ctx, id, maxDepth)
}

// Ancestors lists the chain from immediate parent up to the root
func (s *menuService) Ancestors(ctx context.Context, id string) ([]models.MenuItem, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListAncestors(ctx, id)
}

// Tree returns the entire forest as nested nodes
func (s *menuService) Tree(ctx context.Context) (*models.MenuTree, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	_, roots := nestItems(items)
	return &models.MenuTree{Roots: roots}, nil
}

// nestItems builds nested tree nodes from a flat item list. Items whose
// parent is not in the list become roots of the returned forest, which
// makes the same helper serve both the full tree and a single subtree.
func nestItems(items []models.MenuItem) (map[string]*models.MenuItemTreeNode, []*models.MenuItemTreeNode) {
	nodes := make(map[string]*models.MenuItemTreeNode, len(items))

	// First pass: create all nodes
	for i := range items {
		item := &items[i]
		nodes[item.ID] = &models.MenuItemTreeNode{
			ID:        item.ID,
			Name:      item.Name,
			ParentID:  item.ParentID,
			Depth:     item.Depth,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
			Children:  []*models.MenuItemTreeNode{},
		}
	}

	// Second pass: nest, preserving the input order
	var roots []*models.MenuItemTreeNode
	for i := range items {
		node := nodes[items[i].ID]
		if items[i].ParentID != nil {
			if parent, ok := nodes[*items[i].ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	return nodes, roots
}
