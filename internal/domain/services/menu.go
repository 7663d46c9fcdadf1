package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/LacErnest/dj-assesment-api/internal/config"
	"github.com/LacErnest/dj-assesment-api/internal/domain/models"
)

// MenuService handles menu hierarchy business logic.
//
// Lookup convention: operations taking an id fail with domain.ErrNotFound
// when the id is unknown; they never return a nil item with a nil error.
type MenuService interface {
	// Create creates a new menu item, as a root when req.ParentID is nil
	Create(ctx context.Context, req *CreateMenuItemRequest) (*models.MenuItem, error)

	// Get retrieves a single menu item
	Get(ctx context.Context, id string) (*models.MenuItem, error)

	// Detail retrieves a menu item together with its root's name and the
	// nested subtree below it
	Detail(ctx context.Context, id string) (*models.MenuItemDetail, error)

	// Update applies PATCH semantics: rename and/or move in one call
	Update(ctx context.Context, id string, req *UpdateMenuItemRequest) (*models.MenuItem, error)

	// Rename changes the item's name only
	Rename(ctx context.Context, id, name string) (*models.MenuItem, error)

	// Move re-parents the item under newParentID, or makes it a root when
	// newParentID is nil. Depth changes cascade to the whole subtree.
	Move(ctx context.Context, id string, newParentID *string) (*models.MenuItem, error)

	// Delete removes the item according to policy
	Delete(ctx context.Context, id string, policy DeletePolicy) error

	// Children lists direct children of parentID (roots when nil) in
	// insertion order
	Children(ctx context.Context, parentID *string, page Pagination) ([]models.MenuItem, error)

	// Subtree lists all descendants of id breadth-first, at most maxDepth
	// hops below id (unbounded when maxDepth < 0)
	Subtree(ctx context.Context, id string, maxDepth int) ([]models.MenuItem, error)

	// Ancestors lists the chain from immediate parent up to the root
	Ancestors(ctx context.Context, id string) ([]models.MenuItem, error)

	// Tree returns the entire forest as nested nodes
	Tree(ctx context.Context) (*models.MenuTree, error)
}

// DeletePolicy selects what happens to a deleted item's descendants.
type DeletePolicy string

const (
	// DeleteCascade removes the item and its entire subtree
	DeleteCascade DeletePolicy = "cascade"

	// DeleteReparentToGrandparent moves each direct child under the
	// deleted item's former parent (root when the item was a root)
	DeleteReparentToGrandparent DeletePolicy = "reparent-to-grandparent"

	// DeletePromoteChildrenToRoot makes each direct child a root
	DeletePromoteChildrenToRoot DeletePolicy = "promote-children-to-root"

	// DeleteRejectIfHasChildren fails when the item has direct children
	DeleteRejectIfHasChildren DeletePolicy = "reject-if-has-children"
)

// ParseDeletePolicy parses a policy string; empty defaults to
// reject-if-has-children, the safest policy and the original API's
// behavior.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(s) {
	case "":
		return DeleteRejectIfHasChildren, nil
	case DeleteCascade, DeleteReparentToGrandparent, DeletePromoteChildrenToRoot, DeleteRejectIfHasChildren:
		return DeletePolicy(s), nil
	default:
		return "", fmt.Errorf("unknown delete policy %q", s)
	}
}

// Pagination bounds a children listing. Zero Limit means the default page
// size.
type Pagination struct {
	Limit  int
	Offset int
}

// CreateMenuItemRequest represents a menu item creation request
type CreateMenuItemRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}

// nameRule rejects names that are empty once trimmed
var nameRule = validation.Match(regexp.MustCompile(`\S`)).Error("name cannot be blank")

// Validate checks the request fields
func (req *CreateMenuItemRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxMenuItemNameLength),
			nameRule,
		),
	)
}

// UpdateMenuItemRequest represents a menu item update request.
// Nil fields are left unchanged. A ParentID pointing at the empty string
// moves the item to the root level (the handler maps JSON null to that).
type UpdateMenuItemRequest struct {
	Name     *string `json:"name,omitempty"`
	ParentID *string `json:"parent_id,omitempty"`
}

// Validate checks the request fields
func (req *UpdateMenuItemRequest) Validate() error {
	rules := []*validation.FieldRules{}
	if req.Name != nil {
		rules = append(rules, validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxMenuItemNameLength),
			nameRule,
		))
	}
	return validation.ValidateStruct(req, rules...)
}

// NormalizeName strips surrounding whitespace from a menu item name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
