package models

import (
	"time"
)

// MenuItem is a single node in the menu hierarchy. ParentID is nil for
// roots. Depth is derived (0 for roots, parent depth + 1 otherwise) and is
// maintained by the store; callers never set it.
type MenuItem struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ParentID  *string   `json:"parent_id" db:"parent_id"`
	Depth     int       `json:"depth" db:"depth"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsRoot reports whether the item has no parent.
func (m *MenuItem) IsRoot() bool {
	return m.ParentID == nil
}

// MenuItemTreeNode is a menu item with its children nested inside, used by
// the full-hierarchy endpoint.
type MenuItemTreeNode struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	ParentID  *string             `json:"parent_id"`
	Depth     int                 `json:"depth"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Children  []*MenuItemTreeNode `json:"children"`
}

// MenuTree is the nested forest of all menu items.
type MenuTree struct {
	Roots []*MenuItemTreeNode `json:"roots"`
}

// MenuItemDetail is the single-item read response: the item itself, the
// name of the root it hangs under, and the nested subtree below it.
type MenuItemDetail struct {
	Item     *MenuItem         `json:"item"`
	RootName string            `json:"root_name"`
	Subtree  *MenuItemTreeNode `json:"subtree"`
}
