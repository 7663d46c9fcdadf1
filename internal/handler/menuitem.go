package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/LacErnest/dj-assesment-api/internal/domain/services"
	"github.com/LacErnest/dj-assesment-api/internal/httputil"
)

// MenuItemHandler handles menu item HTTP requests
type MenuItemHandler struct {
	menuService services.MenuService
	logger      *slog.Logger
}

// NewMenuItemHandler creates a new menu item handler
func NewMenuItemHandler(menuService services.MenuService, logger *slog.Logger) *MenuItemHandler {
	return &MenuItemHandler{
		menuService: menuService,
		logger:      logger,
	}
}

// CreateMenuItem creates a new menu item
// POST /api/menu-items
func (h *MenuItemHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req services.CreateMenuItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.menuService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, item)
}

// GetMenuItem retrieves a menu item with its root name and nested subtree
// GET /api/menu-items/{id}
func (h *MenuItemHandler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "menu item ID is required")
		return
	}

	detail, err := h.menuService.Detail(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, detail)
}

// updateMenuItemBody is the PATCH wire format. parent_id uses tri-state
// decoding: absent keeps the current parent, null moves to root.
type updateMenuItemBody struct {
	Name     *string                 `json:"name"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

// UpdateMenuItem renames and/or moves a menu item
// PATCH /api/menu-items/{id}
func (h *MenuItemHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "menu item ID is required")
		return
	}

	var body updateMenuItemBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := services.UpdateMenuItemRequest{Name: body.Name}
	if body.ParentID.Present {
		if body.ParentID.Value == nil {
			root := ""
			req.ParentID = &root
		} else {
			req.ParentID = body.ParentID.Value
		}
	}

	item, err := h.menuService.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// DeleteMenuItem deletes a menu item according to the policy query
// parameter (default reject-if-has-children)
// DELETE /api/menu-items/{id}?policy=
func (h *MenuItemHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "menu item ID is required")
		return
	}

	policy, err := services.ParseDeletePolicy(r.URL.Query().Get("policy"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.menuService.Delete(r.Context(), id, policy); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListRoots lists root menu items
// GET /api/menu-items?limit=&offset=
func (h *MenuItemHandler) ListRoots(w http.ResponseWriter, r *http.Request) {
	page, err := parsePagination(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.menuService.Children(r.Context(), nil, page)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, itemsOrEmpty(items))
}

// ListChildren lists the direct children of a menu item
// GET /api/menu-items/{id}/children?limit=&offset=
func (h *MenuItemHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "menu item ID is required")
		return
	}

	page, err := parsePagination(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.menuService.Children(r.Context(), &id, page)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, itemsOrEmpty(items))
}

// ListSubtree lists all descendants of a menu item breadth-first
// GET /api/menu-items/{id}/subtree?max_depth=
func (h *MenuItemHandler) ListSubtree(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "menu item ID is required")
		return
	}

	maxDepth := -1
	if raw := r.URL.Query().Get("max_depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			httputil.RespondError(w, http.StatusBadRequest, "max_depth must be a non-negative integer")
			return
		}
		maxDepth = parsed
	}

	items, err := h.menuService.Subtree(r.Context(), id, maxDepth)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, itemsOrEmpty(items))
}

// ListAncestors lists the chain from immediate parent to root
// GET /api/menu-items/{id}/ancestors
func (h *MenuItemHandler) ListAncestors(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "menu item ID is required")
		return
	}

	items, err := h.menuService.Ancestors(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, itemsOrEmpty(items))
}

// parsePagination reads limit/offset query parameters
func parsePagination(r *http.Request) (services.Pagination, error) {
	var page services.Pagination

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return page, &badQueryError{"limit must be a positive integer"}
		}
		page.Limit = limit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return page, &badQueryError{"offset must be a non-negative integer"}
		}
		page.Offset = offset
	}

	return page, nil
}

type badQueryError struct{ msg string }

func (e *badQueryError) Error() string { return e.msg }

// itemsOrEmpty keeps empty listings as [] instead of null in JSON
func itemsOrEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
