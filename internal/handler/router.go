package handler

import (
	"log/slog"
	"net/http"

	"github.com/LacErnest/dj-assesment-api/internal/domain/services"
	"github.com/LacErnest/dj-assesment-api/internal/httputil"
)

// NewRouter builds the ServeMux for the menu API (Go 1.22+ method
// patterns). The literal /tree route takes precedence over the {id}
// wildcard.
func NewRouter(menuService services.MenuService, logger *slog.Logger) *http.ServeMux {
	menuHandler := NewMenuItemHandler(menuService, logger)
	treeHandler := NewTreeHandler(menuService, logger)

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Menu item routes
	mux.HandleFunc("POST /api/menu-items", menuHandler.CreateMenuItem)
	mux.HandleFunc("GET /api/menu-items", menuHandler.ListRoots)
	mux.HandleFunc("GET /api/menu-items/tree", treeHandler.GetTree)
	mux.HandleFunc("GET /api/menu-items/{id}", menuHandler.GetMenuItem)
	mux.HandleFunc("PATCH /api/menu-items/{id}", menuHandler.UpdateMenuItem)
	mux.HandleFunc("DELETE /api/menu-items/{id}", menuHandler.DeleteMenuItem)
	mux.HandleFunc("GET /api/menu-items/{id}/children", menuHandler.ListChildren)
	mux.HandleFunc("GET /api/menu-items/{id}/subtree", menuHandler.ListSubtree)
	mux.HandleFunc("GET /api/menu-items/{id}/ancestors", menuHandler.ListAncestors)

	return mux
}
