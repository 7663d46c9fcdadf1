package handler

import (
	"log/slog"
	"net/http"

	"github.com/LacErnest/dj-assesment-api/internal/domain/services"
	"github.com/LacErnest/dj-assesment-api/internal/httputil"
)

// TreeHandler handles HTTP requests for the full menu hierarchy
type TreeHandler struct {
	menuService services.MenuService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(menuService services.MenuService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		menuService: menuService,
		logger:      logger,
	}
}

// GetTree returns the whole forest as nested nodes
// GET /api/menu-items/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.menuService.Tree(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}
