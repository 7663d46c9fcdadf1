package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/LacErnest/dj-assesment-api/internal/domain"
	"github.com/LacErnest/dj-assesment-api/internal/httputil"
)

// handleError maps domain errors to HTTP responses. Typed errors carry
// their own status via domain.HTTPError; wrapped sentinels are matched
// with errors.Is. Anything else is a 500 and gets logged.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCycle),
		errors.Is(err, domain.ErrHasChildren),
		errors.Is(err, domain.ErrConcurrentModification):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("internal error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
