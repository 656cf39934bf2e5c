package failure

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"licensedesk/impl/core"
	"licensedesk/lib/api/response"
	"licensedesk/lib/sl"
)

// Status maps core errors to HTTP status codes; anything unrecognised is a 500.
func Status(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, core.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Render logs the failed operation and writes the error envelope.
func Render(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error) {
	code := Status(err)
	if code >= http.StatusInternalServerError {
		log.Error(op, sl.Err(err))
	} else {
		log.Warn(op, sl.Err(err))
	}
	render.Status(r, code)
	render.JSON(w, r, response.Error(fmt.Sprintf("%s: %v", op, err)))
}

// BadRequest answers 400 for a body or parameter that failed to bind.
func BadRequest(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.Warn("invalid request", sl.Err(err))
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
}
