package errors

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"licensedesk/lib/api/response"
	"licensedesk/lib/sl"
)

// NotAllowed answers a known path called with the wrong method, e.g. GET on an /admin write route.
func NotAllowed(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.With(
			sl.Module("http.handlers.errors"),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		).Debug("method not allowed")

		render.Status(r, http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Error("Method not allowed: "+r.Method))
	}
}
