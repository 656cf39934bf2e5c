package licenses

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"licensedesk/entity"
	"licensedesk/internal/http-server/handlers/failure"
	"licensedesk/lib/api/response"
	"licensedesk/lib/sl"
)

type Core interface {
	Licenses(ctx context.Context) ([]entity.License, error)
	CreateLicenses(ctx context.Context, req *entity.CreateLicensesRequest) ([]entity.License, error)
}

func List(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.licenses")
		log := logger.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		licenses, err := handler.Licenses(r.Context())
		if err != nil {
			failure.Render(w, r, log, "list licenses", err)
			return
		}

		render.JSON(w, r, response.Ok(licenses))
	}
}

func Create(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.licenses")
		log := logger.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.CreateLicensesRequest
		if err := render.Bind(r, &req); err != nil {
			failure.BadRequest(w, r, log, err)
			return
		}

		created, err := handler.CreateLicenses(r.Context(), &req)
		if err != nil {
			failure.Render(w, r, log, "create licenses", err)
			return
		}
		log.With(
			slog.Int("quantity", len(created)),
		).Debug("licenses created")

		render.JSON(w, r, response.Ok(created))
	}
}
