package logs

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"licensedesk/entity"
	"licensedesk/internal/http-server/handlers/failure"
	"licensedesk/lib/api/response"
	"licensedesk/lib/sl"
)

type Core interface {
	Activities(ctx context.Context) ([]entity.ActivityLogEntry, error)
	Executions(ctx context.Context) ([]entity.ExecutionRecord, error)
	ClearLogs(ctx context.Context, kind entity.LogKind) (int64, error)
}

type cleared struct {
	Deleted int64 `json:"deleted"`
}

func Activities(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(sl.Module("http.handlers.logs"), slog.String("request_id", middleware.GetReqID(r.Context())))

		items, err := handler.Activities(r.Context())
		if err != nil {
			failure.Render(w, r, log, "list activities", err)
			return
		}
		render.JSON(w, r, response.Ok(items))
	}
}

func Executions(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(sl.Module("http.handlers.logs"), slog.String("request_id", middleware.GetReqID(r.Context())))

		items, err := handler.Executions(r.Context())
		if err != nil {
			failure.Render(w, r, log, "list executions", err)
			return
		}
		render.JSON(w, r, response.Ok(items))
	}
}

func Clear(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := entity.LogKind(chi.URLParam(r, "type"))
		log := logger.With(
			sl.Module("http.handlers.logs"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("kind", string(kind)),
		)

		n, err := handler.ClearLogs(r.Context(), kind)
		if err != nil {
			failure.Render(w, r, log, "clear logs", err)
			return
		}
		render.JSON(w, r, response.Ok(cleared{Deleted: n}))
	}
}
