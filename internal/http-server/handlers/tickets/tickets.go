package tickets

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
	Tickets(ctx context.Context) ([]entity.Ticket, error)
	RespondTicket(ctx context.Context, id, text string) (*entity.Ticket, error)
	DeleteTicket(ctx context.Context, id string) error
}

func List(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.tickets"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		tickets, err := handler.Tickets(r.Context())
		if err != nil {
			failure.Render(w, r, log, "list tickets", err)
			return
		}

		render.JSON(w, r, response.Ok(tickets))
	}
}

// Respond takes the answer text from the "response" query parameter.
func Respond(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		log := logger.With(
			sl.Module("http.handlers.tickets"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("ticket_id", id),
		)

		ticket, err := handler.RespondTicket(r.Context(), id, r.URL.Query().Get("response"))
		if err != nil {
			failure.Render(w, r, log, "respond ticket", err)
			return
		}
		log.Info("ticket answered")

		render.JSON(w, r, response.Ok(ticket))
	}
}

func Delete(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		log := logger.With(
			sl.Module("http.handlers.tickets"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("ticket_id", id),
		)

		if err := handler.DeleteTicket(r.Context(), id); err != nil {
			failure.Render(w, r, log, "delete ticket", err)
			return
		}

		render.JSON(w, r, response.Ok(nil))
	}
}
