package messages

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"licensedesk/internal/http-server/handlers/failure"
	"licensedesk/lib/api/response"
	"licensedesk/lib/sl"
)

type Core interface {
	SendMessage(ctx context.Context, telegramId int64, text string) error
}

// Send reads telegram_id and message from the query string.
func Send(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.messages"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		q := r.URL.Query()
		telegramId, err := strconv.ParseInt(q.Get("telegram_id"), 10, 64)
		if err != nil {
			failure.BadRequest(w, r, log, fmt.Errorf("telegram_id: %w", err))
			return
		}

		if err = handler.SendMessage(r.Context(), telegramId, q.Get("message")); err != nil {
			failure.Render(w, r, log.With(slog.Int64("telegram_id", telegramId)), "send message", err)
			return
		}

		render.JSON(w, r, response.Ok(nil))
	}
}
