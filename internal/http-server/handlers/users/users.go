package users

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"licensedesk/entity"
	"licensedesk/internal/http-server/handlers/failure"
	"licensedesk/lib/api/cont"
	"licensedesk/lib/api/response"
	"licensedesk/lib/sl"
)

type Core interface {
	Users(ctx context.Context) ([]entity.User, error)
	UserAction(ctx context.Context, req *entity.UserActionRequest) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) error
	AddCredits(ctx context.Context, req *entity.AddCreditsRequest) (*entity.User, error)
}

func logger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.users"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger(log, r)

		users, err := handler.Users(r.Context())
		if err != nil {
			failure.Render(w, r, log, "list users", err)
			return
		}
		log.With(slog.Int("count", len(users))).Debug("users listed")

		render.JSON(w, r, response.Ok(users))
	}
}

func Action(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger(log, r)

		var req entity.UserActionRequest
		if err := render.Bind(r, &req); err != nil {
			failure.BadRequest(w, r, log, err)
			return
		}
		log = log.With(
			slog.String("user_id", req.UserID),
			slog.String("action", string(req.Action)),
			slog.String("operator", cont.GetOperator(r.Context()).Name),
		)

		user, err := handler.UserAction(r.Context(), &req)
		if err != nil {
			failure.Render(w, r, log, "user action", err)
			return
		}
		log.Info("user action")

		render.JSON(w, r, response.Ok(user))
	}
}

func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		log := logger(log, r).With(slog.String("user_id", id))

		if err := handler.DeleteUser(r.Context(), id); err != nil {
			failure.Render(w, r, log, "delete user", err)
			return
		}
		log.Info("user deleted")

		render.JSON(w, r, response.Ok(nil))
	}
}

func AddCredits(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger(log, r)

		var req entity.AddCreditsRequest
		if err := render.Bind(r, &req); err != nil {
			failure.BadRequest(w, r, log, err)
			return
		}
		log = log.With(slog.String("user_id", req.UserID), slog.Int("credits", req.CreditsToAdd))

		user, err := handler.AddCredits(r.Context(), &req)
		if err != nil {
			failure.Render(w, r, log, "add credits", err)
			return
		}

		render.JSON(w, r, response.Ok(user))
	}
}
