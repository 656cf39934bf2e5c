package accounts

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
	Accounts(ctx context.Context) ([]entity.Account, error)
	CreateAccount(ctx context.Context, req *entity.AccountCreate) (*entity.Account, error)
}

func List(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(sl.Module("http.handlers.accounts"), slog.String("request_id", middleware.GetReqID(r.Context())))

		accounts, err := handler.Accounts(r.Context())
		if err != nil {
			failure.Render(w, r, log, "list accounts", err)
			return
		}
		render.JSON(w, r, response.Ok(accounts))
	}
}

func Create(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(sl.Module("http.handlers.accounts"), slog.String("request_id", middleware.GetReqID(r.Context())))

		var req entity.AccountCreate
		if err := render.Bind(r, &req); err != nil {
			failure.BadRequest(w, r, log, err)
			return
		}

		account, err := handler.CreateAccount(r.Context(), &req)
		if err != nil {
			failure.Render(w, r, log, "create account", err)
			return
		}
		log.With(slog.String("account_id", account.ID)).Info("account created")

		render.JSON(w, r, response.Ok(account))
	}
}
