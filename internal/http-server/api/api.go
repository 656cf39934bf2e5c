package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"licensedesk/internal/config"
	"licensedesk/internal/http-server/handlers/accounts"
	"licensedesk/internal/http-server/handlers/errors"
	"licensedesk/internal/http-server/handlers/licenses"
	"licensedesk/internal/http-server/handlers/logs"
	"licensedesk/internal/http-server/handlers/messages"
	"licensedesk/internal/http-server/handlers/tickets"
	"licensedesk/internal/http-server/handlers/users"
	"licensedesk/internal/http-server/middleware/authenticate"
	"licensedesk/internal/http-server/middleware/timeout"
	"licensedesk/lib/api/response"
	"licensedesk/lib/sl"
)

const serverName = "License Desk API Server"

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	users.Core
	licenses.Core
	tickets.Core
	logs.Core
	accounts.Core
	messages.Core
}

type about struct {
	Message string `json:"message"`
}

// NewRouter mounts the read routes and the admin routes under /api.
// Admin routes always need the bearer token; reads only when admin.protect_reads is set.
func NewRouter(conf *config.Config, log *slog.Logger, handler Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(timeout.Timeout(time.Duration(conf.Admin.Timeout) * time.Second))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/api", func(rootApi chi.Router) {
		rootApi.Get("/", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, response.Ok(about{Message: serverName}))
		})

		rootApi.Group(func(read chi.Router) {
			read.Use(authenticate.New(log, handler, conf.Admin.ProtectReads))
			read.Get("/users", users.List(log, handler))
			read.Get("/licenses", licenses.List(log, handler))
			read.Get("/tickets", tickets.List(log, handler))
			read.Get("/activities", logs.Activities(log, handler))
			read.Get("/script-executions", logs.Executions(log, handler))
			read.Get("/accounts", accounts.List(log, handler))
		})

		rootApi.Group(func(admin chi.Router) {
			admin.Use(authenticate.New(log, handler, true))
			admin.Post("/accounts", accounts.Create(log, handler))
			admin.Route("/admin", func(a chi.Router) {
				a.Post("/create-licenses", licenses.Create(log, handler))
				a.Post("/user-action", users.Action(log, handler))
				a.Delete("/user/{id}", users.Delete(log, handler))
				a.Post("/add-credits", users.AddCredits(log, handler))
				a.Post("/respond-ticket/{id}", tickets.Respond(log, handler))
				a.Delete("/ticket/{id}", tickets.Delete(log, handler))
				a.Delete("/clear-logs/{type}", logs.Clear(log, handler))
				a.Post("/send-message", messages.Send(log, handler))
			})
		})
	})

	return router
}

func New(conf *config.Config, log *slog.Logger, handler Handler) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      NewRouter(conf, log, handler),
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIp, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
