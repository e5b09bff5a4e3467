package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vncsmyrnk/quickpoll/internal/config"
)

type RouterConfig struct {
	// APIPrefix is "" or a path like "/api" without trailing slash.
	APIPrefix string
	Endpoints config.Endpoints
	// TrustProxy takes the client address from proxy headers.
	TrustProxy bool
}

func NewHandler(cfg RouterConfig, pollHandler *PollHandler, voteHandler *VoteHandler, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.Use(requestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, logger, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, logger, http.StatusMethodNotAllowed, "method not allowed")
	})

	routes := func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, logger, http.StatusOK, cfg.Endpoints)
		})

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", pollHandler.ListPolls)
			r.Post("/", pollHandler.CreatePoll)
			r.Get("/{id}", pollHandler.GetPoll)
			r.Get("/{id}/votes", pollHandler.GetResults)
			r.Get("/{id}/graph", pollHandler.GetGraph)
		})

		r.Route("/poll-options", func(r chi.Router) {
			r.Get("/{id}", pollHandler.GetOption)
			r.Post("/{id}/votes", voteHandler.CastVote)
		})
	}

	if cfg.APIPrefix == "" {
		routes(r)
	} else {
		r.Route(cfg.APIPrefix, routes)
	}

	return r
}
