// Package httpapi wires the HTTP surface of the debt tracker service.
// It keeps handlers thin, delegating business rules to the service layer.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ospencer/debttrack/internal/service/debt"
	"github.com/ospencer/debttrack/internal/service/friend"
)

// Store bundles the repository and writer interfaces the API needs from a
// storage backend.
type Store interface {
	friend.Repo
	friend.Writer
	debt.Repo
	debt.Writer
}

// ReadyChecker reports whether the relational backend is reachable. A nil
// checker means the server is not backed by a database at all.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// Server wires handlers and middleware using Chi.
type Server struct {
	friendSvc friend.Service
	debtSvc   debt.Service
	db        ReadyChecker
	log       *slog.Logger
	rt        *chi.Mux
}

// New constructs the HTTP server with routes and middleware. db may be nil
// when the server runs without a relational backend; the health endpoint then
// reports database:false and no readiness gate is applied.
func New(store Store, db ReadyChecker, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{
		friendSvc: friend.New(store, store),
		debtSvc:   debt.New(store, store),
		db:        db,
		log:       logger,
		rt:        r,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route
// middleware. Every data route sits behind the readiness gate so an
// unreachable database turns into a uniform 503.
func (s *Server) routes() {
	s.rt.Group(func(r chi.Router) {
		r.Use(s.requireReady())
		// Friends
		r.Get("/friends", s.listFriends)
		r.With(s.validatePostFriend()).Post("/friends", s.postFriend)
		r.Get("/friends/{id}", s.getFriend)
		r.Delete("/friends/{id}", s.deleteFriend)
		// Debts
		r.Get("/debts", s.listDebts)
		r.With(s.validatePostDebt()).Post("/debts", s.postDebt)
		r.With(s.validatePatchDebt()).Patch("/debts/{id}", s.patchDebt)
		r.Delete("/debts/{id}", s.deleteDebt)
	})
	// Health and metrics (never gated)
	s.rt.Get("/health", s.health)
	s.rt.Handle("/metrics", metricsHandler())
}
