/*
Package handler provides the HTTP handlers and routing setup for the From Metro server.

This file defines the main Router, applying logging, CORS and per-IP rate limiting on the
write-heavy endpoints before delegating requests to the user, station and room handlers.
*/
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"izmetro/internal/pkg/limiter"
	"izmetro/internal/pkg/logx"
)

const (
	// CreateRate and CreateBurst limit registrations per client IP.
	CreateRate  = 0.2
	CreateBurst = 5

	// JoinRate and JoinBurst limit station joins per client IP.
	JoinRate  = 1
	JoinBurst = 10
)

// Router builds the chi routing table. ctx bounds the lifetime of the limiter sweepers.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	createLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(CreateRate), CreateBurst)
	joinLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(JoinRate), JoinBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/users", func(users chi.Router) {
			users.With(createLimiter.Middleware).Post("/", HandleCreateUser(deps))
			users.Get("/", HandleListUsers(deps))

			users.Route("/{id}", func(one chi.Router) {
				one.Get("/", HandleGetUser(deps))
				one.Put("/", HandleUpdateUser(deps))
				one.Delete("/", HandleDeleteUser(deps))
				one.Post("/ping", HandlePingUser(deps))
			})
		})

		api.Get("/stations", HandleListStations(deps))
		api.Get("/stations/waiting-room", HandleWaitingRoom(deps))

		api.With(joinLimiter.Middleware).Post("/rooms/join-station", HandleJoinStation(deps))
	})

	return r
}
