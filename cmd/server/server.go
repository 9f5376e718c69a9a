// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/courtbook/courtbook/internal/api"
	"github.com/courtbook/courtbook/internal/api/admin"
	"github.com/courtbook/courtbook/internal/api/comments"
	"github.com/courtbook/courtbook/internal/api/courts"
	"github.com/courtbook/courtbook/internal/api/floors"
	"github.com/courtbook/courtbook/internal/api/reservations"
	"github.com/courtbook/courtbook/internal/api/sports"
	"github.com/courtbook/courtbook/internal/api/users"
	"github.com/courtbook/courtbook/internal/booking"
	"github.com/courtbook/courtbook/internal/config"
	"github.com/courtbook/courtbook/internal/db"
	"github.com/courtbook/courtbook/internal/moderation"
	"github.com/courtbook/courtbook/internal/ratelimit"
	"github.com/courtbook/courtbook/internal/store"
)

func newServer(cfg *config.Config) (*http.Server, func(), error) {
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	cleanup := func() { database.Close() }

	st := store.New(database.Gorm)
	mod := moderation.New(st)
	bookings := booking.New(st)
	limiter := ratelimit.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	admin.InitHandlers(st, mod)
	users.InitHandlers(st)
	courts.InitHandlers(st)
	comments.InitHandlers(st)
	reservations.InitHandlers(st, bookings)
	floors.InitHandlers(st)
	sports.InitHandlers(st)

	router := http.NewServeMux()
	registerRoutes(router)

	handler := api.ChainMiddleware(
		router,
		api.WithAuth(cfg.App.SecretKey, st),
		limiter.Middleware,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, cleanup, nil
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /api/v1/register", users.HandleRegister)
	mux.HandleFunc("GET /api/v1/users/{id}", users.HandleProfile)
	mux.HandleFunc("GET /api/v1/me", users.HandleMe)
	mux.HandleFunc("GET /api/v1/me/warnings", users.HandleMyWarnings)
	mux.HandleFunc("GET /api/v1/me/role", users.HandleMyRole)
	mux.HandleFunc("PUT /api/v1/me/name", users.HandleUpdateMyName)
	mux.HandleFunc("PUT /api/v1/me/email", users.HandleUpdateMyEmail)
	mux.HandleFunc("DELETE /api/v1/me", users.HandleDeleteMe)

	// Moderation and administration
	mux.HandleFunc("POST /api/v1/users/{id}/warnings", admin.HandleIssueWarning)
	mux.HandleFunc("GET /api/v1/users/{id}/warnings", admin.HandleUserWarnings)
	mux.HandleFunc("GET /api/v1/users/{id}/role", admin.HandleUserRole)
	mux.HandleFunc("GET /api/v1/users", admin.HandleListUsers)
	mux.HandleFunc("GET /api/v1/admin/users/{id}", admin.HandleUserDetail)
	mux.HandleFunc("DELETE /api/v1/users/{id}", admin.HandleDeleteAccount)
	mux.HandleFunc("PUT /api/v1/users/{id}/name", admin.HandleUpdateName)
	mux.HandleFunc("PUT /api/v1/users/{id}/email", admin.HandleUpdateEmail)
	mux.HandleFunc("PUT /api/v1/users/{id}/active", admin.HandleUpdateActive)
	mux.HandleFunc("PUT /api/v1/users/{id}/role", admin.HandleUpdateRole)

	// Facility catalog
	mux.HandleFunc("GET /api/v1/courts", courts.HandleList)
	mux.HandleFunc("GET /api/v1/courts/{id}", courts.HandleDetail)
	mux.HandleFunc("GET /api/v1/courts/{id}/likes", courts.HandleLikes)
	mux.HandleFunc("POST /api/v1/courts", courts.HandleCreate)
	mux.HandleFunc("PUT /api/v1/courts/{id}", courts.HandleUpdate)
	mux.HandleFunc("DELETE /api/v1/courts/{id}", courts.HandleDelete)
	mux.HandleFunc("GET /api/v1/floors", floors.HandleList)
	mux.HandleFunc("GET /api/v1/floors/{id}", floors.HandleDetail)
	mux.HandleFunc("GET /api/v1/sports", sports.HandleList)
	mux.HandleFunc("GET /api/v1/sports/{id}", sports.HandleDetail)

	// Comments
	mux.HandleFunc("GET /api/v1/courts/{id}/comments", comments.HandleListByCourt)
	mux.HandleFunc("POST /api/v1/courts/{id}/comments", comments.HandleCreate)
	mux.HandleFunc("DELETE /api/v1/comments/{id}", comments.HandleDelete)

	// Reservations
	mux.HandleFunc("GET /api/v1/reservations", reservations.HandleList)
	mux.HandleFunc("GET /api/v1/reservations/exists", reservations.HandleExists)
	mux.HandleFunc("POST /api/v1/reservations", reservations.HandleCreate)
	mux.HandleFunc("DELETE /api/v1/reservations/{id}", reservations.HandleDelete)
	mux.HandleFunc("GET /api/v1/users/{id}/reservations", reservations.HandleListByUser)
	mux.HandleFunc("GET /api/v1/courts/{id}/reservations", reservations.HandleListByCourt)
}
