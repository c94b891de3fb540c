/**
 * @description
 * This file sets up the HTTP router for the banking API. It defines the API
 * endpoints, associates them with their corresponding handlers, and applies
 * the middleware stack: CORS, logging, panic recovery, timeouts, rate limiting
 * and authentication.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sterlingbank/banking-api/internal/app"
)

// RouterConfig carries the rate-limit settings applied to the API surface.
type RouterConfig struct {
	Limiter          app.RateLimiter
	LoginRateLimit   int
	LoginRateWindow  time.Duration
	APIRateLimit     int
	APIRateWindow    time.Duration
}

// Routes creates and returns the router for the banking API.
func Routes(h *Handlers, auth TokenAuthenticator, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(RateLimitMiddleware(cfg.Limiter, "api", cfg.APIRateLimit, cfg.APIRateWindow))

	// Health check endpoint
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Authentication endpoints. Login carries its own tighter limit.
	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(cfg.Limiter, "auth", cfg.LoginRateLimit, cfg.LoginRateWindow))
		r.Post("/api/auth/login", h.LoginHandler)
	})

	// Everything else requires an authenticated session.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(auth))

		r.Post("/api/auth/logout", h.LogoutHandler)

		r.Get("/api/dashboard", h.DashboardHandler)

		r.Get("/api/accounts", h.ListAccountsHandler)
		r.Get("/api/accounts/{id}", h.GetAccountHandler)

		r.Get("/api/payees", h.ListPayeesHandler)
		r.Post("/api/payees", h.AddPayeeHandler)
		r.Delete("/api/payees/{id}", h.DeletePayeeHandler)

		r.Post("/api/verify-transaction-password", h.VerifyTransactionPasswordHandler)
		r.Post("/api/transactions/send", h.SendMoneyHandler)
		r.Get("/api/transactions", h.ListTransactionsHandler)
		r.Get("/api/transactions/{id}", h.GetTransactionHandler)

		r.Get("/api/profile", h.GetProfileHandler)
		r.Put("/api/profile", h.UpdateProfileHandler)
		r.Put("/api/change-password", h.ChangePasswordHandler)

		r.Get("/api/audit-logs", h.ListAuditLogsHandler)
	})

	return r
}
