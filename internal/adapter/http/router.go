package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prestapp/prestamos/internal/adapter/http/handler"
	"github.com/prestapp/prestamos/internal/adapter/http/middleware"
	"github.com/prestapp/prestamos/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CapitalHandler   *handler.CapitalHandler
	LoanHandler      *handler.LoanHandler
	PaymentHandler   *handler.PaymentHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Logging          *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	} else {
		r.Use(chimiddleware.Logger)
	}
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API
	r.Route("/api", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Capital
		r.Route("/capital", func(r chi.Router) {
			r.Get("/", cfg.CapitalHandler.Get)
			r.Post("/", cfg.CapitalHandler.Update)
			r.Get("/historial", cfg.CapitalHandler.History)
		})

		// Loans and payments
		r.Route("/prestamos", func(r chi.Router) {
			r.Post("/", cfg.LoanHandler.Create)
			r.Get("/", cfg.LoanHandler.List)
			r.Get("/debe", cfg.LoanHandler.ListOwing)
			r.Get("/pagados/clientes", cfg.LoanHandler.PaidClients)
			r.Get("/reporte/diario", cfg.LoanHandler.DailyReport)
			r.Get("/reporte/ganancias", cfg.LoanHandler.EarningsReport)
			r.Get("/{id}", cfg.LoanHandler.Get)
			r.Delete("/{id}", cfg.LoanHandler.Delete)
			r.Post("/{id}/pagos", cfg.PaymentHandler.Create)
		})
	})

	return r
}
