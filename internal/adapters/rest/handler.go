package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/pennywise/internal/core/services"
)

// Options carries the request defaults that come from configuration.
type Options struct {
	// ProjectID is the intent agent every query is addressed to.
	ProjectID string
	// LanguageCode is used when a query does not name one.
	LanguageCode   string
	AllowedOrigins []string
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	finance *services.FinanceService
	intent  *services.IntentService
	opts    Options
	logger  *zap.Logger
	router  chi.Router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(finance *services.FinanceService, intent *services.IntentService, opts Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	h := &Handler{
		finance: finance,
		intent:  intent,
		opts:    opts,
		logger:  logger,
		router:  chi.NewRouter(),
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.Use(chimiddleware.RequestID)
	h.router.Use(chimiddleware.RealIP)
	// Logging and metrics wrap Recoverer so a recovered panic is recorded as a 500.
	h.router.Use(requestLogger(h.logger))
	h.router.Use(requestMetrics)
	h.router.Use(chimiddleware.Recoverer)
	h.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", sessionHeader},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Probes
	h.router.Get("/health", h.HealthCheck)
	h.router.Get("/ready", h.ReadinessCheck)
	h.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Ledger
	h.router.Post("/log-expense", h.LogExpense)
	h.router.Get("/view-expenses", h.ViewExpenses)
	h.router.Post("/set-savings-goal", h.SetSavingsGoal)
	h.router.Get("/view-savings-goals", h.ViewSavingsGoals)

	// Guidance
	h.router.Get("/get-budgeting-advice", h.BudgetingAdvice)
	h.router.Get("/get-savings-tips", h.SavingsTips)

	// Conversational queries
	h.router.Post("/dialogflow-query", h.DialogflowQuery)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Pennywise is live"})
}

// ReadinessCheck reports whether the ledger store answers.
func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.finance.Ready(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
