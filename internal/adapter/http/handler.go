package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ppc-sim/internal/core/port"
)

// Handler contains dependencies and routes. It is an inbound adapter for HTTP.
// It holds the campaign use case, an optional rate limiter and a logger for
// structured logging. Routes are registered on a chi.Router.
type Handler struct {
	svc     port.CampaignUseCase
	logger  *slog.Logger
	limits  *RateLimits
	router  chi.Router
	maxBody int64
}

// RateLimits enables per client limiting of the API routes. Write methods
// are counted against Write, other methods against Read.
type RateLimits struct {
	Limiter port.RateLimiter
	Read    int
	Write   int
}

// Option customises a Handler.
type Option func(*Handler)

// WithRateLimits limits API requests per client IP.
func WithRateLimits(l RateLimits) Option {
	return func(h *Handler) { h.limits = &l }
}

// NewHandler creates a handler with all routes configured.
func NewHandler(svc port.CampaignUseCase, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{svc: svc, logger: logger, maxBody: 1 << 20}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP, h.tracing, h.accessLog, h.recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		if h.limits != nil {
			r.Use(h.rateLimit)
		}

		r.Post("/feedback", h.handleFeedback)

		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", h.handleCreateCampaign)
			r.Get("/", h.handleListCampaigns)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.handleGetCampaign)
				r.Put("/", h.handleUpdateCampaign)
				r.Delete("/", h.handleDeleteCampaign)
				r.Patch("/status", h.handleSetStatus)
				r.Get("/feedback", h.handleCampaignFeedback)
				r.Post("/simulate", h.handleSimulate)
			})
		})

		r.Get("/stats/overview", h.handleStatsOverview)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
