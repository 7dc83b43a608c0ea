package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mvo-platform/mvo/internal/database"
	"github.com/mvo-platform/mvo/internal/events"
	mw "github.com/mvo-platform/mvo/internal/middleware"
)

// HandlerSet holds handler functions injected from main.go to avoid import cycles.
type HandlerSet struct {
	// Auth handlers
	Register http.HandlerFunc
	Login    http.HandlerFunc
	Refresh  http.HandlerFunc
	Logout   http.HandlerFunc

	// Credit ledger handlers
	GetBalance http.HandlerFunc
	ChangePlan http.HandlerFunc

	// Idea handlers
	CreateIdea http.HandlerFunc
	IdeaFeed   http.HandlerFunc
	GetIdea    http.HandlerFunc
	UpdateIdea http.HandlerFunc
	DeleteIdea http.HandlerFunc
	IdeaCtx    func(http.Handler) http.Handler

	// Vote handlers
	ToggleVote http.HandlerFunc
	GetTally   http.HandlerFunc

	// Comment handlers
	CreateComment http.HandlerFunc
	ListComments  http.HandlerFunc
	DeleteComment http.HandlerFunc

	// Analysis handlers
	RequestAnalysis http.HandlerFunc
	ListAnalyses    http.HandlerFunc

	// Activity handlers
	ListActivity http.HandlerFunc

	// Auth middleware
	AuthMiddleware func(http.Handler) http.Handler
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
	AuthRateLimiter    func(http.Handler) http.Handler
}

func NewRouter(pool *pgxpool.Pool, eventsClient *events.Client, cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Liveness probe — always 200, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	// Readiness probe — checks DB and NATS
	readinessHandler := func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status":   "healthy",
			"database": "healthy",
			"nats":     "healthy",
		}

		status := http.StatusOK

		if err := database.HealthCheck(r.Context(), pool); err != nil {
			health["database"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		if eventsClient != nil && !eventsClient.Healthy() {
			health["nats"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		} else if eventsClient == nil {
			health["nats"] = "not configured"
		}

		JSON(w, status, health)
	}

	r.Get("/health/ready", readinessHandler)
	r.Get("/health", readinessHandler)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public) — optionally rate-limited
		r.Route("/auth", func(r chi.Router) {
			if cfg.AuthRateLimiter != nil {
				r.Use(cfg.AuthRateLimiter)
			}
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/refresh", h.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(h.AuthMiddleware)
				r.Post("/logout", h.Logout)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			// Credit ledger routes
			r.Route("/credits", func(r chi.Router) {
				r.Get("/", h.GetBalance)
				r.Put("/plan", h.ChangePlan)
			})

			// Activity feed
			r.Get("/activity", h.ListActivity)

			// Idea routes
			r.Route("/ideas", func(r chi.Router) {
				r.Post("/", h.CreateIdea)
				r.Get("/", h.IdeaFeed)

				r.Route("/{ideaID}", func(r chi.Router) {
					r.Use(h.IdeaCtx)
					r.Get("/", h.GetIdea)
					r.Put("/", h.UpdateIdea)
					r.Delete("/", h.DeleteIdea)

					// Vote routes
					r.Get("/votes", h.GetTally)
					r.Post("/votes/{voteType}", h.ToggleVote)

					// Comment routes
					r.Route("/comments", func(r chi.Router) {
						r.Get("/", h.ListComments)
						r.Post("/", h.CreateComment)
						r.Delete("/{commentID}", h.DeleteComment)
					})

					// Analysis routes
					r.Route("/analysis", func(r chi.Router) {
						r.Get("/", h.ListAnalyses)
						r.Post("/", h.RequestAnalysis)
					})
				})
			})
		})
	})

	return r
}
