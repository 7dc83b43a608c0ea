package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mvo-platform/mvo/internal/activity"
	"github.com/mvo-platform/mvo/internal/analysis"
	"github.com/mvo-platform/mvo/internal/api"
	"github.com/mvo-platform/mvo/internal/auth"
	"github.com/mvo-platform/mvo/internal/comments"
	"github.com/mvo-platform/mvo/internal/config"
	"github.com/mvo-platform/mvo/internal/credits"
	"github.com/mvo-platform/mvo/internal/database"
	"github.com/mvo-platform/mvo/internal/events"
	"github.com/mvo-platform/mvo/internal/ideas"
	"github.com/mvo-platform/mvo/internal/middleware"
	iredis "github.com/mvo-platform/mvo/internal/redis"
	"github.com/mvo-platform/mvo/internal/server"
	"github.com/mvo-platform/mvo/internal/users"
	"github.com/mvo-platform/mvo/internal/votes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("connecting to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := database.RunMigrations(cfg.DB.DSN(), migrationsPath); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// NATS JetStream — optional; the API degrades to synchronous-only mode
	// without it.
	var (
		eventsClient *events.Client
		publisher    *events.Publisher
	)
	eventsClient, err = events.NewClient(ctx, cfg.NATS)
	if err != nil {
		slog.Warn("connecting to NATS, continuing without events", "error", err)
		eventsClient = nil
	} else {
		defer eventsClient.Close()
		publisher = events.NewPublisher(eventsClient.JetStream())
	}

	// Auth
	jwtManager := auth.NewJWTManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	authSvc := auth.NewService(jwtManager, redisClient)
	userRepo := users.NewRepository(pool)
	userSvc := users.NewService(userRepo)
	authHandler := auth.NewHandler(authSvc, userSvc)

	// Credit ledger
	creditRepo := credits.NewRepository(pool)
	creditSvc := credits.NewService(creditRepo)
	creditGuard := credits.NewGuard(creditSvc, publisher)
	creditHandler := credits.NewHandler(creditSvc)

	// Ideas
	ideaRepo := ideas.NewRepository(pool)
	ideaSvc := ideas.NewService(ideaRepo)
	ideaHandler := ideas.NewHandler(ideaSvc)

	// Comments
	commentRepo := comments.NewRepository(pool)
	commentSvc := comments.NewService(commentRepo)
	commentHandler := comments.NewHandler(commentSvc)

	// Votes
	voteRepo := votes.NewRepository(pool)
	voteSvc := votes.NewService(voteRepo, publisher)
	voteHandler := votes.NewHandler(voteSvc, commentSvc)

	// Analysis
	analysisRepo := analysis.NewRepository(pool)
	analysisSvc := analysis.NewService(analysisRepo, creditGuard, publisher, cfg.Credits)
	analysisHandler := analysis.NewHandler(analysisSvc)

	// Activity
	activityRepo := activity.NewRepository(pool)
	activityHandler := activity.NewHandler(activityRepo)

	if eventsClient != nil {
		consumerMgr := events.NewConsumerManager(eventsClient.JetStream())
		activityConsumer := activity.NewConsumer(activityRepo, consumerMgr)
		go func() {
			if err := activityConsumer.Start(ctx); err != nil {
				slog.Error("activity consumer stopped", "error", err)
			}
		}()
	}

	// Rate limiter for auth endpoints
	rateLimiter := middleware.NewRateLimiter(redisClient, cfg.RateLimit.AuthMaxRequests, cfg.RateLimit.AuthWindowSec)

	// Router
	router := api.NewRouter(pool, eventsClient, api.RouterConfig{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		AuthRateLimiter:    rateLimiter.Middleware,
	}, api.HandlerSet{
		Register: authHandler.Register,
		Login:    authHandler.Login,
		Refresh:  authHandler.Refresh,
		Logout:   authHandler.Logout,

		GetBalance: creditHandler.GetBalance,
		ChangePlan: creditHandler.ChangePlan,

		CreateIdea: ideaHandler.Create,
		IdeaFeed:   ideaHandler.Feed,
		GetIdea:    ideaHandler.Get,
		UpdateIdea: ideaHandler.Update,
		DeleteIdea: ideaHandler.Delete,
		IdeaCtx:    ideaHandler.IdeaCtx,

		ToggleVote: voteHandler.Toggle,
		GetTally:   voteHandler.GetTally,

		CreateComment: commentHandler.Create,
		ListComments:  commentHandler.List,
		DeleteComment: commentHandler.Delete,

		RequestAnalysis: analysisHandler.Create,
		ListAnalyses:    analysisHandler.List,

		ListActivity: activityHandler.List,

		AuthMiddleware: auth.Middleware(authSvc),
	})

	// Start server
	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
