package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicore/console-api/internal/api"
	"github.com/clinicore/console-api/internal/core/permission"
	"github.com/clinicore/console-api/internal/core/ports"
	"github.com/clinicore/console-api/internal/core/service"
	"github.com/clinicore/console-api/internal/infrastructure/config"
	mongodb "github.com/clinicore/console-api/internal/infrastructure/db/mongo"
	redisdb "github.com/clinicore/console-api/internal/infrastructure/db/redis"
	"github.com/clinicore/console-api/internal/infrastructure/queue"
	"github.com/clinicore/console-api/internal/upstream"
	"github.com/clinicore/console-api/pkg/logger"
)

// @title           Clinic Console Gateway API
// @version         1.0
// @description     Session and authorization gateway for the clinic admin console.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Dependencies ---
	sessionRepo := redisdb.NewSessionRepository(rdb, cfg.Session.StoreTTL)
	attemptGuard := redisdb.NewAttemptGuard(rdb)
	auditRepo := mongodb.NewAuditRepository(db)

	auditDispatcher := queue.NewAuditDispatcher(0, auditRepo, log)
	auditDispatcher.Start(ctx)

	var gateway ports.AuthGateway
	switch cfg.Auth.Mode {
	case "local":
		gateway = service.NewLocalDirectory(mongodb.NewUserRepository(db))
		log.Info().Msg("auth mode: embedded local directory")
	default:
		gateway = upstream.NewClient(cfg.Auth.UpstreamBaseURL, cfg.Auth.UpstreamTimeout)
		log.Info().Str("upstream", cfg.Auth.UpstreamBaseURL).Msg("auth mode: remote clinic API")
	}

	sessions := service.NewSessionService(
		gateway,
		sessionRepo,
		attemptGuard,
		auditDispatcher,
		cfg.JWTSecret,
		cfg.Session.TokenTTL,
		log,
	)

	evaluator := permission.NewEvaluator(permission.MustDefault())

	e := api.NewRouter(api.RouterConfig{
		Sessions:  sessions,
		Evaluator: evaluator,
		AuditRepo: auditRepo,
		AuditSink: auditDispatcher,
		Mongo:     db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		AuthRPS:   cfg.Auth.RatePerSecond,
		AuthBurst: cfg.Auth.RateBurst,
		Log:       log,
	})

	// --- Serve ---
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("console gateway listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
