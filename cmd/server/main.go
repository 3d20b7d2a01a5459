// @title                       Image Filter API
// @version                     1.0
// @description                 Authenticated gateway that returns grayscale copies of public images.
// @BasePath                    /api/v0
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/udagram/image-filter/internal/api"
	"github.com/udagram/image-filter/internal/core/service"
	"github.com/udagram/image-filter/internal/infrastructure/config"
	mongodb "github.com/udagram/image-filter/internal/infrastructure/db/mongo"
	redisdb "github.com/udagram/image-filter/internal/infrastructure/db/redis"
	"github.com/udagram/image-filter/internal/infrastructure/fetch"
	"github.com/udagram/image-filter/internal/infrastructure/filter"
	"github.com/udagram/image-filter/internal/infrastructure/http/handlers"
	"github.com/udagram/image-filter/internal/infrastructure/janitor"
	"github.com/udagram/image-filter/internal/infrastructure/scratch"
	"github.com/udagram/image-filter/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log := logger.Init(logger.Options{})
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "image-filter",
	})

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure user indexes")
	}

	scratchDir, err := scratch.NewDir(cfg.Image.TmpDir)
	if err != nil {
		return err
	}
	janitor.NewSweeper(scratchDir.Root(), cfg.Image.SweepInterval, cfg.Image.SweepMaxAge, log).Start(ctx)

	// --- Core ---
	tokens, err := service.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	throttle := redisdb.NewLoginThrottle(rdb, cfg.Auth.LoginMaxFailures, cfg.Auth.LoginFailureWindow)
	authService := service.NewAuthService(users, service.NewBcryptVerifier(), tokens, throttle, log)

	pipeline := service.NewImageService(
		fetch.NewHTTPFetcher(fetch.Config{Timeout: cfg.Image.FetchTimeout, MaxBytes: cfg.Image.MaxBytes}),
		filter.NewGrayscale(filter.Config{JPEGQuality: cfg.Image.JPEGQuality, MaxPixels: cfg.Image.MaxPixels}),
		scratchDir,
		cfg.Image.PipelineTimeout,
		log,
	)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		AuthService:   authService,
		AuthGate:      service.NewBearerGate(tokens),
		ImagePipeline: pipeline,
		ReadinessChecks: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
		LoginRatePerSecond: cfg.Auth.LoginRatePerSecond,
		Log:                log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server running")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
