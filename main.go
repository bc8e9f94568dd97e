package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/articlehub-be/internal/api"
	"github.com/isdelr/articlehub-be/internal/auth"
	"github.com/isdelr/articlehub-be/internal/config"
	"github.com/isdelr/articlehub-be/internal/database"
	"github.com/isdelr/articlehub-be/internal/logger"
	"github.com/isdelr/articlehub-be/internal/monitoring"
	"github.com/isdelr/articlehub-be/internal/repository"
	"github.com/isdelr/articlehub-be/internal/services"
	"github.com/isdelr/articlehub-be/internal/throttle"
	"github.com/isdelr/articlehub-be/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	ctx := context.Background()

	// Set up database
	dialect, err := database.ParseDialect(cfg.Database.Driver)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid database driver")
	}
	db, err := database.New(ctx, dialect, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, dialect); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	hasher, err := services.NewPasswordHasher(cfg.Hashing.Cost, cfg.Hashing.Workers)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid password hashing settings")
	}
	if err := services.SeedAdmin(ctx, db, dialect, hasher, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed administrator")
	}

	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.Issuer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token service")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up repositories and services
	users := repository.NewUserRepository(db, dialect)
	eventService := services.NewEventService(repository.NewEventRepository(db, dialect), hub)
	userService := services.NewUserService(users, hasher, eventService)
	authService := services.NewAuthService(users, hasher, tokens, eventService)
	permissionService := services.NewPermissionService(repository.NewPermissionRepository(db, dialect), eventService)
	articleService := services.NewArticleService(repository.NewArticleRepository(db, dialect), eventService)

	limiter := newLoginLimiter(ctx, cfg)

	// Set up and run the event retention scheduler
	scheduler, err := monitoring.NewScheduler(eventService, cfg.Events.Retention, cfg.Events.Schedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid event retention schedule")
	}
	go scheduler.Run()

	// Set up router
	router := api.NewRouter(api.Deps{
		Tokens:         tokens,
		Users:          userService,
		Auth:           authService,
		Permissions:    permissionService,
		Articles:       articleService,
		Events:         eventService,
		Health:         monitoring.NewHealthChecker(db),
		Hub:            hub,
		LoginLimiter:   limiter,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.Env).Str("driver", string(dialect)).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}

// newLoginLimiter shares login attempt counts through Redis when it is
// configured and reachable, and counts in process otherwise.
func newLoginLimiter(ctx context.Context, cfg *config.Config) throttle.Limiter {
	if cfg.Redis.Addr == "" {
		return throttle.NewMemoryLimiter(cfg.Throttle.Limit, cfg.Throttle.TTL)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	limiter := throttle.NewRedisLimiter(rdb, cfg.Throttle.Limit, cfg.Throttle.TTL)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := limiter.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, throttling in process")
		_ = rdb.Close()
		return throttle.NewMemoryLimiter(cfg.Throttle.Limit, cfg.Throttle.TTL)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("Login throttling backed by Redis")
	return limiter
}
