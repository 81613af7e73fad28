// Package server defines the Server container that composes the app's
// shared dependencies and owns the HTTP server lifecycle.
//
// It owns:
//   - configuration
//   - logger and the optional New Relic service wrapper
//   - the database pool and its session manager
//   - the optional Redis client
//   - the http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/deppfellow/shipping/internal/config"
	"github.com/deppfellow/shipping/internal/database"
	loggerPkg "github.com/deppfellow/shipping/internal/logger"
)

const redisPingTimeout = 5 * time.Second

// Server is the application container. It is not the HTTP server itself.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService holds the New Relic application, which is nil when
	// New Relic is disabled.
	LoggerService *loggerPkg.LoggerService

	DB *database.Database

	// Redis backs the discovery cache. Nil when no address is configured.
	Redis *redis.Client

	httpServer *http.Server
}

// New connects to PostgreSQL and, when configured, Redis.
//
// The database is required: a failed ping aborts startup. Redis is
// optional: a failed ping is logged and the client is kept so it can
// recover later.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
	}

	if cfg.Redis.Enabled() {
		server.Redis = newRedisClient(cfg.Redis, logger, loggerService)
	} else {
		logger.Info().Msg("redis address not configured, discovery cache disabled")
	}

	return server, nil
}

func newRedisClient(cfg config.RedisConfig, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Address,
	})

	if loggerService.GetApplication() != nil {
		client.AddHook(nrredis.NewHook(client.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Str("address", cfg.Address).Msg("failed to connect to redis, continuing without cache hits")
	}

	return client
}

// SetupHTTPServer configures the http.Server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP until Shutdown is called, which makes it
// return http.ErrServerClosed.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires, then closes the
// database pool and the Redis client.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	return errors.Join(errs...)
}
