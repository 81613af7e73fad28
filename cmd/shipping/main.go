package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/deppfellow/shipping/internal/config"
	"github.com/deppfellow/shipping/internal/handler"
	"github.com/deppfellow/shipping/internal/logger"
	"github.com/deppfellow/shipping/internal/repository"
	"github.com/deppfellow/shipping/internal/router"
	"github.com/deppfellow/shipping/internal/server"
	"github.com/deppfellow/shipping/internal/service"
)

const shutdownTimeout = 30 * time.Second

// main is the composition root: config, logging, store, services, handlers
// and router are built here explicitly and handed down.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	appLogger := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &appLogger, loggerService)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories()

	services, err := service.NewService(srv, repos)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("could not create services")
	}

	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server exited properly")
}
