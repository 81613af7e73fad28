// Package database contains the logic for establishing
// connections to the PostgreSQL database and for handing out
// per-request transactional sessions.
//
// It handles:
//   - building a DSN from config
//   - creating a pgx connection pool (pgxpool) sized from config
//   - wiring query tracing/logging (pgx tracelog, slow query log, New Relic nrpgx5)
//   - the SessionManager every request uses to acquire its one session
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"

	"github.com/deppfellow/shipping/internal/config"
	loggerConfig "github.com/deppfellow/shipping/internal/logger"
)

// Database wraps the pgx connection pool, the session manager built on top
// of it and a logger for lifecycle messages.
type Database struct {
	Pool     *pgxpool.Pool
	Sessions *SessionManager
	log      *zerolog.Logger
}

// multiTracer allows chaining multiple tracers.
//
// pgx supports a single Tracer in ConnConfig. This adapter runs every
// tracer that implements the query start/end hooks, in order.
type multiTracer struct {
	tracers []any
}

// TraceQueryStart implements pgx.QueryTracer.
func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

// TraceQueryEnd implements pgx.QueryTracer.
func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// DatabasePingTimeout is the number of seconds to wait for the startup ping.
const DatabasePingTimeout = 10

// DSN builds the postgres URL for cfg. The password is URL-escaped.
func DSN(cfg config.DatabaseConfig) string {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		cfg.User,
		url.QueryEscape(cfg.Password),
		hostPort,
		cfg.Name,
		cfg.SSLMode,
	)
}

// New creates a PostgreSQL connection pool with instrumentation.
//
// Behavior:
//   - Parse DSN into pgxpool config and apply pool sizing from config
//   - Attach New Relic tracer if available
//   - Attach slow query logging when a threshold is configured
//   - In local env: attach SQL tracelogger
//   - Create pool, ping it, and return Database with its SessionManager
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(DSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	pgxPoolConfig.MinConns = int32(min(cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns))
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	var tracers []any

	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	if threshold := cfg.Observability.Logging.SlowQueryThreshold; threshold > 0 {
		tracers = append(tracers, newSlowQueryTracer(logger, threshold))
	}

	// Every statement is logged in local runs; very noisy, so local only.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)

		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(globalLevel)),
		})
	}

	switch len(tracers) {
	case 0:
	case 1:
		pgxPoolConfig.ConnConfig.Tracer = tracers[0].(pgx.QueryTracer)
	default:
		pgxPoolConfig.ConnConfig.Tracer = &multiTracer{tracers: tracers}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Int32("max_conns", pgxPoolConfig.MaxConns).
		Msg("connected to the database")

	return &Database{
		Pool:     pool,
		Sessions: NewSessionManager(pool, logger),
		log:      logger,
	}, nil
}

// Ping checks connectivity through the pool.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close closes the database connection pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
	return nil
}
