package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type queryStartKey struct{}

type queryStart struct {
	sql   string
	start time.Time
}

// slowQueryTracer logs statements whose execution exceeds threshold.
type slowQueryTracer struct {
	logger    *zerolog.Logger
	threshold time.Duration
	now       func() time.Time
}

func newSlowQueryTracer(logger *zerolog.Logger, threshold time.Duration) *slowQueryTracer {
	return &slowQueryTracer{
		logger:    logger,
		threshold: threshold,
		now:       time.Now,
	}
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, start: t.now()})
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qs, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	elapsed := t.now().Sub(qs.start)
	if elapsed < t.threshold {
		return
	}

	event := t.logger.Warn().
		Str("sql", qs.sql).
		Dur("duration", elapsed).
		Dur("threshold", t.threshold)
	if data.Err != nil {
		event = event.Err(data.Err)
	}
	event.Msg("slow query")
}
