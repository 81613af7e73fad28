package database

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ErrSessionFinalized is returned when Commit is called on a session that was
// already committed or rolled back.
var ErrSessionFinalized = errors.New("session already finalized")

// TxStarter begins a transaction. *pgxpool.Pool satisfies it.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SessionManager hands out one transactional Session per request.
//
// Every Acquire must be paired with a deferred Release; OpenSessions exposes
// the number of sessions not yet released so leaks are observable.
type SessionManager struct {
	starter TxStarter
	log     *zerolog.Logger
	open    atomic.Int64
}

// NewSessionManager constructs a SessionManager over starter.
func NewSessionManager(starter TxStarter, logger *zerolog.Logger) *SessionManager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &SessionManager{
		starter: starter,
		log:     logger,
	}
}

// Acquire opens a new session bound to the store.
//
// Failure here means the store is unavailable; no session exists and
// nothing needs releasing.
func (m *SessionManager) Acquire(ctx context.Context) (*Session, error) {
	tx, err := m.starter.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}

	m.open.Add(1)
	m.log.Debug().Msg("session acquired")

	return &Session{tx: tx, manager: m}, nil
}

// OpenSessions reports how many acquired sessions have not been released.
func (m *SessionManager) OpenSessions() int64 {
	return m.open.Load()
}

// Session is a transactional handle scoped to a single request.
// It is not safe for concurrent use.
type Session struct {
	tx       pgx.Tx
	manager  *SessionManager
	done     bool
	released bool
}

// Tx returns the transaction repository operations run against.
func (s *Session) Tx() pgx.Tx {
	return s.tx
}

// Commit makes the session's writes durable. The session is finalized even
// when the commit fails; pgx rolls the transaction back in that case.
func (s *Session) Commit(ctx context.Context) error {
	if s.done {
		return ErrSessionFinalized
	}
	s.done = true

	if err := s.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

// Rollback discards the session's writes. Rolling back a finalized session
// is a no-op.
func (s *Session) Rollback(ctx context.Context) error {
	if s.done {
		return nil
	}
	s.done = true

	if err := s.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback session: %w", err)
	}
	return nil
}

// Release closes the session and returns its connection to the pool.
//
// A session that was never committed or rolled back is rolled back here.
// Release is idempotent and safe on every exit path.
func (s *Session) Release(ctx context.Context) {
	if s.released {
		return
	}
	s.released = true

	if err := s.Rollback(ctx); err != nil {
		s.manager.log.Warn().Err(err).Msg("rollback on release failed")
	}

	s.manager.open.Add(-1)
	s.manager.log.Debug().Msg("session released")
}
