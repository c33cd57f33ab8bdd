package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/kailas-cloud/assetdex/internal/domain"
	logpkg "github.com/kailas-cloud/assetdex/internal/logger"
	"github.com/kailas-cloud/assetdex/internal/metrics"
)

// Registry holds sessions by id. Sessions idle for longer than the TTL, or pushed
// out by the size cap, are closed.
type Registry struct {
	searcher Searcher
	pool     Pool
	opts     Options
	sessions *expirable.LRU[string, *Controller]
	logger   *zap.Logger
}

// NewRegistry creates a registry of at most maxSessions sessions expiring after idleTTL.
func NewRegistry(searcher Searcher, pool Pool, opts Options, maxSessions int, idleTTL time.Duration) (*Registry, error) {
	if _, err := opts.withDefaults(); err != nil {
		return nil, fmt.Errorf("session registry: %w", err)
	}
	r := &Registry{
		searcher: searcher,
		pool:     pool,
		opts:     opts,
		logger:   zap.NewNop(),
	}
	r.sessions = expirable.NewLRU[string, *Controller](maxSessions, r.evicted, idleTTL)
	return r, nil
}

// WithLogger sets the logger.
func (r *Registry) WithLogger(l *zap.Logger) *Registry {
	r.logger = logpkg.Component(l, "session")
	return r
}

func (r *Registry) evicted(id string, c *Controller) {
	if !c.shutdown() {
		return
	}
	metrics.SessionsActive.Dec()
	r.logger.Debug("Session closed", zap.String("session_id", id))
}

// Create opens a new session and returns its id.
func (r *Registry) Create() (string, *Controller, error) {
	c, err := New(r.searcher, r.pool, r.opts)
	if err != nil {
		return "", nil, err
	}
	c.WithLogger(r.logger)

	id := uuid.NewString()
	metrics.SessionsActive.Inc()
	r.sessions.Add(id, c)
	r.logger.Debug("Session opened", zap.String("session_id", id))
	return id, c, nil
}

// Get returns the session and refreshes its idle deadline. A session closed
// by expiry while being fetched is dropped and reported as closed.
func (r *Registry) Get(id string) (*Controller, error) {
	c, ok := r.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	if c.isClosed() {
		r.sessions.Remove(id)
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionClosed)
	}
	r.sessions.Add(id, c)
	if c.isClosed() {
		r.sessions.Remove(id)
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionClosed)
	}
	return c, nil
}

// Delete closes and removes the session.
func (r *Registry) Delete(id string) error {
	if !r.sessions.Remove(id) {
		return fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int { return r.sessions.Len() }

// Close closes every session.
func (r *Registry) Close() {
	r.sessions.Purge()
}
