package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/search/query"
	"github.com/kailas-cloud/assetdex/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/assetdex/internal/logger"
	"github.com/kailas-cloud/assetdex/internal/metrics"
)

// Default simulated latency bounds.
const (
	DefaultMinLatency = 200 * time.Millisecond
	DefaultMaxLatency = 600 * time.Millisecond
)

// State is the controller's position in the submit/complete cycle.
type State string

// Controller states.
const (
	Idle              State = "idle"
	Pending           State = "pending"
	PendingSuperseded State = "pending_superseded"
)

// Status is the fate of one submitted query.
type Status string

// Outcome statuses.
const (
	Delivered  Status = "delivered"
	Superseded Status = "superseded"
	Failed     Status = "failed"
)

// Outcome is the settled result of one submission.
type Outcome struct {
	Seq    uint64
	Status Status
	Set    result.Set
	Err    error
}

// DelayFunc returns the simulated latency for the submission numbered seq.
type DelayFunc func(seq uint64) time.Duration

// Options configures latency. Zero values select the defaults.
type Options struct {
	MinLatency time.Duration
	MaxLatency time.Duration
}

func (o Options) withDefaults() (Options, error) {
	if o.MinLatency == 0 && o.MaxLatency == 0 {
		o.MinLatency, o.MaxLatency = DefaultMinLatency, DefaultMaxLatency
	}
	if o.MinLatency < 0 || o.MaxLatency < o.MinLatency {
		return o, fmt.Errorf("invalid latency range [%s, %s]", o.MinLatency, o.MaxLatency)
	}
	return o, nil
}

// UniformDelay draws latencies uniformly from [min, max].
func UniformDelay(minD, maxD time.Duration) DelayFunc {
	return func(uint64) time.Duration {
		if maxD <= minD {
			return minD
		}
		return minD + time.Duration(rand.Int64N(int64(maxD-minD)+1))
	}
}

// Handle tracks one submission. Done closes once the outcome is settled.
type Handle struct {
	seq     uint64
	done    chan struct{}
	outcome Outcome
}

func newHandle(seq uint64) *Handle {
	return &Handle{seq: seq, done: make(chan struct{})}
}

// Seq returns the submission's sequence number.
func (h *Handle) Seq() uint64 { return h.seq }

// Done is closed when the outcome is known.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Result returns the outcome. ok is false while still pending.
func (h *Handle) Result() (Outcome, bool) {
	select {
	case <-h.done:
		return h.outcome, true
	default:
		return Outcome{}, false
	}
}

// Wait blocks until the outcome is settled or ctx is done.
func (h *Handle) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-h.done:
		return h.outcome, nil
	case <-ctx.Done():
		return Outcome{}, fmt.Errorf("wait for seq %d: %w", h.seq, ctx.Err())
	}
}

func (h *Handle) settle(o Outcome) {
	h.outcome = o
	close(h.done)
}

// Controller accepts overlapping queries and surfaces only the result of the
// most recently issued one. Results of earlier submissions are discarded.
type Controller struct {
	searcher Searcher
	pool     Pool
	delay    DelayFunc
	onResult func(Outcome)
	logger   *zap.Logger

	seq atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	inFlight int
	latest   *Outcome
	closed   bool

	// notifyMu orders callbacks; notified is the highest seq handed to onResult.
	notifyMu sync.Mutex
	notified uint64
}

// New creates a controller running evaluations on pool.
func New(searcher Searcher, pool Pool, opts Options) (*Controller, error) {
	if searcher == nil || pool == nil {
		return nil, errors.New("session: searcher and pool are required")
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		searcher: searcher,
		pool:     pool,
		delay:    UniformDelay(opts.MinLatency, opts.MaxLatency),
		logger:   zap.NewNop(),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// WithDelay overrides the latency model.
func (c *Controller) WithDelay(fn DelayFunc) *Controller {
	if fn != nil {
		c.delay = fn
	}
	return c
}

// WithLogger sets the logger.
func (c *Controller) WithLogger(l *zap.Logger) *Controller {
	c.logger = logpkg.Component(l, "session")
	return c
}

// OnResult registers a callback for outcomes of the latest submission.
// It runs on a pool worker and must neither block nor call Submit.
// Callbacks arrive in increasing sequence order.
func (c *Controller) OnResult(fn func(Outcome)) *Controller {
	c.onResult = fn
	return c
}

// Seq returns the latest issued sequence number, 0 before the first submit.
func (c *Controller) Seq() uint64 { return c.seq.Load() }

// State reports Idle, Pending or PendingSuperseded.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.inFlight == 0:
		return Idle
	case c.inFlight == 1:
		return Pending
	default:
		return PendingSuperseded
	}
}

// Latest returns the most recent delivered outcome.
func (c *Controller) Latest() (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest == nil {
		return Outcome{}, false
	}
	return *c.latest, true
}

// Submit issues d under a new sequence number and returns without waiting.
// A rejected submission still supersedes earlier ones.
func (c *Controller) Submit(d query.Descriptor) (*Handle, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, domain.ErrSessionClosed
	}
	h := newHandle(c.seq.Add(1))
	c.inFlight++
	c.wg.Add(1)
	c.mu.Unlock()

	metrics.SessionSubmissionsTotal.Inc()
	if err := c.pool.Submit(func() { c.evaluate(h, d) }); err != nil {
		c.finish(h, result.Set{}, fmt.Errorf("schedule seq %d: %w", h.seq, err))
		return nil, fmt.Errorf("submit query: %w", err)
	}
	return h, nil
}

func (c *Controller) evaluate(h *Handle, d query.Descriptor) {
	timer := time.NewTimer(c.delay(h.seq))
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-c.ctx.Done():
		c.finish(h, result.Set{}, domain.ErrSessionClosed)
		return
	}

	if h.seq != c.seq.Load() {
		c.finish(h, result.Set{}, nil)
		return
	}

	set, err := c.searcher.Search(c.ctx, d)
	c.finish(h, set, err)
}

// finish settles h. Only the latest sequence is delivered.
func (c *Controller) finish(h *Handle, set result.Set, err error) {
	defer c.wg.Done()

	c.mu.Lock()
	c.inFlight--
	o := Outcome{Seq: h.seq, Set: set, Err: err}
	switch {
	case h.seq != c.seq.Load():
		o = Outcome{Seq: h.seq, Status: Superseded}
	case err != nil:
		o.Status = Failed
	default:
		o.Status = Delivered
		c.latest = &o
	}
	c.mu.Unlock()

	metrics.SessionCompletionsTotal.WithLabelValues(string(o.Status)).Inc()
	c.logger.Debug("Session query settled",
		zap.Uint64("seq", o.Seq),
		zap.String("status", string(o.Status)),
		zap.Error(err),
	)

	h.settle(o)
	if o.Status != Superseded {
		c.notify(o)
	}
}

// notify hands o to onResult unless a later sequence was already reported.
func (c *Controller) notify(o Outcome) {
	if c.onResult == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if o.Seq <= c.notified || o.Seq != c.seq.Load() {
		return
	}
	c.notified = o.Seq
	c.onResult(o)
}

// Close tears the session down. Pending evaluations settle as Failed or Superseded
// and Close waits for them. Later submits return domain.ErrSessionClosed.
func (c *Controller) Close() {
	c.shutdown()
}

// shutdown closes the controller and reports whether this call did it.
func (c *Controller) shutdown() bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	return true
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
