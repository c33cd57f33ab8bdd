package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/search/query"
	"github.com/kailas-cloud/assetdex/internal/domain/search/result"
)

// --- Mocks ---

// echoSearcher returns one hit whose id is the free text.
type echoSearcher struct {
	err error
}

func (s *echoSearcher) Search(ctx context.Context, d query.Descriptor) (result.Set, error) {
	if s.err != nil {
		return result.Set{}, s.err
	}
	if err := ctx.Err(); err != nil {
		return result.Set{}, err
	}
	a := asset.Reconstruct(asset.Params{ID: d.FreeText(), Kind: asset.Image, CreatedAt: time.Now()})
	return result.Set{Hits: []result.Hit{result.NewHit(a, 0)}}, nil
}

// countingSearcher counts Search calls.
type countingSearcher struct {
	echoSearcher
	calls atomic.Int32
}

func (s *countingSearcher) Search(ctx context.Context, d query.Descriptor) (result.Set, error) {
	s.calls.Add(1)
	return s.echoSearcher.Search(ctx, d)
}

type rejectingPool struct{}

func (rejectingPool) Submit(func()) error { return ants.ErrPoolOverload }

// recorder collects OnResult callbacks.
type recorder struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (r *recorder) record(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *recorder) all() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outcome(nil), r.outcomes...)
}

// --- Helpers ---

func newPool(t *testing.T) *ants.Pool {
	t.Helper()
	pool, err := ants.NewPool(8)
	require.NoError(t, err)
	t.Cleanup(pool.Release)
	return pool
}

func newController(t *testing.T, s Searcher, delays map[uint64]time.Duration) *Controller {
	t.Helper()
	c, err := New(s, newPool(t), Options{})
	require.NoError(t, err)
	c.WithDelay(func(seq uint64) time.Duration { return delays[seq] })
	t.Cleanup(c.Close)
	return c
}

func text(t *testing.T, s string) query.Descriptor {
	t.Helper()
	d, err := query.New(s, nil, query.Filters{}, "")
	require.NoError(t, err)
	return d
}

func wait(t *testing.T, h *Handle) Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	o, err := h.Wait(ctx)
	require.NoError(t, err)
	return o
}

// --- Tests ---

func TestNew_Validation(t *testing.T) {
	pool := newPool(t)

	_, err := New(nil, pool, Options{})
	assert.Error(t, err)

	_, err = New(&echoSearcher{}, pool, Options{MinLatency: time.Second, MaxLatency: time.Millisecond})
	assert.Error(t, err)

	c, err := New(&echoSearcher{}, pool, Options{})
	require.NoError(t, err)
	assert.Equal(t, Idle, c.State())
	assert.Zero(t, c.Seq())
}

func TestSubmit_DeliversSingleQuery(t *testing.T) {
	rec := &recorder{}
	c := newController(t, &echoSearcher{}, nil).OnResult(rec.record)

	h, err := c.Submit(text(t, "a1"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), h.Seq())

	o := wait(t, h)
	assert.Equal(t, Delivered, o.Status)
	assert.Equal(t, []string{"a1"}, o.Set.IDs())

	latest, ok := c.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(1), latest.Seq)
	require.Len(t, rec.all(), 1)
}

func TestSubmit_SlowEarlierQueryIsSuperseded(t *testing.T) {
	rec := &recorder{}
	c := newController(t, &echoSearcher{}, map[uint64]time.Duration{
		1: 150 * time.Millisecond,
		2: time.Millisecond,
	}).OnResult(rec.record)

	a, err := c.Submit(text(t, "A"))
	require.NoError(t, err)
	b, err := c.Submit(text(t, "B"))
	require.NoError(t, err)

	ob := wait(t, b)
	oa := wait(t, a)

	assert.Equal(t, Superseded, oa.Status)
	assert.Empty(t, oa.Set.Hits)
	assert.Equal(t, Delivered, ob.Status)
	assert.Equal(t, []string{"B"}, ob.Set.IDs())

	got := rec.all()
	require.Len(t, got, 1)
	assert.Equal(t, uint64(2), got[0].Seq)

	latest, ok := c.Latest()
	require.True(t, ok)
	assert.Equal(t, []string{"B"}, latest.Set.IDs())
}

func TestSubmit_FastEarlierQueryIsSuperseded(t *testing.T) {
	rec := &recorder{}
	c := newController(t, &echoSearcher{}, map[uint64]time.Duration{
		1: time.Millisecond,
		2: 100 * time.Millisecond,
	}).OnResult(rec.record)

	a, err := c.Submit(text(t, "A"))
	require.NoError(t, err)
	b, err := c.Submit(text(t, "B"))
	require.NoError(t, err)

	assert.Equal(t, Superseded, wait(t, a).Status)
	assert.Equal(t, Delivered, wait(t, b).Status)

	got := rec.all()
	require.Len(t, got, 1)
	assert.Equal(t, []string{"B"}, got[0].Set.IDs())
}

func TestSubmit_SupersededSkipsSearch(t *testing.T) {
	s := &countingSearcher{}
	c := newController(t, s, map[uint64]time.Duration{
		1: 50 * time.Millisecond,
		2: 50 * time.Millisecond,
	})

	a, err := c.Submit(text(t, "A"))
	require.NoError(t, err)
	b, err := c.Submit(text(t, "B"))
	require.NoError(t, err)

	assert.Equal(t, Superseded, wait(t, a).Status)
	assert.Equal(t, Delivered, wait(t, b).Status)
	assert.Equal(t, int32(1), s.calls.Load())
}

func TestNotify_DropsStaleSequence(t *testing.T) {
	rec := &recorder{}
	c := newController(t, &echoSearcher{}, nil).OnResult(rec.record)
	c.seq.Store(2)

	c.notify(Outcome{Seq: 2, Status: Delivered})
	c.notify(Outcome{Seq: 1, Status: Delivered})
	c.notify(Outcome{Seq: 2, Status: Delivered})

	got := rec.all()
	require.Len(t, got, 1)
	assert.Equal(t, uint64(2), got[0].Seq)
}

func TestState_Transitions(t *testing.T) {
	c := newController(t, &echoSearcher{}, map[uint64]time.Duration{
		1: 100 * time.Millisecond,
		2: 100 * time.Millisecond,
	})
	assert.Equal(t, Idle, c.State())

	a, err := c.Submit(text(t, "A"))
	require.NoError(t, err)
	assert.Equal(t, Pending, c.State())

	b, err := c.Submit(text(t, "B"))
	require.NoError(t, err)
	assert.Equal(t, PendingSuperseded, c.State())
	assert.Equal(t, uint64(2), c.Seq())

	wait(t, a)
	wait(t, b)
	assert.Equal(t, Idle, c.State())
}

func TestSubmit_SearchFailure(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")
	c := newController(t, &echoSearcher{err: boom}, nil).OnResult(rec.record)

	h, err := c.Submit(text(t, "A"))
	require.NoError(t, err)

	o := wait(t, h)
	assert.Equal(t, Failed, o.Status)
	assert.ErrorIs(t, o.Err, boom)

	_, ok := c.Latest()
	assert.False(t, ok)
	require.Len(t, rec.all(), 1)
}

func TestSubmit_PoolRejects(t *testing.T) {
	c, err := New(&echoSearcher{}, rejectingPool{}, Options{})
	require.NoError(t, err)

	_, err = c.Submit(text(t, "A"))
	assert.ErrorIs(t, err, ants.ErrPoolOverload)
	assert.Equal(t, Idle, c.State())
	c.Close()
}

func TestClose(t *testing.T) {
	c := newController(t, &echoSearcher{}, map[uint64]time.Duration{1: time.Hour})

	h, err := c.Submit(text(t, "A"))
	require.NoError(t, err)

	c.Close()
	o, ok := h.Result()
	require.True(t, ok, "Close must settle pending handles")
	assert.Equal(t, Failed, o.Status)
	assert.ErrorIs(t, o.Err, domain.ErrSessionClosed)

	_, err = c.Submit(text(t, "B"))
	assert.ErrorIs(t, err, domain.ErrSessionClosed)

	c.Close()
}

func TestHandle_ResultBeforeDone(t *testing.T) {
	c := newController(t, &echoSearcher{}, map[uint64]time.Duration{1: 50 * time.Millisecond})

	h, err := c.Submit(text(t, "A"))
	require.NoError(t, err)
	_, ok := h.Result()
	assert.False(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	wait(t, h)
}

func TestUniformDelay_Bounds(t *testing.T) {
	fn := UniformDelay(10*time.Millisecond, 20*time.Millisecond)
	for i := range uint64(100) {
		d := fn(i)
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.LessOrEqual(t, d, 20*time.Millisecond)
	}
	assert.Equal(t, 5*time.Millisecond, UniformDelay(5*time.Millisecond, 5*time.Millisecond)(1))
}
