package assetdex

import (
	"context"
	"fmt"

	sessionuc "github.com/kailas-cloud/assetdex/internal/usecase/session"
)

// Session accepts overlapping queries. Only the most recently submitted query
// delivers a result; earlier ones settle as superseded.
type Session struct {
	id       string
	ctrl     *sessionuc.Controller
	registry *sessionuc.Registry
}

// NewSession opens a session. Idle sessions are closed after the configured TTL.
func (c *Client) NewSession() (*Session, error) {
	id, ctrl, err := c.sessions.Create()
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	return &Session{id: id, ctrl: ctrl, registry: c.sessions}, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// State returns "idle", "pending" or "pending_superseded".
func (s *Session) State() string {
	s.touch()
	return string(s.ctrl.State())
}

// touch refreshes the idle deadline. An expired session is already closed
// and its controller reports that on use.
func (s *Session) touch() {
	_, _ = s.registry.Get(s.id)
}

// Submit issues q without waiting for it.
func (s *Session) Submit(q Query) (*Handle, error) {
	d, err := toDescriptor(q)
	if err != nil {
		return nil, err
	}
	s.touch()
	h, err := s.ctrl.Submit(d)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	return &Handle{h: h}, nil
}

// OnResult registers fn for results of the latest submission. Call it before the
// first Submit. fn runs on a pool worker and must not block.
func (s *Session) OnResult(fn func(seq uint64, r Result, err error)) {
	s.ctrl.OnResult(func(o sessionuc.Outcome) {
		fn(o.Seq, fromSet(o.Set), o.Err)
	})
}

// Latest returns the most recently delivered result and its sequence number.
func (s *Session) Latest() (Result, uint64, bool) {
	s.touch()
	o, ok := s.ctrl.Latest()
	if !ok {
		return Result{}, 0, false
	}
	return fromSet(o.Set), o.Seq, true
}

// Close ends the session. Pending queries settle before Close returns.
func (s *Session) Close() {
	if err := s.registry.Delete(s.id); err != nil {
		// Already expired or evicted; the controller may still need closing.
		s.ctrl.Close()
	}
}

// Handle tracks one submitted query.
type Handle struct {
	h *sessionuc.Handle
}

// Seq returns the query's sequence number within its session.
func (h *Handle) Seq() uint64 { return h.h.Seq() }

// Wait blocks until the query settles. A superseded query returns ErrSuperseded.
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	o, err := h.h.Wait(ctx)
	if err != nil {
		return Result{}, err
	}
	switch o.Status {
	case sessionuc.Delivered:
		return fromSet(o.Set), nil
	case sessionuc.Superseded:
		return Result{}, fmt.Errorf("seq %d: %w", o.Seq, ErrSuperseded)
	default:
		return Result{}, fmt.Errorf("seq %d: %w", o.Seq, o.Err)
	}
}
