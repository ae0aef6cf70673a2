// Package mutation runs one state-changing API call at a time and, once it
// succeeds, invalidates the lists that display the changed record.
package mutation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

var (
	ErrInFlight      = errors.New("mutation already in flight")
	ErrUnknownAction = errors.New("unknown mutation action")
	ErrMissingTarget = errors.New("mutation target id required")
)

type Action string

const (
	Approve Action = "approve"
	Reject  Action = "reject"
)

func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case Approve:
		return Approve, nil
	case Reject:
		return Reject, nil
	default:
		return "", ErrUnknownAction
	}
}

type Target struct {
	Action Action
	ID     string
	Note   string
}

type Operation[R any] func(ctx context.Context, t Target) (R, error)

// Invalidator is implemented by list controllers.
type Invalidator interface {
	Invalidate()
}

type InvalidatorFunc func()

func (f InvalidatorFunc) Invalidate() { f() }

type Options[R any] struct {
	Name string
	// Invalidates are refreshed after every success.
	Invalidates []Invalidator
	// OnSuccess closes whatever detail view showed the target.
	OnSuccess func(Target, R)
	// OnSettled sees every executed call, successful or not.
	OnSettled func(ctx context.Context, t Target, res R, err error)
	Logger    *slog.Logger
}

type Failure struct {
	Target Target
	Err    error
}

type Controller[R any] struct {
	op   Operation[R]
	opts Options[R]
	log  *slog.Logger

	mu       sync.Mutex
	inFlight bool
	lastFail *Failure
}

func New[R any](op Operation[R], opts Options[R]) *Controller[R] {
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}
	if opts.Name != "" {
		l = l.With(slog.String("mutation", opts.Name))
	}
	return &Controller[R]{op: op, opts: opts, log: l}
}

// Execute runs the operation unless another call is still in flight, in
// which case it returns ErrInFlight without issuing a request. Callers keep
// their action buttons disabled while InFlight reports true.
func (c *Controller[R]) Execute(ctx context.Context, t Target) (R, error) {
	var zero R
	if _, err := ParseAction(string(t.Action)); err != nil {
		return zero, err
	}
	if strings.TrimSpace(t.ID) == "" {
		return zero, ErrMissingTarget
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return zero, ErrInFlight
	}
	c.inFlight = true
	c.mu.Unlock()

	res, err := c.op(ctx, t)

	c.mu.Lock()
	c.inFlight = false
	if err != nil {
		c.lastFail = &Failure{Target: t, Err: err}
	} else {
		c.lastFail = nil
	}
	c.mu.Unlock()

	if c.opts.OnSettled != nil {
		c.opts.OnSettled(ctx, t, res, err)
	}

	if err != nil {
		c.log.Warn("mutation_failed",
			slog.String("action", string(t.Action)),
			slog.String("id", t.ID),
			slog.Any("err", err),
		)
		return res, err
	}

	c.log.Info("mutation_succeeded",
		slog.String("action", string(t.Action)),
		slog.String("id", t.ID),
	)
	for _, inv := range c.opts.Invalidates {
		inv.Invalidate()
	}
	if c.opts.OnSuccess != nil {
		c.opts.OnSuccess(t, res)
	}
	return res, nil
}

func (c *Controller[R]) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// LastFailure is the most recent failed call, cleared by the next success.
func (c *Controller[R]) LastFailure() (Failure, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastFail == nil {
		return Failure{}, false
	}
	return *c.lastFail, true
}

// DismissFailure forgets the last failure once it has been shown.
func (c *Controller[R]) DismissFailure() {
	c.mu.Lock()
	c.lastFail = nil
	c.mu.Unlock()
}
