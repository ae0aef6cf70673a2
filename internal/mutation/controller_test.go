package mutation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingList struct{ n atomic.Int32 }

func (l *countingList) Invalidate() { l.n.Add(1) }

func TestExecuteSuccessInvalidatesAndCloses(t *testing.T) {
	list := &countingList{}
	var closed Target
	var settled int

	c := New(func(ctx context.Context, t Target) (string, error) {
		return "ok:" + t.ID, nil
	}, Options[string]{
		Invalidates: []Invalidator{list},
		OnSuccess:   func(t Target, _ string) { closed = t },
		OnSettled:   func(context.Context, Target, string, error) { settled++ },
	})

	res, err := c.Execute(context.Background(), Target{Action: Approve, ID: "TX1"})
	if err != nil || res != "ok:TX1" {
		t.Fatalf("unexpected result %q (%v)", res, err)
	}
	if list.n.Load() != 1 {
		t.Fatalf("expected list invalidated once, got %d", list.n.Load())
	}
	if closed.ID != "TX1" {
		t.Fatalf("expected detail close hook for TX1, got %+v", closed)
	}
	if settled != 1 {
		t.Fatalf("expected settled hook once, got %d", settled)
	}
	if c.InFlight() {
		t.Fatalf("expected not in flight after return")
	}
}

func TestExecuteFailureLeavesListsAlone(t *testing.T) {
	list := &countingList{}
	boom := errors.New("already processed")
	closedCalled := false

	c := New(func(ctx context.Context, t Target) (int, error) {
		return 0, boom
	}, Options[int]{
		Invalidates: []Invalidator{list},
		OnSuccess:   func(Target, int) { closedCalled = true },
	})

	_, err := c.Execute(context.Background(), Target{Action: Reject, ID: "DP1", Note: "n"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected operation error, got %v", err)
	}
	if list.n.Load() != 0 || closedCalled {
		t.Fatalf("failure must not invalidate or close")
	}
	f, ok := c.LastFailure()
	if !ok || f.Target.ID != "DP1" || !errors.Is(f.Err, boom) {
		t.Fatalf("expected recorded failure, got %+v %v", f, ok)
	}

	c.DismissFailure()
	if _, ok := c.LastFailure(); ok {
		t.Fatalf("expected failure dismissed")
	}
}

func TestSecondExecuteWhileInFlightIsRejected(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	c := New(func(ctx context.Context, t Target) (string, error) {
		calls.Add(1)
		close(started)
		<-release
		return "done", nil
	}, Options[string]{})

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Execute(context.Background(), Target{Action: Approve, ID: "TX1"})
		errCh <- err
	}()
	<-started

	if !c.InFlight() {
		t.Fatalf("expected in flight")
	}
	if _, err := c.Execute(context.Background(), Target{Action: Reject, ID: "TX1"}); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}

	close(release)
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("first execute failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("first execute never returned")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single request, got %d", calls.Load())
	}
}

func TestExecuteValidatesTarget(t *testing.T) {
	var calls atomic.Int32
	c := New(func(ctx context.Context, t Target) (string, error) {
		calls.Add(1)
		return "", nil
	}, Options[string]{})

	if _, err := c.Execute(context.Background(), Target{Action: "delete", ID: "x"}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
	if _, err := c.Execute(context.Background(), Target{Action: Approve, ID: " "}); !errors.Is(err, ErrMissingTarget) {
		t.Fatalf("expected ErrMissingTarget, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("invalid targets must not reach the operation")
	}
}

func TestParseAction(t *testing.T) {
	if a, err := ParseAction(" Approve "); err != nil || a != Approve {
		t.Fatalf("expected approve, got %q %v", a, err)
	}
	if _, err := ParseAction("ship"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction")
	}
}
