package worker

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func echoDecoder(job FrameJob) FrameResult {
	return FrameResult{ID: job.ID, FrameSize: job.LockedFrameSize}
}

func TestSessionDropsJobWhileOneInFlight(t *testing.T) {
	w := NewWorker(func(job FrameJob) FrameResult {
		time.Sleep(20 * time.Millisecond)
		return echoDecoder(job)
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	s := NewSession(w)
	if !s.TrySubmit(FrameJob{ID: uuid.New()}) {
		t.Fatal("first submit should succeed")
	}
	if s.TrySubmit(FrameJob{ID: uuid.New()}) {
		t.Fatal("second submit while first in flight should be dropped")
	}

	result, ok := s.CollectResult()
	if !ok {
		t.Fatal("expected a current result")
	}
	_ = result
}

func TestSessionThrottlesDispatchRate(t *testing.T) {
	w := NewWorker(echoDecoder)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	s := NewSession(w)
	if !s.TrySubmit(FrameJob{ID: uuid.New()}) {
		t.Fatal("first submit should succeed")
	}
	if _, ok := s.CollectResult(); !ok {
		t.Fatal("expected a current result")
	}

	if s.TrySubmit(FrameJob{ID: uuid.New()}) {
		t.Fatal("submit immediately after the first should be throttled")
	}
}

func TestResetMarksInFlightResultStale(t *testing.T) {
	release := make(chan struct{})
	w := NewWorker(func(job FrameJob) FrameResult {
		<-release
		return echoDecoder(job)
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	s := NewSession(w)
	if !s.TrySubmit(FrameJob{ID: uuid.New()}) {
		t.Fatal("submit should succeed")
	}

	s.Reset()
	close(release)

	_, ok := s.CollectResult()
	if ok {
		t.Fatal("expected the result to be reported stale after Reset")
	}
}

func TestTrySubmitAllowsNextJobAfterThrottleWindow(t *testing.T) {
	w := NewWorker(echoDecoder)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	s := NewSession(w)
	s.TrySubmit(FrameJob{ID: uuid.New()})
	s.CollectResult()

	s.mu.Lock()
	s.lastDispatch = time.Now().Add(-2 * minDispatchInterval)
	s.mu.Unlock()

	if !s.TrySubmit(FrameJob{ID: uuid.New()}) {
		t.Fatal("submit after throttle window elapses should succeed")
	}
}
