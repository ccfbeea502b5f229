// Package worker implements the session/background-worker split of
// §5's concurrency model: a single-threaded cooperative session that
// dispatches one CPU-bound decode job at a time to a background goroutine,
// throttled to roughly 4 Hz, and discards stale results after a
// cancellation.
//
// Everything downstream of dispatch - FrameLocator, PerspectiveTransform,
// CellSampler, SymbolHash, ReedSolomon - runs synchronously inside the
// worker goroutine and never itself suspends; only frame ingestion, job
// dispatch, and result receipt are suspension points.
package worker

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/cocosip/cimbar-decode/cimbar"
	"github.com/google/uuid"
)

// minDispatchInterval enforces the ~4 Hz throttle independent of job
// completion latency.
const minDispatchInterval = 250 * time.Millisecond

// FrameJob is the immutable unit of work handed to the background worker:
// one camera frame's owned YUV planes plus the tuning knobs to decode it
// with. ID correlates a FrameResult back to the job that produced it.
type FrameJob struct {
	ID              uuid.UUID
	Width, Height   int
	Y, U, V         []byte
	TuningConfig    *cimbar.TuningConfig
	LockedFrameSize int
}

// FrameResult is the immutable outcome of one FrameJob.
type FrameResult struct {
	ID          uuid.UUID
	Bytes       []byte
	FrameSize   int
	BarcodeRect image.Rectangle
	Err         error
}

// Decoder performs the actual synchronous pipeline work (YUV to RGB,
// FrameLocator, FramePipeline) for one job. It must not itself dispatch
// further jobs or touch Session state.
type Decoder func(job FrameJob) FrameResult

// Worker runs Decoder calls on a single background goroutine, reading jobs
// from an unbuffered channel and writing results to another.
type Worker struct {
	decode  Decoder
	jobs    chan FrameJob
	results chan FrameResult
}

// NewWorker constructs a Worker around decode. Call Run to start its
// goroutine.
func NewWorker(decode Decoder) *Worker {
	return &Worker{
		decode:  decode,
		jobs:    make(chan FrameJob),
		results: make(chan FrameResult),
	}
}

// Run processes jobs until ctx is cancelled. It is the only goroutine that
// calls decode, so callers needn't synchronize around it.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-w.jobs:
			result := w.decode(job)
			select {
			case w.results <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Session is the single-threaded session-side half of the model: it
// enforces single-outstanding-job dispatch and the dispatch-rate throttle,
// and tracks a generation counter so a Reset mid-flight can mark whatever
// the worker was still computing as stale.
type Session struct {
	worker *Worker

	mu             sync.Mutex
	inFlight       bool
	lastDispatch   time.Time
	outstandingID  uuid.UUID
	outstandingGen int
	generation     int
}

// NewSession wraps worker with session-side dispatch bookkeeping.
func NewSession(worker *Worker) *Session {
	return &Session{worker: worker}
}

// TrySubmit attempts to dispatch job to the worker. It reports false
// (dropping job) if another job is already in flight or the throttle
// interval hasn't elapsed since the last dispatch, per §5's "new frame
// arrives while a job is in flight: drop it" rule. Otherwise it hands the
// job to the worker's goroutine, which - guarded by inFlight - is always
// waiting at its receive by the time this is called, so the send is one of
// §5's allowed suspension points in name only.
func (s *Session) TrySubmit(job FrameJob) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return false
	}
	now := time.Now()
	if !s.lastDispatch.IsZero() && now.Sub(s.lastDispatch) < minDispatchInterval {
		return false
	}

	s.worker.jobs <- job
	s.inFlight = true
	s.lastDispatch = now
	s.outstandingID = job.ID
	s.outstandingGen = s.generation
	return true
}

// CollectResult blocks for the next FrameResult and reports whether it's
// still current: false means a Reset happened after this result's job was
// dispatched, and the caller must discard it per §5's cancellation rule.
func (s *Session) CollectResult() (FrameResult, bool) {
	result := <-s.worker.results

	s.mu.Lock()
	defer s.mu.Unlock()
	current := result.ID == s.outstandingID && s.outstandingGen == s.generation
	s.inFlight = false
	return result, current
}

// Reset discards any notion of an outstanding job, for use when the scan
// session itself is cancelled: the worker may still deliver a FrameResult
// for the job it had in flight, and the next CollectResult call will report
// it as stale.
func (s *Session) Reset() {
	s.mu.Lock()
	s.inFlight = false
	s.generation++
	s.mu.Unlock()
}
