// Package task coordinates long-running operations behind an interactive
// frontend. At most one invocation of each kind runs at a time; completed
// work is delivered through a buffered outcome channel the frontend drains
// without blocking.
package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	seekerr "github.com/docuseek/docuseek/internal/errors"
)

// Kind identifies a category of background work. Concurrency is limited
// per kind: a scan may run alongside a search, but never alongside
// another scan.
type Kind string

const (
	KindScan   Kind = "scan"
	KindImport Kind = "import"
	KindSearch Kind = "search"
	KindClear  Kind = "clear"
)

// Func is the unit of background work. The returned payload is delivered
// to the frontend in the Outcome.
type Func func(ctx context.Context) (any, error)

// Outcome is the completion record of one submitted task.
type Outcome struct {
	Kind    Kind
	Payload any
	Err     error
	// Elapsed is the wall time the task ran for.
	Elapsed time.Duration
}

// Orchestrator runs at most one task per Kind and queues outcomes in FIFO
// order. It is safe for concurrent use.
type Orchestrator struct {
	mu      sync.Mutex
	running map[Kind]bool
	wg      sync.WaitGroup

	outcomes chan Outcome
}

// New builds an Orchestrator whose outcome queue holds up to buffer
// completed tasks. A zero or negative buffer gets a sensible default.
func New(buffer int) *Orchestrator {
	if buffer <= 0 {
		buffer = 16
	}
	return &Orchestrator{
		running:  make(map[Kind]bool),
		outcomes: make(chan Outcome, buffer),
	}
}

// Submit starts fn in the background if no task of the same kind is
// running. It returns a BusyError, and leaves the running task untouched,
// when the kind is already occupied.
func (o *Orchestrator) Submit(ctx context.Context, kind Kind, fn Func) error {
	o.mu.Lock()
	if o.running[kind] {
		o.mu.Unlock()
		return seekerr.BusyError("a " + string(kind) + " task is already running")
	}
	o.running[kind] = true
	o.mu.Unlock()

	o.wg.Add(1)
	go o.run(ctx, kind, fn)
	return nil
}

func (o *Orchestrator) run(ctx context.Context, kind Kind, fn Func) {
	defer o.wg.Done()
	start := time.Now()

	payload, err := fn(ctx)

	o.mu.Lock()
	o.running[kind] = false
	o.mu.Unlock()

	out := Outcome{Kind: kind, Payload: payload, Err: err, Elapsed: time.Since(start)}
	select {
	case o.outcomes <- out:
	default:
		// The frontend stopped draining; dropping the oldest keeps the
		// newest outcomes visible.
		select {
		case <-o.outcomes:
		default:
		}
		select {
		case o.outcomes <- out:
		default:
		}
	}

	if err != nil {
		slog.Warn("task_failed", "kind", string(kind), "error", err, "duration_ms", out.Elapsed.Milliseconds())
	} else {
		slog.Debug("task_complete", "kind", string(kind), "duration_ms", out.Elapsed.Milliseconds())
	}
}

// Running reports whether a task of the given kind is in flight.
func (o *Orchestrator) Running(kind Kind) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running[kind]
}

// TryRecv pops the oldest queued outcome without blocking. Frontends call
// this once per frame or tick.
func (o *Orchestrator) TryRecv() (Outcome, bool) {
	select {
	case out := <-o.outcomes:
		return out, true
	default:
		return Outcome{}, false
	}
}

// Recv blocks until an outcome is available or ctx is done.
func (o *Orchestrator) Recv(ctx context.Context) (Outcome, error) {
	select {
	case out := <-o.outcomes:
		return out, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Wait blocks until every in-flight task has finished. Queued outcomes
// remain receivable afterwards.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}
