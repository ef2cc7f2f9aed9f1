// Package planner is the Queue tab: it edits the queue and runs it in the background.
package planner

import (
	"context"
	"fmt"
	"sync"

	"github.com/tmarenko/mff-auto-sub000/internal/logger"
	"github.com/tmarenko/mff-auto-sub000/internal/queue"
)

type RunnerState int

const (
	StateStopped RunnerState = iota
	StateRunning
	StateStopping
)

func (s RunnerState) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	}
	return "Stopped"
}

// Runner drives the orchestrator on its own goroutine so the GUI stays responsive.
type Runner struct {
	orch    *queue.Orchestrator
	tracker *Tracker
	log     *logger.AppLogger

	statusFunc func(string)
	// rowFunc is told about every finished row, e.g. to refresh the list.
	rowFunc func(i int, o queue.Outcome)

	mu     sync.Mutex
	state  RunnerState
	cancel context.CancelFunc
	wg     sync.WaitGroup
	last   []queue.Outcome
}

func NewRunner(orch *queue.Orchestrator, log *logger.AppLogger, status func(string)) *Runner {
	r := &Runner{
		orch:       orch,
		tracker:    NewTracker(),
		log:        log.With("planner"),
		statusFunc: status,
		rowFunc:    func(int, queue.Outcome) {},
	}
	r.tracker.SetDebugFunc(r.log.Debug)
	orch.OnOutcome = r.record
	return r
}

func (r *Runner) Tracker() *Tracker { return r.tracker }

// OnRow sets the callback run after every finished row.
func (r *Runner) OnRow(fn func(i int, o queue.Outcome)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rowFunc = fn
}

func (r *Runner) State() RunnerState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// LastOutcomes returns the outcomes of the most recent finished run.
func (r *Runner) LastOutcomes() []queue.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]queue.Outcome(nil), r.last...)
}

// Start runs items in the background. It returns false when a run is already in progress.
func (r *Runner) Start(items []queue.Item) bool {
	r.mu.Lock()
	if r.state != StateStopped {
		r.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.state = StateRunning
	r.cancel = cancel
	r.mu.Unlock()

	filtered := r.tracker.Filter(items)
	r.log.Info("Queue started with %d rows", checked(filtered))
	r.statusFunc("Status: Running")
	r.wg.Add(1)
	go r.loop(ctx, filtered)
	return true
}

// Stop cancels the run and waits until the current step notices.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.state != StateRunning {
		r.mu.Unlock()
		return
	}
	r.state = StateStopping
	cancel := r.cancel
	r.mu.Unlock()

	r.statusFunc("Status: Stopping")
	cancel()
	r.wg.Wait()
}

// Wait blocks until the current run ends.
func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) loop(ctx context.Context, items []queue.Item) {
	defer r.wg.Done()
	outcomes, err := r.orch.Run(ctx, items)

	r.mu.Lock()
	r.cancel()
	r.cancel = nil
	r.state = StateStopped
	r.last = outcomes
	r.mu.Unlock()

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	if err != nil {
		r.log.Info("Queue stopped after %d rows", len(outcomes))
		r.statusFunc("Status: Stopped")
		return
	}
	r.statusFunc(fmt.Sprintf("Status: Finished (%d rows, %d failed)", len(outcomes), failed))
}

func (r *Runner) record(i int, o queue.Outcome) {
	if r.tracker.Record(i, o) {
		r.log.Warn("Row %d %s keeps failing and is skipped until the queue is edited", i+1, o.Item.Mode)
	}
	r.mu.Lock()
	fn := r.rowFunc
	r.mu.Unlock()
	fn(i, o)
}

func checked(items []queue.Item) int {
	n := 0
	for _, it := range items {
		if it.Checked {
			n++
		}
	}
	return n
}
