// Package autosave schedules snapshot writes after editing pauses. The
// scheduling policy lives in Debouncer; what gets written is decided by
// Saver, which can also be driven directly.
package autosave

import (
	"context"
	"sync"
	"time"
)

// Debouncer coalesces bursts of Trigger calls into a single call of fn,
// made once delay has passed without a new trigger.
type Debouncer struct {
	delay time.Duration
	fn    func(context.Context)

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	stopped bool

	runMu  sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDebouncer returns a debouncer calling fn delay after the last trigger.
func NewDebouncer(delay time.Duration, fn func(context.Context)) *Debouncer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Debouncer{delay: delay, fn: fn, ctx: ctx, cancel: cancel}
}

// Trigger (re)starts the delay. It is a no-op after Stop.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Flush runs a scheduled call immediately with ctx. It does nothing when no
// call is pending.
func (d *Debouncer) Flush(ctx context.Context) {
	if !d.claim() {
		return
	}
	defer d.wg.Done()
	d.run(ctx)
}

// Stop cancels any scheduled call, cancels the context of a running one and
// waits for it to return. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
}

func (d *Debouncer) fire() {
	if !d.claim() {
		return
	}
	defer d.wg.Done()
	d.run(d.ctx)
}

// claim takes the pending call, registering it with the wait group.
func (d *Debouncer) claim() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.pending || d.stopped {
		return false
	}
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
	d.wg.Add(1)
	return true
}

func (d *Debouncer) run(ctx context.Context) {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	d.fn(ctx)
}
