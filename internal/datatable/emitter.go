package datatable

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounceDelay is the quiet period before a search edit is emitted.
const DefaultDebounceDelay = 500 * time.Millisecond

// Listener receives parameter snapshots from a remote table.
type Listener func(Params)

// Timer is a cancellable pending call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. It is the only source of deferred
// execution in the engine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type runtimeScheduler struct{}

func (runtimeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler schedules on the Go runtime timer.
var SystemScheduler Scheduler = runtimeScheduler{}

// emitter delivers snapshots to a single listener. Structural changes go
// out at once; search edits wait for a quiet period, and only the last
// edit of a burst is delivered.
//
// Deliveries are serialized. A snapshot queued while another goroutine is
// inside the listener replaces any older undelivered one and is handed
// over by that goroutine once the listener returns, so the listener always
// sees snapshots in the order they were produced and ends on the newest.
type emitter struct {
	mu       sync.Mutex
	sched    Scheduler
	delay    time.Duration
	listener Listener
	logger   *slog.Logger

	pending    *pendingEmit
	next       *emission
	delivering bool
	last       *Params
	closed     bool
}

type pendingEmit struct {
	timer  Timer
	params Params
}

type emission struct {
	params Params
	reason string
}

func newEmitter(sched Scheduler, delay time.Duration, listener Listener, logger *slog.Logger) *emitter {
	if sched == nil {
		sched = SystemScheduler
	}
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &emitter{
		sched:    sched,
		delay:    delay,
		listener: listener,
		logger:   logger,
	}
}

// now cancels any pending emission and delivers p. Unless another delivery
// is in flight, p reaches the listener before now returns.
func (e *emitter) now(p Params, reason string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.cancelLocked()
	e.enqueueLocked(p, reason)
}

// debounce replaces any pending emission with p, to fire after the delay.
func (e *emitter) debounce(p Params) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.cancelLocked()

	pe := &pendingEmit{params: p}
	e.pending = pe
	pe.timer = e.sched.AfterFunc(e.delay, func() { e.fire(pe) })
}

func (e *emitter) fire(pe *pendingEmit) {
	e.mu.Lock()
	if e.closed || e.pending != pe {
		e.mu.Unlock()
		return
	}
	e.pending = nil
	e.enqueueLocked(pe.params, "search")
}

// enqueueLocked makes p the next snapshot to deliver and drains the queue
// unless a delivery is already running. It releases e.mu.
func (e *emitter) enqueueLocked(p Params, reason string) {
	snapshot := p
	e.last = &snapshot
	e.next = &emission{params: p, reason: reason}
	if e.delivering {
		e.mu.Unlock()
		return
	}
	e.delivering = true
	for e.next != nil && !e.closed {
		em := *e.next
		e.next = nil
		e.mu.Unlock()
		e.deliver(em.params, em.reason)
		e.mu.Lock()
	}
	e.next = nil
	e.delivering = false
	e.mu.Unlock()
}

func (e *emitter) deliver(p Params, reason string) {
	e.logger.Debug("table params emitted",
		"reason", reason,
		"page", p.Page,
		"page_size", p.PageSize,
		"search", p.Search,
		"sort_field", p.SortField,
		"filters", len(p.Filters),
	)
	if e.listener != nil {
		e.listener(p)
	}
}

func (e *emitter) cancelLocked() {
	if e.pending == nil {
		return
	}
	e.pending.timer.Stop()
	e.pending = nil
}

// lastEmitted returns the most recently emitted snapshot.
func (e *emitter) lastEmitted() (Params, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return Params{}, false
	}
	return *e.last, true
}

// hasPending reports whether a debounced emission is waiting.
func (e *emitter) hasPending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending != nil
}

// close cancels the pending emission; nothing is delivered afterwards.
func (e *emitter) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
	e.next = nil
	e.closed = true
}
