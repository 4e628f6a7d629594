package timer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/daytrack/internal/clock"
)

// TickEvent carries the recomputed elapsed seconds for the active task. Ticks
// are display refreshes only; they never persist anything.
type TickEvent struct {
	TaskID  string
	Seconds int64
}

type activeSlot struct {
	taskID   string
	anchor   time.Time
	baseline int64
}

// Engine owns the single-active-timer invariant. One nullable slot holds the
// running task, so a second simultaneous timer is structurally impossible.
// Elapsed time is always recomputed as baseline + wall-clock delta from the
// anchor, never accumulated tick by tick.
type Engine struct {
	clk      clock.Clock
	interval time.Duration

	mu      sync.Mutex
	slot    *activeSlot
	out     chan TickEvent
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(clk clock.Clock, interval time.Duration, bufferSize int) *Engine {
	if clk == nil {
		clk = clock.System{}
	}
	if interval <= 0 {
		interval = time.Second
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		clk:      clk,
		interval: interval,
		out:      make(chan TickEvent, bufferSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (e *Engine) C() <-chan TickEvent {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

// Activate claims the slot for taskID anchored at the current clock reading
// and returns the anchor. Any previous holder is displaced; callers clear the
// displaced task's fields (via Deactivate) before activating, so there is no
// instant with two active tasks.
func (e *Engine) Activate(taskID string, baselineSeconds int64) time.Time {
	anchor := e.clk.Now()
	e.ActivateAt(taskID, baselineSeconds, anchor)
	return anchor
}

// ActivateAt claims the slot with an explicit anchor. Used on load to resume a
// task persisted as active: keeping the stored anchor counts the time that
// passed while the process was not running.
func (e *Engine) ActivateAt(taskID string, baselineSeconds int64, anchor time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.slot = &activeSlot{taskID: taskID, anchor: anchor, baseline: baselineSeconds}
}

// Deactivate releases the slot iff taskID holds it and returns the final
// elapsed seconds. Deactivating any other id is a no-op, which makes delete
// and cancel paths safe to call unconditionally.
func (e *Engine) Deactivate(taskID string) (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.slot == nil || e.slot.taskID != taskID {
		return 0, false
	}
	seconds := e.slot.elapsed(e.clk.Now())
	e.slot = nil
	return seconds, true
}

// ActiveID returns the id holding the slot, or "".
func (e *Engine) ActiveID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.slot == nil {
		return ""
	}
	return e.slot.taskID
}

// Elapsed returns the current elapsed seconds for the slot holder.
func (e *Engine) Elapsed(taskID string) (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.slot == nil || e.slot.taskID != taskID {
		return 0, false
	}
	return e.slot.elapsed(e.clk.Now()), true
}

func (s *activeSlot) elapsed(now time.Time) int64 {
	delta := int64(now.Sub(s.anchor) / time.Second)
	if delta < 0 {
		delta = 0
	}
	return s.baseline + delta
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ev, ok := e.snapshot()
			if !ok {
				continue
			}
			select {
			case e.out <- ev:
			default:
				atomic.AddUint64(&e.dropped, 1)
			}
		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) snapshot() (TickEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.slot == nil {
		return TickEvent{}, false
	}
	return TickEvent{TaskID: e.slot.taskID, Seconds: e.slot.elapsed(e.clk.Now())}, true
}
