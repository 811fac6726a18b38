package draft

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer collapses bursts of Trigger calls into one call of fn, made
// after delay has passed without another Trigger.
type Debouncer struct {
	after   AfterFunc
	fn      func()
	timer   Timer
	delay   time.Duration
	gen     uint64
	mu      sync.Mutex
	stopped bool
}

// NewDebouncer creates a debouncer. A nil after uses time.AfterFunc.
func NewDebouncer(delay time.Duration, after AfterFunc, fn func()) *Debouncer {
	if after == nil {
		after = realAfterFunc
	}
	return &Debouncer{
		after: after,
		fn:    fn,
		delay: delay,
	}
}

// Trigger (re)starts the countdown.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.after(d.delay, func() { d.fire(gen) })
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel drops the scheduled call and reports whether there was one.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

// Stop cancels the scheduled call and ignores every later Trigger.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	return d.cancelLocked()
}

func (d *Debouncer) cancelLocked() bool {
	pending := d.timer != nil
	if pending {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	return pending
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A timer that lost a race with Stop or Cancel still calls back.
	if d.stopped || gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}
