// Package debounce provides a keyed trailing-edge debouncer.
//
// Each key holds at most one pending call. Adding a call for a key that
// already has one pending replaces it and restarts the quiet period, so only
// the most recent call for a key ever runs.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delays calls until no new call for the same key arrives within Delay.
type Debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]*entry
	stopped bool
	wg      sync.WaitGroup
}

type entry struct {
	timer *time.Timer
	fn    func()
}

// New creates a Debouncer with the given quiet period.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]*entry),
	}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Add schedules fn for key, cancelling any call still pending for that key.
// Calls added after Stop are dropped.
func (d *Debouncer) Add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if e, ok := d.pending[key]; ok {
		if e.timer.Stop() {
			// Cancelled before firing; release its slot in the wait group.
			d.wg.Done()
		}
		delete(d.pending, key)
	}

	e := &entry{fn: fn}
	d.wg.Add(1)
	e.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.pending[key] != e {
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		d.mu.Unlock()
		e.fn()
	})
	d.pending[key] = e
}

// Pending reports whether a call is scheduled for key.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Len returns the number of pending calls.
func (d *Debouncer) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Cancel drops the pending call for key without running it.
func (d *Debouncer) Cancel(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.pending[key]
	if !ok {
		return false
	}
	delete(d.pending, key)
	if e.timer.Stop() {
		d.wg.Done()
	}
	return true
}

// Flush runs every pending call immediately, in the caller's goroutine.
func (d *Debouncer) Flush() {
	for _, fn := range d.drain() {
		fn()
	}
}

// FlushKey runs the pending call for key immediately, if any.
func (d *Debouncer) FlushKey(key string) bool {
	d.mu.Lock()
	e, ok := d.pending[key]
	if ok {
		delete(d.pending, key)
		if e.timer.Stop() {
			d.wg.Done()
		}
	}
	d.mu.Unlock()

	if ok {
		e.fn()
	}
	return ok
}

func (d *Debouncer) drain() []func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	fns := make([]func(), 0, len(d.pending))
	for key, e := range d.pending {
		delete(d.pending, key)
		if e.timer.Stop() {
			d.wg.Done()
		}
		// A timer that already fired finds its entry gone and returns
		// without running, so the call is always run here.
		fns = append(fns, e.fn)
	}
	return fns
}

// StopAndWait stops accepting new calls, drops the pending ones and waits up
// to timeout for calls already running. It reports whether all calls finished.
func (d *Debouncer) StopAndWait(timeout time.Duration) bool {
	d.mu.Lock()
	d.stopped = true
	for key, e := range d.pending {
		delete(d.pending, key)
		if e.timer.Stop() {
			d.wg.Done()
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
