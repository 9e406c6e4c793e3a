package memory

import (
	"log"
	"sync"
	"time"

	"github.com/DesignrKnight/shield/internal/core/ports"
)

// SweepResult counts what a single sweep did.
type SweepResult struct {
	Evicted   int
	Compacted int
	// Skipped counts due keys that changed between being picked and acted on.
	Skipped int
}

// Evictor periodically removes keys whose history has aged out of the window
// and trims keys that are only partially stale. Only keys whose deadline has
// passed are visited.
type Evictor struct {
	store  *WindowStore
	period time.Duration
	now    ports.Clock

	mu       sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
}

// NewEvictor builds an Evictor for store. A nil clock defaults to time.Now.
func NewEvictor(store *WindowStore, period time.Duration, clock ports.Clock) *Evictor {
	if clock == nil {
		clock = time.Now
	}
	return &Evictor{
		store:  store,
		period: period,
		now:    clock,
	}
}

// Start launches the background sweep loop. Calling Start on a running
// Evictor is a no-op.
func (e *Evictor) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopChan != nil {
		return
	}
	e.stopChan = make(chan struct{})
	e.done = make(chan struct{})
	go e.loop(e.stopChan, e.done)
}

// Stop ends the sweep loop and waits for it to exit.
func (e *Evictor) Stop() {
	e.mu.Lock()
	stopChan, done := e.stopChan, e.done
	e.stopChan, e.done = nil, nil
	e.mu.Unlock()

	if stopChan == nil {
		return
	}
	close(stopChan)
	<-done
}

func (e *Evictor) loop(stopChan <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(e.period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			res := e.Sweep(e.now())
			if res.Evicted > 0 || res.Compacted > 0 {
				log.Printf("[evictor] evicted=%d compacted=%d skipped=%d tracked=%d",
					res.Evicted, res.Compacted, res.Skipped, e.store.Len())
			}
		case <-stopChan:
			return
		}
	}
}

// Sweep processes every key whose deadline is not after now.
func (e *Evictor) Sweep(now time.Time) SweepResult {
	var res SweepResult
	window := e.store.Window()

	for {
		due, ok := e.store.popDue(now)
		if !ok {
			return res
		}

		newest := due.stamps[len(due.stamps)-1]
		if now.Sub(newest) > window {
			if e.store.removeIf(due.key, due.version) {
				res.Evicted++
			} else {
				res.Skipped++
			}
			continue
		}

		live := liveStamps(due.stamps, now, window)
		if len(live) == 0 {
			// newest is exactly one window old
			if e.store.removeIf(due.key, due.version) {
				res.Evicted++
			} else {
				res.Skipped++
			}
			continue
		}

		if e.store.replaceIf(due.key, due.version, live, live[0].Add(window)) {
			res.Compacted++
		} else {
			res.Skipped++
		}
	}
}

// liveStamps keeps the stamps strictly younger than window, preserving order.
func liveStamps(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	live := make([]time.Time, 0, len(stamps))
	for _, t := range stamps {
		if now.Sub(t) < window {
			live = append(live, t)
		}
	}
	return live
}
