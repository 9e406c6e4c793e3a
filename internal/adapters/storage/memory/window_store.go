// Package memory disponibiliza o armazenamento em memória das janelas deslizantes.
package memory

import (
	"container/heap"
	"sync"
	"time"

	"github.com/DesignrKnight/shield/internal/core/ports"
)

type entry struct {
	key      string
	stamps   []time.Time
	deadline time.Time
	version  uint64
	// index in the deadline heap, -1 while not scheduled.
	index int
}

// WindowStore maps keys to their retained event timestamps and keeps a
// min-heap of per-key deadlines for the Evictor.
type WindowStore struct {
	mu        sync.Mutex
	window    time.Duration
	entries   map[string]*entry
	deadlines deadlineHeap
	versions  uint64
}

var _ ports.WindowStore = (*WindowStore)(nil)

// NewWindowStore returns an empty store for the given sliding window.
func NewWindowStore(window time.Duration) *WindowStore {
	return &WindowStore{
		window:  window,
		entries: make(map[string]*entry),
	}
}

// Window returns the sliding window duration the store was built with.
func (s *WindowStore) Window() time.Duration {
	return s.window
}

// Record appends now to the history of key, creating it if absent. A key
// that is already scheduled keeps its deadline, which tracks the oldest
// retained stamp; an unscheduled key is armed at oldest stamp + window.
func (s *WindowStore) Record(key string, now time.Time) []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &entry{key: key, index: -1}
		s.entries[key] = e
	}

	// Time going backwards would break the ordering; pin it to the newest stamp.
	if n := len(e.stamps); n > 0 && now.Before(e.stamps[n-1]) {
		now = e.stamps[n-1]
	}
	e.stamps = append(e.stamps, now)

	if e.index < 0 {
		e.deadline = e.stamps[0].Add(s.window)
	}
	s.touch(e)

	return cloneStamps(e.stamps)
}

// Get returns a copy of the stamps retained for key.
func (s *WindowStore) Get(key string) ([]time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return cloneStamps(e.stamps), true
}

// Remove deletes key and unschedules it.
func (s *WindowStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		s.drop(e)
	}
}

// Replace swaps the history and deadline of key. An empty history removes the
// key, since entries are never empty while stored.
func (s *WindowStore) Replace(key string, stamps []time.Time, deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceLocked(key, stamps, deadline)
}

// Len returns the number of tracked keys.
func (s *WindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Deadline reports when key is next due for eviction.
func (s *WindowStore) Deadline(key string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.index < 0 {
		return time.Time{}, false
	}
	return e.deadline, true
}

// dueEntry is a snapshot of a key whose deadline has passed.
type dueEntry struct {
	key     string
	stamps  []time.Time
	version uint64
}

// popDue unschedules the earliest key whose deadline is not after now.
func (s *WindowStore) popDue(now time.Time) (dueEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.deadlines) == 0 || s.deadlines[0].deadline.After(now) {
		return dueEntry{}, false
	}
	e := heap.Pop(&s.deadlines).(*entry)
	return dueEntry{key: e.key, stamps: cloneStamps(e.stamps), version: e.version}, true
}

// removeIf removes key only if it has not changed since version was read.
func (s *WindowStore) removeIf(key string, version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.version != version {
		return false
	}
	s.drop(e)
	return true
}

// replaceIf replaces key only if it has not changed since version was read.
func (s *WindowStore) replaceIf(key string, version uint64, stamps []time.Time, deadline time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.version != version {
		return false
	}
	s.replaceLocked(key, stamps, deadline)
	return true
}

func (s *WindowStore) replaceLocked(key string, stamps []time.Time, deadline time.Time) {
	e, ok := s.entries[key]
	if len(stamps) == 0 {
		if ok {
			s.drop(e)
		}
		return
	}
	if !ok {
		e = &entry{key: key, index: -1}
		s.entries[key] = e
	}
	e.stamps = cloneStamps(stamps)
	e.deadline = deadline
	s.touch(e)
}

// touch bumps the entry version and (re)schedules its deadline.
func (s *WindowStore) touch(e *entry) {
	s.versions++
	e.version = s.versions
	if e.index < 0 {
		heap.Push(&s.deadlines, e)
		return
	}
	heap.Fix(&s.deadlines, e.index)
}

func (s *WindowStore) drop(e *entry) {
	if e.index >= 0 {
		heap.Remove(&s.deadlines, e.index)
	}
	delete(s.entries, e.key)
}

func cloneStamps(src []time.Time) []time.Time {
	out := make([]time.Time, len(src))
	copy(out, src)
	return out
}

// deadlineHeap orders entries by deadline, earliest first.
type deadlineHeap []*entry

func (h deadlineHeap) Len() int { return len(h) }

func (h deadlineHeap) Less(i, j int) bool { return h[i].deadline.Before(h[j].deadline) }

func (h deadlineHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *deadlineHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *deadlineHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
