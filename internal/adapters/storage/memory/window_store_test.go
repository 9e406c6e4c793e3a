package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(seconds float64) time.Time {
	return epoch.Add(time.Duration(seconds * float64(time.Second)))
}

func TestWindowStore_RecordCreatesAndAppends(t *testing.T) {
	store := NewWindowStore(10 * time.Second)

	got := store.Record("10.0.0.1", at(0))
	if len(got) != 1 || !got[0].Equal(at(0)) {
		t.Fatalf("expected single stamp at t=0, got %v", got)
	}

	got = store.Record("10.0.0.1", at(1))
	if len(got) != 2 || !got[1].Equal(at(1)) {
		t.Fatalf("expected two stamps, got %v", got)
	}

	if store.Len() != 1 {
		t.Fatalf("expected 1 tracked key, got %d", store.Len())
	}
}

func TestWindowStore_RecordReturnsCopy(t *testing.T) {
	store := NewWindowStore(10 * time.Second)

	got := store.Record("k", at(0))
	got[0] = at(99)

	stamps, ok := store.Get("k")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if !stamps[0].Equal(at(0)) {
		t.Fatalf("store was mutated through returned slice: %v", stamps)
	}
}

func TestWindowStore_GetAbsentKey(t *testing.T) {
	store := NewWindowStore(10 * time.Second)

	if stamps, ok := store.Get("missing"); ok || stamps != nil {
		t.Fatalf("expected absent key, got %v %v", stamps, ok)
	}
}

func TestWindowStore_DeadlineFollowsOldestStamp(t *testing.T) {
	store := NewWindowStore(10 * time.Second)

	store.Record("k", at(0))
	deadline, ok := store.Deadline("k")
	if !ok || !deadline.Equal(at(10)) {
		t.Fatalf("expected deadline t=10, got %v (ok=%v)", deadline, ok)
	}

	// Later events must not push back the check for the stamp at t=0.
	store.Record("k", at(4))
	store.Record("k", at(8))
	deadline, _ = store.Deadline("k")
	if !deadline.Equal(at(10)) {
		t.Fatalf("expected deadline to stay at t=10, got %v", deadline)
	}
}

func TestWindowStore_RecordKeepsLaterDeadline(t *testing.T) {
	store := NewWindowStore(10 * time.Second)

	store.Replace("k", []time.Time{at(0)}, at(30))
	store.Record("k", at(1))

	deadline, _ := store.Deadline("k")
	if !deadline.Equal(at(30)) {
		t.Fatalf("expected existing later deadline to be preserved, got %v", deadline)
	}
}

func TestWindowStore_RecordClampsBackwardClock(t *testing.T) {
	store := NewWindowStore(10 * time.Second)

	store.Record("k", at(5))
	got := store.Record("k", at(3))

	if !got[1].Equal(at(5)) {
		t.Fatalf("expected backward stamp to be clamped to t=5, got %v", got[1])
	}
}

func TestWindowStore_Remove(t *testing.T) {
	store := NewWindowStore(10 * time.Second)

	store.Record("a", at(0))
	store.Record("b", at(0))
	store.Remove("a")
	store.Remove("never-seen")

	if _, ok := store.Get("a"); ok {
		t.Fatal("expected key a to be removed")
	}
	if _, ok := store.Deadline("a"); ok {
		t.Fatal("expected key a to be unscheduled")
	}
	if store.Len() != 1 || len(store.deadlines) != 1 {
		t.Fatalf("expected one entry and one deadline, got %d and %d", store.Len(), len(store.deadlines))
	}
}

func TestWindowStore_ReplaceEmptyRemoves(t *testing.T) {
	store := NewWindowStore(10 * time.Second)

	store.Record("k", at(0))
	store.Replace("k", nil, at(20))

	if _, ok := store.Get("k"); ok {
		t.Fatal("expected empty replacement to remove the key")
	}
}

func TestWindowStore_PopDueOrdersByDeadline(t *testing.T) {
	store := NewWindowStore(10 * time.Second)

	store.Record("late", at(3))
	store.Record("early", at(1))
	store.Record("middle", at(2))

	if _, ok := store.popDue(at(10)); ok {
		t.Fatal("nothing should be due before t=11")
	}

	var order []string
	for {
		due, ok := store.popDue(at(20))
		if !ok {
			break
		}
		order = append(order, due.key)
	}

	want := []string{"early", "middle", "late"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
}

func TestWindowStore_ConditionalOpsRejectStaleVersion(t *testing.T) {
	store := NewWindowStore(10 * time.Second)

	store.Record("k", at(0))
	due, ok := store.popDue(at(10))
	if !ok {
		t.Fatal("expected key to be due")
	}

	// A concurrent request lands between the pop and the eviction.
	store.Record("k", at(10))

	if store.removeIf(due.key, due.version) {
		t.Fatal("removeIf must not act on a stale snapshot")
	}
	if store.replaceIf(due.key, due.version, []time.Time{at(10)}, at(20)) {
		t.Fatal("replaceIf must not act on a stale snapshot")
	}

	stamps, _ := store.Get("k")
	if len(stamps) != 2 {
		t.Fatalf("expected concurrent append to survive, got %v", stamps)
	}
	// Rescheduled for when its oldest stamp goes stale.
	deadline, ok := store.Deadline("k")
	if !ok || !deadline.Equal(at(10)) {
		t.Fatalf("expected key rescheduled at t=10, got %v (ok=%v)", deadline, ok)
	}
}

func TestWindowStore_ConcurrentRecords(t *testing.T) {
	store := NewWindowStore(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				store.Record(fmt.Sprintf("key-%d", i%5), at(float64(j)))
			}
		}(i)
	}
	wg.Wait()

	total := 0
	for i := 0; i < 5; i++ {
		stamps, _ := store.Get(fmt.Sprintf("key-%d", i))
		total += len(stamps)
		for j := 1; j < len(stamps); j++ {
			if stamps[j].Before(stamps[j-1]) {
				t.Fatalf("key-%d not sorted at %d: %v", i, j, stamps)
			}
		}
	}
	if total != 1000 {
		t.Fatalf("expected 1000 recorded events, got %d", total)
	}
}

func BenchmarkWindowStore_Record(b *testing.B) {
	store := NewWindowStore(time.Minute)
	now := epoch

	for i := 0; i < b.N; i++ {
		store.Record(fmt.Sprintf("key-%d", i%1024), now)
	}
}
