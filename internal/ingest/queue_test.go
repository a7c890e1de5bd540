package ingest

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestTransitionSingleWinnerUnderContention(t *testing.T) {
	q := newQueue()
	q.add(Item{ID: "u1", Status: StatusError, Progress: 55, Error: "store unavailable"})

	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if q.transition("u1", StatusError, func(it *Item) {
				it.Status = StatusPending
				it.Progress = 0
				it.Error = ""
				it.Document = nil
			}) {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := wins.Load(); got != 1 {
		t.Fatalf("expected exactly one winning transition, got %d", got)
	}
	item, ok := q.get("u1")
	if !ok {
		t.Fatalf("item disappeared")
	}
	if item.Status != StatusPending || item.Progress != 0 || item.Error != "" {
		t.Fatalf("unexpected state after transition: %+v", item)
	}
}

func TestTransitionRequiresMatchingStatus(t *testing.T) {
	q := newQueue()
	q.add(Item{ID: "u1", Status: StatusPending})

	if q.transition("u1", StatusError, func(it *Item) { it.Status = StatusPending }) {
		t.Fatalf("expected transition from a non-matching status to lose")
	}
	if q.transition("missing", StatusError, func(it *Item) {}) {
		t.Fatalf("expected transition on a missing item to lose")
	}
}

func TestUpdateAfterRemoveIsDiscarded(t *testing.T) {
	q := newQueue()
	q.add(Item{ID: "u1", Status: StatusUploading})
	if !q.remove("u1") {
		t.Fatalf("remove failed")
	}

	if q.update("u1", func(it *Item) { it.Status = StatusComplete }) {
		t.Fatalf("expected a write against a removed item to be discarded")
	}
	if len(q.snapshot()) != 0 {
		t.Fatalf("expected an empty snapshot")
	}
}
