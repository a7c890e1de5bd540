package ingest

import "sync"

// queue is the in-memory upload arena. Items are replaced wholesale under the
// lock; a mutation against an ID that was removed meanwhile is silently
// dropped, which gives removal its finish-then-discard semantics.
type queue struct {
	mu    sync.RWMutex
	items map[string]Item
	order []string
}

func newQueue() *queue {
	return &queue{items: make(map[string]Item)}
}

func (q *queue) add(item Item) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, exists := q.items[item.ID]; !exists {
		q.order = append(q.order, item.ID)
	}
	q.items[item.ID] = item
}

func (q *queue) get(id string) (Item, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	item, ok := q.items[id]
	return item, ok
}

// update applies fn to a copy of the item and writes the copy back. Returns
// false when the item no longer exists, in which case the write is discarded.
func (q *queue) update(id string, fn func(*Item)) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	item, ok := q.items[id]
	if !ok {
		return false
	}
	fn(&item)
	q.items[id] = item
	return true
}

// transition applies fn only when the item exists and currently holds the
// from status, all inside one critical section. Exactly one of several
// concurrent callers can win a given transition.
func (q *queue) transition(id string, from Status, fn func(*Item)) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	item, ok := q.items[id]
	if !ok || item.Status != from {
		return false
	}
	fn(&item)
	q.items[id] = item
	return true
}

func (q *queue) remove(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.items[id]; !ok {
		return false
	}
	delete(q.items, id)
	for i, existing := range q.order {
		if existing == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	return true
}

// snapshot returns all items in insertion order.
func (q *queue) snapshot() []Item {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]Item, 0, len(q.order))
	for _, id := range q.order {
		if item, ok := q.items[id]; ok {
			out = append(out, item)
		}
	}
	return out
}
