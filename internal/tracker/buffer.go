package tracker

import "sync"

// activityBuffer is the transient per-user event buffer drained by the
// aggregation loop. Appends from request goroutines and the drain swap
// share one mutex; drain replaces the whole map so events recorded
// while a cycle is processing land in the next cycle.
type activityBuffer struct {
	mu     sync.Mutex
	events map[string][]*ActivityEvent
}

func newActivityBuffer() *activityBuffer {
	return &activityBuffer{events: make(map[string][]*ActivityEvent)}
}

func (b *activityBuffer) add(ev *ActivityEvent) {
	if ev == nil || ev.UserID == "" {
		return
	}
	b.mu.Lock()
	b.events[ev.UserID] = append(b.events[ev.UserID], ev)
	b.mu.Unlock()
}

// drain atomically swaps the buffer for an empty one and returns the
// previous contents.
func (b *activityBuffer) drain() map[string][]*ActivityEvent {
	b.mu.Lock()
	drained := b.events
	b.events = make(map[string][]*ActivityEvent)
	b.mu.Unlock()
	return drained
}
