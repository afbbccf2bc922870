package session

import "sync"

// Hub is an in-process fan-out dispatcher for controller snapshots.
// Each subscriber receives published snapshots on its own buffered
// channel; when a subscriber's buffer is full the snapshot is dropped
// for that subscriber only, so a slow listener can never stall the
// controller. Subscribers always converge on the latest state because
// every publication carries the full snapshot, not a delta.
type Hub struct {
	mu      sync.RWMutex
	subs    map[uint64]chan Snapshot
	nextID  uint64
	bufSize int
}

// NewHub constructs a hub with per-subscriber buffer size. If bufSize
// <= 0, a default of 8 is used.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 8
	}
	return &Hub{
		subs:    make(map[uint64]chan Snapshot),
		bufSize: bufSize,
	}
}

// Subscribe adds a listener and returns its id and receive channel.
// Callers must Unsubscribe(id) to release resources.
func (h *Hub) Subscribe() (uint64, <-chan Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Snapshot, h.bufSize)
	h.subs[id] = ch
	return id, ch
}

// Unsubscribe removes the listener with the given id and closes its
// channel. Unknown ids are ignored.
func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish delivers a snapshot to all subscribers, best effort.
func (h *Hub) Publish(s Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- s:
		default:
			// Drop for slow subscriber.
		}
	}
}

// Size returns the current number of subscribers.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
