package session

import "testing"

func TestHubFanOut(t *testing.T) {
	h := NewHub(2)

	id1, ch1 := h.Subscribe()
	id2, ch2 := h.Subscribe()
	defer h.Unsubscribe(id1)
	defer h.Unsubscribe(id2)

	h.Publish(Snapshot{NumFound: 42})

	for _, ch := range []<-chan Snapshot{ch1, ch2} {
		select {
		case s := <-ch:
			if s.NumFound != 42 {
				t.Errorf("NumFound = %d, want 42", s.NumFound)
			}
		default:
			t.Error("snapshot not delivered")
		}
	}
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	h := NewHub(1)

	id, ch := h.Subscribe()
	defer h.Unsubscribe(id)

	h.Publish(Snapshot{NumFound: 1})
	h.Publish(Snapshot{NumFound: 2}) // buffer full, dropped

	s := <-ch
	if s.NumFound != 1 {
		t.Errorf("NumFound = %d, want 1", s.NumFound)
	}
	select {
	case s := <-ch:
		t.Errorf("unexpected second snapshot: %+v", s)
	default:
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub(0)

	id, ch := h.Subscribe()
	if h.Size() != 1 {
		t.Fatalf("size = %d, want 1", h.Size())
	}
	h.Unsubscribe(id)

	if _, open := <-ch; open {
		t.Error("channel must be closed after unsubscribe")
	}
	if h.Size() != 0 {
		t.Errorf("size = %d, want 0", h.Size())
	}
	// Unsubscribing twice is harmless.
	h.Unsubscribe(id)
}
