package realtime

import (
	"io"
	"log/slog"
	"testing"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestPublishReachesSubscriber(t *testing.T) {
	hub := newTestHub()
	ch, cancel := hub.Subscribe(1)
	defer cancel()

	hub.Publish(1, Event{Name: "payment-confirmed", Data: "#Order_000010"})

	select {
	case ev := <-ch:
		if ev.Name != "payment-confirmed" {
			t.Fatalf("unexpected event %s", ev.Name)
		}
	default:
		t.Fatal("expected buffered event")
	}
}

func TestPublishToOtherUserIsNotDelivered(t *testing.T) {
	hub := newTestHub()
	ch, cancel := hub.Subscribe(1)
	defer cancel()

	hub.Publish(2, Event{Name: "payment-confirmed"})

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %s", ev.Name)
	default:
	}
}

func TestPublishFanOutToAllConnections(t *testing.T) {
	hub := newTestHub()
	first, cancelFirst := hub.Subscribe(1)
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe(1)
	defer cancelSecond()

	hub.Publish(1, Event{Name: "new-order"})

	for _, ch := range []<-chan Event{first, second} {
		select {
		case ev := <-ch:
			if ev.Name != "new-order" {
				t.Fatalf("unexpected event %s", ev.Name)
			}
		default:
			t.Fatal("expected event on every connection")
		}
	}
}

func TestCancelRemovesSubscription(t *testing.T) {
	hub := newTestHub()
	ch, cancel := hub.Subscribe(1)
	cancel()

	if got := hub.Subscribers(1); got != 0 {
		t.Fatalf("expected no subscribers, got %d", got)
	}
	if _, open := <-ch; open {
		t.Fatal("expected channel to be closed")
	}

	// Publishing after cancel must not panic.
	hub.Publish(1, Event{Name: "new-order"})
}

func TestSlowSubscriberDropsEvents(t *testing.T) {
	hub := newTestHub()
	ch, cancel := hub.Subscribe(1)
	defer cancel()

	for i := 0; i < defaultBuffer+5; i++ {
		hub.Publish(1, Event{Name: "new-order"})
	}

	delivered := 0
	for {
		select {
		case <-ch:
			delivered++
			continue
		default:
		}
		break
	}
	if delivered != defaultBuffer {
		t.Fatalf("expected %d buffered events, got %d", defaultBuffer, delivered)
	}
}
