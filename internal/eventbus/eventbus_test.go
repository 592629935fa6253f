package eventbus

import "testing"

func TestPublishSubscribe(t *testing.T) {
	b := New()
	defer b.Close()
	sub := b.Subscribe()
	b.Publish("hello")
	select {
	case ev := <-sub:
		if ev != "hello" {
			t.Fatalf("got %v", ev)
		}
	default:
		t.Fatalf("event not delivered")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	defer b.Close()
	sub := b.Subscribe()
	b.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatalf("channel should be closed")
	}
	// Publishing after unsubscribe must not panic.
	b.Publish("late")
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Close()
	b.Publish("dropped")
	if _, ok := <-sub; ok {
		t.Fatalf("channel should be closed")
	}
	if ch := b.Subscribe(); ch == nil {
		t.Fatalf("subscribe after close must return a closed channel, not nil")
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	b := New()
	defer b.Close()
	sub := b.Subscribe()
	for i := 0; i < 100; i++ {
		b.Publish(i)
	}
	// The buffer holds 16 events; the rest are dropped, not blocked on.
	count := 0
	for {
		select {
		case <-sub:
			count++
			continue
		default:
		}
		break
	}
	if count != 16 {
		t.Fatalf("expected a full buffer of 16, got %d", count)
	}
}
