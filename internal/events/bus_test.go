package events

import (
	"testing"
	"time"
)

func receiveOne(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
		return nil
	}
}

func TestBus_PublishToSubscriber(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Publish(NewTaskStartedEvent("p1", "t1", "mason", "foundation", 1))

	ev := receiveOne(t, ch)
	if ev.EventType() != TypeTaskStarted {
		t.Fatalf("expected %s, got %s", TypeTaskStarted, ev.EventType())
	}
	if ev.ProjectID() != "p1" {
		t.Fatalf("expected project p1, got %s", ev.ProjectID())
	}
}

func TestBus_TypeFiltering(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	ch := bus.Subscribe(TypeTaskFailed)
	bus.Publish(NewTaskStartedEvent("p1", "t1", "mason", "foundation", 1))
	bus.Publish(NewTaskFailedEvent("p1", "t1", "timeout", "deadline exceeded"))

	ev := receiveOne(t, ch)
	if ev.EventType() != TypeTaskFailed {
		t.Fatalf("expected only failed events, got %s", ev.EventType())
	}
}

func TestBus_DropsWhenFull(t *testing.T) {
	bus := New(1)
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Publish(NewTaskSkippedEvent("p1", "t1"))
	bus.Publish(NewTaskSkippedEvent("p1", "t2"))
	bus.Publish(NewTaskSkippedEvent("p1", "t3"))

	if bus.DroppedCount() == 0 {
		t.Fatalf("expected dropped events with buffer of 1")
	}

	// Ring behavior keeps the newest event.
	ev := receiveOne(t, ch)
	if ev.(TaskSkippedEvent).TaskID != "t3" {
		t.Fatalf("expected newest event to survive, got %v", ev)
	}
}

func TestBus_PrioritySubscriberNeverDrops(t *testing.T) {
	bus := New(1)
	defer bus.Close()

	ch := bus.SubscribePriority()
	done := make(chan struct{})
	var got []Event
	go func() {
		defer close(done)
		for i := 0; i < 3; i++ {
			got = append(got, receiveOne(t, ch))
		}
	}()

	for i, id := range []string{"t1", "t2", "t3"} {
		bus.PublishPriority(NewTaskRetryEvent("p1", id, i+1))
	}
	<-done

	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed after unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	bus.Publish(NewTaskSkippedEvent("p1", "t1"))
}

func TestBus_CloseIsIdempotent(t *testing.T) {
	bus := New(10)
	ch := bus.Subscribe()

	bus.Close()
	bus.Close()

	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after bus close")
	}
	bus.Publish(NewTaskSkippedEvent("p1", "t1"))
}
