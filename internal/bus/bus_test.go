package bus

import (
	"errors"
	"testing"
)

func TestPublish_DeliversInSubscriptionOrder(t *testing.T) {
	b := New()

	var order []int
	for i := 1; i <= 3; i++ {
		n := i
		if _, err := Subscribe(b, "test.topic", func(string) {
			order = append(order, n)
		}); err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}
	}

	if err := Publish(b, "test.topic", "hello"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(order) != 3 {
		t.Fatalf("handler invocations = %d, want 3", len(order))
	}
	for i, n := range order {
		if n != i+1 {
			t.Errorf("order[%d] = %d, want %d", i, n, i+1)
		}
	}
}

func TestPublish_NoSubscribersIsNoop(t *testing.T) {
	b := New()

	if err := Publish(b, "empty.topic", 42); err != nil {
		t.Errorf("Publish() to empty topic error = %v, want nil", err)
	}
}

func TestPublish_TypeMismatch(t *testing.T) {
	b := New()

	if _, err := Subscribe(b, "typed.topic", func(SensorEvent) {}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	err := Publish(b, "typed.topic", "not a sensor event")
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Publish() error = %v, want ErrTypeMismatch", err)
	}
}

func TestSubscribe_TypeMismatch(t *testing.T) {
	b := New()

	if _, err := Subscribe(b, "typed.topic", func(SensorEvent) {}); err != nil {
		t.Fatalf("first Subscribe() error = %v", err)
	}

	_, err := Subscribe(b, "typed.topic", func(DeviceEvent) {})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("second Subscribe() error = %v, want ErrTypeMismatch", err)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()

	calls := 0
	id, _ := Subscribe(b, "test.topic", func(int) { calls++ })
	if _, err := Subscribe(b, "test.topic", func(int) { calls++ }); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	b.Unsubscribe("test.topic", id)

	if got := b.SubscriberCount("test.topic"); got != 1 {
		t.Errorf("SubscriberCount() = %d, want 1", got)
	}

	if err := Publish(b, "test.topic", 1); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}

func TestUnsubscribe_UnknownIDIsNoop(t *testing.T) {
	b := New()

	if _, err := Subscribe(b, "test.topic", func(int) {}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	b.Unsubscribe("test.topic", 999)
	b.Unsubscribe("missing.topic", 1)

	if got := b.SubscriberCount("test.topic"); got != 1 {
		t.Errorf("SubscriberCount() = %d, want 1", got)
	}
}

func TestSubscriberCount(t *testing.T) {
	b := New()

	var ids []SubscriptionID
	for i := 0; i < 4; i++ {
		id, err := Subscribe(b, "counted.topic", func(int) {})
		if err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}
		ids = append(ids, id)
	}

	b.Unsubscribe("counted.topic", ids[1])

	if got := b.SubscriberCount("counted.topic"); got != 3 {
		t.Errorf("SubscriberCount() = %d, want 3", got)
	}
	if got := b.SubscriberCount("unknown.topic"); got != 0 {
		t.Errorf("SubscriberCount(unknown) = %d, want 0", got)
	}
}

func TestClearTopic(t *testing.T) {
	b := New()

	if _, err := Subscribe(b, "a", func(int) {}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	b.ClearTopic("a")

	if got := b.SubscriberCount("a"); got != 0 {
		t.Errorf("SubscriberCount() after ClearTopic = %d, want 0", got)
	}

	// Clearing also removes the type binding, so the topic can be rebound.
	if _, err := Subscribe(b, "a", func(string) {}); err != nil {
		t.Errorf("Subscribe() after ClearTopic error = %v", err)
	}
}

func TestClearAll(t *testing.T) {
	b := New()

	if _, err := Subscribe(b, "a", func(int) {}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if _, err := Subscribe(b, "b", func(string) {}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	b.ClearAll()

	if b.SubscriberCount("a") != 0 || b.SubscriberCount("b") != 0 {
		t.Error("ClearAll() left subscribers behind")
	}
}

func TestPublish_ReentrantSubscribe(t *testing.T) {
	b := New()

	lateCalls := 0
	if _, err := Subscribe(b, "reentrant", func(int) {
		// Subscribing during dispatch must not deadlock, and the new
		// handler must not see the in-flight publish.
		if _, err := Subscribe(b, "reentrant", func(int) { lateCalls++ }); err != nil {
			t.Errorf("reentrant Subscribe() error = %v", err)
		}
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := Publish(b, "reentrant", 1); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if lateCalls != 0 {
		t.Errorf("late subscriber saw in-flight publish, calls = %d", lateCalls)
	}

	// The next publish fans out to both.
	if err := Publish(b, "reentrant", 2); err != nil {
		t.Fatalf("second Publish() error = %v", err)
	}
	if lateCalls != 1 {
		t.Errorf("late subscriber calls after second publish = %d, want 1", lateCalls)
	}
}

func TestPublish_ReentrantPublishOtherTopic(t *testing.T) {
	b := New()

	var relayed []string
	if _, err := Subscribe(b, "downstream", func(s string) {
		relayed = append(relayed, s)
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if _, err := Subscribe(b, "upstream", func(s string) {
		if err := Publish(b, "downstream", s); err != nil {
			t.Errorf("nested Publish() error = %v", err)
		}
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := Publish(b, "upstream", "cascade"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(relayed) != 1 || relayed[0] != "cascade" {
		t.Errorf("relayed = %v, want [cascade]", relayed)
	}
}
