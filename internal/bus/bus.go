package bus

import (
	"reflect"
	"sync"
)

// SubscriptionID identifies a single subscription for later removal.
type SubscriptionID uint64

// Logger defines the logging interface used by the Bus.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Bus is a typed, in-process publish/subscribe hub.
//
// Each topic carries exactly one payload type, established by the first
// subscription. Publishing a payload of a different type is rejected with
// ErrTypeMismatch rather than left undefined.
//
// Dispatch is synchronous: Publish invokes every registered handler for the
// topic in subscription order and returns only after all handlers have run.
// The subscriber list is snapshotted under a brief critical section and
// handlers are invoked outside it, so a handler may safely subscribe,
// unsubscribe, or publish to other topics without deadlocking. Registry
// changes made during an in-flight publish do not affect that publish's
// fan-out set.
//
// Thread Safety: all methods are safe for concurrent use.
type Bus struct {
	mu     sync.Mutex
	topics map[string]*topicState
	nextID SubscriptionID
	logger Logger
}

// topicState holds a topic's payload type identity and subscriber list.
// The type binding survives an empty subscriber list; only ClearTopic and
// ClearAll remove it.
type topicState struct {
	payloadType reflect.Type
	subs        []subscriber
}

// subscriber pairs a subscription ID with a type-erased delivery function.
type subscriber struct {
	id      SubscriptionID
	deliver func(any)
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{
		topics: make(map[string]*topicState),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the bus.
func (b *Bus) SetLogger(logger Logger) {
	b.mu.Lock()
	b.logger = logger
	b.mu.Unlock()
}

// Subscribe registers a handler for payloads of type T published on topic.
//
// The first subscription binds the topic to T; later subscriptions with a
// different payload type fail with ErrTypeMismatch.
//
// Returns:
//   - SubscriptionID: Handle for Unsubscribe
//   - error: ErrTypeMismatch if the topic is bound to another payload type
func Subscribe[T any](b *Bus, topic string, handler func(T)) (SubscriptionID, error) {
	payloadType := reflect.TypeOf((*T)(nil)).Elem()

	b.mu.Lock()
	defer b.mu.Unlock()

	ts, ok := b.topics[topic]
	if !ok {
		ts = &topicState{payloadType: payloadType}
		b.topics[topic] = ts
	} else if ts.payloadType != payloadType {
		return 0, wrapTypeMismatch(topic, ts.payloadType, payloadType)
	}

	b.nextID++
	id := b.nextID
	ts.subs = append(ts.subs, subscriber{
		id: id,
		deliver: func(v any) {
			handler(v.(T))
		},
	})

	b.logger.Debug("subscribed", "topic", topic, "id", uint64(id))
	return id, nil
}

// Publish delivers payload to every handler currently registered for topic,
// synchronously and in subscription order.
//
// Publishing to a topic with no subscribers (or no type binding) is a no-op.
//
// Returns:
//   - error: ErrTypeMismatch if the topic is bound to another payload type
func Publish[T any](b *Bus, topic string, payload T) error {
	payloadType := reflect.TypeOf((*T)(nil)).Elem()

	b.mu.Lock()
	ts, ok := b.topics[topic]
	if !ok {
		b.mu.Unlock()
		return nil
	}
	if ts.payloadType != payloadType {
		b.mu.Unlock()
		return wrapTypeMismatch(topic, ts.payloadType, payloadType)
	}
	// Snapshot so handlers run without the lock held. A handler may then
	// re-enter the bus; changes it makes are not seen by this dispatch.
	subs := make([]subscriber, len(ts.subs))
	copy(subs, ts.subs)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(payload)
	}
	return nil
}

// Unsubscribe removes the subscription with the given ID from topic.
// Unknown topics or IDs are a no-op.
func (b *Bus) Unsubscribe(topic string, id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ts, ok := b.topics[topic]
	if !ok {
		return
	}
	for i, sub := range ts.subs {
		if sub.id == id {
			ts.subs = append(ts.subs[:i], ts.subs[i+1:]...)
			b.logger.Debug("unsubscribed", "topic", topic, "id", uint64(id))
			return
		}
	}
}

// ClearTopic removes all subscribers for a topic along with its type binding.
func (b *Bus) ClearTopic(topic string) {
	b.mu.Lock()
	delete(b.topics, topic)
	b.mu.Unlock()
}

// ClearAll removes every subscriber from every topic.
func (b *Bus) ClearAll() {
	b.mu.Lock()
	b.topics = make(map[string]*topicState)
	b.mu.Unlock()
}

// SubscriberCount returns the number of subscribers for a topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ts, ok := b.topics[topic]; ok {
		return len(ts.subs)
	}
	return 0
}
