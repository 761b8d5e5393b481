package bus

import (
	"log/slog"
	"slices"
	"sync"
)

// Topic names an event and fixes its payload type.
type Topic[T any] struct {
	name string
}

func NewTopic[T any](name string) Topic[T] {
	return Topic[T]{name: name}
}

func (t Topic[T]) Name() string {
	return t.name
}

type named interface {
	Name() string
}

type subscriber struct {
	id      uint64
	deliver func(any)
}

// Bus is an in-process publish/subscribe channel.
// Delivery is synchronous on the publishing goroutine, in subscription order.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string][]subscriber
	logger *slog.Logger
}

func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:   make(map[string][]subscriber),
		logger: logger,
	}
}

// Subscription is released with Unsubscribe. Releasing twice is a no-op.
type Subscription struct {
	once  sync.Once
	bus   *Bus
	topic string
	id    uint64
}

func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.bus.remove(s.topic, s.id)
	})
}

func Subscribe[T any](b *Bus, topic Topic[T], handler func(T)) *Subscription {
	deliver := func(payload any) {
		handler(payload.(T))
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic.name] = append(b.subs[topic.name], subscriber{id: id, deliver: deliver})
	b.mu.Unlock()

	return &Subscription{bus: b, topic: topic.name, id: id}
}

// Publish calls every handler subscribed to topic at the moment of the call.
// Handlers may subscribe, unsubscribe or publish themselves; feedback loops are not detected.
func Publish[T any](b *Bus, topic Topic[T], payload T) {
	b.mu.Lock()
	snapshot := slices.Clone(b.subs[topic.name])
	b.mu.Unlock()

	b.logger.Debug("bus publish", "topic", topic.name, "subscribers", len(snapshot))

	for _, s := range snapshot {
		s.deliver(payload)
	}
}

// Count reports how many handlers are subscribed to topic.
func (b *Bus) Count(topic named) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs[topic.Name()])
}

func (b *Bus) remove(topic string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := slices.DeleteFunc(slices.Clone(b.subs[topic]), func(s subscriber) bool {
		return s.id == id
	})
	if len(subs) == 0 {
		delete(b.subs, topic)
		return
	}
	b.subs[topic] = subs
}
