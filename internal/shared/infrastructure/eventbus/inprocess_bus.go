package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Handler consumes a published event envelope.
type Handler func(ctx context.Context, env *Envelope) error

// InProcessEventBus is an in-memory event bus for local mode (no RabbitMQ).
// Events are delivered synchronously to registered handlers.
type InProcessEventBus struct {
	logger   *slog.Logger
	mu       sync.Mutex
	handlers map[string][]Handler
}

// NewInProcessEventBus creates a new in-process event bus.
func NewInProcessEventBus(logger *slog.Logger) *InProcessEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessEventBus{
		logger:   logger,
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for a routing-key pattern. A trailing ".#"
// matches any suffix, mirroring the topic semantics of the RabbitMQ exchange.
func (b *InProcessEventBus) Subscribe(pattern string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[pattern] = append(b.handlers[pattern], handler)
}

// Publish dispatches an event synchronously to all matching handlers.
// Handler errors are logged, not returned, so local mode behaves like the
// fire-and-forget broker path.
func (b *InProcessEventBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	env := &Envelope{}
	if err := json.Unmarshal(payload, env); err != nil {
		b.logger.Error("failed to unmarshal event payload",
			"routing_key", routingKey,
			"error", err,
		)
		return nil
	}
	if env.RoutingKey == "" {
		env.RoutingKey = routingKey
	}

	b.mu.Lock()
	var matched []Handler
	for pattern, hs := range b.handlers {
		if matchRoutingKey(pattern, routingKey) {
			matched = append(matched, hs...)
		}
	}
	b.mu.Unlock()

	start := time.Now()
	for _, h := range matched {
		if err := h(ctx, env); err != nil {
			b.logger.Error("event dispatch failed",
				"routing_key", routingKey,
				"event_id", env.EventID,
				"error", err,
			)
		}
	}

	b.logger.Debug("event dispatched",
		"routing_key", routingKey,
		"event_id", env.EventID,
		"handlers", len(matched),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

// Close is a no-op for in-process bus.
func (b *InProcessEventBus) Close() error {
	return nil
}

func matchRoutingKey(pattern, key string) bool {
	if pattern == key || pattern == "#" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, ".#"); ok {
		return key == prefix || strings.HasPrefix(key, prefix+".")
	}
	return false
}
