package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelopePayload(t *testing.T, routingKey string) []byte {
	t.Helper()
	body, err := json.Marshal(Envelope{
		EventID:     uuid.New(),
		AggregateID: uuid.New(),
		RoutingKey:  routingKey,
	})
	require.NoError(t, err)
	return body
}

func TestInProcessEventBus_ExactMatch(t *testing.T) {
	bus := NewInProcessEventBus(nil)

	var received []*Envelope
	bus.Subscribe("core.task.created", func(_ context.Context, env *Envelope) error {
		received = append(received, env)
		return nil
	})

	err := bus.Publish(context.Background(), "core.task.created", envelopePayload(t, "core.task.created"))

	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "core.task.created", received[0].RoutingKey)
}

func TestInProcessEventBus_WildcardMatch(t *testing.T) {
	bus := NewInProcessEventBus(nil)

	var keys []string
	bus.Subscribe("core.task.#", func(_ context.Context, env *Envelope) error {
		keys = append(keys, env.RoutingKey)
		return nil
	})

	for _, key := range []string{"core.task.created", "core.task.completed", "core.other.created"} {
		require.NoError(t, bus.Publish(context.Background(), key, envelopePayload(t, key)))
	}

	assert.Equal(t, []string{"core.task.created", "core.task.completed"}, keys)
}

func TestInProcessEventBus_HandlerErrorsAreSwallowed(t *testing.T) {
	bus := NewInProcessEventBus(nil)

	calls := 0
	bus.Subscribe("core.task.created", func(_ context.Context, _ *Envelope) error {
		calls++
		return errors.New("handler exploded")
	})

	err := bus.Publish(context.Background(), "core.task.created", envelopePayload(t, "core.task.created"))

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestInProcessEventBus_NoSubscribers(t *testing.T) {
	bus := NewInProcessEventBus(nil)
	err := bus.Publish(context.Background(), "core.task.created", envelopePayload(t, "core.task.created"))
	require.NoError(t, err)
}

func TestMatchRoutingKey(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"core.task.created", "core.task.created", true},
		{"core.task.created", "core.task.completed", false},
		{"#", "anything.at.all", true},
		{"core.task.#", "core.task.created", true},
		{"core.task.#", "core.task", true},
		{"core.task.#", "core.tasks.created", false},
		{"core.#", "core.task.created", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchRoutingKey(tt.pattern, tt.key), "pattern %q key %q", tt.pattern, tt.key)
	}
}
