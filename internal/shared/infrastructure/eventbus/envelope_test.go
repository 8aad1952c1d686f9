package eventbus_test

import (
	"context"
	"testing"

	"github.com/aminebenjebli/flowspace/internal/shared/infrastructure/eventbus"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDomainEvents(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)

	var received []*eventbus.Envelope
	bus.Subscribe("core.task.#", func(_ context.Context, env *eventbus.Envelope) error {
		received = append(received, env)
		return nil
	})

	tsk, err := task.NewTask(uuid.New(), "Publish me")
	require.NoError(t, err)
	require.NoError(t, tsk.Start())

	err = eventbus.PublishDomainEvents(context.Background(), bus, tsk.DomainEvents())

	require.NoError(t, err)
	require.Len(t, received, 2)
	assert.Equal(t, task.RoutingKeyCreated, received[0].RoutingKey)
	assert.Equal(t, task.RoutingKeyStarted, received[1].RoutingKey)
	assert.Equal(t, tsk.ID(), received[0].AggregateID)
	assert.Equal(t, task.AggregateType, received[0].AggregateType)
	assert.NotEqual(t, uuid.Nil, received[0].EventID)
}
