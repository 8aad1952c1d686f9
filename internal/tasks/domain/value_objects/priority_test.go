package value_objects_test

import (
	"testing"

	"github.com/aminebenjebli/flowspace/internal/tasks/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input string
		want  value_objects.Priority
	}{
		{"low", value_objects.PriorityLow},
		{"medium", value_objects.PriorityMedium},
		{"high", value_objects.PriorityHigh},
		{"urgent", value_objects.PriorityUrgent},
		{"URGENT", value_objects.PriorityUrgent},
		{"  High  ", value_objects.PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := value_objects.ParsePriority(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestParsePriority_Invalid(t *testing.T) {
	for _, input := range []string{"", "critical", "5", "hi"} {
		t.Run(input, func(t *testing.T) {
			p, err := value_objects.ParsePriority(input)
			assert.ErrorIs(t, err, value_objects.ErrInvalidPriority)
			assert.Equal(t, value_objects.PriorityMedium, p)
		})
	}
}

func TestPriority_String(t *testing.T) {
	assert.Equal(t, "low", value_objects.PriorityLow.String())
	assert.Equal(t, "urgent", value_objects.PriorityUrgent.String())
	assert.Equal(t, "unknown", value_objects.Priority(0).String())
}

func TestPriority_Weight(t *testing.T) {
	assert.Greater(t, value_objects.PriorityUrgent.Weight(), value_objects.PriorityHigh.Weight())
	assert.Greater(t, value_objects.PriorityHigh.Weight(), value_objects.PriorityMedium.Weight())
	assert.Greater(t, value_objects.PriorityMedium.Weight(), value_objects.PriorityLow.Weight())
}

func TestPriority_IsValid(t *testing.T) {
	assert.True(t, value_objects.PriorityLow.IsValid())
	assert.True(t, value_objects.PriorityUrgent.IsValid())
	assert.False(t, value_objects.Priority(0).IsValid())
	assert.False(t, value_objects.Priority(5).IsValid())
}
