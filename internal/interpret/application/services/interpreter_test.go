package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aminebenjebli/flowspace/internal/interpret/domain"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInterpreter(completer Completer, now time.Time) *Interpreter {
	return NewInterpreter(
		NewTemporalExtractor(),
		NewFieldExtractor(completer, nil),
		nil,
		WithClock(func() time.Time { return now }),
	)
}

func TestInterpreter_OracleUnavailable(t *testing.T) {
	completer := &stubCompleter{err: errors.New("oracle down")}
	i := newTestInterpreter(completer, ref)

	draft, err := i.Interpret(context.Background(), "review the notes")

	require.NoError(t, err)
	assert.NotEmpty(t, draft.Title)
	assert.Equal(t, value_objects.PriorityMedium, draft.Priority)
	assert.Equal(t, task.StatusTodo, draft.Status)
	assert.Nil(t, draft.DueDate)
}

func TestInterpreter_OraclePriorityWinsAboveConfidenceFloor(t *testing.T) {
	completer := &stubCompleter{
		response: `{"title": "Call the bank", "description": "", "priority": "low", "confidence": 0.9}`,
	}
	i := newTestInterpreter(completer, ref)

	draft, err := i.Interpret(context.Background(), "call the bank tomorrow")

	require.NoError(t, err)
	// Oracle wins over the due-date heuristic when confident.
	assert.Equal(t, value_objects.PriorityLow, draft.Priority)
	assert.Contains(t, draft.PriorityReason, "confidence")
	require.NotNil(t, draft.DueDate)
}

func TestInterpreter_DueDateHeuristicBelowConfidenceFloor(t *testing.T) {
	// Noon reference, so tomorrow 09:00 is within 24 hours.
	noon := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	completer := &stubCompleter{
		response: `{"title": "Call the bank", "description": "", "priority": "low", "confidence": 0.4}`,
	}
	i := newTestInterpreter(completer, noon)

	draft, err := i.Interpret(context.Background(), "call the bank tomorrow")

	require.NoError(t, err)
	assert.Equal(t, value_objects.PriorityUrgent, draft.Priority)
	assert.Equal(t, "due within 24 hours", draft.PriorityReason)
}

func TestInterpreter_DueDateHeuristicBands(t *testing.T) {
	completer := &stubCompleter{err: errors.New("oracle down")}
	i := newTestInterpreter(completer, ref)

	tests := []struct {
		name string
		text string
		want value_objects.Priority
	}{
		{"within 24 hours", "meeting today", value_objects.PriorityUrgent},
		{"within 7 days", "ship it friday", value_objects.PriorityHigh},
		{"beyond 7 days", "renew passport 2025-06-15", value_objects.PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := i.Interpret(context.Background(), tt.text)
			require.NoError(t, err)
			require.NotNil(t, draft.DueDate)
			assert.Equal(t, tt.want, draft.Priority)
		})
	}
}

func TestInterpreter_DomainKeywords(t *testing.T) {
	completer := &stubCompleter{err: errors.New("oracle down")}
	i := newTestInterpreter(completer, ref)

	tests := []struct {
		text string
		want value_objects.Priority
	}{
		{"call the doctor about the results", value_objects.PriorityUrgent},
		{"pay the invoice from the contractor", value_objects.PriorityHigh},
		{"prendre rendez-vous chez le médecin", value_objects.PriorityUrgent},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			draft, err := i.Interpret(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, draft.Priority)
			assert.Contains(t, draft.PriorityReason, "keyword")
		})
	}
}

func TestInterpreter_BlankInput(t *testing.T) {
	i := newTestInterpreter(nil, ref)

	for _, text := range []string{"", "   ", "\t\n"} {
		draft, err := i.Interpret(context.Background(), text)

		require.NoError(t, err)
		assert.Equal(t, task.StatusTodo, draft.Status)
		assert.Equal(t, value_objects.PriorityMedium, draft.Priority)
		assert.Equal(t, "empty input, defaults applied", draft.PriorityReason)
		assert.Nil(t, draft.DueDate)
	}
}

func TestInterpreter_StatusFromOracle(t *testing.T) {
	completer := &stubCompleter{
		response: `{"title": "Draft report", "description": "", "priority": "medium", "status": "in_progress", "confidence": 0.8}`,
	}
	i := newTestInterpreter(completer, ref)

	draft, err := i.Interpret(context.Background(), "keep drafting the report")

	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, draft.Status)
}

func TestInterpreter_StatusFromText(t *testing.T) {
	completer := &stubCompleter{err: errors.New("oracle down")}
	i := newTestInterpreter(completer, ref)

	draft, err := i.Interpret(context.Background(), "already finished the cleanup")

	require.NoError(t, err)
	assert.Equal(t, task.StatusDone, draft.Status)
}

// Domain keywords fire on whole words only: "repaint" must not trip the
// health family via "pain", nor "know" the urgency family via "now".
func TestInterpreter_KeywordsMatchWholeWordsOnly(t *testing.T) {
	completer := &stubCompleter{err: errors.New("oracle down")}
	i := newTestInterpreter(completer, ref)

	for _, text := range []string{
		"repaint the fence",
		"let me know the plan",
	} {
		t.Run(text, func(t *testing.T) {
			draft, err := i.Interpret(context.Background(), text)
			require.NoError(t, err)
			assert.Equal(t, value_objects.PriorityMedium, draft.Priority)
			assert.NotContains(t, draft.PriorityReason, "keyword")
		})
	}
}

func TestInterpreter_EnglishLabelsWithoutLocaleHints(t *testing.T) {
	completer := &stubCompleter{err: errors.New("oracle down")}
	i := newTestInterpreter(completer, ref)

	draft, err := i.Interpret(context.Background(), "buy milk")

	require.NoError(t, err)
	assert.Equal(t, domain.LangEnglish, draft.Language)
	assert.Equal(t, "To do", draft.StatusLabel)
}

func TestInterpreter_LocalizedStatusLabel(t *testing.T) {
	completer := &stubCompleter{err: errors.New("oracle down")}
	i := newTestInterpreter(completer, ref)

	draft, err := i.Interpret(context.Background(), "acheter du pain demain")

	require.NoError(t, err)
	assert.Equal(t, domain.LangFrench, draft.Language)
	assert.Equal(t, "À faire", draft.StatusLabel)
}

func TestInterpreter_CancelledContext(t *testing.T) {
	i := newTestInterpreter(nil, ref)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := i.Interpret(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}

// Interpretation is total: any input yields a valid draft.
func TestInterpreter_Totality(t *testing.T) {
	completer := &stubCompleter{response: "garbage, not even json"}
	i := newTestInterpreter(completer, ref)

	inputs := []string{
		"x",
		"!!!???",
		"due date 99/99/9999",
		"tomorrow tomorrow tomorrow",
		"urgente reunión mañana por la tarde",
		"1234567890",
	}

	for _, text := range inputs {
		t.Run(text, func(t *testing.T) {
			draft, err := i.Interpret(context.Background(), text)
			require.NoError(t, err)
			assert.NotEmpty(t, draft.Title)
			assert.True(t, draft.Priority.IsValid())
			assert.NotEmpty(t, draft.StatusLabel)
		})
	}
}
