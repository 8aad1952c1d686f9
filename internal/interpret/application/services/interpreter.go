// Package services implements the natural-language task interpretation
// pipeline: temporal extraction, oracle-assisted field extraction, signal
// normalization, and the arbitration that merges them into a task draft.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aminebenjebli/flowspace/internal/interpret/domain"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/value_objects"
)

// DefaultConfidenceFloor is the minimum oracle confidence required for its
// priority to be honored as-is.
const DefaultConfidenceFloor = 0.6

// Domain keyword heuristics applied when neither the oracle nor a due date
// decides the priority.
var (
	healthWords = []string{
		"doctor", "hospital", "health", "sick", "pain", "emergency",
		"médecin", "medecin", "hôpital", "hopital", "santé", "sante",
	}
	financialWords = []string{
		"invoice", "bill", "payment", "tax", "bank", "salary",
		"facture", "paiement", "impôt", "impot", "banque",
	}
	urgencyWords = []string{
		"asap", "now", "immediately", "right away",
		"tout de suite", "immédiatement", "immediatement",
	}
)

// Interpreter turns a free-form sentence into a structured task draft.
// Every sub-step has a documented default, so interpretation is total over
// all string inputs: oracle failures, malformed output, and missing
// temporal expressions all degrade instead of erring.
type Interpreter struct {
	temporal        *TemporalExtractor
	extractor       *FieldExtractor
	confidenceFloor float64
	clock           func() time.Time
	logger          *slog.Logger
}

// InterpreterOption customizes the interpreter.
type InterpreterOption func(*Interpreter)

// WithClock injects the reference clock, primarily for tests.
func WithClock(clock func() time.Time) InterpreterOption {
	return func(i *Interpreter) { i.clock = clock }
}

// WithConfidenceFloor overrides the oracle confidence gate.
func WithConfidenceFloor(floor float64) InterpreterOption {
	return func(i *Interpreter) { i.confidenceFloor = floor }
}

// NewInterpreter creates the pipeline orchestrator.
func NewInterpreter(temporal *TemporalExtractor, extractor *FieldExtractor, logger *slog.Logger, opts ...InterpreterOption) *Interpreter {
	if logger == nil {
		logger = slog.Default()
	}
	i := &Interpreter{
		temporal:        temporal,
		extractor:       extractor,
		confidenceFloor: DefaultConfidenceFloor,
		clock:           func() time.Time { return time.Now().UTC() },
		logger:          logger,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interpret produces a task draft from raw text. Blank input yields the
// default draft rather than an error.
func (i *Interpreter) Interpret(ctx context.Context, text string) (*domain.TaskDraft, error) {
	text = strings.TrimSpace(text)
	now := i.clock()

	if text == "" {
		return &domain.TaskDraft{
			Status:         task.StatusTodo,
			StatusLabel:    StatusLabel(task.StatusTodo, domain.LangEnglish),
			Priority:       value_objects.PriorityMedium,
			PriorityReason: "empty input, defaults applied",
			Language:       domain.LangEnglish,
		}, nil
	}

	// The temporal extractor and the oracle have no data dependency on
	// each other; run both before arbitration.
	var (
		wg      sync.WaitGroup
		match   domain.TemporalMatch
		oracled domain.OracleDraft
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		match = i.temporal.Extract(text, now)
	}()
	go func() {
		defer wg.Done()
		oracled = i.extractor.Draft(ctx, text)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lang := match.Language
	if lang == "" {
		lang = domain.LangEnglish
	}

	statusSource := strings.Join([]string{oracled.Status, oracled.Description, text}, " ")
	status, err := task.ParseStatus(oracled.Status)
	if err != nil {
		status = NormalizeStatus(statusSource)
	}

	priority, reason := i.decidePriority(oracled, match.When, statusSource, now)

	title := oracled.Title
	if title == "" {
		title = fallbackTitle(text)
	}

	draft := &domain.TaskDraft{
		Title:              title,
		Description:        oracled.Description,
		Status:             status,
		StatusLabel:        StatusLabel(status, lang),
		Priority:           priority,
		PriorityConfidence: oracled.Confidence,
		PriorityReason:     reason,
		DueDate:            match.When,
		MatchedSpan:        match.Span,
		Language:           lang,
	}

	i.logger.Debug("interpretation complete",
		"title", draft.Title,
		"priority", draft.Priority.String(),
		"status", draft.Status.String(),
		"priority_reason", draft.PriorityReason,
		"has_due_date", draft.DueDate != nil,
	)

	return draft, nil
}

// decidePriority arbitrates between the oracle, the due-date heuristic, and
// the domain keyword heuristics, returning the winner and why it won.
func (i *Interpreter) decidePriority(oracled domain.OracleDraft, due *time.Time, statusSource string, now time.Time) (value_objects.Priority, string) {
	if p, err := value_objects.ParsePriority(oracled.Priority); err == nil {
		if conf := oracled.ConfidenceOrZero(); conf >= i.confidenceFloor {
			return p, fmt.Sprintf("oracle priority %q at confidence %.2f", p.String(), conf)
		}
	}

	if due != nil {
		until := due.Sub(now)
		switch {
		case until <= 24*time.Hour:
			return value_objects.PriorityUrgent, "due within 24 hours"
		case until <= 7*24*time.Hour:
			return value_objects.PriorityHigh, "due within 7 days"
		default:
			return value_objects.PriorityMedium, "due beyond 7 days"
		}
	}

	lower := strings.ToLower(statusSource)
	for _, w := range healthWords {
		if containsWord(lower, w) {
			return value_objects.PriorityUrgent, "health or emergency keyword: " + w
		}
	}
	for _, w := range financialWords {
		if containsWord(lower, w) {
			return value_objects.PriorityHigh, "financial keyword: " + w
		}
	}
	for _, w := range urgencyWords {
		if containsWord(lower, w) {
			return value_objects.PriorityUrgent, "urgency keyword: " + w
		}
	}

	if p, err := value_objects.ParsePriority(oracled.Priority); err == nil {
		return p, fmt.Sprintf("oracle priority %q below confidence floor", p.String())
	}
	if p := NormalizePriority(oracled.Priority); oracled.Priority != "" && p != value_objects.PriorityMedium {
		return p, fmt.Sprintf("normalized oracle signal %q", oracled.Priority)
	}

	return value_objects.PriorityMedium, "no signal, default priority"
}
