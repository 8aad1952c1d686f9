// Package domain defines the data model of the natural-language task
// interpretation pipeline: the untrusted oracle draft, the temporal match,
// and the final task draft handed to the CRUD layer.
package domain

import (
	"time"

	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/value_objects"
)

// Language identifies the detected source language of the input text.
type Language string

const (
	LangFrench     Language = "fr"
	LangSpanish    Language = "es"
	LangPortuguese Language = "pt"
	LangGerman     Language = "de"
	LangEnglish    Language = "en"
)

// Languages lists all supported languages in the fixed parser fallback order.
var Languages = []Language{LangFrench, LangSpanish, LangPortuguese, LangGerman, LangEnglish}

// TemporalMatch is the result of temporal-expression extraction. A nil When
// means no temporal expression was found, which is a valid outcome.
type TemporalMatch struct {
	When     *time.Time
	Span     string
	Language Language
}

// Resolved reports whether the match carries a concrete instant.
func (m TemporalMatch) Resolved() bool {
	return m.When != nil
}

// OracleDraft is the structured guess returned by the text-completion
// oracle. Every field is untrusted: missing, malformed, or adversarial
// values must not crash the pipeline.
type OracleDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Status      string   `json:"status,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

// ConfidenceOrZero returns the oracle confidence, treating absence as 0 so
// it can never pass a confidence gate.
func (d OracleDraft) ConfidenceOrZero() float64 {
	if d.Confidence == nil {
		return 0
	}
	return *d.Confidence
}

// TaskDraft is the pipeline output. Ownership transfers to the caller;
// the pipeline itself never persists anything.
type TaskDraft struct {
	Title              string
	Description        string
	Status             task.Status
	StatusLabel        string
	Priority           value_objects.Priority
	PriorityConfidence *float64
	PriorityReason     string
	DueDate            *time.Time
	MatchedSpan        string
	Language           Language
}
