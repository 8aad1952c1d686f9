package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aminebenjebli/flowspace/internal/interpret/domain"
)

// Completer is the external text-completion collaborator.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const extractionPromptTemplate = `You convert natural language into a structured task.
Extract the following fields from the input below:
- title: short imperative summary
- description: remaining context, or "" if none
- priority: exactly one of "low", "medium", "high", "urgent"
- status: exactly one of "todo", "in_progress", "done", "cancelled" (optional)
- confidence: your confidence in the priority, between 0 and 1 (optional)

Respond with strict JSON only, no prose, no code fences:
{"title": "...", "description": "...", "priority": "...", "status": "...", "confidence": 0.0}

Input: %s`

// FieldExtractor wraps the oracle with the extraction prompt, response
// cleaning, validation, and the deterministic local fallback.
type FieldExtractor struct {
	completer Completer
	logger    *slog.Logger
}

// NewFieldExtractor creates a field extractor.
func NewFieldExtractor(completer Completer, logger *slog.Logger) *FieldExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FieldExtractor{
		completer: completer,
		logger:    logger,
	}
}

// Draft asks the oracle for a structured guess about text. The call is
// total: every failure mode degrades to the local fallback extractor, and
// oracle problems are logged rather than propagated.
func (e *FieldExtractor) Draft(ctx context.Context, text string) domain.OracleDraft {
	if e.completer == nil {
		return fallbackDraft(text)
	}

	prompt := fmt.Sprintf(extractionPromptTemplate, text)

	raw, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		e.logger.Warn("oracle call failed, using local fallback", "error", err)
		return fallbackDraft(text)
	}

	draft, err := parseOracleResponse(raw)
	if err != nil {
		e.logger.Warn("oracle returned malformed output, using local fallback", "error", err)
		return fallbackDraft(text)
	}

	return draft
}

// rawDraft tolerates the oracle returning numbers or other JSON shapes
// where strings are expected; fields are validated one by one.
type rawDraft struct {
	Title       any `json:"title"`
	Description any `json:"description"`
	Priority    any `json:"priority"`
	Status      any `json:"status"`
	Confidence  any `json:"confidence"`
}

// parseOracleResponse cleans and validates the raw assistant message.
func parseOracleResponse(raw string) (domain.OracleDraft, error) {
	cleaned := extractJSONObject(stripCodeFences(raw))
	if cleaned == "" {
		return domain.OracleDraft{}, fmt.Errorf("no JSON object in oracle response")
	}

	var parsed rawDraft
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return domain.OracleDraft{}, fmt.Errorf("invalid JSON from oracle: %w", err)
	}

	title := coerceString(parsed.Title)
	description, hasDescription := coerceStringOK(parsed.Description)
	priority := coerceString(parsed.Priority)
	if title == "" || !hasDescription || priority == "" {
		return domain.OracleDraft{}, fmt.Errorf("oracle response missing required fields")
	}

	draft := domain.OracleDraft{
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      coerceString(parsed.Status),
	}
	if conf, ok := coerceFloat(parsed.Confidence); ok && conf >= 0 && conf <= 1 {
		draft.Confidence = &conf
	}

	return draft, nil
}

// stripCodeFences removes markdown fence markers and trims the response to
// the region between the first '{' and the last '}'.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

// extractJSONObject scans for the first balanced {...} span, ignoring
// braces inside string literals.
func extractJSONObject(s string) string {
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i, r := range s {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				if depth == 0 {
					start = i
				}
				depth++
			}
		case '}':
			if !inString && depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

func coerceString(v any) string {
	s, _ := coerceStringOK(v)
	return s
}

func coerceStringOK(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

func coerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
