package services

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/aminebenjebli/flowspace/internal/interpret/domain"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/value_objects"
)

// Keyword families for the local fallback priority guess, checked most
// specific first.
var (
	fallbackUrgentWords = []string{
		"urgent", "urgente", "urgence", "emergency", "asap", "immediately",
		"immédiat", "immediat", "critical", "critique",
	}
	fallbackHighWords = []string{
		"important", "importante", "priority", "prioritaire", "high", "haute",
	}
	fallbackLowWords = []string{
		"when possible", "whenever", "no rush", "someday",
		"quand possible", "pas urgent", "low",
	}
)

// Words stripped from the input before deriving the fallback title:
// temporal and urgency markers that rarely belong in a task name.
var fallbackNoiseWords = []string{
	"today", "tomorrow", "tonight", "next week", "urgent", "urgente",
	"asap", "important", "demain", "aujourd'hui", "mañana", "manana",
	"amanhã", "amanha", "morgen", "heute", "hoy", "hoje",
}

var fallbackPunctRe = regexp.MustCompile(`[!?.,;:"']+`)

// fallbackDraft derives a best-effort draft from the raw text when the
// oracle is unavailable or returns garbage.
func fallbackDraft(text string) domain.OracleDraft {
	return domain.OracleDraft{
		Title:       fallbackTitle(text),
		Description: strings.TrimSpace(text),
		Priority:    fallbackPriority(text).String(),
	}
}

func fallbackPriority(text string) value_objects.Priority {
	lower := strings.ToLower(text)

	for _, w := range fallbackUrgentWords {
		if containsWord(lower, w) {
			return value_objects.PriorityUrgent
		}
	}
	for _, w := range fallbackHighWords {
		if containsWord(lower, w) {
			return value_objects.PriorityHigh
		}
	}
	for _, w := range fallbackLowWords {
		if containsWord(lower, w) {
			return value_objects.PriorityLow
		}
	}
	return value_objects.PriorityMedium
}

// fallbackTitle keeps the first four meaningful tokens, stripped of
// punctuation and capitalized. Empty results default to "Task".
func fallbackTitle(text string) string {
	cleaned := strings.ToLower(text)
	for _, w := range fallbackNoiseWords {
		cleaned = stripWord(cleaned, w)
	}
	cleaned = fallbackPunctRe.ReplaceAllString(cleaned, " ")

	tokens := strings.Fields(cleaned)
	if len(tokens) > 4 {
		tokens = tokens[:4]
	}
	if len(tokens) == 0 {
		return "Task"
	}

	title := []rune(strings.Join(tokens, " "))
	title[0] = unicode.ToUpper(title[0])
	return string(title)
}
