package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aminebenjebli/flowspace/internal/tasks/domain/value_objects"
)

// Keyword families per canonical priority. Checked in the fixed order
// low, medium, high, urgent: a phrase matching two families resolves to the
// earlier one. This ordering is observable behavior and must not change.
var (
	lowPriorityWords = []string{
		"low", "minor", "faible", "basse", "bas",
		"when possible", "whenever", "no rush", "pas urgent",
		"quand possible", "someday", "eventually",
	}
	mediumPriorityWords = []string{
		"medium", "normal", "moyen", "moyenne", "standard",
		"regular", "modéré", "modere", "habituel",
	}
	highPriorityWords = []string{
		"high", "important", "importante", "haute", "élevée", "elevee",
		"priority", "prioritaire", "soon", "bientôt", "bientot",
	}
	urgentPriorityWords = []string{
		"urgent", "urgente", "urgence", "emergency", "critical", "critique",
		"asap", "immediately", "immédiat", "immediat", "tout de suite",
	}
)

var allDigitsRe = regexp.MustCompile(`^\d+$`)

// NormalizePriority maps an arbitrary priority signal onto one of the four
// canonical levels. It is total: any input resolves to a valid priority,
// defaulting to medium.
func NormalizePriority(raw string) value_objects.Priority {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return value_objects.PriorityMedium
	}

	families := []struct {
		words    []string
		priority value_objects.Priority
	}{
		{lowPriorityWords, value_objects.PriorityLow},
		{mediumPriorityWords, value_objects.PriorityMedium},
		{highPriorityWords, value_objects.PriorityHigh},
		{urgentPriorityWords, value_objects.PriorityUrgent},
	}

	for _, family := range families {
		for _, word := range family.words {
			if containsWord(raw, word) {
				return family.priority
			}
		}
	}

	if allDigitsRe.MatchString(raw) {
		return numericPriority(raw)
	}

	return value_objects.PriorityMedium
}

// numericPriority maps a 1-4 style numeric scale onto the canonical levels.
// Values outside the scale clamp to the nearest end.
func numericPriority(raw string) value_objects.Priority {
	n, err := strconv.Atoi(raw)
	if err != nil {
		// All digits but too large for an int: far past the top of the scale.
		return value_objects.PriorityUrgent
	}
	switch {
	case n <= 1:
		return value_objects.PriorityLow
	case n == 2:
		return value_objects.PriorityMedium
	case n == 3:
		return value_objects.PriorityHigh
	default:
		return value_objects.PriorityUrgent
	}
}
