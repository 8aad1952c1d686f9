package services

import (
	"regexp"

	"github.com/aminebenjebli/flowspace/internal/interpret/domain"
	"github.com/aminebenjebli/flowspace/internal/tasks/domain/task"
)

// Multilingual status regex families, checked in the fixed order
// done, in_progress, cancelled, todo.
var (
	doneRe = regexp.MustCompile(`(?i)\b(done|finished|completed|complete|terminé|termine|fini|finie|acabado|terminado|hecho|concluído|concluido|feito|erledigt|fertig|abgeschlossen)\b`)

	inProgressRe = regexp.MustCompile(`(?i)\b(in progress|ongoing|working on|started|doing|en cours|commencé|commence|en curso|en progreso|trabajando|em andamento|em curso|in arbeit|laufend|in bearbeitung)\b`)

	cancelledRe = regexp.MustCompile(`(?i)\b(cancelled|canceled|dropped|abandoned|annulé|annule|abandonné|abandonne|cancelado|anulado|abgebrochen|storniert)\b`)
)

// NormalizeStatus maps a free-text status signal onto one of the four
// canonical states. A signal that already names a canonical state is used
// directly; otherwise the regex families decide, defaulting to todo.
func NormalizeStatus(signal string) task.Status {
	if status, err := task.ParseStatus(signal); err == nil {
		return status
	}

	switch {
	case doneRe.MatchString(signal):
		return task.StatusDone
	case inProgressRe.MatchString(signal):
		return task.StatusInProgress
	case cancelledRe.MatchString(signal):
		return task.StatusCancelled
	default:
		return task.StatusTodo
	}
}

// statusLabels maps (status, language) to a localized display label.
var statusLabels = map[task.Status]map[domain.Language]string{
	task.StatusTodo: {
		domain.LangEnglish:    "To do",
		domain.LangFrench:     "À faire",
		domain.LangSpanish:    "Por hacer",
		domain.LangPortuguese: "A fazer",
		domain.LangGerman:     "Zu erledigen",
	},
	task.StatusInProgress: {
		domain.LangEnglish:    "In progress",
		domain.LangFrench:     "En cours",
		domain.LangSpanish:    "En curso",
		domain.LangPortuguese: "Em andamento",
		domain.LangGerman:     "In Arbeit",
	},
	task.StatusDone: {
		domain.LangEnglish:    "Done",
		domain.LangFrench:     "Terminé",
		domain.LangSpanish:    "Hecho",
		domain.LangPortuguese: "Concluído",
		domain.LangGerman:     "Erledigt",
	},
	task.StatusCancelled: {
		domain.LangEnglish:    "Cancelled",
		domain.LangFrench:     "Annulé",
		domain.LangSpanish:    "Cancelado",
		domain.LangPortuguese: "Cancelado",
		domain.LangGerman:     "Abgebrochen",
	},
}

// StatusLabel returns the localized display label for a status. Unknown
// languages fall back to English.
func StatusLabel(status task.Status, lang domain.Language) string {
	labels, ok := statusLabels[status]
	if !ok {
		return status.String()
	}
	if label, ok := labels[lang]; ok {
		return label
	}
	return labels[domain.LangEnglish]
}
