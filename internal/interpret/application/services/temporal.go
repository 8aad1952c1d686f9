package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/aminebenjebli/flowspace/internal/interpret/domain"
)

// localeTable holds the per-locale keyword families used for hinting,
// parsing, and post-processing.
type localeTable struct {
	lang      domain.Language
	today     []string
	tomorrow  []string
	nextWeek  []string
	nextWords []string
	weekdays  map[string]time.Weekday
	months    map[string]time.Month
	morning   []string
	afternoon []string
	evening   []string
	noon      []string
}

// localeTables is the fixed parser fallback order. Hinted locales are
// promoted to the front of the chain; this order fills in the rest.
var localeTables = []localeTable{frTable, esTable, ptTable, deTable, enTable}

var frTable = localeTable{
	lang:     domain.LangFrench,
	today:    []string{"aujourd'hui", "aujourdhui"},
	tomorrow: []string{"demain"},
	nextWeek: []string{"semaine prochaine", "la semaine prochaine"},
	nextWords: []string{"prochain", "prochaine"},
	weekdays: map[string]time.Weekday{
		"lundi": time.Monday, "mardi": time.Tuesday, "mercredi": time.Wednesday,
		"jeudi": time.Thursday, "vendredi": time.Friday, "samedi": time.Saturday,
		"dimanche": time.Sunday,
	},
	months: map[string]time.Month{
		"janvier": time.January, "février": time.February, "fevrier": time.February,
		"mars": time.March, "avril": time.April, "mai": time.May, "juin": time.June,
		"juillet": time.July, "août": time.August, "aout": time.August,
		"septembre": time.September, "octobre": time.October,
		"novembre": time.November, "décembre": time.December, "decembre": time.December,
	},
	morning:   []string{"matin"},
	afternoon: []string{"après-midi", "apres-midi"},
	evening:   []string{"soir", "soirée", "soiree"},
	noon:      []string{"midi"},
}

var esTable = localeTable{
	lang:     domain.LangSpanish,
	today:    []string{"hoy"},
	tomorrow: []string{"mañana", "manana"},
	nextWeek: []string{"próxima semana", "proxima semana", "semana que viene"},
	nextWords: []string{"próximo", "proximo", "próxima", "proxima", "que viene"},
	weekdays: map[string]time.Weekday{
		"lunes": time.Monday, "martes": time.Tuesday, "miércoles": time.Wednesday,
		"miercoles": time.Wednesday, "jueves": time.Thursday, "viernes": time.Friday,
		"sábado": time.Saturday, "sabado": time.Saturday, "domingo": time.Sunday,
	},
	months: map[string]time.Month{
		"enero": time.January, "febrero": time.February, "marzo": time.March,
		"abril": time.April, "mayo": time.May, "junio": time.June, "julio": time.July,
		"agosto": time.August, "septiembre": time.September, "octubre": time.October,
		"noviembre": time.November, "diciembre": time.December,
	},
	morning:   []string{"por la mañana", "madrugada"},
	afternoon: []string{"tarde"},
	evening:   []string{"noche"},
	noon:      []string{"mediodía", "mediodia"},
}

var ptTable = localeTable{
	lang:     domain.LangPortuguese,
	today:    []string{"hoje"},
	tomorrow: []string{"amanhã", "amanha"},
	nextWeek: []string{"próxima semana", "proxima semana", "semana que vem"},
	nextWords: []string{"próximo", "proximo", "próxima", "proxima", "que vem"},
	weekdays: map[string]time.Weekday{
		"segunda-feira": time.Monday, "segunda": time.Monday,
		"terça-feira": time.Tuesday, "terça": time.Tuesday, "terca": time.Tuesday,
		"quarta-feira": time.Wednesday, "quarta": time.Wednesday,
		"quinta-feira": time.Thursday, "quinta": time.Thursday,
		"sexta-feira": time.Friday, "sexta": time.Friday,
		"sábado": time.Saturday, "sabado": time.Saturday, "domingo": time.Sunday,
	},
	months: map[string]time.Month{
		"janeiro": time.January, "fevereiro": time.February, "março": time.March,
		"marco": time.March, "abril": time.April, "maio": time.May, "junho": time.June,
		"julho": time.July, "agosto": time.August, "setembro": time.September,
		"outubro": time.October, "novembro": time.November, "dezembro": time.December,
	},
	morning:   []string{"de manhã", "de manha"},
	afternoon: []string{"tarde"},
	evening:   []string{"noite"},
	noon:      []string{"meio-dia"},
}

var deTable = localeTable{
	lang:     domain.LangGerman,
	today:    []string{"heute"},
	tomorrow: []string{"morgen"},
	nextWeek: []string{"nächste woche", "naechste woche"},
	nextWords: []string{"nächste", "naechste", "nächsten", "naechsten"},
	weekdays: map[string]time.Weekday{
		"montag": time.Monday, "dienstag": time.Tuesday, "mittwoch": time.Wednesday,
		"donnerstag": time.Thursday, "freitag": time.Friday, "samstag": time.Saturday,
		"sonntag": time.Sunday,
	},
	months: map[string]time.Month{
		"januar": time.January, "februar": time.February, "märz": time.March,
		"maerz": time.March, "april": time.April, "mai": time.May, "juni": time.June,
		"juli": time.July, "august": time.August, "september": time.September,
		"oktober": time.October, "november": time.November, "dezember": time.December,
	},
	morning:   []string{"vormittag", "früh", "frueh"},
	afternoon: []string{"nachmittag"},
	evening:   []string{"abend"},
	noon:      []string{"mittag"},
}

var enTable = localeTable{
	lang:     domain.LangEnglish,
	today:    []string{"today", "tonight"},
	tomorrow: []string{"tomorrow"},
	nextWeek: []string{"next week"},
	nextWords: []string{"next"},
	weekdays: map[string]time.Weekday{
		"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
		"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
		"sunday": time.Sunday,
	},
	months: map[string]time.Month{
		"january": time.January, "february": time.February, "march": time.March,
		"april": time.April, "may": time.May, "june": time.June, "july": time.July,
		"august": time.August, "september": time.September, "october": time.October,
		"november": time.November, "december": time.December,
	},
	morning:   []string{"morning"},
	afternoon: []string{"afternoon"},
	evening:   []string{"evening", "tonight"},
	noon:      []string{"noon", "midday"},
}

var (
	isoDateRe     = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{2,4})\b`)
	clock24Re     = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	clockAmPmRe   = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	clockFrRe     = regexp.MustCompile(`\b(\d{1,2})h(\d{2})?\b`)
)

// TemporalExtractor resolves natural-language temporal expressions across
// the supported locales. Extraction never fails: an unresolvable expression
// yields an empty match.
type TemporalExtractor struct{}

// NewTemporalExtractor creates a temporal extractor.
func NewTemporalExtractor() *TemporalExtractor {
	return &TemporalExtractor{}
}

// Extract finds the most likely due instant referenced by text, relative to
// ref. Blank input short-circuits to an empty match.
func (e *TemporalExtractor) Extract(text string, ref time.Time) domain.TemporalMatch {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return domain.TemporalMatch{}
	}

	chain, hinted := parserChain(lower)

	// The language is a hint, not a guess: it stays absent unless a
	// locale keyword or parser actually matched.
	var lang domain.Language
	if hinted > 0 {
		lang = chain[0].lang
	}

	var resolved *time.Time
	var span string
	for _, table := range chain {
		if when, matched, ok := table.tryParse(lower, ref); ok {
			resolved, span, lang = &when, matched, table.lang
			break
		}
	}

	if resolved == nil {
		if when, matched, ok := parseDirectDate(lower); ok {
			resolved, span = &when, matched
		}
	}

	if resolved == nil {
		return domain.TemporalMatch{Language: lang}
	}

	when := applyTimeOfDay(*resolved, lower)
	when = shiftPastToFuture(when, lower, ref)

	return domain.TemporalMatch{When: &when, Span: span, Language: lang}
}

// parserChain orders the locale tables: locales hinted by the text first
// (in scan order, deduplicated), then the fixed fallback order. The second
// return value is the number of hinted locales.
func parserChain(lower string) ([]localeTable, int) {
	chain := make([]localeTable, 0, len(localeTables))
	seen := make(map[domain.Language]bool)

	for _, table := range localeTables {
		if table.hints(lower) && !seen[table.lang] {
			chain = append(chain, table)
			seen[table.lang] = true
		}
	}
	hinted := len(chain)
	for _, table := range localeTables {
		if !seen[table.lang] {
			chain = append(chain, table)
			seen[table.lang] = true
		}
	}
	return chain, hinted
}

// hints reports whether the text contains any of this locale's keywords.
func (t localeTable) hints(lower string) bool {
	for _, w := range t.tomorrow {
		if containsWord(lower, w) {
			return true
		}
	}
	for _, w := range t.today {
		if containsWord(lower, w) {
			return true
		}
	}
	for w := range t.weekdays {
		if containsWord(lower, w) {
			return true
		}
	}
	for w := range t.months {
		if containsWord(lower, w) {
			return true
		}
	}
	return false
}

// tryParse attempts to resolve a date (at midnight) from the locale's
// keyword families. Times of day are applied later in post-processing.
func (t localeTable) tryParse(lower string, ref time.Time) (time.Time, string, bool) {
	day := midnight(ref)

	for _, w := range t.tomorrow {
		if containsWord(lower, w) {
			return day.AddDate(0, 0, 1), w, true
		}
	}
	for _, w := range t.today {
		if containsWord(lower, w) {
			return day, w, true
		}
	}
	for _, w := range t.nextWeek {
		if strings.Contains(lower, w) {
			return day.AddDate(0, 0, 7), w, true
		}
	}
	for name, weekday := range t.weekdays {
		if containsWord(lower, name) {
			// Naive same-week resolution; past occurrences are rolled
			// forward in post-processing.
			delta := int(weekday) - int(day.Weekday())
			return day.AddDate(0, 0, delta), name, true
		}
	}
	for name, month := range t.months {
		if when, span, ok := t.parseMonthDate(lower, name, month, ref); ok {
			return when, span, true
		}
	}

	return time.Time{}, "", false
}

// parseMonthDate matches "15 janvier [2025]" and "january 15[, 2025]".
func (t localeTable) parseMonthDate(lower, name string, month time.Month, ref time.Time) (time.Time, string, bool) {
	quoted := regexp.QuoteMeta(name)
	dayFirst := regexp.MustCompile(`\b(\d{1,2})(?:er|º|°)?\s+(?:de\s+)?` + quoted + `(?:\s+(?:de\s+)?(\d{4}))?\b`)
	monthFirst := regexp.MustCompile(`\b` + quoted + `\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)

	for _, re := range []*regexp.Regexp{dayFirst, monthFirst} {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		dayNum, err := strconv.Atoi(m[1])
		if err != nil || dayNum < 1 || dayNum > 31 {
			continue
		}
		year := ref.Year()
		if m[2] != "" {
			if y, err := strconv.Atoi(m[2]); err == nil {
				year = y
			}
		}
		return time.Date(year, month, dayNum, 0, 0, 0, 0, ref.Location()), m[0], true
	}
	return time.Time{}, "", false
}

// parseDirectDate is the locale-independent fallback: ISO dates first,
// then delimited numeric dates assumed day-first.
func parseDirectDate(lower string) (time.Time, string, bool) {
	if m := isoDateRe.FindStringSubmatch(lower); m != nil {
		if when, err := time.Parse("2006-01-02", m[0]); err == nil {
			return when, m[0], true
		}
	}

	if m := numericDateRe.FindStringSubmatch(lower); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if day >= 1 && day <= 31 && month >= 1 && month <= 12 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), m[0], true
		}
	}

	return time.Time{}, "", false
}

// applyTimeOfDay sets the clock time on a resolved date: an explicit time
// wins, then time-of-day keywords, then the 09:00 default.
func applyTimeOfDay(when time.Time, lower string) time.Time {
	if h, m, ok := explicitClockTime(lower); ok {
		return at(when, h, m)
	}

	for _, table := range localeTables {
		for _, w := range table.morning {
			if strings.Contains(lower, w) {
				return at(when, 9, 0)
			}
		}
		for _, w := range table.noon {
			if containsWord(lower, w) {
				return at(when, 12, 0)
			}
		}
		for _, w := range table.afternoon {
			if containsWord(lower, w) {
				return at(when, 15, 0)
			}
		}
		for _, w := range table.evening {
			if containsWord(lower, w) {
				return at(when, 18, 0)
			}
		}
	}

	return at(when, 9, 0)
}

func explicitClockTime(lower string) (hour, minute int, ok bool) {
	if m := clockAmPmRe.FindStringSubmatch(lower); m != nil {
		hour, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if m[3] == "pm" && hour < 12 {
			hour += 12
		}
		if m[3] == "am" && hour == 12 {
			hour = 0
		}
		return hour, minute, hour < 24 && minute < 60
	}
	if m := clock24Re.FindStringSubmatch(lower); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		return hour, minute, hour < 24 && minute < 60
	}
	if m := clockFrRe.FindStringSubmatch(lower); m != nil {
		hour, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		return hour, minute, hour < 24 && minute < 60
	}
	return 0, 0, false
}

// shiftPastToFuture corrects instants that resolved behind the reference:
// tomorrow-family keywords shift one day, next-family shift one week, and
// bare weekday names roll forward to the next occurrence.
func shiftPastToFuture(when time.Time, lower string, ref time.Time) time.Time {
	if !when.Before(ref) {
		return when
	}

	for _, table := range localeTables {
		for _, w := range table.tomorrow {
			if containsWord(lower, w) {
				return when.AddDate(0, 0, 1)
			}
		}
	}
	for _, table := range localeTables {
		for _, w := range table.nextWords {
			if strings.Contains(lower, w) {
				return when.AddDate(0, 0, 7)
			}
		}
	}
	for _, table := range localeTables {
		for name, weekday := range table.weekdays {
			if containsWord(lower, name) {
				delta := (int(weekday) - int(ref.Weekday()) + 7) % 7
				if delta == 0 {
					delta = 7
				}
				day := midnight(ref).AddDate(0, 0, delta)
				return at(day, when.Hour(), when.Minute())
			}
		}
	}

	return when
}

// containsWord reports whether word occurs in text delimited by
// non-letter, non-digit runes. regexp's \b is an ASCII boundary that never
// matches next to accented letters ("amanhã", "mañana"), so the check
// walks rune boundaries instead.
func containsWord(text, word string) bool {
	return indexWord(text, word) >= 0
}

// indexWord returns the byte offset of the first whole-word occurrence of
// word in text, or -1.
func indexWord(text, word string) int {
	if word == "" {
		return -1
	}
	for offset := 0; ; {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			return -1
		}
		idx += offset
		if wordBoundary(text, idx, idx+len(word)) {
			return idx
		}
		offset = idx + 1
	}
}

func wordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// stripWord replaces every whole-word occurrence of word with a space.
func stripWord(text, word string) string {
	var b strings.Builder
	for {
		idx := indexWord(text, word)
		if idx < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:idx])
		b.WriteByte(' ')
		text = text[idx+len(word):]
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}
