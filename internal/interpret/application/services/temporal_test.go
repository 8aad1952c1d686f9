package services

import (
	"testing"
	"time"

	"github.com/aminebenjebli/flowspace/internal/interpret/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ref is Wednesday, 2025-01-01 00:00 UTC.
var ref = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestTemporalExtractor_Extract(t *testing.T) {
	e := NewTemporalExtractor()

	tests := []struct {
		name string
		text string
		want time.Time
		lang domain.Language
	}{
		{
			name: "tomorrow with explicit am time",
			text: "Call mom tomorrow at 10am",
			want: time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
			lang: domain.LangEnglish,
		},
		{
			name: "tomorrow with pm time",
			text: "dentist tomorrow at 6pm",
			want: time.Date(2025, 1, 2, 18, 0, 0, 0, time.UTC),
			lang: domain.LangEnglish,
		},
		{
			name: "today defaults to morning",
			text: "pay the bill today",
			want: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
			lang: domain.LangEnglish,
		},
		{
			name: "tonight resolves to evening",
			text: "movie tonight",
			want: time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC),
			lang: domain.LangEnglish,
		},
		{
			name: "next week",
			text: "plan the sprint next week",
			want: time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC),
			lang: domain.LangEnglish,
		},
		{
			name: "future weekday stays in week",
			text: "ship it friday",
			want: time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC),
			lang: domain.LangEnglish,
		},
		{
			name: "past weekday rolls forward",
			text: "meeting on monday",
			want: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
			lang: domain.LangEnglish,
		},
		{
			name: "french tomorrow morning",
			text: "rendez-vous demain matin",
			want: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC),
			lang: domain.LangFrench,
		},
		{
			name: "french clock time",
			text: "appeler le client demain à 14h30",
			want: time.Date(2025, 1, 2, 14, 30, 0, 0, time.UTC),
			lang: domain.LangFrench,
		},
		{
			name: "spanish tomorrow",
			text: "comprar pan mañana",
			want: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC),
			lang: domain.LangSpanish,
		},
		{
			name: "spanish month date",
			text: "entregar informe el 15 de junio",
			want: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC),
			lang: domain.LangSpanish,
		},
		{
			name: "portuguese tomorrow",
			text: "reunião amanhã",
			want: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC),
			lang: domain.LangPortuguese,
		},
		{
			name: "german tomorrow evening",
			text: "morgen abend einkaufen",
			want: time.Date(2025, 1, 2, 18, 0, 0, 0, time.UTC),
			lang: domain.LangGerman,
		},
		{
			name: "german weekday",
			text: "bericht bis freitag",
			want: time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC),
			lang: domain.LangGerman,
		},
		{
			name: "iso date with default time",
			text: "submit report 2025-06-15",
			want: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "numeric date is day first",
			text: "renew passport 15/06/2025",
			want: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "two digit year",
			text: "renew passport 15/06/25",
			want: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "english month date",
			text: "party on january 20",
			want: time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC),
			lang: domain.LangEnglish,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := e.Extract(tt.text, ref)

			require.True(t, match.Resolved(), "expected a resolved match")
			assert.True(t, tt.want.Equal(*match.When), "want %s, got %s", tt.want, match.When)
			assert.NotEmpty(t, match.Span)
			if tt.lang != "" {
				assert.Equal(t, tt.lang, match.Language)
			}
		})
	}
}

func TestTemporalExtractor_NoTemporalExpression(t *testing.T) {
	e := NewTemporalExtractor()

	for _, text := range []string{
		"no date here",
		"buy milk and eggs",
		"visit tomorrowland someday",
		"",
		"   ",
	} {
		t.Run(text, func(t *testing.T) {
			match := e.Extract(text, ref)
			assert.False(t, match.Resolved())
			assert.Nil(t, match.When)
		})
	}
}

// Keywords ending in accented letters must still match on word boundaries.
func TestTemporalExtractor_AccentedKeywords(t *testing.T) {
	e := NewTemporalExtractor()

	tests := []struct {
		text string
		lang domain.Language
	}{
		{"reunião amanhã", domain.LangPortuguese},
		{"comprar pan mañana", domain.LangSpanish},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			match := e.Extract(tt.text, ref)
			require.True(t, match.Resolved())
			assert.Equal(t, tt.lang, match.Language)
			assert.True(t, time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC).Equal(*match.When))
		})
	}
}

// Without a locale hint or a locale parser match, the detected language
// stays absent; it must not default to the head of the fallback order.
func TestTemporalExtractor_LanguageAbsentWithoutHints(t *testing.T) {
	e := NewTemporalExtractor()

	for _, text := range []string{
		"buy milk",
		"submit report 2025-06-15",
		"renew passport 15/06/2025",
	} {
		t.Run(text, func(t *testing.T) {
			match := e.Extract(text, ref)
			assert.Equal(t, domain.Language(""), match.Language)
		})
	}
}

func TestTemporalExtractor_ResolvedAlwaysFuture(t *testing.T) {
	e := NewTemporalExtractor()

	// Every weekday name must resolve at or after the reference.
	for _, text := range []string{
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	} {
		t.Run(text, func(t *testing.T) {
			match := e.Extract("do it "+text, ref)
			require.True(t, match.Resolved())
			assert.False(t, match.When.Before(ref), "resolved %s is before reference", match.When)
		})
	}
}

func TestTemporalExtractor_MidnightClock(t *testing.T) {
	e := NewTemporalExtractor()

	match := e.Extract("standup tomorrow at 12am", ref)
	require.True(t, match.Resolved())
	assert.Equal(t, 0, match.When.Hour())
}
