//go:build unit

package ical_test

import (
	"strings"
	"testing"
	"time"

	"fleetrent/internal/pkg/ical"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Blocked", "Blocked"},
		{"semicolon", "maintenance; engine", `maintenance\; engine`},
		{"comma", "a,b", `a\,b`},
		{"backslash", `a\b`, `a\\b`},
		{"newline", "line1\nline2", `line1\nline2`},
		{"crlf drops the cr", "line1\r\nline2", `line1\nline2`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ical.EscapeText(tt.in))
		})
	}
}

func TestCalendarRender(t *testing.T) {
	stamp := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

	newCal := func() *ical.Calendar {
		cal := ical.NewCalendar("-//fleetrent//availability-export//EN", "vehicle availability", stamp)
		cal.AddEvent(ical.Event{
			UID:        "block-1234",
			Summary:    "Blocked: maintenance",
			Start:      time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			End:        time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC),
			Categories: "BLOCK",
		})
		return cal
	}

	out := newCal().Render()

	t.Run("all lines are crlf terminated", func(t *testing.T) {
		require.True(t, strings.HasSuffix(out, "\r\n"))
		for _, line := range strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n") {
			assert.NotContains(t, line, "\n")
		}
	})

	t.Run("envelope and event fields", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\n"))
		assert.Contains(t, out, "PRODID:-//fleetrent//availability-export//EN\r\n")
		assert.Contains(t, out, "UID:block-1234\r\n")
		assert.Contains(t, out, "DTSTAMP:20240601T103000Z\r\n")
		assert.Contains(t, out, "DTSTART;VALUE=DATE:20240610\r\n")
		assert.Contains(t, out, "SUMMARY:Blocked: maintenance\r\n")
		assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	})

	t.Run("dtend is exclusive", func(t *testing.T) {
		// inclusive end 2024-06-12 renders as the following day
		assert.Contains(t, out, "DTEND;VALUE=DATE:20240613\r\n")
	})

	t.Run("rendering is deterministic", func(t *testing.T) {
		assert.Equal(t, out, newCal().Render())
	})
}

func TestLineFolding(t *testing.T) {
	stamp := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cal := ical.NewCalendar("-//fleetrent//availability-export//EN", "", stamp)
	cal.AddEvent(ical.Event{
		UID:         "block-long",
		Summary:     "Blocked",
		Start:       time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Description: strings.Repeat("x", 200),
	})

	out := cal.Render()

	// 75 octets per physical line, the fold space included
	for _, line := range strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 75, "folded line too long: %q", line)
	}
	// folded continuations start with a single space
	assert.Contains(t, out, "\r\n x")

	// unfolding restores the original content
	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	assert.Contains(t, unfolded, "DESCRIPTION:"+strings.Repeat("x", 200))
}
