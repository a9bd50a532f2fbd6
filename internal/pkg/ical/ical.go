// Package ical renders RFC 5545 calendar documents. Only the subset
// the calendar export needs is implemented: all-day VEVENTs with
// deterministic UIDs.
package ical

import (
	"strings"
	"time"
)

const (
	dateLayout     = "20060102"
	dateTimeLayout = "20060102T150405Z"
	maxLineOctets  = 75
)

type Event struct {
	UID     string
	Summary string
	// Start and End are inclusive day-granularity bounds. DTEND is
	// emitted as End+1 day per the all-day event convention.
	Start       time.Time
	End         time.Time
	Description string
	Categories  string
}

type Calendar struct {
	prodID string
	name   string
	// stamp is emitted as DTSTAMP on every event; the caller supplies
	// it so rendering stays deterministic under a fixed clock.
	stamp  time.Time
	events []Event
}

func NewCalendar(prodID, name string, stamp time.Time) *Calendar {
	return &Calendar{
		prodID: prodID,
		name:   name,
		stamp:  stamp.UTC(),
	}
}

func (c *Calendar) AddEvent(e Event) {
	c.events = append(c.events, e)
}

func (c *Calendar) EventCount() int {
	return len(c.events)
}

func (c *Calendar) Render() string {
	var b strings.Builder

	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+c.prodID)
	writeLine(&b, "CALSCALE:GREGORIAN")
	if c.name != "" {
		writeLine(&b, "X-WR-CALNAME:"+EscapeText(c.name))
	}

	for _, e := range c.events {
		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, "UID:"+e.UID)
		writeLine(&b, "DTSTAMP:"+c.stamp.Format(dateTimeLayout))
		writeLine(&b, "DTSTART;VALUE=DATE:"+e.Start.Format(dateLayout))
		writeLine(&b, "DTEND;VALUE=DATE:"+e.End.AddDate(0, 0, 1).Format(dateLayout))
		writeLine(&b, "SUMMARY:"+EscapeText(e.Summary))
		if e.Description != "" {
			writeLine(&b, "DESCRIPTION:"+EscapeText(e.Description))
		}
		if e.Categories != "" {
			writeLine(&b, "CATEGORIES:"+EscapeText(e.Categories))
		}
		writeLine(&b, "END:VEVENT")
	}

	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

// EscapeText escapes the characters RFC 5545 3.3.11 reserves in TEXT
// values: backslash, semicolon, comma and newline.
func EscapeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case ';':
			b.WriteString(`\;`)
		case ',':
			b.WriteString(`\,`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			// bare CR carries no meaning in TEXT values
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// writeLine folds content lines longer than 75 octets with a
// CRLF+space continuation, then terminates with CRLF. The fold space
// counts against the limit, so continuations hold one octet less.
func writeLine(b *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		// never split a UTF-8 sequence
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		if cut == 0 {
			cut = limit
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

func isRuneStart(c byte) bool {
	return c&0xC0 != 0x80
}
