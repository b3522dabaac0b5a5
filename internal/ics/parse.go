package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "meetupsync/internal/log"
)

// ParsedEvent is the normalized representation of a VEVENT as produced
// by the parser. Recurrence expansion operates on this type.
type ParsedEvent struct {
	UID string

	Summary     string
	Description string
	URL         string

	Start  time.Time
	End    time.Time
	AllDay bool

	RawRRule   string
	ExDates    []time.Time
	Recurrence *time.Time // RECURRENCE-ID, in the event's own timezone
	IsOverride bool       // true if this VEVENT overrides a recurring instance
}

// ParseICS parses a single ICS payload into a list of ParsedEvent.
//
//   - SUMMARY and DESCRIPTION values are unescaped per RFC 5545 TEXT
//     rules, so descriptions carry real newlines for line extraction.
//   - Meetup exports carry no stable UID guarantee; UID is kept when
//     present but never required.
//   - All-day events are detected from the DTSTART value format.
//   - RRULE/EXDATE/RECURRENCE-ID are recorded but not expanded here;
//     expansion is done in expand.go.
//
// A VEVENT that fails to parse is logged and skipped; the rest of the
// calendar is still returned.
func ParseICS(body []byte, log *appLog.Logger) ([]ParsedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		log.Error("ics parse failed", err)
		return nil, err
	}

	events := make([]ParsedEvent, 0)

	for _, comp := range cal.Events() {
		ev, perr := parseVEvent(comp)
		if perr != nil {
			log.Error("ics vevent skipped", perr)
			continue
		}
		events = append(events, ev)
	}

	log.Info("ics parse completed", "event_count", len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (ParsedEvent, error) {
	var out ParsedEvent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = unescapeText(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = unescapeText(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyUrl); p != nil {
		out.URL = p.Value
	}

	// DTSTART / DTEND via the library's timezone handling. An event
	// without a usable start cannot be imported at all.
	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("event %q: unusable DTSTART: %w", out.Summary, err)
	}
	out.Start = start

	end, err := ve.GetEndAt()
	if err != nil {
		end = start
	}
	out.End = end

	// All-day: DTSTART carries VALUE=DATE or a date-only value.
	if dtStart := ve.GetProperty(ical.ComponentPropertyDtStart); dtStart != nil {
		if params := dtStart.ICalParameters; params != nil {
			if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
				out.AllDay = true
			}
		}
		if !strings.Contains(dtStart.Value, "T") {
			out.AllDay = true
		}
	}

	// RRULE is kept raw; expand.go turns it into occurrences.
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	// EXDATE may appear multiple times, each with a comma-separated list.
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRecurrenceId); p != nil {
		if t, err := parseICSTime(p.Value); err == nil {
			out.Recurrence = &t
			out.IsOverride = true
		}
	}

	return out, nil
}

// unescapeText reverses RFC 5545 TEXT escaping in a single pass: \n and
// \N become newlines, escaped backslashes, semicolons and commas become
// literals, and unknown escapes are kept verbatim.
func unescapeText(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		case '\\', ';', ',':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// parseICSTime parses a basic ICS date or date-time string. EXDATE and
// RECURRENCE-ID values reach us without full parameter context, so this
// handles the plain UTC/local/date forms only.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	// UTC form, e.g. 20250101T090000Z
	if strings.HasSuffix(v, "Z") {
		const layout = "20060102T150405Z"
		return time.Parse(layout, v)
	}

	// Local date-time, e.g. 20250101T090000
	if strings.Contains(v, "T") {
		const layout = "20060102T150405"
		return time.ParseInLocation(layout, v, time.Local)
	}

	// Date-only (all-day), e.g. 20250101
	const layoutDate = "20060102"
	return time.ParseInLocation(layoutDate, v, time.Local)
}
