package ics

import (
	"time"

	"github.com/teambition/rrule-go"

	appLog "meetupsync/internal/log"
	"meetupsync/internal/model"
)

const defaultMaxOccurrencesPerEvent = 500

// ExpandConfig bounds recurrence expansion.
type ExpandConfig struct {
	// RangeStart / RangeEnd delimit the window recurring events are
	// materialized into. Non-recurring entries are never windowed: the
	// feed is an upcoming-events export and every plain entry is kept.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxPerEvent caps occurrences per recurring event. Zero means the
	// package default.
	MaxPerEvent int
}

// ExpandOccurrences turns parsed VEVENTs into concrete occurrences.
//
// Plain events pass through one-to-one. Events with an RRULE expand into
// every occurrence inside [RangeStart, RangeEnd], minus EXDATEs, with
// RECURRENCE-ID overrides applied to their matching instance. Times stay
// in each event's own timezone.
func ExpandOccurrences(events []ParsedEvent, cfg ExpandConfig, log *appLog.Logger) []model.Occurrence {
	if cfg.MaxPerEvent <= 0 {
		cfg.MaxPerEvent = defaultMaxOccurrencesPerEvent
	}

	base := make([]ParsedEvent, 0, len(events))
	overridesByUID := make(map[string][]ParsedEvent)
	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence != nil && ev.UID != "" {
			overridesByUID[ev.UID] = append(overridesByUID[ev.UID], ev)
			continue
		}
		base = append(base, ev)
	}

	out := make([]model.Occurrence, 0, len(base))
	for _, ev := range base {
		if ev.RawRRule == "" {
			out = append(out, makeOccurrence(ev, ev.Start, ev.End))
			continue
		}
		out = append(out, expandRecurring(ev, overridesByUID[ev.UID], cfg, log)...)
	}
	return out
}

func expandRecurring(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig, log *appLog.Logger) []model.Occurrence {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		// An unparseable rule degrades to the base entry, matching how
		// the feed would import without expansion support.
		log.Error("rrule parse failed; keeping base event only", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return []model.Occurrence{makeOccurrence(ev, ev.Start, ev.End)}
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	// Align the window with the event's own location for Between().
	rangeStart := cfg.RangeStart.In(ev.Start.Location())
	rangeEnd := cfg.RangeEnd.In(ev.Start.Location())

	times := set.Between(rangeStart, rangeEnd, true)
	if len(times) > cfg.MaxPerEvent {
		log.Info("recurrence capped", "uid", ev.UID, "cap", cfg.MaxPerEvent)
		times = times[:cfg.MaxPerEvent]
	}

	dur := ev.End.Sub(ev.Start)

	out := make([]model.Occurrence, 0, len(times))
	for _, start := range times {
		end := start.Add(dur)
		if ev.AllDay {
			day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
			start, end = day, day.Add(24*time.Hour)
		}

		inst := ev
		if o, ok := overrideFor(overrides, start); ok {
			inst, start, end = o, o.Start, o.End
		}
		out = append(out, makeOccurrence(inst, start, end))
	}
	return out
}

// overrideFor finds the override whose RECURRENCE-ID equals the given
// instance start.
func overrideFor(overrides []ParsedEvent, start time.Time) (ParsedEvent, bool) {
	for _, ov := range overrides {
		if ov.Recurrence == nil {
			continue
		}
		if ov.Recurrence.In(start.Location()).Equal(start) {
			return ov, true
		}
	}
	return ParsedEvent{}, false
}

func makeOccurrence(ev ParsedEvent, start, end time.Time) model.Occurrence {
	return model.Occurrence{
		UID:         ev.UID,
		Title:       ev.Summary,
		Description: ev.Description,
		URL:         ev.URL,
		AllDay:      ev.AllDay,
		Start:       start,
		End:         end,
	}
}
