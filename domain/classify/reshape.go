package classify

import (
	"regexp"
	"sort"
	"strings"
	"time"

	lo "github.com/samber/lo"

	"room-stats/domain/booking"
)

// Filter restricts the events that get classified. Zero values disable a bound.
type Filter struct {
	Start     time.Time
	End       time.Time
	Calendars []string
}

var blankLines = regexp.MustCompile(`[\r\n]+`)

// Prepare applies the date and calendar filters, drops duplicate
// (Title, Start, End) entries keeping the first, collapses blank lines in
// descriptions and orders events by start time.
func Prepare(events []booking.Event, f Filter) []booking.Event {
	out := lo.Filter(events, func(e booking.Event, _ int) bool {
		if !f.Start.IsZero() && e.Start.Before(f.Start) {
			return false
		}
		if !f.End.IsZero() && e.Start.After(f.End) {
			return false
		}
		if len(f.Calendars) > 0 && !lo.Contains(f.Calendars, e.Calendar) {
			return false
		}
		return true
	})
	out = lo.UniqBy(out, func(e booking.Event) string {
		return strings.Join([]string{e.Title, booking.FormatTime(e.Start), booking.FormatTime(e.End)}, "\x1f")
	})
	for i := range out {
		out[i].Description = blankLines.ReplaceAllString(out[i].Description, "\n")
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// Reshape collapses matched labels into a single Loc and Status. Room labels
// are ranked floor space, conference rooms, other space; statuses HOLD then
// CLOSED. Every candidate is kept on the record so conflicts stay visible.
func Reshape(ev booking.Event, res Result) booking.Record {
	rec := booking.Record{
		Event:      ev,
		Duration:   ev.Hours(),
		Fuzzy:      res.Fuzzy,
		FuzzyScore: res.FuzzyScore,
	}
	rec.Rooms = lo.Filter(booking.RoomLabels(), func(l booking.Label, _ int) bool { return res.Has(l) })
	rec.Statuses = lo.Filter(booking.Statuses, func(l booking.Label, _ int) bool { return res.Has(l) })
	if len(rec.Rooms) > 0 {
		rec.Loc = rec.Rooms[0]
	}
	if len(rec.Statuses) > 0 {
		rec.Status = rec.Statuses[0]
	}
	return rec
}

// Apply classifies and reshapes every event.
func (c *Classifier) Apply(events []booking.Event) []booking.Record {
	return lo.Map(events, func(e booking.Event, _ int) booking.Record {
		return Reshape(e, c.Classify(e.Title, e.Where, e.Description))
	})
}

// Conflicts returns the records where more than one label competed.
func Conflicts(recs []booking.Record) []booking.Record {
	return lo.Filter(recs, func(r booking.Record, _ int) bool { return r.Conflict() })
}

// Counts tallies records per Loc and per Status for logging.
func Counts(recs []booking.Record) map[booking.Label]int {
	out := map[booking.Label]int{}
	for _, r := range recs {
		if r.Loc != "" {
			out[r.Loc]++
		}
		if r.Status != "" {
			out[r.Status]++
		}
	}
	return out
}
