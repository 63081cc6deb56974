package csv

import (
	"fmt"
	"io"
	"strings"

	"room-stats/domain/booking"
)

// EventHeader is the column set of a raw calendar snapshot.
var EventHeader = []string{"Title", "Start", "End", "Where", "Description", "Calendar", "Created by"}

// Reject is an input row that could not be turned into an event.
type Reject struct {
	Row    int
	Title  string
	Start  string
	End    string
	Reason string
}

// ReadEvents loads a calendar snapshot. Rows with unusable timestamps are
// returned as rejects instead of failing the whole file. The lowercase
// title/location/description headers of older exports are accepted too.
func ReadEvents(path string) ([]booking.Event, []Reject, error) {
	t, err := readTable(path, "title", "start", "end")
	if err != nil {
		return nil, nil, err
	}
	return eventsFromTable(t)
}

func eventsFromTable(t *table) ([]booking.Event, []Reject, error) {
	var (
		events  []booking.Event
		rejects []Reject
	)
	for i := range t.rows {
		title := t.get(i, "title", "summary")
		startRaw, endRaw := t.get(i, "start"), t.get(i, "end")
		reject := func(reason string) {
			rejects = append(rejects, Reject{Row: i + 2, Title: title, Start: startRaw, End: endRaw, Reason: reason})
		}
		start, err := booking.ParseTime(startRaw)
		if err != nil {
			reject("start: " + err.Error())
			continue
		}
		end, err := booking.ParseTime(endRaw)
		if err != nil {
			reject("end: " + err.Error())
			continue
		}
		if end.Before(start) {
			reject("end before start")
			continue
		}
		ev := booking.Event{
			ID:          t.get(i, "id"),
			Title:       title,
			Start:       start,
			End:         end,
			Where:       t.get(i, "where", "location"),
			Description: t.get(i, "description"),
			Calendar:    t.get(i, "calendar"),
			CreatedBy:   t.get(i, "created by", "created_by", "creator"),
		}
		if ev.ID == "" {
			ev.ID = booking.EventID(ev.Calendar, ev.Title, ev.Start, ev.End)
		}
		events = append(events, ev)
	}
	return events, rejects, nil
}

func eventRows(events []booking.Event) [][]string {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			e.Title,
			booking.FormatTime(e.Start),
			booking.FormatTime(e.End),
			e.Where,
			e.Description,
			e.Calendar,
			e.CreatedBy,
		})
	}
	return rows
}

// WriteEvents writes a calendar snapshot.
func WriteEvents(path string, events []booking.Event) error {
	return writeFile(path, EventHeader, eventRows(events))
}

// WriteEventsTo writes a calendar snapshot to w.
func WriteEventsTo(w io.Writer, events []booking.Event) error {
	return writeRows(w, EventHeader, eventRows(events))
}

// WriteRejects lists input rows that were skipped and why.
func WriteRejects(path string, rejects []Reject) error {
	rows := make([][]string, 0, len(rejects))
	for _, r := range rejects {
		rows = append(rows, []string{fmt.Sprint(r.Row), r.Title, r.Start, r.End, strings.TrimSpace(r.Reason)})
	}
	return writeFile(path, []string{"row", "Title", "Start", "End", "reason"}, rows)
}
