package csv

import (
	"fmt"
	"strconv"

	"room-stats/domain/booking"
)

var classifiedHeader = []string{
	"id", "Title", "Where", "Loc", "Status", "Start", "End", "Duration",
	"Created by", "Description", "Calendar", "Rooms", "Statuses", "Fuzzy", "FuzzyScore",
}

// WriteClassified writes classified records, one Loc and one Status per row,
// with every matched label kept in Rooms/Statuses.
func WriteClassified(path string, recs []booking.Record) error {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			r.ID,
			r.Title,
			r.Where,
			string(r.Loc),
			string(r.Status),
			booking.FormatTime(r.Start),
			booking.FormatTime(r.End),
			formatFloat(r.Duration),
			r.CreatedBy,
			r.Description,
			r.Calendar,
			booking.JoinLabels(r.Rooms),
			booking.JoinLabels(r.Statuses),
			string(r.Fuzzy),
			strconv.Itoa(r.FuzzyScore),
		})
	}
	return writeFile(path, classifiedHeader, rows)
}

// ReadClassified loads a file written by WriteClassified.
func ReadClassified(path string) ([]booking.Record, error) {
	t, err := readTable(path, "title", "loc", "status", "start", "end", "duration")
	if err != nil {
		return nil, err
	}
	recs := make([]booking.Record, 0, len(t.rows))
	for i := range t.rows {
		line := i + 2
		start, err := booking.ParseTime(t.get(i, "start"))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", t.path, line, err)
		}
		end, err := booking.ParseTime(t.get(i, "end"))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", t.path, line, err)
		}
		dur, err := strconv.ParseFloat(t.get(i, "duration"), 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: duration: %w", t.path, line, err)
		}
		loc, ok := booking.ParseLabel(t.get(i, "loc"))
		if !ok {
			return nil, fmt.Errorf("%s line %d: unknown Loc %q", t.path, line, t.get(i, "loc"))
		}
		status, ok := booking.ParseLabel(t.get(i, "status"))
		if !ok {
			return nil, fmt.Errorf("%s line %d: unknown Status %q", t.path, line, t.get(i, "status"))
		}
		fuzzy, _ := booking.ParseLabel(t.get(i, "fuzzy"))
		score, _ := strconv.Atoi(t.get(i, "fuzzyscore"))
		rec := booking.Record{
			Event: booking.Event{
				ID:          t.get(i, "id"),
				Title:       t.get(i, "title"),
				Start:       start,
				End:         end,
				Where:       t.get(i, "where"),
				Description: t.get(i, "description"),
				Calendar:    t.get(i, "calendar"),
				CreatedBy:   t.get(i, "created by"),
			},
			Duration:   dur,
			Rooms:      booking.ParseLabels(t.get(i, "rooms")),
			Statuses:   booking.ParseLabels(t.get(i, "statuses")),
			Loc:        loc,
			Status:     status,
			Fuzzy:      fuzzy,
			FuzzyScore: score,
		}
		if rec.ID == "" {
			rec.ID = booking.EventID(rec.Calendar, rec.Title, rec.Start, rec.End)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// WriteConflicts lists records where several labels competed and which one won.
func WriteConflicts(path string, recs []booking.Record) error {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			r.ID,
			booking.FormatTime(r.Start),
			r.Title,
			r.Where,
			booking.JoinLabels(r.Rooms),
			string(r.Loc),
			booking.JoinLabels(r.Statuses),
			string(r.Status),
		})
	}
	return writeFile(path, []string{"id", "Start", "Title", "Where", "Rooms", "Loc", "Statuses", "Status"}, rows)
}
