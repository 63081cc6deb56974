package csv

import (
	"fmt"
	"strconv"

	"room-stats/domain/booking"
)

var chargeHeader = []string{
	"id", "Start", "Loc", "Duration", "Rate", "Charge", "RateRule", "ChargeRule", "Title", "Description", "Calendar",
}

// WriteCharges writes billed records. Missing rates and charges are left blank.
func WriteCharges(path string, charges []booking.Charge) error {
	rows := make([][]string, 0, len(charges))
	for _, c := range charges {
		rows = append(rows, []string{
			c.ID,
			booking.FormatTime(c.Start),
			string(c.Loc),
			formatFloat(c.Duration),
			formatOptional(c.Rate),
			formatOptional(c.Charge),
			c.RateRule,
			c.ChargeRule,
			c.Title,
			c.Description,
			c.Calendar,
		})
	}
	return writeFile(path, chargeHeader, rows)
}

// ReadCharges loads a file written by WriteCharges.
func ReadCharges(path string) ([]booking.Charge, error) {
	t, err := readTable(path, "start", "loc", "duration", "rate", "charge")
	if err != nil {
		return nil, err
	}
	out := make([]booking.Charge, 0, len(t.rows))
	for i := range t.rows {
		line := i + 2
		start, err := booking.ParseTime(t.get(i, "start"))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", t.path, line, err)
		}
		dur, err := strconv.ParseFloat(t.get(i, "duration"), 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: duration: %w", t.path, line, err)
		}
		rate, err := parseOptional(t.get(i, "rate"))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: rate: %w", t.path, line, err)
		}
		charge, err := parseOptional(t.get(i, "charge"))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: charge: %w", t.path, line, err)
		}
		loc, _ := booking.ParseLabel(t.get(i, "loc"))
		out = append(out, booking.Charge{
			ID:          t.get(i, "id"),
			Start:       start,
			Loc:         loc,
			Duration:    dur,
			Rate:        rate,
			Charge:      charge,
			RateRule:    t.get(i, "raterule"),
			ChargeRule:  t.get(i, "chargerule"),
			Title:       t.get(i, "title"),
			Description: t.get(i, "description"),
			Calendar:    t.get(i, "calendar"),
		})
	}
	return out, nil
}

// WriteUnresolved lists conference-room bookings no rule could price. The
// empty Level column makes the file a starting point for the fixes file.
func WriteUnresolved(path string, recs []booking.Record) error {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{booking.FormatTime(r.Start), r.Title, "", r.Description, string(r.Loc), r.ID})
	}
	return writeFile(path, []string{"Start", "Title", "Level", "Description", "Loc", "id"}, rows)
}
