package report

import (
	"sort"
	"strconv"
	"time"

	lo "github.com/samber/lo"

	"room-stats/domain/booking"
)

const monthLayout = "2006-01"

// Table is a pivot: one row per index key, one column per room.
type Table struct {
	Name    string
	Title   string
	IndexBy string
	Index   []string
	Columns []booking.Label
	Values  [][]float64
}

func newTable(name, title, indexBy string, index []string, cols []booking.Label) Table {
	vals := make([][]float64, len(index))
	for i := range vals {
		vals[i] = make([]float64, len(cols))
	}
	return Table{Name: name, Title: title, IndexBy: indexBy, Index: index, Columns: cols, Values: vals}
}

// Column returns the values of one room.
func (t Table) Column(room booking.Label) []float64 {
	j := lo.IndexOf(t.Columns, room)
	if j < 0 {
		return nil
	}
	return lo.Map(t.Values, func(row []float64, _ int) float64 { return row[j] })
}

// Billable keeps rows that have both a location and a charge.
func Billable(rows []booking.Charge) []booking.Charge {
	return lo.Filter(rows, func(c booking.Charge, _ int) bool { return c.Loc != "" && c.Charge != nil })
}

func span(rows []booking.Charge) (first, last time.Time) {
	first, last = rows[0].Start, rows[0].Start
	for _, r := range rows[1:] {
		if r.Start.Before(first) {
			first = r.Start
		}
		if r.Start.After(last) {
			last = r.Start
		}
	}
	return first, last
}

// DateRange renders the span of start times as "MM-DD-YYYY to MM-DD-YYYY".
func DateRange(rows []booking.Charge) string {
	if len(rows) == 0 {
		return ""
	}
	first, last := span(rows)
	return first.Format("01-02-2006") + " to " + last.Format("01-02-2006")
}

// months lists every month from the earliest to the latest start.
func months(rows []booking.Charge) []string {
	if len(rows) == 0 {
		return nil
	}
	first, last := span(rows)
	cur := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC)
	var out []string
	for !cur.After(end) {
		out = append(out, cur.Format(monthLayout))
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

func byMonth(name, title string, rows []booking.Charge, rooms []booking.Label, value func(booking.Charge) float64) Table {
	idx := months(rows)
	t := newTable(name, title, "month", idx, rooms)
	for _, r := range rows {
		i := lo.IndexOf(idx, r.Start.Format(monthLayout))
		j := lo.IndexOf(rooms, r.Loc)
		if i < 0 || j < 0 {
			continue
		}
		t.Values[i][j] += value(r)
	}
	return t
}

// HoursByMonth sums booked hours per room per month.
func HoursByMonth(rows []booking.Charge, rooms []booking.Label) Table {
	return byMonth("hours_by_month", "Hours", rows, rooms, func(c booking.Charge) float64 { return c.Duration })
}

// BookingsByMonth counts bookings per room per month.
func BookingsByMonth(rows []booking.Charge, rooms []booking.Label) Table {
	return byMonth("bookings_by_month", "Count", rows, rooms, func(booking.Charge) float64 { return 1 })
}

// IncomeByMonth sums charges per room per month.
func IncomeByMonth(rows []booking.Charge, rooms []booking.Label) Table {
	return byMonth("income_by_month", "$ Dollars $", rows, rooms, func(c booking.Charge) float64 {
		if c.Charge == nil {
			return 0
		}
		return *c.Charge
	})
}

// RateDistribution gives, per room, the share of its rated hours billed at
// each hourly rate. Rows without a rate are left out.
func RateDistribution(rows []booking.Charge, rooms []booking.Label) Table {
	rated := lo.Filter(rows, func(c booking.Charge, _ int) bool { return c.Rate != nil })
	rates := lo.Uniq(lo.Map(rated, func(c booking.Charge, _ int) float64 { return *c.Rate }))
	sort.Float64s(rates)
	idx := lo.Map(rates, func(r float64, _ int) string { return strconv.FormatFloat(r, 'f', -1, 64) })

	t := newTable("rate_distribution", "Rate distribution", "rate", idx, rooms)
	totals := make([]float64, len(rooms))
	for _, r := range rated {
		i := lo.IndexOf(rates, *r.Rate)
		j := lo.IndexOf(rooms, r.Loc)
		if j < 0 {
			continue
		}
		t.Values[i][j] += r.Duration
		totals[j] += r.Duration
	}
	for i := range t.Values {
		for j := range rooms {
			if totals[j] > 0 {
				t.Values[i][j] /= totals[j]
			}
		}
	}
	return t
}

// Totals sums charge, hours and bookings per room.
func Totals(rows []booking.Charge, rooms []booking.Label) Table {
	t := newTable("totals", "Totals", "measure", []string{"charge", "hours", "bookings"}, rooms)
	for _, r := range rows {
		j := lo.IndexOf(rooms, r.Loc)
		if j < 0 {
			continue
		}
		if r.Charge != nil {
			t.Values[0][j] += *r.Charge
		}
		t.Values[1][j] += r.Duration
		t.Values[2][j]++
	}
	return t
}

// Build computes every report table over the billable rows.
func Build(rows []booking.Charge, rooms []booking.Label) []Table {
	bk := Billable(rows)
	return []Table{
		HoursByMonth(bk, rooms),
		BookingsByMonth(bk, rooms),
		IncomeByMonth(bk, rooms),
		RateDistribution(bk, rooms),
		Totals(bk, rooms),
	}
}
