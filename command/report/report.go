package report

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/agnivade/levenshtein"

	"room-stats/connectors/chart"
	"room-stats/connectors/config"
	ccsv "room-stats/connectors/csv"
	"room-stats/domain/booking"
	dc "room-stats/domain/config"
	dreport "room-stats/domain/report"
)

// Run executes the report subcommand: charges.csv -> pivots/*.csv and
// report.html.
func Run(args []string) error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataDir := fs.String("data", cfg.DataDir, "directory holding the CSV files")
	roomsFlag := fs.String("rooms", strings.Join(cfg.Report.Rooms, ","), "comma-separated rooms to report on")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rooms, err := parseRooms(*roomsFlag)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	charges, err := ccsv.ReadCharges(filepath.Join(*dataDir, "charges.csv"))
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	billable := dreport.Billable(charges)
	tables := dreport.Build(billable, rooms)
	dateRange := dreport.DateRange(billable)
	slog.Info("report.start", "charges", len(charges), "billable", len(billable), "range", dateRange)

	if err := ccsv.WriteTables(filepath.Join(*dataDir, "pivots"), tables); err != nil {
		return err
	}
	out := filepath.Join(*dataDir, "report.html")
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := chart.Render(f, tables, dateRange); err != nil {
		return fmt.Errorf("report: render: %w", err)
	}
	slog.Info("report.done", "tables", len(tables), "html", out)
	return nil
}

func parseRooms(s string) ([]booking.Label, error) {
	var rooms []booking.Label
	for _, name := range dc.SplitList(s) {
		l, ok := booking.ParseLabel(name)
		if !ok || !l.IsRoom() {
			if near := nearestRoom(name); near != "" {
				return nil, fmt.Errorf("unknown room %q (did you mean %s?)", name, near)
			}
			return nil, fmt.Errorf("unknown room %q", name)
		}
		rooms = append(rooms, l)
	}
	if len(rooms) == 0 {
		return booking.ConfRooms, nil
	}
	return rooms, nil
}

// nearestRoom returns the room label closest to name by edit distance, or ""
// when none is within three edits.
func nearestRoom(name string) booking.Label {
	name = strings.ToUpper(strings.TrimSpace(name))
	var best booking.Label
	bestDist := 4
	for _, l := range booking.RoomLabels() {
		if d := levenshtein.ComputeDistance(name, string(l)); d < bestDist {
			best, bestDist = l, d
		}
	}
	return best
}
