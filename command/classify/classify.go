package classify

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"room-stats/connectors/config"
	ccsv "room-stats/connectors/csv"
	"room-stats/domain/booking"
	dclassify "room-stats/domain/classify"
	dc "room-stats/domain/config"
)

// Run executes the classify subcommand: events.csv -> classified.csv,
// conflicts.csv and rejected_events.csv in the data directory.
func Run(args []string) error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataDir := fs.String("data", cfg.DataDir, "directory holding the CSV files")
	in := fs.String("in", "", "events CSV to classify (default <data>/events.csv)")
	start := fs.String("start", cfg.Classify.StartDate, "keep events starting on or after this date")
	end := fs.String("end", cfg.Classify.EndDate, "keep events starting on or before this date (optional)")
	calendars := fs.String("calendars", strings.Join(cfg.Classify.Calendars, ","), "comma-separated calendar names to keep (empty keeps all)")
	threshold := fs.Int("threshold", cfg.Classify.FuzzyThreshold, "fuzzy score a label must exceed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		*in = filepath.Join(*dataDir, "events.csv")
	}

	filter := dclassify.Filter{Calendars: dc.SplitList(*calendars)}
	if filter.Start, err = parseBound(*start); err != nil {
		return fmt.Errorf("classify: -start: %w", err)
	}
	if filter.End, err = parseBound(*end); err != nil {
		return fmt.Errorf("classify: -end: %w", err)
	}

	slog.Info("classify.start", "in", *in, "start", *start, "end", *end, "calendars", filter.Calendars, "threshold", *threshold)
	events, rejects, err := ccsv.ReadEvents(*in)
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}
	if len(rejects) > 0 {
		slog.Warn("classify.rejected", "count", len(rejects), "file", "rejected_events.csv")
	}
	if err := ccsv.WriteRejects(filepath.Join(*dataDir, "rejected_events.csv"), rejects); err != nil {
		return err
	}

	prepared := dclassify.Prepare(events, filter)
	recs := dclassify.New(*threshold).Apply(prepared)
	conflicts := dclassify.Conflicts(recs)

	if err := ccsv.WriteClassified(filepath.Join(*dataDir, "classified.csv"), recs); err != nil {
		return err
	}
	if err := ccsv.WriteConflicts(filepath.Join(*dataDir, "conflicts.csv"), conflicts); err != nil {
		return err
	}

	counts := dclassify.Counts(recs)
	attrs := []any{"events", len(events), "kept", len(recs), "conflicts", len(conflicts)}
	for _, l := range append(booking.RoomLabels(), booking.Statuses...) {
		if n := counts[l]; n > 0 {
			attrs = append(attrs, string(l), n)
		}
	}
	slog.Info("classify.done", attrs...)
	return nil
}

func parseBound(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return booking.ParseTime(s)
}
