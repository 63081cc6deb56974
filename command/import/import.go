package cmdimport

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"room-stats/connectors/config"
	ccsv "room-stats/connectors/csv"
	"room-stats/connectors/gcal"
	"room-stats/connectors/ical"
	"room-stats/domain/booking"
	dc "room-stats/domain/config"
)

// Run executes the import subcommand. Events come from the Google Calendar
// API unless ICS sources are given with -ics or calendar.ics_urls.
func Run(args []string) error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataDir := fs.String("data", cfg.DataDir, "directory to write events.csv into")
	names := fs.String("calendars", strings.Join(cfg.Calendar.Names, ","), "comma-separated Google calendar names to import")
	icsFlag := fs.String("ics", strings.Join(cfg.Calendar.ICSURLs, ","), "comma-separated ICS sources, each a URL or file, optionally prefixed with Name=")
	archive := fs.Bool("archive", cfg.Calendar.Archive, "also keep a snappy-compressed copy under <data>/archive")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	now := time.Now()
	sources := dc.SplitList(*icsFlag)
	slog.Info("import.start", "calendars", *names, "ics", len(sources), "archive", *archive)

	var events []booking.Event
	if len(sources) > 0 {
		events, err = importICS(ctx, sources, now)
	} else {
		events, err = importGoogle(ctx, dc.SplitList(*names), now)
	}
	if err != nil {
		slog.Error("import.error", "error", err)
		return err
	}

	out := filepath.Join(*dataDir, "events.csv")
	if err := ccsv.WriteEvents(out, events); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	if *archive {
		p := filepath.Join(*dataDir, "archive", "events-"+now.Format("20060102-150405")+".csv.sz")
		if err := ccsv.WriteArchive(p, events); err != nil {
			slog.Warn("import.archive.error", "path", p, "error", err)
		} else {
			slog.Info("import.archive.done", "path", p)
		}
	}
	slog.Info("import.done", "events", len(events), "out", out)
	return nil
}

func importGoogle(ctx context.Context, names []string, now time.Time) ([]booking.Event, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no calendar names: set -calendars or calendar.names")
	}
	c, err := gcal.NewFromEnv(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Google Calendar credentials are required (GCAL_ACCESS_TOKEN or GCAL_CLIENT_ID/GCAL_CLIENT_SECRET/GCAL_REFRESH_TOKEN), or pass -ics.")
		return nil, err
	}
	return c.Import(ctx, names, now)
}

// importICS fetches every source. A failing source is reported and skipped;
// the import fails only when nothing could be read.
func importICS(ctx context.Context, sources []string, now time.Time) ([]booking.Event, error) {
	var all []booking.Event
	ok := 0
	for _, s := range sources {
		src := ical.ParseSource(s)
		evs, err := ical.Fetch(ctx, nil, src, now)
		if err != nil {
			slog.Warn("phase.ics.fetch.error", "calendar", src.Calendar, "error", err)
			fmt.Fprintf(os.Stderr, "Warning: failed to read %s: %v\n", src.Location, err)
			continue
		}
		ok++
		all = append(all, evs...)
	}
	if ok == 0 {
		return nil, fmt.Errorf("no ICS source could be read")
	}
	return all, nil
}
