package calculate

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"room-stats/connectors/config"
	ccsv "room-stats/connectors/csv"
	"room-stats/domain/billing"
	"room-stats/domain/booking"
)

// Run executes the calculate subcommand: classified.csv plus the manual
// fixes file -> charges.csv and unresolved.csv.
func Run(args []string) error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("calculate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataDir := fs.String("data", cfg.DataDir, "directory holding the CSV files")
	fixesFile := fs.String("fixes", cfg.Billing.FixesFile, "Title/Level corrections CSV (relative paths are under -data)")
	since := fs.String("since", cfg.Billing.MinStart, "only write charges starting on or after this date")
	if err := fs.Parse(args); err != nil {
		return err
	}
	minStart, err := booking.ParseTime(*since)
	if err != nil {
		return fmt.Errorf("calculate: -since: %w", err)
	}

	recs, err := ccsv.ReadClassified(filepath.Join(*dataDir, "classified.csv"))
	if err != nil {
		return fmt.Errorf("calculate: %w", err)
	}
	fixes, err := readFixes(*dataDir, *fixesFile)
	if err != nil {
		return fmt.Errorf("calculate: %w", err)
	}
	slog.Info("calculate.start", "records", len(recs), "fixes", len(fixes), "since", *since)

	ests := billing.NewEstimator(fixes).Run(recs)
	charges := billing.Charges(ests, minStart)
	unresolved := billing.Unresolved(ests)

	if err := ccsv.WriteCharges(filepath.Join(*dataDir, "charges.csv"), charges); err != nil {
		return err
	}
	if err := ccsv.WriteUnresolved(filepath.Join(*dataDir, "unresolved.csv"), unresolved); err != nil {
		return err
	}

	counts := billing.RuleCounts(ests)
	rules := make([]string, 0, len(counts))
	for r := range counts {
		rules = append(rules, r)
	}
	sort.Strings(rules)
	attrs := []any{"charges", len(charges), "unresolved", len(unresolved)}
	for _, r := range rules {
		attrs = append(attrs, r, counts[r])
	}
	slog.Info("calculate.done", attrs...)
	if len(unresolved) > 0 {
		fmt.Fprintf(os.Stderr, "%d conference room bookings have no rate; fill the Level column of unresolved.csv and merge it into %s\n", len(unresolved), *fixesFile)
	}
	return nil
}

// readFixes loads the corrections file. A missing file means no corrections.
func readFixes(dataDir, name string) ([]billing.Fix, error) {
	if name == "" {
		return nil, nil
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dataDir, name)
	}
	fixes, err := ccsv.ReadFixes(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("calculate.fixes.missing", "path", path)
		return nil, nil
	}
	return fixes, err
}
