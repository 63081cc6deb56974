package export

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"room-stats/connectors/config"
	ccsv "room-stats/connectors/csv"
	"room-stats/connectors/mysql"
)

// Run executes the export subcommand: charges.csv -> MySQL table.
func Run(args []string) error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataDir := fs.String("data", cfg.DataDir, "directory holding charges.csv")
	table := fs.String("table", cfg.Export.Table, "target table")
	dsn := fs.String("dsn", os.Getenv("MYSQL_DSN"), "MySQL DSN, e.g. user:pass@tcp(host:3306)/db (default $MYSQL_DSN)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dsn == "" {
		fmt.Fprintln(os.Stderr, "MYSQL_DSN environment variable or -dsn is required.")
		return fmt.Errorf("missing MYSQL_DSN")
	}

	charges, err := ccsv.ReadCharges(filepath.Join(*dataDir, "charges.csv"))
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	ctx := context.Background()
	db, err := mysql.Open(ctx, *dsn)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer db.Close()
	return mysql.Load(ctx, db, *table, charges)
}
