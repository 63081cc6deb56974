package run

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"room-stats/command/calculate"
	"room-stats/command/classify"
	"room-stats/command/report"
	"room-stats/connectors/config"
)

type step struct {
	name string
	run  func([]string) error
}

var steps = []step{
	{"classify", classify.Run},
	{"calculate", calculate.Run},
	{"report", report.Run},
}

// Run chains classify, calculate and report over one data directory.
func Run(args []string) error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataDir := fs.String("data", cfg.DataDir, "directory holding the CSV files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, s := range steps {
		slog.Info("run.step", "step", s.name, "data", *dataDir)
		if err := s.run([]string{"-data", *dataDir}); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}
