package main

import (
	"fmt"
	"log/slog"
	"os"

	cmdcalculate "room-stats/command/calculate"
	cmdclassify "room-stats/command/classify"
	cmdexport "room-stats/command/export"
	cmdimport "room-stats/command/import"
	cmdreport "room-stats/command/report"
	cmdrun "room-stats/command/run"
	cmdweb "room-stats/command/web"
)

// Room booking analysis for a coworking space calendar.
// Usage:
//   room-stats import [-ics Name=url,...] [-archive]
//   room-stats classify [-start 2014-02-01] [-end ...] [-calendars ...] [-threshold 75]
//   room-stats calculate [-fixes unclassified_records_fixes.csv] [-since 2014-03-01]
//   room-stats report [-rooms UPTOWN,DOWNTOWN,...]
//   room-stats run
//   room-stats export [-table room_charges]
//   room-stats web [-addr :8080]
// Every subcommand takes -data (default data/ or data_dir from the config).

var commands = map[string]func([]string) error{
	"import":    cmdimport.Run,
	"classify":  cmdclassify.Run,
	"calculate": cmdcalculate.Run,
	"report":    cmdreport.Run,
	"run":       cmdrun.Run,
	"export":    cmdexport.Run,
	"web":       cmdweb.Run,
}

const usage = `usage: room-stats <command> [flags]

commands:
  import     fetch calendar events into events.csv (Google Calendar API or -ics)
  classify   label events with a room and status -> classified.csv, conflicts.csv
  calculate  estimate rates and charges -> charges.csv, unresolved.csv
  report     pivot charges -> pivots/*.csv, report.html
  run        classify, calculate and report in one go
  export     load charges.csv into MySQL (MYSQL_DSN)
  web        serve the CSV outputs as JSON and the chart page

ENV: set CONFIG_PATH to point to a YAML config file (default ./config.yml)`

func main() {
	args := os.Args
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))

	if len(args) > 1 {
		if run, ok := commands[args[1]]; ok {
			rest := append([]string{}, args[2:]...)
			if err := run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}
	fmt.Fprintln(os.Stderr, usage)
	os.Exit(2)
}
