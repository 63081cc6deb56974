package config

import "strings"

// Config represents the structure of config.yml used by the tool.
// Only the fields currently needed by commands are modeled.
type Config struct {
	DataDir  string `yaml:"data_dir"`
	Calendar struct {
		Names   []string `yaml:"names"`
		ICSURLs []string `yaml:"ics_urls"`
		Archive bool     `yaml:"archive"`
	} `yaml:"calendar"`
	Classify struct {
		Calendars      []string `yaml:"calendars"`
		StartDate      string   `yaml:"start_date"`
		EndDate        string   `yaml:"end_date"`
		FuzzyThreshold int      `yaml:"fuzzy_threshold"`
	} `yaml:"classify"`
	Billing struct {
		FixesFile string `yaml:"fixes_file"`
		MinStart  string `yaml:"min_start"`
	} `yaml:"billing"`
	Report struct {
		Rooms []string `yaml:"rooms"`
	} `yaml:"report"`
	Export struct {
		Table string `yaml:"table"`
	} `yaml:"export"`
}

// Defaults mirrors the values the analysis has always been run with.
func Defaults() Config {
	var c Config
	c.DataDir = "data"
	c.Calendar.Names = []string{"Conference Room", "HUB Oakland Events"}
	c.Classify.Calendars = []string{"Conference Room"}
	c.Classify.StartDate = "2014-02-01"
	c.Classify.FuzzyThreshold = 75
	c.Billing.FixesFile = "unclassified_records_fixes.csv"
	c.Billing.MinStart = "2014-03-01"
	c.Report.Rooms = []string{"UPTOWN", "DOWNTOWN", "EAST_OAK", "WEST_OAK", "MERIDIAN"}
	c.Export.Table = "room_charges"
	return c
}

// SplitList parses a comma-separated flag value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
