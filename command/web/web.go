package web

import (
	"encoding/csv"
	"errors"
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"github.com/labstack/echo/v4"

	"room-stats/connectors/config"
)

// Run starts a small Echo web server exposing the CSV outputs as JSON and
// the chart page.
//
// Usage:
//
//	room-stats web [-addr :8080] [-data ./data]
//
// Endpoints:
//
//	GET /api/events          -> <data>/events.csv
//	GET /api/classified      -> <data>/classified.csv
//	GET /api/conflicts       -> <data>/conflicts.csv
//	GET /api/charges         -> <data>/charges.csv
//	GET /api/unresolved      -> <data>/unresolved.csv
//	GET /api/pivots/:name    -> <data>/pivots/<name>.csv
//	GET /report              -> <data>/report.html
func Run(args []string) error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", ":8080", "http listen address (host:port)")
	dataDir := fs.String("data", cfg.DataDir, "directory containing CSV files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return New(*dataDir).Start(*addr)
}

var pivotName = regexp.MustCompile(`^[a-z0-9_]+$`)

func notFound(c echo.Context, path, message string) error {
	return c.JSON(http.StatusNotFound, map[string]any{
		"error":   "file not found",
		"path":    path,
		"message": message,
	})
}

func sendCSV(c echo.Context, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return notFound(c, path, "CSV file is missing")
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"error":   err.Error(),
			"path":    path,
			"message": "failed to read CSV",
		})
	}
	return c.JSON(http.StatusOK, rows)
}

// New builds the server for dataDir without starting it.
func New(dataDir string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	serveCSV := func(route string, filename string) {
		e.GET(route, func(c echo.Context) error {
			return sendCSV(c, filepath.Join(dataDir, filename))
		})
	}

	serveCSV("/api/events", "events.csv")
	serveCSV("/api/classified", "classified.csv")
	serveCSV("/api/conflicts", "conflicts.csv")
	serveCSV("/api/rejected", "rejected_events.csv")
	serveCSV("/api/charges", "charges.csv")
	serveCSV("/api/unresolved", "unresolved.csv")

	e.GET("/api/pivots/:name", func(c echo.Context) error {
		name := c.Param("name")
		if !pivotName.MatchString(name) {
			return notFound(c, name, "unknown pivot")
		}
		return sendCSV(c, filepath.Join(dataDir, "pivots", name+".csv"))
	})

	e.GET("/report", func(c echo.Context) error {
		path := filepath.Join(dataDir, "report.html")
		if fi, err := os.Stat(path); err != nil || fi.IsDir() {
			return notFound(c, path, "run the report command first")
		}
		return c.File(path)
	})

	return e
}

// readCSV loads a CSV file and returns a slice of objects keyed by headers.
// Values are kept as strings to avoid lossy or incorrect type coercion.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []map[string]string{}, nil
	}

	headers := records[0]
	res := make([]map[string]string, 0, len(records)-1)
	for _, row := range records[1:] {
		if len(row) == 0 {
			continue
		}
		obj := make(map[string]string, len(headers))
		for j := 0; j < len(headers) && j < len(row); j++ {
			obj[headers[j]] = row[j]
		}
		res = append(res, obj)
	}
	return res, nil
}
