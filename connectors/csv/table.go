package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// table is a CSV file read into memory with a header lookup.
type table struct {
	path string
	idx  map[string]int
	rows [][]string
}

func indexMap(headers []string) map[string]int {
	m := map[string]int{}
	for i, h := range headers {
		m[strings.TrimSpace(strings.ToLower(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return m
}

func readTable(path string, required ...string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseTable(f, path, required...)
}

func parseTable(rd io.Reader, path string, required ...string) (*table, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1
	head, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty file", filepath.Base(path))
		}
		return nil, err
	}
	t := &table{path: path, idx: indexMap(head)}
	for _, col := range required {
		if _, ok := t.idx[col]; !ok {
			return nil, fmt.Errorf("%s missing column %s", filepath.Base(path), col)
		}
	}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

// get returns the named column of row i, or "" when absent.
func (t *table) get(i int, names ...string) string {
	for _, name := range names {
		j, ok := t.idx[name]
		if ok && j < len(t.rows[i]) {
			return t.rows[i][j]
		}
	}
	return ""
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// writeFile writes a header and rows to path, creating parent directories.
func writeFile(path string, header []string, rows [][]string) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeRows(f, header, rows)
}

func writeRows(out io.Writer, header []string, rows [][]string) error {
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func parseOptional(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
