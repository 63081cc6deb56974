package csv

import (
	"path/filepath"

	"room-stats/domain/report"
)

// WriteTable writes a pivot table with its index as the first column.
func WriteTable(path string, t report.Table) error {
	header := []string{t.IndexBy}
	for _, c := range t.Columns {
		header = append(header, string(c))
	}
	rows := make([][]string, 0, len(t.Index))
	for i, key := range t.Index {
		row := []string{key}
		for _, v := range t.Values[i] {
			row = append(row, formatFloat(v))
		}
		rows = append(rows, row)
	}
	return writeFile(path, header, rows)
}

// WriteTables writes each table to <dir>/<name>.csv.
func WriteTables(dir string, tables []report.Table) error {
	for _, t := range tables {
		if err := WriteTable(filepath.Join(dir, t.Name+".csv"), t); err != nil {
			return err
		}
	}
	return nil
}
