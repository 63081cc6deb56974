package csv

import (
	"os"

	"github.com/golang/snappy"

	"room-stats/domain/booking"
)

// WriteArchive stores a snappy-compressed copy of a calendar snapshot.
func WriteArchive(path string, events []booking.Event) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	zw := snappy.NewBufferedWriter(f)
	if err := WriteEventsTo(zw, events); err != nil {
		return err
	}
	return zw.Close()
}

// ReadArchive loads a snapshot written by WriteArchive.
func ReadArchive(path string) ([]booking.Event, []Reject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	t, err := parseTable(snappy.NewReader(f), path, "title", "start", "end")
	if err != nil {
		return nil, nil, err
	}
	return eventsFromTable(t)
}
