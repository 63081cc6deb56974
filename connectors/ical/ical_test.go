package ical

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:one@test\r\n" +
	"DTSTAMP:20140301T000000Z\r\n" +
	"SUMMARY:Uptown board meeting\r\n" +
	"LOCATION:Uptown\r\n" +
	"DESCRIPTION:$25/hr\r\n" +
	"ORGANIZER:mailto:host@example.org\r\n" +
	"DTSTART:20140304T100000Z\r\n" +
	"DTEND:20140304T120000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:weekly@test\r\n" +
	"DTSTAMP:20140301T000000Z\r\n" +
	"SUMMARY:Weekly standup\r\n" +
	"DTSTART:20140303T090000Z\r\n" +
	"DURATION:PT1H\r\n" +
	"RRULE:FREQ=WEEKLY;COUNT=4\r\n" +
	"EXDATE:20140310T090000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:weekly@test\r\n" +
	"DTSTAMP:20140301T000000Z\r\n" +
	"RECURRENCE-ID:20140317T090000Z\r\n" +
	"SUMMARY:Weekly standup (moved)\r\n" +
	"DTSTART:20140317T110000Z\r\n" +
	"DTEND:20140317T120000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:cancelled@test\r\n" +
	"DTSTAMP:20140301T000000Z\r\n" +
	"SUMMARY:Gallery party\r\n" +
	"STATUS:CANCELLED\r\n" +
	"DTSTART;VALUE=DATE:20140320\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VTODO\r\n" +
	"UID:todo@test\r\n" +
	"DTSTAMP:20140301T000000Z\r\n" +
	"SUMMARY:not an event\r\n" +
	"END:VTODO\r\n" +
	"END:VCALENDAR\r\n"

func titles(t *testing.T, until time.Time) []string {
	t.Helper()
	events, err := Decode(strings.NewReader(feed), "Conference Room", until)
	require.NoError(t, err)
	var out []string
	for _, e := range events {
		out = append(out, e.Title+" "+e.Start.Format("01-02 15:04"))
	}
	return out
}

func TestDecode(t *testing.T) {
	events, err := Decode(strings.NewReader(feed), "Conference Room", time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	first := events[0]
	assert.Equal(t, "Uptown board meeting", first.Title)
	assert.Equal(t, "Uptown", first.Where)
	assert.Equal(t, "$25/hr", first.Description)
	assert.Equal(t, "host@example.org", first.CreatedBy)
	assert.Equal(t, "Conference Room", first.Calendar)
	assert.Equal(t, 2.0, first.Hours())
	assert.NotEmpty(t, first.ID)

	assert.Equal(t, []string{
		"Uptown board meeting 03-04 10:00",
		"Weekly standup 03-03 09:00",
		"Weekly standup 03-24 09:00",
		"Weekly standup (moved) 03-17 11:00",
		"Gallery party 03-20 00:00",
	}, titles(t, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)))

	party := events[len(events)-1]
	assert.Equal(t, 24.0, party.Hours())
}

func TestDecode_ExpandsOnlyUntil(t *testing.T) {
	got := titles(t, time.Date(2014, 3, 20, 0, 0, 0, 0, time.UTC))
	assert.NotContains(t, got, "Weekly standup 03-24 09:00")
	assert.Contains(t, got, "Weekly standup 03-03 09:00")
}

func TestDecode_DropsEventsAfterUntil(t *testing.T) {
	assert.Equal(t, []string{
		"Uptown board meeting 03-04 10:00",
		"Weekly standup 03-03 09:00",
	}, titles(t, time.Date(2014, 3, 17, 10, 0, 0, 0, time.UTC)))

	future := "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"PRODID:-//test//EN\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:later@test\r\n" +
		"DTSTAMP:20140301T000000Z\r\n" +
		"SUMMARY:Downtown offsite\r\n" +
		"DTSTART:20160304T100000Z\r\n" +
		"DTEND:20160304T120000Z\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	events, err := Decode(strings.NewReader(future), "Conference Room", time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestParseSource(t *testing.T) {
	assert.Equal(t, Source{Calendar: "Events", Location: "https://x/y.ics"}, ParseSource("Events=https://x/y.ics"))
	assert.Equal(t, Source{Calendar: "https://x/y.ics?a=b", Location: "https://x/y.ics?a=b"}, ParseSource("https://x/y.ics?a=b"))
}

func TestFetchFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cal.ics")
	require.NoError(t, os.WriteFile(p, []byte(feed), 0o644))

	events, err := Fetch(context.Background(), nil, Source{Calendar: "Conference Room", Location: p}, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, events, 5)
}
