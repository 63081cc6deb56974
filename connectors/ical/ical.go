package ical

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	goical "github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"room-stats/domain/booking"
)

// Source is an iCalendar feed: an http(s) URL or a local file path.
type Source struct {
	Calendar string
	Location string
}

// ParseSource reads "Name=location" or a bare location, in which case the
// calendar is named after the location.
func ParseSource(s string) Source {
	if name, loc, ok := strings.Cut(s, "="); ok && !strings.Contains(name, "://") {
		return Source{Calendar: strings.TrimSpace(name), Location: strings.TrimSpace(loc)}
	}
	return Source{Calendar: s, Location: s}
}

// Fetch loads and decodes src, expanding recurring events up to until.
func Fetch(ctx context.Context, c *http.Client, src Source, until time.Time) ([]booking.Event, error) {
	slog.Info("phase.ics.fetch.start", "calendar", src.Calendar, "location", src.Location)
	rc, err := open(ctx, c, src.Location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	events, err := Decode(rc, src.Calendar, until)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Location, err)
	}
	slog.Info("phase.ics.fetch.done", "calendar", src.Calendar, "count", len(events))
	return events, nil
}

func open(ctx context.Context, c *http.Client, loc string) (io.ReadCloser, error) {
	if !strings.HasPrefix(loc, "http://") && !strings.HasPrefix(loc, "https://") {
		return os.Open(loc)
	}
	if c == nil {
		c = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("GET %s returned %d", loc, resp.StatusCode)
	}
	return resp.Body, nil
}

type vevent struct {
	uid        string
	title      string
	where      string
	desc       string
	creator    string
	start, end time.Time
	recurrence time.Time
	rule       string
	exdates    []time.Time
}

// Decode reads every VCALENDAR in r and returns its events starting no later
// than until. Cancelled events are kept; a recurring event yields one event
// per occurrence, with RECURRENCE-ID overrides replacing the generated
// occurrence.
func Decode(r io.Reader, calendar string, until time.Time) ([]booking.Event, error) {
	dec := goical.NewDecoder(r)
	var parsed []vevent
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}
		for _, comp := range cal.Children {
			if comp.Name != goical.CompEvent {
				continue
			}
			ve, err := parseEvent(comp)
			if err != nil {
				slog.Warn("phase.ics.skip", "calendar", calendar, "uid", ve.uid, "error", err)
				continue
			}
			parsed = append(parsed, ve)
		}
	}

	overridden := map[string]bool{}
	for _, ve := range parsed {
		if !ve.recurrence.IsZero() {
			overridden[occurrenceKey(ve.uid, ve.recurrence)] = true
		}
	}

	var out []booking.Event
	for _, ve := range parsed {
		if ve.start.After(until) {
			continue
		}
		if ve.rule == "" {
			out = append(out, ve.event(calendar, ve.start))
			continue
		}
		starts, err := expand(ve, until)
		if err != nil {
			slog.Warn("phase.ics.rrule.error", "calendar", calendar, "uid", ve.uid, "rrule", ve.rule, "error", err)
			out = append(out, ve.event(calendar, ve.start))
			continue
		}
		for _, st := range starts {
			if overridden[occurrenceKey(ve.uid, st)] {
				continue
			}
			out = append(out, ve.event(calendar, st))
		}
	}
	return out, nil
}

func occurrenceKey(uid string, t time.Time) string {
	return uid + "|" + t.UTC().Format(time.RFC3339)
}

func (ve vevent) event(calendar string, start time.Time) booking.Event {
	ev := booking.Event{
		Title:       ve.title,
		Start:       start,
		End:         start.Add(ve.end.Sub(ve.start)),
		Where:       ve.where,
		Description: ve.desc,
		Calendar:    calendar,
		CreatedBy:   ve.creator,
	}
	ev.ID = booking.EventID(ev.Calendar, ev.Title, ev.Start, ev.End)
	return ev
}

func text(comp *goical.Component, name string) string {
	if p := comp.Props.Get(name); p != nil {
		return p.Value
	}
	return ""
}

func parseEvent(comp *goical.Component) (vevent, error) {
	ve := vevent{
		uid:   text(comp, goical.PropUID),
		title: text(comp, goical.PropSummary),
		where: text(comp, goical.PropLocation),
		desc:  text(comp, goical.PropDescription),
		rule:  text(comp, goical.PropRecurrenceRule),
	}
	if org := comp.Props.Get(goical.PropOrganizer); org != nil {
		ve.creator = strings.TrimPrefix(strings.TrimPrefix(org.Value, "mailto:"), "MAILTO:")
	}
	startProp := comp.Props.Get(goical.PropDateTimeStart)
	if startProp == nil {
		return ve, fmt.Errorf("missing DTSTART")
	}
	start, err := startProp.DateTime(time.Local)
	if err != nil {
		return ve, fmt.Errorf("DTSTART: %w", err)
	}
	ve.start = start
	switch {
	case comp.Props.Get(goical.PropDateTimeEnd) != nil:
		end, err := comp.Props.Get(goical.PropDateTimeEnd).DateTime(time.Local)
		if err != nil {
			return ve, fmt.Errorf("DTEND: %w", err)
		}
		ve.end = end
	case comp.Props.Get(goical.PropDuration) != nil:
		d, err := comp.Props.Get(goical.PropDuration).Duration()
		if err != nil {
			return ve, fmt.Errorf("DURATION: %w", err)
		}
		ve.end = start.Add(d)
	case startProp.ValueType() == goical.ValueDate:
		ve.end = start.AddDate(0, 0, 1)
	default:
		ve.end = start
	}
	if ve.end.Before(ve.start) {
		return ve, fmt.Errorf("end before start")
	}
	if p := comp.Props.Get(goical.PropRecurrenceID); p != nil {
		if t, err := p.DateTime(time.Local); err == nil {
			ve.recurrence = t
		}
	}
	for _, p := range comp.Props.Values(goical.PropExceptionDates) {
		ve.exdates = append(ve.exdates, exdates(p)...)
	}
	return ve, nil
}

// exdates splits a possibly comma-separated EXDATE property.
func exdates(p goical.Prop) []time.Time {
	var out []time.Time
	for _, v := range strings.Split(p.Value, ",") {
		one := p
		one.Value = strings.TrimSpace(v)
		if t, err := one.DateTime(time.Local); err == nil {
			out = append(out, t)
		}
	}
	return out
}

// expand lists the occurrence starts of a recurring event up to until.
func expand(ve vevent, until time.Time) ([]time.Time, error) {
	opt, err := rrule.StrToROption(ve.rule)
	if err != nil {
		return nil, err
	}
	opt.Dtstart = ve.start
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, err
	}
	set := rrule.Set{}
	set.RRule(r)
	for _, ex := range ve.exdates {
		set.ExDate(ex)
	}
	return set.Between(ve.start, until, true), nil
}
