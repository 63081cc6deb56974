package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"room-stats/domain/booking"
)

// Package gcal is a minimal Google Calendar v3 connector: calendar listing
// and paginated event listing, with OAuth2 auth and rate-limit backoff.

const (
	apiBase       = "https://www.googleapis.com/calendar/v3"
	readonlyScope = "https://www.googleapis.com/auth/calendar.readonly"
	maxResults    = 2500
	maxRetries    = 5
	retryBase     = 2 * time.Second
)

// Calendar is an entry of the user's calendar list.
type Calendar struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

func (et eventTime) value() string {
	if et.DateTime != "" {
		return et.DateTime
	}
	return et.Date
}

type apiEvent struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Start       eventTime `json:"start"`
	End         eventTime `json:"end"`
	Creator     struct {
		Email string `json:"email"`
	} `json:"creator"`
}

// Client wraps an authorized http.Client. Use New or NewFromEnv.
type Client struct {
	c     *http.Client
	base  string
	sleep func(time.Duration)
}

// New wraps c, which must already carry credentials.
func New(c *http.Client) *Client {
	if c == nil {
		c = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{c: c, base: apiBase, sleep: time.Sleep}
}

// WithBaseURL points the client at another API root.
func (gc *Client) WithBaseURL(u string) *Client {
	gc.base = strings.TrimRight(u, "/")
	return gc
}

// NewFromEnv builds an authorized client from GCAL_ACCESS_TOKEN, or from
// GCAL_CLIENT_ID, GCAL_CLIENT_SECRET and GCAL_REFRESH_TOKEN.
func NewFromEnv(ctx context.Context) (*Client, error) {
	if tok := os.Getenv("GCAL_ACCESS_TOKEN"); tok != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok})
		return New(oauth2.NewClient(ctx, ts)), nil
	}
	id, secret, refresh := os.Getenv("GCAL_CLIENT_ID"), os.Getenv("GCAL_CLIENT_SECRET"), os.Getenv("GCAL_REFRESH_TOKEN")
	if id == "" || secret == "" || refresh == "" {
		return nil, errors.New("missing GCAL_ACCESS_TOKEN or GCAL_CLIENT_ID/GCAL_CLIENT_SECRET/GCAL_REFRESH_TOKEN")
	}
	conf := &oauth2.Config{
		ClientID:     id,
		ClientSecret: secret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{readonlyScope},
	}
	return New(conf.Client(ctx, &oauth2.Token{RefreshToken: refresh})), nil
}

func (gc *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := gc.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		resp, err := gc.c.Do(req)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			defer resp.Body.Close()
			return json.NewDecoder(resp.Body).Decode(out)
		}
		b, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if rateLimited(resp.StatusCode, b) && attempt < maxRetries {
			wait := retryAfter(resp.Header.Get("Retry-After"), attempt)
			slog.Warn("rate.limit.sleep", "wait", wait, "attempt", attempt+1, "status", resp.StatusCode)
			gc.sleep(wait)
			continue
		}
		return fmt.Errorf("calendar API GET %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

// rateLimited reports whether a response asks the caller to slow down.
// A 403 only counts when the error reason says so.
func rateLimited(status int, body []byte) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	if status != http.StatusForbidden {
		return false
	}
	s := string(body)
	return strings.Contains(s, "rateLimitExceeded") || strings.Contains(s, "userRateLimitExceeded")
}

func retryAfter(h string, attempt int) time.Duration {
	if sec, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && sec > 0 {
		return time.Duration(sec) * time.Second
	}
	return retryBase << attempt
}

// ListCalendars lists every calendar visible to the credentials.
func (gc *Client) ListCalendars(ctx context.Context) ([]Calendar, error) {
	slog.Info("phase.calendars.fetch.start")
	var all []Calendar
	q := url.Values{}
	for {
		var out struct {
			Items         []Calendar `json:"items"`
			NextPageToken string     `json:"nextPageToken"`
		}
		if err := gc.get(ctx, "/users/me/calendarList", q, &out); err != nil {
			return nil, err
		}
		all = append(all, out.Items...)
		if out.NextPageToken == "" {
			break
		}
		q.Set("pageToken", out.NextPageToken)
	}
	slog.Info("phase.calendars.fetch.done", "count", len(all))
	return all, nil
}

// ListEvents lists every single (expanded) event of cal that starts before
// timeMax, following page tokens.
func (gc *Client) ListEvents(ctx context.Context, cal Calendar, timeMax time.Time) ([]booking.Event, error) {
	slog.Info("phase.events.fetch.start", "calendar", cal.Summary)
	q := url.Values{}
	q.Set("timeMax", timeMax.UTC().Format(time.RFC3339))
	q.Set("maxResults", strconv.Itoa(maxResults))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")
	path := "/calendars/" + url.PathEscape(cal.ID) + "/events"

	var all []booking.Event
	for page := 1; ; page++ {
		var out struct {
			Items         []apiEvent `json:"items"`
			NextPageToken string     `json:"nextPageToken"`
			NextSyncToken string     `json:"nextSyncToken"`
		}
		if err := gc.get(ctx, path, q, &out); err != nil {
			return nil, fmt.Errorf("events of %s: %w", cal.Summary, err)
		}
		slog.Info("phase.events.fetch.page", "calendar", cal.Summary, "page", page, "count", len(out.Items))
		for _, it := range out.Items {
			ev, err := toEvent(cal.Summary, it)
			if err != nil {
				slog.Warn("phase.events.skip", "calendar", cal.Summary, "id", it.ID, "error", err)
				continue
			}
			all = append(all, ev)
		}
		if out.NextPageToken == "" {
			slog.Info("phase.events.fetch.done", "calendar", cal.Summary, "count", len(all), "syncToken", out.NextSyncToken)
			break
		}
		q.Set("pageToken", out.NextPageToken)
	}
	return all, nil
}

func toEvent(calendar string, it apiEvent) (booking.Event, error) {
	start, err := booking.ParseTime(it.Start.value())
	if err != nil {
		return booking.Event{}, fmt.Errorf("start: %w", err)
	}
	end, err := booking.ParseTime(it.End.value())
	if err != nil {
		return booking.Event{}, fmt.Errorf("end: %w", err)
	}
	ev := booking.Event{
		Title:       it.Summary,
		Start:       start,
		End:         end,
		Where:       it.Location,
		Description: it.Description,
		Calendar:    calendar,
		CreatedBy:   it.Creator.Email,
	}
	ev.ID = booking.EventID(ev.Calendar, ev.Title, ev.Start, ev.End)
	return ev, nil
}

// Import fetches events from every calendar whose summary is in names.
func (gc *Client) Import(ctx context.Context, names []string, now time.Time) ([]booking.Event, error) {
	cals, err := gc.ListCalendars(ctx)
	if err != nil {
		return nil, err
	}
	wanted := map[string]bool{}
	for _, n := range names {
		wanted[n] = true
	}
	var all []booking.Event
	for _, cal := range cals {
		if !wanted[cal.Summary] {
			continue
		}
		evs, err := gc.ListEvents(ctx, cal, now)
		if err != nil {
			return nil, err
		}
		all = append(all, evs...)
	}
	return all, nil
}
