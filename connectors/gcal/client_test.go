package gcal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *Client {
	c := New(srv.Client()).WithBaseURL(srv.URL)
	c.sleep = func(time.Duration) {}
	return c
}

func TestImport_FiltersCalendarsAndPaginates(t *testing.T) {
	var queries []string
	mux := http.NewServeMux()
	mux.HandleFunc("/users/me/calendarList", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[{"id":"conf@group","summary":"Conference Room"},{"id":"me","summary":"Personal"}]}`)
	})
	mux.HandleFunc("/calendars/conf@group/events", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		queries = append(queries, q.Encode())
		assert.Equal(t, "2500", q.Get("maxResults"))
		assert.Equal(t, "true", q.Get("singleEvents"))
		assert.Equal(t, "startTime", q.Get("orderBy"))
		assert.Equal(t, "2015-01-01T00:00:00Z", q.Get("timeMax"))
		if q.Get("pageToken") == "" {
			fmt.Fprint(w, `{"items":[{"id":"1","summary":"Uptown","location":"Uptown","start":{"dateTime":"2014-03-04T10:00:00-08:00"},"end":{"dateTime":"2014-03-04T12:00:00-08:00"},"creator":{"email":"a@b.c"}}],"nextPageToken":"p2"}`)
			return
		}
		assert.Equal(t, "p2", q.Get("pageToken"))
		fmt.Fprint(w, `{"items":[{"id":"2","summary":"All day","start":{"date":"2014-03-05"},"end":{"date":"2014-03-06"}},{"id":"3","summary":"broken","start":{},"end":{}}],"nextSyncToken":"sync"}`)
	})
	mux.HandleFunc("/calendars/me/events", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected calendar fetched")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	events, err := newTestClient(srv).Import(context.Background(), []string{"Conference Room"}, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, queries, 2)
	require.Len(t, events, 2)

	assert.Equal(t, "Uptown", events[0].Title)
	assert.Equal(t, "Conference Room", events[0].Calendar)
	assert.Equal(t, "a@b.c", events[0].CreatedBy)
	assert.Equal(t, 2.0, events[0].Hours())
	assert.NotEmpty(t, events[0].ID)
	assert.Equal(t, 24.0, events[1].Hours())
}

func TestGet_RetriesRateLimit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch calls {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":{"errors":[{"reason":"userRateLimitExceeded"}]}}`)
		default:
			fmt.Fprint(w, `{"items":[{"id":"x","summary":"X"}]}`)
		}
	}))
	defer srv.Close()

	var waits []time.Duration
	c := newTestClient(srv)
	c.sleep = func(d time.Duration) { waits = append(waits, d) }

	cals, err := c.ListCalendars(context.Background())
	require.NoError(t, err)
	require.Len(t, cals, 1)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{retryBase, 2 * retryBase}, waits)
}

func TestGet_ForbiddenIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"errors":[{"reason":"forbidden"}]}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).ListCalendars(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 7*time.Second, retryAfter("7", 3))
	assert.Equal(t, 4*retryBase, retryAfter("", 2))
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("GCAL_ACCESS_TOKEN", "")
	t.Setenv("GCAL_CLIENT_ID", "")
	_, err := NewFromEnv(context.Background())
	require.Error(t, err)

	t.Setenv("GCAL_ACCESS_TOKEN", "tok")
	c, err := NewFromEnv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, apiBase, c.base)
}
