package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, dir, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	New(dir).ServeHTTP(rec, req)
	return rec
}

func TestCSVEndpoints(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "charges.csv"), []byte("id,Loc,Charge\na,UPTOWN,50\nb,MERIDIAN,\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pivots"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pivots", "totals.csv"), []byte("measure,UPTOWN\ncharge,50\n"), 0o644))

	rec := get(t, dir, "/api/charges")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "UPTOWN", rows[0]["Loc"])
	assert.Equal(t, "", rows[1]["Charge"])

	rec = get(t, dir, "/api/pivots/totals")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"measure":"charge"`)
}

func TestMissingFiles(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"/api/events", "/api/pivots/hours_by_month", "/report"} {
		rec := get(t, dir, p)
		assert.Equal(t, http.StatusNotFound, rec.Code, p)
		assert.Contains(t, rec.Body.String(), "file not found", p)
	}
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.html"), []byte("<html>charts</html>"), 0o644))

	rec := get(t, dir, "/report")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "charts")
}

func TestPivotName(t *testing.T) {
	assert.True(t, pivotName.MatchString("rate_distribution"))
	assert.False(t, pivotName.MatchString("../charges"))
	assert.False(t, pivotName.MatchString(""))
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yml"))
	stderr, err := os.CreateTemp(t.TempDir(), "stderr")
	require.NoError(t, err)
	orig := os.Stderr
	os.Stderr = stderr
	t.Cleanup(func() { os.Stderr = orig })

	assert.Error(t, Run([]string{"-bogus"}))

	out, err := os.ReadFile(stderr.Name())
	require.NoError(t, err)
	assert.Contains(t, string(out), "flag provided but not defined: -bogus")
	assert.Contains(t, string(out), "-addr")
}
