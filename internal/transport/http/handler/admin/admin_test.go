package admin

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandalnilabja/goatlate/internal/storage"
	"github.com/mandalnilabja/goatlate/internal/storage/models"
	"github.com/mandalnilabja/goatlate/internal/types"
)

func newStore(t *testing.T) storage.Storage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "goatlate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seed(t *testing.T, store storage.Storage) {
	t.Helper()
	entries := []*storage.RequestLog{
		{Mode: models.ModeTranslate, Model: "gemini-2.0-flash", Provider: "gemini", TargetLang: "French", TotalTokens: 12, StatusCode: 200},
		{Mode: models.ModeChat, Model: "gemini-2.0-flash", Provider: "gemini", TotalTokens: 30, StatusCode: 200},
		{Mode: models.ModeChat, Model: "gemini-2.0-flash", Provider: "gemini", StatusCode: 500, ErrorMessage: "quota"},
	}
	today := time.Now().UTC().Format(dateLayout)
	for _, e := range entries {
		require.NoError(t, store.LogRequest(e))
		errs := 0
		if e.StatusCode >= 400 {
			errs = 1
		}
		require.NoError(t, store.UpdateDailyUsage(&storage.DailyUsage{
			Date: today, Mode: e.Mode, Model: e.Model,
			RequestCount: 1, TotalTokens: e.TotalTokens, ErrorCount: errs,
		}))
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, types.JSON.Unmarshal(rec.Body.Bytes(), v))
}

func TestGetRequestLogsFiltersByMode(t *testing.T) {
	store := newStore(t)
	seed(t, store)
	h := New(store, time.Now(), Info{})

	rec := httptest.NewRecorder()
	h.GetRequestLogs(rec, httptest.NewRequest(http.MethodGet, "/api/admin/logs?mode=chat&limit=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Logs  []storage.RequestLog `json:"logs"`
		Limit int                  `json:"limit"`
	}
	decode(t, rec, &body)
	assert.Len(t, body.Logs, 2)
	assert.Equal(t, 10, body.Limit)
	for _, l := range body.Logs {
		assert.Equal(t, models.ModeChat, l.Mode)
	}
}

func TestParseLogFilter(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/admin/logs?status_code=500&limit=5000&offset=-1&start_date=2026-01-02&end_date=bad", nil)
	f := parseLogFilter(r)

	require.NotNil(t, f.StatusCode)
	assert.Equal(t, 500, *f.StatusCode)
	assert.Equal(t, maxLogLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)
	require.NotNil(t, f.StartDate)
	assert.Equal(t, "2026-01-02", f.StartDate.Format(dateLayout))
	assert.Nil(t, f.EndDate)
}

func TestDeleteRequestLogsValidation(t *testing.T) {
	h := New(newStore(t), time.Now(), Info{})

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"missing date", "/api/admin/logs", http.StatusBadRequest},
		{"bad date", "/api/admin/logs?before_date=01-02-2026", http.StatusBadRequest},
		{"valid", "/api/admin/logs?before_date=2000-01-01", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.DeleteRequestLogs(rec, httptest.NewRequest(http.MethodDelete, tt.target, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGetUsageStats(t *testing.T) {
	store := newStore(t)
	seed(t, store)
	h := New(store, time.Now(), Info{})

	rec := httptest.NewRecorder()
	h.GetUsageStats(rec, httptest.NewRequest(http.MethodGet, "/api/admin/usage", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var stats storage.UsageStats
	decode(t, rec, &stats)
	assert.Equal(t, 3, stats.TotalRequests)
	assert.Equal(t, 42, stats.TotalTokens)
	assert.Equal(t, 1, stats.ErrorCount)
	assert.Equal(t, 2, stats.ModeBreakdown[models.ModeChat])
	assert.Equal(t, 1, stats.ModeBreakdown[models.ModeTranslate])
}

func TestGetDailyUsage(t *testing.T) {
	store := newStore(t)
	today := time.Now().UTC().Format(dateLayout)
	require.NoError(t, store.UpdateDailyUsage(&storage.DailyUsage{
		Date: today, Mode: models.ModeTranslate, Model: "gemini-2.0-flash", RequestCount: 1, TotalTokens: 9,
	}))
	h := New(store, time.Now(), Info{})

	rec := httptest.NewRecorder()
	h.GetDailyUsage(rec, httptest.NewRequest(http.MethodGet, "/api/admin/usage/daily", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		DailyUsage []storage.DailyUsage `json:"daily_usage"`
		EndDate    string               `json:"end_date"`
	}
	decode(t, rec, &body)
	assert.Equal(t, today, body.EndDate)
	require.Len(t, body.DailyUsage, 1)
	assert.Equal(t, 9, body.DailyUsage[0].TotalTokens)

	bad := httptest.NewRecorder()
	h.GetDailyUsage(bad, httptest.NewRequest(http.MethodGet, "/api/admin/usage/daily?start_date=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestLedgerDisabled(t *testing.T) {
	h := New(nil, time.Now(), Info{Provider: "gemini"})

	for _, fn := range []http.HandlerFunc{h.GetRequestLogs, h.DeleteRequestLogs, h.GetUsageStats, h.GetDailyUsage} {
		rec := httptest.NewRecorder()
		fn(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.AdminInfo(rec, httptest.NewRequest(http.MethodGet, "/api/admin/info", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "disabled", body["database"])
	assert.Equal(t, "gemini", body["provider"])
}

func TestAdminInfo(t *testing.T) {
	store := newStore(t)
	seed(t, store)
	h := New(store, time.Now().Add(-time.Minute), Info{Provider: "gemini", Model: "gemini-2.0-flash", DataDir: "/tmp/goatlate"})

	rec := httptest.NewRecorder()
	h.AdminInfo(rec, httptest.NewRequest(http.MethodGet, "/api/admin/info", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Model      string         `json:"model"`
		DataDir    string         `json:"data_dir"`
		Database   string         `json:"database"`
		UptimeSecs int64          `json:"uptime_secs"`
		Stats      map[string]int `json:"stats"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "gemini-2.0-flash", body.Model)
	assert.Equal(t, "/tmp/goatlate", body.DataDir)
	assert.Equal(t, "connected", body.Database)
	assert.GreaterOrEqual(t, body.UptimeSecs, int64(60))
	assert.Equal(t, 3, body.Stats["total_requests"])
}
