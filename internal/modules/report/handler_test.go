package report

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passthrough(next http.Handler) http.Handler { return next }

func newTestRouter() http.Handler {
	repo := &memRepo{}
	repo.add("completed", 100, time.Date(2025, 1, 31, 23, 50, 0, 0, time.UTC), `[{"itemId":"tea","name":"Tea, hot","price":25,"qty":4}]`)
	r := chi.NewRouter()
	NewHandler(NewService(repo, time.UTC, logger.Discard()), time.UTC, logger.Discard()).RegisterRoutes(r, passthrough)
	return r
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReportRoute(t *testing.T) {
	h := newTestRouter()

	rec := get(h, "/reports?from=2025-01-01&to=2025-01-31")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 100.0, body["totalRevenue"])
	assert.Equal(t, 1.0, body["ordersCount"])
	assert.Contains(t, rec.Body.String(), `"_id":"2025-01-31"`)
	assert.Contains(t, rec.Body.String(), `"qtySold":4`)

	rec = get(h, "/reports?to=2025-01-30")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalRevenue":0,"ordersCount":0,"byDay":[],"byItem":[]}`, rec.Body.String())

	rec = get(h, "/reports?from=garbage")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ordersCount":1`)
}

func TestExportRoute(t *testing.T) {
	rec := get(newTestRouter(), "/reports/export.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "reports-")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Equal(t, []string{
		"Date,Revenue,Orders",
		"2025-01-31,100.00,1",
		"",
		"Item,Quantity,Revenue",
		`"Tea, hot",4,100.00`,
	}, lines)
}
