package seminar

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"seminar-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, cfg SyncConfig, events ...reconcile.Event) (*fiber.App, *Service) {
	svc, _ := setupService(t, cfg, events...)
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app, svc
}

func TestHandleSync(t *testing.T) {
	app, _ := setupTestApp(t, testConfig(), event(t, "2024-06-03", "09:00", 7))

	resp, err := app.Test(httptest.NewRequest("POST", "/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{
		"success": true,
		"added": [{"date": "2024-06-03", "time": "09:00:00", "participants": 7}],
		"updated": [],
		"removed": [],
		"error": null
	}`, string(body))
}

func TestHandleSync_Failure(t *testing.T) {
	app, _ := setupTestApp(t, testConfig())

	resp, err := app.Test(httptest.NewRequest("POST", "/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "snapshot is empty")
}

func TestHandleList(t *testing.T) {
	app, svc := setupTestApp(t, testConfig())
	insert(t, svc.Store(), "2024-06-01", "10:00", 1)
	insert(t, svc.Store(), "2024-06-05", "10:00", 2)

	resp, err := app.Test(httptest.NewRequest("GET", "/seminars?from=2024-06-02", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var rows []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-06-05", rows[0]["date"])
	assert.Equal(t, "10:00:00", rows[0]["time"])
	assert.Equal(t, float64(2), rows[0]["participants"])

	resp, err = app.Test(httptest.NewRequest("GET", "/seminars?to=June", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleCalendar(t *testing.T) {
	app, svc := setupTestApp(t, testConfig())
	insert(t, svc.Store(), "2024-06-01", "10:00", 1)

	resp, err := app.Test(httptest.NewRequest("GET", "/seminars/calendar.ics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/calendar")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "BEGIN:VEVENT")
}

func TestHandlePlan(t *testing.T) {
	app, _ := setupTestApp(t, testConfig(), event(t, "2024-06-03", "09:00", 7))

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/plan", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var plan map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))
	assert.Len(t, plan["inserts"], 1)
}

func TestHandlePlan_EmptySnapshot(t *testing.T) {
	app, _ := setupTestApp(t, testConfig())

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/plan", nil))
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}

func TestHandleRuns(t *testing.T) {
	app, _ := setupTestApp(t, testConfig(), event(t, "2024-06-03", "09:00", 7))

	_, err := app.Test(httptest.NewRequest("POST", "/sync", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/runs?limit=5", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var runs []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
	require.Len(t, runs, 1)
	assert.Equal(t, TriggerHTTP, runs[0]["trigger"])
	assert.Equal(t, float64(1), runs[0]["addedCount"])

	resp, err = app.Test(httptest.NewRequest("GET", "/sync/runs?limit=-1", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
