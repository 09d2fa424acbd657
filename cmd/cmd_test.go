package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"seminar-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_NAME", filepath.Join(dir, "seminars.db"))
	t.Setenv("EXTRACT_SOURCE", "file")
	t.Setenv("SYNC_REFERENCE_YEAR", "2024")
	t.Setenv("SYNC_CUTOFF", "none")
	t.Setenv("SYNC_TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "error")
	t.Cleanup(func() {
		syncDryRun = false
		syncFile = ""
		importYear = 0
	})
	return dir
}

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs(append([]string{"--config-dir", dir}, args...))
	err := RootCmd.Execute()
	return out.String(), err
}

func TestSyncCommand(t *testing.T) {
	dir := setupEnv(t)
	fixture, err := filepath.Abs("../feature/extract/testdata/calendar.html")
	require.NoError(t, err)

	_, err = execute(t, dir, "migrate")
	require.NoError(t, err)

	out, err := execute(t, dir, "sync", "--dry-run", "--file", fixture)
	require.NoError(t, err)
	var plan reconcile.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Len(t, plan.Inserts, 3)

	out, err = execute(t, dir, "sync", "--dry-run=false", "--file", fixture)
	require.NoError(t, err)
	var res reconcile.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Success)
	assert.Len(t, res.Added, 3)

	out, err = execute(t, dir, "sync", "--file", fixture)
	require.NoError(t, err)
	res = reconcile.Result{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Success)
	assert.Empty(t, res.Added)
	assert.Empty(t, res.Removed)

	out, err = execute(t, dir, "runs", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "EXECUTED")
	assert.Contains(t, out, "cli")
}

func TestSyncCommand_RequiresMigration(t *testing.T) {
	dir := setupEnv(t)

	_, err := execute(t, dir, "sync", "--file", "missing.html")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate")
}

func TestImportCommand(t *testing.T) {
	dir := setupEnv(t)
	csvPath, err := filepath.Abs("../feature/extract/testdata/seminars.csv")
	require.NoError(t, err)

	_, err = execute(t, dir, "migrate")
	require.NoError(t, err)

	out, err := execute(t, dir, "import", "--year", "2025", csvPath)
	require.NoError(t, err)

	var res reconcile.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Success)
	require.Len(t, res.Added, 3)
	assert.Equal(t, "2025-06-01", res.Added[0].Date)
}

func TestIntegrityCommand(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, dir, "integrity")
	require.Error(t, err)
	assert.Contains(t, out, `"healthy": false`)

	_, err = execute(t, dir, "migrate")
	require.NoError(t, err)

	out, err = execute(t, dir, "integrity")
	require.NoError(t, err)
	var report struct {
		Healthy bool `json:"healthy"`
		Tables  []struct {
			Table  string `json:"table"`
			Status string `json:"status"`
		} `json:"tables"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Healthy)
	assert.Len(t, report.Tables, 2)
}

func TestResultError(t *testing.T) {
	assert.NoError(t, resultError(&reconcile.Result{Success: true}))

	msg := "snapshot is empty"
	err := resultError(&reconcile.Result{RunID: "r1", Error: &msg})
	assert.EqualError(t, err, "run r1 failed: snapshot is empty")
}
