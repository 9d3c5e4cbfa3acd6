package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_DRIVER", "file")
	t.Setenv("STORE_LOCK", "mutex")
	t.Setenv("STORE_DATA_FILE", filepath.Join(dir, "helpdesk_data.json"))
	t.Setenv("STORE_BACKUP_DIR", filepath.Join(dir, "backups"))
	t.Setenv("DIRECTORY_FILE", "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

type statsOutput struct {
	Store struct {
		TotalTickets int `json:"total_tickets"`
	} `json:"store"`
	Tickets struct {
		Total int `json:"total"`
		Open  int `json:"open"`
	} `json:"tickets"`
}

func TestStatsOnFreshStore(t *testing.T) {
	setupStore(t)
	out, err := run(t, "stats")
	require.NoError(t, err)

	var stats statsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 5, stats.Store.TotalTickets)
	assert.Equal(t, 5, stats.Tickets.Total)
	assert.Equal(t, 2, stats.Tickets.Open)
}

func TestResetRequiresForce(t *testing.T) {
	setupStore(t)
	_, err := run(t, "reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = run(t, "reset", "--force")
	require.NoError(t, err)

	out, err := run(t, "stats")
	require.NoError(t, err)
	var stats statsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Zero(t, stats.Tickets.Total)

	_, err = run(t, "reset", "--force", "--seed")
	require.NoError(t, err)
	out, err = run(t, "stats")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 5, stats.Tickets.Total)
}

func TestBackupThenRestore(t *testing.T) {
	dir := setupStore(t)

	out, err := run(t, "backup")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "backup written: helpdesk_data_backup_"), out)
	name := strings.TrimSpace(strings.TrimPrefix(out, "backup written: "))
	assert.FileExists(t, filepath.Join(dir, "backups", name))

	_, err = run(t, "reset", "--force")
	require.NoError(t, err)

	_, err = run(t, "restore", name)
	require.NoError(t, err)

	out, err = run(t, "stats")
	require.NoError(t, err)
	var stats statsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 5, stats.Tickets.Total)

	_, err = run(t, "restore", "missing_backup.json")
	assert.Error(t, err)
}

func TestExportWritesWorkbook(t *testing.T) {
	dir := setupStore(t)
	target := filepath.Join(dir, "report.xlsx")

	out, err := run(t, "export", "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 5 tickets")

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "helpdeskctl dev\n", out)
}
