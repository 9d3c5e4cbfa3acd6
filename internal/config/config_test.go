package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("ASSIGN_AGENTS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverFile, cfg.Store.Driver)
	assert.Equal(t, "helpdesk_data.json", cfg.Store.DataFile)
	assert.Equal(t, LockMutex, cfg.Store.Lock)
	assert.Equal(t, 10*time.Second, cfg.Store.LockTTL)
	assert.Len(t, cfg.Assignment.Agents, 4)
	assert.Equal(t, 9, cfg.Calendar.WorkStartHour)
	assert.Equal(t, 17, cfg.Calendar.WorkEndHour)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DATA_FILE", "/tmp/tickets.json")
	t.Setenv("STORE_LOCK", "REDIS")
	t.Setenv("ASSIGN_AGENTS", " Ann , ,Bob ")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("CALENDAR_WORK_WEEKENDS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/tickets.json", cfg.Store.DataFile)
	assert.Equal(t, LockRedis, cfg.Store.Lock)
	assert.Equal(t, []string{"Ann", "Bob"}, cfg.Assignment.Agents)
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.True(t, cfg.Calendar.WorkWeekends)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "mongo"}},
		{name: "postgres without dsn", env: map[string]string{"STORE_DRIVER": "postgres", "POSTGRES_DSN": ""}},
		{name: "unknown lock", env: map[string]string{"STORE_LOCK": "etcd"}},
		{name: "inverted hours", env: map[string]string{"CALENDAR_WORK_START_HOUR": "18", "CALENDAR_WORK_END_HOUR": "8"}},
		{name: "bad redis db", env: map[string]string{"REDIS_DB": "zero"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
