package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeBackuper struct {
	calls int
	err   error
}

func (f *fakeBackuper) Backup(context.Context) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "helpdesk_data_backup_20250621_140509.json", nil
}

func TestSchedulerRejectsInvalidSchedule(t *testing.T) {
	s := NewScheduler(nil)
	err := s.Add(context.Background(), Job{Name: "bad", Schedule: "every minute", Run: func(context.Context) error { return nil }})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestSchedulerSkipsDisabledJob(t *testing.T) {
	s := NewScheduler(nil)
	require.NoError(t, s.Add(context.Background(), Job{Name: "backup", Run: func(context.Context) error { return nil }}))
	assert.Error(t, s.RunNow(context.Background(), "backup"))
}

func TestRunNowBackupJob(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	store := &fakeBackuper{}

	s := NewScheduler(logger)
	require.NoError(t, s.Add(context.Background(), BackupJob("0 2 * * *", store, logger)))
	require.NoError(t, s.RunNow(context.Background(), "backup"))

	assert.Equal(t, 1, store.calls)
	entries := logs.FilterMessage("scheduled backup written").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "helpdesk_data_backup_20250621_140509.json", entries[0].ContextMap()["backup"])
}

func TestRunNowLogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	store := &fakeBackuper{err: errors.New("disk full")}

	s := NewScheduler(logger)
	require.NoError(t, s.Add(context.Background(), BackupJob("0 2 * * *", store, logger)))
	err := s.RunNow(context.Background(), "backup")
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("job failed").Len())
}

func TestJobTimeoutIsApplied(t *testing.T) {
	s := NewScheduler(nil)
	job := Job{
		Name:     "slow",
		Schedule: "@every 1h",
		Timeout:  10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	require.NoError(t, s.Add(context.Background(), job))
	err := s.RunNow(context.Background(), "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(nil)
	require.NoError(t, s.Add(context.Background(), Job{Name: "noop", Schedule: "@every 1h", Run: func(context.Context) error { return nil }}))
	s.Start()
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
