package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/service"
)

// Job is a unit of background work run on a cron schedule.
type Job struct {
	Name     string
	Schedule string
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs Jobs with robfig/cron. Overlapping runs of the same job are skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	wg     sync.WaitGroup
	jobs   map[string]Job
}

// NewScheduler creates a scheduler using standard five-field cron expressions.
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{s: logger.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
		jobs:   map[string]Job{},
	}
}

// Add registers job. A job with an empty schedule is disabled and ignored.
func (s *Scheduler) Add(ctx context.Context, job Job) error {
	if job.Schedule == "" {
		s.logger.Info("job disabled", zap.String("job", job.Name))
		return nil
	}
	if _, err := s.cron.AddFunc(job.Schedule, func() { s.execute(ctx, job) }); err != nil {
		return fmt.Errorf("schedule job %s: %w", job.Name, err)
	}
	s.jobs[job.Name] = job
	s.logger.Info("job scheduled", zap.String("job", job.Name), zap.String("schedule", job.Schedule))
	return nil
}

// Start begins executing scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// RunNow executes a registered job immediately.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	job, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.execute(ctx, job)
}

func (s *Scheduler) execute(ctx context.Context, job Job) error {
	s.wg.Add(1)
	defer s.wg.Done()

	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := job.Run(ctx)
	if err != nil {
		s.logger.Error("job failed", zap.String("job", job.Name), zap.Duration("duration", time.Since(start)), zap.Error(err))
		return err
	}
	s.logger.Debug("job completed", zap.String("job", job.Name), zap.Duration("duration", time.Since(start)))
	return nil
}

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
