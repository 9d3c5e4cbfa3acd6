package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/repository"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/service"
)

// Backuper is the part of repository.MaintenanceRepository used by the backup job.
type Backuper interface {
	Backup(ctx context.Context) (string, error)
}

var _ Backuper = (repository.MaintenanceRepository)(nil)

// BackupJob copies the document to the backup directory.
func BackupJob(schedule string, store Backuper, logger *zap.Logger) Job {
	return Job{
		Name:     "backup",
		Schedule: schedule,
		Timeout:  time.Minute,
		Run: func(ctx context.Context) error {
			name, err := store.Backup(ctx)
			if err != nil {
				return err
			}
			logger.Info("scheduled backup written", zap.String("backup", name))
			return nil
		},
	}
}

// EscalationJob escalates overdue tickets and, when auto_assign is on, hands unassigned
// Open tickets to agents.
func EscalationJob(schedule string, escalator *service.Escalator, tickets *service.TicketService, settings *service.SettingsService, logger *zap.Logger) Job {
	return Job{
		Name:     "escalation",
		Schedule: schedule,
		Timeout:  time.Minute,
		Run: func(ctx context.Context) error {
			n, err := escalator.Sweep(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("tickets escalated", zap.Int("count", n))
			}

			current, err := settings.Get(ctx)
			if err != nil {
				return err
			}
			if !current.AutoAssign {
				return nil
			}
			_, err = tickets.AutoAssign(ctx)
			return err
		},
	}
}
