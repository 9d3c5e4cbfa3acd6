// Package app assembles the help desk components from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/config"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/directory"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/events"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/observability"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/persistence"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/repository"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/service"
)

// Container holds the wired services.
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	Registry      *prometheus.Registry
	Metrics       *observability.Metrics
	Backend       *persistence.Backend
	Repository    *repository.DocumentRepository
	Directory     *directory.Static
	Dispatcher    events.Dispatcher
	Tickets       *service.TicketService
	Settings      *service.SettingsService
	Notifications *service.NotificationService
	Escalator     *service.Escalator
}

// New opens the store and builds every service on top of it.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	backend, err := persistence.Open(ctx, cfg, logger, metrics)
	if err != nil {
		return nil, err
	}

	dir := directory.NewStatic()
	if cfg.Directory.File != "" {
		if err := dir.LoadFile(cfg.Directory.File); err != nil {
			backend.Close()
			return nil, fmt.Errorf("load directory: %w", err)
		}
	}

	repo := repository.NewDocumentRepository(backend.Store, backend.Locker, logger)
	dispatcher := events.NewInMemoryDispatcher(logger, metrics)
	calendar := service.NewBusinessCalendar(cfg.Calendar.WorkStartHour, cfg.Calendar.WorkEndHour, cfg.Calendar.WorkWeekends)

	tickets := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   repo,
		SettingsRepo: repo,
		Directory:    dir,
		Dispatcher:   dispatcher,
		Logger:       logger,
	}, service.WithAgents(cfg.Assignment.Agents), service.WithCalendar(calendar))

	return &Container{
		Config:        cfg,
		Logger:        logger,
		Registry:      reg,
		Metrics:       metrics,
		Backend:       backend,
		Repository:    repo,
		Directory:     dir,
		Dispatcher:    dispatcher,
		Tickets:       tickets,
		Settings:      service.NewSettingsService(repo, logger),
		Notifications: service.NewNotificationService(dispatcher, repo, logger, cfg.Notification),
		Escalator:     service.NewEscalator(tickets, logger),
	}, nil
}

// Close releases the store connections.
func (c *Container) Close() {
	c.Backend.Close()
}
