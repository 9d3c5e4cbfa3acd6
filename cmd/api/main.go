package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Kiruthika-Mahalingam/help-desk/internal/api/http"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/api/http/handlers"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/app"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/config"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/directory"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/observability"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer c.Close()

	if cfg.Directory.File != "" && cfg.Directory.Watch {
		go func() {
			if err := directory.Watch(ctx, c.Directory, cfg.Directory.File, logger); err != nil {
				logger.Error("directory watch stopped", zap.Error(err))
			}
		}()
	}

	worker.StartNotificationWorker(c.Notifications)

	scheduler := worker.NewScheduler(logger)
	jobs := []worker.Job{
		worker.BackupJob(cfg.Scheduler.BackupSchedule, c.Repository, logger),
		worker.EscalationJob(cfg.Scheduler.EscalationSchedule, c.Escalator, c.Tickets, c.Settings, logger),
	}
	for _, job := range jobs {
		if err := scheduler.Add(ctx, job); err != nil {
			logger.Fatal("failed to schedule job", zap.Error(err))
		}
	}
	scheduler.Start()

	fiberApp := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Immutable:    true,
		ReadTimeout:  cfg.App.RequestTimeout(),
		WriteTimeout: cfg.App.RequestTimeout(),
	})
	httptransport.RegisterMiddlewares(fiberApp, logger, c.Metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(fiberApp, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, c.Backend.Checks()),
		Tickets:   handlers.NewTicketsHandler(c.Tickets),
		Employees: handlers.NewEmployeesHandler(c.Directory, c.Tickets),
		Admin:     handlers.NewAdminHandler(c.Tickets, c.Settings, c.Repository, logger),
		Gatherer:  c.Registry,
	})

	go func() {
		if err := fiberApp.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = fiberApp.Shutdown()
	scheduler.Stop()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
