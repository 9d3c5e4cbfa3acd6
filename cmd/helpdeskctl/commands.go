package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/app"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/config"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/observability"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/persistence"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/report"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/repository"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/service"
)

var version = "dev"

// cli carries the container shared by subcommands.
type cli struct {
	out       io.Writer
	container *app.Container
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "helpdeskctl",
		Short:         "Help desk store maintenance",
		Long:          "helpdeskctl backs up, restores, inspects and exports the help desk ticket store\nconfigured through the same environment as the API server.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		c.withContainer(&cobra.Command{
			Use:   "backup",
			Short: "Write a timestamped copy of the ticket document",
			Args:  cobra.NoArgs,
			RunE:  c.runBackup,
		}),
		c.withContainer(&cobra.Command{
			Use:   "restore <backup>",
			Short: "Replace the ticket document with a backup",
			Args:  cobra.ExactArgs(1),
			RunE:  c.runRestore,
		}),
		c.withContainer(&cobra.Command{
			Use:   "stats",
			Short: "Print store and ticket statistics as JSON",
			Args:  cobra.NoArgs,
			RunE:  c.runStats,
		}),
		c.withContainer(newExportCmd(c)),
		c.withContainer(newResetCmd(c)),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(c.out, "helpdeskctl %s\n", root.Version)
			},
		},
	)
	return root
}

// withContainer opens the store before cmd runs and closes it afterwards.
func (c *cli) withContainer(cmd *cobra.Command) *cobra.Command {
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg.Logger.Level = "warn"
		logger, err := observability.NewLogger(cfg.App, cfg.Logger)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		c.container, err = app.New(cmd.Context(), cfg, logger)
		return err
	}
	cmd.PostRun = func(*cobra.Command, []string) {
		if c.container != nil {
			_ = c.container.Logger.Sync()
			c.container.Close()
		}
	}
	return cmd
}

func (c *cli) store() repository.MaintenanceRepository {
	return c.container.Repository
}

func (c *cli) runBackup(cmd *cobra.Command, _ []string) error {
	name, err := c.store().Backup(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "backup written: %s\n", name)
	return nil
}

func (c *cli) runRestore(cmd *cobra.Command, args []string) error {
	if err := c.store().Restore(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "restored from %s\n", args[0])
	return nil
}

func (c *cli) runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	storeStats, err := c.store().Statistics(ctx)
	if err != nil {
		return err
	}
	ticketStats, err := c.container.Tickets.Statistics(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Store   persistence.Statistics   `json:"store"`
		Tickets service.TicketStatistics `json:"tickets"`
	}{storeStats, ticketStats})
}

func newExportCmd(c *cli) *cobra.Command {
	var out, department string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an Excel report of all tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := c.container.Tickets.GenerateReport(cmd.Context(), service.ReportRequest{Department: department})
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := report.WriteXLSX(f, r); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "exported %d tickets to %s\n", len(r.Tickets), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "helpdesk_report.xlsx", "Output workbook path")
	cmd.Flags().StringVar(&department, "department", "", "Only include tickets from this department")
	return cmd
}

func newResetCmd(c *cli) *cobra.Command {
	var force, seed bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove every ticket, keeping default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return errors.New("reset discards all tickets; pass --force to confirm")
			}
			ctx := cmd.Context()
			if seed {
				if err := c.store().Replace(ctx, persistence.DefaultDocument()); err != nil {
					return err
				}
				fmt.Fprintln(c.out, "store reset to sample data")
				return nil
			}
			if err := c.store().Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "store cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Confirm discarding all tickets")
	cmd.Flags().BoolVar(&seed, "seed", false, "Write the sample tickets instead of an empty list")
	return cmd
}
