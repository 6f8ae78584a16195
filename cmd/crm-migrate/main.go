package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/tuanvumaihuynh/graphql-crm/internal/config"
	"github.com/tuanvumaihuynh/graphql-crm/internal/log"
	"github.com/tuanvumaihuynh/graphql-crm/internal/storage/db"
)

var (
	logger   *slog.Logger
	pgxPool  *pgxpool.Pool
	migrator *db.Migrator
)

func main() {
	time.Local = time.UTC

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Printf("error running migrate application: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "crm-migrate",
	Short: "Manage the CRM database schema",
	Long: `crm-migrate applies, rolls back and lists the embedded schema migrations.
Connection settings are read from the POSTGRES_* environment variables.
Without a subcommand every pending migration is applied.`,
	SilenceUsage:       true,
	PersistentPreRunE:  connect,
	PersistentPostRunE: disconnect,
	RunE:               runUp,
}

func init() {
	rootCmd.AddCommand(upCmd, downCmd, statusCmd)
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE:  runUp,
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := migrator.Down(cmd.Context()); err != nil {
			return fmt.Errorf("error rolling back migration: %w", err)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		statuses, err := migrator.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("error reading migration status: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tSTATE\tAPPLIED AT\tFILE")
		for _, s := range statuses {
			appliedAt := "-"
			if !s.AppliedAt.IsZero() {
				appliedAt = s.AppliedAt.Format(time.RFC3339)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, appliedAt, s.Source.Path)
		}
		return w.Flush()
	},
}

func runUp(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	logger.InfoContext(ctx, "starting database migration")

	if err := migrator.Up(ctx); err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}

	logger.InfoContext(ctx, "database migration completed successfully")
	return nil
}

func connect(cmd *cobra.Command, _ []string) error {
	type Config struct {
		Log      config.Log
		Postgres config.Postgres
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger = log.NewSlogLogger(cfg.Log)

	pgxPool, err = db.NewPgxPool(cmd.Context(), cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}

	migrator, err = db.NewMigrator(pgxPool, logger)
	if err != nil {
		pgxPool.Close()
		return fmt.Errorf("error creating migrator: %w", err)
	}

	return nil
}

func disconnect(*cobra.Command, []string) error {
	if err := migrator.Close(); err != nil {
		logger.Warn("error closing migrator", slog.Any("error", err))
	}
	pgxPool.Close()
	return nil
}
