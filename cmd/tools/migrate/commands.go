// cmd/tools/migrate/commands.go
package main

import (
	"context"
	"fmt"
	"time"

	"livest/internal/common/database"

	"github.com/spf13/cobra"
)

type migrator interface {
	Migrate(ctx context.Context) ([]string, error)
	MigrationStatus(ctx context.Context) ([]database.MigrationState, error)
}

type openFunc func(ctx context.Context, configPath string) (migrator, func() error, error)

func newRootCmd(open openFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply and inspect the Livest database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "path to a config file (default: configs/config.yaml)")

	root.AddCommand(upCmd(open), statusCmd(open))
	return root
}

func withMigrator(cmd *cobra.Command, open openFunc, fn func(ctx context.Context, m migrator) error) error {
	configPath, _ := cmd.Flags().GetString("config")
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	m, closeFn, err := open(ctx, configPath)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, m)
}

func upCmd(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			out := cmd.OutOrStdout()

			return withMigrator(cmd, open, func(ctx context.Context, m migrator) error {
				if dryRun {
					states, err := m.MigrationStatus(ctx)
					if err != nil {
						return err
					}
					var pending []string
					for _, s := range states {
						if s.AppliedAt == nil {
							pending = append(pending, s.Version)
						}
					}
					if len(pending) == 0 {
						fmt.Fprintln(out, "No pending migrations.")
						return nil
					}
					fmt.Fprintln(out, "Pending migrations:")
					for _, v := range pending {
						fmt.Fprintf(out, "- %s\n", v)
					}
					return nil
				}

				applied, err := m.Migrate(ctx)
				for _, v := range applied {
					fmt.Fprintf(out, "Applied migration: %s\n", v)
				}
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(out, "No pending migrations.")
				}
				return nil
			})
		},
	}
	cmd.Flags().Bool("dry-run", false, "list pending migrations without applying them")
	return cmd
}

func statusCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show status of all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withMigrator(cmd, open, func(ctx context.Context, m migrator) error {
				states, err := m.MigrationStatus(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-24s  %-8s  %s\n", "Version", "Status", "Applied At")
				for _, s := range states {
					status, at := "Pending", "-"
					if s.AppliedAt != nil {
						status, at = "Applied", s.AppliedAt.UTC().Format(time.RFC3339)
					}
					fmt.Fprintf(out, "%-24s  %-8s  %s\n", s.Version, status, at)
				}
				return nil
			})
		},
	}
}
