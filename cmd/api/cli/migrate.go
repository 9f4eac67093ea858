package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"docsearch/internal/database/migration"
)

var errDownNotConfirmed = errors.New("migrate down drops every table; pass --yes to confirm")

func newMigrateCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.config(cmd)
			return migration.EnsureMigrated(cmd.Context(), cfg.Database, g.logger(cfg))
		},
	})

	var yes bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert all migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errDownNotConfirmed
			}
			cfg := g.config(cmd)
			mg, err := migration.New(cfg.Database, g.logger(cfg))
			if err != nil {
				return err
			}
			defer mg.Close()
			return mg.Down(cmd.Context())
		},
	}
	down.Flags().BoolVar(&yes, "yes", false, "confirm reverting the schema")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.config(cmd)
			mg, err := migration.New(cfg.Database, g.logger(cfg))
			if err != nil {
				return err
			}
			defer mg.Close()

			v, dirty, ok, err := mg.Version()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				_, err = fmt.Fprintln(out, "no migrations applied")
				return err
			}
			_, err = fmt.Fprintf(out, "version %d (dirty: %t)\n", v, dirty)
			return err
		},
	})
	return cmd
}
