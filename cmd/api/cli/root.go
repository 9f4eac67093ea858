// Package cli holds the cobra commands of the docsearch binary.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"docsearch/internal/config"
	"docsearch/internal/logger"
)

// VersionInfo is stamped into the binary at build time.
type VersionInfo struct {
	Version string
	Commit  string
}

// globals are the persistent flags shared by every subcommand.
type globals struct {
	logLevel string
	info     VersionInfo
}

// config loads the environment configuration and applies flag overrides.
func (g *globals) config(cmd *cobra.Command) *config.AppConfig {
	cfg := config.Load()
	if f := cmd.Flag("log-level"); f != nil && f.Changed {
		cfg.Log.Level = g.logLevel
	}
	return cfg
}

func (g *globals) logger(cfg *config.AppConfig) *slog.Logger {
	l := logger.New(cfg.Log)
	slog.SetDefault(l)
	return l
}

// NewRootCommand returns the docsearch command tree. Without a subcommand
// it starts the HTTP server.
func NewRootCommand(info VersionInfo) *cobra.Command {
	g := &globals{info: info}

	cmd := &cobra.Command{
		Use:           "docsearch",
		Short:         "Document upload, text extraction and search service",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, g)
		},
	}

	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)

	cmd.AddCommand(newServeCommand(g))
	cmd.AddCommand(newMigrateCommand(g))
	cmd.AddCommand(newExtractCommand(g))
	cmd.AddCommand(newReindexCommand(g))
	cmd.AddCommand(newVersionCommand(g))
	return cmd
}

func newVersionCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "docsearch %s (commit %s)\n", g.info.Version, g.info.Commit)
			return err
		},
	}
}
