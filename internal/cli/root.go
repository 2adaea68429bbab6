// Package cli implements the retain CLI commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/retainhq/retain/internal/store"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "retain",
	Short: "Persistent context memory for AI coding assistants",
	Long:  "Retain keeps memories, artifacts, and an error journal for an assistant session in a single SQLite file, with full-text recall and mode-aware context compilation.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: $RETAIN_DB or ~/.retain/retain.db)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(recallCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(artifactCmd)
	rootCmd.AddCommand(errorsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(modeCmd)
	rootCmd.AddCommand(contextCmd)
}

// resolveDBPath applies the flag, env, default precedence.
func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if env := os.Getenv("RETAIN_DB"); env != "" {
		return env, nil
	}
	return store.DefaultDBPath()
}

// openStore opens the database for a one-shot command.
func openStore() (*store.DB, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}
