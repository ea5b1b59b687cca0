package main

import (
	"os"

	"github.com/matsen/citations/internal/config"
	"github.com/matsen/citations/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new citations repository",
	Long: `Initialize a new citations repository in the current directory.

Creates:
  .citations/
  ├── config.yml      # Default config
  └── cache/
      └── citations.db  # SQLite store (gitignored)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root := getRepoRoot()

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a citations repository")
	}

	if err := config.Init(root); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	db, err := storage.OpenDB(config.DBPath(root), nil)
	if err != nil {
		os.RemoveAll(config.CitationsPath(root))
		exitWithError(ExitError, "creating database: %v", err)
	}
	db.Close()

	if humanOutput {
		outputHuman("Initialized citations repository in %s\n", root)
	} else {
		outputJSON(messageEnvelope("initialized", true, root))
	}
	return nil
}
