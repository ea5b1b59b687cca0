package main

import (
	"github.com/matsen/citations/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after layering config.yml, .citations/.env and
CITE_* environment variables.

Keys:
  database.driver  sqlite or postgres        (CITE_DB_DRIVER)
  database.dsn     database file or URL      (CITE_DB_DSN)
  log.mode         dev, debug or prod        (CITE_LOG_MODE)
  style            citation style, ieee      (CITE_STYLE)`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	Root   string `json:"root"`
	Driver string `json:"database_driver"`
	DSN    string `json:"database_dsn"`
	Log    string `json:"log_mode"`
	Style  string `json:"style"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	repoRoot, err := config.FindRepository(getRepoRoot())
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	resp := ConfigResponse{
		Root:   repoRoot,
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Log:    cfg.Log.Mode,
		Style:  cfg.Style,
	}
	if humanOutput {
		outputHuman("root:            %s\n", resp.Root)
		outputHuman("database.driver: %s\n", resp.Driver)
		outputHuman("database.dsn:    %s\n", resp.DSN)
		outputHuman("log.mode:        %s\n", resp.Log)
		outputHuman("style:           %s\n", resp.Style)
	} else {
		outputJSON(collectionEnvelope("ok", "config", resp, 1))
	}
	return nil
}
