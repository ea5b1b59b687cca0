// Package main provides the cite CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	// A .env in the working directory may carry CITE_* settings.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		exitWithError(ExitError, "%v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cite",
	Short: "Agent-first citation store with IEEE formatting",
	Long: `cite manages bibliographic citations and renders them in IEEE style.

Citations live in a relational store (SQLite by default, Postgres optionally)
under .citations/. All commands output JSON by default for easy integration
with agents and other tools; pass --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// getRepoRoot returns the directory to start repository discovery from.
func getRepoRoot() string {
	if root := os.Getenv("CITE_ROOT"); root != "" {
		return root
	}
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	return cwd
}
