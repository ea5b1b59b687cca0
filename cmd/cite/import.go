package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <dump.jsonl>",
	Short: "Restore citations from a JSONL dump",
	Long: `Restore citations from a JSONL dump written by "cite export --format jsonl".

The whole dump is restored in one transaction; if any citation fails, nothing
is written. The individuals each citation references are saved first.
Restored citations receive new IDs.

Example:
  cite import backup.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResponse lists the IDs of restored citations.
type ImportResponse struct {
	IDs []string `json:"citation_ids"`
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := openSession(ctx)
	defer s.Close()

	ids, err := s.db.Restore(ctx, args[0])
	if err != nil {
		exitWithErr(err)
	}

	if humanOutput {
		outputHuman("Imported %d citation(s)\n", len(ids))
	} else {
		outputJSON(collectionEnvelope("imported", "citations", ImportResponse{IDs: ids}, len(ids)))
	}
	return nil
}
