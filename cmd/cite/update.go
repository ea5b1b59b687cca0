package main

import (
	"github.com/matsen/citations/internal/citation"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update <id> <payload.json|->",
	Short: "Apply a partial update to a citation",
	Long: `Apply a partial update to a citation.

Only fields present in the payload are written. A document, publisher or
collection that does not exist yet is created with just the given fields.
Members are not changed; use "cite member" for that.

Example:
  echo '{"document":{"doi":"10.1000/xyz"}}' | cite update 12 -`,
	Args: cobra.ExactArgs(2),
	RunE: runUpdate,
}

// UpdateResponse reports the rows written by an update.
type UpdateResponse struct {
	ID   string `json:"citation_id"`
	Rows int64  `json:"rows_affected"`
}

func runUpdate(cmd *cobra.Command, args []string) error {
	var payload citation.UpdatePayload
	if err := readPayload(args[1], &payload); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	ctx := cmd.Context()
	s := openSession(ctx)
	defer s.Close()

	id := citation.NormalizeID(args[0])
	rows, err := s.db.Update(ctx, id, payload)
	if err != nil {
		exitWithErr(err)
	}

	if humanOutput {
		outputHuman("Updated %s (%d rows)\n", id, rows)
	} else {
		outputJSON(collectionEnvelope("updated", "citations", UpdateResponse{ID: id, Rows: rows}, 1))
	}
	return nil
}
