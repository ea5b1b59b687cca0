package main

import (
	"strings"

	"github.com/matsen/citations/internal/citation"
	"github.com/spf13/cobra"
)

var (
	deleteID        string
	deleteEmail     string
	deleteCitations string
)

func init() {
	deleteCmd.Flags().StringVar(&deleteID, "id", "", "Delete the citation with this ID")
	deleteCmd.Flags().StringVar(&deleteEmail, "email", "", "Delete every citation the individual with this email is a member of")
	deleteCmd.Flags().StringVar(&deleteCitations, "citations", "", "Delete the listed citation IDs (comma-separated)")
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete citations and all of their records",
	Long: `Delete citations together with their metadata, documents, publishers,
collections and memberships, in one transaction.

Exactly one of --id, --email or --citations must be given.

Examples:
  cite delete --id 12
  cite delete --email jane@example.org
  cite delete --citations 3,4,citations:9`,
	Args: cobra.NoArgs,
	RunE: runDelete,
}

// DeleteResponse reports how many citations were removed.
type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

func runDelete(cmd *cobra.Command, args []string) error {
	sel := citation.DeleteSelector{
		ID:        deleteID,
		Email:     deleteEmail,
		Citations: splitList(deleteCitations),
	}
	if err := sel.Validate(); err != nil {
		exitWithErr(err)
	}

	ctx := cmd.Context()
	s := openSession(ctx)
	defer s.Close()

	n, err := s.db.Delete(ctx, sel)
	if err != nil {
		exitWithErr(err)
	}

	if humanOutput {
		outputHuman("Deleted %d citation(s)\n", n)
	} else {
		outputJSON(collectionEnvelope("deleted", "citations", DeleteResponse{Deleted: n}, int(n)))
	}
	return nil
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
