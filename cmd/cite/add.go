package main

import (
	"github.com/matsen/citations/internal/citation"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <payload.json|->",
	Short: "Create a citation from a JSON payload",
	Long: `Create a citation from a JSON payload file, or stdin with "-".

The payload carries type, metadata (title required), published_metadata
(date required), members (at least one user_id) and optional document,
publisher and collection objects. Members are attached as authors.

Example:
  cite add paper.json
  cat paper.json | cite add -`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	var payload citation.CreatePayload
	if err := readPayload(args[0], &payload); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	ctx := cmd.Context()
	s := openSession(ctx)
	defer s.Close()

	id, err := s.db.Create(ctx, payload)
	if err != nil {
		exitWithErr(err)
	}

	c, err := s.db.Get(ctx, id)
	if err != nil {
		exitWithErr(err)
	}
	view := newCitationView(s.style, c)

	if humanOutput {
		outputHuman("Created %s\n", id)
		printCitationHuman(view)
	} else {
		outputJSON(collectionEnvelope("created", c.Kind.Plural(), view, 1))
	}
	return nil
}
