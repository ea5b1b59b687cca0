package main

import (
	"github.com/matsen/citations/internal/citation"
	"github.com/spf13/cobra"
)

var (
	listType  string
	listEmail string
)

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "Only citations of this type (article, book, chapter, thesis)")
	listCmd.Flags().StringVar(&listEmail, "email", "", "Only citations the individual with this email is a member of")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List citations",
	Long: `List citations in creation order, each with its formatted string.

Examples:
  cite list
  cite list --type articles
  cite list --email jane@example.org --human`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	filter, collection := listFilter(listType, listEmail)

	ctx := cmd.Context()
	s := openSession(ctx)
	defer s.Close()

	cits, err := s.db.List(ctx, filter)
	if err != nil {
		exitWithErr(err)
	}
	views := newCitationViews(s.style, cits)

	if humanOutput {
		if len(views) == 0 {
			outputHuman("No citations found\n")
		}
		for _, v := range views {
			printCitationHuman(v)
		}
	} else {
		outputJSON(collectionEnvelope("ok", collection, views, len(views)))
	}
	return nil
}

// listFilter builds the store filter from flag values and names the
// collection the results belong to. Exits on an unknown type.
func listFilter(kind, email string) (citation.ListFilter, string) {
	filter := citation.ListFilter{Email: email}
	collection := "citations"
	if kind != "" {
		k, err := citation.ParseKind(kind)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		filter.Kind = k
		collection = k.Plural()
	}
	return filter, collection
}
