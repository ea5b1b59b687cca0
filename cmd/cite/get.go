package main

import (
	"github.com/matsen/citations/internal/clipboard"
	"github.com/spf13/cobra"
)

var getCopy bool

func init() {
	getCmd.Flags().BoolVar(&getCopy, "copy", false, "Copy the formatted citation to the clipboard")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a single citation by ID",
	Long: `Get a single citation by its ID, with its formatted string.

The "citations:" prefix is optional.

Example:
  cite get 12
  cite get citations:12
  cite get 12 --copy --human`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	if getCopy && !clipboard.IsAvailable() {
		exitWithError(ExitError, "--copy needs a clipboard command (pbcopy, wl-copy, xclip, xsel or clip)")
	}

	ctx := cmd.Context()
	s := openSession(ctx)
	defer s.Close()

	c, err := s.db.Get(ctx, args[0])
	if err != nil {
		exitWithErr(err)
	}
	view := newCitationView(s.style, c)

	if getCopy {
		if view.Formatted == "" {
			exitWithError(ExitDataError, "%s cannot be formatted", c.ID)
		}
		if err := clipboard.Copy(ctx, view.Formatted); err != nil {
			exitWithError(ExitError, "copying to clipboard: %v", err)
		}
		s.log.Debug("copied citation", "citation_id", c.ID)
	}

	if humanOutput {
		printCitationHuman(view)
		for _, m := range c.Members {
			outputHuman("  - %s %s <%s> (%s, %d)\n", m.FirstName, m.LastName, m.Email, m.Role, m.Precedence)
		}
	} else {
		outputJSON(collectionEnvelope("ok", c.Kind.Plural(), view, 1))
	}
	return nil
}
