package main

import (
	"github.com/matsen/citations/internal/citation"
	"github.com/spf13/cobra"
)

var individualFlags citation.Individual

var individualGetEmail string

func init() {
	f := individualAddCmd.Flags()
	f.StringVar(&individualFlags.UserID, "user-id", "", "Unique user ID (required)")
	f.StringVar(&individualFlags.Email, "email", "", "Unique email address (required)")
	f.StringVar(&individualFlags.FirstName, "first", "", "First name")
	f.StringVar(&individualFlags.LastName, "last", "", "Last name")
	f.StringVar(&individualFlags.ScopusID, "scopus-id", "", "Scopus author ID")
	f.StringVar(&individualFlags.ORCID, "orcid", "", "ORCID iD")
	individualAddCmd.MarkFlagRequired("user-id")
	individualAddCmd.MarkFlagRequired("email")

	individualGetCmd.Flags().StringVar(&individualGetEmail, "email", "", "Email to look up (required)")
	individualGetCmd.MarkFlagRequired("email")

	individualCmd.AddCommand(individualAddCmd, individualGetCmd, individualListCmd)
	rootCmd.AddCommand(individualCmd)
}

var individualCmd = &cobra.Command{
	Use:   "individual",
	Short: "Manage the individuals citations refer to",
}

var individualAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or replace an individual",
	Long: `Add an individual, or replace the one with the same user ID.

Example:
  cite individual add --user-id u42 --email jane@example.org --first Jane --last Doe`,
	Args: cobra.NoArgs,
	RunE: runIndividualAdd,
}

var individualGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Look up an individual by email",
	Args:  cobra.NoArgs,
	RunE:  runIndividualGet,
}

var individualListCmd = &cobra.Command{
	Use:   "list",
	Short: "List individuals",
	Args:  cobra.NoArgs,
	RunE:  runIndividualList,
}

func runIndividualAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := openSession(ctx)
	defer s.Close()

	if err := s.db.SaveIndividual(ctx, individualFlags); err != nil {
		exitWithErr(err)
	}

	if humanOutput {
		outputHuman("Saved %s <%s>\n", individualFlags.UserID, individualFlags.Email)
	} else {
		outputJSON(collectionEnvelope("created", "individuals", individualFlags, 1))
	}
	return nil
}

func runIndividualGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := openSession(ctx)
	defer s.Close()

	ind, err := s.db.IndividualByEmail(ctx, individualGetEmail)
	if err != nil {
		exitWithErr(err)
	}

	if humanOutput {
		printIndividualHuman(*ind)
	} else {
		outputJSON(collectionEnvelope("ok", "individuals", ind, 1))
	}
	return nil
}

func runIndividualList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := openSession(ctx)
	defer s.Close()

	all, err := s.db.ListIndividuals(ctx)
	if err != nil {
		exitWithErr(err)
	}
	if all == nil {
		all = []citation.Individual{}
	}

	if humanOutput {
		for _, ind := range all {
			printIndividualHuman(ind)
		}
	} else {
		outputJSON(collectionEnvelope("ok", "individuals", all, len(all)))
	}
	return nil
}

func printIndividualHuman(ind citation.Individual) {
	outputHuman("%s  %s %s <%s>", ind.UserID, ind.FirstName, ind.LastName, ind.Email)
	if ind.ORCID != "" {
		outputHuman("  orcid:%s", ind.ORCID)
	}
	outputHuman("\n")
}
