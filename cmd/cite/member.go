package main

import (
	"github.com/matsen/citations/internal/citation"
	"github.com/spf13/cobra"
)

var (
	memberUserID     string
	memberPrecedence int
	memberRole       string
)

func init() {
	memberAddCmd.Flags().StringVar(&memberUserID, "user-id", "", "Individual to attach (required)")
	memberAddCmd.Flags().IntVar(&memberPrecedence, "precedence", 0, "Position in the author list, lowest first")
	memberAddCmd.Flags().StringVar(&memberRole, "role", citation.RoleAuthor, "Membership role")
	memberAddCmd.MarkFlagRequired("user-id")

	memberCmd.AddCommand(memberAddCmd)
	memberCmd.AddCommand(memberRemoveCmd)
	rootCmd.AddCommand(memberCmd)
}

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage the members of a citation",
}

var memberAddCmd = &cobra.Command{
	Use:   "add <citation-id>",
	Short: "Attach an individual to a citation",
	Long: `Attach an individual to a citation, or change the role and precedence
of an existing membership.

Example:
  cite member add 12 --user-id u42 --precedence 2 --role chair`,
	Args: cobra.ExactArgs(1),
	RunE: runMemberAdd,
}

var memberRemoveCmd = &cobra.Command{
	Use:   "remove <citation-id> <user-id>",
	Short: "Detach an individual from a citation",
	Args:  cobra.ExactArgs(2),
	RunE:  runMemberRemove,
}

func runMemberAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := openSession(ctx)
	defer s.Close()

	id := citation.NormalizeID(args[0])
	m := citation.MemberPayload{UserID: memberUserID, Precedence: memberPrecedence, Role: memberRole}
	if err := s.db.AddMember(ctx, id, m); err != nil {
		exitWithErr(err)
	}

	if humanOutput {
		outputHuman("Added %s to %s as %s\n", m.UserID, id, m.Role)
	} else {
		outputJSON(messageEnvelope("updated", true, m.UserID+" added to "+id))
	}
	return nil
}

func runMemberRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := openSession(ctx)
	defer s.Close()

	id := citation.NormalizeID(args[0])
	if err := s.db.RemoveMember(ctx, id, args[1]); err != nil {
		exitWithErr(err)
	}

	if humanOutput {
		outputHuman("Removed %s from %s\n", args[1], id)
	} else {
		outputJSON(messageEnvelope("updated", true, args[1]+" removed from "+id))
	}
	return nil
}
