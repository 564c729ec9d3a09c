package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/cexll/trk/internal/thread"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Mutate a single comment",
}

var commentEditCmd = &cobra.Command{
	Use:   "edit [comment-id] [body]",
	Short: "Replace a comment's body",
	Long: `Replace a comment's body. Without a body argument the new body is
read from stdin. Submitting the unchanged body is a no-op, not an
error.

Example:
  trk issues comment edit cmt_abc123 "Fixed in 4b2c9d1"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: editComment,
}

var commentResolveCmd = &cobra.Command{
	Use:   "resolve [comment-id]",
	Short: "Mark a comment's thread as resolved",
	Args:  cobra.ExactArgs(1),
	RunE:  resolveComment,
}

var commentUnresolveCmd = &cobra.Command{
	Use:   "unresolve [comment-id]",
	Short: "Clear a thread's resolved mark",
	Args:  cobra.ExactArgs(1),
	RunE:  unresolveComment,
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete [comment-id]",
	Short: "Delete a comment",
	Long: `Delete a comment. Asks for confirmation on a terminal; pass --yes
to skip the prompt. Replies to the comment are not deleted.

Example:
  trk issues comment delete cmt_abc123 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: deleteComment,
}

func init() {
	issuesCmd.AddCommand(commentCmd)
	commentCmd.AddCommand(commentEditCmd)
	commentCmd.AddCommand(commentResolveCmd)
	commentCmd.AddCommand(commentUnresolveCmd)
	commentCmd.AddCommand(commentDeleteCmd)

	commentDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without confirmation")
}

func editComment(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, _, err := newBackend()
	if err != nil {
		return err
	}

	body := ""
	if len(args) > 1 {
		body = args[1]
	}
	res, err := newCoordinator(client).Edit(ctx, args[0], body)
	if err != nil {
		return err
	}
	return renderOpts(cmd).Mutation(os.Stdout, res, args[0])
}

func resolveComment(cmd *cobra.Command, args []string) error {
	return setResolved(cmd, args[0], true)
}

func unresolveComment(cmd *cobra.Command, args []string) error {
	return setResolved(cmd, args[0], false)
}

func setResolved(cmd *cobra.Command, commentID string, resolved bool) error {
	ctx := context.Background()
	client, _, err := newBackend()
	if err != nil {
		return err
	}

	coord := newCoordinator(client)
	var res *thread.Result
	if resolved {
		res, err = coord.Resolve(ctx, commentID)
	} else {
		res, err = coord.Unresolve(ctx, commentID)
	}
	if err != nil {
		return err
	}
	return renderOpts(cmd).Mutation(os.Stdout, res, commentID)
}

func deleteComment(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, _, err := newBackend()
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	res, err := newCoordinator(client).Delete(ctx, args[0], yes)
	if err != nil {
		return err
	}
	return renderOpts(cmd).Mutation(os.Stdout, res, args[0])
}
