package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cexll/trk/internal/mirror"
	"github.com/cexll/trk/internal/thread"
	"github.com/cexll/trk/internal/tracker"
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "Read issues and their comment threads",
}

var issuesGetCmd = &cobra.Command{
	Use:   "get [issue]",
	Short: "Show an issue with its comment threads",
	Long: `Show an issue. Comment threads are embedded below the issue header,
truncated to the configured default breadth.

Example:
  trk issues get ENG-123
  trk issues get ENG-123 --no-comments`,
	Args: cobra.ExactArgs(1),
	RunE: getIssue,
}

var issuesCommentsCmd = &cobra.Command{
	Use:   "comments [issue]",
	Short: "List the comment threads on an issue",
	Long: `List the comment threads on an issue as an ordered tree. Resolved
top-level threads are collapsed to a one-line summary.

Example:
  trk issues comments ENG-123
  trk issues comments ENG-123 --limit 0`,
	Args: cobra.ExactArgs(1),
	RunE: listComments,
}

var commentsAddCmd = &cobra.Command{
	Use:   "add [issue] [body]",
	Short: "Add a comment to an issue",
	Long: `Add a comment to an issue. Without a body argument the body is
read from stdin. --reply-to takes a comment ID, or "last" for the
newest top-level thread.

Example:
  trk issues comments add ENG-123 "On it"
  git diff --stat | trk issues comments add ENG-123 --reply-to last`,
	Args: cobra.RangeArgs(1, 2),
	RunE: addComment,
}

var issuesMirrorCmd = &cobra.Command{
	Use:   "mirror [issue] [owner/repo#number]",
	Short: "Mirror an issue's comment threads to a GitHub issue",
	Long: `Post a markdown snapshot of an issue's comment threads as a new
comment on a GitHub issue. Requires GITHUB_TOKEN.

Example:
  trk issues mirror ENG-123 acme/api#42`,
	Args: cobra.ExactArgs(2),
	RunE: mirrorIssue,
}

func init() {
	rootCmd.AddCommand(issuesCmd)
	issuesCmd.AddCommand(issuesGetCmd)
	issuesCmd.AddCommand(issuesCommentsCmd)
	issuesCommentsCmd.AddCommand(commentsAddCmd)
	issuesCmd.AddCommand(issuesMirrorCmd)

	issuesGetCmd.Flags().Bool("no-comments", false, "Skip the embedded comment threads")
	issuesGetCmd.Flags().Int("limit", -1, "Max top-level threads to embed (0 = all)")
	issuesCommentsCmd.Flags().Int("limit", 0, "Max top-level threads to show (0 = all)")
	commentsAddCmd.Flags().String("reply-to", "", `Comment ID to reply to, or "last"`)
}

func getIssue(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, cfg, err := newBackend()
	if err != nil {
		return err
	}

	issue, err := client.GetIssue(ctx, args[0])
	if err != nil {
		return err
	}

	noComments, _ := cmd.Flags().GetBool("no-comments")
	if noComments {
		return renderOpts(cmd).Issue(os.Stdout, issue)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		limit = cfg.EmbeddedCommentLimit
	}
	return printThreads(ctx, cmd, client, issue, limit, true)
}

func listComments(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, _, err := newBackend()
	if err != nil {
		return err
	}

	issue, err := client.GetIssue(ctx, args[0])
	if err != nil {
		return err
	}

	// Listing shows everything unless the caller asks for less; only the
	// embedded issue view has a default breadth.
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		limit = 0
	}
	return printThreads(ctx, cmd, client, issue, limit, false)
}

func addComment(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, _, err := newBackend()
	if err != nil {
		return err
	}

	issue, err := client.GetIssue(ctx, args[0])
	if err != nil {
		return err
	}

	body := ""
	if len(args) > 1 {
		body = args[1]
	}
	replyTo, _ := cmd.Flags().GetString("reply-to")

	coord := newCoordinator(client)
	res, err := coord.Add(ctx, issue.ID, body, replyTo)
	if err != nil {
		return err
	}
	return renderOpts(cmd).Mutation(os.Stdout, res, "")
}

func mirrorIssue(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, cfg, err := newBackend()
	if err != nil {
		return err
	}
	if cfg.GitHubToken == "" {
		return fmt.Errorf("GITHUB_TOKEN is required for mirroring")
	}

	target, err := mirror.ParseTarget(args[1])
	if err != nil {
		return err
	}

	issue, err := client.GetIssue(ctx, args[0])
	if err != nil {
		return err
	}
	records, err := client.ListComments(ctx, issue.ID)
	if err != nil {
		return err
	}
	view := thread.Truncate(thread.Build(records), 0)

	url, err := mirror.New(cfg.GitHubToken).Post(ctx, target, issue, view, len(records))
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	if quiet {
		fmt.Println(url)
	} else {
		fmt.Printf("Mirrored %s to %s\n%s\n", issue.Identifier, args[1], url)
	}
	return nil
}

// printThreads fetches, builds and renders the comment tree for an
// issue. embedded selects the issues-get payload shape.
func printThreads(ctx context.Context, cmd *cobra.Command, client *tracker.Client, issue *tracker.Issue, limit int, embedded bool) error {
	records, err := client.ListComments(ctx, issue.ID)
	if err != nil {
		return err
	}
	view := thread.Truncate(thread.Build(records), limit)
	opts := renderOpts(cmd)
	if embedded {
		return opts.IssueWithThreads(os.Stdout, issue, view, len(records))
	}
	return opts.List(os.Stdout, issue, view, len(records))
}
