// Package mirror posts snapshots of tracker comment threads to GitHub
// issues, so discussions stay visible to people who live in the repo.
package mirror

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/cexll/trk/internal/thread"
	"github.com/cexll/trk/internal/tracker"
)

// Target identifies the GitHub issue receiving the snapshot.
type Target struct {
	Owner  string
	Repo   string
	Number int
}

// ParseTarget parses the "owner/repo#number" form.
func ParseTarget(s string) (Target, error) {
	repoPart, numPart, ok := strings.Cut(s, "#")
	if !ok {
		return Target{}, fmt.Errorf("invalid target %q, expected owner/repo#number", s)
	}
	owner, repo, ok := strings.Cut(repoPart, "/")
	if !ok || owner == "" || repo == "" {
		return Target{}, fmt.Errorf("invalid target %q, expected owner/repo#number", s)
	}
	number, err := strconv.Atoi(numPart)
	if err != nil || number <= 0 {
		return Target{}, fmt.Errorf("invalid issue number in target %q", s)
	}
	return Target{Owner: owner, Repo: repo, Number: number}, nil
}

// Mirror posts thread snapshots through the GitHub API.
type Mirror struct {
	client *github.Client
}

// New creates a mirror authenticated with a personal access token.
func New(token string) *Mirror {
	return &Mirror{client: github.NewClient(nil).WithAuthToken(token)}
}

// NewWithClient creates a mirror around an existing GitHub client.
func NewWithClient(client *github.Client) *Mirror {
	return &Mirror{client: client}
}

// Post renders the snapshot and creates it as a comment on the target
// issue. Returns the created comment's HTML URL.
func (m *Mirror) Post(ctx context.Context, target Target, issue *tracker.Issue, view *thread.View, totalCount int) (string, error) {
	body := Markdown(issue, view, totalCount)
	comment, _, err := m.client.Issues.CreateComment(ctx, target.Owner, target.Repo, target.Number, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create mirror comment: %w", err)
	}
	return comment.GetHTMLURL(), nil
}

// Markdown renders the thread snapshot as a GitHub comment body.
func Markdown(issue *tracker.Issue, view *thread.View, totalCount int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "### %s: %s\n\n", issue.Identifier, issue.Title)
	if issue.URL != "" {
		fmt.Fprintf(&b, "Mirrored from %s (%d comments)\n\n", issue.URL, totalCount)
	} else {
		fmt.Fprintf(&b, "Mirrored thread snapshot (%d comments)\n\n", totalCount)
	}

	if totalCount == 0 {
		b.WriteString("_No comments._\n")
		return b.String()
	}

	for _, tv := range view.Threads {
		if tv.Collapsed {
			fmt.Fprintf(&b, "- ~~%s~~ resolved by **%s**", tv.Preview, tv.Root.ResolvingUser)
			if tv.ReplyCount > 0 {
				fmt.Fprintf(&b, " (%d replies hidden)", tv.ReplyCount)
			}
			b.WriteString("\n")
			continue
		}
		writeNode(&b, tv.Root, 0)
	}
	if view.OmittedCount > 0 {
		fmt.Fprintf(&b, "\n_+%d more threads not shown._\n", view.OmittedCount)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *thread.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	body := strings.ReplaceAll(strings.TrimSpace(n.Body), "\n", " ")
	fmt.Fprintf(b, "%s- **%s** (%s): %s\n", indent, n.Author, n.CreatedAt.UTC().Format("2006-01-02 15:04"), body)
	for _, c := range n.Children {
		writeNode(b, c, depth+1)
	}
}
