// Package render turns engine output into human text or JSON. It never
// changes an operation's classification; it only decides how each case
// is shown.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cexll/trk/internal/thread"
	"github.com/cexll/trk/internal/tracker"
)

// Options are the presentation switches shared by all commands.
type Options struct {
	JSON  bool
	Quiet bool
}

// Node is the JSON identity of one tree node.
type Node struct {
	ID            string  `json:"id"`
	Body          string  `json:"body"`
	CreatedAt     string  `json:"createdAt"`
	URL           string  `json:"url"`
	User          string  `json:"user"`
	ParentID      *string `json:"parentId"`
	ResolvingUser *string `json:"resolvingUser"`
	Children      []Node  `json:"children"`
}

// NewNode converts an engine node, children included.
func NewNode(n *thread.Node) Node {
	out := Node{
		ID:            n.ID,
		Body:          n.Body,
		CreatedAt:     n.CreatedAt.UTC().Format(time.RFC3339),
		URL:           n.URL,
		User:          n.Author,
		ParentID:      optional(n.ParentID),
		ResolvingUser: optional(n.ResolvingUser),
		Children:      []Node{},
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, NewNode(c))
	}
	return out
}

// ListResult is the JSON payload of the list command and the HTTP surface.
type ListResult struct {
	Issue      *tracker.Issue `json:"issue"`
	Comments   []Node         `json:"comments"`
	TotalCount int            `json:"totalCount"`
}

// NewListResult assembles the list payload from a truncated view.
// totalCount is the full flat record count, before truncation.
func NewListResult(issue *tracker.Issue, view *thread.View, totalCount int) *ListResult {
	return &ListResult{Issue: issue, Comments: viewNodes(view), TotalCount: totalCount}
}

// IssueResult is the JSON payload of the embedded issue view: the issue
// fields themselves plus its truncated threads. Unlike the standalone
// list payload, the count here is named totalComments.
type IssueResult struct {
	*tracker.Issue
	Comments      []Node `json:"comments"`
	TotalComments int    `json:"totalComments"`
}

// NewIssueResult assembles the embedded issue payload.
func NewIssueResult(issue *tracker.Issue, view *thread.View, totalCount int) *IssueResult {
	return &IssueResult{Issue: issue, Comments: viewNodes(view), TotalComments: totalCount}
}

func viewNodes(view *thread.View) []Node {
	out := []Node{}
	for _, tv := range view.Threads {
		out = append(out, NewNode(tv.Root))
	}
	return out
}

// IssueWithThreads renders the embedded issue view. The text form is
// shared with List; only the JSON payload differs.
func (o Options) IssueWithThreads(w io.Writer, issue *tracker.Issue, view *thread.View, totalCount int) error {
	if o.JSON {
		return writeJSON(w, NewIssueResult(issue, view, totalCount))
	}
	return o.List(w, issue, view, totalCount)
}

// Issue renders an issue header without its threads.
func (o Options) Issue(w io.Writer, issue *tracker.Issue) error {
	if o.JSON {
		return writeJSON(w, issue)
	}
	fmt.Fprintf(w, "%s — %s\n", issue.Identifier, issue.Title)
	if issue.URL != "" {
		fmt.Fprintln(w, issue.URL)
	}
	return nil
}

// List renders the thread listing for one issue.
func (o Options) List(w io.Writer, issue *tracker.Issue, view *thread.View, totalCount int) error {
	if o.JSON {
		return writeJSON(w, NewListResult(issue, view, totalCount))
	}

	fmt.Fprintf(w, "%s — %s (%d comments)\n", issue.Identifier, issue.Title, totalCount)
	if totalCount == 0 {
		fmt.Fprintln(w, "No comments.")
		return nil
	}
	for _, tv := range view.Threads {
		fmt.Fprintln(w)
		if tv.Collapsed {
			fmt.Fprintf(w, "[resolved by %s] %s", tv.Root.ResolvingUser, tv.Preview)
			if tv.ReplyCount > 0 {
				fmt.Fprintf(w, " (%d replies hidden)", tv.ReplyCount)
			}
			fmt.Fprintln(w)
			continue
		}
		writeNode(w, tv.Root, 0)
	}
	if view.OmittedCount > 0 {
		fmt.Fprintf(w, "\n(+%d more threads, use --limit 0 to see all)\n", view.OmittedCount)
	}
	return nil
}

func writeNode(w io.Writer, n *thread.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s (%s) %s\n", indent, n.Author, n.CreatedAt.UTC().Format("2006-01-02 15:04"), n.ID)
	for _, line := range strings.Split(n.Body, "\n") {
		fmt.Fprintf(w, "%s  %s\n", indent, line)
	}
	for _, c := range n.Children {
		writeNode(w, c, depth+1)
	}
}

// commentJSON is the payload of add and edit. Unchanged marks the no-op
// edit so structured callers can tell it from an update.
type commentJSON struct {
	ID            string  `json:"id"`
	Body          string  `json:"body"`
	CreatedAt     string  `json:"createdAt"`
	URL           string  `json:"url"`
	User          string  `json:"user"`
	ParentID      *string `json:"parentId"`
	Unchanged     bool    `json:"unchanged,omitempty"`
	ResolvingUser *string `json:"resolvingUser"`
}

// resolutionJSON is the payload of resolve and unresolve.
type resolutionJSON struct {
	ID            string  `json:"id"`
	ResolvingUser *string `json:"resolvingUser"`
	URL           string  `json:"url"`
	Unchanged     bool    `json:"unchanged,omitempty"`
}

// deletionJSON is the payload of delete.
type deletionJSON struct {
	Success   bool   `json:"success"`
	Deleted   string `json:"deleted,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
}

// Mutation renders a coordinator result. commentID is the operation's
// subject; it covers outcomes that carry no record (deleted, cancelled).
func (o Options) Mutation(w io.Writer, res *thread.Result, commentID string) error {
	if o.JSON {
		return writeJSON(w, mutationPayload(res, commentID))
	}

	switch res.Outcome {
	case thread.OutcomeAdded:
		o.printChanged(w, "Added comment %s\n", res.Comment)
	case thread.OutcomeUpdated:
		o.printChanged(w, "Updated comment %s\n", res.Comment)
	case thread.OutcomeUnchanged:
		o.printUnchanged(w, "Comment %s unchanged, nothing to do\n", res.Comment.ID)
	case thread.OutcomeResolved:
		o.printChanged(w, "Resolved thread %s\n", res.Comment)
	case thread.OutcomeAlreadyResolved:
		o.printUnchanged(w, "Thread %s is already resolved\n", res.Comment.ID)
	case thread.OutcomeUnresolved:
		o.printChanged(w, "Unresolved thread %s\n", res.Comment)
	case thread.OutcomeNotResolved:
		o.printUnchanged(w, "Thread %s is not resolved\n", res.Comment.ID)
	case thread.OutcomeDeleted:
		if o.Quiet {
			fmt.Fprintln(w, commentID)
		} else {
			fmt.Fprintf(w, "Deleted comment %s\n", commentID)
		}
	case thread.OutcomeCancelled:
		fmt.Fprintln(w, "Deletion cancelled.")
	default:
		return fmt.Errorf("unknown outcome: %s", res.Outcome)
	}
	return nil
}

func mutationPayload(res *thread.Result, commentID string) interface{} {
	switch res.Outcome {
	case thread.OutcomeAdded, thread.OutcomeUpdated, thread.OutcomeUnchanged:
		c := res.Comment
		return commentJSON{
			ID:            c.ID,
			Body:          c.Body,
			CreatedAt:     c.CreatedAt.UTC().Format(time.RFC3339),
			URL:           c.URL,
			User:          c.Author,
			ParentID:      optional(c.ParentID),
			Unchanged:     res.Outcome == thread.OutcomeUnchanged,
			ResolvingUser: optional(c.ResolvingUser),
		}
	case thread.OutcomeResolved, thread.OutcomeAlreadyResolved,
		thread.OutcomeUnresolved, thread.OutcomeNotResolved:
		c := res.Comment
		return resolutionJSON{
			ID:            c.ID,
			ResolvingUser: optional(c.ResolvingUser),
			URL:           c.URL,
			Unchanged:     !res.Outcome.Changed(),
		}
	case thread.OutcomeDeleted:
		return deletionJSON{Success: true, Deleted: commentID}
	case thread.OutcomeCancelled:
		return deletionJSON{Success: false, Cancelled: true}
	}
	return nil
}

func (o Options) printChanged(w io.Writer, format string, c *thread.CommentRecord) {
	if o.Quiet {
		fmt.Fprintln(w, c.ID)
		return
	}
	fmt.Fprintf(w, format, c.ID)
	if c.URL != "" {
		fmt.Fprintln(w, c.URL)
	}
}

func (o Options) printUnchanged(w io.Writer, format string, id string) {
	if o.Quiet {
		return
	}
	fmt.Fprintf(w, format, id)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
