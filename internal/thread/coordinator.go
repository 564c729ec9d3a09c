package thread

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Backend is the slice of the tracker API the engine needs. The
// concrete implementation lives in internal/tracker; tests use a mock.
type Backend interface {
	// ListComments returns the flat set of comment records currently
	// stored for one issue.
	ListComments(ctx context.Context, issueID string) ([]CommentRecord, error)

	// GetComment returns a single comment by ID. A missing comment is a
	// *NotFoundError, not a nil record.
	GetComment(ctx context.Context, commentID string) (*CommentRecord, error)

	// CreateComment creates a comment on an issue; parentID may be empty
	// for a new top-level thread. Returns the canonical created record.
	CreateComment(ctx context.Context, issueID, body, parentID string) (*CommentRecord, error)

	// UpdateComment replaces a comment's body and returns the updated record.
	UpdateComment(ctx context.Context, commentID, body string) (*CommentRecord, error)

	// SetResolved marks or unmarks the comment's thread as resolved and
	// returns the updated record.
	SetResolved(ctx context.Context, commentID string, resolved bool) (*CommentRecord, error)

	// DeleteComment removes the comment. Replies are not touched.
	DeleteComment(ctx context.Context, commentID string) error
}

// Outcome classifies what a mutating operation did. Idempotent no-ops
// and cancellation are successes, kept distinct from changed outcomes
// so callers can render each case exactly once.
type Outcome string

const (
	OutcomeAdded           Outcome = "added"
	OutcomeUpdated         Outcome = "updated"
	OutcomeUnchanged       Outcome = "unchanged"
	OutcomeResolved        Outcome = "resolved"
	OutcomeAlreadyResolved Outcome = "already-resolved"
	OutcomeUnresolved      Outcome = "unresolved"
	OutcomeNotResolved     Outcome = "not-resolved"
	OutcomeDeleted         Outcome = "deleted"
	OutcomeCancelled       Outcome = "cancelled"
)

// Changed reports whether the outcome mutated backend state.
func (o Outcome) Changed() bool {
	switch o {
	case OutcomeAdded, OutcomeUpdated, OutcomeResolved, OutcomeUnresolved, OutcomeDeleted:
		return true
	}
	return false
}

// Result is the classified outcome of one mutating operation. Comment
// is the canonical record after the operation; it is nil for Deleted
// and Cancelled.
type Result struct {
	Outcome Outcome
	Comment *CommentRecord
}

// Coordinator executes mutating comment operations against the backend.
// Each operation performs at most one mutating call, with an optional
// fresh fetch beforehand for target resolution. There is no cache, no
// optimistic-lock check, and no retry at this level.
type Coordinator struct {
	backend Backend

	// Input is read for the comment body when none is supplied directly.
	// Leave nil when no input stream is available.
	Input io.Reader

	// Confirm is the interactive confirmation channel for Delete. When
	// nil, an unconfirmed delete is cancelled rather than prompted.
	Confirm func(c *CommentRecord) (bool, error)
}

// NewCoordinator returns a coordinator bound to a backend.
func NewCoordinator(backend Backend) *Coordinator {
	return &Coordinator{backend: backend}
}

// Add creates a comment on an issue. The body comes either from the
// body argument or, when that is empty, from a blocking read of Input.
// replyTo is empty for a top-level comment, an explicit comment ID, or
// ReplyToLast; non-empty specifiers are resolved against a fresh fetch.
func (c *Coordinator) Add(ctx context.Context, issueID, body, replyTo string) (*Result, error) {
	body, err := c.readBody(body)
	if err != nil {
		return nil, err
	}

	parentID := ""
	if replyTo != "" {
		records, err := c.backend.ListComments(ctx, issueID)
		if err != nil {
			return nil, err
		}
		parentID, err = ResolveTarget(Build(records), replyTo)
		if err != nil {
			return nil, err
		}
	}

	created, err := c.backend.CreateComment(ctx, issueID, body, parentID)
	if err != nil {
		return nil, err
	}
	return &Result{Outcome: OutcomeAdded, Comment: created}, nil
}

// Edit replaces a comment's body. When the new body equals the current
// body after normalization, no backend call is made and the result is
// Unchanged rather than Updated.
func (c *Coordinator) Edit(ctx context.Context, commentID, newBody string) (*Result, error) {
	current, err := c.backend.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	newBody, err = c.readBody(newBody)
	if err != nil {
		return nil, err
	}

	if normalizeBody(newBody) == normalizeBody(current.Body) {
		return &Result{Outcome: OutcomeUnchanged, Comment: current}, nil
	}

	updated, err := c.backend.UpdateComment(ctx, commentID, newBody)
	if err != nil {
		return nil, err
	}
	return &Result{Outcome: OutcomeUpdated, Comment: updated}, nil
}

// Resolve marks a thread as resolved. Resolving an already-resolved
// comment is a no-op that preserves the original resolver.
func (c *Coordinator) Resolve(ctx context.Context, commentID string) (*Result, error) {
	current, err := c.backend.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if current.Resolved() {
		return &Result{Outcome: OutcomeAlreadyResolved, Comment: current}, nil
	}

	updated, err := c.backend.SetResolved(ctx, commentID, true)
	if err != nil {
		return nil, err
	}
	return &Result{Outcome: OutcomeResolved, Comment: updated}, nil
}

// Unresolve clears a thread's resolved mark; the mirror of Resolve.
func (c *Coordinator) Unresolve(ctx context.Context, commentID string) (*Result, error) {
	current, err := c.backend.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !current.Resolved() {
		return &Result{Outcome: OutcomeNotResolved, Comment: current}, nil
	}

	updated, err := c.backend.SetResolved(ctx, commentID, false)
	if err != nil {
		return nil, err
	}
	return &Result{Outcome: OutcomeUnresolved, Comment: updated}, nil
}

// Delete removes a comment. Without confirmed and without an interactive
// Confirm channel the operation is cancelled, which is a success, not an
// error. Replies are never cascade-deleted; where they land afterwards
// is the backend's business and shows up on the next fetch.
func (c *Coordinator) Delete(ctx context.Context, commentID string, confirmed bool) (*Result, error) {
	current, err := c.backend.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if !confirmed {
		if c.Confirm == nil {
			return &Result{Outcome: OutcomeCancelled}, nil
		}
		ok, err := c.Confirm(current)
		if err != nil {
			return nil, fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return &Result{Outcome: OutcomeCancelled}, nil
		}
	}

	if err := c.backend.DeleteComment(ctx, commentID); err != nil {
		return nil, err
	}
	return &Result{Outcome: OutcomeDeleted}, nil
}

// readBody returns the trimmed comment body, falling back to a blocking
// read of Input when body is empty. A missing or whitespace-only body
// is ErrEmptyBody.
func (c *Coordinator) readBody(body string) (string, error) {
	if strings.TrimSpace(body) == "" && c.Input != nil {
		raw, err := io.ReadAll(c.Input)
		if err != nil {
			return "", fmt.Errorf("read body: %w", err)
		}
		body = string(raw)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "", ErrEmptyBody
	}
	return body, nil
}

// normalizeBody is the comparison form used to detect no-op edits.
func normalizeBody(body string) string {
	return strings.TrimSpace(strings.ReplaceAll(body, "\r\n", "\n"))
}
