package thread

import (
	"errors"
	"fmt"
)

// ErrEmptyBody is returned when a comment body is missing or whitespace-only.
// The message is part of the CLI contract; scripts grep for it.
var ErrEmptyBody = errors.New("Comment body cannot be empty")

// ErrNoCommentsToReplyTo is returned when a "last" reply target is requested
// on an issue that has no comments yet.
var ErrNoCommentsToReplyTo = errors.New("No comments to reply to")

// NotFoundKind says which kind of object a lookup missed.
type NotFoundKind string

const (
	KindIssue   NotFoundKind = "issue"
	KindComment NotFoundKind = "comment"
	KindTarget  NotFoundKind = "reply target"
)

// NotFoundError reports a missing issue, comment, or reply target.
type NotFoundError struct {
	Kind NotFoundKind
	ID   string
}

func (e *NotFoundError) Error() string {
	switch e.Kind {
	case KindIssue:
		return fmt.Sprintf("Issue not found: %s", e.ID)
	case KindTarget:
		return fmt.Sprintf("Reply target not found: %s", e.ID)
	default:
		return fmt.Sprintf("Comment not found: %s", e.ID)
	}
}

// IsNotFound reports whether the error chain contains a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var target *NotFoundError
	return errors.As(err, &target)
}

// BackendError wraps any transport or API failure. The engine does not
// decompose backend failures further; it surfaces them verbatim.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error: %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
