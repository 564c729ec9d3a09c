package thread

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name      string
		records   []CommentRecord
		specifier string
		wantID    string
		wantErr   error
	}{
		{
			name: "explicit id of a top-level comment",
			records: []CommentRecord{
				rec("c1", 0, ""),
			},
			specifier: "c1",
			wantID:    "c1",
		},
		{
			name: "explicit id of a nested reply",
			records: []CommentRecord{
				rec("c1", 0, ""),
				rec("c2", 1, "c1"),
			},
			specifier: "c2",
			wantID:    "c2",
		},
		{
			name: "unknown explicit id",
			records: []CommentRecord{
				rec("c1", 0, ""),
			},
			specifier: "nope",
			wantErr:   &NotFoundError{Kind: KindTarget, ID: "nope"},
		},
		{
			name: "last picks newest top-level comment",
			records: []CommentRecord{
				rec("ca", 0, ""),
				rec("cb", 5, ""),
			},
			specifier: ReplyToLast,
			wantID:    "cb",
		},
		{
			name: "last ignores newer nested replies",
			records: []CommentRecord{
				rec("ca", 0, ""),
				rec("cb", 5, ""),
				rec("cc", 99, "ca"),
			},
			specifier: ReplyToLast,
			wantID:    "cb",
		},
		{
			name: "last includes resolved threads",
			records: []CommentRecord{
				rec("ca", 0, ""),
				func() CommentRecord {
					r := rec("cb", 5, "")
					r.ResolvingUser = "bob"
					return r
				}(),
			},
			specifier: ReplyToLast,
			wantID:    "cb",
		},
		{
			name:      "last on empty issue",
			records:   nil,
			specifier: ReplyToLast,
			wantErr:   ErrNoCommentsToReplyTo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTarget(Build(tt.records), tt.specifier)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("ResolveTarget() = %q, want error %v", got, tt.wantErr)
				}
				if errors.Is(tt.wantErr, ErrNoCommentsToReplyTo) {
					if !errors.Is(err, ErrNoCommentsToReplyTo) {
						t.Errorf("error = %v, want ErrNoCommentsToReplyTo", err)
					}
				} else if !IsNotFound(err) {
					t.Errorf("error = %v, want NotFoundError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveTarget() error = %v", err)
			}
			if got != tt.wantID {
				t.Errorf("ResolveTarget() = %q, want %q", got, tt.wantID)
			}
		})
	}
}

func TestNotFoundErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&NotFoundError{Kind: KindComment, ID: "c9"}, "Comment not found"},
		{&NotFoundError{Kind: KindIssue, ID: "ENG-1"}, "not found"},
		{&NotFoundError{Kind: KindTarget, ID: "c9"}, "not found"},
		{ErrEmptyBody, "Comment body cannot be empty"},
		{ErrNoCommentsToReplyTo, "No comments to reply to"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); !strings.Contains(got, tt.want) {
			t.Errorf("%T message %q does not contain %q", tt.err, got, tt.want)
		}
	}
}
