package tracker

import (
	"fmt"
	"time"

	"github.com/cexll/trk/internal/thread"
)

// Wire types for the tracker GraphQL API. Timestamps travel as RFC3339
// strings and are parsed at the conversion boundary.

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Issue struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	URL        string `json:"url"`
}

type Comment struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
	URL       string `json:"url"`
	User      *User  `json:"user"`
	Parent    *struct {
		ID string `json:"id"`
	} `json:"parent"`
	ResolvingUser *User `json:"resolvingUser"`
}

// Record converts a wire comment into the engine's canonical record.
func (c *Comment) Record() (thread.CommentRecord, error) {
	createdAt, err := time.Parse(time.RFC3339, c.CreatedAt)
	if err != nil {
		return thread.CommentRecord{}, fmt.Errorf("comment %s: bad createdAt %q: %w", c.ID, c.CreatedAt, err)
	}
	rec := thread.CommentRecord{
		ID:        c.ID,
		Body:      c.Body,
		CreatedAt: createdAt,
		URL:       c.URL,
	}
	if c.User != nil {
		rec.Author = c.User.Name
	}
	if c.Parent != nil {
		rec.ParentID = c.Parent.ID
	}
	if c.ResolvingUser != nil {
		rec.ResolvingUser = c.ResolvingUser.Name
	}
	return rec, nil
}

func recordsOf(comments []Comment) ([]thread.CommentRecord, error) {
	out := make([]thread.CommentRecord, 0, len(comments))
	for i := range comments {
		rec, err := comments[i].Record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
