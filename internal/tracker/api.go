package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cexll/trk/internal/thread"
)

// Typed operations over Client.Do. Client implements thread.Backend so
// the engine stays ignorant of GraphQL.

const issueQuery = `query Issue($id: String!) {
  issue(id: $id) {
    id
    identifier
    title
    url
  }
}`

const commentsQuery = `query IssueComments($id: String!) {
  issue(id: $id) {
    id
    comments(first: 250) {
      nodes {
        id
        body
        createdAt
        url
        user { id name }
        parent { id }
        resolvingUser { id name }
      }
    }
  }
}`

const commentQuery = `query Comment($id: String!) {
  comment(id: $id) {
    id
    body
    createdAt
    url
    user { id name }
    parent { id }
    resolvingUser { id name }
  }
}`

const commentCreateMutation = `mutation CommentCreate($input: CommentCreateInput!) {
  commentCreate(input: $input) {
    success
    comment {
      id
      body
      createdAt
      url
      user { id name }
      parent { id }
      resolvingUser { id name }
    }
  }
}`

const commentUpdateMutation = `mutation CommentUpdate($id: String!, $input: CommentUpdateInput!) {
  commentUpdate(id: $id, input: $input) {
    success
    comment {
      id
      body
      createdAt
      url
      user { id name }
      parent { id }
      resolvingUser { id name }
    }
  }
}`

const commentResolveMutation = `mutation CommentResolve($id: String!) {
  commentResolve(id: $id) {
    success
    comment {
      id
      body
      createdAt
      url
      user { id name }
      parent { id }
      resolvingUser { id name }
    }
  }
}`

const commentUnresolveMutation = `mutation CommentUnresolve($id: String!) {
  commentUnresolve(id: $id) {
    success
    comment {
      id
      body
      createdAt
      url
      user { id name }
      parent { id }
      resolvingUser { id name }
    }
  }
}`

const commentDeleteMutation = `mutation CommentDelete($id: String!) {
  commentDelete(id: $id) {
    success
  }
}`

const viewerQuery = `query Viewer { viewer { id name } }`

type commentPayload struct {
	Success bool     `json:"success"`
	Comment *Comment `json:"comment"`
}

// Viewer returns the authenticated identity.
func (c *Client) Viewer(ctx context.Context) (*User, error) {
	var resp struct {
		Viewer *User `json:"viewer"`
	}
	if err := c.Do(ctx, viewerQuery, nil, &resp); err != nil {
		return nil, &thread.BackendError{Op: "viewer", Err: err}
	}
	if resp.Viewer == nil {
		return nil, &thread.BackendError{Op: "viewer", Err: fmt.Errorf("empty viewer response")}
	}
	return resp.Viewer, nil
}

// GetIssue looks an issue up by ID or human identifier (e.g. ENG-123).
func (c *Client) GetIssue(ctx context.Context, identifier string) (*Issue, error) {
	var resp struct {
		Issue *Issue `json:"issue"`
	}
	if err := c.Do(ctx, issueQuery, map[string]interface{}{"id": identifier}, &resp); err != nil {
		return nil, mapError("get issue", identifier, thread.KindIssue, err)
	}
	if resp.Issue == nil {
		return nil, &thread.NotFoundError{Kind: thread.KindIssue, ID: identifier}
	}
	return resp.Issue, nil
}

// ListComments returns the flat comment records currently stored for an issue.
func (c *Client) ListComments(ctx context.Context, issueID string) ([]thread.CommentRecord, error) {
	var resp struct {
		Issue *struct {
			ID       string `json:"id"`
			Comments struct {
				Nodes []Comment `json:"nodes"`
			} `json:"comments"`
		} `json:"issue"`
	}
	if err := c.Do(ctx, commentsQuery, map[string]interface{}{"id": issueID}, &resp); err != nil {
		return nil, mapError("list comments", issueID, thread.KindIssue, err)
	}
	if resp.Issue == nil {
		return nil, &thread.NotFoundError{Kind: thread.KindIssue, ID: issueID}
	}
	records, err := recordsOf(resp.Issue.Comments.Nodes)
	if err != nil {
		return nil, &thread.BackendError{Op: "list comments", Err: err}
	}
	return records, nil
}

// GetComment returns a single comment record by ID.
func (c *Client) GetComment(ctx context.Context, commentID string) (*thread.CommentRecord, error) {
	var resp struct {
		Comment *Comment `json:"comment"`
	}
	if err := c.Do(ctx, commentQuery, map[string]interface{}{"id": commentID}, &resp); err != nil {
		return nil, mapError("get comment", commentID, thread.KindComment, err)
	}
	if resp.Comment == nil {
		return nil, &thread.NotFoundError{Kind: thread.KindComment, ID: commentID}
	}
	rec, err := resp.Comment.Record()
	if err != nil {
		return nil, &thread.BackendError{Op: "get comment", Err: err}
	}
	return &rec, nil
}

// CreateComment creates a comment; parentID may be empty for a new
// top-level thread.
func (c *Client) CreateComment(ctx context.Context, issueID, body, parentID string) (*thread.CommentRecord, error) {
	input := map[string]interface{}{
		"issueId": issueID,
		"body":    body,
	}
	if parentID != "" {
		input["parentId"] = parentID
	}
	var resp struct {
		CommentCreate commentPayload `json:"commentCreate"`
	}
	if err := c.Do(ctx, commentCreateMutation, map[string]interface{}{"input": input}, &resp); err != nil {
		return nil, mapError("create comment", issueID, thread.KindIssue, err)
	}
	return payloadRecord("create comment", &resp.CommentCreate)
}

// UpdateComment replaces a comment body.
func (c *Client) UpdateComment(ctx context.Context, commentID, body string) (*thread.CommentRecord, error) {
	var resp struct {
		CommentUpdate commentPayload `json:"commentUpdate"`
	}
	vars := map[string]interface{}{
		"id":    commentID,
		"input": map[string]interface{}{"body": body},
	}
	if err := c.Do(ctx, commentUpdateMutation, vars, &resp); err != nil {
		return nil, mapError("update comment", commentID, thread.KindComment, err)
	}
	return payloadRecord("update comment", &resp.CommentUpdate)
}

// SetResolved marks or unmarks a thread as resolved. The backend
// records the acting identity as the resolving user.
func (c *Client) SetResolved(ctx context.Context, commentID string, resolved bool) (*thread.CommentRecord, error) {
	mutation := commentResolveMutation
	op := "resolve comment"
	var resp struct {
		CommentResolve   *commentPayload `json:"commentResolve"`
		CommentUnresolve *commentPayload `json:"commentUnresolve"`
	}
	if !resolved {
		mutation = commentUnresolveMutation
		op = "unresolve comment"
	}
	if err := c.Do(ctx, mutation, map[string]interface{}{"id": commentID}, &resp); err != nil {
		return nil, mapError(op, commentID, thread.KindComment, err)
	}
	payload := resp.CommentResolve
	if !resolved {
		payload = resp.CommentUnresolve
	}
	if payload == nil {
		return nil, &thread.BackendError{Op: op, Err: fmt.Errorf("empty mutation payload")}
	}
	return payloadRecord(op, payload)
}

// DeleteComment removes a comment. Replies are left to the backend.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	var resp struct {
		CommentDelete struct {
			Success bool `json:"success"`
		} `json:"commentDelete"`
	}
	if err := c.Do(ctx, commentDeleteMutation, map[string]interface{}{"id": commentID}, &resp); err != nil {
		return mapError("delete comment", commentID, thread.KindComment, err)
	}
	if !resp.CommentDelete.Success {
		return &thread.BackendError{Op: "delete comment", Err: fmt.Errorf("mutation reported failure")}
	}
	return nil
}

func payloadRecord(op string, payload *commentPayload) (*thread.CommentRecord, error) {
	if !payload.Success || payload.Comment == nil {
		return nil, &thread.BackendError{Op: op, Err: fmt.Errorf("mutation reported failure")}
	}
	rec, err := payload.Comment.Record()
	if err != nil {
		return nil, &thread.BackendError{Op: op, Err: err}
	}
	return &rec, nil
}

// mapError translates API failures into the engine's taxonomy: a
// GraphQL "not found" becomes a NotFoundError for the object the
// operation addressed, anything else wraps into BackendError.
func mapError(op, id string, kind thread.NotFoundKind, err error) error {
	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) && strings.Contains(strings.ToLower(gqlErr.Message), "not found") {
		return &thread.NotFoundError{Kind: kind, ID: id}
	}
	return &thread.BackendError{Op: op, Err: err}
}
