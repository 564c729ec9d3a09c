package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cexll/trk/internal/render"
	"github.com/cexll/trk/internal/thread"
	"github.com/cexll/trk/internal/tracker"
)

// trackerBackend is the slice of the tracker client the tools need.
type trackerBackend interface {
	thread.Backend
	GetIssue(ctx context.Context, identifier string) (*tracker.Issue, error)
}

// Handler implements the MCP tools over one tracker connection.
type Handler struct {
	backend      trackerBackend
	coord        *thread.Coordinator
	defaultLimit int
}

// NewHandler creates a new tool handler
func NewHandler(backend trackerBackend, defaultLimit int) *Handler {
	return &Handler{
		backend:      backend,
		coord:        thread.NewCoordinator(backend),
		defaultLimit: defaultLimit,
	}
}

// ListThreadsParams defines the input parameters for list_threads
type ListThreadsParams struct {
	Issue string `json:"issue" jsonschema:"Issue identifier, e.g. ENG-123"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max top-level threads to return (0 = server default, -1 = all)"`
}

// AddCommentParams defines the input parameters for add_comment
type AddCommentParams struct {
	Issue   string `json:"issue" jsonschema:"Issue identifier, e.g. ENG-123"`
	Body    string `json:"body" jsonschema:"The comment body"`
	ReplyTo string `json:"reply_to,omitempty" jsonschema:"Comment ID to reply to, or 'last' for the newest top-level thread"`
}

// ResolveThreadParams defines the input parameters for resolve_thread
type ResolveThreadParams struct {
	CommentID string `json:"comment_id" jsonschema:"ID of the thread's comment to resolve"`
}

// HandleListThreads handles the list_threads tool call
func (h *Handler) HandleListThreads(
	ctx context.Context,
	req *mcp.CallToolRequest,
	params ListThreadsParams,
) (*mcp.CallToolResult, any, error) {
	log.Printf("[MCP Thread Server] Received list_threads request for %s", params.Issue)

	if params.Issue == "" {
		return nil, nil, fmt.Errorf("issue parameter is required")
	}

	limit := h.defaultLimit
	switch {
	case params.Limit < 0:
		limit = 0
	case params.Limit > 0:
		limit = params.Limit
	}

	issue, err := h.backend.GetIssue(ctx, params.Issue)
	if err != nil {
		return errorResult(err), nil, nil
	}
	records, err := h.backend.ListComments(ctx, issue.ID)
	if err != nil {
		return errorResult(err), nil, nil
	}

	view := thread.Truncate(thread.Build(records), limit)
	return jsonResult(render.NewListResult(issue, view, len(records)))
}

// HandleAddComment handles the add_comment tool call
func (h *Handler) HandleAddComment(
	ctx context.Context,
	req *mcp.CallToolRequest,
	params AddCommentParams,
) (*mcp.CallToolResult, any, error) {
	log.Printf("[MCP Thread Server] Received add_comment request for %s", params.Issue)

	if params.Issue == "" {
		return nil, nil, fmt.Errorf("issue parameter is required")
	}
	if params.Body == "" {
		return nil, nil, fmt.Errorf("body parameter is required")
	}

	issue, err := h.backend.GetIssue(ctx, params.Issue)
	if err != nil {
		return errorResult(err), nil, nil
	}
	res, err := h.coord.Add(ctx, issue.ID, params.Body, params.ReplyTo)
	if err != nil {
		return errorResult(err), nil, nil
	}

	log.Printf("[MCP Thread Server] Added comment %s", res.Comment.ID)
	return jsonResult(map[string]interface{}{
		"success": true,
		"id":      res.Comment.ID,
		"url":     res.Comment.URL,
	})
}

// HandleResolveThread handles the resolve_thread tool call
func (h *Handler) HandleResolveThread(
	ctx context.Context,
	req *mcp.CallToolRequest,
	params ResolveThreadParams,
) (*mcp.CallToolResult, any, error) {
	log.Printf("[MCP Thread Server] Received resolve_thread request for %s", params.CommentID)

	if params.CommentID == "" {
		return nil, nil, fmt.Errorf("comment_id parameter is required")
	}

	res, err := h.coord.Resolve(ctx, params.CommentID)
	if err != nil {
		return errorResult(err), nil, nil
	}

	return jsonResult(map[string]interface{}{
		"success":          true,
		"id":               res.Comment.ID,
		"already_resolved": res.Outcome == thread.OutcomeAlreadyResolved,
		"resolving_user":   res.Comment.ResolvingUser,
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func errorResult(err error) *mcp.CallToolResult {
	log.Printf("[MCP Thread Server] Tool call failed: %v", err)
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)},
		},
		IsError: true,
	}
}
