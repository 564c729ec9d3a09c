package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a thin GraphQL client for the tracker API. Keep it minimal
// and focused: one Do method, typed operations live in api.go.
type Client struct {
	httpClient *http.Client
	endpoint   string
	auth       AuthProvider
}

// NewClient creates a client for the given GraphQL endpoint.
func NewClient(endpoint string, auth AuthProvider) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		endpoint:   endpoint,
		auth:       auth,
	}
}

// GraphQLRequest represents a GraphQL request body.
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLError is a single error entry from the response envelope.
type GraphQLError struct {
	Message string `json:"message"`
}

func (e *GraphQLError) Error() string {
	return e.Message
}

// Do executes a GraphQL POST against the tracker. The response body is
// decoded into out; if the API returns errors, the first one is
// surfaced as a *GraphQLError. Transient network failures are retried
// with backoff; the caller sees only the final result.
func (c *Client) Do(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	return retryWithBackoff(ctx, func() error {
		return c.do(ctx, query, variables, out)
	})
}

func (c *Client) do(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	token, err := c.auth.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}

	reqBody := GraphQLRequest{Query: query, Variables: variables}
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(reqBody); err != nil {
		return fmt.Errorf("encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graphql http error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql status %d: %s", resp.StatusCode, string(body))
	}

	var wrapper struct {
		Data   json.RawMessage `json:"data"`
		Errors []GraphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return fmt.Errorf("decode graphql envelope: %w", err)
	}
	if len(wrapper.Errors) > 0 {
		// surface the first error message to keep it simple
		return &wrapper.Errors[0]
	}
	if len(wrapper.Data) == 0 {
		// A "data" field can legitimately be absent; decode against null
		// to avoid an EOF from the json decoder.
		wrapper.Data = json.RawMessage("null")
	}
	if out != nil {
		if err := json.Unmarshal(wrapper.Data, out); err != nil {
			return fmt.Errorf("decode graphql data: %w", err)
		}
	}
	return nil
}
