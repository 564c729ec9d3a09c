package thread

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// MockBackend is an in-memory Backend with call recording, used across
// the engine tests.
type MockBackend struct {
	Records map[string]*CommentRecord // by comment ID
	IssueID string                    // comments belong to this issue

	// Optional overrides
	ListCommentsFunc  func(issueID string) ([]CommentRecord, error)
	CreateCommentFunc func(issueID, body, parentID string) (*CommentRecord, error)

	// Recorded calls
	ListCalls   []string
	CreateCalls []struct {
		IssueID  string
		Body     string
		ParentID string
	}
	UpdateCalls []struct {
		CommentID string
		Body      string
	}
	ResolveCalls []struct {
		CommentID string
		Resolved  bool
	}
	DeleteCalls []string

	nextID int
}

func NewMockBackend(issueID string, records ...CommentRecord) *MockBackend {
	m := &MockBackend{Records: make(map[string]*CommentRecord), IssueID: issueID}
	for i := range records {
		rec := records[i]
		m.Records[rec.ID] = &rec
	}
	return m
}

func (m *MockBackend) ListComments(ctx context.Context, issueID string) ([]CommentRecord, error) {
	m.ListCalls = append(m.ListCalls, issueID)
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(issueID)
	}
	if issueID != m.IssueID {
		return nil, &NotFoundError{Kind: KindIssue, ID: issueID}
	}
	out := make([]CommentRecord, 0, len(m.Records))
	for _, rec := range m.Records {
		out = append(out, *rec)
	}
	// Stable order for deterministic tests; Build re-sorts anyway.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockBackend) GetComment(ctx context.Context, commentID string) (*CommentRecord, error) {
	rec, ok := m.Records[commentID]
	if !ok {
		return nil, &NotFoundError{Kind: KindComment, ID: commentID}
	}
	clone := *rec
	return &clone, nil
}

func (m *MockBackend) CreateComment(ctx context.Context, issueID, body, parentID string) (*CommentRecord, error) {
	m.CreateCalls = append(m.CreateCalls, struct {
		IssueID  string
		Body     string
		ParentID string
	}{issueID, body, parentID})
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(issueID, body, parentID)
	}
	m.nextID++
	rec := &CommentRecord{
		ID:        fmt.Sprintf("new-%d", m.nextID),
		Body:      body,
		CreatedAt: time.Now(),
		Author:    "tester",
		ParentID:  parentID,
		URL:       fmt.Sprintf("https://tracker.dev/comment/new-%d", m.nextID),
	}
	m.Records[rec.ID] = rec
	clone := *rec
	return &clone, nil
}

func (m *MockBackend) UpdateComment(ctx context.Context, commentID, body string) (*CommentRecord, error) {
	m.UpdateCalls = append(m.UpdateCalls, struct {
		CommentID string
		Body      string
	}{commentID, body})
	rec, ok := m.Records[commentID]
	if !ok {
		return nil, &NotFoundError{Kind: KindComment, ID: commentID}
	}
	rec.Body = body
	clone := *rec
	return &clone, nil
}

func (m *MockBackend) SetResolved(ctx context.Context, commentID string, resolved bool) (*CommentRecord, error) {
	m.ResolveCalls = append(m.ResolveCalls, struct {
		CommentID string
		Resolved  bool
	}{commentID, resolved})
	rec, ok := m.Records[commentID]
	if !ok {
		return nil, &NotFoundError{Kind: KindComment, ID: commentID}
	}
	if resolved {
		rec.ResolvingUser = "tester"
	} else {
		rec.ResolvingUser = ""
	}
	clone := *rec
	return &clone, nil
}

func (m *MockBackend) DeleteComment(ctx context.Context, commentID string) error {
	m.DeleteCalls = append(m.DeleteCalls, commentID)
	if _, ok := m.Records[commentID]; !ok {
		return &NotFoundError{Kind: KindComment, ID: commentID}
	}
	delete(m.Records, commentID)
	return nil
}

// at builds a timestamp t seconds after a fixed epoch; keeps test tables terse.
func at(seconds int) time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(seconds) * time.Second)
}

// rec builds a minimal comment record for tests.
func rec(id string, seconds int, parentID string) CommentRecord {
	return CommentRecord{
		ID:        id,
		Body:      "body of " + id,
		CreatedAt: at(seconds),
		Author:    "alice",
		ParentID:  parentID,
		URL:       "https://tracker.dev/comment/" + id,
	}
}
