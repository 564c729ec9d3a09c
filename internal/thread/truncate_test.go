package thread

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name        string
		records     []CommentRecord
		limit       int
		wantKept    []string
		wantOmitted int
	}{
		{
			name: "limit keeps earliest threads",
			records: []CommentRecord{
				rec("c1", 0, ""),
				rec("c2", 1, "c1"),
				rec("c3", 2, ""),
			},
			limit:       1,
			wantKept:    []string{"c1"},
			wantOmitted: 1,
		},
		{
			name: "zero limit means unlimited",
			records: []CommentRecord{
				rec("c1", 0, ""),
				rec("c2", 1, ""),
			},
			limit:       0,
			wantKept:    []string{"c1", "c2"},
			wantOmitted: 0,
		},
		{
			name: "negative limit means unlimited",
			records: []CommentRecord{
				rec("c1", 0, ""),
			},
			limit:       -5,
			wantKept:    []string{"c1"},
			wantOmitted: 0,
		},
		{
			name: "limit larger than thread count",
			records: []CommentRecord{
				rec("c1", 0, ""),
			},
			limit:       10,
			wantKept:    []string{"c1"},
			wantOmitted: 0,
		},
		{
			name:        "empty tree",
			records:     nil,
			limit:       3,
			wantKept:    []string{},
			wantOmitted: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Truncate(Build(tt.records), tt.limit)

			got := make([]string, 0, len(view.Threads))
			for _, tv := range view.Threads {
				got = append(got, tv.Root.ID)
			}
			if !equalStrings(got, tt.wantKept) {
				t.Errorf("kept = %v, want %v", got, tt.wantKept)
			}
			if view.OmittedCount != tt.wantOmitted {
				t.Errorf("OmittedCount = %d, want %d", view.OmittedCount, tt.wantOmitted)
			}
		})
	}
}

func TestTruncateKeepsFullDepth(t *testing.T) {
	// Scenario from the list contract: C1(t=0), C2(t=1, parent=C1),
	// C3(t=2), limit=1 -> kept C1 with child C2, one thread omitted.
	records := []CommentRecord{
		rec("c1", 0, ""),
		rec("c2", 1, "c1"),
		rec("c3", 2, ""),
	}
	tree := Build(records)
	view := Truncate(tree, 1)

	if len(view.Threads) != 1 || view.Threads[0].Root.ID != "c1" {
		t.Fatalf("kept threads = %v, want [c1]", view.Threads)
	}
	kept := view.Threads[0].Root
	if len(kept.Children) != 1 || kept.Children[0].ID != "c2" {
		t.Errorf("kept subtree lost its replies: %v", kept.Children)
	}
	if view.OmittedCount != 1 {
		t.Errorf("OmittedCount = %d, want 1", view.OmittedCount)
	}
	if tree.Size() != 3 {
		t.Errorf("total count = %d, want 3", tree.Size())
	}
}

func TestTruncateCollapseHints(t *testing.T) {
	resolved := rec("c1", 0, "")
	resolved.Body = "first line of the answer\nsecond line"
	resolved.ResolvingUser = "bob"

	records := []CommentRecord{
		resolved,
		rec("c2", 1, "c1"),
		rec("c3", 2, "c1"),
		rec("c4", 3, "c2"),
		rec("c5", 4, ""),
	}
	view := Truncate(Build(records), 0)

	first := view.Threads[0]
	if !first.Collapsed {
		t.Fatal("resolved thread not marked collapsed")
	}
	if first.Preview != "first line of the answer" {
		t.Errorf("Preview = %q, want first body line", first.Preview)
	}
	if first.ReplyCount != 3 {
		t.Errorf("ReplyCount = %d, want 3 descendants", first.ReplyCount)
	}
	// Collapse is a hint only: the subtree must stay intact.
	if got := first.Root.Descendants(); got != 3 {
		t.Errorf("collapsed subtree trimmed: %d descendants", got)
	}

	second := view.Threads[1]
	if second.Collapsed {
		t.Error("unresolved thread marked collapsed")
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("x", 200)
	tests := []struct {
		name string
		body string
		want string
	}{
		{"single line", "short answer", "short answer"},
		{"multi line", "head\ntail", "head"},
		{"long line truncated", long, long[:previewLimit] + "..."},
		{"surrounding space trimmed", "  padded  \nrest", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preview(tt.body); got != tt.want {
				t.Errorf("preview() = %q, want %q", got, tt.want)
			}
		})
	}
}
