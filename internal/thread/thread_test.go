package thread

import (
	"testing"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		records   []CommentRecord
		wantRoots []string            // expected top-level IDs in order
		wantKids  map[string][]string // parent ID -> child IDs in order
	}{
		{
			name:      "empty input",
			records:   nil,
			wantRoots: []string{},
		},
		{
			name: "flat comments sorted by creation time",
			records: []CommentRecord{
				rec("c3", 30, ""),
				rec("c1", 10, ""),
				rec("c2", 20, ""),
			},
			wantRoots: []string{"c1", "c2", "c3"},
		},
		{
			name: "replies nest under their parent",
			records: []CommentRecord{
				rec("c1", 0, ""),
				rec("c2", 10, "c1"),
				rec("c3", 20, ""),
				rec("c4", 5, "c1"),
			},
			wantRoots: []string{"c1", "c3"},
			wantKids:  map[string][]string{"c1": {"c4", "c2"}},
		},
		{
			name: "orphan is demoted to top level",
			records: []CommentRecord{
				rec("c1", 0, ""),
				rec("c2", 10, "gone"),
			},
			wantRoots: []string{"c1", "c2"},
		},
		{
			name: "self-referencing parent is treated as orphan",
			records: []CommentRecord{
				rec("c1", 0, "c1"),
			},
			wantRoots: []string{"c1"},
		},
		{
			name: "mutual parents are both demoted to top level",
			records: []CommentRecord{
				rec("ca", 0, "cb"),
				rec("cb", 10, "ca"),
			},
			wantRoots: []string{"ca", "cb"},
		},
		{
			name: "parent cycle of three is fully demoted",
			records: []CommentRecord{
				rec("ca", 0, "cc"),
				rec("cb", 10, "ca"),
				rec("cc", 20, "cb"),
			},
			wantRoots: []string{"ca", "cb", "cc"},
		},
		{
			name: "reply under a cycle member stays attached",
			records: []CommentRecord{
				rec("ca", 0, "cb"),
				rec("cb", 10, "ca"),
				rec("cd", 20, "ca"),
			},
			wantRoots: []string{"ca", "cb"},
			wantKids:  map[string][]string{"ca": {"cd"}},
		},
		{
			name: "equal timestamps tie-break by id",
			records: []CommentRecord{
				rec("cb", 5, ""),
				rec("ca", 5, ""),
			},
			wantRoots: []string{"ca", "cb"},
		},
		{
			name: "nested replies keep full depth",
			records: []CommentRecord{
				rec("c1", 0, ""),
				rec("c2", 1, "c1"),
				rec("c3", 2, "c2"),
			},
			wantRoots: []string{"c1"},
			wantKids:  map[string][]string{"c1": {"c2"}, "c2": {"c3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Build(tt.records)

			if got := tree.Size(); got != len(tt.records) {
				t.Errorf("Size() = %d, want %d (no comment may be dropped)", got, len(tt.records))
			}

			gotRoots := make([]string, 0, len(tree.Roots))
			for _, r := range tree.Roots {
				gotRoots = append(gotRoots, r.ID)
			}
			if !equalStrings(gotRoots, tt.wantRoots) {
				t.Errorf("roots = %v, want %v", gotRoots, tt.wantRoots)
			}

			for parentID, wantKids := range tt.wantKids {
				parent := tree.Find(parentID)
				if parent == nil {
					t.Fatalf("Find(%q) = nil", parentID)
				}
				gotKids := make([]string, 0, len(parent.Children))
				for _, c := range parent.Children {
					gotKids = append(gotKids, c.ID)
				}
				if !equalStrings(gotKids, wantKids) {
					t.Errorf("children of %s = %v, want %v", parentID, gotKids, wantKids)
				}
			}
		})
	}
}

func TestBuildSiblingOrdering(t *testing.T) {
	// Ordering must hold at every level, not just top level.
	records := []CommentRecord{
		rec("c1", 0, ""),
		rec("c5", 50, "c1"),
		rec("c2", 20, "c1"),
		rec("c4", 40, ""),
		rec("c3", 30, "c4"),
	}
	tree := Build(records)

	var check func(nodes []*Node)
	check = func(nodes []*Node) {
		for i := 1; i < len(nodes); i++ {
			if nodes[i].CreatedAt.Before(nodes[i-1].CreatedAt) {
				t.Errorf("siblings out of order: %s before %s", nodes[i].ID, nodes[i-1].ID)
			}
		}
		for _, n := range nodes {
			check(n.Children)
		}
	}
	check(tree.Roots)
}

func TestBuildIsPure(t *testing.T) {
	records := []CommentRecord{
		rec("c1", 0, ""),
		rec("c2", 1, "c1"),
	}
	first := Build(records)
	second := Build(records)

	if first.Size() != second.Size() {
		t.Fatalf("rebuild changed size: %d vs %d", first.Size(), second.Size())
	}
	// Mutating the first tree must not leak into the second.
	first.Roots[0].Body = "mutated"
	if second.Roots[0].Body == "mutated" {
		t.Error("trees share node storage")
	}
	if records[0].Body == "mutated" {
		t.Error("tree mutation leaked into input records")
	}
}

func TestTreeFind(t *testing.T) {
	tree := Build([]CommentRecord{
		rec("c1", 0, ""),
		rec("c2", 1, "c1"),
		rec("c3", 2, "c2"),
	})

	if n := tree.Find("c3"); n == nil || n.ID != "c3" {
		t.Errorf("Find(c3) = %v, want nested node", n)
	}
	if n := tree.Find("missing"); n != nil {
		t.Errorf("Find(missing) = %v, want nil", n)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
