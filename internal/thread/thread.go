package thread

import (
	"sort"
	"time"
)

// CommentRecord is the backend-owned canonical form of a comment. The
// backend assigns ID, CreatedAt, and URL at creation; ParentID is fixed
// at creation and never changes. A non-empty ResolvingUser marks the
// owning top-level thread as resolved.
type CommentRecord struct {
	ID            string
	Body          string
	CreatedAt     time.Time
	Author        string
	ParentID      string
	ResolvingUser string
	URL           string
}

// Resolved reports whether a resolving identity is recorded on the comment.
func (r *CommentRecord) Resolved() bool {
	return r.ResolvingUser != ""
}

// Node is a CommentRecord together with its ordered replies. Nodes are
// rebuilt from scratch on every fetch and are never persisted.
type Node struct {
	CommentRecord
	Children []*Node
}

// Descendants counts all nodes below n, at any depth.
func (n *Node) Descendants() int {
	total := 0
	for _, c := range n.Children {
		total += 1 + c.Descendants()
	}
	return total
}

// Tree is an ordered sequence of top-level threads for one issue,
// valid only for the instant of the fetch it was built from.
type Tree struct {
	Roots []*Node
}

// Size returns the total number of comments in the tree.
func (t *Tree) Size() int {
	total := 0
	for _, r := range t.Roots {
		total += 1 + r.Descendants()
	}
	return total
}

// Find returns the node with the given comment ID, or nil.
func (t *Tree) Find(id string) *Node {
	var find func(nodes []*Node) *Node
	find = func(nodes []*Node) *Node {
		for _, n := range nodes {
			if n.ID == id {
				return n
			}
			if hit := find(n.Children); hit != nil {
				return hit
			}
		}
		return nil
	}
	return find(t.Roots)
}

// Build turns an unordered flat record set into an ordered tree.
//
// Records are indexed by ID in one pass and linked to their parent in a
// second; a record whose declared parent is absent from the fetched set
// is placed at top level rather than dropped, so every fetched comment
// stays reachable. Records whose parent chain loops back on itself
// (self-parents, mutual parents) are demoted to top level the same way.
// Sibling lists and the top-level list are ordered ascending by
// CreatedAt, ties broken by ID. Pure function: no backend calls, input
// records are copied into fresh nodes.
func Build(records []CommentRecord) *Tree {
	nodes := make(map[string]*Node, len(records))
	for _, rec := range records {
		nodes[rec.ID] = &Node{CommentRecord: rec}
	}

	tree := &Tree{}
	for _, rec := range records {
		n := nodes[rec.ID]
		if rec.ParentID != "" && !onOwnParentChain(nodes, rec) {
			if parent, ok := nodes[rec.ParentID]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		tree.Roots = append(tree.Roots, n)
	}

	sortSiblings(tree.Roots)
	for _, n := range nodes {
		sortSiblings(n.Children)
	}
	return tree
}

// onOwnParentChain reports whether following rec's parent references
// within the fetched set leads back to rec itself. Attaching such a
// record would leave its whole cycle unreachable from the roots.
func onOwnParentChain(nodes map[string]*Node, rec CommentRecord) bool {
	id := rec.ParentID
	for steps := 0; steps <= len(nodes); steps++ {
		if id == rec.ID {
			return true
		}
		parent, ok := nodes[id]
		if !ok {
			return false
		}
		id = parent.ParentID
	}
	return false
}

func sortSiblings(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].CreatedAt.Equal(nodes[j].CreatedAt) {
			return nodes[i].ID < nodes[j].ID
		}
		return nodes[i].CreatedAt.Before(nodes[j].CreatedAt)
	})
}
