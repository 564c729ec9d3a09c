package thread

import "strings"

// previewLimit caps the collapsed-thread preview length in runes.
const previewLimit = 80

// ThreadView is one top-level thread prepared for display. Collapsed is
// a presentation hint only: the subtree under Root is left intact, the
// renderer just should not expand it inline.
type ThreadView struct {
	Root       *Node
	Collapsed  bool
	Preview    string
	ReplyCount int
}

// View is the display form of a tree: the kept top-level threads in
// creation order plus how many threads were cut by the limit.
type View struct {
	Threads       []ThreadView
	TotalTopLevel int
	OmittedCount  int
}

// Truncate keeps the first limit top-level threads with their full
// subtrees. A limit of zero or below means unlimited. Depth is never
// truncated; descendants of omitted threads appear nowhere in the view.
// Resolved threads get a collapse hint with a body preview and the
// count of replies hidden by collapsing.
func Truncate(t *Tree, limit int) *View {
	total := len(t.Roots)
	kept := t.Roots
	if limit > 0 && limit < total {
		kept = t.Roots[:limit]
	}

	view := &View{
		Threads:       make([]ThreadView, 0, len(kept)),
		TotalTopLevel: total,
		OmittedCount:  total - len(kept),
	}
	for _, root := range kept {
		tv := ThreadView{Root: root}
		if root.Resolved() {
			tv.Collapsed = true
			tv.Preview = preview(root.Body)
			tv.ReplyCount = root.Descendants()
		}
		view.Threads = append(view.Threads, tv)
	}
	return view
}

// preview returns the first line of body, capped at previewLimit runes.
func preview(body string) string {
	line := body
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	runes := []rune(line)
	if len(runes) <= previewLimit {
		return line
	}
	return string(runes[:previewLimit]) + "..."
}
