package thread

// ReplyToLast is the reply-target token meaning "the most recent thread".
const ReplyToLast = "last"

// ResolveTarget translates a reply-to specifier into a concrete parent
// comment ID against a tree built from a fetch taken immediately before
// the mutating call.
//
// An explicit ID may name any comment in the tree. "last" picks the
// top-level comment with the greatest CreatedAt, regardless of resolved
// state; replies nested under a thread do not count. (The alternative
// reading, globally most recent including nested replies, was rejected:
// replying should continue the newest thread, not burrow into whichever
// thread happened to get the newest reply.)
func ResolveTarget(t *Tree, specifier string) (string, error) {
	if specifier == ReplyToLast {
		if len(t.Roots) == 0 {
			return "", ErrNoCommentsToReplyTo
		}
		// Roots are already in ascending creation order.
		return t.Roots[len(t.Roots)-1].ID, nil
	}

	if n := t.Find(specifier); n != nil {
		return n.ID, nil
	}
	return "", &NotFoundError{Kind: KindTarget, ID: specifier}
}
