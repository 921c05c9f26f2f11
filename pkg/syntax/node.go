package syntax

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// SyntaxNode is an element of the untyped syntax tree: either a leaf token
// with its source text or an inner node with children. Inner nodes are shared
// between trees through reference counting; handles must be duplicated with
// Clone, and all mutation goes through copy-on-write.
//
// Every inner node caches the byte length of its subtree. The cache is kept
// exact at all times: it always equals the sum of the children's lengths.
type SyntaxNode struct {
	kind  SyntaxKind
	text  string
	msg   string
	inner *innerNode
}

type innerNode struct {
	refs        atomic.Int32
	kind        SyntaxKind
	length      int
	descendants int
	erroneous   bool

	// For KindMarkup only: the minimum indent column of the run and whether
	// the run begins at a line start. Both are part of structural equality
	// because they change how the contents parse.
	indent  int
	atStart bool

	children []SyntaxNode
}

// NewLeaf creates a leaf node.
func NewLeaf(kind SyntaxKind, text string) SyntaxNode {
	return SyntaxNode{kind: kind, text: text}
}

// NewError creates an error leaf covering the given source text. The text may
// be empty for missing-token errors.
func NewError(msg, text string) SyntaxNode {
	return SyntaxNode{kind: KindError, text: text, msg: msg}
}

// NewInner creates an inner node, computing the cached subtree data from the
// children.
func NewInner(kind SyntaxKind, children []SyntaxNode) SyntaxNode {
	inner := &innerNode{kind: kind, children: children}
	inner.refs.Store(1)
	inner.recompute()
	return SyntaxNode{kind: kind, inner: inner}
}

// newMarkup creates a markup run with its parse parameters.
func newMarkup(indent int, atStart bool, children []SyntaxNode) SyntaxNode {
	node := NewInner(KindMarkup, children)
	node.inner.indent = indent
	node.inner.atStart = atStart
	return node
}

// Kind returns the node's kind.
func (n *SyntaxNode) Kind() SyntaxKind { return n.kind }

// IsLeaf reports whether the node is a leaf token.
func (n *SyntaxNode) IsLeaf() bool { return n.inner == nil }

// Len returns the byte length of the subtree.
func (n *SyntaxNode) Len() int {
	if n.inner != nil {
		return n.inner.length
	}
	return len(n.text)
}

// Text returns the source text of a leaf, or the empty string for inner
// nodes.
func (n *SyntaxNode) Text() string { return n.text }

// ErrorMessage returns the message of an error leaf.
func (n *SyntaxNode) ErrorMessage() string { return n.msg }

// Erroneous reports whether the subtree contains any error leaves.
func (n *SyntaxNode) Erroneous() bool {
	if n.inner != nil {
		return n.inner.erroneous
	}
	return n.kind == KindError
}

// Descendants returns the number of nodes in the subtree, including this one.
func (n *SyntaxNode) Descendants() int {
	if n.inner != nil {
		return n.inner.descendants
	}
	return 1
}

// Children returns the node's children. The slice is shared with the node and
// must not be modified by the caller.
func (n *SyntaxNode) Children() []SyntaxNode {
	if n.inner == nil {
		return nil
	}
	return n.inner.children
}

// Indent returns the minimum indent column of a markup run.
func (n *SyntaxNode) Indent() int {
	if n.inner == nil {
		return 0
	}
	return n.inner.indent
}

// initialAtStart returns the line-start state a markup run begins with.
func (n *SyntaxNode) initialAtStart() bool {
	if n.inner == nil {
		return false
	}
	return n.inner.atStart
}

// Clone returns a handle to the same subtree. The subtree is shared until one
// of the handles mutates it.
func (n *SyntaxNode) Clone() SyntaxNode {
	if n.inner != nil {
		n.inner.refs.Add(1)
	}
	return *n
}

// shared reports whether the inner node is referenced by more than one
// handle.
func (n *SyntaxNode) shared() bool {
	return n.inner != nil && n.inner.refs.Load() > 1
}

// ensureExclusive makes the inner node safe to mutate through this handle.
// If the node is shared, it is replaced by a copy whose children are shared
// with the original.
func (n *SyntaxNode) ensureExclusive() *innerNode {
	if n.inner == nil {
		panic("ensureExclusive on leaf node")
	}
	if n.inner.refs.Load() > 1 {
		clone := &innerNode{
			kind:        n.inner.kind,
			length:      n.inner.length,
			descendants: n.inner.descendants,
			erroneous:   n.inner.erroneous,
			indent:      n.inner.indent,
			atStart:     n.inner.atStart,
			children:    append([]SyntaxNode(nil), n.inner.children...),
		}
		clone.refs.Store(1)
		for i := range clone.children {
			if child := clone.children[i].inner; child != nil {
				child.refs.Add(1)
			}
		}
		n.inner.refs.Add(-1)
		n.inner = clone
	}
	return n.inner
}

// replaceChildren splices newChildren over the child range [from, to) and
// restores the cached subtree data.
func (n *SyntaxNode) replaceChildren(from, to int, newChildren []SyntaxNode) {
	inner := n.ensureExclusive()
	replaced := make([]SyntaxNode, 0, len(inner.children)-(to-from)+len(newChildren))
	replaced = append(replaced, inner.children[:from]...)
	replaced = append(replaced, newChildren...)
	replaced = append(replaced, inner.children[to:]...)
	inner.children = replaced
	inner.recompute()
}

// refresh restores the cached subtree data after a child was mutated in
// place.
func (n *SyntaxNode) refresh() {
	n.ensureExclusive().recompute()
}

func (inner *innerNode) recompute() {
	inner.length = 0
	inner.descendants = 1
	inner.erroneous = false
	for i := range inner.children {
		child := &inner.children[i]
		inner.length += child.Len()
		inner.descendants += child.Descendants()
		inner.erroneous = inner.erroneous || child.Erroneous()
	}
}

// Equal reports deep structural equality: kind, length, text, error message,
// markup parameters, and children.
func (n *SyntaxNode) Equal(other *SyntaxNode) bool {
	if n.kind != other.kind || n.Len() != other.Len() {
		return false
	}
	if n.inner == nil || other.inner == nil {
		return n.inner == nil && other.inner == nil &&
			n.text == other.text && n.msg == other.msg
	}
	if n.inner == other.inner {
		return true
	}
	a, b := n.inner, other.inner
	if a.indent != b.indent || a.atStart != b.atStart || len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if !a.children[i].Equal(&b.children[i]) {
			return false
		}
	}
	return true
}

func (n *SyntaxNode) String() string {
	if n.inner == nil {
		if n.kind == KindError {
			return fmt.Sprintf("Error(%q, %q)", n.msg, n.text)
		}
		return fmt.Sprintf("%s(%q)", n.kind.Name(), n.text)
	}
	return fmt.Sprintf("%s(%d bytes, %d children)",
		n.kind.Name(), n.inner.length, len(n.inner.children))
}

// Fprint writes an indented dump of the subtree to the builder. Offsets are
// relative to the given base.
func (n *SyntaxNode) Fprint(sb *strings.Builder, offset, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString("  ")
	}
	end := offset + n.Len()
	if n.inner == nil {
		if n.kind == KindError {
			fmt.Fprintf(sb, "error %d..%d %q %s\n", offset, end, n.text, n.msg)
		} else {
			fmt.Fprintf(sb, "%s %d..%d %q\n", n.kind.Name(), offset, end, n.text)
		}
		return
	}
	fmt.Fprintf(sb, "%s %d..%d\n", n.kind.Name(), offset, end)
	for i := range n.inner.children {
		child := &n.inner.children[i]
		child.Fprint(sb, offset, depth+1)
		offset += child.Len()
	}
}

// Dump returns an indented textual rendering of the subtree.
func (n *SyntaxNode) Dump() string {
	var sb strings.Builder
	n.Fprint(&sb, 0, 0)
	return sb.String()
}
