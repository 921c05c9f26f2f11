package syntax_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/typeset/pkg/syntax"
)

func TestNodeCachedData(t *testing.T) {
	t.Parallel()

	leafA := syntax.NewLeaf(syntax.KindText, "abc")
	leafB := syntax.NewLeaf(syntax.KindSpace, " ")
	errLeaf := syntax.NewError("expected expression", "")

	inner := syntax.NewInner(syntax.KindMarkup, []syntax.SyntaxNode{leafA, leafB})
	if inner.Len() != 4 {
		t.Errorf("Len() = %d, want 4", inner.Len())
	}
	if inner.Descendants() != 3 {
		t.Errorf("Descendants() = %d, want 3", inner.Descendants())
	}
	if inner.Erroneous() {
		t.Error("Erroneous() = true for clean subtree")
	}

	withErr := syntax.NewInner(syntax.KindCodeBlock, []syntax.SyntaxNode{leafA, errLeaf})
	if !withErr.Erroneous() {
		t.Error("Erroneous() = false for subtree with error leaf")
	}
	if withErr.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (error leaf is zero length)", withErr.Len())
	}
}

func TestNodeEqual(t *testing.T) {
	t.Parallel()

	makeTree := func(text string) syntax.SyntaxNode {
		return syntax.NewInner(syntax.KindStrong, []syntax.SyntaxNode{
			syntax.NewLeaf(syntax.KindStar, "*"),
			syntax.NewLeaf(syntax.KindText, text),
			syntax.NewLeaf(syntax.KindStar, "*"),
		})
	}

	a := makeTree("ab")
	b := makeTree("ab")
	c := makeTree("cd")

	if !a.Equal(&b) {
		t.Error("structurally identical trees compare unequal")
	}
	if a.Equal(&c) {
		t.Error("trees with different text compare equal")
	}

	clone := a.Clone()
	if !a.Equal(&clone) {
		t.Error("clone compares unequal to original")
	}
}

func TestNodeDump(t *testing.T) {
	t.Parallel()

	root := syntax.Parse("= hi")
	dump := root.Dump()
	for _, want := range []string{"markup 0..4", "heading 0..4", `"hi"`} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump missing %q:\n%s", want, dump)
		}
	}
}
