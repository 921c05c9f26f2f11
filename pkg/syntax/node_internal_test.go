package syntax

import "testing"

func TestCloneSharesUntilMutation(t *testing.T) {
	t.Parallel()

	node := NewInner(KindMarkup, []SyntaxNode{
		NewLeaf(KindText, "ab"),
		NewLeaf(KindSpace, " "),
	})
	clone := node.Clone()

	if node.inner != clone.inner {
		t.Fatal("clone does not share the inner node")
	}
	if !node.shared() {
		t.Fatal("shared() = false after clone")
	}

	// Mutating through one handle must leave the other untouched.
	node.replaceChildren(0, 1, []SyntaxNode{NewLeaf(KindText, "xyz")})

	if node.inner == clone.inner {
		t.Fatal("mutation did not copy the shared inner node")
	}
	if node.Len() != 4 {
		t.Errorf("mutated Len() = %d, want 4", node.Len())
	}
	if clone.Len() != 3 {
		t.Errorf("clone Len() = %d, want 3", clone.Len())
	}
	if clone.shared() {
		t.Error("clone still marked shared after divergence")
	}
}

func TestEditReusesUntouchedSubtrees(t *testing.T) {
	t.Parallel()

	src := "= title\n\nsome paragraph text\n\n- item one\n- item two\n"
	s := NewSource("test.tps", src)

	children := s.Root().Children()
	if len(children) == 0 {
		t.Fatal("no children parsed")
	}
	first := children[0].inner // the heading

	// Edit inside the second paragraph, far from the heading.
	s.Edit(NewRange(14, 18), "sentence")

	after := s.Root().Children()
	if after[0].inner != first {
		t.Error("edit far from heading rebuilt the heading subtree")
	}
	if s.Root().Len() != len(s.Text()) {
		t.Errorf("root length %d does not match text length %d",
			s.Root().Len(), len(s.Text()))
	}
}
