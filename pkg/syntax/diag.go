package syntax

// Diagnostic is a syntax problem located in a source file.
type Diagnostic struct {
	Path    string
	Span    Range
	Line    int
	Column  int
	Message string
}

// Diagnostics collects all error leaves of the source's tree in document
// order.
func Diagnostics(s *Source) []Diagnostic {
	if !s.Root().Erroneous() {
		return nil
	}
	var diags []Diagnostic
	collectErrors(s, s.Root(), 0, &diags)
	return diags
}

func collectErrors(s *Source, node *SyntaxNode, offset int, diags *[]Diagnostic) {
	if node.IsLeaf() {
		if node.Kind() == KindError {
			line, column := s.LineColumn(offset)
			*diags = append(*diags, Diagnostic{
				Path:    s.Path(),
				Span:    NewRange(offset, offset+node.Len()),
				Line:    line,
				Column:  column,
				Message: node.ErrorMessage(),
			})
		}
		return
	}
	if !node.Erroneous() {
		return
	}
	for i := range node.Children() {
		child := &node.Children()[i]
		collectErrors(s, child, offset, diags)
		offset += child.Len()
	}
}
