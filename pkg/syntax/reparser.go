package syntax

// Reparse updates the tree to match text after an edit. The edit replaced the
// byte range `replaced` of the previous text with `replacementLen` new bytes;
// text is the complete new text. The returned range delimits the part of the
// new text whose nodes were rebuilt; everything outside it was reused.
//
// When no enclosed subtree can absorb the edit, the whole text is parsed from
// scratch and the full range is returned.
func Reparse(root *SyntaxNode, text string, replaced Range, replacementLen int) Range {
	if r, ok := tryReparse(root, nil, text, replaced, replacementLen, true, 0); ok {
		return r
	}
	*root = Parse(text)
	return NewRange(0, len(text))
}

// nodePos locates a child inside its parent: its index and its byte offset
// relative to the parent's start.
type nodePos struct {
	idx    int
	offset int
}

type searchState uint8

const (
	// searchNone: the edit start has not been reached yet.
	searchNone searchState = iota
	// searchContained: the edit lies strictly inside a single child.
	searchContained
	// searchInside: the edit starts in a child but extends past its end.
	searchInside
	// searchRequireNonTrivia: the edit ends exactly on a child boundary; the
	// damage must extend over following trivia up to the next significant
	// sibling.
	searchRequireNonTrivia
	// searchSpanFound: the damaged span of children is complete.
	searchSpanFound
)

// aheadInfo remembers the last child before the edit that can anchor a
// widened reparse.
type aheadInfo struct {
	pos     nodePos
	end     int
	atStart bool
	node    *SyntaxNode
}

// tryReparse attempts to absorb the edit inside the given node, which starts
// at the absolute byte offset. parent is nil for the root. outermost reports
// whether the node's end coincides with the end of the document through the
// whole ancestor chain.
func tryReparse(
	node *SyntaxNode,
	parent *SyntaxNode,
	text string,
	replaced Range,
	replacementLen int,
	outermost bool,
	offset int,
) (Range, bool) {
	children := node.Children()
	if len(children) == 0 {
		return Range{}, false
	}
	isMarkup := node.Kind() == KindMarkup
	// Sibling-run replacement is sound only where markup is top-level or
	// directly inside a content block. In heading and list bodies the run's
	// extent is governed by indent and line scoping that a truncated reparse
	// cannot see, and inside strong/emph a new token can swallow the closing
	// delimiter beyond the node's end.
	runSafe := isMarkup && (parent == nil || parent.Kind() == KindContentBlock)

	rel := Range{Start: replaced.Start - offset, End: replaced.End - offset}

	state := searchNone
	atStart := node.initialAtStart()
	var damage nodePos
	var damageAtStart bool
	end := nodePos{idx: -1}
	var ahead *aheadInfo

	cursor := 0
scan:
	for i := range children {
		child := &children[i]
		childStart := cursor
		childEnd := cursor + child.Len()

		switch state {
		case searchNone:
			// Insertions on a boundary belong to the earlier child, so the
			// bounds are closed on both sides.
			if rel.Start <= childEnd {
				damage = nodePos{idx: i, offset: childStart}
				damageAtStart = atStart
				switch {
				case rel.End > childEnd:
					state = searchInside
					end = nodePos{idx: i, offset: childStart}
				case isMarkup && rel.End == childEnd:
					state = searchRequireNonTrivia
					end = nodePos{idx: i, offset: childStart}
				default:
					state = searchContained
					break scan
				}
			} else {
				switch {
				case child.Kind().IsSpace(),
					child.Kind() == KindSemicolon,
					child.Kind() == KindText && child.Text() == "/":
					// Cannot anchor a reparse.
				default:
					ahead = &aheadInfo{
						pos:     nodePos{idx: i, offset: childStart},
						end:     childEnd,
						atStart: atStart,
						node:    child,
					}
				}
				atStart = child.atStartTransition(atStart)
			}

		case searchInside:
			end = nodePos{idx: i, offset: childStart}
			switch {
			case childEnd == rel.End:
				state = searchRequireNonTrivia
			case childEnd > rel.End:
				state = searchSpanFound
				break scan
			}

		case searchRequireNonTrivia:
			// Trailing trivia is absorbed into the damage; the first
			// significant sibling validates the boundary and stays put.
			if !child.Kind().IsTrivia() {
				state = searchSpanFound
				break scan
			}
			end = nodePos{idx: i, offset: childStart}
		}

		cursor = childEnd
	}

	switch state {
	case searchContained:
		inner := node.ensureExclusive()
		child := &inner.children[damage.idx]
		childOutermost := outermost && damage.idx == len(inner.children)-1

		if !child.IsLeaf() {
			r, ok := tryReparse(
				child, node, text, replaced, replacementLen,
				childOutermost, offset+damage.offset,
			)
			if ok {
				inner.recompute()
				return r, true
			}
		}

		switch child.Kind() {
		case KindCodeBlock, KindContentBlock:
			return replaceBlock(
				node, text, offset, damage, replaced, replacementLen,
				childOutermost,
			)
		}
		if runSafe {
			from := damage
			fromAtStart := damageAtStart
			// A degraded marker keeps its meaning pinned to what follows
			// it: content appearing after `- ` revives the list item. The
			// run must restart at the marker even though the edit itself
			// is contained further right.
			if ahead != nil && ahead.node.onlyAtStart() {
				from = ahead.pos
				fromAtStart = ahead.atStart
			}
			return replaceRun(
				node, text, offset, from, damage, fromAtStart,
				replaced, replacementLen, outermost,
			)
		}
		return Range{}, false

	case searchInside, searchRequireNonTrivia, searchSpanFound:
		// Multi-child damage can only be healed by re-parsing a markup run.
		if !runSafe || end.idx < 0 {
			return Range{}, false
		}

		var from nodePos
		var startAtStart bool
		if ahead != nil &&
			(rel.Start == ahead.end || ahead.node.onlyAtStart() ||
				!ahead.node.Kind().onlyInMarkup()) {
			from = ahead.pos
			startAtStart = ahead.atStart
		} else {
			from = nodePos{}
			startAtStart = node.initialAtStart()
		}
		return replaceRun(
			node, text, offset, from, end, startAtStart,
			replaced, replacementLen, outermost,
		)

	default:
		return Range{}, false
	}
}

// replaceBlock re-parses a single code or content block child whose extent
// changed by the edit.
func replaceBlock(
	node *SyntaxNode,
	text string,
	offset int,
	pos nodePos,
	replaced Range,
	replacementLen int,
	outermost bool,
) (Range, bool) {
	children := node.Children()
	child := &children[pos.idx]
	differential := replacementLen - replaced.Len()

	start := offset + pos.offset
	newEnd := start + child.Len() + differential
	if newEnd < start || newEnd > len(text) {
		return Range{}, false
	}
	newborn := NewRange(start, newEnd)

	prefix := text[lastLineStart(text, newborn.Start):newborn.Start]
	parseText := text[newborn.Start:newborn.End]

	var res []SyntaxNode
	var terminated, ok bool
	var consumed int
	switch child.Kind() {
	case KindCodeBlock:
		res, terminated, consumed, ok = reparseCodeBlock(prefix, parseText, newborn.Len())
	case KindContentBlock:
		res, terminated, consumed, ok = reparseContentBlock(prefix, parseText, newborn.Len())
	default:
		return Range{}, false
	}
	if !ok || consumed != 1 {
		return Range{}, false
	}
	// An unterminated block may only stand at the very end of the document.
	if !terminated && !(outermost && newborn.End == len(text)) {
		return Range{}, false
	}

	node.replaceChildren(pos.idx, pos.idx+1, res)
	return newborn, true
}

// replaceRun re-parses the children of a markup run from the start position
// onward, splicing the new elements over the superseded old ones. The parse
// stops early once it converges with the old siblings.
func replaceRun(
	node *SyntaxNode,
	text string,
	offset int,
	start, end nodePos,
	atStart bool,
	replaced Range,
	replacementLen int,
	outermost bool,
) (Range, bool) {
	children := node.Children()
	endChild := &children[end.idx]
	differential := replacementLen - replaced.Len()

	spanStart := offset + start.offset
	spanEnd := offset + end.offset + endChild.Len() + differential
	nodeEndNew := offset + node.Len() + differential
	if spanEnd < spanStart || nodeEndNew > len(text) || spanEnd > nodeEndNew {
		return Range{}, false
	}
	newborn := NewRange(spanStart, spanEnd)

	prefix := text[lastLineStart(text, spanStart):spanStart]
	parseText := text[spanStart:nodeEndNew]
	endPos := replaced.Start + replacementLen - spanStart
	reference := children[start.idx:]

	res, terminated, count, ok := reparseMarkupElements(
		prefix, parseText, endPos, differential,
		reference, atStart, node.Indent(),
	)
	if !ok {
		return Range{}, false
	}
	if count > len(reference) {
		count = len(reference)
	}

	sum := 0
	for i := range res {
		sum += res[i].Len()
	}
	// An unterminated token may only stand at the very end of the document.
	if !terminated && !(outermost && spanStart+sum == len(text)) {
		return Range{}, false
	}

	// The replacement must cover exactly the superseded span plus the edit's
	// length change, or splicing would corrupt the cached lengths.
	old := 0
	for i := range reference[:count] {
		old += reference[i].Len()
	}
	if sum != old+differential {
		return Range{}, false
	}

	node.replaceChildren(start.idx, start.idx+count, res)

	endRange := newborn.End
	if covered := spanStart + sum; covered > endRange {
		endRange = covered
	}
	return NewRange(newborn.Start, endRange), true
}
