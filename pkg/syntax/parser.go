package syntax

import (
	"math"
	"strings"
)

// Parse parses a complete source text into a markup tree. The resulting tree
// always spans the full text; syntax problems surface as error leaves.
func Parse(text string) SyntaxNode {
	p := newParser(text, ModeMarkup)
	markup(p, true)
	children := p.finish()
	return children[0]
}

// lineMarkupIndent marks markup runs that must stay on a single line.
const lineMarkupIndent = math.MaxInt

// parser builds a flat list of children for the innermost construct. Markers
// remember positions in that list so finished constructs can be wrapped into
// inner nodes after the fact.
type parser struct {
	lexer      *Lexer
	hasCurrent bool
	current    SyntaxNode

	// currentStart and currentEnd delimit the current token. prevEnd is the
	// end of the last consumed token; it differs from currentStart when
	// trivia was absorbed in between.
	currentStart int
	currentEnd   int
	prevEnd      int

	groups   []groupEntry
	children []SyntaxNode

	// unterminatedGroup is set when a group had to end without its closing
	// delimiter; strayTerminator when a closing delimiter appeared that
	// belongs to no open group. Both poison incremental reuse.
	unterminatedGroup bool
	strayTerminator   bool
}

type group uint8

const (
	groupParen group = iota
	groupBracket
	groupBrace
	groupStrong
	groupEmph
	groupExpr
)

type groupEntry struct {
	group    group
	prevMode Mode
}

// groupMode returns the token grammar active inside a group.
func groupMode(g group) Mode {
	switch g {
	case groupBracket, groupStrong, groupEmph:
		return ModeMarkup
	default:
		return ModeCode
	}
}

func newParser(text string, mode Mode) *parser {
	return newParserWithPrefix("", text, mode)
}

func newParserWithPrefix(prefix, text string, mode Mode) *parser {
	p := &parser{lexer: NewLexerWithPrefix(prefix, text, mode)}
	p.fetchCurrent()
	return p
}

func (p *parser) fetchCurrent() {
	p.currentStart = p.lexer.Cursor()
	p.current, p.hasCurrent = p.lexer.Next()
	p.currentEnd = p.lexer.Cursor()
}

// finish returns the accumulated children.
func (p *parser) finish() []SyntaxNode { return p.children }

// consume returns the children and whether the last token was properly
// closed. It fails when grouping state is unbalanced, which makes the result
// unusable for incremental splicing.
func (p *parser) consume() ([]SyntaxNode, bool, bool) {
	if len(p.groups) > 0 || p.unterminatedGroup || p.strayTerminator {
		return nil, false, false
	}
	return p.children, p.lexer.Terminated(), true
}

// eat pushes the current token into the children and advances. In code mode,
// trivia after the token is absorbed immediately so that the next current
// token is always significant.
func (p *parser) eat() {
	if !p.hasCurrent {
		return
	}
	p.children = append(p.children, p.current)
	p.prevEnd = p.currentEnd
	p.fetchCurrent()
	if p.lexer.Mode() == ModeCode {
		p.absorbTrivia()
	}
}

func (p *parser) absorbTrivia() {
	for p.hasCurrent {
		switch p.current.Kind() {
		case KindSpace:
			// A newline terminates an expression group, so it must stay
			// visible there.
			if p.spaceEndsGroup(p.current.Text()) {
				return
			}
		case KindLineComment, KindBlockComment:
		default:
			return
		}
		p.children = append(p.children, p.current)
		p.fetchCurrent()
	}
}

func (p *parser) spaceEndsGroup(text string) bool {
	if len(p.groups) == 0 {
		return false
	}
	innermost := p.groups[len(p.groups)-1]
	return innermost.group == groupExpr && strings.ContainsAny(text, newlineChars)
}

// eof reports whether parsing of the innermost construct is done: either the
// text ran out or the current token terminates an active group.
func (p *parser) eof() bool {
	if !p.hasCurrent {
		return true
	}
	kind := p.current.Kind()
	if len(p.groups) > 0 {
		innermost := p.groups[len(p.groups)-1]
		if kind == terminatorOf(innermost.group) {
			return true
		}
		if innermost.group == groupExpr {
			if kind == KindSemicolon {
				return true
			}
			if kind.IsSpace() && strings.ContainsAny(p.current.Text(), newlineChars) {
				return true
			}
		}
	}
	if kind.isCloser() {
		for _, entry := range p.groups {
			if kind == terminatorOf(entry.group) {
				return true
			}
		}
	}
	return false
}

func terminatorOf(g group) SyntaxKind {
	switch g {
	case groupParen:
		return KindRightParen
	case groupBracket:
		return KindRightBracket
	case groupBrace:
		return KindRightBrace
	case groupStrong:
		return KindStar
	case groupEmph:
		return KindUnderscore
	default:
		return KindSemicolon
	}
}

func (p *parser) peek() (SyntaxKind, bool) {
	if p.eof() {
		return 0, false
	}
	return p.current.Kind(), true
}

// peekDirect is like peek but only when no trivia separates the current
// token from the previous one.
func (p *parser) peekDirect() (SyntaxKind, bool) {
	if p.eof() || p.currentStart != p.prevEnd {
		return 0, false
	}
	return p.current.Kind(), true
}

func (p *parser) at(kind SyntaxKind) bool {
	k, ok := p.peek()
	return ok && k == kind
}

func (p *parser) eatIf(kind SyntaxKind) bool {
	if p.at(kind) {
		p.eat()
		return true
	}
	return false
}

func (p *parser) eatWhile(pred func(*SyntaxNode) bool) {
	for !p.eof() && pred(&p.current) {
		p.eat()
	}
}

// assert consumes the current token, which the caller has already checked.
func (p *parser) assert(kind SyntaxKind) {
	if !p.hasCurrent || p.current.Kind() != kind {
		panic("parser: expected " + kind.Name())
	}
	p.eat()
}

// switchMode changes the token grammar and re-lexes the pending token under
// the new one.
func (p *parser) switchMode(mode Mode) {
	if p.lexer.Mode() == mode {
		return
	}
	p.lexer.SetMode(mode)
	if p.hasCurrent {
		p.lexer.Jump(p.currentStart)
		p.fetchCurrent()
	}
	if mode == ModeCode {
		p.absorbTrivia()
	}
}

// startGroup opens a delimited group, eating the opening delimiter and
// switching the token grammar.
func (p *parser) startGroup(g group) {
	p.groups = append(p.groups, groupEntry{group: g, prevMode: p.lexer.Mode()})
	p.switchMode(groupMode(g))
	switch g {
	case groupParen:
		p.assert(KindLeftParen)
	case groupBracket:
		p.assert(KindLeftBracket)
	case groupBrace:
		p.assert(KindLeftBrace)
	case groupStrong:
		p.assert(KindStar)
	case groupEmph:
		p.assert(KindUnderscore)
	case groupExpr:
	}
}

// endGroup closes the innermost group, eating its terminator if present.
func (p *parser) endGroup() {
	entry := p.groups[len(p.groups)-1]
	p.groups = p.groups[:len(p.groups)-1]
	p.switchMode(entry.prevMode)
	if entry.group == groupExpr {
		if p.hasCurrent && p.current.Kind() == KindSemicolon {
			p.eat()
		}
		return
	}
	term := terminatorOf(entry.group)
	if p.hasCurrent && p.current.Kind() == term {
		p.eat()
	} else {
		p.children = append(p.children, NewError("expected "+term.Name(), ""))
		p.unterminatedGroup = true
	}
}

// marker is a position in the children list.
type marker int

func (p *parser) marker() marker { return marker(len(p.children)) }

// triviaStart returns the index before the run of trailing trivia.
func (p *parser) triviaStart() int {
	i := len(p.children)
	for i > 0 {
		switch p.children[i-1].Kind() {
		case KindSpace, KindParbreak, KindLineComment, KindBlockComment:
			i--
		default:
			return i
		}
	}
	return i
}

// end wraps the children after the marker into an inner node. Trailing
// trivia stays outside the node; markup runs keep it because they represent
// contiguous stretches of source.
func (m marker) end(p *parser, kind SyntaxKind) {
	until := len(p.children)
	if kind != KindMarkup {
		until = p.triviaStart()
		if until < int(m) {
			until = len(p.children)
		}
	}
	wrapped := append([]SyntaxNode(nil), p.children[m:until]...)
	node := NewInner(kind, wrapped)
	rest := append([]SyntaxNode{node}, p.children[until:]...)
	p.children = append(p.children[:m], rest...)
}

// endMarkup wraps the children after the marker into a markup run carrying
// its parse parameters.
func (m marker) endMarkup(p *parser, indent int, atStart bool) {
	wrapped := append([]SyntaxNode(nil), p.children[m:]...)
	node := newMarkup(indent, atStart, wrapped)
	p.children = append(p.children[:m], node)
}

// after returns the node right after the marker, if any.
func (m marker) after(p *parser) *SyntaxNode {
	if int(m) < len(p.children) {
		return &p.children[m]
	}
	return nil
}

// convertToText changes the node at the marker into a text leaf, keeping its
// source text.
func (m marker) convertToText(p *parser) {
	node := &p.children[m]
	*node = NewLeaf(KindText, node.Text())
}

// mergeToText fuses all nodes after the marker into a single text leaf.
func (m marker) mergeToText(p *parser) {
	var sb strings.Builder
	for i := int(m); i < len(p.children); i++ {
		sb.WriteString(p.children[i].Text())
	}
	p.children = append(p.children[:m], NewLeaf(KindText, sb.String()))
}

func (p *parser) perform(kind SyntaxKind, f func(*parser)) {
	m := p.marker()
	f(p)
	m.end(p, kind)
}

func (p *parser) performResult(kind SyntaxKind, f func(*parser) bool) bool {
	m := p.marker()
	ok := f(p)
	m.end(p, kind)
	return ok
}

// expected records a missing-token error without consuming anything.
func (p *parser) expected(what string) {
	p.children = append(p.children, NewError("expected "+what, ""))
}

// expectedAt records a missing-token error at an earlier position.
func (p *parser) expectedAt(m marker, what string) {
	rest := append([]SyntaxNode{NewError("expected "+what, "")}, p.children[m:]...)
	p.children = append(p.children[:m], rest...)
}

// expectedFound consumes the offending token as an error leaf. Consuming
// guarantees progress for all callers.
func (p *parser) expectedFound(what string) {
	if !p.hasCurrent || p.eof() {
		p.expected(what)
		return
	}
	msg := "expected " + what + ", found " + p.current.Kind().Name()
	p.convertCurrentToError(msg)
}

// unexpected consumes the current token as an error leaf.
func (p *parser) unexpected() {
	if !p.hasCurrent {
		return
	}
	p.convertCurrentToError("unexpected " + p.current.Kind().Name())
}

func (p *parser) convertCurrentToError(msg string) {
	if p.current.Kind().isCloser() {
		p.strayTerminator = true
	}
	m := p.marker()
	p.eat()
	p.children[m] = NewError(msg, p.children[m].Text())
}

func containsNewline(text string) bool {
	return strings.ContainsAny(text, newlineChars)
}

func sameLineSpace(n *SyntaxNode) bool {
	return n.Kind() == KindSpace && !containsNewline(n.Text())
}

// dedents reports whether the current token is a line break that falls below
// the minimum indent.
func (p *parser) dedents(minIndent int) bool {
	if !p.hasCurrent {
		return false
	}
	kind := p.current.Kind()
	if !kind.IsSpace() || !containsNewline(p.current.Text()) {
		return false
	}
	return p.lexer.Column(p.currentEnd) < minIndent
}

// markup parses a markup run until the group or text ends.
func markup(p *parser, atStart bool) {
	m := p.marker()
	initial := atStart
	for !p.eof() {
		markupNode(p, &atStart)
	}
	m.endMarkup(p, 0, initial)
}

// markupIndented parses a markup run that extends over all following lines
// indented at least to the given column.
func markupIndented(p *parser, minIndent int) {
	p.eatWhile(func(n *SyntaxNode) bool {
		switch n.Kind() {
		case KindSpace:
			return !containsNewline(n.Text())
		case KindLineComment, KindBlockComment:
			return true
		default:
			return false
		}
	})
	m := p.marker()
	atStart := false
	for !p.eof() && !p.dedents(minIndent) {
		markupNode(p, &atStart)
	}
	m.endMarkup(p, minIndent, false)
}

// markupLine parses a markup run that may not leave its line.
func markupLine(p *parser) {
	m := p.marker()
	atStart := false
	for !p.eof() && !p.dedents(lineMarkupIndent) {
		markupNode(p, &atStart)
	}
	m.endMarkup(p, lineMarkupIndent, false)
}

func markupNode(p *parser, atStart *bool) {
	kind, ok := p.peek()
	if !ok {
		return
	}

	switch kind {
	case KindSpace, KindParbreak:
		if kind == KindParbreak || containsNewline(p.current.Text()) {
			*atStart = true
		}
		p.eat()
		return
	case KindLineComment, KindBlockComment:
		p.eat()
		return
	}

	switch kind {
	case KindText, KindEscape, KindShorthand, KindLinebreak, KindRaw:
		p.eat()
	case KindEq:
		heading(p, *atStart)
	case KindMinus:
		listItem(p, *atStart)
	case KindPlus, KindEnumNumbering:
		enumItem(p, *atStart)
	case KindStar:
		strongEmph(p, KindStrong, groupStrong)
	case KindUnderscore:
		strongEmph(p, KindEmph, groupEmph)
	case KindLeftBrace:
		codeBlock(p)
	case KindLeftBracket:
		contentBlock(p)
	case KindSemicolon, KindColon:
		m := p.marker()
		p.eat()
		m.convertToText(p)
	case KindIdent, KindLet, KindIf, KindWhile, KindFor,
		KindBreak, KindContinue, KindReturn:
		embeddedExpr(p)
	case KindError:
		p.eat()
	default:
		p.unexpected()
	}
	// Error leaves fall through here too: like any other non-trivia node
	// they end the line-start context.
	*atStart = false
}

// heading parses `= body`. Markers that do not start a line degrade to text.
func heading(p *parser, atStart bool) {
	m := p.marker()
	p.assert(KindEq)
	for p.at(KindEq) {
		p.eat()
	}

	kind, ok := p.peek()
	if atStart && (!ok || kind.IsSpace()) {
		p.eatWhile(sameLineSpace)
		markupLine(p)
		m.end(p, KindHeading)
	} else {
		m.mergeToText(p)
	}
}

// listItem parses `- body` with an indent-scoped body.
func listItem(p *parser, atStart bool) {
	m := p.marker()
	p.assert(KindMinus)
	minIndent := p.lexer.Column(p.prevEnd)

	if atStart && p.eatIfSameLineSpace() && !p.eof() {
		markupIndented(p, minIndent)
		m.end(p, KindListItem)
	} else {
		m.convertToText(p)
	}
}

// enumItem parses `+ body` or `N. body` with an indent-scoped body.
func enumItem(p *parser, atStart bool) {
	m := p.marker()
	p.eat() // plus or numbering
	minIndent := p.lexer.Column(p.prevEnd)

	if atStart && p.eatIfSameLineSpace() && !p.eof() {
		markupIndented(p, minIndent)
		m.end(p, KindEnumItem)
	} else {
		m.convertToText(p)
	}
}

func (p *parser) eatIfSameLineSpace() bool {
	if p.hasCurrent && !p.eof() && sameLineSpace(&p.current) {
		p.eat()
		return true
	}
	return false
}

func strongEmph(p *parser, kind SyntaxKind, g group) {
	p.perform(kind, func(p *parser) {
		p.startGroup(g)
		markup(p, false)
		p.endGroup()
	})
}

// codeBlock parses `{...}`.
func codeBlock(p *parser) {
	p.perform(KindCodeBlock, func(p *parser) {
		p.startGroup(groupBrace)
		code(p)
		p.endGroup()
	})
}

func code(p *parser) {
	for !p.eof() {
		p.startGroup(groupExpr)
		if expr(p) && !p.eof() {
			p.expected("semicolon or line break")
		}
		p.endGroup()

		// Expression groups cannot contain the newlines that separate them.
		p.eatWhile(func(n *SyntaxNode) bool { return n.Kind().IsSpace() })
	}
}

// contentBlock parses `[...]`.
func contentBlock(p *parser) {
	p.perform(KindContentBlock, func(p *parser) {
		p.startGroup(groupBracket)
		markup(p, true)
		p.endGroup()
	})
}

// embeddedExpr parses a hash expression inside markup. The expression is
// atomic: no top-level binary operators, so surrounding prose stays prose.
func embeddedExpr(p *parser) {
	p.startGroup(groupExpr)
	exprPrec(p, true, 0)
	p.endGroup()
}

func expr(p *parser) bool {
	return exprPrec(p, false, 0)
}

// exprPrec parses an expression with operators of at least the given
// precedence.
func exprPrec(p *parser, atomic bool, minPrec int) bool {
	m := p.marker()

	kind, ok := p.peek()
	if !ok {
		p.expected("expression")
		return false
	}

	if prec, isUnary := unaryPrec(kind); isUnary && !atomic {
		p.eat()
		ok := exprPrec(p, atomic, prec)
		m.end(p, KindUnary)
		if !ok {
			return false
		}
	} else if !primary(p, atomic) {
		return false
	}

	for {
		if k, ok := p.peekDirect(); ok && (k == KindLeftParen || k == KindLeftBracket) {
			ok := args(p)
			m.end(p, KindFuncCall)
			if !ok {
				return false
			}
			continue
		}

		if atomic {
			break
		}

		kind, ok := p.peek()
		if !ok {
			break
		}
		op, isBinary := binaryOps[kind]
		if !isBinary || op.prec < minPrec {
			break
		}

		p.eat()
		prec := op.prec
		if !op.rightAssoc {
			prec++
		}
		ok = exprPrec(p, atomic, prec)
		m.end(p, KindBinary)
		if !ok {
			return false
		}
	}
	return true
}

func unaryPrec(kind SyntaxKind) (int, bool) {
	switch kind {
	case KindPlus, KindMinus:
		return 7, true
	case KindNot:
		return 4, true
	default:
		return 0, false
	}
}

type binaryOp struct {
	prec       int
	rightAssoc bool
}

var binaryOps = map[SyntaxKind]binaryOp{
	KindEq:     {prec: 1, rightAssoc: true},
	KindOr:     {prec: 2},
	KindAnd:    {prec: 3},
	KindEqEq:   {prec: 4},
	KindBangEq: {prec: 4},
	KindLt:     {prec: 4},
	KindLtEq:   {prec: 4},
	KindGt:     {prec: 4},
	KindGtEq:   {prec: 4},
	KindPlus:   {prec: 5},
	KindMinus:  {prec: 5},
	KindStar:   {prec: 6},
	KindSlash:  {prec: 6},
}

func primary(p *parser, atomic bool) bool {
	kind, ok := p.peek()
	if !ok {
		p.expected("expression")
		return false
	}

	switch kind {
	case KindNone, KindAuto, KindInt, KindFloat, KindBool, KindStr, KindRaw,
		KindIdent:
		p.eat()
		return true
	case KindLeftParen:
		return parenthesized(p)
	case KindLeftBrace:
		codeBlock(p)
		return true
	case KindLeftBracket:
		contentBlock(p)
		return true
	case KindLet:
		return letBinding(p)
	case KindIf:
		return conditional(p)
	case KindWhile:
		return whileLoop(p)
	case KindFor:
		return forLoop(p)
	case KindBreak:
		return keywordStmt(p, KindLoopBreak, KindBreak)
	case KindContinue:
		return keywordStmt(p, KindLoopContinue, KindContinue)
	case KindReturn:
		return returnStmt(p)
	case KindError:
		p.eat()
		return false
	default:
		p.expectedFound("expression")
		return false
	}
}

func ident(p *parser) bool {
	if p.at(KindIdent) {
		p.eat()
		return true
	}
	p.expectedFound("identifier")
	return false
}

// parenthesized parses `(...)`: a grouped expression or an array literal.
func parenthesized(p *parser) bool {
	m := p.marker()
	p.startGroup(groupParen)
	kind, items := collection(p)
	p.endGroup()

	if kind == collectionGrouped && items == 1 {
		m.end(p, KindParenthesized)
	} else {
		m.end(p, KindArray)
	}
	return true
}

type collectionKind uint8

const (
	collectionGrouped collectionKind = iota
	collectionPositional
)

// collection parses a comma-separated list of items.
func collection(p *parser) (collectionKind, int) {
	items := 0
	canGroup := true
	missingComma := marker(-1)

	for !p.eof() {
		if !item(p) {
			p.eatIf(KindComma)
			canGroup = false
			continue
		}
		items++

		if missingComma >= 0 {
			p.expectedAt(missingComma, "comma")
			missingComma = -1
		}
		if p.eof() {
			break
		}
		if p.eatIf(KindComma) {
			canGroup = false
		} else {
			missingComma = marker(p.triviaStart())
		}
	}

	if canGroup && items == 1 {
		return collectionGrouped, items
	}
	return collectionPositional, items
}

// item parses a collection element: an expression or a named pair.
func item(p *parser) bool {
	m := p.marker()
	if !expr(p) {
		return false
	}

	if !p.at(KindColon) {
		return true
	}

	if first := m.after(p); first != nil && first.Kind() == KindIdent {
		p.eat() // colon
		ok := expr(p)
		m.end(p, KindNamed)
		return ok
	}

	p.expectedFound("identifier")
	return false
}

// args parses a call argument list: parenthesized arguments and/or trailing
// content blocks.
func args(p *parser) bool {
	k, ok := p.peekDirect()
	if !ok || (k != KindLeftParen && k != KindLeftBracket) {
		p.expectedFound("argument list")
		return false
	}

	m := p.marker()
	if k == KindLeftParen {
		p.startGroup(groupParen)
		collection(p)
		p.endGroup()
	}
	for {
		k, ok := p.peekDirect()
		if !ok || k != KindLeftBracket {
			break
		}
		contentBlock(p)
	}
	m.end(p, KindArgs)
	return true
}

func letBinding(p *parser) bool {
	return p.performResult(KindLetBinding, func(p *parser) bool {
		p.assert(KindLet)
		if !ident(p) {
			return false
		}
		if p.eatIf(KindEq) {
			return expr(p)
		}
		return true
	})
}

func conditional(p *parser) bool {
	return p.performResult(KindConditional, func(p *parser) bool {
		p.assert(KindIf)
		if !expr(p) || !body(p) {
			return false
		}
		if p.eatIf(KindElse) {
			if p.at(KindIf) {
				return conditional(p)
			}
			return body(p)
		}
		return true
	})
}

func whileLoop(p *parser) bool {
	return p.performResult(KindWhileLoop, func(p *parser) bool {
		p.assert(KindWhile)
		return expr(p) && body(p)
	})
}

func forLoop(p *parser) bool {
	return p.performResult(KindForLoop, func(p *parser) bool {
		p.assert(KindFor)
		if !forPattern(p) {
			return false
		}
		if !p.eatIf(KindIn) {
			p.expectedFound("keyword `in`")
			return false
		}
		return expr(p) && body(p)
	})
}

func forPattern(p *parser) bool {
	return p.performResult(KindForPattern, func(p *parser) bool {
		if !ident(p) {
			return false
		}
		if p.eatIf(KindComma) {
			return ident(p)
		}
		return true
	})
}

func keywordStmt(p *parser, kind, keyword SyntaxKind) bool {
	return p.performResult(kind, func(p *parser) bool {
		p.assert(keyword)
		return true
	})
}

func returnStmt(p *parser) bool {
	return p.performResult(KindFuncReturn, func(p *parser) bool {
		p.assert(KindReturn)
		if !p.eof() {
			return expr(p)
		}
		return true
	})
}

// body parses the body of a conditional or loop: a code or content block.
func body(p *parser) bool {
	switch kind, _ := p.peek(); kind {
	case KindLeftBracket:
		contentBlock(p)
		return true
	case KindLeftBrace:
		codeBlock(p)
		return true
	default:
		p.expected("body")
		return false
	}
}

// reparseCodeBlock re-parses a braced code block that must cover exactly
// [0, endPos) of text. It returns the replacement children, whether the last
// token was terminated, and how many old children are superseded.
func reparseCodeBlock(prefix, text string, endPos int) ([]SyntaxNode, bool, int, bool) {
	p := newParserWithPrefix(prefix, text, ModeCode)
	if !p.at(KindLeftBrace) {
		return nil, false, 0, false
	}
	codeBlock(p)

	children, terminated, ok := p.consume()
	if !ok || len(children) == 0 || children[0].Len() != endPos {
		return nil, false, 0, false
	}
	return children[:1], terminated, 1, true
}

// reparseContentBlock re-parses a bracketed content block that must cover
// exactly [0, endPos) of text.
func reparseContentBlock(prefix, text string, endPos int) ([]SyntaxNode, bool, int, bool) {
	p := newParserWithPrefix(prefix, text, ModeCode)
	if !p.at(KindLeftBracket) {
		return nil, false, 0, false
	}
	contentBlock(p)

	children, terminated, ok := p.consume()
	if !ok || len(children) == 0 || children[0].Len() != endPos {
		return nil, false, 0, false
	}
	return children[:1], terminated, 1, true
}

// reparseMarkupElements re-parses a run of markup elements, stopping as soon
// as the new elements converge with the old reference siblings. endPos is
// the last position (relative to text) the edit touched; differential is the
// length change the old sibling offsets must be shifted by. The returned
// count says how many reference siblings are superseded.
func reparseMarkupElements(
	prefix, text string,
	endPos, differential int,
	reference []SyntaxNode,
	atStart bool,
	minIndent int,
) ([]SyntaxNode, bool, int, bool) {
	p := newParserWithPrefix(prefix, text, ModeMarkup)

	var node *SyntaxNode
	next := 0
	offset := differential
	replaced := 0
	stopped := false

outer:
	for !p.eof() {
		// A dedent means the following elements belong to an outer
		// construct; this run cannot absorb them.
		if p.dedents(minIndent) {
			return nil, false, 0, false
		}

		markupNode(p, &atStart)

		if p.prevEnd <= endPos || len(p.children) == 0 {
			continue
		}

		recent := &p.children[len(p.children)-1]
		recentStart := p.prevEnd - recent.Len()

		for offset <= recentStart {
			if node != nil {
				// The trees have converged: the same node at the same
				// position with the same content.
				if offset == recentStart && node.Equal(recent) {
					replaced--
					stopped = true
					break outer
				}
				offset += node.Len()
			} else if next >= len(reference) {
				break
			}
			if next < len(reference) {
				node = &reference[next]
			} else {
				node = nil
			}
			next++
			replaced++
		}
	}

	if p.eof() && !stopped {
		replaced = len(reference)
	}

	res, terminated, ok := p.consume()
	if !ok {
		return nil, false, 0, false
	}
	if stopped {
		res = res[:len(res)-1]
	}
	return res, terminated, replaced, true
}
