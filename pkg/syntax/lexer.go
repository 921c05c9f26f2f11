package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mode selects which of the two token grammars the lexer applies.
type Mode uint8

const (
	// ModeMarkup lexes prose: text runs, markers, raw spans, escapes.
	ModeMarkup Mode = iota
	// ModeCode lexes the embedded expression language.
	ModeCode
)

// newlineChars are the characters that terminate a line.
const newlineChars = "\n\r\v\f\u0085\u2028\u2029"

func isNewline(r rune) bool {
	return strings.ContainsRune(newlineChars, r)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isDigit matches ASCII digits only; numbering and numbers are ASCII.
func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// keywords maps identifier text to keyword kinds in code mode.
var keywords = map[string]SyntaxKind{
	"let":      KindLet,
	"if":       KindIf,
	"else":     KindElse,
	"for":      KindFor,
	"in":       KindIn,
	"while":    KindWhile,
	"break":    KindBreak,
	"continue": KindContinue,
	"return":   KindReturn,
	"not":      KindNot,
	"and":      KindAnd,
	"or":       KindOr,
	"none":     KindNone,
	"auto":     KindAuto,
	"true":     KindBool,
	"false":    KindBool,
}

// hashKeywords are the keywords that may start an embedded expression
// directly in markup.
var hashKeywords = map[string]SyntaxKind{
	"let":      KindLet,
	"if":       KindIf,
	"for":      KindFor,
	"while":    KindWhile,
	"break":    KindBreak,
	"continue": KindContinue,
	"return":   KindReturn,
}

// textStoppers are the bytes that end a plain text run in markup mode.
const textStoppers = "\\/~-*_`=+#{}[];:"

// Lexer splits source text into leaf nodes. It can be seeded with a prefix
// that precedes the text on the same line; the prefix only affects column
// computation, never tokenization.
type Lexer struct {
	src        string
	prefix     string
	mode       Mode
	cursor     int
	terminated bool
}

// NewLexer creates a lexer over the full source.
func NewLexer(src string, mode Mode) *Lexer {
	return NewLexerWithPrefix("", src, mode)
}

// NewLexerWithPrefix creates a lexer whose column computations behave as if
// prefix preceded src.
func NewLexerWithPrefix(prefix, src string, mode Mode) *Lexer {
	return &Lexer{src: src, prefix: prefix, mode: mode, terminated: true}
}

// Mode returns the active token grammar.
func (l *Lexer) Mode() Mode { return l.mode }

// SetMode switches the token grammar. Callers must re-lex pending tokens by
// jumping back to their start.
func (l *Lexer) SetMode(mode Mode) { l.mode = mode }

// Cursor returns the current byte position.
func (l *Lexer) Cursor() int { return l.cursor }

// Jump repositions the lexer.
func (l *Lexer) Jump(cursor int) { l.cursor = cursor }

// Terminated reports whether the most recent token was properly closed. Only
// raw spans, block comments, and strings can be unterminated.
func (l *Lexer) Terminated() bool { return l.terminated }

// Column returns the column (in characters) of the byte index, taking the
// prefix into account.
func (l *Lexer) Column(index int) int {
	head := l.src[:index]
	if i := strings.LastIndexAny(head, newlineChars); i >= 0 {
		r, size := utf8.DecodeRuneInString(head[i:])
		// A carriage return followed by a line feed breaks the line after
		// the line feed.
		if r == '\r' && strings.HasPrefix(head[i+size:], "\n") {
			size++
		}
		return utf8.RuneCountInString(head[i+size:])
	}
	column := utf8.RuneCountInString(head)
	if i := strings.LastIndexAny(l.prefix, newlineChars); i >= 0 {
		_, size := utf8.DecodeRuneInString(l.prefix[i:])
		return utf8.RuneCountInString(l.prefix[i+size:]) + column
	}
	return utf8.RuneCountInString(l.prefix) + column
}

// Next returns the next token as a leaf node. The second result is false at
// the end of the text.
func (l *Lexer) Next() (SyntaxNode, bool) {
	if l.cursor >= len(l.src) {
		return SyntaxNode{}, false
	}
	l.terminated = true
	start := l.cursor
	r, size := utf8.DecodeRuneInString(l.src[start:])

	switch {
	case unicode.IsSpace(r):
		return l.whitespace(start), true
	case r == '/' && l.peekByte(start+1) == '/':
		return l.lineComment(start), true
	case r == '/' && l.peekByte(start+1) == '*':
		return l.blockComment(start), true
	case r == '`':
		return l.raw(start), true
	}

	if l.mode == ModeMarkup {
		return l.markupToken(start, r, size), true
	}
	return l.codeToken(start, r, size), true
}

func (l *Lexer) peekByte(i int) byte {
	if i < len(l.src) {
		return l.src[i]
	}
	return 0
}

func (l *Lexer) whitespace(start int) SyntaxNode {
	newlines := 0
	for l.cursor < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.cursor:])
		if !unicode.IsSpace(r) {
			break
		}
		if isNewline(r) {
			newlines++
			if r == '\r' && l.peekByte(l.cursor+size) == '\n' {
				size++
			}
		}
		l.cursor += size
	}
	text := l.src[start:l.cursor]
	if l.mode == ModeMarkup && newlines >= 2 {
		return NewLeaf(KindParbreak, text)
	}
	return NewLeaf(KindSpace, text)
}

func (l *Lexer) lineComment(start int) SyntaxNode {
	l.cursor += 2
	for l.cursor < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.cursor:])
		if isNewline(r) {
			break
		}
		l.cursor += size
	}
	return NewLeaf(KindLineComment, l.src[start:l.cursor])
}

func (l *Lexer) blockComment(start int) SyntaxNode {
	l.cursor += 2
	depth := 1
	for l.cursor < len(l.src) && depth > 0 {
		switch {
		case l.peekByte(l.cursor) == '/' && l.peekByte(l.cursor+1) == '*':
			depth++
			l.cursor += 2
		case l.peekByte(l.cursor) == '*' && l.peekByte(l.cursor+1) == '/':
			depth--
			l.cursor += 2
		default:
			_, size := utf8.DecodeRuneInString(l.src[l.cursor:])
			l.cursor += size
		}
	}
	if depth > 0 {
		l.terminated = false
	}
	return NewLeaf(KindBlockComment, l.src[start:l.cursor])
}

func (l *Lexer) raw(start int) SyntaxNode {
	backticks := 0
	for l.peekByte(l.cursor) == '`' {
		backticks++
		l.cursor++
	}

	// `` is a complete empty raw span.
	if backticks == 2 {
		return NewLeaf(KindRaw, l.src[start:l.cursor])
	}

	found := 0
	for l.cursor < len(l.src) && found < backticks {
		if l.src[l.cursor] == '`' {
			found++
		} else {
			found = 0
		}
		_, size := utf8.DecodeRuneInString(l.src[l.cursor:])
		l.cursor += size
	}
	if found < backticks {
		l.terminated = false
	}
	return NewLeaf(KindRaw, l.src[start:l.cursor])
}

func (l *Lexer) markupToken(start int, r rune, size int) SyntaxNode {
	switch r {
	case '\\':
		l.cursor += size
		if l.cursor >= len(l.src) {
			return NewLeaf(KindLinebreak, l.src[start:l.cursor])
		}
		next, nextSize := utf8.DecodeRuneInString(l.src[l.cursor:])
		if unicode.IsSpace(next) {
			return NewLeaf(KindLinebreak, l.src[start:l.cursor])
		}
		l.cursor += nextSize
		return NewLeaf(KindEscape, l.src[start:l.cursor])
	case '~':
		l.cursor++
		return NewLeaf(KindShorthand, "~")
	case '-':
		if strings.HasPrefix(l.src[start:], "---") {
			l.cursor += 3
			return NewLeaf(KindShorthand, "---")
		}
		if strings.HasPrefix(l.src[start:], "--") {
			l.cursor += 2
			return NewLeaf(KindShorthand, "--")
		}
		l.cursor++
		return NewLeaf(KindMinus, "-")
	case '*':
		l.cursor++
		return NewLeaf(KindStar, "*")
	case '_':
		l.cursor++
		return NewLeaf(KindUnderscore, "_")
	case '=':
		l.cursor++
		return NewLeaf(KindEq, "=")
	case '+':
		l.cursor++
		return NewLeaf(KindPlus, "+")
	case '{':
		l.cursor++
		return NewLeaf(KindLeftBrace, "{")
	case '}':
		l.cursor++
		return NewLeaf(KindRightBrace, "}")
	case '[':
		l.cursor++
		return NewLeaf(KindLeftBracket, "[")
	case ']':
		l.cursor++
		return NewLeaf(KindRightBracket, "]")
	case ';':
		l.cursor++
		return NewLeaf(KindSemicolon, ";")
	case ':':
		l.cursor++
		return NewLeaf(KindColon, ":")
	case '#':
		return l.hash(start)
	case '/':
		// A lone slash: kept as its own text token because a later edit can
		// fuse it with a following slash or star into a comment.
		l.cursor++
		return NewLeaf(KindText, "/")
	case '.':
		if strings.HasPrefix(l.src[start:], "...") {
			l.cursor += 3
			return NewLeaf(KindShorthand, "...")
		}
	}

	if isDigit(byte(r)) {
		end := start
		for end < len(l.src) && isDigit(l.src[end]) {
			end++
		}
		if l.peekByte(end) == '.' {
			l.cursor = end + 1
			return NewLeaf(KindEnumNumbering, l.src[start:l.cursor])
		}
	}

	return l.text(start)
}

// hash lexes an embedded identifier or keyword; the hash belongs to the
// token.
func (l *Lexer) hash(start int) SyntaxNode {
	l.cursor++
	r, _ := utf8.DecodeRuneInString(l.src[l.cursor:])
	if l.cursor >= len(l.src) || !isIdentStart(r) {
		return NewError("expected identifier after hash", l.src[start:l.cursor])
	}
	name := l.identTail()
	if kind, ok := hashKeywords[name]; ok {
		return NewLeaf(kind, l.src[start:l.cursor])
	}
	return NewLeaf(KindIdent, l.src[start:l.cursor])
}

func (l *Lexer) identTail() string {
	start := l.cursor
	for l.cursor < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.cursor:])
		if !isIdentContinue(r) {
			break
		}
		l.cursor += size
	}
	return l.src[start:l.cursor]
}

func (l *Lexer) text(start int) SyntaxNode {
	for l.cursor < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.cursor:])
		if unicode.IsSpace(r) || strings.ContainsRune(textStoppers, r) {
			break
		}
		l.cursor += size
	}
	if l.cursor == start {
		// A stopper that reached the text path; consume it as text so the
		// lexer always makes progress.
		_, size := utf8.DecodeRuneInString(l.src[start:])
		l.cursor = start + size
	}
	return NewLeaf(KindText, l.src[start:l.cursor])
}

func (l *Lexer) codeToken(start int, r rune, size int) SyntaxNode {
	switch r {
	case '{':
		l.cursor++
		return NewLeaf(KindLeftBrace, "{")
	case '}':
		l.cursor++
		return NewLeaf(KindRightBrace, "}")
	case '[':
		l.cursor++
		return NewLeaf(KindLeftBracket, "[")
	case ']':
		l.cursor++
		return NewLeaf(KindRightBracket, "]")
	case '(':
		l.cursor++
		return NewLeaf(KindLeftParen, "(")
	case ')':
		l.cursor++
		return NewLeaf(KindRightParen, ")")
	case ',':
		l.cursor++
		return NewLeaf(KindComma, ",")
	case ';':
		l.cursor++
		return NewLeaf(KindSemicolon, ";")
	case ':':
		l.cursor++
		return NewLeaf(KindColon, ":")
	case '+':
		l.cursor++
		return NewLeaf(KindPlus, "+")
	case '-':
		l.cursor++
		return NewLeaf(KindMinus, "-")
	case '*':
		l.cursor++
		return NewLeaf(KindStar, "*")
	case '/':
		l.cursor++
		return NewLeaf(KindSlash, "/")
	case '=':
		if l.peekByte(start+1) == '=' {
			l.cursor += 2
			return NewLeaf(KindEqEq, "==")
		}
		l.cursor++
		return NewLeaf(KindEq, "=")
	case '!':
		if l.peekByte(start+1) == '=' {
			l.cursor += 2
			return NewLeaf(KindBangEq, "!=")
		}
	case '<':
		if l.peekByte(start+1) == '=' {
			l.cursor += 2
			return NewLeaf(KindLtEq, "<=")
		}
		l.cursor++
		return NewLeaf(KindLt, "<")
	case '>':
		if l.peekByte(start+1) == '=' {
			l.cursor += 2
			return NewLeaf(KindGtEq, ">=")
		}
		l.cursor++
		return NewLeaf(KindGt, ">")
	case '"':
		return l.str(start)
	case '#':
		// Embedded expressions re-lex their leading hash token under code
		// mode; it must produce the same token as markup mode.
		return l.hash(start)
	}

	if isDigit(byte(r)) {
		return l.number(start)
	}
	if isIdentStart(r) {
		l.identTail()
		name := l.src[start:l.cursor]
		if kind, ok := keywords[name]; ok {
			return NewLeaf(kind, name)
		}
		return NewLeaf(KindIdent, name)
	}

	l.cursor += size
	return NewError("unexpected character", l.src[start:l.cursor])
}

func (l *Lexer) str(start int) SyntaxNode {
	l.cursor++
	closed := false
	for l.cursor < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.cursor:])
		l.cursor += size
		if r == '\\' && l.cursor < len(l.src) {
			_, escSize := utf8.DecodeRuneInString(l.src[l.cursor:])
			l.cursor += escSize
			continue
		}
		if r == '"' {
			closed = true
			break
		}
	}
	if !closed {
		l.terminated = false
	}
	return NewLeaf(KindStr, l.src[start:l.cursor])
}

func (l *Lexer) number(start int) SyntaxNode {
	for l.cursor < len(l.src) && isDigit(l.src[l.cursor]) {
		l.cursor++
	}
	if l.peekByte(l.cursor) == '.' && isDigit(l.peekByte(l.cursor+1)) {
		l.cursor++
		for l.cursor < len(l.src) && isDigit(l.src[l.cursor]) {
			l.cursor++
		}
		return NewLeaf(KindFloat, l.src[start:l.cursor])
	}
	return NewLeaf(KindInt, l.src[start:l.cursor])
}

// lastLineStart returns the byte index of the start of the line containing
// pos.
func lastLineStart(text string, pos int) int {
	head := text[:pos]
	i := strings.LastIndexAny(head, newlineChars)
	if i < 0 {
		return 0
	}
	_, size := utf8.DecodeRuneInString(head[i:])
	if head[i] == '\r' && i+size < len(head) && head[i+size] == '\n' {
		size++
	}
	return i + size
}
