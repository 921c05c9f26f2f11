package syntax

import "strings"

// SyntaxKind classifies a node in the untyped syntax tree. Token kinds and
// composite kinds share one namespace because leaves and inner nodes are
// freely mixed in the tree.
type SyntaxKind uint16

const (
	// KindError marks a leaf carrying an error message. Error leaves may be
	// zero-length (for "expected X" messages) or cover skipped text.
	KindError SyntaxKind = iota

	// Trivia.
	KindSpace
	KindParbreak
	KindLineComment
	KindBlockComment

	// Markup tokens.
	KindText
	KindEscape
	KindLinebreak
	KindShorthand
	KindRaw
	KindStar
	KindUnderscore
	KindMinus
	KindPlus
	KindEnumNumbering
	KindSemicolon
	KindColon

	// Grouping tokens.
	KindLeftBrace
	KindRightBrace
	KindLeftBracket
	KindRightBracket
	KindLeftParen
	KindRightParen

	// Code tokens.
	KindIdent
	KindInt
	KindFloat
	KindStr
	KindBool
	KindNone
	KindAuto
	KindLet
	KindIf
	KindElse
	KindFor
	KindIn
	KindWhile
	KindBreak
	KindContinue
	KindReturn
	KindNot
	KindAnd
	KindOr
	KindEq
	KindEqEq
	KindBangEq
	KindLt
	KindLtEq
	KindGt
	KindGtEq
	KindSlash
	KindComma

	// Composite kinds.
	KindMarkup
	KindStrong
	KindEmph
	KindHeading
	KindListItem
	KindEnumItem
	KindCodeBlock
	KindContentBlock
	KindParenthesized
	KindArray
	KindNamed
	KindFuncCall
	KindArgs
	KindUnary
	KindBinary
	KindLetBinding
	KindConditional
	KindWhileLoop
	KindForLoop
	KindForPattern
	KindLoopBreak
	KindLoopContinue
	KindFuncReturn
)

var kindNames = map[SyntaxKind]string{
	KindError:         "error",
	KindSpace:         "space",
	KindParbreak:      "paragraph break",
	KindLineComment:   "line comment",
	KindBlockComment:  "block comment",
	KindText:          "text",
	KindEscape:        "escape sequence",
	KindLinebreak:     "line break",
	KindShorthand:     "shorthand",
	KindRaw:           "raw block",
	KindStar:          "star",
	KindUnderscore:    "underscore",
	KindMinus:         "minus",
	KindPlus:          "plus",
	KindEnumNumbering: "enumeration numbering",
	KindSemicolon:     "semicolon",
	KindColon:         "colon",
	KindLeftBrace:     "opening brace",
	KindRightBrace:    "closing brace",
	KindLeftBracket:   "opening bracket",
	KindRightBracket:  "closing bracket",
	KindLeftParen:     "opening paren",
	KindRightParen:    "closing paren",
	KindIdent:         "identifier",
	KindInt:           "integer",
	KindFloat:         "float",
	KindStr:           "string",
	KindBool:          "boolean",
	KindNone:          "none",
	KindAuto:          "auto",
	KindLet:           "keyword `let`",
	KindIf:            "keyword `if`",
	KindElse:          "keyword `else`",
	KindFor:           "keyword `for`",
	KindIn:            "keyword `in`",
	KindWhile:         "keyword `while`",
	KindBreak:         "keyword `break`",
	KindContinue:      "keyword `continue`",
	KindReturn:        "keyword `return`",
	KindNot:           "operator `not`",
	KindAnd:           "operator `and`",
	KindOr:            "operator `or`",
	KindEq:            "equals sign",
	KindEqEq:          "equality operator",
	KindBangEq:        "inequality operator",
	KindLt:            "less-than operator",
	KindLtEq:          "less-than or equal operator",
	KindGt:            "greater-than operator",
	KindGtEq:          "greater-than or equal operator",
	KindSlash:         "slash",
	KindComma:         "comma",
	KindMarkup:        "markup",
	KindStrong:        "strong content",
	KindEmph:          "emphasized content",
	KindHeading:       "heading",
	KindListItem:      "list item",
	KindEnumItem:      "enumeration item",
	KindCodeBlock:     "code block",
	KindContentBlock:  "content block",
	KindParenthesized: "group",
	KindArray:         "array",
	KindNamed:         "named pair",
	KindFuncCall:      "function call",
	KindArgs:          "call arguments",
	KindUnary:         "unary expression",
	KindBinary:        "binary expression",
	KindLetBinding:    "let binding",
	KindConditional:   "conditional expression",
	KindWhileLoop:     "while loop",
	KindForLoop:       "for loop",
	KindForPattern:    "for loop pattern",
	KindLoopBreak:     "break",
	KindLoopContinue:  "continue",
	KindFuncReturn:    "return",
}

// Name returns a human-readable description used in error messages.
func (k SyntaxKind) Name() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

func (k SyntaxKind) String() string { return k.Name() }

// IsTrivia reports whether nodes of this kind are insignificant for
// structure: whitespace, comments, and error leaves.
func (k SyntaxKind) IsTrivia() bool {
	switch k {
	case KindSpace, KindParbreak, KindLineComment, KindBlockComment, KindError:
		return true
	default:
		return false
	}
}

// IsSpace reports whether this kind is pure whitespace.
func (k SyntaxKind) IsSpace() bool {
	return k == KindSpace || k == KindParbreak
}

// IsError reports whether this is the error kind.
func (k SyntaxKind) IsError() bool { return k == KindError }

// onlyInMarkup reports whether nodes of this kind can exist exclusively in
// markup context. Text and raw blocks are excluded: they survive in other
// contexts and therefore anchor reuse decisions during reparsing.
func (k SyntaxKind) onlyInMarkup() bool {
	switch k {
	case KindEscape, KindLinebreak, KindShorthand, KindStar, KindUnderscore,
		KindMinus, KindPlus, KindEnumNumbering, KindColon,
		KindStrong, KindEmph, KindHeading, KindListItem, KindEnumItem:
		return true
	default:
		return false
	}
}

// isCloser reports whether this token closes a delimited group. A stray
// closer in a partial parse may belong to an enclosing construct and poisons
// incremental reuse.
func (k SyntaxKind) isCloser() bool {
	switch k {
	case KindRightBrace, KindRightBracket, KindRightParen:
		return true
	default:
		return false
	}
}

// onlyAtStart reports whether the node's meaning depends on starting a line.
// Degraded markers survive as text that still looks like a marker, so those
// are matched by content.
func (n *SyntaxNode) onlyAtStart() bool {
	switch n.Kind() {
	case KindHeading, KindListItem, KindEnumItem:
		return true
	case KindText:
		text := n.Text()
		if text == "-" || text == "+" || strings.HasSuffix(text, ".") {
			return true
		}
		return text != "" && strings.Trim(text, "=") == ""
	default:
		return false
	}
}

// atStartTransition computes whether the position after this node counts as
// the start of a line, given whether the position before it did.
func (n *SyntaxNode) atStartTransition(prev bool) bool {
	switch n.Kind() {
	case KindParbreak:
		return true
	case KindSpace:
		if strings.ContainsAny(n.Text(), newlineChars) {
			return true
		}
		return prev
	case KindLineComment, KindBlockComment:
		return prev
	default:
		// Error leaves reset the context like any other significant node;
		// the parser does the same after eating one.
		return false
	}
}
