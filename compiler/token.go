package compiler

import "fmt"

// Span is a half-open byte range in the source text plus the 1-based
// line/column of its start. Spans are attached to every token and AST node
// and are never mutated after creation.
type Span struct {
	Start  int
	End    int
	Line   int
	Column int
}

func NewSpan(start, end, line, column int) Span {
	return Span{Start: start, End: end, Line: line, Column: column}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// TokenKind discriminates the token union.
type TokenKind int

const (
	KeywordToken TokenKind = iota
	SymbolToken
	IntegerToken
	StringToken
	IdentifierToken
)

// Token is one lexical element of a Jack source file. Exactly one of the
// payload fields is meaningful, selected by Kind. Tokens are immutable once
// produced by the tokenizer.
type Token struct {
	Kind    TokenKind
	Keyword Keyword // KeywordToken
	Symbol  byte    // SymbolToken
	IntVal  int     // IntegerToken, always in [0, 32767]
	Text    string  // StringToken and IdentifierToken
	Span    Span
}

func (t Token) String() string {
	switch t.Kind {
	case KeywordToken:
		return fmt.Sprintf("keyword '%s'", t.Keyword)
	case SymbolToken:
		return fmt.Sprintf("symbol '%c'", t.Symbol)
	case IntegerToken:
		return fmt.Sprintf("integer %d", t.IntVal)
	case StringToken:
		return fmt.Sprintf("string %q", t.Text)
	default:
		return fmt.Sprintf("identifier '%s'", t.Text)
	}
}

// Keyword is one of the 21 reserved words of the Jack language.
type Keyword int

const (
	KeywordClass Keyword = iota
	KeywordConstructor
	KeywordFunction
	KeywordMethod
	KeywordField
	KeywordStatic
	KeywordVar
	KeywordInt
	KeywordChar
	KeywordBoolean
	KeywordVoid
	KeywordTrue
	KeywordFalse
	KeywordNull
	KeywordThis
	KeywordLet
	KeywordDo
	KeywordIf
	KeywordElse
	KeywordWhile
	KeywordReturn
)

var keywordNames = map[Keyword]string{
	KeywordClass:       "class",
	KeywordConstructor: "constructor",
	KeywordFunction:    "function",
	KeywordMethod:      "method",
	KeywordField:       "field",
	KeywordStatic:      "static",
	KeywordVar:         "var",
	KeywordInt:         "int",
	KeywordChar:        "char",
	KeywordBoolean:     "boolean",
	KeywordVoid:        "void",
	KeywordTrue:        "true",
	KeywordFalse:       "false",
	KeywordNull:        "null",
	KeywordThis:        "this",
	KeywordLet:         "let",
	KeywordDo:          "do",
	KeywordIf:          "if",
	KeywordElse:        "else",
	KeywordWhile:       "while",
	KeywordReturn:      "return",
}

var keywords = map[string]Keyword{
	"class":       KeywordClass,
	"constructor": KeywordConstructor,
	"function":    KeywordFunction,
	"method":      KeywordMethod,
	"field":       KeywordField,
	"static":      KeywordStatic,
	"var":         KeywordVar,
	"int":         KeywordInt,
	"char":        KeywordChar,
	"boolean":     KeywordBoolean,
	"void":        KeywordVoid,
	"true":        KeywordTrue,
	"false":       KeywordFalse,
	"null":        KeywordNull,
	"this":        KeywordThis,
	"let":         KeywordLet,
	"do":          KeywordDo,
	"if":          KeywordIf,
	"else":        KeywordElse,
	"while":       KeywordWhile,
	"return":      KeywordReturn,
}

func (k Keyword) String() string {
	return keywordNames[k]
}

// LookupKeyword matches s against the reserved words, case-sensitive.
func LookupKeyword(s string) (Keyword, bool) {
	k, ok := keywords[s]
	return k, ok
}

// symbolSet is the closed set of 19 punctuation/operator characters.
var symbolSet = [256]bool{
	'{': true, '}': true, '(': true, ')': true, '[': true, ']': true,
	'.': true, ',': true, ';': true,
	'+': true, '-': true, '*': true, '/': true,
	'&': true, '|': true, '<': true, '>': true, '=': true, '~': true,
}

// IsSymbol reports whether c is a Jack symbol character.
func IsSymbol(c byte) bool {
	return symbolSet[c]
}
