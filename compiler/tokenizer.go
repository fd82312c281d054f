package compiler

import (
	"unicode/utf8"

	"github.com/zarko-visaurum/nand2tetris/util"
)

// maxJackInt is the largest integer constant representable on the target
// machine (15-bit positive range).
const maxJackInt = 32767

// Tokenizer converts Jack source text into a sequence of spanned tokens.
// Lexical errors are accumulated rather than aborting the scan, so a single
// pass reports as many problems as the error cap allows.
type Tokenizer struct {
	src        []rune
	pos        int
	byteOffset int
	line       int
	column     int
	errors     *ErrorList
}

func NewTokenizer(source string) *Tokenizer {
	return &Tokenizer{
		src:    []rune(source),
		line:   1,
		column: 1,
		errors: NewErrorList(),
	}
}

// Tokenize scans the whole input. On success the error slice is nil; on
// failure it is non-empty and the token slice must not be used.
func (t *Tokenizer) Tokenize() ([]Token, []*Error) {
	var tokens []Token
	for !t.atEnd() {
		t.skipWhitespaceAndComments()
		if t.atEnd() {
			break
		}
		if tok, ok := t.next(); ok {
			tokens = append(tokens, tok)
		}
		if t.errors.Full() {
			break
		}
	}
	if t.errors.HasErrors() {
		return nil, t.errors.Errors()
	}
	return tokens, nil
}

func (t *Tokenizer) atEnd() bool {
	return t.pos >= len(t.src)
}

func (t *Tokenizer) peek() rune {
	if t.atEnd() {
		return 0
	}
	return t.src[t.pos]
}

func (t *Tokenizer) peekNext() rune {
	if t.pos+1 >= len(t.src) {
		return 0
	}
	return t.src[t.pos+1]
}

func (t *Tokenizer) advance() rune {
	r := t.src[t.pos]
	t.pos++
	t.byteOffset += utf8.RuneLen(r)
	if r == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}
	return r
}

// skipWhitespaceAndComments consumes whitespace, // comments and /* */
// comments. Block comments nest: each inner /* bumps a depth counter that a
// matching */ decrements.
func (t *Tokenizer) skipWhitespaceAndComments() {
	for {
		for !t.atEnd() && util.IsSpace(t.peek()) {
			t.advance()
		}
		if t.peek() != '/' {
			return
		}
		switch t.peekNext() {
		case '/':
			t.advance()
			t.advance()
			for !t.atEnd() && t.peek() != '\n' {
				t.advance()
			}
		case '*':
			t.advance()
			t.advance()
			depth := 1
			for depth > 0 && !t.atEnd() {
				if t.peek() == '*' && t.peekNext() == '/' {
					t.advance()
					t.advance()
					depth--
				} else if t.peek() == '/' && t.peekNext() == '*' {
					t.advance()
					t.advance()
					depth++
				} else {
					t.advance()
				}
			}
		default:
			return
		}
	}
}

// next scans one token. Returns ok == false when the character at the cursor
// is not part of any token; the offending character is reported and dropped.
func (t *Tokenizer) next() (Token, bool) {
	startOffset := t.byteOffset
	startLine := t.line
	startColumn := t.column
	r := t.peek()

	if r < utf8.RuneSelf && IsSymbol(byte(r)) {
		t.advance()
		span := NewSpan(startOffset, t.byteOffset, startLine, startColumn)
		return Token{Kind: SymbolToken, Symbol: byte(r), Span: span}, true
	}
	if util.IsDigit(r) {
		return t.readInteger(startOffset, startLine, startColumn), true
	}
	if r == '"' {
		return t.readString(startOffset, startLine, startColumn), true
	}
	if util.IsIdentStart(r) {
		return t.readIdentifier(startOffset, startLine, startColumn), true
	}

	t.advance()
	span := NewSpan(startOffset, t.byteOffset, startLine, startColumn)
	t.errors.Push(lexicalErr(span, "unexpected character '%c'", r))
	return Token{}, false
}

// readInteger accumulates digits with saturating arithmetic. A literal past
// 32767 is clamped in the returned token and reported as an error, keeping
// the token stream well formed for downstream stages.
func (t *Tokenizer) readInteger(startOffset, startLine, startColumn int) Token {
	value := 0
	overflow := false
	for !t.atEnd() && util.IsDigit(t.peek()) {
		d := int(t.advance() - '0')
		if value <= maxJackInt {
			value = value*10 + d
		}
		if value > maxJackInt {
			overflow = true
			value = maxJackInt + 1
		}
	}
	span := NewSpan(startOffset, t.byteOffset, startLine, startColumn)
	if overflow {
		t.errors.Push(lexicalErr(span, "integer constant exceeds maximum value %d", maxJackInt))
		value = maxJackInt
	}
	return Token{Kind: IntegerToken, IntVal: value, Span: span}
}

// readString scans a string constant. There is no escape processing. An
// unterminated string (newline or EOF before the closing quote) is reported
// but still yields a token with the partial text so parsing can proceed.
func (t *Tokenizer) readString(startOffset, startLine, startColumn int) Token {
	t.advance() // opening quote
	var value []rune
	terminated := false
	for !t.atEnd() {
		r := t.peek()
		if r == '"' {
			t.advance()
			terminated = true
			break
		}
		if r == '\n' {
			break
		}
		value = append(value, t.advance())
	}
	span := NewSpan(startOffset, t.byteOffset, startLine, startColumn)
	if !terminated {
		t.errors.Push(lexicalErr(span, "unterminated string constant"))
	}
	return Token{Kind: StringToken, Text: string(value), Span: span}
}

func (t *Tokenizer) readIdentifier(startOffset, startLine, startColumn int) Token {
	var value []rune
	for !t.atEnd() && util.IsIdentPart(t.peek()) {
		value = append(value, t.advance())
	}
	span := NewSpan(startOffset, t.byteOffset, startLine, startColumn)
	word := string(value)
	if kw, ok := LookupKeyword(word); ok {
		return Token{Kind: KeywordToken, Keyword: kw, Span: span}
	}
	return Token{Kind: IdentifierToken, Text: word, Span: span}
}
