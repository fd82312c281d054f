package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizer_Symbols(t *testing.T) {
	tokens, errs := NewTokenizer("{ } ( ) [ ] . , ; + - * / & | < > = ~").Tokenize()
	require.Nil(t, errs)
	expected := "{}()[].,;+-*/&|<>=~"
	require.Len(t, tokens, len(expected))
	for i, tok := range tokens {
		assert.Equal(t, SymbolToken, tok.Kind)
		assert.Equal(t, expected[i], tok.Symbol)
	}
}

func TestTokenizer_KeywordsAndIdentifiers(t *testing.T) {
	testData := []struct {
		content  string
		kind     TokenKind
		keyword  Keyword
		text     string
	}{
		{content: "class", kind: KeywordToken, keyword: KeywordClass},
		{content: "while", kind: KeywordToken, keyword: KeywordWhile},
		{content: "this", kind: KeywordToken, keyword: KeywordThis},
		{content: "classy", kind: IdentifierToken, text: "classy"},
		{content: "_under", kind: IdentifierToken, text: "_under"},
		{content: "x2", kind: IdentifierToken, text: "x2"},
		{content: "Class", kind: IdentifierToken, text: "Class"},
	}
	for _, testD := range testData {
		tokens, errs := NewTokenizer(testD.content).Tokenize()
		require.Nil(t, errs, testD.content)
		require.Len(t, tokens, 1, testD.content)
		assert.Equal(t, testD.kind, tokens[0].Kind, testD.content)
		if testD.kind == KeywordToken {
			assert.Equal(t, testD.keyword, tokens[0].Keyword, testD.content)
		} else {
			assert.Equal(t, testD.text, tokens[0].Text, testD.content)
		}
	}
}

func TestTokenizer_Integers(t *testing.T) {
	testData := []struct {
		content string
		value   int
	}{
		{content: "0", value: 0},
		{content: "7", value: 7},
		{content: "32767", value: 32767},
		{content: "00042", value: 42},
	}
	for _, testD := range testData {
		tokens, errs := NewTokenizer(testD.content).Tokenize()
		require.Nil(t, errs, testD.content)
		require.Len(t, tokens, 1, testD.content)
		assert.Equal(t, IntegerToken, tokens[0].Kind)
		assert.Equal(t, testD.value, tokens[0].IntVal, testD.content)
	}
}

func TestTokenizer_IntegerOverflow(t *testing.T) {
	for _, content := range []string{"32768", "99999", "100000000000000000000"} {
		tokens, errs := NewTokenizer(content).Tokenize()
		assert.Nil(t, tokens, content)
		require.Len(t, errs, 1, content)
		assert.Equal(t, LexicalError, errs[0].Kind)
	}
}

func TestTokenizer_Strings(t *testing.T) {
	tokens, errs := NewTokenizer(`"hello world"`).Tokenize()
	require.Nil(t, errs)
	require.Len(t, tokens, 1)
	assert.Equal(t, StringToken, tokens[0].Kind)
	assert.Equal(t, "hello world", tokens[0].Text)
}

func TestTokenizer_UnterminatedString(t *testing.T) {
	testData := []string{
		`"no closing quote`,
		"\"broken\nacross lines\"",
	}
	for _, content := range testData {
		tokens, errs := NewTokenizer(content).Tokenize()
		assert.Nil(t, tokens, content)
		require.NotEmpty(t, errs, content)
		assert.Equal(t, LexicalError, errs[0].Kind)
		assert.Contains(t, errs[0].Message, "unterminated")
	}
}

func TestTokenizer_Comments(t *testing.T) {
	testData := []struct {
		content string
		count   int
	}{
		{content: "// whole line\nlet", count: 1},
		{content: "let // trailing\nx", count: 2},
		{content: "/* block */ let", count: 1},
		{content: "/* multi\nline\nblock */ let", count: 1},
		{content: "/* outer /* inner */ still comment */ let", count: 1},
		{content: "/** api doc */ let", count: 1},
	}
	for _, testD := range testData {
		tokens, errs := NewTokenizer(testD.content).Tokenize()
		require.Nil(t, errs, testD.content)
		assert.Len(t, tokens, testD.count, testD.content)
	}
}

func TestTokenizer_Spans(t *testing.T) {
	tokens, errs := NewTokenizer("class\n  Main").Tokenize()
	require.Nil(t, errs)
	require.Len(t, tokens, 2)
	assert.Equal(t, 1, tokens[0].Span.Line)
	assert.Equal(t, 1, tokens[0].Span.Column)
	assert.Equal(t, 2, tokens[1].Span.Line)
	assert.Equal(t, 3, tokens[1].Span.Column)
	assert.Equal(t, "2:3", tokens[1].Span.String())
}

func TestTokenizer_UnexpectedCharacter(t *testing.T) {
	tokens, errs := NewTokenizer("let x = #1;").Tokenize()
	assert.Nil(t, tokens)
	require.Len(t, errs, 1)
	assert.Equal(t, LexicalError, errs[0].Kind)
	assert.Contains(t, errs[0].Message, "'#'")
}

func TestTokenizer_ErrorCap(t *testing.T) {
	// A long run of illegal characters stops at the accumulator cap.
	content := ""
	for i := 0; i < 100; i++ {
		content += "#"
	}
	tokens, errs := NewTokenizer(content).Tokenize()
	assert.Nil(t, tokens)
	assert.Len(t, errs, DefaultMaxErrors)
}

func TestTokenizer_EmptyInput(t *testing.T) {
	for _, content := range []string{"", "   \n\t  ", "// just a comment", "/* only this */"} {
		tokens, errs := NewTokenizer(content).Tokenize()
		assert.Nil(t, errs, content)
		assert.Empty(t, tokens, content)
	}
}
