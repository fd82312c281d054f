package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderError_Caret(t *testing.T) {
	source := "class Main {\n\tlet x = ;\n}\n"
	e := syntaxErr(NewSpan(21, 22, 2, 9), "expected term, got symbol ';'")

	rendered := RenderError(e, "Main.jack", source, false)
	lines := strings.Split(rendered, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "error: syntax error", lines[0])
	assert.Contains(t, lines[1], "Main.jack:2:9")
	assert.Contains(t, lines[3], "let x = ;")

	// The caret column matches the span column.
	caretCol := strings.Index(lines[4], "^")
	srcCol := strings.Index(lines[3], "\tlet x = ;")
	assert.Equal(t, srcCol+8, caretCol)
	assert.Contains(t, lines[4], "expected term")
}

func TestRenderError_ExpectedAlternatives(t *testing.T) {
	e := syntaxExpectedErr(NewSpan(0, 1, 1, 1), []string{"{", ";"}, "expected '{'")
	rendered := RenderError(e, "Main.jack", "class", false)
	assert.Contains(t, rendered, "expected: {, ;")
}

func TestRenderError_IOError(t *testing.T) {
	e := ioErr("Main.jack", assert.AnError)
	rendered := RenderError(e, "Main.jack", "", false)
	assert.Contains(t, rendered, "error: io error")
	assert.Contains(t, rendered, "Main.jack")
}

func TestRenderError_LineOutOfRange(t *testing.T) {
	e := syntaxErr(NewSpan(0, 0, 99, 1), "expected term")
	rendered := RenderError(e, "Main.jack", "one line only", false)
	assert.Contains(t, rendered, "expected term")
}

func TestFormatErrors_Numbering(t *testing.T) {
	result := Compile(`
		class Main {
			function void main() {
				let a = 1;
				let b = 2;
				return;
			}
		}`, "Main.jack")
	require.Len(t, result.Errors, 2)

	out := FormatErrors(result, false)
	assert.Contains(t, out, "Error 1 of 2:")
	assert.Contains(t, out, "Error 2 of 2:")
	assert.Contains(t, out, "'a'")
	assert.Contains(t, out, "'b'")
}

func TestFormatErrors_EmptyOnSuccess(t *testing.T) {
	result := Compile("class Main { function void main() { return; } }", "Main.jack")
	require.True(t, result.OK())
	assert.Equal(t, "", FormatErrors(result, false))
}
