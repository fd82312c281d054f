package compiler

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// RenderError produces a rendered diagnostic of the form:
//
//	error: syntax error
//	  --> Main.jack:4:12
//	   |
//	 4 | let x = 1 +;
//	   |            ^ expected a term, found symbol ';'
//
// withColor selects ANSI styling; rendering is otherwise identical either
// way.
func RenderError(e *Error, filename, source string, withColor bool) string {
	color.NoColor = !withColor
	redBold := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue).SprintFunc()

	var lines []string
	lines = append(lines, redBold(fmt.Sprintf("error: %s", e.Kind)))

	if e.Kind == IOError {
		lines = append(lines, fmt.Sprintf("  %s %s", blue("-->"), e.Message))
		return strings.Join(lines, "\n")
	}

	gutter := len(fmt.Sprintf("%d", e.Span.Line))
	pad := strings.Repeat(" ", gutter)

	lines = append(lines, fmt.Sprintf(" %s%s %s:%d:%d",
		pad, blue("-->"), filename, e.Span.Line, e.Span.Column))
	lines = append(lines, blue(fmt.Sprintf(" %s |", pad)))

	srcLine, ok := sourceLine(source, e.Span.Line)
	if ok {
		lines = append(lines, fmt.Sprintf(" %*d %s %s",
			gutter, e.Span.Line, blue("|"), srcLine))
		caret := strings.Repeat(" ", e.Span.Column-1) + "^"
		lines = append(lines, fmt.Sprintf(" %s %s %s %s",
			pad, blue("|"), redBold(caret), redBold(e.Message)))
	} else {
		lines = append(lines, fmt.Sprintf(" %s %s %s", pad, blue("|"), redBold(e.Message)))
	}

	if len(e.Expected) > 0 {
		lines = append(lines, fmt.Sprintf(" %s %s expected: %s",
			pad, blue("="), strings.Join(e.Expected, ", ")))
	}

	return strings.Join(lines, "\n")
}

// sourceLine returns the 1-based line of the source text, with any trailing
// carriage return stripped.
func sourceLine(source string, line int) (string, bool) {
	if line < 1 {
		return "", false
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[line-1], "\r"), true
}

// FormatErrors renders every error of a failed result, numbered so a reader
// scanning long output can tell how far along they are.
func FormatErrors(result *Result, withColor bool) string {
	if result.OK() {
		return ""
	}
	var b strings.Builder
	total := len(result.Errors)
	for i, e := range result.Errors {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Error %d of %d:\n", i+1, total)
		b.WriteString(RenderError(e, result.Filename, result.Source, withColor))
		b.WriteByte('\n')
	}
	return b.String()
}
