package compiler

import "fmt"

// ErrorKind classifies a compilation error.
type ErrorKind int

const (
	// LexicalError covers unexpected characters, unterminated strings and
	// out-of-range integer constants.
	LexicalError ErrorKind = iota
	// SyntaxError covers expected-token mismatches and exceeded expression
	// depth.
	SyntaxError
	// SemanticError covers undefined variables and duplicate definitions.
	SemanticError
	// IOError covers file read/write failures. Only produced at the
	// file/directory boundary, never inside the core pipeline.
	IOError
)

func (k ErrorKind) String() string {
	switch k {
	case LexicalError:
		return "lexical error"
	case SyntaxError:
		return "syntax error"
	case SemanticError:
		return "semantic error"
	default:
		return "io error"
	}
}

// Error is a single compilation diagnostic with a source location.
type Error struct {
	Kind    ErrorKind
	Span    Span
	Message string
	// Expected lists the acceptable alternatives at the error position.
	// Only set for expected-token syntax errors.
	Expected []string
}

func (e *Error) Error() string {
	if e.Kind == IOError {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Span, e.Message)
}

func lexicalErr(span Span, format string, args ...interface{}) *Error {
	return &Error{Kind: LexicalError, Span: span, Message: fmt.Sprintf(format, args...)}
}

func syntaxErr(span Span, format string, args ...interface{}) *Error {
	return &Error{Kind: SyntaxError, Span: span, Message: fmt.Sprintf(format, args...)}
}

func syntaxExpectedErr(span Span, expected []string, format string, args ...interface{}) *Error {
	return &Error{Kind: SyntaxError, Span: span, Message: fmt.Sprintf(format, args...), Expected: expected}
}

func undefinedVariableErr(name string, span Span) *Error {
	return &Error{Kind: SemanticError, Span: span, Message: fmt.Sprintf("undefined variable '%s'", name)}
}

func duplicateDefinitionErr(name string, span Span) *Error {
	return &Error{Kind: SemanticError, Span: span, Message: fmt.Sprintf("duplicate definition of '%s'", name)}
}

func ioErr(path string, err error) *Error {
	return &Error{Kind: IOError, Message: fmt.Sprintf("%s: %v", path, err)}
}

// DefaultMaxErrors caps the number of errors accumulated per file.
const DefaultMaxErrors = 20

// ErrorList accumulates errors up to a fixed capacity. Pushes past the cap
// are silently dropped so adversarial input cannot produce unbounded error
// output.
type ErrorList struct {
	errors []*Error
	max    int
}

func NewErrorList() *ErrorList {
	return &ErrorList{max: DefaultMaxErrors}
}

func NewErrorListWithMax(max int) *ErrorList {
	return &ErrorList{max: max}
}

func (l *ErrorList) Push(err *Error) {
	if len(l.errors) < l.max {
		l.errors = append(l.errors, err)
	}
}

// Full reports whether the accumulator reached its capacity.
func (l *ErrorList) Full() bool {
	return len(l.errors) >= l.max
}

func (l *ErrorList) HasErrors() bool {
	return len(l.errors) > 0
}

func (l *ErrorList) Len() int {
	return len(l.errors)
}

// Errors drains the accumulator.
func (l *ErrorList) Errors() []*Error {
	return l.errors
}
