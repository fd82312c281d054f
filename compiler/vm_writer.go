package compiler

import (
	"strconv"
	"strings"
)

// VMWriter accumulates VM instructions, one per line. It knows nothing about
// the AST; the code generator decides what to emit.
type VMWriter struct {
	out strings.Builder
}

func NewVMWriter() *VMWriter {
	return &VMWriter{}
}

func (w *VMWriter) WritePush(segment string, index int) {
	w.out.WriteString("push ")
	w.out.WriteString(segment)
	w.out.WriteByte(' ')
	w.out.WriteString(strconv.Itoa(index))
	w.out.WriteByte('\n')
}

func (w *VMWriter) WritePop(segment string, index int) {
	w.out.WriteString("pop ")
	w.out.WriteString(segment)
	w.out.WriteByte(' ')
	w.out.WriteString(strconv.Itoa(index))
	w.out.WriteByte('\n')
}

// WriteArithmetic emits one of add, sub, neg, eq, gt, lt, and, or, not.
func (w *VMWriter) WriteArithmetic(cmd string) {
	w.out.WriteString(cmd)
	w.out.WriteByte('\n')
}

func (w *VMWriter) WriteLabel(label string) {
	w.out.WriteString("label ")
	w.out.WriteString(label)
	w.out.WriteByte('\n')
}

func (w *VMWriter) WriteGoto(label string) {
	w.out.WriteString("goto ")
	w.out.WriteString(label)
	w.out.WriteByte('\n')
}

func (w *VMWriter) WriteIfGoto(label string) {
	w.out.WriteString("if-goto ")
	w.out.WriteString(label)
	w.out.WriteByte('\n')
}

func (w *VMWriter) WriteFunction(name string, numLocals int) {
	w.out.WriteString("function ")
	w.out.WriteString(name)
	w.out.WriteByte(' ')
	w.out.WriteString(strconv.Itoa(numLocals))
	w.out.WriteByte('\n')
}

func (w *VMWriter) WriteCall(name string, numArgs int) {
	w.out.WriteString("call ")
	w.out.WriteString(name)
	w.out.WriteByte(' ')
	w.out.WriteString(strconv.Itoa(numArgs))
	w.out.WriteByte('\n')
}

func (w *VMWriter) WriteReturn() {
	w.out.WriteString("return\n")
}

// Output returns the accumulated VM text.
func (w *VMWriter) Output() string {
	return w.out.String()
}

func (w *VMWriter) Len() int {
	return w.out.Len()
}
