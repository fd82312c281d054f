package compiler

import "strings"

// Three cooperating optimization passes:
//   - constant folding, applied to AST subtrees before emission;
//   - strength reduction, recognized during code generation;
//   - a peephole pass over the emitted VM text.
// All three preserve program semantics on the 16-bit target.

// FoldExpression evaluates a fully-literal expression at compile time using
// 32-bit arithmetic, strictly left to right over the flat operator sequence.
// ok is false when any term is non-constant or a folded division hits zero;
// mixed literal/variable expressions are never partially folded.
func FoldExpression(expr *Expression) (int32, bool) {
	result, ok := foldTerm(expr.First)
	if !ok {
		return 0, false
	}
	for _, ot := range expr.Rest {
		right, ok := foldTerm(ot.Term)
		if !ok {
			return 0, false
		}
		result, ok = foldBinaryOp(result, ot.Op, right)
		if !ok {
			return 0, false
		}
	}
	return result, true
}

func foldTerm(term Term) (int32, bool) {
	switch t := term.(type) {
	case *IntegerTerm:
		return int32(t.Value), true
	case *UnaryTerm:
		v, ok := foldTerm(t.Term)
		if !ok {
			return 0, false
		}
		if t.Op == OpNeg {
			return -v, true
		}
		return ^v, true
	case *ParenTerm:
		return FoldExpression(t.Expr)
	case *KeywordTerm:
		switch t.Value {
		case TrueConstant:
			return -1, true
		case FalseConstant, NullConstant:
			return 0, true
		}
		// this is a runtime value
		return 0, false
	}
	return 0, false
}

func foldBinaryOp(left int32, op BinaryOp, right int32) (int32, bool) {
	switch op {
	case OpAdd:
		return left + right, true
	case OpSub:
		return left - right, true
	case OpMul:
		return left * right, true
	case OpDiv:
		if right == 0 {
			// left for the runtime Math.divide call
			return 0, false
		}
		return left / right, true
	case OpAnd:
		return left & right, true
	case OpOr:
		return left | right, true
	case OpLt:
		return boolWord(left < right), true
	case OpGt:
		return boolWord(left > right), true
	default:
		return boolWord(left == right), true
	}
}

// boolWord is the VM truth encoding: all-ones for true, zero for false.
func boolWord(b bool) int32 {
	if b {
		return -1
	}
	return 0
}

// isPowerOfTwo reports whether n is a power of two.
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// shiftCount returns log2(n) for a power of two.
func shiftCount(n int) int {
	count := 0
	for n > 1 {
		n >>= 1
		count++
	}
	return count
}

// reducibleMultiplier returns the number of doubling steps that replace a
// multiply by n, when n is a power of two in [1, 16384]. Larger or
// non-power-of-two multipliers keep the Math.multiply call.
func reducibleMultiplier(n int) (int, bool) {
	if n >= 1 && n <= 16384 && isPowerOfTwo(n) {
		return shiftCount(n), true
	}
	return 0, false
}

// Peephole applies one left-to-right scan with one line of lookahead over
// the VM text, removing:
//
//	push X / pop X   (identical non-constant operand)
//	push constant 0 / add
//	not / not
//	neg / neg
//
// The output never has more lines than the input. One scan is not
// necessarily a fixed point — removing a pair can make a new pair adjacent —
// so callers needing convergence apply the pass repeatedly; the fixed point
// is reached within two to three applications.
func Peephole(vmCode string) string {
	if vmCode == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(vmCode, "\n"), "\n")
	kept := make([]string, 0, len(lines))

	for i := 0; i < len(lines); {
		if i+1 < len(lines) {
			a, b := lines[i], lines[i+1]
			if redundantPushPop(a, b) ||
				(a == "push constant 0" && b == "add") ||
				(a == "not" && b == "not") ||
				(a == "neg" && b == "neg") {
				i += 2
				continue
			}
		}
		kept = append(kept, lines[i])
		i++
	}

	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, "\n") + "\n"
}

// redundantPushPop reports whether the two lines are a push/pop round-trip
// through the same location. Constant operands are deliberately excluded:
// push constant has no corresponding source to elide, and the rule stays
// conservative rather than special-casing it.
func redundantPushPop(line1, line2 string) bool {
	pushRest, ok := strings.CutPrefix(line1, "push ")
	if !ok {
		return false
	}
	popRest, ok := strings.CutPrefix(line2, "pop ")
	if !ok {
		return false
	}
	return pushRest == popRest && !strings.HasPrefix(pushRest, "constant")
}
