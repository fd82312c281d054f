package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intTerm(v int) Term {
	return &IntegerTerm{Value: v}
}

func TestFoldExpression(t *testing.T) {
	testData := []struct {
		name  string
		expr  *Expression
		value int32
		ok    bool
	}{
		{
			name:  "single literal",
			expr:  &Expression{First: intTerm(7)},
			value: 7, ok: true,
		},
		{
			name: "addition",
			expr: &Expression{First: intTerm(1), Rest: []OpTerm{
				{Op: OpAdd, Term: intTerm(2)},
			}},
			value: 3, ok: true,
		},
		{
			name: "left to right without precedence",
			// 2 + 3 * 4 = 20, not 14
			expr: &Expression{First: intTerm(2), Rest: []OpTerm{
				{Op: OpAdd, Term: intTerm(3)},
				{Op: OpMul, Term: intTerm(4)},
			}},
			value: 20, ok: true,
		},
		{
			name: "negative result",
			expr: &Expression{First: intTerm(1), Rest: []OpTerm{
				{Op: OpSub, Term: intTerm(3)},
			}},
			value: -2, ok: true,
		},
		{
			name: "unary minus",
			expr: &Expression{First: &UnaryTerm{Op: OpNeg, Term: intTerm(5)}},
			value: -5, ok: true,
		},
		{
			name:  "bitwise not",
			expr:  &Expression{First: &UnaryTerm{Op: OpNot, Term: intTerm(0)}},
			value: -1, ok: true,
		},
		{
			name: "parenthesized subexpression",
			expr: &Expression{First: &ParenTerm{Expr: &Expression{
				First: intTerm(2),
				Rest:  []OpTerm{{Op: OpMul, Term: intTerm(3)}},
			}}},
			value: 6, ok: true,
		},
		{
			name:  "true is all ones",
			expr:  &Expression{First: &KeywordTerm{Value: TrueConstant}},
			value: -1, ok: true,
		},
		{
			name:  "false is zero",
			expr:  &Expression{First: &KeywordTerm{Value: FalseConstant}},
			value: 0, ok: true,
		},
		{
			name:  "null is zero",
			expr:  &Expression{First: &KeywordTerm{Value: NullConstant}},
			value: 0, ok: true,
		},
		{
			name: "this never folds",
			expr: &Expression{First: &KeywordTerm{Value: ThisConstant}},
			ok:   false,
		},
		{
			name: "comparison folds to truth word",
			expr: &Expression{First: intTerm(2), Rest: []OpTerm{
				{Op: OpLt, Term: intTerm(3)},
			}},
			value: -1, ok: true,
		},
		{
			name: "equality false",
			expr: &Expression{First: intTerm(2), Rest: []OpTerm{
				{Op: OpEq, Term: intTerm(3)},
			}},
			value: 0, ok: true,
		},
		{
			name: "division by zero left for runtime",
			expr: &Expression{First: intTerm(1), Rest: []OpTerm{
				{Op: OpDiv, Term: intTerm(0)},
			}},
			ok: false,
		},
		{
			name: "variable stops folding",
			expr: &Expression{First: intTerm(1), Rest: []OpTerm{
				{Op: OpAdd, Term: &VarTerm{Name: "x"}},
			}},
			ok: false,
		},
		{
			name: "call stops folding",
			expr: &Expression{First: &CallTerm{Call: SubroutineCall{Name: "f"}}},
			ok:   false,
		},
		{
			name: "intermediate overflow wraps in 32 bits",
			// 30000 * 30000 / 30000 = 30000 without 16-bit wrapping
			expr: &Expression{First: intTerm(30000), Rest: []OpTerm{
				{Op: OpMul, Term: intTerm(30000)},
				{Op: OpDiv, Term: intTerm(30000)},
			}},
			value: 30000, ok: true,
		},
	}
	for _, testD := range testData {
		value, ok := FoldExpression(testD.expr)
		assert.Equal(t, testD.ok, ok, testD.name)
		if testD.ok {
			assert.Equal(t, testD.value, value, testD.name)
		}
	}
}

func TestReducibleMultiplier(t *testing.T) {
	testData := []struct {
		n     int
		steps int
		ok    bool
	}{
		{n: 1, steps: 0, ok: true},
		{n: 2, steps: 1, ok: true},
		{n: 4, steps: 2, ok: true},
		{n: 1024, steps: 10, ok: true},
		{n: 16384, steps: 14, ok: true},
		{n: 0, ok: false},
		{n: 3, ok: false},
		{n: 6, ok: false},
		{n: 32768, ok: false},
		{n: -4, ok: false},
	}
	for _, testD := range testData {
		steps, ok := reducibleMultiplier(testD.n)
		assert.Equal(t, testD.ok, ok, "n=%d", testD.n)
		if testD.ok {
			assert.Equal(t, testD.steps, steps, "n=%d", testD.n)
		}
	}
}

func TestPeephole_Patterns(t *testing.T) {
	testData := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "push pop round trip",
			input:    []string{"push local 0", "pop local 0", "return"},
			expected: []string{"return"},
		},
		{
			name:     "push pop different index kept",
			input:    []string{"push local 0", "pop local 1"},
			expected: []string{"push local 0", "pop local 1"},
		},
		{
			name:     "push pop different segment kept",
			input:    []string{"push local 0", "pop argument 0"},
			expected: []string{"push local 0", "pop argument 0"},
		},
		{
			name:     "constant operand exempt",
			input:    []string{"push constant 0", "pop constant 0"},
			expected: []string{"push constant 0", "pop constant 0"},
		},
		{
			name:     "add zero",
			input:    []string{"push local 0", "push constant 0", "add"},
			expected: []string{"push local 0"},
		},
		{
			name:     "double not",
			input:    []string{"not", "not", "return"},
			expected: []string{"return"},
		},
		{
			name:     "double neg",
			input:    []string{"neg", "neg"},
			expected: nil,
		},
		{
			name:     "mixed neg not kept",
			input:    []string{"neg", "not"},
			expected: []string{"neg", "not"},
		},
		{
			name:     "non adjacent kept",
			input:    []string{"push local 0", "add", "pop local 0"},
			expected: []string{"push local 0", "add", "pop local 0"},
		},
	}
	for _, testD := range testData {
		input := joinVM(testD.input)
		expected := joinVM(testD.expected)
		assert.Equal(t, expected, Peephole(input), testD.name)
	}
}

func joinVM(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestPeephole_NeverGrows(t *testing.T) {
	inputs := []string{
		"",
		"return\n",
		"push local 0\npop local 0\n",
		"push constant 5\npush constant 0\nadd\nnot\nnot\n",
	}
	for _, input := range inputs {
		output := Peephole(input)
		assert.LessOrEqual(t, len(strings.Split(output, "\n")), len(strings.Split(input, "\n")))
	}
}

func TestPeephole_Convergence(t *testing.T) {
	// Removing the inner pair exposes the outer one; a fixed point is reached
	// within three applications.
	input := "push local 0\npush local 1\npop local 1\npop local 0\n"

	once := Peephole(input)
	assert.Equal(t, "push local 0\npop local 0\n", once)

	twice := Peephole(once)
	assert.Equal(t, "", twice)

	thrice := Peephole(twice)
	assert.Equal(t, twice, thrice)
}

func TestPeephole_Idempotence(t *testing.T) {
	inputs := []string{
		"function Main.main 0\npush constant 0\nreturn\n",
		"push argument 0\npop pointer 0\npush this 0\nreturn\n",
	}
	for _, input := range inputs {
		require.Equal(t, input, Peephole(input))
	}
}
