package compiler

// The AST is a plain data model: the parser builds it top-down with
// exclusive ownership of child nodes, so the tree is acyclic and carries no
// parent links. Each Jack source file holds exactly one class.

// Class is the root node of one compilation unit.
type Class struct {
	Name        string
	VarDecs     []ClassVarDec
	Subroutines []SubroutineDec
	Span        Span
}

// ClassVarKind distinguishes static from field declarations.
type ClassVarKind int

const (
	StaticVar ClassVarKind = iota
	FieldVar
)

func (k ClassVarKind) String() string {
	if k == StaticVar {
		return "static"
	}
	return "field"
}

// ClassVarDec declares one or more class-scope variables of a shared type.
type ClassVarDec struct {
	Kind  ClassVarKind
	Type  VarType
	Names []string
	Span  Span
}

// TypeKind discriminates VarType.
type TypeKind int

const (
	IntType TypeKind = iota
	CharType
	BooleanType
	ClassType
)

// VarType is a declared variable type: int, char, boolean or a class name.
type VarType struct {
	Kind TypeKind
	// Name is the class name when Kind == ClassType.
	Name string
}

func (t VarType) String() string {
	switch t.Kind {
	case IntType:
		return "int"
	case CharType:
		return "char"
	case BooleanType:
		return "boolean"
	default:
		return t.Name
	}
}

// SubroutineKind distinguishes constructors, functions and methods.
type SubroutineKind int

const (
	ConstructorKind SubroutineKind = iota
	FunctionKind
	MethodKind
)

func (k SubroutineKind) String() string {
	switch k {
	case ConstructorKind:
		return "constructor"
	case FunctionKind:
		return "function"
	default:
		return "method"
	}
}

// SubroutineDec declares one subroutine with its parameters and body.
type SubroutineDec struct {
	Kind       SubroutineKind
	ReturnType ReturnType
	Name       string
	Parameters []Parameter
	Body       SubroutineBody
	Span       Span
}

// ReturnType is void or a variable type.
type ReturnType struct {
	Void bool
	Type VarType
}

type Parameter struct {
	Type VarType
	Name string
}

type SubroutineBody struct {
	VarDecs    []VarDec
	Statements []Statement
	Span       Span
}

// VarDec declares one or more subroutine-local variables of a shared type.
type VarDec struct {
	Type  VarType
	Names []string
	Span  Span
}

// Statement is the closed variant over let/if/while/do/return.
type Statement interface {
	stmtNode()
}

type LetStatement struct {
	VarName string
	// Index is the array subscript expression; nil for a plain assignment.
	Index *Expression
	Value Expression
	Span  Span
}

type IfStatement struct {
	Condition Expression
	Then      []Statement
	// Else is nil when the statement has no else branch.
	Else []Statement
	Span Span
}

type WhileStatement struct {
	Condition Expression
	Body      []Statement
	Span      Span
}

type DoStatement struct {
	Call SubroutineCall
	Span Span
}

type ReturnStatement struct {
	// Value is nil for a void return.
	Value *Expression
	Span  Span
}

func (*LetStatement) stmtNode()    {}
func (*IfStatement) stmtNode()     {}
func (*WhileStatement) stmtNode()  {}
func (*DoStatement) stmtNode()     {}
func (*ReturnStatement) stmtNode() {}

// Expression is one term followed by a flat (operator, term) list. Jack has
// no operator precedence: the list is evaluated strictly left to right.
type Expression struct {
	First Term
	Rest  []OpTerm
	Span  Span
}

type OpTerm struct {
	Op   BinaryOp
	Term Term
}

// BinaryOp is a Jack binary operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota // +
	OpSub                 // -
	OpMul                 // *
	OpDiv                 // /
	OpAnd                 // &
	OpOr                  // |
	OpLt                  // <
	OpGt                  // >
	OpEq                  // =
)

// binaryOpFromSymbol maps an operator symbol to its BinaryOp.
func binaryOpFromSymbol(c byte) (BinaryOp, bool) {
	switch c {
	case '+':
		return OpAdd, true
	case '-':
		return OpSub, true
	case '*':
		return OpMul, true
	case '/':
		return OpDiv, true
	case '&':
		return OpAnd, true
	case '|':
		return OpOr, true
	case '<':
		return OpLt, true
	case '>':
		return OpGt, true
	case '=':
		return OpEq, true
	}
	return 0, false
}

// UnaryOp is a Jack unary operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota // -
	OpNot                // ~
)

// Term is the closed variant over the term forms of the grammar. Recursive
// forms own their sub-nodes exclusively.
type Term interface {
	termNode()
	TermSpan() Span
}

type IntegerTerm struct {
	Value int
	Span  Span
}

type StringTerm struct {
	Value string
	Span  Span
}

// KeywordConstant is true, false, null or this in term position.
type KeywordConstant int

const (
	TrueConstant KeywordConstant = iota
	FalseConstant
	NullConstant
	ThisConstant
)

type KeywordTerm struct {
	Value KeywordConstant
	Span  Span
}

type VarTerm struct {
	Name string
	Span Span
}

type ArrayTerm struct {
	Name  string
	Index *Expression
	Span  Span
}

type CallTerm struct {
	Call SubroutineCall
}

type ParenTerm struct {
	Expr *Expression
	Span Span
}

type UnaryTerm struct {
	Op   UnaryOp
	Term Term
	Span Span
}

func (*IntegerTerm) termNode() {}
func (*StringTerm) termNode()  {}
func (*KeywordTerm) termNode() {}
func (*VarTerm) termNode()     {}
func (*ArrayTerm) termNode()   {}
func (*CallTerm) termNode()    {}
func (*ParenTerm) termNode()   {}
func (*UnaryTerm) termNode()   {}

func (t *IntegerTerm) TermSpan() Span { return t.Span }
func (t *StringTerm) TermSpan() Span  { return t.Span }
func (t *KeywordTerm) TermSpan() Span { return t.Span }
func (t *VarTerm) TermSpan() Span     { return t.Span }
func (t *ArrayTerm) TermSpan() Span   { return t.Span }
func (t *CallTerm) TermSpan() Span    { return t.Call.Span }
func (t *ParenTerm) TermSpan() Span   { return t.Span }
func (t *UnaryTerm) TermSpan() Span   { return t.Span }

// SubroutineCall is name(args) or receiver.name(args). The receiver is a
// class name or a variable; which one is decided at code-generation time via
// symbol lookup.
type SubroutineCall struct {
	Receiver  string // empty for an unqualified call
	Name      string
	Arguments []Expression
	Span      Span
}
