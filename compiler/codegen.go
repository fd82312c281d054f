package compiler

import "fmt"

// Generator lowers one parsed class to VM text. Semantic errors (undefined
// variables, duplicate definitions) are accumulated rather than aborting, so
// one run reports everything it can find; callers discard the VM text when
// any error was recorded.
type Generator struct {
	symbols      *SymbolTable
	vm           *VMWriter
	errors       *ErrorList
	labelCounter int
	optimize     bool
}

func NewGenerator(errors *ErrorList, optimize bool) *Generator {
	return &Generator{
		symbols:  NewSymbolTable(),
		vm:       NewVMWriter(),
		errors:   errors,
		optimize: optimize,
	}
}

// Generate emits VM code for the class and returns the accumulated text.
func (g *Generator) Generate(class *Class) string {
	g.compileClass(class)
	return g.vm.Output()
}

// uniqueLabel synthesizes prefix_<n> with a counter that is never reset
// within one compilation unit.
func (g *Generator) uniqueLabel(prefix string) string {
	label := fmt.Sprintf("%s_%d", prefix, g.labelCounter)
	g.labelCounter++
	return label
}

func (g *Generator) compileClass(class *Class) {
	g.symbols.StartClass(class.Name)
	for i := range class.VarDecs {
		g.compileClassVarDec(&class.VarDecs[i])
	}
	for i := range class.Subroutines {
		g.compileSubroutine(&class.Subroutines[i])
	}
}

func (g *Generator) compileClassVarDec(dec *ClassVarDec) {
	kind := StaticKind
	if dec.Kind == FieldVar {
		kind = FieldKind
	}
	for _, name := range dec.Names {
		if err := g.symbols.Define(name, dec.Type, kind, dec.Span); err != nil {
			g.errors.Push(err)
		}
	}
}

func (g *Generator) compileSubroutine(dec *SubroutineDec) {
	g.symbols.StartSubroutine()

	// Methods receive the object as a hidden argument 0, defined before the
	// declared parameters so their indices start at 1.
	if dec.Kind == MethodKind {
		thisType := VarType{Kind: ClassType, Name: g.symbols.ClassName()}
		if err := g.symbols.Define("this", thisType, ArgumentKind, dec.Span); err != nil {
			g.errors.Push(err)
		}
	}
	for _, p := range dec.Parameters {
		if err := g.symbols.Define(p.Name, p.Type, ArgumentKind, dec.Span); err != nil {
			g.errors.Push(err)
		}
	}
	for i := range dec.Body.VarDecs {
		vd := &dec.Body.VarDecs[i]
		for _, name := range vd.Names {
			if err := g.symbols.Define(name, vd.Type, LocalKind, vd.Span); err != nil {
				g.errors.Push(err)
			}
		}
	}

	name := g.symbols.ClassName() + "." + dec.Name
	g.vm.WriteFunction(name, g.symbols.VarCount(LocalKind))

	switch dec.Kind {
	case ConstructorKind:
		g.vm.WritePush("constant", g.symbols.FieldCount())
		g.vm.WriteCall("Memory.alloc", 1)
		g.vm.WritePop("pointer", 0)
	case MethodKind:
		g.vm.WritePush("argument", 0)
		g.vm.WritePop("pointer", 0)
	}

	g.compileStatements(dec.Body.Statements)
}

func (g *Generator) compileStatements(stmts []Statement) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *LetStatement:
			g.compileLet(s)
		case *IfStatement:
			g.compileIf(s)
		case *WhileStatement:
			g.compileWhile(s)
		case *DoStatement:
			g.compileDo(s)
		case *ReturnStatement:
			g.compileReturn(s)
		}
	}
}

func (g *Generator) compileLet(stmt *LetStatement) {
	sym, ok := g.symbols.Lookup(stmt.VarName)
	if !ok {
		g.errors.Push(undefinedVariableErr(stmt.VarName, stmt.Span))
		return
	}

	if stmt.Index == nil {
		g.compileExpression(&stmt.Value)
		g.vm.WritePop(sym.Segment(), sym.Index)
		return
	}

	// The target address is computed before the value so the value expression
	// may itself use pointer 1 (nested array reads) without clobbering it.
	g.vm.WritePush(sym.Segment(), sym.Index)
	g.compileExpression(stmt.Index)
	g.vm.WriteArithmetic("add")
	g.compileExpression(&stmt.Value)
	g.vm.WritePop("temp", 0)
	g.vm.WritePop("pointer", 1)
	g.vm.WritePush("temp", 0)
	g.vm.WritePop("that", 0)
}

func (g *Generator) compileIf(stmt *IfStatement) {
	falseLabel := g.uniqueLabel("IF_FALSE")
	endLabel := g.uniqueLabel("IF_END")

	g.compileExpression(&stmt.Condition)
	g.vm.WriteArithmetic("not")
	g.vm.WriteIfGoto(falseLabel)
	g.compileStatements(stmt.Then)
	g.vm.WriteGoto(endLabel)
	g.vm.WriteLabel(falseLabel)
	if stmt.Else != nil {
		g.compileStatements(stmt.Else)
	}
	g.vm.WriteLabel(endLabel)
}

func (g *Generator) compileWhile(stmt *WhileStatement) {
	expLabel := g.uniqueLabel("WHILE_EXP")
	endLabel := g.uniqueLabel("WHILE_END")

	g.vm.WriteLabel(expLabel)
	g.compileExpression(&stmt.Condition)
	g.vm.WriteArithmetic("not")
	g.vm.WriteIfGoto(endLabel)
	g.compileStatements(stmt.Body)
	g.vm.WriteGoto(expLabel)
	g.vm.WriteLabel(endLabel)
}

// compileDo discards the callee's return value.
func (g *Generator) compileDo(stmt *DoStatement) {
	g.compileSubroutineCall(&stmt.Call)
	g.vm.WritePop("temp", 0)
}

// compileReturn pushes constant 0 for void returns; every VM function
// returns exactly one value.
func (g *Generator) compileReturn(stmt *ReturnStatement) {
	if stmt.Value != nil {
		g.compileExpression(stmt.Value)
	} else {
		g.vm.WritePush("constant", 0)
	}
	g.vm.WriteReturn()
}

func (g *Generator) compileExpression(expr *Expression) {
	if g.optimize {
		if v, ok := FoldExpression(expr); ok && g.emitFoldedConstant(v) {
			return
		}
	}

	rest := expr.Rest
	emittedFirst := false

	// 4 * x: the multiply becomes doublings of the right operand.
	if g.optimize && len(rest) > 0 && rest[0].Op == OpMul {
		if lit, ok := expr.First.(*IntegerTerm); ok {
			if steps, reducible := reducibleMultiplier(lit.Value); reducible {
				g.compileTerm(rest[0].Term)
				g.emitShiftLeft(steps)
				rest = rest[1:]
				emittedFirst = true
			}
		}
	}
	if !emittedFirst {
		g.compileTerm(expr.First)
	}

	for i := range rest {
		// x * 4: the running value is already on the stack, so a literal
		// power-of-two right operand becomes doublings in place.
		if g.optimize && rest[i].Op == OpMul {
			if lit, ok := rest[i].Term.(*IntegerTerm); ok {
				if steps, reducible := reducibleMultiplier(lit.Value); reducible {
					g.emitShiftLeft(steps)
					continue
				}
			}
		}
		g.compileTerm(rest[i].Term)
		g.compileBinaryOp(rest[i].Op)
	}
}

// emitFoldedConstant emits a folded value when it fits the 16-bit word:
// [0, 32767] as a single push, [-32768, -1] as push of the magnitude plus
// neg. Values outside that range report false and the expression is emitted
// unfolded.
func (g *Generator) emitFoldedConstant(v int32) bool {
	switch {
	case v >= 0 && v <= 32767:
		g.vm.WritePush("constant", int(v))
		return true
	case v >= -32768 && v <= -1:
		g.vm.WritePush("constant", int(-v))
		g.vm.WriteArithmetic("neg")
		return true
	default:
		return false
	}
}

// emitShiftLeft doubles the value on top of the stack steps times.
func (g *Generator) emitShiftLeft(steps int) {
	for i := 0; i < steps; i++ {
		g.vm.WritePop("temp", 0)
		g.vm.WritePush("temp", 0)
		g.vm.WritePush("temp", 0)
		g.vm.WriteArithmetic("add")
	}
}

func (g *Generator) compileTerm(term Term) {
	switch t := term.(type) {
	case *IntegerTerm:
		g.vm.WritePush("constant", t.Value)
	case *StringTerm:
		g.compileStringConstant(t.Value)
	case *KeywordTerm:
		g.compileKeywordConstant(t.Value)
	case *VarTerm:
		sym, ok := g.symbols.Lookup(t.Name)
		if !ok {
			g.errors.Push(undefinedVariableErr(t.Name, t.Span))
			return
		}
		g.vm.WritePush(sym.Segment(), sym.Index)
	case *ArrayTerm:
		sym, ok := g.symbols.Lookup(t.Name)
		if !ok {
			g.errors.Push(undefinedVariableErr(t.Name, t.Span))
			return
		}
		g.vm.WritePush(sym.Segment(), sym.Index)
		g.compileExpression(t.Index)
		g.vm.WriteArithmetic("add")
		g.vm.WritePop("pointer", 1)
		g.vm.WritePush("that", 0)
	case *CallTerm:
		g.compileSubroutineCall(&t.Call)
	case *ParenTerm:
		g.compileExpression(t.Expr)
	case *UnaryTerm:
		g.compileTerm(t.Term)
		if t.Op == OpNeg {
			g.vm.WriteArithmetic("neg")
		} else {
			g.vm.WriteArithmetic("not")
		}
	}
}

// compileStringConstant builds the string at run time, one appendChar call
// per character.
func (g *Generator) compileStringConstant(s string) {
	g.vm.WritePush("constant", len(s))
	g.vm.WriteCall("String.new", 1)
	for _, c := range []byte(s) {
		g.vm.WritePush("constant", int(c))
		g.vm.WriteCall("String.appendChar", 2)
	}
}

func (g *Generator) compileKeywordConstant(kc KeywordConstant) {
	switch kc {
	case TrueConstant:
		g.vm.WritePush("constant", 0)
		g.vm.WriteArithmetic("not")
	case FalseConstant, NullConstant:
		g.vm.WritePush("constant", 0)
	case ThisConstant:
		g.vm.WritePush("pointer", 0)
	}
}

func (g *Generator) compileBinaryOp(op BinaryOp) {
	switch op {
	case OpAdd:
		g.vm.WriteArithmetic("add")
	case OpSub:
		g.vm.WriteArithmetic("sub")
	case OpMul:
		g.vm.WriteCall("Math.multiply", 2)
	case OpDiv:
		g.vm.WriteCall("Math.divide", 2)
	case OpAnd:
		g.vm.WriteArithmetic("and")
	case OpOr:
		g.vm.WriteArithmetic("or")
	case OpLt:
		g.vm.WriteArithmetic("lt")
	case OpGt:
		g.vm.WriteArithmetic("gt")
	case OpEq:
		g.vm.WriteArithmetic("eq")
	}
}

// compileSubroutineCall resolves the receiver against the symbol table. An
// unqualified call is a method call on the current object. A qualified call
// whose receiver resolves to a variable is a method call on that object,
// dispatched through the variable's declared class. Any other receiver is
// taken as a class name and called without an object argument.
func (g *Generator) compileSubroutineCall(call *SubroutineCall) {
	var target string
	argCount := len(call.Arguments)

	switch {
	case call.Receiver == "":
		g.vm.WritePush("pointer", 0)
		target = g.symbols.ClassName() + "." + call.Name
		argCount++
	default:
		if sym, ok := g.symbols.Lookup(call.Receiver); ok {
			g.vm.WritePush(sym.Segment(), sym.Index)
			class := call.Receiver
			if sym.Type.Kind == ClassType {
				class = sym.Type.Name
			}
			target = class + "." + call.Name
			argCount++
		} else {
			target = call.Receiver + "." + call.Name
		}
	}

	for i := range call.Arguments {
		g.compileExpression(&call.Arguments[i])
	}
	g.vm.WriteCall(target, argCount)
}
