package compiler

// maxExprDepth bounds expression/term recursion. Pathological nesting such
// as deeply stacked parentheses aborts the offending subtree with a syntax
// error instead of overflowing the goroutine stack.
const maxExprDepth = 25

// Parser is a recursive-descent consumer of the token stream, one method per
// grammar nonterminal. It accumulates syntax errors up to the error cap and
// resynchronizes after failures, so the returned Class is always
// structurally complete even for malformed input.
type Parser struct {
	tokens []Token
	pos    int
	errors *ErrorList
	depth  int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens, errors: NewErrorList()}
}

// Parse consumes the full token slice and returns the root Class node. The
// error slice is nil on success. Missing pieces of an erroneous program
// default to empty collections/strings, never nil-panics downstream.
func (p *Parser) Parse() (*Class, []*Error) {
	class := p.parseClass()
	if p.errors.HasErrors() {
		return class, p.errors.Errors()
	}
	return class, nil
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) current() (Token, bool) {
	if p.atEnd() {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) currentSpan() Span {
	if tok, ok := p.current(); ok {
		return tok.Span
	}
	if n := len(p.tokens); n > 0 {
		return p.tokens[n-1].Span
	}
	return NewSpan(0, 0, 1, 1)
}

func (p *Parser) describeCurrent() string {
	if tok, ok := p.current(); ok {
		return tok.String()
	}
	return "end of file"
}

func (p *Parser) peekKeyword() (Keyword, bool) {
	if tok, ok := p.current(); ok && tok.Kind == KeywordToken {
		return tok.Keyword, true
	}
	return 0, false
}

func (p *Parser) atKeyword(k Keyword) bool {
	kw, ok := p.peekKeyword()
	return ok && kw == k
}

func (p *Parser) peekSymbol() (byte, bool) {
	if tok, ok := p.current(); ok && tok.Kind == SymbolToken {
		return tok.Symbol, true
	}
	return 0, false
}

func (p *Parser) atSymbol(c byte) bool {
	s, ok := p.peekSymbol()
	return ok && s == c
}

func (p *Parser) advance() (Token, bool) {
	if p.atEnd() {
		return Token{}, false
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, true
}

// expectKeyword consumes the given keyword or records a syntax error with
// the acceptable alternative and leaves the cursor in place.
func (p *Parser) expectKeyword(k Keyword) bool {
	if p.atKeyword(k) {
		p.advance()
		return true
	}
	p.errors.Push(syntaxExpectedErr(p.currentSpan(), []string{k.String()},
		"expected keyword '%s', got %s", k, p.describeCurrent()))
	return false
}

func (p *Parser) expectSymbol(c byte) bool {
	if p.atSymbol(c) {
		p.advance()
		return true
	}
	p.errors.Push(syntaxExpectedErr(p.currentSpan(), []string{string(c)},
		"expected '%c', got %s", c, p.describeCurrent()))
	return false
}

func (p *Parser) expectIdentifier() (string, Span, bool) {
	if tok, ok := p.current(); ok && tok.Kind == IdentifierToken {
		p.advance()
		return tok.Text, tok.Span, true
	}
	p.errors.Push(syntaxExpectedErr(p.currentSpan(), []string{"identifier"},
		"expected identifier, got %s", p.describeCurrent()))
	return "", p.currentSpan(), false
}

// synchronize advances to the next declaration keyword, statement keyword or
// closing brace, or just past the next semicolon, to re-establish a parse
// point after an unrecoverable failure.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if kw, ok := p.peekKeyword(); ok {
			switch kw {
			case KeywordLet, KeywordIf, KeywordWhile, KeywordDo, KeywordReturn,
				KeywordStatic, KeywordField,
				KeywordConstructor, KeywordFunction, KeywordMethod:
				return
			}
		}
		if p.atSymbol('}') {
			return
		}
		if p.atSymbol(';') {
			p.advance()
			return
		}
		p.advance()
	}
}

// class: 'class' className '{' classVarDec* subroutineDec* '}'
func (p *Parser) parseClass() *Class {
	class := &Class{Span: p.currentSpan()}

	p.expectKeyword(KeywordClass)
	if name, _, ok := p.expectIdentifier(); ok {
		class.Name = name
	}
	p.expectSymbol('{')

	for p.atKeyword(KeywordStatic) || p.atKeyword(KeywordField) {
		if dec, ok := p.parseClassVarDec(); ok {
			class.VarDecs = append(class.VarDecs, dec)
		}
	}
	for p.atKeyword(KeywordConstructor) || p.atKeyword(KeywordFunction) || p.atKeyword(KeywordMethod) {
		if dec, ok := p.parseSubroutineDec(); ok {
			class.Subroutines = append(class.Subroutines, dec)
		}
	}

	p.expectSymbol('}')
	return class
}

// classVarDec: ('static' | 'field') type varName (',' varName)* ';'
func (p *Parser) parseClassVarDec() (ClassVarDec, bool) {
	dec := ClassVarDec{Span: p.currentSpan()}

	switch kw, _ := p.peekKeyword(); kw {
	case KeywordStatic:
		p.advance()
		dec.Kind = StaticVar
	case KeywordField:
		p.advance()
		dec.Kind = FieldVar
	default:
		p.errors.Push(syntaxErr(p.currentSpan(), "expected 'static' or 'field'"))
		p.synchronize()
		return dec, false
	}

	varType, ok := p.parseType()
	if !ok {
		p.synchronize()
		return dec, false
	}
	dec.Type = varType

	if name, _, ok := p.expectIdentifier(); ok {
		dec.Names = append(dec.Names, name)
	}
	for p.atSymbol(',') {
		p.advance()
		if name, _, ok := p.expectIdentifier(); ok {
			dec.Names = append(dec.Names, name)
		}
	}
	p.expectSymbol(';')
	return dec, true
}

// type: 'int' | 'char' | 'boolean' | className
func (p *Parser) parseType() (VarType, bool) {
	tok, ok := p.current()
	if ok {
		switch {
		case tok.Kind == KeywordToken && tok.Keyword == KeywordInt:
			p.advance()
			return VarType{Kind: IntType}, true
		case tok.Kind == KeywordToken && tok.Keyword == KeywordChar:
			p.advance()
			return VarType{Kind: CharType}, true
		case tok.Kind == KeywordToken && tok.Keyword == KeywordBoolean:
			p.advance()
			return VarType{Kind: BooleanType}, true
		case tok.Kind == IdentifierToken:
			p.advance()
			return VarType{Kind: ClassType, Name: tok.Text}, true
		}
	}
	p.errors.Push(syntaxErr(p.currentSpan(),
		"expected type (int, char, boolean, or class name), got %s", p.describeCurrent()))
	return VarType{}, false
}

// subroutineDec: ('constructor'|'function'|'method') ('void'|type) name
// '(' parameterList ')' subroutineBody
func (p *Parser) parseSubroutineDec() (SubroutineDec, bool) {
	dec := SubroutineDec{Span: p.currentSpan()}

	switch kw, _ := p.peekKeyword(); kw {
	case KeywordConstructor:
		p.advance()
		dec.Kind = ConstructorKind
	case KeywordFunction:
		p.advance()
		dec.Kind = FunctionKind
	case KeywordMethod:
		p.advance()
		dec.Kind = MethodKind
	default:
		p.errors.Push(syntaxErr(p.currentSpan(), "expected 'constructor', 'function', or 'method'"))
		p.synchronize()
		return dec, false
	}

	if p.atKeyword(KeywordVoid) {
		p.advance()
		dec.ReturnType = ReturnType{Void: true}
	} else {
		varType, ok := p.parseType()
		if !ok {
			p.synchronize()
			return dec, false
		}
		dec.ReturnType = ReturnType{Type: varType}
	}

	if name, _, ok := p.expectIdentifier(); ok {
		dec.Name = name
	}

	p.expectSymbol('(')
	dec.Parameters = p.parseParameterList()
	p.expectSymbol(')')
	dec.Body = p.parseSubroutineBody()
	return dec, true
}

// parameterList: ((type varName) (',' type varName)*)?
func (p *Parser) parseParameterList() []Parameter {
	var params []Parameter
	if p.atSymbol(')') {
		return params
	}
	if varType, ok := p.parseType(); ok {
		if name, _, ok := p.expectIdentifier(); ok {
			params = append(params, Parameter{Type: varType, Name: name})
		}
	}
	for p.atSymbol(',') {
		p.advance()
		if varType, ok := p.parseType(); ok {
			if name, _, ok := p.expectIdentifier(); ok {
				params = append(params, Parameter{Type: varType, Name: name})
			}
		}
	}
	return params
}

// subroutineBody: '{' varDec* statements '}'
func (p *Parser) parseSubroutineBody() SubroutineBody {
	body := SubroutineBody{Span: p.currentSpan()}
	p.expectSymbol('{')
	for p.atKeyword(KeywordVar) {
		if dec, ok := p.parseVarDec(); ok {
			body.VarDecs = append(body.VarDecs, dec)
		}
	}
	body.Statements = p.parseStatements()
	p.expectSymbol('}')
	return body
}

// varDec: 'var' type varName (',' varName)* ';'
func (p *Parser) parseVarDec() (VarDec, bool) {
	dec := VarDec{Span: p.currentSpan()}
	if !p.expectKeyword(KeywordVar) {
		return dec, false
	}
	varType, ok := p.parseType()
	if !ok {
		p.synchronize()
		return dec, false
	}
	dec.Type = varType

	if name, _, ok := p.expectIdentifier(); ok {
		dec.Names = append(dec.Names, name)
	}
	for p.atSymbol(',') {
		p.advance()
		if name, _, ok := p.expectIdentifier(); ok {
			dec.Names = append(dec.Names, name)
		}
	}
	p.expectSymbol(';')
	return dec, true
}

// statements: statement*
//
// Parsing stops early when the error accumulator fills, bounding the cost of
// adversarial input.
func (p *Parser) parseStatements() []Statement {
	var statements []Statement
	for {
		kw, ok := p.peekKeyword()
		if !ok {
			break
		}
		switch kw {
		case KeywordLet:
			if stmt, ok := p.parseLetStatement(); ok {
				statements = append(statements, stmt)
			}
		case KeywordIf:
			if stmt, ok := p.parseIfStatement(); ok {
				statements = append(statements, stmt)
			}
		case KeywordWhile:
			if stmt, ok := p.parseWhileStatement(); ok {
				statements = append(statements, stmt)
			}
		case KeywordDo:
			if stmt, ok := p.parseDoStatement(); ok {
				statements = append(statements, stmt)
			}
		case KeywordReturn:
			if stmt, ok := p.parseReturnStatement(); ok {
				statements = append(statements, stmt)
			}
		default:
			return statements
		}
		if p.errors.Full() {
			break
		}
	}
	return statements
}

// letStatement: 'let' varName ('[' expression ']')? '=' expression ';'
func (p *Parser) parseLetStatement() (*LetStatement, bool) {
	stmt := &LetStatement{Span: p.currentSpan()}
	if !p.expectKeyword(KeywordLet) {
		return nil, false
	}
	name, _, ok := p.expectIdentifier()
	if !ok {
		p.synchronize()
		return nil, false
	}
	stmt.VarName = name

	if p.atSymbol('[') {
		p.advance()
		index, ok := p.parseExpression()
		if !ok {
			return nil, false
		}
		p.expectSymbol(']')
		stmt.Index = index
	}

	if !p.expectSymbol('=') {
		p.synchronize()
		return nil, false
	}
	value, ok := p.parseExpression()
	if !ok {
		return nil, false
	}
	stmt.Value = *value
	p.expectSymbol(';')
	return stmt, true
}

// ifStatement: 'if' '(' expression ')' '{' statements '}'
// ('else' '{' statements '}')?
func (p *Parser) parseIfStatement() (*IfStatement, bool) {
	stmt := &IfStatement{Span: p.currentSpan()}
	if !p.expectKeyword(KeywordIf) {
		return nil, false
	}
	p.expectSymbol('(')
	cond, ok := p.parseExpression()
	if !ok {
		return nil, false
	}
	stmt.Condition = *cond
	p.expectSymbol(')')
	p.expectSymbol('{')
	stmt.Then = p.parseStatements()
	p.expectSymbol('}')

	if p.atKeyword(KeywordElse) {
		p.advance()
		p.expectSymbol('{')
		stmt.Else = p.parseStatements()
		if stmt.Else == nil {
			stmt.Else = []Statement{}
		}
		p.expectSymbol('}')
	}
	return stmt, true
}

// whileStatement: 'while' '(' expression ')' '{' statements '}'
func (p *Parser) parseWhileStatement() (*WhileStatement, bool) {
	stmt := &WhileStatement{Span: p.currentSpan()}
	if !p.expectKeyword(KeywordWhile) {
		return nil, false
	}
	p.expectSymbol('(')
	cond, ok := p.parseExpression()
	if !ok {
		return nil, false
	}
	stmt.Condition = *cond
	p.expectSymbol(')')
	p.expectSymbol('{')
	stmt.Body = p.parseStatements()
	p.expectSymbol('}')
	return stmt, true
}

// doStatement: 'do' subroutineCall ';'
func (p *Parser) parseDoStatement() (*DoStatement, bool) {
	stmt := &DoStatement{Span: p.currentSpan()}
	if !p.expectKeyword(KeywordDo) {
		return nil, false
	}
	call, ok := p.parseSubroutineCall()
	if !ok {
		return nil, false
	}
	stmt.Call = call
	p.expectSymbol(';')
	return stmt, true
}

// returnStatement: 'return' expression? ';'
func (p *Parser) parseReturnStatement() (*ReturnStatement, bool) {
	stmt := &ReturnStatement{Span: p.currentSpan()}
	if !p.expectKeyword(KeywordReturn) {
		return nil, false
	}
	if !p.atSymbol(';') {
		value, ok := p.parseExpression()
		if !ok {
			return nil, false
		}
		stmt.Value = value
	}
	p.expectSymbol(';')
	return stmt, true
}

// expression: term (op term)*
func (p *Parser) parseExpression() (*Expression, bool) {
	p.depth++
	if p.depth > maxExprDepth {
		p.errors.Push(syntaxErr(p.currentSpan(), "expression nesting too deep"))
		p.depth--
		return nil, false
	}
	expr, ok := p.parseExpressionInner()
	p.depth--
	return expr, ok
}

func (p *Parser) parseExpressionInner() (*Expression, bool) {
	expr := &Expression{Span: p.currentSpan()}

	first, ok := p.parseTerm()
	if !ok {
		return nil, false
	}
	expr.First = first

	for {
		c, ok := p.peekSymbol()
		if !ok {
			break
		}
		op, isOp := binaryOpFromSymbol(c)
		if !isOp {
			break
		}
		p.advance()
		if term, ok := p.parseTerm(); ok {
			expr.Rest = append(expr.Rest, OpTerm{Op: op, Term: term})
		}
	}
	return expr, true
}

// term: integerConstant | stringConstant | keywordConstant | varName |
// varName'['expression']' | subroutineCall | '('expression')' | unaryOp term
func (p *Parser) parseTerm() (Term, bool) {
	p.depth++
	if p.depth > maxExprDepth {
		p.errors.Push(syntaxErr(p.currentSpan(), "expression nesting too deep"))
		p.depth--
		return nil, false
	}
	term, ok := p.parseTermInner()
	p.depth--
	return term, ok
}

func (p *Parser) parseTermInner() (Term, bool) {
	tok, ok := p.current()
	if !ok {
		p.errors.Push(syntaxErr(p.currentSpan(), "expected term, got end of file"))
		p.synchronize()
		return nil, false
	}
	span := tok.Span

	switch tok.Kind {
	case IntegerToken:
		p.advance()
		return &IntegerTerm{Value: tok.IntVal, Span: span}, true

	case StringToken:
		p.advance()
		return &StringTerm{Value: tok.Text, Span: span}, true

	case KeywordToken:
		var kc KeywordConstant
		switch tok.Keyword {
		case KeywordTrue:
			kc = TrueConstant
		case KeywordFalse:
			kc = FalseConstant
		case KeywordNull:
			kc = NullConstant
		case KeywordThis:
			kc = ThisConstant
		default:
			p.errors.Push(syntaxErr(span, "unexpected keyword '%s'", tok.Keyword))
			return nil, false
		}
		p.advance()
		return &KeywordTerm{Value: kc, Span: span}, true

	case SymbolToken:
		switch tok.Symbol {
		case '(':
			p.advance()
			expr, ok := p.parseExpression()
			if !ok {
				return nil, false
			}
			p.expectSymbol(')')
			return &ParenTerm{Expr: expr, Span: span}, true
		case '-', '~':
			p.advance()
			op := OpNeg
			if tok.Symbol == '~' {
				op = OpNot
			}
			inner, ok := p.parseTerm()
			if !ok {
				return nil, false
			}
			return &UnaryTerm{Op: op, Term: inner, Span: span}, true
		}

	case IdentifierToken:
		p.advance()
		name := tok.Text
		switch c, _ := p.peekSymbol(); c {
		case '[':
			p.advance()
			index, ok := p.parseExpression()
			if !ok {
				return nil, false
			}
			p.expectSymbol(']')
			return &ArrayTerm{Name: name, Index: index, Span: span}, true
		case '(':
			p.advance()
			args := p.parseExpressionList()
			p.expectSymbol(')')
			return &CallTerm{Call: SubroutineCall{Name: name, Arguments: args, Span: span}}, true
		case '.':
			p.advance()
			method, _, ok := p.expectIdentifier()
			if !ok {
				return nil, false
			}
			p.expectSymbol('(')
			args := p.parseExpressionList()
			p.expectSymbol(')')
			return &CallTerm{Call: SubroutineCall{Receiver: name, Name: method, Arguments: args, Span: span}}, true
		default:
			return &VarTerm{Name: name, Span: span}, true
		}
	}

	p.errors.Push(syntaxErr(span, "expected term, got %s", p.describeCurrent()))
	p.synchronize()
	return nil, false
}

// subroutineCall: name '(' expressionList ')' |
// (className | varName) '.' name '(' expressionList ')'
func (p *Parser) parseSubroutineCall() (SubroutineCall, bool) {
	call := SubroutineCall{Span: p.currentSpan()}

	first, _, ok := p.expectIdentifier()
	if !ok {
		return call, false
	}
	if p.atSymbol('.') {
		p.advance()
		method, _, ok := p.expectIdentifier()
		if !ok {
			return call, false
		}
		call.Receiver = first
		call.Name = method
	} else {
		call.Name = first
	}

	p.expectSymbol('(')
	call.Arguments = p.parseExpressionList()
	p.expectSymbol(')')
	return call, true
}

// expressionList: (expression (',' expression)*)?
func (p *Parser) parseExpressionList() []Expression {
	var exprs []Expression
	if p.atSymbol(')') {
		return exprs
	}
	if expr, ok := p.parseExpression(); ok {
		exprs = append(exprs, *expr)
	}
	for p.atSymbol(',') {
		p.advance()
		if expr, ok := p.parseExpression(); ok {
			exprs = append(exprs, *expr)
		}
	}
	return exprs
}
