package compiler

// SymbolKind is the storage kind of a variable, which determines its VM
// segment.
type SymbolKind int

const (
	// StaticKind maps to the static segment.
	StaticKind SymbolKind = iota
	// FieldKind maps to the this segment.
	FieldKind
	// ArgumentKind maps to the argument segment.
	ArgumentKind
	// LocalKind maps to the local segment.
	LocalKind
)

// Segment returns the VM segment name for the kind.
func (k SymbolKind) Segment() string {
	switch k {
	case StaticKind:
		return "static"
	case FieldKind:
		return "this"
	case ArgumentKind:
		return "argument"
	default:
		return "local"
	}
}

// ClassLevel reports whether the kind lives in class scope.
func (k SymbolKind) ClassLevel() bool {
	return k == StaticKind || k == FieldKind
}

// Symbol is one entry of the symbol table.
type Symbol struct {
	Name string
	Type VarType
	Kind SymbolKind
	// Index is zero-based and unique within (scope, kind).
	Index int
}

// Segment returns the VM segment the symbol is stored in.
func (s *Symbol) Segment() string {
	return s.Kind.Segment()
}

// SymbolTable is the two-level scope of one compilation unit. Class scope
// (static, field) persists across subroutines; subroutine scope (argument,
// local) is discarded by every StartSubroutine call. Each of the four kinds
// has an independent monotonically increasing index counter.
type SymbolTable struct {
	classScope      map[string]*Symbol
	subroutineScope map[string]*Symbol
	staticCount     int
	fieldCount      int
	argumentCount   int
	localCount      int
	className       string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		classScope:      make(map[string]*Symbol),
		subroutineScope: make(map[string]*Symbol),
	}
}

// StartClass clears both scopes and all four counters.
func (t *SymbolTable) StartClass(name string) {
	t.classScope = make(map[string]*Symbol)
	t.subroutineScope = make(map[string]*Symbol)
	t.staticCount = 0
	t.fieldCount = 0
	t.argumentCount = 0
	t.localCount = 0
	t.className = name
}

// StartSubroutine clears only the subroutine scope and its two counters.
// Class-scope entries and their indices are untouched.
func (t *SymbolTable) StartSubroutine() {
	t.subroutineScope = make(map[string]*Symbol)
	t.argumentCount = 0
	t.localCount = 0
}

// Define adds a symbol to the scope implied by its kind. Static and field
// share the class namespace; argument and local share the subroutine
// namespace. Redefinition within one namespace is a duplicate-definition
// error; a subroutine symbol may shadow a class symbol of the same name.
func (t *SymbolTable) Define(name string, varType VarType, kind SymbolKind, span Span) *Error {
	scope := t.subroutineScope
	if kind.ClassLevel() {
		scope = t.classScope
	}
	if _, exists := scope[name]; exists {
		return duplicateDefinitionErr(name, span)
	}

	var index int
	switch kind {
	case StaticKind:
		index = t.staticCount
		t.staticCount++
	case FieldKind:
		index = t.fieldCount
		t.fieldCount++
	case ArgumentKind:
		index = t.argumentCount
		t.argumentCount++
	case LocalKind:
		index = t.localCount
		t.localCount++
	}

	scope[name] = &Symbol{Name: name, Type: varType, Kind: kind, Index: index}
	return nil
}

// Lookup resolves name, checking subroutine scope first so that locals and
// arguments shadow class variables.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	if sym, ok := t.subroutineScope[name]; ok {
		return sym, true
	}
	sym, ok := t.classScope[name]
	return sym, ok
}

// VarCount returns the number of symbols defined with the given kind since
// the last relevant reset.
func (t *SymbolTable) VarCount(kind SymbolKind) int {
	switch kind {
	case StaticKind:
		return t.staticCount
	case FieldKind:
		return t.fieldCount
	case ArgumentKind:
		return t.argumentCount
	default:
		return t.localCount
	}
}

// FieldCount is the object size in words, used by constructor preambles.
func (t *SymbolTable) FieldCount() int {
	return t.fieldCount
}

// ClassName returns the name passed to the last StartClass.
func (t *SymbolTable) ClassName() string {
	return t.className
}
