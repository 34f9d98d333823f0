package parser

// SymbolKind distinguishes the two symbol namespaces a name can occupy.
// Variables and functions may share a name (spec: "the same name may
// appear as both a Variable and a Function symbol").
type SymbolKind int

const (
	Variable SymbolKind = iota
	Function
)

// Symbol is a qualified name in the compile-time symbol table.
type Symbol struct {
	Kind SymbolKind
	Name string
}

// Table is the compile-time symbol table the parser maintains while
// descending the grammar. For Function symbols the stored int is the
// declared arity; for Variable symbols it is unused (kept at zero).
//
// Table is a thin wrapper around a map rather than a scoped stack of
// frames: function bodies are lexically scoped to their parameters by
// snapshotting and restoring the whole table (see Snapshot/Restore)
// rather than by pushing/popping individual frames, mirroring the
// whole-table backup/restore discipline the language's own design notes
// call out as the simplest correct implementation.
type Table struct {
	entries map[Symbol]int
}

// NewTable returns an empty symbol table.
func NewTable() *Table {
	return &Table{entries: make(map[Symbol]int)}
}

// Snapshot returns a copy of t's current entries, suitable for passing to
// Restore once a function body's parameter bindings should be undone.
func (t *Table) Snapshot() map[Symbol]int {
	cp := make(map[Symbol]int, len(t.entries))
	for k, v := range t.entries {
		cp[k] = v
	}
	return cp
}

// Restore replaces t's entries with a previously captured Snapshot.
func (t *Table) Restore(snapshot map[Symbol]int) {
	t.entries = snapshot
}

func (t *Table) DeclareVariable(name string) {
	t.entries[Symbol{Kind: Variable, Name: name}] = 0
}

func (t *Table) DeclareFunction(name string, arity int) {
	t.entries[Symbol{Kind: Function, Name: name}] = arity
}

func (t *Table) LookupFunction(name string) (arity int, ok bool) {
	arity, ok = t.entries[Symbol{Kind: Function, Name: name}]
	return
}

func (t *Table) IsVariable(name string) bool {
	_, ok := t.entries[Symbol{Kind: Variable, Name: name}]
	return ok
}

// Remove deletes both the Variable and Function entries for name and
// reports whether either existed.
func (t *Table) Remove(name string) bool {
	_, hadVar := t.entries[Symbol{Kind: Variable, Name: name}]
	_, hadFn := t.entries[Symbol{Kind: Function, Name: name}]
	delete(t.entries, Symbol{Kind: Variable, Name: name})
	delete(t.entries, Symbol{Kind: Function, Name: name})
	return hadVar || hadFn
}
