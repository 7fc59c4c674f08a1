// Package symbols is the narrow, read-only contract the code generator uses
// to ask the (external, out-of-scope) symbol table questions about a name:
// is it global or local, native or source-language, what is its memory
// qualifier, is it declared atomic. A Symbol struct plus scope bookkeeping,
// carrying exactly the fields the generator's contract needs, nothing
// from type inference leaks in.
package symbols

import "github.com/sindarinsdk/sindacc/internal/sdtypes"

// Kind is the syntactic category of a resolved name.
type Kind int

const (
	KindGlobal Kind = iota
	KindLocal
	KindParameter
	KindFunction
	KindType
	KindNamespace
)

// SyncMod marks a variable declared with the `sync` storage modifier.
type SyncMod int

const (
	SyncNone SyncMod = iota
	SyncAtomic
)

// Symbol is everything the generator is allowed to read about a resolved
// name.
type Symbol struct {
	Name                  string
	Kind                  Kind
	Type                  sdtypes.Type
	IsNative              bool
	CAlias                string
	IsFunction            bool
	HasBody               bool
	HasArenaParam         bool
	FuncMod               sdtypes.FuncMod
	SyncMod               SyncMod
	MemQual               sdtypes.MemQual
	DeclarationScopeDepth int
	// NamespacePrefix is set for namespace-scoped symbols; for a static
	// namespace variable this is the namespace's canonical module name
	// for a canonical namespace-scoped variable.
	NamespacePrefix string
}

// IsGlobal reports whether a symbol is global: explicitly marked so, or
// declared at scope depth <= 1 (matching the outer system's "function body
// is scope depth 1" discipline — see DESIGN.md).
func (s *Symbol) IsGlobal() bool {
	return s.Kind == KindGlobal || s.DeclarationScopeDepth <= 1
}

// Table is the read-only symbol-table contract: lookup by bare name,
// lookup inside a (possibly nested) namespace, and lookup a struct type by
// name. A populated implementation is supplied by the front end; Map is a
// minimal in-memory implementation used by this repository's own tests.
type Table interface {
	Lookup(name string) (*Symbol, bool)
	LookupInNamespace(prefix []string, name string) (*Symbol, bool)
	LookupType(name string) (*sdtypes.Struct, bool)
}

// Map is a minimal in-memory Table, grounded on the shape of tests that
// exercise the generator without a real front end attached.
type Map struct {
	Globals    map[string]*Symbol
	Namespaces map[string]map[string]*Symbol // dotted prefix -> name -> symbol
	Types      map[string]*sdtypes.Struct
}

// NewMap returns an empty Map table ready for Define/DefineType calls.
func NewMap() *Map {
	return &Map{
		Globals:    make(map[string]*Symbol),
		Namespaces: make(map[string]map[string]*Symbol),
		Types:      make(map[string]*sdtypes.Struct),
	}
}

func (m *Map) Lookup(name string) (*Symbol, bool) {
	s, ok := m.Globals[name]
	return s, ok
}

func (m *Map) LookupInNamespace(prefix []string, name string) (*Symbol, bool) {
	key := joinDots(prefix)
	ns, ok := m.Namespaces[key]
	if !ok {
		return nil, false
	}
	s, ok := ns[name]
	return s, ok
}

func (m *Map) LookupType(name string) (*sdtypes.Struct, bool) {
	s, ok := m.Types[name]
	return s, ok
}

// Define registers a global/local symbol.
func (m *Map) Define(s *Symbol) { m.Globals[s.Name] = s }

// DefineInNamespace registers a symbol under a (possibly multi-segment)
// namespace prefix.
func (m *Map) DefineInNamespace(prefix []string, s *Symbol) {
	key := joinDots(prefix)
	ns, ok := m.Namespaces[key]
	if !ok {
		ns = make(map[string]*Symbol)
		m.Namespaces[key] = ns
	}
	ns[s.Name] = s
}

// DefineType registers a struct type by name.
func (m *Map) DefineType(st *sdtypes.Struct) { m.Types[st.Name] = st }

func joinDots(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}
