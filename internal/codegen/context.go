// Package codegen is the code-generation core: it lowers a fully
// type-checked AST into C source text against the RtArenaV2/RtHandleV2/
// RtAny runtime ABI. Emission is string-building — fragments
// are composed bottom-up by the Expr/Call/Intercept/Thread/Interp/Escape
// components below and concatenated into the generator context's output
// buffers — plus direct writes to an output stream for top-level
// definitions, the same split funxy's Compiler uses between its bytecode
// chunk and its forward-declaration buffers.
package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/sindarinsdk/sindacc/internal/cache"
	"github.com/sindarinsdk/sindacc/internal/diagnostics"
	"github.com/sindarinsdk/sindacc/internal/symbols"
)

// ArithmeticMode selects whether non-div/mod arithmetic goes through
// native C operators or always through the checked runtime functions
// names the runtime config keys lowering consults.
type ArithmeticMode int

const (
	Checked ArithmeticMode = iota
	Unchecked
)

// Mode is the "mode bit": whether a handle-typed expression
// should yield a handle or a pinned raw pointer. Design note §9 models it
// as an explicit argument to lowering rather than a mutable field, so the
// discipline is enforced by the compiler, not by convention.
type Mode int

const (
	// Raw means a handle-typed sub-expression must evaluate to a raw
	// pointer (pinned).
	Raw Mode = iota
	// Handle means a handle-typed sub-expression may evaluate to a
	// RtHandleV2 *.
	Handle
)

// G is the generator context: the single mutable object threaded through
// one compilation unit's AST traversal.
type G struct {
	Output io.Writer
	Syms   symbols.Table

	// CurrentArenaVar is the name of the C-level arena variable in scope:
	// empty at file scope, "__main_arena__"/"__local_arena__" inside
	// function bodies.
	CurrentArenaVar string

	// ArenaStack holds the names of nested private-block arenas, deepest
	// last.
	ArenaStack []string

	// ExprAsHandle mirrors the Mode currently in force — kept as a field
	// (not just a parameter) because some call sites need to save it,
	// force Raw or Handle for a sub-evaluation, and restore it afterward
	// (the "save expr_as_handle, set it, evaluate, restore"
	// idiom). SaveMode/restore below implement that as a defer pair.
	ExprAsHandle bool

	ArithmeticMode ArithmeticMode

	InArrayCompoundLiteral bool
	CurrentNamespacePrefix string
	CurrentIndent          int

	ThunkCount         int
	WrapperCount       int
	ThreadWrapperCount int
	TempCount          int

	ThunkForwardDecls  strings.Builder
	ThunkDefinitions   strings.Builder
	LambdaForwardDecls strings.Builder
	LambdaDefinitions  strings.Builder

	Diag  *diagnostics.Reporter
	Cache *cache.FragmentCache

	// UnitID stamps this compilation unit for cache namespacing and the
	// debug comment header emitted at flush time (see DESIGN.md
	// DOMAIN.1).
	UnitID uuid.UUID
}

// New creates a fresh generator context for one compilation unit.
func New(out io.Writer, syms symbols.Table, mode ArithmeticMode, diag *diagnostics.Reporter) *G {
	return &G{
		Output:         out,
		Syms:           syms,
		ArithmeticMode: mode,
		ExprAsHandle:   true,
		Diag:           diag,
		UnitID:         uuid.New(),
	}
}

// SaveMode forces the mode bit to m and returns a restore func; callers
// use `defer g.SaveMode(Raw)()` to implement the "save, set, evaluate,
// restore" idiom around sub-expressions that must be
// evaluated in a different mode than their surrounding context.
func (g *G) SaveMode(m Mode) func() {
	prev := g.ExprAsHandle
	g.ExprAsHandle = m == Handle
	return func() { g.ExprAsHandle = prev }
}

func (g *G) mode() Mode {
	if g.ExprAsHandle {
		return Handle
	}
	return Raw
}

// NextTemp allocates a fresh temporary variable name.
func (g *G) NextTemp() string {
	g.TempCount++
	return fmt.Sprintf("__tmp%d__", g.TempCount)
}

// NextThunkID allocates a fresh interceptor thunk id.
func (g *G) NextThunkID() int {
	id := g.ThunkCount
	g.ThunkCount++
	return id
}

// NextWrapperID allocates a fresh closure-adapter wrapper id.
func (g *G) NextWrapperID() int {
	id := g.WrapperCount
	g.WrapperCount++
	return id
}

// NextThreadWrapperID allocates a fresh thread wrapper id.
func (g *G) NextThreadWrapperID() int {
	id := g.ThreadWrapperCount
	g.ThreadWrapperCount++
	return id
}

// PushPrivateArena enters a nested private arena block, making name the
// current arena variable.
func (g *G) PushPrivateArena(name string) {
	g.ArenaStack = append(g.ArenaStack, name)
	g.CurrentArenaVar = name
}

// PopPrivateArena leaves the innermost private arena block, restoring the
// enclosing one (or the function-base arena if none remain).
func (g *G) PopPrivateArena(outerArenaVar string) {
	if len(g.ArenaStack) > 0 {
		g.ArenaStack = g.ArenaStack[:len(g.ArenaStack)-1]
	}
	g.CurrentArenaVar = outerArenaVar
}

// ArenaDepth is the current nesting level: 0 at file scope, 1 inside a
// function's own (base) arena, >=2 inside nested private blocks.
func (g *G) ArenaDepth() int {
	if g.CurrentArenaVar == "" {
		return 0
	}
	return 1 + len(g.ArenaStack)
}

// Flush writes the accumulated forward-declaration and definition buffers
// followed by body to Output, in the order a compiled unit expects:
// forward-decls, then lambda/thunk definitions, then the main body.
func (g *G) Flush(body string) error {
	w := g.Output
	if _, err := fmt.Fprintf(w, "/* sindacc unit %s */\n", g.UnitID); err != nil {
		return err
	}
	if g.ThunkForwardDecls.Len() > 0 {
		if _, err := io.WriteString(w, g.ThunkForwardDecls.String()); err != nil {
			return err
		}
	}
	if g.LambdaForwardDecls.Len() > 0 {
		if _, err := io.WriteString(w, g.LambdaForwardDecls.String()); err != nil {
			return err
		}
	}
	if g.LambdaDefinitions.Len() > 0 {
		if _, err := io.WriteString(w, g.LambdaDefinitions.String()); err != nil {
			return err
		}
	}
	if g.ThunkDefinitions.Len() > 0 {
		if _, err := io.WriteString(w, g.ThunkDefinitions.String()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, body)
	return err
}
