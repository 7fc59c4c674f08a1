package codegen

import "fmt"

// ErrorClass is the compile-time error taxonomy lowering reports under.
type ErrorClass int

const (
	// ClassUnsupported marks a construct the generator has no lowering
	// for. Printed to stderr; generation aborts.
	ClassUnsupported ErrorClass = iota
	// ClassUnresolved marks a defensive case — the type checker should
	// have caught this, but didn't. The generator emits a visible
	// "ERROR: unresolved type" marker into the generated C and keeps
	// going, so a single miss never turns into a silent miscompile.
	ClassUnresolved
	// ClassInternal marks an invariant violation (e.g. a nil object in a
	// method call) the generator never expects to see from a
	// type-checked AST. Generation aborts.
	ClassInternal
)

// GenError is the generator's own error type. Fatal reports whether
// generation must abort (Unsupported, Internal) as opposed to continuing
// with a marker emitted in place of the bad fragment (Unresolved).
type GenError struct {
	Class   ErrorClass
	Message string
}

func (e *GenError) Error() string { return e.Message }

func (e *GenError) Fatal() bool {
	return e.Class == ClassUnsupported || e.Class == ClassInternal
}

func unsupportedf(format string, args ...any) *GenError {
	return &GenError{Class: ClassUnsupported, Message: fmt.Sprintf(format, args...)}
}

func internalf(format string, args ...any) *GenError {
	return &GenError{Class: ClassInternal, Message: fmt.Sprintf(format, args...)}
}

// unresolvedMarkerFmt is the literal text emitted in place of a
// construct the checker should have resolved. It is valid as a C comment
// wrapped around an expression of the caller's choice, so it never breaks
// the surrounding statement's syntax.
const unresolvedMarkerFmt = "/* ERROR: unresolved type: %s */ %s"

func unresolvedFragment(what, fallback string) string {
	return fmt.Sprintf(unresolvedMarkerFmt, what, fallback)
}
