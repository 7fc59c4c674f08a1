// Package sdtypes carries the source language's type data model: the closed
// sum of types the checked AST is annotated with, and the small set of
// qualifiers (memory passing, function scheduling) the code generator reads
// off symbols and parameters. Nothing here runs inference or checking —
// that happens upstream, in the external collaborator this package's
// consumers (internal/codegen) never import.
package sdtypes

import "fmt"

// Type is the closed sum of all source-language types the generator
// consumes. Concrete variants are Primitive, Array, Pointer, Function,
// Opaque, and Struct.
type Type interface {
	String() string
	isType()
}

// PrimitiveKind enumerates the primitive type variants.
type PrimitiveKind int

const (
	KInt PrimitiveKind = iota
	KLong
	KInt32
	KUInt
	KUInt32
	KFloat
	KDouble
	KChar
	KByte
	KBool
	KString
	KVoid
	KNil
	KAny
)

func (k PrimitiveKind) String() string {
	switch k {
	case KInt:
		return "int"
	case KLong:
		return "long"
	case KInt32:
		return "int32"
	case KUInt:
		return "uint"
	case KUInt32:
		return "uint32"
	case KFloat:
		return "float"
	case KDouble:
		return "double"
	case KChar:
		return "char"
	case KByte:
		return "byte"
	case KBool:
		return "bool"
	case KString:
		return "string"
	case KVoid:
		return "void"
	case KNil:
		return "nil"
	case KAny:
		return "any"
	default:
		return "?"
	}
}

// Primitive is a non-compound type such as Int, Bool, or String.
type Primitive struct {
	Kind PrimitiveKind
}

func (p Primitive) String() string { return p.Kind.String() }
func (Primitive) isType()          {}

// IsHandleType reports whether t is Array or String — the two variants that
// get a distinct C representation (RtHandleV2 *) under arena mode.
func IsHandleType(t Type) bool {
	switch v := t.(type) {
	case Array:
		return true
	case Primitive:
		return v.Kind == KString
	default:
		return false
	}
}

// Array is a homogeneous array of Element.
type Array struct {
	Element Type
}

func (a Array) String() string { return fmt.Sprintf("%s[]", a.Element) }
func (Array) isType()          {}

// Pointer is a raw pointer to Base.
type Pointer struct {
	Base Type
}

func (p Pointer) String() string { return fmt.Sprintf("*%s", p.Base) }
func (Pointer) isType()          {}

// MemQual is a parameter/field memory-passing qualifier.
type MemQual int

const (
	MemDefault MemQual = iota
	MemAsRef
	MemAsVal
)

func (m MemQual) String() string {
	switch m {
	case MemAsRef:
		return "ref"
	case MemAsVal:
		return "val"
	default:
		return "default"
	}
}

// FuncMod is a thread-spawn scheduling modifier.
type FuncMod int

const (
	FuncDefault FuncMod = iota
	FuncShared
	FuncPrivate
)

// Function is a function or closure type.
type Function struct {
	Return        Type
	Params        []Type
	ParamMemQuals []MemQual
	IsNative      bool
	HasBody       bool
	HasArenaParam bool
	// TypedefName, when non-empty, names a C typedef to use for this
	// function type instead of the generic closure representation.
	TypedefName string
}

func (f Function) String() string {
	return fmt.Sprintf("fn(%d params) -> %s", len(f.Params), f.Return)
}
func (Function) isType() {}

// Opaque is a native type known only by name (bound to a C type the
// generator never looks inside).
type Opaque struct {
	Name string
}

func (o Opaque) String() string { return o.Name }
func (Opaque) isType()          {}

// ConstValue is a compile-time constant usable as a struct field default.
// Defaults are always drawn from the foldable literal sub-language (see
// internal/codegen's FOLD component), never arbitrary expressions.
type ConstValue interface {
	constValue()
}

type IntConst int64
type FloatConst float64
type BoolConst bool
type StringConst string

func (IntConst) constValue()    {}
func (FloatConst) constValue()  {}
func (BoolConst) constValue()   {}
func (StringConst) constValue() {}

// Field is a single struct field.
type Field struct {
	Name    string
	CAlias  string // optional; empty means "use mangled Name"
	Type    Type
	Default ConstValue // optional; nil means zero-initialize
}

// Method is a struct method — native (implemented in the runtime/host
// language) or source-language (has a body the generator must lower).
type Method struct {
	Name          string
	CAlias        string
	IsNative      bool
	IsStatic      bool
	Return        Type
	Params        []Type
	ParamMemQuals []MemQual
	HasArenaParam bool
	HasBody       bool
}

// Struct is a nominal record type, native or source-language-defined.
type Struct struct {
	Name          string
	CAlias        string // optional; set for native structs with a C type name
	IsNative      bool
	PassSelfByRef bool
	Fields        []Field
	Methods       []Method
}

func (s Struct) String() string { return s.Name }
func (Struct) isType()          {}

// FieldByName returns the field named n and true, or the zero Field and
// false if s has no such field.
func (s Struct) FieldByName(n string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == n {
			return f, true
		}
	}
	return Field{}, false
}

// MethodByName returns the method named n and true, or the zero Method and
// false if s has no such method.
func (s Struct) MethodByName(n string) (Method, bool) {
	for _, m := range s.Methods {
		if m.Name == n {
			return m, true
		}
	}
	return Method{}, false
}
