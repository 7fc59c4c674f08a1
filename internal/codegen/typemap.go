package codegen

import (
	"fmt"
	"strings"

	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// CType translates a source type to its C spelling, following the
// mapping table).
func CType(t sdtypes.Type) string {
	switch v := t.(type) {
	case sdtypes.Primitive:
		switch v.Kind {
		case sdtypes.KInt, sdtypes.KLong:
			return "long long"
		case sdtypes.KInt32:
			return "int32_t"
		case sdtypes.KUInt:
			return "uint64_t"
		case sdtypes.KUInt32:
			return "uint32_t"
		case sdtypes.KFloat:
			return "float"
		case sdtypes.KDouble:
			return "double"
		case sdtypes.KChar:
			return "char"
		case sdtypes.KByte:
			return "unsigned char"
		case sdtypes.KBool:
			return "bool"
		case sdtypes.KVoid:
			return "void"
		case sdtypes.KNil:
			return "void *"
		case sdtypes.KAny:
			return "RtAny"
		case sdtypes.KString:
			return "RtHandleV2 *"
		}
	case sdtypes.Array:
		return "RtHandleV2 *"
	case sdtypes.Pointer:
		return CType(v.Base) + "*"
	case sdtypes.Function:
		if v.IsNative && v.TypedefName != "" {
			return v.TypedefName
		}
		return "__Closure__ *"
	case sdtypes.Opaque:
		return v.Name
	case sdtypes.Struct:
		if v.IsNative {
			alias := v.CAlias
			if alias == "" {
				alias = v.Name
			} else {
				alias = GuardCIdent(alias)
			}
			return alias + " *"
		}
		return Mangle(v.Name)
	}
	return "void *"
}

// CNativeParamType is CType, except String/Array use their native,
// unmanaged spellings — the shape a native (host-language) function
// signature expects.
func CNativeParamType(t sdtypes.Type) string {
	switch v := t.(type) {
	case sdtypes.Primitive:
		if v.Kind == sdtypes.KString {
			return "const char *"
		}
	case sdtypes.Array:
		return CArrayElemType(v.Element) + " *"
	}
	return CType(t)
}

// CArrayElemType is the C type used to store E inside an array's backing
// storage. Bool is stored as int for alignment; String and Array elements
// are themselves handles.
func CArrayElemType(e sdtypes.Type) string {
	if p, ok := e.(sdtypes.Primitive); ok {
		if p.Kind == sdtypes.KBool {
			return "int"
		}
		if p.Kind == sdtypes.KString {
			return "RtHandleV2 *"
		}
	}
	if _, ok := e.(sdtypes.Array); ok {
		return "RtHandleV2 *"
	}
	return CType(e)
}

// TypeSuffix is the short tag used to name suffixed runtime functions
// (rt_add_<suffix>, rt_array_push_<suffix>, ...).
func TypeSuffix(t sdtypes.Type) string {
	p, ok := t.(sdtypes.Primitive)
	if !ok {
		return "generic"
	}
	switch p.Kind {
	case sdtypes.KInt, sdtypes.KLong:
		return "long"
	case sdtypes.KInt32:
		return "int32"
	case sdtypes.KUInt:
		return "uint"
	case sdtypes.KUInt32:
		return "uint32"
	case sdtypes.KChar:
		return "char"
	case sdtypes.KByte:
		return "byte"
	case sdtypes.KDouble:
		return "double"
	case sdtypes.KFloat:
		return "float"
	case sdtypes.KString:
		return "string"
	case sdtypes.KBool:
		return "bool"
	case sdtypes.KVoid:
		return "void"
	}
	return "generic"
}

// StructTypeID computes the deterministic 31-bit djb2 hash of a struct's
// name, used by the Any bridge for "x is Struct" checks. The runtime must
// use the exact same algorithm.
func StructTypeID(name string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(name); i++ {
		h = ((h << 5) + h) + uint32(name[i]) // h*33 + c
	}
	return h & 0x7FFFFFFF
}

// DefaultValue is the C initializer literal for a zero-valued T.
func DefaultValue(t sdtypes.Type) string {
	switch v := t.(type) {
	case sdtypes.Primitive:
		switch v.Kind {
		case sdtypes.KString:
			return "NULL"
		case sdtypes.KAny:
			return "rt_box_nil()"
		default:
			return "0"
		}
	case sdtypes.Array:
		return "NULL"
	case sdtypes.Struct:
		if v.IsNative && v.CAlias != "" {
			return "NULL"
		}
		return "{0}"
	case sdtypes.Pointer:
		return "NULL"
	case sdtypes.Opaque:
		return "NULL"
	}
	return "0"
}

// BoxingFunction names the rt_box_* bridge function for a concrete type.
func BoxingFunction(t sdtypes.Type) string {
	if st, ok := t.(sdtypes.Struct); ok {
		_ = st
		return "rt_box_struct"
	}
	return "rt_box_" + TypeSuffix(t)
}

// UnboxingFunction names the rt_unbox_* bridge function for a concrete
// type.
func UnboxingFunction(t sdtypes.Type) string {
	if st, ok := t.(sdtypes.Struct); ok {
		_ = st
		return "rt_unbox_struct"
	}
	return "rt_unbox_" + TypeSuffix(t)
}

// ElementTypeTag names the RT_ANY_* element tag used when boxing/unboxing
// an array of E via the generic array bridge.
func ElementTypeTag(e sdtypes.Type) string {
	return "RT_ANY_" + strings.ToUpper(TypeSuffix(e))
}

// AnyTagConstant is the compile-time RT_ANY_* constant for a concrete
// type, used by typeof(T) and the `is`/`as` operators.
func AnyTagConstant(t sdtypes.Type) string {
	if _, ok := t.(sdtypes.Struct); ok {
		return "RT_ANY_STRUCT"
	}
	if _, ok := t.(sdtypes.Array); ok {
		return "RT_ANY_ARRAY"
	}
	return fmt.Sprintf("RT_ANY_%s", strings.ToUpper(TypeSuffix(t)))
}
