package codegen

import (
	"fmt"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// toStringFragment lowers e and converts it to a char* fragment for
// print/println/interpolation: strings pass through, other primitives go
// through rt_to_string_<kind>, structs with a user toString() call it, and
// structs without one auto-serialize their fields.
func toStringFragment(g *G, e ast.Expression) (string, error) {
	raw, err := lowerObjectRaw(g, e)
	if err != nil {
		return "", err
	}
	return toStringTop(g, e.ExprType(), raw), nil
}

func toStringTop(g *G, t sdtypes.Type, cfrag string) string {
	switch pt := t.(type) {
	case sdtypes.Primitive:
		switch pt.Kind {
		case sdtypes.KString:
			return cfrag
		case sdtypes.KChar:
			return fmt.Sprintf("rt_to_string_char(%s)", cfrag)
		case sdtypes.KBool:
			return fmt.Sprintf("rt_to_string_bool(%s)", cfrag)
		case sdtypes.KDouble, sdtypes.KFloat:
			return fmt.Sprintf("rt_to_string_double((double)(%s))", cfrag)
		default:
			return fmt.Sprintf("rt_to_string_long((long long)(%s))", cfrag)
		}
	case sdtypes.Struct:
		return structToStringFragment(g, pt, cfrag)
	default:
		return fmt.Sprintf("rt_to_string_long((long long)(%s))", cfrag)
	}
}

// toStringQuoted is toStringTop but quotes String/Char values, the
// convention struct auto-serialization uses for its field list.
func toStringQuoted(g *G, t sdtypes.Type, cfrag string) string {
	arena := g.arenaOrNull()
	if p, ok := t.(sdtypes.Primitive); ok {
		switch p.Kind {
		case sdtypes.KString:
			return concatAll(arena, []string{`"\""`, cfrag, `"\""`})
		case sdtypes.KChar:
			return concatAll(arena, []string{`"'"`, fmt.Sprintf("rt_to_string_char(%s)", cfrag), `"'"`})
		}
	}
	return toStringTop(g, t, cfrag)
}

// structToStringFragment calls a user-defined toString() when present, or
// auto-serializes as "Name { f1: v1, f2: v2 }" otherwise.
func structToStringFragment(g *G, st sdtypes.Struct, cfrag string) string {
	if _, ok := st.MethodByName("toString"); ok {
		calleeName := MangleMethod(Mangle(st.Name), "toString")
		arena := g.arenaOrNull()
		self := cfrag
		if st.PassSelfByRef {
			self = "&(" + cfrag + ")"
		}
		return pinFragment(stringT, fmt.Sprintf("%s(%s, %s)", calleeName, arena, self))
	}

	arena := g.arenaOrNull()
	frags := []string{fmt.Sprintf("%q", st.Name+" { ")}
	for i, f := range st.Fields {
		fieldC := f.CAlias
		if fieldC == "" {
			fieldC = Mangle(f.Name)
		} else {
			fieldC = GuardCIdent(fieldC)
		}
		access := fmt.Sprintf("(%s).%s", cfrag, fieldC)
		label := fmt.Sprintf("%s: ", f.Name)
		if i > 0 {
			label = ", " + label
		}
		frags = append(frags, fmt.Sprintf("%q", label))
		frags = append(frags, toStringQuoted(g, f.Type, pinIfNeeded(f.Type, access, Raw)))
	}
	frags = append(frags, fmt.Sprintf("%q", " }"))
	return concatAll(arena, frags)
}

// concatAll right-folds a fixed list of char* fragments through
// rt_str_concat_h, pinning each intermediate handle back to char*; it is
// the compile-time unrolled analogue of the statement-expression chain
// general interpolation builds at runtime.
func concatAll(arena string, frags []string) string {
	if len(frags) == 0 {
		return `""`
	}
	result := frags[len(frags)-1]
	for i := len(frags) - 2; i >= 0; i-- {
		result = pinFragment(stringT, fmt.Sprintf("rt_str_concat_h(%s, RT_HANDLE_NULL, %s, %s)", arena, frags[i], result))
	}
	return result
}
