package codegen

import (
	"fmt"
	"strings"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

var stringT = sdtypes.Primitive{Kind: sdtypes.KString}

// formatKindFn names the rt_format_<kind> entry point used when a part
// carries a format specifier (width/precision/base, printf-flavored).
func formatKindFn(t sdtypes.Type) string {
	p, ok := t.(sdtypes.Primitive)
	if !ok {
		return "rt_format_long"
	}
	switch p.Kind {
	case sdtypes.KDouble, sdtypes.KFloat:
		return "rt_format_double"
	case sdtypes.KString:
		return "rt_format_string"
	default:
		return "rt_format_long"
	}
}

// interpPartFragment lowers one interpolation part to a char* fragment:
// a format spec routes through rt_format_<kind>, otherwise it's the same
// to-string conversion print() uses.
func interpPartFragment(g *G, part ast.InterpPart) (string, error) {
	if part.FormatSpec != "" {
		raw, err := lowerObjectRaw(g, part.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s, %q)", formatKindFn(part.Value.ExprType()), raw, part.FormatSpec), nil
	}
	return toStringFragment(g, part.Value)
}

// isPlainStringPart reports whether a part is a bare string-typed value
// with no format specifier, eligible for the direct/concat fast paths.
func isPlainStringPart(part ast.InterpPart) bool {
	return part.FormatSpec == "" && isStringType(part.Value.ExprType())
}

// LowerInterpolation lowers a `"...${...}..."` literal, special-casing the
// 0/1/2 plain-string-part shapes that don't need the general concat chain.
func LowerInterpolation(g *G, n *ast.Interpolation, mode Mode) (string, error) {
	arena := g.arenaOrNull()

	switch len(n.Parts) {
	case 0:
		return wrapAsHandleIfNeeded(g, stringT, `""`, mode), nil

	case 1:
		if isPlainStringPart(n.Parts[0]) {
			raw, err := lowerObjectRaw(g, n.Parts[0].Value)
			if err != nil {
				return "", err
			}
			return wrapAsHandleIfNeeded(g, stringT, raw, mode), nil
		}

	case 2:
		if isPlainStringPart(n.Parts[0]) && isPlainStringPart(n.Parts[1]) {
			a, err := lowerObjectRaw(g, n.Parts[0].Value)
			if err != nil {
				return "", err
			}
			b, err := lowerObjectRaw(g, n.Parts[1].Value)
			if err != nil {
				return "", err
			}
			if mode == Handle {
				return fmt.Sprintf("rt_str_concat_h(%s, RT_HANDLE_NULL, %s, %s)", arena, a, b), nil
			}
			return fmt.Sprintf("rt_str_concat(%s, %s, %s)", arena, a, b), nil
		}
	}

	frags := make([]string, len(n.Parts))
	for i, part := range n.Parts {
		f, err := interpPartFragment(g, part)
		if err != nil {
			return "", err
		}
		frags[i] = f
	}

	var b strings.Builder
	b.WriteString("({\n")
	for i, f := range frags {
		fmt.Fprintf(&b, "  const char *%s = %s;\n", interpTemp(i), f)
	}
	acc := interpTemp(0)
	for i := 1; i < len(frags); i++ {
		next := fmt.Sprintf("__interp_acc_%d__", i)
		fmt.Fprintf(&b, "  const char *%s = rt_str_concat(%s, %s, %s);\n", next, arena, acc, interpTemp(i))
		acc = next
	}
	result := acc
	if mode == Handle {
		result = fmt.Sprintf("rt_arena_v2_strdup(%s, %s)", arena, acc)
	}
	fmt.Fprintf(&b, "  %s;\n", result)
	b.WriteString("})")
	return b.String(), nil
}

func interpTemp(i int) string {
	return fmt.Sprintf("__interp_p%d__", i)
}
