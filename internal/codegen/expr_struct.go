package codegen

import (
	"fmt"
	"strings"

	"github.com/sindarinsdk/sindacc/internal/ast"
)

// lowerStructLiteral lowers Foo { x: 1 } into a C compound literal,
// zero-initializing any field the source omitted.
// Inside an array literal's element list, the leading (Type) cast is
// dropped — nested compound literals there don't need it, and GCC/Clang
// parse the doubled cast as a (usually harmless, always ugly) redundant
// cast that is usually harmless but always ugly to emit.
func lowerStructLiteral(g *G, n *ast.StructLiteral) (string, error) {
	given := make(map[string]string, len(n.Fields))
	for _, fi := range n.Fields {
		f, ok := n.StructType.FieldByName(fi.Name)
		if !ok {
			return "", internalf("struct literal names unknown field %q on %s", fi.Name, n.StructType.Name)
		}
		v, err := LowerExpr(g, fi.Value, Handle)
		if err != nil {
			return "", err
		}
		fieldC := f.CAlias
		if fieldC == "" {
			fieldC = Mangle(f.Name)
		} else {
			fieldC = GuardCIdent(fieldC)
		}
		given[fi.Name] = fmt.Sprintf(".%s = %s", fieldC, v)
	}

	parts := make([]string, 0, len(n.StructType.Fields))
	for _, f := range n.StructType.Fields {
		if init, ok := given[f.Name]; ok {
			parts = append(parts, init)
			continue
		}
		fieldC := f.CAlias
		if fieldC == "" {
			fieldC = Mangle(f.Name)
		} else {
			fieldC = GuardCIdent(fieldC)
		}
		parts = append(parts, fmt.Sprintf(".%s = %s", fieldC, DefaultValue(f.Type)))
	}

	body := fmt.Sprintf("{ %s }", strings.Join(parts, ", "))
	if g.InArrayCompoundLiteral {
		return body, nil
	}
	return fmt.Sprintf("(%s)%s", CType(n.StructType), body), nil
}
