package codegen

import (
	"fmt"
	"strconv"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
	"github.com/sindarinsdk/sindacc/internal/symbols"
)

// LowerExpr is the single public entry point for expression lowering
// "gen_expression(G, e) -> C-text"), dispatching on concrete expression
// kind the way funxy's compileExpression dispatches on ast.Expression.
// mode is the explicit handle/raw discipline design note §9 calls for.
func LowerExpr(g *G, e ast.Expression, mode Mode) (string, error) {
	restore := g.SaveMode(mode)
	defer restore()

	switch n := e.(type) {
	case *ast.IntLiteral:
		return fmt.Sprintf("%dLL", n.Value), nil
	case *ast.FloatLiteral:
		return emitDouble(n.Value), nil
	case *ast.BoolLiteral:
		if n.Value {
			return "true", nil
		}
		return "false", nil
	case *ast.CharLiteral:
		return fmt.Sprintf("'%s'", escapeCChar(n.Value)), nil
	case *ast.StringLiteral:
		lit := strconv.Quote(n.Value)
		return wrapAsHandleIfNeeded(g, sdtypes.Primitive{Kind: sdtypes.KString}, lit, mode), nil
	case *ast.NilLiteral:
		return "NULL", nil
	case *ast.Identifier:
		return lowerIdentifier(g, n, mode)
	case *ast.NamespaceVarRef:
		return lowerNamespaceVarRef(g, n, mode)
	case *ast.BinaryExpr:
		return lowerBinary(g, n, mode)
	case *ast.UnaryExpr:
		return lowerUnary(g, n, mode)
	case *ast.IncDecExpr:
		return lowerIncDec(g, n)
	case *ast.MemberAccess:
		return lowerMemberAccess(g, n, mode)
	case *ast.IndexAccess:
		return lowerIndexAccess(g, n, mode)
	case *ast.ArrayLiteral:
		return lowerArrayLiteral(g, n, mode)
	case *ast.RangeExpr:
		return lowerRange(g, n, mode)
	case *ast.SliceExpr:
		return lowerSlice(g, n, mode)
	case *ast.SpreadExpr:
		return LowerExpr(g, n.Inner, mode)
	case *ast.StructLiteral:
		return lowerStructLiteral(g, n)
	case *ast.Lambda:
		return lowerLambda(g, n)
	case *ast.NamedFuncValue:
		return lowerNamedFuncValue(g, n)
	case *ast.Call:
		return LowerCall(g, n, mode)
	case *ast.MethodCall:
		return LowerMethodCall(g, n, mode)
	case *ast.NamespaceCall:
		return LowerNamespaceCall(g, n, mode)
	case *ast.StaticCall:
		return LowerStaticCall(g, n, mode)
	case *ast.BuiltinCall:
		return LowerBuiltinCall(g, n)
	case *ast.ThreadSpawn:
		return LowerThreadSpawn(g, n)
	case *ast.ThreadSync:
		return LowerThreadSync(g, n, mode)
	case *ast.ThreadSyncList:
		return LowerThreadSyncList(g, n)
	case *ast.Interpolation:
		return LowerInterpolation(g, n, mode)
	case *ast.SizeofExpr:
		return lowerSizeof(g, n)
	case *ast.TypeofExpr:
		return lowerTypeof(g, n)
	case *ast.IsExpr:
		return lowerIs(g, n)
	case *ast.AsExpr:
		return lowerAs(g, n)
	default:
		if g.Diag != nil {
			g.Diag.Unsupported("unsupported expression kind %T", e)
		}
		return "", unsupportedf("unsupported expression kind %T", e)
	}
}

func escapeCChar(b byte) string {
	switch b {
	case '\'':
		return "\\'"
	case '\\':
		return "\\\\"
	case '\n':
		return "\\n"
	case '\t':
		return "\\t"
	case '\r':
		return "\\r"
	case 0:
		return "\\0"
	default:
		return string(b)
	}
}

func lowerIdentifier(g *G, n *ast.Identifier, mode Mode) (string, error) {
	sym, ok := g.Syms.Lookup(n.Name)
	if !ok {
		if g.Diag != nil {
			g.Diag.UnresolvedMarker(n.Name)
		}
		return unresolvedFragment(n.Name, Mangle(n.Name)), nil
	}
	name := Mangle(sym.Name)
	return pinIfNeeded(sym.Type, name, mode), nil
}

func lowerNamespaceVarRef(g *G, n *ast.NamespaceVarRef, mode Mode) (string, error) {
	prefix := n.Prefix
	if n.IsStatic && n.CanonicalModule != "" {
		prefix = []string{n.CanonicalModule}
	}
	name := MangleNamespace(prefix, n.Name)
	return pinIfNeeded(n.Type, name, mode), nil
}

// ---- binary / unary ----

func lowerBinary(g *G, n *ast.BinaryExpr, mode Mode) (string, error) {
	if v, ok := Fold(n); ok {
		return EmitFoldValue(v), nil
	}

	lt := n.Left.ExprType()
	rt := n.Right.ExprType()

	switch n.Op {
	case "&&", "||":
		restore := g.SaveMode(Raw)
		l, err := LowerExpr(g, n.Left, Raw)
		if err != nil {
			restore()
			return "", err
		}
		r, err := LowerExpr(g, n.Right, Raw)
		restore()
		if err != nil {
			return "", err
		}
		sym := "&&"
		if n.Op == "||" {
			sym = "||"
		}
		return fmt.Sprintf("((%s) != 0) %s ((%s) != 0) ? true : false", l, sym, r), nil
	}

	if isArrayType(lt) && (n.Op == "==" || n.Op == "!=") {
		l, r, err := lowerOperandsRaw(g, n.Left, n.Right)
		if err != nil {
			return "", err
		}
		elemSuffix := TypeSuffix(lt.(sdtypes.Array).Element)
		eq := fmt.Sprintf("rt_array_eq_%s(%s, %s)", elemSuffix, l, r)
		if n.Op == "!=" {
			return fmt.Sprintf("!(%s)", eq), nil
		}
		return eq, nil
	}

	if isStructType(lt) && (n.Op == "==" || n.Op == "!=") {
		l, r, err := lowerOperandsRaw(g, n.Left, n.Right)
		if err != nil {
			return "", err
		}
		op := "=="
		if n.Op == "!=" {
			op = "!="
		}
		return fmt.Sprintf("(memcmp(&(%s), &(%s), sizeof(%s)) %s 0)", l, r, CType(lt), op), nil
	}

	if isPointerOrNilType(lt) && (n.Op == "==" || n.Op == "!=") {
		l, r, err := lowerOperandsRaw(g, n.Left, n.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("((%s) %s (%s))", l, n.Op, r), nil
	}

	if isBoolType(lt) || isBitwiseOp(n.Op) {
		l, r, err := lowerOperandsRaw(g, n.Left, n.Right)
		if err != nil {
			return "", err
		}
		return castLongLong(fmt.Sprintf("(%s) %s (%s)", l, n.Op, r)), nil
	}

	if n.Op == "+" && isStringType(lt) {
		l, err := lowerStringOperandRaw(g, n.Left)
		if err != nil {
			return "", err
		}
		r, err := lowerStringOperandRaw(g, n.Right)
		if err != nil {
			return "", err
		}
		arena := g.arenaOrNull()
		concat := fmt.Sprintf("rt_str_concat_h(%s, RT_HANDLE_NULL, %s, %s)", arena, l, r)
		if mode == Raw {
			return pinFragment(sdtypes.Primitive{Kind: sdtypes.KString}, concat), nil
		}
		return concat, nil
	}

	if g.ArithmeticMode == Unchecked && n.Op != "/" && n.Op != "%" {
		l, r, err := lowerOperandsRaw(g, n.Left, n.Right)
		if err != nil {
			return "", err
		}
		if isComparisonOp(n.Op) {
			return fmt.Sprintf("((%s) %s (%s))", l, n.Op, r), nil
		}
		return castLongLong(fmt.Sprintf("(%s) %s (%s)", l, n.Op, r)), nil
	}

	l, r, err := lowerOperandsRaw(g, n.Left, n.Right)
	if err != nil {
		return "", err
	}
	suffix := runtimeSuffix(lt, rt)
	switch n.Op {
	case "+":
		return fmt.Sprintf("rt_add_%s(%s, %s)", suffix, l, r), nil
	case "-":
		return fmt.Sprintf("rt_sub_%s(%s, %s)", suffix, l, r), nil
	case "*":
		return fmt.Sprintf("rt_mul_%s(%s, %s)", suffix, l, r), nil
	case "/":
		return fmt.Sprintf("rt_div_%s(%s, %s)", suffix, l, r), nil
	case "%":
		return fmt.Sprintf("rt_mod_%s(%s, %s)", suffix, l, r), nil
	case "==", "!=", "<", "<=", ">", ">=":
		return fmt.Sprintf("((%s) %s (%s))", l, n.Op, r), nil
	}
	return "", unsupportedf("unsupported binary operator %q", n.Op)
}

func runtimeSuffix(lt, rt sdtypes.Type) string {
	if p, ok := lt.(sdtypes.Primitive); ok && p.Kind == sdtypes.KDouble {
		return "double"
	}
	if p, ok := rt.(sdtypes.Primitive); ok && p.Kind == sdtypes.KDouble {
		return "double"
	}
	if isStringType(lt) {
		return "string"
	}
	if isBoolType(lt) {
		return "bool"
	}
	return "long"
}

func lowerOperandsRaw(g *G, l, r ast.Expression) (string, string, error) {
	restore := g.SaveMode(Raw)
	defer restore()
	lf, err := LowerExpr(g, l, Raw)
	if err != nil {
		return "", "", err
	}
	rf, err := LowerExpr(g, r, Raw)
	if err != nil {
		return "", "", err
	}
	return lf, rf, nil
}

func lowerStringOperandRaw(g *G, e ast.Expression) (string, error) {
	restore := g.SaveMode(Raw)
	defer restore()
	return LowerExpr(g, e, Raw)
}

func isStringType(t sdtypes.Type) bool {
	p, ok := t.(sdtypes.Primitive)
	return ok && p.Kind == sdtypes.KString
}

func isBoolType(t sdtypes.Type) bool {
	p, ok := t.(sdtypes.Primitive)
	return ok && p.Kind == sdtypes.KBool
}

func isArrayType(t sdtypes.Type) bool {
	_, ok := t.(sdtypes.Array)
	return ok
}

func isStructType(t sdtypes.Type) bool {
	_, ok := t.(sdtypes.Struct)
	return ok
}

func isPointerOrNilType(t sdtypes.Type) bool {
	switch v := t.(type) {
	case sdtypes.Pointer:
		return true
	case sdtypes.Primitive:
		return v.Kind == sdtypes.KNil
	}
	return false
}

func isBitwiseOp(op string) bool {
	switch op {
	case "&", "|", "^", "<<", ">>":
		return true
	}
	return false
}

func isComparisonOp(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return true
	}
	return false
}

func lowerUnary(g *G, n *ast.UnaryExpr, mode Mode) (string, error) {
	if v, ok := Fold(n); ok {
		return EmitFoldValue(v), nil
	}
	restore := g.SaveMode(Raw)
	operand, err := LowerExpr(g, n.Operand, Raw)
	restore()
	if err != nil {
		return "", err
	}
	switch n.Op {
	case "-":
		if isDoubleType(n.Operand.ExprType()) {
			return fmt.Sprintf("rt_neg_double(%s)", operand), nil
		}
		return fmt.Sprintf("rt_neg_long(%s)", operand), nil
	case "!":
		return fmt.Sprintf("rt_not_bool(%s)", operand), nil
	case "~":
		return castLongLong(fmt.Sprintf("~(%s)", operand)), nil
	}
	return "", unsupportedf("unsupported unary operator %q", n.Op)
}

func isDoubleType(t sdtypes.Type) bool {
	p, ok := t.(sdtypes.Primitive)
	return ok && p.Kind == sdtypes.KDouble
}

func lowerIncDec(g *G, n *ast.IncDecExpr) (string, error) {
	var name string
	var sym *symbolLike
	switch op := n.Operand.(type) {
	case *ast.Identifier:
		s, ok := g.Syms.Lookup(op.Name)
		if !ok {
			return "", internalf("increment/decrement of unresolved identifier %q", op.Name)
		}
		name = Mangle(op.Name)
		sym = &symbolLike{sync: s.SyncMod == symbols.SyncAtomic, memQual: s.MemQual, kind: s.Type}
	default:
		return "", unsupportedf("increment/decrement operand must be a variable")
	}

	verb := "inc"
	fetch := "__atomic_fetch_add"
	if n.Op == "--" {
		verb = "dec"
		fetch = "__atomic_fetch_sub"
	}

	if sym.sync {
		return fmt.Sprintf("%s(&%s, 1, __ATOMIC_SEQ_CST)", fetch, name), nil
	}
	if isCharOrByte(sym.kind) {
		if n.Op == "++" {
			return fmt.Sprintf("(%s)++", name), nil
		}
		return fmt.Sprintf("(%s)--", name), nil
	}
	target := name
	if sym.memQual != sdtypes.MemAsRef {
		target = "&" + name
	}
	return fmt.Sprintf("rt_post_%s_long(%s)", verb, target), nil
}

// symbolLike is a tiny local projection used only to keep lowerIncDec
// readable without re-importing the symbols package's full Symbol type
// into every branch.
type symbolLike struct {
	sync    bool
	memQual sdtypes.MemQual
	kind    sdtypes.Type
}

func isCharOrByte(t sdtypes.Type) bool {
	p, ok := t.(sdtypes.Primitive)
	return ok && (p.Kind == sdtypes.KChar || p.Kind == sdtypes.KByte)
}
