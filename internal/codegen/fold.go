package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sindarinsdk/sindacc/internal/ast"
)

// foldKind tags the three literal kinds the constant folder understands.
type foldKind int

const (
	foldInt foldKind = iota
	foldFloat
	foldBool
)

// foldValue is the result of folding a foldable sub-expression.
type foldValue struct {
	Kind  foldKind
	Int   int64
	Float float64
	Bool  bool
}

// foldableBinaryOps is exactly the operator sub-language this evaluator covers
// as foldable. Bitwise operators (& | ^ << >>) and unary ~ are
// deliberately absent: they are never folded, always emitted as native or
// runtime operators.
var foldableBinaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"&&": true, "||": true,
}

// Fold is the compile-time constant evaluator ("Constant
// folding (formal)"). It is total over the foldable literal/unary/binary
// sub-language; anything else, or a division/modulo by a folded zero,
// returns ok=false so the caller falls through to runtime evaluation.
func Fold(e ast.Expression) (foldValue, bool) {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return foldValue{Kind: foldInt, Int: n.Value}, true
	case *ast.FloatLiteral:
		return foldValue{Kind: foldFloat, Float: n.Value}, true
	case *ast.BoolLiteral:
		return foldValue{Kind: foldBool, Bool: n.Value}, true
	case *ast.UnaryExpr:
		return foldUnary(n)
	case *ast.BinaryExpr:
		return foldBinary(n)
	default:
		return foldValue{}, false
	}
}

func foldUnary(n *ast.UnaryExpr) (foldValue, bool) {
	v, ok := Fold(n.Operand)
	if !ok {
		return foldValue{}, false
	}
	switch n.Op {
	case "-":
		switch v.Kind {
		case foldInt:
			return foldValue{Kind: foldInt, Int: -v.Int}, true
		case foldFloat:
			return foldValue{Kind: foldFloat, Float: -v.Float}, true
		}
		return foldValue{}, false
	case "!":
		if v.Kind == foldBool {
			return foldValue{Kind: foldBool, Bool: !v.Bool}, true
		}
		return foldValue{}, false
	default:
		return foldValue{}, false
	}
}

func foldBinary(n *ast.BinaryExpr) (foldValue, bool) {
	if !foldableBinaryOps[n.Op] {
		return foldValue{}, false
	}
	l, ok := Fold(n.Left)
	if !ok {
		return foldValue{}, false
	}
	r, ok := Fold(n.Right)
	if !ok {
		return foldValue{}, false
	}

	switch n.Op {
	case "&&", "||":
		if l.Kind != foldBool || r.Kind != foldBool {
			return foldValue{}, false
		}
		if n.Op == "&&" {
			return foldValue{Kind: foldBool, Bool: l.Bool && r.Bool}, true
		}
		return foldValue{Kind: foldBool, Bool: l.Bool || r.Bool}, true
	case "==", "!=":
		if l.Kind == foldBool && r.Kind == foldBool {
			eq := l.Bool == r.Bool
			if n.Op == "!=" {
				eq = !eq
			}
			return foldValue{Kind: foldBool, Bool: eq}, true
		}
	}

	// Numeric path: promote to double if either operand is double.
	if l.Kind == foldBool || r.Kind == foldBool {
		return foldValue{}, false
	}
	useDouble := l.Kind == foldFloat || r.Kind == foldFloat
	var lf, rf float64
	var li, ri int64
	if useDouble {
		lf = asFloat(l)
		rf = asFloat(r)
	} else {
		li, ri = l.Int, r.Int
	}

	switch n.Op {
	case "/", "%":
		if (useDouble && rf == 0) || (!useDouble && ri == 0) {
			// Division/modulo by zero is never folded — let the runtime
			// surface DivByZero.
			return foldValue{}, false
		}
	}

	switch n.Op {
	case "+":
		if useDouble {
			return foldValue{Kind: foldFloat, Float: lf + rf}, true
		}
		return foldValue{Kind: foldInt, Int: li + ri}, true
	case "-":
		if useDouble {
			return foldValue{Kind: foldFloat, Float: lf - rf}, true
		}
		return foldValue{Kind: foldInt, Int: li - ri}, true
	case "*":
		if useDouble {
			return foldValue{Kind: foldFloat, Float: lf * rf}, true
		}
		return foldValue{Kind: foldInt, Int: li * ri}, true
	case "/":
		if useDouble {
			return foldValue{Kind: foldFloat, Float: lf / rf}, true
		}
		return foldValue{Kind: foldInt, Int: li / ri}, true
	case "%":
		if useDouble {
			return foldValue{}, false // modulo is integer-only in this language
		}
		return foldValue{Kind: foldInt, Int: li % ri}, true
	case "==", "!=", "<", "<=", ">", ">=":
		var cmp bool
		if useDouble {
			cmp = compareFloat(n.Op, lf, rf)
		} else {
			cmp = compareInt(n.Op, li, ri)
		}
		return foldValue{Kind: foldBool, Bool: cmp}, true
	}
	return foldValue{}, false
}

func asFloat(v foldValue) float64 {
	if v.Kind == foldFloat {
		return v.Float
	}
	return float64(v.Int)
}

func compareInt(op string, a, b int64) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func compareFloat(op string, a, b float64) bool {
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

// EmitFoldValue renders a folded constant as a C literal:
// integers get an "LL" suffix, doubles always show a "." or "e".
func EmitFoldValue(v foldValue) string {
	switch v.Kind {
	case foldInt:
		return fmt.Sprintf("%dLL", v.Int)
	case foldFloat:
		return emitDouble(v.Float)
	case foldBool:
		if v.Bool {
			return "true"
		}
		return "false"
	}
	return "0"
}

func emitDouble(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
