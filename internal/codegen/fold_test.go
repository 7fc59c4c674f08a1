package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sindarinsdk/sindacc/internal/ast"
)

func intLit(v int64) *ast.IntLiteral {
	return &ast.IntLiteral{Value: v}
}

func floatLit(v float64) *ast.FloatLiteral {
	return &ast.FloatLiteral{Value: v}
}

func boolLit(v bool) *ast.BoolLiteral {
	return &ast.BoolLiteral{Value: v}
}

func binExpr(op string, l, r ast.Expression) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: op, Left: l, Right: r}
}

func TestFoldIntegerArithmetic(t *testing.T) {
	v, ok := Fold(binExpr("+", intLit(2), binExpr("*", intLit(3), intLit(4))))
	require.True(t, ok)
	assert.Equal(t, foldInt, v.Kind)
	assert.Equal(t, int64(14), v.Int)
	assert.Equal(t, "14LL", EmitFoldValue(v))
}

func TestFoldPromotesToDoubleWhenEitherOperandIsFloat(t *testing.T) {
	v, ok := Fold(binExpr("+", intLit(1), floatLit(2.5)))
	require.True(t, ok)
	assert.Equal(t, foldFloat, v.Kind)
	assert.Equal(t, 3.5, v.Float)
}

func TestFoldShortCircuitBoolean(t *testing.T) {
	v, ok := Fold(binExpr("&&", boolLit(true), boolLit(false)))
	require.True(t, ok)
	assert.Equal(t, foldBool, v.Kind)
	assert.False(t, v.Bool)
	assert.Equal(t, "false", EmitFoldValue(v))
}

func TestFoldDivisionByFoldedZeroIsNotFolded(t *testing.T) {
	_, ok := Fold(binExpr("/", intLit(10), intLit(0)))
	assert.False(t, ok, "division by a folded zero must defer to runtime DivByZero, never fold")
}

func TestFoldModuloByFoldedZeroIsNotFolded(t *testing.T) {
	_, ok := Fold(binExpr("%", intLit(10), intLit(0)))
	assert.False(t, ok)
}

func TestFoldBitwiseOperatorsAreNeverFolded(t *testing.T) {
	_, ok := Fold(binExpr("&", intLit(6), intLit(3)))
	assert.False(t, ok, "bitwise ops are deliberately excluded from the foldable sub-language")
}

func TestFoldUnaryNegation(t *testing.T) {
	v, ok := Fold(&ast.UnaryExpr{Op: "-", Operand: intLit(5)})
	require.True(t, ok)
	assert.Equal(t, int64(-5), v.Int)
}

func TestFoldNonLiteralIdentifierDoesNotFold(t *testing.T) {
	_, ok := Fold(&ast.Identifier{Name: "x"})
	assert.False(t, ok, "a bare identifier is never part of the foldable literal sub-language")
}
