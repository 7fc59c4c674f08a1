package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sindarinsdk/sindacc/internal/ast"
)

func strLit(s string) *ast.StringLiteral { return ast.NewStringLiteral(s) }

func TestLowerInterpolationEmptyYieldsEmptyStringLiteral(t *testing.T) {
	g := &G{}
	out, err := LowerInterpolation(g, &ast.Interpolation{}, Raw)
	require.NoError(t, err)
	assert.Equal(t, `""`, out)
}

func TestLowerInterpolationSinglePlainStringPartIsPassthrough(t *testing.T) {
	g := &G{}
	n := &ast.Interpolation{Parts: []ast.InterpPart{{Value: strLit("hi")}}}
	out, err := LowerInterpolation(g, n, Raw)
	require.NoError(t, err)
	assert.Equal(t, `"hi"`, out)
}

func TestLowerInterpolationTwoPlainPartsUsesDirectConcat(t *testing.T) {
	g := &G{}
	n := &ast.Interpolation{Parts: []ast.InterpPart{{Value: strLit("a")}, {Value: strLit("b")}}}
	out, err := LowerInterpolation(g, n, Raw)
	require.NoError(t, err)
	assert.Equal(t, `rt_str_concat(NULL, "a", "b")`, out)
}

func TestLowerInterpolationThreePartsUsesGeneralChain(t *testing.T) {
	g := &G{}
	n := &ast.Interpolation{Parts: []ast.InterpPart{{Value: strLit("a")}, {Value: strLit("b")}, {Value: strLit("c")}}}
	out, err := LowerInterpolation(g, n, Raw)
	require.NoError(t, err)
	assert.Contains(t, out, "rt_str_concat")
	assert.Contains(t, out, "__interp_p0__")
	assert.Contains(t, out, "__interp_p2__")
}

func TestLowerInterpolationFormatSpecRoutesThroughFormatFn(t *testing.T) {
	g := &G{}
	n := &ast.Interpolation{Parts: []ast.InterpPart{
		{Value: strLit("x")},
		{Value: intLit(5), FormatSpec: "02"},
	}}
	out, err := LowerInterpolation(g, n, Raw)
	require.NoError(t, err)
	assert.Contains(t, out, "rt_format_long(")
	assert.Contains(t, out, `"02"`)
}
