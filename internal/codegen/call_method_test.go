package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
	"github.com/sindarinsdk/sindacc/internal/symbols"
)

func pointStruct() sdtypes.Struct {
	return sdtypes.Struct{
		Name:   "Point",
		Fields: []sdtypes.Field{{Name: "x", Type: sdtypes.Primitive{Kind: sdtypes.KInt}}},
	}
}

func TestLowerStructMethodInterceptEligibleBoxesSelf(t *testing.T) {
	st := pointStruct()
	syms := symbols.NewMap()
	syms.Define(&symbols.Symbol{Name: "p", Kind: symbols.KindLocal, Type: st})
	g := &G{Syms: syms}

	method := sdtypes.Method{Name: "norm", HasBody: true, Return: sdtypes.Primitive{Kind: sdtypes.KInt}}
	call := &ast.MethodCall{
		Object:         &ast.Identifier{Name: "p"},
		ObjectType:     st,
		Method:         "norm",
		ResolvedMethod: &method,
		ResolvedStruct: &st,
	}

	out, err := LowerMethodCall(g, call, Raw)
	require.NoError(t, err)
	assert.Contains(t, out, "rt_box_struct(", "an intercept-eligible struct method call boxes self into the thunk argument array")
	assert.Contains(t, out, "__rt_interceptor_count > 0")
}

func TestLowerStructMethodAsRefParamRoundTrips(t *testing.T) {
	st := pointStruct()
	syms := symbols.NewMap()
	syms.Define(&symbols.Symbol{Name: "p", Kind: symbols.KindLocal, Type: st})
	syms.Define(&symbols.Symbol{Name: "n", Kind: symbols.KindLocal, Type: sdtypes.Primitive{Kind: sdtypes.KInt}})
	g := &G{Syms: syms}

	method := sdtypes.Method{
		Name:          "scale",
		HasBody:       false,
		IsNative:      true,
		Params:        []sdtypes.Type{sdtypes.Primitive{Kind: sdtypes.KInt}},
		ParamMemQuals: []sdtypes.MemQual{sdtypes.MemAsRef},
		Return:        sdtypes.Primitive{Kind: sdtypes.KVoid},
	}
	call := &ast.MethodCall{
		Object:         &ast.Identifier{Name: "p"},
		ObjectType:     st,
		Method:         "scale",
		Args:           []ast.Expression{&ast.Identifier{Name: "n"}},
		ResolvedMethod: &method,
		ResolvedStruct: &st,
	}

	out, err := LowerMethodCall(g, call, Raw)
	require.NoError(t, err)
	assert.Contains(t, out, "&("+Mangle("n")+")")
}

func TestLowerStructMethodSpillsNonLValueReceiver(t *testing.T) {
	st := pointStruct()
	syms := symbols.NewMap()
	g := &G{Syms: syms}

	method := sdtypes.Method{Name: "norm", IsNative: true, Return: sdtypes.Primitive{Kind: sdtypes.KInt}}
	// A struct literal receiver is not a simple lvalue, so the call must
	// spill it into a temporary before taking its address/value.
	call := &ast.MethodCall{
		Object:         &ast.StructLiteral{StructType: st},
		ObjectType:     st,
		Method:         "norm",
		ResolvedMethod: &method,
		ResolvedStruct: &st,
	}
	out, err := LowerMethodCall(g, call, Raw)
	require.NoError(t, err)
	assert.Contains(t, out, "__tmp", "a non-lvalue receiver must be spilled into a temporary exactly once")
}
