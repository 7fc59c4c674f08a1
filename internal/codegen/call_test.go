package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
	"github.com/sindarinsdk/sindacc/internal/symbols"
)

func TestLowerCallInterceptEligibleEmitsFastAndSlowPaths(t *testing.T) {
	g := &G{}
	intT := sdtypes.Primitive{Kind: sdtypes.KInt}

	call := &ast.Call{
		Callee: &ast.Identifier{Name: "foo"},
		Args:   []ast.Expression{intLit(5)},
		Target: &ast.CallTarget{
			Name:          "foo",
			HasBody:       true,
			ParamTypes:    []sdtypes.Type{intT},
			ParamMemQuals: []sdtypes.MemQual{sdtypes.MemDefault},
			ReturnType:    intT,
		},
	}
	require.True(t, call.Target.IsInterceptEligible())

	out, err := LowerCall(g, call, Raw)
	require.NoError(t, err)

	assert.Contains(t, out, "__rt_interceptor_count > 0", "an interceptable call must guard on the live interceptor count")
	assert.Contains(t, out, `rt_call_intercepted("foo"`, "the slow path routes through the boxed-argument interceptor trampoline")
	assert.Contains(t, out, Mangle("foo")+"(", "the fast path still calls the mangled callee directly with no boxing")
}

func TestLowerCallNonEligibleSkipsInterception(t *testing.T) {
	g := &G{}
	intT := sdtypes.Primitive{Kind: sdtypes.KInt}
	call := &ast.Call{
		Callee: &ast.Identifier{Name: "nativeFn"},
		Args:   nil,
		Target: &ast.CallTarget{
			Name:       "nativeFn",
			IsNative:   true,
			ReturnType: intT,
		},
	}
	out, err := LowerCall(g, call, Raw)
	require.NoError(t, err)
	assert.NotContains(t, out, "__rt_interceptor_count")
	assert.Contains(t, out, "nativeFn(")
}

func TestLowerCallAsRefArgumentIsPassedByAddress(t *testing.T) {
	intT := sdtypes.Primitive{Kind: sdtypes.KInt}
	syms := symbols.NewMap()
	syms.Define(&symbols.Symbol{Name: "x", Kind: symbols.KindLocal, Type: intT})
	g := &G{Syms: syms}
	call := &ast.Call{
		Callee: &ast.Identifier{Name: "incr"},
		Args:   []ast.Expression{&ast.Identifier{Name: "x"}},
		Target: &ast.CallTarget{
			Name:          "incr",
			IsNative:      true,
			ParamTypes:    []sdtypes.Type{intT},
			ParamMemQuals: []sdtypes.MemQual{sdtypes.MemAsRef},
			ReturnType:    sdtypes.Primitive{Kind: sdtypes.KVoid},
		},
	}
	out, err := LowerCall(g, call, Raw)
	require.NoError(t, err)
	assert.Contains(t, out, "&("+Mangle("x")+")", "an AsRef parameter must be passed by address, round-tripping the caller's lvalue")
}
