package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

func TestSyncCoreVoidVariant(t *testing.T) {
	g := &G{}
	out := syncCore(g, sdtypes.Primitive{Kind: sdtypes.KVoid}, "th")
	assert.Equal(t, "(rt_thread_v2_sync(th), (void)0)", out)
}

func TestSyncCoreHandleVariantNoPromotion(t *testing.T) {
	g := &G{}
	out := syncCore(g, sdtypes.Primitive{Kind: sdtypes.KString}, "th")
	assert.Contains(t, out, "rt_thread_v2_sync(th)")
	assert.NotContains(t, out, "rt_promote_array")
}

func TestSyncCoreDeepPromotion2D(t *testing.T) {
	g := &G{}
	inner := sdtypes.Array{Element: sdtypes.Primitive{Kind: sdtypes.KInt}}
	arr2d := sdtypes.Array{Element: inner}
	out := syncCore(g, arr2d, "th")
	assert.Contains(t, out, "rt_promote_array_2d_v2")
}

func TestSyncCoreDeepPromotion3D(t *testing.T) {
	g := &G{}
	inner2 := sdtypes.Array{Element: sdtypes.Primitive{Kind: sdtypes.KInt}}
	inner3 := sdtypes.Array{Element: inner2}
	arr3d := sdtypes.Array{Element: inner3}
	out := syncCore(g, arr3d, "th")
	assert.Contains(t, out, "rt_promote_array_3d_v2")
}

func TestSyncCoreStringArrayPromotion(t *testing.T) {
	g := &G{}
	arr := sdtypes.Array{Element: sdtypes.Primitive{Kind: sdtypes.KString}}
	out := syncCore(g, arr, "th")
	assert.Contains(t, out, "rt_promote_array_string_v2")
}

func TestSyncCoreStructWithHandleFieldsPromotesEachField(t *testing.T) {
	g := &G{}
	st := sdtypes.Struct{
		Name: "Pair",
		Fields: []sdtypes.Field{
			{Name: "label", Type: sdtypes.Primitive{Kind: sdtypes.KString}},
			{Name: "n", Type: sdtypes.Primitive{Kind: sdtypes.KInt}},
		},
	}
	out := syncCore(g, st, "th")
	assert.Contains(t, out, "rt_arena_v2_strdup")
	assert.NotContains(t, out, "rt_promote_array", "the non-handle int field must not be promoted")
}

func TestSyncCorePlainStructFallsToDefaultVariant(t *testing.T) {
	g := &G{}
	st := sdtypes.Struct{Name: "Pair", Fields: []sdtypes.Field{{Name: "n", Type: sdtypes.Primitive{Kind: sdtypes.KInt}}}}
	out := syncCore(g, st, "th")
	assert.Contains(t, out, "result.ptr")
}

func TestLowerThreadSyncBareVariableUsesPendingSlot(t *testing.T) {
	g := &G{}
	n := &ast.ThreadSync{IsVar: true, VarName: "r"}
	out, err := LowerThreadSync(g, n, Raw)
	require.NoError(t, err)
	assert.Contains(t, out, "__r_pending__")
	assert.Contains(t, out, Mangle("r"))
}

func TestLowerThreadSyncListBuildsBarrierThenPerElementRebind(t *testing.T) {
	g := &G{}
	n := &ast.ThreadSyncList{
		Handles: []ast.Expression{
			&ast.Identifier{Name: "r1"},
			&ast.Identifier{Name: "r2"},
		},
	}
	out, err := LowerThreadSyncList(g, n)
	require.NoError(t, err)
	assert.Contains(t, out, "rt_thread_v2_sync_all")
	assert.Contains(t, out, "__r1_pending__")
	assert.Contains(t, out, "__r2_pending__")
}
