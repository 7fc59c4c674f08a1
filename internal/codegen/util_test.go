package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

func TestPinIfNeededPinsHandleTypeInRawMode(t *testing.T) {
	got := pinIfNeeded(sdtypes.Primitive{Kind: sdtypes.KString}, "h", Raw)
	assert.Equal(t, "rt_handle_v2_pin(h)", got)
}

func TestPinIfNeededLeavesHandleModeAlone(t *testing.T) {
	got := pinIfNeeded(sdtypes.Primitive{Kind: sdtypes.KString}, "h", Handle)
	assert.Equal(t, "h", got, "a caller asking for Handle mode never gets a pinned fragment back")
}

func TestPinIfNeededIgnoresNonHandleTypes(t *testing.T) {
	got := pinIfNeeded(sdtypes.Primitive{Kind: sdtypes.KInt}, "x", Raw)
	assert.Equal(t, "x", got, "int is not a handle type; pinning it would be meaningless")
}

func TestPinFragmentArrayUsesArrayData(t *testing.T) {
	got := pinFragment(sdtypes.Array{Element: sdtypes.Primitive{Kind: sdtypes.KInt}}, "arr")
	assert.Equal(t, "rt_array_data_v2(arr)", got)
}

func TestWrapAsHandleIfNeededWrapsStringInHandleMode(t *testing.T) {
	g := &G{}
	got := wrapAsHandleIfNeeded(g, sdtypes.Primitive{Kind: sdtypes.KString}, `"hi"`, Handle)
	assert.Equal(t, `rt_arena_v2_strdup(NULL, "hi")`, got)
}

func TestWrapAsHandleIfNeededLeavesRawModeAlone(t *testing.T) {
	g := &G{}
	got := wrapAsHandleIfNeeded(g, sdtypes.Primitive{Kind: sdtypes.KString}, `"hi"`, Raw)
	assert.Equal(t, `"hi"`, got)
}

func TestWrapAsHandleIfNeededUsesCurrentArenaVar(t *testing.T) {
	g := &G{CurrentArenaVar: "__local_arena__"}
	got := wrapAsHandleIfNeeded(g, sdtypes.Primitive{Kind: sdtypes.KString}, `"hi"`, Handle)
	assert.Contains(t, got, "__local_arena__")
}

func TestModeRoundTripsThroughPinAndWrap(t *testing.T) {
	g := &G{CurrentArenaVar: "__local_arena__"}
	stringT := sdtypes.Primitive{Kind: sdtypes.KString}
	handle := wrapAsHandleIfNeeded(g, stringT, `"hi"`, Handle)
	rawAgain := pinIfNeeded(stringT, handle, Raw)
	assert.Equal(t, "rt_handle_v2_pin("+handle+")", rawAgain)
}

func TestSaveModeRestoresPreviousModeOnReturn(t *testing.T) {
	g := &G{ExprAsHandle: true}
	restore := g.SaveMode(Raw)
	assert.Equal(t, Raw, g.mode())
	restore()
	assert.Equal(t, Handle, g.mode())
}
