package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

func TestStructTypeIDIsStableAcrossCalls(t *testing.T) {
	a := StructTypeID("Point")
	b := StructTypeID("Point")
	assert.Equal(t, a, b, "the Any bridge's struct tag check requires the same name to hash identically every time")
	assert.Equal(t, StructTypeID("Point"), StructTypeID("Point"), "repeat computation, same process")
}

func TestStructTypeIDDiffersByName(t *testing.T) {
	assert.NotEqual(t, StructTypeID("Point"), StructTypeID("Vector"))
}

func TestStructTypeIDIsMasked31Bit(t *testing.T) {
	id := StructTypeID("AnyRandomStructName")
	assert.Zero(t, id&0x80000000, "StructTypeID must never set the sign bit")
}

func TestCTypeMapping(t *testing.T) {
	cases := []struct {
		name string
		t    sdtypes.Type
		want string
	}{
		{"int", sdtypes.Primitive{Kind: sdtypes.KInt}, "long long"},
		{"string", sdtypes.Primitive{Kind: sdtypes.KString}, "RtHandleV2 *"},
		{"bool", sdtypes.Primitive{Kind: sdtypes.KBool}, "bool"},
		{"array", sdtypes.Array{Element: sdtypes.Primitive{Kind: sdtypes.KInt}}, "RtHandleV2 *"},
		{"pointer", sdtypes.Pointer{Base: sdtypes.Primitive{Kind: sdtypes.KByte}}, "unsigned char*"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, CType(c.t))
		})
	}
}

func TestCTypeNativeStructUsesCAlias(t *testing.T) {
	st := sdtypes.Struct{Name: "File", IsNative: true, CAlias: "FILE"}
	assert.Equal(t, "FILE *", CType(st))
}

func TestCTypeSourceStructIsMangled(t *testing.T) {
	st := sdtypes.Struct{Name: "Point"}
	assert.Equal(t, Mangle("Point"), CType(st))
}

func TestAnyTagConstantForStructAndArray(t *testing.T) {
	assert.Equal(t, "RT_ANY_STRUCT", AnyTagConstant(sdtypes.Struct{Name: "Point"}))
	assert.Equal(t, "RT_ANY_ARRAY", AnyTagConstant(sdtypes.Array{Element: sdtypes.Primitive{Kind: sdtypes.KInt}}))
	assert.Equal(t, "RT_ANY_LONG", AnyTagConstant(sdtypes.Primitive{Kind: sdtypes.KInt}))
}
