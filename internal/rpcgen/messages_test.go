package rpcgen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFromUnitRoundTripsJSON(t *testing.T) {
	unitJSON := []byte(`{"statements":[{"bind":"n","type":{"kind":"int"},"expr":{"kind":"int","int":5}}]}`)
	req, err := RequestFromUnit(unitJSON, "unchecked")
	require.NoError(t, err)

	assert.Equal(t, "unchecked", RequestArithmeticMode(req))

	back, err := RequestUnitJSON(req)
	require.NoError(t, err)
	assert.JSONEq(t, string(unitJSON), string(back))
}

func TestRequestArithmeticModeDefaultsEmpty(t *testing.T) {
	req, err := RequestFromUnit([]byte(`{"statements":[]}`), "")
	require.NoError(t, err)
	assert.Equal(t, "", RequestArithmeticMode(req))
}

func TestResponseOKCarriesOutputAndCounts(t *testing.T) {
	resp, err := ResponseOK("int __sn__n = 5LL;\n", 2, 0)
	require.NoError(t, err)

	fields := resp.GetFields()
	assert.Equal(t, true, fields["ok"].GetBoolValue())
	assert.Equal(t, "int __sn__n = 5LL;\n", fields["output"].GetStringValue())
	assert.Equal(t, float64(2), fields["warnings"].GetNumberValue())
	assert.Equal(t, float64(0), fields["errors"].GetNumberValue())
}

func TestResponseErrCarriesMessage(t *testing.T) {
	resp := ResponseErr(errors.New("boom"))
	fields := resp.GetFields()
	assert.Equal(t, false, fields["ok"].GetBoolValue())
	assert.Equal(t, "boom", fields["error"].GetStringValue())
}

func TestNewChunkRoundTrip(t *testing.T) {
	chunk, err := NewChunk(3, "partial text", false)
	require.NoError(t, err)
	text, final := ChunkText(chunk)
	assert.Equal(t, "partial text", text)
	assert.False(t, final)
	assert.Equal(t, float64(3), chunk.GetFields()["seq"].GetNumberValue())
}
