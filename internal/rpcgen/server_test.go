package rpcgen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/sindarinsdk/sindacc/internal/config"
)

const compileUnitJSON = `{
  "statements": [
    {"bind": "n", "type": {"kind": "int"}, "expr": {"kind": "int", "int": 7}}
  ]
}`

func TestServerCompileProducesOutput(t *testing.T) {
	srv := NewServer(config.Default())
	req, err := RequestFromUnit([]byte(compileUnitJSON), "")
	require.NoError(t, err)

	resp, err := srv.Compile(context.Background(), req)
	require.NoError(t, err)

	fields := resp.GetFields()
	require.True(t, fields["ok"].GetBoolValue())
	assert.Contains(t, fields["output"].GetStringValue(), "__sn__n")
	assert.Equal(t, float64(0), fields["errors"].GetNumberValue())
}

func TestServerCompileReportsDecodeError(t *testing.T) {
	srv := NewServer(config.Default())
	req, err := RequestFromUnit([]byte(`{"statements":[{"bind":"n","type":{"kind":"int"},"expr":{"kind":"nope"}}]}`), "")
	require.NoError(t, err)

	resp, err := srv.Compile(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.GetFields()["ok"].GetBoolValue())
	assert.NotEmpty(t, resp.GetFields()["error"].GetStringValue())
}

// fakeStream is a minimal CodegenService_CompileStreamServer stand-in that
// collects sent chunks instead of writing to a real gRPC transport.
type fakeStream struct {
	grpc.ServerStream
	sent []*structpb.Struct
}

func (f *fakeStream) Send(m *structpb.Struct) error {
	f.sent = append(f.sent, m)
	return nil
}

func TestServerCompileStreamChunksOutput(t *testing.T) {
	srv := NewServer(config.Default())
	req, err := RequestFromUnit([]byte(compileUnitJSON), "")
	require.NoError(t, err)

	fs := &fakeStream{}
	require.NoError(t, srv.CompileStream(req, fs))

	require.NotEmpty(t, fs.sent)
	var joined string
	for i, chunk := range fs.sent {
		text, final := ChunkText(chunk)
		joined += text
		if i < len(fs.sent)-1 {
			assert.False(t, final)
		} else {
			assert.True(t, final)
		}
	}
	assert.Contains(t, joined, "__sn__n")
}
