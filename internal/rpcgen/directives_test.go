package rpcgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sindarinsdk/sindacc/internal/ast"
)

const directiveProto = `syntax = "proto3";
package sindacc.directives;

message RetryPolicy {
  int32 max_attempts = 1;
  string backoff = 2;
}
`

func writeDirectiveProto(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "directives.proto")
	require.NoError(t, os.WriteFile(path, []byte(directiveProto), 0o644))
	return dir, path
}

func TestDirectiveDescriptorsAnnotateAttachesStructuredMeta(t *testing.T) {
	dir, path := writeDirectiveProto(t)
	dd := NewDirectiveDescriptors()
	require.NoError(t, dd.LoadProto(filepath.Base(path), []string{dir}))

	stmt := &ast.DirectiveStatement{Name: "retry"}
	payload := []byte(`{"max_attempts": 3, "backoff": "exponential"}`)
	require.NoError(t, dd.Annotate(stmt, "sindacc.directives.RetryPolicy", payload))

	require.Contains(t, stmt.Meta, "sindacc.directives.RetryPolicy")
	fields, ok := stmt.Meta["sindacc.directives.RetryPolicy"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "exponential", fields["backoff"])
}

func TestDirectiveDescriptorsAnnotateUnknownMessageErrors(t *testing.T) {
	dd := NewDirectiveDescriptors()
	stmt := &ast.DirectiveStatement{Name: "retry"}
	err := dd.Annotate(stmt, "sindacc.directives.Nope", []byte(`{}`))
	assert.Error(t, err)
}
