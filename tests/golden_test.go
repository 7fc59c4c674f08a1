// Package tests runs the generator end to end against the golden unit
// fixtures in testdata/*.txtar: each archive bundles a JSON compilation
// unit alongside the C fragments its output must contain, the same
// source-file/expected-output pairing funxy's own functional tests drive
// off disk, adapted to compare in-process instead of shelling out to a
// built binary.
package tests

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/sindarinsdk/sindacc/internal/config"
	"github.com/sindarinsdk/sindacc/pkg/sindacc"
)

func TestGoldenUnits(t *testing.T) {
	archives, err := filepath.Glob("testdata/*.txtar")
	require.NoError(t, err)
	require.NotEmpty(t, archives, "expected at least one golden fixture under testdata/")

	for _, path := range archives {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)

			var unitJSON, want []byte
			for _, f := range ar.Files {
				switch f.Name {
				case "unit.json":
					unitJSON = f.Data
				case "want":
					want = f.Data
				}
			}
			require.NotNil(t, unitJSON, "fixture missing unit.json section")
			require.NotNil(t, want, "fixture missing want section")

			unit, err := sindacc.Decode(unitJSON)
			require.NoError(t, err)

			var stderr bytes.Buffer
			result, err := sindacc.Compile(config.Default(), &stderr, unit)
			require.NoError(t, err, "stderr: %s", stderr.String())
			assert.Zero(t, result.Diag.ErrorCount(), "unexpected diagnostics: %s", stderr.String())

			for _, line := range strings.Split(string(want), "\n") {
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				assert.Contains(t, result.Output, line)
			}
		})
	}
}
