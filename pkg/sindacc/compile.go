package sindacc

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sindarinsdk/sindacc/internal/cache"
	"github.com/sindarinsdk/sindacc/internal/codegen"
	"github.com/sindarinsdk/sindacc/internal/config"
	"github.com/sindarinsdk/sindacc/internal/diagnostics"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// Result is what Compile hands back: the generated C text plus the
// diagnostics reporter it ran against, so a caller can inspect
// ErrorCount/WarningCount before deciding whether the text is usable.
type Result struct {
	Output string
	Diag   *diagnostics.Reporter
}

// Decode parses a JSON-encoded compilation unit.
func Decode(data []byte) (*Unit, error) {
	var u Unit
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode unit: %w", err)
	}
	return &u, nil
}

// Compile decodes a unit and lowers every statement, writing diagnostics
// to diagOut. A non-nil error (with a nil Result) means the unit could not
// be decoded, or some statement hit an unsupported construct or internal
// assertion; generation stops at the first such statement. Unresolved
// types and methods are not errors: they leave an ERROR marker in the
// output, count as warnings on the returned Result's Diag, and lowering
// continues.
func Compile(cfg *config.Config, diagOut io.Writer, u *Unit) (*Result, error) {
	syms, stmts, err := u.decode()
	if err != nil {
		return nil, err
	}

	mode := codegen.Checked
	if cfg != nil && cfg.ArithmeticMode == "unchecked" {
		mode = codegen.Unchecked
	}

	diag := diagnostics.New(diagOut)

	var fragCache *cache.FragmentCache
	if cfg != nil && cfg.Cache.Enabled {
		fragCache, err = cache.Open(cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("open fragment cache: %w", err)
		}
		defer fragCache.Close()
	}

	var out strings.Builder
	g := codegen.New(&out, syms, mode, diag)
	g.Cache = fragCache

	var body strings.Builder
	for i, stmt := range stmts {
		stmtMode := codegen.Raw
		if stmt.BindType != nil && sdtypes.IsHandleType(stmt.BindType) {
			stmtMode = codegen.Handle
		}
		frag, err := codegen.LowerExpr(g, stmt.Expr, stmtMode)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		if stmt.BindName == "" {
			fmt.Fprintf(&body, "  (void)(%s);\n", frag)
			continue
		}
		fmt.Fprintf(&body, "  %s %s = %s;\n", codegen.CType(stmt.BindType), codegen.Mangle(stmt.BindName), frag)
	}

	if err := g.Flush(body.String()); err != nil {
		return nil, fmt.Errorf("flush unit: %w", err)
	}

	return &Result{Output: out.String(), Diag: diag}, nil
}
