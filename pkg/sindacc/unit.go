// Package sindacc is the embeddable front door to the code generator: it
// decodes a JSON-described compilation unit into the typed AST
// internal/codegen expects and drives LowerExpr/Flush over it. It plays
// the role a real parser/checker front end would — internal/ast documents
// itself as a contract "the front end populates and internal/codegen only
// reads" — except the "front end" here is a JSON document instead of
// source text.
//
// The decodable expression surface is intentionally a subset of
// internal/ast: literals, identifiers, binary/unary/incdec, member/index
// access, regular and builtin calls, array and struct literals,
// interpolation, and thread spawn/sync/sync-list. Method, namespace, and
// static calls, lambdas, and sizeof/typeof/is/as are not decodable from
// JSON; a unit needing them must be built by calling internal/codegen
// directly. See DESIGN.md for why this line was drawn here.
package sindacc

import (
	"encoding/json"
	"fmt"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
	"github.com/sindarinsdk/sindacc/internal/symbols"
)

// VarDecl declares one variable a unit's statements may read and write:
// its source-level name (mangled on emission) and resolved type. Compile uses this both to populate
// the symbol table LowerExpr consults and to stamp ExprType() on every
// bare identifier reference, since member/index access reads the
// referenced object's static type directly off the expression node rather
// than through the symbol table (see internal/codegen/expr_access.go).
type VarDecl struct {
	Name string    `json:"name"`
	Type *typeJSON `json:"type"`
}

// StmtDecl is one top-level statement. Bind, when non-empty, names a new
// variable the statement's expression result is assigned to — modeling
// the C-level "TYPE name = fragment;" declaration a real driver stitches
// around a lowered expression, since internal/ast has no assignment or
// variable-declaration node of its own (everything below the statement
// boundary is a pure expression).
type StmtDecl struct {
	Bind string          `json:"bind,omitempty"`
	Type *typeJSON       `json:"type,omitempty"`
	Expr json.RawMessage `json:"expr"`
}

// Unit is the JSON-decodable compilation unit: struct/variable
// declarations plus a sequence of statements.
type Unit struct {
	Structs    []structJSON `json:"structs,omitempty"`
	Vars       []VarDecl    `json:"vars,omitempty"`
	Statements []StmtDecl   `json:"statements"`
}

// decodeCtx carries the lookup tables needed while walking a unit's
// expression tree: resolved struct types by name, and declared variable
// types by name (for identifier ExprType stamping).
type decodeCtx struct {
	structs map[string]sdtypes.Struct
	vars    map[string]sdtypes.Type
}

func (c *decodeCtx) identifier(name string) *ast.Identifier {
	id := ast.Identifier{Name: name}
	if t, ok := c.vars[name]; ok {
		return id.WithType(t)
	}
	return &id
}

// exprJSON is the discriminated-union wire shape for one expression node.
// Only the fields relevant to Kind are populated; unused fields are
// omitted by well-formed producers but never validated against Kind
// beyond what decoding needs.
type exprJSON struct {
	Kind string `json:"kind"`

	// Type, when present, overrides the node's own ExprType() result for
	// the node kinds ast.SetExprType covers; literals and identifiers keep
	// their own type. Needed for node kinds the checker would normally annotate but this
	// decoder can't infer on its own: a ThreadSync's result type, or a
	// MemberAccess/IndexAccess result that itself feeds a further binary
	// operation.
	Type *typeJSON `json:"type,omitempty"`

	// literals
	Int    *int64   `json:"int,omitempty"`
	Float  *float64 `json:"float,omitempty"`
	Bool   *bool    `json:"bool,omitempty"`
	String *string  `json:"string,omitempty"`

	// identifier
	Name string `json:"name,omitempty"`

	// binary / unary / incdec
	Op      string          `json:"op,omitempty"`
	Prefix  bool            `json:"prefix,omitempty"`
	Left    json.RawMessage `json:"left,omitempty"`
	Right   json.RawMessage `json:"right,omitempty"`
	Operand json.RawMessage `json:"operand,omitempty"`

	// member / index access
	Object      json.RawMessage `json:"object,omitempty"`
	Field       string          `json:"field,omitempty"`
	FieldCAlias string          `json:"field_c_alias,omitempty"`
	Index       json.RawMessage `json:"index,omitempty"`

	// array literal
	ElementType *typeJSON         `json:"element_type,omitempty"`
	Elements    []json.RawMessage `json:"elements,omitempty"`

	// struct literal
	StructName string          `json:"struct_name,omitempty"`
	Fields     []fieldInitJSON `json:"fields,omitempty"`

	// call / builtin call
	Callee json.RawMessage   `json:"callee,omitempty"`
	Args   []json.RawMessage `json:"args,omitempty"`
	Target *callTargetJSON   `json:"target,omitempty"`

	// interpolation
	Parts []interpPartJSON `json:"parts,omitempty"`

	// thread spawn / sync / sync-list
	Modifier string            `json:"modifier,omitempty"`
	Call     json.RawMessage   `json:"call,omitempty"`
	Handle   json.RawMessage   `json:"handle,omitempty"`
	IsVar    bool              `json:"is_var,omitempty"`
	VarName  string            `json:"var_name,omitempty"`
	Handles  []json.RawMessage `json:"handles,omitempty"`
}

type fieldInitJSON struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

type interpPartJSON struct {
	Value      json.RawMessage `json:"value"`
	FormatSpec string          `json:"format_spec,omitempty"`
}

type callTargetJSON struct {
	Name          string      `json:"name"`
	IsNative      bool        `json:"is_native,omitempty"`
	HasBody       bool        `json:"has_body,omitempty"`
	CAlias        string      `json:"c_alias,omitempty"`
	HasArenaParam bool        `json:"has_arena_param,omitempty"`
	ParamTypes    []*typeJSON `json:"param_types,omitempty"`
	ParamMemQuals []string    `json:"param_mem_quals,omitempty"`
	ReturnType    *typeJSON   `json:"return_type"`
	FuncMod       string      `json:"func_mod,omitempty"`
}

func (c *decodeCtx) decodeCallTarget(t *callTargetJSON) (*ast.CallTarget, error) {
	if t == nil {
		return nil, nil
	}
	ret, err := decodeType(t.ReturnType, c.structs)
	if err != nil {
		return nil, fmt.Errorf("call target %s return type: %w", t.Name, err)
	}
	params := make([]sdtypes.Type, 0, len(t.ParamTypes))
	for _, p := range t.ParamTypes {
		pt, err := decodeType(p, c.structs)
		if err != nil {
			return nil, fmt.Errorf("call target %s param type: %w", t.Name, err)
		}
		params = append(params, pt)
	}
	quals := make([]sdtypes.MemQual, 0, len(t.ParamMemQuals))
	for _, q := range t.ParamMemQuals {
		mq, err := decodeMemQual(q)
		if err != nil {
			return nil, fmt.Errorf("call target %s: %w", t.Name, err)
		}
		quals = append(quals, mq)
	}
	mod, err := decodeFuncMod(t.FuncMod)
	if err != nil {
		return nil, fmt.Errorf("call target %s: %w", t.Name, err)
	}
	return &ast.CallTarget{
		Name: t.Name, IsNative: t.IsNative, HasBody: t.HasBody, CAlias: t.CAlias,
		HasArenaParam: t.HasArenaParam, ParamTypes: params, ParamMemQuals: quals,
		ReturnType: ret, FuncMod: mod,
	}, nil
}

// decodeExpr unmarshals raw into an exprJSON envelope and dispatches on
// its kind, the JSON-decoding counterpart to LowerExpr's switch on
// concrete Go type.
func (c *decodeCtx) decodeExpr(raw json.RawMessage) (ast.Expression, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	var n exprJSON
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("decode expression: %w", err)
	}

	expr, err := c.decodeExprKind(n)
	if err != nil {
		return nil, err
	}
	if n.Type != nil {
		t, err := decodeType(n.Type, c.structs)
		if err != nil {
			return nil, fmt.Errorf("expression %s: %w", n.Kind, err)
		}
		expr = ast.SetExprType(expr, t)
	}
	return expr, nil
}

func (c *decodeCtx) decodeExprKind(n exprJSON) (ast.Expression, error) {
	switch n.Kind {
	case "int":
		if n.Int == nil {
			return nil, fmt.Errorf(`"int" expression missing "int" field`)
		}
		return ast.NewIntLiteral(*n.Int), nil
	case "float":
		if n.Float == nil {
			return nil, fmt.Errorf(`"float" expression missing "float" field`)
		}
		return ast.NewFloatLiteral(*n.Float), nil
	case "bool":
		if n.Bool == nil {
			return nil, fmt.Errorf(`"bool" expression missing "bool" field`)
		}
		return ast.NewBoolLiteral(*n.Bool), nil
	case "string":
		if n.String == nil {
			return nil, fmt.Errorf(`"string" expression missing "string" field`)
		}
		return ast.NewStringLiteral(*n.String), nil
	case "nil":
		return ast.NewNilLiteral(), nil

	case "identifier":
		if n.Name == "" {
			return nil, fmt.Errorf(`"identifier" expression missing "name" field`)
		}
		return c.identifier(n.Name), nil

	case "binary":
		left, err := c.decodeExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.decodeExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: n.Op, Left: left, Right: right}, nil

	case "unary":
		operand, err := c.decodeExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: n.Op, Operand: operand}, nil

	case "incdec":
		operand, err := c.decodeExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.IncDecExpr{Op: n.Op, Prefix: n.Prefix, Operand: operand}, nil

	case "member":
		obj, err := c.decodeExpr(n.Object)
		if err != nil {
			return nil, err
		}
		return &ast.MemberAccess{Object: obj, Field: n.Field, FieldCAlias: n.FieldCAlias}, nil

	case "index":
		obj, err := c.decodeExpr(n.Object)
		if err != nil {
			return nil, err
		}
		idx, err := c.decodeExpr(n.Index)
		if err != nil {
			return nil, err
		}
		return &ast.IndexAccess{Object: obj, Index: idx}, nil

	case "array":
		elemType, err := decodeType(n.ElementType, c.structs)
		if err != nil {
			return nil, fmt.Errorf("array literal: %w", err)
		}
		elems := make([]ast.Expression, 0, len(n.Elements))
		for _, e := range n.Elements {
			ex, err := c.decodeExpr(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, ex)
		}
		return &ast.ArrayLiteral{ElementType: elemType, Elements: elems}, nil

	case "struct":
		st, ok := c.structs[n.StructName]
		if !ok {
			return nil, fmt.Errorf("struct literal references unknown struct %q", n.StructName)
		}
		fields := make([]ast.FieldInit, 0, len(n.Fields))
		for _, f := range n.Fields {
			v, err := c.decodeExpr(f.Value)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.FieldInit{Name: f.Name, Value: v})
		}
		return &ast.StructLiteral{StructType: st, Fields: fields}, nil

	case "call":
		callee, err := c.decodeExpr(n.Callee)
		if err != nil {
			return nil, err
		}
		args, err := c.decodeExprList(n.Args)
		if err != nil {
			return nil, err
		}
		target, err := c.decodeCallTarget(n.Target)
		if err != nil {
			return nil, err
		}
		return &ast.Call{Callee: callee, Args: args, Target: target}, nil

	case "builtin_call":
		args, err := c.decodeExprList(n.Args)
		if err != nil {
			return nil, err
		}
		return &ast.BuiltinCall{Name: n.Name, Args: args}, nil

	case "interp":
		parts := make([]ast.InterpPart, 0, len(n.Parts))
		for _, p := range n.Parts {
			v, err := c.decodeExpr(p.Value)
			if err != nil {
				return nil, err
			}
			parts = append(parts, ast.InterpPart{Value: v, FormatSpec: p.FormatSpec})
		}
		return &ast.Interpolation{Parts: parts}, nil

	case "thread_spawn":
		inner, err := c.decodeExpr(n.Call)
		if err != nil {
			return nil, err
		}
		mod, err := decodeFuncMod(n.Modifier)
		if err != nil {
			return nil, fmt.Errorf("thread spawn: %w", err)
		}
		return &ast.ThreadSpawn{Modifier: mod, Call: inner}, nil

	case "thread_sync":
		var handle ast.Expression
		if !n.IsVar {
			h, err := c.decodeExpr(n.Handle)
			if err != nil {
				return nil, err
			}
			handle = h
		}
		return &ast.ThreadSync{Handle: handle, IsVar: n.IsVar, VarName: n.VarName}, nil

	case "thread_sync_list":
		handles, err := c.decodeExprList(n.Handles)
		if err != nil {
			return nil, err
		}
		return &ast.ThreadSyncList{Handles: handles}, nil

	default:
		return nil, fmt.Errorf("unsupported unit expression kind %q", n.Kind)
	}
}

func (c *decodeCtx) decodeExprList(raws []json.RawMessage) ([]ast.Expression, error) {
	out := make([]ast.Expression, 0, len(raws))
	for _, r := range raws {
		e, err := c.decodeExpr(r)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// decodedStatement is one decoded top-level statement plus the C
// declaration the caller wraps it in.
type decodedStatement struct {
	BindName string
	BindType sdtypes.Type
	Expr     ast.Expression
}

// decode resolves a Unit's structs and variable declarations, then
// decodes every statement's expression tree, returning the populated
// symbol table alongside the decoded statements so Compile can build a
// generator context over both.
func (u *Unit) decode() (*symbols.Map, []decodedStatement, error) {
	structs, err := decodeStructs(u.Structs)
	if err != nil {
		return nil, nil, fmt.Errorf("decode structs: %w", err)
	}

	syms := symbols.NewMap()
	for _, st := range structs {
		stCopy := st
		syms.DefineType(&stCopy)
	}

	vars := make(map[string]sdtypes.Type, len(u.Vars))
	for _, v := range u.Vars {
		t, err := decodeType(v.Type, structs)
		if err != nil {
			return nil, nil, fmt.Errorf("decode var %s: %w", v.Name, err)
		}
		vars[v.Name] = t
		syms.Define(&symbols.Symbol{Name: v.Name, Kind: symbols.KindLocal, Type: t})
	}

	ctx := &decodeCtx{structs: structs, vars: vars}

	stmts := make([]decodedStatement, 0, len(u.Statements))
	for i, s := range u.Statements {
		e, err := ctx.decodeExpr(s.Expr)
		if err != nil {
			return nil, nil, fmt.Errorf("statement %d: %w", i, err)
		}
		var bindType sdtypes.Type
		if s.Bind != "" {
			bindType, err = decodeType(s.Type, structs)
			if err != nil {
				return nil, nil, fmt.Errorf("statement %d bind %s: %w", i, s.Bind, err)
			}
			syms.Define(&symbols.Symbol{Name: s.Bind, Kind: symbols.KindLocal, Type: bindType})
			vars[s.Bind] = bindType
		}
		stmts = append(stmts, decodedStatement{BindName: s.Bind, BindType: bindType, Expr: e})
	}
	return syms, stmts, nil
}
