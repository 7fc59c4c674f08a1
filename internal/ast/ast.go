// Package ast defines the typed-AST node shapes the code generator consumes.
// The nodes here carry exactly the annotations a type checker and symbol
// resolver (external collaborators, out of scope for this repository) are
// expected to have already attached: resolved types, resolved call targets,
// resolved namespace prefixes. Nothing in this package performs resolution;
// it is a read-only contract, the same way funxy's internal/ast is a plain
// data model the compiler front end populates and internal/vm only reads.
package ast

import "github.com/sindarinsdk/sindacc/internal/sdtypes"

// Node is the base of every AST node.
type Node interface {
	Accept(v Visitor)
}

// Expression is a Node that yields a value.
type Expression interface {
	Node
	ExprType() sdtypes.Type
	expressionNode()
}

// Statement is a Node that has only effect.
type Statement interface {
	Node
	statementNode()
}

// baseExpr factors the ExprType accessor shared by every expression node.
type baseExpr struct {
	Type sdtypes.Type
}

func (b baseExpr) ExprType() sdtypes.Type { return b.Type }
func (baseExpr) expressionNode()          {}

// ---- literals ----

type IntLiteral struct {
	baseExpr
	Value int64
}

func (n *IntLiteral) Accept(v Visitor) { v.VisitIntLiteral(n) }

type FloatLiteral struct {
	baseExpr
	Value float64
}

func (n *FloatLiteral) Accept(v Visitor) { v.VisitFloatLiteral(n) }

type BoolLiteral struct {
	baseExpr
	Value bool
}

func (n *BoolLiteral) Accept(v Visitor) { v.VisitBoolLiteral(n) }

type CharLiteral struct {
	baseExpr
	Value byte
}

func (n *CharLiteral) Accept(v Visitor) { v.VisitCharLiteral(n) }

type StringLiteral struct {
	baseExpr
	Value string
}

func (n *StringLiteral) Accept(v Visitor) { v.VisitStringLiteral(n) }

type NilLiteral struct {
	baseExpr
}

func (n *NilLiteral) Accept(v Visitor) { v.VisitNilLiteral(n) }

// NewIntLiteral, NewFloatLiteral, NewBoolLiteral, NewStringLiteral and
// NewNilLiteral stamp a literal with its resolved primitive type. baseExpr
// is unexported so a front end outside this package (the JSON unit decoder,
// tests) has no other way to produce a literal whose ExprType() resolves to
// anything but nil.
func NewIntLiteral(v int64) *IntLiteral {
	return &IntLiteral{baseExpr: baseExpr{Type: sdtypes.Primitive{Kind: sdtypes.KInt}}, Value: v}
}

func NewFloatLiteral(v float64) *FloatLiteral {
	return &FloatLiteral{baseExpr: baseExpr{Type: sdtypes.Primitive{Kind: sdtypes.KDouble}}, Value: v}
}

func NewBoolLiteral(v bool) *BoolLiteral {
	return &BoolLiteral{baseExpr: baseExpr{Type: sdtypes.Primitive{Kind: sdtypes.KBool}}, Value: v}
}

func NewStringLiteral(v string) *StringLiteral {
	return &StringLiteral{baseExpr: baseExpr{Type: sdtypes.Primitive{Kind: sdtypes.KString}}, Value: v}
}

func NewNilLiteral() *NilLiteral {
	return &NilLiteral{baseExpr: baseExpr{Type: sdtypes.Primitive{Kind: sdtypes.KNil}}}
}

// WithType returns a copy of id with its resolved type set explicitly, for
// callers (the JSON unit decoder, tests) that already know an identifier's
// type without a live symbol table to look it up in.
func (n Identifier) WithType(t sdtypes.Type) *Identifier {
	n.baseExpr = baseExpr{Type: t}
	return &n
}

// SetExprType stamps e's resolved type in place and returns e, for
// callers outside this package that decode an already-checked expression
// tree (the JSON unit decoder) and need ExprType() to resolve on nodes
// other than literals and identifiers — MemberAccess/IndexAccess results
// feeding a further binary operation, or a ThreadSync's own result type.
// It is a no-op on node kinds not listed in its switch (literals,
// identifiers, namespace refs, lambdas, and the type-query nodes among them).
func SetExprType(e Expression, t sdtypes.Type) Expression {
	switch n := e.(type) {
	case *BinaryExpr:
		n.baseExpr = baseExpr{Type: t}
	case *UnaryExpr:
		n.baseExpr = baseExpr{Type: t}
	case *IncDecExpr:
		n.baseExpr = baseExpr{Type: t}
	case *MemberAccess:
		n.baseExpr = baseExpr{Type: t}
	case *IndexAccess:
		n.baseExpr = baseExpr{Type: t}
	case *Call:
		n.baseExpr = baseExpr{Type: t}
	case *MethodCall:
		n.baseExpr = baseExpr{Type: t}
	case *NamespaceCall:
		n.baseExpr = baseExpr{Type: t}
	case *StaticCall:
		n.baseExpr = baseExpr{Type: t}
	case *BuiltinCall:
		n.baseExpr = baseExpr{Type: t}
	case *ArrayLiteral:
		n.baseExpr = baseExpr{Type: t}
	case *StructLiteral:
		n.baseExpr = baseExpr{Type: t}
	case *Interpolation:
		n.baseExpr = baseExpr{Type: t}
	case *ThreadSpawn:
		n.baseExpr = baseExpr{Type: t}
	case *ThreadSync:
		n.baseExpr = baseExpr{Type: t}
	case *ThreadSyncList:
		n.baseExpr = baseExpr{Type: t}
	}
	return e
}

// ---- names ----

// Identifier references a resolved symbol by name. The generator looks the
// symbol up in the symbol table at lowering time; Identifier itself carries
// no resolution, matching the narrow symbol-table interface design note.
type Identifier struct {
	baseExpr
	Name string
}

func (n *Identifier) Accept(v Visitor) { v.VisitIdentifier(n) }

// NamespaceVarRef is a reference to a variable exposed through a (possibly
// nested) namespace: ns.v or ns1.ns2.v, where the checker has already
// determined this resolves to a namespace member rather than a struct
// field.
type NamespaceVarRef struct {
	baseExpr
	Prefix []string // one or two segments
	Name   string
	// CanonicalModule is the namespace's canonical module name, used for
	// static namespace variables.
	CanonicalModule string
	IsStatic        bool
}

func (n *NamespaceVarRef) Accept(v Visitor) { v.VisitNamespaceVarRef(n) }

// ---- operators ----

type BinaryExpr struct {
	baseExpr
	Op    string // "+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=", "&&", "||", "&", "|", "^", "<<", ">>"
	Left  Expression
	Right Expression
}

func (n *BinaryExpr) Accept(v Visitor) { v.VisitBinaryExpr(n) }

type UnaryExpr struct {
	baseExpr
	Op      string // "-", "!", "~"
	Operand Expression
}

func (n *UnaryExpr) Accept(v Visitor) { v.VisitUnaryExpr(n) }

// IncDecExpr is a ++/-- on an lvalue. Operand must be a variable reference
// (an Identifier).
type IncDecExpr struct {
	baseExpr
	Op      string // "++" or "--"
	Prefix  bool
	Operand Expression
}

func (n *IncDecExpr) Accept(v Visitor) { v.VisitIncDecExpr(n) }

// ---- access ----

type MemberAccess struct {
	baseExpr
	Object Expression
	Field  string
	// FieldCAlias is the struct field's c_alias, if any.
	FieldCAlias string
}

func (n *MemberAccess) Accept(v Visitor) { v.VisitMemberAccess(n) }

type IndexAccess struct {
	baseExpr
	Object Expression
	Index  Expression
}

func (n *IndexAccess) Accept(v Visitor) { v.VisitIndexAccess(n) }

// ---- calls ----

// CallTarget is the checker-resolved description of a call's callee,
// shared by every call-shaped node. It mirrors the subset of symbol flags
// the generator is allowed to read (§9 design notes: "narrow, explicit
// interface").
type CallTarget struct {
	Name          string
	IsNative      bool
	HasBody       bool
	CAlias        string
	HasArenaParam bool
	ParamTypes    []sdtypes.Type
	ParamMemQuals []sdtypes.MemQual
	ReturnType    sdtypes.Type
	FuncMod       sdtypes.FuncMod
}

// IsInterceptEligible reports call-site eligibility for interception:
// native callees, and pointer/struct-typed parameters or returns, are
// never intercepted.
func (t *CallTarget) IsInterceptEligible() bool {
	if t == nil || t.IsNative || !t.HasBody {
		return false
	}
	if isPointerOrStruct(t.ReturnType) {
		return false
	}
	for _, p := range t.ParamTypes {
		if isPointerOrStruct(p) {
			return false
		}
	}
	return true
}

func isPointerOrStruct(t sdtypes.Type) bool {
	switch t.(type) {
	case sdtypes.Pointer, sdtypes.Struct:
		return true
	default:
		return false
	}
}

// Call is a regular call: a bare function name, or a call through a
// closure-valued expression.
type Call struct {
	baseExpr
	Callee Expression // Identifier for a named function/closure variable
	Args   []Expression
	Target *CallTarget // nil when Callee's static type is a closure/Function value
}

func (n *Call) Accept(v Visitor) { v.VisitCall(n) }

// MethodCall is a method-call-shaped expression: obj.method(args). Dispatch
// is on Object's static type (Array, String, Char, Struct, Pointer(Struct)).
type MethodCall struct {
	baseExpr
	Object     Expression
	ObjectType sdtypes.Type
	Method     string
	Args       []Expression
	// ResolvedMethod is set when Object is Struct/Pointer(Struct) and the
	// checker resolved a user-defined or native method; nil for builtin
	// array/string/char methods.
	ResolvedMethod *sdtypes.Method
	ResolvedStruct *sdtypes.Struct
	ThroughPointer bool
}

func (n *MethodCall) Accept(v Visitor) { v.VisitMethodCall(n) }

// NamespaceCall is ns.f(args) or ns1.ns2.f(args).
type NamespaceCall struct {
	baseExpr
	Prefix []string
	Name   string
	Args   []Expression
	Target *CallTarget
}

func (n *NamespaceCall) Accept(v Visitor) { v.VisitNamespaceCall(n) }

// StaticCall is Type.method(args): a static struct method, or a well-known
// Interceptor.* control call.
type StaticCall struct {
	baseExpr
	TypeName       string
	Method         string
	Args           []Expression
	ResolvedMethod *sdtypes.Method
	ResolvedStruct *sdtypes.Struct
}

func (n *StaticCall) Accept(v Visitor) { v.VisitStaticCall(n) }

// BuiltinCall is a call to one of the fixed builtin names (print, println,
// printErr, printErrLn, len, readLine, exit, assert).
type BuiltinCall struct {
	baseExpr
	Name string
	Args []Expression
}

func (n *BuiltinCall) Accept(v Visitor) { v.VisitBuiltinCall(n) }

// ---- arrays, ranges, structs ----

type ArrayLiteral struct {
	baseExpr
	ElementType sdtypes.Type
	Elements    []Expression
}

func (n *ArrayLiteral) Accept(v Visitor) { v.VisitArrayLiteral(n) }

type RangeExpr struct {
	baseExpr
	Start Expression
	End   Expression
}

func (n *RangeExpr) Accept(v Visitor) { v.VisitRangeExpr(n) }

// SliceExpr is arr[start..end:step]; any of Start/End/Step may be nil.
type SliceExpr struct {
	baseExpr
	Object Expression
	Start  Expression
	End    Expression
	Step   Expression
}

func (n *SliceExpr) Accept(v Visitor) { v.VisitSliceExpr(n) }

type SpreadExpr struct {
	baseExpr
	Inner Expression
}

func (n *SpreadExpr) Accept(v Visitor) { v.VisitSpreadExpr(n) }

type FieldInit struct {
	Name  string
	Value Expression
}

type StructLiteral struct {
	baseExpr
	StructType sdtypes.Struct
	Fields     []FieldInit
}

func (n *StructLiteral) Accept(v Visitor) { v.VisitStructLiteral(n) }

// ---- closures ----

type Param struct {
	Name    string
	Type    sdtypes.Type
	MemQual sdtypes.MemQual
}

type Lambda struct {
	baseExpr
	Params     []Param
	ReturnType sdtypes.Type
	Body       []Statement
	// CapturesArena is true when the lambda body needs the enclosing
	// arena (allocates handle-typed locals).
	CapturesArena bool
}

func (n *Lambda) Accept(v Visitor) { v.VisitLambda(n) }

// NamedFuncValue is a bare reference to a named top-level function used
// where a closure/function value is expected (assigned to a function-typed
// field or passed as a function-typed parameter); it must be wrapped in a
// synthesized adapter thunk.
type NamedFuncValue struct {
	baseExpr
	Target *CallTarget
}

func (n *NamedFuncValue) Accept(v Visitor) { v.VisitNamedFuncValue(n) }

// ---- concurrency ----

type ThreadSpawn struct {
	baseExpr
	Modifier sdtypes.FuncMod
	Call     Expression // Call, MethodCall, or NamespaceCall
}

func (n *ThreadSpawn) Accept(v Visitor) { v.VisitThreadSpawn(n) }

// ThreadSync is r! — Handle may be any expression; IsVar is true when it is
// a bare variable, enabling the "pending" rebinding semantics of spec
// §4.5.
type ThreadSync struct {
	baseExpr
	Handle  Expression
	IsVar   bool
	VarName string
}

func (n *ThreadSync) Accept(v Visitor) { v.VisitThreadSync(n) }

// ThreadSyncList is [r1, r2, ...]!
type ThreadSyncList struct {
	baseExpr
	Handles []Expression
}

func (n *ThreadSyncList) Accept(v Visitor) { v.VisitThreadSyncList(n) }

// ---- interpolation ----

type InterpPart struct {
	Value      Expression
	FormatSpec string // empty means "no format specifier"
}

type Interpolation struct {
	baseExpr
	Parts []InterpPart
}

func (n *Interpolation) Accept(v Visitor) { v.VisitInterpolation(n) }

// ---- type queries ----

// TypeOrExpr holds exactly one of Type or Expr, matching sizeof/typeof's
// two call shapes (sizeof(T) vs sizeof(expr)).
type TypeOrExpr struct {
	Type sdtypes.Type
	Expr Expression
}

type SizeofExpr struct {
	baseExpr
	Operand TypeOrExpr
}

func (n *SizeofExpr) Accept(v Visitor) { v.VisitSizeofExpr(n) }

type TypeofExpr struct {
	baseExpr
	Operand TypeOrExpr
}

func (n *TypeofExpr) Accept(v Visitor) { v.VisitTypeofExpr(n) }

type IsExpr struct {
	baseExpr
	Operand Expression
	Target  sdtypes.Type
}

func (n *IsExpr) Accept(v Visitor) { v.VisitIsExpr(n) }

type AsExpr struct {
	baseExpr
	Operand Expression
	Target  sdtypes.Type
}

func (n *AsExpr) Accept(v Visitor) { v.VisitAsExpr(n) }

// ---- statements ----

type ExpressionStatement struct {
	Expr Expression
}

func (n *ExpressionStatement) Accept(v Visitor) { v.VisitExpressionStatement(n) }
func (*ExpressionStatement) statementNode()     {}

// DirectiveStatement is a bare compiler directive (directive "name"),
// carrying no value of its own. Meta optionally holds a caller-attached
// structured payload (DOMAIN.2's protoreflect side-channel stamps this
// from a dynamic protobuf message) that internal/codegen does not
// interpret; it exists so a directive can carry typed metadata without
// the core AST contract knowing the schema ahead of time.
type DirectiveStatement struct {
	Name string
	Meta map[string]any
}

func (n *DirectiveStatement) Accept(v Visitor) { v.VisitDirectiveStatement(n) }
func (*DirectiveStatement) statementNode()     {}

// Visitor dispatches on concrete node type, the same double-dispatch shape
// funxy's ast.Visitor uses.
type Visitor interface {
	VisitIntLiteral(*IntLiteral)
	VisitFloatLiteral(*FloatLiteral)
	VisitBoolLiteral(*BoolLiteral)
	VisitCharLiteral(*CharLiteral)
	VisitStringLiteral(*StringLiteral)
	VisitNilLiteral(*NilLiteral)
	VisitIdentifier(*Identifier)
	VisitNamespaceVarRef(*NamespaceVarRef)
	VisitBinaryExpr(*BinaryExpr)
	VisitUnaryExpr(*UnaryExpr)
	VisitIncDecExpr(*IncDecExpr)
	VisitMemberAccess(*MemberAccess)
	VisitIndexAccess(*IndexAccess)
	VisitCall(*Call)
	VisitMethodCall(*MethodCall)
	VisitNamespaceCall(*NamespaceCall)
	VisitStaticCall(*StaticCall)
	VisitBuiltinCall(*BuiltinCall)
	VisitArrayLiteral(*ArrayLiteral)
	VisitRangeExpr(*RangeExpr)
	VisitSliceExpr(*SliceExpr)
	VisitSpreadExpr(*SpreadExpr)
	VisitStructLiteral(*StructLiteral)
	VisitLambda(*Lambda)
	VisitNamedFuncValue(*NamedFuncValue)
	VisitThreadSpawn(*ThreadSpawn)
	VisitThreadSync(*ThreadSync)
	VisitThreadSyncList(*ThreadSyncList)
	VisitInterpolation(*Interpolation)
	VisitSizeofExpr(*SizeofExpr)
	VisitTypeofExpr(*TypeofExpr)
	VisitIsExpr(*IsExpr)
	VisitAsExpr(*AsExpr)
	VisitExpressionStatement(*ExpressionStatement)
	VisitDirectiveStatement(*DirectiveStatement)
}
