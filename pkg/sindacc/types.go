package sindacc

import (
	"fmt"

	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// typeJSON is the wire shape for a resolved sdtypes.Type. kind selects
// which of the remaining fields apply, mirroring the discriminated-union
// decoding the runtime directive schema side-channel (internal/rpcgen)
// uses for extension fields.
type typeJSON struct {
	Kind    string    `json:"kind"`
	Element *typeJSON `json:"element,omitempty"` // array
	Base    *typeJSON `json:"base,omitempty"`    // pointer
	Struct  string    `json:"struct,omitempty"`  // struct: name, looked up in Unit.Structs
	Opaque  string    `json:"opaque,omitempty"`
}

var primitiveKinds = map[string]sdtypes.PrimitiveKind{
	"int": sdtypes.KInt, "long": sdtypes.KLong, "int32": sdtypes.KInt32,
	"uint": sdtypes.KUInt, "uint32": sdtypes.KUInt32,
	"float": sdtypes.KFloat, "double": sdtypes.KDouble,
	"char": sdtypes.KChar, "byte": sdtypes.KByte, "bool": sdtypes.KBool,
	"string": sdtypes.KString, "void": sdtypes.KVoid, "nil": sdtypes.KNil, "any": sdtypes.KAny,
}

// decodeType resolves a typeJSON against the unit's struct registry. structs
// is keyed by name, built once up front from Unit.Structs so forward
// references between struct field types resolve regardless of declaration
// order.
func decodeType(t *typeJSON, structs map[string]sdtypes.Struct) (sdtypes.Type, error) {
	if t == nil {
		return nil, nil
	}
	if pk, ok := primitiveKinds[t.Kind]; ok {
		return sdtypes.Primitive{Kind: pk}, nil
	}
	switch t.Kind {
	case "array":
		elem, err := decodeType(t.Element, structs)
		if err != nil {
			return nil, err
		}
		return sdtypes.Array{Element: elem}, nil
	case "pointer":
		base, err := decodeType(t.Base, structs)
		if err != nil {
			return nil, err
		}
		return sdtypes.Pointer{Base: base}, nil
	case "struct":
		st, ok := structs[t.Struct]
		if !ok {
			return nil, fmt.Errorf("type references unknown struct %q", t.Struct)
		}
		return st, nil
	case "opaque":
		return sdtypes.Opaque{Name: t.Opaque}, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", t.Kind)
	}
}

var memQuals = map[string]sdtypes.MemQual{
	"": sdtypes.MemDefault, "default": sdtypes.MemDefault,
	"ref": sdtypes.MemAsRef, "val": sdtypes.MemAsVal,
}

func decodeMemQual(s string) (sdtypes.MemQual, error) {
	q, ok := memQuals[s]
	if !ok {
		return 0, fmt.Errorf("unknown mem qualifier %q", s)
	}
	return q, nil
}

var funcMods = map[string]sdtypes.FuncMod{
	"": sdtypes.FuncDefault, "default": sdtypes.FuncDefault,
	"shared": sdtypes.FuncShared, "private": sdtypes.FuncPrivate,
}

func decodeFuncMod(s string) (sdtypes.FuncMod, error) {
	m, ok := funcMods[s]
	if !ok {
		return 0, fmt.Errorf("unknown func modifier %q", s)
	}
	return m, nil
}

// fieldJSON and structJSON describe one Unit.Structs entry.
type fieldJSON struct {
	Name   string    `json:"name"`
	CAlias string    `json:"c_alias,omitempty"`
	Type   *typeJSON `json:"type"`
}

type methodJSON struct {
	Name          string      `json:"name"`
	CAlias        string      `json:"c_alias,omitempty"`
	IsNative      bool        `json:"is_native,omitempty"`
	IsStatic      bool        `json:"is_static,omitempty"`
	HasBody       bool        `json:"has_body,omitempty"`
	HasArenaParam bool        `json:"has_arena_param,omitempty"`
	Return        *typeJSON   `json:"return"`
	Params        []*typeJSON `json:"params,omitempty"`
	ParamMemQuals []string    `json:"param_mem_quals,omitempty"`
}

type structJSON struct {
	Name          string       `json:"name"`
	CAlias        string       `json:"c_alias,omitempty"`
	IsNative      bool         `json:"is_native,omitempty"`
	PassSelfByRef bool         `json:"pass_self_by_ref,omitempty"`
	Fields        []fieldJSON  `json:"fields,omitempty"`
	Methods       []methodJSON `json:"methods,omitempty"`
}

// decodeStructs resolves the unit's struct declarations in two passes: the
// first registers every struct by name with empty fields/methods so
// self-referential and mutually-referential field types (a linked-list
// node's `next *Node`) resolve, the second fills in the real field and
// method lists.
func decodeStructs(raw []structJSON) (map[string]sdtypes.Struct, error) {
	out := make(map[string]sdtypes.Struct, len(raw))
	for _, s := range raw {
		out[s.Name] = sdtypes.Struct{Name: s.Name, CAlias: s.CAlias, IsNative: s.IsNative, PassSelfByRef: s.PassSelfByRef}
	}
	for _, s := range raw {
		fields := make([]sdtypes.Field, 0, len(s.Fields))
		for _, f := range s.Fields {
			ft, err := decodeType(f.Type, out)
			if err != nil {
				return nil, fmt.Errorf("struct %s field %s: %w", s.Name, f.Name, err)
			}
			fields = append(fields, sdtypes.Field{Name: f.Name, CAlias: f.CAlias, Type: ft})
		}
		methods := make([]sdtypes.Method, 0, len(s.Methods))
		for _, m := range s.Methods {
			ret, err := decodeType(m.Return, out)
			if err != nil {
				return nil, fmt.Errorf("struct %s method %s: %w", s.Name, m.Name, err)
			}
			params := make([]sdtypes.Type, 0, len(m.Params))
			for _, p := range m.Params {
				pt, err := decodeType(p, out)
				if err != nil {
					return nil, fmt.Errorf("struct %s method %s: %w", s.Name, m.Name, err)
				}
				params = append(params, pt)
			}
			quals := make([]sdtypes.MemQual, 0, len(m.ParamMemQuals))
			for _, q := range m.ParamMemQuals {
				mq, err := decodeMemQual(q)
				if err != nil {
					return nil, fmt.Errorf("struct %s method %s: %w", s.Name, m.Name, err)
				}
				quals = append(quals, mq)
			}
			methods = append(methods, sdtypes.Method{
				Name: m.Name, CAlias: m.CAlias, IsNative: m.IsNative, IsStatic: m.IsStatic,
				Return: ret, Params: params, ParamMemQuals: quals,
				HasArenaParam: m.HasArenaParam, HasBody: m.HasBody,
			})
		}
		st := out[s.Name]
		st.Fields = fields
		st.Methods = methods
		out[s.Name] = st
	}
	return out, nil
}
