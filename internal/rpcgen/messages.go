package rpcgen

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// RequestFromUnit builds a Compile/CompileStream request Struct from a
// raw JSON unit document and an optional arithmetic mode override
// ("checked"/"unchecked"; empty leaves the server's configured default).
func RequestFromUnit(unitJSON []byte, arithmeticMode string) (*structpb.Struct, error) {
	var unitVal map[string]interface{}
	if err := json.Unmarshal(unitJSON, &unitVal); err != nil {
		return nil, fmt.Errorf("decode unit json: %w", err)
	}
	fields := map[string]interface{}{"unit": unitVal}
	if arithmeticMode != "" {
		fields["arithmetic_mode"] = arithmeticMode
	}
	return structpb.NewStruct(fields)
}

// RequestUnitJSON extracts the raw JSON unit document back out of a
// request Struct built by RequestFromUnit.
func RequestUnitJSON(req *structpb.Struct) ([]byte, error) {
	unitVal, ok := req.GetFields()["unit"]
	if !ok {
		return nil, fmt.Errorf("request missing %q field", "unit")
	}
	return json.Marshal(unitVal.AsInterface())
}

// RequestArithmeticMode reads the optional arithmetic_mode override off a
// request Struct, returning "" when absent.
func RequestArithmeticMode(req *structpb.Struct) string {
	v, ok := req.GetFields()["arithmetic_mode"]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

// ResponseOK builds a successful Compile response: the generated C text
// plus the diagnostic counts pkg/sindacc.Result.Diag reports.
func ResponseOK(output string, warnings, errors int) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"ok":       true,
		"output":   output,
		"warnings": float64(warnings),
		"errors":   float64(errors),
	})
}

// ResponseErr builds a failed Compile response carrying a single error
// message, for request-shape errors the generator never gets far enough
// to attach a diagnostic to (bad JSON, unknown struct references).
func ResponseErr(err error) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"ok":    structpb.NewBoolValue(false),
		"error": structpb.NewStringValue(err.Error()),
	}}
}

// NewChunk builds one CompileStream response chunk: a slice of the
// generated output, its sequence number, and whether it is the final
// chunk the server will send for this call.
func NewChunk(seq int, text string, final bool) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"seq":   float64(seq),
		"text":  text,
		"final": final,
	})
}

// ChunkText reads the text/final fields off a chunk built by NewChunk.
func ChunkText(chunk *structpb.Struct) (text string, final bool) {
	fields := chunk.GetFields()
	if v, ok := fields["text"]; ok {
		text = v.GetStringValue()
	}
	if v, ok := fields["final"]; ok {
		final = v.GetBoolValue()
	}
	return text, final
}
