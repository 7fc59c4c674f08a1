package rpcgen

import (
	"bytes"
	"context"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/sindarinsdk/sindacc/internal/config"
	"github.com/sindarinsdk/sindacc/pkg/sindacc"
)

// chunkSize bounds how much generated C text one CompileStream message
// carries; splitting on it rather than sending the whole unit in one
// message is what makes CompileStream meaningfully different from
// Compile for a build farm pulling output incrementally.
const chunkSize = 16 * 1024

// Server implements CodegenServer over pkg/sindacc, the same thin
// adapter shape builtinGrpcRegister's FunxyGrpcHandler wraps an
// interpreter object in.
type Server struct {
	Config *config.Config
}

// NewServer returns a Server compiling against cfg. A nil cfg falls back
// to config.Default() per request.
func NewServer(cfg *config.Config) *Server {
	return &Server{Config: cfg}
}

func (s *Server) cfg() *config.Config {
	if s.Config != nil {
		return s.Config
	}
	return config.Default()
}

func (s *Server) compile(req *structpb.Struct) (*sindacc.Result, error) {
	unitJSON, err := RequestUnitJSON(req)
	if err != nil {
		return nil, err
	}
	unit, err := sindacc.Decode(unitJSON)
	if err != nil {
		return nil, fmt.Errorf("decode unit: %w", err)
	}
	cfg := s.cfg()
	if mode := RequestArithmeticMode(req); mode != "" {
		cfgCopy := *cfg
		cfgCopy.ArithmeticMode = mode
		cfg = &cfgCopy
	}
	var diag bytes.Buffer
	return sindacc.Compile(cfg, &diag, unit)
}

// Compile implements CodegenServer.
func (s *Server) Compile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	result, err := s.compile(req)
	if err != nil {
		return ResponseErr(err), nil
	}
	return ResponseOK(result.Output, result.Diag.WarningCount(), result.Diag.ErrorCount())
}

// CompileStream implements CodegenServer, chunking the compiled output
// across multiple Send calls instead of returning it in one message.
func (s *Server) CompileStream(req *structpb.Struct, stream CodegenService_CompileStreamServer) error {
	result, err := s.compile(req)
	if err != nil {
		chunk, merr := NewChunk(0, "", true)
		if merr != nil {
			return merr
		}
		chunk.Fields["ok"] = structpb.NewBoolValue(false)
		chunk.Fields["error"] = structpb.NewStringValue(err.Error())
		return stream.Send(chunk)
	}

	output := result.Output
	seq := 0
	for {
		end := chunkSize
		if end > len(output) {
			end = len(output)
		}
		final := end == len(output)
		chunk, err := NewChunk(seq, output[:end], final)
		if err != nil {
			return err
		}
		if err := stream.Send(chunk); err != nil {
			return err
		}
		if final {
			return nil
		}
		output = output[end:]
		seq++
	}
}
