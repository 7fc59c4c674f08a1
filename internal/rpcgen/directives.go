package rpcgen

import (
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"

	"github.com/sindarinsdk/sindacc/internal/ast"
)

// DirectiveDescriptors is an optional side-channel descriptor set a caller
// uses, through direct Annotate calls, to attach structured metadata to a
// unit's directive statements (Server.Compile and CompileStream do not
// consult it), without internal/ast's
// DirectiveStatement needing to know the extension schema ahead of time.
// Mirrors the teacher's own proto descriptor registry, scoped to one
// caller instead of a process-wide global.
type DirectiveDescriptors struct {
	mu    sync.RWMutex
	files map[string]*desc.FileDescriptor
}

// NewDirectiveDescriptors returns an empty descriptor set.
func NewDirectiveDescriptors() *DirectiveDescriptors {
	return &DirectiveDescriptors{files: make(map[string]*desc.FileDescriptor)}
}

// LoadProto parses path (searched under importPaths) and registers every
// message type it declares.
func (d *DirectiveDescriptors) LoadProto(path string, importPaths []string) error {
	parser := protoparse.Parser{ImportPaths: importPaths}
	fds, err := parser.ParseFiles(path)
	if err != nil {
		return fmt.Errorf("parse directive proto %s: %w", path, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, fd := range fds {
		d.files[fd.GetName()] = fd
	}
	return nil
}

func (d *DirectiveDescriptors) findMessage(name string) *desc.MessageDescriptor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, fd := range d.files {
		if md := fd.FindMessage(name); md != nil {
			return md
		}
	}
	return nil
}

// Annotate decodes a JSON-encoded instance of messageName and attaches it
// to stmt.Meta under that name, so a directive carries typed structured
// data the core AST contract was never taught about.
func (d *DirectiveDescriptors) Annotate(stmt *ast.DirectiveStatement, messageName string, data []byte) error {
	md := d.findMessage(messageName)
	if md == nil {
		return fmt.Errorf("directive message type %q not loaded", messageName)
	}
	msg := dynamic.NewMessage(md)
	if err := msg.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode directive payload for %q: %w", messageName, err)
	}

	fields := make(map[string]any, len(md.GetFields()))
	for _, fd := range md.GetFields() {
		fields[fd.GetName()] = msg.GetField(fd)
	}

	if stmt.Meta == nil {
		stmt.Meta = make(map[string]any)
	}
	stmt.Meta[messageName] = fields
	return nil
}
