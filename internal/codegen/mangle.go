package codegen

import "strings"

// mangledPrefix is the fixed prefix every source-language identifier gets
// when emitted as a C identifier.
const mangledPrefix = "__sn__"

// Mangle turns a source-language identifier into its C form. It is total
// and idempotent under the convention that a
// caller never re-mangles an already-mangled string: Mangle(Mangle(x))
// simply doubles the prefix rather than collapsing it, so call sites must
// mangle each identifier exactly once.
func Mangle(name string) string {
	return mangledPrefix + name
}

// MangleNamespace mangles a (possibly nested) namespace member access:
// ns.f or ns1.ns2.f becomes __sn__<prefix>__<name>, with prefix segments
// joined by "__".
func MangleNamespace(prefix []string, name string) string {
	return mangledPrefix + strings.Join(prefix, "__") + "__" + name
}

// MangleMethod forms the C callee name for a struct method: <mangled
// struct>_<method>.
func MangleMethod(mangledStruct, method string) string {
	return mangledStruct + "_" + method
}

// cKeywordGuard is the fixed set of C reserved words (plus the C11/C23
// additions the excerpt calls out) that a bare, unprefixed identifier must
// never collide with when it is copied verbatim into generated C — a
// checker-supplied CAlias or field CAlias used as a callee, field or type
// name. Identifiers that go
// through Mangle never need this: the __sn__ prefix already makes them
// distinct from every word in this list.
var cKeywordGuard = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "int": true, "long": true, "register": true, "return": true,
	"short": true, "signed": true, "sizeof": true, "static": true, "struct": true,
	"switch": true, "typedef": true, "union": true, "unsigned": true, "void": true,
	"volatile": true, "while": true,
	"restrict": true, "inline": true,
	"_Bool": true, "_Complex": true, "_Imaginary": true, "_Atomic": true,
	"_Thread_local": true, "_Noreturn": true, "_Alignas": true, "_Alignof": true,
	"_Generic": true, "_Static_assert": true,
}

// GuardCIdent returns name unchanged unless it collides with a C keyword,
// in which case it appends a trailing underscore — the conventional C
// escape for accidental keyword collisions, and stable (guarding an
// already-guarded name is a no-op, since "while_" is not itself a
// keyword).
func GuardCIdent(name string) string {
	if cKeywordGuard[name] {
		return name + "_"
	}
	return name
}
