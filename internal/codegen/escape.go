package codegen

import "strings"

// ArenaFragmentForDepth picks the C arena expression to allocate an
// escaping value into, given the current arena depth and a desired target
// depth. Depth 0 means file/module scope (no arena —
// "NULL"); depth 1 is the function's own base arena ("__arena__"); depth
// >=2 indexes the private-block arena stack. When the target arena isn't
// directly reachable (escaping further out than any name currently in
// scope), it synthesizes nested rt_arena_get_parent calls.
func (g *G) ArenaFragmentForDepth(targetDepth int) string {
	if targetDepth <= 0 {
		return "NULL"
	}
	if targetDepth == 1 {
		return "__arena__"
	}
	idx := targetDepth - 2
	if idx >= 0 && idx < len(g.ArenaStack) {
		return g.ArenaStack[idx]
	}
	// Target is further out than anything currently named: walk up from
	// the innermost known arena.
	current := g.CurrentArenaVar
	if current == "" {
		return "NULL"
	}
	levels := g.ArenaDepth() - targetDepth
	if levels <= 0 {
		return current
	}
	return strings.Repeat("rt_arena_get_parent(", levels) + current + strings.Repeat(")", levels)
}

// EscapeTarget resolves the destination arena fragment for an allocation
// that must outlive the current scope by escaping to targetDepth, given
// the allocation's own source depth (the current scope). It is a thin,
// named wrapper over ArenaFragmentForDepth kept distinct so call sites
// read as "where does this value need to live" rather than "what's the
// current depth arithmetic".
func (g *G) EscapeTarget(sourceDepth, targetDepth int) string {
	_ = sourceDepth // kept for signature symmetry with the depth/destination wording
	return g.ArenaFragmentForDepth(targetDepth)
}
