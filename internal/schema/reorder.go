package schema

import "github.com/mockforge/mockforge/internal/types"

// Reorder moves the element at src to dst using list-splice semantics:
// the element is removed, reinserted, and the remainder shifts
// contiguously. Out-of-range indices and src == dst return the input
// slice unchanged and report false; a move reports true. The moved
// result is a fresh slice; no element is created, destroyed, or
// duplicated.
func Reorder(fields []types.Field, src, dst int) ([]types.Field, bool) {
	if src < 0 || src >= len(fields) || dst < 0 || dst >= len(fields) || src == dst {
		return fields, false
	}
	out := make([]types.Field, 0, len(fields))
	out = append(out, fields[:src]...)
	out = append(out, fields[src+1:]...)
	moved := fields[src]
	out = append(out[:dst], append([]types.Field{moved}, out[dst:]...)...)
	return out, true
}
