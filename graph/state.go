package graph

// Cloner is implemented by state types that hold reference values (maps, slices, pointers).
// The executor clones such states before handing them to a node so handlers never share
// memory with the caller's input. Plain value types need not implement it.
type Cloner[S any] interface {
	Clone() S
}

func cloneState[S any](state S) S {
	if c, ok := any(state).(Cloner[S]); ok {
		return c.Clone()
	}
	return state
}
