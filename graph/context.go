package graph

import "context"

type ctxNodeKey struct{}

// NodeContext holds information about the node currently executing.
type NodeContext struct {
	Name string
	// Step is the 1-based position of the node in the current execution.
	Step int
}

// NewNodeContext returns a new context with the given NodeContext.
func NewNodeContext(ctx context.Context, node *NodeContext) context.Context {
	return context.WithValue(ctx, ctxNodeKey{}, node)
}

// FromNodeContext retrieves the NodeContext from the context, if present.
func FromNodeContext(ctx context.Context) (*NodeContext, bool) {
	node, ok := ctx.Value(ctxNodeKey{}).(*NodeContext)
	return node, ok
}
