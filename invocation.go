package quickstart

import (
	"context"

	"github.com/google/uuid"
)

// InvocationContext holds information about the current graph invocation.
type InvocationContext struct {
	InvocationID string
	Input        string
}

// ctxInvocationKey is an unexported type for keys defined in this package.
type ctxInvocationKey struct{}

// NewInvocationID returns a random invocation identifier.
func NewInvocationID() string {
	return uuid.NewString()
}

// NewInvocationContext returns a new Context that carries value.
func NewInvocationContext(ctx context.Context, invocation *InvocationContext) context.Context {
	return context.WithValue(ctx, ctxInvocationKey{}, invocation)
}

// FromInvocationContext retrieves the InvocationContext from the context.
func FromInvocationContext(ctx context.Context) (*InvocationContext, bool) {
	invocation, ok := ctx.Value(ctxInvocationKey{}).(*InvocationContext)
	return invocation, ok
}

// EnsureInvocationContext retrieves the InvocationContext from the context, or creates a new one if it doesn't exist.
func EnsureInvocationContext(ctx context.Context) (*InvocationContext, context.Context) {
	invocation, ok := FromInvocationContext(ctx)
	if !ok {
		invocation = &InvocationContext{InvocationID: NewInvocationID()}
		ctx = NewInvocationContext(ctx, invocation)
	}
	return invocation, ctx
}
