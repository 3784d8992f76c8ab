package graph

import "context"

// Handler is a function that processes the graph state.
// Handlers must not mutate the incoming state; instead, they should return a new state instance.
type Handler[S any] func(ctx context.Context, state S) (S, error)

// Middleware is a function that wraps a Handler with additional functionality.
type Middleware[S any] func(Handler[S]) Handler[S]

// ChainMiddlewares composes middlewares into one, applying them in order.
// The first middleware becomes the outermost wrapper.
func ChainMiddlewares[S any](mws ...Middleware[S]) Middleware[S] {
	return func(next Handler[S]) Handler[S] {
		h := next
		for i := len(mws) - 1; i >= 0; i-- { // apply in reverse to make mws[0] outermost
			h = mws[i](h)
		}
		return h
	}
}
