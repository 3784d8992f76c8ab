package quickstart

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/go-kratos/quickstart/graph"
)

// NodeName is the name of the single node in the graph.
const NodeName = "transform"

// Option configures Build.
type Option func(*options)

type options struct {
	transform      Transform
	middlewares    []graph.Middleware[State]
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	retryAttempts  int
}

// WithTransform sets the function applied by the node. Defaults to Identity.
func WithTransform(t Transform) Option {
	return func(o *options) {
		o.transform = t
	}
}

// WithMiddleware appends middlewares wrapped around the node.
func WithMiddleware(ms ...graph.Middleware[State]) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, ms...)
	}
}

// WithLogger logs every node execution.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracerProvider records a span for every node execution.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithRetry retries a failing node up to attempts times.
func WithRetry(attempts int) Option {
	return func(o *options) {
		o.retryAttempts = attempts
	}
}

// TransformNode adapts a Transform to a graph node handler.
func TransformNode(t Transform) graph.Handler[State] {
	return func(ctx context.Context, state State) (State, error) {
		text, err := t(ctx, state.Text)
		if err != nil {
			return State{}, err
		}
		return State{Text: text}, nil
	}
}

// Build declares the single transform node, registers it as both entry and
// finish point, and compiles the graph.
func Build(opts ...Option) (*graph.Executor[State], error) {
	o := options{transform: Identity}
	for _, opt := range opts {
		opt(&o)
	}
	if o.transform == nil {
		return nil, ErrNoTransform
	}
	var middlewares []graph.Middleware[State]
	if o.tracerProvider != nil {
		middlewares = append(middlewares, graph.Tracing[State](graph.WithTracerProvider(o.tracerProvider)))
	}
	if o.logger != nil {
		middlewares = append(middlewares, graph.Logging[State](o.logger))
	}
	if o.retryAttempts > 1 {
		middlewares = append(middlewares, graph.Retry[State](o.retryAttempts))
	}
	middlewares = append(middlewares, o.middlewares...)

	g := graph.NewGraph(graph.WithMiddleware(middlewares...))
	g.AddNode(NodeName, TransformNode(o.transform))
	g.SetEntryPoint(NodeName)
	g.SetFinishPoint(NodeName)
	return g.Compile()
}
