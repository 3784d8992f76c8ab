package graph

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const traceScope = "github.com/go-kratos/quickstart/graph"

// TraceOption defines options for the tracing middleware.
type TraceOption func(*tracing)

type tracing struct {
	tracer trace.Tracer
}

// WithTracerProvider sets a custom TracerProvider for the tracing middleware.
func WithTracerProvider(tp trace.TracerProvider) TraceOption {
	return func(t *tracing) {
		t.tracer = tp.Tracer(traceScope)
	}
}

// Tracing returns a middleware that wraps every node execution in an OpenTelemetry span.
func Tracing[S any](opts ...TraceOption) Middleware[S] {
	t := &tracing{
		tracer: otel.GetTracerProvider().Tracer(traceScope),
	}
	for _, o := range opts {
		o(t)
	}
	return func(next Handler[S]) Handler[S] {
		return func(ctx context.Context, state S) (S, error) {
			name := "unknown"
			step := 0
			if node, ok := FromNodeContext(ctx); ok {
				name, step = node.Name, node.Step
			}
			ctx, span := t.tracer.Start(ctx, fmt.Sprintf("graph.node %s", name))
			defer span.End()
			span.SetAttributes(
				attribute.String("graph.node.name", name),
				attribute.Int("graph.node.step", step),
			)
			output, err := next(ctx, state)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return output, err
			}
			span.SetStatus(codes.Ok, codes.Ok.String())
			return output, nil
		}
	}
}
