package graph

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns a middleware that writes one debug record per node execution
// and an error record when the node fails.
func Logging[S any](logger *slog.Logger) Middleware[S] {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Handler[S]) Handler[S] {
		return func(ctx context.Context, state S) (S, error) {
			attrs := []any{}
			if node, ok := FromNodeContext(ctx); ok {
				attrs = append(attrs, "node", node.Name, "step", node.Step)
			}
			start := time.Now()
			output, err := next(ctx, state)
			attrs = append(attrs, "elapsed", time.Since(start))
			if err != nil {
				logger.ErrorContext(ctx, "graph node failed", append(attrs, "error", err)...)
				return output, err
			}
			logger.DebugContext(ctx, "graph node completed", attrs...)
			return output, nil
		}
	}
}
