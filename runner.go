package quickstart

import (
	"context"
	"log/slog"

	"github.com/go-kratos/quickstart/graph"
	"github.com/go-kratos/quickstart/internal/logging"
)

// RunOption defines options for configuring the Runner.
type RunOption func(*Runner)

// WithInvocationID sets a fixed invocation ID for every run.
func WithInvocationID(invocationID string) RunOption {
	return func(r *Runner) {
		r.invocationID = invocationID
	}
}

// WithRunLogger sets the logger used to report invocations.
func WithRunLogger(logger *slog.Logger) RunOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// Runner invokes a compiled graph with text input.
type Runner struct {
	executor     *graph.Executor[State]
	invocationID string
	logger       *slog.Logger
}

// NewRunner creates a new Runner for the given executor.
func NewRunner(executor *graph.Executor[State], opts ...RunOption) *Runner {
	r := &Runner{
		executor: executor,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run invokes the graph with the given text and returns the transformed text.
func (r *Runner) Run(ctx context.Context, input string) (string, error) {
	state, err := r.RunState(ctx, State{Text: input})
	if err != nil {
		return "", err
	}
	return state.Text, nil
}

// RunState invokes the graph with a full State.
func (r *Runner) RunState(ctx context.Context, state State) (State, error) {
	invocationID := r.invocationID
	if invocationID == "" {
		invocationID = NewInvocationID()
	}
	ctx = NewInvocationContext(ctx, &InvocationContext{InvocationID: invocationID, Input: state.Text})
	r.logger.DebugContext(ctx, "invoking graph", "invocation", invocationID, "entry", r.executor.EntryPoint())
	output, err := r.executor.Invoke(ctx, state)
	if err != nil {
		return State{}, err
	}
	r.logger.DebugContext(ctx, "graph invocation completed", "invocation", invocationID)
	return output, nil
}

// Invoke runs the executor once with input and returns the resulting text.
func Invoke(ctx context.Context, executor *graph.Executor[State], input string) (string, error) {
	return NewRunner(executor).Run(ctx, input)
}
