package graph

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Update is emitted by Stream after each node completes.
type Update[S any] struct {
	Node  string
	Step  int
	State S
}

// BatchOption configures Executor.Batch.
type BatchOption func(*batchOptions)

type batchOptions struct {
	concurrency int
}

// WithConcurrency limits the number of invocations Batch runs at once.
// Zero or a negative value means no limit.
func WithConcurrency(n int) BatchOption {
	return func(o *batchOptions) {
		o.concurrency = n
	}
}

// Executor represents a compiled graph ready for execution.
// It is immutable and safe for concurrent use.
type Executor[S any] struct {
	nodes       map[string]Handler[S]
	order       []string
	next        map[string]string
	entryPoint  string
	finishPoint string
	maxSteps    int
}

func newExecutor[S any](g *Graph[S]) *Executor[S] {
	e := &Executor[S]{
		nodes:       make(map[string]Handler[S], len(g.nodes)),
		order:       slices.Clone(g.order),
		next:        make(map[string]string, len(g.edges)),
		entryPoint:  g.entryPoint,
		finishPoint: g.finishPoint,
		maxSteps:    g.maxSteps,
	}
	if e.maxSteps <= 0 {
		e.maxSteps = defaultMaxSteps
	}
	for name, handler := range g.nodes {
		if len(g.middlewares) > 0 {
			handler = ChainMiddlewares(g.middlewares...)(handler)
		}
		e.nodes[name] = handler
	}
	for from, targets := range g.edges {
		if len(targets) > 0 {
			e.next[from] = targets[0]
		}
	}
	return e
}

// EntryPoint returns the name of the node execution starts at.
func (e *Executor[S]) EntryPoint() string {
	return e.entryPoint
}

// FinishPoint returns the name of the node execution stops after.
func (e *Executor[S]) FinishPoint() string {
	return e.finishPoint
}

// Nodes returns the node names in sorted order.
func (e *Executor[S]) Nodes() []string {
	return slices.Sorted(maps.Keys(e.nodes))
}

// Topology describes the compiled graph for visualization.
func (e *Executor[S]) Topology() Topology {
	t := Topology{
		Nodes:       slices.Clone(e.order),
		EntryPoint:  e.entryPoint,
		FinishPoint: e.finishPoint,
	}
	for _, from := range e.order {
		if to, ok := e.next[from]; ok {
			t.Edges = append(t.Edges, Edge{From: from, To: to})
		}
	}
	return t
}

// Invoke runs the graph once from the entry point to the finish point and
// returns the final state.
func (e *Executor[S]) Invoke(ctx context.Context, state S) (S, error) {
	var final S
	for update, err := range e.Stream(ctx, state) {
		if err != nil {
			var zero S
			return zero, err
		}
		final = update.State
	}
	return final, nil
}

// Stream runs the graph and yields the state produced by every node.
// The sequence stops at the first error.
func (e *Executor[S]) Stream(ctx context.Context, state S) iter.Seq2[Update[S], error] {
	return func(yield func(Update[S], error) bool) {
		var zero Update[S]
		current := cloneState(state)
		node := e.entryPoint
		for step := 1; ; step++ {
			if step > e.maxSteps {
				yield(zero, fmt.Errorf("%w (%d)", ErrMaxStepsExceeded, e.maxSteps))
				return
			}
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}
			next, err := e.executeNode(ctx, node, step, current)
			if err != nil {
				yield(zero, err)
				return
			}
			current = next
			if !yield(Update[S]{Node: node, Step: step, State: cloneState(current)}, nil) {
				return
			}
			if node == e.finishPoint {
				return
			}
			successor, ok := e.next[node]
			if !ok {
				yield(zero, fmt.Errorf("graph: no outgoing edges from node %s", node))
				return
			}
			node = successor
		}
	}
}

// Batch invokes the graph once per input concurrently. Outputs are returned in input order.
// The first failing invocation cancels the others.
func (e *Executor[S]) Batch(ctx context.Context, inputs []S, opts ...BatchOption) ([]S, error) {
	var o batchOptions
	for _, opt := range opts {
		opt(&o)
	}
	outputs := make([]S, len(inputs))
	eg, egCtx := errgroup.WithContext(ctx)
	if o.concurrency > 0 {
		eg.SetLimit(o.concurrency)
	}
	for i, input := range inputs {
		eg.Go(func() error {
			output, err := e.Invoke(egCtx, input)
			if err != nil {
				return fmt.Errorf("graph: batch item %d: %w", i, err)
			}
			outputs[i] = output
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

func (e *Executor[S]) executeNode(ctx context.Context, name string, step int, state S) (S, error) {
	handler, ok := e.nodes[name]
	if !ok {
		var zero S
		return zero, fmt.Errorf("graph: node %s handler missing", name)
	}
	ctx = NewNodeContext(ctx, &NodeContext{Name: name, Step: step})
	next, err := handler(ctx, cloneState(state))
	if err != nil {
		var zero S
		return zero, fmt.Errorf("graph: node %s: %w", name, err)
	}
	return next, nil
}
