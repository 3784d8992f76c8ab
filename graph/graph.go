package graph

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// Start is a virtual node name: AddEdge(Start, name) sets the entry point.
	Start = "__start__"
	// End is a virtual node name: AddEdge(name, End) sets the finish point.
	End = "__end__"

	defaultMaxSteps = 64
)

// Option configures the Graph behavior.
type Option[S any] func(*Graph[S])

// WithMiddleware sets a global middleware applied to all node handlers.
func WithMiddleware[S any](ms ...Middleware[S]) Option[S] {
	return func(g *Graph[S]) {
		g.middlewares = ms
	}
}

// WithMaxSteps bounds the number of node executions per run. Defaults to 64.
func WithMaxSteps[S any](n int) Option[S] {
	return func(g *Graph[S]) {
		g.maxSteps = n
	}
}

// Graph represents a directed graph of processing nodes over a state type S.
// Each node has at most one successor; execution starts at the entry point
// and stops after the finish point has run.
type Graph[S any] struct {
	nodes       map[string]Handler[S]
	order       []string
	edges       map[string][]string
	entryPoint  string
	finishPoint string
	maxSteps    int
	middlewares []Middleware[S]
	errs        []error
}

// NewGraph creates a new empty Graph.
func NewGraph[S any](opts ...Option[S]) *Graph[S] {
	g := &Graph[S]{
		nodes:    make(map[string]Handler[S]),
		edges:    make(map[string][]string),
		maxSteps: defaultMaxSteps,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// AddNode adds a named node with its handler to the graph.
// Invalid or duplicate registrations are reported by Compile.
// Returns the graph for chaining.
func (g *Graph[S]) AddNode(name string, handler Handler[S]) *Graph[S] {
	switch {
	case name == "" || name == Start || name == End:
		g.errs = append(g.errs, fmt.Errorf("%w: reserved or empty name %q", ErrInvalidNode, name))
		return g
	case handler == nil:
		g.errs = append(g.errs, fmt.Errorf("%w: nil handler for %s", ErrInvalidNode, name))
		return g
	}
	if _, ok := g.nodes[name]; ok {
		g.errs = append(g.errs, fmt.Errorf("%w: %s", ErrDuplicateNode, name))
		return g
	}
	g.nodes[name] = handler
	g.order = append(g.order, name)
	return g
}

// AddEdge adds a directed edge from one node to another.
// Edges from Start or to End set the entry and finish points.
// Returns the graph for chaining.
func (g *Graph[S]) AddEdge(from, to string) *Graph[S] {
	if from == Start {
		return g.SetEntryPoint(to)
	}
	if to == End {
		return g.SetFinishPoint(from)
	}
	if slices.Contains(g.edges[from], to) {
		return g
	}
	g.edges[from] = append(g.edges[from], to)
	return g
}

// SetEntryPoint marks a node as the entry point.
// Returns the graph for chaining.
func (g *Graph[S]) SetEntryPoint(start string) *Graph[S] {
	g.entryPoint = start
	return g
}

// SetFinishPoint marks a node as the finish point.
// Returns the graph for chaining.
func (g *Graph[S]) SetFinishPoint(end string) *Graph[S] {
	g.finishPoint = end
	return g
}

// validate ensures the graph configuration is correct before compiling.
func (g *Graph[S]) validate() error {
	errs := slices.Clone(g.errs)
	if g.entryPoint == "" {
		errs = append(errs, ErrNoEntryPoint)
	} else if _, ok := g.nodes[g.entryPoint]; !ok {
		errs = append(errs, fmt.Errorf("%w: entry point %s", ErrNodeNotFound, g.entryPoint))
	}
	if g.finishPoint == "" {
		errs = append(errs, ErrNoFinishPoint)
	} else if _, ok := g.nodes[g.finishPoint]; !ok {
		errs = append(errs, fmt.Errorf("%w: finish point %s", ErrNodeNotFound, g.finishPoint))
	}
	// Execution stops after the finish point, so nothing may follow it.
	if targets := g.edges[g.finishPoint]; g.finishPoint != "" && len(targets) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s -> [%s]", ErrFinishHasSuccessor, g.finishPoint, strings.Join(targets, ", ")))
	}
	for _, from := range g.edgeSources() {
		targets := g.edges[from]
		if _, ok := g.nodes[from]; !ok {
			errs = append(errs, fmt.Errorf("%w: edge from %s", ErrNodeNotFound, from))
		}
		for _, to := range targets {
			if _, ok := g.nodes[to]; !ok {
				errs = append(errs, fmt.Errorf("%w: edge to %s", ErrNodeNotFound, to))
			}
		}
		if len(targets) > 1 {
			errs = append(errs, fmt.Errorf("%w: %s -> [%s]", ErrFanOut, from, strings.Join(targets, ", ")))
		}
	}
	return errors.Join(errs...)
}

// edgeSources returns the edge source names in a stable order.
func (g *Graph[S]) edgeSources() []string {
	sources := make([]string, 0, len(g.edges))
	for from := range g.edges {
		sources = append(sources, from)
	}
	slices.Sort(sources)
	return sources
}

// ensureAcyclic verifies that the graph does not contain directed cycles.
func (g *Graph[S]) ensureAcyclic() error {
	const (
		stateUnvisited = iota
		stateVisiting
		stateVisited
	)
	states := make(map[string]int, len(g.nodes))
	stack := make([]string, 0, len(g.nodes))

	var visit func(string) error
	visit = func(node string) error {
		states[node] = stateVisiting
		stack = append(stack, node)
		for _, next := range g.edges[node] {
			switch states[next] {
			case stateVisiting:
				cycleStart := slices.Index(stack, next)
				cycle := append(slices.Clone(stack[cycleStart:]), next)
				return fmt.Errorf("%w (cycle: %s)", ErrCycle, strings.Join(cycle, " -> "))
			case stateUnvisited:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		states[node] = stateVisited
		return nil
	}

	for _, name := range g.order {
		if states[name] == stateUnvisited {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// ensureReachable verifies that the finish node and every other node can be
// reached from the entry node.
func (g *Graph[S]) ensureReachable() error {
	visited := make(map[string]bool, len(g.nodes))
	queue := []string{g.entryPoint}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if visited[node] {
			continue
		}
		visited[node] = true
		queue = append(queue, g.edges[node]...)
	}
	if !visited[g.finishPoint] {
		return fmt.Errorf("%w: finish node %s", ErrUnreachable, g.finishPoint)
	}
	for _, name := range g.order {
		if !visited[name] {
			return fmt.Errorf("%w: orphan node %s", ErrUnreachable, name)
		}
	}
	return nil
}

// Compile validates and compiles the graph into an Executor.
// The executor takes a snapshot of the graph; later changes to the Graph do not affect it.
func (g *Graph[S]) Compile() (*Executor[S], error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	if err := g.ensureAcyclic(); err != nil {
		return nil, err
	}
	if err := g.ensureReachable(); err != nil {
		return nil, err
	}
	return newExecutor(g), nil
}
