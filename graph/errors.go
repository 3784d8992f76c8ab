package graph

import "errors"

var (
	// ErrNoEntryPoint is returned when the graph has no entry point.
	ErrNoEntryPoint = errors.New("graph: entry point not set")
	// ErrNoFinishPoint is returned when the graph has no finish point.
	ErrNoFinishPoint = errors.New("graph: finish point not set")
	// ErrNodeNotFound is returned when an entry, finish or edge references an unknown node.
	ErrNodeNotFound = errors.New("graph: node not found")
	// ErrDuplicateNode is returned when a node name is registered twice.
	ErrDuplicateNode = errors.New("graph: duplicate node")
	// ErrInvalidNode is returned for empty or reserved node names and nil handlers.
	ErrInvalidNode = errors.New("graph: invalid node")
	// ErrFanOut is returned when a node has more than one outgoing edge.
	ErrFanOut = errors.New("graph: multiple outgoing edges")
	// ErrFinishHasSuccessor is returned when the finish point has outgoing edges.
	ErrFinishHasSuccessor = errors.New("graph: finish point has outgoing edges")
	// ErrCycle is returned when the graph contains a directed cycle.
	ErrCycle = errors.New("graph: cycles are not supported")
	// ErrUnreachable is returned when a node cannot be reached from the entry point.
	ErrUnreachable = errors.New("graph: node not reachable")
	// ErrMaxStepsExceeded is returned when an execution runs more steps than allowed.
	ErrMaxStepsExceeded = errors.New("graph: exceeded maximum steps limit")
)
