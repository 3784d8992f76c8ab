package quickstart

import "errors"

var (
	// ErrUnknownTransform is returned when a transform name is not registered.
	ErrUnknownTransform = errors.New("unknown transform")
	// ErrNoTransform is returned when the graph is built without a transform.
	ErrNoTransform = errors.New("transform is required")
	// ErrInvalidState is returned when an encoded state does not match the state schema.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidEndpoint is returned when a line is not of the form "METHOD /path [URL: url]".
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	// ErrModelNotConfigured is returned when the model transform has no client configuration.
	ErrModelNotConfigured = errors.New("model client is not configured")
	// ErrEmptyModelResponse is returned when the model replies without text.
	ErrEmptyModelResponse = errors.New("model returned an empty response")
)
