package quickstart

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// State is the payload that flows through the graph.
type State struct {
	Text string `json:"text" jsonschema:"The text payload transformed by the graph node."`
}

// StateSchema returns the JSON schema describing State.
func StateSchema() (*jsonschema.Schema, error) {
	return jsonschema.For[State](nil)
}

var resolvedStateSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	schema, err := StateSchema()
	if err != nil {
		return nil, err
	}
	return schema.Resolve(nil)
})

// DecodeState parses a JSON encoded State and validates it against StateSchema.
func DecodeState(data []byte) (State, error) {
	resolved, err := resolvedStateSchema()
	if err != nil {
		return State{}, err
	}
	var instance map[string]any
	if err := json.Unmarshal(data, &instance); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if err := resolved.Validate(instance); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return state, nil
}

// EncodeState encodes a State as JSON.
func EncodeState(state State) ([]byte, error) {
	return json.Marshal(state)
}

// Schema returns the JSON schema describing State.
func (State) Schema() (*jsonschema.Schema, error) {
	return StateSchema()
}
