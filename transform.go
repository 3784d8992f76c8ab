package quickstart

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Transform maps the text payload of a State to a new text.
type Transform func(ctx context.Context, text string) (string, error)

// Names of the built-in transforms.
const (
	TransformIdentity = "identity"
	TransformUpper    = "upper"
	TransformLower    = "lower"
	TransformTitle    = "title"
	TransformReverse  = "reverse"
	TransformTrim     = "trim"
	// TransformEndpoints reports the HTTP endpoints mentioned in the text.
	TransformEndpoints = "endpoints"
	// TransformParseEndpoint turns a "METHOD /path URL: ..." line into a JSON client stub.
	TransformParseEndpoint = "parse-endpoint"
	// TransformModel names the Gemini-backed transform, see NewModelTransform.
	TransformModel = "model"
)

var builtinTransforms = map[string]Transform{
	TransformIdentity: Identity,
	TransformUpper:    stringTransform(strings.ToUpper),
	TransformLower:    stringTransform(strings.ToLower),
	TransformTitle: func(_ context.Context, text string) (string, error) {
		// Casers keep state and are not safe for concurrent use.
		return cases.Title(language.Und).String(text), nil
	},
	TransformReverse: stringTransform(reverse),
	TransformTrim:    stringTransform(strings.TrimSpace),

	TransformEndpoints:     extractEndpoints,
	TransformParseEndpoint: parseEndpoint,
}

// Identity returns the text unchanged.
func Identity(_ context.Context, text string) (string, error) {
	return text, nil
}

// LookupTransform returns the built-in transform registered under name.
func LookupTransform(name string) (Transform, error) {
	if t, ok := builtinTransforms[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownTransform, name, strings.Join(TransformNames(), ", "))
}

// TransformNames lists the built-in transform names in sorted order.
func TransformNames() []string {
	return slices.Sorted(maps.Keys(builtinTransforms))
}

func stringTransform(fn func(string) string) Transform {
	return func(_ context.Context, text string) (string, error) {
		return fn(text), nil
	}
}

func reverse(s string) string {
	runes := []rune(s)
	slices.Reverse(runes)
	return string(runes)
}
