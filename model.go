package quickstart

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used by the model transform.
const DefaultModel = "gemini-2.5-flash"

// ModelConfig configures the model transform.
type ModelConfig struct {
	// Model is the model name, DefaultModel when empty.
	Model string
	// Instruction is sent as the system instruction of every request.
	Instruction string
	// Client configures the genai client (API key or Vertex AI backend).
	Client *genai.ClientConfig
}

// NewModelTransform returns a Transform that sends the text to a Gemini model
// and returns the model's reply.
func NewModelTransform(ctx context.Context, cfg ModelConfig) (Transform, error) {
	if cfg.Client == nil {
		return nil, ErrModelNotConfigured
	}
	client, err := genai.NewClient(ctx, cfg.Client)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	config := &genai.GenerateContentConfig{}
	if cfg.Instruction != "" {
		config.SystemInstruction = genai.NewContentFromText(cfg.Instruction, genai.RoleUser)
	}
	return func(ctx context.Context, text string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(text), config)
		if err != nil {
			return "", fmt.Errorf("generate content: %w", err)
		}
		reply := strings.TrimSpace(resp.Text())
		if reply == "" {
			return "", ErrEmptyModelResponse
		}
		return reply, nil
	}, nil
}
