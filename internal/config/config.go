// Package config loads CLI settings from an optional .env file and the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"cloud.google.com/go/auth/credentials"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

// DefaultInput is the literal passed to the graph when no input is configured.
const DefaultInput = "hello"

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// ErrMissingAPIKey is returned when the model transform is selected without credentials.
var ErrMissingAPIKey = errors.New("config: GOOGLE_API_KEY or GEMINI_API_KEY is not set")

// Config holds the runtime settings of the quickstart CLI.
type Config struct {
	Input       string
	Transform   string
	Model       string
	Instruction string
	LogLevel    string

	APIKey          string
	UseVertexAI     bool
	Project         string
	Location        string
	CredentialsFile string
	// BaseURL overrides the Gemini API endpoint.
	BaseURL         string
}

// Load reads envFile when it exists and then builds a Config from the environment.
// Variables already present in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		_, err := os.Stat(envFile)
		switch {
		case err == nil:
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("config: load %s: %w", envFile, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("config: stat %s: %w", envFile, err)
		}
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from environment variables only.
func FromEnv() *Config {
	return &Config{
		Input:           os.Getenv("QUICKSTART_INPUT"),
		Transform:       os.Getenv("QUICKSTART_TRANSFORM"),
		Model:           os.Getenv("QUICKSTART_MODEL"),
		Instruction:     os.Getenv("QUICKSTART_INSTRUCTION"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		APIKey:          firstNonEmpty(os.Getenv("GOOGLE_API_KEY"), os.Getenv("GEMINI_API_KEY")),
		UseVertexAI:     envBool("GOOGLE_GENAI_USE_VERTEXAI"),
		Project:         os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Location:        os.Getenv("GOOGLE_CLOUD_LOCATION"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		BaseURL:         os.Getenv("GOOGLE_GEMINI_BASE_URL"),
	}
}

// GenAIClientConfig returns the genai client configuration for the model transform.
// With UseVertexAI set, application default credentials are detected; otherwise an API key is required.
func (c *Config) GenAIClientConfig(ctx context.Context) (*genai.ClientConfig, error) {
	if c.UseVertexAI {
		creds, err := credentials.DetectDefault(&credentials.DetectOptions{
			Scopes:          []string{cloudPlatformScope},
			CredentialsFile: c.CredentialsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("config: detect credentials: %w", err)
		}
		return &genai.ClientConfig{
			Backend:     genai.BackendVertexAI,
			Project:     c.Project,
			Location:    c.Location,
			Credentials: creds,
		}, nil
	}
	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &genai.ClientConfig{
		APIKey:      c.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.BaseURL},
	}, nil
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
