package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// execute runs the root command with args and stdin, returning stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	for _, key := range []string{"QUICKSTART_INPUT", "QUICKSTART_TRANSFORM", "QUICKSTART_MODEL", "QUICKSTART_INSTRUCTION", "LOG_LEVEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), ".env")))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunDefault(t *testing.T) {
	stdout, _, err := execute(t, "")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", stdout)
}

func TestRunFlags(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{name: "input", args: []string{"--input", "world"}, want: "world\n"},
		{name: "upper", args: []string{"-t", "upper"}, want: "HELLO\n"},
		{name: "reverse", args: []string{"-t", "reverse", "-i", "abc"}, want: "cba\n"},
		{name: "prompt", stdin: "from stdin\n", args: []string{"--prompt"}, want: "from stdin\n"},
		{name: "prompt empty line", stdin: "\n", args: []string{"--prompt"}, want: "hello\n"},
		{name: "prompt eof", args: []string{"--prompt", "-t", "title"}, want: "Hello\n"},
		{name: "retry", args: []string{"--retry", "3"}, want: "hello\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestRunEnvFile(t *testing.T) {
	t.Setenv("QUICKSTART_INPUT", "")
	require.NoError(t, os.Unsetenv("QUICKSTART_INPUT"))
	t.Setenv("QUICKSTART_TRANSFORM", "")
	require.NoError(t, os.Unsetenv("QUICKSTART_TRANSFORM"))
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("QUICKSTART_INPUT=from env\nQUICKSTART_TRANSFORM=upper\n"), 0o600))

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--env-file", path})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "FROM ENV\n", stdout.String())
}

func TestRunJSON(t *testing.T) {
	stdout, _, err := execute(t, `{"text":"json in"}`+"\n", "--json", "--prompt", "-t", "upper")
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"JSON IN"}`, stdout)

	stdout, _, err = execute(t, "", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hello"}`, stdout)

	_, _, err = execute(t, "", "--json", "-i", `{"value":1}`)
	assert.Error(t, err)
}

func TestRunJSONIgnoresStdinWithoutPrompt(t *testing.T) {
	stdout, _, err := execute(t, `{"text":"piped"}`+"\n", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hello"}`, stdout)
}

func TestRunEndpoints(t *testing.T) {
	stdout, _, err := execute(t, "", "-t", "endpoints", "-i", "Docs: https://api.example.com then GET /v1/users")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total Unique Endpoints Found: 1")
	assert.Contains(t, stdout, "  GET    /v1/users\n           Full URL: https://api.example.com/v1/users")
}

func TestRunModelInstruction(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"BONJOUR"}]}}]}`)
	}))
	defer srv.Close()
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "")
	t.Setenv("GOOGLE_GEMINI_BASE_URL", srv.URL)

	stdout, _, err := execute(t, "", "-t", "model", "--instruction", "Answer in French.")
	require.NoError(t, err)
	assert.Equal(t, "BONJOUR\n", stdout)
	require.Len(t, bodies, 1)
	assert.Contains(t, bodies[0], "systemInstruction")
	assert.Contains(t, bodies[0], "Answer in French.")
	assert.Contains(t, bodies[0], "hello")
}

func TestRunUnknownTransform(t *testing.T) {
	stdout, _, err := execute(t, "", "-t", "shout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transform")
	assert.Empty(t, stdout)
}

func TestRunModelWithoutKey(t *testing.T) {
	for _, key := range []string{"GOOGLE_API_KEY", "GEMINI_API_KEY", "GOOGLE_GENAI_USE_VERTEXAI"} {
		t.Setenv(key, "")
	}
	_, _, err := execute(t, "", "-t", "model")
	assert.Error(t, err)
}

func TestRunTrace(t *testing.T) {
	stdout, stderr, err := execute(t, "", "--trace")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", stdout)
	assert.Contains(t, stderr, "graph.node transform")
}

func TestRunDebugLogging(t *testing.T) {
	_, stderr, err := execute(t, "", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "graph node completed")
	assert.Contains(t, stderr, "node=transform")
}

func TestInspect(t *testing.T) {
	stdout, _, err := execute(t, "", "inspect")
	require.NoError(t, err)
	assert.Contains(t, stdout, "graph TD")
	assert.Contains(t, stdout, "__start__ --> transform")
	assert.Contains(t, stdout, "transform --> __end__")

	stdout, _, err = execute(t, "", "inspect", "--format", "json")
	require.NoError(t, err)
	var topology map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &topology))
	assert.Equal(t, "transform", topology["entryPoint"])
	assert.Equal(t, "transform", topology["finishPoint"])

	stdout, _, err = execute(t, "", "inspect", "-f", "yaml")
	require.NoError(t, err)
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &fromYAML))
	assert.Equal(t, []any{"transform"}, fromYAML["nodes"])

	_, _, err = execute(t, "", "inspect", "-f", "dot")
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	stdout, _, err := execute(t, "", "schema")
	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema["properties"], "text")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "quickstart version "))
}
