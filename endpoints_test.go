package quickstart

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractURL(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "crawl https://developers.figma.com/docs/rest-api/ please", want: "https://developers.figma.com/docs/rest-api/"},
		{text: "see <https://x.io/a> and http://y.io", want: "https://x.io/a"},
		{text: "no link here", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractURL(tt.text))
		})
	}
}

func TestExtractEndpoints(t *testing.T) {
	const base = "https://api.example.com"
	tests := []struct {
		name    string
		content string
		want    []Endpoint
	}{
		{
			name:    "method and path",
			content: "Use GET /v1/files/{key} to fetch a file.",
			want: []Endpoint{
				{Method: "GET", Path: "/v1/files/{key}", FullURL: base + "/v1/files/{key}", Source: SourceMethodPath},
			},
		},
		{
			name:    "lowercase method and trailing period",
			content: "Call post /api/comments.",
			want: []Endpoint{
				{Method: "POST", Path: "/api/comments", FullURL: base + "/api/comments", Source: SourceMethodPath},
			},
		},
		{
			name:    "full url takes method from preceding text",
			content: "To remove an item, DELETE https://api.example.com/v2/items/42",
			want: []Endpoint{
				{Method: "DELETE", Path: "/v2/items/42", FullURL: "https://api.example.com/v2/items/42", Source: SourceFullURL},
			},
		},
		{
			name:    "backticked path",
			content: "The `/users/me` endpoint returns the current user.",
			want: []Endpoint{
				{Method: "GET", Path: "/users/me", FullURL: base + "/users/me", Source: SourceCodeBlock},
			},
		},
		{
			name:    "curl with explicit method",
			content: "curl -X HEAD https://api.example.com/health",
			want: []Endpoint{
				{Method: "GET", Path: "/health", FullURL: "https://api.example.com/health", Source: SourceFullURL},
				{Method: "HEAD", Path: "/health", FullURL: base + "/health", Source: SourceCurl},
			},
		},
		{
			name:    "duplicates collapse",
			content: "GET /orders lists orders. Again: GET /orders",
			want: []Endpoint{
				{Method: "GET", Path: "/orders", FullURL: base + "/orders", Source: SourceMethodPath},
			},
		},
		{
			name:    "method inside a word",
			content: "the target /x is local",
		},
		{
			name:    "root path ignored",
			content: "GET / returns the index",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractEndpoints(tt.content, base))
		})
	}
}

func TestExtractEndpointsWithoutBase(t *testing.T) {
	got := ExtractEndpoints("PUT /v1/teams/7", "")
	require.Len(t, got, 1)
	assert.Equal(t, "/v1/teams/7", got[0].FullURL)
}

func TestFormatEndpoints(t *testing.T) {
	const base = "https://api.example.com"
	endpoints := []Endpoint{
		{Method: "GET", Path: "/v1/users", FullURL: base + "/v1/users"},
		{Method: "POST", Path: "/v1/users", FullURL: base + "/v1/users"},
		{Method: "GET", Path: "/v1/files/{key}", FullURL: base + "/v1/files/{key}"},
	}
	rule := strings.Repeat("=", 80)
	dash := strings.Repeat("-", 80)
	want := strings.Join([]string{
		rule,
		"API ENDPOINTS EXTRACTION RESULTS",
		rule,
		"",
		"Base URL: " + base,
		"",
		"Total Unique Endpoints Found: 3",
		"",
		"GET Endpoints (2):",
		dash,
		"  GET    /v1/files/{key}",
		"           Full URL: " + base + "/v1/files/{key}",
		"           Path params: key",
		"  GET    /v1/users",
		"           Full URL: " + base + "/v1/users",
		"",
		"POST Endpoints (1):",
		dash,
		"  POST   /v1/users",
		"           Full URL: " + base + "/v1/users",
	}, "\n")
	assert.Equal(t, want, FormatEndpoints(base, endpoints))
	assert.Equal(t, "/v1/users", endpoints[0].Path, "input order is preserved")
}

func TestFormatEndpointsEmpty(t *testing.T) {
	out := FormatEndpoints("", nil)
	assert.Contains(t, out, "Total Unique Endpoints Found: 0")
	assert.Contains(t, out, "No endpoints found.")
	assert.NotContains(t, out, "Base URL")
}

func TestPathParams(t *testing.T) {
	assert.Equal(t, []string{"team_id", "file_key"}, PathParams("/v1/teams/{team_id}/files/{file_key}"))
	assert.Equal(t, []string{"id"}, PathParams("/users/:id"))
	assert.Empty(t, PathParams("/users"))
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		line string
		want EndpointStub
	}{
		{
			line: "GET /v1/files/{file_key}/comments URL: https://api.figma.com/v1/files/{file_key}/comments",
			want: EndpointStub{
				Method:   "GET",
				Path:     "/v1/files/{file_key}/comments",
				FullURL:  "https://api.figma.com/v1/files/{file_key}/comments",
				FuncName: "get_v1_files_comments",
				Params:   []string{"file_key"},
			},
		},
		{
			line: "  POST /teams-new\n",
			want: EndpointStub{Method: "POST", Path: "/teams-new", FuncName: "post_teamsnew", Params: []string{}},
		},
		{
			line: "DELETE /",
			want: EndpointStub{Method: "DELETE", Path: "/", FuncName: "delete_endpoint", Params: []string{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseEndpoint(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEndpointInvalid(t *testing.T) {
	for _, line := range []string{"", "get /lower", "HEAD /health", "GET files"} {
		_, err := ParseEndpoint(line)
		assert.ErrorIs(t, err, ErrInvalidEndpoint, line)
	}
}

func TestEndpointTransformsThroughGraph(t *testing.T) {
	ctx := context.Background()
	endpoints, err := LookupTransform(TransformEndpoints)
	require.NoError(t, err)
	executor, err := Build(WithTransform(endpoints))
	require.NoError(t, err)

	out, err := Invoke(ctx, executor, "See https://api.example.com/docs/ then call POST /v1/users.")
	require.NoError(t, err)
	assert.Contains(t, out, "Base URL: https://api.example.com/docs/")
	assert.Contains(t, out, "Total Unique Endpoints Found: 2")
	assert.Contains(t, out, "  GET    /docs/\n           Full URL: https://api.example.com/docs/")
	assert.Contains(t, out, "  POST   /v1/users\n           Full URL: https://api.example.com/v1/users")

	parse, err := LookupTransform(TransformParseEndpoint)
	require.NoError(t, err)
	executor, err = Build(WithTransform(parse))
	require.NoError(t, err)

	out, err = Invoke(ctx, executor, "POST /teams")
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"POST","path":"/teams","func_name":"post_teams","params":[]}`, out)

	_, err = Invoke(ctx, executor, "hello")
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
}
