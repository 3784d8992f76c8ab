package quickstart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// Sources recorded on an Endpoint, naming the pattern that found it.
const (
	SourceMethodPath = "method_path"
	SourceFullURL    = "full_url"
	SourceCodeBlock  = "code_block"
	SourceCurl       = "curl_command"
	SourceAPIPath    = "api_path_pattern"
)

// Endpoint is an HTTP endpoint found in documentation text.
type Endpoint struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	FullURL string `json:"full_url"`
	Source  string `json:"source"`
}

// EndpointStub describes a single "METHOD /path URL: ..." line as the
// skeleton of a client function.
type EndpointStub struct {
	Method   string   `json:"method"`
	Path     string   `json:"path"`
	FullURL  string   `json:"full_url,omitempty"`
	FuncName string   `json:"func_name"`
	Params   []string `json:"params"`
}

// httpMethods is the report order.
var httpMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}

var (
	urlPattern        = regexp.MustCompile("https?://[^\\s<>\"{}|\\\\^`\\[\\]]+")
	methodPathPattern = regexp.MustCompile(`(?i)\b(GET|POST|PUT|DELETE|PATCH|HEAD|OPTIONS)\s+(/[^\s)<>"]+)`)
	fullURLPattern    = regexp.MustCompile(`(?i)https?://[^/\s]+(/[^\s)<>"]+)`)
	codePathPattern   = regexp.MustCompile("`(/[^`]+)`")
	curlPattern       = regexp.MustCompile(`(?i)curl\s+(?:-X\s+(\w+)\s+)?["']?https?://[^/\s]+(/[^\s"']+)`)
	apiPathPattern    = regexp.MustCompile(`(?i)(/v\d+/[^\s)<>"]+|/api/[^\s)<>"]+)`)

	stubPattern       = regexp.MustCompile(`^(GET|POST|PUT|DELETE|PATCH)\s+(/\S*)`)
	labeledURLPattern = regexp.MustCompile(`URL:\s*(\S+)`)
	curlyParamPattern = regexp.MustCompile(`\{([^}]+)\}`)
	colonParamPattern = regexp.MustCompile(`:([A-Za-z0-9_]+)`)
	nonWordPattern    = regexp.MustCompile(`[^\w/]`)
)

// ExtractURL returns the first http(s) URL in text, or "" when there is none.
func ExtractURL(text string) string {
	return urlPattern.FindString(text)
}

// ExtractEndpoints scans documentation text for HTTP endpoints: "METHOD /path"
// mentions, absolute URLs, backticked paths, curl commands and versioned or
// /api/ paths. Endpoints are unique by method and path and keep the order in
// which the patterns found them. Relative paths are resolved against baseURL.
func ExtractEndpoints(content, baseURL string) []Endpoint {
	set := endpointSet{seen: make(map[string]bool)}

	for _, m := range methodPathPattern.FindAllStringSubmatch(content, -1) {
		path := cleanPath(m[2])
		set.add(Endpoint{Method: strings.ToUpper(m[1]), Path: path, FullURL: joinURL(baseURL, path), Source: SourceMethodPath})
	}
	for _, idx := range fullURLPattern.FindAllStringSubmatchIndex(content, -1) {
		raw := content[idx[2]:idx[3]]
		path := cleanPath(raw)
		fullURL := content[idx[0] : idx[1]-(len(raw)-len(path))]
		method := methodFromWindow(content[max(0, idx[0]-50):idx[0]])
		set.add(Endpoint{Method: method, Path: path, FullURL: fullURL, Source: SourceFullURL})
	}
	for _, idx := range codePathPattern.FindAllStringSubmatchIndex(content, -1) {
		path := cleanPath(content[idx[2]:idx[3]])
		method := methodFromWindow(content[max(0, idx[0]-100):min(len(content), idx[1]+100)])
		set.add(Endpoint{Method: method, Path: path, FullURL: joinURL(baseURL, path), Source: SourceCodeBlock})
	}
	for _, m := range curlPattern.FindAllStringSubmatch(content, -1) {
		method := "GET"
		if m[1] != "" {
			method = strings.ToUpper(m[1])
		}
		path := cleanPath(m[2])
		set.add(Endpoint{Method: method, Path: path, FullURL: joinURL(baseURL, path), Source: SourceCurl})
	}
	for _, idx := range apiPathPattern.FindAllStringSubmatchIndex(content, -1) {
		path := cleanPath(content[idx[2]:idx[3]])
		method := methodFromWindow(content[max(0, idx[0]-100):idx[0]])
		set.add(Endpoint{Method: method, Path: path, FullURL: joinURL(baseURL, path), Source: SourceAPIPath})
	}
	return set.endpoints
}

// FormatEndpoints renders endpoints grouped by HTTP method, each group sorted by path.
func FormatEndpoints(baseURL string, endpoints []Endpoint) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 80)
	fmt.Fprintf(&sb, "%s\nAPI ENDPOINTS EXTRACTION RESULTS\n%s\n", rule, rule)
	if baseURL != "" {
		fmt.Fprintf(&sb, "\nBase URL: %s\n", baseURL)
	}
	fmt.Fprintf(&sb, "\nTotal Unique Endpoints Found: %d\n", len(endpoints))
	if len(endpoints) == 0 {
		sb.WriteString("\nNo endpoints found.\n")
	}

	byMethod := make(map[string][]Endpoint)
	for _, e := range endpoints {
		byMethod[e.Method] = append(byMethod[e.Method], e)
	}
	for _, method := range httpMethods {
		group := byMethod[method]
		if len(group) == 0 {
			continue
		}
		slices.SortStableFunc(group, func(a, b Endpoint) int {
			return strings.Compare(a.Path, b.Path)
		})
		fmt.Fprintf(&sb, "\n%s Endpoints (%d):\n%s\n", method, len(group), strings.Repeat("-", 80))
		for _, e := range group {
			fmt.Fprintf(&sb, "  %-6s %s\n", e.Method, e.Path)
			fmt.Fprintf(&sb, "           Full URL: %s\n", e.FullURL)
			if params := PathParams(e.Path); len(params) > 0 {
				fmt.Fprintf(&sb, "           Path params: %s\n", strings.Join(params, ", "))
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// PathParams returns the {name} placeholders of path, or its :name segments
// when there are no braces.
func PathParams(path string) []string {
	params := submatches(curlyParamPattern, path)
	if len(params) == 0 {
		params = submatches(colonParamPattern, path)
	}
	return params
}

// ParseEndpoint parses a line such as "GET /v1/files/{key} URL: https://host/v1/files/{key}".
func ParseEndpoint(line string) (EndpointStub, error) {
	line = strings.TrimSpace(line)
	m := stubPattern.FindStringSubmatch(line)
	if m == nil {
		return EndpointStub{}, fmt.Errorf("%w: %q", ErrInvalidEndpoint, line)
	}
	stub := EndpointStub{
		Method:   m[1],
		Path:     m[2],
		FuncName: funcName(m[1], m[2]),
		Params:   submatches(curlyParamPattern, m[2]),
	}
	if u := labeledURLPattern.FindStringSubmatch(line); u != nil {
		stub.FullURL = u[1]
	}
	if stub.Params == nil {
		stub.Params = []string{}
	}
	return stub, nil
}

// extractEndpoints is the "endpoints" transform. The first URL in the text is
// the base for relative paths.
func extractEndpoints(_ context.Context, text string) (string, error) {
	base := ExtractURL(text)
	return FormatEndpoints(base, ExtractEndpoints(text, base)), nil
}

// parseEndpoint is the "parse-endpoint" transform; it returns the stub as JSON.
func parseEndpoint(_ context.Context, text string) (string, error) {
	stub, err := ParseEndpoint(text)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(stub)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type endpointSet struct {
	seen      map[string]bool
	endpoints []Endpoint
}

func (s *endpointSet) add(e Endpoint) {
	if len(e.Path) <= 1 || !strings.HasPrefix(e.Path, "/") {
		return
	}
	key := e.Method + ":" + e.Path
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.endpoints = append(s.endpoints, e)
}

// cleanPath drops sentence punctuation and unbalanced closing braces that the
// patterns pick up at the end of a path.
func cleanPath(path string) string {
	path = strings.TrimRight(strings.TrimSpace(path), ".,;:!?]'")
	for strings.HasSuffix(path, "}") && strings.Count(path, "{") < strings.Count(path, "}") {
		path = strings.TrimRight(path[:len(path)-1], ".,;:!?]'")
	}
	return path
}

// methodFromWindow guesses the method of a URL or path from the surrounding text.
func methodFromWindow(window string) string {
	upper := strings.ToUpper(window)
	for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
		if strings.Contains(upper, method) {
			return method
		}
	}
	return "GET"
}

// joinURL resolves an absolute path against the scheme and host of base.
func joinURL(base, path string) string {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return path
	}
	return u.Scheme + "://" + u.Host + path
}

func funcName(method, path string) string {
	clean := nonWordPattern.ReplaceAllString(curlyParamPattern.ReplaceAllString(path, ""), "")
	var parts []string
	for _, part := range strings.Split(clean, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	name := "endpoint"
	if len(parts) > 0 {
		name = strings.Join(parts, "_")
	}
	return strings.ToLower(method) + "_" + name
}

func submatches(re *regexp.Regexp, s string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}
