package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/vonage-client/internal/constants"
	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
)

// Request represents an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// IsSuccess reports whether status falls in the 200-299 range.
func IsSuccess(status int) bool {
	return status >= constants.HTTPStatusSuccessMin && status <= constants.HTTPStatusSuccessMax
}

// DecodeJSON parses a response body into R. Failures are returned as
// *vonage.ResponseParseError.
func DecodeJSON[R any](resp *Response) (R, error) {
	var result R

	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return result, &vonage.ResponseParseError{StatusCode: resp.StatusCode, Body: resp.Body, Err: err}
	}

	return result, nil
}

// parseBaseURL validates the base URL once at construction.
func parseBaseURL(raw string) (*url.URL, error) {
	base, err := url.Parse(strings.TrimSuffix(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vonage.ErrInvalidBaseURL, err)
	}

	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", vonage.ErrInvalidBaseURL, raw)
	}

	return base, nil
}

// resolveURL joins a relative API path onto base. Paths must be absolute
// paths without scheme or host; anything else is rejected rather than
// guessed at.
func resolveURL(base *url.URL, path string, query url.Values) (string, error) {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "", fmt.Errorf("%w: %q", vonage.ErrInvalidPath, path)
	}

	ref, err := url.Parse(path)
	if err != nil || ref.Scheme != "" || ref.Host != "" || ref.Fragment != "" {
		return "", fmt.Errorf("%w: %q", vonage.ErrInvalidPath, path)
	}

	resolved := *base
	resolved.Path = base.Path + ref.Path
	resolved.RawPath = base.EscapedPath() + ref.EscapedPath()

	values := ref.Query()
	for key, vals := range query {
		for _, v := range vals {
			values.Add(key, v)
		}
	}

	resolved.RawQuery = values.Encode()

	return resolved.String(), nil
}
