package vonageclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fivetwenty-io/vonage-client/internal/client"
	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
)

// New creates a new Vonage API client from config.
func New(ctx context.Context, config *vonage.Config) (vonage.Client, error) {
	c, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// Get sends a GET request and decodes the response into R.
func Get[R any](ctx context.Context, c vonage.Client, path string) (*R, error) {
	return send[R](ctx, c, http.MethodGet, path, nil)
}

// Post sends body as JSON and decodes the response into R.
func Post[R any](ctx context.Context, c vonage.Client, path string, body interface{}) (*R, error) {
	return send[R](ctx, c, http.MethodPost, path, body)
}

// Put sends body as JSON and decodes the response into R.
func Put[R any](ctx context.Context, c vonage.Client, path string, body interface{}) (*R, error) {
	return send[R](ctx, c, http.MethodPut, path, body)
}

// Patch sends body as JSON and decodes the response into R.
func Patch[R any](ctx context.Context, c vonage.Client, path string, body interface{}) (*R, error) {
	return send[R](ctx, c, http.MethodPatch, path, body)
}

// Delete sends a DELETE request. The response body is discarded.
func Delete(ctx context.Context, c vonage.Client, path string) error {
	_, err := c.Send(ctx, http.MethodDelete, path, nil)

	return err
}

func send[R any](ctx context.Context, c vonage.Client, method, path string, body interface{}) (*R, error) {
	resp, err := c.Send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	var result R

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, &vonage.ResponseParseError{StatusCode: resp.StatusCode, Body: resp.Body, Err: err}
	}

	return &result, nil
}
