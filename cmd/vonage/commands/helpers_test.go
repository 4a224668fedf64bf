package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fivetwenty-io/vonage-client/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

const testAppID = "aaaaaaaa-bbbb-cccc-dddd-0123456789ab"

// setViper sets values for the duration of a test.
func setViper(t *testing.T, values map[string]interface{}) {
	t.Helper()

	viper.Reset()

	for key, value := range values {
		viper.Set(key, value)
	}

	t.Cleanup(viper.Reset)
}

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// execute runs cmd with args and returns what it printed.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

// recordedRequest is a request seen by the fake API.
type recordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	Body          []byte
}

type fakeAPI struct {
	*httptest.Server

	mutex    sync.Mutex
	requests []recordedRequest
}

// newFakeAPI serves response with status for every request.
func newFakeAPI(t *testing.T, status int, response interface{}) *fakeAPI {
	t.Helper()

	api := &fakeAPI{}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		_, _ = body.ReadFrom(r.Body)

		api.mutex.Lock()
		api.requests = append(api.requests, recordedRequest{
			Method:        r.Method,
			Path:          r.URL.EscapedPath(),
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			Body:          body.Bytes(),
		})
		api.mutex.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)

		if response != nil {
			_ = json.NewEncoder(w).Encode(response)
		}
	}))
	t.Cleanup(api.Close)

	return api
}

func (a *fakeAPI) LastRequest(t *testing.T) recordedRequest {
	t.Helper()

	a.mutex.Lock()
	defer a.mutex.Unlock()

	require.NotEmpty(t, a.requests)

	return a.requests[len(a.requests)-1]
}

// clientConfig returns viper values pointing the CLI at baseURL.
func clientConfig(t *testing.T, baseURL string) map[string]interface{} {
	t.Helper()

	return map[string]interface{}{
		"application_id": testAppID,
		"private_key":    testutil.PrivateKeyPEM(t),
		"base_url":       baseURL,
		"output":         "json",
	}
}
