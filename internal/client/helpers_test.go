package client_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fivetwenty-io/vonage-client/internal/testutil"
	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
)

const testAppID = "aaaaaaaa-bbbb-cccc-dddd-0123456789ab"

// recordedRequest is what the fake API saw.
type recordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	Body          []byte
}

// fakeAPI answers every request with one canned response and records the
// requests it received.
type fakeAPI struct {
	*httptest.Server

	mutex    sync.Mutex
	requests []recordedRequest
}

func newFakeAPI(t *testing.T, status int, response interface{}) *fakeAPI {
	t.Helper()

	api := &fakeAPI{}
	api.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		body, _ := io.ReadAll(request.Body)

		api.mutex.Lock()
		api.requests = append(api.requests, recordedRequest{
			Method:        request.Method,
			Path:          request.URL.EscapedPath(),
			RawQuery:      request.URL.RawQuery,
			Authorization: request.Header.Get("Authorization"),
			Body:          body,
		})
		api.mutex.Unlock()

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)

		if response != nil {
			_ = json.NewEncoder(writer).Encode(response)
		}
	}))
	t.Cleanup(api.Close)

	return api
}

func (a *fakeAPI) Requests() []recordedRequest {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return append([]recordedRequest(nil), a.requests...)
}

func (a *fakeAPI) LastRequest(t *testing.T) recordedRequest {
	t.Helper()

	requests := a.Requests()
	if len(requests) == 0 {
		t.Fatal("no request received")
	}

	return requests[len(requests)-1]
}

func testConfig(t *testing.T, baseURL string) *vonage.Config {
	t.Helper()

	return &vonage.Config{
		ApplicationID: testAppID,
		PrivateKey:    vonage.NewSecret(testutil.PrivateKeyPEM(t)),
		BaseURL:       baseURL,
	}
}
