package client_test

import (
	"context"
	"net/http"
	"testing"

	. "github.com/fivetwenty-io/vonage-client/internal/client"
	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceClient_CreateOutboundCall(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusCreated, map[string]string{
		"uuid":              "63f61863-4a51-4f6b-86e1-46edebcf9356",
		"status":            "started",
		"direction":         "outbound",
		"conversation_uuid": "CON-f972836a-550f-45fa-956c-12a2ab5b7d22",
	})

	client, err := New(context.Background(), testConfig(t, api.URL))
	require.NoError(t, err)

	call, err := vonage.NewNCCOCallBuilder().
		NCCO(vonage.NewNCCO().Talk("This is a text to speech call from Vonage")).
		To(&vonage.PhoneEndpoint{Number: "447700900001"}).
		From("447700900000").
		Build()
	require.NoError(t, err)

	resp, err := client.Voice().CreateOutboundCall(context.Background(), call)
	require.NoError(t, err)

	assert.Equal(t, "63f61863-4a51-4f6b-86e1-46edebcf9356", resp.UUID)
	assert.Equal(t, vonage.CallStatusStarted, resp.Status)
	assert.Equal(t, vonage.DirectionOutbound, resp.Direction)

	request := api.LastRequest(t)
	assert.Equal(t, http.MethodPost, request.Method)
	assert.Equal(t, "/v1/calls", request.Path)
	assert.JSONEq(t, `{
		"ncco": [{"action": "talk", "text": "This is a text to speech call from Vonage"}],
		"to": [{"type": "phone", "number": "447700900001"}],
		"from": {"type": "phone", "number": "447700900000"}
	}`, string(request.Body))
}

func TestVoiceClient_CreateOutboundCallErrors(t *testing.T) {
	t.Parallel()

	t.Run("nil call", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), testConfig(t, ""))
		require.NoError(t, err)

		_, err = client.Voice().CreateOutboundCall(context.Background(), nil)
		require.ErrorIs(t, err, vonage.ErrCallRequired)
	})

	t.Run("rejected by the API", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, http.StatusBadRequest, map[string]interface{}{
			"type":   "https://developer.nexmo.com/api-errors#bad-request",
			"title":  "Bad Request",
			"detail": "Invalid destination",
		})

		client, err := New(context.Background(), testConfig(t, api.URL))
		require.NoError(t, err)

		call, err := vonage.NewAnswerURLCallBuilder().
			AnswerURL("https://example.com/answer").
			To(&vonage.PhoneEndpoint{Number: "0"}).
			RandomFromNumber(true).
			Build()
		require.NoError(t, err)

		_, err = client.Voice().CreateOutboundCall(context.Background(), call)
		require.Error(t, err)

		var requestErr *vonage.RequestError
		require.ErrorAs(t, err, &requestErr)
		assert.Equal(t, http.StatusBadRequest, requestErr.StatusCode)

		apiErr, decodeErr := requestErr.APIError()
		require.NoError(t, decodeErr)
		assert.Equal(t, "Invalid destination", apiErr.Detail)
	})

	t.Run("unexpected body", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, http.StatusCreated, []string{"not", "an", "object"})

		client, err := New(context.Background(), testConfig(t, api.URL))
		require.NoError(t, err)

		call, err := vonage.NewAnswerURLCallBuilder().
			AnswerURL("https://example.com/answer").
			To(&vonage.AppEndpoint{User: "alice"}).
			RandomFromNumber(true).
			Build()
		require.NoError(t, err)

		_, err = client.Voice().CreateOutboundCall(context.Background(), call)

		var parseErr *vonage.ResponseParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, http.StatusCreated, parseErr.StatusCode)
	})
}
