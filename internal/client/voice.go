package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/vonage-client/internal/constants"
	"github.com/fivetwenty-io/vonage-client/internal/http"
	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
)

// VoiceClient implements vonage.VoiceClient.
type VoiceClient struct {
	httpClient *http.Client
}

// NewVoiceClient creates a new voice client.
func NewVoiceClient(httpClient *http.Client) *VoiceClient {
	return &VoiceClient{
		httpClient: httpClient,
	}
}

// CreateOutboundCall implements vonage.VoiceClient.CreateOutboundCall.
func (c *VoiceClient) CreateOutboundCall(ctx context.Context, call *vonage.CreateCall) (*vonage.CreateCallResponse, error) {
	if call == nil {
		return nil, vonage.ErrCallRequired
	}

	resp, err := c.httpClient.Post(ctx, constants.PathCalls, call)
	if err != nil {
		return nil, fmt.Errorf("creating call: %w", err)
	}

	created, err := http.DecodeJSON[vonage.CreateCallResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("parsing call response: %w", err)
	}

	return &created, nil
}
