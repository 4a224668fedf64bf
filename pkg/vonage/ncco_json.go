package vonage

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON decodes an NCCO array, dispatching on each "action" field.
func (n *NCCO) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	actions := make([]Action, 0, len(items))

	for i, item := range items {
		action, err := decodeAction(item)
		if err != nil {
			return fmt.Errorf("ncco[%d]: %w", i, err)
		}

		actions = append(actions, action)
	}

	n.actions = actions

	return nil
}

// ParseNCCO decodes an NCCO document.
func ParseNCCO(data []byte) (*NCCO, error) {
	ncco := NewNCCO()
	if err := json.Unmarshal(data, ncco); err != nil {
		return nil, err
	}

	return ncco, nil
}

func decodeAction(data []byte) (Action, error) {
	var head struct {
		Action string `json:"action"`
	}

	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	var action Action

	switch head.Action {
	case "talk":
		action = &Talk{}
	case "connect":
		action = &Connect{}
	case "conversation":
		action = &Conversation{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNCCOAction, head.Action)
	}

	if err := json.Unmarshal(data, action); err != nil {
		return nil, err
	}

	return action, nil
}

// UnmarshalJSON decodes a connect action and its typed endpoints.
func (c *Connect) UnmarshalJSON(data []byte) error {
	var aux struct {
		Endpoint []json.RawMessage `json:"endpoint"`
		ConnectOptions
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	endpoints := make([]Endpoint, 0, len(aux.Endpoint))

	for _, raw := range aux.Endpoint {
		endpoint, err := decodeEndpoint(raw)
		if err != nil {
			return err
		}

		endpoints = append(endpoints, endpoint)
	}

	c.Endpoint = endpoints
	c.ConnectOptions = aux.ConnectOptions

	return nil
}

func decodeEndpoint(data []byte) (Endpoint, error) {
	var head struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	var endpoint Endpoint

	switch head.Type {
	case "phone":
		endpoint = &PhoneEndpoint{}
	case "app":
		endpoint = &AppEndpoint{}
	case "websocket":
		endpoint = &WebsocketEndpoint{}
	case "sip":
		endpoint = &SIPEndpoint{}
	case "vbc":
		endpoint = &VBCEndpoint{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEndpointType, head.Type)
	}

	if err := json.Unmarshal(data, endpoint); err != nil {
		return nil, err
	}

	return endpoint, nil
}
