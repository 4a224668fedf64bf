package vonage

import (
	"encoding/json"
	"fmt"
)

// Direction is the direction of a call leg.
type Direction string

// Call directions.
const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// AnswerKind distinguishes the two answer webhook shapes.
type AnswerKind string

// Answer webhook kinds.
const (
	// AnswerServerCall is a call placed from a Client SDK.
	AnswerServerCall AnswerKind = "server_call"
	// AnswerInboundCall is a call arriving from PSTN, SIP, websocket or VBC.
	AnswerInboundCall AnswerKind = "inbound_call"
)

// AnswerPayload is the body of the answer webhook.
type AnswerPayload struct {
	Kind             AnswerKind             `json:"-"                     yaml:"kind"`
	To               string                 `json:"to"                    yaml:"to"`
	From             string                 `json:"from,omitempty"        yaml:"from,omitempty"`
	FromUser         string                 `json:"from_user,omitempty"   yaml:"from_user,omitempty"`
	UUID             string                 `json:"uuid"                  yaml:"uuid"`
	ConversationUUID string                 `json:"conversation_uuid"     yaml:"conversation_uuid"`
	RegionURL        string                 `json:"region_url,omitempty"  yaml:"region_url,omitempty"`
	CustomData       map[string]interface{} `json:"custom_data,omitempty" yaml:"custom_data,omitempty"`

	// SIPHeaders holds every other top level string field of an inbound
	// call, e.g. "SipHeader_X-UserId".
	SIPHeaders map[string]string `json:"-" yaml:"sip_headers,omitempty"`
}

var answerFields = map[string]bool{
	"to": true, "from": true, "from_user": true, "uuid": true,
	"conversation_uuid": true, "region_url": true, "custom_data": true,
}

// ParseAnswerPayload decodes an answer webhook. A payload with from_user is a
// server call; one with from is an inbound call.
func ParseAnswerPayload(data []byte) (*AnswerPayload, error) {
	var payload AnswerPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding answer payload: %w", err)
	}

	switch {
	case payload.FromUser != "":
		payload.Kind = AnswerServerCall

		return &payload, nil
	case payload.From != "":
		payload.Kind = AnswerInboundCall
	default:
		return nil, fmt.Errorf("%w: answer payload has neither from nor from_user", ErrUnknownWebhookFormat)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decoding answer payload: %w", err)
	}

	for key, raw := range fields {
		if answerFields[key] {
			continue
		}

		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			continue
		}

		if payload.SIPHeaders == nil {
			payload.SIPHeaders = map[string]string{}
		}

		payload.SIPHeaders[key] = value
	}

	return &payload, nil
}

// CallEventKind identifies the shape of an event webhook.
type CallEventKind string

// Event webhook kinds.
const (
	CallEventStatus   CallEventKind = "status"
	CallEventInput    CallEventKind = "input"
	CallEventTransfer CallEventKind = "transfer"
	CallEventPlay     CallEventKind = "play"
)

// CallEvent is a decoded event webhook. Exactly one of the pointers is set,
// matching Kind.
type CallEvent struct {
	Kind     CallEventKind  `json:"kind"               yaml:"kind"`
	Status   *StatusEvent   `json:"status,omitempty"   yaml:"status,omitempty"`
	Input    *InputEvent    `json:"input,omitempty"    yaml:"input,omitempty"`
	Transfer *TransferEvent `json:"transfer,omitempty" yaml:"transfer,omitempty"`
	Play     *PlayEvent     `json:"play,omitempty"     yaml:"play,omitempty"`
}

// UUID returns the call leg the event belongs to.
func (e *CallEvent) UUID() string {
	switch e.Kind {
	case CallEventStatus:
		return e.Status.UUID
	case CallEventInput:
		return e.Input.UUID
	case CallEventTransfer:
		return e.Transfer.UUID
	case CallEventPlay:
		return e.Play.UUID
	default:
		return ""
	}
}

// StatusEvent reports a call status change. Fields beyond the common ones
// are only present for some statuses: Rate and Network on answered, Detail
// on unanswered, rejected and failed, SubState on human and machine,
// Duration on disconnected and completed, the rest on completed.
type StatusEvent struct {
	Status           CallStatus  `json:"status"                    yaml:"status"`
	From             string      `json:"from"                      yaml:"from"`
	To               string      `json:"to"                        yaml:"to"`
	UUID             string      `json:"uuid"                      yaml:"uuid"`
	ConversationUUID string      `json:"conversation_uuid"         yaml:"conversation_uuid"`
	Direction        Direction   `json:"direction"                 yaml:"direction"`
	Timestamp        string      `json:"timestamp"                 yaml:"timestamp"`
	Rate             json.Number `json:"rate,omitempty"            yaml:"rate,omitempty"`
	Price            json.Number `json:"price,omitempty"           yaml:"price,omitempty"`
	Duration         json.Number `json:"duration,omitempty"        yaml:"duration,omitempty"`
	Network          string      `json:"network,omitempty"         yaml:"network,omitempty"`
	StartTime        string      `json:"start_time,omitempty"      yaml:"start_time,omitempty"`
	EndTime          string      `json:"end_time,omitempty"        yaml:"end_time,omitempty"`
	Detail           string      `json:"detail,omitempty"          yaml:"detail,omitempty"`
	SubState         string      `json:"sub_state,omitempty"       yaml:"sub_state,omitempty"`
	DisconnectedBy   string      `json:"disconnected_by,omitempty" yaml:"disconnected_by,omitempty"`
}

// InputEvent carries DTMF or speech input collected by an input action.
type InputEvent struct {
	From             string       `json:"from"              yaml:"from"`
	To               string       `json:"to"                yaml:"to"`
	UUID             string       `json:"uuid"              yaml:"uuid"`
	ConversationUUID string       `json:"conversation_uuid" yaml:"conversation_uuid"`
	Timestamp        string       `json:"timestamp"         yaml:"timestamp"`
	DTMF             *DTMFInput   `json:"dtmf,omitempty"    yaml:"dtmf,omitempty"`
	Speech           *SpeechInput `json:"speech,omitempty"  yaml:"speech,omitempty"`
}

// DTMFInput is the keypad input of a call.
type DTMFInput struct {
	Digits   string `json:"digits"    yaml:"digits"`
	TimedOut bool   `json:"timed_out" yaml:"timed_out"`
}

// SpeechInput is the recognized speech of a call. Error is set instead of
// Results when recognition failed.
type SpeechInput struct {
	RecordingURL  string         `json:"recording_url,omitempty"  yaml:"recording_url,omitempty"`
	TimeoutReason string         `json:"timeout_reason,omitempty" yaml:"timeout_reason,omitempty"`
	Results       []SpeechResult `json:"results,omitempty"        yaml:"results,omitempty"`
	Error         string         `json:"error,omitempty"          yaml:"error,omitempty"`
}

// SpeechResult is one recognition hypothesis.
type SpeechResult struct {
	Text       string      `json:"text"       yaml:"text"`
	Confidence json.Number `json:"confidence" yaml:"confidence"`
}

// TransferEvent reports a leg moving between conversations.
type TransferEvent struct {
	ConversationUUIDFrom string `json:"conversation_uuid_from" yaml:"conversation_uuid_from"`
	ConversationUUIDTo   string `json:"conversation_uuid_to"   yaml:"conversation_uuid_to"`
	UUID                 string `json:"uuid"                   yaml:"uuid"`
	Timestamp            string `json:"timestamp"              yaml:"timestamp"`
}

// PlayStatus is the state of a talk or stream action.
type PlayStatus string

// Play statuses.
const (
	PlayStatusStopped     PlayStatus = "stopped"
	PlayStatusFinished    PlayStatus = "finished"
	PlayStatusInterrupted PlayStatus = "interrupted"
)

// PlayEvent reports the end of a talk or stream action.
type PlayEvent struct {
	Type             string     `json:"type"              yaml:"type"`
	Status           PlayStatus `json:"status"            yaml:"status"`
	UUID             string     `json:"uuid"              yaml:"uuid"`
	ConversationUUID string     `json:"conversation_uuid" yaml:"conversation_uuid"`
	Timestamp        string     `json:"timestamp"         yaml:"timestamp"`
}

// ParseCallEvent decodes an event webhook, classifying it by the fields
// present.
func ParseCallEvent(data []byte) (*CallEvent, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decoding call event: %w", err)
	}

	event := &CallEvent{}

	var target interface{}

	switch {
	case isPlayEvent(fields):
		event.Kind = CallEventPlay
		event.Play = &PlayEvent{}
		target = event.Play
	case has(fields, "conversation_uuid_from"):
		event.Kind = CallEventTransfer
		event.Transfer = &TransferEvent{}
		target = event.Transfer
	case has(fields, "dtmf") || has(fields, "speech"):
		event.Kind = CallEventInput
		event.Input = &InputEvent{}
		target = event.Input
	case has(fields, "status"):
		event.Kind = CallEventStatus
		event.Status = &StatusEvent{}
		target = event.Status
	default:
		return nil, fmt.Errorf("%w: call event", ErrUnknownWebhookFormat)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return nil, fmt.Errorf("decoding %s event: %w", event.Kind, err)
	}

	return event, nil
}

func has(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]

	return ok && string(raw) != "null"
}

func isPlayEvent(fields map[string]json.RawMessage) bool {
	var kind string
	if raw, ok := fields["type"]; ok && json.Unmarshal(raw, &kind) == nil {
		return kind == "talk" || kind == "stream"
	}

	return false
}
