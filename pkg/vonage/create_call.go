package vonage

import (
	"encoding/json"
	"strings"
)

// AdvancedMachineDetectionMode selects what advanced machine detection listens for.
type AdvancedMachineDetectionMode string

// Advanced machine detection modes.
const (
	AdvancedMachineDetectionDefault    AdvancedMachineDetectionMode = "default"
	AdvancedMachineDetectionDetect     AdvancedMachineDetectionMode = "detect"
	AdvancedMachineDetectionDetectBeep AdvancedMachineDetectionMode = "detect_beep"
)

// AdvancedMachineDetection configures voicemail and beep detection.
type AdvancedMachineDetection struct {
	Behavior    MachineDetection             `json:"behavior"              yaml:"behavior"`
	Mode        AdvancedMachineDetectionMode `json:"mode,omitempty"         yaml:"mode,omitempty"`
	BeepTimeout *int                         `json:"beep_timeout,omitempty" yaml:"beep_timeout,omitempty"`
}

// CallFrom is the caller ID of an outbound call.
type CallFrom struct {
	Number string `json:"number"`
}

// MarshalJSON adds the type discriminator.
func (f *CallFrom) MarshalJSON() ([]byte, error) {
	type from CallFrom

	return marshalTyped("phone", (*from)(f))
}

// CreateCall is the request body of POST /v1/calls. Build it with
// NewNCCOCallBuilder or NewAnswerURLCallBuilder.
type CreateCall struct {
	NCCO                     *NCCO                     `json:"ncco,omitempty"`
	AnswerURL                []string                  `json:"answer_url,omitempty"`
	AnswerMethod             EventMethod               `json:"answer_method,omitempty"`
	To                       []Endpoint                `json:"to"`
	From                     *CallFrom                 `json:"from,omitempty"`
	RandomFromNumber         *bool                     `json:"random_from_number,omitempty"`
	EventURL                 []string                  `json:"event_url,omitempty"`
	EventMethod              EventMethod               `json:"event_method,omitempty"`
	MachineDetection         MachineDetection          `json:"machine_detection,omitempty"`
	AdvancedMachineDetection *AdvancedMachineDetection `json:"advanced_machine_detection,omitempty"`
	LengthTimer              *int                      `json:"length_timer,omitempty"`
	RingingTimer             *int                      `json:"ringing_timer,omitempty"`
}

// CallStatus is the state of a call leg.
type CallStatus string

// Call statuses.
const (
	CallStatusStarted      CallStatus = "started"
	CallStatusRinging      CallStatus = "ringing"
	CallStatusAnswered     CallStatus = "answered"
	CallStatusMachine      CallStatus = "machine"
	CallStatusHuman        CallStatus = "human"
	CallStatusCompleted    CallStatus = "completed"
	CallStatusBusy         CallStatus = "busy"
	CallStatusCancelled    CallStatus = "cancelled"
	CallStatusFailed       CallStatus = "failed"
	CallStatusRejected     CallStatus = "rejected"
	CallStatusTimeout      CallStatus = "timeout"
	CallStatusUnanswered   CallStatus = "unanswered"
	CallStatusDisconnected CallStatus = "disconnected"
	CallStatusRedirected   CallStatus = "redirected"
)

// CreateCallResponse is returned by POST /v1/calls.
type CreateCallResponse struct {
	UUID             string     `json:"uuid"              yaml:"uuid"`
	ConversationUUID string     `json:"conversation_uuid" yaml:"conversation_uuid"`
	Status           CallStatus `json:"status"            yaml:"status"`
	Direction        Direction  `json:"direction"         yaml:"direction"`
}

type callMode int

const (
	callModeNCCO callMode = iota
	callModeAnswerURL
)

// CallBuilder assembles a CreateCall. Setters never fail; Build reports
// every problem at once as a *ValidationError.
type CallBuilder struct {
	mode callMode
	call CreateCall
}

// NewNCCOCallBuilder starts a call whose flow is given inline as an NCCO.
func NewNCCOCallBuilder() *CallBuilder {
	return &CallBuilder{mode: callModeNCCO}
}

// NewAnswerURLCallBuilder starts a call whose flow is fetched from an answer URL.
func NewAnswerURLCallBuilder() *CallBuilder {
	return &CallBuilder{mode: callModeAnswerURL}
}

// NCCO sets the call flow.
func (b *CallBuilder) NCCO(ncco *NCCO) *CallBuilder {
	b.call.NCCO = ncco

	return b
}

// AnswerURL sets the URL Vonage fetches the NCCO from.
func (b *CallBuilder) AnswerURL(answerURL string) *CallBuilder {
	b.call.AnswerURL = []string{answerURL}

	return b
}

// AnswerMethod sets the method used to fetch the answer URL.
func (b *CallBuilder) AnswerMethod(method EventMethod) *CallBuilder {
	b.call.AnswerMethod = method

	return b
}

// To sets the destination. Exactly one destination is allowed.
func (b *CallBuilder) To(endpoint Endpoint) *CallBuilder {
	b.call.To = append(b.call.To, endpoint)

	return b
}

// From sets the caller ID number.
func (b *CallBuilder) From(number string) *CallBuilder {
	b.call.From = &CallFrom{Number: number}

	return b
}

// RandomFromNumber picks a random caller ID from the application's numbers.
func (b *CallBuilder) RandomFromNumber(random bool) *CallBuilder {
	b.call.RandomFromNumber = &random

	return b
}

// EventURL sets the webhook for call events.
func (b *CallBuilder) EventURL(eventURL string) *CallBuilder {
	b.call.EventURL = []string{eventURL}

	return b
}

// EventMethod sets the method used for call events.
func (b *CallBuilder) EventMethod(method EventMethod) *CallBuilder {
	b.call.EventMethod = method

	return b
}

// MachineDetection sets the behavior when a machine answers.
func (b *CallBuilder) MachineDetection(detection MachineDetection) *CallBuilder {
	b.call.MachineDetection = detection

	return b
}

// AdvancedMachineDetection enables voicemail and beep detection.
func (b *CallBuilder) AdvancedMachineDetection(detection AdvancedMachineDetection) *CallBuilder {
	b.call.AdvancedMachineDetection = &detection

	return b
}

// LengthTimer caps the call length in seconds.
func (b *CallBuilder) LengthTimer(seconds int) *CallBuilder {
	b.call.LengthTimer = &seconds

	return b
}

// RingingTimer caps the ringing time in seconds.
func (b *CallBuilder) RingingTimer(seconds int) *CallBuilder {
	b.call.RingingTimer = &seconds

	return b
}

// Build validates the call and returns it.
func (b *CallBuilder) Build() (*CreateCall, error) {
	var problems validationErrors

	switch b.mode {
	case callModeNCCO:
		if b.call.NCCO == nil {
			problems.add(ErrCallNCCORequired)
		}

		if len(b.call.AnswerURL) > 0 {
			problems.add(ErrCallInstructionConflict)
		}
	case callModeAnswerURL:
		if len(b.call.AnswerURL) == 0 || strings.TrimSpace(b.call.AnswerURL[0]) == "" {
			problems.add(ErrCallAnswerURLRequired)
		}

		if b.call.NCCO != nil {
			problems.add(ErrCallInstructionConflict)
		}
	}

	switch {
	case len(b.call.To) == 0:
		problems.add(ErrCallToRequired)
	case len(b.call.To) > 1:
		problems.add(ErrCallMultipleDestination)
	}

	switch {
	case b.call.From != nil && b.call.RandomFromNumber != nil:
		problems.add(ErrCallFromConflict)
	case b.call.From == nil && (b.call.RandomFromNumber == nil || !*b.call.RandomFromNumber):
		problems.add(ErrCallFromRequired)
	}

	if b.call.MachineDetection != "" && b.call.AdvancedMachineDetection != nil {
		problems.add(ErrCallMachineDetection)
	}

	if err := problems.err(); err != nil {
		return nil, err
	}

	call := b.call
	call.To = append([]Endpoint(nil), b.call.To...)

	return &call, nil
}

// UnmarshalJSON decodes a CreateCall, including its typed destinations.
func (c *CreateCall) UnmarshalJSON(data []byte) error {
	type createCall CreateCall

	var aux struct {
		To []json.RawMessage `json:"to"`
		*createCall
	}

	aux.createCall = (*createCall)(c)

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	c.To = make([]Endpoint, 0, len(aux.To))

	for _, raw := range aux.To {
		endpoint, err := decodeEndpoint(raw)
		if err != nil {
			return err
		}

		c.To = append(c.To, endpoint)
	}

	return nil
}
