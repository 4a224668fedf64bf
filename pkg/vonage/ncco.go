package vonage

import (
	"encoding/json"
)

// EventMethod is the HTTP method used for webhook callbacks.
type EventMethod string

// Event methods.
const (
	EventMethodGet  EventMethod = "GET"
	EventMethodPost EventMethod = "POST"
)

// EventType controls when a connect action reports events.
type EventType string

// EventTypeSynchronous makes connect block the NCCO until the event webhook answers.
const EventTypeSynchronous EventType = "synchronous"

// MachineDetection is the behavior when a machine answers.
type MachineDetection string

// Machine detection behaviors.
const (
	MachineDetectionContinue MachineDetection = "continue"
	MachineDetectionHangup   MachineDetection = "hangup"
)

// AudioFormat is the content type of a websocket audio stream.
type AudioFormat string

// Websocket audio formats.
const (
	AudioFormatL16_16K AudioFormat = "audio/l16;rate=16000"
	AudioFormatL16_8K  AudioFormat = "audio/l16;rate=8000"
)

// Ptr returns a pointer to v, for optional payload fields.
func Ptr[T any](v T) *T {
	return &v
}

// Action is one step of an NCCO.
type Action interface {
	// ActionName returns the value of the "action" field.
	ActionName() string
}

// NCCO is the call control document returned from answer webhooks or sent
// with CreateCall. Actions run in order.
type NCCO struct {
	actions []Action
}

// NewNCCO returns an empty NCCO.
func NewNCCO() *NCCO {
	return &NCCO{}
}

// Add appends an action.
func (n *NCCO) Add(action Action) *NCCO {
	n.actions = append(n.actions, action)

	return n
}

// Actions returns the actions in execution order.
func (n *NCCO) Actions() []Action {
	return append([]Action(nil), n.actions...)
}

// Len returns the number of actions.
func (n *NCCO) Len() int {
	return len(n.actions)
}

// Talk adds a text-to-speech action.
func (n *NCCO) Talk(text string, opts ...func(*Talk)) *NCCO {
	talk := &Talk{Text: text}
	for _, opt := range opts {
		opt(talk)
	}

	return n.Add(talk)
}

// Connect adds a connect action to endpoint.
func (n *NCCO) Connect(endpoint Endpoint, opts ...func(*ConnectOptions)) *NCCO {
	connect := &Connect{Endpoint: []Endpoint{endpoint}}
	for _, opt := range opts {
		opt(&connect.ConnectOptions)
	}

	return n.Add(connect)
}

// ConnectPhone connects the call to a phone number.
func (n *NCCO) ConnectPhone(number string, opts ...func(*ConnectOptions)) *NCCO {
	return n.Connect(&PhoneEndpoint{Number: number}, opts...)
}

// ConnectApp connects the call to a Client SDK user.
func (n *NCCO) ConnectApp(user string, opts ...func(*ConnectOptions)) *NCCO {
	return n.Connect(&AppEndpoint{User: user}, opts...)
}

// ConnectWebsocket streams the call audio to a websocket.
func (n *NCCO) ConnectWebsocket(uri string, format AudioFormat, opts ...func(*ConnectOptions)) *NCCO {
	return n.Connect(&WebsocketEndpoint{URI: uri, ContentType: format}, opts...)
}

// ConnectSIP connects the call to a SIP URI.
func (n *NCCO) ConnectSIP(uri string, opts ...func(*ConnectOptions)) *NCCO {
	return n.Connect(&SIPEndpoint{URI: uri}, opts...)
}

// ConnectVBC connects the call to a Vonage Business Communications extension.
func (n *NCCO) ConnectVBC(extension string, opts ...func(*ConnectOptions)) *NCCO {
	return n.Connect(&VBCEndpoint{Extension: extension}, opts...)
}

// Conversation adds the call to a named conversation.
func (n *NCCO) Conversation(name string, opts ...func(*Conversation)) *NCCO {
	conversation := &Conversation{Name: name}
	for _, opt := range opts {
		opt(conversation)
	}

	return n.Add(conversation)
}

// MarshalJSON renders the NCCO as a JSON array of actions.
func (n *NCCO) MarshalJSON() ([]byte, error) {
	if n == nil || n.actions == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(n.actions)
}

// Talk speaks text into the call.
type Talk struct {
	Text              string      `json:"text"`
	BargeIn           *bool       `json:"bargeIn,omitempty"`
	Loop              *int        `json:"loop,omitempty"`
	Level             *float64    `json:"level,omitempty"`
	Language          string      `json:"language,omitempty"`
	Style             *int        `json:"style,omitempty"`
	Premium           *bool       `json:"premium,omitempty"`
	EventOnCompletion *bool       `json:"eventOnCompletion,omitempty"`
	EventURL          []string    `json:"eventUrl,omitempty"`
	EventMethod       EventMethod `json:"eventMethod,omitempty"`
}

// ActionName implements Action.
func (*Talk) ActionName() string { return "talk" }

// MarshalJSON adds the action discriminator.
func (t *Talk) MarshalJSON() ([]byte, error) {
	type talk Talk

	return json.Marshal(struct {
		Action string `json:"action"`
		*talk
	}{Action: t.ActionName(), talk: (*talk)(t)})
}

// Conversation places the call in a conference-like conversation.
type Conversation struct {
	Name           string         `json:"name"`
	MusicOnHoldURL []string       `json:"musicOnHoldUrl,omitempty"`
	StartOnEnter   *bool          `json:"startOnEnter,omitempty"`
	EndOnExit      *bool          `json:"endOnExit,omitempty"`
	Record         *bool          `json:"record,omitempty"`
	CanSpeak       []string       `json:"canSpeak,omitempty"`
	CanHear        []string       `json:"canHear,omitempty"`
	Mute           *bool          `json:"mute,omitempty"`
	Transcription  *Transcription `json:"transcription,omitempty"`
}

// ActionName implements Action.
func (*Conversation) ActionName() string { return "conversation" }

// MarshalJSON adds the action discriminator.
func (c *Conversation) MarshalJSON() ([]byte, error) {
	type conversation Conversation

	return json.Marshal(struct {
		Action string `json:"action"`
		*conversation
	}{Action: c.ActionName(), conversation: (*conversation)(c)})
}

// Transcription configures transcription of a recorded conversation.
type Transcription struct {
	Language          string      `json:"language,omitempty"`
	EventURL          []string    `json:"eventUrl,omitempty"`
	EventMethod       EventMethod `json:"eventMethod,omitempty"`
	SentimentAnalysis *bool       `json:"sentimentAnalysis,omitempty"`
}

// ConnectOptions are the options shared by every connect endpoint.
type ConnectOptions struct {
	From                     string           `json:"from,omitempty"`
	RandomFromNumber         *bool            `json:"randomFromNumber,omitempty"`
	EventType                EventType        `json:"eventType,omitempty"`
	Timeout                  *int             `json:"timeout,omitempty"`
	Limit                    *int             `json:"limit,omitempty"`
	MachineDetection         MachineDetection `json:"machineDetection,omitempty"`
	AdvancedMachineDetection *bool            `json:"advancedMachineDetection,omitempty"`
	EventURL                 []string         `json:"eventUrl,omitempty"`
	EventMethod              EventMethod      `json:"eventMethod,omitempty"`
	RingbackTone             string           `json:"ringbackTone,omitempty"`
}

// Connect joins the call to another endpoint.
type Connect struct {
	Endpoint []Endpoint `json:"endpoint"`
	ConnectOptions
}

// ActionName implements Action.
func (*Connect) ActionName() string { return "connect" }

// MarshalJSON adds the action discriminator.
func (c *Connect) MarshalJSON() ([]byte, error) {
	type connect Connect

	return json.Marshal(struct {
		Action string `json:"action"`
		*connect
	}{Action: c.ActionName(), connect: (*connect)(c)})
}

// Endpoint is a connect or call destination.
type Endpoint interface {
	// EndpointType returns the value of the "type" field.
	EndpointType() string
}

// PhoneEndpoint is a PSTN number in E.164 format.
type PhoneEndpoint struct {
	Number     string    `json:"number"`
	DTMFAnswer string    `json:"dtmfAnswer,omitempty"`
	OnAnswer   *OnAnswer `json:"onAnswer,omitempty"`
}

// OnAnswer runs an NCCO on the callee before connecting.
type OnAnswer struct {
	URL          string `json:"url"`
	RingbackTone string `json:"ringbackTone,omitempty"`
}

// EndpointType implements Endpoint.
func (*PhoneEndpoint) EndpointType() string { return "phone" }

// MarshalJSON adds the type discriminator.
func (e *PhoneEndpoint) MarshalJSON() ([]byte, error) {
	type endpoint PhoneEndpoint

	return marshalTyped(e.EndpointType(), (*endpoint)(e))
}

// AppEndpoint is a Client SDK user.
type AppEndpoint struct {
	User string `json:"user"`
}

// EndpointType implements Endpoint.
func (*AppEndpoint) EndpointType() string { return "app" }

// MarshalJSON adds the type discriminator.
func (e *AppEndpoint) MarshalJSON() ([]byte, error) {
	type endpoint AppEndpoint

	return marshalTyped(e.EndpointType(), (*endpoint)(e))
}

// WebsocketEndpoint streams audio to a websocket server.
type WebsocketEndpoint struct {
	URI         string            `json:"uri"`
	ContentType AudioFormat       `json:"content-type"`
	Headers     map[string]string `json:"headers,omitempty"`
}

// EndpointType implements Endpoint.
func (*WebsocketEndpoint) EndpointType() string { return "websocket" }

// MarshalJSON adds the type discriminator.
func (e *WebsocketEndpoint) MarshalJSON() ([]byte, error) {
	type endpoint WebsocketEndpoint

	return marshalTyped(e.EndpointType(), (*endpoint)(e))
}

// SIPEndpoint is a SIP URI.
type SIPEndpoint struct {
	URI             string              `json:"uri"`
	Headers         map[string]string   `json:"headers,omitempty"`
	StandardHeaders *SIPStandardHeaders `json:"standardHeaders,omitempty"`
}

// SIPStandardHeaders are the standard SIP headers Vonage forwards.
type SIPStandardHeaders struct {
	UserToUser string `json:"User-to-User"`
}

// EndpointType implements Endpoint.
func (*SIPEndpoint) EndpointType() string { return "sip" }

// MarshalJSON adds the type discriminator.
func (e *SIPEndpoint) MarshalJSON() ([]byte, error) {
	type endpoint SIPEndpoint

	return marshalTyped(e.EndpointType(), (*endpoint)(e))
}

// VBCEndpoint is a Vonage Business Communications extension.
type VBCEndpoint struct {
	Extension string `json:"extension"`
}

// EndpointType implements Endpoint.
func (*VBCEndpoint) EndpointType() string { return "vbc" }

// MarshalJSON adds the type discriminator.
func (e *VBCEndpoint) MarshalJSON() ([]byte, error) {
	type endpoint VBCEndpoint

	return marshalTyped(e.EndpointType(), (*endpoint)(e))
}

// marshalTyped renders v with a leading "type" field.
func marshalTyped(kind string, v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	typeField, err := json.Marshal(kind)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(body)+len(typeField)+9)
	out = append(out, `{"type":`...)
	out = append(out, typeField...)

	if len(body) > 2 {
		out = append(out, ',')
		out = append(out, body[1:]...)
	} else {
		out = append(out, '}')
	}

	return out, nil
}
