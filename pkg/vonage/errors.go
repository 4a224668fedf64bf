package vonage

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired        = errors.New("config is required")
	ErrApplicationIDRequired = errors.New("application id is required")
	ErrPrivateKeyRequired    = errors.New("private key is required")
	ErrPrivateKeyUnreadable  = errors.New("private key file could not be read")
	ErrInvalidKey            = errors.New("invalid RSA private key")
	ErrInvalidBaseURL        = errors.New("invalid base URL")
	ErrInvalidRefreshWindow  = errors.New("refresh window must be non-negative and shorter than the token lifetime")
	ErrInvalidTokenTTL       = errors.New("token lifetime must be positive")
	ErrInvalidPath           = errors.New("invalid request path")
	ErrUnknownRegion         = errors.New("unknown region")
	ErrSubjectRequired       = errors.New("subject is required for user tokens")
	ErrInvalidACLMethod      = errors.New("invalid ACL method")
)

// Call builder errors.
var (
	ErrCallToRequired          = errors.New("exactly one call destination (to) is required")
	ErrCallFromRequired        = errors.New("either from or random_from_number is required")
	ErrCallFromConflict        = errors.New("from and random_from_number are mutually exclusive")
	ErrCallMachineDetection    = errors.New("machine_detection and advanced_machine_detection are mutually exclusive")
	ErrCallNCCORequired        = errors.New("ncco is required")
	ErrCallAnswerURLRequired   = errors.New("answer_url is required")
	ErrCallMultipleDestination = errors.New("only one call destination (to) can be set")
	ErrCallInstructionConflict = errors.New("ncco and answer_url are mutually exclusive")
	ErrCallRequired            = errors.New("call is required")
)

// Payload decoding errors.
var (
	ErrUnknownNCCOAction    = errors.New("unknown NCCO action")
	ErrUnknownEndpointType  = errors.New("unknown endpoint type")
	ErrUnknownWebhookFormat = errors.New("unrecognized webhook payload")
	ErrUserNameRequired     = errors.New("user name is required")
	ErrUserIDRequired       = errors.New("user id is required")
)

// SigningError is returned when a token cannot be signed, typically because
// the private key is not a valid RSA key.
type SigningError struct {
	Err error
}

// Error implements the error interface.
func (e *SigningError) Error() string {
	return fmt.Sprintf("signing token: %v", e.Err)
}

// Unwrap returns the underlying signature library error.
func (e *SigningError) Unwrap() error {
	return e.Err
}

// TokenRefreshError is returned when a proactive token refresh fails. The
// pending request is aborted and the refresh is retried on the next call.
type TokenRefreshError struct {
	Err error
}

// Error implements the error interface.
func (e *TokenRefreshError) Error() string {
	return fmt.Sprintf("refreshing token: %v", e.Err)
}

// Unwrap returns the cause of the failed refresh.
func (e *TokenRefreshError) Unwrap() error {
	return e.Err
}

// RequestSerializeError is returned when a request body cannot be encoded.
// No network call has been made when it is returned.
type RequestSerializeError struct {
	Err error
}

// Error implements the error interface.
func (e *RequestSerializeError) Error() string {
	return fmt.Sprintf("serializing request body: %v", e.Err)
}

// Unwrap returns the encoder error.
func (e *RequestSerializeError) Unwrap() error {
	return e.Err
}

// HTTPClientError is returned for transport level failures such as
// connection errors, TLS failures and timeouts.
type HTTPClientError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *HTTPClientError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the transport error.
func (e *HTTPClientError) Unwrap() error {
	return e.Err
}

// RequestError is returned for any response outside the 200-299 range. The
// raw body is kept so callers can inspect the API error document.
type RequestError struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	apiErr, err := e.APIError()
	if err == nil && apiErr.Title != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, apiErr.Error())
	}

	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}

	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, body)
}

// Decode unmarshals the response body into v.
func (e *RequestError) Decode(v any) error {
	if err := json.Unmarshal(e.Body, v); err != nil {
		return fmt.Errorf("decoding error body: %w", err)
	}

	return nil
}

// APIError decodes the body as a Vonage problem document.
func (e *RequestError) APIError() (*APIError, error) {
	var apiErr APIError
	if err := e.Decode(&apiErr); err != nil {
		return nil, err
	}

	return &apiErr, nil
}

// ResponseParseError is returned when a successful response body does not
// match the expected shape.
type ResponseParseError struct {
	StatusCode int
	Body       []byte
	Err        error
}

// Error implements the error interface.
func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("parsing response (status %d): %v", e.StatusCode, e.Err)
}

// Unwrap returns the decoder error.
func (e *ResponseParseError) Unwrap() error {
	return e.Err
}

// ValidationError collects every problem found while building a client or a
// request payload.
type ValidationError struct {
	Problems []error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "validation failed: " + e.Problems[0].Error()
	}

	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Error())
	}

	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.Problems
}

// validationErrors accumulates problems for builders.
type validationErrors []error

func (v *validationErrors) add(err error) {
	*v = append(*v, err)
}

func (v validationErrors) err() error {
	if len(v) == 0 {
		return nil
	}

	return &ValidationError{Problems: append([]error(nil), v...)}
}

// APIError is the problem document returned by the Vonage APIs.
type APIError struct {
	Type              string             `json:"type,omitempty"               yaml:"type,omitempty"`
	Title             string             `json:"title,omitempty"              yaml:"title,omitempty"`
	Detail            string             `json:"detail,omitempty"             yaml:"detail,omitempty"`
	Instance          string             `json:"instance,omitempty"           yaml:"instance,omitempty"`
	InvalidParameters []InvalidParameter `json:"invalid_parameters,omitempty" yaml:"invalid_parameters,omitempty"`
}

// InvalidParameter names a rejected request field.
type InvalidParameter struct {
	Name   string `json:"name"   yaml:"name"`
	Reason string `json:"reason" yaml:"reason"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail == "" {
		return e.Title
	}

	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

// StatusCode returns the HTTP status carried by a RequestError in err's
// chain, or 0 when there is none.
func StatusCode(err error) int {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}

	return 0
}

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized checks if the error is a 401 response, usually an expired
// or rejected token.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsForbidden checks if the error is a 403 response.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}
