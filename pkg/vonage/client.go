package vonage

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Response is a successful (2xx) API response with its raw body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client is the Vonage API client. Create one with vonageclient.New or
// vonageclient.NewBuilder.
type Client interface {
	// ApplicationID returns the application the client authenticates as.
	ApplicationID() string
	// BaseURL returns the resolved API base URL.
	BaseURL() string

	// Send runs one authenticated request. Non-2xx responses are returned as
	// *RequestError.
	Send(ctx context.Context, method, path string, body interface{}) (*Response, error)

	// RefreshToken signs a new application token regardless of expiry.
	RefreshToken(ctx context.Context) error
	// GenerateUserToken signs a Client SDK login token for subject. A zero
	// ttl selects five minutes; a nil acl omits the claim.
	GenerateUserToken(subject string, ttl time.Duration, acl *ACL) (Token, time.Time, error)

	Voice() VoiceClient
	Users() UsersClient
}

// VoiceClient defines operations of the Voice API.
type VoiceClient interface {
	CreateOutboundCall(ctx context.Context, call *CreateCall) (*CreateCallResponse, error)
}

// UsersClient defines operations of the Conversation users API.
type UsersClient interface {
	List(ctx context.Context, opts *UserListOptions) (*UserListPage, error)
	Create(ctx context.Context, user *User) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, id string, user *User) (*User, error)
	Delete(ctx context.Context, id string) error
}

// UserListOptions are the query parameters of GET /v1/users.
type UserListOptions struct {
	PageSize int
	Order    string
	Cursor   string
	Name     string
}

// ToValues converts the options to query parameters.
func (o *UserListOptions) ToValues() url.Values {
	values := url.Values{}
	if o == nil {
		return values
	}

	if o.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(o.PageSize))
	}

	if o.Order != "" {
		values.Set("order", o.Order)
	}

	if o.Cursor != "" {
		values.Set("cursor", o.Cursor)
	}

	if o.Name != "" {
		values.Set("name", o.Name)
	}

	return values
}
