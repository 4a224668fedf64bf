package vonage

import "strings"

// User is a Conversation API user, the identity Client SDKs log in as.
// ID and Links are assigned by Vonage; RequestBody strips them.
type User struct {
	ID          string          `json:"id,omitempty"           yaml:"id,omitempty"`
	Name        string          `json:"name,omitempty"          yaml:"name"`
	DisplayName string          `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"    yaml:"image_url,omitempty"`
	Properties  *UserProperties `json:"properties,omitempty"   yaml:"properties,omitempty"`
	Links       *Links          `json:"_links,omitempty"       yaml:"links,omitempty"`
}

// UserProperties are optional user settings.
type UserProperties struct {
	TTL           *int                   `json:"ttl,omitempty"             yaml:"ttl,omitempty"`
	CustomSortKey string                 `json:"custom_sort_key,omitempty" yaml:"custom_sort_key,omitempty"`
	CustomData    map[string]interface{} `json:"custom_data,omitempty"     yaml:"custom_data,omitempty"`
}

// NewUser returns a user with the given unique name.
func NewUser(name string) *User {
	return &User{Name: name}
}

// Validate checks the fields required to create a user.
func (u *User) Validate() error {
	if u == nil || strings.TrimSpace(u.Name) == "" {
		return ErrUserNameRequired
	}

	return nil
}

// RequestBody returns a copy of u without the server assigned fields.
func (u *User) RequestBody() *User {
	body := *u
	body.ID = ""
	body.Links = nil

	return &body
}

// UserListPage is one page of GET /v1/users.
type UserListPage struct {
	PageMeta `yaml:",inline"`

	Embedded struct {
		Users []User `json:"users" yaml:"users"`
	} `json:"_embedded" yaml:"embedded"`
}

// Users returns the users on this page.
func (p *UserListPage) Users() []User {
	return p.Embedded.Users
}
