package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/vonage-client/internal/constants"
	"github.com/fivetwenty-io/vonage-client/internal/http"
	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
)

// UsersClient implements vonage.UsersClient.
type UsersClient struct {
	httpClient *http.Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *http.Client) *UsersClient {
	return &UsersClient{
		httpClient: httpClient,
	}
}

// List implements vonage.UsersClient.List.
func (c *UsersClient) List(ctx context.Context, opts *vonage.UserListOptions) (*vonage.UserListPage, error) {
	resp, err := c.httpClient.Get(ctx, constants.PathUsers, opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	page, err := http.DecodeJSON[vonage.UserListPage](resp)
	if err != nil {
		return nil, fmt.Errorf("parsing users list: %w", err)
	}

	return &page, nil
}

// Create implements vonage.UsersClient.Create.
func (c *UsersClient) Create(ctx context.Context, user *vonage.User) (*vonage.User, error) {
	err := user.Validate()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(ctx, constants.PathUsers, user.RequestBody())
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return decodeUser(resp)
}

// Get implements vonage.UsersClient.Get.
func (c *UsersClient) Get(ctx context.Context, id string) (*vonage.User, error) {
	path, err := userPath(id)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	return decodeUser(resp)
}

// Update implements vonage.UsersClient.Update.
func (c *UsersClient) Update(ctx context.Context, id string, user *vonage.User) (*vonage.User, error) {
	path, err := userPath(id)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &vonage.User{}
	}

	resp, err := c.httpClient.Patch(ctx, path, user.RequestBody())
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	return decodeUser(resp)
}

// Delete implements vonage.UsersClient.Delete.
func (c *UsersClient) Delete(ctx context.Context, id string) error {
	path, err := userPath(id)
	if err != nil {
		return err
	}

	_, err = c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	return nil
}

func userPath(id string) (string, error) {
	if id == "" {
		return "", vonage.ErrUserIDRequired
	}

	return constants.PathUsers + "/" + url.PathEscape(id), nil
}

func decodeUser(resp *http.Response) (*vonage.User, error) {
	user, err := http.DecodeJSON[vonage.User](resp)
	if err != nil {
		return nil, fmt.Errorf("parsing user: %w", err)
	}

	return &user, nil
}
