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

var testUser = map[string]interface{}{
	"id":           "USR-82e028d9-5201-4f1e-8188-604b2d3471ec",
	"name":         "my_user_name",
	"display_name": "My User Name",
	"image_url":    "https://example.com/image.png",
	"properties": map[string]interface{}{
		"custom_data": map[string]interface{}{"custom_key": "custom_value"},
	},
	"_links": map[string]interface{}{
		"self": map[string]string{"href": "https://api-us-3.vonage.com/v1/users/USR-82e028d9-5201-4f1e-8188-604b2d3471ec"},
	},
}

func TestUsersClient_List(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK, map[string]interface{}{
		"page_size": 10,
		"_embedded": map[string]interface{}{
			"users": []interface{}{testUser},
		},
		"_links": map[string]interface{}{
			"first": map[string]string{"href": "https://api.nexmo.com/v1/users?order=desc&page_size=10"},
			"self":  map[string]string{"href": "https://api.nexmo.com/v1/users?order=desc&page_size=10&cursor=abc"},
		},
	})

	client, err := New(context.Background(), testConfig(t, api.URL))
	require.NoError(t, err)

	page, err := client.Users().List(context.Background(), &vonage.UserListOptions{PageSize: 10, Order: "desc"})
	require.NoError(t, err)

	assert.Equal(t, 10, page.PageSize)
	require.Len(t, page.Users(), 1)
	assert.Equal(t, "my_user_name", page.Users()[0].Name)
	assert.False(t, page.Links.HasNext())

	request := api.LastRequest(t)
	assert.Equal(t, http.MethodGet, request.Method)
	assert.Equal(t, "/v1/users", request.Path)
	assert.Equal(t, "order=desc&page_size=10", request.RawQuery)
	assert.Empty(t, request.Body)
}

func TestUsersClient_ListWithoutOptions(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK, map[string]interface{}{"_embedded": map[string]interface{}{"users": []interface{}{}}})

	client, err := New(context.Background(), testConfig(t, api.URL))
	require.NoError(t, err)

	page, err := client.Users().List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, page.Users())
	assert.Empty(t, api.LastRequest(t).RawQuery)
}

func TestUsersClient_Create(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusCreated, testUser)

	client, err := New(context.Background(), testConfig(t, api.URL))
	require.NoError(t, err)

	user := vonage.NewUser("my_user_name")
	user.DisplayName = "My User Name"
	user.ID = "ignored"

	created, err := client.Users().Create(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, "USR-82e028d9-5201-4f1e-8188-604b2d3471ec", created.ID)
	assert.Equal(t, "custom_value", created.Properties.CustomData["custom_key"])
	require.NotNil(t, created.Links)
	assert.Contains(t, created.Links.Self.Href, created.ID)

	request := api.LastRequest(t)
	assert.Equal(t, http.MethodPost, request.Method)
	assert.Equal(t, "/v1/users", request.Path)
	assert.JSONEq(t, `{"name":"my_user_name","display_name":"My User Name"}`, string(request.Body))
}

func TestUsersClient_CreateValidates(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusCreated, testUser)

	client, err := New(context.Background(), testConfig(t, api.URL))
	require.NoError(t, err)

	_, err = client.Users().Create(context.Background(), vonage.NewUser(""))
	require.ErrorIs(t, err, vonage.ErrUserNameRequired)
	assert.Empty(t, api.Requests())
}

func TestUsersClient_GetUpdateDelete(t *testing.T) {
	t.Parallel()

	t.Run("get", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, http.StatusOK, testUser)

		client, err := New(context.Background(), testConfig(t, api.URL))
		require.NoError(t, err)

		user, err := client.Users().Get(context.Background(), "USR-1")
		require.NoError(t, err)
		assert.Equal(t, "My User Name", user.DisplayName)

		request := api.LastRequest(t)
		assert.Equal(t, http.MethodGet, request.Method)
		assert.Equal(t, "/v1/users/USR-1", request.Path)
	})

	t.Run("get escapes the id", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, http.StatusOK, testUser)

		client, err := New(context.Background(), testConfig(t, api.URL))
		require.NoError(t, err)

		_, err = client.Users().Get(context.Background(), "a/b")
		require.NoError(t, err)
		assert.Equal(t, "/v1/users/a%2Fb", api.LastRequest(t).Path)
	})

	t.Run("update", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, http.StatusOK, testUser)

		client, err := New(context.Background(), testConfig(t, api.URL))
		require.NoError(t, err)

		_, err = client.Users().Update(context.Background(), "USR-1", &vonage.User{DisplayName: "Renamed"})
		require.NoError(t, err)

		request := api.LastRequest(t)
		assert.Equal(t, http.MethodPatch, request.Method)
		assert.Equal(t, "/v1/users/USR-1", request.Path)
		assert.JSONEq(t, `{"display_name":"Renamed"}`, string(request.Body))
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, http.StatusNoContent, nil)

		client, err := New(context.Background(), testConfig(t, api.URL))
		require.NoError(t, err)

		require.NoError(t, client.Users().Delete(context.Background(), "USR-1"))

		request := api.LastRequest(t)
		assert.Equal(t, http.MethodDelete, request.Method)
		assert.Equal(t, "/v1/users/USR-1", request.Path)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, http.StatusNotFound, map[string]string{
			"title":  "Not found.",
			"detail": "User does not exist, or you do not have access.",
		})

		client, err := New(context.Background(), testConfig(t, api.URL))
		require.NoError(t, err)

		_, err = client.Users().Get(context.Background(), "USR-missing")
		require.Error(t, err)
		assert.True(t, vonage.IsNotFound(err))
		assert.Contains(t, err.Error(), "getting user")
	})

	t.Run("id required", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), testConfig(t, ""))
		require.NoError(t, err)

		_, err = client.Users().Get(context.Background(), "")
		require.ErrorIs(t, err, vonage.ErrUserIDRequired)
		require.ErrorIs(t, client.Users().Delete(context.Background(), ""), vonage.ErrUserIDRequired)
	})
}
