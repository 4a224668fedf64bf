//go:build integration

package integration

import (
	"testing"

	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCLIWorkflow_UserLifecycle drives the vonage binary through a user's
// lifecycle.
func TestCLIWorkflow_UserLifecycle(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingCredentials(t)
	config.SkipIfMissingBinary(t)

	runner := NewCommandRunner(config, t)
	userName := GenerateTestName("workflow-user")

	// 1. Create user
	var created vonage.User
	require.NoError(t, runner.RunJSON(&created, "users", "create", userName, "--display-name", "Workflow User"))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, userName, created.Name)

	defer runner.CleanupUser(created.ID)

	// 2. Fetch it back as YAML
	stdout, stderr, err := runner.Run("users", "get", created.ID, "--output", "yaml")
	require.NoError(t, err, "Failed to get user: %s", stderr)
	AssertYAMLOutput(t, stdout)
	assert.Contains(t, stdout, created.ID)

	// 3. Find it by name
	var page vonage.UserListPage
	require.NoError(t, runner.RunJSON(&page, "users", "list", "--name", userName))
	require.Len(t, page.Users(), 1)
	assert.Equal(t, created.ID, page.Users()[0].ID)

	// 4. Delete it
	_, stderr, err = runner.Run("users", "delete", created.ID)
	require.NoError(t, err, "Failed to delete user: %s", stderr)

	// 5. It is gone
	_, _, err = runner.Run("users", "get", created.ID)
	require.Error(t, err)
}

// TestCLIWorkflow_Tokens generates and decodes tokens with the binary.
func TestCLIWorkflow_Tokens(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingCredentials(t)
	config.SkipIfMissingBinary(t)

	runner := NewCommandRunner(config, t)

	var token struct {
		Token   string `json:"token"`
		Subject string `json:"sub"`
	}

	require.NoError(t, runner.RunJSON(&token, "token", "user", "--sub", "workflow-user", "--default-acl"))
	require.NotEmpty(t, token.Token)
	assert.Equal(t, "workflow-user", token.Subject)

	stdout, stderr, err := runner.Run("token", "decode", token.Token, "--output", "json")
	require.NoError(t, err, "Failed to decode token: %s", stderr)
	AssertJSONOutput(t, stdout)
	assert.Contains(t, stdout, config.ApplicationID)
	assert.Contains(t, stdout, "/*/users/**")
}
