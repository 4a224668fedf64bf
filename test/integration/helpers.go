//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
	"github.com/fivetwenty-io/vonage-client/pkg/vonageclient"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	ApplicationID  string
	PrivateKeyPath string
	Region         string
	BinaryPath     string
	Verbose        bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		ApplicationID:  os.Getenv("VONAGE_APPLICATION_ID"),
		PrivateKeyPath: os.Getenv("VONAGE_PRIVATE_KEY_PATH"),
		Region:         os.Getenv("VONAGE_REGION"),
		BinaryPath:     getBinaryPath(),
		Verbose:        os.Getenv("VONAGE_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the vonage binary.
func getBinaryPath() string {
	if path := os.Getenv("VONAGE_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../vonage",
		"./vonage",
		"../vonage",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "vonage"
}

// SkipIfMissingCredentials skips the test without application credentials.
func (config *TestConfig) SkipIfMissingCredentials(t *testing.T) {
	t.Helper()

	if config.ApplicationID == "" || config.PrivateKeyPath == "" {
		t.Skip("VONAGE_APPLICATION_ID or VONAGE_PRIVATE_KEY_PATH not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips the test when the CLI binary cannot be found.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("vonage binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// NewClient builds a client from the test configuration.
func (config *TestConfig) NewClient(t *testing.T) vonage.Client {
	t.Helper()

	builder := vonageclient.NewBuilder().
		ApplicationID(config.ApplicationID).
		PrivateKeyFile(config.PrivateKeyPath)

	if config.Region != "" {
		builder.RegionName(config.Region)
	}

	client, err := builder.Build(context.Background())
	require.NoError(t, err)

	return client
}

// CommandRunner runs vonage CLI commands.
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes a vonage command and returns its output.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.BinaryPath, args...)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunJSON executes a vonage command with JSON output and decodes it into v.
func (runner *CommandRunner) RunJSON(v interface{}, args ...string) error {
	stdout, stderr, err := runner.Run(append(args, "--output", "json")...)
	if err != nil {
		return fmt.Errorf("%w: %s", err, stderr)
	}

	return json.Unmarshal([]byte(stdout), v)
}

// CleanupUser attempts to delete a test user.
func (runner *CommandRunner) CleanupUser(id string) {
	if id == "" {
		return
	}

	stdout, stderr, err := runner.Run("users", "delete", id)
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for user %s: %s\nStderr: %s", id, stdout, stderr)
	}
}

// GenerateTestName creates a unique test resource name.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// AssertJSONOutput verifies command output is valid JSON.
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	require.True(t, json.Valid([]byte(strings.TrimSpace(output))), "Output is not JSON: %s", output)
}

// AssertYAMLOutput verifies command output is valid YAML.
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	var doc interface{}
	require.NoError(t, yaml.Unmarshal([]byte(output), &doc), "Output is not YAML: %s", output)
	require.NotNil(t, doc)
}
