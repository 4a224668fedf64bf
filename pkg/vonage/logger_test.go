package vonage_test

import (
	"errors"
	"testing"

	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogrLogger(t *testing.T) {
	t.Parallel()

	var lines []string

	sink := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	logger := vonage.NewLogrLogger(sink)

	logger.Debug("HTTP Request", map[string]interface{}{"method": "GET"})
	logger.Info("started", nil)
	logger.Warn("slow", map[string]interface{}{"ms": 1200})
	logger.Error("Token refresh failed", map[string]interface{}{"error": errors.New("boom")})

	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"msg"="HTTP Request"`)
	assert.Contains(t, lines[0], `"method"="GET"`)
	assert.Contains(t, lines[0], `"level"=1`)
	assert.Contains(t, lines[1], `"msg"="started"`)
	assert.Contains(t, lines[2], `"severity"="warning"`)
	assert.Contains(t, lines[3], `"msg"="Token refresh failed"`)
	assert.Contains(t, lines[3], `"error"="boom"`)
}

func TestLogrLogger_DebugSuppressed(t *testing.T) {
	t.Parallel()

	var lines []string

	sink := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{})

	vonage.NewLogrLogger(sink).Debug("hidden", nil)

	assert.Empty(t, lines)
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	var logger vonage.Logger = vonage.NopLogger{}

	assert.NotPanics(t, func() {
		logger.Debug("x", nil)
		logger.Info("x", nil)
		logger.Warn("x", nil)
		logger.Error("x", nil)
	})
}
