package logging

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLogger(t *testing.T) {
	err := InitLogger()
	require.NoError(t, err)
	assert.NotNil(t, Logger)
	assert.NotNil(t, Logger.logger)
}

func TestInitLogger_WithLogLevel(t *testing.T) {
	// Set log level environment variable
	os.Setenv("LOG_LEVEL", "debug")
	defer os.Unsetenv("LOG_LEVEL")

	err := InitLogger()
	require.NoError(t, err)
	assert.NotNil(t, Logger)
}

func TestInitLogger_WithInvalidLogLevel(t *testing.T) {
	// Set invalid log level - should still succeed with default
	os.Setenv("LOG_LEVEL", "invalid")
	defer os.Unsetenv("LOG_LEVEL")

	err := InitLogger()
	require.NoError(t, err)
	assert.NotNil(t, Logger)
}

func TestSafeLogger_Info(t *testing.T) {
	logger := &SafeLogger{logger: zap.NewNop()}

	// Should not panic
	logger.Info("test message")
	logger.Info("test with fields", zap.String("key", "value"))
}

func TestSafeLogger_Warn(t *testing.T) {
	logger := &SafeLogger{logger: zap.NewNop()}

	// Should not panic
	logger.Warn("test warning")
	logger.Warn("test warning with fields", zap.Int("count", 42))
}

func TestSafeLogger_Debug(t *testing.T) {
	logger := &SafeLogger{logger: zap.NewNop()}

	// Should not panic
	logger.Debug("test debug")
	logger.Debug("test debug with fields", zap.Bool("flag", true))
}

func TestSafeLogger_Error(t *testing.T) {
	logger := &SafeLogger{logger: zap.NewNop()}

	// Should not panic
	logger.Error("test error")
	logger.Error("test error with fields", zap.String("error", "something went wrong"))
}

func TestSafeLogger_NilLogger(t *testing.T) {
	logger := &SafeLogger{logger: nil}

	// All methods should be safe to call with nil logger
	logger.Info("test")
	logger.Warn("test")
	logger.Debug("test")
	logger.Error("test")
}

func TestSafeLogger_With(t *testing.T) {
	logger := &SafeLogger{logger: zap.NewNop()}

	child := logger.With(zap.String("component", "test"))
	assert.NotNil(t, child)
	child.Info("test message")

	var nilLogger *SafeLogger
	assert.Nil(t, nilLogger.With(zap.String("key", "value")))
}

func TestSafeLogger_Unwrap(t *testing.T) {
	logger := &SafeLogger{logger: nil}
	assert.NotNil(t, logger.Unwrap())

	var nilLogger *SafeLogger
	assert.NotNil(t, nilLogger.Unwrap())
}
