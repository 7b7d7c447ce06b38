package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	previous := l
	t.Cleanup(func() { replace(previous) })

	require.NoError(t, Init("debug", EncodingJSON))
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Init("warn", EncodingConsole))
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	assert.Error(t, Init("loud", EncodingConsole))
	assert.Error(t, Init("info", "xml"))
}
