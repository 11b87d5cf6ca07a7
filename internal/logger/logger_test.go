package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestBuildConfigDefaults(t *testing.T) {
	zc, err := buildConfig(Config{})
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, zc.Level.Level())

	zc, err = buildConfig(Config{Development: true})
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, zc.Level.Level())
}

func TestBuildConfigLevelOverride(t *testing.T) {
	zc, err := buildConfig(Config{Level: "warn"})
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, zc.Level.Level())

	_, err = buildConfig(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNopAndNamedSafeWithoutNew(t *testing.T) {
	assert.NotNil(t, Nop())
	// Named before New must not panic and must log nowhere.
	Named("boot").Infow("discarded")
}
