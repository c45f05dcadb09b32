package logger

import (
	"testing"

	"github.com/gookit/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFromEnv(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	t.Setenv("SITE_TEST_LOG_LEVEL", "DEBUG")
	InitFromEnv("SITE_TEST_LOG_LEVEL")

	lg, ok := Log.(*slog.Logger)
	require.True(t, ok)
	assert.NotNil(t, lg)
}

func TestFieldHelpersDoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		InfoWithFields("info", Fields{"k": 1})
		WarnWithFields("warn", nil)
		ErrorWithFields("error", Fields{"err": "boom"})
	})
}
