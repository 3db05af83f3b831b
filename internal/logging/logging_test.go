package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupText(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	var buf bytes.Buffer
	_, err := Setup(&buf, "warn", "text")
	require.NoError(t, err)

	L().Info("hidden")
	L().Warn("shown", "frames", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown frames=3")
}

func TestSetupJSON(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	var buf bytes.Buffer
	_, err := Setup(&buf, "debug", "json")
	require.NoError(t, err)
	L().Debug("uploaded")
	assert.Contains(t, buf.String(), `"msg":"uploaded"`)
}

func TestSetupRejects(t *testing.T) {
	_, err := Setup(&bytes.Buffer{}, "loud", "text")
	assert.Error(t, err)
	_, err = Setup(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel(" Debug ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}
