package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New(&bytes.Buffer{}, "debug", "json").GetLevel())
	assert.Equal(t, logrus.WarnLevel, New(&bytes.Buffer{}, "warn", "json").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New(&bytes.Buffer{}, "verbose", "json").GetLevel())
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")
	logger.WithField("store", "Castralvo").Info("Computed shifts")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Computed shifts", entry["msg"])
	assert.Equal(t, "Castralvo", entry["store"])
}

func TestNew_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "text").Debug("hidden")
	assert.Empty(t, buf.String())
}
