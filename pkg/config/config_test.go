package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "horarios.db", cfg.DataPath)
	assert.Equal(t, 15*time.Minute, cfg.Buffer())
	assert.Equal(t, 5, cfg.SubstituteTopN)
	assert.False(t, cfg.SubstituteIsolateFailures)
	assert.True(t, cfg.IsDevelopment())

	window, err := cfg.SubstituteWindow()
	require.NoError(t, err)
	assert.Equal(t, "08:00 - 14:00", window.String())
}

func TestFromViper_Environment(t *testing.T) {
	t.Setenv("SUBSTITUTE_TOP_N", "3")
	t.Setenv("SUBSTITUTE_ISOLATE_FAILURES", "true")
	t.Setenv("BUFFER_MINUTES", "0")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.SubstituteTopN)
	assert.True(t, cfg.SubstituteIsolateFailures)
	assert.Zero(t, cfg.Buffer())
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"production with default secrets", map[string]string{"ENVIRONMENT": "production"}},
		{"zero top n", map[string]string{"SUBSTITUTE_TOP_N": "0"}},
		{"negative buffer", map[string]string{"BUFFER_MINUTES": "-5"}},
		{"bad clock", map[string]string{"SUBSTITUTE_DEFAULT_START": "8h"}},
		{"inverted window", map[string]string{"SUBSTITUTE_DEFAULT_START": "15:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromViper(viper.New())
			assert.Error(t, err)
		})
	}
}
