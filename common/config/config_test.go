package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_DefaultValues(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.LogLevel)
	assert.Equal(t, "http://localhost:8000", cfg.API.URL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "hrmapi/1.0", cfg.API.UserAgent)
	assert.Equal(t, "file", cfg.Tokens.Store)
	assert.Equal(t, "", cfg.Tokens.Path)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*Config)
	}{
		{
			name: "log level override",
			envVars: map[string]string{
				"LOG_LEVEL": "-4",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, -4, cfg.LogLevel)
			},
		},
		{
			name: "api override",
			envVars: map[string]string{
				"HRM_API_URL":        "https://hrm.example.com",
				"HRM_API_TIMEOUT":    "3s",
				"HRM_API_USER_AGENT": "hrmctl/test",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "https://hrm.example.com", cfg.API.URL)
				assert.Equal(t, 3*time.Second, cfg.API.Timeout)
				assert.Equal(t, "hrmctl/test", cfg.API.UserAgent)
			},
		},
		{
			name: "token store override",
			envVars: map[string]string{
				"HRM_TOKEN_STORE": "sqlite",
				"HRM_TOKEN_PATH":  "/var/lib/hrm/tokens.db",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "sqlite", cfg.Tokens.Store)
				assert.Equal(t, "/var/lib/hrm/tokens.db", cfg.Tokens.Path)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := NewConfig()
			require.NoError(t, err)
			tt.expected(cfg)
		})
	}
}

func TestNewConfig_InvalidTimeout(t *testing.T) {
	t.Setenv("HRM_API_TIMEOUT", "soon")

	cfg, err := NewConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config")
}
