package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to set env vars and clean up after
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old := os.Getenv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if old == "" {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, old)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "DATA_PATH", "")
	setEnv(t, "MODEL_PATH", "")
	setEnv(t, "PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultEnv, cfg.Env)
	assert.Equal(t, DefaultDataPath, cfg.DataPath)
	assert.Equal(t, DefaultModelPath, cfg.ModelPath)
	assert.Equal(t, DefaultRateLimit, cfg.RateLimitRPM)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, "PORT", "9090")
	setEnv(t, "DATA_PATH", "/data/crimes.csv")
	setEnv(t, "MODEL_PATH", "/data/model.json")
	setEnv(t, "ALLOWED_ORIGINS", "https://a.example, https://b.example")
	setEnv(t, "RATE_LIMIT_RPM", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/data/crimes.csv", cfg.DataPath)
	assert.Equal(t, "/data/model.json", cfg.ModelPath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 30, cfg.RateLimitRPM)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name: "valid config",
			config: Config{
				DataPath:     "crimes.csv",
				ModelPath:    "model.json",
				RateLimitRPM: 60,
			},
			wantErr: "",
		},
		{
			name: "missing data path",
			config: Config{
				ModelPath:    "model.json",
				RateLimitRPM: 60,
			},
			wantErr: "DATA_PATH is required",
		},
		{
			name: "missing model path",
			config: Config{
				DataPath:     "crimes.csv",
				RateLimitRPM: 60,
			},
			wantErr: "MODEL_PATH is required",
		},
		{
			name: "non-positive rate limit",
			config: Config{
				DataPath:     "crimes.csv",
				ModelPath:    "model.json",
				RateLimitRPM: 0,
			},
			wantErr: "RATE_LIMIT_RPM must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_EnvHelpers(t *testing.T) {
	cfg := &Config{Env: "development"}
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Env = "production"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}
