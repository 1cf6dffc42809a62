package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		errorMsg    string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "Success with minimal required config",
			envVars: map[string]string{
				"API_KEY": "test-api-key",
			},
			expectError: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "prodtrack.db", cfg.Store.Path)
				assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
				assert.Empty(t, cfg.Gemini.APIKey)
				assert.Equal(t, 300*time.Millisecond, cfg.Capture.PollInterval)
				assert.False(t, cfg.Archive.S3Enabled)
			},
		},
		{
			name: "Success with all config specified",
			envVars: map[string]string{
				"SERVER_HOST":           "localhost",
				"SERVER_PORT":           "9090",
				"STORE_PATH":            "/var/lib/prodtrack/catalog.db",
				"GEMINI_API_KEY":        "gemini-key",
				"GEMINI_MODEL":          "gemini-1.5-pro",
				"CAPTURE_POLL_INTERVAL": "500ms",
				"S3_ENABLED":            "true",
				"S3_BUCKET":             "scan-images",
				"S3_REGION":             "eu-west-1",
				"LOG_LEVEL":             "debug",
				"LOG_FORMAT":            "console",
				"API_KEY":               "test-key-123",
			},
			expectError: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/var/lib/prodtrack/catalog.db", cfg.Store.Path)
				assert.Equal(t, "gemini-1.5-pro", cfg.Gemini.Model)
				assert.Equal(t, 500*time.Millisecond, cfg.Capture.PollInterval)
				assert.True(t, cfg.Archive.S3Enabled)
				assert.Equal(t, "scan-images", cfg.Archive.Bucket)
				assert.Equal(t, "eu-west-1", cfg.Archive.Region)
			},
		},
		{
			name: "Error - missing API key",
			envVars: map[string]string{
				"API_KEY": "",
			},
			expectError: true,
			errorMsg:    "API key is required",
		},
		{
			name: "Error - invalid server port",
			envVars: map[string]string{
				"SERVER_PORT": "99999",
				"API_KEY":     "test-key",
			},
			expectError: true,
			errorMsg:    "invalid server port",
		},
		{
			name: "Error - invalid log level",
			envVars: map[string]string{
				"LOG_LEVEL": "invalid",
				"API_KEY":   "test-key",
			},
			expectError: true,
			errorMsg:    "invalid log level",
		},
		{
			name: "Error - invalid log format",
			envVars: map[string]string{
				"LOG_FORMAT": "xml",
				"API_KEY":    "test-key",
			},
			expectError: true,
			errorMsg:    "invalid log format",
		},
		{
			name: "Error - S3 enabled without bucket",
			envVars: map[string]string{
				"S3_ENABLED": "true",
				"API_KEY":    "test-key",
			},
			expectError: true,
			errorMsg:    "S3 bucket is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			cfg, err := Load()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				if tt.check != nil {
					tt.check(t, cfg)
				}
			}

			// Clean up
			os.Clearenv()
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{
				Host: "localhost",
				Port: 8080,
			},
			Store: StoreConfig{
				Path: "prodtrack.db",
			},
			Capture: CaptureConfig{
				PollInterval: 300 * time.Millisecond,
			},
			Logger: LoggerConfig{
				Level:  "info",
				Format: "json",
			},
			Auth: AuthConfig{
				APIKey: "test-key",
			},
		}
	}

	tests := []struct {
		name        string
		mutate      func(cfg *Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "Valid configuration",
			mutate:      func(cfg *Config) {},
			expectError: false,
		},
		{
			name: "Invalid - server port too high",
			mutate: func(cfg *Config) {
				cfg.Server.Port = 99999
			},
			expectError: true,
			errorMsg:    "invalid server port",
		},
		{
			name: "Invalid - empty store path",
			mutate: func(cfg *Config) {
				cfg.Store.Path = ""
			},
			expectError: true,
			errorMsg:    "store path is required",
		},
		{
			name: "Invalid - zero poll interval",
			mutate: func(cfg *Config) {
				cfg.Capture.PollInterval = 0
			},
			expectError: true,
			errorMsg:    "poll interval must be positive",
		},
		{
			name: "Invalid - empty API key",
			mutate: func(cfg *Config) {
				cfg.Auth.APIKey = ""
			},
			expectError: true,
			errorMsg:    "API key is required",
		},
		{
			name: "Invalid - S3 enabled without region",
			mutate: func(cfg *Config) {
				cfg.Archive.S3Enabled = true
				cfg.Archive.Bucket = "scan-images"
				cfg.Archive.Region = ""
			},
			expectError: true,
			errorMsg:    "S3 region is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	tests := []struct {
		name     string
		config   ServerConfig
		expected string
	}{
		{
			name: "Standard configuration",
			config: ServerConfig{
				Host: "localhost",
				Port: 8080,
			},
			expected: "localhost:8080",
		},
		{
			name: "All interfaces",
			config: ServerConfig{
				Host: "0.0.0.0",
				Port: 9090,
			},
			expected: "0.0.0.0:9090",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.Address())
		})
	}
}

func TestGetEnv(t *testing.T) {
	os.Clearenv()

	// Test with environment variable set
	os.Setenv("TEST_VAR", "test_value")
	assert.Equal(t, "test_value", getEnv("TEST_VAR", "default"))

	// Test with environment variable not set
	assert.Equal(t, "default", getEnv("NON_EXISTENT_VAR", "default"))

	os.Clearenv()
}

func TestGetEnvAsInt(t *testing.T) {
	os.Clearenv()

	// Test with valid integer
	os.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, getEnvAsInt("TEST_INT", 10))

	// Test with invalid integer (should return default)
	os.Setenv("TEST_INVALID", "not_a_number")
	assert.Equal(t, 10, getEnvAsInt("TEST_INVALID", 10))

	// Test with non-existent variable
	assert.Equal(t, 10, getEnvAsInt("NON_EXISTENT_INT", 10))

	os.Clearenv()
}

func TestGetEnvAsDuration(t *testing.T) {
	os.Clearenv()

	os.Setenv("TEST_DUR", "2s")
	assert.Equal(t, 2*time.Second, getEnvAsDuration("TEST_DUR", time.Second))

	os.Setenv("TEST_DUR_BAD", "soon")
	assert.Equal(t, time.Second, getEnvAsDuration("TEST_DUR_BAD", time.Second))

	assert.Equal(t, time.Second, getEnvAsDuration("NON_EXISTENT_DUR", time.Second))

	os.Clearenv()
}
