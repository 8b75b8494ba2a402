package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestValidatePort(t *testing.T) {
	testCases := []struct {
		name      string
		port      string
		fieldName string
		expectErr bool
		errString string
	}{
		{
			name:      "valid port",
			port:      ":8080",
			fieldName: "Server.Port",
			expectErr: false,
		},
		{
			name:      "empty port",
			port:      "",
			fieldName: "Server.Port",
			expectErr: true,
			errString: "Server.Port: port cannot be empty",
		},
		{
			name:      "no colon",
			port:      "8080",
			fieldName: "Server.Port",
			expectErr: true,
			errString: "Server.Port: port must be in format ':PORT' where PORT is numeric (current value: 8080)",
		},
		{
			name:      "non-numeric",
			port:      ":abcd",
			fieldName: "Server.Port",
			expectErr: true,
			errString: "Server.Port: port must be in format ':PORT' where PORT is numeric (current value: :abcd)",
		},
		{
			name:      "port out of range (low)",
			port:      ":0",
			fieldName: "Server.Port",
			expectErr: true,
			errString: "Server.Port: port must be between 1 and 65535 (current value: 0)",
		},
		{
			name:      "port out of range (high)",
			port:      ":65536",
			fieldName: "Server.Port",
			expectErr: true,
			errString: "Server.Port: port must be between 1 and 65535 (current value: 65536)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePort(tc.port, tc.fieldName)
			if tc.expectErr {
				if err == nil {
					t.Errorf("expected an error, but got nil")
				} else if err.Error() != tc.errString {
					t.Errorf("expected error string '%s', but got '%s'", tc.errString, err.Error())
				}
			} else if err != nil {
				t.Errorf("expected no error, but got: %v", err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	testCases := []struct {
		name      string
		url       string
		fieldName string
		expectErr bool
		errString string
	}{
		{
			name:      "valid https url",
			url:       "https://api-inference.huggingface.co/models",
			fieldName: "HuggingFace.BaseURL",
		},
		{
			name:      "valid http url",
			url:       "http://api.mediastack.com/v1",
			fieldName: "News.BaseURL",
		},
		{
			name:      "empty url",
			url:       "",
			fieldName: "News.BaseURL",
			expectErr: true,
			errString: "News.BaseURL: URL cannot be empty",
		},
		{
			name:      "missing scheme",
			url:       "api.mediastack.com/v1",
			fieldName: "News.BaseURL",
			expectErr: true,
			errString: "News.BaseURL: URL must start with 'http://' or 'https://' (current value: api.mediastack.com/v1)",
		},
		{
			name:      "missing host",
			url:       "https://",
			fieldName: "News.BaseURL",
			expectErr: true,
			errString: "News.BaseURL: URL format is invalid (current value: https://)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateURL(tc.url, tc.fieldName)
			if tc.expectErr {
				if err == nil {
					t.Errorf("expected an error, but got nil")
				} else if err.Error() != tc.errString {
					t.Errorf("expected error string '%s', but got '%s'", tc.errString, err.Error())
				}
			} else if err != nil {
				t.Errorf("expected no error, but got: %v", err)
			}
		})
	}
}

func TestValidateAdditionalHeaders(t *testing.T) {
	testCases := []struct {
		name      string
		headers   map[string]string
		fieldName string
		expectErr bool
		errString string
	}{
		{
			name:      "valid headers",
			headers:   map[string]string{"X-Test-Header": "value"},
			fieldName: "OpenAI.AdditionalHeaders",
			expectErr: false,
		},
		{
			name:      "empty header name",
			headers:   map[string]string{"": "value"},
			fieldName: "OpenAI.AdditionalHeaders",
			expectErr: true,
			errString: "OpenAI.AdditionalHeaders: header name cannot be empty",
		},
		{
			name:      "header name with space",
			headers:   map[string]string{"invalid header": "value"},
			fieldName: "OpenAI.AdditionalHeaders",
			expectErr: true,
			errString: "OpenAI.AdditionalHeaders: header name 'invalid header' contains invalid characters",
		},
		{
			name:      "header name with colon",
			headers:   map[string]string{"invalid:header": "value"},
			fieldName: "OpenAI.AdditionalHeaders",
			expectErr: true,
			errString: "OpenAI.AdditionalHeaders: header name 'invalid:header' contains invalid characters",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateAdditionalHeaders(tc.headers, tc.fieldName)
			if tc.expectErr {
				if err == nil {
					t.Errorf("expected an error, but got nil")
				} else if err.Error() != tc.errString {
					t.Errorf("expected error string '%s', but got '%s'", tc.errString, err.Error())
				}
			} else if err != nil {
				t.Errorf("expected no error, but got: %v", err)
			}
		})
	}
}

func TestValidateProviderConfig(t *testing.T) {
	testCases := []struct {
		name         string
		providerCfg  ProviderConfig
		providerName string
		expectErr    bool
		errString    string
	}{
		{
			name: "valid provider config",
			providerCfg: ProviderConfig{
				BaseURL:           "https://api.openai.com/v1",
				AdditionalHeaders: map[string]string{"X-Test": "value"},
			},
			providerName: "OpenAI",
			expectErr:    false,
		},
		{
			name: "invalid base url",
			providerCfg: ProviderConfig{
				BaseURL: "api.openai.com",
			},
			providerName: "OpenAI",
			expectErr:    true,
			errString:    "OpenAI.BaseURL: URL must start with 'http://' or 'https://' (current value: api.openai.com)",
		},
		{
			name: "invalid headers",
			providerCfg: ProviderConfig{
				BaseURL:           "https://api.openai.com/v1",
				AdditionalHeaders: map[string]string{"invalid header": "value"},
			},
			providerName: "OpenAI",
			expectErr:    true,
			errString:    "OpenAI.AdditionalHeaders: header name 'invalid header' contains invalid characters",
		},
		{
			name: "negative rate",
			providerCfg: ProviderConfig{
				BaseURL:           "https://api.openai.com/v1",
				RequestsPerSecond: -1,
			},
			providerName: "OpenAI",
			expectErr:    true,
			errString:    "OpenAI.RequestsPerSecond: must not be negative (current value: -1)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateProviderConfig(tc.providerCfg, tc.providerName)
			if tc.expectErr {
				if err == nil {
					t.Errorf("expected an error, but got nil")
				} else if err.Error() != tc.errString {
					t.Errorf("expected error string '%s', but got '%s'", tc.errString, err.Error())
				}
			} else if err != nil {
				t.Errorf("expected no error, but got: %v", err)
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	newDefaultConfig := func() *Config {
		return DefaultConfig()
	}

	testCases := []struct {
		name      string
		config    *Config
		expectErr bool
		errString string
	}{
		{
			name:      "valid default config",
			config:    newDefaultConfig(),
			expectErr: false,
		},
		{
			name: "invalid server port",
			config: func() *Config {
				c := newDefaultConfig()
				c.Server.Port = "invalid"
				return c
			}(),
			expectErr: true,
			errString: "Server.Port: port must be in format ':PORT' where PORT is numeric (current value: invalid)",
		},
		{
			name: "unknown provider",
			config: func() *Config {
				c := newDefaultConfig()
				c.Providers.Default = "mistral"
				return c
			}(),
			expectErr: true,
			errString: "Providers.Default: unknown provider 'mistral'",
		},
		{
			name: "unknown database driver",
			config: func() *Config {
				c := newDefaultConfig()
				c.Database.Driver = "mysql"
				return c
			}(),
			expectErr: true,
			errString: "Database.Driver: unknown driver 'mysql'",
		},
		{
			name: "invalid openai provider config",
			config: func() *Config {
				c := newDefaultConfig()
				c.Providers.OpenAI.BaseURL = ""
				return c
			}(),
			expectErr: true,
			errString: "OpenAI.BaseURL: URL cannot be empty",
		},
		{
			name: "multiple errors",
			config: func() *Config {
				c := newDefaultConfig()
				c.Server.Port = "invalid"
				c.Providers.OpenAI.BaseURL = ""
				return c
			}(),
			expectErr: true,
			errString: "Server.Port: port must be in format ':PORT' where PORT is numeric (current value: invalid); OpenAI.BaseURL: URL cannot be empty",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.ValidateConfig()
			if tc.expectErr {
				if err == nil {
					t.Errorf("expected an error, but got nil")
					return
				}
				for _, subErr := range strings.Split(tc.errString, "; ") {
					if !stringContains(err.Error(), subErr) {
						t.Errorf("expected error to contain '%s', but got '%s'", subErr, err.Error())
					}
				}
			} else if err != nil {
				t.Errorf("expected no error, but got: %v", err)
			}
		})
	}
}

func TestActiveProvider(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ActiveProvider().Model; got != cfg.Providers.HuggingFace.Model {
		t.Errorf("expected huggingface model by default, got %q", got)
	}

	cfg.Providers.Default = ProviderGemini
	if got := cfg.ActiveProvider().Model; got != cfg.Providers.Gemini.Model {
		t.Errorf("expected gemini model, got %q", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "kanoon.yaml")
	content := `
server:
  port: ":9090"
news:
  keywords: "supreme court"
cache:
  ttl: 30m
`
	if err := os.WriteFile(cfgFile, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HF_API_TOKEN", "hf_test_token")
	t.Setenv("KANOON_DATABASE__DRIVER", "sqlite")
	t.Setenv("KANOON_CHAT__HISTORY_WINDOW", "4")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	if err := flags.Parse([]string{"--log-level=debug"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := Load(cfgFile, flags)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != ":9090" {
		t.Errorf("expected port from file, got %q", cfg.Server.Port)
	}
	if cfg.News.Keywords != "supreme court" {
		t.Errorf("expected keywords from file, got %q", cfg.News.Keywords)
	}
	if cfg.News.Countries != "in" {
		t.Errorf("expected default countries to survive, got %q", cfg.News.Countries)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("expected ttl 30m, got %v", cfg.Cache.TTL)
	}
	if cfg.Providers.HuggingFace.APIKey != "hf_test_token" {
		t.Errorf("expected HF token from env, got %q", cfg.Providers.HuggingFace.APIKey)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("expected sqlite driver from prefixed env, got %q", cfg.Database.Driver)
	}
	if cfg.Chat.HistoryWindow != 4 {
		t.Errorf("expected history window 4, got %d", cfg.Chat.HistoryWindow)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level from flag, got %q", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// Helper function to check for string containment in error messages
func stringContains(s, substr string) bool {
	return strings.Contains(s, substr)
}
