package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Provider names accepted in ProvidersConfig.Default
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
	ProviderGemini      = "gemini"
)

// Database drivers accepted in DatabaseConfig.Driver
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level         string `koanf:"level"`          // debug, info, warn, error
	Format        string `koanf:"format"`         // json or console
	LogRequests   bool   `koanf:"log_requests"`   // Log chat request content
	LogResponses  bool   `koanf:"log_responses"`  // Log generated response content
	LogRedactions bool   `koanf:"log_redactions"` // Log PII redaction and restoration
	LogVerbose    bool   `koanf:"log_verbose"`    // Log detailed redaction changes (original vs restored)
	DebugMode     bool   `koanf:"debug_mode"`     // Enable debug logging for database operations
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN         string  `koanf:"dsn"`
	Environment string  `koanf:"environment"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port          string        `koanf:"port"`
	SessionSecret string        `koanf:"session_secret"`
	RateLimit     float64       `koanf:"rate_limit"` // inbound requests per second per client
	RateBurst     int           `koanf:"rate_burst"`
	ReadTimeout   time.Duration `koanf:"read_timeout"`
	WriteTimeout  time.Duration `koanf:"write_timeout"`
	IdleTimeout   time.Duration `koanf:"idle_timeout"`
}

// ProviderConfig holds the settings of one text-generation provider
type ProviderConfig struct {
	BaseURL           string            `koanf:"base_url"`
	APIKey            string            `koanf:"api_key"`
	Model             string            `koanf:"model"`
	AdditionalHeaders map[string]string `koanf:"additional_headers"`
	RequestsPerSecond float64           `koanf:"requests_per_second"`
	Timeout           time.Duration     `koanf:"timeout"`
}

// ProvidersConfig holds configuration for all text-generation providers
type ProvidersConfig struct {
	Default     string         `koanf:"default"`
	HuggingFace ProviderConfig `koanf:"huggingface"`
	OpenAI      ProviderConfig `koanf:"openai"`
	Anthropic   ProviderConfig `koanf:"anthropic"`
	Gemini      ProviderConfig `koanf:"gemini"`
}

// ChatConfig holds sampling and prompt settings for the assistant
type ChatConfig struct {
	HistoryWindow   int     `koanf:"history_window"`
	MaxNewTokens    int     `koanf:"max_new_tokens"`
	Temperature     float64 `koanf:"temperature"`
	TopP            float64 `koanf:"top_p"`
	MaxPromptTokens int     `koanf:"max_prompt_tokens"` // 0 disables trimming
	TokenizerPath   string  `koanf:"tokenizer_path"`
}

// NewsConfig holds configuration for the news aggregator
type NewsConfig struct {
	BaseURL           string        `koanf:"base_url"`
	AccessKey         string        `koanf:"access_key"`
	Countries         string        `koanf:"countries"`
	Categories        string        `koanf:"categories"`
	Keywords          string        `koanf:"keywords"`
	Limit             int           `koanf:"limit"`
	RetryAttempts     uint          `koanf:"retry_attempts"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Timeout           time.Duration `koanf:"timeout"`
}

// TranslateConfig holds configuration for the translation service
type TranslateConfig struct {
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver        string `koanf:"driver"` // memory, sqlite or postgres
	Path          string `koanf:"path"`   // SQLite database file
	Host          string `koanf:"host"`
	Port          int    `koanf:"port"`
	Database      string `koanf:"database"`
	Username      string `koanf:"username"`
	Password      string `koanf:"password"`
	SSLMode       string `koanf:"ssl_mode"`
	MaxOpenConns  int    `koanf:"max_open_conns"`
	MaxIdleConns  int    `koanf:"max_idle_conns"`
	MaxLifetime   int    `koanf:"max_lifetime"` // Connection max lifetime in seconds
	MaxLogEntries int    `koanf:"max_log_entries"`
}

// CacheConfig holds response cache configuration
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Path       string        `koanf:"path"`
	MaxEntries int           `koanf:"max_entries"`
	TTL        time.Duration `koanf:"ttl"`
}

// PrivacyConfig controls redaction of personal data in outbound prompts
type PrivacyConfig struct {
	RedactPrompts bool `koanf:"redact_prompts"`
}

// SimulationConfig holds the artificial delays of the mock features
type SimulationConfig struct {
	CaseLawDelay  time.Duration `koanf:"case_law_delay"`
	AnalysisDelay time.Duration `koanf:"analysis_delay"`
}

// Config holds all configuration for the legal aid service
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Providers  ProvidersConfig  `koanf:"providers"`
	Chat       ChatConfig       `koanf:"chat"`
	News       NewsConfig       `koanf:"news"`
	Translate  TranslateConfig  `koanf:"translate"`
	Database   DatabaseConfig   `koanf:"database"`
	Cache      CacheConfig      `koanf:"cache"`
	Privacy    PrivacyConfig    `koanf:"privacy"`
	Simulation SimulationConfig `koanf:"simulation"`
	Logging    LoggingConfig    `koanf:"logging"`
	Sentry     SentryConfig     `koanf:"sentry"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          ":8080",
			RateLimit:     5,
			RateBurst:     20,
			ReadTimeout:   15 * time.Second,
			WriteTimeout:  60 * time.Second,
			IdleTimeout:   60 * time.Second,
		},
		Providers: ProvidersConfig{
			Default: ProviderHuggingFace,
			HuggingFace: ProviderConfig{
				BaseURL:           "https://api-inference.huggingface.co/models",
				Model:             "vishnun0027/Llama-3.2-1B-Instruct-Indian-Law",
				AdditionalHeaders: map[string]string{},
				RequestsPerSecond: 1,
				Timeout:           60 * time.Second,
			},
			OpenAI: ProviderConfig{
				BaseURL:           "https://api.openai.com/v1",
				Model:             "gpt-4o-mini",
				AdditionalHeaders: map[string]string{},
				RequestsPerSecond: 2,
				Timeout:           60 * time.Second,
			},
			Anthropic: ProviderConfig{
				BaseURL: "https://api.anthropic.com/v1",
				Model:   "claude-3-5-haiku-latest",
				AdditionalHeaders: map[string]string{
					"anthropic-version": "2023-06-01",
				},
				RequestsPerSecond: 2,
				Timeout:           60 * time.Second,
			},
			Gemini: ProviderConfig{
				BaseURL:           "https://generativelanguage.googleapis.com",
				Model:             "gemini-2.0-flash",
				AdditionalHeaders: map[string]string{},
				RequestsPerSecond: 2,
				Timeout:           60 * time.Second,
			},
		},
		Chat: ChatConfig{
			HistoryWindow: 10,
			MaxNewTokens:  1500,
			Temperature:   0.7,
			TopP:          0.9,
		},
		News: NewsConfig{
			BaseURL:           "http://api.mediastack.com/v1",
			Countries:         "in",
			Categories:        "general",
			Keywords:          "legal,law,court",
			Limit:             25,
			RetryAttempts:     2,
			RequestsPerSecond: 1,
			Timeout:           10 * time.Second,
		},
		Translate: TranslateConfig{
			BaseURL: "https://libretranslate.com",
			Timeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:        DriverMemory,
			Path:          "kanoon.db",
			Host:          "localhost",
			Port:          5432,
			Database:      "kanoon",
			Username:      "postgres",
			Password:      "",
			SSLMode:       "disable",
			MaxOpenConns:  25,
			MaxIdleConns:  25,
			MaxLifetime:   300,
			MaxLogEntries: 5000,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Path:       ":memory:",
			MaxEntries: 100,
			TTL:        time.Hour,
		},
		Privacy: PrivacyConfig{
			RedactPrompts: true,
		},
		Simulation: SimulationConfig{
			CaseLawDelay:  2 * time.Second,
			AnalysisDelay: 3 * time.Second,
		},
		Logging: LoggingConfig{
			Level:         "info",
			Format:        "json",
			LogRequests:   true,
			LogResponses:  false,
			LogRedactions: true,
			LogVerbose:    false,
		},
		Sentry: SentryConfig{
			Environment: "development",
			SampleRate:  1.0,
		},
	}
}

// ActiveProvider returns the configuration of the default provider
func (c *Config) ActiveProvider() ProviderConfig {
	switch c.Providers.Default {
	case ProviderOpenAI:
		return c.Providers.OpenAI
	case ProviderAnthropic:
		return c.Providers.Anthropic
	case ProviderGemini:
		return c.Providers.Gemini
	default:
		return c.Providers.HuggingFace
	}
}

// ValidateConfig checks the configuration and returns all problems joined by "; "
func (c *Config) ValidateConfig() error {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	add(validatePort(c.Server.Port, "Server.Port"))

	switch c.Providers.Default {
	case ProviderHuggingFace, ProviderOpenAI, ProviderAnthropic, ProviderGemini:
	default:
		errs = append(errs, fmt.Sprintf("Providers.Default: unknown provider '%s'", c.Providers.Default))
	}
	add(validateProviderConfig(c.Providers.HuggingFace, "HuggingFace"))
	add(validateProviderConfig(c.Providers.OpenAI, "OpenAI"))
	add(validateProviderConfig(c.Providers.Anthropic, "Anthropic"))
	add(validateProviderConfig(c.Providers.Gemini, "Gemini"))

	add(validateURL(c.News.BaseURL, "News.BaseURL"))
	add(validateURL(c.Translate.BaseURL, "Translate.BaseURL"))

	switch c.Database.Driver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Sprintf("Database.Driver: unknown driver '%s'", c.Database.Driver))
	}

	if c.Chat.HistoryWindow < 0 {
		errs = append(errs, fmt.Sprintf("Chat.HistoryWindow: must not be negative (current value: %d)", c.Chat.HistoryWindow))
	}
	if c.Cache.Enabled && c.Cache.MaxEntries <= 0 {
		errs = append(errs, fmt.Sprintf("Cache.MaxEntries: must be positive (current value: %d)", c.Cache.MaxEntries))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validatePort(port, fieldName string) error {
	if port == "" {
		return fmt.Errorf("%s: port cannot be empty", fieldName)
	}
	if !strings.HasPrefix(port, ":") {
		return fmt.Errorf("%s: port must be in format ':PORT' where PORT is numeric (current value: %s)", fieldName, port)
	}
	p, err := strconv.Atoi(port[1:])
	if err != nil {
		return fmt.Errorf("%s: port must be in format ':PORT' where PORT is numeric (current value: %s)", fieldName, port)
	}
	if p < 1 || p > 65535 {
		return fmt.Errorf("%s: port must be between 1 and 65535 (current value: %d)", fieldName, p)
	}
	return nil
}

func validateURL(raw, fieldName string) error {
	if raw == "" {
		return fmt.Errorf("%s: URL cannot be empty", fieldName)
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return fmt.Errorf("%s: URL must start with 'http://' or 'https://' (current value: %s)", fieldName, raw)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%s: URL format is invalid (current value: %s)", fieldName, raw)
	}
	return nil
}

var headerNamePattern = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+.^_|~-]+$`)

func validateAdditionalHeaders(headers map[string]string, fieldName string) error {
	for name := range headers {
		if name == "" {
			return fmt.Errorf("%s: header name cannot be empty", fieldName)
		}
		if !headerNamePattern.MatchString(name) {
			return fmt.Errorf("%s: header name '%s' contains invalid characters", fieldName, name)
		}
	}
	return nil
}

func validateProviderConfig(cfg ProviderConfig, providerName string) error {
	if err := validateURL(cfg.BaseURL, providerName+".BaseURL"); err != nil {
		return err
	}
	if err := validateAdditionalHeaders(cfg.AdditionalHeaders, providerName+".AdditionalHeaders"); err != nil {
		return err
	}
	if cfg.RequestsPerSecond < 0 {
		return fmt.Errorf("%s.RequestsPerSecond: must not be negative (current value: %g)", providerName, cfg.RequestsPerSecond)
	}
	return nil
}

// GetLogRedactions returns whether to log PII redactions
func (lc LoggingConfig) GetLogRedactions() bool {
	return lc.LogRedactions
}

// GetLogVerbose returns whether to log verbose redaction details
func (lc LoggingConfig) GetLogVerbose() bool {
	return lc.LogVerbose
}

// GetLogResponses returns whether to log response content
func (lc LoggingConfig) GetLogResponses() bool {
	return lc.LogResponses
}
