package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hannes/kanoon/src/backend/config"
)

type ProviderType string

// GenerationRequest carries one prompt and its sampling parameters
type GenerationRequest struct {
	Prompt       string
	MaxNewTokens int
	Temperature  float64
	TopP         float64
}

// Provider defines the interface all text-generation providers must implement
type Provider interface {
	GetType() ProviderType
	GetName() string

	// Generate sends the prompt upstream and returns the generated text
	Generate(ctx context.Context, req GenerationRequest) (string, error)

	// ValidateConfig checks if provider configuration is valid
	ValidateConfig() error
}

// StatusError is returned when a provider answers with a non-2xx status
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// New builds the provider named by cfg.Providers.Default, wrapped in a rate limiter
func New(cfg *config.Config) (Provider, error) {
	var (
		provider Provider
		pcfg     = cfg.ActiveProvider()
	)

	switch cfg.Providers.Default {
	case config.ProviderHuggingFace:
		provider = NewHuggingFaceProvider(pcfg.BaseURL, pcfg.APIKey, pcfg.Model, pcfg.AdditionalHeaders, newHTTPClient(pcfg.Timeout))
	case config.ProviderOpenAI:
		provider = NewOpenAIProvider(pcfg.BaseURL, pcfg.APIKey, pcfg.Model, pcfg.AdditionalHeaders, newHTTPClient(pcfg.Timeout))
	case config.ProviderAnthropic:
		provider = NewAnthropicProvider(pcfg.BaseURL, pcfg.APIKey, pcfg.Model, pcfg.AdditionalHeaders, newHTTPClient(pcfg.Timeout))
	case config.ProviderGemini:
		provider = NewGeminiProvider(pcfg.BaseURL, pcfg.APIKey, pcfg.Model, newHTTPClient(pcfg.Timeout))
	default:
		return nil, fmt.Errorf("unknown provider '%s'", cfg.Providers.Default)
	}

	if err := provider.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid %s configuration: %w", provider.GetName(), err)
	}

	return NewRateLimited(provider, pcfg.RequestsPerSecond, 1), nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// normalizeBaseURL accepts either a bare host or a full URL and returns a URL
// without a trailing slash
func normalizeBaseURL(baseURL string, useHttps bool) string {
	scheme := "http"
	if useHttps {
		scheme = "https"
	}

	if !strings.Contains(baseURL, "://") {
		return scheme + "://" + strings.TrimSuffix(baseURL, "/")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return strings.TrimSuffix(baseURL, "/")
	}
	u.Scheme = scheme
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// resolveBaseURL keeps an explicit http:// scheme and defaults to https otherwise
func resolveBaseURL(baseURL string) string {
	return normalizeBaseURL(baseURL, !strings.HasPrefix(baseURL, "http://"))
}

// postJSON sends body as JSON and decodes a 2xx response into out
func postJSON(ctx context.Context, client *http.Client, providerName, endpoint string, headers map[string]string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", providerName, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", providerName, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Provider: providerName, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", providerName, err)
	}
	return nil
}
