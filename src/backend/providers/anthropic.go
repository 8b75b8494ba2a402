package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	ProviderTypeAnthropic    ProviderType = "anthropic"
	ProviderSubpathAnthropic string       = "/messages"
	ProviderBaseURLAnthropic string       = "https://api.anthropic.com/v1"
)

type AnthropicProvider struct {
	baseURL         string
	apiKey          string
	model           string
	requiredHeaders map[string]string
	client          *http.Client
}

type anthropicRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	TopP        float64         `json:"top_p"`
}

// {"content": [{"type": "text", "text": "..."}], "role": "assistant"}
type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func NewAnthropicProvider(baseURL, apiKey, model string, requiredHeaders map[string]string, client *http.Client) *AnthropicProvider {
	if baseURL == "" {
		baseURL = ProviderBaseURLAnthropic
	}
	if len(requiredHeaders) == 0 {
		requiredHeaders = map[string]string{
			"anthropic-version": "2023-06-01",
		}
	}
	if client == nil {
		client = newHTTPClient(0)
	}
	return &AnthropicProvider{
		baseURL:         resolveBaseURL(baseURL),
		apiKey:          apiKey,
		model:           model,
		requiredHeaders: requiredHeaders,
		client:          client,
	}
}

func (p *AnthropicProvider) GetName() string {
	return "Anthropic"
}

func (p *AnthropicProvider) GetType() ProviderType {
	return ProviderTypeAnthropic
}

func (p *AnthropicProvider) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	headers := map[string]string{"x-api-key": p.apiKey}
	for key, value := range p.requiredHeaders {
		headers[key] = value
	}

	maxTokens := req.MaxNewTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	body := anthropicRequest{
		Model:       p.model,
		MaxTokens:   maxTokens,
		Messages:    []openAIMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}

	var resp anthropicResponse
	if err := postJSON(ctx, p.client, p.GetName(), p.baseURL+ProviderSubpathAnthropic, headers, body, &resp); err != nil {
		return "", err
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var result strings.Builder
	for _, item := range resp.Content {
		if item.Type == "text" {
			result.WriteString(item.Text)
		}
	}
	return result.String(), nil
}

func (p *AnthropicProvider) ValidateConfig() error {
	if p.baseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if p.model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}
