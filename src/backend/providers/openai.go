package providers

import (
	"context"
	"fmt"
	"net/http"
)

const (
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderSubpathOpenAI string       = "/chat/completions"
	ProviderBaseURLOpenAI string       = "https://api.openai.com/v1"
)

type OpenAIProvider struct {
	baseURL           string
	apiKey            string
	model             string
	additionalHeaders map[string]string
	client            *http.Client
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
	TopP        float64         `json:"top_p"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

func NewOpenAIProvider(baseURL, apiKey, model string, additionalHeaders map[string]string, client *http.Client) *OpenAIProvider {
	if baseURL == "" {
		baseURL = ProviderBaseURLOpenAI
	}
	if client == nil {
		client = newHTTPClient(0)
	}
	return &OpenAIProvider{
		baseURL:           resolveBaseURL(baseURL),
		apiKey:            apiKey,
		model:             model,
		additionalHeaders: additionalHeaders,
		client:            client,
	}
}

func (p *OpenAIProvider) GetName() string {
	return "OpenAI"
}

func (p *OpenAIProvider) GetType() ProviderType {
	return ProviderTypeOpenAI
}

func (p *OpenAIProvider) GetBaseURL() string {
	return p.baseURL
}

func (p *OpenAIProvider) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	headers := map[string]string{}
	for key, value := range p.additionalHeaders {
		headers[key] = value
	}
	headers["Authorization"] = "Bearer " + p.apiKey

	body := openAIRequest{
		Model:       p.model,
		Messages:    []openAIMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxNewTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}

	var resp openAIResponse
	if err := postJSON(ctx, p.client, p.GetName(), p.baseURL+ProviderSubpathOpenAI, headers, body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) ValidateConfig() error {
	if p.baseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if p.model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}
