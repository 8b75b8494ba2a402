package providers

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"google.golang.org/genai"
)

const (
	ProviderTypeGemini    ProviderType = "gemini"
	ProviderBaseURLGemini string       = "https://generativelanguage.googleapis.com"
)

// GeminiProvider talks to the Gemini API through the genai SDK. The SDK client
// is created on first use so a missing API key only fails the request.
type GeminiProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client

	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiProvider(baseURL, apiKey, model string, httpClient *http.Client) *GeminiProvider {
	if baseURL == "" {
		baseURL = ProviderBaseURLGemini
	}
	if httpClient == nil {
		httpClient = newHTTPClient(0)
	}
	return &GeminiProvider{
		baseURL:    resolveBaseURL(baseURL),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

func (p *GeminiProvider) GetName() string {
	return "Gemini"
}

func (p *GeminiProvider) GetType() ProviderType {
	return ProviderTypeGemini
}

func (p *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     p.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: p.baseURL + "/",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	p.client = client
	return client, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return "", err
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
		TopP:        genai.Ptr(float32(req.TopP)),
	}
	if req.MaxNewTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxNewTokens)
	}

	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no candidates in response")
	}
	return text, nil
}

func (p *GeminiProvider) ValidateConfig() error {
	if p.baseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if p.model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}
