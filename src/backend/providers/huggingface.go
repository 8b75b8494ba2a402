package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	ProviderTypeHuggingFace    ProviderType = "huggingface"
	ProviderBaseURLHuggingFace string       = "https://api-inference.huggingface.co/models"
)

type HuggingFaceProvider struct {
	baseURL           string
	apiKey            string
	model             string
	additionalHeaders map[string]string
	client            *http.Client
}

type hfParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
	TopP         float64 `json:"top_p"`
	DoSample     bool    `json:"do_sample"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

func NewHuggingFaceProvider(baseURL, apiKey, model string, additionalHeaders map[string]string, client *http.Client) *HuggingFaceProvider {
	if baseURL == "" {
		baseURL = ProviderBaseURLHuggingFace
	}
	if client == nil {
		client = newHTTPClient(0)
	}
	return &HuggingFaceProvider{
		baseURL:           resolveBaseURL(baseURL),
		apiKey:            apiKey,
		model:             model,
		additionalHeaders: additionalHeaders,
		client:            client,
	}
}

func (p *HuggingFaceProvider) GetName() string {
	return "HuggingFace"
}

func (p *HuggingFaceProvider) GetType() ProviderType {
	return ProviderTypeHuggingFace
}

func (p *HuggingFaceProvider) endpoint() string {
	return p.baseURL + "/" + strings.TrimPrefix(p.model, "/")
}

func (p *HuggingFaceProvider) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	headers := map[string]string{}
	for key, value := range p.additionalHeaders {
		headers[key] = value
	}
	if p.apiKey != "" {
		headers["Authorization"] = "Bearer " + p.apiKey
	}

	body := hfRequest{
		Inputs: req.Prompt,
		Parameters: hfParameters{
			MaxNewTokens: req.MaxNewTokens,
			Temperature:  req.Temperature,
			TopP:         req.TopP,
			DoSample:     true,
		},
	}

	var generations []hfGeneration
	if err := postJSON(ctx, p.client, p.GetName(), p.endpoint(), headers, body, &generations); err != nil {
		return "", err
	}
	if len(generations) == 0 {
		return "", fmt.Errorf("no generations in response")
	}
	return generations[0].GeneratedText, nil
}

func (p *HuggingFaceProvider) ValidateConfig() error {
	if p.baseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if p.model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}
