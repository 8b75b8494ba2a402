package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hannes/kanoon/src/backend/config"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		useHttps bool
		want     string
	}{
		{
			name:     "bare domain with https",
			baseURL:  "api.openai.com",
			useHttps: true,
			want:     "https://api.openai.com",
		},
		{
			name:     "bare domain with http",
			baseURL:  "api.openai.com",
			useHttps: false,
			want:     "http://api.openai.com",
		},
		{
			name:     "full https URL keeps path",
			baseURL:  "https://api.openai.com/v1",
			useHttps: true,
			want:     "https://api.openai.com/v1",
		},
		{
			name:     "full http URL upgraded to https",
			baseURL:  "http://api.openai.com/v1",
			useHttps: true,
			want:     "https://api.openai.com/v1",
		},
		{
			name:     "full URL with trailing slash",
			baseURL:  "https://api-inference.huggingface.co/models/",
			useHttps: true,
			want:     "https://api-inference.huggingface.co/models",
		},
		{
			name:     "full URL with port",
			baseURL:  "http://localhost:8080/v1",
			useHttps: false,
			want:     "http://localhost:8080/v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeBaseURL(tt.baseURL, tt.useHttps)
			if got != tt.want {
				t.Errorf("normalizeBaseURL(%q, %v) = %q, want %q", tt.baseURL, tt.useHttps, got, tt.want)
			}
		})
	}
}

func TestResolveBaseURLKeepsHTTP(t *testing.T) {
	if got := resolveBaseURL("http://127.0.0.1:9000/"); got != "http://127.0.0.1:9000" {
		t.Errorf("expected http scheme kept, got %q", got)
	}
	if got := resolveBaseURL("api.openai.com"); got != "https://api.openai.com" {
		t.Errorf("expected https default, got %q", got)
	}
}

func TestHuggingFaceGenerate(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/legal-model" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer hf_token" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &gotBody); err != nil {
			t.Errorf("invalid request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"generated_text": "Human: hi\nAssistant: Hello there"}]`))
	}))
	defer server.Close()

	p := NewHuggingFaceProvider(server.URL+"/models", "hf_token", "legal-model", nil, server.Client())
	text, err := p.Generate(context.Background(), GenerationRequest{
		Prompt:       "Human: hi\nAssistant:",
		MaxNewTokens: 1500,
		Temperature:  0.7,
		TopP:         0.9,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != "Human: hi\nAssistant: Hello there" {
		t.Errorf("unexpected text %q", text)
	}

	if gotBody["inputs"] != "Human: hi\nAssistant:" {
		t.Errorf("unexpected inputs %v", gotBody["inputs"])
	}
	params, ok := gotBody["parameters"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing parameters in body: %v", gotBody)
	}
	if params["max_new_tokens"] != float64(1500) || params["do_sample"] != true {
		t.Errorf("unexpected parameters %v", params)
	}
	if params["temperature"] != 0.7 || params["top_p"] != 0.9 {
		t.Errorf("unexpected sampling parameters %v", params)
	}
}

func TestHuggingFaceGenerateErrors(t *testing.T) {
	testCases := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "server error", status: http.StatusServiceUnavailable, body: `{"error":"loading"}`, wantStatus: http.StatusServiceUnavailable},
		{name: "empty generations", status: http.StatusOK, body: `[]`},
		{name: "malformed json", status: http.StatusOK, body: `not json`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			p := NewHuggingFaceProvider(server.URL, "", "m", nil, server.Client())
			_, err := p.Generate(context.Background(), GenerationRequest{Prompt: "x"})
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var statusErr *StatusError
			if tc.wantStatus != 0 {
				if !errors.As(err, &statusErr) {
					t.Fatalf("expected StatusError, got %T: %v", err, err)
				}
				if statusErr.StatusCode != tc.wantStatus {
					t.Errorf("expected status %d, got %d", tc.wantStatus, statusErr.StatusCode)
				}
			}
		})
	}
}

func TestOpenAIGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("invalid request: %v", err)
		}
		if req.Model != "gpt-4o-mini" || len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected request %+v", req)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Section 498A deals with cruelty."}}]}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider(server.URL+"/v1", "sk-test", "gpt-4o-mini", nil, server.Client())
	text, err := p.Generate(context.Background(), GenerationRequest{Prompt: "What is 498A?"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != "Section 498A deals with cruelty." {
		t.Errorf("unexpected text %q", text)
	}
}

func TestAnthropicGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "ant-key" {
			t.Errorf("missing x-api-key header")
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("missing anthropic-version header")
		}
		_, _ = w.Write([]byte(`{"role":"assistant","content":[{"type":"text","text":"File an FIR "},{"type":"tool_use"},{"type":"text","text":"first."}]}`))
	}))
	defer server.Close()

	p := NewAnthropicProvider(server.URL+"/v1", "ant-key", "claude", nil, server.Client())
	text, err := p.Generate(context.Background(), GenerationRequest{Prompt: "How do I report theft?"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != "File an FIR first." {
		t.Errorf("unexpected text %q", text)
	}
}

func TestGeminiGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-test:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Namaste"}]}}]}`))
	}))
	defer server.Close()

	p := NewGeminiProvider(server.URL, "gemini-key", "gemini-test", server.Client())
	text, err := p.Generate(context.Background(), GenerationRequest{Prompt: "Greet me", Temperature: 0.7, TopP: 0.9})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != "Namaste" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestValidateConfig(t *testing.T) {
	testCases := []struct {
		name      string
		provider  Provider
		expectErr bool
	}{
		{name: "huggingface valid", provider: NewHuggingFaceProvider("", "", "model", nil, nil)},
		{name: "huggingface missing model", provider: NewHuggingFaceProvider("", "", "", nil, nil), expectErr: true},
		{name: "openai valid", provider: NewOpenAIProvider("", "key", "gpt", nil, nil)},
		{name: "anthropic missing model", provider: NewAnthropicProvider("", "key", "", nil, nil), expectErr: true},
		{name: "gemini valid", provider: NewGeminiProvider("", "key", "gemini", nil)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.provider.ValidateConfig()
			if tc.expectErr && err == nil {
				t.Error("expected an error, but got nil")
			} else if !tc.expectErr && err != nil {
				t.Errorf("expected no error, but got: %v", err)
			}
		})
	}
}

func TestNewSelectsDefaultProvider(t *testing.T) {
	testCases := []struct {
		name     string
		def      string
		wantType ProviderType
	}{
		{name: "huggingface", def: config.ProviderHuggingFace, wantType: ProviderTypeHuggingFace},
		{name: "openai", def: config.ProviderOpenAI, wantType: ProviderTypeOpenAI},
		{name: "anthropic", def: config.ProviderAnthropic, wantType: ProviderTypeAnthropic},
		{name: "gemini", def: config.ProviderGemini, wantType: ProviderTypeGemini},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Providers.Default = tc.def

			p, err := New(cfg)
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			if p.GetType() != tc.wantType {
				t.Errorf("expected type %s, got %s", tc.wantType, p.GetType())
			}
			if _, ok := p.(*RateLimited); !ok {
				t.Errorf("expected provider to be rate limited, got %T", p)
			}
		})
	}

	cfg := config.DefaultConfig()
	cfg.Providers.Default = "mistral"
	if _, err := New(cfg); err == nil {
		t.Error("expected error for unknown provider")
	}
}

type countingProvider struct {
	calls int
}

func (c *countingProvider) GetType() ProviderType { return "counting" }
func (c *countingProvider) GetName() string       { return "Counting" }
func (c *countingProvider) ValidateConfig() error { return nil }
func (c *countingProvider) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	c.calls++
	return req.Prompt, nil
}

func TestRateLimitedHonoursContext(t *testing.T) {
	inner := &countingProvider{}
	limited := NewRateLimited(inner, 0.001, 1)

	if _, err := limited.Generate(context.Background(), GenerationRequest{Prompt: "first"}); err != nil {
		t.Fatalf("first call should pass the limiter: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := limited.Generate(ctx, GenerationRequest{Prompt: "second"}); err == nil {
		t.Fatal("expected rate limit error for second call")
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", inner.calls)
	}
}

func TestRateLimitedUnlimited(t *testing.T) {
	inner := &countingProvider{}
	limited := NewRateLimited(inner, 0, 0)
	for i := 0; i < 5; i++ {
		if _, err := limited.Generate(context.Background(), GenerationRequest{Prompt: "x"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if inner.calls != 5 {
		t.Errorf("expected 5 calls, got %d", inner.calls)
	}
}
