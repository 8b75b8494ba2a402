package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/hannes/kanoon/src/backend/config"
)

// SourceAuto asks the service to detect the source language
const SourceAuto = "auto"

var ErrInvalidLanguage = errors.New("invalid language tag")

// Request is one translation request
type Request struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Result carries the translated text. Translated is false when the original
// text was returned unchanged.
type Result struct {
	Text       string `json:"text"`
	Source     string `json:"source"`
	Target     string `json:"target"`
	Translated bool   `json:"translated"`
}

type translatePayload struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// Client talks to a LibreTranslate-compatible endpoint
type Client struct {
	http   *resty.Client
	apiKey string
	logger *zap.Logger
}

func NewClient(cfg config.TranslateConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
			SetTimeout(cfg.Timeout).
			SetHeader("Content-Type", "application/json"),
		apiKey: cfg.APIKey,
		logger: logger,
	}
}

// NormalizeTag parses a BCP-47 tag and returns its canonical form
func NormalizeTag(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidLanguage)
	}
	t, err := language.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, tag)
	}
	return t.String(), nil
}

// Translate returns the translated text. Any failure is logged and the
// original text is returned unchanged.
func (c *Client) Translate(ctx context.Context, req Request) Result {
	result := Result{Text: req.Text, Source: req.Source, Target: req.Target}

	translated, err := c.translate(ctx, req)
	if err != nil {
		c.logger.Warn("Translation failed, returning original text",
			zap.String("target", req.Target),
			zap.Error(err))
		return result
	}

	result.Text = translated
	result.Translated = true
	return result
}

func (c *Client) translate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", errors.New("nothing to translate")
	}
	target, err := NormalizeTag(req.Target)
	if err != nil {
		return "", err
	}
	source := SourceAuto
	if s := strings.TrimSpace(req.Source); s != "" && s != SourceAuto {
		if source, err = NormalizeTag(s); err != nil {
			return "", err
		}
	}

	var body translateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(translatePayload{
			Q:      req.Text,
			Source: source,
			Target: target,
			Format: "text",
			APIKey: c.apiKey,
		}).
		SetResult(&body).
		SetError(&body).
		Post("/translate")
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	if resp.IsError() {
		if body.Error != "" {
			return "", fmt.Errorf("translate API returned status %d: %s", resp.StatusCode(), body.Error)
		}
		return "", fmt.Errorf("translate API returned status %d", resp.StatusCode())
	}
	if body.TranslatedText == "" {
		return "", errors.New("translate API returned an empty translation")
	}
	return body.TranslatedText, nil
}
