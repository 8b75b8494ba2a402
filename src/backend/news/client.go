package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/avast/retry-go/v4"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hannes/kanoon/src/backend/config"
)

// Article is one headline returned by the aggregator
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// Query selects headlines. Empty fields fall back to the configured values.
type Query struct {
	Countries  string
	Categories string
	Keywords   string
	Limit      int
}

type apiResponse struct {
	Data  []Article `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client fetches headlines from a mediastack-compatible aggregator
type Client struct {
	http       *resty.Client
	cfg        config.NewsConfig
	limiter    *rate.Limiter
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewClient creates a news client
func NewClient(cfg config.NewsConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = 1
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
			SetTimeout(cfg.Timeout).
			SetHeader("Accept", "application/json"),
		cfg:        cfg,
		limiter:    rate.NewLimiter(limit, 1),
		retryDelay: 500 * time.Millisecond,
		logger:     logger,
	}
}

// Headlines returns the current headlines for q. Failures are logged and
// produce an empty list.
func (c *Client) Headlines(ctx context.Context, q Query) []Article {
	articles, err := c.Fetch(ctx, q)
	if err != nil {
		c.logger.Error("Failed to fetch news", zap.Error(err))
		return []Article{}
	}
	return articles
}

// Fetch queries the aggregator, retrying transport failures and 5xx responses
func (c *Client) Fetch(ctx context.Context, q Query) ([]Article, error) {
	params := c.params(q)

	var articles []Article
	err := retry.Do(func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return retry.Unrecoverable(err)
		}
		var err error
		articles, err = c.get(ctx, params)
		return err
	},
		retry.Context(ctx),
		retry.Attempts(c.cfg.RetryAttempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("Retrying news request", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return nil, err
	}

	for i := range articles {
		articles[i].Description = plainText(articles[i].Description)
	}
	return articles, nil
}

func (c *Client) params(q Query) map[string]string {
	pick := func(v, fallback string) string {
		if v != "" {
			return v
		}
		return fallback
	}
	limit := q.Limit
	if limit <= 0 {
		limit = c.cfg.Limit
	}

	params := map[string]string{
		"access_key": c.cfg.AccessKey,
		"countries":  pick(q.Countries, c.cfg.Countries),
		"categories": pick(q.Categories, c.cfg.Categories),
		"keywords":   pick(q.Keywords, c.cfg.Keywords),
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	return params
}

func (c *Client) get(ctx context.Context, params map[string]string) ([]Article, error) {
	var body apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&body).
		SetError(&body).
		Get("/news")
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, retry.Unrecoverable(err)
		}
		return nil, fmt.Errorf("news request failed: %w", err)
	}

	if resp.IsError() {
		err := fmt.Errorf("news API returned status %d", resp.StatusCode())
		if body.Error != nil {
			err = fmt.Errorf("news API returned status %d: %s", resp.StatusCode(), body.Error.Message)
		}
		if resp.StatusCode() < http.StatusInternalServerError {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}
	if body.Error != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("news API error %s: %s", body.Error.Code, body.Error.Message))
	}
	if body.Data == nil {
		return []Article{}, nil
	}
	return body.Data, nil
}

// plainText turns description markup into markdown text
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(md)
}
