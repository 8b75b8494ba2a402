package news

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hannes/kanoon/src/backend/storage"
)

const (
	minTitleLength = 10
	maxTitleLength = 200
)

var ErrInvalidArticle = errors.New("invalid article")

// ArticleCreate is the input for saving an article to the library
type ArticleCreate struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Image       string    `json:"image"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// Validate checks the title length
func (a ArticleCreate) Validate() error {
	n := utf8.RuneCountInString(strings.TrimSpace(a.Title))
	if n < minTitleLength || n > maxTitleLength {
		return fmt.Errorf("%w: title must be between %d and %d characters (current length: %d)",
			ErrInvalidArticle, minTitleLength, maxTitleLength, n)
	}
	return nil
}

// Library keeps saved articles in a storage backend
type Library struct {
	store storage.NewsStore
	now   func() time.Time
}

func NewLibrary(store storage.NewsStore) *Library {
	return &Library{store: store, now: time.Now}
}

// Create validates and saves an article. A missing publication time
// defaults to now.
func (l *Library) Create(ctx context.Context, in ArticleCreate) (storage.NewsArticle, error) {
	if err := in.Validate(); err != nil {
		return storage.NewsArticle{}, err
	}
	published := in.PublishedAt
	if published.IsZero() {
		published = l.now()
	}

	article, err := l.store.CreateArticle(ctx, storage.NewsArticle{
		Title:       strings.TrimSpace(in.Title),
		Description: plainText(in.Description),
		URL:         strings.TrimSpace(in.URL),
		Image:       strings.TrimSpace(in.Image),
		Source:      strings.TrimSpace(in.Source),
		PublishedAt: published.UTC(),
	})
	if err != nil {
		return storage.NewsArticle{}, fmt.Errorf("failed to save article: %w", err)
	}
	return article, nil
}

// List returns saved articles, newest first
func (l *Library) List(ctx context.Context, limit, offset int) ([]storage.NewsArticle, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	articles, err := l.store.ListArticles(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}
