// Package storage persists the activity log, user accounts, stored news
// articles and search queries. Records live in memory by default, or in
// SQLite or PostgreSQL.
package storage

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"
)

// Retention limits
const (
	// DefaultMaxLogEntries is the default maximum number of activity entries to retain
	DefaultMaxLogEntries = 5000
	// MaxLogMessageSize is the maximum size of a logged message in bytes
	MaxLogMessageSize = 50 * 1024
)

const truncatedSuffix = "... [truncated]"

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Direction tells whether an activity entry was sent by the user or the bot
type Direction string

const (
	DirectionIn  Direction = "In"
	DirectionOut Direction = "Out"
)

// RedactionEntry records which placeholder replaced a detected value.
// The original value is never stored.
type RedactionEntry struct {
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
}

// ActivityEntry is one logged chat message
type ActivityEntry struct {
	ID        int64            `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Direction Direction        `json:"direction"`
	Intent    string           `json:"intent"`
	Message   string           `json:"message"`
	Redacted  []RedactionEntry `json:"redacted"`
}

// User is a stored account
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	PasswordHash string    `json:"-"`
	Permissions  []string  `json:"permissions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewsArticle is a news record saved by an editor
type NewsArticle struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Image       string    `json:"image"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// SearchQuery records one search request
type SearchQuery struct {
	ID           int64     `json:"id"`
	Query        string    `json:"query"`
	ResultsFound int       `json:"results_found"`
	Timestamp    time.Time `json:"timestamp"`
}

// ActivityLog stores chat activity, newest first
type ActivityLog interface {
	InsertEntry(ctx context.Context, entry ActivityEntry) error
	GetEntries(ctx context.Context, limit int, offset int) ([]ActivityEntry, error)
	GetEntriesCount(ctx context.Context) (int, error)
	ClearEntries(ctx context.Context) error
}

type UserStore interface {
	// CreateUser fails with ErrDuplicate when the email is taken
	CreateUser(ctx context.Context, user User) error
	ListUsers(ctx context.Context) ([]User, error)
	// GetUserByEmail fails with ErrNotFound for unknown emails
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

type NewsStore interface {
	CreateArticle(ctx context.Context, article NewsArticle) (NewsArticle, error)
	ListArticles(ctx context.Context, limit int, offset int) ([]NewsArticle, error)
}

type SearchLog interface {
	RecordSearch(ctx context.Context, query SearchQuery) (SearchQuery, error)
	ListSearches(ctx context.Context, limit int) ([]SearchQuery, error)
}

// Store bundles every record kind behind one backend
type Store interface {
	ActivityLog
	UserStore
	NewsStore
	SearchLog
	Close() error
}

// truncateMessage cuts oversized messages on a rune boundary so the stored
// text stays valid UTF-8
func truncateMessage(message string) string {
	if len(message) <= MaxLogMessageSize {
		return message
	}
	cut := MaxLogMessageSize
	for cut > 0 && !utf8.RuneStart(message[cut]) {
		cut--
	}
	return message[:cut] + truncatedSuffix
}
