package storage

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore implements Store without persistence
type MemoryStore struct {
	mu         sync.RWMutex
	maxEntries int
	nextID     int64
	entries    []ActivityEntry // oldest first
	users      []User
	articles   []NewsArticle
	searches   []SearchQuery
	now        func() time.Time
}

// NewMemoryStore creates an in-memory store keeping at most maxEntries
// activity entries. Non-positive values use DefaultMaxLogEntries.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxLogEntries
	}
	return &MemoryStore{
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *MemoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

// InsertEntry appends an entry, dropping the oldest once the limit is reached
func (m *MemoryStore) InsertEntry(ctx context.Context, entry ActivityEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.ID = m.id()
	entry.Message = truncateMessage(entry.Message)
	if entry.Timestamp.IsZero() {
		entry.Timestamp = m.now()
	}
	if entry.Redacted == nil {
		entry.Redacted = []RedactionEntry{}
	}

	m.entries = append(m.entries, entry)
	if overflow := len(m.entries) - m.maxEntries; overflow > 0 {
		m.entries = append([]ActivityEntry(nil), m.entries[overflow:]...)
	}
	return nil
}

// GetEntries returns up to limit entries, newest first, skipping offset
func (m *MemoryStore) GetEntries(ctx context.Context, limit int, offset int) ([]ActivityEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []ActivityEntry{}
	for i := len(m.entries) - 1 - offset; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.entries[i])
	}
	return result, nil
}

func (m *MemoryStore) GetEntriesCount(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func (m *MemoryStore) ClearEntries(ctx context.Context) error {
	m.mu.Lock()
	m.entries = nil
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) CreateUser(ctx context.Context, user User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	m.users = append(m.users, user)
	return nil
}

func (m *MemoryStore) ListUsers(ctx context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]User, len(m.users))
	copy(users, m.users)
	return users, nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *MemoryStore) CreateArticle(ctx context.Context, article NewsArticle) (NewsArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	article.ID = m.id()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = m.now()
	}
	m.articles = append(m.articles, article)
	return article, nil
}

// ListArticles returns stored articles, newest first
func (m *MemoryStore) ListArticles(ctx context.Context, limit int, offset int) ([]NewsArticle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []NewsArticle{}
	for i := len(m.articles) - 1 - offset; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.articles[i])
	}
	return result, nil
}

func (m *MemoryStore) RecordSearch(ctx context.Context, query SearchQuery) (SearchQuery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query.ID = m.id()
	if query.Timestamp.IsZero() {
		query.Timestamp = m.now()
	}
	m.searches = append(m.searches, query)
	return query, nil
}

// ListSearches returns the most recent searches first
func (m *MemoryStore) ListSearches(ctx context.Context, limit int) ([]SearchQuery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []SearchQuery{}
	for i := len(m.searches) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.searches[i])
	}
	return result, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
