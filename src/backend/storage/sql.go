package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hannes/kanoon/src/backend/config"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type dialect string

const (
	dialectSQLite   dialect = "sqlite"
	dialectPostgres dialect = "postgres"
)

// SQLStore implements Store on SQLite or PostgreSQL
type SQLStore struct {
	db         *sql.DB
	dialect    dialect
	maxEntries int
	logger     *zap.Logger
	now        func() time.Time
}

func newSQLStore(db *sql.DB, d dialect, maxEntries int, logger *zap.Logger) *SQLStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxLogEntries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLStore{
		db:         db,
		dialect:    d,
		maxEntries: maxEntries,
		logger:     logger.Named("storage"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// NewSQLiteStore opens (creating if needed) the SQLite database at cfg.Path
// and runs the migrations
func NewSQLiteStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*SQLStore, error) {
	dbPath := cfg.Path
	if dbPath == "" {
		dbPath = "kanoon.db"
	}

	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// SQLite works best with a single writer connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(ctx, db, dialectSQLite); err != nil {
		db.Close()
		return nil, err
	}

	return newSQLStore(db, dialectSQLite, cfg.MaxLogEntries, logger), nil
}

// NewPostgresStore connects to PostgreSQL and runs the migrations
func NewPostgresStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*SQLStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, cfg.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(ctx, db, dialectPostgres); err != nil {
		db.Close()
		return nil, err
	}

	return newSQLStore(db, dialectPostgres, cfg.MaxLogEntries, logger), nil
}

// rebind rewrites '?' placeholders to '$n' for PostgreSQL
func (s *SQLStore) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

func (s *SQLStore) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.rebind(query), args...)
}

func (s *SQLStore) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

// insertReturningID runs an INSERT and reports the generated id
func (s *SQLStore) insertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	if s.dialect == dialectPostgres {
		var id int64
		err := s.queryRow(ctx, query+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	result, err := s.exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// InsertEntry inserts an activity entry and trims the log to maxEntries
func (s *SQLStore) InsertEntry(ctx context.Context, entry ActivityEntry) error {
	message := truncateMessage(entry.Message)

	redacted := entry.Redacted
	if redacted == nil {
		redacted = []RedactionEntry{}
	}
	redactedJSON, err := json.Marshal(redacted)
	if err != nil {
		return fmt.Errorf("failed to marshal redactions: %w", err)
	}

	ts := entry.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	_, err = s.exec(ctx,
		`INSERT INTO activity (timestamp, direction, intent, message, redacted) VALUES (?, ?, ?, ?, ?)`,
		ts.UTC(), string(entry.Direction), entry.Intent, message, string(redactedJSON))
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	_, err = s.exec(ctx,
		`DELETE FROM activity WHERE id <= (SELECT id FROM activity ORDER BY id DESC LIMIT 1 OFFSET ?)`,
		s.maxEntries)
	if err != nil {
		s.logger.Warn("failed to trim activity log", zap.Error(err))
	}

	return nil
}

// GetEntries returns activity entries, newest first
func (s *SQLStore) GetEntries(ctx context.Context, limit int, offset int) ([]ActivityEntry, error) {
	rows, err := s.query(ctx,
		`SELECT id, timestamp, direction, intent, message, redacted FROM activity ORDER BY id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	entries := []ActivityEntry{}
	for rows.Next() {
		var entry ActivityEntry
		var direction string
		var message sql.NullString
		var redactedJSON string

		if err := rows.Scan(&entry.ID, &entry.Timestamp, &direction, &entry.Intent, &message, &redactedJSON); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		entry.Direction = Direction(direction)
		entry.Message = message.String

		if err := json.Unmarshal([]byte(redactedJSON), &entry.Redacted); err != nil {
			return nil, fmt.Errorf("failed to unmarshal redactions: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return entries, nil
}

func (s *SQLStore) GetEntriesCount(ctx context.Context) (int, error) {
	var count int
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM activity`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get activity count: %w", err)
	}
	return count, nil
}

func (s *SQLStore) ClearEntries(ctx context.Context) error {
	if _, err := s.exec(ctx, `DELETE FROM activity`); err != nil {
		return fmt.Errorf("failed to clear activity: %w", err)
	}
	s.logger.Info("activity log cleared")
	return nil
}

func (s *SQLStore) CreateUser(ctx context.Context, user User) error {
	if _, err := s.GetUserByEmail(ctx, user.Email); err == nil {
		return ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	permissions := user.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	permissionsJSON, err := json.Marshal(permissions)
	if err != nil {
		return fmt.Errorf("failed to marshal permissions: %w", err)
	}

	_, err = s.exec(ctx,
		`INSERT INTO users (id, name, email, role, is_active, password_hash, permissions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, strings.ToLower(user.Email), user.Role, user.IsActive, user.PasswordHash,
		string(permissionsJSON), user.CreatedAt.UTC(), user.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

const userColumns = `id, name, email, role, is_active, password_hash, permissions, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	var permissionsJSON string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.IsActive, &u.PasswordHash,
		&permissionsJSON, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	if err := json.Unmarshal([]byte(permissionsJSON), &u.Permissions); err != nil {
		return User{}, fmt.Errorf("failed to unmarshal permissions: %w", err)
	}
	return u, nil
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(s.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, strings.ToLower(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *SQLStore) CreateArticle(ctx context.Context, article NewsArticle) (NewsArticle, error) {
	if article.CreatedAt.IsZero() {
		article.CreatedAt = s.now()
	}
	id, err := s.insertReturningID(ctx,
		`INSERT INTO news_articles (title, description, url, image, source, published_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		article.Title, article.Description, article.URL, article.Image, article.Source,
		article.PublishedAt.UTC(), article.CreatedAt.UTC())
	if err != nil {
		return NewsArticle{}, fmt.Errorf("failed to insert article: %w", err)
	}
	article.ID = id
	return article, nil
}

func (s *SQLStore) ListArticles(ctx context.Context, limit int, offset int) ([]NewsArticle, error) {
	rows, err := s.query(ctx,
		`SELECT id, title, description, url, image, source, published_at, created_at FROM news_articles ORDER BY id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := []NewsArticle{}
	for rows.Next() {
		var a NewsArticle
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.URL, &a.Image, &a.Source, &a.PublishedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (s *SQLStore) RecordSearch(ctx context.Context, query SearchQuery) (SearchQuery, error) {
	if query.Timestamp.IsZero() {
		query.Timestamp = s.now()
	}
	id, err := s.insertReturningID(ctx,
		`INSERT INTO search_queries (query, results_found, timestamp) VALUES (?, ?, ?)`,
		query.Query, query.ResultsFound, query.Timestamp.UTC())
	if err != nil {
		return SearchQuery{}, fmt.Errorf("failed to record search: %w", err)
	}
	query.ID = id
	return query, nil
}

func (s *SQLStore) ListSearches(ctx context.Context, limit int) ([]SearchQuery, error) {
	rows, err := s.query(ctx,
		`SELECT id, query, results_found, timestamp FROM search_queries ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	defer rows.Close()

	searches := []SearchQuery{}
	for rows.Next() {
		var q SearchQuery
		if err := rows.Scan(&q.ID, &q.Query, &q.ResultsFound, &q.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		searches = append(searches, q)
	}
	return searches, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
