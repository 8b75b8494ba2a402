// Package cache stores generated responses in buntdb so identical prompts
// are not sent to the text-generation provider twice.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hannes/kanoon/src/backend/config"
	"github.com/tidwall/buntdb"
	"go.uber.org/zap"
)

const (
	ResponseTable = "responses"

	DefaultMaxEntries = 100
	DefaultTTL        = time.Hour

	createdIndex = "responses_created"
)

type entry struct {
	Operation string `json:"operation"`
	Value     string `json:"value"`
	Created   int64  `json:"created"`
}

// ResponseCache is a bounded TTL cache of generated text
type ResponseCache struct {
	db         *buntdb.DB
	maxEntries int
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// New opens the cache at cfg.Path (":memory:" keeps it in memory)
func New(cfg config.CacheConfig, logger *zap.Logger) (*ResponseCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open response cache: %w", err)
	}

	if err := db.CreateIndex(createdIndex, ResponseTable+":*", buntdb.IndexJSON("created")); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache index: %w", err)
	}

	if path != ":memory:" {
		if err := db.Shrink(); err != nil {
			logger.Debug("cache shrink skipped", zap.Error(err))
		}
	}

	return &ResponseCache{
		db:         db,
		maxEntries: maxEntries,
		ttl:        ttl,
		logger:     logger.Named("cache"),
		now:        time.Now,
	}, nil
}

// Key hashes the operation and the whitespace-normalized input
func Key(operation, input string) string {
	normalized := strings.Join(strings.Fields(input), " ")
	sum := sha256.Sum256([]byte(operation + "\x00" + normalized))
	return ResponseTable + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached value for operation and input
func (c *ResponseCache) Get(operation, input string) (string, bool) {
	var raw string
	err := c.db.View(func(tx *buntdb.Tx) error {
		var err error
		raw, err = tx.Get(Key(operation, input))
		return err
	})
	if err != nil {
		if !errors.Is(err, buntdb.ErrNotFound) {
			c.logger.Warn("cache read failed", zap.Error(err))
		}
		return "", false
	}

	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		c.logger.Warn("corrupt cache entry", zap.Error(err))
		return "", false
	}
	return e.Value, true
}

// Set stores value and evicts the oldest entries beyond the size limit
func (c *ResponseCache) Set(operation, input, value string) error {
	jf, err := json.Marshal(entry{
		Operation: operation,
		Value:     value,
		Created:   c.now().UnixNano(),
	})
	if err != nil {
		return err
	}

	return c.db.Update(func(tx *buntdb.Tx) error {
		if _, _, err := tx.Set(Key(operation, input), string(jf), &buntdb.SetOptions{Expires: true, TTL: c.ttl}); err != nil {
			return err
		}

		var keys []string
		if err := tx.Ascend(createdIndex, func(key, _ string) bool {
			keys = append(keys, key)
			return true
		}); err != nil {
			return err
		}

		for i := 0; i < len(keys)-c.maxEntries; i++ {
			if _, err := tx.Delete(keys[i]); err != nil && !errors.Is(err, buntdb.ErrNotFound) {
				return err
			}
		}
		return nil
	})
}

// Len returns the number of live entries
func (c *ResponseCache) Len() int {
	n := 0
	_ = c.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend(createdIndex, func(_, _ string) bool {
			n++
			return true
		})
	})
	return n
}

// Clear removes every cached response
func (c *ResponseCache) Clear() error {
	return c.db.Update(func(tx *buntdb.Tx) error {
		var keys []string
		if err := tx.AscendKeys(ResponseTable+":*", func(key, _ string) bool {
			keys = append(keys, key)
			return true
		}); err != nil {
			return err
		}
		for _, k := range keys {
			if _, err := tx.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *ResponseCache) Close() error {
	return c.db.Close()
}
