package cache

import (
	"context"
	"database/sql"
	"delivery-cost-service/internal/domain"
	"delivery-cost-service/internal/platform/obs"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLite backed quote cache for single-node deployments and local runs.
type SqliteQuoteCache struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewSqliteQuoteCache(db *sql.DB) *SqliteQuoteCache {
	return &SqliteQuoteCache{DB: db, Now: time.Now}
}

// Fetch a cached quote. Expired rows are reported as a miss.
func (s *SqliteQuoteCache) Get(ctx context.Context, key string) (_ *domain.Quote, _ bool, err error) {
	defer obs.Time(ctx, "quote.cache.sqlite.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("quote cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get quote cache: key must not be empty")
	}

	q := `
	SELECT
		payload,
		expires_at
	FROM quote_cache
	WHERE cache_key = ?;
	`

	var payload string
	var exp int64
	if err := s.DB.QueryRowContext(ctx, q, key).Scan(&payload, &exp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get quote cache: query quote_cache table: %w", err)
	}

	if expired(s.Now(), exp) {
		return nil, false, nil
	}

	quote, err := decodeQuote([]byte(payload))
	if err != nil {
		return nil, false, fmt.Errorf("get quote cache: %w", err)
	}
	return quote, true, nil
}

// Store a quote, replacing any previous entry for the key.
func (s *SqliteQuoteCache) Put(ctx context.Context, key string, quote *domain.Quote, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "quote.cache.sqlite.Put")(&err)

	if s.DB == nil {
		return errors.New("quote cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert quote cache: key must not be empty")
	}

	payload, err := encodeQuote(quote)
	if err != nil {
		return fmt.Errorf("insert quote cache: %w", err)
	}

	q := `
	INSERT OR REPLACE INTO quote_cache (
		cache_key,
		payload,
		expires_at
	)
	VALUES (?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, key, string(payload), expiresAt(s.Now(), ttl)); err != nil {
		return fmt.Errorf("insert quote cache key=%q: %w", key, err)
	}

	return nil
}

// Delete expired entries and return how many were removed.
func (s *SqliteQuoteCache) PurgeExpired(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("quote cache: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, `
	DELETE FROM quote_cache
	WHERE expires_at <> 0
		AND expires_at <= ?;
	`, s.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("purge quote cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge quote cache: rows affected: %w", err)
	}
	return n, nil
}
