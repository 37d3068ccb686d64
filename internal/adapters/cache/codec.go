package cache

import (
	"delivery-cost-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

func encodeQuote(q *domain.Quote) ([]byte, error) {
	if q == nil {
		return nil, errors.New("encode quote: quote is nil")
	}
	b, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encode quote: %w", err)
	}
	return b, nil
}

func decodeQuote(b []byte) (*domain.Quote, error) {
	var q domain.Quote
	if err := json.Unmarshal(b, &q); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	return &q, nil
}

// expiresAt converts a ttl into the unix-seconds column value; 0 never expires.
func expiresAt(now time.Time, ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return now.Add(ttl).Unix()
}

func expired(now time.Time, expiresAt int64) bool {
	return expiresAt != 0 && expiresAt <= now.Unix()
}
