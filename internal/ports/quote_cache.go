package ports

import (
	"context"
	"delivery-cost-service/internal/domain"
	"time"
)

// Port: a boundary for memoizing computed quotes.
// Implementations must treat a missing or expired key as a miss, not an error.
type QuoteCache interface {
	// Return the quote stored under key, if present and unexpired.
	Get(ctx context.Context, key string) (*domain.Quote, bool, error)
	// Store quote under key. A ttl <= 0 means no expiry.
	Put(ctx context.Context, key string, quote *domain.Quote, ttl time.Duration) error
}
