package services

import (
	"context"
	"delivery-cost-service/internal/domain"
	"delivery-cost-service/internal/platform/obs"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu   sync.Mutex
	m    map[string]*domain.Quote
	puts int
	err  error
}

func newMapCache() *mapCache { return &mapCache{m: map[string]*domain.Quote{}} }

func (c *mapCache) Get(ctx context.Context, key string) (*domain.Quote, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	q, ok := c.m[key]
	return q, ok, nil
}

func (c *mapCache) Put(ctx context.Context, key string, q *domain.Quote, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.puts++
	c.m[key] = q
	return nil
}

func newTestQuoteService(t *testing.T, cache *mapCache) (*QuoteService, *obs.Metrics) {
	t.Helper()
	metrics := obs.NewMetrics()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var svc *QuoteService
	if cache == nil {
		svc = NewQuoteService(defaultCatalog(t), nil, metrics, logger)
	} else {
		svc = NewQuoteService(defaultCatalog(t), cache, metrics, logger)
	}

	n := 0
	svc.NewID = func() string { n++; return "q-" + string(rune('0'+n)) }
	svc.Now = func() time.Time { return time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC) }
	return svc, metrics
}

func TestQuoteServiceComputesQuote(t *testing.T) {
	svc, metrics := newTestQuoteService(t, nil)

	q, cached, err := svc.Quote(context.Background(), domain.Order{
		{Product: "A", Quantity: 1},
		{Product: "D", Quantity: 1},
		{Product: "G", Quantity: 1},
		{Product: "Z", Quantity: 2},
	}, "")
	require.NoError(t, err)
	assert.False(t, cached)

	assert.Equal(t, "q-1", q.ID)
	assert.Equal(t, 176.0, q.MinimumCost)
	assert.Equal(t, domain.Route{"C2", "C1", "C3"}, q.OptimalRoute)
	assert.Equal(t, "C2 → C1 → C3 → L1", q.RouteDescription)
	assert.Equal(t, 15.5, q.TotalWeight)
	assert.Equal(t, []string{"C1", "C2", "C3"}, q.CentersRequired)
	assert.Equal(t, []string{"Z"}, q.SkippedProducts)
	assert.Equal(t, "per_center", q.CostPolicy)
	assert.Equal(t, 6, q.RoutesEvaluated)
	assert.Len(t, q.OrderDetails, 3)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Quotes.WithLabelValues("computed")))
}

func TestQuoteServicePolicyOverride(t *testing.T) {
	svc, _ := newTestQuoteService(t, nil)

	q, _, err := svc.Quote(context.Background(), domain.Order{
		{Product: "A", Quantity: 1},
		{Product: "D", Quantity: 1},
		{Product: "G", Quantity: 1},
	}, CumulativeWeight)
	require.NoError(t, err)

	assert.Equal(t, domain.Route{"C1", "C3", "C2"}, q.OptimalRoute)
	assert.Equal(t, 223.0, q.MinimumCost)
	assert.Equal(t, "cumulative", q.CostPolicy)
}

func TestQuoteServiceErrors(t *testing.T) {
	svc, metrics := newTestQuoteService(t, nil)
	ctx := context.Background()

	_, _, err := svc.Quote(ctx, domain.Order{}, "")
	assert.True(t, errors.Is(err, domain.ErrInvalidOrder))

	_, _, err = svc.Quote(ctx, domain.Order{{Product: "X", Quantity: 1}, {Product: "A", Quantity: 0}}, "")
	require.True(t, errors.Is(err, domain.ErrNoRecognizedProducts))
	var upe *domain.UnrecognizedProductsError
	require.True(t, errors.As(err, &upe))
	assert.Equal(t, []string{"X"}, upe.Products)

	_, _, err = svc.Quote(ctx, domain.Order{{Product: "A", Quantity: 1}}, "average")
	assert.True(t, errors.Is(err, domain.ErrUnknownCostPolicy))

	svc.MaxCenters = 1
	_, _, err = svc.Quote(ctx, domain.Order{{Product: "A", Quantity: 1}, {Product: "D", Quantity: 1}}, "")
	assert.True(t, errors.Is(err, domain.ErrTooManyCenters))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Quotes.WithLabelValues("no_products")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Quotes.WithLabelValues("invalid_order")))
}

func TestQuoteServiceCachesQuotes(t *testing.T) {
	cache := newMapCache()
	svc, metrics := newTestQuoteService(t, cache)
	ctx := context.Background()
	order := domain.Order{{Product: "A", Quantity: 2}, {Product: "E", Quantity: 1}}

	first, cached, err := svc.Quote(ctx, order, "")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 1, cache.puts)

	second, cached, err := svc.Quote(ctx, order, "")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first, second)

	// A different policy is a different quote.
	third, cached, err := svc.Quote(ctx, order, CumulativeWeight)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.NotEqual(t, first.ID, third.ID)

	// Item order is part of the key.
	_, cached, err = svc.Quote(ctx, domain.Order{{Product: "E", Quantity: 1}, {Product: "A", Quantity: 2}}, "")
	require.NoError(t, err)
	assert.False(t, cached)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("miss")))
}

func TestQuoteServiceSurvivesCacheFailure(t *testing.T) {
	cache := newMapCache()
	cache.err = errors.New("backend down")
	svc, metrics := newTestQuoteService(t, cache)

	q, cached, err := svc.Quote(context.Background(), domain.Order{{Product: "A", Quantity: 2}}, "")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 104.0, q.MinimumCost)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("error")))
}
