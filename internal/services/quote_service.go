package services

import (
	"context"
	"crypto/sha256"
	"delivery-cost-service/internal/domain"
	"delivery-cost-service/internal/platform/obs"
	"delivery-cost-service/internal/ports"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// QuoteService prices orders against a fixed catalog.
//
// It resolves the order, searches every route over the required centers,
// and memoizes the resulting quote. Cache is optional; cache failures are
// logged and never fail a quote.
type QuoteService struct {
	Catalog       *domain.Catalog
	Tariff        Tariff
	DefaultPolicy CostPolicy
	MaxCenters    int
	Cache         ports.QuoteCache
	CacheTTL      time.Duration
	Metrics       *obs.Metrics
	Logger        *slog.Logger

	Now   func() time.Time
	NewID func() string
}

func NewQuoteService(catalog *domain.Catalog, cache ports.QuoteCache, metrics *obs.Metrics, logger *slog.Logger) *QuoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteService{
		Catalog:       catalog,
		Tariff:        DefaultTariff,
		DefaultPolicy: PerCenterWeight,
		MaxCenters:    DefaultMaxCenters,
		Cache:         cache,
		CacheTTL:      10 * time.Minute,
		Metrics:       metrics,
		Logger:        logger,
		Now:           time.Now,
		NewID:         uuid.NewString,
	}
}

// Quote returns the cheapest delivery for order under policy, and whether
// it was served from the cache. An empty policy selects DefaultPolicy.
func (s *QuoteService) Quote(ctx context.Context, order domain.Order, policy CostPolicy) (_ *domain.Quote, cached bool, err error) {
	ctx, span := obs.Tracer().Start(ctx, "QuoteService.Quote")
	defer span.End()
	defer obs.Time(ctx, "quote.compute")(&err)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if s.Catalog == nil {
		return nil, false, errors.New("quote: catalog must be non-nil")
	}

	policy, err = ParseCostPolicy(string(policy), s.DefaultPolicy)
	if err != nil {
		s.Metrics.ObserveQuote("invalid_policy", 0)
		return nil, false, fmt.Errorf("quote: %w", err)
	}
	span.SetAttributes(
		attribute.String("quote.policy", string(policy)),
		attribute.Int("quote.items", len(order)),
	)

	if len(order) == 0 {
		s.Metrics.ObserveQuote("invalid_order", 0)
		return nil, false, fmt.Errorf("quote: %w: order has no entries", domain.ErrInvalidOrder)
	}

	key := s.cacheKey(order, policy)
	if q, ok := s.lookup(ctx, key); ok {
		span.SetAttributes(attribute.Bool("quote.cached", true))
		s.Metrics.ObserveQuote("cached", 0)
		return q, true, nil
	}

	res, err := ResolveOrder(order, s.Catalog)
	if err != nil {
		s.Metrics.ObserveQuote("invalid_order", 0)
		return nil, false, fmt.Errorf("quote: %w", err)
	}
	for _, p := range res.Skipped {
		s.Logger.DebugContext(ctx, "product not found in inventory", "product", p)
	}

	if len(res.Centers) == 0 || len(res.Lines) == 0 {
		s.Metrics.ObserveQuote("no_products", 0)
		return nil, false, fmt.Errorf("quote: %w", &domain.UnrecognizedProductsError{Products: res.Skipped})
	}

	coster := RouteCoster{Catalog: s.Catalog, Tariff: s.Tariff, Policy: policy}
	choice, err := OptimizeRoute(res.Centers, res.Lines, coster, s.MaxCenters)
	if err != nil {
		s.Metrics.ObserveQuote("error", 0)
		return nil, false, fmt.Errorf("quote: %w", err)
	}
	span.SetAttributes(
		attribute.Int("quote.centers", len(res.Centers)),
		attribute.Int("quote.routes_evaluated", choice.Evaluated),
	)

	q := &domain.Quote{
		ID:               s.NewID(),
		MinimumCost:      choice.Cost,
		OptimalRoute:     choice.Route,
		RouteDescription: choice.Route.Describe(s.Catalog.Destination()),
		TotalWeight:      res.TotalWeight(),
		OrderDetails:     res.Lines,
		CentersRequired:  res.Centers,
		SkippedProducts:  res.Skipped,
		CostPolicy:       string(policy),
		RoutesEvaluated:  choice.Evaluated,
		CreatedAt:        s.Now().UTC(),
	}

	s.Logger.InfoContext(ctx, "quote computed",
		"quote_id", q.ID,
		"policy", q.CostPolicy,
		"route", q.RouteDescription,
		"cost", q.MinimumCost,
		"routes_evaluated", q.RoutesEvaluated,
	)
	s.Metrics.ObserveQuote("computed", choice.Evaluated)

	s.store(ctx, key, q)
	return q, false, nil
}

func (s *QuoteService) lookup(ctx context.Context, key string) (*domain.Quote, bool) {
	if s.Cache == nil {
		return nil, false
	}

	q, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		s.Metrics.ObserveCacheLookup("error")
		s.Logger.WarnContext(ctx, "quote cache get failed", "err", err)
		return nil, false
	}
	if !ok {
		s.Metrics.ObserveCacheLookup("miss")
		return nil, false
	}
	s.Metrics.ObserveCacheLookup("hit")
	return q, true
}

func (s *QuoteService) store(ctx context.Context, key string, q *domain.Quote) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Put(ctx, key, q, s.CacheTTL); err != nil {
		s.Logger.WarnContext(ctx, "quote cache put failed", "quote_id", q.ID, "err", err)
	}
}

// cacheKey fingerprints everything a quote depends on. Item order is kept
// because it decides which route wins a cost tie.
func (s *QuoteService) cacheKey(order domain.Order, policy CostPolicy) string {
	var b strings.Builder
	b.WriteString(s.Catalog.Version())
	b.WriteByte('|')
	b.WriteString(string(policy))
	fmt.Fprintf(&b, "|%v/%v/%v/%v|%d", s.Tariff.BaseRate, s.Tariff.FreeWeight, s.Tariff.SurchargeStep, s.Tariff.SurchargeRate, s.MaxCenters)
	for _, item := range order {
		b.WriteByte('|')
		b.WriteString(strconv.Quote(item.Product))
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(item.Quantity, 'g', -1, 64))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return "quote:" + hex.EncodeToString(sum[:])
}
