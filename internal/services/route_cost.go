package services

import (
	"delivery-cost-service/internal/domain"
	"errors"
	"fmt"
	"math"
	"strings"
)

// CostPolicy selects which weight prices a stop's segment.
type CostPolicy string

const (
	// PerCenterWeight prices each stop on the weight collected at that stop.
	PerCenterWeight CostPolicy = "per_center"
	// CumulativeWeight prices each stop on everything collected so far,
	// including that stop.
	CumulativeWeight CostPolicy = "cumulative"
)

// ParseCostPolicy maps a policy name to a CostPolicy. Empty means fallback.
func ParseCostPolicy(name string, fallback CostPolicy) (CostPolicy, error) {
	switch CostPolicy(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return fallback, nil
	case PerCenterWeight:
		return PerCenterWeight, nil
	case CumulativeWeight:
		return CumulativeWeight, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownCostPolicy, name)
	}
}

// Tariff is a stepped per-distance price: a flat rate covers the first
// FreeWeight units, and each started SurchargeStep above it adds
// SurchargeRate, both scaled by distance.
type Tariff struct {
	BaseRate      float64
	FreeWeight    float64
	SurchargeStep float64
	SurchargeRate float64
}

// DefaultTariff is the published delivery tariff.
var DefaultTariff = Tariff{
	BaseRate:      10,
	FreeWeight:    0.5,
	SurchargeStep: 5,
	SurchargeRate: 8,
}

// SegmentCost prices carrying weight over distance.
func (t Tariff) SegmentCost(weight, distance float64) float64 {
	base := t.BaseRate * distance
	extra := math.Max(0, weight-t.FreeWeight)
	surcharge := math.Ceil(extra/t.SurchargeStep) * t.SurchargeRate * distance
	return base + surcharge
}

// RouteCoster prices candidate routes against a catalog.
// It holds no mutable state and is safe for concurrent use.
type RouteCoster struct {
	Catalog *domain.Catalog
	Tariff  Tariff
	Policy  CostPolicy
}

// Cost returns the price of visiting route in order and delivering
// totalWeight to the catalog destination.
//
// Reaching the first stop is free. Every stop with collected weight adds
// one segment over the leg from the previous stop, priced on the weight the
// policy selects. The final leg always carries totalWeight.
func (c RouteCoster) Cost(route domain.Route, lines []domain.OrderLine, totalWeight float64) (float64, error) {
	if c.Catalog == nil {
		return 0, errors.New("route cost: catalog must be non-nil")
	}
	if len(route) == 0 {
		return 0, fmt.Errorf("route cost: %w", domain.ErrEmptyRouteSet)
	}

	collected := make(map[string]float64, len(route))
	for _, l := range lines {
		collected[l.Center] += l.TotalWeight
	}

	total := 0.0
	carried := 0.0

	for i, center := range route {
		centerWeight := collected[center]
		carried += centerWeight

		travel := 0.0
		if i > 0 {
			d, err := c.Catalog.Distance(route[i-1], center)
			if err != nil {
				return 0, fmt.Errorf("route cost: %w", err)
			}
			travel = d
		}

		if centerWeight > 0 {
			switch c.Policy {
			case PerCenterWeight, "":
				total += c.Tariff.SegmentCost(centerWeight, travel)
			case CumulativeWeight:
				total += c.Tariff.SegmentCost(carried, travel)
			default:
				return 0, fmt.Errorf("route cost: %w: %q", domain.ErrUnknownCostPolicy, c.Policy)
			}
		}
	}

	last := route[len(route)-1]
	final, err := c.Catalog.Distance(last, c.Catalog.Destination())
	if err != nil {
		return 0, fmt.Errorf("route cost: final leg: %w", err)
	}
	total += c.Tariff.SegmentCost(totalWeight, final)

	return total, nil
}
