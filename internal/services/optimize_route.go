package services

import (
	"delivery-cost-service/internal/domain"
	"fmt"
	"math"
)

// DefaultMaxCenters bounds exhaustive search at 8! = 40320 candidates.
const DefaultMaxCenters = 8

// OptimizeRoute prices every route over centers and returns the cheapest.
//
// Candidates are compared with a strict less-than, so the earliest
// enumerated route wins a tie. maxCenters <= 0 disables the size guard.
// The returned cost is rounded to two decimals.
func OptimizeRoute(
	centers []string,
	lines []domain.OrderLine,
	coster RouteCoster,
	maxCenters int,
) (domain.RouteChoice, error) {
	if len(centers) == 0 {
		return domain.RouteChoice{}, fmt.Errorf("optimize route: %w", domain.ErrEmptyRouteSet)
	}
	if maxCenters > 0 && len(centers) > maxCenters {
		return domain.RouteChoice{}, fmt.Errorf(
			"optimize route: %w: %d centers, limit %d",
			domain.ErrTooManyCenters, len(centers), maxCenters,
		)
	}

	totalWeight := domain.TotalWeight(lines)

	var best domain.Route
	minCost := math.Inf(1)
	evaluated := 0

	for route := range Routes(centers) {
		cost, err := coster.Cost(route, lines, totalWeight)
		if err != nil {
			return domain.RouteChoice{}, fmt.Errorf("optimize route: price %v: %w", route, err)
		}
		evaluated++
		if math.IsNaN(cost) || math.IsInf(cost, 0) {
			return domain.RouteChoice{}, fmt.Errorf("optimize route: price %v: cost is not finite (%v)", route, cost)
		}

		if cost < minCost {
			minCost = cost
			best = route
		}
	}

	if best == nil {
		return domain.RouteChoice{}, fmt.Errorf("optimize route: %w", domain.ErrEmptyRouteSet)
	}

	return domain.RouteChoice{
		Route:     best,
		Cost:      RoundCost(minCost),
		Evaluated: evaluated,
	}, nil
}

// RoundCost rounds a monetary amount to two decimals.
func RoundCost(v float64) float64 {
	return math.Round(v*100) / 100
}
