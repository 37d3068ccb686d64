package services

import (
	"delivery-cost-service/internal/domain"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentCost(t *testing.T) {
	tests := []struct {
		weight, distance, want float64
	}{
		{6, 4, 104},     // base 40 + ceil(5.5/5)=2 steps * 8 * 4
		{0.5, 4, 40},    // no surcharge at the free weight
		{0.6, 1, 18},    // any excess starts a step
		{5.5, 1, 18},    // exactly one step
		{5.6, 1, 26},    // second step started
		{15.5, 2.5, 85}, // 25 + 3*8*2.5
		{100, 0, 0},     // no distance, no cost
	}

	for _, tt := range tests {
		got := DefaultTariff.SegmentCost(tt.weight, tt.distance)
		if got != tt.want {
			t.Errorf("SegmentCost(%v, %v) = %v, want %v", tt.weight, tt.distance, got, tt.want)
		}
	}
}

func TestSegmentCostMonotonic(t *testing.T) {
	weights := []float64{0, 0.25, 0.5, 0.6, 3, 5.5, 5.6, 10.5, 12, 40}
	distances := []float64{0, 0.5, 1, 2.5, 3, 4, 10}

	for _, d := range distances {
		for i := 1; i < len(weights); i++ {
			prev := DefaultTariff.SegmentCost(weights[i-1], d)
			cur := DefaultTariff.SegmentCost(weights[i], d)
			assert.LessOrEqual(t, prev, cur, "weight %v -> %v at distance %v", weights[i-1], weights[i], d)
		}
	}
	for _, w := range weights {
		for i := 1; i < len(distances); i++ {
			prev := DefaultTariff.SegmentCost(w, distances[i-1])
			cur := DefaultTariff.SegmentCost(w, distances[i])
			assert.LessOrEqual(t, prev, cur, "distance %v -> %v at weight %v", distances[i-1], distances[i], w)
		}
	}
}

func threeCenterLines() []domain.OrderLine {
	return []domain.OrderLine{
		{Product: "A", Quantity: 1, Center: "C1", UnitWeight: 3, TotalWeight: 3},
		{Product: "D", Quantity: 1, Center: "C2", UnitWeight: 12, TotalWeight: 12},
		{Product: "G", Quantity: 1, Center: "C3", UnitWeight: 0.5, TotalWeight: 0.5},
	}
}

func TestRouteCostPerCenter(t *testing.T) {
	coster := RouteCoster{Catalog: defaultCatalog(t), Tariff: DefaultTariff, Policy: PerCenterWeight}
	lines := threeCenterLines()

	want := map[string]float64{
		"C1,C2,C3": 234,
		"C1,C3,C2": 207,
		"C2,C1,C3": 176,
		"C2,C3,C1": 202,
		"C3,C1,C2": 223,
		"C3,C2,C1": 292,
	}

	for _, route := range enumerateRoutes([]string{"C1", "C2", "C3"}) {
		got, err := coster.Cost(route, lines, 15.5)
		require.NoError(t, err)
		assert.Equal(t, want[joinRoute(route)], got, "route %v", route)
	}
}

func TestRouteCostCumulative(t *testing.T) {
	coster := RouteCoster{Catalog: defaultCatalog(t), Tariff: DefaultTariff, Policy: CumulativeWeight}
	lines := threeCenterLines()

	want := map[string]float64{
		"C1,C2,C3": 306,
		"C1,C3,C2": 223,
		"C2,C1,C3": 272,
		"C2,C3,C1": 306,
		"C3,C1,C2": 223,
		"C3,C2,C1": 340,
	}

	for _, route := range enumerateRoutes([]string{"C1", "C2", "C3"}) {
		got, err := coster.Cost(route, lines, 15.5)
		require.NoError(t, err)
		assert.Equal(t, want[joinRoute(route)], got, "route %v", route)
	}
}

func TestRouteCostFirstStopIsFree(t *testing.T) {
	coster := RouteCoster{Catalog: defaultCatalog(t), Tariff: DefaultTariff, Policy: PerCenterWeight}
	lines := []domain.OrderLine{{Product: "A", Quantity: 2, Center: "C1", UnitWeight: 3, TotalWeight: 6}}

	got, err := coster.Cost(domain.Route{"C1"}, lines, 6)
	require.NoError(t, err)
	assert.Equal(t, 104.0, got)
}

func TestRouteCostIsPure(t *testing.T) {
	coster := RouteCoster{Catalog: defaultCatalog(t), Tariff: DefaultTariff, Policy: CumulativeWeight}
	lines := threeCenterLines()
	route := domain.Route{"C3", "C1", "C2"}

	first, err := coster.Cost(route, lines, 15.5)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := coster.Cost(domain.Route{"C3", "C1", "C2"}, lines, 15.5)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRouteCostErrors(t *testing.T) {
	c := defaultCatalog(t)
	lines := threeCenterLines()

	_, err := RouteCoster{Catalog: c, Tariff: DefaultTariff}.Cost(domain.Route{}, lines, 1)
	assert.True(t, errors.Is(err, domain.ErrEmptyRouteSet))

	_, err = RouteCoster{Catalog: c, Tariff: DefaultTariff}.Cost(domain.Route{"C1", "C9"}, lines, 1)
	assert.True(t, errors.Is(err, domain.ErrUnknownLeg))

	_, err = RouteCoster{Catalog: c, Tariff: DefaultTariff, Policy: "average"}.Cost(domain.Route{"C1"}, lines, 1)
	assert.True(t, errors.Is(err, domain.ErrUnknownCostPolicy))

	_, err = RouteCoster{Tariff: DefaultTariff}.Cost(domain.Route{"C1"}, lines, 1)
	assert.Error(t, err)
}

func TestParseCostPolicy(t *testing.T) {
	p, err := ParseCostPolicy("", CumulativeWeight)
	require.NoError(t, err)
	assert.Equal(t, CumulativeWeight, p)

	p, err = ParseCostPolicy(" Per_Center ", CumulativeWeight)
	require.NoError(t, err)
	assert.Equal(t, PerCenterWeight, p)

	_, err = ParseCostPolicy("average", PerCenterWeight)
	assert.True(t, errors.Is(err, domain.ErrUnknownCostPolicy))
}

func joinRoute(r domain.Route) string {
	out := ""
	for i, c := range r {
		if i > 0 {
			out += ","
		}
		out += c
	}
	return out
}
