package domain

import (
	"strings"
	"time"
)

// Route is an ordered visit sequence over distinct centers.
// The trip to the catalog destination after the last center is implicit.
type Route []string

// Describe renders the route with its final leg, e.g. "C1 → C3 → L1".
func (r Route) Describe(destination string) string {
	parts := make([]string, 0, len(r)+1)
	parts = append(parts, r...)
	parts = append(parts, destination)
	return strings.Join(parts, " → ")
}

// RouteChoice is the cheapest route found by exhaustive search.
// Cost is rounded to two decimals; Evaluated counts the candidates priced.
type RouteChoice struct {
	Route     Route
	Cost      float64
	Evaluated int
}

// Represents a priced delivery for one order.
// A Quote is immutable planning data; cached quotes are returned verbatim.
type Quote struct {
	ID               string
	MinimumCost      float64
	OptimalRoute     Route
	RouteDescription string
	TotalWeight      float64
	OrderDetails     []OrderLine
	CentersRequired  []string
	SkippedProducts  []string
	CostPolicy       string
	RoutesEvaluated  int
	CreatedAt        time.Time
}
