package dto

import (
	"delivery-cost-service/internal/domain"
	"time"
)

type OrderLineResponse struct {
	Product     string  `json:"product"`
	Quantity    float64 `json:"quantity"`
	Center      string  `json:"center"`
	UnitWeight  float64 `json:"unitWeight"`
	TotalWeight float64 `json:"totalWeight"`
}

type QuoteResponse struct {
	Success          bool                `json:"success"`
	QuoteID          string              `json:"quoteId"`
	MinimumCost      float64             `json:"minimumCost"`
	OptimalRoute     []string            `json:"optimalRoute"`
	RouteDescription string              `json:"routeDescription"`
	TotalWeight      float64             `json:"totalWeight"`
	OrderDetails     []OrderLineResponse `json:"orderDetails"`
	CentersRequired  []string            `json:"centersRequired"`
	SkippedProducts  []string            `json:"skippedProducts"`
	CostPolicy       string              `json:"costPolicy"`
	RoutesEvaluated  int                 `json:"routesEvaluated"`
	Cached           bool                `json:"cached"`
	CreatedAt        time.Time           `json:"createdAt"`
}

func NewQuoteResponse(q *domain.Quote, cached bool) QuoteResponse {
	lines := make([]OrderLineResponse, 0, len(q.OrderDetails))
	for _, l := range q.OrderDetails {
		lines = append(lines, OrderLineResponse{
			Product:     l.Product,
			Quantity:    l.Quantity,
			Center:      l.Center,
			UnitWeight:  l.UnitWeight,
			TotalWeight: l.TotalWeight,
		})
	}

	skipped := q.SkippedProducts
	if skipped == nil {
		skipped = []string{}
	}

	return QuoteResponse{
		Success:          true,
		QuoteID:          q.ID,
		MinimumCost:      q.MinimumCost,
		OptimalRoute:     q.OptimalRoute,
		RouteDescription: q.RouteDescription,
		TotalWeight:      q.TotalWeight,
		OrderDetails:     lines,
		CentersRequired:  q.CentersRequired,
		SkippedProducts:  skipped,
		CostPolicy:       q.CostPolicy,
		RoutesEvaluated:  q.RoutesEvaluated,
		Cached:           cached,
		CreatedAt:        q.CreatedAt,
	}
}

type InvalidOrderResponse struct {
	Error   string         `json:"error"`
	Example map[string]int `json:"example"`
}

type NoProductsResponse struct {
	Error             string              `json:"error"`
	AvailableProducts map[string][]string `json:"availableProducts"`
	ReceivedOrder     OrderBody           `json:"receivedOrder"`
	SkippedProducts   []string            `json:"skippedProducts"`
}

type InvalidPolicyResponse struct {
	Error             string   `json:"error"`
	SupportedPolicies []string `json:"supportedPolicies"`
}
