package handlers

import (
	"context"
	"delivery-cost-service/internal/api/dto"
	"delivery-cost-service/internal/domain"
	"delivery-cost-service/internal/services"
	"errors"
	"log/slog"
	"net/http"
)

// maxOrderBytes caps the request body of a cost calculation.
const maxOrderBytes = 1 << 20

// QuoteCalculator prices an order. Implemented by *services.QuoteService.
type QuoteCalculator interface {
	Quote(ctx context.Context, order domain.Order, policy services.CostPolicy) (*domain.Quote, bool, error)
}

type QuoteHandler struct {
	Service QuoteCalculator
	Catalog *domain.Catalog
}

// Calculate decodes an order, prices it, and maps domain failures to
// client or server errors.
func (h *QuoteHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	order, err := dto.DecodeOrder(http.MaxBytesReader(w, r.Body, maxOrderBytes))
	if err != nil {
		slog.DebugContext(r.Context(), "rejected order body", "err", err)
		writeInvalidOrder(w, r)
		return
	}

	policy := services.CostPolicy(r.URL.Query().Get("policy"))

	q, cached, err := h.Service.Quote(r.Context(), order, policy)
	if err != nil {
		h.writeQuoteError(w, r, order, err)
		return
	}

	WriteJSON(w, r, http.StatusOK, dto.NewQuoteResponse(q, cached))
}

func (h *QuoteHandler) writeQuoteError(w http.ResponseWriter, r *http.Request, order domain.Order, err error) {
	var unrecognized *domain.UnrecognizedProductsError

	switch {
	case errors.Is(err, domain.ErrUnknownCostPolicy):
		WriteJSON(w, r, http.StatusBadRequest, dto.InvalidPolicyResponse{
			Error:             "unsupported cost policy",
			SupportedPolicies: []string{string(services.PerCenterWeight), string(services.CumulativeWeight)},
		})
	case errors.Is(err, domain.ErrInvalidOrder):
		writeInvalidOrder(w, r)
	case errors.As(err, &unrecognized):
		skipped := unrecognized.Products
		if skipped == nil {
			skipped = []string{}
		}
		WriteJSON(w, r, http.StatusBadRequest, dto.NoProductsResponse{
			Error:             "No valid products found in order",
			AvailableProducts: h.Catalog.AvailableProducts(),
			ReceivedOrder:     dto.OrderBody(order),
			SkippedProducts:   skipped,
		})
	default:
		slog.ErrorContext(r.Context(), "calculate delivery cost failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func writeInvalidOrder(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, http.StatusBadRequest, dto.InvalidOrderResponse{
		Error:   "Invalid order format. Please provide a valid order object.",
		Example: map[string]int{"A": 2, "D": 1},
	})
}
