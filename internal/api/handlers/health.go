package handlers

import (
	"delivery-cost-service/internal/api/dto"
	"delivery-cost-service/internal/domain"
	"fmt"
	"net/http"
	"time"
)

// InfoHandler serves the read-only service endpoints.
type InfoHandler struct {
	Catalog *domain.Catalog
	Version string
	Started time.Time
	Now     func() time.Time
}

func (h *InfoHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Health provides a minimal liveness check endpoint.
func (h *InfoHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	WriteJSON(w, r, http.StatusOK, dto.HealthResponse{
		Status:    "healthy",
		Uptime:    now.Sub(h.Started).Seconds(),
		Timestamp: timestamp(now),
	})
}

func (h *InfoHandler) Test(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, http.StatusOK, dto.TestResponse{
		Message:   "API is working perfectly!",
		Timestamp: timestamp(h.now()),
		Server:    fmt.Sprintf("Logistics API v%s", h.Version),
	})
}

// Root describes the service and how to call it.
func (h *InfoHandler) Root(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, http.StatusOK, dto.InfoResponse{
		Message: "Logistics Delivery Cost API is running successfully!",
		Version: h.Version,
		Endpoints: map[string]string{
			"test":      "GET /test",
			"health":    "GET /health",
			"catalog":   "GET /catalog",
			"calculate": "POST /calculate-delivery-cost",
			"metrics":   "GET /metrics",
		},
		AvailableProducts: h.Catalog.AvailableProducts(),
		SampleRequest:     map[string]int{"A": 2, "D": 1, "G": 3},
	})
}

func (h *InfoHandler) CatalogView(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, http.StatusOK, dto.NewCatalogResponse(h.Catalog))
}
