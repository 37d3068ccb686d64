package dto

import "delivery-cost-service/internal/domain"

type InfoResponse struct {
	Message           string              `json:"message"`
	Version           string              `json:"version"`
	Endpoints         map[string]string   `json:"endpoints"`
	AvailableProducts map[string][]string `json:"availableProducts"`
	SampleRequest     map[string]int      `json:"sampleRequest"`
}

type TestResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Server    string `json:"server"`
}

type HealthResponse struct {
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime"`
	Timestamp string  `json:"timestamp"`
}

type NotFoundResponse struct {
	Error           string   `json:"error"`
	AvailableRoutes []string `json:"availableRoutes"`
}

type ProductResponse struct {
	ID         string  `json:"id"`
	UnitWeight float64 `json:"unitWeight"`
}

type CenterResponse struct {
	ID        string             `json:"id"`
	Products  []ProductResponse  `json:"products"`
	Distances map[string]float64 `json:"distances"`
}

type CatalogResponse struct {
	Version     string           `json:"version"`
	Destination string           `json:"destination"`
	Centers     []CenterResponse `json:"centers"`
}

func NewCatalogResponse(c *domain.Catalog) CatalogResponse {
	centers := c.Centers()
	res := CatalogResponse{
		Version:     c.Version(),
		Destination: c.Destination(),
		Centers:     make([]CenterResponse, 0, len(centers)),
	}
	for _, center := range centers {
		products := make([]ProductResponse, 0, len(center.Products))
		for _, p := range center.Products {
			products = append(products, ProductResponse{ID: p.ID, UnitWeight: p.UnitWeight})
		}
		res.Centers = append(res.Centers, CenterResponse{
			ID:        center.ID,
			Products:  products,
			Distances: center.Distances,
		})
	}
	return res
}
