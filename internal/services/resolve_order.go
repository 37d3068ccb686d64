package services

import (
	"delivery-cost-service/internal/domain"
	"errors"
	"fmt"
	"math"
)

// ResolveOrder matches order items to their source centers.
//
// Items with a non-positive quantity are ignored. Each remaining product is
// sourced from the first catalog center that stocks it, even if a later
// center stocks it too. Products no center stocks are listed in Skipped
// and produce no line. An order that resolves to nothing is not an error
// here; callers decide how to report it. A line or order weight that
// overflows to infinity wraps domain.ErrInvalidOrder.
func ResolveOrder(order domain.Order, catalog *domain.Catalog) (domain.Resolution, error) {
	if catalog == nil {
		return domain.Resolution{}, errors.New("resolve order: catalog must be non-nil")
	}
	if len(order) == 0 {
		return domain.Resolution{}, fmt.Errorf("resolve order: %w: order has no entries", domain.ErrInvalidOrder)
	}

	res := domain.Resolution{
		Centers: []string{},
		Lines:   make([]domain.OrderLine, 0, len(order)),
		Skipped: []string{},
	}
	seen := make(map[string]struct{})
	total := 0.0

	for _, item := range order {
		if !(item.Quantity > 0) {
			continue
		}

		center, unitWeight, ok := catalog.Locate(item.Product)
		if !ok {
			res.Skipped = append(res.Skipped, item.Product)
			continue
		}

		weight := item.Quantity * unitWeight
		total += weight
		if math.IsInf(weight, 0) || math.IsInf(total, 0) || math.IsNaN(total) {
			return domain.Resolution{}, fmt.Errorf("resolve order: %w: weight of %q overflows", domain.ErrInvalidOrder, item.Product)
		}

		res.Lines = append(res.Lines, domain.OrderLine{
			Product:     item.Product,
			Quantity:    item.Quantity,
			Center:      center,
			UnitWeight:  unitWeight,
			TotalWeight: weight,
		})

		if _, ok := seen[center]; !ok {
			seen[center] = struct{}{}
			res.Centers = append(res.Centers, center)
		}
	}

	return res, nil
}
