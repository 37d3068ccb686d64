package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Product is a stocked item and its weight per unit.
type Product struct {
	ID         string
	UnitWeight float64
}

// Center is a fulfillment location with its stock list and the distances
// from it to every other center and to the delivery destination.
type Center struct {
	ID        string
	Products  []Product
	Distances map[string]float64
}

// Catalog is the fixed, read-only description of the fulfillment network.
// Centers keep their declared order; product lookups scan them in that
// order so the first center stocking a product is always its source.
//
// A Catalog is immutable after NewCatalog returns and is safe for
// concurrent use.
type Catalog struct {
	version     string
	destination string
	centers     []Center
	byID        map[string]int
}

// NewCatalog validates the tables and returns an immutable Catalog.
func NewCatalog(version string, destination string, centers []Center) (*Catalog, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, errors.New("new catalog: destination must be non-empty")
	}
	if len(centers) == 0 {
		return nil, errors.New("new catalog: at least one center is required")
	}

	c := &Catalog{
		version:     version,
		destination: destination,
		centers:     make([]Center, 0, len(centers)),
		byID:        make(map[string]int, len(centers)),
	}

	for i, center := range centers {
		id := strings.TrimSpace(center.ID)
		if id == "" {
			return nil, fmt.Errorf("new catalog: center at index %d has empty id", i)
		}
		if id == destination {
			return nil, fmt.Errorf("new catalog: center %q collides with destination id", id)
		}
		if _, ok := c.byID[id]; ok {
			return nil, fmt.Errorf("new catalog: duplicate center %q", id)
		}

		products := make([]Product, 0, len(center.Products))
		for _, p := range center.Products {
			pid := strings.TrimSpace(p.ID)
			if pid == "" {
				return nil, fmt.Errorf("new catalog: center %q has a product with empty id", id)
			}
			if !(p.UnitWeight > 0) {
				return nil, fmt.Errorf("new catalog: center %q product %q: unit weight must be positive, got %v", id, pid, p.UnitWeight)
			}
			products = append(products, Product{ID: pid, UnitWeight: p.UnitWeight})
		}

		distances := make(map[string]float64, len(center.Distances))
		for to, d := range center.Distances {
			if !(d >= 0) {
				return nil, fmt.Errorf("new catalog: distance %q -> %q must be nonnegative, got %v", id, to, d)
			}
			distances[strings.TrimSpace(to)] = d
		}

		c.byID[id] = len(c.centers)
		c.centers = append(c.centers, Center{ID: id, Products: products, Distances: distances})
	}

	// Every center must reach every other center and the destination.
	for _, from := range c.centers {
		if _, ok := from.Distances[destination]; !ok {
			return nil, fmt.Errorf("new catalog: missing distance %q -> %q", from.ID, destination)
		}
		for _, to := range c.centers {
			if to.ID == from.ID {
				continue
			}
			if _, ok := from.Distances[to.ID]; !ok {
				return nil, fmt.Errorf("new catalog: missing distance %q -> %q", from.ID, to.ID)
			}
		}
	}

	return c, nil
}

// Version identifies the catalog revision. It is part of quote cache keys.
func (c *Catalog) Version() string { return c.version }

// Destination returns the final delivery point every route ends at.
func (c *Catalog) Destination() string { return c.destination }

// CenterIDs returns center ids in declared order.
func (c *Catalog) CenterIDs() []string {
	ids := make([]string, 0, len(c.centers))
	for _, center := range c.centers {
		ids = append(ids, center.ID)
	}
	return ids
}

// Centers returns a deep copy of the centers in declared order.
func (c *Catalog) Centers() []Center {
	out := make([]Center, 0, len(c.centers))
	for _, center := range c.centers {
		distances := make(map[string]float64, len(center.Distances))
		for k, v := range center.Distances {
			distances[k] = v
		}
		out = append(out, Center{
			ID:        center.ID,
			Products:  slices.Clone(center.Products),
			Distances: distances,
		})
	}
	return out
}

// Locate returns the source center and unit weight of a product.
// The first center in declared order that stocks the product wins.
func (c *Catalog) Locate(product string) (center string, unitWeight float64, ok bool) {
	for _, ctr := range c.centers {
		for _, p := range ctr.Products {
			if p.ID == product {
				return ctr.ID, p.UnitWeight, true
			}
		}
	}
	return "", 0, false
}

// Distance returns the distance of the leg from -> to.
func (c *Catalog) Distance(from, to string) (float64, error) {
	i, ok := c.byID[from]
	if !ok {
		return 0, fmt.Errorf("%w: unknown center %q", ErrUnknownLeg, from)
	}
	d, ok := c.centers[i].Distances[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q -> %q", ErrUnknownLeg, from, to)
	}
	return d, nil
}

// AvailableProducts maps each center id to the product ids it stocks.
func (c *Catalog) AvailableProducts() map[string][]string {
	out := make(map[string][]string, len(c.centers))
	for _, center := range c.centers {
		ids := make([]string, 0, len(center.Products))
		for _, p := range center.Products {
			ids = append(ids, p.ID)
		}
		out[center.ID] = ids
	}
	return out
}
