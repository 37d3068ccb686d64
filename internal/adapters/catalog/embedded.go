package catalog

import (
	"bytes"
	"delivery-cost-service/internal/domain"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

type catalogFile struct {
	Version     string       `yaml:"version"`
	Destination string       `yaml:"destination"`
	Centers     []centerFile `yaml:"centers"`
}

type centerFile struct {
	ID        string             `yaml:"id"`
	Products  []productFile      `yaml:"products"`
	Distances map[string]float64 `yaml:"distances"`
}

type productFile struct {
	ID     string  `yaml:"id"`
	Weight float64 `yaml:"weight"`
}

// Default returns the catalog compiled into the binary.
func Default() (*domain.Catalog, error) {
	c, err := Parse(embeddedCatalog)
	if err != nil {
		return nil, fmt.Errorf("load embedded catalog: %w", err)
	}
	return c, nil
}

// Parse decodes a YAML catalog document and validates it.
// Unknown fields are rejected so typos in the tables fail the build's tests.
func Parse(data []byte) (*domain.Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("parse catalog: document is empty")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f catalogFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse catalog: decode yaml: %w", err)
	}

	centers := make([]domain.Center, 0, len(f.Centers))
	for _, c := range f.Centers {
		products := make([]domain.Product, 0, len(c.Products))
		for _, p := range c.Products {
			products = append(products, domain.Product{ID: p.ID, UnitWeight: p.Weight})
		}
		centers = append(centers, domain.Center{
			ID:        c.ID,
			Products:  products,
			Distances: c.Distances,
		})
	}

	cat, err := domain.NewCatalog(f.Version, f.Destination, centers)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return cat, nil
}
