package dto

import (
	"bytes"
	"delivery-cost-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DecodeOrder reads a JSON object of product to quantity from r.
//
// Keys keep the order they appear in the body. A repeated key keeps its
// first position and takes its last value. Every value must be a JSON
// number. Any other shape, an empty object, or trailing data wraps
// domain.ErrInvalidOrder.
func DecodeOrder(r io.Reader) (domain.Order, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, invalidOrder("invalid json body")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, invalidOrder("body must be a JSON object")
	}

	order := domain.Order{}
	index := make(map[string]int)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, invalidOrder("invalid json body")
		}
		product, ok := tok.(string)
		if !ok {
			return nil, invalidOrder("invalid json body")
		}

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, invalidOrder("invalid json body")
		}
		n, ok := v.(json.Number)
		if !ok {
			return nil, invalidOrder(fmt.Sprintf("quantity for %q must be a number", product))
		}
		qty, err := n.Float64()
		if err != nil {
			return nil, invalidOrder(fmt.Sprintf("quantity for %q is out of range", product))
		}

		if i, dup := index[product]; dup {
			order[i].Quantity = qty
			continue
		}
		index[product] = len(order)
		order = append(order, domain.OrderItem{Product: product, Quantity: qty})
	}

	if _, err := dec.Token(); err != nil {
		return nil, invalidOrder("invalid json body")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, invalidOrder("body must contain only one JSON object")
	}
	if len(order) == 0 {
		return nil, invalidOrder("order has no entries")
	}

	return order, nil
}

func invalidOrder(detail string) error {
	return fmt.Errorf("decode order: %w: %s", domain.ErrInvalidOrder, detail)
}

// OrderBody renders an order as a JSON object with keys in item order.
type OrderBody domain.Order

func (o OrderBody) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(item.Product)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(item.Quantity)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
