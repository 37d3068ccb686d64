package domain

// OrderItem is one requested product and its quantity as received.
type OrderItem struct {
	Product  string
	Quantity float64
}

// Order is a request for products. Item order is kept as received because
// it fixes the order in which required centers are collected.
type Order []OrderItem

// OrderLine is a resolved order item with its source center and the weight
// it contributes to the shipment.
type OrderLine struct {
	Product     string
	Quantity    float64
	Center      string
	UnitWeight  float64
	TotalWeight float64
}

// Resolution is the outcome of matching an order against the catalog.
type Resolution struct {
	// Distinct source centers in first-seen order.
	Centers []string
	Lines   []OrderLine
	// Products with a positive quantity that no center stocks.
	Skipped []string
}

// TotalWeight sums the weight of all resolved lines.
func (r Resolution) TotalWeight() float64 {
	return TotalWeight(r.Lines)
}

// TotalWeight sums the weight of the given lines.
func TotalWeight(lines []OrderLine) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.TotalWeight
	}
	return total
}
