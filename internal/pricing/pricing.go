// Package pricing computes order amounts from resolved line items. It
// performs no I/O and raises no errors; input validation is the order
// assembler's job.
package pricing

import "github.com/shopspring/decimal"

const (
	// ShipmentPriceStep is the cost added per shipment weight bracket.
	ShipmentPriceStep = 25
	// ShipmentWeightStep is the bracket size used to quantize shipment
	// cost.
	ShipmentWeightStep = 10
)

var (
	// DiscountThreshold is the combined price+shipment total above
	// which the flat discount applies.
	DiscountThreshold = decimal.NewFromInt(1000)
	// DiscountRatio is the multiplier applied once when the total
	// exceeds the threshold.
	DiscountRatio = decimal.RequireFromString("0.95")
)

// Item is a product resolved to the two values pricing needs.
type Item struct {
	Price  int64
	Weight int64
}

// Quote holds the computed amounts for one set of items. TotalAmount
// keeps its exact fractional value after the discount multiply; it is
// never rounded here.
type Quote struct {
	TotalWeight    int64
	ShipmentAmount int64
	TotalAmount    decimal.Decimal
}

// Compute prices a non-empty set of resolved items.
//
// Shipment cost is ShipmentPriceStep per ShipmentWeightStep bracket,
// rounding the bracket count half-up. The discount applies once to the
// combined subtotal+shipment total, only when it strictly exceeds the
// threshold.
func Compute(items []Item) Quote {
	var weight, subtotal int64
	for _, item := range items {
		weight += item.Weight
		subtotal += item.Price
	}

	// Integer round-half-up of weight/ShipmentWeightStep.
	brackets := (weight + ShipmentWeightStep/2) / ShipmentWeightStep
	shipment := int64(ShipmentPriceStep) * brackets

	total := decimal.NewFromInt(subtotal + shipment)
	if total.GreaterThan(DiscountThreshold) {
		total = total.Mul(DiscountRatio)
	}

	return Quote{
		TotalWeight:    weight,
		ShipmentAmount: shipment,
		TotalAmount:    total,
	}
}
