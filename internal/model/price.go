package model

// The three allowed price levels and their sale probabilities are fixed
// constants of the assignment's hidden demand model, not configuration.
// Both the Monte Carlo engine and the DP benchmark read from here.
const (
	PriceLow  = 30000
	PriceMed  = 40000
	PriceHigh = 50000
)

// Prices lists the allowed levels in canonical order. The DP benchmark's
// tie-break ("first price with the maximal expected value wins") depends on
// this order; keep it stable.
var Prices = []int{PriceLow, PriceMed, PriceHigh}

var saleProbabilities = map[int]float64{
	PriceLow:  0.90,
	PriceMed:  0.80,
	PriceHigh: 0.40,
}

// SaleProbability returns the per-period sale probability for a price level.
// Unknown prices (including the 0 recorded for sold-out periods) never sell.
func SaleProbability(price int) float64 {
	return saleProbabilities[price]
}

// PriceLabel maps a price level to its display label.
func PriceLabel(price int) string {
	switch price {
	case PriceLow:
		return "LOW"
	case PriceMed:
		return "MED"
	case PriceHigh:
		return "HIGH"
	default:
		return ""
	}
}

// PriceLabels is the canonical label order for histogram maps.
var PriceLabels = []string{"LOW", "MED", "HIGH"}
