package csvio

import (
	"fmt"
	"strings"

	"pricing-grader/internal/model"
)

// priceTokens maps every accepted raw representation to its price constant.
// Tokens are matched after trimming and upper-casing.
var priceTokens = map[string]int{
	"LOW":    model.PriceLow,
	"MED":    model.PriceMed,
	"MEDIUM": model.PriceMed,
	"HIGH":   model.PriceHigh,

	"30": model.PriceLow,
	"40": model.PriceMed,
	"50": model.PriceHigh,

	"30000": model.PriceLow,
	"40000": model.PriceMed,
	"50000": model.PriceHigh,

	"$30": model.PriceLow,
	"$40": model.PriceMed,
	"$50": model.PriceHigh,

	"30$": model.PriceLow,
	"40$": model.PriceMed,
	"50$": model.PriceHigh,
}

// NormalizeCell maps one raw CSV token to a canonical price constant. This is
// the single total function between student input and the three prices the
// core ever sees; anything unrecognized fails explicitly.
func NormalizeCell(token string) (int, error) {
	clean := strings.ToUpper(strings.TrimSpace(token))
	if price, ok := priceTokens[clean]; ok {
		return price, nil
	}
	return 0, fmt.Errorf("cannot normalize price %q", token)
}

// isPriceToken reports whether the (already cleaned) token is a recognized
// price representation.
func isPriceToken(clean string) bool {
	_, ok := priceTokens[clean]
	return ok
}

// Normalize converts a valid parse result into a PolicyMatrix.
func Normalize(result ValidationResult) (model.PolicyMatrix, error) {
	if !result.Valid {
		return model.PolicyMatrix{}, fmt.Errorf("cannot normalize invalid CSV")
	}
	if len(result.Matrix) == 0 {
		return model.PolicyMatrix{}, fmt.Errorf("no matrix data in CSV result")
	}

	matrix := make([][]int, len(result.Matrix))
	for i, row := range result.Matrix {
		normalized := make([]int, len(row))
		for t, cell := range row {
			price, err := NormalizeCell(cell)
			if err != nil {
				return model.PolicyMatrix{}, fmt.Errorf("row %d col %d: %w", i+1, t+1, err)
			}
			normalized[t] = price
		}
		matrix[i] = normalized
	}

	return model.PolicyMatrix{Matrix: matrix, I: result.I, T: result.T}, nil
}
