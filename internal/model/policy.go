package model

import "fmt"

// PolicyMatrix is a normalized pricing policy: one price per
// (remaining-capacity, period) state. Row index 0 corresponds to a remaining
// capacity of 1 and row I-1 to full capacity; columns are periods 0..T-1.
// It is produced by the csvio normalization layer and never mutated afterwards.
type PolicyMatrix struct {
	Matrix [][]int `json:"matrix"`
	I      int     `json:"I"`
	T      int     `json:"T"`
}

// PriceAt returns the price quoted when `capacity` units remain at `period`.
// capacity is 1-based; period is 0-based.
func (p PolicyMatrix) PriceAt(capacity, period int) int {
	return p.Matrix[capacity-1][period]
}

// Validate checks shape agreement and that every cell is one of the three
// allowed price levels. The engines trust normalized policies and only
// re-check dimensions; this is for inputs assembled by hand (CLI, tests).
func (p PolicyMatrix) Validate() error {
	if len(p.Matrix) != p.I {
		return fmt.Errorf("policy has %d rows, expected I=%d", len(p.Matrix), p.I)
	}
	for i, row := range p.Matrix {
		if len(row) != p.T {
			return fmt.Errorf("policy row %d has %d columns, expected T=%d", i+1, len(row), p.T)
		}
		for t, price := range row {
			if _, ok := saleProbabilities[price]; !ok {
				return fmt.Errorf("policy cell (%d,%d) has invalid price %d", i+1, t, price)
			}
		}
	}
	return nil
}

// UniformPolicy builds an I×T policy quoting the same price in every state.
func UniformPolicy(i, t, price int) PolicyMatrix {
	matrix := make([][]int, i)
	for r := range matrix {
		row := make([]int, t)
		for c := range row {
			row[c] = price
		}
		matrix[r] = row
	}
	return PolicyMatrix{Matrix: matrix, I: i, T: t}
}
