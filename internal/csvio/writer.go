package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"pricing-grader/internal/model"
)

// Template renders a starter CSV for the given dimensions: labeled headers
// plus an example start-high, end-low policy the student can edit.
func Template(capI, periodsT int) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := make([]string, 0, periodsT+1)
	header = append(header, "Capacity")
	for t := 0; t < periodsT; t++ {
		header = append(header, fmt.Sprintf("Period %d", t+1))
	}
	w.Write(header)

	for i := 0; i < capI; i++ {
		row := make([]string, 0, periodsT+1)
		row = append(row, fmt.Sprintf("Level %d", i+1))
		for t := 0; t < periodsT; t++ {
			switch {
			case t < 2:
				row = append(row, "HIGH")
			case t < 4:
				row = append(row, "MED")
			default:
				row = append(row, "LOW")
			}
		}
		w.Write(row)
	}

	w.Flush()
	return sb.String()
}

// RenderPolicy renders a normalized policy back to labeled CSV text. Used to
// reconstruct a submission's CSV for storage and to export the optimal
// policy from the CLI.
func RenderPolicy(policy model.PolicyMatrix) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := make([]string, 0, policy.T+1)
	header = append(header, "Capacity")
	for t := 0; t < policy.T; t++ {
		header = append(header, fmt.Sprintf("Period %d", t+1))
	}
	w.Write(header)

	for i := 0; i < policy.I; i++ {
		row := make([]string, 0, policy.T+1)
		row = append(row, fmt.Sprintf("Level %d", i+1))
		for t := 0; t < policy.T; t++ {
			row = append(row, model.PriceLabel(policy.Matrix[i][t]))
		}
		w.Write(row)
	}

	w.Flush()
	return sb.String()
}

// WritePolicyCSV writes a policy as labeled CSV to a file.
func WritePolicyCSV(path string, policy model.PolicyMatrix) error {
	return os.WriteFile(path, []byte(RenderPolicy(policy)), 0o644)
}
