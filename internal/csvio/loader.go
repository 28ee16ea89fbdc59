// Package csvio is the normalization layer between raw student CSV uploads
// and the canonical PolicyMatrix the engines consume. It handles optional
// header rows/columns, the accepted price spellings, and cell-level
// validation errors; the core never sees anything but the three prices.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"pricing-grader/internal/model"
)

// ValidationError pinpoints one structural or cell-level problem. Row and
// column are 1-based; 0 means the problem is not tied to a specific cell.
type ValidationError struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of parsing one CSV upload. Matrix holds the
// raw (still textual) policy cells with any headers stripped.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
	Matrix [][]string        `json:"matrix,omitempty"`
	I      int               `json:"I"`
	T      int               `json:"T"`
}

// ParseCSV parses and validates raw CSV content. It never returns an error;
// all problems are reported through the result so the API layer can show
// them to the student in one response.
func ParseCSV(content string) ValidationResult {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return invalid(ValidationError{Message: fmt.Sprintf("CSV parsing error: %v", err)})
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return invalid(ValidationError{Message: "CSV is empty"})
	}

	matrix := extractMatrix(rows)
	result := ValidationResult{
		Matrix: matrix,
		I:      len(matrix),
		T:      0,
	}
	if len(matrix) > 0 {
		result.T = len(matrix[0])
	}

	result.Errors = validateMatrix(matrix, result.I, result.T)
	result.Valid = len(result.Errors) == 0
	return result
}

func invalid(errs ...ValidationError) ValidationResult {
	return ValidationResult{Valid: false, Errors: errs}
}

// extractMatrix strips an optional header row and an optional label column,
// then drops fully empty rows.
func extractMatrix(rows [][]string) [][]string {
	hasRowHeader := isHeaderRow(rows[0])

	hasColHeader := false
	if len(rows) > 1 {
		firstCol := make([]string, 0, len(rows)-1)
		for _, row := range rows[1:] {
			if len(row) > 0 {
				firstCol = append(firstCol, row[0])
			}
		}
		hasColHeader = isHeaderColumn(firstCol)
	}

	body := rows
	if hasRowHeader {
		body = body[1:]
	}

	var matrix [][]string
	for _, row := range body {
		if hasColHeader && len(row) > 0 {
			row = row[1:]
		}
		if !rowEmpty(row) {
			matrix = append(matrix, row)
		}
	}
	return matrix
}

// isHeaderRow reports whether a row looks like a header: it contains an
// alphabetic token that is not one of the accepted price spellings.
func isHeaderRow(row []string) bool {
	for _, cell := range row {
		clean := strings.ToUpper(strings.TrimSpace(cell))
		if clean == "" || isPriceToken(clean) {
			continue
		}
		if containsLetter(clean) {
			return true
		}
	}
	return false
}

// isHeaderColumn reports whether the first column looks like capacity labels:
// non-price text, or bare integers such as row numbers.
func isHeaderColumn(values []string) bool {
	for _, value := range values {
		clean := strings.ToUpper(strings.TrimSpace(value))
		if clean == "" {
			continue
		}
		if isPriceToken(clean) {
			continue
		}
		if containsLetter(clean) {
			return true
		}
		if _, err := strconv.Atoi(clean); err == nil {
			return true
		}
	}
	return false
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func validateMatrix(matrix [][]string, rowsI, colsT int) []ValidationError {
	var errs []ValidationError

	if rowsI == 0 || colsT == 0 {
		return append(errs, ValidationError{
			Message: "matrix must have at least one row and one column",
		})
	}
	if rowsI > model.MaxCapacity {
		errs = append(errs, ValidationError{
			Message: fmt.Sprintf("too many capacity levels (%d), maximum is %d", rowsI, model.MaxCapacity),
		})
	}
	if colsT > model.MaxPeriods {
		errs = append(errs, ValidationError{
			Message: fmt.Sprintf("too many time periods (%d), maximum is %d", colsT, model.MaxPeriods),
		})
	}

	for i, row := range matrix {
		if len(row) != colsT {
			errs = append(errs, ValidationError{
				Row:     i + 1,
				Message: fmt.Sprintf("row %d has %d columns, expected %d", i+1, len(row), colsT),
			})
			continue
		}
		for t, cell := range row {
			if _, err := NormalizeCell(cell); err != nil {
				errs = append(errs, ValidationError{
					Row:     i + 1,
					Col:     t + 1,
					Value:   cell,
					Message: fmt.Sprintf("invalid price value %q", cell),
				})
			}
		}
	}

	return errs
}
