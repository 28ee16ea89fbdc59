package csvio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricing-grader/internal/model"
)

func TestNormalizeCell(t *testing.T) {
	tests := []struct {
		token string
		want  int
	}{
		{"LOW", model.PriceLow},
		{"low", model.PriceLow},
		{" Low ", model.PriceLow},
		{"MED", model.PriceMed},
		{"MEDIUM", model.PriceMed},
		{"HIGH", model.PriceHigh},
		{"30", model.PriceLow},
		{"40", model.PriceMed},
		{"50", model.PriceHigh},
		{"30000", model.PriceLow},
		{"40000", model.PriceMed},
		{"50000", model.PriceHigh},
		{"$30", model.PriceLow},
		{"$50", model.PriceHigh},
		{"40$", model.PriceMed},
	}
	for _, tt := range tests {
		got, err := NormalizeCell(tt.token)
		require.NoError(t, err, "token %q", tt.token)
		assert.Equal(t, tt.want, got, "token %q", tt.token)
	}

	for _, bad := range []string{"", "35", "cheap", "LOW HIGH", "$35", "300"} {
		_, err := NormalizeCell(bad)
		assert.Error(t, err, "token %q", bad)
	}
}

func TestParseCSV_BareMatrix(t *testing.T) {
	result := ParseCSV("LOW,MED,HIGH\nHIGH,HIGH,LOW\n")

	require.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Equal(t, 2, result.I)
	assert.Equal(t, 3, result.T)
	require.Equal(t, [][]string{
		{"LOW", "MED", "HIGH"},
		{"HIGH", "HIGH", "LOW"},
	}, result.Matrix)
}

func TestParseCSV_StripsHeaderRowAndLabelColumn(t *testing.T) {
	content := "Capacity,Period 1,Period 2\n" +
		"Level 1,HIGH,LOW\n" +
		"Level 2,MED,MED\n"

	result := ParseCSV(content)
	require.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Equal(t, 2, result.I)
	assert.Equal(t, 2, result.T)
	assert.Equal(t, "HIGH", result.Matrix[0][0])
	assert.Equal(t, "MED", result.Matrix[1][1])
}

func TestParseCSV_NumericLabelColumn(t *testing.T) {
	// Bare integers in the first column read as row numbers, not prices.
	content := "1,HIGH,LOW\n2,MED,MED\n"

	result := ParseCSV(content)
	require.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Equal(t, 2, result.T)
	assert.Equal(t, "HIGH", result.Matrix[0][0])
}

func TestParseCSV_MixedSpellings(t *testing.T) {
	result := ParseCSV("low,Medium,$50\n30000,40,HIGH\n")
	require.True(t, result.Valid, "errors: %v", result.Errors)

	policy, err := Normalize(result)
	require.NoError(t, err)
	assert.Equal(t, [][]int{
		{model.PriceLow, model.PriceMed, model.PriceHigh},
		{model.PriceLow, model.PriceMed, model.PriceHigh},
	}, policy.Matrix)
}

func TestParseCSV_SkipsEmptyRows(t *testing.T) {
	result := ParseCSV("LOW,LOW\n\nMED,MED\n")
	require.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Equal(t, 2, result.I)
}

func TestParseCSV_InvalidCellReportsPosition(t *testing.T) {
	result := ParseCSV("LOW,banana\nHIGH,MED\n")

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Row)
	assert.Equal(t, 2, result.Errors[0].Col)
	assert.Equal(t, "banana", result.Errors[0].Value)
}

func TestParseCSV_RaggedRows(t *testing.T) {
	result := ParseCSV("LOW,MED,HIGH\nLOW,MED\n")

	require.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Message, "columns")
}

func TestParseCSV_Empty(t *testing.T) {
	result := ParseCSV("")
	require.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "empty")
}

func TestParseCSV_TooManyRows(t *testing.T) {
	var content string
	for i := 0; i <= model.MaxCapacity; i++ {
		content += "LOW,LOW\n"
	}

	result := ParseCSV(content)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0].Message, "capacity levels")
}

func TestNormalize_RejectsInvalidResult(t *testing.T) {
	_, err := Normalize(ValidationResult{Valid: false})
	assert.Error(t, err)
}

func TestTemplate_RoundTrips(t *testing.T) {
	content := Template(7, 15)

	result := ParseCSV(content)
	require.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Equal(t, 7, result.I)
	assert.Equal(t, 15, result.T)

	policy, err := Normalize(result)
	require.NoError(t, err)
	assert.Equal(t, model.PriceHigh, policy.PriceAt(1, 0))
	assert.Equal(t, model.PriceMed, policy.PriceAt(1, 2))
	assert.Equal(t, model.PriceLow, policy.PriceAt(1, 5))
}

func TestRenderPolicy_RoundTrips(t *testing.T) {
	original := model.UniformPolicy(3, 4, model.PriceMed)
	original.Matrix[0][0] = model.PriceHigh
	original.Matrix[2][3] = model.PriceLow

	result := ParseCSV(RenderPolicy(original))
	require.True(t, result.Valid, "errors: %v", result.Errors)

	parsed, err := Normalize(result)
	require.NoError(t, err)
	assert.Equal(t, original.Matrix, parsed.Matrix)
}
