package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := map[string]string{
		"699.99":  "$699.99",
		"0":       "$0.00",
		"39.9":    "$39.90",
		"1.005":   "$1.00",
		"1.015":   "$1.02",
		"1299.99": "$1299.99",
	}

	for in, want := range tests {
		assert.Equalf(t, want, Format(decimal.RequireFromString(in)), "Format(%s)", in)
	}
}

func TestFloat(t *testing.T) {
	assert.Equal(t, 699.99, Float(decimal.RequireFromString("699.99")))
	assert.Equal(t, 0.0, Float(decimal.Zero))
}
