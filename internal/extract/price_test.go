package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		price    int
		currency string
	}{
		{"euro with dot separators", "€ 1.250.000", 1250000, "EUR"},
		{"dollar with comma separators", "$450,000", 450000, "USD"},
		{"pound plain", "£950000", 950000, "GBP"},
		{"no symbol defaults to EUR", "325.000", 325000, "EUR"},
		{"range takes lower bound", "307 - 742", 307, "EUR"},
		{"symbol after amount", "1.200.000 €", 1200000, "EUR"},
		{"embedded text", "From $ 89,900 per unit", 89900, "USD"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			price, currency, err := ParsePrice(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.price, price)
			assert.Equal(t, tc.currency, currency)
		})
	}
}

func TestParsePriceRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "abc", "POA", "€", "0", "€ 0", "-5"} {
		_, _, err := ParsePrice(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestParsePriceWithDefaultCurrency(t *testing.T) {
	price, currency, err := ParsePriceWithDefault("300000", "USD")
	require.NoError(t, err)
	assert.Equal(t, 300000, price)
	assert.Equal(t, "USD", currency)

	// An explicit symbol still wins over the configured default.
	_, currency, err = ParsePriceWithDefault("€ 5.000", "USD")
	require.NoError(t, err)
	assert.Equal(t, "EUR", currency)
}
