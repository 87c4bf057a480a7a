package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"listing-ingest-service/internal/constants"
)

// firstNumericToken matches the first run of digits, optionally with
// embedded dots or commas as thousands separators. Range strings like
// "307 - 742" therefore yield the first (lower) number only.
var firstNumericToken = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// ParsePrice extracts an integer price and a currency code from a raw source
// string. The currency symbol is looked up among € $ £; when none is found
// the default EUR applies. Thousands-separator dots and commas are stripped
// before coercion. A zero, negative or non-numeric price is an error and the
// caller must drop the record.
func ParsePrice(raw string) (int, string, error) {
	return ParsePriceWithDefault(raw, constants.DefaultCurrency)
}

// ParsePriceWithDefault is ParsePrice with a source-configured fallback
// currency, used by feed adapters whose prices carry no symbol at all.
func ParsePriceWithDefault(raw, defaultCurrency string) (int, string, error) {
	currency := defaultCurrency
	if currency == "" {
		currency = constants.DefaultCurrency
	}

	cleaned := strings.TrimSpace(raw)
	for _, r := range cleaned {
		if code, ok := constants.CurrencySymbols[r]; ok {
			currency = code
			break
		}
	}

	// Strip symbols and whitespace before locating the numeric run.
	cleaned = strings.Map(func(r rune) rune {
		if _, ok := constants.CurrencySymbols[r]; ok {
			return -1
		}
		if r == ' ' || r == '\t' || r == ' ' {
			return -1
		}
		return r
	}, cleaned)

	loc := firstNumericToken.FindStringIndex(cleaned)
	if loc == nil {
		return 0, currency, fmt.Errorf("no numeric price in %q", raw)
	}
	if loc[0] > 0 && cleaned[loc[0]-1] == '-' {
		return 0, currency, fmt.Errorf("negative price in %q", raw)
	}
	token := cleaned[loc[0]:loc[1]]

	token = strings.NewReplacer(".", "", ",", "").Replace(token)
	price, err := strconv.Atoi(token)
	if err != nil {
		return 0, currency, fmt.Errorf("price %q does not parse: %w", token, err)
	}
	if price <= 0 {
		return 0, currency, fmt.Errorf("price must be positive, got %d", price)
	}

	return price, currency, nil
}
