package constants

// PropertyTypeVocabulary is the fixed allow-list of canonical property
// types. A listing whose source text matches none of these is dropped.
var PropertyTypeVocabulary = []string{
	"Villa",
	"Condo",
	"Apartment",
	"House",
	"Penthouse",
	"Studio",
	"Home",
	"Hotel",
	"Townhouse",
	"Bungalow",
	"Duplex",
	"Loft",
	"Land",
}

// PropertyStatusVocabulary is the fixed allow-list of canonical statuses.
var PropertyStatusVocabulary = []string{
	"For Sale",
	"For Rent",
	"Sold",
	"Rented",
}

// StatusSynonyms maps normalized source tokens to canonical statuses, so
// "sale" embedded in a longer phrase still classifies as "For Sale".
var StatusSynonyms = map[string]string{
	"sale":     "For Sale",
	"for sale": "For Sale",
	"buy":      "For Sale",
	"rent":     "For Rent",
	"for rent": "For Rent",
	"rental":   "For Rent",
	"let":      "For Rent",
	"sold":     "Sold",
	"rented":   "Rented",
}

// CurrencySymbols maps the recognized price symbols to ISO-like codes.
// Anything else falls back to DefaultCurrency.
var CurrencySymbols = map[rune]string{
	'€': "EUR",
	'$': "USD",
	'£': "GBP",
}

const DefaultCurrency = "EUR"

// MaxImages caps the media list per listing after dedup.
const MaxImages = 10

// ExcerptLimit is the plain-text excerpt length in codepoints.
const ExcerptLimit = 300

// RecordContainerTags is the ordered list of item tag names tried when
// discovering records in a feed of unknown shape. The first name present in
// the document wins; if none match, every direct child of the root element
// is treated as a record.
var RecordContainerTags = []string{
	"Row",
	"property", "Property",
	"listing", "Listing",
	"item", "Item",
	"record", "Record",
}

// LanguageFallbackChain orders the lang codes tried when a multilingual
// field carries several translations. English first.
var LanguageFallbackChain = []string{"en", "de", "fr", "es", "nl", "it", "pt"}
