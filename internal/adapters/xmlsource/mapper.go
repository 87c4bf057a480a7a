package xmlsource

import (
	"context"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"listing-ingest-service/internal/configs"
	"listing-ingest-service/internal/constants"
	"listing-ingest-service/internal/core/domain"
	"listing-ingest-service/internal/core/port"
	"listing-ingest-service/internal/extract"
)

// MapRecord converts one feed record into the canonical listing, applying
// the drop rules in a fixed order: title, price, type, status, images,
// country mismatch. A *domain.SkipError return means the record was dropped
// by policy, not that the run failed.
func MapRecord(ctx context.Context, node *xmlquery.Node, profile *configs.SourceProfile, geocoder port.GeocoderPort, sourceURL string) (*domain.Listing, error) {
	m := profile.FieldMappings
	field := func(key string) string { return GetField(node, m[key]) }

	id := field("id")
	if id == "" {
		return nil, domain.Skip(domain.SkipMissingTitle, "record has no id")
	}

	title := GetLangField(node, m["title"])
	if title == "" {
		return nil, domain.Skip(domain.SkipMissingTitle, "record "+id+" has no title")
	}

	price, currency, renting, err := resolvePrice(profile, field)
	if err != nil {
		return nil, domain.Skip(domain.SkipInvalidPrice, err.Error())
	}

	typeText := field("type")
	types := extract.MatchPropertyTypes(typeText)
	if len(types) == 0 {
		types = extract.MatchPropertyTypes(title)
	}
	types = extract.FilterAllowed(types, profile.PropertyTypes)
	if len(types) == 0 {
		return nil, domain.Skip(domain.SkipNoType, "no recognized type in "+strconv.Quote(typeText))
	}

	statuses := resolveStatuses(profile, field, renting)
	if profile.StatusRequired && len(statuses) == 0 {
		return nil, domain.Skip(domain.SkipNoStatus, "record "+id+" has no recognized status")
	}

	images := extract.CollectImages(GetRepeatedField(node, m["images"]), constants.MaxImages)
	if len(images) < profile.MinImages {
		return nil, domain.Skip(domain.SkipNoImages,
			"record "+id+" has "+strconv.Itoa(len(images))+" usable images, needs "+strconv.Itoa(profile.MinImages))
	}

	description := GetLangField(node, m["description"])
	description = extract.PassthroughTranslation(description)

	listing := &domain.Listing{
		ListingID:           profile.ListingIDPrefix + id,
		PropertyTitle:       title,
		PropertyDescription: description,
		PropertyExcerpt:     extract.BuildExcerpt(description),
		Price:               price,
		Currency:            currency,
		PropertyType:        types,
		PropertyStatus:      statuses,
		Images:              images,
		Bedrooms:            atoiSafe(field("bedrooms")),
		Bathrooms:           atoiSafe(field("bathrooms")),
		Size:                field("size"),
		SizePrefix:          profile.SizePrefix,
		PropertyYear:        field("year"),
		VideoURL:            field("video_url"),
		VirtualTour:         field("virtual_tour"),
		MLSID:               field("mls_id"),
		OfficeName:          field("office_name"),
		AdditionalFeatures:  extract.DedupStrings(GetRepeatedField(node, m["features"])),
		ConfidentialInfo:    profile.ConfidentialEntries(sourceURL),
	}
	if renting {
		listing.PricePostfix = "Per Month"
	}

	if err := applyLocation(ctx, listing, node, profile, geocoder, field); err != nil {
		return nil, err
	}

	return listing, nil
}

// resolvePrice prefers the sale price and falls back to the rental price
// when the sale value is missing or zero. The second return value reports
// whether the rental fallback was taken.
func resolvePrice(profile *configs.SourceProfile, field func(string) string) (int, string, bool, error) {
	saleRaw := field("price_sale")
	if saleRaw == "" {
		saleRaw = field("price")
	}

	price, currency, err := extract.ParsePriceWithDefault(saleRaw, profile.DefaultCurrency)
	if err == nil {
		return price, currency, false, nil
	}

	if rentRaw := field("price_rent"); rentRaw != "" {
		if price, currency, rentErr := extract.ParsePriceWithDefault(rentRaw, profile.DefaultCurrency); rentErr == nil {
			return price, currency, true, nil
		}
	}

	return 0, "", false, err
}

// resolveStatuses classifies the status text, then falls back to the
// boolean-like sale/rent flags some feeds carry instead of a status field.
func resolveStatuses(profile *configs.SourceProfile, field func(string) string, renting bool) []string {
	statuses := extract.MatchPropertyStatuses(field("status"))
	if len(statuses) == 0 {
		switch {
		case isTruthy(field("sale_flag")):
			statuses = []string{"For Sale"}
		case renting || isTruthy(field("rent_flag")):
			statuses = []string{"For Rent"}
		}
	}
	return extract.FilterAllowed(statuses, profile.PropertyStatuses)
}

func applyLocation(ctx context.Context, listing *domain.Listing, node *xmlquery.Node, profile *configs.SourceProfile, geocoder port.GeocoderPort, field func(string) string) error {
	address := field("address")
	listing.PropertyAddress = address
	listing.City = field("city")
	listing.State = field("state")
	listing.ZipCode = field("zip")
	listing.Country = field("country")
	if listing.Country == "" {
		listing.Country = profile.Country
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(field("latitude")), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(field("longitude")), 64)
	if latErr == nil && lngErr == nil && (lat != 0 || lng != 0) {
		listing.SetCoordinates(
			strconv.FormatFloat(lat, 'f', -1, 64),
			strconv.FormatFloat(lng, 'f', -1, 64))
		return nil
	}

	if address == "" || geocoder == nil {
		return nil
	}

	coords, err := extract.ResolveValidated(ctx, geocoder, address, profile.Country)
	if err != nil {
		return err
	}
	if coords == nil {
		return domain.Skip(domain.SkipCountryMismatch, "could not place "+strconv.Quote(address)+" in "+profile.Country)
	}

	listing.SetCoordinates(
		strconv.FormatFloat(coords.Latitude, 'f', -1, 64),
		strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	if listing.City == "" {
		listing.City = coords.City
	}
	if listing.State == "" {
		listing.State = coords.State
	}
	if listing.ZipCode == "" {
		listing.ZipCode = coords.ZipCode
	}
	if listing.Country == "" {
		listing.Country = coords.Country
	}
	return nil
}

func isTruthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func atoiSafe(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
