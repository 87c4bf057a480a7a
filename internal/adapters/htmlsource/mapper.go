package htmlsource

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"listing-ingest-service/internal/constants"
	"listing-ingest-service/internal/core/domain"
	"listing-ingest-service/internal/extract"
)

var digitRun = regexp.MustCompile(`\d+`)

// mapPage applies the drop rules in the fixed order (title, price, type,
// status, images, country mismatch) and builds the canonical listing.
func (a *Adapter) mapPage(ctx context.Context, page *pageData, ref domain.ListingRef) (*domain.Listing, error) {
	profile := a.profile

	if page.Title == "" {
		return nil, domain.Skip(domain.SkipMissingTitle, ref.URL)
	}

	price, currency, err := extract.ParsePriceWithDefault(page.PriceText, profile.DefaultCurrency)
	if err != nil {
		return nil, domain.Skip(domain.SkipInvalidPrice, strconv.Quote(page.PriceText)+" at "+ref.URL)
	}

	types := extract.MatchPropertyTypes(page.TypeText)
	if len(types) == 0 {
		types = extract.MatchPropertyTypes(page.Title)
	}
	types = extract.FilterAllowed(types, profile.PropertyTypes)
	if len(types) == 0 {
		return nil, domain.Skip(domain.SkipNoType, "no recognized type at "+ref.URL)
	}

	statuses := extract.MatchPropertyStatuses(page.StatusText)
	if len(statuses) == 0 {
		statuses = extract.MatchPropertyStatuses(page.Title)
	}
	statuses = extract.FilterAllowed(statuses, profile.PropertyStatuses)
	if profile.StatusRequired && len(statuses) == 0 {
		return nil, domain.Skip(domain.SkipNoStatus, "no recognized status at "+ref.URL)
	}

	images := extract.CollectImages(page.Images, constants.MaxImages)
	if len(images) < profile.MinImages {
		return nil, domain.Skip(domain.SkipNoImages,
			strconv.Itoa(len(images))+" usable images at "+ref.URL+", needs "+strconv.Itoa(profile.MinImages))
	}

	description := extract.PassthroughTranslation(page.DescriptionHTML)

	listing := &domain.Listing{
		ListingID:           profile.ListingIDPrefix + listingIDFromURL(ref.URL),
		PropertyTitle:       page.Title,
		PropertyDescription: description,
		PropertyExcerpt:     extract.BuildExcerpt(description),
		Price:               price,
		Currency:            currency,
		PropertyType:        types,
		PropertyStatus:      statuses,
		Images:              images,
		Bedrooms:            firstInt(page.BedroomsText),
		Bathrooms:           firstInt(page.BathroomsText),
		Size:                strings.TrimSpace(digitRun.FindString(page.SizeText)),
		SizePrefix:          profile.SizePrefix,
		PropertyYear:        strings.TrimSpace(digitRun.FindString(page.YearText)),
		VideoURL:            page.VideoURL,
		VirtualTour:         page.VirtualTour,
		AdditionalFeatures:  extract.DedupStrings(page.Features),
		Country:             profile.Country,
		ConfidentialInfo:    profile.ConfidentialEntries(ref.URL),
	}

	address := page.Address
	if address == "" {
		address = ref.Address
	}
	listing.PropertyAddress = address

	if address != "" && a.geocoder != nil {
		coords, err := extract.ResolveValidated(ctx, a.geocoder, address, profile.Country)
		if err != nil {
			return nil, err
		}
		if coords == nil {
			return nil, domain.Skip(domain.SkipCountryMismatch, "could not place "+strconv.Quote(address)+" in "+profile.Country)
		}
		listing.SetCoordinates(
			strconv.FormatFloat(coords.Latitude, 'f', -1, 64),
			strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
		listing.City = coords.City
		listing.State = coords.State
		listing.ZipCode = coords.ZipCode
	}

	return listing, nil
}

// listingIDFromURL derives a stable per-source id from the detail page URL:
// the last path segment without its extension, or a short URL hash when the
// path carries no usable slug.
func listingIDFromURL(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		slug := path.Base(strings.TrimRight(u.Path, "/"))
		slug = strings.TrimSuffix(slug, path.Ext(slug))
		if slug != "" && slug != "." && slug != "/" {
			return slug
		}
	}
	sum := sha1.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:4])
}

func firstInt(raw string) int {
	n, err := strconv.Atoi(digitRun.FindString(raw))
	if err != nil {
		return 0
	}
	return n
}
