package dedup

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmcloughlin/geohash"

	"listing-ingest-service/internal/core/domain"
)

const geohashPrecision = 5

// priceBucketSize groups prices so a minor correction upstream does not make
// a relisting look new.
const priceBucketSize = 1000

// BuildFingerprint derives a stable identity for a listing beyond its
// source-prefixed ID: geohash of its coordinates, the normalized title and a
// coarse price bucket. Two scrapes of the same property hash identically
// even when the source shuffles images or tweaks the price by a few units.
func BuildFingerprint(listing *domain.Listing) string {
	parts := []string{listing.ListingID}

	if lat, err := strconv.ParseFloat(listing.Latitude, 64); err == nil {
		if lng, err := strconv.ParseFloat(listing.Longitude, 64); err == nil {
			parts = append(parts, geohash.Encode(lat, lng)[:geohashPrecision])
		}
	}

	parts = append(parts,
		normalize(listing.PropertyTitle),
		fmt.Sprintf("%d", listing.Price/priceBucketSize),
	)

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", sum)
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
