package xmlsource

import (
	"context"
	"fmt"

	"github.com/antchfx/xmlquery"

	"listing-ingest-service/internal/configs"
	"listing-ingest-service/internal/contextkeys"
	"listing-ingest-service/internal/core/domain"
	"listing-ingest-service/internal/core/port"
)

// Adapter ingests one XML feed source. Discover loads and parses the whole
// feed; Extract then maps individual parsed records addressed by index.
type Adapter struct {
	profile  *configs.SourceProfile
	geocoder port.GeocoderPort
	records  []*xmlquery.Node
}

func NewAdapter(profile *configs.SourceProfile, geocoder port.GeocoderPort) *Adapter {
	return &Adapter{profile: profile, geocoder: geocoder}
}

func (a *Adapter) Name() string {
	return a.profile.Name
}

func (a *Adapter) Discover(ctx context.Context) ([]domain.ListingRef, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	text, err := LoadInput(ctx, a.profile.Input)
	if err != nil {
		return nil, err
	}

	doc, err := ParseDocument(text)
	if err != nil {
		return nil, err
	}

	a.records = FindRecords(doc)
	logger.Info("xml feed parsed", port.Fields{
		"source":  a.profile.Name,
		"records": len(a.records),
	})

	refs := make([]domain.ListingRef, 0, len(a.records))
	seen := make(map[string]struct{}, len(a.records))
	for i, node := range a.records {
		id := GetField(node, a.profile.FieldMappings["id"])
		url := GetField(node, a.profile.FieldMappings["url"])

		// duplicate records inside one feed are common enough to guard
		if id != "" || url != "" {
			key := id + "|" + url
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}

		refs = append(refs, domain.ListingRef{URL: url, Index: i})
	}
	return refs, nil
}

func (a *Adapter) Extract(ctx context.Context, ref domain.ListingRef) (*domain.Listing, error) {
	if ref.Index < 0 || ref.Index >= len(a.records) {
		return nil, fmt.Errorf("xml source %s: record index %d out of range", a.profile.Name, ref.Index)
	}
	return MapRecord(ctx, a.records[ref.Index], a.profile, a.geocoder, ref.URL)
}
