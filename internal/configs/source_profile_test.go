package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const websiteProfileYAML = `
name: hhs
type: website
base_url: https://example-homes.test
page_url_pattern: "https://example-homes.test/listings/page/%d"
page_count: 3
listing_id_prefix: "HHS-"
country: Spain
default_currency: EUR
size_prefix: sqm
min_images: 2
status_required: true
upload_enabled: true
selectors:
  card: "div.property-card"
  listing_link: "a.card-link"
  index_address: ".card-address"
  title: "h1.listing-title"
  price: ".price-tag"
  images: ".gallery img"
  image_attr: src
output:
  folder: out
  filename: hhs.json
contact:
  owner: ACME Estates
  phone: "+34 600 000 000"
`

const xmlProfileYAML = `
name: torreproperties
type: xml
input: feed.xml
listing_id_prefix: "TP-"
default_currency: USD
field_mappings:
  id: [id, reference]
  title: [title, name]
  price_sale: [priceSale, price]
  type: [type, propertyType]
  images: [images, photos]
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWebsiteProfile(t *testing.T) {
	profile, err := LoadSourceProfile(writeProfile(t, websiteProfileYAML))
	require.NoError(t, err)

	assert.Equal(t, "hhs", profile.Name)
	assert.Equal(t, SourceTypeWebsite, profile.Type)
	assert.Equal(t, 3, profile.PageCount)
	assert.Equal(t, 2, profile.MinImages)
	assert.Equal(t, "div.property-card", profile.Selectors.Card)
	assert.Equal(t, "a.card-link", profile.Selectors.ListingLink)
	assert.Equal(t, "HHS-", profile.ListingIDPrefix)
	assert.True(t, profile.HasContact())
}

func TestLoadXMLProfileDefaults(t *testing.T) {
	profile, err := LoadSourceProfile(writeProfile(t, xmlProfileYAML))
	require.NoError(t, err)

	assert.Equal(t, SourceTypeXML, profile.Type)
	assert.Equal(t, []string{"id", "reference"}, profile.FieldMappings["id"])
	// Defaults filled by Validate.
	assert.Equal(t, 1, profile.MinImages)
	assert.Equal(t, "torreproperties.json", profile.Output.Filename)
	assert.Equal(t, "output", profile.Output.Folder)
	assert.False(t, profile.HasContact())
}

func TestValidateRejectsBrokenProfiles(t *testing.T) {
	cases := map[string]SourceProfile{
		"missing name":    {Type: SourceTypeXML, Input: "f.xml", ListingIDPrefix: "X-"},
		"unknown type":    {Name: "x", Type: "rss", ListingIDPrefix: "X-"},
		"missing pattern": {Name: "x", Type: SourceTypeWebsite, ListingIDPrefix: "X-"},
		"address without card": {
			Name: "x", Type: SourceTypeWebsite, ListingIDPrefix: "X-",
			PageURLPattern: "https://x.test/p/%d",
			Selectors:      Selectors{ListingLink: "a.link", IndexAddress: ".addr"},
		},
		"missing prefix": {
			Name: "x", Type: SourceTypeXML, Input: "f.xml",
			FieldMappings: map[string][]string{"id": {"id"}},
		},
	}
	for name, profile := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, profile.Validate())
		})
	}
}
