package htmlsource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-ingest-service/internal/configs"
	"listing-ingest-service/internal/core/domain"
)

type stubGeocoder struct {
	coords *domain.Coordinates
	calls  int
}

func (g *stubGeocoder) Resolve(ctx context.Context, address string) (*domain.Coordinates, error) {
	g.calls++
	return g.coords, nil
}

func websiteProfile(baseURL string) *configs.SourceProfile {
	profile := &configs.SourceProfile{
		Name:            "homesite",
		Type:            configs.SourceTypeWebsite,
		PageURLPattern:  baseURL + "/list?page=%d",
		PageCount:       2,
		ListingIDPrefix: "HS-",
		Country:         "Spain",
		DefaultCurrency: "EUR",
		SizePrefix:      "sqm",
		Selectors: configs.Selectors{
			Card:         "div.card",
			ListingLink:  "a.card-link",
			IndexAddress: "span.card-addr",
			Title:        "h1.title",
			Price:        "div.price",
			Description:  "div.desc",
			Images:       "img.photo",
			ImageAttr:    "data-src",
			Features:     "li.feat",
			Address:      "span.addr",
			Bedrooms:     "span.beds",
			Bathrooms:    "span.baths",
			Size:         "span.size",
			Year:         "span.year",
		},
	}
	if err := profile.Validate(); err != nil {
		panic(err)
	}
	return profile
}

const detailPage = `<html><body>
<h1 class="title">Stunning Villa For Sale</h1>
<div class="price">€ 1.250.000</div>
<div class="desc"><p>Great <b>villa</b> with private pool.</p></div>
<img class="photo" data-src="/img/1.jpg">
<img class="photo" data-src="/img/1.jpg">
<img class="photo" data-src="/img/2.jpg?w=800">
<span class="addr">Calle Mayor 1, Madrid, Spain</span>
<ul><li class="feat">Pool</li><li class="feat">Garage</li><li class="feat">Pool</li></ul>
<span class="beds">4 beds</span><span class="baths">3 baths</span>
<span class="size">350 m²</span><span class="year">Built 2009</span>
</body></html>`

func listingSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/list", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `<html><body>
				<div class="card">
					<a class="card-link" href="/prop/villa-123">Villa</a>
					<span class="card-addr">Calle Mayor 1, Madrid, Spain</span>
				</div>
				<div class="card">
					<a class="card-link" href="/prop/flat-7">Flat</a>
					<span class="card-addr">Gran Via 2, Madrid, Spain</span>
				</div>
			</body></html>`)
		case "2":
			fmt.Fprint(w, `<html><body>
				<div class="card">
					<a class="card-link" href="/prop/villa-123">Villa</a>
					<span class="card-addr">Calle Mayor 1, Madrid, Spain</span>
				</div>
				<div class="card">
					<a class="card-link" href="/prop/casa-9">Casa</a>
					<span class="card-addr">Plaza Real 3, Sevilla, Spain</span>
				</div>
			</body></html>`)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/prop/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, detailPage)
	})
	return httptest.NewServer(mux)
}

func TestDiscoverDeduplicatesAcrossPages(t *testing.T) {
	server := listingSite(t)
	defer server.Close()

	adapter, err := NewAdapter(websiteProfile(server.URL), nil)
	require.NoError(t, err)

	refs, err := adapter.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 3)

	assert.Equal(t, server.URL+"/prop/villa-123", refs[0].URL)
	assert.Equal(t, "Calle Mayor 1, Madrid, Spain", refs[0].Address)
	assert.Equal(t, server.URL+"/prop/casa-9", refs[2].URL)
}

func TestDiscoverKeepsAddressWithItsOwnCard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<div class="card">
				<a class="card-link" href="/prop/villa-1">Villa</a>
			</div>
			<div class="card">
				<a class="card-link" href="/prop/flat-2">Flat</a>
				<span class="card-addr">Calle Mayor 2, Madrid, Spain</span>
			</div>
		</body></html>`)
	}))
	defer server.Close()

	profile := websiteProfile(server.URL)
	profile.PageCount = 1

	adapter, err := NewAdapter(profile, nil)
	require.NoError(t, err)

	refs, err := adapter.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 2)

	// the addressless card must not borrow the next card's address
	assert.Equal(t, server.URL+"/prop/villa-1", refs[0].URL)
	assert.Equal(t, "", refs[0].Address)
	assert.Equal(t, server.URL+"/prop/flat-2", refs[1].URL)
	assert.Equal(t, "Calle Mayor 2, Madrid, Spain", refs[1].Address)
}

func TestDiscoverIsIdempotent(t *testing.T) {
	server := listingSite(t)
	defer server.Close()

	adapter, err := NewAdapter(websiteProfile(server.URL), nil)
	require.NoError(t, err)

	first, err := adapter.Discover(context.Background())
	require.NoError(t, err)
	second, err := adapter.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDiscoverSkipsFailedPages(t *testing.T) {
	server := listingSite(t)
	defer server.Close()

	profile := websiteProfile(server.URL)
	profile.PageCount = 3 // page 3 returns 404

	adapter, err := NewAdapter(profile, nil)
	require.NoError(t, err)

	refs, err := adapter.Discover(context.Background())
	require.NoError(t, err)
	assert.Len(t, refs, 3)
}

func TestExtractFullListing(t *testing.T) {
	server := listingSite(t)
	defer server.Close()

	geocoder := &stubGeocoder{coords: &domain.Coordinates{
		Latitude:  40.4168,
		Longitude: -3.7038,
		Country:   "Spain",
		City:      "Madrid",
		ZipCode:   "28013",
	}}

	adapter, err := NewAdapter(websiteProfile(server.URL), geocoder)
	require.NoError(t, err)

	listing, err := adapter.Extract(context.Background(), domain.ListingRef{URL: server.URL + "/prop/villa-123"})
	require.NoError(t, err)

	assert.Equal(t, "HS-villa-123", listing.ListingID)
	assert.Equal(t, "Stunning Villa For Sale", listing.PropertyTitle)
	assert.Equal(t, 1250000, listing.Price)
	assert.Equal(t, "EUR", listing.Currency)
	assert.Equal(t, []string{"Villa"}, listing.PropertyType)
	assert.Equal(t, []string{"For Sale"}, listing.PropertyStatus)
	assert.Equal(t, []string{server.URL + "/img/1.jpg", server.URL + "/img/2.jpg"}, listing.Images)
	assert.Equal(t, []string{"Pool", "Garage"}, listing.AdditionalFeatures)
	assert.Equal(t, 4, listing.Bedrooms)
	assert.Equal(t, 3, listing.Bathrooms)
	assert.Equal(t, "350", listing.Size)
	assert.Equal(t, "2009", listing.PropertyYear)
	assert.Equal(t, "Calle Mayor 1, Madrid, Spain", listing.PropertyAddress)
	assert.Equal(t, "40.4168", listing.Latitude)
	assert.Equal(t, "-3.7038", listing.Longitude)
	assert.Equal(t, "40.4168, -3.7038", listing.Location)
	assert.Equal(t, "1", listing.PropertyMap)
	assert.Equal(t, "Madrid", listing.City)
	assert.Equal(t, "Spain", listing.Country)
	assert.Contains(t, listing.PropertyDescription, "<b>villa</b>")
	assert.Equal(t, "Great villa with private pool.", listing.PropertyExcerpt)

	require.NotEmpty(t, listing.ConfidentialInfo)
	assert.Equal(t, "Website", listing.ConfidentialInfo[0].Title)
	assert.Equal(t, 1, geocoder.calls)
}

func TestExtractCountryMismatchDrops(t *testing.T) {
	server := listingSite(t)
	defer server.Close()

	geocoder := &stubGeocoder{coords: &domain.Coordinates{Country: "France"}}

	adapter, err := NewAdapter(websiteProfile(server.URL), geocoder)
	require.NoError(t, err)

	_, err = adapter.Extract(context.Background(), domain.ListingRef{URL: server.URL + "/prop/villa-123"})
	var skip *domain.SkipError
	require.True(t, errors.As(err, &skip))
	assert.Equal(t, domain.SkipCountryMismatch, skip.Reason)
	// full address, then one narrowed retry, never a third call
	assert.Equal(t, 2, geocoder.calls)
}

func TestExtractInvalidPriceDrops(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<h1 class="title">Villa For Sale</h1>
			<div class="price">Price on application</div>
			<img class="photo" data-src="/img/1.jpg">
		</body></html>`)
	}))
	defer server.Close()

	adapter, err := NewAdapter(websiteProfile(server.URL), nil)
	require.NoError(t, err)

	_, err = adapter.Extract(context.Background(), domain.ListingRef{URL: server.URL + "/prop/x-1"})
	var skip *domain.SkipError
	require.True(t, errors.As(err, &skip))
	assert.Equal(t, domain.SkipInvalidPrice, skip.Reason)
}

func TestExtractFetchErrorIsNotASkip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter, err := NewAdapter(websiteProfile(server.URL), nil)
	require.NoError(t, err)

	_, err = adapter.Extract(context.Background(), domain.ListingRef{URL: server.URL + "/prop/x-1"})
	require.Error(t, err)
	var skip *domain.SkipError
	assert.False(t, errors.As(err, &skip))
}

func TestListingIDFromURL(t *testing.T) {
	assert.Equal(t, "villa-123", listingIDFromURL("https://x.test/prop/villa-123"))
	assert.Equal(t, "villa-123", listingIDFromURL("https://x.test/prop/villa-123/"))
	assert.Equal(t, "villa-123", listingIDFromURL("https://x.test/prop/villa-123.html"))
	assert.NotEmpty(t, listingIDFromURL("https://x.test/"))
}
