package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-ingest-service/internal/core/domain"
)

type fakeGeocoder struct {
	responses map[string]*domain.Coordinates
	calls     []string
}

func (f *fakeGeocoder) Resolve(ctx context.Context, address string) (*domain.Coordinates, error) {
	f.calls = append(f.calls, address)
	return f.responses[address], nil
}

func TestNarrowAddressDropsMiddleComponent(t *testing.T) {
	assert.Equal(t, "Calle Mayor 1, Spain", NarrowAddress("Calle Mayor 1, Madrid, Spain"))
	assert.Equal(t, "1 High St, Ashford, UK", NarrowAddress("1 High St, Ashford, Kent, UK"))
	// Too short to narrow.
	assert.Equal(t, "Madrid, Spain", NarrowAddress("Madrid, Spain"))
}

func TestResolveValidatedAcceptsMatchingCountry(t *testing.T) {
	g := &fakeGeocoder{responses: map[string]*domain.Coordinates{
		"Calle Mayor 1, Madrid, Spain": {Latitude: 40.4, Longitude: -3.7, Country: "Spain"},
	}}

	coords, err := ResolveValidated(context.Background(), g, "Calle Mayor 1, Madrid, Spain", "Spain")
	require.NoError(t, err)
	require.NotNil(t, coords)
	assert.Equal(t, "Spain", coords.Country)
	assert.Len(t, g.calls, 1)
}

func TestResolveValidatedRetriesOnceWithNarrowedAddress(t *testing.T) {
	g := &fakeGeocoder{responses: map[string]*domain.Coordinates{
		"Calle Mayor 1, Madrid, Spain": {Country: "Mexico"},
		"Calle Mayor 1, Spain":         {Country: "Spain", Latitude: 40.4, Longitude: -3.7},
	}}

	coords, err := ResolveValidated(context.Background(), g, "Calle Mayor 1, Madrid, Spain", "Spain")
	require.NoError(t, err)
	require.NotNil(t, coords)
	assert.Equal(t, []string{"Calle Mayor 1, Madrid, Spain", "Calle Mayor 1, Spain"}, g.calls)
}

func TestResolveValidatedSecondMismatchDrops(t *testing.T) {
	g := &fakeGeocoder{responses: map[string]*domain.Coordinates{
		"Calle Mayor 1, Madrid, Spain": {Country: "Mexico"},
		"Calle Mayor 1, Spain":         {Country: "Mexico"},
	}}

	coords, err := ResolveValidated(context.Background(), g, "Calle Mayor 1, Madrid, Spain", "Spain")
	require.NoError(t, err)
	assert.Nil(t, coords)
	// Exactly one retry — never a third attempt.
	assert.Len(t, g.calls, 2)
}

func TestResolveValidatedCaseInsensitiveCountry(t *testing.T) {
	g := &fakeGeocoder{responses: map[string]*domain.Coordinates{
		"addr": {Country: "SPAIN"},
	}}
	coords, err := ResolveValidated(context.Background(), g, "addr", "spain")
	require.NoError(t, err)
	assert.NotNil(t, coords)
}
