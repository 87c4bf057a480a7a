package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedPropertyType(t *testing.T) {
	canon, ok := AllowedPropertyType("villa")
	assert.True(t, ok)
	assert.Equal(t, "Villa", canon)

	canon, ok = AllowedPropertyType("Villa.")
	assert.True(t, ok)
	assert.Equal(t, "Villa", canon)

	_, ok = AllowedPropertyType("Luxury")
	assert.False(t, ok)

	_, ok = AllowedPropertyType("")
	assert.False(t, ok)
}

func TestMatchPropertyTypesPerWord(t *testing.T) {
	// The type is embedded in a longer phrase; every word is tried
	// independently.
	assert.Equal(t, []string{"Villa"}, MatchPropertyTypes("Luxury Villa."))
	assert.Equal(t, []string{"Penthouse"}, MatchPropertyTypes("Stunning PENTHOUSE with sea views"))
	assert.Equal(t, []string{"Condo", "Hotel"}, MatchPropertyTypes("Condo hotel condo units"))
	assert.Empty(t, MatchPropertyTypes("Commercial warehouse"))
}

func TestMatchPropertyStatuses(t *testing.T) {
	assert.Equal(t, []string{"For Sale"}, MatchPropertyStatuses("For Sale"))
	assert.Equal(t, []string{"For Sale"}, MatchPropertyStatuses("sale"))
	assert.Equal(t, []string{"For Rent"}, MatchPropertyStatuses("available for rent now"))
	assert.Equal(t, []string{"Sold"}, MatchPropertyStatuses("SOLD!"))
	assert.Empty(t, MatchPropertyStatuses("under offer"))
}
