package domain

// ConfidentialEntry is one operator-supplied contact/ownership field attached
// to an uploaded listing. Entries are ordered; the first one is always the
// "Website" entry when a source URL is known.
type ConfidentialEntry struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Listing is the canonical record every source adapter must produce.
// Field names match the downstream property API payload one-to-one.
type Listing struct {
	ListingID           string `json:"listing_id"`
	PropertyTitle       string `json:"property_title"`
	PropertyDescription string `json:"property_description"`
	PropertyExcerpt     string `json:"property_excerpt"`

	Price        int    `json:"price"`
	Currency     string `json:"currency"`
	PricePrefix  string `json:"price_prefix"`
	PricePostfix string `json:"price_postfix"`

	Bedrooms   int    `json:"bedrooms"`
	Bathrooms  int    `json:"bathrooms"`
	Size       string `json:"size"`
	SizePrefix string `json:"size_prefix"`

	PropertyType   []string `json:"property_type"`
	PropertyStatus []string `json:"property_status"`

	PropertyAddress string `json:"property_address"`
	City            string `json:"city"`
	State           string `json:"state"`
	Country         string `json:"country"`
	ZipCode         string `json:"zip_code"`
	Latitude        string `json:"latitude"`
	Longitude       string `json:"longitude"`
	Location        string `json:"location"`
	PropertyArea    string `json:"property_area"`

	Images      []string `json:"images"`
	VideoURL    string   `json:"video_url"`
	VirtualTour string   `json:"virtual_tour"`

	AdditionalFeatures []string `json:"additional_features"`
	AgentID            string   `json:"agent_id"`
	AgentDisplayOption string   `json:"agent_display_option"`
	MLSID              string   `json:"mls_id"`
	OfficeName         string   `json:"office_name"`
	PropertyYear       string   `json:"property_year"`
	PropertyMap        string   `json:"property_map"`

	ConfidentialInfo []ConfidentialEntry `json:"confidential_info"`
}

// SetCoordinates fills the coordinate triple the downstream API expects:
// string latitude/longitude, the combined "lat, lng" location, and the map
// flag.
func (l *Listing) SetCoordinates(lat, lng string) {
	l.Latitude = lat
	l.Longitude = lng
	l.Location = lat + ", " + lng
	l.PropertyMap = "1"
}

// Coordinates is the result of resolving a free-text address through the
// geocoding collaborator.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZipCode   string  `json:"zip_code"`
	Address   string  `json:"address"`
}

// ListingRef points at one discovered listing before extraction. For website
// sources URL is a detail-page link and Address may carry an index-page-only
// address; for XML sources Index identifies the parsed record node.
type ListingRef struct {
	URL     string
	Address string
	Index   int
}

// UploadOutcome classifies what the downstream API did with a record.
type UploadOutcome string

const (
	OutcomeCreated UploadOutcome = "created"
	OutcomeUpdated UploadOutcome = "updated"
	OutcomeFailed  UploadOutcome = "failed"
)

// UploadResult is the per-record outcome of the upload client.
type UploadResult struct {
	Outcome  UploadOutcome
	Attempts int
	HTTPCode int
	Error    string
}
