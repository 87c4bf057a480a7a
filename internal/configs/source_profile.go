package configs

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"listing-ingest-service/internal/core/domain"
)

const (
	SourceTypeWebsite = "website"
	SourceTypeXML     = "xml"
)

// Selectors holds the CSS selectors a website source uses. ListingLink and
// Title are the only required ones; everything else degrades to an empty
// field or a drop rule.
type Selectors struct {
	// Card scopes one listing on an index page; ListingLink and
	// IndexAddress are resolved inside it so the pair always comes off
	// the same card.
	Card         string `yaml:"card"`
	ListingLink  string `yaml:"listing_link"`
	IndexAddress string `yaml:"index_address"`
	Title        string `yaml:"title"`
	Price        string `yaml:"price"`
	Description  string `yaml:"description"`
	Images       string `yaml:"images"`
	ImageAttr    string `yaml:"image_attr"`
	Features     string `yaml:"features"`
	Type         string `yaml:"type"`
	Status       string `yaml:"status"`
	Address      string `yaml:"address"`
	Bedrooms     string `yaml:"bedrooms"`
	Bathrooms    string `yaml:"bathrooms"`
	Size         string `yaml:"size"`
	Year         string `yaml:"year"`
	VideoURL     string `yaml:"video_url"`
	VirtualTour  string `yaml:"virtual_tour"`
}

// ContactFields are the operator-configured confidential contact values.
type ContactFields struct {
	Owner         string `yaml:"owner"`
	ContactPerson string `yaml:"contact_person"`
	Phone         string `yaml:"phone"`
	Email         string `yaml:"email"`
}

// ConfidentialDefault is one hardcoded per-source fallback entry used when
// no operator contact configuration was injected.
type ConfidentialDefault struct {
	Title string `yaml:"title"`
	Value string `yaml:"value"`
}

type OutputConfig struct {
	Folder   string `yaml:"folder"`
	Filename string `yaml:"filename"`
}

// SourceProfile describes one configured source: where to fetch, how to
// extract, and which drop policy applies. It is the typed replacement for
// the stored configuration record the orchestration layer owns.
type SourceProfile struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// Website family: PageURLPattern contains one %d for the page number.
	BaseURL        string `yaml:"base_url"`
	PageURLPattern string `yaml:"page_url_pattern"`
	PageCount      int    `yaml:"page_count"`

	// XML family: Input is a feed URL, a local file path, or raw XML.
	Input         string              `yaml:"input"`
	FieldMappings map[string][]string `yaml:"field_mappings"`

	ListingIDPrefix string `yaml:"listing_id_prefix"`
	Country         string `yaml:"country"`
	DefaultCurrency string `yaml:"default_currency"`
	SizePrefix      string `yaml:"size_prefix"`

	// MinImages is the per-source image drop policy: 1 drops only empty
	// listings, 2 additionally drops single-image listings. Intentionally
	// per-source, not unified.
	MinImages int `yaml:"min_images"`

	// StatusRequired controls whether a listing with no recognized status
	// is dropped; some sources do not track status at all.
	StatusRequired bool `yaml:"status_required"`

	UploadEnabled bool `yaml:"upload_enabled"`
	TestingMode   bool `yaml:"testing_mode"`

	Selectors Selectors    `yaml:"selectors"`
	Output    OutputConfig `yaml:"output"`

	PropertyTypes    []string `yaml:"property_types"`
	PropertyStatuses []string `yaml:"property_statuses"`

	Contact              ContactFields         `yaml:"contact"`
	ConfidentialDefaults []ConfidentialDefault `yaml:"confidential_defaults"`
}

// LoadSourceProfile reads and validates a profile YAML file.
func LoadSourceProfile(path string) (*SourceProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source profile %s: %w", path, err)
	}

	var profile SourceProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse source profile %s: %w", path, err)
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid source profile %s: %w", path, err)
	}

	return &profile, nil
}

// Validate applies the structural rules and fills defaults.
func (p *SourceProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}

	switch p.Type {
	case SourceTypeWebsite:
		if p.PageURLPattern == "" {
			return fmt.Errorf("page_url_pattern is required for website sources")
		}
		if p.Selectors.ListingLink == "" {
			return fmt.Errorf("selectors.listing_link is required for website sources")
		}
		if p.Selectors.IndexAddress != "" && p.Selectors.Card == "" {
			return fmt.Errorf("selectors.card is required when selectors.index_address is set")
		}
		if p.PageCount <= 0 {
			p.PageCount = 1
		}
	case SourceTypeXML:
		if p.Input == "" {
			return fmt.Errorf("input is required for xml sources")
		}
		if len(p.FieldMappings) == 0 {
			return fmt.Errorf("field_mappings is required for xml sources")
		}
	default:
		return fmt.Errorf("unknown source type %q", p.Type)
	}

	if p.ListingIDPrefix == "" {
		return fmt.Errorf("listing_id_prefix is required")
	}
	if p.MinImages <= 0 {
		p.MinImages = 1
	}
	if p.Output.Filename == "" {
		p.Output.Filename = p.Name + ".json"
	}
	if p.Output.Folder == "" {
		p.Output.Folder = "output"
	}

	return nil
}

// HasContact reports whether operator contact fields were injected; when
// false the hardcoded per-source defaults apply.
func (p *SourceProfile) HasContact() bool {
	c := p.Contact
	return c.Owner != "" || c.ContactPerson != "" || c.Phone != "" || c.Email != ""
}

// ConfidentialEntries builds the confidential_info block for one listing.
// The source URL always goes first as Website; then either the operator
// contact fields or the hardcoded per-source defaults.
func (p *SourceProfile) ConfidentialEntries(websiteURL string) []domain.ConfidentialEntry {
	var entries []domain.ConfidentialEntry
	if websiteURL != "" {
		entries = append(entries, domain.ConfidentialEntry{Title: "Website", Value: websiteURL})
	}

	if p.HasContact() {
		c := p.Contact
		for _, pair := range []domain.ConfidentialEntry{
			{Title: "Owner", Value: c.Owner},
			{Title: "Contact Person", Value: c.ContactPerson},
			{Title: "Phone", Value: c.Phone},
			{Title: "Email", Value: c.Email},
		} {
			if pair.Value != "" {
				entries = append(entries, pair)
			}
		}
		return entries
	}

	for _, def := range p.ConfidentialDefaults {
		if def.Title != "" && def.Value != "" {
			entries = append(entries, domain.ConfidentialEntry{Title: def.Title, Value: def.Value})
		}
	}
	return entries
}
