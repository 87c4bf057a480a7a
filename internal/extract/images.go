package extract

import (
	"net/url"
	"strings"
)

// CollectImages validates candidate image URLs, strips all query parameters
// and fragments, deduplicates while preserving first-seen order, and caps
// the result. Relative and malformed URLs are discarded.
func CollectImages(candidates []string, max int) []string {
	var images []string
	seen := make(map[string]bool)

	for _, candidate := range candidates {
		parsed, err := url.Parse(strings.TrimSpace(candidate))
		if err != nil {
			continue
		}
		if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			continue
		}
		parsed.RawQuery = ""
		parsed.Fragment = ""

		clean := parsed.String()
		if seen[clean] {
			continue
		}
		seen[clean] = true
		images = append(images, clean)

		if max > 0 && len(images) == max {
			break
		}
	}

	return images
}

// DedupStrings removes duplicates and empty entries from a feature list,
// preserving first-seen order.
func DedupStrings(in []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
