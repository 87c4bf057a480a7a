package extract

import (
	"strings"

	"listing-ingest-service/internal/constants"
)

const wordPunctuation = ".,;:!?()[]{}\"'“”‘’/\\-"

// AllowedPropertyType matches a single token against the property-type
// vocabulary, case-insensitively and tolerant of surrounding punctuation.
// The second return is false when nothing matches.
func AllowedPropertyType(word string) (string, bool) {
	return matchVocabulary(word, constants.PropertyTypeVocabulary, nil)
}

// AllowedPropertyStatus matches a token or phrase against the status
// vocabulary, going through the synonyms table so bare "sale"/"rent" tokens
// classify too.
func AllowedPropertyStatus(word string) (string, bool) {
	return matchVocabulary(word, constants.PropertyStatusVocabulary, constants.StatusSynonyms)
}

// MatchPropertyTypes tries every word of the text independently, since
// source text often embeds the type inside a longer phrase such as a
// listing title. Unique canonical matches accumulate in first-seen order.
func MatchPropertyTypes(text string) []string {
	return matchAllWords(text, AllowedPropertyType)
}

// FilterAllowed restricts canonical matches to a per-source allow override.
// An empty override keeps everything.
func FilterAllowed(matches, allowed []string) []string {
	if len(allowed) == 0 {
		return matches
	}
	var kept []string
	for _, match := range matches {
		for _, allow := range allowed {
			if strings.EqualFold(match, allow) {
				kept = append(kept, match)
				break
			}
		}
	}
	return kept
}

// MatchPropertyStatuses tries the whole phrase first, then every word.
func MatchPropertyStatuses(text string) []string {
	if canon, ok := AllowedPropertyStatus(text); ok {
		return []string{canon}
	}
	return matchAllWords(text, AllowedPropertyStatus)
}

func matchVocabulary(word string, vocabulary []string, synonyms map[string]string) (string, bool) {
	normalized := strings.ToLower(strings.Trim(strings.TrimSpace(word), wordPunctuation))
	if normalized == "" {
		return "", false
	}
	for _, canon := range vocabulary {
		if normalized == strings.ToLower(canon) {
			return canon, true
		}
	}
	if canon, ok := synonyms[normalized]; ok {
		return canon, true
	}
	return "", false
}

func matchAllWords(text string, match func(string) (string, bool)) []string {
	var found []string
	seen := make(map[string]bool)
	for _, word := range strings.Fields(text) {
		canon, ok := match(word)
		if !ok || seen[canon] {
			continue
		}
		seen[canon] = true
		found = append(found, canon)
	}
	return found
}
