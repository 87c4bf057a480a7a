package xmlsource

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"golang.org/x/text/language"

	"listing-ingest-service/internal/constants"
)

var languagePriority = func() []language.Tag {
	tags := make([]language.Tag, 0, len(constants.LanguageFallbackChain))
	for _, code := range constants.LanguageFallbackChain {
		tags = append(tags, language.Make(code))
	}
	return tags
}()

var languageMatcher = language.NewMatcher(languagePriority)

// GetField returns the first non-empty trimmed text for any of the candidate
// element names. Each candidate is tried as a direct child first, then as a
// descendant search anywhere under the record.
func GetField(node *xmlquery.Node, candidates []string) string {
	for _, name := range candidates {
		if child := node.SelectElement(name); child != nil {
			if text := strings.TrimSpace(child.InnerText()); text != "" {
				return text
			}
		}
	}
	for _, name := range candidates {
		if found := xmlquery.FindOne(node, ".//"+name); found != nil {
			if text := strings.TrimSpace(found.InnerText()); text != "" {
				return text
			}
		}
	}
	return ""
}

// GetLangField resolves multilingual fields. When several sibling elements
// carry the same name with different lang attributes, the one closest to the
// front of the language fallback chain wins; elements without a recognizable
// lang attribute are only used when nothing better matches.
func GetLangField(node *xmlquery.Node, candidates []string) string {
	for _, name := range candidates {
		elems := xmlquery.Find(node, name)
		if len(elems) == 0 {
			elems = xmlquery.Find(node, ".//"+name)
		}
		if len(elems) == 0 {
			continue
		}

		if text := pickByLanguage(elems); text != "" {
			return text
		}
	}
	return ""
}

func pickByLanguage(elems []*xmlquery.Node) string {
	best := ""
	bestRank := len(languagePriority)

	fallback := ""
	for _, el := range elems {
		text := strings.TrimSpace(el.InnerText())
		if text == "" {
			continue
		}
		if fallback == "" {
			fallback = text
		}

		attr := el.SelectAttr("lang")
		if attr == "" {
			attr = el.SelectAttr("xml:lang")
		}
		if attr == "" {
			continue
		}
		tag, err := language.Parse(attr)
		if err != nil {
			continue
		}
		if _, rank, conf := languageMatcher.Match(tag); conf >= language.High && rank < bestRank {
			bestRank = rank
			best = text
		}
	}

	if best != "" {
		return best
	}
	return fallback
}

// GetRepeatedField collects trimmed text from every match of the candidate
// names, preserving document order. Elements with element children
// contribute each child's text instead of their own concatenation, which
// covers the common <images><image>...</image></images> wrapper shape.
func GetRepeatedField(node *xmlquery.Node, candidates []string) []string {
	var values []string
	for _, name := range candidates {
		elems := xmlquery.Find(node, name)
		if len(elems) == 0 {
			elems = xmlquery.Find(node, ".//"+name)
		}
		for _, el := range elems {
			values = append(values, leafTexts(el)...)
		}
		if len(values) > 0 {
			return values
		}
	}
	return values
}

func leafTexts(el *xmlquery.Node) []string {
	var children []*xmlquery.Node
	for child := el.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			children = append(children, child)
		}
	}

	if len(children) == 0 {
		if text := strings.TrimSpace(el.InnerText()); text != "" {
			return []string{text}
		}
		return nil
	}

	var texts []string
	for _, child := range children {
		if text := strings.TrimSpace(child.InnerText()); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}
