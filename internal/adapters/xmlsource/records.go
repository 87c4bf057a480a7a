package xmlsource

import (
	"github.com/antchfx/xmlquery"

	"listing-ingest-service/internal/constants"
)

// FindRecords locates the listing records inside a parsed feed. Container
// tag names are tried in a fixed order; the first one with matches wins.
// When no known container matches, the direct element children of the root
// are treated as records.
func FindRecords(doc *xmlquery.Node) []*xmlquery.Node {
	for _, tag := range constants.RecordContainerTags {
		if nodes := xmlquery.Find(doc, "//"+tag); len(nodes) > 0 {
			return nodes
		}
	}

	root := firstElementChild(doc)
	if root == nil {
		return nil
	}

	var records []*xmlquery.Node
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			records = append(records, child)
		}
	}
	return records
}

func firstElementChild(node *xmlquery.Node) *xmlquery.Node {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return child
		}
	}
	return nil
}
