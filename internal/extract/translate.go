package extract

import "strings"

// TransformHTMLText walks the text segments between tags and applies fn to
// each, leaving tag structure byte-for-byte intact. Only content between '>'
// and '<' is ever touched.
func TransformHTMLText(htmlText string, fn func(string) string) string {
	if fn == nil {
		return htmlText
	}

	var b strings.Builder
	b.Grow(len(htmlText))

	inTag := false
	segmentStart := 0
	for i := 0; i < len(htmlText); i++ {
		switch htmlText[i] {
		case '<':
			if !inTag {
				if i > segmentStart {
					b.WriteString(fn(htmlText[segmentStart:i]))
				}
				inTag = true
				segmentStart = i
			}
		case '>':
			if inTag {
				b.WriteString(htmlText[segmentStart : i+1])
				inTag = false
				segmentStart = i + 1
			}
		}
	}
	if segmentStart < len(htmlText) {
		tail := htmlText[segmentStart:]
		if inTag {
			b.WriteString(tail)
		} else {
			b.WriteString(fn(tail))
		}
	}

	return b.String()
}

// PassthroughTranslation is the current no-op translation applied to
// HTML-preserving description fields.
func PassthroughTranslation(htmlText string) string {
	return TransformHTMLText(htmlText, func(text string) string { return text })
}
