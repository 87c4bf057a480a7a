package extract

import (
	"strings"

	"golang.org/x/net/html"

	"listing-ingest-service/internal/constants"
)

// BuildExcerpt turns an HTML description into a plain-text excerpt: entities
// decoded, tags stripped, whitespace runs collapsed to single spaces, then
// truncated to the first 300 codepoints. Truncation is not word-boundary
// aware; cutting mid-word is accepted behavior.
func BuildExcerpt(htmlText string) string {
	return buildExcerpt(htmlText, constants.ExcerptLimit)
}

func buildExcerpt(htmlText string, limit int) string {
	var b strings.Builder

	tokenizer := html.NewTokenizer(strings.NewReader(htmlText))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tokenizer.Text())
			b.WriteByte(' ')
		}
	}

	text := strings.Join(strings.Fields(b.String()), " ")

	runes := []rune(text)
	if limit > 0 && len(runes) > limit {
		return string(runes[:limit])
	}
	return text
}
