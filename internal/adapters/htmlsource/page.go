package htmlsource

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// pageData is the raw text pulled off one detail page before any
// normalization or drop rule runs.
type pageData struct {
	Title           string
	PriceText       string
	DescriptionHTML string
	TypeText        string
	StatusText      string
	Address         string
	BedroomsText    string
	BathroomsText   string
	SizeText        string
	YearText        string
	VideoURL        string
	VirtualTour     string
	Images          []string
	Features        []string
}

func (a *Adapter) fetchDetailPage(pageURL string) (*pageData, error) {
	collector := a.collector.Clone()
	sel := a.profile.Selectors

	page := &pageData{}
	var fetchErr error

	collector.OnHTML("html", func(e *colly.HTMLElement) {
		doc := e.DOM

		text := func(selector string) string {
			if selector == "" {
				return ""
			}
			return strings.TrimSpace(doc.Find(selector).First().Text())
		}

		page.Title = text(sel.Title)
		page.PriceText = text(sel.Price)
		page.TypeText = text(sel.Type)
		page.StatusText = text(sel.Status)
		page.Address = text(sel.Address)
		page.BedroomsText = text(sel.Bedrooms)
		page.BathroomsText = text(sel.Bathrooms)
		page.SizeText = text(sel.Size)
		page.YearText = text(sel.Year)

		if sel.Description != "" {
			if html, err := doc.Find(sel.Description).First().Html(); err == nil {
				page.DescriptionHTML = strings.TrimSpace(html)
			}
		}

		attr := sel.ImageAttr
		if attr == "" {
			attr = "src"
		}
		if sel.Images != "" {
			doc.Find(sel.Images).Each(func(_ int, s *goquery.Selection) {
				src, _ := s.Attr(attr)
				if src == "" {
					src, _ = s.Attr("src")
				}
				if src != "" {
					page.Images = append(page.Images, e.Request.AbsoluteURL(src))
				}
			})
		}

		if sel.Features != "" {
			doc.Find(sel.Features).Each(func(_ int, s *goquery.Selection) {
				if feature := strings.TrimSpace(s.Text()); feature != "" {
					page.Features = append(page.Features, feature)
				}
			})
		}

		if sel.VideoURL != "" {
			if href, ok := doc.Find(sel.VideoURL).First().Attr("href"); ok {
				page.VideoURL = href
			} else {
				page.VideoURL = text(sel.VideoURL)
			}
		}
		if sel.VirtualTour != "" {
			if href, ok := doc.Find(sel.VirtualTour).First().Attr("href"); ok {
				page.VirtualTour = href
			} else {
				page.VirtualTour = text(sel.VirtualTour)
			}
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := collector.Visit(pageURL); err != nil {
		return nil, err
	}
	collector.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	return page, nil
}
