package htmlsource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"

	"listing-ingest-service/internal/configs"
	"listing-ingest-service/internal/contextkeys"
	"listing-ingest-service/internal/core/domain"
	"listing-ingest-service/internal/core/port"
)

// Adapter scrapes one website source. A parent collector holds the shared
// politeness settings; every page visit works on a clone of it.
type Adapter struct {
	profile   *configs.SourceProfile
	geocoder  port.GeocoderPort
	collector *colly.Collector
}

func NewAdapter(profile *configs.SourceProfile, geocoder port.GeocoderPort) (*Adapter, error) {
	c := colly.NewCollector(colly.AllowURLRevisit())
	c.SetRequestTimeout(60 * time.Second)

	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		RandomDelay: 2 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("htmlsource: failed to set limit rule: %w", err)
	}

	extensions.RandomUserAgent(c)
	extensions.Referer(c)

	return &Adapter{
		profile:   profile,
		geocoder:  geocoder,
		collector: c,
	}, nil
}

func (a *Adapter) Name() string {
	return a.profile.Name
}

// Discover walks the paginated index pages and collects detail-page links.
// A failed index page is logged and skipped; the remaining pages still run.
// The link/address tuple deduplication makes re-discovery idempotent.
func (a *Adapter) Discover(ctx context.Context) ([]domain.ListingRef, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	var refs []domain.ListingRef
	seen := make(map[string]struct{})

	for page := 1; page <= a.profile.PageCount; page++ {
		if err := ctx.Err(); err != nil {
			return refs, err
		}

		pageURL := fmt.Sprintf(a.profile.PageURLPattern, page)
		found, err := a.fetchIndexPage(pageURL)
		if err != nil {
			logger.Warn("index page failed, skipping", port.Fields{
				"source": a.profile.Name,
				"page":   pageURL,
				"error":  err.Error(),
			})
			continue
		}

		for _, ref := range found {
			key := ref.URL + "|" + ref.Address
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			refs = append(refs, ref)
		}
	}

	logger.Info("discovery finished", port.Fields{
		"source":   a.profile.Name,
		"listings": len(refs),
	})
	return refs, nil
}

func (a *Adapter) fetchIndexPage(pageURL string) ([]domain.ListingRef, error) {
	collector := a.collector.Clone()
	sel := a.profile.Selectors

	var found []domain.ListingRef
	var fetchErr error

	if sel.Card != "" {
		// Link and address come off the same card, so a card missing its
		// address cannot shift the neighbours' addresses.
		collector.OnHTML(sel.Card, func(e *colly.HTMLElement) {
			href := e.ChildAttr(sel.ListingLink, "href")
			if href == "" {
				href = e.ChildAttr("a", "href")
			}
			if href == "" {
				return
			}
			ref := domain.ListingRef{URL: e.Request.AbsoluteURL(href)}
			if sel.IndexAddress != "" {
				ref.Address = strings.TrimSpace(e.ChildText(sel.IndexAddress))
			}
			found = append(found, ref)
		})
	} else {
		collector.OnHTML(sel.ListingLink, func(e *colly.HTMLElement) {
			href := e.Attr("href")
			if href == "" {
				href = e.ChildAttr("a", "href")
			}
			if href == "" {
				return
			}
			found = append(found, domain.ListingRef{URL: e.Request.AbsoluteURL(href)})
		})
	}

	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
	})

	if err := collector.Visit(pageURL); err != nil {
		return nil, err
	}
	collector.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	return found, nil
}

// Extract fetches one detail page and maps it into the canonical listing.
func (a *Adapter) Extract(ctx context.Context, ref domain.ListingRef) (*domain.Listing, error) {
	page, err := a.fetchDetailPage(ref.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", ref.URL, err)
	}
	return a.mapPage(ctx, page, ref)
}
