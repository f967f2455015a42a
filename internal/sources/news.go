// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/civiclens/civiclens/internal/httputil"
	"github.com/civiclens/civiclens/pkg/types"
)

// NewsAdapter fetches an RSS/Atom news feed. The item link is the article's
// identity across ingestions; the source's declared credibility and bias are
// stamped onto every article it produces.
type NewsAdapter struct {
	src    types.Source
	client *httputil.Client
}

func (a *NewsAdapter) Source() types.Source { return a.src }

func (a *NewsAdapter) Fetch(ctx context.Context) ([]types.Record, FetchStats, error) {
	body, err := a.client.Get(ctx, a.src.Endpoint)
	if err != nil {
		return nil, FetchStats{}, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, FetchStats{}, fmt.Errorf("parsing feed: %w", err)
	}

	now := time.Now()
	var stats FetchStats
	var records []types.Record
	for _, item := range feed.Items {
		if strings.TrimSpace(item.Link) == "" {
			stats.Skipped++
			continue
		}

		published := now
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}

		records = append(records, types.Article{
			URL:         strings.TrimSpace(item.Link),
			Title:       strings.TrimSpace(item.Title),
			Summary:     htmlToText(item.Description),
			Body:        htmlToText(content),
			SourceName:  a.src.Name,
			Published:   published,
			Credibility: a.src.Credibility,
			Bias:        a.src.Bias,
		})
		stats.Fetched++
	}
	return records, stats, nil
}

// htmlToText strips markup from feed item HTML, collapsing whitespace.
// Input that is not HTML passes through unchanged.
func htmlToText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
