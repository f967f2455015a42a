// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/civiclens/civiclens/internal/httputil"
	"github.com/civiclens/civiclens/pkg/types"
)

// LegalActAdapter fetches an official gazette's XML feed of adopted acts.
type LegalActAdapter struct {
	src    types.Source
	client *httputil.Client
}

type actFeed struct {
	XMLName xml.Name   `xml:"acts"`
	Acts    []actEntry `xml:"act"`
}

type actEntry struct {
	Number   string `xml:"number"`
	Year     int    `xml:"year"`
	Title    string `xml:"title"`
	Category string `xml:"category"`
	Adopted  string `xml:"adopted"`
	URL      string `xml:"url"`
}

func (a *LegalActAdapter) Source() types.Source { return a.src }

func (a *LegalActAdapter) Fetch(ctx context.Context) ([]types.Record, FetchStats, error) {
	body, err := a.client.Get(ctx, a.src.Endpoint)
	if err != nil {
		return nil, FetchStats{}, err
	}

	var feed actFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, FetchStats{}, fmt.Errorf("parsing gazette feed: %w", err)
	}

	var stats FetchStats
	var records []types.Record
	for _, e := range feed.Acts {
		if strings.TrimSpace(e.Number) == "" || e.Year == 0 {
			stats.Skipped++
			continue
		}
		records = append(records, types.LegalAct{
			Number:    strings.TrimSpace(e.Number),
			Year:      e.Year,
			Title:     strings.TrimSpace(e.Title),
			Category:  strings.TrimSpace(e.Category),
			AdoptedAt: parseDate(e.Adopted),
			URL:       strings.TrimSpace(e.URL),
		})
		stats.Fetched++
	}
	return records, stats, nil
}
