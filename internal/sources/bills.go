// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/civiclens/civiclens/internal/httputil"
	"github.com/civiclens/civiclens/pkg/types"
)

// BillAdapter fetches legislation and roll-call results, paginated.
type BillAdapter struct {
	src    types.Source
	client *httputil.Client
}

type billEntry struct {
	Number     string `json:"number"`
	Session    string `json:"session"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	Sponsor    string `json:"sponsor"`
	Introduced string `json:"introduced"`
	Votes      struct {
		For     int `json:"for"`
		Against int `json:"against"`
	} `json:"votes"`
}

type billPayload struct {
	Bills   []billEntry `json:"bills"`
	HasMore bool        `json:"has_more"`
}

func (a *BillAdapter) Source() types.Source { return a.src }

// Fetch walks the paginated bill listing until the upstream reports no
// further pages. A parse failure on the first page fails the source; bad
// individual entries are skipped.
func (a *BillAdapter) Fetch(ctx context.Context) ([]types.Record, FetchStats, error) {
	var stats FetchStats
	var records []types.Record

	for page := 1; page <= maxPages; page++ {
		body, err := a.client.Get(ctx, withPage(a.src.Endpoint, page))
		if err != nil {
			return nil, FetchStats{}, err
		}

		var payload billPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, FetchStats{}, fmt.Errorf("parsing bills page %d: %w", page, err)
		}

		for _, b := range payload.Bills {
			if strings.TrimSpace(b.Number) == "" {
				stats.Skipped++
				continue
			}
			session := strings.TrimSpace(b.Session)
			if session == "" {
				session = "current"
			}
			records = append(records, types.Bill{
				Number:       strings.TrimSpace(b.Number),
				Session:      session,
				Title:        strings.TrimSpace(b.Title),
				Status:       strings.TrimSpace(b.Status),
				Sponsor:      strings.TrimSpace(b.Sponsor),
				IntroducedAt: parseDate(b.Introduced),
				VotesFor:     b.Votes.For,
				VotesAgainst: b.Votes.Against,
			})
			stats.Fetched++
		}

		if !payload.HasMore || len(payload.Bills) == 0 {
			break
		}
	}
	return records, stats, nil
}
