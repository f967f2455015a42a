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

// ProcurementAdapter fetches awarded public contracts, paginated.
type ProcurementAdapter struct {
	src    types.Source
	client *httputil.Client
}

type contractEntry struct {
	ContractNumber string          `json:"contract_number"`
	Buyer          string          `json:"buyer"`
	Supplier       string          `json:"supplier"`
	Subject        string          `json:"subject"`
	Value          json.RawMessage `json:"value"`
	Currency       string          `json:"currency"`
	AwardDate      string          `json:"award_date"`
}

type contractPayload struct {
	Contracts []contractEntry `json:"contracts"`
	HasMore   bool            `json:"has_more"`
}

func (a *ProcurementAdapter) Source() types.Source { return a.src }

// Fetch walks the contract listing. Contract values arrive as numbers or
// quoted strings depending on the publishing office; both are accepted and
// anything else reads as zero rather than skipping the contract.
func (a *ProcurementAdapter) Fetch(ctx context.Context) ([]types.Record, FetchStats, error) {
	var stats FetchStats
	var records []types.Record

	for page := 1; page <= maxPages; page++ {
		body, err := a.client.Get(ctx, withPage(a.src.Endpoint, page))
		if err != nil {
			return nil, FetchStats{}, err
		}

		var payload contractPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, FetchStats{}, fmt.Errorf("parsing contracts page %d: %w", page, err)
		}

		for _, c := range payload.Contracts {
			if strings.TrimSpace(c.ContractNumber) == "" {
				stats.Skipped++
				continue
			}
			records = append(records, types.ProcurementContract{
				ContractNumber: strings.TrimSpace(c.ContractNumber),
				Buyer:          strings.TrimSpace(c.Buyer),
				Supplier:       strings.TrimSpace(c.Supplier),
				Subject:        strings.TrimSpace(c.Subject),
				Value:          parseAmount(c.Value),
				Currency:       strings.TrimSpace(c.Currency),
				AwardedAt:      parseDate(c.AwardDate),
			})
			stats.Fetched++
		}

		if !payload.HasMore || len(payload.Contracts) == 0 {
			break
		}
	}
	return records, stats, nil
}

// parseAmount accepts a JSON number or a numeric string.
func parseAmount(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var v float64
		if _, err := fmt.Sscanf(strings.ReplaceAll(s, ",", ""), "%f", &v); err == nil {
			return v
		}
	}
	return 0
}
