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

// ElectionAdapter fetches an election schedule.
type ElectionAdapter struct {
	src    types.Source
	client *httputil.Client
}

type electionEntry struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Date         string `json:"date"`
	Jurisdiction string `json:"jurisdiction"`
}

type electionPayload struct {
	Elections []electionEntry `json:"elections"`
}

func (a *ElectionAdapter) Source() types.Source { return a.src }

// Fetch retrieves the schedule. An entry needs either an upstream id or a
// type and a parseable date to form an identity; otherwise it is skipped.
func (a *ElectionAdapter) Fetch(ctx context.Context) ([]types.Record, FetchStats, error) {
	body, err := a.client.Get(ctx, a.src.Endpoint)
	if err != nil {
		return nil, FetchStats{}, err
	}

	var payload electionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, FetchStats{}, fmt.Errorf("parsing schedule: %w", err)
	}

	var stats FetchStats
	var records []types.Record
	for _, e := range payload.Elections {
		date := parseDate(e.Date)
		if e.ID == "" && (strings.TrimSpace(e.Type) == "" || date.IsZero()) {
			stats.Skipped++
			continue
		}
		records = append(records, types.Election{
			ElectionID:   strings.TrimSpace(e.ID),
			Type:         strings.TrimSpace(e.Type),
			Date:         date,
			Jurisdiction: strings.TrimSpace(e.Jurisdiction),
		})
		stats.Fetched++
	}
	return records, stats, nil
}
