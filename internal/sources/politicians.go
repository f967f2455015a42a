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

// PoliticianAdapter fetches a parliament or council member roster.
type PoliticianAdapter struct {
	src    types.Source
	client *httputil.Client
}

// politicianEntry is the upstream roster entry shape.
type politicianEntry struct {
	Name         string `json:"name"`
	Party        string `json:"party"`
	Jurisdiction string `json:"jurisdiction"`
	Constituency string `json:"constituency"`
	Level        string `json:"level"`
	Role         string `json:"role"`
	Email        string `json:"email"`
	TermStart    string `json:"term_start"`
}

type politicianPayload struct {
	Members []politicianEntry `json:"members"`
}

func (a *PoliticianAdapter) Source() types.Source { return a.src }

// Fetch retrieves the full roster. Entries without a name cannot form a
// natural key and are skipped.
func (a *PoliticianAdapter) Fetch(ctx context.Context) ([]types.Record, FetchStats, error) {
	body, err := a.client.Get(ctx, a.src.Endpoint)
	if err != nil {
		return nil, FetchStats{}, err
	}

	var payload politicianPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, FetchStats{}, fmt.Errorf("parsing roster: %w", err)
	}

	var stats FetchStats
	var records []types.Record
	for _, m := range payload.Members {
		if strings.TrimSpace(m.Name) == "" {
			stats.Skipped++
			continue
		}

		jurisdiction := m.Jurisdiction
		if jurisdiction == "" {
			jurisdiction = m.Constituency
		}
		level := m.Level
		if level == "" {
			level = "national"
		}

		records = append(records, types.Politician{
			Name:         strings.TrimSpace(m.Name),
			Party:        strings.TrimSpace(m.Party),
			Jurisdiction: strings.TrimSpace(jurisdiction),
			Level:        level,
			Role:         strings.TrimSpace(m.Role),
			Email:        strings.TrimSpace(m.Email),
			TermStart:    parseDate(m.TermStart),
		})
		stats.Fetched++
	}
	return records, stats, nil
}
