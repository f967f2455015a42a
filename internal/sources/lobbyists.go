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

// LobbyistAdapter fetches a lobbyist registry.
type LobbyistAdapter struct {
	src    types.Source
	client *httputil.Client
}

type lobbyistEntry struct {
	RegistryNumber string   `json:"registry_number"`
	Name           string   `json:"name"`
	Organization   string   `json:"organization"`
	Clients        []string `json:"clients"`
	Registered     string   `json:"registered"`
}

type lobbyistPayload struct {
	Registrations []lobbyistEntry `json:"registrations"`
}

func (a *LobbyistAdapter) Source() types.Source { return a.src }

func (a *LobbyistAdapter) Fetch(ctx context.Context) ([]types.Record, FetchStats, error) {
	body, err := a.client.Get(ctx, a.src.Endpoint)
	if err != nil {
		return nil, FetchStats{}, err
	}

	var payload lobbyistPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, FetchStats{}, fmt.Errorf("parsing registrations: %w", err)
	}

	var stats FetchStats
	var records []types.Record
	for _, l := range payload.Registrations {
		if strings.TrimSpace(l.RegistryNumber) == "" {
			stats.Skipped++
			continue
		}
		records = append(records, types.Lobbyist{
			RegistryNumber: strings.TrimSpace(l.RegistryNumber),
			Name:           strings.TrimSpace(l.Name),
			Organization:   strings.TrimSpace(l.Organization),
			Clients:        l.Clients,
			RegisteredAt:   parseDate(l.Registered),
		})
		stats.Fetched++
	}
	return records, stats, nil
}
