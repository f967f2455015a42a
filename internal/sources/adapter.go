// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources implements one fetch+normalize adapter per external civic
// data source. Adapters map raw upstream payloads (JSON, XML, RSS) onto
// canonical records; a malformed individual entry is skipped and counted,
// never an error for the whole source.
package sources

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/civiclens/civiclens/internal/httputil"
	"github.com/civiclens/civiclens/pkg/types"
)

// FetchStats counts what one fetch produced.
type FetchStats struct {
	Fetched int
	Skipped int
}

// Adapter fetches one source and normalizes its payload. Each adapter owns
// its HTTP client so sources never share request budgets or any other
// mutable state.
type Adapter interface {
	Source() types.Source
	Fetch(ctx context.Context) ([]types.Record, FetchStats, error)
}

// New builds the adapter for a configured source based on its record kind.
func New(src types.Source, httpCfg types.HTTPConfig) (Adapter, error) {
	timeout := src.Timeout
	if timeout <= 0 {
		timeout = httpCfg.Timeout
	}
	client := httputil.NewClient(timeout, httpCfg.UserAgent, src.RequestsPerMinute)

	switch src.Kind {
	case types.KindPolitician:
		return &PoliticianAdapter{src: src, client: client}, nil
	case types.KindBill:
		return &BillAdapter{src: src, client: client}, nil
	case types.KindLegalAct:
		return &LegalActAdapter{src: src, client: client}, nil
	case types.KindProcurement:
		return &ProcurementAdapter{src: src, client: client}, nil
	case types.KindLobbyist:
		return &LobbyistAdapter{src: src, client: client}, nil
	case types.KindElection:
		return &ElectionAdapter{src: src, client: client}, nil
	case types.KindArticle:
		return &NewsAdapter{src: src, client: client}, nil
	default:
		return nil, fmt.Errorf("source %s: unknown kind %q", src.ID, src.Kind)
	}
}

// Registry holds the configured adapters keyed by source id.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds adapters for every configured source.
func NewRegistry(srcs []types.Source, httpCfg types.HTTPConfig) (*Registry, error) {
	r := &Registry{adapters: make(map[string]Adapter, len(srcs))}
	for _, src := range srcs {
		if src.ID == "" {
			return nil, fmt.Errorf("source with endpoint %s has no id", src.Endpoint)
		}
		if _, dup := r.adapters[src.ID]; dup {
			return nil, fmt.Errorf("duplicate source id %q", src.ID)
		}
		a, err := New(src, httpCfg)
		if err != nil {
			return nil, err
		}
		r.adapters[src.ID] = a
	}
	return r, nil
}

// Get returns the adapter for a source id, or false if none is registered.
func (r *Registry) Get(id string) (Adapter, bool) {
	a, ok := r.adapters[id]
	return a, ok
}

// All returns every adapter, ordered by source id for deterministic runs.
func (r *Registry) All() []Adapter {
	ids := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Adapter, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.adapters[id])
	}
	return out
}

// IDs returns the registered source ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// withPage appends or replaces a page query parameter on the endpoint.
func withPage(endpoint string, page int) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// maxPages bounds pagination so a misbehaving upstream cannot loop a fetch
// forever.
const maxPages = 50

// parseDate accepts the date layouts seen across civic endpoints.
func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
