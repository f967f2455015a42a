// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiclens/civiclens/internal/httputil"
	"github.com/civiclens/civiclens/internal/sources"
	"github.com/civiclens/civiclens/internal/store"
	"github.com/civiclens/civiclens/pkg/types"
)

const politicianPayload = `{"members": [
	{"name": "Ada Okafor", "party": "Green", "jurisdiction": "North", "level": "national"},
	{"name": "Ben Castro", "party": "Labour", "jurisdiction": "South", "level": "national"}
]}`

func fastRetries(t *testing.T) {
	t.Helper()
	orig := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = 1 * time.Millisecond
	t.Cleanup(func() { httputil.RetryBaseDelay = orig })
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func politicianServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(politicianPayload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func brokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newOrchestrator(t *testing.T, srcs []types.Source) (*Orchestrator, *store.Store) {
	t.Helper()
	reg, err := sources.NewRegistry(srcs, types.HTTPConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)
	st := newTestStore(t)
	cfg := types.IngestConfig{SourceTimeout: 5 * time.Second}
	return New(reg, st, cfg, zerolog.Nop()), st
}

func TestRunAll_FailureIsolation(t *testing.T) {
	fastRetries(t)

	good := politicianServer(t)
	alsoGood := politicianServer(t)
	bad := brokenServer(t)

	o, st := newOrchestrator(t, []types.Source{
		{ID: "registry-a", Kind: types.KindPolitician, Endpoint: good.URL, Format: types.FormatJSON},
		{ID: "registry-b", Kind: types.KindPolitician, Endpoint: alsoGood.URL, Format: types.FormatJSON},
		{ID: "registry-down", Kind: types.KindPolitician, Endpoint: bad.URL, Format: types.FormatJSON},
	})

	run := o.RunAll(context.Background())

	assert.Equal(t, types.RunSettled, run.State)
	require.Len(t, run.Results, 3)
	assert.Equal(t, 2, run.Succeeded())
	assert.Equal(t, 1, run.Failed())

	down := run.Results["registry-down"]
	assert.False(t, down.Success)
	assert.NotEmpty(t, down.Error)

	// The failing source must not affect what the healthy ones stored.
	counts, err := st.CountsByKind(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, counts[types.KindPolitician])

	a := run.Results["registry-a"]
	assert.True(t, a.Success)
	assert.Equal(t, 2, a.Fetched)
	// Both registries serve the same people; whichever lands first inserts,
	// the other updates. Between them every record settled.
	b := run.Results["registry-b"]
	assert.Equal(t, 4, a.Inserted+a.Updated+b.Inserted+b.Updated)
}

func TestRunAll_SecondRunUpdatesInPlace(t *testing.T) {
	fastRetries(t)
	srv := politicianServer(t)

	o, st := newOrchestrator(t, []types.Source{
		{ID: "registry", Kind: types.KindPolitician, Endpoint: srv.URL, Format: types.FormatJSON},
	})

	first := o.RunAll(context.Background())
	require.Equal(t, 1, first.Succeeded())
	assert.Equal(t, 2, first.Results["registry"].Inserted)

	second := o.RunAll(context.Background())
	require.Equal(t, 1, second.Succeeded())
	assert.Equal(t, 0, second.Results["registry"].Inserted)
	assert.Equal(t, 2, second.Results["registry"].Updated)

	counts, err := st.CountsByKind(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, counts[types.KindPolitician])
}

func TestRunAll_CancelledBeforeStart(t *testing.T) {
	srv := politicianServer(t)
	o, _ := newOrchestrator(t, []types.Source{
		{ID: "registry", Kind: types.KindPolitician, Endpoint: srv.URL, Format: types.FormatJSON},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run := o.RunAll(ctx)
	assert.Equal(t, types.RunSettled, run.State)
	require.Len(t, run.Results, 1)
	res := run.Results["registry"]
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "cancelled")
}

func TestRunOne(t *testing.T) {
	fastRetries(t)
	srv := politicianServer(t)
	o, _ := newOrchestrator(t, []types.Source{
		{ID: "registry", Kind: types.KindPolitician, Endpoint: srv.URL, Format: types.FormatJSON},
	})

	res, err := o.RunOne(context.Background(), "registry")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Inserted)

	last := o.LastResults()
	require.Contains(t, last, "registry")
	assert.Equal(t, res.Inserted, last["registry"].Inserted)

	_, err = o.RunOne(context.Background(), "no-such-source")
	assert.ErrorContains(t, err, "unknown source")
}
