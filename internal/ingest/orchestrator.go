// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest runs all source adapters for a run and settles every
// outcome. One source's total failure never prevents any other source's
// ingestion from completing or being reported: there is no aggregate
// "run failed" state, callers inspect individual results.
package ingest

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/civiclens/civiclens/internal/sources"
	"github.com/civiclens/civiclens/internal/store"
	"github.com/civiclens/civiclens/pkg/types"
)

// Orchestrator fans ingestion out across the registered adapters and merges
// their records into the store.
type Orchestrator struct {
	registry *sources.Registry
	store    *store.Store
	cfg      types.IngestConfig
	log      zerolog.Logger

	mu   sync.Mutex
	last map[string]types.IngestionResult
}

// New builds an Orchestrator. All collaborators are injected so tests can
// substitute adapters and an in-memory store.
func New(registry *sources.Registry, st *store.Store, cfg types.IngestConfig, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		store:    st,
		cfg:      cfg,
		log:      log,
		last:     make(map[string]types.IngestionResult),
	}
}

// RunAll executes every registered adapter concurrently and waits for all of
// them to settle. Launches are spaced by the configured inter-source delay.
// Once ctx is cancelled no further adapters are launched; those are recorded
// as failed without running, while already-started adapters finish their
// fetch and report normally.
func (o *Orchestrator) RunAll(ctx context.Context) types.IngestionRun {
	run := types.IngestionRun{
		ID:        runID(),
		State:     types.RunPending,
		StartedAt: time.Now().UTC(),
		Results:   make(map[string]types.IngestionResult),
	}

	adapters := o.registry.All()
	o.log.Info().Str("run", run.ID).Int("sources", len(adapters)).Msg("ingestion run starting")
	run.State = types.RunRunning

	ch := make(chan types.IngestionResult, len(adapters))
	var wg sync.WaitGroup

	for i, a := range adapters {
		if i > 0 && o.cfg.InterSourceDelay > 0 && ctx.Err() == nil {
			select {
			case <-ctx.Done():
			case <-time.After(o.cfg.InterSourceDelay):
			}
		}

		if ctx.Err() != nil {
			ch <- types.IngestionResult{
				SourceID:  a.Source().ID,
				Success:   false,
				Message:   "not started",
				Error:     "run cancelled before source was scheduled",
				Timestamp: time.Now().UTC(),
			}
			continue
		}

		wg.Add(1)
		go func(a sources.Adapter) {
			defer wg.Done()
			ch <- o.runAdapter(ctx, a)
		}(a)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	for res := range ch {
		run.Results[res.SourceID] = res
		o.recordLast(res)
	}

	run.Duration = time.Since(run.StartedAt)
	run.State = types.RunSettled
	o.log.Info().
		Str("run", run.ID).
		Int("succeeded", run.Succeeded()).
		Int("failed", run.Failed()).
		Dur("duration", run.Duration).
		Msg("ingestion run settled")
	return run
}

// RunOne executes a single adapter through the same failure-isolating
// wrapper used by RunAll.
func (o *Orchestrator) RunOne(ctx context.Context, sourceID string) (types.IngestionResult, error) {
	a, ok := o.registry.Get(sourceID)
	if !ok {
		return types.IngestionResult{}, fmt.Errorf("unknown source %q", sourceID)
	}
	res := o.runAdapter(ctx, a)
	o.recordLast(res)
	return res, nil
}

// LastResults returns a copy of the most recent result per source.
func (o *Orchestrator) LastResults() map[string]types.IngestionResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string]types.IngestionResult, len(o.last))
	for k, v := range o.last {
		out[k] = v
	}
	return out
}

// runAdapter wraps one adapter's fetch and upsert phase so that any error or
// panic becomes a failed IngestionResult instead of propagating. Records are
// written with a cancellation-free context: a cancelled run stops scheduling
// fetches, it does not abandon rows mid-write.
func (o *Orchestrator) runAdapter(ctx context.Context, a sources.Adapter) (res types.IngestionResult) {
	id := a.Source().ID
	res = types.IngestionResult{SourceID: id, Timestamp: time.Now().UTC()}

	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Message = "adapter panicked"
			res.Error = fmt.Sprint(r)
			o.log.Error().Str("source", id).Any("panic", r).Msg("adapter panicked")
		}
	}()

	fetchCtx := ctx
	if o.cfg.SourceTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, o.cfg.SourceTimeout)
		defer cancel()
	}

	records, stats, err := a.Fetch(fetchCtx)
	if err != nil {
		res.Success = false
		res.Message = "fetch failed"
		res.Error = err.Error()
		o.log.Warn().Str("source", id).Err(err).Msg("source unavailable")
		return res
	}

	res.Fetched = stats.Fetched
	res.Skipped = stats.Skipped

	writeCtx := context.WithoutCancel(ctx)
	for _, rec := range records {
		outcome, err := o.store.Upsert(writeCtx, rec)
		if err != nil {
			res.Skipped++
			o.log.Warn().Str("source", id).Str("key", rec.NaturalKey()).Err(err).Msg("upsert failed")
			continue
		}
		switch outcome {
		case store.Inserted:
			res.Inserted++
		case store.Updated:
			res.Updated++
		}
	}

	res.Success = true
	res.Message = fmt.Sprintf("%d fetched, %d inserted, %d updated, %d skipped",
		res.Fetched, res.Inserted, res.Updated, res.Skipped)
	return res
}

func (o *Orchestrator) recordLast(res types.IngestionResult) {
	o.mu.Lock()
	o.last[res.SourceID] = res
	o.mu.Unlock()
}

func runID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
