// Package research implements the field-research orchestrator: it fans out
// one concurrent lookup task per (artist, field) pair, streams each result in
// completion order the moment it arrives, assembles per-artist records,
// persists completed artists to the cache store, and aborts the whole run on
// the fatal search-quota signal.
package research

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/scrypster/showscout/internal/cache"
	"github.com/scrypster/showscout/internal/llm"
	"github.com/scrypster/showscout/internal/tools"
	"github.com/scrypster/showscout/pkg/types"
)

// Executor runs one lookup prompt against the reasoning backend. Satisfied
// by *llm.Executor; tests substitute fakes.
type Executor interface {
	RunStructured(ctx context.Context, prompt string, toolset []tools.Tool) (map[string]any, error)
	RunText(ctx context.Context, prompt string, toolset []tools.Tool) (string, error)
}

// ToolProvider supplies the tool sets offered to the backend. Satisfied by
// *tools.Registry.
type ToolProvider interface {
	All() []tools.Tool
	ForField(f types.Field) []tools.Tool
}

// Config holds orchestration settings.
type Config struct {
	// FieldTimeout bounds one (artist, field) task. A timeout fails that
	// field only; sibling tasks are unaffected.
	FieldTimeout time.Duration
	// Fields is the expected field set per artist.
	Fields []types.Field
}

// DefaultConfig returns the production orchestration settings.
func DefaultConfig() Config {
	return Config{
		FieldTimeout: 25 * time.Second,
		Fields:       types.AllFields,
	}
}

// Orchestrator coordinates a research run end to end.
type Orchestrator struct {
	exec      Executor
	quickExec Executor
	tools     ToolProvider
	store     cache.Store
	cfg       Config
}

// New creates an orchestrator. quickExec is the faster no-tools backend used
// for quick summaries; it may be the same executor as exec.
func New(exec, quickExec Executor, tp ToolProvider, store cache.Store, cfg Config) *Orchestrator {
	if len(cfg.Fields) == 0 {
		cfg.Fields = types.AllFields
	}
	if cfg.FieldTimeout == 0 {
		cfg.FieldTimeout = DefaultConfig().FieldTimeout
	}
	return &Orchestrator{
		exec:      exec,
		quickExec: quickExec,
		tools:     tp,
		store:     store,
		cfg:       cfg,
	}
}

// taskResult is one completed (artist, field) lookup flowing back through
// the fan-in channel.
type taskResult struct {
	artist string
	field  types.Field
	result types.FieldResult
	fatal  error
}

// ResearchFields runs the full fan-out/fan-in state machine for the request
// and returns the event stream. The channel is closed after the terminal
// frame. The returned stream emits datapoints in completion order, which is
// explicitly not submission order.
func (o *Orchestrator) ResearchFields(ctx context.Context, req types.ResearchRequest) <-chan types.StreamEvent {
	out := make(chan types.StreamEvent)
	go func() {
		defer close(out)
		o.runFields(ctx, req, out)
	}()
	return out
}

func (o *Orchestrator) runFields(ctx context.Context, req types.ResearchRequest, out chan<- types.StreamEvent) {
	// Entity selection: retire artists whose cached record already carries
	// every expected field, replaying their datapoints in stored order.
	var toResearch []string
	for _, artist := range req.Artists {
		if !req.NoCache {
			if rec := o.loadArtistRecord(ctx, req.Event, artist); rec != nil {
				for _, entry := range rec.Fields {
					if !emit(ctx, out, types.Datapoint(artist, entry.Field, entry.Result)) {
						return
					}
				}
				continue
			}
		}
		toResearch = append(toResearch, artist)
	}

	// Fast path: everything served from cache.
	if len(toResearch) == 0 {
		emit(ctx, out, types.Complete())
		return
	}

	runID := uuid.NewString()[:8]
	log.Printf("orchestrator: run %s researching %d artists x %d fields (no_cache=%v)",
		runID, len(toResearch), len(o.cfg.Fields), req.NoCache)

	// Fan-out. The channel is buffered to the task count so tasks abandoned
	// by a fatal abort can still deliver and terminate.
	results := make(chan taskResult, len(toResearch)*len(o.cfg.Fields))
	records := make(map[string]*types.ArtistRecord, len(toResearch))
	pending := 0

	for _, artist := range toResearch {
		records[artist] = &types.ArtistRecord{Artist: artist}
		for _, field := range o.cfg.Fields {
			prompt, ok := llm.FieldPrompt(field, artist)
			if !ok {
				// Unknown fields are rejected at dispatch without consuming
				// a task slot.
				rec := records[artist]
				rec.Set(field, types.ErrResult("unknown field: "+string(field)))
				if !emit(ctx, out, types.Datapoint(artist, field, types.ErrResult("unknown field: "+string(field)))) {
					return
				}
				continue
			}
			pending++
			go func(artist string, field types.Field, prompt string) {
				results <- o.researchField(ctx, artist, field, prompt)
			}(artist, field, prompt)
		}
	}

	// Fan-in: the only writer of the per-artist records. Results are
	// consumed in whatever order tasks finish.
	for ; pending > 0; pending-- {
		var tr taskResult
		select {
		case tr = <-results:
		case <-ctx.Done():
			return
		}

		if tr.fatal != nil {
			// Stop consuming and persist nothing further. Results already
			// streamed and artists already persisted stay valid.
			log.Printf("orchestrator: run %s aborting: %v", runID, tr.fatal)
			emit(ctx, out, types.ErrorEvent(tr.fatal.Error()))
			return
		}

		rec := records[tr.artist]
		rec.Set(tr.field, tr.result)
		if !emit(ctx, out, types.Datapoint(tr.artist, tr.field, tr.result)) {
			return
		}

		// Persist once per artist, gated on all fields present. Failed
		// fields count: a partial-failure record is still a finished record.
		if rec.Complete(o.cfg.Fields) && !req.NoCache {
			key := cache.Fingerprint(req.Event, cache.ArtistFieldsMode(tr.artist))
			o.store.Save(ctx, key, cache.Record{
				Artist: tr.artist,
				Fields: rec.Entries,
			})
			log.Printf("orchestrator: run %s cached artist %q", runID, tr.artist)
		}
	}

	emit(ctx, out, types.Complete())
}

// researchField runs one (artist, field) lookup with its own deadline and
// converts every recoverable failure into a FieldResult. Only the
// quota-exhaustion signal travels back as a fatal error.
func (o *Orchestrator) researchField(ctx context.Context, artist string, field types.Field, prompt string) taskResult {
	tctx, cancel := context.WithTimeout(ctx, o.cfg.FieldTimeout)
	defer cancel()

	obj, err := o.exec.RunStructured(tctx, prompt, o.tools.ForField(field))
	if err != nil {
		if errors.Is(err, tools.ErrSearchQuotaExhausted) {
			return taskResult{artist: artist, field: field, fatal: err}
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return taskResult{artist: artist, field: field, result: types.ErrResult("timeout")}
		}
		return taskResult{artist: artist, field: field, result: types.ErrResult(err.Error())}
	}
	return taskResult{artist: artist, field: field, result: normalizeResult(field, obj)}
}

// loadArtistRecord returns the cached record for an artist only when it is
// complete: every expected field present, success or error. Anything less is
// treated as a miss and the artist is re-researched.
func (o *Orchestrator) loadArtistRecord(ctx context.Context, event types.EventContext, artist string) *cache.Record {
	key := cache.Fingerprint(event, cache.ArtistFieldsMode(artist))
	rec, err := o.store.Load(ctx, key)
	if err != nil || rec == nil {
		return nil
	}
	present := make(map[types.Field]bool, len(rec.Fields))
	for _, entry := range rec.Fields {
		present[entry.Field] = true
	}
	for _, f := range o.cfg.Fields {
		if !present[f] {
			return nil
		}
	}
	return rec
}

// emit delivers an event unless the consumer has gone away.
func emit(ctx context.Context, out chan<- types.StreamEvent, ev types.StreamEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
