package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/annolab/anchor/internal/annostore"
	"github.com/annolab/anchor/internal/offsets"
	"github.com/annolab/anchor/internal/stats"
	"github.com/google/uuid"
)

// Worker processes a single batch resolution job.
type Worker struct {
	store *annostore.Client
	log   *slog.Logger
	stats *stats.Stats

	maxConcurrentResolve int
	maxConcurrentStore   int
}

func NewWorker(store *annostore.Client, log *slog.Logger, st *stats.Stats, maxResolve, maxStore int) *Worker {
	return &Worker{
		store:                store,
		log:                  log,
		stats:                st,
		maxConcurrentResolve: maxResolve,
		maxConcurrentStore:   maxStore,
	}
}

// Process runs the full resolve-and-store pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse the document once; all queries share the tree.
	job.SetStatus(StatusResolving, "parsing")
	resolver, err := offsets.NewResolver(job.Document())
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Resolve queries with bounded concurrency. The resolver is
	// read-only after construction, so queries run in parallel.
	job.SetStatus(StatusResolving, "resolving")
	queries := job.Queries()
	sem := make(chan struct{}, w.maxConcurrentResolve)
	done := make(chan struct{}, len(queries))

	for i, q := range queries {
		sem <- struct{}{}
		go func(i int, q Query) {
			defer func() { <-sem; done <- struct{}{} }()

			started := time.Now()
			span, err := resolver.Resolve(q.Xpath, q.Substring)
			res := QueryResult{Index: i, AnnotationID: q.AnnotationID}
			if err != nil {
				res.Error = err.Error()
				w.stats.RecordFailure(offsets.ErrorKind(err))
			} else {
				res.Start = span.Start
				res.End = span.End
				w.stats.RecordSuccess(time.Since(started).Milliseconds())
			}
			job.SetResult(i, res)
		}(i, q)
	}
	for range queries {
		<-done
	}

	snap := job.Snapshot()
	resolvedCount := 0
	hadErrors := false
	for _, r := range snap.Results {
		if r.Error == "" {
			resolvedCount++
		} else {
			hadErrors = true
			job.AddError(fmt.Sprintf("query %d: %s", r.Index, r.Error))
		}
	}
	log.Info("resolution complete", "resolved", resolvedCount, "total", len(queries))

	if resolvedCount == 0 {
		job.SetStatus(StatusFailed, "resolving")
		return
	}

	// Phase 3: Persist resolved spans with bounded concurrency and
	// retry on transient store failures.
	job.SetStatus(StatusStoring, "storing")
	storeSem := make(chan struct{}, w.maxConcurrentStore)
	storeDone := make(chan error, resolvedCount)

	storing := 0
	for _, r := range snap.Results {
		if r.Error != "" {
			continue
		}
		storing++
		storeSem <- struct{}{}
		go func(r QueryResult, q Query) {
			defer func() { <-storeSem }()
			storeDone <- w.storeSpan(ctx, job, r, q)
		}(r, queries[r.Index])
	}

	storedCount := 0
	for i := 0; i < storing; i++ {
		if err := <-storeDone; err != nil {
			log.Error("store failed", "error", err)
			job.AddError(fmt.Sprintf("store: %s", err))
			hadErrors = true
		} else {
			storedCount++
			job.IncrSpansStored()
		}
	}
	log.Info("storage complete", "stored", storedCount, "total", storing)

	switch {
	case hadErrors && storedCount > 0:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "storing")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// storeSpan writes one resolved span, retrying transient failures.
func (w *Worker) storeSpan(ctx context.Context, job *Job, r QueryResult, q Query) error {
	id := r.AnnotationID
	if id == "" {
		id = uuid.NewString()
	}
	rec := annostore.SpanRecord{
		DocID:     job.DocID,
		Xpath:     q.Xpath,
		Substring: q.Substring,
		Start:     r.Start,
		End:       r.End,
		Source:    "anchor:" + job.ID,
	}

	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = w.store.PutSpan(ctx, id, rec)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		w.log.Warn("retryable store error", "span_id", id, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
