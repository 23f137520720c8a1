package judge

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/AhsanRiaz786/the-sentinel/config"
)

// RunBatch compiles and executes every path in paths under cfg's worker
// pool, emitting one NDJSON verdict record per submission to w in the
// order workers finish (not necessarily input order — see SPEC_FULL.md
// §1). Submission IDs are assigned 1-based, matching input order.
// cfg is fixed for the whole run; callers that want the batch to react
// to a config file changing mid-run should build a ConfigSource
// themselves and call RunBatchWithSource instead (cmd/judge.go does
// this by wiring config.Watch to the source).
func RunBatch(ctx context.Context, cfg *config.Config, paths []string, w io.Writer) error {
	return RunBatchWithSource(ctx, NewConfigSource(cfg), cfg.WorkerCount(), cfg.QueueCap(), paths, w)
}

// RunBatchWithSource is RunBatch generalized over a live ConfigSource:
// worker pool size and queue capacity are fixed for the run (changing
// them mid-batch would mean resizing a running pool), but every other
// setting — rlimits, wall clock, output ceilings, deny tokens, scratch
// and compiler paths — is re-read from source by each worker on every
// dequeue, so a config reload takes effect for the next submission
// dispatched to a worker without restarting the batch.
//
// Workers are fanned out over an errgroup so the caller can await every
// worker draining to the shutdown sentinel with a single g.Wait(). Each
// worker recovers from a panic in its own submission (see
// Worker.processSafely) and reports it as a RuntimeError verdict, so
// one malformed submission can't abort the batch or take its worker
// down.
func RunBatchWithSource(ctx context.Context, source *ConfigSource, workers, queueCap int, paths []string, w io.Writer) error {
	queue := NewQueue(queueCap)
	sink := NewSink(w)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		worker := NewWorker(i, source, queue, sink)
		g.Go(func() error {
			worker.Run(ctx)
			return nil
		})
	}

	for i, path := range paths {
		queue.Enqueue(Submission{JobID: i + 1, Path: path})
	}
	for i := 0; i < workers; i++ {
		queue.Enqueue(Submission{JobID: ShutdownJobID})
	}

	return g.Wait()
}
