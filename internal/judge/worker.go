package judge

import (
	"context"
	"log/slog"
	"os"
)

// Worker pulls submissions off a shared queue and drives each through
// screen, compile, and run in sequence, emitting exactly one verdict per
// submission before moving to the next. A worker never holds more than
// one submission's scratch files at a time. Configuration is read from
// source once per dequeue, so a config change (via config.Watch) takes
// effect starting with the next submission a worker picks up.
type Worker struct {
	id     int
	source *ConfigSource
	queue  *Queue
	sink   *Sink
}

// NewWorker builds a worker bound to a shared queue, sink, and live
// configuration source.
func NewWorker(id int, source *ConfigSource, queue *Queue, sink *Sink) *Worker {
	return &Worker{id: id, source: source, queue: queue, sink: sink}
}

// Run dequeues submissions until it receives the shutdown sentinel, then
// returns. Each non-shutdown submission is processed and its verdict
// emitted, regardless of whether earlier submissions failed.
func (w *Worker) Run(ctx context.Context) {
	for {
		sub := w.queue.Dequeue()
		if sub.IsShutdown() {
			return
		}
		result := w.processSafely(ctx, sub)
		if err := w.sink.Emit(sub.JobID, result); err != nil {
			slog.Error("failed to emit verdict", "worker", w.id, "job_id", sub.JobID, "error", err)
		}
	}
}

// processSafely recovers from a panic anywhere in process so a single
// malformed submission produces a RuntimeError verdict instead of
// killing the worker and stranding the rest of the queue.
func (w *Worker) processSafely(ctx context.Context, sub Submission) (result ExecResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("recovered from panic processing submission", "worker", w.id, "job_id", sub.JobID, "panic", r)
			result = ExecResult{Status: StatusRuntimeError, CompileLog: "internal error processing submission"}
		}
	}()
	return w.process(ctx, sub)
}

// process carries one submission through screen, compile, and run,
// short-circuiting on the first stage that produces a terminal verdict.
func (w *Worker) process(ctx context.Context, sub Submission) ExecResult {
	cfg := w.source.Load()

	banned, token, err := Screen(sub.Path, cfg.DenyTokens())
	if err != nil {
		return ExecResult{Status: StatusCompileError, CompileLog: "screening failed: " + err.Error()}
	}
	if banned {
		return ExecResult{Status: StatusBanned, Banned: true, CompileLog: "submission rejected: disallowed construct (" + token + ")"}
	}

	compiled, err := Compile(ctx, cfg, sub.Path)
	if err != nil {
		return ExecResult{Status: StatusCompileError, CompileLog: "compile failed: " + err.Error()}
	}
	if !compiled.OK {
		return ExecResult{Status: StatusCompileError, CompileLog: compiled.Log}
	}
	defer os.Remove(compiled.BinaryPath)

	result := Run(cfg, compiled.BinaryPath)
	result.CompileLog = compiled.Log
	return result
}
