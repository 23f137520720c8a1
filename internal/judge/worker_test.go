package judge

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/AhsanRiaz786/the-sentinel/config"
)

func TestWorkerProcessBanned(t *testing.T) {
	path := writeSource(t, `int main(){system("ls");}`)
	w := NewWorker(0, NewConfigSource(testConfig(t)), NewQueue(1), NewSink(&strings.Builder{}))
	result := w.process(context.Background(), Submission{JobID: 1, Path: path})
	if result.Status != StatusBanned {
		t.Fatalf("expected Banned, got %s", result.Status)
	}
	if !strings.Contains(result.CompileLog, "system(") {
		t.Fatalf("expected offending token in compile log, got %q", result.CompileLog)
	}
}

func TestWorkerProcessCompileError(t *testing.T) {
	requireCC(t)
	path := writeSource(t, "int main({\n")
	w := NewWorker(0, NewConfigSource(testConfig(t)), NewQueue(1), NewSink(&strings.Builder{}))
	result := w.process(context.Background(), Submission{JobID: 1, Path: path})
	if result.Status != StatusCompileError {
		t.Fatalf("expected CompileError, got %s", result.Status)
	}
	if result.CompileLog == "" {
		t.Fatal("expected non-empty compile log")
	}
}

func TestWorkerProcessSuccessAndRemovesBinary(t *testing.T) {
	requireCC(t)
	path := writeSource(t, "int main(){return 0;}\n")
	cfg := testConfig(t)
	w := NewWorker(0, NewConfigSource(cfg), NewQueue(1), NewSink(&strings.Builder{}))

	result := w.process(context.Background(), Submission{JobID: 1, Path: path})
	if result.Status != StatusRuntimeError && result.Status != StatusSuccess {
		t.Fatalf("unexpected status %s (output=%q)", result.Status, result.Output)
	}

	entries, err := os.ReadDir(cfg.Scratch())
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("reading scratch dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".bin") {
			t.Fatalf("expected the transient compiled binary to be removed after processing, found %s", e.Name())
		}
	}
}

func TestWorkerRunDrainsQueueUntilShutdown(t *testing.T) {
	var cfg config.Config
	q := NewQueue(4)
	var buf strings.Builder
	sink := NewSink(&buf)
	w := NewWorker(0, NewConfigSource(&cfg), q, sink)

	path := writeSource(t, "// clean\nint main(){return 0;}\n")
	q.Enqueue(Submission{JobID: 1, Path: path})
	q.Enqueue(Submission{JobID: ShutdownJobID})

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()
	<-done

	if !strings.Contains(buf.String(), `"job_id":1`) {
		t.Fatalf("expected a verdict for job 1 in sink output, got %q", buf.String())
	}
}

func TestWorkerRunObservesConfigReloadBetweenSubmissions(t *testing.T) {
	sentinelBinary(t) // needs the real self-re-exec sandbox, see runner_test.go
	requireCC(t)
	cfg := testConfig(t)
	source := NewConfigSource(cfg)
	q := NewQueue(4)
	var buf strings.Builder
	w := NewWorker(0, source, q, NewSink(&buf))

	tight := 300 // matches TestRunTimeLimitExceeded's margin in runner_test.go
	source.Store(&config.Config{ScratchDir: cfg.Scratch(), WallClockMS: &tight})

	// Sleeps 1s: finishes under the default 2000ms wall clock, so a
	// TimeLimitExceeded verdict can only come from the reloaded limit.
	path := writeSource(t, "#include <unistd.h>\nint main(){sleep(1);return 0;}\n")
	q.Enqueue(Submission{JobID: 1, Path: path})
	q.Enqueue(Submission{JobID: ShutdownJobID})

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()
	<-done

	if !strings.Contains(buf.String(), `"status":"TimeLimitExceeded"`) {
		t.Fatalf("expected the reloaded (tight) wall clock to apply, got %q", buf.String())
	}
}
