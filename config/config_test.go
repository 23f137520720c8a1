package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPath(t *testing.T) {
	p, err := Path()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(p) != "config.yaml" {
		t.Fatalf("expected config.yaml, got %s", filepath.Base(p))
	}
	if filepath.Base(filepath.Dir(p)) != appName {
		t.Fatalf("expected parent dir %s, got %s", appName, filepath.Base(filepath.Dir(p)))
	}
}

func TestLoadSave(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "config.yaml")
	t.Setenv("THE_SENTINEL_CONFIG", configPath)

	// Load should return zero-value config (all defaults) when file doesn't exist.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WorkerCount() != DefaultWorkers {
		t.Fatalf("expected default worker count %d, got %d", DefaultWorkers, cfg.WorkerCount())
	}

	workers := 7
	cfg.Workers = &workers
	cfg.ExtraDenyTokens = []string{"dlopen(", "mmap("}
	if err := Save(cfg); err != nil {
		t.Fatalf("save error: %v", err)
	}

	cfg2, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg2.WorkerCount() != 7 {
		t.Fatalf("expected 7 workers, got %d", cfg2.WorkerCount())
	}
	if len(cfg2.DenyTokens()) != 2 || cfg2.DenyTokens()[0] != "dlopen(" {
		t.Fatalf("expected [dlopen( mmap(], got %v", cfg2.DenyTokens())
	}
}

func TestLoadUnknownFields(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "config.yaml")
	t.Setenv("THE_SENTINEL_CONFIG", configPath)

	data := []byte("workers: 5\nfuture_field: value\n")
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WorkerCount() != 5 {
		t.Fatalf("expected 5 workers, got %d", cfg.WorkerCount())
	}
}

func TestDefaults(t *testing.T) {
	var cfg *Config
	if cfg.WorkerCount() != DefaultWorkers {
		t.Fatalf("nil config: expected %d workers, got %d", DefaultWorkers, cfg.WorkerCount())
	}
	if cfg.QueueCap() != DefaultQueueCapacity {
		t.Fatalf("nil config: expected queue cap %d, got %d", DefaultQueueCapacity, cfg.QueueCap())
	}
	if cfg.CPULimit() != DefaultCPULimitSeconds {
		t.Fatalf("nil config: expected cpu limit %d, got %d", DefaultCPULimitSeconds, cfg.CPULimit())
	}
	if cfg.Compiler() != DefaultCompilerPath {
		t.Fatalf("nil config: expected compiler %q, got %q", DefaultCompilerPath, cfg.Compiler())
	}
	if len(cfg.DenyTokens()) != 0 {
		t.Fatalf("nil config: expected no extra deny tokens, got %v", cfg.DenyTokens())
	}
}

func TestWatch(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "config.yaml")
	t.Setenv("THE_SENTINEL_CONFIG", configPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan *Config, 1)
	go func() {
		_ = Watch(ctx, func(cfg *Config) {
			changed <- cfg
		})
	}()

	// Give the watcher time to start.
	time.Sleep(100 * time.Millisecond)

	workers := 9
	if err := Save(&Config{Workers: &workers}); err != nil {
		t.Fatalf("save error: %v", err)
	}

	select {
	case got := <-changed:
		if got.WorkerCount() != 9 {
			t.Fatalf("expected 9 workers, got %d", got.WorkerCount())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config change notification")
	}
}
