// Package config loads and hot-reloads the-sentinel's judge configuration:
// worker pool size, per-process resource limits, scratch paths, and
// deny-list additions.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

const appName = "the-sentinel"

// Defaults mirror the spec's hard-coded defaults. They are applied by the
// accessor methods below, never baked into a zero-value Config, so that an
// empty or partial config file still behaves exactly like "no config".
const (
	DefaultWorkers                = 3
	DefaultQueueCapacity          = 64
	DefaultCPULimitSeconds        = 2
	DefaultCPULimitHardSeconds    = 3
	DefaultAddressSpaceMB         = 256
	DefaultFileSizeMB             = 10
	DefaultWallClockMS            = 2000
	DefaultOutputCeilingBytes     = 32768
	DefaultCompileLogCeilingBytes = 8192
	DefaultCompilerPath           = "cc"
)

// Config holds all user configuration. New fields can be added over time;
// unknown YAML fields are silently ignored for forward compatibility.
type Config struct {
	Workers                *int     `yaml:"workers,omitempty"`
	QueueCapacity          *int     `yaml:"queue_capacity,omitempty"`
	CPULimitSeconds        *int     `yaml:"cpu_limit_seconds,omitempty"`
	CPULimitHardSeconds    *int     `yaml:"cpu_limit_hard_seconds,omitempty"`
	AddressSpaceMB         *int     `yaml:"address_space_mb,omitempty"`
	FileSizeMB             *int     `yaml:"file_size_mb,omitempty"`
	WallClockMS            *int     `yaml:"wall_clock_ms,omitempty"`
	OutputCeilingBytes     *int     `yaml:"output_ceiling_bytes,omitempty"`
	CompileLogCeilingBytes *int     `yaml:"compile_log_ceiling_bytes,omitempty"`
	ScratchDir             string   `yaml:"scratch_dir,omitempty"`
	CompilerPath           string   `yaml:"compiler_path,omitempty"`
	ExtraDenyTokens        []string `yaml:"extra_deny_tokens,omitempty"`
}

// WorkerCount returns the configured worker pool size (default 3).
func (c *Config) WorkerCount() int {
	if c == nil || c.Workers == nil {
		return DefaultWorkers
	}
	return *c.Workers
}

// QueueCap returns the configured job queue capacity (default 64).
func (c *Config) QueueCap() int {
	if c == nil || c.QueueCapacity == nil {
		return DefaultQueueCapacity
	}
	return *c.QueueCapacity
}

// CPULimit returns the soft CPU rlimit in seconds (default 2).
func (c *Config) CPULimit() int {
	if c == nil || c.CPULimitSeconds == nil {
		return DefaultCPULimitSeconds
	}
	return *c.CPULimitSeconds
}

// CPULimitHard returns the hard CPU rlimit in seconds (default 3).
func (c *Config) CPULimitHard() int {
	if c == nil || c.CPULimitHardSeconds == nil {
		return DefaultCPULimitHardSeconds
	}
	return *c.CPULimitHardSeconds
}

// AddressSpaceLimit returns the RLIMIT_AS ceiling in MiB (default 256).
func (c *Config) AddressSpaceLimit() int {
	if c == nil || c.AddressSpaceMB == nil {
		return DefaultAddressSpaceMB
	}
	return *c.AddressSpaceMB
}

// FileSizeLimit returns the RLIMIT_FSIZE ceiling in MiB (default 10).
func (c *Config) FileSizeLimit() int {
	if c == nil || c.FileSizeMB == nil {
		return DefaultFileSizeMB
	}
	return *c.FileSizeMB
}

// WallClock returns the watchdog threshold in milliseconds (default 2000).
func (c *Config) WallClock() int {
	if c == nil || c.WallClockMS == nil {
		return DefaultWallClockMS
	}
	return *c.WallClockMS
}

// OutputCeiling returns the captured-output byte ceiling (default 32768).
func (c *Config) OutputCeiling() int {
	if c == nil || c.OutputCeilingBytes == nil {
		return DefaultOutputCeilingBytes
	}
	return *c.OutputCeilingBytes
}

// CompileLogCeiling returns the compile-log byte ceiling (default 8192).
func (c *Config) CompileLogCeiling() int {
	if c == nil || c.CompileLogCeilingBytes == nil {
		return DefaultCompileLogCeilingBytes
	}
	return *c.CompileLogCeilingBytes
}

// Scratch returns the scratch directory for transient binaries and compile
// logs, defaulting to a fixed subdirectory of the OS temp dir.
func (c *Config) Scratch() string {
	if c == nil || c.ScratchDir == "" {
		return filepath.Join(os.TempDir(), appName)
	}
	return c.ScratchDir
}

// Compiler returns the system C compiler invocation (default "cc").
func (c *Config) Compiler() string {
	if c == nil || c.CompilerPath == "" {
		return DefaultCompilerPath
	}
	return c.CompilerPath
}

// DenyTokens returns the extra deny-list substrings configured on top of
// the hard-coded base list (see internal/judge.BaseDenyTokens).
func (c *Config) DenyTokens() []string {
	if c == nil {
		return nil
	}
	return c.ExtraDenyTokens
}

// Path returns the platform-appropriate config file path.
// If THE_SENTINEL_CONFIG env var is set, that path is used directly.
func Path() (string, error) {
	if p := os.Getenv("THE_SENTINEL_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("unable to determine config directory: %w", err)
	}
	return filepath.Join(dir, appName, "config.yaml"), nil
}

// Load reads and parses the config file. If the file does not exist,
// a zero-value Config is returned with no error.
func Load() (*Config, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to the YAML file, creating the directory if needed.
func Save(cfg *Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Watch monitors the config file for changes and calls onChange with the
// newly loaded Config. It blocks until ctx is cancelled. If the config
// directory does not exist yet, Watch creates it so fsnotify can watch it.
func Watch(ctx context.Context, onChange func(*Config)) error {
	p, err := Path()
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching config directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(p) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				cfg, err := Load()
				if err != nil {
					slog.Error("failed to reload config", "error", err)
					continue
				}
				onChange(cfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config watcher error", "error", err)
		}
	}
}
