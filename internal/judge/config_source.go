package judge

import (
	"sync/atomic"

	"github.com/AhsanRiaz786/the-sentinel/config"
)

// ConfigSource publishes the live judge configuration to workers.
// Workers load it once per dequeue (see Worker.process), so a config
// change takes effect for the next submission a worker picks up rather
// than requiring the batch to restart.
type ConfigSource struct {
	ptr atomic.Pointer[config.Config]
}

// NewConfigSource builds a source seeded with an initial configuration.
func NewConfigSource(cfg *config.Config) *ConfigSource {
	s := &ConfigSource{}
	s.Store(cfg)
	return s
}

// Store atomically replaces the live configuration.
func (s *ConfigSource) Store(cfg *config.Config) {
	s.ptr.Store(cfg)
}

// Load returns the current configuration.
func (s *ConfigSource) Load() *config.Config {
	return s.ptr.Load()
}
