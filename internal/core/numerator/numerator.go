// Package numerator provides document auto-numbering.
// Pattern: PREFIX-YEAR-XXXXX (e.g., NM-2026-00001).
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Generator generates sequential document numbers.
type Generator interface {
	// GetNextNumber generates the next document number for the given period.
	GetNextNumber(ctx context.Context, cfg Config, period time.Time) (string, error)
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "NM", "NK")
	Prefix string

	// IncludeYear adds the period's year to the number
	IncludeYear bool

	// PadWidth is the minimum counter width (default 5)
	PadWidth int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
	}
}

// Format renders a number from config, period and counter value.
func Format(cfg Config, period time.Time, value int64) string {
	pad := cfg.PadWidth
	if pad <= 0 {
		pad = 5
	}
	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%d-%0*d", cfg.Prefix, period.Year(), pad, value)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, pad, value)
}

// Memory is an in-process Generator. Counters reset per prefix+year and
// are not durable across restarts; the engine treats numbers as display
// labels, never as the ordering axis, so gaps and restarts are harmless.
type Memory struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemory creates an in-process number generator.
func NewMemory() *Memory {
	return &Memory{counters: make(map[string]int64)}
}

// GetNextNumber implements Generator.
func (m *Memory) GetNextNumber(_ context.Context, cfg Config, period time.Time) (string, error) {
	key := fmt.Sprintf("%s_%d", cfg.Prefix, period.Year())

	m.mu.Lock()
	m.counters[key]++
	value := m.counters[key]
	m.mu.Unlock()

	return Format(cfg, period, value), nil
}

// Seed sets the counter for a prefix+year so numbering continues after
// reloading history (e.g. when a durable store is attached).
func (m *Memory) Seed(cfg Config, period time.Time, value int64) {
	key := fmt.Sprintf("%s_%d", cfg.Prefix, period.Year())

	m.mu.Lock()
	if m.counters[key] < value {
		m.counters[key] = value
	}
	m.mu.Unlock()
}
