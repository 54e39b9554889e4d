package caveinfo

import (
	"fmt"
	"sync"

	"github.com/gocaveripper/cavegen/pkg/caverr"
)

// Loader is the seam to the external asset manager (§1: "out of scope...
// described only by their interfaces to the core"). A real implementation
// parses the game's Shift-JIS CaveInfo/unit/layout/route/waterbox file
// grammar of §6; this package only depends on the interface.
type Loader interface {
	// GetCaveInfo returns the fully loaded, rotation-expanded,
	// sorted CaveInfo for the given sublevel identifier (e.g. "SCx5").
	GetCaveInfo(sublevel string) (*SublevelConfig, error)
}

// StaticLoader is an in-memory Loader, useful for tests and for wiring a
// programmatically-built cave set without touching disk. It implements
// the "concurrent map with single-writer-wins insert semantics" cache
// described in §5: concurrent Put calls for the same key are resolved by
// keeping whichever write landed first.
type StaticLoader struct {
	mu    sync.Mutex
	byKey map[string]*SublevelConfig
}

// NewStaticLoader returns an empty StaticLoader.
func NewStaticLoader() *StaticLoader {
	return &StaticLoader{byKey: make(map[string]*SublevelConfig)}
}

// Put registers cfg under its sublevel string, e.g. "SCx5". If an entry
// already exists under that key, the new value is discarded (first write
// wins), matching §5's cache insertion semantics.
func (l *StaticLoader) Put(sublevel string, cfg *SublevelConfig) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.byKey[sublevel]; exists {
		return
	}
	l.byKey[sublevel] = cfg
}

// GetCaveInfo implements Loader.
func (l *StaticLoader) GetCaveInfo(sublevel string) (*SublevelConfig, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cfg, ok := l.byKey[sublevel]
	if !ok {
		return nil, &caverr.UnrecognizedSublevelError{Sublevel: sublevel}
	}
	return cfg, nil
}

// Validate checks the scalar invariants CaveInfo documents in §3 --
// probabilities in [0,1] and non-negative counts. It does not (and
// cannot) validate the unit library's internal consistency; that is
// exercised structurally by the placer invariants in pkg/validation.
func (c *CaveInfo) Validate() error {
	if c.CorridorProbability < 0 || c.CorridorProbability > 1 {
		return fmt.Errorf("corridor_probability %f out of [0,1]", c.CorridorProbability)
	}
	if c.CapProbability < 0 || c.CapProbability > 1 {
		return fmt.Errorf("cap_probability %f out of [0,1]", c.CapProbability)
	}
	if c.MaxMainObjects < 0 || c.MaxTreasures < 0 || c.MaxGates < 0 || c.NumRooms < 0 {
		return fmt.Errorf("negative count in caveinfo %q", c.Name)
	}
	return nil
}
