package engine

import (
	"encoding/json"
	"fmt"
	"sync"
)

// JokerState is the persisted mutable data owned by one joker instance: a
// version (for migration), a bag of named counters that saturate rather
// than overflow, and an open-ended custom data blob for anything a
// declarative or advanced joker needs that doesn't fit the counter model.
type JokerState struct {
	Version    int                `json:"version"`
	Counters   map[string]int64   `json:"counters"`
	Flags      map[string]bool    `json:"flags"`
	Custom     map[string]float64 `json:"custom"`
}

func newJokerState() JokerState {
	return JokerState{
		Version:  1,
		Counters: make(map[string]int64),
		Flags:    make(map[string]bool),
		Custom:   make(map[string]float64),
	}
}

func (s JokerState) clone() JokerState {
	out := JokerState{Version: s.Version,
		Counters: make(map[string]int64, len(s.Counters)),
		Flags:    make(map[string]bool, len(s.Flags)),
		Custom:   make(map[string]float64, len(s.Custom)),
	}
	for k, v := range s.Counters {
		out.Counters[k] = v
	}
	for k, v := range s.Flags {
		out.Flags[k] = v
	}
	for k, v := range s.Custom {
		out.Custom[k] = v
	}
	return out
}

// entry wraps a JokerState with its own lock so unrelated jokers never
// contend on a single global mutex — only operations on the *same* key
// exclude each other, matching the concurrency model's "per-key exclusive
// mutator" contract.
type entry struct {
	mu    sync.RWMutex
	state JokerState
}

// JokerStateManager is the thread-safe keyed store every joker's mutable
// state lives in. Readers (diagnostics, UI) may read concurrently; mutation
// always goes through UpdateState, which holds the per-key lock for the
// duration of the supplied function so read-modify-write is atomic per key.
// There is no cross-key atomicity: a caller needing to mutate two jokers
// consistently must route through the orchestrator, which serializes all
// scoring-pass mutations on a single goroutine.
type JokerStateManager struct {
	mu      sync.RWMutex
	entries map[JokerID]*entry
}

// NewJokerStateManager creates an empty state manager.
func NewJokerStateManager() *JokerStateManager {
	return &JokerStateManager{entries: make(map[JokerID]*entry)}
}

func (m *JokerStateManager) entryFor(id JokerID) *entry {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if ok {
		return e
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		return e
	}
	e = &entry{state: newJokerState()}
	m.entries[id] = e
	return e
}

// GetState returns a defensive copy of the current state for id, creating a
// fresh default state on first access.
func (m *JokerStateManager) GetState(id JokerID) JokerState {
	e := m.entryFor(id)
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.clone()
}

// GetAccumulatedValue reads a single named counter, defaulting to 0.
func (m *JokerStateManager) GetAccumulatedValue(id JokerID, key string) int64 {
	e := m.entryFor(id)
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Counters[key]
}

// AddAccumulatedValue adds delta to a named counter, saturating at max
// (interpreted as "no cap" when max <= 0) instead of overflowing.
func (m *JokerStateManager) AddAccumulatedValue(id JokerID, key string, delta int64, max int64) int64 {
	e := m.entryFor(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	v := e.state.Counters[key] + delta
	if max > 0 && v > max {
		v = max
	}
	if v < 0 {
		v = 0
	}
	e.state.Counters[key] = v
	return v
}

// UpdateState runs fn against a mutable copy of the state for id under the
// per-key exclusive lock, commits the result, and bumps Version. This is
// the only way to perform a read-modify-write that needs more than a single
// counter update.
func (m *JokerStateManager) UpdateState(id JokerID, fn func(JokerState) JokerState) JokerState {
	e := m.entryFor(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	next := fn(e.state.clone())
	next.Version = e.state.Version + 1
	e.state = next
	return next.clone()
}

// persistedJokerState is the wire shape for Serialize/Deserialize, carrying
// the key explicitly since a map doesn't preserve iteration order.
type persistedJokerState struct {
	ID    JokerID    `json:"id"`
	State JokerState `json:"state"`
}

// Serialize snapshots every tracked joker's state for persistence.
func (m *JokerStateManager) Serialize() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]persistedJokerState, 0, len(m.entries))
	for id, e := range m.entries {
		e.mu.RLock()
		out = append(out, persistedJokerState{ID: id, State: e.state.clone()})
		e.mu.RUnlock()
	}
	return json.Marshal(out)
}

// Deserialize restores state from a Serialize blob. Unknown versions for a
// given joker are passed through migrate before being installed, letting
// the owning joker's JokerStateful.MigrateState reshape old saves.
func (m *JokerStateManager) Deserialize(data []byte, migrate func(id JokerID, s JokerState) JokerState) error {
	var restored []persistedJokerState
	if err := json.Unmarshal(data, &restored); err != nil {
		return wrapError(ErrKindIntegrity, "joker state: corrupt snapshot", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[JokerID]*entry, len(restored))
	for _, r := range restored {
		state := r.State
		if migrate != nil {
			state = migrate(r.ID, state)
		}
		m.entries[r.ID] = &entry{state: state}
	}
	return nil
}

// Remove drops all state for a destroyed joker.
func (m *JokerStateManager) Remove(id JokerID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
}

func (m *JokerStateManager) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("JokerStateManager{%d tracked}", len(m.entries))
}
