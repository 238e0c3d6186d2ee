package storage

import (
	"sync"

	"github.com/marcus/places/internal/models"
)

// Memory is an in-process Gateway. It keeps a private copy of the last
// saved collection and counts saves, which makes it the test double for
// anything that persists through a Gateway.
type Memory struct {
	mu          sync.Mutex
	annotations []models.Annotation
	saves       int

	// LoadErr, when set, is returned by Load alongside an empty collection.
	LoadErr error
	// SaveErr, when set, makes Save fail without changing stored content.
	SaveErr error
}

// NewMemory returns a Memory gateway preloaded with a copy of annotations.
func NewMemory(annotations ...models.Annotation) *Memory {
	return &Memory{annotations: clone(annotations)}
}

// Load returns a copy of the stored collection.
func (m *Memory) Load() ([]models.Annotation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return []models.Annotation{}, &ReadError{Path: "memory", Err: m.LoadErr}
	}
	return clone(m.annotations), nil
}

// Save replaces the stored collection with a copy of annotations.
func (m *Memory) Save(annotations []models.Annotation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return &WriteError{Path: "memory", Err: m.SaveErr}
	}
	m.annotations = clone(annotations)
	m.saves++
	return nil
}

// Saves reports how many successful saves happened.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Snapshot returns a copy of the stored collection without counting as a load.
func (m *Memory) Snapshot() []models.Annotation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.annotations)
}

func clone(in []models.Annotation) []models.Annotation {
	out := make([]models.Annotation, len(in))
	copy(out, in)
	return out
}
