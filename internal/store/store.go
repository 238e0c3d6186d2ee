// Package store holds the in-memory annotation collection. It is the only
// owner of annotation records; callers refer to records by id and receive
// copies.
//
// A Store is not safe for concurrent use. It is driven from a single
// thread of control (the CLI command or the TUI update loop).
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/marcus/places/internal/models"
)

// ErrNotFound is returned when an id does not name an annotation.
var ErrNotFound = errors.New("annotation not found")

// Store is an ordered, id-indexed collection of annotations.
type Store struct {
	items []models.Annotation
	index map[string]int // id -> position in items

	newID func() string
}

// New returns an empty store.
func New() *Store {
	return &Store{
		index: make(map[string]int),
		newID: uuid.NewString,
	}
}

// Add appends a placeholder annotation at c and returns its id.
func (s *Store) Add(c models.Coordinate) string {
	id := s.uniqueID()
	s.index[id] = len(s.items)
	s.items = append(s.items, models.Annotation{
		ID:        id,
		Title:     models.PlaceholderTitle,
		Subtitle:  models.PlaceholderSubtitle,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
	})
	return id
}

// Update replaces the title and subtitle of the annotation with the given
// id, keeping its position, id and coordinate. Blank values fall back to
// the placeholders.
func (s *Store) Update(id, title, subtitle string) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	s.items[i].Title = orPlaceholder(title, models.PlaceholderTitle)
	s.items[i].Subtitle = orPlaceholder(subtitle, models.PlaceholderSubtitle)
	return nil
}

// Get returns a copy of the annotation with the given id.
func (s *Store) Get(id string) (models.Annotation, bool) {
	i, ok := s.index[id]
	if !ok {
		return models.Annotation{}, false
	}
	return s.items[i], true
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []models.Annotation {
	out := make([]models.Annotation, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of annotations.
func (s *Store) Len() int {
	return len(s.items)
}

// IDs returns annotation ids in insertion order.
func (s *Store) IDs() []string {
	ids := make([]string, len(s.items))
	for i, a := range s.items {
		ids[i] = a.ID
	}
	return ids
}

// IndexOf returns the position of id, or -1.
func (s *Store) IndexOf(id string) int {
	if i, ok := s.index[id]; ok {
		return i
	}
	return -1
}

// ReplaceAll swaps in a loaded collection. Records with a missing or
// duplicate id (files written before ids were stored, or edited by hand)
// are given fresh ids. It returns how many ids were assigned.
func (s *Store) ReplaceAll(annotations []models.Annotation) int {
	s.items = make([]models.Annotation, 0, len(annotations))
	s.index = make(map[string]int, len(annotations))

	assigned := 0
	for _, a := range annotations {
		if _, dup := s.index[a.ID]; a.ID == "" || dup {
			a.ID = s.uniqueID()
			assigned++
		}
		s.index[a.ID] = len(s.items)
		s.items = append(s.items, a)
	}
	return assigned
}

func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if _, taken := s.index[id]; !taken && id != "" {
			return id
		}
	}
}

func orPlaceholder(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}
