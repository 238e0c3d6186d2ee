// Package search ranks places against a free-text query using fzf-style
// fuzzy matching.
package search

import (
	"sort"

	"github.com/marcus/places/internal/models"
	"github.com/sahilm/fuzzy"
)

// source adapts []models.Annotation for the fuzzy library. Each place is
// searchable as "Title Subtitle ID" so one query matches across fields.
type source []models.Annotation

func (s source) String(i int) string {
	return s[i].DisplayTitle() + " " + s[i].DisplaySubtitle() + " " + s[i].ID
}

func (s source) Len() int {
	return len(s)
}

// Filter returns the places matching query, best match first. An empty
// query returns the input unchanged.
func Filter(query string, annotations []models.Annotation) []models.Annotation {
	if query == "" {
		return annotations
	}

	matches := fuzzy.FindFrom(query, source(annotations))

	// Sort by score descending (best match first)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	result := make([]models.Annotation, len(matches))
	for i, m := range matches {
		result[i] = annotations[m.Index]
	}
	return result
}
