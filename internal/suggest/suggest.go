// Package suggest provides fuzzy matching for CLI flag and pin id suggestions
// using Levenshtein distance.
package suggest

import (
	"cmp"
	"slices"
	"strings"
)

const maxSuggestions = 3

// levenshtein calculates the edit distance between two strings
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Create matrix
	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	// Fill matrix
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

type scored struct {
	value string
	score int
}

// top returns up to maxSuggestions values, best score first. Ties keep
// input order.
func top(candidates []scored) []string {
	slices.SortStableFunc(candidates, func(a, b scored) int {
		return cmp.Compare(a.score, b.score)
	})
	var result []string
	for i := 0; i < len(candidates) && i < maxSuggestions; i++ {
		result = append(result, candidates[i].value)
	}
	return result
}

// Flag finds similar flags from a list of valid flags
// Returns suggestions sorted by similarity (best first)
func Flag(unknown string, validFlags []string) []string {
	// Normalize: strip leading dashes
	unknown = strings.TrimLeft(unknown, "-")

	var candidates []scored
	for _, valid := range validFlags {
		normalized := strings.TrimLeft(valid, "-")
		dist := levenshtein(unknown, normalized)

		// Only suggest if reasonably close (within 3 edits or 50% of length)
		maxDist := max(3, len(unknown)/2)
		if dist <= maxDist {
			candidates = append(candidates, scored{valid, dist})
		}
	}
	return top(candidates)
}

// ID finds pin ids close to an unknown id. Ids that start with the input
// rank first; the rest are compared against an equally long prefix of each
// id, so a mistyped short id still finds its full uuid.
func ID(unknown string, ids []string) []string {
	unknown = strings.ToLower(strings.TrimSpace(unknown))
	if unknown == "" {
		return nil
	}

	var candidates []scored
	for _, id := range ids {
		lower := strings.ToLower(id)
		if strings.HasPrefix(lower, unknown) {
			candidates = append(candidates, scored{id, 0})
			continue
		}
		prefix := lower
		if len(prefix) > len(unknown) {
			prefix = prefix[:len(unknown)]
		}
		dist := levenshtein(unknown, prefix)
		if dist <= max(1, len(unknown)/4) {
			candidates = append(candidates, scored{id, dist})
		}
	}
	return top(candidates)
}

// CommonFlagAliases maps commonly attempted flags to their correct names
var CommonFlagAliases = map[string]string{
	// Coordinate aliases
	"latitude":  "--lat",
	"longitude": "--lon",
	"lng":       "--lon",
	"long":      "--lon",

	// Text aliases
	"name":        "--title, -t",
	"description": "--subtitle, -s",
	"note":        "--subtitle, -s",
	"notes":       "--subtitle, -s",

	// Data directory
	"home": "--dir (or PLACES_HOME)",
	"path": "--dir (or PLACES_HOME)",

	// Version
	"version": "use: places version",
	"v":       "use: places version",

	// Passphrase
	"password":   "use: places unlock setup (or PLACES_PASSPHRASE)",
	"passphrase": "use: places unlock setup (or PLACES_PASSPHRASE)",
}

// GetFlagHint returns a hint for a commonly misused flag
func GetFlagHint(flag string) string {
	// Normalize
	flag = strings.TrimLeft(flag, "-")
	flag = strings.ToLower(flag)

	if hint, ok := CommonFlagAliases[flag]; ok {
		return hint
	}
	return ""
}
