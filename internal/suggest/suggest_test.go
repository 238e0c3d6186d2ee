package suggest

import (
	"reflect"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"lat", "", 3},
		{"", "lon", 3},
		{"title", "title", 0},
		{"titel", "title", 2},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFlag(t *testing.T) {
	valid := []string{"--lat", "--lon", "--title", "--subtitle", "--json"}

	got := Flag("--titel", valid)
	if len(got) == 0 || got[0] != "--title" {
		t.Errorf("Flag(--titel) = %v, want --title first", got)
	}
	if got := Flag("--zzzzzzzzzzzz", valid); len(got) != 0 {
		t.Errorf("Flag(far) = %v, want none", got)
	}
	if got := Flag("la", valid); len(got) > maxSuggestions {
		t.Errorf("Flag returned %d suggestions, want at most %d", len(got), maxSuggestions)
	}
}

func TestID(t *testing.T) {
	ids := []string{
		"0f8fad5b-d9cb-469f-a165-70867728950e",
		"7c9e6679-7425-40de-944b-e07fc1f90ae7",
		"0f8fad5c-1111-4222-8333-444444444444",
	}

	tests := []struct {
		name    string
		unknown string
		want    []string
	}{
		{"prefix matches rank first", "0f8fad5", []string{ids[0], ids[2]}},
		{"one typo in short id", "7c9e6678", []string{ids[1]}},
		{"case insensitive", "7C9E", []string{ids[1]}},
		{"blank", "  ", nil},
		{"nothing close", "zzzzzzzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ID(tt.unknown, ids); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ID(%q) = %v, want %v", tt.unknown, got, tt.want)
			}
		})
	}
}

func TestGetFlagHint(t *testing.T) {
	if got := GetFlagHint("--Latitude"); got != "--lat" {
		t.Errorf("GetFlagHint(--Latitude) = %q, want --lat", got)
	}
	if got := GetFlagHint("--unknown"); got != "" {
		t.Errorf("GetFlagHint(--unknown) = %q, want empty", got)
	}
}
