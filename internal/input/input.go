// Package input provides helpers for reading flag values from stdin and files
// (@file syntax).
package input

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxValueBytes caps how much a single expanded value may read.
const MaxValueBytes = 64 << 10

// ExpandValue expands a flag value that uses - (stdin) or @file syntax.
// Anything else is returned unchanged. Expanded content has surrounding
// whitespace trimmed.
func ExpandValue(v string, stdin io.Reader) (string, error) {
	switch {
	case v == "-":
		return readValue(stdin, "stdin")
	case strings.HasPrefix(v, "@") && len(v) > 1:
		path := strings.TrimPrefix(v, "@")
		file, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		defer file.Close()
		return readValue(file, path)
	default:
		return v, nil
	}
}

func readValue(r io.Reader, name string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxValueBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > MaxValueBytes {
		return "", fmt.Errorf("read %s: more than %d bytes", name, MaxValueBytes)
	}
	return strings.TrimSpace(string(data)), nil
}
