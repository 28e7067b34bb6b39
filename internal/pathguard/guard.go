// Package pathguard keeps source-supplied paths inside the project root.
package pathguard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when a path resolves outside the project root
var ErrOutsideRoot = errors.New("path escapes project directory")

// Resolve joins candidate onto root, resolves symlinks on both sides with the
// same policy, and returns the canonical absolute path only when it lies at or
// below root. Containment is decided per path segment, so a sibling such as
// /project2 is never accepted for a root of /proj.
func Resolve(candidate, root string) (string, error) {
	canonRoot, err := Canonical(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root %s: %w", root, err)
	}

	joined := candidate
	if !filepath.IsAbs(candidate) {
		joined = filepath.Join(canonRoot, candidate)
	}

	resolved, err := Canonical(joined)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", candidate, err)
	}

	if !Within(resolved, canonRoot) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, candidate)
	}

	return resolved, nil
}

// Within reports whether path equals root or is a descendant of it. Both
// arguments must already be canonical.
func Within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Canonical returns an absolute, cleaned path with symlinks resolved. Path
// components that do not exist yet are appended lexically to the longest
// existing prefix, which is resolved with filepath.EvalSymlinks.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	existing := abs
	var rest []string
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			parts := append([]string{resolved}, reverse(rest)...)
			return filepath.Join(parts...), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		rest = append(rest, filepath.Base(existing))
		existing = parent
	}
}

func reverse(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
