package games

import (
	"path/filepath"
	"strings"
)

// Root identifies which install root a pack path lives in. Higher values
// win: a pack in /data overrides the same pack in secondary or content.
type Root int

const (
	RootNone Root = iota
	RootContent
	RootSecondary
	RootData
)

func (r Root) String() string {
	switch r {
	case RootContent:
		return "content"
	case RootSecondary:
		return "secondary"
	case RootData:
		return "data"
	default:
		return "none"
	}
}

// Roots is the set of canonical folders a rescan reads from. Empty fields
// mean the root is unavailable.
type Roots struct {
	Data      string
	Secondary string
	Content   string
}

// Classify returns the root that contains path. When roots are nested the
// deepest one wins.
func (r Roots) Classify(path string) Root {
	best := RootNone
	bestLen := -1
	for _, c := range []struct {
		root Root
		dir  string
	}{
		{RootContent, r.Content},
		{RootSecondary, r.Secondary},
		{RootData, r.Data},
	} {
		if c.dir == "" || !IsUnder(path, c.dir) {
			continue
		}
		if len(c.dir) > bestLen {
			best, bestLen = c.root, len(c.dir)
		}
	}
	return best
}

// SteamIDHint returns the workshop item id of a content path: the first
// folder below the content root.
func (r Roots) SteamIDHint(path string) (string, bool) {
	if r.Content == "" {
		return "", false
	}
	rel, err := filepath.Rel(r.Content, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	first, rest, found := strings.Cut(filepath.ToSlash(rel), "/")
	if !found || first == "" || rest == "" {
		return "", false
	}
	return first, true
}

// IsUnder reports whether path is dir or lives below it.
func IsUnder(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Canonical resolves symlinks and makes path absolute. Paths that can't be
// resolved are returned cleaned and absolute.
func Canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.Clean(path)
}
