// Package filetree filters and renders repository tree listings for prompts.
package filetree

import (
	"path"
	"strings"

	"archgen/internal/model"
)

// noisePatterns are path substrings that never help describe architecture.
var noisePatterns = []string{
	"node_modules",
	".git/",
	"dist/",
	"build/",
	".next/",
	"vendor/",
	"__pycache__",
	"coverage/",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
	"bun.lockb",
	"go.sum",
	"Cargo.lock",
	"poetry.lock",
	"composer.lock",
	"Gemfile.lock",
}

// IsNoise reports whether p matches the denylist.
func IsNoise(p string) bool {
	for _, pattern := range noisePatterns {
		if strings.Contains(p, pattern) {
			return true
		}
	}
	return false
}

// FilterNoise returns the entries whose paths are not denylisted, in their
// original order. The input slice is not modified.
func FilterNoise(entries []model.TreeEntry) []model.TreeEntry {
	kept := make([]model.TreeEntry, 0, len(entries))
	for _, e := range entries {
		if !IsNoise(e.Path) {
			kept = append(kept, e)
		}
	}
	return kept
}

// Render produces an indented listing, two spaces per depth level, with a
// trailing slash on directories.
func Render(entries []model.TreeEntry) []string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		p := strings.Trim(e.Path, "/")
		if p == "" {
			continue
		}
		depth := strings.Count(p, "/")
		name := path.Base(p)
		if e.Type == model.EntryTypeTree {
			name += "/"
		}
		lines = append(lines, strings.Repeat("  ", depth)+name)
	}
	return lines
}

// Paths lists each entry by its full repository path, with a trailing slash on
// directories, so identically named files in different directories stay
// distinguishable.
func Paths(entries []model.TreeEntry) []string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		p := strings.Trim(e.Path, "/")
		if p == "" {
			continue
		}
		if e.Type == model.EntryTypeTree {
			p += "/"
		}
		lines = append(lines, p)
	}
	return lines
}
