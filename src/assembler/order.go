package assembler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SortMode selects the ordering key for assembly.
type SortMode string

const (
	// SortCTime orders by creation time where the platform records one,
	// falling back to modification time elsewhere.
	SortCTime SortMode = "ctime"
	SortMTime SortMode = "mtime"
	SortName  SortMode = "name"
)

func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(s)) {
	case SortCTime:
		return SortCTime, nil
	case SortMTime:
		return SortMTime, nil
	case SortName:
		return SortName, nil
	}
	return "", fmt.Errorf("invalid sort mode %q (want ctime, mtime or name)", s)
}

// imageExts are the recognized source extensions, compared case-insensitively.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

// Entry is one image file with its ordering key: primary time (creation time
// or its fallback), secondary time (modification), and lowercased base name
// as the final tie-breaker.
type Entry struct {
	Path      string
	Primary   time.Time
	Secondary time.Time
	Name      string
}

// fileOrderKey builds the Entry for one path so the sort itself stays
// platform-agnostic.
func fileOrderKey(path string) (Entry, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Entry{}, err
	}
	mtime := fi.ModTime()
	primary := mtime
	if birth, ok := birthTime(fi); ok {
		primary = birth
	}
	return Entry{
		Path:      path,
		Primary:   primary,
		Secondary: mtime,
		Name:      strings.ToLower(filepath.Base(path)),
	}, nil
}

// listImages returns the entries matching pattern under folder, unsorted.
func listImages(folder, pattern string) ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(folder, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}

	var entries []Entry
	for _, m := range matches {
		if !imageExts[strings.ToLower(filepath.Ext(m))] {
			continue
		}
		e, err := fileOrderKey(m)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", m, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// sortEntries orders entries in place by mode, ascending unless reverse.
// The sort is stable and always tie-breaks on name, so identical timestamps
// yield filename order (descending under reverse).
func sortEntries(entries []Entry, mode SortMode, reverse bool) {
	less := func(a, b Entry) bool {
		switch mode {
		case SortName:
			return a.Name < b.Name
		case SortMTime:
			if !a.Secondary.Equal(b.Secondary) {
				return a.Secondary.Before(b.Secondary)
			}
			return a.Name < b.Name
		default: // SortCTime
			if !a.Primary.Equal(b.Primary) {
				return a.Primary.Before(b.Primary)
			}
			if !a.Secondary.Equal(b.Secondary) {
				return a.Secondary.Before(b.Secondary)
			}
			return a.Name < b.Name
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if reverse {
			return less(entries[j], entries[i])
		}
		return less(entries[i], entries[j])
	})
}
