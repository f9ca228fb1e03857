// Package loadorder computes and persists the ordered list of packs the game
// is told to load.
//
// Packs are a flat precedence list: later entries override earlier ones.
// Parent mods are not moved ahead of the mods depending on them.
package loadorder

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"

	"totalwar-mod-launcher/jsonfile"
	"totalwar-mod-launcher/mods"
	"totalwar-mod-launcher/pack"
)

const (
	fileNameStart = "last_load_order_"
	fileNameEnd   = ".json"
)

var (
	ErrNotInOrder   = errors.New("mod is not part of the load order")
	ErrAutomatic    = errors.New("load order is automatic")
	ErrMovieOrdered = errors.New("movie packs can't be reordered")
)

// LoadOrder is the persisted order for one game.
type LoadOrder struct {
	// Automatic orders are regenerated on every update. Manual ones keep the
	// user's order, drop removed mods and append new ones.
	Automatic bool `json:"automatic"`

	// Mods is the full precedence list: ordinary mods first, then movies.
	Mods []string `json:"mods"`

	// Movies is the movie subset of Mods. Movies are always sorted, even in
	// manual mode.
	Movies []string `json:"movies"`
}

func New() *LoadOrder {
	return &LoadOrder{
		Automatic: true,
		Mods:      []string{},
		Movies:    []string{},
	}
}

// FileName is the load order file name for a game.
func FileName(gameKey string) string {
	return fileNameStart + gameKey + fileNameEnd
}

// FilterAndSort returns the ids of every installed, enabled, loadable mod,
// sorted by pack type then id. The result only depends on the contents of
// all.
func FilterAndSort(all map[string]*mods.Mod, dataPath string) []string {
	ids := candidates(all, dataPath)
	sort.Slice(ids, func(i, j int) bool {
		a, b := all[ids[i]], all[ids[j]]
		if a.PackType != b.PackType {
			return a.PackType < b.PackType
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Generate replaces the order wholesale, ignoring manual mode.
func (lo *LoadOrder) Generate(all map[string]*mods.Mod, dataPath string) {
	lo.Mods = FilterAndSort(all, dataPath)
	lo.Movies = movies(all, lo.Mods)
}

// Update rebuilds the order after a catalog change.
func (lo *LoadOrder) Update(all map[string]*mods.Mod, dataPath string) {
	if lo.Automatic {
		lo.Generate(all, dataPath)
		return
	}

	sorted := FilterAndSort(all, dataPath)
	enabled := make(map[string]struct{}, len(sorted))
	for _, id := range sorted {
		enabled[id] = struct{}{}
	}

	kept := make([]string, 0, len(sorted))
	seen := make(map[string]struct{}, len(sorted))
	for _, id := range lo.Mods {
		if _, ok := enabled[id]; !ok || all[id].PackType == pack.Movie {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, id)
	}

	movieIDs := movies(all, sorted)
	for _, id := range sorted {
		if all[id].PackType == pack.Movie {
			continue
		}
		if _, ok := seen[id]; !ok {
			kept = append(kept, id)
		}
	}

	lo.Mods = append(kept, movieIDs...)
	lo.Movies = movieIDs
}

// SetAutomatic switches modes. Switching back to automatic regenerates the
// order.
func (lo *LoadOrder) SetAutomatic(automatic bool, all map[string]*mods.Mod, dataPath string) {
	lo.Automatic = automatic
	lo.Update(all, dataPath)
}

// Move places id at index among the ordinary mods. Only manual orders can
// be reordered.
func (lo *LoadOrder) Move(id string, index int) error {
	if lo.Automatic {
		return ErrAutomatic
	}
	if slices.Contains(lo.Movies, id) {
		return fmt.Errorf("%w: %s", ErrMovieOrdered, id)
	}

	rest := make([]string, 0, len(lo.Mods))
	found := false
	for _, m := range lo.Mods {
		switch {
		case m == id:
			found = true
		case !slices.Contains(lo.Movies, m):
			rest = append(rest, m)
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotInOrder, id)
	}

	index = max(0, min(index, len(rest)))
	rest = slices.Insert(rest, index, id)
	lo.Mods = append(rest, lo.Movies...)
	return nil
}

// Load reads the saved order for a game. A missing file is a fresh,
// automatic order.
func Load(dir, gameKey string) (*LoadOrder, error) {
	lo := New()
	err := jsonfile.Read(filepath.Join(dir, FileName(gameKey)), lo)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load load order: %w", err)
	}
	lo.normalize()
	return lo, nil
}

func (lo *LoadOrder) Save(dir, gameKey string) error {
	lo.normalize()
	if err := jsonfile.Write(filepath.Join(dir, FileName(gameKey)), lo); err != nil {
		return fmt.Errorf("failed to save load order: %w", err)
	}
	return nil
}

// Clone returns a deep copy.
func (lo *LoadOrder) Clone() *LoadOrder {
	return &LoadOrder{
		Automatic: lo.Automatic,
		Mods:      slices.Clone(lo.Mods),
		Movies:    slices.Clone(lo.Movies),
	}
}

func (lo *LoadOrder) normalize() {
	if lo.Mods == nil {
		lo.Mods = []string{}
	}
	if lo.Movies == nil {
		lo.Movies = []string{}
	}
}

func candidates(all map[string]*mods.Mod, dataPath string) []string {
	ids := make([]string, 0, len(all))
	for id, m := range all {
		if !m.Installed() || !m.PackType.IsLoadable() {
			continue
		}
		if !m.IsEnabled(dataPath) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func movies(all map[string]*mods.Mod, ids []string) []string {
	out := []string{}
	for _, id := range ids {
		if all[id].PackType == pack.Movie {
			out = append(out, id)
		}
	}
	return out
}
