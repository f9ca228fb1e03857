// Package mods holds the in-memory representation of a single installed mod.
package mods

import (
	"path/filepath"
	"slices"
	"strings"

	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/pack"
)

// Mod is one catalog entry, keyed by its archive file name.
type Mod struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	SteamID string `json:"steam_id,omitempty"`
	Enabled bool   `json:"enabled"`

	// PackType follows Paths[0].
	PackType pack.Type `json:"pack_type"`

	// Paths are ordered data first, then secondary, then content. Empty
	// means the mod isn't installed right now.
	Paths []string `json:"paths"`

	Creator     string `json:"creator"`
	CreatorName string `json:"creator_name"`

	// FileName is the workshop file name. For legacy .bin maps it's the name
	// the pack gets once converted.
	FileName    string `json:"file_name"`
	FileSize    uint64 `json:"file_size"`
	Description string `json:"description"`
	TimeCreated uint64 `json:"time_created"`
	TimeUpdated uint64 `json:"time_updated"`
}

// New returns a mod discovered at path for the first time.
func New(id, path string, typ pack.Type) *Mod {
	return &Mod{
		Name:     id,
		ID:       id,
		PackType: typ,
		Paths:    []string{path},
	}
}

func (m *Mod) Installed() bool {
	return len(m.Paths) > 0
}

// PrimaryPath is the highest priority path, or "" for ghost mods.
func (m *Mod) PrimaryPath() string {
	if len(m.Paths) == 0 {
		return ""
	}
	return m.Paths[0]
}

func (m *Mod) HasPath(path string) bool {
	return slices.Contains(m.Paths, path)
}

// InsertPath adds path keeping Paths sorted by root priority. Paths from the
// same root keep discovery order. It returns true when path became the
// primary path, which is the only case where PackType and timestamps should
// follow it.
func (m *Mod) InsertPath(path string, roots games.Roots) bool {
	if m.HasPath(path) {
		return false
	}

	rank := roots.Classify(path)
	pos := len(m.Paths)
	for i, p := range m.Paths {
		if roots.Classify(p) < rank {
			pos = i
			break
		}
	}
	m.Paths = slices.Insert(m.Paths, pos, path)
	return pos == 0
}

// Location describes which roots hold a copy of the mod.
type Location struct {
	InData      bool
	InSecondary bool
	InContent   bool
	// ContentSteamID is the workshop folder name of the content copy.
	ContentSteamID string
}

func (m *Mod) Location(roots games.Roots) Location {
	var loc Location
	for _, p := range m.Paths {
		switch roots.Classify(p) {
		case games.RootData:
			loc.InData = true
		case games.RootSecondary:
			loc.InSecondary = true
		case games.RootContent:
			loc.InContent = true
			if id, ok := roots.SteamIDHint(p); ok && loc.ContentSteamID == "" {
				loc.ContentSteamID = id
			}
		}
	}
	return loc
}

// IsEnabled resolves the user's flag against placement: movies sitting in
// /data are always loaded by the game.
func (m *Mod) IsEnabled(dataPath string) bool {
	if m.PackType == pack.Movie && m.inData(dataPath) {
		return true
	}
	return m.Enabled
}

func (m *Mod) CanBeToggled(dataPath string) bool {
	if !m.Installed() {
		return false
	}
	if m.PackType == pack.Movie {
		return !m.inData(dataPath)
	}
	return true
}

func (m *Mod) inData(dataPath string) bool {
	return dataPath != "" && m.Installed() && games.IsUnder(m.Paths[0], dataPath)
}

// AltName is the pack name a legacy .bin map gets once converted: the last
// segment of its workshop file name, spaces replaced with underscores.
func (m *Mod) AltName() (string, bool) {
	if !strings.EqualFold(filepath.Ext(m.ID), ".bin") {
		return "", false
	}
	base := m.FileName
	if base == "" {
		base = m.ID
	}
	base = lastSegment(base)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		return "", false
	}
	return strings.ReplaceAll(base, " ", "_") + ".pack", true
}

// MatchesLegacyName reports whether packName is the converted pack of this
// mod's workshop file.
func (m *Mod) MatchesLegacyName(packName string) bool {
	if m.FileName == "" {
		return false
	}
	if lastSegment(m.FileName) == packName {
		return true
	}
	alt, ok := m.AltName()
	return ok && alt == packName
}

// Clone returns a deep copy.
func (m *Mod) Clone() *Mod {
	c := *m
	c.Paths = slices.Clone(m.Paths)
	return &c
}

func lastSegment(name string) string {
	name = strings.TrimRight(strings.ReplaceAll(name, "\\", "/"), "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
