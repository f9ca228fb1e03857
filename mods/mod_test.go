package mods

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/pack"
)

var testRoots = games.Roots{
	Data:      filepath.FromSlash("/game/data"),
	Secondary: filepath.FromSlash("/secondary/warhammer_3"),
	Content:   filepath.FromSlash("/steam/content/1142710"),
}

var (
	dataPath      = filepath.FromSlash("/game/data/my_mod.pack")
	secondaryPath = filepath.FromSlash("/secondary/warhammer_3/my_mod.pack")
	contentPath   = filepath.FromSlash("/steam/content/1142710/12345/my_mod.pack")
)

func TestInsertPathKeepsPriorityOrder(t *testing.T) {
	all := []string{contentPath, secondaryPath, dataPath}
	want := []string{dataPath, secondaryPath, contentPath}

	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, perm := range perms {
		m := &Mod{ID: "my_mod.pack"}
		for _, i := range perm {
			m.InsertPath(all[i], testRoots)
		}
		assert.Equal(t, want, m.Paths, "insertion order %v", perm)
	}
}

func TestInsertPathReportsPrimary(t *testing.T) {
	m := New("my_mod.pack", contentPath, pack.Mod)

	assert.False(t, m.InsertPath(contentPath, testRoots), "duplicates are ignored")
	assert.Len(t, m.Paths, 1)

	assert.True(t, m.InsertPath(dataPath, testRoots))
	assert.False(t, m.InsertPath(secondaryPath, testRoots))
	assert.Equal(t, []string{dataPath, secondaryPath, contentPath}, m.Paths)
	assert.Equal(t, dataPath, m.PrimaryPath())
}

func TestLocation(t *testing.T) {
	m := &Mod{Paths: []string{dataPath, contentPath}}
	loc := m.Location(testRoots)
	assert.True(t, loc.InData)
	assert.False(t, loc.InSecondary)
	assert.True(t, loc.InContent)
	assert.Equal(t, "12345", loc.ContentSteamID)

	ghost := &Mod{}
	assert.Equal(t, Location{}, ghost.Location(testRoots))
}

func TestEnabledAndToggle(t *testing.T) {
	tests := []struct {
		name       string
		typ        pack.Type
		path       string
		flag       bool
		wantOn     bool
		wantToggle bool
	}{
		{"mod in data disabled", pack.Mod, dataPath, false, false, true},
		{"mod in content enabled", pack.Mod, contentPath, true, true, true},
		{"movie in data disabled", pack.Movie, filepath.FromSlash("/game/data/movie.pack"), false, true, false},
		{"movie in content disabled", pack.Movie, contentPath, false, false, true},
		{"movie in content enabled", pack.Movie, contentPath, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New("x.pack", tt.path, tt.typ)
			m.Enabled = tt.flag
			assert.Equal(t, tt.wantOn, m.IsEnabled(testRoots.Data))
			assert.Equal(t, tt.wantToggle, m.CanBeToggled(testRoots.Data))
		})
	}

	ghost := &Mod{PackType: pack.Mod, Enabled: true}
	assert.False(t, ghost.CanBeToggled(testRoots.Data))
}

func TestAltName(t *testing.T) {
	m := &Mod{ID: "map.bin", FileName: "maps/My Great Map.bin"}
	alt, ok := m.AltName()
	require.True(t, ok)
	assert.Equal(t, "My_Great_Map.pack", alt)
	assert.True(t, m.MatchesLegacyName("My_Great_Map.pack"))
	assert.True(t, m.MatchesLegacyName("My Great Map.bin"))
	assert.False(t, m.MatchesLegacyName("other.pack"))

	noFile := &Mod{ID: "old map.bin"}
	alt, ok = noFile.AltName()
	require.True(t, ok)
	assert.Equal(t, "old_map.pack", alt)
	assert.False(t, noFile.MatchesLegacyName("old_map.pack"))

	_, ok = (&Mod{ID: "my_mod.pack"}).AltName()
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	m := New("a.pack", dataPath, pack.Mod)
	c := m.Clone()
	c.Paths[0] = "elsewhere"
	assert.Equal(t, dataPath, m.Paths[0])
}

type fixedHasher string

func (h fixedHasher) Hash(string) (string, error) { return string(h), nil }

func TestNewShareable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pack")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0644))

	m := New("a.pack", path, pack.Mod)
	m.Name = "A mod"
	m.SteamID = "42"

	s, err := NewShareable(m, SHA256Hasher{})
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", s.Hash)
	assert.Equal(t, "A mod", s.Name)
	assert.Equal(t, "42", s.SteamID)

	s, err = NewShareable(m, fixedHasher("cafe"))
	require.NoError(t, err)
	assert.Equal(t, "cafe", s.Hash)

	_, err = NewShareable(&Mod{ID: "ghost.pack"}, SHA256Hasher{})
	assert.ErrorIs(t, err, ErrNotInstalled)
}
