package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/mods"
	"totalwar-mod-launcher/mods/versions"
	"totalwar-mod-launcher/pack"
)

// legacyMod builds a mod entry carrying every key of the given schema
// version.
func legacyMod(version int, id, category string) map[string]any {
	m := map[string]any{
		"name":         id,
		"id":           id,
		"enabled":      true,
		"paths":        []string{"/game/data/" + id},
		"creator":      "76561198000000000",
		"creator_name": "Someone",
		"file_size":    2048,
		"file_url":     "",
		"preview_url":  "",
		"description":  "desc " + id,
		"time_created": 100,
		"time_updated": 200,
		"last_check":   300,
		"steam_id":     "555",
	}
	if version <= 3 && category != "" {
		m["category"] = category
	}
	if version >= 1 {
		m["pack_type"] = "Mod"
	}
	if version >= 2 {
		m["outdated"] = false
	}
	if version >= 3 {
		m["file_name"] = ""
	}
	return m
}

func writeDoc(t *testing.T, dir string, doc map[string]any) string {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(dir, FileName(games.KeyWarhammer3))
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestLoadMissingFileIsFirstRun(t *testing.T) {
	cfg, err := Load(t.TempDir(), games.KeyWarhammer3)
	require.NoError(t, err)

	assert.Equal(t, games.KeyWarhammer3, cfg.GameKey)
	assert.Empty(t, cfg.Mods)
	assert.Equal(t, []string{DefaultCategory}, cfg.CategoriesOrder)
	assert.Contains(t, cfg.Categories, DefaultCategory)
}

func TestLoadMigratesAndPersists(t *testing.T) {
	for version := 0; version <= 3; version++ {
		t.Run(fmt.Sprintf("v%d", version), func(t *testing.T) {
			dir := t.TempDir()
			writeDoc(t, dir, map[string]any{
				"game_key": games.KeyWarhammer3,
				"mods": map[string]any{
					"b.pack": legacyMod(version, "b.pack", "Units"),
					"a.pack": legacyMod(version, "a.pack", ""),
					"c.pack": legacyMod(version, "c.pack", "Maps"),
				},
			})

			cfg, err := Load(dir, games.KeyWarhammer3)
			require.NoError(t, err)

			assert.Equal(t, []string{"Units", "Maps", DefaultCategory}, cfg.CategoriesOrder)
			assert.Equal(t, []string{"b.pack"}, cfg.Categories["Units"])
			assert.Equal(t, []string{"c.pack"}, cfg.Categories["Maps"])
			assert.Equal(t, []string{"a.pack"}, cfg.Categories[DefaultCategory])

			m := cfg.Mods["a.pack"]
			require.NotNil(t, m)
			assert.Equal(t, pack.Mod, m.PackType)
			assert.Equal(t, "555", m.SteamID)
			assert.Equal(t, "desc a.pack", m.Description)
			assert.Equal(t, uint64(200), m.TimeUpdated)

			data, err := os.ReadFile(filepath.Join(dir, FileName(games.KeyWarhammer3)))
			require.NoError(t, err)
			snap, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, CurrentVersion, snap.Version())
		})
	}
}

func TestMigrationMatchesManualChain(t *testing.T) {
	dir := t.TempDir()
	doc := map[string]any{
		"game_key": games.KeyWarhammer3,
		"mods": map[string]any{
			"a.pack": legacyMod(1, "a.pack", "Units"),
			"b.pack": legacyMod(1, "b.pack", ""),
		},
	}
	path := writeDoc(t, dir, doc)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	snap, err := Decode(raw)
	require.NoError(t, err)
	v1, ok := snap.(GameConfigV1)
	require.True(t, ok, "expected v1, got v%d", snap.Version())

	expected := v1.Upgrade().Upgrade().Upgrade().Upgrade()
	expected.fillNils()

	got, err := Load(dir, games.KeyWarhammer3)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestCurrentSchemaIsNotMigrated(t *testing.T) {
	dir := t.TempDir()
	cfg := New(games.KeyWarhammer3)
	cfg.Mods["a.pack"] = mods.New("a.pack", "/game/data/a.pack", pack.Movie)
	cfg.Categories[DefaultCategory] = []string{"a.pack"}
	require.NoError(t, cfg.Save(dir))

	path := filepath.Join(dir, FileName(games.KeyWarhammer3))
	before, err := os.Stat(path)
	require.NoError(t, err)

	got, err := Load(dir, games.KeyWarhammer3)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestV4DocumentReadsAsCurrent(t *testing.T) {
	doc := map[string]any{
		"game_key":         games.KeyWarhammer3,
		"mods":             map[string]any{"a.pack": legacyMod(4, "a.pack", "")},
		"categories":       map[string][]string{"Units": {"a.pack"}, DefaultCategory: {}},
		"categories_order": []string{"Units", DefaultCategory},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	snap, err := Decode(data)
	require.NoError(t, err)
	cfg, ok := snap.(*GameConfig)
	require.True(t, ok)
	assert.Equal(t, []string{"a.pack"}, cfg.Categories["Units"])
	assert.Equal(t, "555", cfg.Mods["a.pack"].SteamID)
}

func TestV4UpgradeIsLossless(t *testing.T) {
	steamID := "42"
	v4 := GameConfigV4{
		GameKey: games.KeyWarhammer3,
		Mods: map[string]versions.ModV4{
			"a.pack": {Name: "A", ID: "a.pack", SteamID: &steamID, PackType: pack.Movie, FileName: "maps/a.bin", Paths: []string{"/x/a.pack"}},
		},
		Categories:      map[string][]string{DefaultCategory: {"a.pack"}},
		CategoriesOrder: []string{DefaultCategory},
	}

	cfg := MigrateToLatest(v4)
	m := cfg.Mods["a.pack"]
	assert.Equal(t, "42", m.SteamID)
	assert.Equal(t, pack.Movie, m.PackType)
	assert.Equal(t, "maps/a.bin", m.FileName)
	assert.Equal(t, []string{"a.pack"}, cfg.Categories[DefaultCategory])
}

func TestUnknownSchemaLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName(games.KeyWarhammer3))
	original := []byte(`{"game_key": "warhammer_3", "mods": {"a.pack": {"name": "a"}}}`)
	require.NoError(t, os.WriteFile(path, original, 0644))

	_, err := Load(dir, games.KeyWarhammer3)
	assert.ErrorIs(t, err, ErrUnknownSchema)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, after)

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))
	_, err = Load(dir, games.KeyWarhammer3)
	assert.ErrorIs(t, err, ErrUnknownSchema)
}

func TestCloneIsDeep(t *testing.T) {
	cfg := New(games.KeyWarhammer3)
	cfg.Mods["a.pack"] = mods.New("a.pack", "/p/a.pack", pack.Mod)
	cfg.Categories[DefaultCategory] = []string{"a.pack"}

	c := cfg.Clone()
	c.Mods["a.pack"].Paths[0] = "/changed"
	c.Categories[DefaultCategory][0] = "changed"
	c.CategoriesOrder[0] = "changed"

	assert.Equal(t, "/p/a.pack", cfg.Mods["a.pack"].Paths[0])
	assert.Equal(t, "a.pack", cfg.Categories[DefaultCategory][0])
	assert.Equal(t, DefaultCategory, cfg.CategoriesOrder[0])
}

func TestSetEnabled(t *testing.T) {
	data := "/game/data"
	cfg := New(games.KeyWarhammer3)
	cfg.Mods["movie.pack"] = mods.New("movie.pack", data+"/movie.pack", pack.Movie)
	cfg.Mods["mod.pack"] = mods.New("mod.pack", data+"/mod.pack", pack.Mod)

	require.NoError(t, cfg.SetEnabled("mod.pack", true, data))
	assert.True(t, cfg.Mods["mod.pack"].Enabled)

	assert.Error(t, cfg.SetEnabled("movie.pack", false, data))
	assert.ErrorIs(t, cfg.SetEnabled("nope.pack", true, data), ErrUnknownMod)
}
