package games_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/pack"
	"totalwar-mod-launcher/testutil"
)

func TestLookup(t *testing.T) {
	g, err := games.Lookup(games.KeyWarhammer3)
	require.NoError(t, err)
	assert.True(t, g.SupportsSecondary())
	assert.Equal(t, games.ReservedPackName, g.ReservedPackName())

	s2, err := games.Lookup(games.KeyShogun2)
	require.NoError(t, err)
	assert.Equal(t, games.ReservedPackNameAlternative, s2.ReservedPackName())

	emp, err := games.Lookup(games.KeyEmpire)
	require.NoError(t, err)
	assert.False(t, emp.SupportsSecondary())
	assert.False(t, emp.SupportsWorkingDirectories())

	_, err = games.Lookup("medieval_2")
	assert.ErrorIs(t, err, games.ErrUnknownGame)

	all := games.Supported()
	assert.Len(t, all, 12)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Key, all[i].Key)
	}
}

func TestInstallPaths(t *testing.T) {
	g, _ := games.Lookup(games.KeyWarhammer3)
	in := testutil.NewInstall(t, g)

	dataPath, err := g.DataPath(in.GamePath)
	require.NoError(t, err)
	assert.Equal(t, in.DataPath, dataPath)

	contentPath, err := g.ContentPath(in.GamePath)
	require.NoError(t, err)
	assert.Equal(t, in.ContentPath, contentPath)

	_, err = g.DataPath(filepath.Join(in.Root, "nowhere"))
	assert.ErrorIs(t, err, games.ErrGameNotFound)

	_, err = g.DataPath("")
	assert.ErrorIs(t, err, games.ErrGameNotFound)
}

func TestPackListings(t *testing.T) {
	g, _ := games.Lookup(games.KeyWarhammer3)
	in := testutil.NewInstall(t, g)

	vanilla := in.WriteDataPack(t, "data.pack", pack.Release)
	mod := in.WriteDataPack(t, "b_mod.pack", pack.Mod)
	require.NoError(t, os.WriteFile(filepath.Join(in.DataPath, "readme.txt"), []byte("hi"), 0644))
	in.WriteManifest(t, "data.pack", "audio.pack", "shaders.bin")

	content1 := in.WriteContentPack(t, "111", "a_mod.pack", pack.Mod)
	content2 := in.WriteLegacyMap(t, "222", "map.bin")

	set, err := g.VanillaPacks(in.GamePath)
	require.NoError(t, err)
	assert.Contains(t, set, vanilla)
	assert.Len(t, set, 2)

	data, err := g.DataPacks(in.GamePath)
	require.NoError(t, err)
	assert.Equal(t, []string{mod, vanilla}, data)

	content, err := g.ContentPacks(in.GamePath)
	require.NoError(t, err)
	assert.Equal(t, []string{content1, content2}, content)
}

func TestVanillaPacksWithoutManifest(t *testing.T) {
	g, _ := games.Lookup(games.KeyWarhammer2)
	in := testutil.NewInstall(t, g)

	set, err := g.VanillaPacks(in.GamePath)
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestSecondaryPath(t *testing.T) {
	g, _ := games.Lookup(games.KeyWarhammer3)
	in := testutil.NewInstall(t, g)

	_, err := g.SecondaryPath("")
	assert.ErrorIs(t, err, games.ErrSecondaryNotSet)

	dir, err := g.SecondaryPath(in.SecondaryBase)
	require.NoError(t, err)
	assert.Equal(t, in.SecondaryPath(), dir)
	assert.DirExists(t, dir)

	p := in.WriteSecondaryPack(t, "x.pack", pack.Mod)
	testutil.WritePack(t, filepath.Join(games.SecondaryMasksPath(dir), "x.pack"), pack.Movie)

	packs, err := games.SecondaryPacks(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{p}, packs)

	napoleon, _ := games.Lookup(games.KeyNapoleon)
	_, err = napoleon.SecondaryPath(in.SecondaryBase)
	assert.ErrorIs(t, err, games.ErrSecondaryUnsupported)
}

func TestRootsClassify(t *testing.T) {
	roots := games.Roots{
		Data:      filepath.FromSlash("/games/wh3/data"),
		Secondary: filepath.FromSlash("/mods/warhammer_3"),
		Content:   filepath.FromSlash("/steam/workshop/content/1142710"),
	}

	tests := []struct {
		path string
		want games.Root
	}{
		{"/games/wh3/data/a.pack", games.RootData},
		{"/mods/warhammer_3/a.pack", games.RootSecondary},
		{"/steam/workshop/content/1142710/123/a.pack", games.RootContent},
		{"/games/wh3/data_backup/a.pack", games.RootNone},
		{"/elsewhere/a.pack", games.RootNone},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, roots.Classify(filepath.FromSlash(tt.path)))
		})
	}

	assert.True(t, games.RootData > games.RootSecondary)
	assert.True(t, games.RootSecondary > games.RootContent)
}

func TestSteamIDHint(t *testing.T) {
	roots := games.Roots{Content: filepath.FromSlash("/steam/workshop/content/1142710")}

	id, ok := roots.SteamIDHint(filepath.FromSlash("/steam/workshop/content/1142710/12345/mod.pack"))
	assert.True(t, ok)
	assert.Equal(t, "12345", id)

	_, ok = roots.SteamIDHint(filepath.FromSlash("/steam/workshop/content/1142710/mod.pack"))
	assert.False(t, ok)

	_, ok = roots.SteamIDHint(filepath.FromSlash("/games/wh3/data/mod.pack"))
	assert.False(t, ok)
}
