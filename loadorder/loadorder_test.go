package loadorder

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/mods"
	"totalwar-mod-launcher/pack"
)

var (
	dataDir      = filepath.FromSlash("/game/data")
	secondaryDir = filepath.FromSlash("/secondary/warhammer_3")
	contentDir   = filepath.FromSlash("/steam/content/1142710")
)

func mod(id, dir string, typ pack.Type, enabled bool) *mods.Mod {
	m := mods.New(id, filepath.Join(dir, id), typ)
	m.Enabled = enabled
	return m
}

func catalog(ms ...*mods.Mod) map[string]*mods.Mod {
	out := make(map[string]*mods.Mod, len(ms))
	for _, m := range ms {
		out[m.ID] = m
	}
	return out
}

func TestFilterAndSort(t *testing.T) {
	all := catalog(
		mod("c.pack", dataDir, pack.Mod, true),
		mod("a.pack", contentDir, pack.Mod, true),
		mod("b.pack", secondaryDir, pack.Mod, false),
		mod("z_movie.pack", dataDir, pack.Movie, false),
		mod("b_movie.pack", contentDir, pack.Movie, true),
		mod("off_movie.pack", contentDir, pack.Movie, false),
		mod("boot.pack", dataDir, pack.Boot, true),
		&mods.Mod{ID: "ghost.pack", Enabled: true, PackType: pack.Mod},
	)

	got := FilterAndSort(all, dataDir)
	assert.Equal(t, []string{"a.pack", "c.pack", "b_movie.pack", "z_movie.pack"}, got)
}

func TestFilterAndSortIsDeterministic(t *testing.T) {
	all := catalog()
	for _, id := range []string{"q.pack", "e.pack", "w.pack", "r.pack", "t.pack", "y.pack"} {
		all[id] = mod(id, contentDir, pack.Mod, true)
	}
	all["m.pack"] = mod("m.pack", dataDir, pack.Movie, false)
	want := FilterAndSort(all, dataDir)

	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = FilterAndSort(all, dataDir)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, want, r)
	}
}

func TestGenerateSplitsMovies(t *testing.T) {
	all := catalog(
		mod("a.pack", dataDir, pack.Mod, true),
		mod("movie.pack", dataDir, pack.Movie, false),
	)
	lo := New()
	lo.Generate(all, dataDir)
	assert.Equal(t, []string{"a.pack", "movie.pack"}, lo.Mods)
	assert.Equal(t, []string{"movie.pack"}, lo.Movies)
}

func TestNewModNotInOrderUntilEnabled(t *testing.T) {
	m := mod("12345.pack", filepath.Join(contentDir, "12345"), pack.Mod, false)
	all := catalog(m)

	lo := New()
	lo.Update(all, dataDir)
	assert.Empty(t, lo.Mods)

	m.Enabled = true
	lo.Update(all, dataDir)
	assert.Equal(t, []string{"12345.pack"}, lo.Mods)
}

func TestManualOrderKeepsUserOrder(t *testing.T) {
	all := catalog(
		mod("a.pack", dataDir, pack.Mod, true),
		mod("b.pack", dataDir, pack.Mod, true),
		mod("c.pack", dataDir, pack.Mod, true),
		mod("movie.pack", dataDir, pack.Movie, false),
	)

	lo := New()
	lo.SetAutomatic(false, all, dataDir)
	require.NoError(t, lo.Move("c.pack", 0))
	assert.Equal(t, []string{"c.pack", "a.pack", "b.pack", "movie.pack"}, lo.Mods)

	delete(all, "a.pack")
	all["d.pack"] = mod("d.pack", dataDir, pack.Mod, true)
	all["0.pack"] = mod("0.pack", dataDir, pack.Mod, true)
	lo.Update(all, dataDir)
	assert.Equal(t, []string{"c.pack", "b.pack", "0.pack", "d.pack", "movie.pack"}, lo.Mods)
	assert.Equal(t, []string{"movie.pack"}, lo.Movies)

	assert.ErrorIs(t, lo.Move("movie.pack", 0), ErrMovieOrdered)
	assert.ErrorIs(t, lo.Move("nope.pack", 0), ErrNotInOrder)

	require.NoError(t, lo.Move("c.pack", 99))
	assert.Equal(t, []string{"b.pack", "0.pack", "d.pack", "c.pack", "movie.pack"}, lo.Mods)

	lo.SetAutomatic(true, all, dataDir)
	assert.Equal(t, []string{"0.pack", "b.pack", "c.pack", "d.pack", "movie.pack"}, lo.Mods)
	assert.ErrorIs(t, lo.Move("c.pack", 0), ErrAutomatic)
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()

	lo, err := Load(dir, games.KeyWarhammer3)
	require.NoError(t, err)
	assert.True(t, lo.Automatic)
	assert.Empty(t, lo.Mods)

	lo.Automatic = false
	lo.Mods = []string{"b.pack", "a.pack"}
	require.NoError(t, lo.Save(dir, games.KeyWarhammer3))
	assert.FileExists(t, filepath.Join(dir, "last_load_order_warhammer_3.json"))

	back, err := Load(dir, games.KeyWarhammer3)
	require.NoError(t, err)
	assert.False(t, back.Automatic)
	assert.Equal(t, []string{"b.pack", "a.pack"}, back.Mods)
	assert.Equal(t, []string{}, back.Movies)
}

func TestProfiles(t *testing.T) {
	dir := t.TempDir()
	lo := &LoadOrder{Automatic: false, Mods: []string{"x.pack"}}

	require.NoError(t, SaveProfile(dir, games.KeyWarhammer3, "campaign", lo))
	require.NoError(t, SaveProfile(dir, games.KeyWarhammer3, "battles", lo))
	require.NoError(t, SaveProfile(dir, games.KeyWarhammer2, "other", lo))
	assert.Error(t, SaveProfile(dir, games.KeyWarhammer3, "../escape", lo))

	ids, err := ListProfiles(dir, games.KeyWarhammer3)
	require.NoError(t, err)
	assert.Equal(t, []string{"battles", "campaign"}, ids)

	p, err := LoadProfile(dir, games.KeyWarhammer3, "campaign")
	require.NoError(t, err)
	assert.Equal(t, "campaign", p.ID)
	assert.Equal(t, games.KeyWarhammer3, p.Game)
	assert.Equal(t, []string{"x.pack"}, p.LoadOrder.Mods)

	_, err = LoadProfile(dir, games.KeyWarhammer3, "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	ids, err = ListProfiles(filepath.Join(dir, "nope"), games.KeyWarhammer3)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestProfilesKeptApartPerGame(t *testing.T) {
	dir := t.TempDir()
	lo := &LoadOrder{Automatic: false, Mods: []string{"x.pack"}}
	require.NoError(t, SaveProfile(dir, games.KeyWarhammer3, "campaign", lo))

	ids, err := ListProfiles(dir, games.KeyWarhammer)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = LoadProfile(dir, games.KeyWarhammer, "3_campaign")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	ids, err = ListProfiles(dir, games.KeyWarhammer3)
	require.NoError(t, err)
	assert.Equal(t, []string{"campaign"}, ids)
}
