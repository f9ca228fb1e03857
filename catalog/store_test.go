package catalog

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/loadorder"
	"totalwar-mod-launcher/mods"
	"totalwar-mod-launcher/pack"
	"totalwar-mod-launcher/workshop"
)

func TestStoreSerializesWriters(t *testing.T) {
	s := NewStore(New(games.KeyWarhammer3), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("%02d.pack", i)
			_ = s.Update(func(cfg *GameConfig, lo *loadorder.LoadOrder) error {
				m := mods.New(id, "/game/data/"+id, pack.Mod)
				m.Enabled = true
				cfg.Mods[id] = m
				lo.Update(cfg.Mods, "/game/data")
				return nil
			})
		}()
		go func() {
			defer wg.Done()
			_ = s.View(func(cfg *GameConfig, lo *loadorder.LoadOrder) error {
				assert.LessOrEqual(t, len(lo.Mods), len(cfg.Mods))
				return nil
			})
		}()
	}
	wg.Wait()

	cfg, lo := s.Snapshot()
	assert.Len(t, cfg.Mods, 50)
	assert.Len(t, lo.Mods, 50)
	assert.Equal(t, loadorder.FilterAndSort(cfg.Mods, "/game/data"), lo.Mods)
}

func TestStoreSnapshotIsDetached(t *testing.T) {
	cfg := New(games.KeyWarhammer3)
	cfg.Mods["a.pack"] = mods.New("a.pack", "/game/data/a.pack", pack.Mod)
	s := NewStore(cfg, loadorder.New())

	snap, _ := s.Snapshot()
	snap.Mods["a.pack"].Name = "changed"

	require.NoError(t, s.View(func(cfg *GameConfig, _ *loadorder.LoadOrder) error {
		assert.Equal(t, "a.pack", cfg.Mods["a.pack"].Name)
		return nil
	}))
}

func TestMergeEnrichmentLeavesPlacementAlone(t *testing.T) {
	cfg := New(games.KeyWarhammer3)
	m := mods.New("a.pack", "/content/1/a.pack", pack.Mod)
	m.SteamID = "1"
	m.Enabled = true
	cfg.Mods["a.pack"] = m
	cfg.Mods["b.pack"] = mods.New("b.pack", "/game/data/b.pack", pack.Mod)
	cfg.Normalize()

	n := cfg.MergeEnrichment([]workshop.Item{
		{PublishedFileID: 1, Title: "A", Owner: 9, FileName: "a.pack", FileSize: 3, Description: "d", TimeCreated: 1, TimeUpdated: 2},
		{PublishedFileID: 2, Title: "Unrelated"},
	})
	assert.Equal(t, 1, n)

	assert.Equal(t, "A", m.Name)
	assert.Equal(t, "9", m.Creator)
	assert.Equal(t, uint64(3), m.FileSize)
	assert.Equal(t, []string{"/content/1/a.pack"}, m.Paths)
	assert.True(t, m.Enabled)
	assert.Equal(t, "b.pack", cfg.Mods["b.pack"].Name)
	assert.ElementsMatch(t, []string{"a.pack", "b.pack"}, cfg.Categories[DefaultCategory])
}
