package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"totalwar-mod-launcher/config"
	"totalwar-mod-launcher/db"
	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/testutil"
)

func newInstall(t *testing.T) *testutil.Install {
	t.Helper()
	g, err := games.Lookup(games.KeyWarhammer3)
	require.NoError(t, err)
	return testutil.NewInstall(t, g)
}

// testSession opens a session on a fake installation with its own config
// folder and history database.
func testSession(t *testing.T, in *testutil.Install) *session {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		GameKey:           in.Game.Key,
		GamePath:          in.GamePath,
		SecondaryModsPath: in.SecondaryBase,
		ConfigDir:         dir,
		SkipNetworkUpdate: true,
		DatabasePath:      filepath.Join(dir, "history.db"),
		ProfilesDir:       filepath.Join(dir, "profiles"),
	}
	s, err := newSession(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return s
}

func TestNewSessionStartsEmpty(t *testing.T) {
	in := newInstall(t)
	s := testSession(t, in)

	assert.Equal(t, games.KeyWarhammer3, s.game.Key)
	assert.Empty(t, s.catalog.Mods)
	assert.True(t, s.loadOrder.Automatic)
	assert.Equal(t, in.DataPath, s.dataPath())
	assert.Equal(t, in.SecondaryPath(), s.secondaryPath())
	assert.Equal(t, in.Roots(), s.roots())
}

func TestNewSessionRejectsUnknownGame(t *testing.T) {
	dir := t.TempDir()
	_, err := newSession(config.Config{GameKey: "medieval_9", ConfigDir: dir, DatabasePath: filepath.Join(dir, "history.db")})
	assert.ErrorIs(t, err, games.ErrUnknownGame)
	if sqlDB, err := db.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func TestSessionWithoutGame(t *testing.T) {
	in := newInstall(t)
	s := testSession(t, in)
	s.cfg.GamePath = filepath.Join(in.Root, "missing")

	assert.Empty(t, s.dataPath())
	assert.Equal(t, games.Roots{}, s.roots())
}

func TestFetcherFollowsConfig(t *testing.T) {
	in := newInstall(t)
	s := testSession(t, in)
	assert.Nil(t, s.fetcher())

	s.cfg.SkipNetworkUpdate = false
	assert.Nil(t, s.fetcher())

	s.cfg.WorkshopperPath = "/usr/bin/workshopper"
	assert.NotNil(t, s.fetcher())

	opts := s.rescanOptions()
	assert.Equal(t, in.GamePath, opts.GamePath)
	assert.Equal(t, s.cfg.ConfigDir, opts.ConfigDir)
	assert.NotNil(t, opts.Reader)
}
