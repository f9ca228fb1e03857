// Package testutil builds fake game installations on disk for tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"

	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/pack"
)

// Install mirrors a Steam library layout:
//
//	<root>/steamapps/common/<game>/data
//	<root>/steamapps/workshop/content/<appid>
//	<root>/secondary/<game key>
type Install struct {
	Game          games.Info
	Root          string
	GamePath      string
	DataPath      string
	ContentPath   string
	SecondaryBase string
}

func NewInstall(t testing.TB, game games.Info) *Install {
	t.Helper()
	root := games.Canonical(t.TempDir())
	in := &Install{
		Game:          game,
		Root:          root,
		GamePath:      filepath.Join(root, "steamapps", "common", strings.ReplaceAll(game.DisplayName, " ", "")),
		ContentPath:   filepath.Join(root, "steamapps", "workshop", "content", strconv.FormatUint(uint64(game.SteamAppID), 10)),
		SecondaryBase: filepath.Join(root, "secondary"),
	}
	in.DataPath = filepath.Join(in.GamePath, "data")

	for _, dir := range []string{in.DataPath, in.ContentPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	return in
}

// SecondaryPath is the per-game secondary folder.
func (in *Install) SecondaryPath() string {
	return filepath.Join(in.SecondaryBase, in.Game.Key)
}

func (in *Install) Roots() games.Roots {
	return games.Roots{
		Data:      in.DataPath,
		Secondary: in.SecondaryPath(),
		Content:   in.ContentPath,
	}
}

func (in *Install) WriteDataPack(t testing.TB, name string, typ pack.Type) string {
	t.Helper()
	return WritePack(t, filepath.Join(in.DataPath, name), typ)
}

func (in *Install) WriteContentPack(t testing.TB, steamID, name string, typ pack.Type) string {
	t.Helper()
	return WritePack(t, filepath.Join(in.ContentPath, steamID, name), typ)
}

func (in *Install) WriteSecondaryPack(t testing.TB, name string, typ pack.Type) string {
	t.Helper()
	return WritePack(t, filepath.Join(in.SecondaryPath(), name), typ)
}

// WriteManifest lists names as vanilla packs.
func (in *Install) WriteManifest(t testing.TB, names ...string) {
	t.Helper()
	var b strings.Builder
	for _, n := range names {
		b.WriteString(n + "\t1024\n")
	}
	if err := os.WriteFile(filepath.Join(in.DataPath, "manifest.txt"), []byte(b.String()), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
}

// WriteLegacyMap writes a zlib-compressed .bin into the workshop cache.
func (in *Install) WriteLegacyMap(t testing.TB, steamID, name string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write([]byte("shogun 2 map")); err != nil {
		t.Fatalf("failed to compress map: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to compress map: %v", err)
	}
	return writeFile(t, filepath.Join(in.ContentPath, steamID, name), buf.Bytes())
}

// WritePack writes a pack with a valid header and returns its canonical path.
func WritePack(t testing.TB, path string, typ pack.Type) string {
	t.Helper()
	var buf bytes.Buffer
	if err := pack.WriteHeader(&buf, "PFH5", typ, 0); err != nil {
		t.Fatalf("failed to build header: %v", err)
	}
	buf.WriteString(filepath.Base(path))
	return writeFile(t, path, buf.Bytes())
}

func writeFile(t testing.TB, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return games.Canonical(path)
}
