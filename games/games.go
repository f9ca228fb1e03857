// Package games knows where each supported Total War game keeps its packs.
package games

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	KeyWarhammer3     = "warhammer_3"
	KeyWarhammer2     = "warhammer_2"
	KeyWarhammer      = "warhammer"
	KeyThreeKingdoms  = "three_kingdoms"
	KeyTroy           = "troy"
	KeyPharaoh        = "pharaoh"
	KeyThrones        = "thrones_of_britannia"
	KeyAttila         = "attila"
	KeyRome2          = "rome_2"
	KeyShogun2        = "shogun_2"
	KeyNapoleon       = "napoleon"
	KeyEmpire         = "empire"
	dataFolderName    = "data"
	manifestFileName  = "manifest.txt"
	secondaryMasksDir = "masks"
)

// Reserved pack names are generated by the launcher itself at launch time
// and must never show up as user mods.
const (
	ReservedPackName            = "zzzzzzzzzzzzzzzzzzzzrun_you_fool_thron.pack"
	ReservedPackNameAlternative = "!!!!!!!!!!!!!!!!!!!!!run_you_fool_thron.pack"
)

var (
	ErrUnknownGame          = errors.New("unknown game")
	ErrGameNotFound         = errors.New("game installation not found")
	ErrSecondaryUnsupported = errors.New("game doesn't support secondary mod folders")
	ErrSecondaryNotSet      = errors.New("secondary mods path not set")
)

// Info describes one supported game.
type Info struct {
	Key         string
	DisplayName string
	SteamAppID  uint32
	// RawDBVersion 0 games predate add_working_directory, so they can only
	// load mods from /data. 1 and up can load from any folder.
	RawDBVersion int
	// Older engines mishandle the default reserved name in movie load order.
	AlternativeReservedName bool
}

var supported = map[string]Info{
	KeyWarhammer3:    {Key: KeyWarhammer3, DisplayName: "Warhammer 3", SteamAppID: 1142710, RawDBVersion: 2},
	KeyWarhammer2:    {Key: KeyWarhammer2, DisplayName: "Warhammer 2", SteamAppID: 594570, RawDBVersion: 2},
	KeyWarhammer:     {Key: KeyWarhammer, DisplayName: "Warhammer", SteamAppID: 364360, RawDBVersion: 2},
	KeyThreeKingdoms: {Key: KeyThreeKingdoms, DisplayName: "Three Kingdoms", SteamAppID: 779340, RawDBVersion: 2},
	KeyTroy:          {Key: KeyTroy, DisplayName: "Troy", SteamAppID: 1099410, RawDBVersion: 2},
	KeyPharaoh:       {Key: KeyPharaoh, DisplayName: "Pharaoh", SteamAppID: 1937780, RawDBVersion: 2},
	KeyThrones:       {Key: KeyThrones, DisplayName: "Thrones of Britannia", SteamAppID: 712100, RawDBVersion: 2, AlternativeReservedName: true},
	KeyAttila:        {Key: KeyAttila, DisplayName: "Attila", SteamAppID: 325610, RawDBVersion: 2, AlternativeReservedName: true},
	KeyRome2:         {Key: KeyRome2, DisplayName: "Rome 2", SteamAppID: 214950, RawDBVersion: 2, AlternativeReservedName: true},
	KeyShogun2:       {Key: KeyShogun2, DisplayName: "Shogun 2", SteamAppID: 34330, RawDBVersion: 1, AlternativeReservedName: true},
	KeyNapoleon:      {Key: KeyNapoleon, DisplayName: "Napoleon", SteamAppID: 34030, RawDBVersion: 0},
	KeyEmpire:        {Key: KeyEmpire, DisplayName: "Empire", SteamAppID: 10500, RawDBVersion: 0},
}

// Lookup returns the game registered under key.
func Lookup(key string) (Info, error) {
	g, ok := supported[key]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrUnknownGame, key)
	}
	return g, nil
}

// Supported lists every known game, sorted by key.
func Supported() []Info {
	out := make([]Info, 0, len(supported))
	for _, g := range supported {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (g Info) SupportsSecondary() bool {
	return g.RawDBVersion >= 1
}

// SupportsWorkingDirectories reports whether packs outside /data can be
// loaded through add_working_directory.
func (g Info) SupportsWorkingDirectories() bool {
	return g.RawDBVersion >= 1
}

func (g Info) ReservedPackName() string {
	if g.AlternativeReservedName {
		return ReservedPackNameAlternative
	}
	return ReservedPackName
}

// DataPath returns the canonical /data folder of the installation.
func (g Info) DataPath(gamePath string) (string, error) {
	if gamePath == "" {
		return "", ErrGameNotFound
	}
	dir := filepath.Join(gamePath, dataFolderName)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: no data folder in %s", ErrGameNotFound, gamePath)
	}
	return Canonical(dir), nil
}

// ContentPath returns the workshop cache for this game. Steam keeps it at
// steamapps/workshop/content/<appid>, next to steamapps/common/<game>.
func (g Info) ContentPath(gamePath string) (string, error) {
	if gamePath == "" {
		return "", ErrGameNotFound
	}
	steamapps := filepath.Dir(filepath.Dir(Canonical(gamePath)))
	dir := filepath.Join(steamapps, "workshop", "content", strconv.FormatUint(uint64(g.SteamAppID), 10))
	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a folder", dir)
	}
	return Canonical(dir), nil
}

// VanillaPacks returns the canonical paths of the packs shipped with the
// game, read from /data/manifest.txt. A missing manifest yields an empty set;
// a missing /data folder means the game isn't installed.
func (g Info) VanillaPacks(gamePath string) (map[string]struct{}, error) {
	dataPath, err := g.DataPath(gamePath)
	if err != nil {
		return nil, err
	}

	vanilla := make(map[string]struct{})
	f, err := os.Open(filepath.Join(dataPath, manifestFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return vanilla, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name, _, _ := strings.Cut(strings.TrimSpace(scanner.Text()), "\t")
		if !strings.HasSuffix(strings.ToLower(name), ".pack") {
			continue
		}
		vanilla[Canonical(filepath.Join(dataPath, filepath.FromSlash(name)))] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return vanilla, nil
}

// DataPacks lists the .pack files directly inside /data, sorted.
func (g Info) DataPacks(gamePath string) ([]string, error) {
	dataPath, err := g.DataPath(gamePath)
	if err != nil {
		return nil, err
	}
	return listFiles(dataPath, false, ".pack")
}

// ContentPacks lists every .pack and .bin under the workshop cache, sorted.
func (g Info) ContentPacks(gamePath string) ([]string, error) {
	contentPath, err := g.ContentPath(gamePath)
	if err != nil {
		return nil, err
	}
	return listFiles(contentPath, true, ".pack", ".bin")
}

// SecondaryPath returns the game's folder inside the user's secondary mods
// folder, creating it when missing.
func (g Info) SecondaryPath(base string) (string, error) {
	if !g.SupportsSecondary() {
		return "", fmt.Errorf("%w: %s", ErrSecondaryUnsupported, g.Key)
	}
	if base == "" {
		return "", ErrSecondaryNotSet
	}

	dir := filepath.Join(base, g.Key)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create secondary folder %s: %w", dir, err)
	}
	return Canonical(dir), nil
}

// SecondaryMasksPath is where masking packs for toggleable movies go.
func SecondaryMasksPath(secondaryPath string) string {
	return filepath.Join(secondaryPath, secondaryMasksDir)
}

// SecondaryPacks lists .pack and .bin files inside the secondary folder,
// skipping the masks folder.
func SecondaryPacks(secondaryPath string) ([]string, error) {
	paths, err := listFiles(secondaryPath, true, ".pack", ".bin")
	if err != nil {
		return nil, err
	}
	masks := SecondaryMasksPath(secondaryPath)
	out := paths[:0]
	for _, p := range paths {
		if !IsUnder(p, masks) {
			out = append(out, p)
		}
	}
	return out, nil
}

func listFiles(dir string, recursive bool, exts ...string) ([]string, error) {
	var out []string
	matches := func(name string) bool {
		ext := strings.ToLower(filepath.Ext(name))
		for _, e := range exts {
			if ext == e {
				return true
			}
		}
		return false
	}

	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && matches(e.Name()) {
				out = append(out, filepath.Join(dir, e.Name()))
			}
		}
		sort.Strings(out)
		return out, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subfolders are skipped, the rest of the tree still counts.
			if path == dir {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && matches(d.Name()) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
