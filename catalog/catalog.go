// Package catalog owns the per-game mod catalog: every mod ever seen, the
// category partition and its order. It also knows how to rebuild itself from
// the install folders and how to read every schema it was ever saved with.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/jsonfile"
	"totalwar-mod-launcher/logger"
	"totalwar-mod-launcher/mods"
)

const (
	fileNameStart = "game_config_"
	fileNameEnd   = ".json"
)

var (
	ErrGameNotFound         = games.ErrGameNotFound
	ErrUnknownSchema        = errors.New("catalog file doesn't match any known schema")
	ErrUnsupportedPlacement = errors.New("mod can't be placed in the secondary folder")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrCategoryExists       = errors.New("category already exists")
	ErrUnknownMod           = errors.New("unknown mod")
)

// GameConfig is the catalog of one game.
type GameConfig struct {
	GameKey string `json:"game_key"`

	// Mods holds every mod ever seen for the game, keyed by pack name.
	// Uninstalled ones are kept with empty paths so their data is reused.
	Mods map[string]*mods.Mod `json:"mods"`

	// Categories maps each category to its installed mods, in display order.
	Categories map[string][]string `json:"categories"`

	// CategoriesOrder always ends with DefaultCategory.
	CategoriesOrder []string `json:"categories_order"`
}

// New returns an empty catalog holding only the default category.
func New(gameKey string) *GameConfig {
	return &GameConfig{
		GameKey:         gameKey,
		Mods:            make(map[string]*mods.Mod),
		Categories:      map[string][]string{DefaultCategory: {}},
		CategoriesOrder: []string{DefaultCategory},
	}
}

// FileName is the catalog file name for a game.
func FileName(gameKey string) string {
	return fileNameStart + gameKey + fileNameEnd
}

// Load reads the catalog of a game from dir. A missing file is a first run
// and yields New. Files written by older versions are migrated and the
// result is written back right away. Files no schema can read are reported
// with ErrUnknownSchema and left untouched.
func Load(dir, gameKey string) (*GameConfig, error) {
	path := filepath.Join(dir, FileName(gameKey))
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(gameKey), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg := MigrateToLatest(snap)
	if cfg.GameKey == "" {
		cfg.GameKey = gameKey
	}
	cfg.ensureDefaultCategory()

	if v := snap.Version(); v < CurrentVersion {
		logger.Log.Infow("Migrated catalog", zap.String("game", gameKey), zap.Int("from_version", v), zap.Int("to_version", CurrentVersion))
		if err := cfg.Save(dir); err != nil {
			logger.Log.Warnw("Failed to persist migrated catalog", zap.String("game", gameKey), zap.Error(err))
		}
	}
	return cfg, nil
}

// Save writes the catalog to dir.
func (c *GameConfig) Save(dir string) error {
	c.fillNils()
	if err := jsonfile.Write(filepath.Join(dir, FileName(c.GameKey)), c); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	return nil
}

// Clone returns a deep copy, safe to read while the original is mutated.
func (c *GameConfig) Clone() *GameConfig {
	out := &GameConfig{
		GameKey:         c.GameKey,
		Mods:            make(map[string]*mods.Mod, len(c.Mods)),
		Categories:      make(map[string][]string, len(c.Categories)),
		CategoriesOrder: slices.Clone(c.CategoriesOrder),
	}
	for id, m := range c.Mods {
		out.Mods[id] = m.Clone()
	}
	for cat, ids := range c.Categories {
		out.Categories[cat] = slices.Clone(ids)
	}
	return out
}

// Mod returns the mod with the given id.
func (c *GameConfig) Mod(id string) (*mods.Mod, error) {
	m, ok := c.Mods[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMod, id)
	}
	return m, nil
}

// SetEnabled flips the user flag of a mod. Movies forced on by their
// placement can't be toggled.
func (c *GameConfig) SetEnabled(id string, enabled bool, dataPath string) error {
	m, err := c.Mod(id)
	if err != nil {
		return err
	}
	if !m.CanBeToggled(dataPath) {
		return fmt.Errorf("mod %s can't be toggled", id)
	}
	m.Enabled = enabled
	return nil
}

// fillNils makes sure empty collections serialize as [] and {}.
func (c *GameConfig) fillNils() {
	if c.Mods == nil {
		c.Mods = make(map[string]*mods.Mod)
	}
	for _, m := range c.Mods {
		if m.Paths == nil {
			m.Paths = []string{}
		}
	}
	if c.Categories == nil {
		c.Categories = make(map[string][]string)
	}
	for cat, ids := range c.Categories {
		if ids == nil {
			c.Categories[cat] = []string{}
		}
	}
	if c.CategoriesOrder == nil {
		c.CategoriesOrder = []string{}
	}
}
