package catalog

import (
	"errors"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"

	"totalwar-mod-launcher/mods"
	"totalwar-mod-launcher/mods/versions"
)

// CurrentVersion is the schema GameConfig is saved with.
const CurrentVersion = 5

// Snapshot is any catalog schema the launcher ever wrote. The set is closed:
// only types in this package implement it.
type Snapshot interface {
	Version() int
	upgrade() Snapshot
}

// GameConfigV0 to V3 kept the category on each mod.
type GameConfigV0 struct {
	GameKey string                    `json:"game_key"`
	Mods    map[string]versions.ModV0 `json:"mods"`
}

type GameConfigV1 struct {
	GameKey string                    `json:"game_key"`
	Mods    map[string]versions.ModV1 `json:"mods"`
}

type GameConfigV2 struct {
	GameKey string                    `json:"game_key"`
	Mods    map[string]versions.ModV2 `json:"mods"`
}

type GameConfigV3 struct {
	GameKey string                    `json:"game_key"`
	Mods    map[string]versions.ModV3 `json:"mods"`
}

// GameConfigV4 introduced the category map and order.
type GameConfigV4 struct {
	GameKey         string                    `json:"game_key"`
	Mods            map[string]versions.ModV4 `json:"mods"`
	Categories      map[string][]string       `json:"categories"`
	CategoriesOrder []string                  `json:"categories_order"`
}

func (GameConfigV0) Version() int { return 0 }
func (GameConfigV1) Version() int { return 1 }
func (GameConfigV2) Version() int { return 2 }
func (GameConfigV3) Version() int { return 3 }
func (GameConfigV4) Version() int { return 4 }
func (*GameConfig) Version() int  { return CurrentVersion }

func (s GameConfigV0) upgrade() Snapshot { return s.Upgrade() }
func (s GameConfigV1) upgrade() Snapshot { return s.Upgrade() }
func (s GameConfigV2) upgrade() Snapshot { return s.Upgrade() }
func (s GameConfigV3) upgrade() Snapshot { return s.Upgrade() }
func (s GameConfigV4) upgrade() Snapshot { return s.Upgrade() }
func (c *GameConfig) upgrade() Snapshot  { return c }

func (s GameConfigV0) Upgrade() GameConfigV1 {
	out := GameConfigV1{GameKey: s.GameKey, Mods: make(map[string]versions.ModV1, len(s.Mods))}
	for id, m := range s.Mods {
		out.Mods[id] = m.Upgrade()
	}
	return out
}

func (s GameConfigV1) Upgrade() GameConfigV2 {
	out := GameConfigV2{GameKey: s.GameKey, Mods: make(map[string]versions.ModV2, len(s.Mods))}
	for id, m := range s.Mods {
		out.Mods[id] = m.Upgrade()
	}
	return out
}

func (s GameConfigV2) Upgrade() GameConfigV3 {
	out := GameConfigV3{GameKey: s.GameKey, Mods: make(map[string]versions.ModV3, len(s.Mods))}
	for id, m := range s.Mods {
		out.Mods[id] = m.Upgrade()
	}
	return out
}

// Upgrade moves each mod's category into the category map. Mods without
// one go to the default category, which ends up last.
func (s GameConfigV3) Upgrade() GameConfigV4 {
	out := GameConfigV4{
		GameKey:    s.GameKey,
		Mods:       make(map[string]versions.ModV4, len(s.Mods)),
		Categories: map[string][]string{DefaultCategory: {}},
	}

	ids := make([]string, 0, len(s.Mods))
	for id := range s.Mods {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		m := s.Mods[id]
		category := DefaultCategory
		if m.Category != nil && *m.Category != "" {
			category = *m.Category
		}
		if _, ok := out.Categories[category]; !ok {
			out.CategoriesOrder = append(out.CategoriesOrder, category)
		}
		out.Categories[category] = append(out.Categories[category], id)
		out.Mods[id] = m.Upgrade()
	}
	out.CategoriesOrder = append(out.CategoriesOrder, DefaultCategory)
	return out
}

func (s GameConfigV4) Upgrade() *GameConfig {
	out := &GameConfig{
		GameKey:         s.GameKey,
		Mods:            make(map[string]*mods.Mod, len(s.Mods)),
		Categories:      make(map[string][]string, len(s.Categories)),
		CategoriesOrder: append([]string{}, s.CategoriesOrder...),
	}
	for id, m := range s.Mods {
		out.Mods[id] = m.Upgrade()
	}
	for cat, ids := range s.Categories {
		out.Categories[cat] = append([]string{}, ids...)
	}
	return out
}

// MigrateToLatest runs the conversion chain up to the current schema.
func MigrateToLatest(s Snapshot) *GameConfig {
	for {
		if cfg, ok := s.(*GameConfig); ok {
			return cfg
		}
		s = s.upgrade()
	}
}

var (
	configKeysV0      = []string{"game_key", "mods"}
	configKeysV4      = []string{"game_key", "mods", "categories", "categories_order"}
	configKeysCurrent = configKeysV4
	modKeysCurrent    = []string{"id"}
)

type decoder struct {
	version int
	decode  func([]byte) (Snapshot, error)
}

// decoders go from newest to oldest. A newer document can satisfy an older
// schema's keys, so the current schema always gets the first try.
var decoders = []decoder{
	{CurrentVersion, decodeCurrent},
	{4, decodeV4},
	{3, decodeLegacy[versions.ModV3](versions.KeysV3, func(k string, m map[string]versions.ModV3) Snapshot { return GameConfigV3{k, m} })},
	{2, decodeLegacy[versions.ModV2](versions.KeysV2, func(k string, m map[string]versions.ModV2) Snapshot { return GameConfigV2{k, m} })},
	{1, decodeLegacy[versions.ModV1](versions.KeysV1, func(k string, m map[string]versions.ModV1) Snapshot { return GameConfigV1{k, m} })},
	{0, decodeLegacy[versions.ModV0](versions.KeysV0, func(k string, m map[string]versions.ModV0) Snapshot { return GameConfigV0{k, m} })},
}

// Decode returns the newest schema data satisfies.
func Decode(data []byte) (Snapshot, error) {
	var errs []error
	for _, d := range decoders {
		snap, err := d.decode(data)
		if err == nil {
			return snap, nil
		}
		errs = append(errs, fmt.Errorf("v%d: %w", d.version, err))
	}
	return nil, fmt.Errorf("%w: %w", ErrUnknownSchema, errors.Join(errs...))
}

type rawConfig struct {
	GameKey         string              `json:"game_key"`
	Mods            json.RawMessage     `json:"mods"`
	Categories      map[string][]string `json:"categories"`
	CategoriesOrder []string            `json:"categories_order"`
}

func decodeCurrent(data []byte) (Snapshot, error) {
	var raw rawConfig
	if err := versions.DecodeStrict(data, &raw, configKeysCurrent); err != nil {
		return nil, err
	}
	ms, err := versions.DecodeMods[mods.Mod](raw.Mods, modKeysCurrent)
	if err != nil {
		return nil, err
	}

	cfg := &GameConfig{
		GameKey:         raw.GameKey,
		Mods:            make(map[string]*mods.Mod, len(ms)),
		Categories:      raw.Categories,
		CategoriesOrder: raw.CategoriesOrder,
	}
	for id, m := range ms {
		m := m
		if m.ID == "" {
			m.ID = id
		}
		cfg.Mods[id] = &m
	}
	cfg.fillNils()
	return cfg, nil
}

func decodeV4(data []byte) (Snapshot, error) {
	var raw rawConfig
	if err := versions.DecodeStrict(data, &raw, configKeysV4); err != nil {
		return nil, err
	}
	ms, err := versions.DecodeMods[versions.ModV4](raw.Mods, versions.KeysV4)
	if err != nil {
		return nil, err
	}
	return GameConfigV4{
		GameKey:         raw.GameKey,
		Mods:            ms,
		Categories:      raw.Categories,
		CategoriesOrder: raw.CategoriesOrder,
	}, nil
}

func decodeLegacy[M any](modKeys []string, build func(string, map[string]M) Snapshot) func([]byte) (Snapshot, error) {
	return func(data []byte) (Snapshot, error) {
		var raw rawConfig
		if err := versions.DecodeStrict(data, &raw, configKeysV0); err != nil {
			return nil, err
		}
		ms, err := versions.DecodeMods[M](raw.Mods, modKeys)
		if err != nil {
			return nil, err
		}
		return build(raw.GameKey, ms), nil
	}
}
