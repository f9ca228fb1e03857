// Package versions holds the historical on-disk mod schemas. Each type only
// knows how to decode itself and convert to its direct successor.
package versions

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"totalwar-mod-launcher/mods"
	"totalwar-mod-launcher/pack"
)

var ErrMissingKey = errors.New("missing required key")

// ModV0 is the first catalog mod schema. Category lived on the mod itself.
type ModV0 struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	SteamID     *string  `json:"steam_id"`
	Enabled     bool     `json:"enabled"`
	Category    *string  `json:"category"`
	Paths       []string `json:"paths"`
	Creator     string   `json:"creator"`
	CreatorName string   `json:"creator_name"`
	FileSize    uint64   `json:"file_size"`
	FileURL     string   `json:"file_url"`
	PreviewURL  string   `json:"preview_url"`
	Description string   `json:"description"`
	TimeCreated uint64   `json:"time_created"`
	TimeUpdated uint64   `json:"time_updated"`
	LastCheck   uint64   `json:"last_check"`
}

// ModV1 adds the pack type.
type ModV1 struct {
	Name        string    `json:"name"`
	ID          string    `json:"id"`
	SteamID     *string   `json:"steam_id"`
	Enabled     bool      `json:"enabled"`
	Category    *string   `json:"category"`
	PackType    pack.Type `json:"pack_type"`
	Paths       []string  `json:"paths"`
	Creator     string    `json:"creator"`
	CreatorName string    `json:"creator_name"`
	FileSize    uint64    `json:"file_size"`
	FileURL     string    `json:"file_url"`
	PreviewURL  string    `json:"preview_url"`
	Description string    `json:"description"`
	TimeCreated uint64    `json:"time_created"`
	TimeUpdated uint64    `json:"time_updated"`
	LastCheck   uint64    `json:"last_check"`
}

// ModV2 adds the outdated flag.
type ModV2 struct {
	Name        string    `json:"name"`
	ID          string    `json:"id"`
	SteamID     *string   `json:"steam_id"`
	Enabled     bool      `json:"enabled"`
	Category    *string   `json:"category"`
	PackType    pack.Type `json:"pack_type"`
	Paths       []string  `json:"paths"`
	Creator     string    `json:"creator"`
	CreatorName string    `json:"creator_name"`
	FileSize    uint64    `json:"file_size"`
	FileURL     string    `json:"file_url"`
	PreviewURL  string    `json:"preview_url"`
	Description string    `json:"description"`
	TimeCreated uint64    `json:"time_created"`
	TimeUpdated uint64    `json:"time_updated"`
	Outdated    bool      `json:"outdated"`
	LastCheck   uint64    `json:"last_check"`
}

// ModV3 adds the workshop file name.
type ModV3 struct {
	Name        string    `json:"name"`
	ID          string    `json:"id"`
	SteamID     *string   `json:"steam_id"`
	Enabled     bool      `json:"enabled"`
	Category    *string   `json:"category"`
	PackType    pack.Type `json:"pack_type"`
	Paths       []string  `json:"paths"`
	Creator     string    `json:"creator"`
	CreatorName string    `json:"creator_name"`
	FileName    string    `json:"file_name"`
	FileSize    uint64    `json:"file_size"`
	FileURL     string    `json:"file_url"`
	PreviewURL  string    `json:"preview_url"`
	Description string    `json:"description"`
	TimeCreated uint64    `json:"time_created"`
	TimeUpdated uint64    `json:"time_updated"`
	Outdated    bool      `json:"outdated"`
	LastCheck   uint64    `json:"last_check"`
}

// ModV4 moves the category out to the catalog.
type ModV4 struct {
	Name        string    `json:"name"`
	ID          string    `json:"id"`
	SteamID     *string   `json:"steam_id"`
	Enabled     bool      `json:"enabled"`
	PackType    pack.Type `json:"pack_type"`
	Paths       []string  `json:"paths"`
	Creator     string    `json:"creator"`
	CreatorName string    `json:"creator_name"`
	FileName    string    `json:"file_name"`
	FileSize    uint64    `json:"file_size"`
	FileURL     string    `json:"file_url"`
	PreviewURL  string    `json:"preview_url"`
	Description string    `json:"description"`
	TimeCreated uint64    `json:"time_created"`
	TimeUpdated uint64    `json:"time_updated"`
	Outdated    bool      `json:"outdated"`
	LastCheck   uint64    `json:"last_check"`
}

// Keys every mod entry of a given version must carry. Optional fields
// (steam_id, category) are left out.
var (
	KeysV0 = []string{
		"name", "id", "enabled", "paths", "creator", "creator_name", "file_size",
		"file_url", "preview_url", "description", "time_created", "time_updated", "last_check",
	}
	KeysV1 = append(clone(KeysV0), "pack_type")
	KeysV2 = append(clone(KeysV1), "outdated")
	KeysV3 = append(clone(KeysV2), "file_name")
	KeysV4 = KeysV3
)

func (m ModV0) Upgrade() ModV1 {
	return ModV1{
		Name:        m.Name,
		ID:          m.ID,
		SteamID:     m.SteamID,
		Enabled:     m.Enabled,
		Category:    m.Category,
		PackType:    pack.Mod,
		Paths:       m.Paths,
		Creator:     m.Creator,
		CreatorName: m.CreatorName,
		FileSize:    m.FileSize,
		FileURL:     m.FileURL,
		PreviewURL:  m.PreviewURL,
		Description: m.Description,
		TimeCreated: m.TimeCreated,
		TimeUpdated: m.TimeUpdated,
		LastCheck:   m.LastCheck,
	}
}

func (m ModV1) Upgrade() ModV2 {
	return ModV2{
		Name:        m.Name,
		ID:          m.ID,
		SteamID:     m.SteamID,
		Enabled:     m.Enabled,
		Category:    m.Category,
		PackType:    m.PackType,
		Paths:       m.Paths,
		Creator:     m.Creator,
		CreatorName: m.CreatorName,
		FileSize:    m.FileSize,
		FileURL:     m.FileURL,
		PreviewURL:  m.PreviewURL,
		Description: m.Description,
		TimeCreated: m.TimeCreated,
		TimeUpdated: m.TimeUpdated,
		LastCheck:   m.LastCheck,
	}
}

func (m ModV2) Upgrade() ModV3 {
	return ModV3{
		Name:        m.Name,
		ID:          m.ID,
		SteamID:     m.SteamID,
		Enabled:     m.Enabled,
		Category:    m.Category,
		PackType:    m.PackType,
		Paths:       m.Paths,
		Creator:     m.Creator,
		CreatorName: m.CreatorName,
		FileSize:    m.FileSize,
		FileURL:     m.FileURL,
		PreviewURL:  m.PreviewURL,
		Description: m.Description,
		TimeCreated: m.TimeCreated,
		TimeUpdated: m.TimeUpdated,
		Outdated:    m.Outdated,
		LastCheck:   m.LastCheck,
	}
}

// Upgrade drops the category. Callers that need it must read it first.
func (m ModV3) Upgrade() ModV4 {
	return ModV4{
		Name:        m.Name,
		ID:          m.ID,
		SteamID:     m.SteamID,
		Enabled:     m.Enabled,
		PackType:    m.PackType,
		Paths:       m.Paths,
		Creator:     m.Creator,
		CreatorName: m.CreatorName,
		FileName:    m.FileName,
		FileSize:    m.FileSize,
		FileURL:     m.FileURL,
		PreviewURL:  m.PreviewURL,
		Description: m.Description,
		TimeCreated: m.TimeCreated,
		TimeUpdated: m.TimeUpdated,
		Outdated:    m.Outdated,
		LastCheck:   m.LastCheck,
	}
}

// Upgrade converts to the live mod type. Workshop urls, the outdated flag
// and the last check time are no longer tracked.
func (m ModV4) Upgrade() *mods.Mod {
	out := &mods.Mod{
		Name:        m.Name,
		ID:          m.ID,
		Enabled:     m.Enabled,
		PackType:    m.PackType,
		Paths:       clone(m.Paths),
		Creator:     m.Creator,
		CreatorName: m.CreatorName,
		FileName:    m.FileName,
		FileSize:    m.FileSize,
		Description: m.Description,
		TimeCreated: m.TimeCreated,
		TimeUpdated: m.TimeUpdated,
	}
	if m.SteamID != nil {
		out.SteamID = *m.SteamID
	}
	return out
}

// DecodeStrict unmarshals data into v after checking that every required
// top level key is present.
func DecodeStrict(data []byte, v any, required []string) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	for _, k := range required {
		if _, ok := keys[k]; !ok {
			return fmt.Errorf("%w: %q", ErrMissingKey, k)
		}
	}
	return json.Unmarshal(data, v)
}

// DecodeMods strictly decodes a mods map, checking required keys on every
// entry.
func DecodeMods[T any](data json.RawMessage, required []string) (map[string]T, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]T, len(raw))
	for id, entry := range raw {
		var m T
		if err := DecodeStrict(entry, &m, required); err != nil {
			return nil, fmt.Errorf("mod %s: %w", id, err)
		}
		out[id] = m
	}
	return out, nil
}

func clone(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
