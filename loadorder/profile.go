package loadorder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"totalwar-mod-launcher/jsonfile"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile is a named, saved load order.
type Profile struct {
	ID        string     `json:"id"`
	Game      string     `json:"game"`
	LoadOrder *LoadOrder `json:"load_order"`
}

// profilePath puts each game's profiles in their own folder.
func profilePath(dir, gameKey, id string) string {
	return filepath.Join(gameProfilesDir(dir, gameKey), id+fileNameEnd)
}

func gameProfilesDir(dir, gameKey string) string {
	return filepath.Join(dir, gameKey)
}

// SaveProfile stores a copy of lo under id.
func SaveProfile(dir, gameKey, id string, lo *LoadOrder) error {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("invalid profile name %q", id)
	}
	p := Profile{ID: id, Game: gameKey, LoadOrder: lo.Clone()}
	p.LoadOrder.normalize()
	if err := jsonfile.Write(profilePath(dir, gameKey, id), p); err != nil {
		return fmt.Errorf("failed to save profile %s: %w", id, err)
	}
	return nil
}

func LoadProfile(dir, gameKey, id string) (*Profile, error) {
	var p Profile
	err := jsonfile.Read(profilePath(dir, gameKey, id), &p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if p.LoadOrder == nil {
		p.LoadOrder = New()
	}
	p.LoadOrder.normalize()
	return &p, nil
}

// ListProfiles returns the profile ids saved for a game, sorted.
func ListProfiles(dir, gameKey string) ([]string, error) {
	entries, err := os.ReadDir(gameProfilesDir(dir, gameKey))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileNameEnd) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, fileNameEnd))
	}
	sort.Strings(ids)
	return ids, nil
}
