package db

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"gorm.io/gorm"

	"totalwar-mod-launcher/loadorder"
)

var ErrNoHistory = errors.New("no previous load order recorded")

// RecordLoadOrder stores lo as the newest snapshot of a game. Saving the
// same order twice in a row records it once.
func RecordLoadOrder(gameKey string, lo *loadorder.LoadOrder) error {
	snap, err := newSnapshot(gameKey, lo)
	if err != nil {
		return err
	}

	var latest LoadOrderSnapshot
	err = DB.Where("game_key = ?", gameKey).Order("id DESC").First(&latest).Error
	switch {
	case err == nil:
		if latest.Automatic == snap.Automatic && latest.Mods == snap.Mods && latest.Movies == snap.Movies {
			return nil
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("failed to query load order history: %w", err)
	}

	if err := DB.Create(&snap).Error; err != nil {
		return fmt.Errorf("failed to save load order history: %w", err)
	}
	return nil
}

// History returns up to limit snapshots of a game, newest first.
func History(gameKey string, limit int) ([]LoadOrderSnapshot, error) {
	var out []LoadOrderSnapshot
	q := DB.Where("game_key = ?", gameKey).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to query load order history: %w", err)
	}
	return out, nil
}

// RollbackLoadOrder drops the newest snapshot of a game and returns the one
// before it.
func RollbackLoadOrder(gameKey string) (*loadorder.LoadOrder, error) {
	snaps, err := History(gameKey, 2)
	if err != nil {
		return nil, err
	}
	if len(snaps) < 2 {
		return nil, ErrNoHistory
	}

	previous, err := snaps[1].LoadOrder()
	if err != nil {
		return nil, err
	}
	if err := DB.Delete(&snaps[0]).Error; err != nil {
		return nil, fmt.Errorf("failed to delete history record: %w", err)
	}
	return previous, nil
}

// LoadOrder decodes the snapshot.
func (s LoadOrderSnapshot) LoadOrder() (*loadorder.LoadOrder, error) {
	lo := loadorder.New()
	lo.Automatic = s.Automatic
	if err := json.Unmarshal([]byte(s.Mods), &lo.Mods); err != nil {
		return nil, fmt.Errorf("corrupt load order snapshot %d: %w", s.ID, err)
	}
	if err := json.Unmarshal([]byte(s.Movies), &lo.Movies); err != nil {
		return nil, fmt.Errorf("corrupt load order snapshot %d: %w", s.ID, err)
	}
	if lo.Mods == nil {
		lo.Mods = []string{}
	}
	if lo.Movies == nil {
		lo.Movies = []string{}
	}
	return lo, nil
}

func newSnapshot(gameKey string, lo *loadorder.LoadOrder) (LoadOrderSnapshot, error) {
	ids := lo.Mods
	if ids == nil {
		ids = []string{}
	}
	movies := lo.Movies
	if movies == nil {
		movies = []string{}
	}

	modsJSON, err := json.Marshal(ids)
	if err != nil {
		return LoadOrderSnapshot{}, err
	}
	moviesJSON, err := json.Marshal(movies)
	if err != nil {
		return LoadOrderSnapshot{}, err
	}
	return LoadOrderSnapshot{
		GameKey:   gameKey,
		Automatic: lo.Automatic,
		Mods:      string(modsJSON),
		Movies:    string(moviesJSON),
	}, nil
}
