package mods

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

var ErrNotInstalled = errors.New("mod has no installed path")

// ShareableMod is what gets exported when comparing mod lists between users.
// It's derived on demand and never stored in the catalog.
type ShareableMod struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	SteamID string `json:"steam_id,omitempty"`
	Hash    string `json:"hash"`
}

// Hasher returns the hex content hash of a file.
type Hasher interface {
	Hash(path string) (string, error)
}

// SHA256Hasher hashes the whole file every time.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(path string) (string, error) {
	return HashFile(path)
}

// HashFile returns the hex SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// NewShareable hashes the mod's primary path.
func NewShareable(m *Mod, h Hasher) (ShareableMod, error) {
	if !m.Installed() {
		return ShareableMod{}, fmt.Errorf("%w: %s", ErrNotInstalled, m.ID)
	}
	hash, err := h.Hash(m.Paths[0])
	if err != nil {
		return ShareableMod{}, fmt.Errorf("failed to hash %s: %w", m.Paths[0], err)
	}
	return ShareableMod{
		Name:    m.Name,
		ID:      m.ID,
		SteamID: m.SteamID,
		Hash:    hash,
	}, nil
}
