package db

import (
	"gorm.io/gorm"
)

// LoadOrderSnapshot is one load order as it was written for a game.
type LoadOrderSnapshot struct {
	gorm.Model
	GameKey   string `gorm:"index"`
	Automatic bool
	Mods      string // JSON array of mod ids
	Movies    string // JSON array of mod ids
}

// PackHash caches the content hash of an archive. Entries are only trusted
// while the file keeps the same size and modification time.
type PackHash struct {
	gorm.Model
	Path    string `gorm:"uniqueIndex"`
	Size    int64
	ModTime int64
	Hash    string
}
