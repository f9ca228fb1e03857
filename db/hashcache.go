package db

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"totalwar-mod-launcher/logger"
	"totalwar-mod-launcher/mods"
)

// HashCache remembers archive hashes between runs. Packs weigh hundreds of
// megabytes, so a file is only rehashed when its size or mtime changes.
type HashCache struct {
	Hasher mods.Hasher
}

func NewHashCache() *HashCache {
	return &HashCache{Hasher: mods.SHA256Hasher{}}
}

func (c *HashCache) Hash(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	size, mtime := info.Size(), info.ModTime().UnixNano()

	var entry PackHash
	err = DB.Where("path = ?", path).First(&entry).Error
	switch {
	case err == nil:
		if entry.Size == size && entry.ModTime == mtime {
			return entry.Hash, nil
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return "", fmt.Errorf("failed to query hash cache: %w", err)
	}

	hash, err := c.Hasher.Hash(path)
	if err != nil {
		return "", err
	}

	entry.Path = path
	entry.Size = size
	entry.ModTime = mtime
	entry.Hash = hash
	if err := DB.Save(&entry).Error; err != nil {
		logger.Log.Warnw("Failed to cache pack hash", zap.String("path", path), zap.Error(err))
	}
	return hash, nil
}
