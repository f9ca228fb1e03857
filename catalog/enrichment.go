package catalog

import (
	"go.uber.org/zap"

	"totalwar-mod-launcher/logger"
	"totalwar-mod-launcher/workshop"
)

// MergeEnrichment copies workshop metadata onto the mods sharing its steam
// id and returns how many mods changed. Paths, flags and categories are
// never touched, so it's safe to apply long after the rescan that asked.
func (c *GameConfig) MergeEnrichment(items []workshop.Item) int {
	bySteamID := make(map[string]workshop.Item, len(items))
	for _, it := range items {
		bySteamID[it.SteamID()] = it
	}

	updated := 0
	for _, id := range sortedKeys(c.Mods) {
		m := c.Mods[id]
		if m.SteamID == "" {
			continue
		}
		it, ok := bySteamID[m.SteamID]
		if !ok {
			continue
		}

		if it.Title != "" {
			m.Name = it.Title
		}
		m.Creator = it.OwnerID()
		m.FileName = it.FileName
		m.FileSize = uint64(it.FileSize)
		m.Description = it.Description
		m.TimeCreated = uint64(it.TimeCreated)
		m.TimeUpdated = uint64(it.TimeUpdated)
		updated++
	}

	logger.Log.Debugw("Merged workshop data", zap.String("game", c.GameKey), zap.Int("items", len(items)), zap.Int("updated", updated))
	return updated
}
