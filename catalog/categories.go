package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"

	"totalwar-mod-launcher/logger"
)

// DefaultCategory holds every installed mod the user didn't categorize. It
// can't be deleted and is always last.
const DefaultCategory = "Unassigned"

// CreateCategory adds an empty category right before the default one.
func (c *GameConfig) CreateCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("category name can't be empty")
	}
	c.ensureDefaultCategory()
	if _, ok := c.Categories[name]; ok {
		return fmt.Errorf("%w: %s", ErrCategoryExists, name)
	}

	c.Categories[name] = []string{}
	pos := len(c.CategoriesOrder) - 1
	if pos < 0 {
		pos = 0
	}
	c.CategoriesOrder = slices.Insert(c.CategoriesOrder, pos, name)
	return nil
}

// DeleteCategory removes a category and its order entry. Its mods land in
// the default category on the next Normalize. Deleting the default category
// does nothing.
func (c *GameConfig) DeleteCategory(name string) {
	c.ensureDefaultCategory()
	if name == DefaultCategory {
		return
	}
	delete(c.Categories, name)
	c.CategoriesOrder = slices.DeleteFunc(c.CategoriesOrder, func(s string) bool { return s == name })
}

// CategoryForMod returns the category holding id. Mods found in none are
// reported and treated as uncategorized.
func (c *GameConfig) CategoryForMod(id string) string {
	for _, cat := range c.CategoriesOrder {
		if slices.Contains(c.Categories[cat], id) {
			return cat
		}
	}
	for _, cat := range sortedKeys(c.Categories) {
		if slices.Contains(c.Categories[cat], id) {
			return cat
		}
	}

	logger.Log.Warnw("Mod has no category", zap.String("game", c.GameKey), zap.String("mod", id))
	return DefaultCategory
}

// AssignCategory moves a mod to the end of category.
func (c *GameConfig) AssignCategory(id, category string) error {
	if _, ok := c.Categories[category]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	if _, ok := c.Mods[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMod, id)
	}

	for cat, ids := range c.Categories {
		c.Categories[cat] = slices.DeleteFunc(ids, func(s string) bool { return s == id })
	}
	c.Categories[category] = append(c.Categories[category], id)
	return nil
}

// Normalize repairs the category partition: every installed mod in exactly
// one category, no ghost or unknown ids, every category in the order, and
// the default category present and last.
func (c *GameConfig) Normalize() {
	c.fillNils()
	c.ensureDefaultCategory()

	seen := make(map[string]struct{}, len(c.Mods))
	for _, cat := range c.orderedCategoryKeys() {
		ids := c.Categories[cat]
		kept := ids[:0]
		for _, id := range ids {
			m, ok := c.Mods[id]
			if !ok || !m.Installed() {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			kept = append(kept, id)
		}
		c.Categories[cat] = kept
	}

	var missing []string
	for id, m := range c.Mods {
		if !m.Installed() {
			continue
		}
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		logger.Log.Warnw("Adding uncategorized mods to the default category", zap.String("game", c.GameKey), zap.Strings("mods", missing))
		c.Categories[DefaultCategory] = append(c.Categories[DefaultCategory], missing...)
	}

	order := make([]string, 0, len(c.Categories))
	inOrder := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.CategoriesOrder {
		if _, ok := c.Categories[cat]; !ok || cat == DefaultCategory {
			continue
		}
		if _, dup := inOrder[cat]; dup {
			continue
		}
		inOrder[cat] = struct{}{}
		order = append(order, cat)
	}
	for _, cat := range sortedKeys(c.Categories) {
		if _, ok := inOrder[cat]; ok || cat == DefaultCategory {
			continue
		}
		order = append(order, cat)
	}
	c.CategoriesOrder = append(order, DefaultCategory)
}

func (c *GameConfig) ensureDefaultCategory() {
	if c.Categories == nil {
		c.Categories = make(map[string][]string)
	}
	if _, ok := c.Categories[DefaultCategory]; !ok {
		c.Categories[DefaultCategory] = []string{}
	}
	if !slices.Contains(c.CategoriesOrder, DefaultCategory) {
		c.CategoriesOrder = append(c.CategoriesOrder, DefaultCategory)
	}
}

// orderedCategoryKeys lists ordered categories first, then the rest sorted,
// so dedupe keeps a mod in the category the user sees first.
func (c *GameConfig) orderedCategoryKeys() []string {
	out := make([]string, 0, len(c.Categories))
	seen := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.CategoriesOrder {
		if _, ok := c.Categories[cat]; !ok {
			continue
		}
		if _, dup := seen[cat]; dup {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	for _, cat := range sortedKeys(c.Categories) {
		if _, ok := seen[cat]; !ok {
			out = append(out, cat)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
