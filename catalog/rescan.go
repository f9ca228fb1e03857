package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/loadorder"
	"totalwar-mod-launcher/logger"
	"totalwar-mod-launcher/mods"
	"totalwar-mod-launcher/pack"
	"totalwar-mod-launcher/workshop"
)

// Options are the collaborators and paths a rescan works with.
type Options struct {
	GamePath      string
	SecondaryBase string

	// Reader classifies archives. Defaults to pack.FileReader.
	Reader pack.Reader

	// Fetcher enriches content mods. Nil disables enrichment.
	Fetcher     workshop.Fetcher
	SkipNetwork bool

	// ConfigDir receives the catalog and load order. Empty skips persisting.
	ConfigDir string

	// Progress, when set, is called after each root is parsed.
	Progress func(root games.Root, archives int)
}

// Result summarizes a rescan.
type Result struct {
	Discovered int
	New        int
	DataPath   string

	// SteamIDs are the workshop ids found in the content folder, sorted.
	SteamIDs []string

	// Enrichment delivers one workshop response, or is nil when no request
	// was sent. Feed the items to MergeEnrichment.
	Enrichment <-chan workshop.Response
}

type discovery struct {
	path string
	typ  pack.Type
}

type scanRoot struct {
	root  games.Root
	paths []string
}

// ResolveRoots returns the canonical roots of an installation. Only the data
// folder is required; missing content or secondary folders are left empty.
func ResolveRoots(game games.Info, gamePath, secondaryBase string) (games.Roots, error) {
	dataPath, err := game.DataPath(gamePath)
	if err != nil {
		return games.Roots{}, err
	}
	roots := games.Roots{Data: dataPath}

	if content, err := game.ContentPath(gamePath); err == nil {
		roots.Content = content
	} else {
		logger.Log.Debugw("No workshop content folder", zap.String("game", game.Key), zap.Error(err))
	}

	if game.SupportsSecondary() && secondaryBase != "" {
		if secondary, err := game.SecondaryPath(secondaryBase); err == nil {
			roots.Secondary = secondary
		} else {
			logger.Log.Warnw("Secondary mods folder unavailable", zap.String("game", game.Key), zap.Error(err))
		}
	}
	return roots, nil
}

// Rescan rebuilds every mod's paths from the install folders, merges what it
// finds into the catalog, repairs the categories and refreshes lo. When the
// game can't be found every mod is left uninstalled, the error wraps
// ErrGameNotFound and nothing is written. A cancelled ctx leaves the catalog
// and lo untouched.
func (c *GameConfig) Rescan(ctx context.Context, game games.Info, lo *loadorder.LoadOrder, opts Options) (*Result, error) {
	reader := opts.Reader
	if reader == nil {
		reader = pack.FileReader{}
	}
	log := logger.Log.With(zap.String("game", game.Key))

	c.fillNils()

	roots, err := ResolveRoots(game, opts.GamePath, opts.SecondaryBase)
	if err != nil {
		c.clearPaths()
		return nil, fmt.Errorf("%w: %w", ErrGameNotFound, err)
	}
	vanilla, err := game.VanillaPacks(opts.GamePath)
	if err != nil {
		c.clearPaths()
		return nil, fmt.Errorf("%w: %w", ErrGameNotFound, err)
	}

	// Parse every root before touching the catalog so a cancelled scan
	// leaves it as it was.
	scanned := listRoots(game, opts.GamePath, roots, log)
	found := make([][]discovery, len(scanned))
	for i, sr := range scanned {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("rescan cancelled: %w", err)
		}
		found[i] = parseRoot(ctx, sr, reader, log)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("rescan cancelled: %w", err)
		}
		if opts.Progress != nil {
			opts.Progress(sr.root, len(found[i]))
		}
	}

	result := &Result{DataPath: roots.Data}
	steamIDs := make(map[string]struct{})

	c.clearPaths()
	for i, sr := range scanned {
		for _, d := range found[i] {
			if isExcluded(d.path, vanilla) {
				continue
			}
			result.Discovered++
			m, created := c.merge(d, sr.root, roots)
			if created {
				result.New++
			}
			if sr.root == games.RootContent {
				if id, ok := roots.SteamIDHint(d.path); ok {
					m.SteamID = id
					steamIDs[id] = struct{}{}
				}
			}
		}
	}

	for id := range steamIDs {
		result.SteamIDs = append(result.SteamIDs, id)
	}
	sort.Strings(result.SteamIDs)

	if !opts.SkipNetwork && opts.Fetcher != nil && len(result.SteamIDs) > 0 {
		result.Enrichment = workshop.RequestAsync(ctx, opts.Fetcher, game.SteamAppID, result.SteamIDs)
	}

	c.Normalize()
	if lo != nil {
		lo.Update(c.Mods, roots.Data)
	}

	log.Infow("Rescan finished",
		zap.Int("discovered", result.Discovered),
		zap.Int("new", result.New),
		zap.Int("workshop_items", len(result.SteamIDs)),
	)

	if opts.ConfigDir == "" {
		return result, nil
	}
	if lo != nil {
		if err := lo.Save(opts.ConfigDir, game.Key); err != nil {
			return result, err
		}
	}
	if err := c.Save(opts.ConfigDir); err != nil {
		return result, err
	}
	return result, nil
}

// listRoots returns the archive candidates of each root, lowest priority
// first. A root that can't be listed contributes nothing.
func listRoots(game games.Info, gamePath string, roots games.Roots, log *zap.SugaredLogger) []scanRoot {
	var out []scanRoot

	if roots.Content != "" {
		paths, err := game.ContentPacks(gamePath)
		if err != nil {
			log.Warnw("Failed to list workshop content", zap.Error(err))
		}
		out = append(out, scanRoot{games.RootContent, paths})
	}
	if roots.Secondary != "" {
		paths, err := games.SecondaryPacks(roots.Secondary)
		if err != nil {
			log.Warnw("Failed to list secondary mods", zap.Error(err))
		}
		out = append(out, scanRoot{games.RootSecondary, paths})
	}

	paths, err := game.DataPacks(gamePath)
	if err != nil {
		log.Warnw("Failed to list data packs", zap.Error(err))
	}
	out = append(out, scanRoot{games.RootData, paths})
	return out
}

func (c *GameConfig) clearPaths() {
	for _, m := range c.Mods {
		m.Paths = []string{}
	}
}

// parseRoot classifies every archive of one root in parallel. Results keep
// the listing order so the merge is deterministic.
func parseRoot(ctx context.Context, sr scanRoot, reader pack.Reader, log *zap.SugaredLogger) []discovery {
	results := make([]*discovery, len(sr.paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range sr.paths {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			results[i] = classify(path, sr.root, reader, log)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]discovery, 0, len(results))
	for _, d := range results {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out
}

func classify(path string, root games.Root, reader pack.Reader, log *zap.SugaredLogger) *discovery {
	path = games.Canonical(path)
	if strings.EqualFold(filepath.Ext(path), ".bin") {
		if root == games.RootContent && pack.IsLegacyMap(path) {
			return &discovery{path: path, typ: pack.Movie}
		}
		if h, err := reader.ReadHeader(path); err == nil && h.Type.IsLoadable() {
			return &discovery{path: path, typ: h.Type}
		}
		return nil
	}

	h, err := reader.ReadHeader(path)
	if err != nil {
		log.Debugw("Skipping unreadable archive", zap.String("path", path), zap.Error(err))
		return nil
	}
	if !h.Type.IsLoadable() {
		return nil
	}
	return &discovery{path: path, typ: h.Type}
}

func isExcluded(path string, vanilla map[string]struct{}) bool {
	if _, ok := vanilla[path]; ok {
		return true
	}
	name := filepath.Base(path)
	return name == games.ReservedPackName || name == games.ReservedPackNameAlternative
}

// merge records one discovery and reports whether it created a new mod.
func (c *GameConfig) merge(d discovery, root games.Root, roots games.Roots) (*mods.Mod, bool) {
	id := filepath.Base(d.path)

	m, ok := c.Mods[id]
	if !ok && root != games.RootContent {
		m, ok = c.findLegacy(id)
	}
	created := !ok
	if created {
		m = &mods.Mod{Name: id, ID: id, Paths: []string{}}
		c.Mods[id] = m
	}

	if !m.InsertPath(d.path, roots) {
		return m, created
	}
	m.PackType = d.typ

	info, err := os.Stat(d.path)
	if err != nil {
		logger.Log.Warnw("Failed to read archive metadata", zap.String("path", d.path), zap.Error(err))
		return m, created
	}
	mtime := uint64(info.ModTime().Unix())
	m.TimeUpdated = mtime
	if m.TimeCreated == 0 {
		m.TimeCreated = mtime
	}
	return m, created
}

// findLegacy finds the mod a converted legacy map belongs to. Mods nobody
// claimed in this rescan are preferred.
func (c *GameConfig) findLegacy(packName string) (*mods.Mod, bool) {
	ids := sortedKeys(c.Mods)
	for _, id := range ids {
		if m := c.Mods[id]; !m.Installed() && m.MatchesLegacyName(packName) {
			return m, true
		}
	}
	for _, id := range ids {
		if m := c.Mods[id]; m.MatchesLegacyName(packName) {
			return m, true
		}
	}
	return nil, false
}
