package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/logger"
)

// CopyToSecondary copies the workshop copy of each mod into the secondary
// folder. MoveToSecondary does the same for mods sitting in /data, removing
// the original. Both return the ids that couldn't be placed; the error is
// only set when the secondary folder itself is unusable. The catalog isn't
// touched, rescan afterwards to pick up the new paths.
func (c *GameConfig) CopyToSecondary(game games.Info, gamePath, secondaryBase string, ids []string) ([]string, error) {
	return c.placeInSecondary(game, gamePath, secondaryBase, ids, false)
}

func (c *GameConfig) MoveToSecondary(game games.Info, gamePath, secondaryBase string, ids []string) ([]string, error) {
	return c.placeInSecondary(game, gamePath, secondaryBase, ids, true)
}

func (c *GameConfig) placeInSecondary(game games.Info, gamePath, secondaryBase string, ids []string, move bool) ([]string, error) {
	secondary, err := game.SecondaryPath(secondaryBase)
	if err != nil {
		return nil, err
	}
	roots, err := ResolveRoots(game, gamePath, secondaryBase)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGameNotFound, err)
	}
	roots.Secondary = secondary

	var failed []string
	for _, id := range ids {
		src, err := c.placementSource(id, roots, move)
		if err == nil {
			err = placeFile(src, filepath.Join(secondary, filepath.Base(src)), move)
		}
		if err != nil {
			logger.Log.Warnw("Failed to place mod in secondary folder",
				zap.String("game", game.Key),
				zap.String("mod", id),
				zap.Bool("move", move),
				zap.Error(err),
			)
			failed = append(failed, id)
			continue
		}
		copyPreview(src, secondary)
	}
	return failed, nil
}

// placementSource returns the path to copy or move. Mods with more than two
// paths, or whose single path isn't where the operation expects it, can't
// be placed.
func (c *GameConfig) placementSource(id string, roots games.Roots, move bool) (string, error) {
	m, err := c.Mod(id)
	if err != nil {
		return "", err
	}
	if len(m.Paths) == 0 || len(m.Paths) > 2 {
		return "", fmt.Errorf("%w: %s has %d paths", ErrUnsupportedPlacement, id, len(m.Paths))
	}

	loc := m.Location(roots)
	if loc.InSecondary {
		return "", fmt.Errorf("%w: %s is already in the secondary folder", ErrUnsupportedPlacement, id)
	}

	want := games.RootContent
	if move {
		want = games.RootData
	}
	if len(m.Paths) == 1 && roots.Classify(m.Paths[0]) != want {
		return "", fmt.Errorf("%w: %s is not in the %s folder", ErrUnsupportedPlacement, id, want)
	}
	return m.Paths[0], nil
}

func placeFile(src, dst string, move bool) error {
	if move {
		if err := os.Rename(src, dst); err == nil {
			return nil
		}
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	if move {
		if err := os.Remove(src); err != nil {
			return fmt.Errorf("copied but failed to remove %s: %w", src, err)
		}
	}
	return nil
}

// copyPreview copies the image shown next to a mod, if there is one.
func copyPreview(src, dir string) {
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	preview := filepath.Join(filepath.Dir(src), stem+".png")
	if _, err := os.Stat(preview); err != nil {
		return
	}
	if err := copyFile(preview, filepath.Join(dir, stem+".png")); err != nil {
		logger.Log.Warnw("Failed to copy mod preview", zap.String("path", preview), zap.Error(err))
	}
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return nil
}
