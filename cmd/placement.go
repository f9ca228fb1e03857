package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"totalwar-mod-launcher/logger"
)

var copyToSecondaryCmd = &cobra.Command{
	Use:   "copy-to-secondary [mod...]",
	Short: "Copy workshop mods into the secondary mods folder",
	Long: `Copies each mod's workshop pack, and its preview image, into the game's
folder inside the secondary mods folder. The workshop copy stays in place.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		s := bootstrap(configPath)
		placeMods(s, args, false)
	},
}

var moveToSecondaryCmd = &cobra.Command{
	Use:   "move-to-secondary [mod...]",
	Short: "Move mods from /data into the secondary mods folder",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		s := bootstrap(configPath)
		placeMods(s, args, true)
	},
}

func init() {
	rootCmd.AddCommand(copyToSecondaryCmd)
	rootCmd.AddCommand(moveToSecondaryCmd)
}

func placeMods(s *session, ids []string, move bool) {
	failed, err := placeInSecondary(s, ids, move)
	if err != nil {
		logger.Log.Fatalw("Failed to place mods in the secondary folder", zap.String("game", s.game.Key), zap.Error(err))
	}
	if len(failed) > 0 {
		logger.Log.Warnw("Some mods were not placed", zap.Strings("mods", failed))
	}
	fmt.Printf("Placed %d of %d mods\n", len(ids)-len(failed), len(ids))
}

// placeInSecondary copies or moves the packs, then rescans so the catalog
// and the load order pick up the new paths.
func placeInSecondary(s *session, ids []string, move bool) ([]string, error) {
	place := s.catalog.CopyToSecondary
	if move {
		place = s.catalog.MoveToSecondary
	}
	failed, err := place(s.game, s.cfg.GamePath, s.cfg.SecondaryModsPath, ids)
	if err != nil {
		return nil, err
	}
	if len(failed) == len(ids) {
		return failed, nil
	}
	if _, err := runScan(context.Background(), s, false, nil); err != nil {
		return failed, err
	}
	return failed, nil
}
