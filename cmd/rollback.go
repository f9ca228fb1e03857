package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"totalwar-mod-launcher/db"
	"totalwar-mod-launcher/logger"
)

// rollbackCmd represents the rollback command
var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore the previous load order",
	Long: `Every saved load order is recorded in the history database. rollback
drops the newest record and restores the one before it, including its
automatic or manual mode.`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		s := bootstrap(configPath)
		if err := rollbackLoadOrder(s); err != nil {
			if errors.Is(err, db.ErrNoHistory) {
				logger.Log.Warnw("Nothing to roll back", zap.String("game", s.game.Key))
				return
			}
			logger.Log.Fatalw("Rollback failed", zap.String("game", s.game.Key), zap.Error(err))
		}
		fmt.Print(renderLoadOrder(s.loadOrder))
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded load orders, newest first",
	Run: func(cmd *cobra.Command, _ []string) {
		s := bootstrap(configPath)
		limit, _ := cmd.Flags().GetInt("limit")

		snaps, err := db.History(s.game.Key, limit)
		if err != nil {
			logger.Log.Fatalw("Failed to read history", zap.Error(err))
		}
		for _, snap := range snaps {
			lo, err := snap.LoadOrder()
			if err != nil {
				logger.Log.Warnw("Skipping corrupt history record", zap.Uint("id", snap.ID), zap.Error(err))
				continue
			}
			mode := "manual"
			if lo.Automatic {
				mode = "automatic"
			}
			fmt.Printf("%s  %-9s %d packs\n", snap.CreatedAt.Format("2006-01-02 15:04:05"), mode, len(lo.Mods))
		}
	},
}

func init() {
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int("limit", 10, "Number of records to show, 0 for all")
}

// rollbackLoadOrder swaps in the previous recorded order and saves it. Mods
// that are no longer enabled or installed are dropped by the refresh.
func rollbackLoadOrder(s *session) error {
	previous, err := db.RollbackLoadOrder(s.game.Key)
	if err != nil {
		return err
	}

	log := logger.Log.With(zap.String("game", s.game.Key))
	log.Infow("Restoring previous load order", zap.Int("packs", len(previous.Mods)), zap.Bool("automatic", previous.Automatic))

	enableOnly(s, previous.Mods)
	s.loadOrder = previous
	s.refreshOrder()
	return s.save()
}

// enableOnly turns on every toggleable mod in ids and turns the others off.
func enableOnly(s *session, ids []string) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	dataPath := s.dataPath()
	for id, m := range s.catalog.Mods {
		if !m.CanBeToggled(dataPath) {
			continue
		}
		_, ok := want[id]
		m.Enabled = ok
	}
}
