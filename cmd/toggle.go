package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"totalwar-mod-launcher/logger"
)

// enableCmd represents the enable command
var enableCmd = &cobra.Command{
	Use:   "enable [mod...]",
	Short: "Enable mods and add them to the load order",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		s := bootstrap(configPath)
		setEnabled(s, args, true)
	},
}

// disableCmd represents the disable command
var disableCmd = &cobra.Command{
	Use:   "disable [mod...]",
	Short: "Disable mods and remove them from the load order",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		s := bootstrap(configPath)
		setEnabled(s, args, false)
	},
}

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}

func setEnabled(s *session, ids []string, enabled bool) {
	changed := toggleMods(s, ids, enabled)
	if changed == 0 {
		return // Nothing to save
	}
	s.mustSave()
	fmt.Printf("Updated %d mods, %d in the load order\n", changed, len(s.loadOrder.Mods))
}

// toggleMods sets the flag on every id it can and refreshes the order.
// Mods that can't be toggled are reported and skipped.
func toggleMods(s *session, ids []string, enabled bool) int {
	dataPath := s.dataPath()
	changed := 0
	for _, id := range ids {
		if err := s.catalog.SetEnabled(id, enabled, dataPath); err != nil {
			logger.Log.Warnw("Skipping mod", zap.String("mod", id), zap.Error(err))
			continue
		}
		changed++
	}
	if changed > 0 {
		s.refreshOrder()
	}
	return changed
}
