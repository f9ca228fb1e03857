package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"totalwar-mod-launcher/loadorder"
	"totalwar-mod-launcher/logger"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Save and restore named load orders",
}

// profileSaveCmd represents the profile save command
var profileSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Save the current load order under a name",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		s := bootstrap(configPath)
		if err := loadorder.SaveProfile(s.cfg.ProfilesDir, s.game.Key, args[0], s.loadOrder); err != nil {
			logger.Log.Fatalw("Failed to save profile", zap.String("profile", args[0]), zap.Error(err))
		}
		fmt.Printf("Saved profile %s with %d packs\n", args[0], len(s.loadOrder.Mods))
	},
}

// profileLoadCmd represents the profile load command
var profileLoadCmd = &cobra.Command{
	Use:   "load [name]",
	Short: "Enable the mods of a profile and restore its order",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		s := bootstrap(configPath)
		missing, err := applyProfile(s, args[0])
		if err != nil {
			logger.Log.Fatalw("Failed to load profile", zap.String("profile", args[0]), zap.Error(err))
		}
		// Missing mods are skipped, not fatal
		if len(missing) > 0 {
			logger.Log.Warnw("Profile mods not installed", zap.String("profile", args[0]), zap.Strings("mods", missing))
		}
		fmt.Print(renderLoadOrder(s.loadOrder))
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Run: func(_ *cobra.Command, _ []string) {
		s := bootstrap(configPath)
		ids, err := loadorder.ListProfiles(s.cfg.ProfilesDir, s.game.Key)
		if err != nil {
			logger.Log.Fatalw("Failed to list profiles", zap.Error(err))
		}
		for _, id := range ids {
			fmt.Println(id)
		}
	},
}

func init() {
	profileCmd.AddCommand(profileSaveCmd, profileLoadCmd, profileListCmd)
	rootCmd.AddCommand(profileCmd)
}

// applyProfile makes the profile's mods the enabled set, restores its order
// and saves. It returns the profile mods that aren't installed.
func applyProfile(s *session, id string) ([]string, error) {
	p, err := loadorder.LoadProfile(s.cfg.ProfilesDir, s.game.Key, id)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, modID := range p.LoadOrder.Mods {
		if m, ok := s.catalog.Mods[modID]; !ok || !m.Installed() {
			missing = append(missing, modID)
		}
	}

	enableOnly(s, p.LoadOrder.Mods)
	s.loadOrder = p.LoadOrder
	s.refreshOrder()
	return missing, s.save()
}
