package cmd

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"totalwar-mod-launcher/db"
	"totalwar-mod-launcher/jsonfile"
	"totalwar-mod-launcher/logger"
	"totalwar-mod-launcher/mods"
)

// shareCmd represents the share command
var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Export the load order with content hashes",
	Long: `Writes the mods of the current load order as JSON, each with the SHA-256
of its pack, so another player can check they run the exact same files.
Hashes are cached in the history database and only recomputed when a pack
changes.`,
	Run: func(cmd *cobra.Command, _ []string) {
		s := bootstrap(configPath)
		output, _ := cmd.Flags().GetString("output")

		shared := shareableMods(s, db.NewHashCache())

		if output != "" {
			if err := jsonfile.Write(output, shared); err != nil {
				logger.Log.Fatalw("Failed to write export", zap.String("file", output), zap.Error(err))
			}
			fmt.Printf("Exported %d mods to %s\n", len(shared), output)
			return
		}

		data, err := json.MarshalIndent(shared, "", "  ")
		if err != nil {
			logger.Log.Fatalw("Failed to encode export", zap.Error(err))
		}
		_, _ = os.Stdout.Write(append(data, '\n'))
	},
}

func init() {
	rootCmd.AddCommand(shareCmd)

	shareCmd.Flags().StringP("output", "o", "", "Write the export to this file instead of stdout")
}

// shareableMods hashes every mod of the load order, in order. Mods that
// can't be hashed are skipped with a warning.
func shareableMods(s *session, h mods.Hasher) []mods.ShareableMod {
	out := make([]mods.ShareableMod, 0, len(s.loadOrder.Mods))
	for _, id := range s.loadOrder.Mods {
		m, err := s.catalog.Mod(id)
		if err != nil {
			logger.Log.Warnw("Load order references an unknown mod", zap.String("mod", id))
			continue
		}
		sm, err := mods.NewShareable(m, h)
		if err != nil {
			logger.Log.Warnw("Skipping mod", zap.String("mod", id), zap.Error(err))
			continue
		}
		out = append(out, sm)
	}
	return out
}
