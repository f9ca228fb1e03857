package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"totalwar-mod-launcher/catalog"
	"totalwar-mod-launcher/config"
	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/logger"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade catalog files written by older versions",
	Long: `Catalogs are upgraded whenever they are loaded. migrate does it for every
supported game at once and reports what changed. Files no known schema can
read are reported and left untouched.`,
	Run: func(_ *cobra.Command, _ []string) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
		}
		for _, r := range migrateCatalogs(cfg.ConfigDir) {
			switch {
			case r.Err != nil:
				fmt.Printf("%-22s %v\n", r.Game, r.Err)
			case r.From == catalog.CurrentVersion:
				fmt.Printf("%-22s up to date\n", r.Game)
			default:
				fmt.Printf("%-22s v%d -> v%d\n", r.Game, r.From, catalog.CurrentVersion)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

type migrationReport struct {
	Game string
	From int
	Err  error
}

// migrateCatalogs loads, and so upgrades, every catalog present in dir.
func migrateCatalogs(dir string) []migrationReport {
	var out []migrationReport
	for _, g := range games.Supported() {
		data, err := os.ReadFile(filepath.Join(dir, catalog.FileName(g.Key)))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		r := migrationReport{Game: g.Key}
		if err != nil {
			r.Err = err
			out = append(out, r)
			continue
		}

		snap, err := catalog.Decode(data)
		if err != nil {
			logger.Log.Warnw("Catalog left untouched", zap.String("game", g.Key), zap.Error(err))
			r.Err = err
			out = append(out, r)
			continue
		}
		r.From = snap.Version()

		if _, err := catalog.Load(dir, g.Key); err != nil {
			r.Err = err
		}
		out = append(out, r)
	}
	return out
}
