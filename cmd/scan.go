package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/logger"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Rescan the game folders and refresh the catalog",
	Long: `Walks the data, secondary and workshop content folders of the configured
game, merges every pack found into the catalog, repairs categories and
refreshes the load order. Workshop details are requested in the background
and merged when they arrive.`,
	Run: func(cmd *cobra.Command, _ []string) {
		logger.Log.Info("Running scan command...")

		plain, _ := cmd.Flags().GetBool("plain")
		wait, _ := cmd.Flags().GetBool("wait")

		s := bootstrap(configPath)
		if plain {
			summary, err := runScan(cmd.Context(), s, wait, nil)
			if err != nil {
				logger.Log.Fatalw("Scan failed", zap.String("game", s.game.Key), zap.Error(err))
			}
			fmt.Println(summary)
			return
		}

		p := tea.NewProgram(initialScanModel(cmd.Context(), s, wait))
		if _, err := p.Run(); err != nil {
			logger.Log.Fatalw("Error running scan UI", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Bool("plain", false, "Print a summary instead of showing progress")
	scanCmd.Flags().Bool("wait", true, "Wait for workshop details before exiting")
}

// scanSummary is what a scan reports once finished.
type scanSummary struct {
	Discovered int
	New        int
	Enriched   int
	Enabled    int
}

func (s scanSummary) String() string {
	return fmt.Sprintf("Found %d packs, %d new mods, %d updated from the workshop, %d in the load order",
		s.Discovered, s.New, s.Enriched, s.Enabled)
}

// runScan rescans the session's game. Progress is reported on progress when
// it isn't nil.
func runScan(ctx context.Context, s *session, wait bool, progress chan<- ScanProgressMsg) (scanSummary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	send := func(msg ScanProgressMsg) {
		if progress != nil {
			progress <- msg
		}
	}

	send(ScanProgressMsg{Type: "status", Message: fmt.Sprintf("Scanning %s...", s.game.DisplayName)})

	// Report each parsed root
	opts := s.rescanOptions()
	opts.Progress = func(root games.Root, archives int) {
		send(ScanProgressMsg{Type: "root", Root: root.String(), Count: archives})
	}

	// Rebuild the catalog from disk
	res, err := s.catalog.Rescan(ctx, s.game, s.loadOrder, opts)
	if err != nil {
		send(ScanProgressMsg{Type: "error", Message: err.Error()})
		return scanSummary{}, err
	}
	s.recordHistory() // Snapshot the refreshed load order

	summary := scanSummary{Discovered: res.Discovered, New: res.New, Enabled: len(s.loadOrder.Mods)}

	// Optionally wait for workshop details
	if wait && res.Enrichment != nil {
		send(ScanProgressMsg{Type: "status", Message: fmt.Sprintf("Fetching workshop details for %d mods...", len(res.SteamIDs))})
		select {
		case resp, ok := <-res.Enrichment:
			switch {
			case !ok: // Channel closed without a response
			case resp.Err != nil:
				logger.Log.Warnw("Workshop request failed", zap.Int("ids", len(resp.IDs)), zap.Error(resp.Err))
				send(ScanProgressMsg{Type: "error", Message: resp.Err.Error()})
			default:
				summary.Enriched = s.catalog.MergeEnrichment(resp.Items)
				if err := s.catalog.Save(s.cfg.ConfigDir); err != nil {
					return summary, err
				}
			}
		case <-ctx.Done():
			return summary, ctx.Err()
		}
	}

	logger.Log.Infow("Scan finished",
		zap.String("game", s.game.Key),
		zap.Int("discovered", summary.Discovered),
		zap.Int("new", summary.New),
		zap.Int("enriched", summary.Enriched),
	)
	send(ScanProgressMsg{Type: "summary", Message: summary.String()})
	return summary, nil
}
