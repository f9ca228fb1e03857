package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"totalwar-mod-launcher/catalog"
	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/mods"
	"totalwar-mod-launcher/ui"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog grouped by category",
	Long: `Prints every installed mod of the configured game, category by category,
with its state, pack type and the folders holding it. Mods that are no
longer installed are listed last.`,
	Run: func(cmd *cobra.Command, _ []string) {
		s := bootstrap(configPath)
		showMissing, _ := cmd.Flags().GetBool("missing")
		fmt.Print(renderModList(s.catalog, s.roots(), s.dataPath(), showMissing))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("missing", false, "Also list mods that are no longer installed")
}

// renderModList renders the catalog category by category.
func renderModList(cfg *catalog.GameConfig, roots games.Roots, dataPath string, showMissing bool) string {
	var b strings.Builder
	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ui.ColorAccent))

	for _, cat := range cfg.CategoriesOrder {
		ids := cfg.Categories[cat]
		b.WriteString(heading.Render(fmt.Sprintf("%s (%d)", cat, len(ids))))
		b.WriteString("\n")
		for _, id := range ids {
			m, ok := cfg.Mods[id]
			if !ok {
				continue
			}
			b.WriteString(renderListRow(m, roots, dataPath))
			b.WriteString("\n")
		}
	}

	// Uninstalled mods go last
	if showMissing {
		var missing []string
		for id, m := range cfg.Mods {
			if !m.Installed() {
				missing = append(missing, id)
			}
		}
		sort.Strings(missing)
		if len(missing) > 0 {
			b.WriteString(heading.Render(fmt.Sprintf("Not installed (%d)", len(missing))))
			b.WriteString("\n")
			for _, id := range missing {
				b.WriteString(renderListRow(cfg.Mods[id], roots, dataPath))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func renderListRow(m *mods.Mod, roots games.Roots, dataPath string) string {
	label, color := ui.ModStatus(m.Installed(), m.IsEnabled(dataPath), m.CanBeToggled(dataPath))
	return fmt.Sprintf("  %s %-40s %s %s",
		ui.Colorize(fmt.Sprintf("%-10s", label), color),
		truncate(m.Name, 40),
		ui.Colorize(fmt.Sprintf("%-6s", m.PackType), ui.PackTypeColor(m.PackType)),
		locationLabel(m.Location(roots)),
	)
}

func locationLabel(loc mods.Location) string {
	var parts []string
	if loc.InData {
		parts = append(parts, "data")
	}
	if loc.InSecondary {
		parts = append(parts, "secondary")
	}
	if loc.InContent {
		if loc.ContentSteamID != "" {
			parts = append(parts, "workshop:"+loc.ContentSteamID)
		} else {
			parts = append(parts, "workshop")
		}
	}
	return strings.Join(parts, ",")
}
