package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"totalwar-mod-launcher/loadorder"
	"totalwar-mod-launcher/logger"
	"totalwar-mod-launcher/ui"
)

// orderCmd groups the load order subcommands
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Inspect and edit the load order",
}

// orderShowCmd represents the order show command
var orderShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the load order, highest priority last",
	Run: func(_ *cobra.Command, _ []string) {
		s := bootstrap(configPath)
		fmt.Print(renderLoadOrder(s.loadOrder))
	},
}

// orderGenerateCmd represents the order generate command
var orderGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Regenerate the load order from the enabled mods",
	Run: func(_ *cobra.Command, _ []string) {
		s := bootstrap(configPath)
		s.loadOrder.Generate(s.catalog.Mods, s.dataPath())
		s.mustSave()
		fmt.Print(renderLoadOrder(s.loadOrder))
	},
}

var orderModeCmd = &cobra.Command{
	Use:       "mode [automatic|manual]",
	Short:     "Switch between automatic and manual ordering",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"automatic", "manual"},
	Run: func(_ *cobra.Command, args []string) {
		s := bootstrap(configPath)
		switch args[0] {
		case "automatic", "auto":
			s.loadOrder.SetAutomatic(true, s.catalog.Mods, s.dataPath())
		case "manual":
			s.loadOrder.SetAutomatic(false, s.catalog.Mods, s.dataPath())
		default:
			logger.Log.Fatalw("Unknown load order mode", zap.String("mode", args[0]))
		}
		s.mustSave()
	},
}

// orderMoveCmd represents the order move command
var orderMoveCmd = &cobra.Command{
	Use:   "move [mod] [position]",
	Short: "Move a mod to a position in a manual load order",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		s := bootstrap(configPath)
		// Parse target position
		index, err := strconv.Atoi(args[1])
		if err != nil {
			logger.Log.Fatalw("Position must be a number", zap.String("position", args[1]), zap.Error(err))
		}
		// Only manual orders accept moves
		if err := s.loadOrder.Move(args[0], index); err != nil {
			logger.Log.Fatalw("Failed to move mod", zap.String("mod", args[0]), zap.Error(err))
		}
		s.mustSave()
		fmt.Print(renderLoadOrder(s.loadOrder))
	},
}

var orderScriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Print the launch script for the current load order",
	Run: func(_ *cobra.Command, _ []string) {
		s := bootstrap(configPath)
		script := loadorder.BuildLaunchScript(s.loadOrder, s.catalog.Mods, s.game, s.dataPath(), s.secondaryPath())
		fmt.Print(script.String())
	},
}

func init() {
	orderCmd.AddCommand(orderShowCmd, orderGenerateCmd, orderModeCmd, orderMoveCmd, orderScriptCmd)
	rootCmd.AddCommand(orderCmd)
}

// renderLoadOrder prints one pack per line, movies highlighted.
func renderLoadOrder(lo *loadorder.LoadOrder) string {
	mode := "manual"
	if lo.Automatic {
		mode = "automatic"
	}
	out := fmt.Sprintf("Load order (%s, %d packs)\n", mode, len(lo.Mods))

	// Index movie packs for highlighting
	movies := make(map[string]struct{}, len(lo.Movies))
	for _, id := range lo.Movies {
		movies[id] = struct{}{}
	}
	for i, id := range lo.Mods {
		if _, ok := movies[id]; ok {
			out += fmt.Sprintf("%4d  %s\n", i, ui.Colorize(id, ui.ColorMovie))
			continue
		}
		out += fmt.Sprintf("%4d  %s\n", i, id)
	}
	return out
}
