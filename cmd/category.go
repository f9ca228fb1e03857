package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"totalwar-mod-launcher/logger"
)

// categoryCmd groups the category subcommands
var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage mod categories",
}

// categoryListCmd represents the category list command
var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories in display order",
	Run: func(_ *cobra.Command, _ []string) {
		s := bootstrap(configPath)
		for _, cat := range s.catalog.CategoriesOrder {
			fmt.Printf("%s (%d)\n", cat, len(s.catalog.Categories[cat]))
		}
	},
}

// categoryCreateCmd represents the category create command
var categoryCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create an empty category",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		s := bootstrap(configPath)
		if err := s.catalog.CreateCategory(args[0]); err != nil {
			logger.Log.Fatalw("Failed to create category", zap.String("category", args[0]), zap.Error(err))
		}
		saveCatalog(s)
	},
}

// categoryDeleteCmd represents the category delete command
var categoryDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a category, its mods go back to the default one",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		s := bootstrap(configPath)
		s.catalog.DeleteCategory(args[0])
		s.catalog.Normalize() // Re-home orphaned mods
		saveCatalog(s)
	},
}

// categoryAssignCmd represents the category assign command
var categoryAssignCmd = &cobra.Command{
	Use:   "assign [category] [mod...]",
	Short: "Move mods into a category",
	Args:  cobra.MinimumNArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		s := bootstrap(configPath)
		// Stop at the first mod that can't be moved
		for _, id := range args[1:] {
			if err := s.catalog.AssignCategory(id, args[0]); err != nil {
				logger.Log.Fatalw("Failed to assign category", zap.String("mod", id), zap.String("category", args[0]), zap.Error(err))
			}
		}
		saveCatalog(s)
	},
}

var categoryWhichCmd = &cobra.Command{
	Use:   "which [mod]",
	Short: "Print the category a mod belongs to",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		s := bootstrap(configPath)
		if _, err := s.catalog.Mod(args[0]); err != nil {
			logger.Log.Fatalw("Unknown mod", zap.String("mod", args[0]), zap.Error(err))
		}
		fmt.Println(s.catalog.CategoryForMod(args[0]))
	},
}

func init() {
	categoryCmd.AddCommand(categoryListCmd, categoryCreateCmd, categoryDeleteCmd, categoryAssignCmd, categoryWhichCmd)
	rootCmd.AddCommand(categoryCmd)
}

// saveCatalog persists category changes, the load order is untouched.
func saveCatalog(s *session) {
	if err := s.catalog.Save(s.cfg.ConfigDir); err != nil {
		logger.Log.Fatalw("Failed to save catalog", zap.String("game", s.game.Key), zap.Error(err))
	}
}
