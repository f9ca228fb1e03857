package loadorder

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/logger"
	"totalwar-mod-launcher/mods"
)

// LaunchScript is the user script handed to the game on launch.
type LaunchScript struct {
	WorkingDirectories []string
	Packs              []string
}

// String renders the script: working directories first, then one mod line
// per pack in load order.
func (s LaunchScript) String() string {
	var b strings.Builder
	for _, dir := range s.WorkingDirectories {
		fmt.Fprintf(&b, "add_working_directory \"%s\";\n", filepath.ToSlash(dir))
	}
	for _, p := range s.Packs {
		fmt.Fprintf(&b, "mod \"%s\";\n", p)
	}
	return b.String()
}

// BuildLaunchScript turns the order into script lines. Packs outside /data
// need their folder added as a working directory, which only games with
// RawDBVersion >= 1 support. The secondary folder is added once, along with
// its masks folder. Movies aren't listed as mods: the game picks them up by
// itself, toggleable ones only through their working directory.
func BuildLaunchScript(lo *LoadOrder, all map[string]*mods.Mod, game games.Info, dataPath, secondaryPath string) LaunchScript {
	var script LaunchScript
	var folders []string
	addedSecondary := false

	addFolder := func(path string) {
		if !game.SupportsWorkingDirectories() || games.IsUnder(path, dataPath) {
			return
		}
		folder := filepath.Dir(path)
		if secondaryPath != "" && folder == secondaryPath {
			if !addedSecondary {
				script.WorkingDirectories = append(script.WorkingDirectories, games.SecondaryMasksPath(secondaryPath), secondaryPath)
				addedSecondary = true
			}
			return
		}
		if !slices.Contains(folders, folder) {
			folders = append(folders, folder)
		}
	}

	for _, id := range lo.Mods {
		if slices.Contains(lo.Movies, id) {
			continue
		}
		m, ok := all[id]
		if !ok || !m.Installed() {
			logger.Log.Warnw("Skipping mod without installed packs", zap.String("mod", id))
			continue
		}
		addFolder(m.Paths[0])
		script.Packs = append(script.Packs, filepath.Base(m.Paths[0]))
	}

	for _, id := range lo.Movies {
		m, ok := all[id]
		if !ok || !m.CanBeToggled(dataPath) {
			continue
		}
		addFolder(m.Paths[0])
	}

	script.WorkingDirectories = append(script.WorkingDirectories, folders...)
	return script
}
