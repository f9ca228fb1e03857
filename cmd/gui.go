package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"totalwar-mod-launcher/catalog"
	"totalwar-mod-launcher/db"
	"totalwar-mod-launcher/games"
	"totalwar-mod-launcher/loadorder"
	"totalwar-mod-launcher/logger"
	"totalwar-mod-launcher/pack"
	"totalwar-mod-launcher/ui"
	"totalwar-mod-launcher/workshop"
)

// guiCmd represents the gui command
var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Launch the interactive interface to toggle mods",
	Long: `Launch an interactive TUI listing the catalog by category. Mods can be
toggled, the game rescanned and changes saved without leaving it.`,
	Run: func(_ *cobra.Command, _ []string) {
		runGUI(bootstrap(configPath))
	},
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

func runGUI(s *session) {
	p := tea.NewProgram(newModel(s), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		logger.Log.Fatalw("Error running GUI", zap.Error(err))
	}
	if m, ok := final.(Model); ok && m.dirty {
		if err := saveStore(s, m.store); err != nil {
			logger.Log.Fatalw("Failed to save changes", zap.Error(err))
		}
	}
}

// ModInfo is one row of the mod list.
type ModInfo struct {
	ID          string
	Name        string
	Category    string
	PackType    pack.Type
	Status      string
	StatusColor string
	Location    string
	Enabled     bool
	Selectable  bool // whether the mod can be toggled
}

// Model represents the state of the TUI
type Model struct {
	session       *session
	store         *catalog.Store
	mods          []ModInfo
	selectedIndex int
	loading       bool
	scanning      bool
	dirty         bool
	error         string
	message       string
	width         int
	height        int
	spinnerFrame  int
}

func newModel(s *session) Model {
	return Model{
		session: s,
		store:   catalog.NewStore(s.catalog, s.loadOrder),
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadMods(),
		tickSpinner(),
	)
}

func tickSpinner() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case modsLoadedMsg:
		m.mods = msg.mods
		m.loading = false
		if m.selectedIndex >= len(m.mods) {
			m.selectedIndex = max(0, len(m.mods)-1)
		}
	case spinnerTickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		if m.loading || m.scanning {
			return m, tickSpinner()
		}
	case errorMsg:
		m.error = string(msg)
		m.loading = false
		m.scanning = false
	case scanCompleteMsg:
		return m.handleScanComplete(msg)
	case enrichmentMsg:
		return m.handleEnrichment(msg)
	case clearMessageMsg:
		m.message = ""
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case "down", "j":
		if m.selectedIndex < len(m.mods)-1 {
			m.selectedIndex++
		}
	case " ":
		if len(m.mods) > 0 && m.mods[m.selectedIndex].Selectable && !m.scanning {
			return m.toggleSelected()
		}
	case "ctrl+s":
		if err := saveStore(m.session, m.store); err != nil {
			m.error = err.Error()
			return m, nil
		}
		m.dirty = false
		m.message = "Saved"
		return m, clearMessageAfter(3 * time.Second)
	case "r":
		if !m.scanning {
			m.scanning = true
			return m, tea.Batch(m.rescan(), tickSpinner())
		}
	}
	return m, nil
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	row := m.mods[m.selectedIndex]
	dataPath := m.session.dataPath()
	err := m.store.Update(func(cfg *catalog.GameConfig, lo *loadorder.LoadOrder) error {
		if err := cfg.SetEnabled(row.ID, !row.Enabled, dataPath); err != nil {
			return err
		}
		lo.Update(cfg.Mods, dataPath)
		return nil
	})
	if err != nil {
		m.error = err.Error()
		return m, nil
	}
	m.dirty = true
	return m, m.loadMods()
}

func clearMessageAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearMessageMsg{}
	})
}

func (m Model) handleScanComplete(msg scanCompleteMsg) (tea.Model, tea.Cmd) {
	m.scanning = false
	m.message = fmt.Sprintf("Found %d packs, %d new", msg.discovered, msg.newMods)
	cmds := []tea.Cmd{m.loadMods()}
	if msg.enrichment != nil {
		cmds = append(cmds, waitForEnrichment(msg.enrichment))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleEnrichment(msg enrichmentMsg) (tea.Model, tea.Cmd) {
	if msg.resp.Err != nil {
		logger.Log.Warnw("Workshop request failed", zap.Error(msg.resp.Err))
		return m, nil
	}
	var merged int
	_ = m.store.Update(func(cfg *catalog.GameConfig, _ *loadorder.LoadOrder) error {
		merged = cfg.MergeEnrichment(msg.resp.Items)
		return nil
	})
	m.dirty = true
	m.message = fmt.Sprintf("Updated %d mods from the workshop", merged)
	return m, m.loadMods()
}

// View renders the UI
func (m Model) View() string {
	if m.loading {
		return renderLoadingScreen(m.spinnerFrame, "Loading mods")
	}
	if m.error != "" {
		return fmt.Sprintf("Error: %s\n", m.error)
	}
	if len(m.mods) == 0 && !m.scanning {
		return "No mods found. Press r to scan the game folders, q to quit.\n"
	}

	var output string
	output += renderHeader()
	output += "\n"

	category := ""
	for i, mod := range m.mods {
		if mod.Category != category {
			category = mod.Category
			output += lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ui.ColorAccent)).Render(category) + "\n"
		}
		output += m.renderModRow(i, mod)
		output += "\n"
	}

	output += "\n" + renderFooter()

	if m.scanning {
		output += "\n" + renderLoadingScreen(m.spinnerFrame, "Scanning")
	} else if m.message != "" {
		output += "\n" + ui.Colorize(m.message, ui.ColorOK)
	}

	return output
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func renderLoadingScreen(frame int, text string) string {
	loadingStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ui.ColorAccent)).
		Bold(true)
	return loadingStyle.Render(fmt.Sprintf("%s %s...", spinnerFrames[frame%len(spinnerFrames)], text)) + "\n"
}

func renderHeader() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ui.ColorAccent)).
		Padding(0, 1)

	return headerStyle.Render(fmt.Sprintf("%-42s %-7s %-24s %-10s", "Mod", "Type", "Location", "Status"))
}

func renderFooter() string {
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ui.ColorMuted)).
		Italic(true)

	return footerStyle.Render("↑/k: up  ↓/j: down  space: toggle  r: rescan  ctrl+s: save  q: quit")
}

func (m Model) renderModRow(index int, mod ModInfo) string {
	rowStyle := lipgloss.NewStyle().Padding(0, 1)
	if index == m.selectedIndex {
		rowStyle = rowStyle.
			Background(lipgloss.Color(ui.ColorMuted)).
			Bold(true)
	}

	indicator := " "
	switch {
	case mod.Enabled:
		indicator = "✓"
	case !mod.Selectable:
		indicator = "-"
	}

	// Pad before coloring to keep columns aligned.
	row := fmt.Sprintf("%s %-40s %s %-24s %s",
		indicator,
		truncate(mod.Name, 40),
		ui.Colorize(fmt.Sprintf("%-7s", mod.PackType), ui.PackTypeColor(mod.PackType)),
		truncate(mod.Location, 24),
		ui.Colorize(fmt.Sprintf("%-10s", mod.Status), mod.StatusColor),
	)

	return rowStyle.Render(row)
}

// truncate shortens s to maxLen runes, ending with "..." when cut.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) > maxLen {
		return string(r[:maxLen-3]) + "..."
	}
	return s
}

// Message types
type modsLoadedMsg struct {
	mods []ModInfo
}

type errorMsg string

type spinnerTickMsg struct{}

type clearMessageMsg struct{}

type scanCompleteMsg struct {
	discovered int
	newMods    int
	enrichment <-chan workshop.Response
}

type enrichmentMsg struct {
	resp workshop.Response
}

func (m Model) loadMods() tea.Cmd {
	roots := m.session.roots()
	dataPath := m.session.dataPath()
	return func() tea.Msg {
		var rows []ModInfo
		_ = m.store.View(func(cfg *catalog.GameConfig, _ *loadorder.LoadOrder) error {
			rows = buildModInfos(cfg, roots, dataPath)
			return nil
		})
		return modsLoadedMsg{mods: rows}
	}
}

// rescan runs a full rescan holding the store's write lock.
func (m Model) rescan() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		var res *catalog.Result
		err := m.store.Update(func(cfg *catalog.GameConfig, lo *loadorder.LoadOrder) error {
			var err error
			res, err = cfg.Rescan(context.Background(), s.game, lo, s.rescanOptions())
			if err == nil {
				if err := db.RecordLoadOrder(s.game.Key, lo); err != nil {
					logger.Log.Warnw("Failed to record load order history", zap.Error(err))
				}
			}
			return err
		})
		if err != nil {
			logger.Log.Errorw("Rescan failed", zap.String("game", s.game.Key), zap.Error(err))
			return errorMsg(fmt.Sprintf("Rescan failed: %v", err))
		}
		return scanCompleteMsg{discovered: res.Discovered, newMods: res.New, enrichment: res.Enrichment}
	}
}

func waitForEnrichment(ch <-chan workshop.Response) tea.Cmd {
	return func() tea.Msg {
		resp, ok := <-ch
		if !ok {
			return nil
		}
		return enrichmentMsg{resp: resp}
	}
}

// buildModInfos lists installed mods category by category, in the order the
// user sees them.
func buildModInfos(cfg *catalog.GameConfig, roots games.Roots, dataPath string) []ModInfo {
	var rows []ModInfo
	for _, cat := range cfg.CategoriesOrder {
		for _, id := range cfg.Categories[cat] {
			mod, ok := cfg.Mods[id]
			if !ok {
				continue
			}
			enabled := mod.IsEnabled(dataPath)
			toggleable := mod.CanBeToggled(dataPath)
			status, color := ui.ModStatus(mod.Installed(), enabled, toggleable)
			rows = append(rows, ModInfo{
				ID:          id,
				Name:        mod.Name,
				Category:    cat,
				PackType:    mod.PackType,
				Status:      status,
				StatusColor: color,
				Location:    locationLabel(mod.Location(roots)),
				Enabled:     enabled,
				Selectable:  toggleable,
			})
		}
	}
	return rows
}

// saveStore writes the store's catalog and load order and records the order.
func saveStore(s *session, store *catalog.Store) error {
	return store.Update(func(cfg *catalog.GameConfig, lo *loadorder.LoadOrder) error {
		if err := cfg.Save(s.cfg.ConfigDir); err != nil {
			return err
		}
		if err := lo.Save(s.cfg.ConfigDir, s.game.Key); err != nil {
			return err
		}
		if err := db.RecordLoadOrder(s.game.Key, lo); err != nil {
			logger.Log.Warnw("Failed to record load order history", zap.Error(err))
		}
		return nil
	})
}
