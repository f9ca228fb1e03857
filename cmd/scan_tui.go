package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"totalwar-mod-launcher/ui"
)

// ScanProgressMsg represents a progress update from the scan process
type ScanProgressMsg struct {
	Type    string // "status", "root", "error", "summary", "done"
	Message string
	Root    string
	Count   int
}

// ScanModel controls the UI for the scan command
type ScanModel struct {
	spinner      spinner.Model
	progressChan chan ScanProgressMsg
	ctx          context.Context
	session      *session
	wait         bool

	status  string
	roots   []string
	errors  []string
	summary string
	done    bool
}

func initialScanModel(ctx context.Context, s *session, wait bool) ScanModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ScanModel{
		spinner:      sp,
		progressChan: make(chan ScanProgressMsg, 100),
		ctx:          ctx,
		session:      s,
		wait:         wait,
		status:       "Initializing...",
	}
}

func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startScan(),
		m.waitForActivity(),
	)
}

func (m ScanModel) startScan() tea.Cmd {
	return func() tea.Msg {
		go func() {
			defer close(m.progressChan)
			// Failures are reported on the channel.
			_, _ = runScan(m.ctx, m.session, m.wait, m.progressChan)
		}()
		return nil
	}
}

func (m ScanModel) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.progressChan
		if !ok {
			return ScanProgressMsg{Type: "done"}
		}
		return msg
	}
}

func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" || m.done {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ScanProgressMsg:
		switch msg.Type {
		case "done":
			m.done = true
			m.status = "Finished"
			return m, tea.Quit
		case "status":
			m.status = msg.Message
		case "root":
			m.roots = append(m.roots, fmt.Sprintf("%s: %d archives", msg.Root, msg.Count))
		case "error":
			m.errors = append(m.errors, msg.Message)
		case "summary":
			m.summary = msg.Message
		}
		return m, m.waitForActivity()
	}

	return m, nil
}

func (m ScanModel) View() string {
	var symbol string
	if m.done {
		symbol = ui.Colorize("✓", ui.ColorOK)
	} else {
		symbol = m.spinner.View()
	}

	s := fmt.Sprintf("\n %s %s\n\n", symbol, m.status)

	if len(m.roots) > 0 {
		s += lipgloss.NewStyle().Bold(true).Render("Scanned:") + "\n"
		for _, r := range m.roots {
			s += fmt.Sprintf("  • %s\n", r)
		}
		s += "\n"
	}

	if len(m.errors) > 0 {
		s += ui.Colorize("Errors:", ui.ColorError) + "\n"
		for _, e := range m.errors {
			s += fmt.Sprintf("  • %s\n", e)
		}
		s += "\n"
	}

	if m.done && m.summary != "" {
		s += lipgloss.NewStyle().Bold(true).Render(m.summary) + "\n"
	}

	return s
}
