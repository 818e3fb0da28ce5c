package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fgrfn/unraid-templates/internal/catalog"
	"github.com/fgrfn/unraid-templates/internal/config"
)

// NewBrowseCommand creates the browse command
func NewBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the template catalog in the terminal",
		Long: `Launch an interactive terminal browser over the local template catalog.

Navigate with the arrow keys or j/k, press 'r' to rescan the templates
directory, and 'q' to quit. The browser is read-only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			configFile, _ := cmd.Flags().GetString("config")
			return runBrowse(root, configFile)
		},
	}
}

// runBrowse starts the terminal browser
func runBrowse(root, configFile string) error {
	cfg, err := config.Load(resolveConfigPath(root, configFile))
	if err != nil {
		return err
	}

	program := tea.NewProgram(newBrowseModel(root, cfg.Site), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}

// browseModel holds the state for the Bubble Tea catalog browser
type browseModel struct {
	root     string
	site     config.Site
	entries  []catalog.Entry
	selected int
	err      error
}

// newBrowseModel creates a browser model that scans templates under root
func newBrowseModel(root string, site config.Site) browseModel {
	return browseModel{root: root, site: site}
}

// entriesLoadedMsg is sent when a catalog scan completes
type entriesLoadedMsg struct {
	entries []catalog.Entry
}

// errMsg is sent when a catalog scan fails
type errMsg struct {
	err error
}

// Init implements the Bubble Tea init method
func (m browseModel) Init() tea.Cmd {
	return m.loadEntriesCmd()
}

// loadEntriesCmd rescans the templates directory
func (m browseModel) loadEntriesCmd() tea.Cmd {
	return func() tea.Msg {
		entries, err := catalog.Build(m.root, m.site, io.Discard)
		if err != nil {
			return errMsg{err: err}
		}
		return entriesLoadedMsg{entries: entries}
	}
}

// Update implements the Bubble Tea update method
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down", "j":
			if m.selected < len(m.entries)-1 {
				m.selected++
			}
			return m, nil

		case "r":
			return m, m.loadEntriesCmd()
		}

	case entriesLoadedMsg:
		m.entries = msg.entries
		if m.selected >= len(m.entries) {
			m.selected = len(m.entries) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// View implements the Bubble Tea view method
func (m browseModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress 'q' to quit", m.err)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderList(),
		m.renderDetail(),
		m.renderFooter(),
	)
}

// renderHeader renders the browser title line
func (m browseModel) renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Render("🧰 Template Catalog")

	return lipgloss.JoinHorizontal(lipgloss.Left,
		title,
		"  ",
		fmt.Sprintf("Templates: %d", len(m.entries)),
	)
}

// renderList renders the selectable template list
func (m browseModel) renderList() string {
	if len(m.entries) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Render("\n  No templates found. Press 'r' to rescan.\n")
	}

	rows := make([]string, 0, len(m.entries))
	for i, entry := range m.entries {
		rowStyle := lipgloss.NewStyle()
		if i == m.selected {
			rowStyle = rowStyle.Background(lipgloss.Color("240"))
		}
		rows = append(rows, rowStyle.Render(fmt.Sprintf("  %s", entry.Name)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderDetail renders the pane for the selected template
func (m browseModel) renderDetail() string {
	if len(m.entries) == 0 {
		return ""
	}
	entry := m.entries[m.selected]

	divider := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Render(strings.Repeat("─", 40))

	rows := []string{
		divider,
		fmt.Sprintf("%-12s %s", "Repository:", dash(entry.Repository)),
		fmt.Sprintf("%-12s %s", "Network:", entry.Network),
		fmt.Sprintf("%-12s %s", "WebUI Port:", entry.Port),
		fmt.Sprintf("%-12s %s", "Project:", dash(entry.Project)),
		fmt.Sprintf("%-12s %d", "Env vars:", entry.EnvCount),
		fmt.Sprintf("%-12s %s", "Path:", entry.Path),
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderFooter renders the control instructions footer
func (m browseModel) renderFooter() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("Controls: [↑↓/jk] Navigate | [r] Rescan | [q] Quit")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
