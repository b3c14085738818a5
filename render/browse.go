package render

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"suppressaudit/scanner"
)

// BrowseModel is the bubbletea model for stepping through findings one at a time.
type BrowseModel struct {
	report   *scanner.Report
	cursor   int
	detail   bool
	height   int
	quitting bool

	selected lipgloss.Style
	dim      lipgloss.Style
	header   lipgloss.Style
}

// NewBrowseModel creates a browser over the report's issues.
func NewBrowseModel(report *scanner.Report) BrowseModel {
	return BrowseModel{
		report:   report,
		height:   20,
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		dim:      lipgloss.NewStyle().Faint(true),
		header:   lipgloss.NewStyle().Bold(true),
	}
}

// Init implements tea.Model.
func (m BrowseModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-4, 1)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "j", "down":
			if m.cursor < len(m.report.Issues)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			m.cursor = max(len(m.report.Issues)-1, 0)
		case "enter", " ":
			m.detail = !m.detail
		}
	}
	return m, nil
}

// window returns the slice of issue indexes visible around the cursor.
func (m BrowseModel) window() (int, int) {
	n := len(m.report.Issues)
	if n <= m.height {
		return 0, n
	}
	start := m.cursor - m.height/2
	start = max(start, 0)
	start = min(start, n-m.height)
	return start, start + m.height
}

// View implements tea.Model.
func (m BrowseModel) View() string {
	if m.quitting {
		return ""
	}
	var sb strings.Builder
	issues := m.report.Issues
	sb.WriteString(m.header.Render(fmt.Sprintf("%d findings in %d files", len(issues), m.report.FilesWithIssues())))
	sb.WriteString("\n\n")

	if len(issues) == 0 {
		sb.WriteString("No inline suppressions found\n")
	} else if m.detail {
		is := issues[m.cursor]
		fmt.Fprintf(&sb, "File:       %s\n", is.Path)
		fmt.Fprintf(&sb, "Repository: %s\n", is.Repository)
		fmt.Fprintf(&sb, "Rule:       %s:%s\n", is.Repository, is.Rule)
		fmt.Fprintf(&sb, "Category:   %s\n", is.Category)
		fmt.Fprintf(&sb, "Directive:  line %d\n", is.EvidenceLine)
		fmt.Fprintf(&sb, "Reported:   line %d\n", is.Line)
		if len(is.Rules) > 0 {
			fmt.Fprintf(&sb, "Suppresses: %s\n", strings.Join(is.Rules, ", "))
		}
		if is.Blanket {
			sb.WriteString("Suppresses: everything\n")
		}
		fmt.Fprintf(&sb, "\n%s\n", is.Message)
	} else {
		start, end := m.window()
		for i := start; i < end; i++ {
			is := issues[i]
			line := fmt.Sprintf("%s:%d [%s]", is.Path, is.EvidenceLine, is.Category)
			if i == m.cursor {
				sb.WriteString(m.selected.Render("> " + line))
			} else {
				sb.WriteString("  " + line)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(m.dim.Render("j/k move • enter details • q quit"))
	return sb.String()
}

// Browse runs the interactive finding browser until the user quits.
func Browse(report *scanner.Report) error {
	_, err := tea.NewProgram(NewBrowseModel(report), tea.WithAltScreen()).Run()
	return err
}
