package practice

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	progressdto "stillpoint/internal/modules/progress/dto"
	"stillpoint/internal/ui/theme"
)

type PracticePort interface {
	Practice(ctx context.Context) (progressdto.PracticeOutput, error)
}

type LoadedMsg struct {
	Practice progressdto.PracticeOutput
	Err      error
}

type sessionItem struct {
	session progressdto.SessionOutput
}

func (i sessionItem) Title() string {
	return fmt.Sprintf("%s  %d min", i.session.Date, i.session.DurationMinutes)
}

func (i sessionItem) Description() string {
	focus := strings.Repeat("●", i.session.FocusRating) + strings.Repeat("○", 5-i.session.FocusRating)
	if i.session.Notes == "" {
		return focus
	}
	return focus + "  " + i.session.Notes
}

func (i sessionItem) FilterValue() string { return i.session.Date + " " + i.session.Notes }

type Model struct {
	port     PracticePort
	practice progressdto.PracticeOutput
	err      error
	list     list.Model
	stageBar progress.Model
	width    int
	height   int
}

func New(port PracticePort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Recent sessions"
	l.Styles.Title = theme.Title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	return Model{
		port:     port,
		list:     l,
		stageBar: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(28)),
	}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{Err: fmt.Errorf("progress is not configured")}
		}
		out, err := m.port.Practice(context.Background())
		return LoadedMsg{Practice: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width/2, msg.Height)
	case LoadedMsg:
		m.practice, m.err = msg.Practice, msg.Err
		items := make([]list.Item, 0, len(msg.Practice.Recent))
		for _, s := range msg.Practice.Recent {
			items = append(items, sessionItem{session: s})
		}
		return m, m.list.SetItems(items)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Filtering reports whether the session filter is taking keystrokes.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) View() string {
	listW := m.width / 2
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	summary := theme.Pane.Width(max(m.width-listW-4, 10)).Height(max(m.height-2, 1)).Render(m.renderSummary())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, summary)
}

func (m Model) renderSummary() string {
	if m.err != nil {
		return theme.Bad.Render("practice: " + m.err.Error())
	}
	p := m.practice
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(fmt.Sprintf("Stage %d", p.Stage)) + "\n")
	sb.WriteString(m.stageBar.ViewAs(float64(p.Stage)/9) + "\n\n")
	sb.WriteString(theme.Muted.Render("sessions    ") + fmt.Sprintf("%d (%d min)\n", p.TotalSessions, p.TotalMinutes))
	sb.WriteString(theme.Muted.Render("completion  ") + fmt.Sprintf("%.0f%%\n", p.CompletionRate*100))
	sb.WriteString(theme.Muted.Render("average     ") + fmt.Sprintf("%.1f min\n", p.AverageMinutes))
	sb.WriteString(theme.Muted.Render("days        ") + fmt.Sprintf("%d\n", p.DistinctDays))
	if p.Stage > p.PreviousStage && p.PreviousStage > 0 {
		sb.WriteString("\n" + theme.Hot.Render(fmt.Sprintf("stage %d → %d", p.PreviousStage, p.Stage)) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render(":practice:log <min> <focus> [notes]"))
	return sb.String()
}
