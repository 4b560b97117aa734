package today

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	progressdto "stillpoint/internal/modules/progress/dto"
	"stillpoint/internal/ui/theme"
)

type StatusPort interface {
	Status(ctx context.Context) (progressdto.DashboardOutput, error)
}

type LoadedMsg struct {
	Dashboard progressdto.DashboardOutput
	Err       error
}

type Model struct {
	port    StatusPort
	dash    progressdto.DashboardOutput
	err     error
	body    viewport.Model
	bar     progress.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port StatusPort) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text).Padding(1, 2)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		body:    vp,
		bar:     progress.New(progress.WithSolidFill(string(theme.Lavender)), progress.WithWidth(30)),
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches a fresh dashboard.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{Err: fmt.Errorf("progress is not configured")}
		}
		dash, err := m.port.Status(context.Background())
		return LoadedMsg{Dashboard: dash, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.Width = msg.Width
		m.body.Height = msg.Height
		m.body.SetContent(m.render())
	case LoadedMsg:
		m.loading = false
		m.dash, m.err = msg.Dashboard, msg.Err
		m.body.SetContent(m.render())
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.spinner.View()+" Loading…")
	}
	return m.body.View()
}

func (m Model) render() string {
	if m.err != nil {
		return theme.Bad.Render("progress: " + m.err.Error())
	}
	d := m.dash
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Today · "+d.Today) + "\n\n")

	sb.WriteString(theme.Muted.Render("streak      "))
	sb.WriteString(fmt.Sprintf("%d days (longest %d)  %s\n", d.Streak.Current, d.Streak.Longest, theme.Status(d.Streak.Status)))
	sb.WriteString(theme.Muted.Render("this week   ") + weekStrip(d.Week) + "\n\n")

	sb.WriteString(cycleLine("teaching", d.Teaching) + "\n")
	sb.WriteString(cycleLine("curriculum", d.Curriculum) + "\n")
	monthShare := 0.0
	if n := d.Month.End - d.Month.Start + 1; n > 0 {
		monthShare = float64(d.Month.Completed) / float64(n)
	}
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("month %-5d ", d.Month.Index)))
	sb.WriteString(m.bar.ViewAs(monthShare))
	sb.WriteString(fmt.Sprintf("  %d/%d days\n\n", d.Month.Completed, d.Month.End-d.Month.Start+1))

	sb.WriteString(theme.Muted.Render("stage       "))
	sb.WriteString(fmt.Sprintf("%d of 9 · %d sessions · %d min\n", d.Practice.Stage, d.Practice.TotalSessions, d.Practice.TotalMinutes))

	sb.WriteString("\n" + theme.Muted.Render("c: check in  t: complete teaching  u: complete curriculum day  r: refresh"))
	return sb.String()
}

func cycleLine(label string, c progressdto.CycleOutput) string {
	mark := theme.Muted.Render("○ open")
	if c.CompletedToday {
		mark = theme.Good.Render("● done")
	}
	return theme.Muted.Render(fmt.Sprintf("%-12s", label)) + fmt.Sprintf("day %d of %d  %s", c.CurrentDay, c.Length, mark)
}

func weekStrip(days []progressdto.DayActivityOutput) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		if d.Active {
			parts = append(parts, theme.Good.Render("■"))
		} else {
			parts = append(parts, theme.Muted.Render("□"))
		}
	}
	return strings.Join(parts, " ")
}
