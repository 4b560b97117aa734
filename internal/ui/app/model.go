package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	journaldto "stillpoint/internal/modules/journal/dto"
	progressdto "stillpoint/internal/modules/progress/dto"
	"stillpoint/internal/ui/components"
	"stillpoint/internal/ui/theme"
	journalview "stillpoint/internal/ui/views/journal"
	practiceview "stillpoint/internal/ui/views/practice"
	todayview "stillpoint/internal/ui/views/today"
)

// ProgressPort is what the dashboard needs from the progress engine.
type ProgressPort interface {
	Status(ctx context.Context) (progressdto.DashboardOutput, error)
	CheckIn(ctx context.Context) (progressdto.StreakOutput, error)
	Complete(ctx context.Context, track string, day int) (progressdto.CycleOutput, error)
	CompleteToday(ctx context.Context, track string) (progressdto.CycleOutput, error)
	GoTo(ctx context.Context, track string, day int) (progressdto.CycleOutput, error)
	LogSession(ctx context.Context, minutes uint, focus int, notes string) (progressdto.PracticeOutput, error)
	Practice(ctx context.Context) (progressdto.PracticeOutput, error)
	SetStage(ctx context.Context, stage int) (progressdto.PracticeOutput, error)
}

type JournalPort interface {
	Today(ctx context.Context) (journaldto.TodayOutput, error)
	Write(ctx context.Context, day, year int, content string) (journaldto.EntryOutput, error)
	Search(ctx context.Context, query string, limit int) ([]journaldto.SearchHitOutput, error)
}

type tabID int

const (
	tabToday tabID = iota
	tabPractice
	tabJournal
	tabCount
)

var tabLabels = [tabCount]string{"Today", "Practice", "Journal"}

// actionMsg reports the outcome of a mutation triggered from the UI.
type actionMsg struct {
	status string
	err    error
}

type keyMap struct {
	Tab      key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
	CheckIn  key.Binding
	Teaching key.Binding
	Lesson   key.Binding
	Refresh  key.Binding
	Write    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		CheckIn:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "check in")),
		Teaching: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "complete teaching")),
		Lesson:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "complete curriculum day")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Write:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "write journal")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.CheckIn, k.Teaching, k.Lesson},
		{k.Refresh, k.Write},
		{k.Help, k.Palette, k.Quit},
	}
}

// Model is the root Bubble Tea model. It routes tabs, runs palette commands
// and leaves rendering to the views.
type Model struct {
	progress ProgressPort
	journal  JournalPort

	todayView    todayview.Model
	practiceView practiceview.Model
	journalView  journalview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(progress ProgressPort, journal JournalPort) Model {
	var statusPort todayview.StatusPort
	var practicePort practiceview.PracticePort
	if progress != nil {
		statusPort, practicePort = progress, progress
	}
	var journalPort journalview.JournalPort
	if journal != nil {
		journalPort = journal
	}
	return Model{
		progress:     progress,
		journal:      journal,
		todayView:    todayview.New(statusPort),
		practiceView: practiceview.New(practicePort),
		journalView:  journalview.New(journalPort),
		activeTab:    tabToday,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.todayView.Init(), m.practiceView.Init(), m.journalView.Init())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		return m, m.propagateSize()

	case actionMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = msg.status
		return m, tea.Batch(m.todayView.Reload(), m.practiceView.Reload())

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case todayview.LoadedMsg:
		var cmd tea.Cmd
		m.todayView, cmd = m.todayView.Update(msg)
		return m, cmd

	case practiceview.LoadedMsg:
		var cmd tea.Cmd
		m.practiceView, cmd = m.practiceView.Update(msg)
		return m, cmd

	case journalview.LoadedMsg, journalview.SearchMsg:
		var cmd tea.Cmd
		m.journalView, cmd = m.journalView.Update(msg)
		return m, cmd

	case journalview.SavedMsg:
		if msg.Err == nil {
			m.status = fmt.Sprintf("saved journal day %d, %d", msg.Entry.Day, msg.Entry.Year)
		}
		var cmd tea.Cmd
		m.journalView, cmd = m.journalView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.journalView.Editing() || m.practiceView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "r":
			return m, tea.Batch(m.todayView.Reload(), m.practiceView.Reload(), m.journalView.Reload())
		case "c":
			if m.activeTab == tabToday {
				return m, m.checkInCmd()
			}
		case "t":
			if m.activeTab == tabToday {
				return m, m.completeCmd(string(progressdto.TrackTeaching), nil)
			}
		case "u":
			if m.activeTab == tabToday {
				return m, m.completeCmd(string(progressdto.TrackCurriculum), nil)
			}
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case tabToday:
		m.todayView, cmd = m.todayView.Update(msg)
	case tabPractice:
		m.practiceView, cmd = m.practiceView.Update(msg)
	case tabJournal:
		m.journalView, cmd = m.journalView.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		switch m.activeTab {
		case tabToday:
			content = m.todayView.View()
		case tabPractice:
			content = m.practiceView.View()
		case tabJournal:
			content = m.journalView.View()
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "stillpoint  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "checkin":
		return m, m.checkInCmd()

	case "teaching:complete", "curriculum:complete":
		var day *int
		if len(parts) >= 2 {
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				m.status = "invalid day"
				return m, nil
			}
			day = &n
		}
		return m, m.completeCmd(strings.TrimSuffix(parts[0], ":complete"), day)

	case "teaching:goto", "curriculum:goto":
		if len(parts) < 2 {
			m.status = "usage: " + parts[0] + " <day>"
			return m, nil
		}
		day, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid day"
			return m, nil
		}
		return m, m.goToCmd(strings.TrimSuffix(parts[0], ":goto"), day)

	case "practice:log":
		if len(parts) < 3 {
			m.status = "usage: practice:log <minutes> <focus> [notes]"
			return m, nil
		}
		minutes, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			m.status = "invalid minutes"
			return m, nil
		}
		focus, err := strconv.Atoi(parts[2])
		if err != nil {
			m.status = "invalid focus"
			return m, nil
		}
		notes := strings.Join(parts[3:], " ")
		m.activeTab = tabPractice
		return m, m.logSessionCmd(uint(minutes), focus, notes)

	case "practice:stage":
		if len(parts) < 2 {
			m.status = "usage: practice:stage <n>"
			return m, nil
		}
		stage, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid stage"
			return m, nil
		}
		m.activeTab = tabPractice
		return m, m.setStageCmd(stage)

	case "journal:search":
		if rest == "" {
			m.status = "usage: journal:search <text>"
			return m, nil
		}
		m.activeTab = tabJournal
		return m, m.journalView.SearchCmd(rest)

	case "journal:today":
		m.activeTab = tabJournal
		return m, m.journalView.Reload()

	case "refresh":
		return m, tea.Batch(m.todayView.Reload(), m.practiceView.Reload(), m.journalView.Reload())

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

func (m *Model) propagateSize() tea.Cmd {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	var cmds [3]tea.Cmd
	m.todayView, cmds[0] = m.todayView.Update(sz)
	m.practiceView, cmds[1] = m.practiceView.Update(sz)
	m.journalView, cmds[2] = m.journalView.Update(sz)
	return tea.Batch(cmds[:]...)
}

func (m Model) checkInCmd() tea.Cmd {
	return func() tea.Msg {
		if m.progress == nil {
			return actionMsg{err: fmt.Errorf("progress is not configured")}
		}
		out, err := m.progress.CheckIn(context.Background())
		return actionMsg{status: fmt.Sprintf("streak %d (%s)", out.Current, out.Status), err: err}
	}
}

// completeCmd completes day on track, or the track's current day when day is
// nil.
func (m Model) completeCmd(track string, day *int) tea.Cmd {
	return func() tea.Msg {
		if m.progress == nil {
			return actionMsg{err: fmt.Errorf("progress is not configured")}
		}
		var out progressdto.CycleOutput
		var err error
		if day == nil {
			out, err = m.progress.CompleteToday(context.Background(), track)
		} else {
			out, err = m.progress.Complete(context.Background(), track, *day)
		}
		return actionMsg{status: fmt.Sprintf("%s: %d of %d days done", track, len(out.CompletedDays), out.Length), err: err}
	}
}

func (m Model) goToCmd(track string, day int) tea.Cmd {
	return func() tea.Msg {
		if m.progress == nil {
			return actionMsg{err: fmt.Errorf("progress is not configured")}
		}
		out, err := m.progress.GoTo(context.Background(), track, day)
		return actionMsg{status: fmt.Sprintf("%s: viewing day %d", track, out.CurrentDay), err: err}
	}
}

// logSessionCmd hands the result straight to the practice view so a stage
// change is shown before the next reload.
func (m Model) logSessionCmd(minutes uint, focus int, notes string) tea.Cmd {
	return func() tea.Msg {
		if m.progress == nil {
			return actionMsg{err: fmt.Errorf("progress is not configured")}
		}
		out, err := m.progress.LogSession(context.Background(), minutes, focus, notes)
		if err != nil {
			return actionMsg{err: err}
		}
		return practiceview.LoadedMsg{Practice: out}
	}
}

func (m Model) setStageCmd(stage int) tea.Cmd {
	return func() tea.Msg {
		if m.progress == nil {
			return actionMsg{err: fmt.Errorf("progress is not configured")}
		}
		out, err := m.progress.SetStage(context.Background(), stage)
		return actionMsg{status: fmt.Sprintf("stage set to %d", out.Stage), err: err}
	}
}
