package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	journaldto "stillpoint/internal/modules/journal/dto"
	"stillpoint/internal/ui/theme"
)

type JournalPort interface {
	Today(ctx context.Context) (journaldto.TodayOutput, error)
	Write(ctx context.Context, day, year int, content string) (journaldto.EntryOutput, error)
	Search(ctx context.Context, query string, limit int) ([]journaldto.SearchHitOutput, error)
}

type LoadedMsg struct {
	Today journaldto.TodayOutput
	Err   error
}

type SavedMsg struct {
	Entry journaldto.EntryOutput
	Err   error
}

type SearchMsg struct {
	Query string
	Hits  []journaldto.SearchHitOutput
	Err   error
}

type entryItem struct {
	title string
	desc  string
	body  string
}

func (i entryItem) Title() string       { return i.title }
func (i entryItem) Description() string { return i.desc }
func (i entryItem) FilterValue() string { return i.title + " " + i.body }

type Model struct {
	port    JournalPort
	today   journaldto.TodayOutput
	err     error
	list    list.Model
	preview viewport.Model
	editor  textarea.Model
	editing bool
	width   int
	height  int
}

func New(port JournalPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Earlier years"
	l.Styles.Title = theme.Title
	l.SetShowHelp(false)

	ta := textarea.New()
	ta.Placeholder = "What stood out today?"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)

	return Model{port: port, list: l, editor: ta, preview: vp}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{Err: fmt.Errorf("journal is not configured")}
		}
		out, err := m.port.Today(context.Background())
		return LoadedMsg{Today: out, Err: err}
	}
}

// SearchCmd runs a full-text search and lists the hits in place of earlier
// years.
func (m Model) SearchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return SearchMsg{Query: query, Err: fmt.Errorf("journal is not configured")}
		}
		hits, err := m.port.Search(context.Background(), query, 50)
		return SearchMsg{Query: query, Hits: hits, Err: err}
	}
}

// Editing reports whether the editor owns the keyboard.
func (m Model) Editing() bool {
	return m.editing
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case LoadedMsg:
		m.today, m.err = msg.Today, msg.Err
		items := make([]list.Item, 0, len(msg.Today.PreviousYears))
		for _, e := range msg.Today.PreviousYears {
			items = append(items, entryItem{title: fmt.Sprintf("%d · day %d", e.Year, e.Day), desc: firstLine(e.Content), body: e.Content})
		}
		m.list.Title = "Earlier years"
		m.preview.SetContent(m.renderToday())
		return m, m.list.SetItems(items)

	case SavedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.preview.SetContent(m.renderToday())
			return m, nil
		}
		return m, m.Reload()

	case SearchMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.Hits))
		for _, h := range msg.Hits {
			items = append(items, entryItem{title: fmt.Sprintf("%d · day %d", h.Year, h.Day), desc: h.Snippet, body: h.Snippet})
		}
		m.list.Title = fmt.Sprintf("Search: %s (%d)", msg.Query, len(msg.Hits))
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		if m.editing {
			switch msg.String() {
			case "esc":
				m.editing = false
				m.editor.Blur()
				return m, nil
			case "ctrl+s":
				m.editing = false
				m.editor.Blur()
				return m, m.saveCmd(m.editor.Value())
			}
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			return m, cmd
		}
		if msg.String() == "e" {
			m.editing = true
			if m.today.Entry != nil {
				m.editor.SetValue(m.today.Entry.Content)
			} else {
				m.editor.Reset()
			}
			return m, m.editor.Focus()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	listW := m.width * 2 / 5
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())

	var right string
	if m.editing {
		header := theme.Title.Render(fmt.Sprintf("Day %d, %d", m.today.Day, m.today.Year))
		right = header + "\n" + m.editor.View() + "\n" + theme.Muted.Render("ctrl+s: save  esc: cancel")
	} else {
		right = m.preview.View()
	}
	rightPane := theme.Pane.Width(max(m.width-listW-4, 10)).Height(max(m.height-2, 1)).Render(right)
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, rightPane)
}

func (m *Model) resize() {
	listW := m.width * 2 / 5
	m.list.SetSize(listW, m.height)
	rightW := max(m.width-listW-6, 10)
	m.preview.Width = rightW
	m.preview.Height = max(m.height-4, 1)
	m.editor.SetWidth(rightW)
	m.editor.SetHeight(max(m.height-8, 3))
}

func (m Model) renderToday() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(fmt.Sprintf("Day %d, %d", m.today.Day, m.today.Year)) + "\n\n")
	if m.err != nil {
		sb.WriteString(theme.Bad.Render(m.err.Error()) + "\n\n")
	}
	if m.today.Entry == nil {
		sb.WriteString(theme.Muted.Render("Nothing written yet."))
	} else {
		sb.WriteString(m.today.Entry.Content)
	}
	sb.WriteString("\n\n" + theme.Muted.Render("e: write  :journal:search <text>"))
	return sb.String()
}

func (m Model) saveCmd(content string) tea.Cmd {
	day, year := m.today.Day, m.today.Year
	return func() tea.Msg {
		entry, err := m.port.Write(context.Background(), day, year, content)
		return SavedMsg{Entry: entry, Err: err}
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
