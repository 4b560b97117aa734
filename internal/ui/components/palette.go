package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"stillpoint/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

const maxHints = 6

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// hints must stay in sync with the switch in app/model.go executePalette.
var paletteHints = []string{
	"checkin",
	"teaching:complete [day]",
	"teaching:goto <day>",
	"curriculum:complete [day]",
	"curriculum:goto <day>",
	"practice:log <minutes> <focus> [notes]",
	"practice:stage <n>",
	"journal:search <text>",
	"journal:today",
	"refresh",
}

// paletteCommands is the command word of each hint, index-aligned.
var paletteCommands = func() []string {
	out := make([]string, len(paletteHints))
	for i, h := range paletteHints {
		out[i] = strings.Fields(h)[0]
	}
	return out
}()

// MatchHints lists up to maxHints usage lines for input. Once a command word
// and a space are typed only that command's usage is shown. Before that,
// commands starting with input come first, then fuzzy matches such as
// "prlog" for practice:log.
func MatchHints(input string) []string {
	q := strings.ToLower(strings.TrimLeft(input, " "))
	if q == "" {
		return append([]string(nil), paletteHints[:min(maxHints, len(paletteHints))]...)
	}
	if word, _, ok := strings.Cut(q, " "); ok {
		for i, c := range paletteCommands {
			if c == word {
				return []string{paletteHints[i]}
			}
		}
		return nil
	}

	var out []string
	taken := make(map[int]bool, len(paletteHints))
	for i, c := range paletteCommands {
		if strings.HasPrefix(c, q) {
			out = append(out, paletteHints[i])
			taken[i] = true
		}
	}
	for _, m := range fuzzy.Find(q, paletteCommands) {
		if !taken[m.Index] {
			out = append(out, paletteHints[m.Index])
			taken[m.Index] = true
		}
	}
	if len(out) > maxHints {
		out = out[:maxHints]
	}
	return out
}

// Palette is a command-palette overlay backed by bubbles/textinput.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
}

// NewPalette creates an inactive Palette ready to be opened.
func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "checkin, practice:log 20 4, journal:search … (tab completes)"
	ti.CharLimit = 256
	return Palette{input: ti}
}

// Visible reports whether the palette is currently shown.
func (p Palette) Visible() bool { return p.visible }

// Open shows the palette, clears the input, and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

// SetWidth sets the render width for the overlay.
func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "tab":
			// Complete the command word from the best hint.
			val := p.input.Value()
			if strings.Contains(strings.TrimLeft(val, " "), " ") {
				return p, nil
			}
			if hints := MatchHints(val); len(hints) > 0 {
				p.input.SetValue(strings.Fields(hints[0])[0] + " ")
				p.input.CursorEnd()
			}
			return p, nil
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	matching := MatchHints(p.input.Value())

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if len(matching) > 0 {
		sb.WriteString("\n")
		for _, h := range matching {
			sb.WriteString(hintStyle.Render("  "+h) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
