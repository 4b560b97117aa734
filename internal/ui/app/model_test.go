package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	journaldto "stillpoint/internal/modules/journal/dto"
	progressdto "stillpoint/internal/modules/progress/dto"
	practiceview "stillpoint/internal/ui/views/practice"
)

type fakeProgress struct {
	completed []string
	days      []int
	session   progressdto.SessionInput
}

func (f *fakeProgress) Status(context.Context) (progressdto.DashboardOutput, error) {
	return progressdto.DashboardOutput{}, nil
}
func (f *fakeProgress) CheckIn(context.Context) (progressdto.StreakOutput, error) {
	return progressdto.StreakOutput{Current: 1, Status: "active"}, nil
}
func (f *fakeProgress) Complete(_ context.Context, track string, day int) (progressdto.CycleOutput, error) {
	f.completed = append(f.completed, track)
	f.days = append(f.days, day)
	return progressdto.CycleOutput{Track: progressdto.Track(track), Length: 21, CompletedDays: []int{1}}, nil
}

// CompleteToday records -1 for "current day".
func (f *fakeProgress) CompleteToday(_ context.Context, track string) (progressdto.CycleOutput, error) {
	f.completed = append(f.completed, track)
	f.days = append(f.days, -1)
	return progressdto.CycleOutput{Track: progressdto.Track(track), Length: 21, CompletedDays: []int{1}}, nil
}
func (f *fakeProgress) GoTo(_ context.Context, track string, day int) (progressdto.CycleOutput, error) {
	return progressdto.CycleOutput{Track: progressdto.Track(track), CurrentDay: day}, nil
}
func (f *fakeProgress) LogSession(_ context.Context, minutes uint, focus int, notes string) (progressdto.PracticeOutput, error) {
	f.session = progressdto.SessionInput{DurationMinutes: minutes, FocusRating: focus, Notes: notes}
	return progressdto.PracticeOutput{Stage: 2, PreviousStage: 1}, nil
}
func (f *fakeProgress) Practice(context.Context) (progressdto.PracticeOutput, error) {
	return progressdto.PracticeOutput{}, nil
}
func (f *fakeProgress) SetStage(_ context.Context, stage int) (progressdto.PracticeOutput, error) {
	return progressdto.PracticeOutput{Stage: stage}, nil
}

type fakeJournal struct{}

func (fakeJournal) Today(context.Context) (journaldto.TodayOutput, error) {
	return journaldto.TodayOutput{Day: 1, Year: 2024}, nil
}
func (fakeJournal) Write(_ context.Context, day, year int, content string) (journaldto.EntryOutput, error) {
	return journaldto.EntryOutput{Day: day, Year: year, Content: content}, nil
}
func (fakeJournal) Search(context.Context, string, int) ([]journaldto.SearchHitOutput, error) {
	return nil, nil
}

func runPalette(t *testing.T, m Model, input string) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.executePalette(input)
	model := next.(Model)
	if cmd == nil {
		return model, nil
	}
	return model, cmd()
}

func TestPaletteLogSessionKeepsNotes(t *testing.T) {
	progress := &fakeProgress{}
	m := NewModel(progress, fakeJournal{})

	m, msg := runPalette(t, m, "practice:log 20 4  calm   mind")
	if m.activeTab != tabPractice {
		t.Fatalf("expected practice tab, got %d", m.activeTab)
	}
	loaded, ok := msg.(practiceview.LoadedMsg)
	if !ok {
		t.Fatalf("expected practice.LoadedMsg, got %T", msg)
	}
	if loaded.Practice.Stage != 2 {
		t.Fatalf("stage = %d", loaded.Practice.Stage)
	}
	if progress.session.DurationMinutes != 20 || progress.session.FocusRating != 4 || progress.session.Notes != "calm mind" {
		t.Fatalf("unexpected session %+v", progress.session)
	}
}

func TestPaletteCompleteRoutesTrack(t *testing.T) {
	progress := &fakeProgress{}
	m := NewModel(progress, fakeJournal{})

	_, msg := runPalette(t, m, "curriculum:complete")
	action, ok := msg.(actionMsg)
	if !ok || action.err != nil {
		t.Fatalf("unexpected msg %#v", msg)
	}
	if len(progress.completed) != 1 || progress.completed[0] != "curriculum" {
		t.Fatalf("completed = %v", progress.completed)
	}
	if progress.days[0] != -1 {
		t.Fatalf("expected current day without an argument, got %v", progress.days)
	}
}

func TestPaletteCompletePassesExplicitDayZero(t *testing.T) {
	progress := &fakeProgress{}
	m := NewModel(progress, fakeJournal{})

	for _, input := range []string{"teaching:complete 0", "teaching:complete 7"} {
		if _, msg := runPalette(t, m, input); msg == nil {
			t.Fatalf("%q produced no command", input)
		}
	}
	if len(progress.days) != 2 || progress.days[0] != 0 || progress.days[1] != 7 {
		t.Fatalf("expected explicit days 0 and 7, got %v", progress.days)
	}
}

func TestPaletteRejectsBadInput(t *testing.T) {
	m := NewModel(&fakeProgress{}, fakeJournal{})

	for input, want := range map[string]string{
		"practice:log ten 3": "invalid minutes",
		"teaching:goto":      "usage: teaching:goto <day>",
		"dance":              "unknown command: dance",
	} {
		got, msg := runPalette(t, m, input)
		if msg != nil {
			t.Fatalf("%q produced a command", input)
		}
		if got.status != want {
			t.Fatalf("%q: status = %q, want %q", input, got.status, want)
		}
	}
}

func TestGlobalKeysYieldWhileEditing(t *testing.T) {
	m := NewModel(&fakeProgress{}, fakeJournal{})
	m.activeTab = tabJournal

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	m = next.(Model)
	if !m.journalView.Editing() {
		t.Fatal("expected journal editor to open")
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(":")})
	m = next.(Model)
	if m.palette.Visible() {
		t.Fatal("palette key must type into the editor")
	}
	if !m.journalView.Editing() {
		t.Fatal("editor closed unexpectedly")
	}
}
