package domain

import (
	"fmt"
	"regexp"
	"strings"
)

type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

type TextSize string

const (
	TextSmall  TextSize = "small"
	TextMedium TextSize = "medium"
	TextLarge  TextSize = "large"
)

var reminderTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type Preferences struct {
	Theme           Theme    `json:"theme"`
	TextSize        TextSize `json:"textSize"`
	ShowSanskrit    bool     `json:"showSanskrit"`
	ReminderEnabled bool     `json:"reminderEnabled"`
	ReminderTime    string   `json:"reminderTime"`
	DefaultLens     string   `json:"defaultLens"`
	SessionMinutes  uint     `json:"sessionMinutes"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:          ThemeSystem,
		TextSize:       TextMedium,
		ShowSanskrit:   true,
		ReminderTime:   "07:00",
		SessionMinutes: 20,
	}
}

func (t Theme) Validate() error {
	switch t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return nil
	default:
		return fmt.Errorf("unsupported theme %q", string(t))
	}
}

func (s TextSize) Validate() error {
	switch s {
	case TextSmall, TextMedium, TextLarge:
		return nil
	default:
		return fmt.Errorf("unsupported text size %q", string(s))
	}
}

func (p Preferences) Validate() error {
	if err := p.Theme.Validate(); err != nil {
		return err
	}
	if err := p.TextSize.Validate(); err != nil {
		return err
	}
	if !reminderTimePattern.MatchString(p.ReminderTime) {
		return fmt.Errorf("reminder time %q must be HH:MM", p.ReminderTime)
	}
	return nil
}

// PreferencesPatch carries only the fields the caller wants to change.
type PreferencesPatch struct {
	Theme           *Theme
	TextSize        *TextSize
	ShowSanskrit    *bool
	ReminderEnabled *bool
	ReminderTime    *string
	DefaultLens     *string
	SessionMinutes  *uint
}

func (p Preferences) Apply(patch PreferencesPatch) (Preferences, error) {
	next := p
	if patch.Theme != nil {
		next.Theme = Theme(strings.ToLower(string(*patch.Theme)))
	}
	if patch.TextSize != nil {
		next.TextSize = TextSize(strings.ToLower(string(*patch.TextSize)))
	}
	if patch.ShowSanskrit != nil {
		next.ShowSanskrit = *patch.ShowSanskrit
	}
	if patch.ReminderEnabled != nil {
		next.ReminderEnabled = *patch.ReminderEnabled
	}
	if patch.ReminderTime != nil {
		next.ReminderTime = strings.TrimSpace(*patch.ReminderTime)
	}
	if patch.DefaultLens != nil {
		next.DefaultLens = NormalizeLens(*patch.DefaultLens)
	}
	if patch.SessionMinutes != nil {
		next.SessionMinutes = *patch.SessionMinutes
	}
	if err := next.Validate(); err != nil {
		return p, err
	}
	return next, nil
}

// normalize resets fields holding values outside their enum to defaults.
func (p Preferences) normalize() Preferences {
	def := DefaultPreferences()
	if p.Theme.Validate() != nil {
		p.Theme = def.Theme
	}
	if p.TextSize.Validate() != nil {
		p.TextSize = def.TextSize
	}
	if !reminderTimePattern.MatchString(p.ReminderTime) {
		p.ReminderTime = def.ReminderTime
	}
	return p
}
