package trace

import (
	"charm.land/lipgloss/v2"
)

// Theme styles the parts of a trace line. The zero value leaves the text
// untouched.
type Theme struct {
	Name  lipgloss.Style
	Key   lipgloss.Style
	Value lipgloss.Style
	Other lipgloss.Style

	colored bool
}

var PlainTheme Theme

func ColorTheme() Theme {
	return Theme{
		Name:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Value:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Other:   lipgloss.NewStyle().Faint(true),
		colored: true,
	}
}

func (t Theme) Colored() bool {
	return t.colored
}

func (t Theme) name(str string) string {
	return t.render(t.Name, str)
}

func (t Theme) key(str string) string {
	return t.render(t.Key, str)
}

func (t Theme) value(str string) string {
	return t.render(t.Value, str)
}

func (t Theme) other(str string) string {
	return t.render(t.Other, str)
}

func (t Theme) render(style lipgloss.Style, str string) string {
	if !t.colored {
		return str
	}
	return style.Render(str)
}
