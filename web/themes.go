package web

import (
	"errors"
	"slices"

	"github.com/amonks/todolist/internal/validation"
)

// ErrUnknownTheme is returned for theme names outside Themes.
var ErrUnknownTheme = errors.New("unknown theme")

// DefaultTheme is the theme used when none is configured.
const DefaultTheme = "default"

type themeOption struct {
	Value string
	Label string
}

var themeOptions = []themeOption{
	{Value: "default", Label: "Default Theme"},
	{Value: "minimalist", Label: "Minimalist"},
	{Value: "playful", Label: "Playful"},
	{Value: "productivity", Label: "Productivity"},
	{Value: "productivity-blue", Label: "Productivity Blue"},
	{Value: "productivity-kanban", Label: "Productivity Kanban"},
	{Value: "productivity-analytics", Label: "Productivity Analytics"},
	{Value: "productivity-minimal", Label: "Productivity Minimal"},
	{Value: "productivity-team", Label: "Productivity Team"},
}

// Themes returns the names of the available themes.
func Themes() []string {
	names := make([]string, 0, len(themeOptions))
	for _, option := range themeOptions {
		names = append(names, option.Value)
	}
	return names
}

// ValidTheme reports whether name is a known theme.
func ValidTheme(name string) bool {
	return slices.Contains(Themes(), name)
}

func normalizeTheme(name string) (string, error) {
	if name == "" {
		return DefaultTheme, nil
	}
	if !ValidTheme(name) {
		return "", validation.FormatInvalidValueError(ErrUnknownTheme, name, Themes())
	}
	return name, nil
}
