package models

import "strings"

// Theme is the aesthetic label attached to a recommendation batch
type Theme string

const (
	ThemeCozy   Theme = "cozy"
	ThemeModern Theme = "modern"
	ThemeGothic Theme = "gothic"
	ThemeNature Theme = "nature"
	ThemeUrban  Theme = "urban"

	DefaultTheme = ThemeCozy
)

// Themes lists every valid theme in prompt order
var Themes = []Theme{ThemeCozy, ThemeModern, ThemeGothic, ThemeNature, ThemeUrban}

// ParseTheme lower-cases and validates a theme label.
// Anything outside the fixed set maps to DefaultTheme.
func ParseTheme(s string) Theme {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t
	}
	return DefaultTheme
}

// Valid reports whether t is one of the fixed themes
func (t Theme) Valid() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}
