// ABOUTME: Persisted UI theme preference.
// ABOUTME: Stored under its own key, separate from prompt data.

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour/styles"
)

// Theme is the display preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme accepts "dark" or "light".
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	}
	return "", fmt.Errorf("unknown theme %q: use dark or light", s)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// GlamourStyle names the glamour standard style for t.
func (t Theme) GlamourStyle() string {
	if t == ThemeLight {
		return styles.LightStyle
	}
	return styles.DarkStyle
}

// themeSlot is the storage port, satisfied by kv.Slot.
type themeSlot interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// ThemeStore reads and writes the theme preference.
type ThemeStore struct {
	slot themeSlot
}

func NewThemeStore(slot themeSlot) *ThemeStore {
	return &ThemeStore{slot: slot}
}

// Get returns the stored theme, or dark when unset or unrecognized.
func (s *ThemeStore) Get() (Theme, error) {
	data, err := s.slot.Load()
	if err != nil {
		return ThemeDark, err
	}
	t, err := ParseTheme(string(data))
	if err != nil {
		return ThemeDark, nil
	}
	return t, nil
}

func (s *ThemeStore) Set(t Theme) error {
	return s.slot.Save([]byte(t))
}

// Toggle flips and stores the theme, returning the new value.
func (s *ThemeStore) Toggle() (Theme, error) {
	cur, err := s.Get()
	if err != nil {
		return cur, err
	}
	next := cur.Toggle()
	return next, s.Set(next)
}
