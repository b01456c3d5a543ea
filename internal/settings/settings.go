// Package settings persists the user's display preferences: theme and
// language.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/evcraddock/car-finder/internal/i18n"
)

// Setting keys.
const (
	KeyTheme    = "theme"
	KeyLanguage = "language"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ErrInvalidValue is returned for a theme or language that is not supported.
var ErrInvalidValue = errors.New("invalid setting value")

// Preferences are the user's saved display choices.
type Preferences struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// DefaultPreferences returns light theme, English.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, Language: language.English.String()}
}

// Tag returns the preferred language tag.
func (p Preferences) Tag() language.Tag {
	if tag, ok := i18n.Lookup(p.Language); ok {
		return tag
	}
	return language.English
}

// RTL reports whether the preferred language is right to left.
func (p Preferences) RTL() bool {
	return i18n.IsRTL(p.Tag())
}

// Store is a key-value settings backend.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Service reads and updates preferences through a Store.
type Service struct {
	store Store
}

// NewService creates a settings service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Load returns the saved preferences. Unknown saved values are ignored in
// favour of the defaults.
func (s *Service) Load(ctx context.Context) (Preferences, error) {
	p := DefaultPreferences()

	theme, ok, err := s.store.Get(ctx, KeyTheme)
	if err != nil {
		return p, fmt.Errorf("loading theme: %w", err)
	}
	if ok {
		if validTheme(theme) {
			p.Theme = theme
		} else {
			slog.Warn("ignoring unknown saved theme", "theme", theme)
		}
	}

	lang, ok, err := s.store.Get(ctx, KeyLanguage)
	if err != nil {
		return p, fmt.Errorf("loading language: %w", err)
	}
	if ok {
		if tag, supported := i18n.Lookup(lang); supported {
			p.Language = tag.String()
		} else {
			slog.Warn("ignoring unknown saved language", "language", lang)
		}
	}

	return p, nil
}

// ToggleTheme flips between light and dark, persists and returns the result.
func (s *Service) ToggleTheme(ctx context.Context) (Preferences, error) {
	p, err := s.Load(ctx)
	if err != nil {
		return p, err
	}

	if p.Theme == ThemeDark {
		p.Theme = ThemeLight
	} else {
		p.Theme = ThemeDark
	}

	if err := s.store.Set(ctx, KeyTheme, p.Theme); err != nil {
		return p, fmt.Errorf("saving theme: %w", err)
	}
	return p, nil
}

// SetTheme persists an explicit theme.
func (s *Service) SetTheme(ctx context.Context, theme string) (Preferences, error) {
	if !validTheme(theme) {
		return Preferences{}, fmt.Errorf("theme %q: %w", theme, ErrInvalidValue)
	}
	if err := s.store.Set(ctx, KeyTheme, theme); err != nil {
		return Preferences{}, fmt.Errorf("saving theme: %w", err)
	}
	return s.Load(ctx)
}

// SetLanguage validates lang against the supported languages, persists its
// canonical form and returns the result.
func (s *Service) SetLanguage(ctx context.Context, lang string) (Preferences, error) {
	tag, ok := i18n.Lookup(lang)
	if !ok {
		return Preferences{}, fmt.Errorf("language %q: %w", lang, ErrInvalidValue)
	}
	if err := s.store.Set(ctx, KeyLanguage, tag.String()); err != nil {
		return Preferences{}, fmt.Errorf("saving language: %w", err)
	}
	return s.Load(ctx)
}

func validTheme(t string) bool {
	return t == ThemeLight || t == ThemeDark
}
