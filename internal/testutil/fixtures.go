// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/HerbHall/themeforge/internal/store"
	"github.com/HerbHall/themeforge/pkg/color"
	"github.com/HerbHall/themeforge/pkg/theme"
)

// NewStore opens a SQLite store in a per-test temporary directory and closes
// it when the test ends.
func NewStore(t testing.TB) *store.SQLiteStore {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "themeforge.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// NewSettings returns a migrated settings repository over NewStore.
func NewSettings(t testing.TB) *store.SettingsRepository {
	t.Helper()
	repo, err := store.NewSettingsRepository(context.Background(), NewStore(t))
	if err != nil {
		t.Fatalf("NewSettingsRepository: %v", err)
	}
	return repo
}

// NewTheme returns the default theme with opts applied.
func NewTheme(opts ...func(*theme.Theme)) theme.Theme {
	t := theme.Default()
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// WithName sets the theme name.
func WithName(name string) func(*theme.Theme) {
	return func(t *theme.Theme) { t.Name = name }
}

// WithColorMode sets the color mode.
func WithColorMode(m theme.ColorMode) func(*theme.Theme) {
	return func(t *theme.Theme) { t.ColorMode = m }
}

// WithBrandGroup appends or replaces a brand group built from variants.
func WithBrandGroup(name string, variants ...theme.Variant) func(*theme.Theme) {
	return func(t *theme.Theme) {
		t.BrandColors = t.BrandColors.With(name, theme.NewColorGroup(variants...))
	}
}

// Steps returns numeric variants "100", "200", ... with evenly spaced
// lightness, for building groups quickly.
func Steps(n int, chroma, hue float64) []theme.Variant {
	out := make([]theme.Variant, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, theme.Variant{
			Key:   theme.StepKey(float64(i * theme.StepIncrement)).String(),
			Color: color.New(float64(i)/float64(n+1), chroma, hue),
		})
	}
	return out
}
