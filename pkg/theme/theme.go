package theme

import (
	"context"
	"fmt"

	"github.com/kushi-labs/kushi/pkg/kv"
)

// Key is the durable storage key holding the preference.
const Key = "theme"

// Theme is either Light or Dark.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Default is used when nothing valid is stored.
const Default = Light

// Parse maps a stored value to a Theme, falling back to Default.
func Parse(s string) Theme {
	switch Theme(s) {
	case Dark:
		return Dark
	case Light:
		return Light
	default:
		return Default
	}
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// RootClass is the class applied to the document root.
func (t Theme) RootClass() string {
	if t == Dark {
		return "dark-theme"
	}
	return ""
}

// ToggleIcon is the icon shown on the toggle control: the sun switches
// back to light, the moon switches to dark.
func (t Theme) ToggleIcon() string {
	if t == Dark {
		return "☀️"
	}
	return "🌙"
}

func (t Theme) String() string { return string(t) }

// Current reads the stored preference.
func Current(ctx context.Context, store kv.Store) (Theme, error) {
	v, ok, err := kv.Lookup(ctx, store, Key)
	if err != nil {
		return Default, fmt.Errorf("theme: read preference: %w", err)
	}
	if !ok {
		return Default, nil
	}
	return Parse(v), nil
}

// Save persists t.
func Save(ctx context.Context, store kv.Store, t Theme) error {
	if err := store.Set(ctx, Key, Parse(string(t)).String()); err != nil {
		return fmt.Errorf("theme: save preference: %w", err)
	}
	return nil
}

// Toggle flips the stored preference and returns the new theme.
func Toggle(ctx context.Context, store kv.Store) (Theme, error) {
	cur, err := Current(ctx, store)
	if err != nil {
		return cur, err
	}
	next := cur.Opposite()
	if err := Save(ctx, store, next); err != nil {
		return cur, err
	}
	return next, nil
}
