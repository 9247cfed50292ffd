// Package bootstrap computes the per-page state every rendered page starts
// from: the appearance derived from the stored theme and the email
// remembered by an earlier "remember me" login.
package bootstrap

import (
	"context"

	"github.com/kushi-labs/kushi/pkg/auth"
	"github.com/kushi-labs/kushi/pkg/kv"
	"github.com/kushi-labs/kushi/pkg/theme"
)

// Appearance is what the page applies for the current theme.
type Appearance struct {
	Theme      theme.Theme `json:"theme"`
	RootClass  string      `json:"root_class"`
	ToggleIcon string      `json:"toggle_icon"`
}

// Page is the state a page is rendered with.
type Page struct {
	Appearance      Appearance
	RememberedEmail string
}

// AppearanceOf derives the presentation of t.
func AppearanceOf(t theme.Theme) Appearance {
	return Appearance{
		Theme:      t,
		RootClass:  t.RootClass(),
		ToggleIcon: t.ToggleIcon(),
	}
}

// Load reads the client's durable storage once, before the page is served.
func Load(ctx context.Context, durable kv.Store) (Page, error) {
	t, err := theme.Current(ctx, durable)
	if err != nil {
		return Page{Appearance: AppearanceOf(theme.Default)}, err
	}
	email, err := auth.RememberedEmail(ctx, durable)
	if err != nil {
		return Page{Appearance: AppearanceOf(t)}, err
	}
	return Page{Appearance: AppearanceOf(t), RememberedEmail: email}, nil
}

// ToggleTheme flips and persists the theme, returning the new appearance.
func ToggleTheme(ctx context.Context, durable kv.Store) (Appearance, error) {
	t, err := theme.Toggle(ctx, durable)
	return AppearanceOf(t), err
}
