// Package layout renders the page shell shared by the account and
// workspace modules: the root element carrying the theme class and the
// theme toggle button.
package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/kushi-labs/kushi/pkg/bootstrap"
)

// ThemeToggleID is the element id of the theme toggle form.
const ThemeToggleID = "theme-toggle"

// ThemeTogglePath is the endpoint the toggle button posts to.
const ThemeTogglePath = "/theme/toggle"

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"

// Page wraps body in the document shell for appearance.
func Page(title string, appearance bootstrap.Appearance, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Write(w,
			`<!DOCTYPE html><html lang="en"`, classAttr(appearance.RootClass), `>`,
			`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, templ.EscapeString(title), ` · Kushi</title>`,
			`<script type="module" src="`, datastarScript, `"></script></head><body>`,
		); err != nil {
			return err
		}
		if err := ThemeToggle(appearance).Render(ctx, w); err != nil {
			return err
		}
		if err := Write(w, `<main id="content">`); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		return Write(w, `</main><div id="toast-container"></div></body></html>`)
	})
}

// ThemeToggle renders the toggle button showing the icon for appearance.
func ThemeToggle(appearance bootstrap.Appearance) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return Write(w,
			`<form id="`, ThemeToggleID, `" method="post" action="`, ThemeTogglePath, `">`,
			`<button type="submit" data-on-click__prevent="@post('`, ThemeTogglePath, `')"`,
			` data-theme="`, templ.EscapeString(appearance.Theme.String()), `">`,
			templ.EscapeString(appearance.ToggleIcon),
			`</button></form>`,
		)
	})
}

// Write writes parts in order, stopping at the first error. Parts are
// written verbatim; escape user data with templ.EscapeString.
func Write(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}

func classAttr(class string) string {
	if class == "" {
		return ""
	}
	return ` class="` + templ.EscapeString(class) + `"`
}
