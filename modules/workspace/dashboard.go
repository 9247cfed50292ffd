package workspace

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/kushi-labs/kushi/handler"
	"github.com/kushi-labs/kushi/modules/layout"
	"github.com/kushi-labs/kushi/pkg/auth"
	"github.com/kushi-labs/kushi/pkg/bootstrap"
	"github.com/kushi-labs/kushi/pkg/logger"
	"github.com/kushi-labs/kushi/pkg/session"
	"github.com/kushi-labs/kushi/pkg/theme"
)

// AppearanceFunc resolves the appearance of the client making r.
type AppearanceFunc func(w http.ResponseWriter, r *http.Request) (bootstrap.Appearance, error)

func defaultAppearance(http.ResponseWriter, *http.Request) (bootstrap.Appearance, error) {
	return bootstrap.AppearanceOf(theme.Default), nil
}

// DashboardParams contains data for rendering the dashboard.
type DashboardParams struct {
	Appearance bootstrap.Appearance
	UserName   string
	Data       *Data
}

// Dashboard serves the dashboard page. Mount it behind
// session.Manager.RequireAuth, which puts the session in the context. The
// greeting falls back to the email when no display name was stored.
func (s *Service) Dashboard() http.HandlerFunc {
	return handler.Wrap(s.dashboard)
}

func (s *Service) dashboard(ctx handler.Context, _ struct{}) handler.Response {
	appearance, err := s.appearance(ctx.ResponseWriter(), ctx.Request())
	if err != nil {
		s.logger.WarnContext(ctx, "failed to resolve appearance",
			logger.Component("workspace"),
			logger.Error(err),
		)
	}

	var name string
	if sess, ok := session.FromContext(ctx); ok {
		name, _ = sess.Get(auth.SessionUserNameKey)
	}
	if name == "" {
		name, _ = session.UserFromContext(ctx)
	}

	return handler.Templ(DashboardPage(DashboardParams{
		Appearance: appearance,
		UserName:   name,
		Data:       s.data,
	}))
}

// DashboardPage renders the dashboard document.
func DashboardPage(p DashboardParams) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := layout.Write(w,
			`<header><h1>Welcome, `, templ.EscapeString(p.UserName), `</h1>`,
			`<form method="post" action="/logout"><button type="submit">Log out</button></form></header>`,
			`<nav id="modules"><ul>`,
		); err != nil {
			return err
		}
		for _, n := range p.Data.Nav {
			if err := layout.Write(w,
				`<li id="nav-`, templ.EscapeString(n.ID), `"><a href="`, templ.EscapeString(n.Path), `">`,
				templ.EscapeString(n.Label), `</a></li>`,
			); err != nil {
				return err
			}
		}
		if err := layout.Write(w, `</ul></nav><section id="files"><h2>Files</h2><ul>`); err != nil {
			return err
		}
		for _, name := range p.Data.FileNames() {
			if err := layout.Write(w, `<li>`, templ.EscapeString(name), `</li>`); err != nil {
				return err
			}
		}
		if err := layout.Write(w, `</ul></section><section id="timeline"><h2>Timeline</h2><ol>`); err != nil {
			return err
		}
		for _, e := range p.Data.Timeline {
			if err := layout.Write(w,
				`<li><time>`, templ.EscapeString(e.Date), `</time> <strong>`, templ.EscapeString(e.Title),
				`</strong> `, templ.EscapeString(e.Description), `</li>`,
			); err != nil {
				return err
			}
		}
		if err := layout.Write(w, `</ol></section><section id="commits"><h2>Commits</h2><ul>`); err != nil {
			return err
		}
		for _, c := range p.Data.Commits {
			if err := layout.Write(w,
				`<li><code>`, templ.EscapeString(c.Hash), `</code> `, templ.EscapeString(c.Message),
				` <em>`, templ.EscapeString(c.Author), `</em></li>`,
			); err != nil {
				return err
			}
		}
		return layout.Write(w, `</ul></section>`)
	})
	return layout.Page("Dashboard", p.Appearance, body)
}
