package account

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/kushi-labs/kushi/handler"
	"github.com/kushi-labs/kushi/modules/layout"
	"github.com/kushi-labs/kushi/pkg/bootstrap"
	"github.com/kushi-labs/kushi/pkg/theme"
)

// LoginFormParams contains data for rendering the login form.
type LoginFormParams struct {
	Email  string
	Error  string
	Notice string
}

// LoginPageParams contains data for rendering the login page.
type LoginPageParams struct {
	Page bootstrap.Page
	Form LoginFormParams
}

// RegisterFormParams contains data for rendering the registration form.
type RegisterFormParams struct {
	Name   string
	Email  string
	Errors handler.ValidationError
}

// RegisterPageParams contains data for rendering the registration page.
type RegisterPageParams struct {
	Page bootstrap.Page
	Form RegisterFormParams
}

// Views renders the account pages. Any nil field falls back to the
// built-in view.
type Views struct {
	LoginPage    func(LoginPageParams) templ.Component
	LoginForm    func(LoginFormParams) templ.Component
	RegisterPage func(RegisterPageParams) templ.Component
	RegisterForm func(RegisterFormParams) templ.Component

	ErrorPage  func(handler.ErrorPageParams) templ.Component
	ErrorToast func(handler.ErrorToastParams) templ.Component
}

// DefaultViews returns the built-in views.
func DefaultViews() Views {
	return Views{
		LoginPage:    loginPage,
		LoginForm:    loginForm,
		RegisterPage: registerPage,
		RegisterForm: registerForm,
		ErrorPage:    errorPage,
		ErrorToast:   errorToast,
	}
}

func (v Views) withDefaults() Views {
	d := DefaultViews()
	if v.LoginPage == nil {
		v.LoginPage = d.LoginPage
	}
	if v.LoginForm == nil {
		v.LoginForm = d.LoginForm
	}
	if v.RegisterPage == nil {
		v.RegisterPage = d.RegisterPage
	}
	if v.RegisterForm == nil {
		v.RegisterForm = d.RegisterForm
	}
	if v.ErrorPage == nil {
		v.ErrorPage = d.ErrorPage
	}
	if v.ErrorToast == nil {
		v.ErrorToast = d.ErrorToast
	}
	return v
}

func loginPage(p LoginPageParams) templ.Component {
	return layout.Page("Log in", p.Page.Appearance, loginForm(p.Form))
}

func loginForm(p LoginFormParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return layout.Write(w,
			`<form id="login-form" method="post" action="/login" data-on-submit__prevent="@post('/login', {contentType: 'form'})">`,
			`<h1>Log in</h1>`,
			message("notice", p.Notice),
			message("error", p.Error),
			`<label>Email <input type="email" name="email" value="`, templ.EscapeString(p.Email), `" required></label>`,
			`<label>Password <input type="password" name="password" required></label>`,
			`<label><input type="checkbox" name="remember"> Remember me</label>`,
			`<button type="submit">Log in</button>`,
			`<p>No account yet? <a href="/register">Register</a></p>`,
			`</form>`,
		)
	})
}

func registerPage(p RegisterPageParams) templ.Component {
	return layout.Page("Register", p.Page.Appearance, registerForm(p.Form))
}

func registerForm(p RegisterFormParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return layout.Write(w,
			`<form id="register-form" method="post" action="/register" data-on-submit__prevent="@post('/register', {contentType: 'form'})">`,
			`<h1>Create an account</h1>`,
			`<label>Name <input type="text" name="name" value="`, templ.EscapeString(p.Name), `"></label>`,
			`<label>Email <input type="email" name="email" value="`, templ.EscapeString(p.Email), `" required></label>`,
			fieldError(p.Errors, "email"),
			`<label>Password <input type="password" name="password" required></label>`,
			fieldError(p.Errors, "password"),
			`<label>Confirm password <input type="password" name="confirm_password" required></label>`,
			fieldError(p.Errors, "confirm_password"),
			`<button type="submit">Register</button>`,
			`<p>Already registered? <a href="/login">Log in</a></p>`,
			`</form>`,
		)
	})
}

func errorPage(p handler.ErrorPageParams) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return layout.Write(w,
			`<section class="error-page"><h1>`, templ.EscapeString(p.Error), `</h1>`,
			`<p><a href="`, templ.EscapeString(p.RetryURL), `">Try again</a></p>`,
			`<small>Request ID: `, templ.EscapeString(p.RequestID), `</small></section>`,
		)
	})
	return layout.Page("Error", bootstrap.AppearanceOf(theme.Default), body)
}

func errorToast(p handler.ErrorToastParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return layout.Write(w,
			`<div class="toast toast-`, templ.EscapeString(p.Type), `" role="alert">`,
			templ.EscapeString(p.Message),
			`</div>`,
		)
	})
}

func message(class, text string) string {
	if text == "" {
		return ""
	}
	return `<p class="` + class + `" role="status">` + templ.EscapeString(text) + `</p>`
}

func fieldError(errs handler.ValidationError, field string) string {
	if !errs.Has(field) {
		return ""
	}
	return `<p class="field-error" data-field="` + field + `">` + templ.EscapeString(errs.Get(field)) + `</p>`
}
