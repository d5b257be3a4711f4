package pages

import (
	"context"
	"fmt"
	"html"
	"io"

	"letterflow_app_go/templates/layout"

	"github.com/a-h/templ"
)

// Login renders the sign-in page
func Login(title string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="auth-card"><h1>Sign in</h1>`+
			`<form hx-post="/login" hx-target="#auth-message" hx-swap="innerHTML">`+
			`<div id="auth-message"></div>`+
			`<label>Email<input type="email" name="email" required autofocus></label>`+
			`<label>Password<input type="password" name="password" required></label>`+
			`<button type="submit">Sign in</button>`+
			`</form>`+
			`<p><a href="/forgot-password">Forgot your password?</a> &middot; <a href="/register">Create an account</a></p>`+
			`</section>`)
		return err
	})
	return layout.Base(title, false, body)
}

// Register renders the account sign-up page
func Register(title string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="auth-card"><h1>Create an account</h1>`+
			`<form hx-post="/register" hx-target="#auth-message" hx-swap="innerHTML">`+
			`<div id="auth-message"></div>`+
			`<label>Name<input type="text" name="name" required autofocus></label>`+
			`<label>Email<input type="email" name="email" required></label>`+
			`<label>Password<input type="password" name="password" required minlength="10"></label>`+
			`<button type="submit">Create account</button>`+
			`</form>`+
			`<p><a href="/login">Already have an account? Sign in</a></p>`+
			`</section>`)
		return err
	})
	return layout.Base(title, false, body)
}

// ForgotPassword renders the reset-request page
func ForgotPassword(title string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="auth-card"><h1>Reset your password</h1>`+
			`<form hx-post="/forgot-password" hx-target="#auth-message" hx-swap="innerHTML">`+
			`<div id="auth-message"></div>`+
			`<label>Email<input type="email" name="email" required autofocus></label>`+
			`<button type="submit">Send reset link</button>`+
			`</form>`+
			`<p><a href="/login">Back to sign in</a></p>`+
			`</section>`)
		return err
	})
	return layout.Base(title, false, body)
}

// ResetPassword renders the new-password form for a reset token
func ResetPassword(title, token string, tokenValid bool) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !tokenValid {
			_, err := io.WriteString(w, `<section class="auth-card"><h1>Link expired</h1>`+
				`<p>This password reset link is invalid or has expired.</p>`+
				`<p><a href="/forgot-password">Request a new link</a></p></section>`)
			return err
		}
		_, err := fmt.Fprintf(w, `<section class="auth-card"><h1>Choose a new password</h1>`+
			`<form hx-post="/reset-password" hx-target="#auth-message" hx-swap="innerHTML">`+
			`<div id="auth-message"></div>`+
			`<input type="hidden" name="token" value="%s">`+
			`<label>New password<input type="password" name="password" required minlength="10"></label>`+
			`<label>Confirm password<input type="password" name="password_confirm" required minlength="10"></label>`+
			`<button type="submit">Reset password</button>`+
			`</form></section>`, html.EscapeString(token))
		return err
	})
	return layout.Base(title, false, body)
}
