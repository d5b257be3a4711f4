package layout

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// Base wraps page content with the shared document shell: head, htmx,
// stylesheet, and the top navigation when a user is signed in.
func Base(title string, authenticated bool, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title><script src="https://unpkg.com/htmx.org@1.9.12"></script><script src="/static/js/editor.js" defer></script><link rel="stylesheet" href="/static/css/app.css"></head><body>`,
			html.EscapeString(title)); err != nil {
			return err
		}
		if authenticated {
			if _, err := io.WriteString(w, navHTML); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<main class="app-main">`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

const navHTML = `<nav class="app-nav"><a href="/letters" class="app-nav-brand">LetterFlow</a><div class="app-nav-links"><a href="/letters">Letters</a><a href="/letters/export/register">Register</a><form method="POST" action="/logout" class="inline"><button type="submit">Sign out</button></form></div></nav>`
