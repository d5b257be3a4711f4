package pages

import (
	"context"
	"fmt"
	"html"
	"io"

	"letterflow_app_go/models"
	"letterflow_app_go/templates/layout"
	"letterflow_app_go/templates/partials"

	"github.com/a-h/templ"
)

// Letters renders the letters overview page
func Letters(title string, user *models.User, letters []models.Letter) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<section class="letters-page"><header class="letters-header"><h1>Your letters</h1><p>Signed in as %s</p></header>`,
			html.EscapeString(user.Name)); err != nil {
			return err
		}
		if _, err := io.WriteString(w,
			`<form hx-post="/letters" hx-target="#letter-list" hx-swap="innerHTML" class="letter-create">`+
				`<input type="text" name="title" placeholder="Letter title" required maxlength="200">`+
				`<button type="submit">New letter</button></form>`+
				`<div id="letter-list">`); err != nil {
			return err
		}
		if err := partials.LetterList(letters).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div></section>`)
		return err
	})
	return layout.Base(title, true, body)
}
