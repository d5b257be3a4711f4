package partials

import (
	"context"
	"fmt"
	"html"
	"io"

	"letterflow_app_go/models"

	"github.com/a-h/templ"
)

// LetterList renders the letters table body, swapped by htmx after
// create and delete actions.
func LetterList(letters []models.Letter) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(letters) == 0 {
			_, err := io.WriteString(w, `<p class="empty-state">No letters yet. Create one to get started.</p>`)
			return err
		}
		if _, err := io.WriteString(w, `<table class="letter-table"><thead><tr><th>Title</th><th>Status</th><th>Updated</th><th></th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, l := range letters {
			if _, err := fmt.Fprintf(w,
				`<tr><td><a href="/letters/%s/edit">%s</a></td><td><span class="status status-%s">%s</span></td><td>%s</td>`+
					`<td><button hx-delete="/letters/%s" hx-confirm="Delete this letter?" hx-target="#letter-list" hx-swap="innerHTML">Delete</button></td></tr>`,
				l.ID, html.EscapeString(l.Title), l.Status, l.Status, l.UpdatedAt.Format("Jan 2, 2006"), l.ID); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table>`)
		return err
	})
}
