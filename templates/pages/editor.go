package pages

import (
	"context"
	"fmt"
	"html"
	"io"

	"letterflow_app_go/models"
	"letterflow_app_go/pagination"
	"letterflow_app_go/templates/layout"
	"letterflow_app_go/templates/partials"

	"github.com/a-h/templ"
)

// Editor renders the paginated letter editor. The initial page chrome is
// server-rendered from the given geometry; editor.js re-measures after
// load and keeps the chrome in sync through the pagination endpoint.
func Editor(title string, letter *models.Letter, docs []models.SourceDocument, geo pagination.Geometry, framesHTML, maskCSS string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<section class="editor-page"><header class="editor-header"><h1>%s</h1>`+
				`<span class="status status-%s">%s</span>`+
				`<span class="page-count" id="page-count">%d page(s)</span></header>`,
			html.EscapeString(letter.Title), letter.Status, letter.Status, geo.PageCount); err != nil {
			return err
		}

		if err := partials.Toolbar().Render(ctx, w); err != nil {
			return err
		}
		if err := partials.MarginControls(letter).Render(ctx, w); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<div class="editor-body">`); err != nil {
			return err
		}
		if err := partials.PageStack(letter, geo, framesHTML, maskCSS).Render(ctx, w); err != nil {
			return err
		}

		// Sidebar: sources, drafting, export
		if _, err := fmt.Fprintf(w, `<aside class="editor-sidebar">`+
			`<h2>Source documents</h2>`+
			`<form hx-post="/letters/%s/sources" hx-target="#source-list" hx-swap="innerHTML" hx-encoding="multipart/form-data">`+
			`<input type="file" name="file" accept="application/pdf" required>`+
			`<button type="submit">Upload PDF</button></form>`+
			`<div id="source-list">`, letter.ID); err != nil {
			return err
		}
		if err := partials.SourceList(letter, docs).Render(ctx, w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `</div>`+
			`<h2>AI draft</h2>`+
			`<form hx-post="/letters/%s/draft" hx-target="#editing-surface" hx-swap="innerHTML">`+
			`<textarea name="instructions" rows="5" placeholder="Describe the letter to draft">%s</textarea>`+
			`<button type="submit">Generate draft</button></form>`+
			`<h2>Export</h2>`+
			`<div class="export-actions">`+
			`<a href="/letters/%s/export/pdf" class="button">PDF</a>`+
			`<a href="/letters/%s/export/doc" class="button">Word (.doc)</a>`+
			`</div>`+
			`</aside></div></section>`,
			letter.ID, html.EscapeString(letter.Instructions), letter.ID, letter.ID); err != nil {
			return err
		}
		return nil
	})
	return layout.Base(title, true, body)
}
