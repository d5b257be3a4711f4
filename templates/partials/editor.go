package partials

import (
	"context"
	"fmt"
	"html"
	"io"

	"letterflow_app_go/models"
	"letterflow_app_go/pagination"

	"github.com/a-h/templ"
)

// Toolbar renders the formatting controls. data-command values match the
// editor buffer's command names; editor.js wires the buttons to the
// selection.
func Toolbar() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="editor-toolbar" id="editor-toolbar">`+
			`<button type="button" data-command="bold" title="Bold"><b>B</b></button>`+
			`<button type="button" data-command="italic" title="Italic"><i>I</i></button>`+
			`<button type="button" data-command="underline" title="Underline"><u>U</u></button>`+
			`<select data-command="heading" title="Heading">`+
			`<option value="">Paragraph</option>`+
			`<option value="1">Heading 1</option>`+
			`<option value="2">Heading 2</option>`+
			`<option value="3">Heading 3</option>`+
			`</select>`+
			`<button type="button" data-command="bullet_list" title="Bulleted list">&bull; List</button>`+
			`<button type="button" data-command="ordered_list" title="Numbered list">1. List</button>`+
			`<button type="button" data-command="blockquote" title="Quote">&ldquo;Quote&rdquo;</button>`+
			`<button type="button" data-command="link" title="Link">Link</button>`+
			`</div>`)
		return err
	})
}

// MarginControls renders the per-side margin inputs. Each change is
// pushed to the server and triggers a pagination recompute client-side.
func MarginControls(letter *models.Letter) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := letter.Margins()
		if _, err := fmt.Fprintf(w,
			`<form class="margin-controls" id="margin-controls" hx-put="/letters/%s/margins" hx-trigger="change" hx-swap="none">`,
			letter.ID); err != nil {
			return err
		}
		sides := []struct {
			name  string
			label string
			value int
		}{
			{"top", "Top", m.Top},
			{"bottom", "Bottom", m.Bottom},
			{"left", "Left", m.Left},
			{"right", "Right", m.Right},
		}
		for _, s := range sides {
			if _, err := fmt.Fprintf(w,
				`<label>%s<input type="number" name="%s" value="%d" min="0" step="4"></label>`,
				s.label, s.name, s.value); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<label>Size<select name="size">`); err != nil {
			return err
		}
		for _, size := range []string{models.PageSizeA4, models.PageSizeLetter, models.PageSizeLegal} {
			selected := ""
			if size == letter.PageSize {
				selected = " selected"
			}
			if _, err := fmt.Fprintf(w, `<option value="%s"%s>%s</option>`, size, selected, size); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</select></label></form>`)
		return err
	})
}

// PageStack renders the paginated editing surface: the page chrome boxes
// behind a single contenteditable surface revealed through the mask.
func PageStack(letter *models.Letter, geo pagination.Geometry, framesHTML, maskCSS string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := geo.Margins
		if _, err := fmt.Fprintf(w,
			`<div class="page-stack" id="page-stack" data-letter-id="%s" data-page-height="%d" data-page-gap="%d" style="height:%dpx;width:%dpx;">`,
			letter.ID, geo.PageHeightPx, geo.PageGapPx, geo.TotalHeight(), geo.PageWidthPx); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<div class="page-frames" id="page-frames">%s</div>`, framesHTML); err != nil {
			return err
		}
		mask := ""
		if maskCSS != "" {
			mask = fmt.Sprintf("-webkit-mask-image:%s;mask-image:%s;", maskCSS, maskCSS)
		}
		// The surface is anchored at the stack origin with the margins as
		// padding, so the mask's stack-axis offsets line up with the
		// surface's own box and content stays inside each page window.
		// Letter content is stored canonical and only ever written by the
		// strict serializer, so it embeds as-is.
		if _, err := fmt.Fprintf(w,
			`<div class="editing-surface" id="editing-surface" contenteditable="true" style="left:0;top:0;width:%dpx;padding:%dpx %dpx 0 %dpx;%s">%s</div>`,
			geo.PageWidthPx, m.Top, m.Right, m.Left, mask, letter.Content); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// SourceList renders the uploaded source documents for a letter
func SourceList(letter *models.Letter, docs []models.SourceDocument) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<ul class="source-list">`); err != nil {
			return err
		}
		if len(docs) == 0 {
			if _, err := io.WriteString(w, `<li class="empty-state">No source documents uploaded.</li>`); err != nil {
				return err
			}
		}
		for _, d := range docs {
			if _, err := fmt.Fprintf(w,
				`<li><a href="/letters/%s/sources/%s/file">%s</a> <span class="file-size">%d KB</span>`+
					`<button hx-delete="/letters/%s/sources/%s" hx-target="#source-list" hx-swap="innerHTML">Remove</button></li>`,
				letter.ID, d.ID, html.EscapeString(d.FileOriginalName), d.FileSize/1024, letter.ID, d.ID); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
}
