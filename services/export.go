package services

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"letterflow_app_go/models"
	"letterflow_app_go/pagination"
	"letterflow_app_go/richtext"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportLetterDOC renders a letter as a Word-compatible .doc file
// (HTML with Word page setup). Word honors the @page rule, so the
// exported document carries the letter's own margins.
func ExportLetterDOC(letter *models.Letter) ([]byte, error) {
	doc, err := richtext.Parse(letter.Content)
	if err != nil {
		return nil, fmt.Errorf("letter content is not parseable: %w", err)
	}

	v := &wordVisitor{}
	doc.Walk(v)

	m := letter.Margins()
	var b strings.Builder
	b.WriteString(`<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:w="urn:schemas-microsoft-com:office:word" xmlns="http://www.w3.org/TR/REC-html40">`)
	b.WriteString(`<head><meta charset="utf-8"><title>`)
	b.WriteString(html.EscapeString(letter.Title))
	b.WriteString(`</title>`)
	// Editor pixels are 96dpi; Word wants points (72dpi)
	fmt.Fprintf(&b,
		`<style>@page { size: A4; margin: %.1fpt %.1fpt %.1fpt %.1fpt; } %s</style>`,
		pxToPt(m.Top), pxToPt(m.Right), pxToPt(m.Bottom), pxToPt(m.Left),
		letterDocumentCSS,
	)
	b.WriteString(`<!--[if gte mso 9]><xml><w:WordDocument><w:View>Print</w:View></w:WordDocument></xml><![endif]-->`)
	b.WriteString(`</head><body>`)
	b.WriteString(v.html.String())
	b.WriteString(`</body></html>`)

	return []byte(b.String()), nil
}

func pxToPt(px int) float64 {
	return float64(px) * 72.0 / 96.0
}

// wordVisitor renders the document tree as the HTML subset Word reads
type wordVisitor struct {
	html strings.Builder
}

func (v *wordVisitor) BlockStart(b *richtext.Block) {
	switch b.Type {
	case richtext.Heading:
		fmt.Fprintf(&v.html, "<h%d>", b.Level)
	case richtext.BulletList:
		v.html.WriteString("<ul>")
	case richtext.OrderedList:
		v.html.WriteString("<ol>")
	case richtext.Blockquote:
		v.html.WriteString("<blockquote>")
	default:
		v.html.WriteString("<p>")
	}
}

func (v *wordVisitor) ListItemStart(b *richtext.Block, index int) {
	v.html.WriteString("<li>")
}

func (v *wordVisitor) Text(s richtext.Span) {
	var open, closing string
	if s.Marks.Link != "" {
		open += fmt.Sprintf(`<a href="%s">`, html.EscapeString(s.Marks.Link))
		closing = "</a>" + closing
	}
	if s.Marks.Bold {
		open += "<b>"
		closing = "</b>" + closing
	}
	if s.Marks.Italic {
		open += "<i>"
		closing = "</i>" + closing
	}
	if s.Marks.Underline {
		open += "<u>"
		closing = "</u>" + closing
	}
	v.html.WriteString(open)
	v.html.WriteString(html.EscapeString(s.Text))
	v.html.WriteString(closing)
}

func (v *wordVisitor) ListItemEnd(b *richtext.Block, index int) {
	v.html.WriteString("</li>")
}

func (v *wordVisitor) BlockEnd(b *richtext.Block) {
	switch b.Type {
	case richtext.Heading:
		fmt.Fprintf(&v.html, "</h%d>", b.Level)
	case richtext.BulletList:
		v.html.WriteString("</ul>")
	case richtext.OrderedList:
		v.html.WriteString("</ol>")
	case richtext.Blockquote:
		v.html.WriteString("</blockquote>")
	default:
		v.html.WriteString("</p>")
	}
}

// ExportLettersRegister builds an Excel workbook listing all of a user's
// letters with their status, page counts and export history.
func ExportLettersRegister(db *gorm.DB, userID string) (*bytes.Buffer, error) {
	letters, err := ListLetters(db, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Letters"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Title", "Status", "Pages", "Created", "Updated", "Last Exported"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	f.SetCellStyle(sheet, "A1", "F1", headerStyle)

	for row, letter := range letters {
		r := row + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), letter.Title)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), letter.Status)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), estimatePageCount(&letter))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), letter.CreatedAt.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", r), letter.UpdatedAt.Format("2006-01-02"))
		if letter.LastExportedAt != nil {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", r), letter.LastExportedAt.Format("2006-01-02"))
		} else {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", r), "never")
		}
	}

	f.SetColWidth(sheet, "A", "A", 40)
	f.SetColWidth(sheet, "B", "F", 14)

	return f.WriteToBuffer()
}

// EstimateContentHeight approximates the rendered height of a document
// without a browser: lines of plain text at the editor's line height.
// Headless-Chrome measurement is the accurate path; this estimate seeds
// the initial server render.
func EstimateContentHeight(doc *richtext.Doc) int {
	const lineHeightPx = 24 // 16px font at 1.5 line height
	lines := strings.Count(doc.PlainText(), "\n") + 1
	return lines * lineHeightPx
}

func estimatePageCount(letter *models.Letter) int {
	doc, err := richtext.Parse(letter.Content)
	if err != nil {
		return 1
	}
	geo := pagination.Compute(EstimateContentHeight(doc), letter.Margins(), letter.PageOptions())
	return geo.PageCount
}
