package services

import (
	"context"
	"fmt"

	"letterflow_app_go/models"
	"letterflow_app_go/pagination"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFOptions contains options for PDF generation. Margins are pixels at
// 96dpi, matching the editor's page settings.
type PDFOptions struct {
	PageOrientation string // portrait, landscape
	PageSize        string // letter, legal, A4
	Margins         pagination.Margins
}

// DefaultPDFOptions returns A4 portrait with the editor's default margins
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageOrientation: "portrait",
		PageSize:        "A4",
		Margins:         pagination.DefaultMargins(),
	}
}

// GeneratePDF renders HTML content to PDF using headless Chrome
func GeneratePDF(htmlContent string, options PDFOptions) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Check for custom Chrome path (for headless-shell in Docker)
	if chromePath := getChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var paperWidth, paperHeight float64
	switch options.PageSize {
	case "legal":
		paperWidth = 8.5
		paperHeight = 14.0
	case "letter":
		paperWidth = 8.5
		paperHeight = 11.0
	default: // A4
		paperWidth = 8.27
		paperHeight = 11.69
	}

	if options.PageOrientation == "landscape" {
		paperWidth, paperHeight = paperHeight, paperWidth
	}

	// Convert editor pixels (96dpi) to inches for Chrome's print margins
	m := options.Margins.Clamped()
	marginTop := float64(m.Top) / 96.0
	marginBottom := float64(m.Bottom) / 96.0
	marginLeft := float64(m.Left) / 96.0
	marginRight := float64(m.Right) / 96.0

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		// Wait for content to render
		chromedp.Sleep(100),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTop).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithMarginRight(marginRight).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}

// WrapLetterHTML wraps letter content with the document typography used
// by the editor, so the printed output matches the on-screen pages.
func WrapLetterHTML(letterHTML string) string {
	return fmt.Sprintf(
		`<!DOCTYPE html><html><head><meta charset="utf-8"><style>%s</style></head><body>%s</body></html>`,
		letterDocumentCSS, letterHTML,
	)
}

// GenerateLetterPDF is a convenience that wraps letter content and
// renders it with the letter's own page size and margins.
func GenerateLetterPDF(letter *models.Letter) ([]byte, error) {
	options := DefaultPDFOptions()
	options.PageSize = letter.PageSize
	options.Margins = letter.Margins()
	return GeneratePDF(WrapLetterHTML(letter.Content), options)
}
