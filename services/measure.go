package services

import (
	"context"
	"fmt"
	"os"

	"letterflow_app_go/pagination"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// getChromePath returns the Chrome executable path from environment variable
func getChromePath() string {
	return os.Getenv("CHROME_PATH")
}

// letterDocumentCSS is the typography shared by measurement and PDF
// export, matching the editor's rendering so heights line up.
const letterDocumentCSS = `
	body { font-family: Georgia, 'Times New Roman', serif; font-size: 16px; line-height: 1.5; color: #1a1a1a; margin: 0; }
	p { margin: 0 0 1em 0; }
	h1 { font-size: 1.75em; margin: 0 0 0.5em 0; }
	h2 { font-size: 1.5em; margin: 0 0 0.5em 0; }
	h3 { font-size: 1.25em; margin: 0 0 0.5em 0; }
	h4, h5, h6 { font-size: 1em; margin: 0 0 0.5em 0; }
	ul, ol { margin: 0 0 1em 0; padding-left: 1.5em; }
	blockquote { margin: 0 0 1em 0; padding-left: 1em; border-left: 3px solid #ccc; color: #444; }
	a { color: #1d4ed8; }
`

// MeasureContentHeight renders letter content in headless Chrome at the
// given content width and returns the laid-out height in pixels. The
// width should be the page width minus horizontal margins.
func MeasureContentHeight(ctx context.Context, letterHTML string, contentWidthPx int) (int, error) {
	if contentWidthPx < 1 {
		contentWidthPx = 1
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if chromePath := getChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	html := fmt.Sprintf(
		`<!DOCTYPE html><html><head><meta charset="utf-8"><style>%s body { width: %dpx; }</style></head><body>%s</body></html>`,
		letterDocumentCSS, contentWidthPx, letterHTML,
	)

	var height int
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.Sleep(100),
		chromedp.Evaluate(`document.body.scrollHeight`, &height),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to measure content: %w", err)
	}

	return height, nil
}

// fixedMeasurer reports a height measured out of band
type fixedMeasurer struct {
	height int
}

func (m fixedMeasurer) ContentHeight() int {
	return m.height
}

// FixedMeasurer wraps an already-measured content height as a
// pagination.Measurer.
func FixedMeasurer(heightPx int) pagination.Measurer {
	return fixedMeasurer{height: heightPx}
}
