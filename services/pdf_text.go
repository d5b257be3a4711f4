package services

import (
	"bytes"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText pulls the plain text out of a PDF for the drafting
// prompt. Extraction is best-effort: a scanned or malformed PDF yields
// an empty string, never an error the caller has to handle.
func ExtractPDFText(data []byte) string {
	defer func() {
		// The pdf library panics on some malformed files
		if r := recover(); r != nil {
			log.Printf("[WARNING] PDF text extraction panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		log.Printf("[WARNING] Failed to open PDF for text extraction: %v", err)
		return ""
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Image-only pages have no extractable text
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.TrimSpace(text))
	}

	return strings.TrimSpace(sb.String())
}
