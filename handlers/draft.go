package handlers

import (
	"io"
	"log"
	"net/http"
	"strings"

	"letterflow_app_go/config"
	"letterflow_app_go/db"
	"letterflow_app_go/middleware"
	"letterflow_app_go/models"
	"letterflow_app_go/richtext"
	"letterflow_app_go/services"

	"github.com/labstack/echo/v4"
)

// maxSourceTextBytes caps how much of each source PDF is handed to the
// drafter, keeping the prompt within model context limits.
const maxSourceTextBytes = 64 * 1024

// GenerateDraftHandler runs the AI drafter for a letter and replaces its
// content with the generated draft. Returns the new content HTML so the
// editing surface can be swapped in place.
func GenerateDraftHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	letter, err := services.GetLetter(db.DB, user.ID, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	instructions := strings.TrimSpace(c.FormValue("instructions"))
	if instructions == "" {
		if isHTMX(c) {
			return c.HTML(http.StatusUnprocessableEntity, errorBanner("Drafting instructions are required"))
		}
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Drafting instructions are required")
	}

	cfg := c.Get("config").(*config.Config)
	drafter := services.NewChatDrafter(cfg)
	if !drafter.IsConfigured() {
		if isHTMX(c) {
			return c.HTML(http.StatusServiceUnavailable, errorBanner("AI drafting is not configured"))
		}
		return echo.NewHTTPError(http.StatusServiceUnavailable, "AI drafting is not configured")
	}

	doc, err := drafter.DraftLetter(c.Request().Context(), services.DraftRequest{
		Title:        letter.Title,
		Instructions: instructions,
		SourceTexts:  loadSourceTexts(c, letter),
	})
	if err != nil {
		log.Printf("[WARNING] Draft generation failed for letter %s: %v", letter.ID, err)
		if isHTMX(c) {
			return c.HTML(http.StatusBadGateway, errorBanner("Draft generation failed, try again"))
		}
		return echo.NewHTTPError(http.StatusBadGateway, "Draft generation failed")
	}

	letter, err = services.UpdateLetterContent(db.DB, user.ID, letter.ID, richtext.Serialize(doc))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Remember the instructions for the next run
	if err := db.DB.Model(letter).Update("instructions", instructions).Error; err != nil {
		log.Printf("[WARNING] Failed to store drafting instructions for letter %s: %v", letter.ID, err)
	}

	if isHTMX(c) {
		return c.HTML(http.StatusOK, letter.Content)
	}
	return c.JSON(http.StatusOK, map[string]string{"content": letter.Content})
}

// loadSourceTexts pulls the stored source documents and extracts what
// text it can for the drafting prompt. Extraction failures are logged
// and skipped; drafting proceeds on the remaining sources.
func loadSourceTexts(c echo.Context, letter *models.Letter) []string {
	var docs []models.SourceDocument
	if err := db.DB.Where("letter_id = ?", letter.ID).Find(&docs).Error; err != nil {
		log.Printf("[WARNING] Failed to load source documents for letter %s: %v", letter.ID, err)
		return nil
	}

	var texts []string
	for _, doc := range docs {
		reader, _, err := services.Storage.Get(c.Request().Context(), doc.StorageKey)
		if err != nil {
			log.Printf("[WARNING] Failed to read source document %s: %v", doc.ID, err)
			continue
		}
		raw, err := io.ReadAll(io.LimitReader(reader, maxSourceTextBytes))
		reader.Close()
		if err != nil {
			continue
		}
		text := services.ExtractPDFText(raw)
		if text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}
