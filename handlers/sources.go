package handlers

import (
	"fmt"
	"net/http"

	"letterflow_app_go/db"
	"letterflow_app_go/middleware"
	"letterflow_app_go/models"
	"letterflow_app_go/services"
	"letterflow_app_go/templates/partials"

	"github.com/labstack/echo/v4"
)

// UploadSourceHandler attaches an uploaded PDF to a letter
func UploadSourceHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	letter, err := services.GetLetter(db.DB, user.ID, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isHTMX(c) {
			return c.HTML(http.StatusBadRequest, errorBanner("No file provided"))
		}
		return echo.NewHTTPError(http.StatusBadRequest, "No file provided")
	}

	result, err := services.StoreSourceDocument(c.Request().Context(), fileHeader, user.ID, letter.ID)
	if err != nil {
		if isHTMX(c) {
			return c.HTML(http.StatusUnprocessableEntity, errorBanner(err.Error()))
		}
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	doc := &models.SourceDocument{
		UserID:           user.ID,
		LetterID:         letter.ID,
		FileName:         result.FileName,
		FileOriginalName: result.FileOriginalName,
		StorageKey:       result.Key,
		FileSize:         result.FileSize,
		MimeType:         result.MimeType,
	}
	if err := db.DB.Create(doc).Error; err != nil {
		// Best effort cleanup of the stored object
		services.Storage.Delete(c.Request().Context(), result.Key)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save source document")
	}

	return renderSourceList(c, letter)
}

// DownloadSourceHandler streams a source document to the owner
func DownloadSourceHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	doc, err := findSourceDocument(c, user.ID)
	if err != nil {
		return err
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), doc.StorageKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`inline; filename="%s"`, doc.FileOriginalName))
	return c.Stream(http.StatusOK, contentType, reader)
}

// DeleteSourceHandler removes a source document and its stored file
func DeleteSourceHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	doc, err := findSourceDocument(c, user.ID)
	if err != nil {
		return err
	}

	letter, err := services.GetLetter(db.DB, user.ID, doc.LetterID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	if err := services.Storage.Delete(c.Request().Context(), doc.StorageKey); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete stored file")
	}
	if err := db.DB.Delete(doc).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete source document")
	}

	return renderSourceList(c, letter)
}

func findSourceDocument(c echo.Context, userID string) (*models.SourceDocument, error) {
	var doc models.SourceDocument
	err := db.DB.Where("id = ? AND letter_id = ? AND user_id = ?",
		c.Param("sourceID"), c.Param("id"), userID).First(&doc).Error
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Source document not found")
	}
	return &doc, nil
}

func renderSourceList(c echo.Context, letter *models.Letter) error {
	var docs []models.SourceDocument
	if err := db.DB.Where("letter_id = ?", letter.ID).Order("created_at ASC").Find(&docs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load source documents")
	}
	return partials.SourceList(letter, docs).Render(c.Request().Context(), c.Response().Writer)
}
