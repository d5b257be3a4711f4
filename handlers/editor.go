package handlers

import (
	"net/http"
	"strconv"

	"letterflow_app_go/db"
	"letterflow_app_go/middleware"
	"letterflow_app_go/models"
	"letterflow_app_go/pagination"
	"letterflow_app_go/richtext"
	"letterflow_app_go/services"
	"letterflow_app_go/templates/pages"

	"github.com/labstack/echo/v4"
)

// immediateScheduler runs scheduled callbacks synchronously. Server-side
// there is no layout pass to wait for: the content height is already
// measured by the time a cycle is requested.
type immediateScheduler struct{}

func (immediateScheduler) AfterLayout(fn func()) { fn() }

// paginationResponse is the JSON shape the editor script consumes to
// update the page chrome after a recompute.
type paginationResponse struct {
	Geometry      pagination.Geometry `json:"geometry"`
	TotalHeightPx int                 `json:"total_height_px"`
	FramesHTML    string              `json:"frames_html"`
	MaskCSS       string              `json:"mask_css"`
}

// runPagination executes one full pagination cycle for a letter at the
// given content height and returns the render products.
func runPagination(letter *models.Letter, contentHeightPx int) paginationResponse {
	opts := letter.PageOptions()
	frames := pagination.NewFrameSet(opts)
	ctrl := pagination.NewController(
		services.FixedMeasurer(contentHeightPx),
		frames,
		immediateScheduler{},
		letter.Margins(),
		opts,
	)
	ctrl.Invalidate()

	geo := ctrl.Geometry()
	return paginationResponse{
		Geometry:      geo,
		TotalHeightPx: geo.TotalHeight(),
		FramesHTML:    frames.FramesHTML(),
		MaskCSS:       frames.MaskCSS(),
	}
}

// EditorHandler renders the letter editor page. The initial chrome uses
// an estimated content height; the editor script re-measures on load.
func EditorHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	letter, err := services.GetLetter(db.DB, user.ID, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	var docs []models.SourceDocument
	if err := db.DB.Where("letter_id = ?", letter.ID).Order("created_at ASC").Find(&docs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load source documents")
	}

	doc, err := richtext.Parse(letter.Content)
	if err != nil {
		// Stored content should always be canonical; fall back to empty
		doc = richtext.EmptyDoc()
	}

	result := runPagination(letter, services.EstimateContentHeight(doc))

	component := pages.Editor("Edit: "+letter.Title+" | LetterFlow", letter, docs, result.Geometry, result.FramesHTML, result.MaskCSS)
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// SaveLetterContentHandler persists the editing surface's content
func SaveLetterContentHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	letter, err := services.UpdateLetterContent(db.DB, user.ID, c.Param("id"), body.Content)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"id":      letter.ID,
		"content": letter.Content,
	})
}

// UpdateLetterMarginsHandler persists a margin change from the editor's
// margin controls. Accepts form values named after the sides.
func UpdateLetterMarginsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	letter, err := services.GetLetter(db.DB, user.ID, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	m := letter.Margins()
	m.Top = formInt(c, "top", m.Top)
	m.Bottom = formInt(c, "bottom", m.Bottom)
	m.Left = formInt(c, "left", m.Left)
	m.Right = formInt(c, "right", m.Right)

	letter, err = services.UpdateLetterMargins(db.DB, user.ID, letter.ID, m)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if size := c.FormValue("size"); size != "" && size != letter.PageSize {
		letter, err = services.UpdateLetterPageSize(db.DB, user.ID, letter.ID, size)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	resp := struct {
		pagination.Margins
		PageSize string `json:"page_size"`
	}{letter.Margins(), letter.PageSize}
	return c.JSON(http.StatusOK, resp)
}

// PaginationHandler recomputes the page chrome for a letter. The editor
// script posts the measured content height after every batch of edits;
// when no height is supplied the server measures with headless Chrome.
func PaginationHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	letter, err := services.GetLetter(db.DB, user.ID, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	var body struct {
		ContentHeightPx int `json:"content_height_px"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	height := body.ContentHeightPx
	if height <= 0 {
		m := letter.Margins()
		contentWidth := letter.PageOptions().PageWidthPx - m.Left - m.Right
		height, err = services.MeasureContentHeight(c.Request().Context(), letter.Content, contentWidth)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to measure content")
		}
	}

	return c.JSON(http.StatusOK, runPagination(letter, height))
}

func formInt(c echo.Context, name string, fallback int) int {
	raw := c.FormValue(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
