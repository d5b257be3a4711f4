package handlers

import (
	"fmt"
	"net/http"

	"letterflow_app_go/db"
	"letterflow_app_go/middleware"
	"letterflow_app_go/services"

	"github.com/labstack/echo/v4"
)

// ExportPDFHandler renders the letter to PDF with its own margins
func ExportPDFHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	letter, err := services.GetLetter(db.DB, user.ID, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	pdfBytes, err := services.GenerateLetterPDF(letter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate PDF")
	}

	if err := services.MarkLetterExported(db.DB, letter); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s.pdf"`, exportFileName(letter.Title)))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}

// ExportDOCHandler renders the letter as a Word-compatible document
func ExportDOCHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	letter, err := services.GetLetter(db.DB, user.ID, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	docBytes, err := services.ExportLetterDOC(letter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate document")
	}

	if err := services.MarkLetterExported(db.DB, letter); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s.doc"`, exportFileName(letter.Title)))
	return c.Blob(http.StatusOK, "application/msword", docBytes)
}

// ExportRegisterHandler downloads the Excel register of all letters
func ExportRegisterHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	buf, err := services.ExportLettersRegister(db.DB, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build register")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="letters-register.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// exportFileName sanitizes a letter title into a safe download filename
func exportFileName(title string) string {
	out := make([]rune, 0, len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		case r == ' ':
			out = append(out, '-')
		}
	}
	if len(out) == 0 {
		return "letter"
	}
	return string(out)
}
