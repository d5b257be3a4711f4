package handlers

import (
	"net/http"

	"letterflow_app_go/db"
	"letterflow_app_go/middleware"
	"letterflow_app_go/services"
	"letterflow_app_go/templates/pages"
	"letterflow_app_go/templates/partials"

	"github.com/labstack/echo/v4"
)

// LettersHandler renders the letters overview page
func LettersHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	letters, err := services.ListLetters(db.DB, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load letters")
	}

	component := pages.Letters("Letters | LetterFlow", user, letters)
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// CreateLetterHandler creates a letter and returns the refreshed list
func CreateLetterHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	_, err := services.CreateLetter(db.DB, user.ID, c.FormValue("title"))
	if err != nil {
		if isHTMX(c) {
			return c.HTML(http.StatusOK, errorBanner(err.Error()))
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return renderLetterList(c, user.ID)
}

// DeleteLetterHandler removes a letter and returns the refreshed list
func DeleteLetterHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	letterID := c.Param("id")

	if err := services.DeleteLetter(db.DB, user.ID, letterID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return renderLetterList(c, user.ID)
}

// UpdateLetterDetailsHandler updates title, instructions and status
func UpdateLetterDetailsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	letterID := c.Param("id")

	letter, err := services.UpdateLetterDetails(db.DB, user.ID, letterID,
		c.FormValue("title"), c.FormValue("instructions"), c.FormValue("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, letter)
}

func renderLetterList(c echo.Context, userID string) error {
	letters, err := services.ListLetters(db.DB, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load letters")
	}
	return partials.LetterList(letters).Render(c.Request().Context(), c.Response().Writer)
}
