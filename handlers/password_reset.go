package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"letterflow_app_go/config"
	"letterflow_app_go/db"
	"letterflow_app_go/services"
	"letterflow_app_go/templates/pages"

	"github.com/labstack/echo/v4"
)

// ForgotPasswordHandler renders the reset-request page
func ForgotPasswordHandler(c echo.Context) error {
	component := pages.ForgotPassword("Reset password | LetterFlow")
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// ForgotPasswordPostHandler creates a reset token and emails the link.
// The response is identical whether or not the email exists.
func ForgotPasswordPostHandler(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	if email == "" {
		if isHTMX(c) {
			return c.HTML(http.StatusOK, errorBanner("Email is required"))
		}
		return c.Redirect(http.StatusSeeOther, "/forgot-password")
	}

	cfg := c.Get("config").(*config.Config)

	token, err := services.GenerateResetToken(db.DB, email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process request")
	}

	// token is nil when the email is unknown; respond the same either way
	if token != nil && token.User != nil {
		resetURL := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimSuffix(cfg.AppURL, "/"), token.Token)
		resetEmail := services.BuildPasswordResetEmail(token.User.Email, token.User.Name, resetURL)
		services.SendEmailAsync(cfg, resetEmail)
	}

	msg := "If that email is registered, a reset link is on its way."
	if isHTMX(c) {
		return c.HTML(http.StatusOK, successBanner(msg))
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

// ResetPasswordHandler renders the new-password form
func ResetPasswordHandler(c echo.Context) error {
	token := c.QueryParam("token")

	_, err := services.ValidateResetToken(db.DB, token)
	component := pages.ResetPassword("Choose a new password | LetterFlow", token, err == nil)
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// ResetPasswordPostHandler sets the new password
func ResetPasswordPostHandler(c echo.Context) error {
	token := c.FormValue("token")
	password := c.FormValue("password")
	confirm := c.FormValue("password_confirm")

	if password != confirm {
		if isHTMX(c) {
			return c.HTML(http.StatusOK, errorBanner("Passwords do not match"))
		}
		return c.Redirect(http.StatusSeeOther, "/reset-password?token="+token)
	}

	if err := services.ResetPassword(db.DB, token, password); err != nil {
		if isHTMX(c) {
			return c.HTML(http.StatusOK, errorBanner(err.Error()))
		}
		return c.Redirect(http.StatusSeeOther, "/forgot-password")
	}

	if isHTMX(c) {
		c.Response().Header().Set("HX-Redirect", "/login")
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}
