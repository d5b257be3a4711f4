package services

import (
	"fmt"
	"html"
	"log"
	"strings"

	"letterflow_app_go/config"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		log.Printf("Email logged successfully (development mode - not actually sent)")
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	fromAddress := fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)

	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      email.To,
		Subject: email.Subject,
	}

	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendEmailAsync sends an email asynchronously using a goroutine
// This is the recommended method for sending emails in handlers to avoid blocking HTTP responses
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (Development Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("\n--- HTML BODY (first 500 chars) ---\n%s...", truncate(email.HTMLBody, 500))
	log.Printf("%s\n", separator)
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// BuildWelcomeEmail creates a welcome email for new users
func BuildWelcomeEmail(userEmail, userName string) *Email {
	name := html.EscapeString(userName)
	return &Email{
		To:      []string{userEmail},
		Subject: "Welcome to LetterFlow",
		HTMLBody: fmt.Sprintf(
			`<p>Hi %s,</p><p>Your LetterFlow account is ready. Upload your source documents and start drafting letters.</p>`,
			name),
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nYour LetterFlow account is ready. Upload your source documents and start drafting letters.\n",
			userName),
	}
}

// BuildPasswordResetEmail creates a password reset email with the reset link
func BuildPasswordResetEmail(userEmail, userName, resetURL string) *Email {
	name := html.EscapeString(userName)
	link := html.EscapeString(resetURL)
	return &Email{
		To:      []string{userEmail},
		Subject: "Reset your LetterFlow password",
		HTMLBody: fmt.Sprintf(
			`<p>Hi %s,</p><p>We received a request to reset your password. Click the link below to choose a new one. The link expires in 24 hours.</p><p><a href="%s">Reset password</a></p><p>If you did not request this, you can safely ignore this email.</p>`,
			name, link),
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nWe received a request to reset your password. Open the link below to choose a new one. The link expires in 24 hours.\n\n%s\n\nIf you did not request this, you can safely ignore this email.\n",
			userName, resetURL),
	}
}
