package mailer

import (
	"fmt"
	"os"

	"portal/src/lib"
)

func fromAddress() (string, string) {
	from := os.Getenv("MAIL_FROM_ADDRESS")
	name := os.Getenv("MAIL_FROM_NAME")
	if from == "" {
		from = "no-reply@localhost"
	}
	return from, name
}

// SendPortalLoginEmail delivers the sign-in code and magic link for a
// customer portal. Callers treat delivery as fire-and-forget.
func SendPortalLoginEmail(to string, teamName string, customerName string, code string, portalUrl string) error {
	if teamName == "" {
		teamName = "your provider"
	}
	if customerName == "" {
		customerName = "there"
	}
	from, fromName := fromAddress()
	body := fmt.Sprintf(`
	<p>Hi %s,</p>
	<p>Use this code to sign in to the %s portal:</p>
	<p style="font-size:24px;font-weight:600;letter-spacing:4px;">%s</p>
	<p>Or open the portal directly:</p>
	<p><a href="%s">Sign in to the portal</a></p>
	<p>The code expires in 15 minutes. If you did not request it you can ignore this email.</p>
	`, customerName, teamName, code, portalUrl)
	return lib.SendMail(&lib.SendMailInput{
		From:     from,
		FromName: fromName,
		To:       []string{to},
		Subject:  fmt.Sprintf("Sign in to %s portal", teamName),
		Body:     body,
		Html:     true,
	})
}

// SendPortalWelcomeEmail notifies a customer that their portal was
// switched on.
func SendPortalWelcomeEmail(to string, teamName string, portalUrl string) error {
	if teamName == "" {
		teamName = "your provider"
	}
	from, fromName := fromAddress()
	body := fmt.Sprintf(`
	<p>Welcome to %s. Your dedicated client portal is ready.</p>
	<p><a href="%s">Access your portal</a></p>
	<p>For security, the portal uses passwordless email sign-in.</p>
	`, teamName, portalUrl)
	return lib.SendMail(&lib.SendMailInput{
		From:     from,
		FromName: fromName,
		To:       []string{to},
		Subject:  fmt.Sprintf("Your %s client portal is ready", teamName),
		Body:     body,
		Html:     true,
	})
}
