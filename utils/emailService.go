package utils

import (
	"fmt"
	"html"
	"lms/config"
	"log"
	"net/http"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendEmail delivers an HTML email through SendGrid. Without an API key the
// message is logged instead.
func SendEmail(to []string, subject string, htmlBody string) error {
	return sendWith(config.AppConfig, to, subject, htmlBody)
}

func sendWith(cfg *config.Config, to []string, subject string, htmlBody string) error {
	subject = "[" + cfg.AppName + "] " + subject

	if cfg.SendgridAPIKey == "" {
		log.Printf("[EMAIL] SendGrid disabled, would send %q to %v", subject, to)
		return nil
	}

	p := sgmail.NewPersonalization()
	p.Subject = subject
	for _, addr := range to {
		p.AddTos(sgmail.NewEmail("", addr))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(cfg.AppName, cfg.EmailSender))
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", htmlBody))

	req := sendgrid.GetRequest(cfg.SendgridAPIKey, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		log.Printf("[EMAIL] Error sending %q to %v: %v", subject, to, err)
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		log.Printf("[EMAIL] SendGrid rejected %q: %d %s", subject, res.StatusCode, res.Body)
		return fmt.Errorf("sendgrid: status %d", res.StatusCode)
	}

	log.Printf("[EMAIL] Sent %q to %v", subject, to)
	return nil
}

// sendAsync snapshots the config before handing off to the goroutine.
func sendAsync(to, subject, htmlBody string) {
	cfg := *config.AppConfig
	go func() {
		_ = sendWith(&cfg, []string{to}, subject, htmlBody)
	}()
}

func getEmailTemplate(title string, bodyContent string) string {
	appName := html.EscapeString(config.AppConfig.AppName)
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1E293B; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1E293B; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #EAB308; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #FEF9C3; padding: 15px; border-radius: 4px; border-left: 4px solid #EAB308; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; %d %s. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, appName, title, bodyContent, time.Now().Year(), appName)
}

// --- Triggers ---

func SendWelcomeEmail(email, name string) {
	subject := "Welcome to " + config.AppConfig.AppName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your account has been created. Browse the catalog and start learning.</p>
	`, html.EscapeString(name))

	sendAsync(email, subject, getEmailTemplate("Welcome Onboard!", body))
}

// SendPasswordResetEmail is synchronous so the caller can discard the reset
// token when delivery fails.
func SendPasswordResetEmail(email, resetURL string) error {
	subject := "Reset Password"
	link := html.EscapeString(resetURL)
	body := fmt.Sprintf(`
		<p>You can reset your password by clicking the button below. The link expires in 15 minutes.</p>
		<a class="btn" href="%s">Reset your password</a>
		<p>If the button does not work, copy this link into a new tab: %s</p>
		<p>If you have not requested this, kindly ignore this email.</p>
	`, link, link)

	return SendEmail([]string{email}, subject, getEmailTemplate("Reset your password", body))
}

func SendEnrollmentEmail(email, name, courseTitle string) {
	subject := "Enrollment Confirmed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your payment was verified and you are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box">
			<strong>Next Steps:</strong> Open My Courses to start the first lecture.
		</div>
	`, html.EscapeString(name), html.EscapeString(courseTitle))

	sendAsync(email, subject, getEmailTemplate("Enrollment Successful", body))
}

func SendCertificateIssuedEmail(email, name, courseTitle, verifyURL string) {
	subject := "Certificate Issued: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>.</p>
		<p>Anyone can verify your certificate at the link below.</p>
		<a class="btn" href="%s">View certificate</a>
	`, html.EscapeString(name), html.EscapeString(courseTitle), html.EscapeString(verifyURL))

	sendAsync(email, subject, getEmailTemplate("Course Completed", body))
}

// SendContactEmail forwards a contact form submission to the site admin.
func SendContactEmail(name, email, message string) error {
	subject := "Contact Us: " + name
	body := fmt.Sprintf(`
		<p><strong>Name:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<div class="info-box">%s</div>
	`, html.EscapeString(name), html.EscapeString(email), html.EscapeString(message))

	return SendEmail([]string{config.AppConfig.ContactEmail}, subject, getEmailTemplate("New contact form submission", body))
}
