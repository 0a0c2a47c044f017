package utils

import (
	"fmt"
	"html"
	"strings"

	"lms/config"
	"lms/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers an HTML e-mail through SendGrid. Without an API key the
// message is only logged.
func SendEmail(to []string, subject string, htmlBody string) error {
	cfg := config.AppConfig
	if cfg == nil || strings.TrimSpace(cfg.SendGridAPIKey) == "" {
		logger.Log.Info("email not sent, SENDGRID_API_KEY is empty", "to", to, "subject", subject)
		return nil
	}

	from := mail.NewEmail(cfg.EmailSenderName, cfg.EmailSender)
	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.Subject = subject

	p := mail.NewPersonalization()
	for _, addr := range to {
		p.AddTos(mail.NewEmail("", addr))
	}
	message.AddPersonalizations(p)
	message.AddContent(mail.NewContent("text/html", htmlBody))

	client := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		logger.Log.Error("error sending email", "to", to, "subject", subject, "error", err)
		return err
	}
	if resp.StatusCode >= 300 {
		logger.Log.Error("sendgrid rejected email", "to", to, "status", resp.StatusCode, "body", resp.Body)
		return fmt.Errorf("sendgrid status %d", resp.StatusCode)
	}

	logger.Log.Debug("email sent", "to", to, "subject", subject)
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F3A5F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F3A5F; line-height: 1.6; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #4CAF50; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>LEARNING PLATFORM</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">This is an automated message, please do not reply.</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(title), bodyContent)
}

// --- Triggers ---

func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your account has been created. Enroll in a course to start learning.</p>
	`, html.EscapeString(name))

	go SendEmail([]string{email}, "Welcome aboard", getEmailTemplate("Welcome!", body))
}

func SendEnrollmentEmail(email, name, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<p>Complete every lesson to earn your certificate.</p>
	`, html.EscapeString(name), html.EscapeString(courseTitle))

	go SendEmail([]string{email}, "Enrollment confirmed: "+courseTitle, getEmailTemplate("Enrollment Successful", body))
}

func SendCertificateEmail(email, name, courseTitle, certificateNumber string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>.</p>
		<div class="info-box">Certificate number: <strong>%s</strong></div>
	`, html.EscapeString(name), html.EscapeString(courseTitle), html.EscapeString(certificateNumber))

	go SendEmail([]string{email}, "Certificate of completion: "+courseTitle, getEmailTemplate("Certificate Issued", body))
}

func SendPasswordResetEmail(email, name string, uid uint, token string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Use the values below to reset your password. They expire soon.</p>
		<div class="info-box">uid: <strong>%d</strong><br>token: <strong>%s</strong></div>
		<p>If you did not ask for a reset you can ignore this e-mail.</p>
	`, html.EscapeString(name), uid, html.EscapeString(token))

	go SendEmail([]string{email}, "Password reset", getEmailTemplate("Password Reset", body))
}

func SendLoginNotificationEmail(email, name, ip, device, timeStr string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We noticed a new login to your account.</p>
		<div class="info-box">Time: %s<br>IP Address: %s<br>Device: %s</div>
	`, html.EscapeString(name), html.EscapeString(timeStr), html.EscapeString(ip), html.EscapeString(device))

	go SendEmail([]string{email}, "New login alert", getEmailTemplate("New Login Detected", body))
}

func SendNotificationEmail(email, name, title, message string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>%s</p>
	`, html.EscapeString(name), html.EscapeString(message))

	go SendEmail([]string{email}, title, getEmailTemplate(title, body))
}
