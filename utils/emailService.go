package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"instructo/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers an HTML email. SendGrid is used when an API key is
// configured; otherwise it falls back to plain SMTP.
func SendEmail(to []string, subject string, htmlBody string) error {
	if config.AppConfig.SendgridApiKey != "" {
		return sendViaSendgrid(to, subject, htmlBody)
	}
	if config.AppConfig.EmailSender == "" {
		// No sender configured (dev/test): log instead of delivering
		log.Printf("Email disabled, skipping delivery to %v: %s", to, subject)
		return nil
	}
	return sendViaSMTP(to, subject, htmlBody)
}

func sendViaSendgrid(to []string, subject string, htmlBody string) error {
	from := mail.NewEmail("Instructo", config.AppConfig.EmailSender)
	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.Subject = subject

	p := mail.NewPersonalization()
	for _, addr := range to {
		p.AddTos(mail.NewEmail("", addr))
	}
	message.AddPersonalizations(p)
	message.AddContent(mail.NewContent("text/html", htmlBody))

	client := sendgrid.NewSendClient(config.AppConfig.SendgridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email via SendGrid: %v", err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email, status %d: %s", resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

func sendViaSMTP(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Instructo <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Printf("Error sending email: %v", err)
		return err
	}
	return nil
}

// getEmailTemplate wraps body content in the standard Instructo layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A2B4C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A2B4C; line-height: 1.6; }
			.content h2 { color: #1A2B4C; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #3D7DD8; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>INSTRUCTO</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Instructo. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendOTPEmail delivers a login/verification OTP
func SendOTPEmail(otp, email string) error {
	subject := "Your Instructo One Time Password"
	body := fmt.Sprintf(`
		<p>Your One Time Password (OTP) is:</p>
		<h1 style="text-align: center; color: #3D7DD8; font-size: 40px; margin: 20px 0;">%s</h1>
		<p>This code expires in %d minutes. Do not share it with anyone.</p>
	`, otp, config.AppConfig.OTPExpiryMinutes)

	return SendEmail([]string{email}, subject, getEmailTemplate("OTP Verification", body))
}

// SendTraineeDecisionEmail tells the owning instructor about an admin's
// approve/reject decision.
func SendTraineeDecisionEmail(email, instructorName, traineeName, decision, comments string) {
	subject := fmt.Sprintf("Trainee %s: %s", decision, traineeName)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your trainee <strong>%s</strong> has been <strong>%s</strong> by the admin.</p>
		<div class="info-box">Comments: %s</div>
	`, instructorName, traineeName, decision, comments)

	go SendEmail([]string{email}, subject, getEmailTemplate("Trainee Review Decision", body))
}

// SendProgressSharedEmail tells an admin that progress was shared for review.
func SendProgressSharedEmail(email, adminName, traineeName, instructorName string) {
	subject := "Progress Shared: " + traineeName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Instructor <strong>%s</strong> has shared progress for trainee <strong>%s</strong>.</p>
		<p>Please review it from your dashboard.</p>
	`, adminName, instructorName, traineeName)

	go SendEmail([]string{email}, subject, getEmailTemplate("Progress Review Requested", body))
}

// SendProjectCompletedEmail notifies the training department about a
// completed project.
func SendProjectCompletedEmail(email, traineeName, projectTitle string, rating int) {
	subject := "Project Completed: " + projectTitle
	body := fmt.Sprintf(`
		<p>Trainee <strong>%s</strong> has completed the project <strong>%s</strong>.</p>
		<div class="info-box">Performance rating: <strong>%d/10</strong></div>
		<p>The completion report and attendance sheet are available in the system.</p>
	`, traineeName, projectTitle, rating)

	go SendEmail([]string{email}, subject, getEmailTemplate("Project Completed", body))
}
