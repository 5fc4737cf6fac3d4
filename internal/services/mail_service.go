// internal/services/mail_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/skillset/skillset-backend/internal/config"
)

type ContactForm struct {
	Name        string `json:"name" validate:"required"`
	Company     string `json:"company"`
	Email       string `json:"email" validate:"required,email"`
	EnquiryType string `json:"enquiryType" validate:"required"`
	Message     string `json:"message" validate:"required"`
}

// Mailer delivers contact-form submissions.
type Mailer interface {
	SendContactEmail(form *ContactForm) error
}

var contactEmailTemplate = template.Must(template.New("contact").Parse(`
<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
{{if .Company}}<p><strong>Company:</strong> {{.Company}}</p>{{end}}
<p><strong>Enquiry Type:</strong> {{.EnquiryType}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
`))

// SMTPMailer sends contact emails through a plain SMTP relay.
type SMTPMailer struct {
	cfg *config.Config
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendContactEmail(form *ContactForm) error {
	subject := fmt.Sprintf("Skillset Contact: %s from %s", form.EnquiryType, form.Name)

	var body bytes.Buffer
	if err := contactEmailTemplate.Execute(&body, form); err != nil {
		return fmt.Errorf("failed to render contact email: %w", err)
	}

	email := m.cfg.Email
	if email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{
			"to":      email.ContactEmail,
			"subject": subject,
		}).Info("Email delivery skipped (SMTP not configured)")
		return nil
	}

	auth := smtp.PlainAuth("", email.SMTPUsername, email.SMTPPassword, email.SMTPHost)

	msg := []byte(fmt.Sprintf(
		"To: %s\r\nReply-To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		email.ContactEmail, form.Email, subject, body.String(),
	))

	addr := fmt.Sprintf("%s:%s", email.SMTPHost, email.SMTPPort)
	if err := smtp.SendMail(addr, auth, email.FromEmail, []string{email.ContactEmail}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
