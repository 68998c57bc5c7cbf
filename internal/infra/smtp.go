package infra

import (
	"fmt"
	"net/smtp"

	"github.com/VarunShelke/accessible-med-tracker/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending multipart alert emails.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// SendAlert sends a plain-text + HTML alternative email to the recipient list.
func (m *Mailer) SendAlert(to []string, subject, textBody, htmlBody string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = to
	e.Subject = subject
	e.Text = []byte(textBody)
	e.HTML = []byte(htmlBody)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
