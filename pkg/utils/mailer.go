package utils

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends plain-text notification emails over SMTP. Sending is
// best-effort: callers log failures and move on, a booking must never
// be rolled back because a confirmation email bounced.
type Mailer struct {
	config EmailConfig
}

func NewMailer(config EmailConfig) *Mailer {
	return &Mailer{config: config}
}

func (m *Mailer) Send(to, subject, body string) error {
	if !m.config.Enabled {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	var auth smtp.Auth
	if m.config.User != "" {
		auth = smtp.PlainAuth("", m.config.User, m.config.Password, m.config.Host)
	}

	msg := strings.Join([]string{
		"From: " + m.config.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}
