package services

import (
	"gopkg.in/gomail.v2"

	"github.com/ita-disc-inventory/backend/utils"
)

// Mailer delivers a single message. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	sender string
}

func NewSMTPMailer(host string, port int, username, password, sender string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		sender: sender,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// LogMailer writes outbound mail to the application log. Used when no
// SMTP relay is configured, e.g. local development.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	utils.InfoLogger.Printf("Email sent to %s", to)
	utils.InfoLogger.Printf("Subject: %s", subject)
	utils.InfoLogger.Printf("Body: %s", body)
	return nil
}
