package utils

import (
	"errors"
	"fmt"
	"net/smtp"
)

// Mailer sends plain-text mail over authenticated SMTP. Used only by the
// password-reset flow; a stalled relay stalls that request.
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewMailer(host, port, username, password, from string) *Mailer {
	return &Mailer{Host: host, Port: port, Username: username, Password: password, From: from}
}

func (m *Mailer) Send(to, subject, body string) error {
	if m.Host == "" {
		return errors.New("mail: SMTP host not configured")
	}

	msg := fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: %s\r\n\r\n%s\r\n", to, m.From, subject, body)
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.Username, []string{to}, []byte(msg))
}
