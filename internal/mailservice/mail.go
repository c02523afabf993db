package mailservice

import (
	"time"

	"github.com/go-mail/mail/v2"
)

// NewMailer returns a Mail that renders quillpost notifications and delivers
// them through the given SMTP server.
func NewMailer(host string, port int, username, password, sender string, tp *Template) *Mail {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return &Mail{
		dialer: dialer,
		sender: sender,
		parser: tp,
	}
}

// send renders e with its template and delivers it as a multipart
// plain text and HTML message.
func (m *Mail) send(e email) error {
	subject, plainBody, htmlBody, err := m.parser.ParseTemplate(e.template, e.data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", e.recipient)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())

	// the dialer is shared by both event consumers
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.dialer.DialAndSend(msg)
}
