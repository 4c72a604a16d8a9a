// Package mail sends transactional email over SMTP.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/middleware"
)

// Mailer sends email asynchronously. When SMTP settings are absent it
// stays disabled and every send becomes a logged no-op, so local
// development never needs a mail server.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	enabled  bool

	// send is swapped out in tests.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer builds a Mailer from config. Missing SMTP settings disable it.
func NewMailer(cfg *config.Config) *Mailer {
	enabled := cfg.SMTPHost != "" && cfg.SMTPPort != "" && cfg.SMTPFrom != ""
	if !enabled {
		middleware.Logger.Warn("mailer disabled: SMTP settings not configured")
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		enabled:  enabled,
		send:     smtp.SendMail,
	}
}

// Enabled reports whether sends will actually go out.
func (m *Mailer) Enabled() bool {
	return m.enabled
}

// SendAsync delivers a plain-text message on a background goroutine.
func (m *Mailer) SendAsync(to []string, subject, body string) {
	if !m.enabled || len(to) == 0 {
		return
	}

	go func() {
		var auth smtp.Auth
		if m.username != "" {
			auth = smtp.PlainAuth("", m.username, m.password, m.host)
		}
		addr := fmt.Sprintf("%s:%s", m.host, m.port)

		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-version: 1.0;\r\nContent-Type: text/plain; charset=\"UTF-8\";\r\n\r\n%s",
			strings.Join(to, ","), m.from, subject, body))

		if err := m.send(addr, auth, m.from, to, msg); err != nil {
			middleware.Logger.Error("email send failed",
				"to", strings.Join(to, ","),
				"subject", subject,
				"error", err.Error(),
			)
		}
	}()
}

// SharePost emails a published post's title and a teaser to recipient.
func (m *Mailer) SharePost(recipient, senderName, title, teaser string) {
	subject := fmt.Sprintf("%s shared a post with you: %s", senderName, title)
	body := fmt.Sprintf("%s thought you would enjoy this post.\n\n%s\n\n%s", senderName, title, teaser)
	m.SendAsync([]string{recipient}, subject, body)
}
