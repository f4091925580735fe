// Package mail delivers transactional email over SMTP with implicit
// TLS, matching the deployment's mail relay.
package mail

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"mannequins/backend/internal/config"
)

// Mailer is what the handlers depend on; tests substitute a fake.
type Mailer interface {
	SendResetEmail(to, token string) error
}

type SMTPMailer struct {
	server   string
	port     int
	username string
	password string
	from     string
	resetURL string
}

func New(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		server:   cfg.SMTPServer,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.EmailAccount,
		resetURL: cfg.ResetPasswordURL,
	}
}

// SendResetEmail mails the password reset link carrying the token.
func (m *SMTPMailer) SendResetEmail(to, token string) error {
	url := fmt.Sprintf("%s?token=%s", m.resetURL, token)
	body := fmt.Sprintf(`<html>
  <body>
    <p>Hello,</p>
    <p>Click on this <a href="%s">Reset Password</a> to reset your password.</p>
    <p>For more information contact: <a href="mailto:%s">%s</a></p>
    <p>Best regards,<br>
    The Mannequins Team</p>
  </body>
</html>`, url, m.from, m.from)

	return m.send("Mannequins Password Reset", body, to)
}

func (m *SMTPMailer) send(subject, htmlBody, to string) error {
	addr := fmt.Sprintf("%s:%d", m.server, m.port)
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.server})
	if err != nil {
		log.Printf("[Mail] Failed to dial %s: %v", addr, err)
		return err
	}

	client, err := smtp.NewClient(conn, m.server)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", m.username, m.password, m.server)
	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(m.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	if _, err := w.Write([]byte(msg)); err != nil {
		return err
	}
	return w.Close()
}
