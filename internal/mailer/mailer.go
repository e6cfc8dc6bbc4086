package mailer

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// SMTPMailer delivers mail over SMTP with STARTTLS. Dial and IO deadlines
// keep a slow relay from hanging a request worker.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
}

func NewSMTPMailer(host, port, username, password, from, fromName string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
	}
}

// Send delivers a single message to the recipient
func (m *SMTPMailer) Send(subject, body, recipient string, isHTML bool) error {
	contentType := "text/plain; charset=\"UTF-8\""
	if isHTML {
		contentType = "text/html; charset=\"UTF-8\""
	}

	fromHeader := fmt.Sprintf("%s <%s>", m.fromName, m.from)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", recipient),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: %s", contentType),
		"",
		body,
	}, "\r\n")

	if err := m.send(recipient, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", recipient, err)
	}

	return nil
}

func (m *SMTPMailer) send(to string, msg []byte) error {
	addr := net.JoinHostPort(m.host, m.port)

	conn, err := net.DialTimeout("tcp", addr, 8*time.Second)
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}

	if m.username != "" {
		auth := smtp.PlainAuth("", m.username, m.password, m.host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
