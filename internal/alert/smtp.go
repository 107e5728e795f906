package alert

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// SMTPNotifier emails violation alerts through an SMTP server.
type SMTPNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       []string
}

// NewSMTPNotifier creates an SMTPNotifier delivering to the given recipients.
func NewSMTPNotifier(host string, port int, username, password, from string, to []string) *SMTPNotifier {
	return &SMTPNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		to:       to,
	}
}

// Notify implements Notifier. It sends one plain-text mail per violation.
func (s *SMTPNotifier) Notify(_ context.Context, v Violation) error {
	subject := fmt.Sprintf("[attendance-ledger] integrity violation in %q at index %d", v.LedgerName, v.Index)
	body := fmt.Sprintf(
		"An integrity violation was detected in the attendance chain.\r\n"+
			"\r\n"+
			"Ledger:      %s\r\n"+
			"Index:       %d\r\n"+
			"Reason:      %s\r\n"+
			"Detected at: %s\r\n"+
			"\r\n"+
			"The chain is never repaired automatically. Inspect the persisted\r\n"+
			"document, restore it from a trusted copy, or reset the chain.\r\n",
		v.LedgerName, v.Index, v.Reason, v.DetectedAt.Format("2006-01-02 15:04:05 UTC"),
	)

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + strings.Join(s.to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	// Port 465 uses implicit TLS; 587 uses STARTTLS (smtp.SendMail handles this).
	if s.port == 465 {
		return s.sendImplicitTLS(addr, auth, []byte(msg))
	}
	return smtp.SendMail(addr, auth, s.from, s.to, []byte(msg))
}

func (s *SMTPNotifier) sendImplicitTLS(addr string, auth smtp.Auth, msg []byte) error {
	host, _, _ := net.SplitHostPort(addr)
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return fmt.Errorf("smtp tls dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("smtp new client: %w", err)
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	for _, rcpt := range s.to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO %s: %w", rcpt, err)
		}
	}
	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := wc.Write(msg); err != nil {
		return fmt.Errorf("smtp write body: %w", err)
	}
	return wc.Close()
}
