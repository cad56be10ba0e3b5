package alerts

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sudo-init-do/contactbook/internal/config"
)

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, env EmailEnvelope) error
}

// NewMailer picks the delivery backend named by MAIL_PROVIDER.
func NewMailer(cfg *config.Config, log zerolog.Logger) (Mailer, error) {
	switch cfg.Mail.Provider {
	case "smtp":
		m := &SMTPMailer{
			Host:     cfg.Mail.SMTPHost,
			Port:     cfg.Mail.SMTPPort,
			Username: cfg.Mail.SMTPUsername,
			Password: cfg.Mail.SMTPPassword,
			From:     cfg.Mail.From,
			ReplyTo:  cfg.Mail.ReplyTo,
		}
		if m.Host == "" || m.Port == "" || m.Username == "" || m.Password == "" || m.From == "" {
			return nil, fmt.Errorf("smtp not configured: set SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, MAIL_FROM (or set MAIL_PROVIDER=plunk)")
		}
		return m, nil
	case "plunk":
		if cfg.Mail.PlunkAPIKey == "" {
			return nil, fmt.Errorf("plunk not configured: set PLUNK_API_KEY")
		}
		return NewPlunkMailer(cfg.Mail.PlunkAPIKey, cfg.Mail.PlunkAPIURL, cfg.Mail.From, cfg.Mail.ReplyTo, nil), nil
	default:
		return &LogMailer{Log: log}, nil
	}
}

// LogMailer writes the email to the log instead of sending it.
type LogMailer struct {
	Log zerolog.Logger
}

func (m *LogMailer) Send(_ context.Context, env EmailEnvelope) error {
	m.Log.Info().
		Str("to", env.To).
		Str("subject", env.Subject).
		Str("body", env.Body).
		Msg("email (log provider)")
	return nil
}

// SMTPMailer sends plain text or HTML mail over implicit TLS.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	ReplyTo  string
}

func (m *SMTPMailer) Send(ctx context.Context, env EmailEnvelope) error {
	addr := net.JoinHostPort(m.Host, m.Port)

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: m.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Close()

	if err := c.Auth(smtp.PlainAuth("", m.Username, m.Password, m.Host)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(m.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(env.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := wc.Write(buildMessage(m.From, m.ReplyTo, env)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return c.Quit()
}

func buildMessage(from, replyTo string, env EmailEnvelope) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", env.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", env.Subject)
	if replyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", replyTo)
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s; charset=\"utf-8\"\r\n", contentType(env.Body))
	b.WriteString("\r\n" + env.Body + "\r\n")
	return []byte(b.String())
}

func contentType(body string) string {
	lb := strings.ToLower(body)
	if strings.Contains(lb, "<html") || strings.Contains(lb, "<body") || strings.Contains(lb, "<!doctype html") {
		return "text/html"
	}
	return "text/plain"
}
