package mailer

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"gopkg.in/gomail.v2"

	"sigeu/internal/config"
	"sigeu/internal/logger"
)

// Mailer delivers transactional mail.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

// SMTPMailer sends mail through an SMTP relay. Without SMTP settings it logs
// and skips delivery.
type SMTPMailer struct {
	cfg      config.SMTPConfig
	resetURL string
	log      *logger.Logger
	sender   gomail.Sender
}

// NewSMTPMailer creates a mailer for cfg. resetURL is the front-end page that
// receives the token as a query parameter.
func NewSMTPMailer(cfg config.SMTPConfig, resetURL string, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, resetURL: resetURL, log: log}
}

// WithSender replaces SMTP dialing, mainly for tests.
func (m *SMTPMailer) WithSender(s gomail.Sender) *SMTPMailer {
	m.sender = s
	return m
}

// SendPasswordReset mails a reset link carrying token.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	if !m.cfg.Enabled() && m.sender == nil {
		m.log.Warn().Str("to", to).Msg("smtp config missing, skip password reset email")
		return nil
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "SIGEU - Recuperación de contraseña")
	msg.SetBody("text/html", resetBody(name, m.resetLink(token)))

	var err error
	if m.sender != nil {
		err = gomail.Send(m.sender, msg)
	} else {
		d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
		err = d.DialAndSend(msg)
	}
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Str("to", to).Msg("password reset email sent")
	return nil
}

func (m *SMTPMailer) resetLink(token string) string {
	sep := "?"
	if strings.Contains(m.resetURL, "?") {
		sep = "&"
	}
	return m.resetURL + sep + "token=" + url.QueryEscape(token)
}

func resetBody(name, link string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Hola %s</h2>
    <p>Recibimos una solicitud para restablecer tu contraseña.</p>
    <p><a href="%s">Restablecer contraseña</a></p>
    <p>El enlace vence en 1 hora. Si no solicitaste el cambio, ignora este mensaje.</p>
  </div>
</body>
</html>`, html.EscapeString(name), html.EscapeString(link))
}
