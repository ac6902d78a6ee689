package contact

import (
	"fmt"
	"net/smtp"

	"libreria-be/internal/config"
	"libreria-be/internal/logger"

	"go.uber.org/zap"
)

// Mailer notifies the parish office of a new contact message. Delivery is
// best-effort; the message is already persisted when Send is called.
type Mailer interface {
	Send(c *Contact) error
}

type smtpMailer struct {
	addr      string
	auth      smtp.Auth
	from      string
	recipient string
}

// NewMailer builds an SMTP mailer from config, or a logging no-op when SMTP
// is not configured (development).
func NewMailer(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" || cfg.ContactRecipient == "" {
		logger.L().Warn("SMTP not configured, contact notifications will only be logged")
		return &logMailer{}
	}

	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}

	return &smtpMailer{
		addr:      cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth:      auth,
		from:      cfg.SMTPUser,
		recipient: cfg.ContactRecipient,
	}
}

func (m *smtpMailer) Send(c *Contact) error {
	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Nuevo mensaje de contacto de %s\r\n\r\nNombre: %s\nEmail: %s\nTelefono: %s\n\n%s\r\n",
		m.from, m.recipient, c.Name, c.Name, c.Email, c.Phone, c.Message,
	)
	return smtp.SendMail(m.addr, m.auth, m.from, []string{m.recipient}, []byte(body))
}

type logMailer struct{}

func (m *logMailer) Send(c *Contact) error {
	logger.L().Info("contact notification (mailer disabled)",
		zap.Uint("contact_id", c.ID),
		zap.String("email", c.Email),
	)
	return nil
}
