package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"commet/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerNoConfigurado indicates SMTP settings are absent; callers may
// treat this as a soft failure and keep the receipt on disk only.
var ErrMailerNoConfigurado = errors.New("mailer: SMTP no configurado")

// Mailer sends settlement receipts over SMTP.
type Mailer struct {
	cfg *config.Config
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Configured reports whether SMTP host settings are present.
func (m *Mailer) Configured() bool { return m.cfg.SMTPHost != "" }

// SendComprobante mails a receipt PDF to the employee.
func (m *Mailer) SendComprobante(to, subject, body, pdfPath string) error {
	if !m.Configured() {
		return ErrMailerNoConfigurado
	}

	e := email.NewEmail()
	e.From = m.cfg.SMTPUser
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: adjuntar comprobante: %w", err)
		}
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	return e.Send(addr, auth)
}
