package infra

import (
	"bytes"
	"fmt"
	"net/smtp"

	"gasagua/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends receipts through the configured SMTP relay.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPUser
	if cfg.NomeEmpresa != "" {
		from = fmt.Sprintf("%s <%s>", cfg.NomeEmpresa, cfg.SMTPUser)
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Configurado reports whether a relay host was given.
func (m *Mailer) Configurado() bool { return m.host != "" }

// EnviarRecibo mails body to `to` with the PDF attached as nomeArquivo.
func (m *Mailer) EnviarRecibo(to, assunto, corpo, nomeArquivo string, pdf []byte) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = assunto
	e.Text = []byte(corpo)

	if len(pdf) > 0 {
		if _, err := e.Attach(bytes.NewReader(pdf), nomeArquivo, "application/pdf"); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
