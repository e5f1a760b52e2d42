package worker

// Sends receipt e-mails queued by the recibo worker. Calls go through the SMTP
// circuit breaker so a dead relay fails fast.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gasagua/internal/infra"

	"github.com/rs/zerolog/log"
)

type EmailJobPayload struct {
	To      string `json:"to"`
	Assunto string `json:"assunto"`
	Corpo   string `json:"corpo"`
	PDFPath string `json:"pdf_path"`
}

// Enviador is implemented by infra.Mailer.
type Enviador interface {
	EnviarRecibo(to, assunto, corpo, nomeArquivo string, pdf []byte) error
}

type EmailWorker struct {
	mailer Enviador
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(mailer Enviador, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: payload inválido: %v", ErrDescartar, err)
	}
	if payload.To == "" {
		log.Warn().Msg("email_worker: destinatário vazio, ignorando")
		return nil
	}

	var anexo []byte
	if payload.PDFPath != "" {
		var err error
		if anexo, err = os.ReadFile(payload.PDFPath); err != nil {
			return fmt.Errorf("%w: anexo: %v", ErrDescartar, err)
		}
	}

	err := w.cb.Execute(func() error {
		return w.mailer.EnviarRecibo(payload.To, payload.Assunto, payload.Corpo, filepath.Base(payload.PDFPath), anexo)
	})
	if err != nil {
		return err
	}
	log.Info().Str("to", payload.To).Msg("email_worker: recibo enviado")
	return nil
}
