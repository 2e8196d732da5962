package worker

// Processes email jobs from QueueEmail: mails settlement receipts to
// employees via SMTP. Permanently failed sends land in the DLQ.

import (
	"context"
	"encoding/json"
	"errors"

	"commet/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

type EmailWorker struct {
	mailer *infra.Mailer
	rdb    *redis.Client
}

func NewEmailWorker(mailer *infra.Mailer, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, rdb: rdb}
}

// Process sends the email with the PDF receipt attached.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: payload inválido")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: destinatario vacío, se omite el envío")
		return
	}

	err := w.mailer.SendComprobante(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	switch {
	case err == nil:
		log.Info().Str("to", payload.ToEmail).Msg("email_worker: comprobante enviado")
	case errors.Is(err, infra.ErrMailerNoConfigurado):
		// The PDF stays on disk; nothing to retry until SMTP is configured.
		log.Warn().Str("to", payload.ToEmail).Msg("email_worker: SMTP no configurado, comprobante no enviado")
	default:
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: fallo el envío")
		if w.rdb != nil {
			SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, err.Error(), 1)
		}
	}
}
