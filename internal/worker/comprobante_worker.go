package worker

// comprobante_worker.go
// Processes settlement receipt jobs from QueueComprobante: renders the PDF
// receipt to disk and, when the employee has an email, enqueues a mail job
// with the file attached.

import (
	"context"
	"encoding/json"
	"fmt"

	"commet/internal/infra"
	"commet/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ComprobanteJobPayload is the job envelope sent to QueueComprobante.
type ComprobanteJobPayload struct {
	LiquidacionID string `json:"liquidacion_id"`
}

type ComprobanteWorker struct {
	liquidacionRepo repository.LiquidacionRepository
	dispatcher      *Dispatcher
	pdfStoragePath  string
}

func NewComprobanteWorker(
	liquidacionRepo repository.LiquidacionRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *ComprobanteWorker {
	return &ComprobanteWorker{
		liquidacionRepo: liquidacionRepo,
		dispatcher:      dispatcher,
		pdfStoragePath:  pdfStoragePath,
	}
}

func (w *ComprobanteWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ComprobanteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("comprobante_worker: invalid payload")
		return
	}
	id, err := uuid.Parse(payload.LiquidacionID)
	if err != nil {
		log.Error().Str("liquidacion_id", payload.LiquidacionID).
			Msg("comprobante_worker: invalid liquidacion_id")
		return
	}

	liquidacion, err := w.liquidacionRepo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("liquidacion_id", payload.LiquidacionID).
			Msg("comprobante_worker: liquidacion not found")
		return
	}

	pdfPath, err := infra.GenerateComprobantePDF(liquidacion, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("liquidacion", liquidacion.Codigo).
			Msg("comprobante_worker: PDF generation failed")
		return
	}
	log.Info().Str("liquidacion", liquidacion.Codigo).Str("pdf", pdfPath).
		Msg("comprobante_worker: PDF generated")

	if liquidacion.Empleado == nil || liquidacion.Empleado.Email == nil || *liquidacion.Empleado.Email == "" {
		return
	}
	emailJob := EmailJobPayload{
		ToEmail: *liquidacion.Empleado.Email,
		Subject: fmt.Sprintf("Comprobante de liquidación %s", liquidacion.Codigo),
		Body: fmt.Sprintf("Hola %s,\n\nAdjunto encontrarás el comprobante de tu liquidación %s por $%s.",
			liquidacion.Empleado.Nombre, liquidacion.Codigo, liquidacion.Total.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", *liquidacion.Empleado.Email).
			Msg("comprobante_worker: failed to enqueue email")
	}
}
