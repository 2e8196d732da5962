package infra

// pdf.go — settlement receipt generation using go-pdf/fpdf.
// An A4 receipt with:
//   - Issuing company header (snapshot stored on the settlement)
//   - Settlement code, date and beneficiary
//   - One row per settled line: contract, client, commission type, amounts;
//     partial payments show the balance left and previous payments
//   - Bold total box
//   - Payment info (method / reference / notes) and signature lines
//
// BuildComprobantePDF returns the in-memory document so handlers can stream
// it straight into the HTTP response; GenerateComprobantePDF writes it to
// storagePath/liquidacion_{codigo}.pdf for the async worker.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"commet/internal/model"

	"github.com/go-pdf/fpdf"
)

func BuildComprobantePDF(l *model.Liquidacion) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Company header ───────────────────────────────────────────────────────
	nombreEmpresa := "Comprobante de Liquidación"
	if l.Empresa.Nombre != nil && *l.Empresa.Nombre != "" {
		nombreEmpresa = *l.Empresa.Nombre
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, nombreEmpresa, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	var subtitulo []string
	if l.Empresa.Identificacion != nil {
		subtitulo = append(subtitulo, *l.Empresa.Identificacion)
	}
	if l.Empresa.Telefono != nil {
		subtitulo = append(subtitulo, "Tel: "+*l.Empresa.Telefono)
	}
	if l.Empresa.Direccion != nil {
		subtitulo = append(subtitulo, *l.Empresa.Direccion)
	}
	if len(subtitulo) > 0 {
		pdf.CellFormat(contentW, 5, strings.Join(subtitulo, "  ·  "), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	// ── Settlement info ──────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW/2, 6, "Liquidación "+l.Codigo, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW/2, 6, "Fecha: "+l.Fecha.Format("02/01/2006"), "", 1, "R", false, 0, "")

	beneficiario := ""
	if l.Empleado != nil {
		beneficiario = fmt.Sprintf("%s (%s)", l.Empleado.Nombre, l.Empleado.Codigo)
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Beneficiario: "+beneficiario, "", 1, "L", false, 0, "")

	if l.Anulada() {
		pdf.SetTextColor(200, 0, 0)
		pdf.SetFont("Helvetica", "B", 11)
		motivo := ""
		if l.AnulacionMotivo != nil {
			motivo = " — " + *l.AnulacionMotivo
		}
		pdf.CellFormat(contentW, 6, "ANULADA"+motivo, "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(3)

	// ── Detail table ─────────────────────────────────────────────────────────
	col1 := contentW * 0.17 // contract code
	col2 := contentW * 0.25 // client
	col3 := contentW * 0.22 // commission type
	col4 := contentW * 0.18 // commission total
	col5 := contentW * 0.18 // paid here

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(col1, 7, "Contrato", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col2, 7, "Cliente", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col3, 7, "Comisión", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col4, 7, "Total", "1", 0, "R", true, 0, "")
	pdf.CellFormat(col5, 7, "Pagado", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, d := range l.Detalles {
		cliente := d.ClienteNombre
		if len(cliente) > 26 {
			cliente = cliente[:25] + "…"
		}
		pdf.CellFormat(col1, 6, d.ContratoCodigo, "1", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, cliente, "1", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, d.TipoComision, "1", 0, "L", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+d.ComisionTotal.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, "$"+d.MontoPagado.StringFixed(2), "1", 1, "R", false, 0, "")

		if d.PagoParcial {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(col1, 5, "", "", 0, "L", false, 0, "")
			pdf.CellFormat(col2+col3+col4+col5, 5,
				fmt.Sprintf("Pago parcial — saldo pendiente: $%s", d.SaldoPendiente.StringFixed(2)),
				"", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
		}
		for _, pp := range d.PagosPrevios {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(col1, 5, "", "", 0, "L", false, 0, "")
			pdf.CellFormat(col2+col3+col4+col5, 5,
				fmt.Sprintf("Pago previo %s: $%s (%s)",
					pp.LiquidacionCodigo, pp.Monto.StringFixed(2), pp.Fecha.Format("02/01/2006")),
				"", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
		}
	}

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(col1+col2+col3, 9, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 9, "TOTAL", "1", 0, "R", true, 0, "")
	pdf.CellFormat(col5, 9, "$"+l.Total.StringFixed(2), "1", 1, "R", true, 0, "")

	// ── Payment info ─────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Método de pago: "+l.Pago.Metodo, "", 1, "L", false, 0, "")
	if l.Pago.Referencia != nil && *l.Pago.Referencia != "" {
		pdf.CellFormat(contentW, 5, "Referencia: "+*l.Pago.Referencia, "", 1, "L", false, 0, "")
	}
	if l.Pago.Notas != nil && *l.Pago.Notas != "" {
		pdf.CellFormat(contentW, 5, "Notas: "+*l.Pago.Notas, "", 1, "L", false, 0, "")
	}

	// ── Signatures ───────────────────────────────────────────────────────────
	pdf.Ln(18)
	half := contentW / 2
	y := pdf.GetY()
	pdf.Line(20, y, 15+half-10, y)
	pdf.Line(20+half, y, pageW-20, y)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(half, 5, "Entregué conforme", "", 0, "C", false, 0, "")
	pdf.CellFormat(half, 5, "Recibí conforme", "", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4,
		"Este comprobante certifica el pago de las comisiones detalladas a la fecha indicada.",
		"", 1, "C", false, 0, "")

	return pdf
}

// GenerateComprobantePDF renders the receipt to disk and returns its path.
func GenerateComprobantePDF(l *model.Liquidacion, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("liquidacion_%s.pdf", l.Codigo))
	pdf := BuildComprobantePDF(l)
	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
