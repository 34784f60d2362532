package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: renders the PDF receipt for a
// settled sale and hands it to the email queue.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/infra"
	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	CompanyID string `json:"company_id"`
	SaleID    string `json:"sale_id"`
	ToEmail   string `json:"to_email"`
}

// ReceiptWorker renders PDF receipts and enqueues their delivery.
type ReceiptWorker struct {
	saleRepo       repository.SaleRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
	companyName    string
	companyRNC     string
}

func NewReceiptWorker(
	saleRepo repository.SaleRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
	companyName string,
	companyRNC string,
) *ReceiptWorker {
	return &ReceiptWorker{
		saleRepo:       saleRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
		companyName:    companyName,
		companyRNC:     companyRNC,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Fetch the sale with its items
//  3. Render the PDF receipt
//  4. Enqueue the email job with the PDF attached
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	companyID, err := uuid.Parse(payload.CompanyID)
	if err != nil {
		log.Error().Str("company_id", payload.CompanyID).Msg("receipt_worker: invalid company_id")
		return
	}
	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return
	}

	sale, err := w.saleRepo.FindByID(ctx, companyID, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, infra.ReceiptBranding{
		CompanyName: w.companyName,
		CompanyRNC:  w.companyRNC,
	}, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generation failed")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generated")

	if payload.ToEmail == "" {
		return
	}
	emailJob := EmailJobPayload{
		ToEmail: payload.ToEmail,
		Subject: fmt.Sprintf("Receipt %s — %s", sale.InvoiceNo, w.companyName),
		Body:    fmt.Sprintf("Attached is your purchase receipt.\nTotal: RD$ %s", sale.Total.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", payload.ToEmail).Msg("receipt_worker: failed to enqueue email")
		return
	}
	log.Info().Str("email", payload.ToEmail).Msg("receipt_worker: email job enqueued")
}
