package infra

// pdf.go — PDF receipt generation using go-pdf/fpdf.
// Renders A7-size thermal receipt-style documents with:
//   - Company name and RNC header
//   - Invoice number, fiscal NCF (when issued) and timestamp
//   - Item table (product name, quantity, line total)
//   - Discount line (if applicable)
//   - ITBIS and bold total
//   - Payment / change breakdown
//
// The output file is saved to storagePath/receipt_{invoice_no}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JUNIORPRUEVA/FULLTECHAPPPROYECTO-sub000/internal/model"

	"github.com/go-pdf/fpdf"
)

// ReceiptBranding carries the issuer identity printed on every receipt.
type ReceiptBranding struct {
	CompanyName string
	CompanyRNC  string
}

// GenerateReceiptPDF renders the receipt for a settled sale.
// storagePath is the directory the PDF is written to (created if needed).
// Returns the path of the generated file.
func GenerateReceiptPDF(sale *model.Sale, branding ReceiptBranding, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", sale.InvoiceNo)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm, close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, branding.CompanyName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	if branding.CompanyRNC != "" {
		pdf.CellFormat(contentW, 4, "RNC "+branding.CompanyRNC, "", 1, "C", false, 0, "")
	}
	label := "Factura de Consumo"
	if sale.InvoiceType == model.InvoiceTypeFiscal {
		label = "Factura con Valor Fiscal"
	}
	pdf.CellFormat(contentW, 5, label, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Invoice info ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, sale.InvoiceNo, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	if sale.NCF != nil {
		pdf.CellFormat(contentW, 4, "NCF: "+*sale.NCF, "", 1, "L", false, 0, "")
	}
	if sale.CustomerRNC != nil && *sale.CustomerRNC != "" {
		pdf.CellFormat(contentW, 4, "RNC Cliente: "+*sale.CustomerRNC, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 4, sale.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── Separator ────────────────────────────────────────────────────────────
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items header ──────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // line total

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Importe", "B", 1, "R", false, 0, "")

	// ── Item rows ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	for _, item := range sale.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		// Truncate long names
		if len(name) > 22 {
			name = name[:21] + "…"
		}
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "x"+item.Qty.String(), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "RD$"+item.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 5, "Subtotal:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 5, "RD$"+sale.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	if !sale.DiscountTotal.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Descuento:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-RD$"+sale.DiscountTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.CellFormat(col1+col2, 5, "ITBIS (18%):", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 5, "RD$"+sale.ItbisTotal.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "RD$"+sale.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Payment ───────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	if sale.PaymentMethod != nil {
		pdf.CellFormat(col1+col2, 4, "Pago ("+*sale.PaymentMethod+"):", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "RD$"+sale.PaidAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !sale.ChangeAmount.IsZero() {
		pdf.CellFormat(col1+col2, 4, "Cambio:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "RD$"+sale.ChangeAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "¡Gracias por su compra!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
