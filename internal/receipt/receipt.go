package receipt

import (
	"bytes"
	"fmt"

	"github.com/forkline-pos/forkline/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// 80mm thermal roll; height grows with the line count so the cut lands
// just past the QR code.
const (
	pageWidth  = 80.0
	marginX    = 5.0
	lineHeight = 4.5
	qrSize     = 22.0
)

// Generate renders the guest receipt for a closed check. The check must be
// loaded with its items and payments; voided items are listed struck-out
// with a zero amount rather than hidden.
func Generate(check *models.Check, baseURL string) ([]byte, error) {
	contentWidth := pageWidth - marginX*2

	// Rough height estimate: header + one line per item/modifier/payment +
	// totals block + QR footer.
	lines := 14 + len(check.Payments)
	for i := range check.Items {
		lines += 1 + len(check.Items[i].ModifierList())
	}
	pageHeight := float64(lines)*lineHeight + qrSize + 20

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetMargins(marginX, 8, marginX)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Header
	pdf.SetFont("Courier", "B", 11)
	rvcName := "Receipt"
	if check.Rvc != nil {
		rvcName = check.Rvc.Name
	}
	pdf.CellFormat(contentWidth, lineHeight+1, rvcName, "", 1, "C", false, 0, "")

	pdf.SetFont("Courier", "", 8)
	pdf.CellFormat(contentWidth, lineHeight, fmt.Sprintf("Check #%d", check.CheckNumber), "", 1, "C", false, 0, "")
	if check.TableLabel != "" {
		pdf.CellFormat(contentWidth, lineHeight, fmt.Sprintf("Table %s  Guests %d", check.TableLabel, check.GuestCount), "", 1, "C", false, 0, "")
	}
	if check.ClosedAt != nil {
		pdf.CellFormat(contentWidth, lineHeight, check.ClosedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	}
	divider(pdf, contentWidth)

	// Items
	for i := range check.Items {
		item := &check.Items[i]
		name := item.Name
		if item.Quantity > 1 {
			name = fmt.Sprintf("%dx %s", item.Quantity, name)
		}
		amount := item.LineTotal()
		if item.Voided {
			name = "VOID " + name
			amount = 0
		}
		itemLine(pdf, contentWidth, name, amount)

		for _, mod := range item.ModifierList() {
			modName := "  + " + mod.Name
			if item.Voided {
				itemLine(pdf, contentWidth, modName, 0)
			} else if mod.PriceDelta != 0 {
				itemLine(pdf, contentWidth, modName, mod.PriceDelta*float64(item.Quantity))
			} else {
				pdf.CellFormat(contentWidth, lineHeight, modName, "", 1, "L", false, 0, "")
			}
		}
	}
	divider(pdf, contentWidth)

	// Totals
	itemLine(pdf, contentWidth, "Subtotal", check.Subtotal)
	if check.Tax > 0 {
		itemLine(pdf, contentWidth, "Tax", check.Tax)
	}
	pdf.SetFont("Courier", "B", 9)
	itemLine(pdf, contentWidth, "Total", check.Total)
	pdf.SetFont("Courier", "", 8)
	divider(pdf, contentWidth)

	// Payments
	for i := range check.Payments {
		p := &check.Payments[i]
		itemLine(pdf, contentWidth, p.TenderName, p.Amount)
		if p.Tip > 0 {
			itemLine(pdf, contentWidth, "  Tip", p.Tip)
		}
	}
	divider(pdf, contentWidth)

	// QR footer links the digital copy
	qrContent := fmt.Sprintf("%s/api/checks/%d/receipt.pdf", baseURL, check.ID)
	qrPng, err := qrcode.Encode(qrContent, qrcode.Low, 256)
	if err != nil {
		return nil, err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("receipt_qr", opts, bytes.NewReader(qrPng))
	pdf.ImageOptions("receipt_qr", (pageWidth-qrSize)/2, pdf.GetY()+2, qrSize, qrSize, false, opts, 0, "")

	pdf.SetY(pdf.GetY() + qrSize + 4)
	pdf.SetFontSize(7)
	pdf.CellFormat(contentWidth, lineHeight, "Thank you!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func divider(pdf *gofpdf.Fpdf, width float64) {
	pdf.CellFormat(width, lineHeight, "--------------------------------", "", 1, "C", false, 0, "")
}

func itemLine(pdf *gofpdf.Fpdf, width float64, label string, amount float64) {
	pdf.CellFormat(width*0.68, lineHeight, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(width*0.32, lineHeight, fmt.Sprintf("%.2f", amount), "", 1, "R", false, 0, "")
}
