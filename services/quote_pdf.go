package services

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"estimator-backend/calculator"
	"estimator-backend/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// QuoteDocument is everything printed on a quote PDF.
type QuoteDocument struct {
	Reference string
	Title     string
	Contact   models.ContactInfo
	Result    calculator.PriceResult
	IssuedAt  time.Time
	// QRContent, when set, is encoded as a QR code in the header.
	QRContent string
}

func trimSlash(s string) string { return strings.TrimRight(s, "/") }

// pdfAmountText renders an amount with the currency code instead of its
// symbol; the core PDF fonts cannot draw symbols such as ₹.
func pdfAmountText(amount decimal.Decimal, code string) string {
	if code == "" {
		code = calculator.DefaultCurrency
	}
	formatted := calculator.FormatAmount(amount, code)
	symbol := calculator.CurrencySymbol(code)
	return strings.Replace(formatted, symbol, strings.ToUpper(code)+" ", 1)
}

// WriteQuotePDF renders doc as an A4 quote.
func WriteQuotePDF(w io.Writer, doc QuoteDocument) error {
	res := doc.Result
	code := res.Currency
	amount := func(d decimal.Decimal) string { return pdfAmountText(d, code) }

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	if doc.QRContent != "" {
		png, err := QRCodePNG(doc.QRContent, 256)
		if err != nil {
			return err
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("quote-qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("quote-qr", 170, 10, 30, 30, false, opts, 0, "")
	}

	title := doc.Title
	if title == "" {
		title = "Project Estimate"
	}
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(150, 10, tr(title))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(150, 6, fmt.Sprintf("Quote No: %s", doc.Reference))
	pdf.Ln(6)
	pdf.Cell(150, 6, fmt.Sprintf("Date: %s", doc.IssuedAt.Format("02-Jan-2006")))
	pdf.Ln(10)

	if doc.Contact.Name != "" || doc.Contact.Email != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(190, 8, "Prepared for")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		for _, line := range []string{doc.Contact.Name, doc.Contact.Company, doc.Contact.Email, doc.Contact.Phone} {
			if line != "" {
				pdf.Cell(190, 6, tr(line))
				pdf.Ln(6)
			}
		}
		pdf.Ln(4)
	}

	header := func(cols ...string) {
		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(140, 8, cols[0], "1", 0, "L", true, 0, "")
		pdf.CellFormat(50, 8, cols[1], "1", 1, "C", true, 0, "")
		pdf.SetFont("Arial", "", 10)
	}
	row := func(label, value string) {
		pdf.CellFormat(140, 8, tr(label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, tr(value), "1", 1, "R", false, 0, "")
	}

	b := res.Breakdown
	header("Pricing factor", "Value")
	row("Base price", amount(b.BasePrice))
	for _, adj := range b.Adjustments {
		row(adj.Type+" - "+adj.Description, "x "+adj.Factor.String())
	}
	pdf.Ln(5)

	items := make([]calculator.LineItem, 0)
	for _, group := range [][]calculator.LineItem{b.Services, b.Features, b.Platforms, b.Integrations, b.TechStack, b.Support} {
		items = append(items, group...)
	}
	if len(items) > 0 {
		header("Line item", "Cost")
		for _, item := range items {
			row(item.Description, amount(item.Cost))
		}
		pdf.Ln(5)
	}

	if len(b.Discounts) > 0 {
		header("Discount", "Amount")
		for _, d := range b.Discounts {
			label := d.Description
			if !d.Applied {
				label += " (eligible)"
			}
			row(label, "- "+amount(d.Amount))
		}
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 11)
	totals := [][2]string{
		{"Estimate", amount(res.FinalPrice)},
		{"GST", amount(res.GSTAmount)},
		{"Total incl. GST", amount(res.TotalWithGST)},
		{"Estimate range", amount(res.LowEstimate) + " - " + amount(res.HighEstimate)},
	}
	for _, t := range totals {
		pdf.Cell(110, 8, t[0])
		pdf.CellFormat(80, 8, tr(t[1]), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(190, 5, "This estimate is indicative and based on the selections provided. Final pricing is confirmed after a scoping call.", "", "L", false)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render quote pdf: %w", err)
	}
	return pdf.Output(w)
}

// SubmissionQuoteDocument builds the PDF content for a stored submission.
func SubmissionQuoteDocument(sub *models.CalculatorSubmission, title, baseURL string) QuoteDocument {
	return QuoteDocument{
		Reference: sub.ID,
		Title:     title,
		Contact:   sub.ContactInfo,
		Result:    sub.Result,
		IssuedAt:  sub.CreatedAt,
		QRContent: QRPayload(sub, baseURL),
	}
}
