// Package printer renders receipts as printable HTML and PDF documents.
package printer

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/shopspring/decimal"
)

const dateLayout = "January 2, 2006 3:04 PM"

type Options struct {
	StoreName string
	Location  *time.Location
	// Currency prefixes amounts in HTML. PDFCurrency replaces it in PDFs, whose core
	// fonts cannot draw symbols such as ₱.
	Currency    string
	PDFCurrency string
}

type Printer struct {
	opts Options
	tmpl *template.Template
}

func New(opts Options) *Printer {
	if opts.StoreName == "" {
		opts.StoreName = "POS Receipt"
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Currency == "" {
		opts.Currency = "₱"
	}
	if opts.PDFCurrency == "" {
		opts.PDFCurrency = "PHP "
	}
	p := &Printer{opts: opts}
	p.tmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
		"money": p.money,
		"line":  func(it models.ReceiptItem) string { return p.money(it.LineTotal()) },
	}).Parse(receiptHTML))
	return p
}

func (p *Printer) money(d decimal.Decimal) string {
	return p.opts.Currency + d.StringFixed(2)
}

type receiptView struct {
	Title   string
	Date    string
	Receipt models.Receipt
}

// HTML writes the receipt as a standalone HTML page.
func (p *Printer) HTML(w io.Writer, r models.Receipt) error {
	view := receiptView{
		Title:   p.opts.StoreName,
		Date:    r.Date.In(p.opts.Location).Format(dateLayout),
		Receipt: r,
	}
	if err := p.tmpl.Execute(w, view); err != nil {
		return fmt.Errorf("render receipt html: %w", err)
	}
	return nil
}

// PDF writes an 80mm-wide receipt sized to its item count.
func (p *Printer) PDF(w io.Writer, r models.Receipt) error {
	const (
		width  = 80.0
		margin = 5.0
		lineH  = 6.0
	)
	height := 70.0 + float64(len(r.Items))*lineH
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	amount := func(d decimal.Decimal) string { return p.opts.PDFCurrency + d.StringFixed(2) }
	inner := width - 2*margin

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(inner, 8, tr(p.opts.StoreName), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(inner, 5, "Date & Time: "+r.Date.In(p.opts.Location).Format(dateLayout), "", 1, "L", false, 0, "")
	pdf.CellFormat(inner, 5, tr("Customer Name: "+r.CustomerName), "", 1, "L", false, 0, "")
	pdf.CellFormat(inner, 5, "Order Type: "+string(r.OrderType), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	nameW, qtyW := inner*0.5, inner*0.15
	priceW := inner - nameW - qtyW
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(nameW, lineH, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(qtyW, lineH, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(priceW, lineH, "Price", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, it := range r.Items {
		pdf.CellFormat(nameW, lineH, tr(it.Product), "B", 0, "L", false, 0, "")
		pdf.CellFormat(qtyW, lineH, fmt.Sprint(it.Quantity), "B", 0, "C", false, 0, "")
		pdf.CellFormat(priceW, lineH, amount(it.LineTotal()), "B", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(inner, 6, "Total: "+amount(r.Total), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(inner, 5, "Amount Paid: "+amount(r.AmountPaid), "", 1, "L", false, 0, "")
	pdf.CellFormat(inner, 5, "Change: "+amount(r.Change), "", 1, "L", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render receipt pdf: %w", err)
	}
	return pdf.Output(w)
}

// PDFBytes is PDF into memory, for handlers that set Content-Length.
func (p *Printer) PDFBytes(r models.Receipt) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.PDF(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const receiptHTML = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>
      body { font-family: Arial, sans-serif; padding: 20px; font-size: 16px; }
      h2 { text-align: center; margin-bottom: 20px; }
      table { width: 100%; border-collapse: collapse; margin-bottom: 15px; }
      th, td { border-bottom: 1px solid #ddd; padding: 8px; }
      th { text-align: left; }
      .info { margin-bottom: 12px; }
      .label { font-weight: bold; }
      .total { font-weight: bold; font-size: 18px; }
    </style>
  </head>
  <body>
    <h2>🧾 {{.Title}}</h2>
    <div class="info"><span class="label">Date &amp; Time:</span> {{.Date}}</div>
    <div class="info"><span class="label">Customer Name:</span> {{.Receipt.CustomerName}}</div>
    <div class="info"><span class="label">Order Type:</span> {{.Receipt.OrderType}}</div>
    <table>
      <thead>
        <tr><th>Product</th><th style="text-align:center;">Qty</th><th style="text-align:right;">Price</th></tr>
      </thead>
      <tbody>
        {{- range .Receipt.Items}}
        <tr><td>{{.Product}}</td><td style="text-align:center;">{{.Quantity}}</td><td style="text-align:right;">{{line .}}</td></tr>
        {{- end}}
      </tbody>
    </table>
    <div class="total">Total: {{money .Receipt.Total}}</div>
    <div class="info"><span class="label">Amount Paid:</span> {{money .Receipt.AmountPaid}}</div>
    <div class="info"><span class="label">Change:</span> {{money .Receipt.Change}}</div>
  </body>
</html>
`
