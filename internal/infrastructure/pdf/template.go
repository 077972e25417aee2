package pdf

import (
	"bytes"
	"context"
	"html/template"

	"github.com/backoffice/backend/internal/domain/billing"
)

// documentTemplate is the built-in print layout shared by all series.
var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}} {{.Number}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
  .header { display: flex; justify-content: space-between; margin-bottom: 24px; }
  .title { font-size: 22px; font-weight: bold; text-transform: uppercase; }
  .meta { text-align: right; }
  .meta div { margin-bottom: 2px; }
  .parties { margin-bottom: 24px; }
  .parties .label { font-size: 10px; color: #888; text-transform: uppercase; }
  table.items { width: 100%; border-collapse: collapse; margin-bottom: 16px; }
  table.items th { text-align: left; border-bottom: 2px solid #222; padding: 6px 4px; font-size: 10px; text-transform: uppercase; }
  table.items td { border-bottom: 1px solid #ddd; padding: 6px 4px; }
  table.items .num { text-align: right; }
  .totals { width: 280px; margin-left: auto; }
  .totals div { display: flex; justify-content: space-between; padding: 3px 4px; }
  .totals .grand { font-weight: bold; border-top: 2px solid #222; padding-top: 6px; }
  .notes { margin-top: 32px; font-size: 11px; color: #555; white-space: pre-wrap; }
</style>
</head>
<body>
  <div class="header">
    <div class="title">{{.Title}}</div>
    <div class="meta">
      <div><strong>{{.Number}}</strong></div>
      <div>Issued: {{.IssueDate}}</div>
      {{if .DueDate}}<div>Due: {{.DueDate}}</div>{{end}}
      <div>Status: {{.Status}}</div>
    </div>
  </div>
  <div class="parties">
    <div class="label">Billed to</div>
    <div><strong>{{.ContactName}}</strong></div>
    {{if .BillTo}}<div>{{.BillTo}}</div>{{end}}
    {{if .ShipTo}}<div class="label" style="margin-top:8px">Ship to</div><div>{{.ShipTo}}</div>{{end}}
  </div>
  <table class="items">
    <tr><th>#</th><th>Description</th><th class="num">Qty</th><th class="num">Rate</th><th class="num">Amount</th></tr>
    {{range .Items}}
    <tr>
      <td>{{.Position}}</td>
      <td>{{.Description}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{.UnitRate}}</td>
      <td class="num">{{.LineAmount}}</td>
    </tr>
    {{end}}
  </table>
  <div class="totals">
    <div><span>Subtotal</span><span>{{.Currency}} {{.SubTotal}}</span></div>
    {{if .Discount}}<div><span>Discount{{if .DiscountLabel}} ({{.DiscountLabel}}){{end}}</span><span>-{{.Currency}} {{.Discount}}</span></div>{{end}}
    <div><span>Tax</span><span>{{.Currency}} {{.TaxTotal}}</span></div>
    {{if .Adjustment}}<div><span>Adjustment</span><span>{{.Currency}} {{.Adjustment}}</span></div>{{end}}
    <div class="grand"><span>Total</span><span>{{.Currency}} {{.GrandTotal}}</span></div>
  </div>
  {{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}
</body>
</html>`))

type templateLine struct {
	Position    int
	Description string
	Quantity    string
	UnitRate    string
	LineAmount  string
}

type templateData struct {
	Title         string
	Number        string
	Status        string
	IssueDate     string
	DueDate       string
	ContactName   string
	BillTo        string
	ShipTo        string
	Currency      string
	Items         []templateLine
	SubTotal      string
	TaxTotal      string
	Discount      string
	DiscountLabel string
	Adjustment    string
	GrandTotal    string
	Notes         string
}

func seriesTitle(series billing.DocumentSeries) string {
	switch series {
	case billing.SeriesInvoice:
		return "Invoice"
	case billing.SeriesEstimate:
		return "Estimate"
	case billing.SeriesProposal:
		return "Proposal"
	case billing.SeriesCreditNote:
		return "Credit Note"
	default:
		return "Document"
	}
}

func discountLabel(policy billing.DiscountPolicy) string {
	switch policy {
	case billing.DiscountBeforeTax:
		return "before tax"
	case billing.DiscountAfterTax:
		return "after tax"
	default:
		return ""
	}
}

// DocumentHTML renders the print layout for a document
func DocumentHTML(doc *billing.Document) (string, error) {
	data := templateData{
		Title:       seriesTitle(doc.Series),
		Number:      doc.Number,
		Status:      string(doc.Status),
		IssueDate:   doc.IssueDate.Format("02 Jan 2006"),
		ContactName: doc.DisplayContactName(),
		BillTo:      doc.BillTo,
		ShipTo:      doc.ShipTo,
		Currency:    string(doc.Currency),
		SubTotal:    doc.SubTotal.StringFixed(2),
		TaxTotal:    doc.TaxTotal.StringFixed(2),
		GrandTotal:  doc.GrandTotal.StringFixed(2),
		Notes:       doc.Notes,
	}
	if doc.DueDate != nil && !doc.DueDate.IsZero() {
		data.DueDate = doc.DueDate.Format("02 Jan 2006")
	}
	if doc.DiscountAmount.IsPositive() {
		data.Discount = doc.DiscountAmount.StringFixed(2)
		data.DiscountLabel = discountLabel(doc.DiscountPolicy)
	}
	if !doc.AdjustmentAmount.IsZero() {
		data.Adjustment = doc.AdjustmentAmount.StringFixed(2)
	}

	data.Items = make([]templateLine, len(doc.Items))
	for i, item := range doc.Items {
		data.Items[i] = templateLine{
			Position:    item.Position + 1,
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			UnitRate:    item.UnitRate.StringFixed(2),
			LineAmount:  item.LineAmount.StringFixed(2),
		}
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DocumentPrinter produces PDF output for documents
type DocumentPrinter struct {
	renderer Renderer
}

// NewDocumentPrinter creates a new DocumentPrinter
func NewDocumentPrinter(renderer Renderer) *DocumentPrinter {
	return &DocumentPrinter{renderer: renderer}
}

// Print renders the document's print layout to PDF bytes
func (p *DocumentPrinter) Print(ctx context.Context, doc *billing.Document) ([]byte, error) {
	html, err := DocumentHTML(doc)
	if err != nil {
		return nil, err
	}
	return p.renderer.Render(ctx, html)
}
