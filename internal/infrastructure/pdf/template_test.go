package pdf

import (
	"strings"
	"testing"
	"time"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderedDocument(t *testing.T) *billing.Document {
	t.Helper()

	doc, err := billing.NewDocument(billing.SeriesInvoice, nil, "Acme Traders", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), valueobject.INR)
	require.NoError(t, err)
	require.NoError(t, doc.AssignNumber("INV-000042"))

	item, err := billing.NewLineItem(doc.ID, 0, "Consulting", decimal.NewFromInt(2), decimal.NewFromInt(100), nil)
	require.NoError(t, err)
	require.NoError(t, doc.SetPricing(decimal.NewFromInt(18), billing.DiscountNone, decimal.Zero, decimal.Zero))
	require.NoError(t, doc.ReplaceItems([]billing.LineItem{*item}))
	require.NoError(t, doc.Recalculate())
	return doc
}

func TestDocumentHTML(t *testing.T) {
	doc := renderedDocument(t)

	html, err := DocumentHTML(doc)
	require.NoError(t, err)

	assert.Contains(t, html, "INV-000042")
	assert.Contains(t, html, "Invoice")
	assert.Contains(t, html, "Acme Traders")
	assert.Contains(t, html, "Consulting")
	assert.Contains(t, html, "15 Mar 2026")
	assert.Contains(t, html, "INR 236.00")
	// No discount row when there is no discount
	assert.NotContains(t, html, "Discount")
}

func TestDocumentHTML_DiscountAndPlaceholderContact(t *testing.T) {
	doc := renderedDocument(t)
	doc.ContactName = ""
	require.NoError(t, doc.SetPricing(decimal.NewFromInt(18), billing.DiscountBeforeTax, decimal.NewFromInt(50), decimal.Zero))
	require.NoError(t, doc.Recalculate())

	html, err := DocumentHTML(doc)
	require.NoError(t, err)

	assert.Contains(t, html, "[deleted contact]")
	assert.Contains(t, html, "Discount")
	assert.Contains(t, html, "before tax")
	assert.Contains(t, html, "INR 186.00")
}

func TestDocumentHTML_EscapesUserContent(t *testing.T) {
	doc := renderedDocument(t)
	doc.Notes = `<script>alert("x")</script>`

	html, err := DocumentHTML(doc)
	require.NoError(t, err)

	assert.False(t, strings.Contains(html, "<script>alert"))
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestSeriesTitle(t *testing.T) {
	assert.Equal(t, "Invoice", seriesTitle(billing.SeriesInvoice))
	assert.Equal(t, "Estimate", seriesTitle(billing.SeriesEstimate))
	assert.Equal(t, "Proposal", seriesTitle(billing.SeriesProposal))
	assert.Equal(t, "Credit Note", seriesTitle(billing.SeriesCreditNote))
}
