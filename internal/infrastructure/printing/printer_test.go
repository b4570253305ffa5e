package printing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rwbiz/backend/internal/application/billing"
	"github.com/rwbiz/backend/internal/application/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureRenderer struct {
	last   *RenderRequest
	err    error
	closed bool
}

func (c *captureRenderer) Render(_ context.Context, req *RenderRequest) (*RenderResult, error) {
	c.last = req
	if c.err != nil {
		return nil, c.err
	}
	return &RenderResult{PDFData: []byte("%PDF-1.4 fake"), PageCount: 1, RenderDuration: time.Millisecond}, nil
}

func (c *captureRenderer) Close() error {
	c.closed = true
	return nil
}

func newPrinter(t *testing.T) (*Printer, *captureRenderer) {
	t.Helper()
	renderer := &captureRenderer{}
	p, err := NewPrinter(nil, renderer, zap.NewNop())
	require.NoError(t, err)
	return p, renderer
}

func TestNewPrinter_LoadsEmbeddedTemplates(t *testing.T) {
	p, _ := newPrinter(t)
	assert.Contains(t, p.templates, billing.TemplateInvoice)
	assert.Contains(t, p.templates, report.TemplateReport)
}

func TestPrinter_RenderPDF_Invoice(t *testing.T) {
	p, renderer := newPrinter(t)
	issued := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	data := billing.InvoicePrint{
		Company: billing.CompanyPrint{
			Name:          "Kigali Coffee Ltd",
			TIN:           "101234567",
			Address:       "KN 4 Ave",
			District:      "Nyarugenge",
			VATRegistered: true,
		},
		Invoice: billing.InvoiceResponse{
			Number:       "INV-202506-0001",
			CustomerName: "Hotel des Mille Collines",
			IssueDate:    issued,
			DueDate:      issued.AddDate(0, 0, 30),
			Currency:     "RWF",
			Items: []billing.ItemResponse{{
				Position:    1,
				Description: "Arabica beans 1kg",
				Quantity:    d("2"),
				UnitPrice:   d("500000"),
				VATRate:     d("18"),
				NetAmount:   d("1000000"),
				VATAmount:   d("180000"),
			}},
			Subtotal: d("1000000"),
			VATTotal: d("180000"),
			Total:    d("1180000"),
			Balance:  d("1180000"),
			Status:   "ISSUED",
		},
		Printed: issued,
	}

	pdf, err := p.RenderPDF(context.Background(), billing.TemplateInvoice, "INV-202506-0001", data)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), pdf)

	req := renderer.last
	require.NotNil(t, req)
	assert.Equal(t, "INV-202506-0001", req.Title)
	assert.Equal(t, PaperSizeA4, req.PaperSize)
	assert.False(t, req.Landscape)
	assert.Equal(t, DefaultMargins(), req.Margins)
	assert.Equal(t, pageFooter, req.FooterHTML)

	assert.Contains(t, req.HTML, "TAX INVOICE")
	assert.Contains(t, req.HTML, "Kigali Coffee Ltd")
	assert.Contains(t, req.HTML, "TIN: 101234567")
	assert.Contains(t, req.HTML, "Arabica beans 1kg")
	assert.Contains(t, req.HTML, "500,000")
	assert.Contains(t, req.HTML, "18%")
	assert.Contains(t, req.HTML, "RWF 1,180,000")
	assert.Contains(t, req.HTML, "2025-07-10")
	assert.Contains(t, req.HTML, "Issued")
	assert.NotContains(t, req.HTML, "Balance due", "nothing paid yet")
}

func TestPrinter_RenderPDF_Report(t *testing.T) {
	p, renderer := newPrinter(t)

	table := &report.Table{
		Title:    "Shareholder register",
		Subtitle: "Kigali Coffee Ltd",
		Columns: []report.Column{
			{Header: "Shareholder", Kind: report.ColumnText},
			{Header: "Shares", Kind: report.ColumnInteger},
			{Header: "Ownership %", Kind: report.ColumnPercent},
			{Header: "Locked capital", Kind: report.ColumnMoney},
		},
		Rows: [][]any{
			{"Alice Uwase", int64(600), d("60"), d("5000000")},
		},
		Footer: []any{"Total", int64(1000), nil, d("5000000")},
	}

	_, err := p.RenderPDF(context.Background(), report.TemplateReport, table.Title, table)
	require.NoError(t, err)

	req := renderer.last
	require.NotNil(t, req)
	assert.True(t, req.Landscape)
	assert.Contains(t, req.HTML, "<h1>Shareholder register</h1>")
	assert.Contains(t, req.HTML, "Alice Uwase")
	assert.Contains(t, req.HTML, `<td class="percent">60%</td>`)
	assert.Contains(t, req.HTML, `<td class="money">5,000,000</td>`)
	assert.Contains(t, req.HTML, "<tfoot>")
	assert.Contains(t, req.HTML, `<td class="integer">1,000</td>`)
}

func TestPrinter_RenderPDF_Errors(t *testing.T) {
	p, renderer := newPrinter(t)

	_, err := p.RenderPDF(context.Background(), "payslip", "x", nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeUnknownTemplate, renderErr.Code)
	assert.Nil(t, renderer.last, "unknown templates never reach the browser")

	renderer.err = NewRenderError(ErrCodeRenderTimeout, "timed out", context.DeadlineExceeded)
	_, err = p.RenderPDF(context.Background(), report.TemplateReport, "x", &report.Table{Title: "Empty"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestPrinter_Close(t *testing.T) {
	p, renderer := newPrinter(t)
	require.NoError(t, p.Close())
	assert.True(t, renderer.closed)
}
