package billing

import "context"

// TemplateInvoice is the name of the invoice print template
const TemplateInvoice = "invoice"

// Printer renders a named HTML template with data to PDF
type Printer interface {
	RenderPDF(ctx context.Context, template, title string, data any) ([]byte, error)
}
