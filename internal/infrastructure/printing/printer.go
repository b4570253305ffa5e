package printing

import (
	"context"
	"html/template"

	"go.uber.org/zap"
)

// Printer renders the embedded templates to PDF. It satisfies the printer
// ports of the billing and report services.
type Printer struct {
	engine    *TemplateEngine
	renderer  PDFRenderer
	templates map[string]*template.Template
	logger    *zap.Logger
}

// NewPrinter parses the embedded templates up front so a broken template
// fails at startup instead of on the first export
func NewPrinter(engine *TemplateEngine, renderer PDFRenderer, logger *zap.Logger) (*Printer, error) {
	if engine == nil {
		engine = NewTemplateEngine()
	}
	templates, err := loadTemplates(engine)
	if err != nil {
		return nil, err
	}
	return &Printer{
		engine:    engine,
		renderer:  renderer,
		templates: templates,
		logger:    logger,
	}, nil
}

// RenderHTML executes a named template without printing it
func (p *Printer) RenderHTML(name string, data any) (string, error) {
	tmpl, ok := p.templates[name]
	if !ok {
		return "", NewRenderError(ErrCodeUnknownTemplate, "unknown template: "+name, nil)
	}
	return p.engine.Execute(tmpl, data)
}

// RenderPDF executes a named template and prints the page to PDF
func (p *Printer) RenderPDF(ctx context.Context, name, title string, data any) ([]byte, error) {
	content, err := p.RenderHTML(name, data)
	if err != nil {
		return nil, err
	}

	page, ok := layouts[name]
	if !ok {
		page = layout{PaperSize: PaperSizeA4}
	}
	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:       content,
		PaperSize:  page.PaperSize,
		Landscape:  page.Landscape,
		Margins:    DefaultMargins(),
		Title:      title,
		FooterHTML: pageFooter,
	})
	if err != nil {
		p.logger.Error("Failed to render PDF",
			zap.String("template", name),
			zap.String("title", title),
			zap.Error(err))
		return nil, err
	}
	p.logger.Info("PDF rendered",
		zap.String("template", name),
		zap.String("title", title),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result.PDFData, nil
}

// Close releases the underlying renderer
func (p *Printer) Close() error {
	return p.renderer.Close()
}
