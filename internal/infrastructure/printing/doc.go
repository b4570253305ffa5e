// Package printing turns invoices and reports into PDF documents.
//
// Templates are embedded HTML files rendered with html/template and a set of
// formatting helpers. The resulting page is printed by headless Chrome through
// chromedp, either launched locally or reached over a remote DevTools URL.
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{RemoteURL: cfg.Printing.RemoteURL})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	printer, err := NewPrinter(NewTemplateEngine(), renderer, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf, err := printer.RenderPDF(ctx, "invoice", "INV-202506-0001", data)
package printing
