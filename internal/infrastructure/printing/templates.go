package printing

import (
	"embed"
	"html/template"
	"io/fs"
	"path"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// layout holds page settings for a built-in template
type layout struct {
	PaperSize PaperSize
	Landscape bool
}

// layouts maps template names to their page setup. Names match the
// application constants for the invoice and report exports.
var layouts = map[string]layout{
	"invoice": {PaperSize: PaperSizeA4},
	"report":  {PaperSize: PaperSizeA4, Landscape: true},
}

const pageFooter = `<div style="font-size:8px;width:100%;text-align:center;color:#666;">` +
	`<span class="pageNumber"></span> / <span class="totalPages"></span></div>`

// loadTemplates parses every embedded template with the engine's functions
func loadTemplates(engine *TemplateEngine) (map[string]*template.Template, error) {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*template.Template, len(entries))
	for _, entry := range entries {
		content, err := fs.ReadFile(templateFS, path.Join("templates", entry.Name()))
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		tmpl, err := engine.Parse(name, string(content))
		if err != nil {
			return nil, err
		}
		out[name] = tmpl
	}
	return out, nil
}
