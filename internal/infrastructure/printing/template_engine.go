package printing

import (
	"context"
	"html/template"
	"maps"
	"strings"
)

// TemplateEngine compiles document templates with the formatting helpers
// in funcs.go. html/template escaping applies to all output.
type TemplateEngine struct {
	funcs template.FuncMap
}

type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds template functions, replacing built-ins of the same name
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) { maps.Copy(e.funcs, funcs) }
}

func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{funcs: builtinFuncs()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *TemplateEngine) Parse(name, content string) (*template.Template, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "template "+name+" is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcs).Parse(content)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "parse template "+name, err)
	}
	return tmpl, nil
}

func (e *TemplateEngine) Execute(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "execute template "+tmpl.Name(), err)
	}
	return sb.String(), nil
}

// RenderString parses content and executes it in one go. Used for ad hoc
// templates. The packaged ones are parsed once at startup.
func (e *TemplateEngine) RenderString(_ context.Context, name, content string, data any) (string, error) {
	tmpl, err := e.Parse(name, content)
	if err != nil {
		return "", err
	}
	return e.Execute(tmpl, data)
}

// GetFuncMap returns a copy, changes to it do not affect the engine
func (e *TemplateEngine) GetFuncMap() template.FuncMap {
	return maps.Clone(e.funcs)
}
