package render

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/samber/lo"

	"github.com/tacogips/qgen/internal/config"
)

// GoTextEngine renders text/template templates with the sprig function set:
// {{ .title }}, {{ .title | upper }}, {{ kebab .title }}.
// Registered helpers take precedence over sprig functions of the same name.
type GoTextEngine struct {
	funcs template.FuncMap
}

func newGoTextEngine(helpers map[string]HelperFunc) *GoTextEngine {
	own := make(template.FuncMap, len(helpers))
	for name, fn := range helpers {
		own[name] = fn
	}
	return &GoTextEngine{
		funcs: lo.Assign(sprig.TxtFuncMap(), own),
	}
}

// Name returns the engine name.
func (e *GoTextEngine) Name() string {
	return config.EngineGo
}

// Render renders text with data as context.
func (e *GoTextEngine) Render(name, text string, data map[string]interface{}) (string, error) {
	tpl, err := template.New(name).Funcs(e.funcs).Parse(text)
	if err != nil {
		return "", NewRenderError(e.Name(), name, err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, normalize(data)); err != nil {
		return "", NewRenderError(e.Name(), name, err)
	}
	return buf.String(), nil
}
