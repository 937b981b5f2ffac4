package render

import (
	"regexp"

	"github.com/flosch/pongo2/v6"

	"github.com/tacogips/qgen/internal/config"
	"github.com/tacogips/qgen/internal/debug"
)

// pongo2 only accepts identifier-like context keys.
var pongo2KeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Pongo2Engine renders Django-style templates: {{ title }}, {{ title|upper }},
// {{ kebab(title) }}, {% if draft %}...{% endif %}.
// Output is never HTML-escaped.
type Pongo2Engine struct {
	set *pongo2.TemplateSet
}

func newPongo2Engine(funcs map[string]HelperFunc) *Pongo2Engine {
	set := pongo2.NewSet("qgen", pongo2.DefaultLoader)
	for name, fn := range funcs {
		set.Globals[name] = fn
	}
	return &Pongo2Engine{set: set}
}

// Name returns the engine name.
func (e *Pongo2Engine) Name() string {
	return config.EnginePongo2
}

// Render renders text with data as context.
func (e *Pongo2Engine) Render(name, text string, data map[string]interface{}) (string, error) {
	tpl, err := e.set.FromString("{% autoescape off %}" + text + "{% endautoescape %}")
	if err != nil {
		return "", NewRenderError(e.Name(), name, err)
	}

	ctx := pongo2.Context{}
	for k, v := range data {
		if !pongo2KeyPattern.MatchString(k) {
			debug.Debug("[render] Dropping context key %q: not a valid identifier", k)
			continue
		}
		ctx[k] = normalize(v)
	}

	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", NewRenderError(e.Name(), name, err)
	}
	return out, nil
}
