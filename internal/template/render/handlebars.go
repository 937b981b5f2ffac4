package render

import (
	"github.com/aymerick/raymond"

	"github.com/tacogips/qgen/internal/config"
)

// HandlebarsEngine renders Handlebars templates: {{title}}, {{kebab title}},
// {{#if draft}}...{{/if}}. {{ }} output is HTML-escaped and {{{ }}} output is
// not. Text outside mustaches, including lone braces such as {#id} or
// {% raw %}, passes through unchanged.
type HandlebarsEngine struct {
	helpers map[string]interface{}
}

func newHandlebarsEngine(funcs map[string]HelperFunc) *HandlebarsEngine {
	helpers := make(map[string]interface{}, len(funcs))
	for name, fn := range funcs {
		helpers[name] = handlebarsHelper(fn)
	}
	return &HandlebarsEngine{helpers: helpers}
}

// handlebarsHelper adapts fn to raymond's calling convention: one positional
// value, with hash arguments ({{pad title width=3}}) passed as a single map
// argument. raymond returns a panicking helper's error from Exec.
func handlebarsHelper(fn HelperFunc) func(interface{}, *raymond.Options) string {
	return func(value interface{}, options *raymond.Options) string {
		var args []interface{}
		if hash := options.Hash(); len(hash) > 0 {
			args = append(args, hash)
		}
		out, err := fn(value, args...)
		if err != nil {
			panic(err)
		}
		return out
	}
}

// Name returns the engine name.
func (e *HandlebarsEngine) Name() string {
	return config.EngineHandlebars
}

// Render renders text with data as context.
func (e *HandlebarsEngine) Render(name, text string, data map[string]interface{}) (string, error) {
	tpl, err := raymond.Parse(text)
	if err != nil {
		return "", NewRenderError(e.Name(), name, err)
	}
	tpl.RegisterHelpers(e.helpers)

	out, err := tpl.Exec(normalize(data))
	if err != nil {
		return "", NewRenderError(e.Name(), name, err)
	}
	return out, nil
}
