// Package render provides the text-substitution capability used for both file
// contents and destination paths.
package render

import (
	"fmt"
	"math"
	"regexp"
	"sort"

	"github.com/iancoleman/strcase"

	"github.com/tacogips/qgen/internal/config"
	"github.com/tacogips/qgen/internal/debug"
)

// identifierPattern matches names every engine can reference directly.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Engine renders template text against a data context.
type Engine interface {
	// Name returns the engine name as configured.
	Name() string
	// Render renders text. name identifies the template in errors.
	Render(name, text string, data map[string]interface{}) (string, error)
}

// Renderer is the engine bound to a helper registry.
type Renderer struct {
	engine Engine
}

// NewRenderer creates a Renderer for the named engine. Helpers from the
// registry are exposed to every template as callable functions.
func NewRenderer(engineName string, helpers *Registry) (*Renderer, error) {
	if helpers == nil {
		helpers = NewRegistry()
	}
	r := &Renderer{}

	funcs := helpers.funcs(r.renderSnippet)
	switch engineName {
	case "", config.EngineHandlebars:
		r.engine = newHandlebarsEngine(funcs)
	case config.EnginePongo2:
		r.engine = newPongo2Engine(funcs)
	case config.EngineGo:
		r.engine = newGoTextEngine(funcs)
	default:
		return nil, config.NewConfigErrorWithField(config.ConfigInvalid, "", config.KeyEngine,
			fmt.Sprintf("unknown engine %q", engineName))
	}

	debug.Debug("[render] Using %s engine with %d helpers", r.engine.Name(), len(funcs))
	return r, nil
}

// EngineName returns the name of the underlying engine.
func (r *Renderer) EngineName() string {
	return r.engine.Name()
}

// Render renders text with data as context.
func (r *Renderer) Render(name, text string, data map[string]interface{}) (string, error) {
	return r.engine.Render(name, text, withKeyAliases(data))
}

// renderSnippet renders a helper snippet with {value, args} as context.
func (r *Renderer) renderSnippet(helper, snippet string, value interface{}, args []interface{}) (string, error) {
	return r.engine.Render("helper "+helper, snippet, map[string]interface{}{
		"value": value,
		"args":  args,
	})
}

// withKeyAliases also exposes each top-level key that is not an identifier,
// such as page-title from a config file, under its lower camel case name.
// An existing key of that name wins.
func withKeyAliases(data map[string]interface{}) map[string]interface{} {
	keys := make([]string, 0, len(data))
	for k := range data {
		if !identifierPattern.MatchString(k) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return data
	}
	sort.Strings(keys)

	out := make(map[string]interface{}, len(data)+len(keys))
	for k, v := range data {
		out[k] = v
	}
	for _, k := range keys {
		alias := strcase.ToLowerCamel(k)
		if !identifierPattern.MatchString(alias) {
			continue
		}
		if _, taken := out[alias]; taken {
			continue
		}
		debug.Debug("[render] Key %q is also available as %q", k, alias)
		out[alias] = data[k]
	}
	return out
}

// normalize converts whole float64 values (as produced by config decoders)
// to int64 so that they print without a fractional part.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
		return t
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}
