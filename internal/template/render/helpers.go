package render

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/tacogips/qgen/internal/config"
	"github.com/tacogips/qgen/internal/debug"
)

// HelperFunc is a named callback callable from templates, e.g.
// {{kebab title}} with handlebars, {{ kebab(title) }} with pongo2 or
// {{ kebab .title }} with the go engine.
type HelperFunc func(value interface{}, args ...interface{}) (string, error)

// helper is either a Go callback or a template snippet.
type helper struct {
	fn      HelperFunc
	snippet string
	source  string
}

// Registry holds the named helpers exposed to templates. Registering a name
// again replaces the earlier helper.
type Registry struct {
	helpers map[string]helper
}

// NewRegistry creates a registry holding the built-in helpers.
func NewRegistry() *Registry {
	r := &Registry{helpers: make(map[string]helper)}
	for name, fn := range builtinHelpers() {
		r.helpers[name] = helper{fn: fn, source: "builtin"}
	}
	return r
}

// Register adds a Go callback helper.
func (r *Registry) Register(name string, fn HelperFunc) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid helper name %q", name)
	}
	if fn == nil {
		return fmt.Errorf("helper %q has no function", name)
	}
	r.helpers[name] = helper{fn: fn, source: "callback"}
	return nil
}

// RegisterSnippet adds a helper that renders snippet with the active engine,
// using {value, args} as context.
func (r *Registry) RegisterSnippet(name, snippet string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid helper name %q", name)
	}
	r.helpers[name] = helper{snippet: snippet, source: "snippet"}
	return nil
}

// Has reports whether a helper named name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.helpers[name]
	return ok
}

// Names returns the sorted helper names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.helpers))
	for name := range r.helpers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// funcs resolves every helper to a HelperFunc. Snippet helpers are bound to
// renderSnippet.
func (r *Registry) funcs(renderSnippet func(helper, snippet string, value interface{}, args []interface{}) (string, error)) map[string]HelperFunc {
	out := make(map[string]HelperFunc, len(r.helpers))
	for name, h := range r.helpers {
		if h.fn != nil {
			out[name] = h.fn
			continue
		}
		name, snippet := name, h.snippet
		out[name] = func(value interface{}, args ...interface{}) (string, error) {
			return renderSnippet(name, snippet, normalize(value), args)
		}
	}
	return out
}

// LoadHelperFile reads a YAML or JSON file mapping helper names to template
// snippets and registers each entry. A missing or malformed file is a
// ConfigError.
func LoadHelperFile(fs afero.Fs, path string, reg *Registry) error {
	debug.Debug("[render] Loading helpers from %s", path)

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return config.NewConfigErrorWithCause(config.ConfigHelpersInvalid, path, "failed to read helpers file", err)
	}

	// YAML is a superset of JSON, so one decoder serves both.
	var defs map[string]interface{}
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return config.NewConfigErrorWithCause(config.ConfigHelpersInvalid, path, "invalid helpers file syntax", err)
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		snippet, ok := defs[name].(string)
		if !ok {
			return config.NewConfigErrorWithField(config.ConfigHelpersInvalid, path, name,
				fmt.Sprintf("helper must be a template string, got %T", defs[name]))
		}
		if reg.Has(name) {
			debug.Debug("[render] Helper %q from %s replaces an existing helper", name, filepath.Base(path))
		}
		if err := reg.RegisterSnippet(name, snippet); err != nil {
			return config.NewConfigErrorWithCause(config.ConfigHelpersInvalid, path, "invalid helper", err)
		}
		debug.Debug("[render] Registered helper %q from %s", name, filepath.Base(path))
	}
	return nil
}

// builtinHelpers returns the helpers available in every render.
func builtinHelpers() map[string]HelperFunc {
	str := func(conv func(string) string) HelperFunc {
		return func(value interface{}, _ ...interface{}) (string, error) {
			return conv(toString(value)), nil
		}
	}
	return map[string]HelperFunc{
		"camel":          str(strcase.ToLowerCamel),
		"pascal":         str(strcase.ToCamel),
		"kebab":          str(strcase.ToKebab),
		"snake":          str(strcase.ToSnake),
		"screamingSnake": str(strcase.ToScreamingSnake),
		"upper":          str(strings.ToUpper),
		"lower":          str(strings.ToLower),
		"trim":           str(strings.TrimSpace),
	}
}

// toString formats a context value the way it prints in a template.
func toString(value interface{}) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(normalize(value))
}
