package config

import (
	"github.com/knadh/koanf/v2"
)

// Options is a partial configuration: any subset of the well-known keys plus
// arbitrary user-defined keys that become template render data.
type Options map[string]interface{}

// Config is the effective configuration produced by merging, in order,
// built-in defaults, the config file, the per-template section of the config
// file (template-specific configs only) and caller-supplied options.
//
// A Config is never mutated after construction. Data returns a copy.
type Config struct {
	// Dest is the base destination directory.
	Dest string `koanf:"dest"`
	// Cwd is the working directory every relative path is resolved against.
	Cwd string `koanf:"cwd"`
	// Directory is the templates root.
	Directory string `koanf:"directory"`
	// ConfigPath is the path of the config file (absolute after resolution).
	ConfigPath string `koanf:"configPath"`
	// Helpers is the optional path of a helper definitions file.
	Helpers string `koanf:"helpers"`
	// Force skips every overwrite prompt.
	Force bool `koanf:"force"`
	// Preview renders without writing.
	Preview bool `koanf:"preview"`
	// Engine selects the template engine ("handlebars", "pongo2" or "go").
	Engine string `koanf:"engine"`
	// Ignore lists glob patterns of template files left out of the plan.
	Ignore []string `koanf:"ignore"`

	k        *koanf.Koanf
	fileData map[string]interface{}
	options  Options
}

// Data returns a copy of the merged configuration tree. It is the render
// context: user-defined keys plus the well-known fields.
func (c *Config) Data() map[string]interface{} {
	if c == nil || c.k == nil {
		return map[string]interface{}{}
	}
	return c.k.Raw()
}
