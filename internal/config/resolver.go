package config

import (
	"fmt"
	"path/filepath"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"

	"github.com/tacogips/qgen/internal/debug"
)

// layer is one named partial configuration source.
type layer struct {
	name string
	data map[string]interface{}
}

// Resolve merges built-in defaults, the config file and the caller options
// into an effective configuration. Later layers win.
//
// The config file path is options["configPath"] when given, otherwise
// qgen.json; a relative path is resolved against the effective cwd. A missing
// file counts as an empty object. A malformed file is a ConfigError.
func Resolve(fs afero.Fs, options Options) (*Config, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	cwd := resolveCwd(options)
	configPath := stringOption(options, KeyConfigPath, DefaultConfigFile)
	configPath = absFrom(cwd, configPath)

	debug.DebugSection("[config] Resolve")
	debug.DebugValue("[config] cwd", cwd)
	debug.DebugValue("[config] configPath", configPath)

	fileData, err := NewLoader(fs).LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	return build(configPath, fileData, options, []layer{
		{name: "defaults", data: defaultOptions(cwd, DefaultDest)},
		{name: "file", data: fileData},
		{name: "options", data: options},
		{name: "resolved", data: resolvedPaths(cwd, configPath)},
	})
}

// ResolveForTemplate derives the configuration for one template from an
// effective configuration. The per-template section of the config file
// (the top-level key equal to templateName, when it holds an object) is
// merged between the file-level config and the caller options. When no
// layer sets dest, defaultDest is used.
func ResolveForTemplate(base *Config, templateName, defaultDest string) (*Config, error) {
	if base == nil {
		return nil, NewConfigError(ConfigInvalid, templateName, "base configuration is nil")
	}

	section := map[string]interface{}{}
	if raw, ok := base.fileData[templateName]; ok {
		if m, ok := raw.(map[string]interface{}); ok {
			section = m
			debug.Debug("[config] Using template section %q with %d keys", templateName, len(m))
		}
	}

	return build(base.ConfigPath, base.fileData, base.options, []layer{
		{name: "defaults", data: defaultOptions(base.Cwd, defaultDest)},
		{name: "file", data: base.fileData},
		{name: "template:" + templateName, data: section},
		{name: "options", data: base.options},
		{name: "resolved", data: resolvedPaths(base.Cwd, base.ConfigPath)},
	})
}

// With returns a new Config with overrides merged on top of c.
func (c *Config) With(overrides Options) (*Config, error) {
	return build(c.ConfigPath, c.fileData, c.options, []layer{
		{name: "base", data: c.Data()},
		{name: "overrides", data: overrides},
	})
}

// build applies the layers in order with a last-wins merge and decodes the
// result into a new Config.
func build(configPath string, fileData map[string]interface{}, options Options, layers []layer) (*Config, error) {
	k := koanf.New(".")
	for _, l := range layers {
		if len(l.data) == 0 {
			continue
		}
		// An empty delimiter keeps dotted user keys intact.
		if err := k.Load(confmap.Provider(l.data, ""), nil); err != nil {
			return nil, NewConfigErrorWithCause(ConfigInvalid, configPath, fmt.Sprintf("failed to merge %s layer", l.name), err)
		}
		debug.Debug("[config] Merged layer %s (%d keys)", l.name, len(l.data))
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, configPath, "invalid configuration value", err)
	}

	switch cfg.Engine {
	case EngineHandlebars, EnginePongo2, EngineGo:
	default:
		return nil, NewConfigErrorWithField(ConfigInvalid, configPath, KeyEngine,
			fmt.Sprintf("unknown engine %q (expected %q, %q or %q)", cfg.Engine, EngineHandlebars, EnginePongo2, EngineGo))
	}

	cfg.k = k
	cfg.fileData = copyMap(fileData)
	cfg.options = Options(copyMap(options))
	return cfg, nil
}

// TemplatesRoot returns the absolute templates root.
func (c *Config) TemplatesRoot() string {
	return absFrom(c.Cwd, c.Directory)
}

// HelpersPath returns the absolute helpers file path, or "" if none is configured.
func (c *Config) HelpersPath() string {
	if c.Helpers == "" {
		return ""
	}
	return absFrom(c.Cwd, c.Helpers)
}

// DestRoot returns the absolute destination root for dest.
// An absolute dest is used as-is; a relative one is joined under cwd.
func (c *Config) DestRoot(dest string) string {
	if dest == "" {
		dest = c.Dest
	}
	return absFrom(c.Cwd, dest)
}

func resolveCwd(options Options) string {
	cwd := stringOption(options, KeyCwd, "")
	if cwd == "" {
		return workingDir()
	}
	return absFrom(workingDir(), cwd)
}

func resolvedPaths(cwd, configPath string) map[string]interface{} {
	return map[string]interface{}{
		KeyCwd:        cwd,
		KeyConfigPath: configPath,
	}
}

func stringOption(options Options, key, fallback string) string {
	if v, ok := options[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// absFrom resolves path against base unless it is already absolute.
func absFrom(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// copyMap returns a deep copy of nested maps and slices.
func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return copyMap(t)
	case Options:
		return copyMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
