package config

import (
	"os"
)

const (
	// DefaultDest is the destination root used when none is configured.
	DefaultDest = "./"
	// DefaultDirectory is the templates root, relative to cwd.
	DefaultDirectory = "qgen-templates"
	// DefaultConfigFile is the config file name, relative to cwd.
	DefaultConfigFile = "qgen.json"
	// EngineHandlebars selects the handlebars engine ({{name}} placeholders).
	EngineHandlebars = "handlebars"
	// EnginePongo2 selects the pongo2 engine ({{ name }}, {% if %} and filters).
	EnginePongo2 = "pongo2"
	// EngineGo selects the text/template engine with sprig functions ({{ .name }} placeholders).
	EngineGo = "go"
)

// Well-known configuration keys. Every other key is user data.
const (
	KeyDest       = "dest"
	KeyCwd        = "cwd"
	KeyDirectory  = "directory"
	KeyConfigPath = "configPath"
	KeyHelpers    = "helpers"
	KeyForce      = "force"
	KeyPreview    = "preview"
	KeyEngine     = "engine"
	KeyIgnore     = "ignore"
)

// DefaultIgnorePatterns returns the default ignore patterns.
func DefaultIgnorePatterns() []string {
	return []string{
		".DS_Store",
		"Thumbs.db",
	}
}

// defaultOptions returns the built-in defaults layer.
func defaultOptions(cwd, dest string) Options {
	return Options{
		KeyDest:       dest,
		KeyCwd:        cwd,
		KeyDirectory:  DefaultDirectory,
		KeyConfigPath: DefaultConfigFile,
		KeyHelpers:    "",
		KeyForce:      false,
		KeyPreview:    false,
		KeyEngine:     EngineHandlebars,
		KeyIgnore:     DefaultIgnorePatterns(),
	}
}

// workingDir returns the process working directory, or "." if it cannot be determined.
func workingDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}
