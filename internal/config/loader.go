package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"

	"github.com/tacogips/qgen/internal/debug"
)

// Loader loads a configuration file into a generic map.
type Loader interface {
	// LoadFile loads the file at path. A missing file yields an empty map.
	LoadFile(path string) (map[string]interface{}, error)
}

// FileLoader implements Loader on top of an afero filesystem.
type FileLoader struct {
	fs afero.Fs
}

// NewLoader creates a new FileLoader reading from fs.
func NewLoader(fs afero.Fs) Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileLoader{fs: fs}
}

// LoadFile reads and parses the config file at path.
// The parser is chosen by extension; JSON is used for anything unrecognized.
func (l *FileLoader) LoadFile(path string) (map[string]interface{}, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			debug.Debug("[config] No config file at %s, using empty config", path)
			return map[string]interface{}{}, nil
		}
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to read configuration file", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]interface{}{}, nil
	}

	parsed, err := parserFor(path).Unmarshal(data)
	if err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "invalid configuration syntax", err)
	}
	if parsed == nil {
		parsed = map[string]interface{}{}
	}

	debug.Debug("[config] Loaded %d top-level keys from %s", len(parsed), path)
	return parsed, nil
}

// parserFor returns the koanf parser matching the file extension.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".toml":
		return toml.Parser()
	default:
		return json.Parser()
	}
}
