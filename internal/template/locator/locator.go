// Package locator resolves template names against the templates root.
package locator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/tacogips/qgen/internal/config"
	"github.com/tacogips/qgen/internal/debug"
	"github.com/tacogips/qgen/internal/template/model"
)

// Locator lists and resolves templates under one templates root.
type Locator struct {
	fs     afero.Fs
	root   string
	ignore []string
}

// New creates a Locator for cfg. The templates root is validated once here:
// if it is not an existing directory, a ConfigError is returned and no
// Locator is built.
func New(fs afero.Fs, cfg *config.Config) (*Locator, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	root := cfg.TemplatesRoot()
	debug.Debug("[locator] Templates root: %s", root)

	isDir, err := afero.IsDir(fs, root)
	if err != nil || !isDir {
		debug.Debug("[locator] Templates root is not a directory: %v", err)
		return nil, &config.ConfigError{
			Type:    config.ConfigRootMissing,
			File:    root,
			Field:   config.KeyDirectory,
			Message: fmt.Sprintf("qgen templates directory '%s' not found", cfg.Directory),
		}
	}

	return &Locator{
		fs:     fs,
		root:   root,
		ignore: cfg.Ignore,
	}, nil
}

// Root returns the absolute templates root.
func (l *Locator) Root() string {
	return l.root
}

// List returns the names of the immediate entries (files and directories)
// of the templates root, in directory-listing order. Hidden entries and
// entries matching an ignore pattern are left out.
func (l *Locator) List() ([]string, error) {
	entries, err := afero.ReadDir(l.fs, l.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates in %s: %w", l.root, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || l.ignored(name) {
			continue
		}
		names = append(names, name)
	}

	debug.Debug("[locator] Found %d templates", len(names))
	return names, nil
}

// Resolve classifies the entry named name under the templates root.
func (l *Locator) Resolve(name string) (model.TemplateRef, error) {
	path := filepath.Join(l.root, name)
	debug.Debug("[locator] Resolving template %q at %s", name, path)

	if strings.TrimSpace(name) == "" {
		return model.TemplateRef{}, NewInvalidTemplateNameError(name, l.root, "template name is empty")
	}
	if filepath.IsAbs(name) || !isSubPath(l.root, path) || path == l.root {
		return model.TemplateRef{}, NewInvalidTemplateNameError(name, path, "template name must stay inside the templates directory")
	}

	info, err := l.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.TemplateRef{}, NewTemplateNotFoundError(name, path)
		}
		return model.TemplateRef{}, &TemplateNotFoundError{Name: name, Path: path, Cause: err}
	}

	ref := model.TemplateRef{
		Name:         name,
		AbsolutePath: path,
	}
	switch {
	case info.IsDir():
		ref.Kind = model.KindDirectory
	case info.Mode().IsRegular():
		ref.Kind = model.KindFile
	default:
		return model.TemplateRef{}, NewInvalidTemplateNameError(name, path, "not a regular file or directory")
	}

	debug.Debug("[locator] Template %q is a %s", name, ref.Kind)
	return ref, nil
}

func (l *Locator) ignored(name string) bool {
	for _, pattern := range l.ignore {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// isSubPath reports whether target is base or lies inside it.
func isSubPath(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
