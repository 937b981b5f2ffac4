package render

import (
	"path/filepath"

	"github.com/tacogips/qgen/internal/debug"
)

// RenderPath renders a template-relative file path so that placeholders in
// file and directory names are substituted. The result uses the OS path
// separator. It does not touch the filesystem.
func (r *Renderer) RenderPath(relativePath string, data map[string]interface{}) (string, error) {
	slashed := filepath.ToSlash(relativePath)
	rendered, err := r.Render(slashed, slashed, data)
	if err != nil {
		return "", err
	}
	debug.Debug("[render] Path %s -> %s", slashed, rendered)
	return filepath.FromSlash(rendered), nil
}
