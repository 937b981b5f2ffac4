package generator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/tacogips/qgen/internal/config"
	"github.com/tacogips/qgen/internal/debug"
	"github.com/tacogips/qgen/internal/template/model"
	"github.com/tacogips/qgen/internal/template/render"
)

// PlanOptions configures plan building.
type PlanOptions struct {
	// Template is the resolved template.
	Template model.TemplateRef
	// Config is the template-specific configuration; its data is the
	// path render context.
	Config *config.Config
	// Destination overrides Config.Dest when not empty.
	Destination string
	// Renderer renders templated paths of directory templates.
	Renderer *render.Renderer
}

// BuildPlan produces the ordered file tasks for a template.
//
// A file template yields one task named after the template itself, without
// rendering. A directory template yields one task per regular file found
// recursively, in walk order, with its relative path rendered. Ignored files
// are left out. An empty directory yields an empty plan.
func BuildPlan(fs afero.Fs, opts PlanOptions) ([]model.FileTask, error) {
	ref := opts.Template
	destRoot := opts.Config.DestRoot(opts.Destination)
	debug.Debug("[generator] Building plan for %s template %q into %s", ref.Kind, ref.Name, destRoot)

	switch ref.Kind {
	case model.KindFile:
		info, err := fs.Stat(ref.AbsolutePath)
		if err != nil {
			return nil, newFileSystemError(FileSystemRead, "failed to stat template file", ref.AbsolutePath, err)
		}
		task := model.FileTask{
			Src:              ref.AbsolutePath,
			DestRelativePath: ref.Name,
			Dest:             filepath.Join(destRoot, ref.Name),
			Mode:             info.Mode().Perm(),
		}
		debug.Debug("[generator] Planned %s -> %s", task.Src, task.Dest)
		return []model.FileTask{task}, nil

	case model.KindDirectory:
		return planDirectory(fs, opts, destRoot)

	default:
		return nil, newFileSystemError(FileSystemRead, "unsupported template kind "+string(ref.Kind), ref.AbsolutePath, nil)
	}
}

func planDirectory(fs afero.Fs, opts PlanOptions, destRoot string) ([]model.FileTask, error) {
	root := opts.Template.AbsolutePath
	data := opts.Config.Data()
	tasks := []model.FileTask{}

	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return newFileSystemError(FileSystemList, "failed to list template directory", path, err)
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return newFileSystemError(FileSystemList, "failed to compute relative path", path, err)
		}
		if ShouldIgnoreFile(rel, opts.Config.Ignore) {
			return nil
		}

		rendered, err := opts.Renderer.RenderPath(rel, data)
		if err != nil {
			return err
		}
		if err := validateRenderedPath(rendered, rel); err != nil {
			return err
		}

		dest := filepath.Join(destRoot, rendered)
		if !isSubPath(destRoot, dest) {
			return newPathError(rendered, rel, "escapes the destination directory")
		}

		task := model.FileTask{
			Src:              path,
			DestRelativePath: rendered,
			Dest:             dest,
			Mode:             info.Mode().Perm(),
		}
		debug.Debug("[generator] Planned %s -> %s", rel, dest)
		tasks = append(tasks, task)
		return nil
	})
	if err != nil {
		return nil, err
	}

	debug.Debug("[generator] Plan has %d tasks", len(tasks))
	return tasks, nil
}

// validateRenderedPath rejects rendered relative paths that are empty,
// absolute, or climb out of the destination.
func validateRenderedPath(rendered, original string) error {
	if strings.TrimSpace(rendered) == "" {
		return newPathError(rendered, original, "resolves to an empty path")
	}
	if filepath.IsAbs(rendered) || strings.HasPrefix(filepath.ToSlash(rendered), "/") {
		return newPathError(rendered, original, "is an absolute path")
	}

	cleaned := filepath.Clean(rendered)
	if cleaned == "." {
		return newPathError(rendered, original, "resolves to the destination directory itself")
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return newPathError(rendered, original, "attempts path traversal")
	}
	for _, component := range strings.Split(filepath.ToSlash(rendered), "/") {
		if component != "" && strings.TrimSpace(component) == "" {
			return newPathError(rendered, original, "has a blank path component")
		}
	}
	return nil
}

// isSubPath reports whether target lies inside base.
func isSubPath(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
