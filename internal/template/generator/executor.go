package generator

import (
	"context"

	"github.com/spf13/afero"

	"github.com/tacogips/qgen/internal/debug"
	"github.com/tacogips/qgen/internal/template/model"
	"github.com/tacogips/qgen/internal/template/render"
)

// PreviewFile is a rendered file that was not written.
type PreviewFile struct {
	// Path is the destination path.
	Path string
	// Content is the rendered content.
	Content []byte
}

// ExecuteOptions configures the render-and-save executor.
type ExecuteOptions struct {
	// Renderer renders file contents.
	Renderer *render.Renderer
	// Data is the render context.
	Data map[string]interface{}
	// Writer writes rendered files.
	Writer Writer
	// DryRun renders without writing.
	DryRun bool
}

// ExecuteResult holds what the executor produced.
type ExecuteResult struct {
	// Written are the destination paths written, in plan order.
	Written []string
	// Previews are the rendered files in dry-run mode, in plan order.
	Previews []PreviewFile
}

// Execute renders each task's source and writes it to the destination,
// overwriting unconditionally. Tasks are processed one at a time in order.
// The first failure ends the run; files written before it stay on disk.
func Execute(ctx context.Context, fs afero.Fs, tasks []model.FileTask, opts ExecuteOptions) (*ExecuteResult, error) {
	result := &ExecuteResult{
		Written:  []string{},
		Previews: []PreviewFile{},
	}

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		source, err := afero.ReadFile(fs, task.Src)
		if err != nil {
			return result, newFileSystemError(FileSystemRead, "failed to read template file", task.Src, err)
		}

		content, err := opts.Renderer.Render(task.Src, string(source), opts.Data)
		if err != nil {
			return result, err
		}

		if opts.DryRun {
			debug.Debug("[generator] Preview %s (%d bytes)", task.Dest, len(content))
			result.Previews = append(result.Previews, PreviewFile{Path: task.Dest, Content: []byte(content)})
			continue
		}

		if err := opts.Writer.WriteFile(task.Dest, []byte(content), task.Mode); err != nil {
			return result, err
		}
		result.Written = append(result.Written, task.Dest)
	}

	debug.Debug("[generator] Wrote %d files", len(result.Written))
	return result, nil
}
