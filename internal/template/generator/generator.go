// Package generator turns a resolved template into files: it builds the file
// plan, runs the overwrite confirmation cascade and renders the surviving
// tasks to disk.
package generator

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/tacogips/qgen/internal/config"
	"github.com/tacogips/qgen/internal/debug"
	"github.com/tacogips/qgen/internal/template/model"
	"github.com/tacogips/qgen/internal/template/render"
)

// GenerateOptions configures one generation run.
type GenerateOptions struct {
	// Template is the resolved template.
	Template model.TemplateRef
	// Config is the template-specific configuration.
	Config *config.Config
	// Destination overrides Config.Dest when not empty.
	Destination string
	// Renderer renders paths and contents.
	Renderer *render.Renderer
}

// GenerateResult contains generation results.
type GenerateResult struct {
	// Planned is the full plan, in order.
	Planned []model.FileTask
	// Written are the destination paths written, in plan order.
	Written []string
	// Skipped are the destination paths the user chose to skip.
	Skipped []string
	// Aborted is true when the user aborted; nothing was written.
	Aborted bool
	// Preview is true when the run rendered without writing.
	Preview bool
	// Previews holds the rendered files of a preview run.
	Previews []PreviewFile
}

// Generator runs plan, cascade and executor against one filesystem.
type Generator struct {
	fs       afero.Fs
	writer   Writer
	prompter Prompter
}

// NewGenerator creates a Generator. prompter may be nil when every run is
// forced or previewed.
func NewGenerator(fs afero.Fs, prompter Prompter) *Generator {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Generator{
		fs:       fs,
		writer:   NewFileWriter(fs),
		prompter: prompter,
	}
}

// Generate builds the plan, confirms it and writes the surviving files.
func (g *Generator) Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	cfg := opts.Config

	debug.DebugSection("[generator] Generate " + opts.Template.Name)
	debug.Debug("[generator] force=%v, preview=%v, destination=%q", cfg.Force, cfg.Preview, opts.Destination)

	tasks, err := BuildPlan(g.fs, PlanOptions{
		Template:    opts.Template,
		Config:      cfg,
		Destination: opts.Destination,
		Renderer:    opts.Renderer,
	})
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Planned:  tasks,
		Written:  []string{},
		Skipped:  []string{},
		Preview:  cfg.Preview,
		Previews: []PreviewFile{},
	}

	confirmed, err := Confirm(ctx, tasks, CascadeOptions{
		Force:    cfg.Force,
		Preview:  cfg.Preview,
		Writer:   g.writer,
		Prompter: g.prompter,
	})
	if err != nil {
		return nil, err
	}
	if confirmed.Aborted {
		debug.Debug("[generator] Aborted by user, nothing written")
		result.Aborted = true
		return result, nil
	}
	for _, task := range confirmed.Skipped {
		result.Skipped = append(result.Skipped, task.Dest)
	}

	executed, err := Execute(ctx, g.fs, confirmed.Tasks, ExecuteOptions{
		Renderer: opts.Renderer,
		Data:     cfg.Data(),
		Writer:   g.writer,
		DryRun:   cfg.Preview,
	})
	if executed != nil {
		result.Written = executed.Written
		result.Previews = executed.Previews
	}
	if err != nil {
		return result, err
	}

	return result, nil
}

func validateOptions(opts GenerateOptions) error {
	if opts.Config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if opts.Renderer == nil {
		return fmt.Errorf("renderer cannot be nil")
	}
	if opts.Template.AbsolutePath == "" {
		return fmt.Errorf("template path cannot be empty")
	}
	return nil
}
