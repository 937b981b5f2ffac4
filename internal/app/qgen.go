// Package app is the library entry point: it resolves the configuration,
// validates the templates root, lists templates and renders them.
package app

import (
	"context"
	"strings"

	"github.com/spf13/afero"

	"github.com/tacogips/qgen/internal/config"
	"github.com/tacogips/qgen/internal/debug"
	"github.com/tacogips/qgen/internal/template/generator"
	"github.com/tacogips/qgen/internal/template/locator"
	"github.com/tacogips/qgen/internal/template/model"
	"github.com/tacogips/qgen/internal/template/render"
)

// Option customizes a QGen.
type Option func(*QGen)

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(q *QGen) {
		q.fs = fs
	}
}

// WithPrompter sets the overwrite prompter. Without one, an existing
// destination fails the render unless force or preview is set.
func WithPrompter(p generator.Prompter) Option {
	return func(q *QGen) {
		q.prompter = p
	}
}

// WithPrompterFactory builds the overwrite prompter from the resolved
// configuration, so the prompter sees the same cwd as the resolver.
func WithPrompterFactory(factory func(cfg *config.Config) generator.Prompter) Option {
	return func(q *QGen) {
		q.prompterFactory = factory
	}
}

// WithHelper registers a Go helper callback. It replaces a built-in or
// helpers-file helper of the same name.
func WithHelper(name string, fn render.HelperFunc) Option {
	return func(q *QGen) {
		q.callbacks = append(q.callbacks, namedHelper{name: name, fn: fn})
	}
}

type namedHelper struct {
	name string
	fn   render.HelperFunc
}

// RenderResult describes one Render call.
type RenderResult struct {
	// Template is the resolved template.
	Template model.TemplateRef
	// Planned is the full file plan, in order.
	Planned []model.FileTask
	// Written are the destination paths written, in plan order.
	Written []string
	// Skipped are the destination paths the user chose to skip.
	Skipped []string
	// Aborted is true when the user aborted; nothing was written.
	Aborted bool
	// Preview is true when nothing was written because of preview mode.
	Preview bool
	// Previews holds the rendered files of a preview run.
	Previews []generator.PreviewFile
}

// QGen renders templates from one templates root.
type QGen struct {
	fs              afero.Fs
	prompter        generator.Prompter
	prompterFactory func(cfg *config.Config) generator.Prompter
	callbacks       []namedHelper

	config  *config.Config
	locator *locator.Locator
	helpers *render.Registry
}

// New resolves the configuration from options and validates the templates
// root. A missing root is a ConfigError and no QGen is returned.
func New(options config.Options, opts ...Option) (*QGen, error) {
	q := &QGen{}
	for _, opt := range opts {
		opt(q)
	}
	if q.fs == nil {
		q.fs = afero.NewOsFs()
	}

	debug.DebugSection("[app] New")

	cfg, err := config.Resolve(q.fs, options)
	if err != nil {
		return nil, err
	}
	q.config = cfg
	debug.DebugJSON("[app] Effective config", cfg.Data())
	if q.prompterFactory != nil {
		q.prompter = q.prompterFactory(cfg)
	}

	loc, err := locator.New(q.fs, cfg)
	if err != nil {
		return nil, err
	}
	q.locator = loc
	debug.Debug("[app] Templates root: %s", loc.Root())

	helpers := render.NewRegistry()
	if path := cfg.HelpersPath(); path != "" {
		if err := render.LoadHelperFile(q.fs, path, helpers); err != nil {
			return nil, err
		}
	}
	for _, h := range q.callbacks {
		if err := helpers.Register(h.name, h.fn); err != nil {
			return nil, NewHelperRegistrationError(h.name, err)
		}
	}
	q.helpers = helpers
	debug.Debug("[app] Helpers: %s", strings.Join(helpers.Names(), ", "))

	return q, nil
}

// Config returns the effective configuration.
func (q *QGen) Config() *config.Config {
	return q.config
}

// Templates lists the available template names.
func (q *QGen) Templates() ([]string, error) {
	return q.locator.List()
}

// Render renders the named template. destination, when not empty, replaces
// the configured dest for this call.
//
// A user abort is not an error: the result has Aborted set and nothing is
// written. Any error is returned unmodified; files written before a failure
// stay on disk.
func (q *QGen) Render(ctx context.Context, name, destination string) (*RenderResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewInvalidArgumentError("template name is required")
	}
	debug.DebugSection("[app] Render " + name)

	ref, err := q.locator.Resolve(name)
	if err != nil {
		return nil, err
	}

	cfg, err := config.ResolveForTemplate(q.config, name, config.DefaultDest)
	if err != nil {
		return nil, err
	}
	if destination != "" {
		debug.Debug("[app] Destination override: %s", destination)
		cfg, err = cfg.With(config.Options{config.KeyDest: destination})
		if err != nil {
			return nil, err
		}
	}

	renderer, err := render.NewRenderer(cfg.Engine, q.helpers)
	if err != nil {
		return nil, err
	}
	debug.Debug("[app] Rendering %s template %q with %s engine", ref.Kind, name, renderer.EngineName())

	gen := generator.NewGenerator(q.fs, q.prompter)
	res, err := gen.Generate(ctx, generator.GenerateOptions{
		Template:    ref,
		Config:      cfg,
		Destination: destination,
		Renderer:    renderer,
	})
	if res == nil {
		return nil, err
	}

	result := &RenderResult{
		Template: ref,
		Planned:  res.Planned,
		Written:  res.Written,
		Skipped:  res.Skipped,
		Aborted:  res.Aborted,
		Preview:  res.Preview,
		Previews: res.Previews,
	}
	return result, err
}
