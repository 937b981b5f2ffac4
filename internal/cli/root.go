package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/tacogips/qgen/internal/app"
	"github.com/tacogips/qgen/internal/config"
	"github.com/tacogips/qgen/internal/debug"
	"github.com/tacogips/qgen/internal/template/generator"
)

// Exit codes
const (
	exitRenderFailed = 1
	exitListFailed   = 2
)

// Global flags
var (
	globalNoColor bool
	globalQuiet   bool
	globalDebug   bool
)

// Command flags
var (
	flagDirectory string
	flagConfig    string
	flagForce     bool
	flagPreview   bool
	flagVersion   bool
	flagHelp      bool
)

// newPrompter builds the overwrite prompter. Tests replace it.
var newPrompter = func(cwd string) generator.Prompter {
	return NewSurveyPrompter(cwd)
}

// exitError carries a process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// rootCmd represents the qgen command. Flag parsing is done by runRoot so
// that arbitrary --key value pairs reach the template context.
var rootCmd = &cobra.Command{
	Use:   "qgen <template name> [dest] [--key value ...]",
	Short: "Generate files and directories from templates",
	Long: `qgen renders a template from the templates directory into a destination.

A template is either a single file or a directory. Placeholders in file
contents, and in file and directory names of directory templates, are
rendered with values from qgen.json and from command line arguments.

Examples:
  qgen post                                 # generates the post template in the current folder
  qgen post ./pages                         # generates the post template inside ./pages
  qgen post ./pages --page-title "Hello"    # renders with pageTitle="Hello"`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE:               runRoot,
}

// Execute runs the root command and exits with a non-zero code on failure.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(err)
		code := exitRenderFailed
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			code = exitErr.code
		}
		stop()
		os.Exit(code)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&flagDirectory, FlagDirectory, "d", "", DescDirectory)
	flags.StringVarP(&flagConfig, FlagConfig, "c", "", DescConfig)
	flags.BoolVarP(&flagForce, FlagForce, "f", false, DescForce)
	flags.BoolVarP(&flagPreview, FlagPreview, "p", false, DescPreview)
	flags.BoolVar(&globalNoColor, FlagNoColor, false, DescNoColor)
	flags.BoolVarP(&globalQuiet, FlagQuiet, "q", false, DescQuiet)
	flags.BoolVar(&globalDebug, FlagDebug, false, DescDebug)
	flags.BoolVar(&flagVersion, FlagVersion, false, DescVersion)
	flags.BoolVarP(&flagHelp, FlagHelp, "h", false, DescHelp)
}

func runRoot(cmd *cobra.Command, args []string) error {
	parsed := splitArgs(args)
	if err := cmd.Flags().Parse(parsed.known); err != nil {
		return &exitError{code: exitRenderFailed, err: err}
	}
	positionals := append(cmd.Flags().Args(), parsed.positionals...)

	debug.SetDebug(globalDebug)
	debug.SetNoColor(globalNoColor || !colorEnabled())
	debug.DebugValue("[cli] args", args)

	if flagVersion {
		printVersion(stdout)
		return nil
	}
	if flagHelp {
		return cmd.Help()
	}

	options := buildOptions(cmd, parsed.data)
	debug.DebugValue("[cli] options", options)

	if len(positionals) == 0 {
		if err := cmd.Help(); err != nil {
			return err
		}
		return listTemplates(options)
	}

	destination := ""
	if len(positionals) > 1 {
		destination = positionals[1]
	}
	return render(cmd.Context(), options, positionals[0], destination)
}

// buildOptions maps the parsed flags and data flags to caller options.
// Only flags given on the command line are set, so config-file values apply
// otherwise.
func buildOptions(cmd *cobra.Command, data map[string]interface{}) config.Options {
	options := config.Options{}
	for k, v := range data {
		options[k] = v
	}

	flags := cmd.Flags()
	if flags.Changed(FlagDirectory) {
		options[config.KeyDirectory] = flagDirectory
	}
	if flags.Changed(FlagConfig) {
		options[config.KeyConfigPath] = flagConfig
	}
	if flags.Changed(FlagForce) {
		options[config.KeyForce] = flagForce
	}
	if flags.Changed(FlagPreview) {
		options[config.KeyPreview] = flagPreview
	}
	return options
}

func listTemplates(options config.Options) error {
	q, err := app.New(options)
	if err != nil {
		return &exitError{code: exitListFailed, err: err}
	}

	names, err := q.Templates()
	printTemplates(names)
	if err != nil {
		return &exitError{code: exitListFailed, err: err}
	}
	return nil
}

func render(ctx context.Context, options config.Options, name, destination string) error {
	q, err := app.New(options, app.WithPrompterFactory(func(cfg *config.Config) generator.Prompter {
		return newPrompter(cfg.Cwd)
	}))
	if err != nil {
		return &exitError{code: exitRenderFailed, err: err}
	}

	result, err := q.Render(ctx, name, destination)
	if err != nil {
		return &exitError{code: exitRenderFailed, err: err}
	}

	switch {
	case result.Aborted:
		printWarning("Aborted. No files were written.")
	case result.Preview:
		for _, f := range result.Previews {
			printPreview(f.Path, f.Content)
		}
		printInfo(fmt.Sprintf("Preview of %d file(s); nothing was written.", len(result.Previews)))
	default:
		for _, path := range result.Written {
			printSuccess(path)
		}
		for _, path := range result.Skipped {
			printWarning("Skipped " + path)
		}
		if len(result.Planned) == 0 {
			printWarning(fmt.Sprintf("Template '%s' has no files.", name))
		}
	}
	return nil
}
