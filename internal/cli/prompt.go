package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/tacogips/qgen/internal/template/model"
)

// Overwrite prompt choices, in display order.
const (
	choiceOverwrite    = "Overwrite"
	choiceSkip         = "Skip"
	choiceOverwriteAll = "Overwrite all"
	choiceAbort        = "Abort"
)

var overwriteChoices = []string{choiceOverwrite, choiceSkip, choiceOverwriteAll, choiceAbort}

// askFunc matches survey.AskOne.
type askFunc func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error

// SurveyPrompter asks about existing destination files on the terminal.
type SurveyPrompter struct {
	ask askFunc
	cwd string
}

// NewSurveyPrompter creates a SurveyPrompter. Paths under cwd are shown relative to it.
func NewSurveyPrompter(cwd string) *SurveyPrompter {
	return &SurveyPrompter{
		ask: survey.AskOne,
		cwd: cwd,
	}
}

// AskOverwrite asks what to do with the existing file at dest.
// An interrupt (Ctrl-C) counts as abort.
func (p *SurveyPrompter) AskOverwrite(ctx context.Context, dest string) (model.Decision, error) {
	if err := ctx.Err(); err != nil {
		return model.DecisionAbort, err
	}

	var answer string
	prompt := &survey.Select{
		Message: fmt.Sprintf("File '%s' already exists. What would you like to do?", p.display(dest)),
		Options: overwriteChoices,
		Default: choiceOverwrite,
	}
	if err := p.ask(prompt, &answer, survey.WithStdio(os.Stdin, os.Stderr, os.Stderr)); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return model.DecisionAbort, nil
		}
		return model.DecisionAbort, fmt.Errorf("failed to prompt for %s: %w", dest, err)
	}

	return decisionFor(answer), nil
}

func (p *SurveyPrompter) display(dest string) string {
	if p.cwd == "" {
		return dest
	}
	rel, err := filepath.Rel(p.cwd, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return dest
	}
	return rel
}

// decisionFor maps a prompt answer to a decision.
func decisionFor(answer string) model.Decision {
	switch answer {
	case choiceSkip:
		return model.DecisionSkip
	case choiceOverwriteAll:
		return model.DecisionOverwriteAll
	case choiceAbort:
		return model.DecisionAbort
	default:
		return model.DecisionProceed
	}
}
