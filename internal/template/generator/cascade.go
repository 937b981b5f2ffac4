package generator

import (
	"context"

	"github.com/tacogips/qgen/internal/debug"
	"github.com/tacogips/qgen/internal/template/model"
)

// Prompter asks the user what to do about an existing destination file.
type Prompter interface {
	// AskOverwrite returns the decision for dest. It may block on user input.
	AskOverwrite(ctx context.Context, dest string) (model.Decision, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, dest string) (model.Decision, error)

// AskOverwrite calls f.
func (f PrompterFunc) AskOverwrite(ctx context.Context, dest string) (model.Decision, error) {
	return f(ctx, dest)
}

// CascadeOptions configures the overwrite confirmation cascade.
type CascadeOptions struct {
	// Force proceeds with every task without prompting.
	Force bool
	// Preview proceeds with every task without prompting; nothing is written.
	Preview bool
	// Writer answers destination existence checks.
	Writer Writer
	// Prompter is asked about existing destinations.
	Prompter Prompter
}

// CascadeResult is the outcome of the cascade.
type CascadeResult struct {
	// Tasks are the surviving tasks in plan order.
	Tasks []model.FileTask
	// Skipped are the tasks the user chose to skip, in plan order.
	Skipped []model.FileTask
	// Aborted is true when the user aborted; Tasks is then empty.
	Aborted bool
}

// Confirm walks the plan strictly in order and decides for each task whether
// it is written.
//
// With Force or Preview set, or once the user chose overwrite-all, every
// remaining task proceeds unprompted. Otherwise a task whose destination does
// not exist proceeds, and an existing one is put to the Prompter. Abort ends
// the cascade and discards every decision made so far.
func Confirm(ctx context.Context, tasks []model.FileTask, opts CascadeOptions) (*CascadeResult, error) {
	log := debug.Logger("cascade")
	result := &CascadeResult{
		Tasks:   make([]model.FileTask, 0, len(tasks)),
		Skipped: []model.FileTask{},
	}
	overwriteAll := opts.Force || opts.Preview

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		decision := model.DecisionProceed
		if !overwriteAll {
			exists, err := opts.Writer.Exists(task.Dest)
			if err != nil {
				return nil, err
			}
			if exists {
				if opts.Prompter == nil {
					return nil, newFileSystemError(FileSystemWrite, "destination exists and no prompter is available", task.Dest, nil)
				}
				decision, err = opts.Prompter.AskOverwrite(ctx, task.Dest)
				if err != nil {
					return nil, err
				}
			}
		}
		log.Debug().Str("dest", task.Dest).Str("decision", decision.String()).Msg("decided")

		switch decision {
		case model.DecisionAbort:
			return &CascadeResult{
				Tasks:   []model.FileTask{},
				Skipped: []model.FileTask{},
				Aborted: true,
			}, nil
		case model.DecisionSkip:
			result.Skipped = append(result.Skipped, task)
		case model.DecisionOverwriteAll:
			overwriteAll = true
			result.Tasks = append(result.Tasks, task)
		default:
			result.Tasks = append(result.Tasks, task)
		}
	}

	return result, nil
}
