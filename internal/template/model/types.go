package model

import "os"

// Kind classifies a resolved template entry.
type Kind string

const (
	// KindFile is a single-file template rendered to one destination.
	KindFile Kind = "file"
	// KindDirectory is a template tree whose files are rendered recursively.
	KindDirectory Kind = "directory"
)

// TemplateRef is a template name resolved against the templates root.
type TemplateRef struct {
	// Name is the template name as given by the caller.
	Name string
	// Kind is determined by filesystem inspection at resolution time.
	Kind Kind
	// AbsolutePath is the location of the template file or directory.
	AbsolutePath string
}

// FileTask is one planned file operation.
type FileTask struct {
	// Src is the absolute source path inside the template.
	Src string
	// DestRelativePath is the destination path relative to the destination root,
	// after path rendering for directory templates.
	DestRelativePath string
	// Dest is the absolute destination path.
	Dest string
	// Mode is the permission of the source file.
	Mode os.FileMode
}

// Decision is the per-file outcome of the overwrite confirmation cascade.
type Decision int

const (
	// DecisionProceed renders and writes the file.
	DecisionProceed Decision = iota
	// DecisionSkip drops the file from the render.
	DecisionSkip
	// DecisionOverwriteAll proceeds and suppresses prompts for the remaining files.
	DecisionOverwriteAll
	// DecisionAbort stops the render; nothing is written.
	DecisionAbort
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case DecisionProceed:
		return "proceed"
	case DecisionSkip:
		return "skip"
	case DecisionOverwriteAll:
		return "overwrite-all"
	case DecisionAbort:
		return "abort"
	default:
		return "unknown"
	}
}
