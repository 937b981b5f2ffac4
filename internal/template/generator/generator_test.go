package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/qgen/internal/config"
	"github.com/tacogips/qgen/internal/template/model"
	"github.com/tacogips/qgen/internal/template/render"
)

// scriptedPrompter answers prompts from a fixed script and records every
// destination it was asked about.
type scriptedPrompter struct {
	answers []model.Decision
	asked   []string
}

func (p *scriptedPrompter) AskOverwrite(_ context.Context, dest string) (model.Decision, error) {
	p.asked = append(p.asked, dest)
	if len(p.answers) == 0 {
		return model.DecisionProceed, nil
	}
	d := p.answers[0]
	p.answers = p.answers[1:]
	return d, nil
}

type fixture struct {
	fs       afero.Fs
	cfg      *config.Config
	renderer *render.Renderer
}

func newFixture(t *testing.T, files map[string]string, options config.Options) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work/qgen-templates", 0o755))
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	opts := config.Options{config.KeyCwd: "/work"}
	for k, v := range options {
		opts[k] = v
	}
	base, err := config.Resolve(fs, opts)
	require.NoError(t, err)
	cfg, err := config.ResolveForTemplate(base, "post", config.DefaultDest)
	require.NoError(t, err)

	r, err := render.NewRenderer(cfg.Engine, nil)
	require.NoError(t, err)
	return &fixture{fs: fs, cfg: cfg, renderer: r}
}

func dirRef(name string) model.TemplateRef {
	return model.TemplateRef{Name: name, Kind: model.KindDirectory, AbsolutePath: "/work/qgen-templates/" + name}
}

func fileRef(name string) model.TemplateRef {
	return model.TemplateRef{Name: name, Kind: model.KindFile, AbsolutePath: "/work/qgen-templates/" + name}
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	b, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(b)
}

func TestBuildPlan_FileTemplate(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/work/qgen-templates/{{name}}.txt": "hi",
	}, config.Options{"name": "ignored"})

	tasks, err := BuildPlan(f.fs, PlanOptions{Template: fileRef("{{name}}.txt"), Config: f.cfg, Renderer: f.renderer})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "/work/qgen-templates/{{name}}.txt", tasks[0].Src)
	assert.Equal(t, "{{name}}.txt", tasks[0].DestRelativePath)
	assert.Equal(t, "/work/{{name}}.txt", tasks[0].Dest)
	assert.Equal(t, os.FileMode(0o644), tasks[0].Mode)
}

func TestBuildPlan_Destination(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/work/qgen-templates/README.md": "hi",
	}, nil)

	tests := []struct {
		name        string
		destination string
		expected    string
	}{
		{"config dest", "", "/work/README.md"},
		{"relative destination", "pages", "/work/pages/README.md"},
		{"absolute destination", "/elsewhere", "/elsewhere/README.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := BuildPlan(f.fs, PlanOptions{
				Template:    fileRef("README.md"),
				Config:      f.cfg,
				Destination: tt.destination,
				Renderer:    f.renderer,
			})
			require.NoError(t, err)
			require.Len(t, tasks, 1)
			assert.Equal(t, tt.expected, tasks[0].Dest)
		})
	}
}

func TestBuildPlan_DirectoryTemplate(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/work/qgen-templates/post/{{slug}}.md":           "# {{title}}",
		"/work/qgen-templates/post/assets/{{slug}}.css":   "body {}",
		"/work/qgen-templates/post/README.md":             "readme",
		"/work/qgen-templates/post/.DS_Store":             "",
		"/work/qgen-templates/post/assets/nested/notes.t": "n",
	}, config.Options{"slug": "hello", "title": "Hello", config.KeyDest: "out"})

	tasks, err := BuildPlan(f.fs, PlanOptions{Template: dirRef("post"), Config: f.cfg, Renderer: f.renderer})
	require.NoError(t, err)

	dests := make([]string, 0, len(tasks))
	for _, task := range tasks {
		dests = append(dests, task.Dest)
	}
	assert.Equal(t, []string{
		"/work/out/README.md",
		"/work/out/assets/nested/notes.t",
		"/work/out/assets/hello.css",
		"/work/out/hello.md",
	}, dests)
	assert.Equal(t, filepath.Join("assets", "hello.css"), tasks[2].DestRelativePath)
	assert.Equal(t, "/work/qgen-templates/post/assets/{{slug}}.css", tasks[2].Src)
}

func TestBuildPlan_IgnorePatterns(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/work/qgen-templates/post/index.md":      "x",
		"/work/qgen-templates/post/draft.tmp":     "x",
		"/work/qgen-templates/post/build/out.js":  "x",
		"/work/qgen-templates/post/src/keep.js":   "x",
		"/work/qgen-templates/post/src/skip.tmp":  "x",
		"/work/qgen-templates/post/src/Thumbs.db": "x",
	}, config.Options{config.KeyIgnore: []interface{}{"*.tmp", "build/**", "Thumbs.db"}})

	tasks, err := BuildPlan(f.fs, PlanOptions{Template: dirRef("post"), Config: f.cfg, Renderer: f.renderer})
	require.NoError(t, err)

	rels := make([]string, 0, len(tasks))
	for _, task := range tasks {
		rels = append(rels, filepath.ToSlash(task.DestRelativePath))
	}
	assert.Equal(t, []string{"index.md", "src/keep.js"}, rels)
}

func TestBuildPlan_EmptyDirectory(t *testing.T) {
	f := newFixture(t, nil, nil)
	require.NoError(t, f.fs.MkdirAll("/work/qgen-templates/post/sub", 0o755))

	tasks, err := BuildPlan(f.fs, PlanOptions{Template: dirRef("post"), Config: f.cfg, Renderer: f.renderer})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestBuildPlan_DistinctDestinations(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/work/qgen-templates/post/a.txt":       "a",
		"/work/qgen-templates/post/b.txt":       "b",
		"/work/qgen-templates/post/{{x}}/c.txt": "c",
		"/work/qgen-templates/post/d/{{y}}.txt": "d",
	}, config.Options{"x": "one", "y": "two"})

	tasks, err := BuildPlan(f.fs, PlanOptions{Template: dirRef("post"), Config: f.cfg, Renderer: f.renderer})
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	seen := map[string]bool{}
	for _, task := range tasks {
		assert.False(t, seen[task.Dest], "duplicate destination %s", task.Dest)
		seen[task.Dest] = true
	}
}

func TestBuildPlan_UnsafeRenderedPath(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		value string
	}{
		{"traversal", "/work/qgen-templates/post/{{v}}/x.txt", "../.."},
		{"empty directory component", "/work/qgen-templates/post/{{v}}/x.txt", ""},
		{"empty file name", "/work/qgen-templates/post/{{v}}", ""},
		{"blank component", "/work/qgen-templates/post/{{v}}/x.txt", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, map[string]string{tt.file: "x"}, config.Options{"v": tt.value})

			_, err := BuildPlan(f.fs, PlanOptions{Template: dirRef("post"), Config: f.cfg, Renderer: f.renderer})
			require.Error(t, err)

			var pathErr *PathError
			assert.True(t, errors.As(err, &pathErr), "got %v", err)
		})
	}
}

func existingPlan(t *testing.T, f *fixture, names ...string) []model.FileTask {
	t.Helper()
	tasks := make([]model.FileTask, 0, len(names))
	for _, name := range names {
		src := "/work/qgen-templates/post/" + name
		dest := "/work/" + name
		require.NoError(t, afero.WriteFile(f.fs, src, []byte("new "+name), 0o644))
		require.NoError(t, afero.WriteFile(f.fs, dest, []byte("old "+name), 0o644))
		tasks = append(tasks, model.FileTask{Src: src, DestRelativePath: name, Dest: dest, Mode: 0o644})
	}
	return tasks
}

func TestConfirm_ForceNeverPrompts(t *testing.T) {
	f := newFixture(t, nil, nil)
	tasks := existingPlan(t, f, "a", "b", "c")
	prompter := &scriptedPrompter{answers: []model.Decision{model.DecisionAbort}}

	result, err := Confirm(context.Background(), tasks, CascadeOptions{
		Force:    true,
		Writer:   NewFileWriter(f.fs),
		Prompter: prompter,
	})
	require.NoError(t, err)
	assert.Empty(t, prompter.asked)
	assert.False(t, result.Aborted)
	assert.Equal(t, tasks, result.Tasks)
}

func TestConfirm_PreviewNeverPrompts(t *testing.T) {
	f := newFixture(t, nil, nil)
	tasks := existingPlan(t, f, "a")
	prompter := &scriptedPrompter{}

	result, err := Confirm(context.Background(), tasks, CascadeOptions{
		Preview:  true,
		Writer:   NewFileWriter(f.fs),
		Prompter: prompter,
	})
	require.NoError(t, err)
	assert.Empty(t, prompter.asked)
	assert.Len(t, result.Tasks, 1)
}

func TestConfirm_MissingDestinationsProceedUnprompted(t *testing.T) {
	f := newFixture(t, nil, nil)
	tasks := []model.FileTask{
		{Src: "/s/a", Dest: "/work/new-a"},
		{Src: "/s/b", Dest: "/work/new-b"},
	}
	prompter := &scriptedPrompter{}

	result, err := Confirm(context.Background(), tasks, CascadeOptions{Writer: NewFileWriter(f.fs), Prompter: prompter})
	require.NoError(t, err)
	assert.Empty(t, prompter.asked)
	assert.Equal(t, tasks, result.Tasks)
}

func TestConfirm_Skip(t *testing.T) {
	f := newFixture(t, nil, nil)
	tasks := existingPlan(t, f, "a", "b")
	prompter := &scriptedPrompter{answers: []model.Decision{model.DecisionSkip, model.DecisionProceed}}

	result, err := Confirm(context.Background(), tasks, CascadeOptions{Writer: NewFileWriter(f.fs), Prompter: prompter})
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/a", "/work/b"}, prompter.asked)
	assert.Equal(t, tasks[1:], result.Tasks)
	assert.Equal(t, tasks[:1], result.Skipped)
}

func TestConfirm_AbortIsTotal(t *testing.T) {
	for k := 0; k < 3; k++ {
		f := newFixture(t, nil, nil)
		tasks := existingPlan(t, f, "a", "b", "c")

		answers := make([]model.Decision, k+1)
		for i := 0; i < k; i++ {
			answers[i] = model.DecisionProceed
		}
		answers[k] = model.DecisionAbort
		prompter := &scriptedPrompter{answers: answers}

		result, err := Confirm(context.Background(), tasks, CascadeOptions{Writer: NewFileWriter(f.fs), Prompter: prompter})
		require.NoError(t, err)
		assert.True(t, result.Aborted)
		assert.Empty(t, result.Tasks)
		assert.Len(t, prompter.asked, k+1, "nothing after the abort is prompted")
	}
}

func TestConfirm_OverwriteAllMonotonic(t *testing.T) {
	f := newFixture(t, nil, nil)
	tasks := existingPlan(t, f, "a", "b", "c", "d")
	prompter := &scriptedPrompter{answers: []model.Decision{
		model.DecisionSkip,
		model.DecisionOverwriteAll,
		model.DecisionAbort,
	}}

	result, err := Confirm(context.Background(), tasks, CascadeOptions{Writer: NewFileWriter(f.fs), Prompter: prompter})
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/a", "/work/b"}, prompter.asked)
	assert.False(t, result.Aborted)
	assert.Equal(t, tasks[1:], result.Tasks)
}

func TestConfirm_NoPrompter(t *testing.T) {
	f := newFixture(t, nil, nil)
	tasks := existingPlan(t, f, "a")

	_, err := Confirm(context.Background(), tasks, CascadeOptions{Writer: NewFileWriter(f.fs)})
	assert.Error(t, err)
}

func TestConfirm_PrompterError(t *testing.T) {
	f := newFixture(t, nil, nil)
	tasks := existingPlan(t, f, "a")
	boom := errors.New("tty closed")

	_, err := Confirm(context.Background(), tasks, CascadeOptions{
		Writer: NewFileWriter(f.fs),
		Prompter: PrompterFunc(func(context.Context, string) (model.Decision, error) {
			return model.DecisionProceed, boom
		}),
	})
	assert.ErrorIs(t, err, boom)
}

func TestConfirm_CanceledContext(t *testing.T) {
	f := newFixture(t, nil, nil)
	tasks := existingPlan(t, f, "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Confirm(ctx, tasks, CascadeOptions{Writer: NewFileWriter(f.fs), Force: true})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecute_WritesInPlanOrder(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/work/qgen-templates/post/b.txt": "B {{title}}",
		"/work/qgen-templates/post/a.txt": "A {{title}}",
	}, nil)
	tasks := []model.FileTask{
		{Src: "/work/qgen-templates/post/b.txt", Dest: "/work/out/deep/b.txt", Mode: 0o644},
		{Src: "/work/qgen-templates/post/a.txt", Dest: "/work/out/a.txt", Mode: 0o644},
	}

	result, err := Execute(context.Background(), f.fs, tasks, ExecuteOptions{
		Renderer: f.renderer,
		Data:     map[string]interface{}{"title": "T"},
		Writer:   NewFileWriter(f.fs),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/out/deep/b.txt", "/work/out/a.txt"}, result.Written)
	assert.Equal(t, "B T", readFile(t, f.fs, "/work/out/deep/b.txt"))
	assert.Equal(t, "A T", readFile(t, f.fs, "/work/out/a.txt"))
}

func TestExecute_DryRun(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/work/qgen-templates/post/a.txt": "A {{title}}",
	}, nil)
	tasks := []model.FileTask{{Src: "/work/qgen-templates/post/a.txt", Dest: "/work/a.txt", Mode: 0o644}}

	result, err := Execute(context.Background(), f.fs, tasks, ExecuteOptions{
		Renderer: f.renderer,
		Data:     map[string]interface{}{"title": "T"},
		Writer:   NewFileWriter(f.fs),
		DryRun:   true,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Written)
	require.Len(t, result.Previews, 1)
	assert.Equal(t, "A T", string(result.Previews[0].Content))

	exists, err := afero.Exists(f.fs, "/work/a.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExecute_StopsOnFirstFailure(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/work/qgen-templates/post/a.txt": "A",
	}, nil)
	tasks := []model.FileTask{
		{Src: "/work/qgen-templates/post/a.txt", Dest: "/work/a.txt", Mode: 0o644},
		{Src: "/work/qgen-templates/post/missing.txt", Dest: "/work/missing.txt", Mode: 0o644},
	}

	result, err := Execute(context.Background(), f.fs, tasks, ExecuteOptions{
		Renderer: f.renderer,
		Writer:   NewFileWriter(f.fs),
	})
	require.Error(t, err)

	var fsErr *FileSystemError
	require.True(t, errors.As(err, &fsErr))
	assert.Equal(t, FileSystemRead, fsErr.Type)
	assert.Equal(t, []string{"/work/a.txt"}, result.Written)
	assert.Equal(t, "A", readFile(t, f.fs, "/work/a.txt"))
}

func TestFileWriter(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewFileWriter(fs)

	require.NoError(t, w.WriteFile("/out/sub/run.sh", []byte("#!/bin/sh\n"), 0o755))
	assert.Equal(t, "#!/bin/sh\n", readFile(t, fs, "/out/sub/run.sh"))

	info, err := fs.Stat("/out/sub/run.sh")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	entries, err := afero.ReadDir(fs, "/out/sub")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "run.sh", entries[0].Name())

	require.NoError(t, w.WriteFile("/out/ro.txt", []byte("x"), 0o444))
	info, err = fs.Stat("/out/ro.txt")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	exists, err := w.Exists("/out/sub")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFileWriter_LeavesNeighboursAlone(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/notes.md.tmp", []byte("USER DATA"), 0o644))
	w := NewFileWriter(fs)

	require.NoError(t, w.WriteFile("/out/notes.md", []byte("rendered"), 0o644))

	assert.Equal(t, "rendered", readFile(t, fs, "/out/notes.md"))
	assert.Equal(t, "USER DATA", readFile(t, fs, "/out/notes.md.tmp"))

	entries, err := afero.ReadDir(fs, "/out")
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"notes.md", "notes.md.tmp"}, names)
}

func TestExecute_TmpSiblingInPlan(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/work/qgen-templates/post/x.tmp": "first",
		"/work/qgen-templates/post/x":     "second",
	}, nil)

	tasks := []model.FileTask{
		{Src: "/work/qgen-templates/post/x.tmp", Dest: "/work/x.tmp", Mode: 0o644},
		{Src: "/work/qgen-templates/post/x", Dest: "/work/x", Mode: 0o644},
	}
	result, err := Execute(context.Background(), f.fs, tasks, ExecuteOptions{
		Renderer: f.renderer,
		Data:     f.cfg.Data(),
		Writer:   NewFileWriter(f.fs),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/x.tmp", "/work/x"}, result.Written)
	assert.Equal(t, "first", readFile(t, f.fs, "/work/x.tmp"))
	assert.Equal(t, "second", readFile(t, f.fs, "/work/x"))
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"file.tmp", "*.tmp", true},
		{"dir/file.tmp", "*.tmp", true},
		{"dir/sub/file.go", "dir/**", true},
		{"dir/sub/file.go", "dir/*.go", false},
		{".DS_Store", ".DS_Store", true},
		{"a/.DS_Store", ".DS_Store", true},
		{"file.go", "*.tmp", false},
	}

	for _, tt := range tests {
		t.Run(tt.path+"~"+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesPattern(tt.path, tt.pattern))
		})
	}
}

func TestGenerator_Scenario(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/work/qgen-templates/post/{{slug}}.md": "# {{title}}",
	}, config.Options{"slug": "hello", "title": "Hello"})

	g := NewGenerator(f.fs, nil)
	result, err := g.Generate(context.Background(), GenerateOptions{
		Template: dirRef("post"),
		Config:   f.cfg,
		Renderer: f.renderer,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/hello.md"}, result.Written)
	assert.Equal(t, "# Hello", readFile(t, f.fs, "/work/hello.md"))
}

func TestGenerator_SkipExisting(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/work/qgen-templates/post/a.txt": "new",
		"/work/a.txt":                     "old",
	}, nil)
	prompter := &scriptedPrompter{answers: []model.Decision{model.DecisionSkip}}

	result, err := NewGenerator(f.fs, prompter).Generate(context.Background(), GenerateOptions{
		Template: dirRef("post"),
		Config:   f.cfg,
		Renderer: f.renderer,
	})
	require.NoError(t, err)
	assert.Len(t, result.Planned, 1)
	assert.Empty(t, result.Written)
	assert.Equal(t, []string{"/work/a.txt"}, result.Skipped)
	assert.Equal(t, "old", readFile(t, f.fs, "/work/a.txt"))
}

func TestGenerator_AbortWritesNothing(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/work/qgen-templates/post/a.txt": "new a",
		"/work/qgen-templates/post/b.txt": "new b",
		"/work/qgen-templates/post/c.txt": "new c",
		"/work/b.txt":                     "old b",
	}, nil)
	prompter := &scriptedPrompter{answers: []model.Decision{model.DecisionAbort}}

	result, err := NewGenerator(f.fs, prompter).Generate(context.Background(), GenerateOptions{
		Template: dirRef("post"),
		Config:   f.cfg,
		Renderer: f.renderer,
	})
	require.NoError(t, err)
	assert.True(t, result.Aborted)
	assert.Empty(t, result.Written)

	exists, err := afero.Exists(f.fs, "/work/a.txt")
	require.NoError(t, err)
	assert.False(t, exists, "files decided before the abort are not written")
	assert.Equal(t, "old b", readFile(t, f.fs, "/work/b.txt"))
}

func TestGenerator_Force(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/work/qgen-templates/post/a.txt": "new",
		"/work/a.txt":                     "old",
	}, config.Options{config.KeyForce: true})
	prompter := &scriptedPrompter{}

	result, err := NewGenerator(f.fs, prompter).Generate(context.Background(), GenerateOptions{
		Template: dirRef("post"),
		Config:   f.cfg,
		Renderer: f.renderer,
	})
	require.NoError(t, err)
	assert.Empty(t, prompter.asked)
	assert.Equal(t, []string{"/work/a.txt"}, result.Written)
	assert.Equal(t, "new", readFile(t, f.fs, "/work/a.txt"))
}

func TestGenerator_Preview(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/work/qgen-templates/post/a.txt": "{{title}}",
		"/work/a.txt":                     "old",
	}, config.Options{config.KeyPreview: true, "title": "T"})
	prompter := &scriptedPrompter{}

	result, err := NewGenerator(f.fs, prompter).Generate(context.Background(), GenerateOptions{
		Template: dirRef("post"),
		Config:   f.cfg,
		Renderer: f.renderer,
	})
	require.NoError(t, err)
	assert.True(t, result.Preview)
	assert.Empty(t, prompter.asked)
	assert.Empty(t, result.Written)
	require.Len(t, result.Previews, 1)
	assert.Equal(t, "T", string(result.Previews[0].Content))
	assert.Equal(t, "old", readFile(t, f.fs, "/work/a.txt"))
}

func TestGenerator_InvalidOptions(t *testing.T) {
	g := NewGenerator(afero.NewMemMapFs(), nil)
	_, err := g.Generate(context.Background(), GenerateOptions{})
	assert.Error(t, err)
}
