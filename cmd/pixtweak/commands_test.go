package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cristianoliveira/pixtweak/internal/adjust"
	"github.com/cristianoliveira/pixtweak/internal/colors"
	"github.com/cristianoliveira/pixtweak/internal/export"
	"github.com/cristianoliveira/pixtweak/internal/hooks"
	"github.com/cristianoliveira/pixtweak/internal/imagesrc"
	"github.com/cristianoliveira/pixtweak/internal/logging"
	"github.com/cristianoliveira/pixtweak/internal/persist"
	"github.com/cristianoliveira/pixtweak/internal/render"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHooks struct {
	inits   int
	scripts map[string][]string
	runs    []string
	envs    map[string][]string
	fail    map[string]error
}

func (f *fakeHooks) Init() error {
	f.inits++
	return nil
}

func (f *fakeHooks) Run(_ context.Context, point string, envVars ...string) error {
	f.runs = append(f.runs, point)
	if f.envs == nil {
		f.envs = map[string][]string{}
	}
	f.envs[point] = envVars
	return f.fail[point]
}

func (f *fakeHooks) Scripts(point string) []string { return f.scripts[point] }

type fixture struct {
	dir   string
	image string
	store *persist.FileStore
	hooks *fakeHooks
	deps  *deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	colors.SetOutput(io.Discard, io.Discard)
	t.Cleanup(func() { colors.SetOutput(os.Stdout, os.Stderr) })

	dir := t.TempDir()
	f := &fixture{
		dir:   dir,
		image: filepath.Join(dir, "cat.png"),
		store: persist.NewFileStore(filepath.Join(dir, "state", "adjustments.json")),
		hooks: &fakeHooks{},
	}
	f.deps = &deps{
		openImage: func(path string) (imagesrc.Handle, error) {
			if path != f.image {
				return imagesrc.Handle{}, imagesrc.ErrNotImage
			}
			return imagesrc.Handle{Path: f.image, Format: "png", Width: 3000, Height: 2000, Bytes: 2048}, nil
		},
		openStore: func() (persist.Store, error) { return f.store, nil },
		hooks:     func() hookRunner { return f.hooks },
		logger:    logging.Nop,
	}
	return f
}

func execute(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}

func TestParseSets(t *testing.T) {
	got, err := parseSets([]string{"brightness=150", " blur = 2.5 ", "hueRotate=-30"})
	require.NoError(t, err)
	assert.Equal(t, []assignment{
		{key: adjust.Brightness, value: 150},
		{key: adjust.Blur, value: 2.5},
		{key: adjust.HueRotate, value: -30},
	}, got)

	tests := []struct {
		name    string
		raw     string
		wantMsg string
	}{
		{name: "missing separator", raw: "brightness", wantMsg: "want key=value"},
		{name: "unknown key", raw: "gamma=2", wantMsg: `unknown adjustment "gamma"`},
		{name: "transform field", raw: "rotation=90", wantMsg: `unknown adjustment "rotation"`},
		{name: "not a number", raw: "contrast=high", wantMsg: "invalid value for contrast"},
		{name: "not finite", raw: "contrast=NaN", wantMsg: "invalid value for contrast"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSets([]string{tt.raw})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestRenderJSON(t *testing.T) {
	f := newFixture(t)
	out, err := execute(t, NewRenderCmd(f.deps), f.image, "--set", "brightness=150", "--rotate", "1", "--flip-x", "--output", "json")
	require.NoError(t, err)

	var inst render.Instruction
	require.NoError(t, json.Unmarshal([]byte(out), &inst))
	assert.Equal(t, render.Canvas{Width: 1400, Height: 933}, inst.Canvas)
	require.Len(t, inst.Effects, len(adjust.Keys))
	assert.Equal(t, adjust.Brightness, inst.Effects[0].Name)
	assert.Equal(t, 150.0, inst.Effects[0].Value)
	assert.Equal(t, 90, inst.Transform.Degrees)
	assert.Equal(t, -1.0, inst.Transform.ScaleX)
	assert.Equal(t, 1.0, inst.Transform.ScaleY)
	assert.False(t, inst.Compare)
	assert.Equal(t, []string{hooks.PostLoad}, f.hooks.runs)
	assert.Contains(t, f.hooks.envs[hooks.PostLoad], "PIXTWEAK_SOURCE="+f.image)
}

func TestRenderNegativeRotation(t *testing.T) {
	f := newFixture(t)
	out, err := execute(t, NewRenderCmd(f.deps), f.image, "--rotate", "-2", "--output", "json")
	require.NoError(t, err)

	var inst render.Instruction
	require.NoError(t, json.Unmarshal([]byte(out), &inst))
	assert.Equal(t, -180, inst.Transform.Degrees)
}

func TestRenderCSSWithPreset(t *testing.T) {
	f := newFixture(t)
	out, err := execute(t, NewRenderCmd(f.deps), f.image, "--preset", "mono", "--set", "blur=2", "--output", "css")
	require.NoError(t, err)
	assert.Equal(t, "brightness(105%) contrast(110%) blur(2px) grayscale(100%) saturate(0%) hue-rotate(0deg) sepia(0%) invert(0%)\n", out)
}

func TestRenderCompareShowsOriginal(t *testing.T) {
	f := newFixture(t)
	out, err := execute(t, NewRenderCmd(f.deps), f.image, "--preset", "vivid", "--compare", "--output", "css")
	require.NoError(t, err)
	assert.Equal(t, "none\n", out)
}

func TestRenderText(t *testing.T) {
	f := newFixture(t)
	out, err := execute(t, NewRenderCmd(f.deps), f.image, "--rotate", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "cat.png 3000×2000 png")
	assert.Contains(t, out, "canvas:   1400x933")
	assert.Contains(t, out, "rotate:   90deg")
	assert.Contains(t, out, "compare:  false")
}

func TestRenderDoesNotPersistWithoutSave(t *testing.T) {
	f := newFixture(t)
	_, err := execute(t, NewRenderCmd(f.deps), f.image, "--set", "sepia=40")
	require.NoError(t, err)
	_, ok := f.store.Load(f.image)
	assert.False(t, ok)

	_, err = execute(t, NewRenderCmd(f.deps), f.image, "--set", "sepia=40", "--save")
	require.NoError(t, err)
	p, ok := f.store.Load(f.image)
	require.True(t, ok)
	assert.Equal(t, 40.0, p["sepia"])
}

func TestRenderLoadsPersistedAdjustments(t *testing.T) {
	f := newFixture(t)
	st := adjust.Set(adjust.Default(), adjust.Contrast, 130)
	require.NoError(t, f.store.Save(f.image, st))

	out, err := execute(t, NewRenderCmd(f.deps), f.image, "--output", "css")
	require.NoError(t, err)
	assert.Contains(t, out, "contrast(130%)")
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "no image", args: []string{}, wantMsg: "accepts 1 arg"},
		{name: "bad output", args: []string{"IMAGE", "--output", "yaml"}, wantMsg: "invalid output format"},
		{name: "unknown preset", args: []string{"IMAGE", "--preset", "sunset"}, wantMsg: `unknown preset "sunset"`},
		{name: "bad set", args: []string{"IMAGE", "--set", "gamma=1"}, wantMsg: "unknown adjustment"},
		{name: "not an image", args: []string{"/nope.txt"}, wantMsg: imagesrc.ErrNotImage.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			args := make([]string, len(tt.args))
			for i, a := range tt.args {
				args[i] = strings.ReplaceAll(a, "IMAGE", f.image)
			}
			_, err := execute(t, NewRenderCmd(f.deps), args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestPostLoadHookFailureStopsRender(t *testing.T) {
	f := newFixture(t)
	f.hooks.fail = map[string]error{hooks.PostLoad: errors.New("hook 10-check.sh failed: exit status 1")}
	_, err := execute(t, NewRenderCmd(f.deps), f.image)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10-check.sh")
}

func TestExportWritesJob(t *testing.T) {
	f := newFixture(t)
	out, err := execute(t, NewExportCmd(f.deps), f.image, "--preset", "mono", "--format", "jpg", "--quality", "0.8")
	require.NoError(t, err)

	jobPath := filepath.Join(f.dir, "edited-image.jpg.job.json")
	assert.Equal(t, jobPath+"\n", out)

	data, err := os.ReadFile(jobPath)
	require.NoError(t, err)
	var job export.Job
	require.NoError(t, json.Unmarshal(data, &job))
	assert.Equal(t, f.image, job.Source)
	assert.Equal(t, filepath.Join(f.dir, "edited-image.jpg"), job.Output)
	assert.Equal(t, export.JPEG, job.Format)
	assert.Equal(t, 0.8, job.Quality)
	assert.Equal(t, 1400, job.Width)
	assert.Contains(t, job.CSSFilter, "grayscale(100%)")

	assert.Equal(t, []string{hooks.PostLoad, hooks.PostExport}, f.hooks.runs)
	assert.Contains(t, f.hooks.envs[hooks.PostExport], "PIXTWEAK_JOB="+jobPath)
}

func TestExportExplicitOutput(t *testing.T) {
	f := newFixture(t)
	target := filepath.Join(f.dir, "out", "final.webp")
	_, err := execute(t, NewExportCmd(f.deps), f.image, "--out", target, "--format", "webp")
	require.NoError(t, err)
	assert.FileExists(t, target+".job.json")
}

func TestExportValidation(t *testing.T) {
	f := newFixture(t)
	_, err := execute(t, NewExportCmd(f.deps), f.image, "--format", "gif")
	require.ErrorIs(t, err, export.ErrUnknownFormat)

	_, err = execute(t, NewExportCmd(f.deps), f.image, "--quality", "1.5")
	require.ErrorIs(t, err, export.ErrQualityRange)
}

func TestExportHookFailure(t *testing.T) {
	f := newFixture(t)
	f.hooks.fail = map[string]error{hooks.PostExport: errors.New("hook 10-convert.sh failed")}
	_, err := execute(t, NewExportCmd(f.deps), f.image)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export: hook 10-convert.sh failed")
}

func TestOutputPath(t *testing.T) {
	src := "/photos/cat.png"
	assert.Equal(t, "/photos/edited-image", outputPath("", src))
	assert.Equal(t, "/photos/final", outputPath("final", src))
	assert.Equal(t, "/tmp/final.png", outputPath("/tmp/final.png", src))
	assert.Equal(t, filepath.Join("out", "final"), outputPath(filepath.Join("out", "final"), src))
}

func TestForget(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Save(f.image, adjust.Default().RotateRight()))

	_, err := execute(t, NewForgetCmd(f.deps), f.image)
	require.NoError(t, err)
	_, ok := f.store.Load(f.image)
	assert.False(t, ok)
}

func TestPresetsListsEveryPreset(t *testing.T) {
	out, err := execute(t, NewPresetsCmd())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "KEY"))
	assert.Contains(t, lines[0], "hueRotate")
	assert.Regexp(t, `^1\s+cool\s`, lines[1])
	assert.Regexp(t, `^2\s+mono\s+105\s+110\s+0\s+100\s`, lines[2])
}

func TestEditorOptionsDefaults(t *testing.T) {
	f := newFixture(t)
	opts, done, err := editorOptions(f.deps)
	require.NoError(t, err)
	defer done()

	assert.Equal(t, export.PNG, opts.ExportFormat)
	assert.Equal(t, 0.92, opts.ExportQuality)
	assert.Equal(t, "edited-image", opts.ExportName)
	assert.Equal(t, 40, opts.HistoryCap)
	assert.Equal(t, 1400, opts.MaxWidth)
	assert.NotNil(t, opts.Open)
	assert.Same(t, f.store, opts.Store)
}

func TestConstructorsPanicOnNilDeps(t *testing.T) {
	for name, fn := range map[string]func(){
		"render": func() { NewRenderCmd(nil) },
		"export": func() { NewExportCmd(nil) },
		"forget": func() { NewForgetCmd(nil) },
		"hooks":  func() { NewHooksCmd(nil) },
		"edit":   func() { NewEditCmd(nil) },
	} {
		t.Run(name, func(t *testing.T) {
			assert.PanicsWithValue(t, "New"+strings.ToUpper(name[:1])+name[1:]+"Cmd: deps dependency cannot be nil", fn)
		})
	}
}

func TestHooksInitAndList(t *testing.T) {
	f := newFixture(t)
	f.hooks.scripts = map[string][]string{hooks.PostExport: {"10-convert.sh", "20-upload.sh"}}

	_, err := execute(t, NewHooksCmd(f.deps), "init")
	require.NoError(t, err)
	assert.Equal(t, 1, f.hooks.inits)

	out, err := execute(t, NewHooksCmd(f.deps), "list")
	require.NoError(t, err)
	assert.Equal(t, "post-export:\n  10-convert.sh\n  20-upload.sh\npost-load:\n  (none)\n", out)
}

func TestExportReportsHooks(t *testing.T) {
	f := newFixture(t)
	f.hooks.scripts = map[string][]string{hooks.PostExport: {"10-convert.sh"}}
	_, err := execute(t, NewExportCmd(f.deps), f.image)
	require.NoError(t, err)
	assert.Equal(t, []string{hooks.PostLoad, hooks.PostExport}, f.hooks.runs)
}
