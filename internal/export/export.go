// Package export turns a render instruction into an export job on disk and
// hands it to post-export hooks, which produce the pixels.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/pixtweak/internal/hooks"
	"github.com/cristianoliveira/pixtweak/internal/imagesrc"
	"github.com/cristianoliveira/pixtweak/internal/render"
	"github.com/google/uuid"
)

var (
	// ErrUnknownFormat is returned for formats other than png, jpeg and webp.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrQualityRange is returned when quality is outside [0, 1].
	ErrQualityRange = errors.New("export quality must be between 0 and 1")
)

// Format is an output encoding.
type Format string

// Supported formats.
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	WebP Format = "webp"
)

// ParseFormat accepts a format name or a common extension alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "webp":
		return WebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// MIME returns the media type for f.
func (f Format) MIME() string {
	return "image/" + string(f)
}

// Request describes what the user asked to export.
type Request struct {
	Output  string
	Format  Format
	Quality float64
}

// Validate checks format and quality.
func (r Request) Validate() error {
	if _, err := ParseFormat(string(r.Format)); err != nil {
		return err
	}
	if r.Quality < 0 || r.Quality > 1 {
		return fmt.Errorf("%w: %v", ErrQualityRange, r.Quality)
	}
	if strings.TrimSpace(r.Output) == "" {
		return errors.New("export output path cannot be empty")
	}
	return nil
}

// Path returns the output path, adding the format extension when Output has
// none.
func (r Request) Path() string {
	if filepath.Ext(r.Output) != "" {
		return r.Output
	}
	return r.Output + r.Format.Ext()
}

// TransformRecord is the job's geometric transform plus its matrix in
// row-major order [a b c d e f] for x' = a*x + b*y + c, y' = d*x + e*y + f.
type TransformRecord struct {
	render.Transform
	Matrix [6]float64 `json:"matrix"`
}

// Job is the document written next to the output for hooks to consume.
type Job struct {
	ID        string          `json:"id"`
	SessionID string          `json:"sessionId,omitempty"`
	Source    string          `json:"source"`
	Output    string          `json:"output"`
	Format    Format          `json:"format"`
	MIME      string          `json:"mime"`
	Quality   float64         `json:"quality"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Effects   render.Effects  `json:"effects"`
	CSSFilter string          `json:"cssFilter"`
	Transform TransformRecord `json:"transform"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewJob builds a job for req from the instruction and its source image.
func NewJob(req Request, src imagesrc.Handle, inst render.Instruction, sessionID string) Job {
	effects := inst.Effects
	if effects == nil {
		effects = render.Effects{}
	}
	return Job{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Source:    src.Key(),
		Output:    req.Path(),
		Format:    req.Format,
		MIME:      req.Format.MIME(),
		Quality:   req.Quality,
		Width:     inst.Canvas.Width,
		Height:    inst.Canvas.Height,
		Effects:   effects,
		CSSFilter: inst.Effects.CSS(),
		Transform: TransformRecord{
			Transform: inst.Transform,
			Matrix:    [6]float64(inst.Transform.Matrix()),
		},
		CreatedAt: time.Now().UTC(),
	}
}

// Env returns the hook environment for j.
func (j Job) Env(jobPath string) []string {
	return []string{
		"PIXTWEAK_JOB=" + jobPath,
		"PIXTWEAK_JOB_ID=" + j.ID,
		"PIXTWEAK_OUTPUT=" + j.Output,
		"PIXTWEAK_FORMAT=" + string(j.Format),
		"PIXTWEAK_QUALITY=" + strconv.FormatFloat(j.Quality, 'f', -1, 64),
		"PIXTWEAK_SOURCE=" + j.Source,
		"PIXTWEAK_CSS_FILTER=" + j.CSSFilter,
		"PIXTWEAK_WIDTH=" + strconv.Itoa(j.Width),
		"PIXTWEAK_HEIGHT=" + strconv.Itoa(j.Height),
	}
}

// Exporter performs an export job.
type Exporter interface {
	Export(ctx context.Context, job Job) (Result, error)
}

// Result reports where an export went.
type Result struct {
	JobPath string
	Output  string
	Hooks   []string
}

// HookRunner runs a hook point. *hooks.Runner satisfies it.
type HookRunner interface {
	Run(ctx context.Context, point string, envVars ...string) error
	Scripts(point string) []string
}

// JobExporter writes <output>.job.json and runs post-export hooks.
type JobExporter struct {
	hooks HookRunner
}

// NewJobExporter returns an exporter that hands jobs to runner. A nil runner
// only writes the job file.
func NewJobExporter(runner HookRunner) *JobExporter {
	return &JobExporter{hooks: runner}
}

// JobPath returns where the job for output is written.
func JobPath(output string) string {
	return output + ".job.json"
}

// Export writes the job document and runs the post-export hooks.
func (e *JobExporter) Export(ctx context.Context, job Job) (Result, error) {
	res := Result{JobPath: JobPath(job.Output), Output: job.Output}

	if dir := filepath.Dir(job.Output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, fmt.Errorf("export: create output directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return res, fmt.Errorf("export: marshal job: %w", err)
	}
	if err := os.WriteFile(res.JobPath, data, 0o644); err != nil {
		return res, fmt.Errorf("export: write job: %w", err)
	}

	if e.hooks == nil {
		return res, nil
	}
	res.Hooks = e.hooks.Scripts(hooks.PostExport)
	if err := e.hooks.Run(ctx, hooks.PostExport, job.Env(res.JobPath)...); err != nil {
		return res, fmt.Errorf("export: %w", err)
	}
	return res, nil
}
