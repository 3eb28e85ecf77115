// Package hooks runs user scripts at named hook points.
//
// Scripts live in <hooks_dir>/<point>/ and run in name order. Each receives
// the parent environment plus HOOK_POINT, HOOK_TIMESTAMP, PIXTWEAK_BINARY
// and the variables passed to Run.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cristianoliveira/pixtweak/internal/colors"
	"github.com/cristianoliveira/pixtweak/internal/config"
)

// Hook points.
const (
	PostExport = "post-export"
	PostLoad   = "post-load"
)

// Failure modes.
const (
	FailAbort  = "abort"
	FailWarn   = "warn"
	FailIgnore = "ignore"
)

// Runner executes the scripts of a hook point.
type Runner struct {
	Dir         string
	Enabled     bool
	FailureMode string
	Timeout     time.Duration
	// Output receives script output. Defaults to os.Stderr.
	Output io.Writer

	now func() time.Time
}

// FromConfig builds a Runner from the global configuration.
func FromConfig() *Runner {
	return &Runner{
		Dir:         config.Get("hooks_dir", ""),
		Enabled:     config.GetBool("hooks_enabled", true),
		FailureMode: config.Get("hooks_failure_mode", FailWarn),
		Timeout:     time.Duration(config.GetInt("hooks_timeout", 30)) * time.Second,
	}
}

// Init creates the hooks directory and one subdirectory per known hook
// point.
func (r *Runner) Init() error {
	for _, point := range []string{PostExport, PostLoad} {
		dir := filepath.Join(r.Dir, point)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create hooks directory %s: %w", dir, err)
		}
	}
	return nil
}

type script struct {
	path string
	name string
}

// Scripts returns the executable scripts of point sorted by name. A missing
// directory yields none.
func (r *Runner) Scripts(point string) []string {
	found := r.scripts(point)
	names := make([]string, len(found))
	for i, s := range found {
		names[i] = s.name
	}
	return names
}

func (r *Runner) scripts(point string) []script {
	dir := filepath.Join(r.Dir, point)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []script
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		info, err := os.Stat(p)
		if err != nil || info.Mode()&0o111 == 0 {
			continue
		}
		out = append(out, script{path: p, name: e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Run executes every script of point. envVars are KEY=VALUE pairs; malformed
// entries are skipped. With failure mode abort the first failing script
// stops the run and its error is returned. Cancelling ctx stops the current
// script and returns ctx.Err().
func (r *Runner) Run(ctx context.Context, point string, envVars ...string) error {
	if !r.Enabled {
		return nil
	}
	scripts := r.scripts(point)
	if len(scripts) == 0 {
		return nil
	}

	env := r.environment(point, envVars)
	colors.Debug(fmt.Sprintf("running %s hooks (%d script(s))", point, len(scripts)))

	for _, s := range scripts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.runOne(ctx, s, env); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			switch r.FailureMode {
			case FailAbort:
				return err
			case FailIgnore:
			default:
				colors.Warning(err.Error())
			}
		}
	}
	return nil
}

func (r *Runner) runOne(ctx context.Context, s script, env []string) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	start := r.clock()
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, s.path)
	cmd.Env = env
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()

	if out.Len() > 0 {
		_, _ = r.output().Write(out.Bytes())
	}
	elapsed := r.clock().Sub(start)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("hook %s timed out after %.2fs", s.name, elapsed.Seconds())
	}
	if err != nil {
		return fmt.Errorf("hook %s failed: %w", s.name, err)
	}
	colors.Debug(fmt.Sprintf("hook %s completed in %.2fs", s.name, elapsed.Seconds()))
	return nil
}

func (r *Runner) environment(point string, envVars []string) []string {
	env := os.Environ()
	env = append(env,
		"HOOK_POINT="+point,
		"HOOK_TIMESTAMP="+r.clock().Format(time.RFC3339),
		"PIXTWEAK_HOOKS_FAILURE_MODE="+r.FailureMode,
	)
	if exe, err := os.Executable(); err == nil {
		env = append(env, "PIXTWEAK_BINARY="+exe)
	}
	for _, v := range envVars {
		if k, _, ok := strings.Cut(v, "="); ok && k != "" {
			env = append(env, v)
		}
	}
	return env
}

func (r *Runner) output() io.Writer {
	if r.Output != nil {
		return r.Output
	}
	return os.Stderr
}

func (r *Runner) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}
