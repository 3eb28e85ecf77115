package main

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cristianoliveira/pixtweak/internal/adjust"
	"github.com/cristianoliveira/pixtweak/internal/colors"
	"github.com/cristianoliveira/pixtweak/internal/config"
	"github.com/cristianoliveira/pixtweak/internal/history"
	"github.com/cristianoliveira/pixtweak/internal/hooks"
	"github.com/cristianoliveira/pixtweak/internal/preset"
	"github.com/cristianoliveira/pixtweak/internal/render"
	"github.com/cristianoliveira/pixtweak/internal/session"
	"github.com/spf13/cobra"
)

// editFlags are the mutations shared by render and export.
type editFlags struct {
	preset string
	sets   []string
	rotate int
	flipX  bool
	flipY  bool
	save   bool
}

func registerEditFlags(cmd *cobra.Command, f *editFlags) {
	cmd.Flags().StringVar(&f.preset, "preset", "", "Apply a preset before the other edits")
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "Set a filter, e.g. --set brightness=120 (repeatable)")
	cmd.Flags().IntVar(&f.rotate, "rotate", 0, "Quarter turns clockwise; negative turns counter-clockwise")
	cmd.Flags().BoolVar(&f.flipX, "flip-x", false, "Mirror left to right")
	cmd.Flags().BoolVar(&f.flipY, "flip-y", false, "Mirror top to bottom")
	cmd.Flags().BoolVar(&f.save, "save", false, "Persist the resulting adjustments for the image")
}

type assignment struct {
	key   adjust.Key
	value float64
}

// parseSets parses key=value pairs. Values are not clamped.
func parseSets(raw []string) ([]assignment, error) {
	out := make([]assignment, 0, len(raw))
	for _, s := range raw {
		k, v, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: want key=value", s)
		}
		k = strings.TrimSpace(k)
		if !adjust.IsKey(k) {
			return nil, fmt.Errorf("unknown adjustment %q (must be one of %s)", k, keyList())
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("invalid value for %s: %q", k, v)
		}
		out = append(out, assignment{key: adjust.Key(k), value: f})
	}
	return out, nil
}

func keyList() string {
	names := make([]string, len(adjust.Keys))
	for i, k := range adjust.Keys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func (f editFlags) validate() ([]assignment, error) {
	if f.preset != "" {
		if _, ok := preset.Lookup(f.preset); !ok {
			return nil, fmt.Errorf("unknown preset %q (must be one of %s)", f.preset, strings.Join(preset.Names(), ", "))
		}
	}
	return parseSets(f.sets)
}

// apply runs the edits against s in a fixed order: preset, filters,
// rotation, flips.
func (f editFlags) apply(s *session.Session, sets []assignment) {
	if f.preset != "" {
		s.ApplyPreset(f.preset)
	}
	for _, a := range sets {
		s.Adjust(a.key, a.value)
	}
	for i := 0; i < f.rotate; i++ {
		s.RotateRight()
	}
	for i := 0; i > f.rotate; i-- {
		s.RotateLeft()
	}
	if f.flipX {
		s.FlipHorizontal()
	}
	if f.flipY {
		s.FlipVertical()
	}
}

// openSession loads path into a fresh session, runs post-load hooks and
// applies the edits. The returned func releases the store.
func openSession(ctx context.Context, d *deps, path string, f editFlags, sink render.Sink) (*session.Session, func(), error) {
	sets, err := f.validate()
	if err != nil {
		return nil, nil, err
	}
	h, err := d.openImage(path)
	if err != nil {
		return nil, nil, err
	}
	store, err := d.openStore()
	if err != nil {
		return nil, nil, fmt.Errorf("open adjustment store: %w", err)
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			colors.Debug(fmt.Sprintf("close store: %v", err))
		}
	}
	sessionStore := store
	if !f.save {
		sessionStore = readOnlyStore{Store: store}
	}

	s := session.New(session.Options{
		Sink:       sink,
		Store:      sessionStore,
		Exporter:   d.exporter(),
		Logger:     d.logger(),
		HistoryCap: config.GetInt("history_cap", history.DefaultCap),
		MaxWidth:   config.GetInt("max_canvas_width", session.DefaultMaxWidth),
		MaxHeight:  config.GetInt("max_canvas_height", session.DefaultMaxHeight),
		OnError: func(err error) {
			colors.Warning(err.Error())
		},
	})
	s.LoadImage(h)

	env := []string{
		"PIXTWEAK_SOURCE=" + h.Key(),
		"PIXTWEAK_FORMAT=" + h.Format,
		"PIXTWEAK_WIDTH=" + strconv.Itoa(h.Width),
		"PIXTWEAK_HEIGHT=" + strconv.Itoa(h.Height),
	}
	if err := d.hooks().Run(ctx, hooks.PostLoad, env...); err != nil {
		closeStore()
		return nil, nil, err
	}

	f.apply(s, sets)
	return s, closeStore, nil
}
