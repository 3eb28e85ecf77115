package main

import (
	"context"

	"github.com/cristianoliveira/pixtweak/internal/adjust"
	"github.com/cristianoliveira/pixtweak/internal/config"
	"github.com/cristianoliveira/pixtweak/internal/export"
	"github.com/cristianoliveira/pixtweak/internal/hooks"
	"github.com/cristianoliveira/pixtweak/internal/imagesrc"
	"github.com/cristianoliveira/pixtweak/internal/logging"
	"github.com/cristianoliveira/pixtweak/internal/persist"
)

// hookRunner manages and runs hook points. *hooks.Runner satisfies it.
type hookRunner interface {
	Init() error
	Run(ctx context.Context, point string, envVars ...string) error
	Scripts(point string) []string
}

// deps carries the collaborators commands are built on. Constructors are
// functions so configuration is read after the root command loaded it.
type deps struct {
	openImage func(path string) (imagesrc.Handle, error)
	openStore func() (persist.Store, error)
	hooks     func() hookRunner
	logger    func() logging.Logger
}

func defaultDeps() *deps {
	return &deps{
		openImage: imagesrc.Open,
		openStore: func() (persist.Store, error) {
			return persist.New(config.Get("persistence_backend", persist.BackendFile), config.Get("state_dir", ""))
		},
		hooks: func() hookRunner {
			return hooks.FromConfig()
		},
		logger: logging.GetGlobal,
	}
}

func (d *deps) exporter() export.Exporter {
	return export.NewJobExporter(d.hooks())
}

// readOnlyStore loads persisted adjustments but never writes them back.
type readOnlyStore struct {
	persist.Store
}

func (readOnlyStore) Save(string, adjust.State) error { return nil }
func (readOnlyStore) Forget(string) error             { return nil }

var appDeps = defaultDeps()
