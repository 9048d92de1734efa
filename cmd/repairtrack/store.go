package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/datsun80zx/repairtrack/internal/config"
	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/parser"
	"github.com/datsun80zx/repairtrack/internal/sheets"
	"github.com/datsun80zx/repairtrack/internal/store"
)

// openStore returns the configured job store and a func releasing it.
// reg receives the sheets client metrics; nil leaves them unregistered.
func (a *app) openStore(ctx context.Context, reg prometheus.Registerer) (jobs.Store, func(), error) {
	noop := func() {}

	if a.file != "" {
		list, err := readJobsFile(a.file)
		if err != nil {
			return nil, noop, err
		}
		return jobs.NewMemoryStore(list), noop, nil
	}

	switch a.cfg.JobSource {
	case config.SourceSheets:
		client, err := sheets.New(sheets.Options{
			URL:        a.cfg.AppsScriptURL,
			Timeout:    a.cfg.SheetsTimeout,
			Retries:    a.cfg.SheetsRetries,
			CacheTTL:   a.cfg.SheetsCacheTTL,
			Logger:     a.log,
			Registerer: reg,
		})
		if err != nil {
			return nil, noop, err
		}
		return client, noop, nil

	case config.SourcePostgres:
		database, err := store.Open(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return store.NewPostgres(database), func() { database.Close() }, nil

	case config.SourceMemory:
		return jobs.NewMemoryStore(nil), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown job source %q", a.cfg.JobSource)
	}
}

// loadJobs reads every job from the configured store
func (a *app) loadJobs(ctx context.Context) ([]jobs.Job, error) {
	s, release, err := a.openStore(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.ListJobs(ctx)
}

func readJobsFile(path string) ([]jobs.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := parser.NewCSVParser().ParseJobs(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return parser.Jobs(rows), nil
}
