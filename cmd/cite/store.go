package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matsen/citations/internal/config"
	"github.com/matsen/citations/internal/export"
	"github.com/matsen/citations/internal/logger"
	"github.com/matsen/citations/internal/storage"
)

// session bundles what every store-backed command needs.
type session struct {
	root  string
	cfg   *config.Config
	log   *logger.Logger
	db    *storage.DB
	style export.Style
}

// openSession finds the repository, loads its config and opens the store,
// exiting on failure.
func openSession(ctx context.Context) *session {
	repoRoot, err := config.FindRepository(getRepoRoot())
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		exitWithError(ExitConfigError, "creating logger: %v", err)
	}

	db, err := storage.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, log)
	if err != nil {
		log.Sync()
		exitWithError(ExitError, "opening database: %v", err)
	}

	style, ok := export.Styles[cfg.Style]
	if !ok {
		exitWithError(ExitConfigError, "unknown style: %s", cfg.Style)
	}

	return &session{root: repoRoot, cfg: cfg, log: log, db: db, style: style}
}

func (s *session) Close() {
	s.db.Close()
	s.log.Sync()
}

// readPayload decodes JSON from path, or from stdin when path is "-".
func readPayload(path string, v interface{}) error {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening payload: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("parsing payload: %w", err)
	}
	return nil
}
