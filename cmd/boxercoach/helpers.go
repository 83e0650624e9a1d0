// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"time"

	"github.com/jinterlante1206/BoxerCoach/cmd/boxercoach/config"
	"github.com/jinterlante1206/BoxerCoach/pkg/logging"
	"github.com/jinterlante1206/BoxerCoach/services/coach/auth"
	"github.com/jinterlante1206/BoxerCoach/services/coach/backend"
	"github.com/jinterlante1206/BoxerCoach/services/coach/media"
	"github.com/jinterlante1206/BoxerCoach/services/coach/storage"
	"github.com/jinterlante1206/BoxerCoach/services/coach/storage/badgerdb"
	"github.com/jinterlante1206/BoxerCoach/services/coach/workflow"
)

// app holds the wired dependencies for one command invocation.
type app struct {
	log      *logging.Logger
	db       *badgerdb.DB
	sessions *storage.SessionStore
	profile  *storage.ProfileStore
	library  *media.Library
	backend  *backend.Client
	ctrl     *workflow.Controller
	gate     auth.SessionGate
}

// buildApp wires the full dependency graph from the loaded config.
// Callers must defer app.close().
func buildApp() (*app, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	cfg := config.Global

	log := logging.New(logging.Config{
		Level:   parseLogLevel(cfg.Logging.Level),
		LogDir:  cfg.Logging.LogDir,
		Service: "boxercoach",
		Quiet:   true, // command output goes through ux, not slog
	})

	db, err := badgerdb.Open(badgerdb.Config{
		Path:       cfg.Storage.DatabaseDir(),
		SyncWrites: true,
		Logger:     log.Slog(),
	})
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("could not open the local database: %w", err)
	}

	library, err := media.NewLibrary(cfg.Storage.VideoDir(), media.WithLogger(log))
	if err != nil {
		db.Close()
		log.Close()
		return nil, err
	}

	client, err := backend.NewClient(backend.Config{
		BaseURL:        cfg.Backend.BaseURL,
		UploadTimeout:  time.Duration(cfg.Backend.UploadTimeoutSeconds) * time.Second,
		AnalyzeTimeout: time.Duration(cfg.Backend.AnalyzeTimeoutSeconds) * time.Second,
		Logger:         log,
	})
	if err != nil {
		db.Close()
		log.Close()
		return nil, err
	}

	sessions := storage.NewSessionStore(db, log.Slog())
	profile := storage.NewProfileStore(db, log.Slog())

	ctrl, err := workflow.NewController(workflow.Config{
		Backend:        client,
		Picker:         library,
		Sessions:       sessions,
		MaxUploadBytes: cfg.Upload.MaxSizeBytes(),
		Logger:         log.Slog(),
	})
	if err != nil {
		db.Close()
		log.Close()
		return nil, err
	}

	return &app{
		log:      log,
		db:       db,
		sessions: sessions,
		profile:  profile,
		library:  library,
		backend:  client,
		ctrl:     ctrl,
		gate:     auth.NewLocalGate(),
	}, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.log != nil {
		a.log.Close()
	}
}

// formatSize renders a byte count for display.
func formatSize(n int64) string {
	const mb = 1024 * 1024
	if n >= mb {
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	}
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}

func parseLogLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
