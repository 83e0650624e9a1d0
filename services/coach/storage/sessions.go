// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package storage persists session history and the onboarding profile in
// the local BadgerDB instance.
//
// Records are stored as JSON blobs under fixed keys, matching the shape
// an earlier release wrote, so an existing data directory keeps working
// after an upgrade.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jinterlante1206/BoxerCoach/services/coach/storage/badgerdb"
	"github.com/jinterlante1206/BoxerCoach/services/coach/types"
)

// sessionsKey is the fixed key holding the JSON array of all sessions,
// newest first.
const sessionsKey = "ai_sessions"

// SessionStore reads and writes the session history.
//
// Thread Safety: all methods are safe for concurrent use; writes go
// through BadgerDB transactions.
type SessionStore struct {
	db  *badgerdb.DB
	log *slog.Logger
}

// NewSessionStore creates a SessionStore backed by db.
func NewSessionStore(db *badgerdb.DB, log *slog.Logger) *SessionStore {
	if log == nil {
		log = slog.Default()
	}
	return &SessionStore{db: db, log: log}
}

// GetAll returns every recorded session, newest first.
//
// Description:
//
//	A missing key or an unparseable blob yields an empty slice rather
//	than an error: the history is advisory and a corrupt blob should
//	never block the workflow.
//
// Inputs:
//
//	ctx - cancellation
//
// Outputs:
//
//	[]types.Session - never nil
//	error           - non-nil only on storage-level failure
func (s *SessionStore) GetAll(ctx context.Context) ([]types.Session, error) {
	raw, found, err := s.db.GetValue(ctx, []byte(sessionsKey))
	if err != nil {
		return nil, fmt.Errorf("storage: could not read sessions: %w", err)
	}
	if !found {
		return []types.Session{}, nil
	}

	var sessions []types.Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		s.log.Warn("session history is corrupt, treating as empty", "error", err)
		return []types.Session{}, nil
	}
	if sessions == nil {
		sessions = []types.Session{}
	}
	return sessions, nil
}

// Append adds a session to the front of the history.
//
// Description:
//
//	Read-modify-write of the full blob. The new session is prepended so
//	GetAll stays newest-first without sorting.
//
// Inputs:
//
//	ctx  - cancellation
//	sess - the completed session to record
//
// Outputs:
//
//	error - non-nil on storage failure
func (s *SessionStore) Append(ctx context.Context, sess types.Session) error {
	existing, err := s.GetAll(ctx)
	if err != nil {
		return err
	}

	updated := make([]types.Session, 0, len(existing)+1)
	updated = append(updated, sess)
	updated = append(updated, existing...)

	raw, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("storage: could not encode sessions: %w", err)
	}
	if err := s.db.SetValue(ctx, []byte(sessionsKey), raw); err != nil {
		return fmt.Errorf("storage: could not write sessions: %w", err)
	}

	s.log.Debug("session recorded", "session_id", sess.ID, "total", len(updated))
	return nil
}

// Count returns the number of recorded sessions.
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	sessions, err := s.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(sessions), nil
}

// ClearAll deletes the entire session history.
func (s *SessionStore) ClearAll(ctx context.Context) error {
	if err := s.db.DeleteValue(ctx, []byte(sessionsKey)); err != nil {
		return fmt.Errorf("storage: could not clear sessions: %w", err)
	}
	s.log.Info("session history cleared")
	return nil
}
