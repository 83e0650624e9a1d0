// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jinterlante1206/BoxerCoach/services/coach/storage/badgerdb"
	"github.com/jinterlante1206/BoxerCoach/services/coach/types"
)

const (
	// profileKey holds the onboarding profile JSON blob.
	profileKey = "onboardingProfile"

	// completedKey holds the literal string "true" once onboarding has
	// finished. Absence means onboarding is pending.
	completedKey = "onboardingCompleted"
)

// ProfileStore reads and writes the onboarding profile and its
// completion flag.
//
// Thread Safety: all methods are safe for concurrent use.
type ProfileStore struct {
	db  *badgerdb.DB
	log *slog.Logger
}

// NewProfileStore creates a ProfileStore backed by db.
func NewProfileStore(db *badgerdb.DB, log *slog.Logger) *ProfileStore {
	if log == nil {
		log = slog.Default()
	}
	return &ProfileStore{db: db, log: log}
}

// Load returns the stored profile, or the zero profile when none has
// been saved yet. A corrupt blob is treated as absent.
func (s *ProfileStore) Load(ctx context.Context) (types.Profile, error) {
	raw, found, err := s.db.GetValue(ctx, []byte(profileKey))
	if err != nil {
		return types.Profile{}, fmt.Errorf("storage: could not read profile: %w", err)
	}
	if !found {
		return types.Profile{}, nil
	}

	var p types.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		s.log.Warn("profile blob is corrupt, treating as empty", "error", err)
		return types.Profile{}, nil
	}
	return p, nil
}

// UpdateProfile merges patch into the stored profile and writes the
// full result back.
//
// Description:
//
//	Only fields present in the patch change; everything else is kept.
//	Each onboarding step calls this once, so a partially finished wizard
//	leaves a partial profile behind rather than losing earlier answers.
//
// Inputs:
//
//	ctx   - cancellation
//	patch - the fields to change
//
// Outputs:
//
//	types.Profile - the merged result as persisted
//	error         - non-nil on storage failure
func (s *ProfileStore) UpdateProfile(ctx context.Context, patch types.ProfilePatch) (types.Profile, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return types.Profile{}, err
	}

	merged := patch.Apply(current)
	raw, err := json.Marshal(merged)
	if err != nil {
		return types.Profile{}, fmt.Errorf("storage: could not encode profile: %w", err)
	}
	if err := s.db.SetValue(ctx, []byte(profileKey), raw); err != nil {
		return types.Profile{}, fmt.Errorf("storage: could not write profile: %w", err)
	}
	return merged, nil
}

// IsCompleted reports whether onboarding has finished.
func (s *ProfileStore) IsCompleted(ctx context.Context) (bool, error) {
	raw, found, err := s.db.GetValue(ctx, []byte(completedKey))
	if err != nil {
		return false, fmt.Errorf("storage: could not read onboarding flag: %w", err)
	}
	return found && string(raw) == "true", nil
}

// FinishOnboarding marks onboarding complete. Calling it again is a
// no-op.
func (s *ProfileStore) FinishOnboarding(ctx context.Context) error {
	if err := s.db.SetValue(ctx, []byte(completedKey), []byte("true")); err != nil {
		return fmt.Errorf("storage: could not mark onboarding complete: %w", err)
	}
	s.log.Info("onboarding complete")
	return nil
}

// ResetOnboarding clears the completion flag so the wizard runs again.
//
// Description:
//
//	By default the stored profile is kept, so re-running the wizard
//	starts from the previous answers. Pass clearProfile to wipe the
//	profile as well.
//
// Inputs:
//
//	ctx          - cancellation
//	clearProfile - also delete the stored profile when true
//
// Outputs:
//
//	error - non-nil on storage failure
func (s *ProfileStore) ResetOnboarding(ctx context.Context, clearProfile bool) error {
	if err := s.db.DeleteValue(ctx, []byte(completedKey)); err != nil {
		return fmt.Errorf("storage: could not clear onboarding flag: %w", err)
	}
	if clearProfile {
		if err := s.db.DeleteValue(ctx, []byte(profileKey)); err != nil {
			return fmt.Errorf("storage: could not clear profile: %w", err)
		}
	}
	s.log.Info("onboarding reset", "profile_cleared", clearProfile)
	return nil
}
