// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinterlante1206/BoxerCoach/services/coach/types"
)

func strPtr(s string) *string                     { return &s }
func expPtr(e types.Experience) *types.Experience { return &e }
func goalPtr(g types.Goal) *types.Goal            { return &g }
func stancePtr(s types.Stance) *types.Stance      { return &s }

// TestLoadEmpty verifies a fresh store yields the zero profile.
func TestLoadEmpty(t *testing.T) {
	store := NewProfileStore(newTestDB(t), nil)

	p, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.Profile{}, p)
}

// TestUpdateProfileIncremental verifies each wizard step's partial write
// merges with earlier answers.
func TestUpdateProfileIncremental(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(newTestDB(t), nil)

	_, err := store.UpdateProfile(ctx, types.ProfilePatch{Name: strPtr("Sam")})
	require.NoError(t, err)

	_, err = store.UpdateProfile(ctx, types.ProfilePatch{Experience: expPtr(types.ExperienceBeginner)})
	require.NoError(t, err)

	_, err = store.UpdateProfile(ctx, types.ProfilePatch{Goal: goalPtr(types.GoalGetFitter)})
	require.NoError(t, err)

	merged, err := store.UpdateProfile(ctx, types.ProfilePatch{Stance: stancePtr(types.StanceSouthpaw)})
	require.NoError(t, err)

	want := types.Profile{
		Name:       "Sam",
		Experience: types.ExperienceBeginner,
		Goal:       types.GoalGetFitter,
		Stance:     types.StanceSouthpaw,
	}
	assert.Equal(t, want, merged)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, loaded)
}

// TestUpdateProfileOverwrite verifies a set field replaces the previous
// answer while others are untouched.
func TestUpdateProfileOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(newTestDB(t), nil)

	_, err := store.UpdateProfile(ctx, types.ProfilePatch{
		Name:       strPtr("Sam"),
		Experience: expPtr(types.ExperienceBeginner),
	})
	require.NoError(t, err)

	merged, err := store.UpdateProfile(ctx, types.ProfilePatch{Experience: expPtr(types.ExperienceAdvanced)})
	require.NoError(t, err)
	assert.Equal(t, "Sam", merged.Name)
	assert.Equal(t, types.ExperienceAdvanced, merged.Experience)
}

// TestCompletionFlag verifies the finish/reset lifecycle.
func TestCompletionFlag(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(newTestDB(t), nil)

	done, err := store.IsCompleted(ctx)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, store.FinishOnboarding(ctx))
	require.NoError(t, store.FinishOnboarding(ctx)) // idempotent

	done, err = store.IsCompleted(ctx)
	require.NoError(t, err)
	assert.True(t, done)

	require.NoError(t, store.ResetOnboarding(ctx, false))

	done, err = store.IsCompleted(ctx)
	require.NoError(t, err)
	assert.False(t, done)
}

// TestResetKeepsProfile verifies the default reset keeps stored answers.
func TestResetKeepsProfile(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(newTestDB(t), nil)

	_, err := store.UpdateProfile(ctx, types.ProfilePatch{Name: strPtr("Sam")})
	require.NoError(t, err)
	require.NoError(t, store.FinishOnboarding(ctx))

	require.NoError(t, store.ResetOnboarding(ctx, false))

	p, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sam", p.Name)
}

// TestResetWipesProfile verifies the explicit wipe clears answers too.
func TestResetWipesProfile(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(newTestDB(t), nil)

	_, err := store.UpdateProfile(ctx, types.ProfilePatch{Name: strPtr("Sam")})
	require.NoError(t, err)
	require.NoError(t, store.FinishOnboarding(ctx))

	require.NoError(t, store.ResetOnboarding(ctx, true))

	p, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Profile{}, p)
}

// TestCorruptProfileTreatedAsEmpty verifies a corrupt blob does not error.
func TestCorruptProfileTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, db.SetValue(ctx, []byte("onboardingProfile"), []byte("not json")))

	store := NewProfileStore(db, nil)
	p, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Profile{}, p)
}
