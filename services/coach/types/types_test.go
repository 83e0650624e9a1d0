// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParsePerspective verifies the closed set.
func TestParsePerspective(t *testing.T) {
	for _, valid := range []string{"left", "right", "alone"} {
		p, err := ParsePerspective(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, string(p))
	}

	for _, invalid := range []string{"", "Left", "behind", "both"} {
		_, err := ParsePerspective(invalid)
		assert.Error(t, err, "%q must be rejected", invalid)
	}
}

// TestSessionJSONFieldNames verifies the blob layout stays compatible
// with histories written by earlier releases.
func TestSessionJSONFieldNames(t *testing.T) {
	raw, err := json.Marshal(Session{
		ID:          1700000000000,
		VideoURI:    "/data/boxing-1700000000000.mp4",
		Perspective: PerspectiveAlone,
		Feedback:    "good footwork",
		CreatedAt:   "2026-08-31T10:00:00Z",
	})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"id", "videoUri", "perspective", "feedback", "createdAt"} {
		assert.Contains(t, fields, key)
	}
}

// TestProfilePatchApply verifies nil fields are untouched and set fields
// overwrite, including to empty.
func TestProfilePatchApply(t *testing.T) {
	base := Profile{
		Name:       "Sam",
		Experience: ExperienceBeginner,
		Goal:       GoalGetFitter,
		Stance:     StanceOrthodox,
	}

	got := ProfilePatch{}.Apply(base)
	assert.Equal(t, base, got, "empty patch changes nothing")

	exp := ExperienceAdvanced
	got = ProfilePatch{Experience: &exp}.Apply(base)
	assert.Equal(t, ExperienceAdvanced, got.Experience)
	assert.Equal(t, "Sam", got.Name)

	empty := ""
	got = ProfilePatch{Name: &empty}.Apply(base)
	assert.Empty(t, got.Name, "a set field overwrites even to empty")
}

// TestEnumValidity verifies each enum accepts only its literal values.
func TestEnumValidity(t *testing.T) {
	assert.True(t, ExperienceIntermediate.Valid())
	assert.False(t, Experience("expert").Valid())
	assert.False(t, Experience("").Valid())

	assert.True(t, GoalLearnBasics.Valid())
	assert.False(t, Goal("Win a title").Valid())

	assert.True(t, StanceUnsure.Valid())
	assert.False(t, Stance("switch").Valid())
}
