// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package types holds the shared domain types for the BoxerCoach client:
// the persisted Session record, the Perspective tag sent to the analysis
// backend, and the onboarding profile with its closed enumerations.
//
// The legacy client modeled all of these as free-form strings. They are
// closed value sets in practice, so they are proper types here and every
// boundary (storage, backend, CLI) parses into them.
package types

import (
	"fmt"
)

// -----------------------------------------------------------------------------
// Perspective
// -----------------------------------------------------------------------------

// Perspective identifies which subject in a multi-boxer video the backend
// should analyze. The wire format is the lowercase string.
type Perspective string

const (
	// PerspectiveLeft analyzes the boxer on the left of the frame.
	PerspectiveLeft Perspective = "left"

	// PerspectiveRight analyzes the boxer on the right of the frame.
	PerspectiveRight Perspective = "right"

	// PerspectiveAlone analyzes a single boxer training solo.
	PerspectiveAlone Perspective = "alone"
)

// Valid reports whether p is one of the three accepted perspectives.
func (p Perspective) Valid() bool {
	switch p {
	case PerspectiveLeft, PerspectiveRight, PerspectiveAlone:
		return true
	}
	return false
}

// ParsePerspective converts user input to a Perspective.
//
// Outputs:
//
//	Perspective - The parsed value when the input is one of left/right/alone.
//	error - Non-nil for anything outside the closed set.
func ParsePerspective(s string) (Perspective, error) {
	p := Perspective(s)
	if !p.Valid() {
		return "", fmt.Errorf("invalid perspective %q: must be left, right, or alone", s)
	}
	return p, nil
}

// -----------------------------------------------------------------------------
// Session
// -----------------------------------------------------------------------------

// Session is the durable record of one completed video analysis.
//
// A Session exists only after the backend returned a successful analysis;
// partial workflows are never persisted. Records are immutable once written.
// JSON field names match the blob layout the mobile client wrote, so a
// history produced by either client reads back identically.
type Session struct {
	// ID is a millisecond-resolution, monotonically increasing identifier.
	// It doubles as the creation-order sort key.
	ID int64 `json:"id"`

	// VideoURI points at the locally persisted copy of the analyzed video.
	// It never leaves the device after the upload step; it exists for
	// local playback only.
	VideoURI string `json:"videoUri"`

	// Perspective is the tag the user selected for this check.
	Perspective Perspective `json:"perspective"`

	// Feedback is the coach text returned by the backend, stored verbatim.
	Feedback string `json:"feedback"`

	// CreatedAt is the completion time in RFC 3339 / ISO-8601 form.
	CreatedAt string `json:"createdAt"`
}

// -----------------------------------------------------------------------------
// Onboarding profile
// -----------------------------------------------------------------------------

// Experience is the self-reported skill level collected during onboarding.
type Experience string

const (
	ExperienceBeginner     Experience = "Beginner"
	ExperienceIntermediate Experience = "Intermediate"
	ExperienceAdvanced     Experience = "Advanced"
)

// Valid reports whether e is a known experience level. The empty string is
// not valid; callers treat it as "not answered yet".
func (e Experience) Valid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	}
	return false
}

// Goal is the training goal collected during onboarding. The values are the
// literal option strings the wizard offers.
type Goal string

const (
	GoalLearnBasics      Goal = "Learn boxing basics"
	GoalImproveTechnique Goal = "Improve technique"
	GoalGetFitter        Goal = "Get fitter"
)

// Valid reports whether g is one of the fixed goal options.
func (g Goal) Valid() bool {
	switch g {
	case GoalLearnBasics, GoalImproveTechnique, GoalGetFitter:
		return true
	}
	return false
}

// Stance is the boxing stance collected during onboarding.
type Stance string

const (
	StanceOrthodox Stance = "Orthodox"
	StanceSouthpaw Stance = "Southpaw"
	StanceUnsure   Stance = "Not sure"
)

// Valid reports whether s is one of the fixed stance options.
func (s Stance) Valid() bool {
	switch s {
	case StanceOrthodox, StanceSouthpaw, StanceUnsure:
		return true
	}
	return false
}

// Profile is the onboarding profile built incrementally across the wizard
// steps. Missing answers are zero values; consumers treat them as empty.
type Profile struct {
	Name       string     `json:"name"`
	Experience Experience `json:"experience"`
	Goal       Goal       `json:"goal"`
	Stance     Stance     `json:"stance"`
}

// ProfilePatch is a partial profile update. Nil fields are left untouched
// by the merge; set fields overwrite, including to an empty value.
type ProfilePatch struct {
	Name       *string
	Experience *Experience
	Goal       *Goal
	Stance     *Stance
}

// Apply merges the patch into p and returns the result.
func (patch ProfilePatch) Apply(p Profile) Profile {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Experience != nil {
		p.Experience = *patch.Experience
	}
	if patch.Goal != nil {
		p.Goal = *patch.Goal
	}
	if patch.Stance != nil {
		p.Stance = *patch.Stance
	}
	return p
}
