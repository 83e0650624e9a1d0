// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/jinterlante1206/BoxerCoach/pkg/ux"
	"github.com/jinterlante1206/BoxerCoach/services/coach/types"
)

// runOnboard runs the wizard from the command line.
func runOnboard(cmd *cobra.Command, args []string) {
	a, err := buildApp()
	if err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}
	defer a.close()

	if !runOnboardingWizard(cmd.Context(), a) {
		os.Exit(1)
	}
}

// runOnboardingWizard walks the four onboarding steps. Each answer is
// persisted as soon as it is given, so quitting halfway keeps the
// earlier answers for the next run. Returns false on failure or abort.
func runOnboardingWizard(ctx context.Context, a *app) bool {
	existing, err := a.profile.Load(ctx)
	if err != nil {
		ux.Error("%v", err)
		return false
	}

	ux.Title("Boxer Profile Setup")

	// Step 1: name.
	name := existing.Name
	if err := huh.NewInput().
		Title("What should I call you?").
		Placeholder("Your name").
		Value(&name).
		Run(); err != nil {
		return abortWizard(err)
	}
	name = strings.TrimSpace(name)
	if _, err := a.profile.UpdateProfile(ctx, types.ProfilePatch{Name: &name}); err != nil {
		ux.Error("%v", err)
		return false
	}

	// Step 2: experience.
	experience := existing.Experience
	if err := huh.NewSelect[types.Experience]().
		Title("How long have you been boxing?").
		Options(
			huh.NewOption("Just starting out", types.ExperienceBeginner),
			huh.NewOption("A year or two in", types.ExperienceIntermediate),
			huh.NewOption("Experienced", types.ExperienceAdvanced),
		).
		Value(&experience).
		Run(); err != nil {
		return abortWizard(err)
	}
	if _, err := a.profile.UpdateProfile(ctx, types.ProfilePatch{Experience: &experience}); err != nil {
		ux.Error("%v", err)
		return false
	}

	// Step 3: goal.
	goal := existing.Goal
	if err := huh.NewSelect[types.Goal]().
		Title("What are you training for?").
		Options(
			huh.NewOption("Learn boxing basics", types.GoalLearnBasics),
			huh.NewOption("Improve technique", types.GoalImproveTechnique),
			huh.NewOption("Get fitter", types.GoalGetFitter),
		).
		Value(&goal).
		Run(); err != nil {
		return abortWizard(err)
	}
	if _, err := a.profile.UpdateProfile(ctx, types.ProfilePatch{Goal: &goal}); err != nil {
		ux.Error("%v", err)
		return false
	}

	// Step 4: stance.
	stance := existing.Stance
	if err := huh.NewSelect[types.Stance]().
		Title("What's your stance?").
		Options(
			huh.NewOption("Orthodox (left foot forward)", types.StanceOrthodox),
			huh.NewOption("Southpaw (right foot forward)", types.StanceSouthpaw),
			huh.NewOption("Not sure yet", types.StanceUnsure),
		).
		Value(&stance).
		Run(); err != nil {
		return abortWizard(err)
	}
	if _, err := a.profile.UpdateProfile(ctx, types.ProfilePatch{Stance: &stance}); err != nil {
		ux.Error("%v", err)
		return false
	}

	if err := a.profile.FinishOnboarding(ctx); err != nil {
		ux.Error("%v", err)
		return false
	}

	ux.Success("You're all set. Upload a clip with 'boxercoach check <video>'.")
	return true
}

func abortWizard(err error) bool {
	if err != nil {
		ux.Warn("Setup stopped. Your answers so far are saved; run 'boxercoach onboard' to continue.")
	}
	return false
}

// runOnboardReset clears the completion flag so the wizard runs again.
// Stored answers are kept unless --wipe-profile is given.
func runOnboardReset(cmd *cobra.Command, args []string) {
	a, err := buildApp()
	if err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}
	defer a.close()

	if err := a.profile.ResetOnboarding(cmd.Context(), resetWipeProfile); err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}
	if resetWipeProfile {
		ux.Success("Onboarding reset and profile wiped.")
	} else {
		ux.Success("Onboarding reset. Your previous answers are kept as defaults.")
	}
}
