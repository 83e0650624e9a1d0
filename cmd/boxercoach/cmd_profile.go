// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jinterlante1206/BoxerCoach/pkg/ux"
	"github.com/jinterlante1206/BoxerCoach/services/coach/types"
)

// runProfile prints the stored boxer profile.
func runProfile(cmd *cobra.Command, args []string) {
	a, err := buildApp()
	if err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}
	defer a.close()

	ctx := cmd.Context()

	profile, err := a.profile.Load(ctx)
	if err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}
	done, err := a.profile.IsCompleted(ctx)
	if err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}

	if !done && profile == (types.Profile{}) {
		ux.Info("No profile yet. Run 'boxercoach onboard' to set one up.")
		return
	}

	ux.Title("Boxer Profile")
	printField("Name", profile.Name)
	printField("Experience", string(profile.Experience))
	printField("Goal", string(profile.Goal))
	printField("Stance", string(profile.Stance))
	if !done {
		fmt.Println()
		ux.Warn("Onboarding is unfinished. Run 'boxercoach onboard' to complete it.")
	}
}

func printField(label, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Printf("  %-12s %s\n", label, value)
}
