// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	checkPerspective string // CLI override for the analyze perspective (left/right/alone)
	clearForce       bool   // required confirmation for destructive clears
	resetWipeProfile bool   // also wipe the stored profile on onboarding reset

	rootCmd = &cobra.Command{
		Use:   "boxercoach",
		Short: "A cli for AI-powered boxing technique feedback",
		Long: `BoxerCoach uploads a short training clip to your analysis server
and returns coaching feedback on your technique.

Feedback is AI-generated and informational only. Train safely.`,
	}

	// --- Check (upload + analyze) ---
	checkCmd = &cobra.Command{
		Use:   "check [video file]",
		Short: "Upload a training clip and get coaching feedback",
		Args:  cobra.MaximumNArgs(1),
		Run:   runCheckCommand, // Defined in cmd_check.go
	}

	// --- Sessions ---
	sessionsCmd = &cobra.Command{
		Use:   "sessions",
		Short: "Manage your recorded training sessions",
	}
	listSessionsCmd = &cobra.Command{
		Use:   "list",
		Short: "List all recorded sessions, newest first",
		Run:   runListSessions, // Defined in cmd_sessions.go
	}
	clearSessionsCmd = &cobra.Command{
		Use:   "clear",
		Short: "DANGER: Delete all recorded sessions",
		Run:   runClearSessions, // Defined in cmd_sessions.go
	}
	dashboardCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Show your training summary",
		Run:   runDashboard, // Defined in cmd_sessions.go
	}

	// --- Onboarding / Profile ---
	onboardCmd = &cobra.Command{
		Use:   "onboard",
		Short: "Run the onboarding wizard",
		Run:   runOnboard, // Defined in cmd_onboard.go
	}
	onboardResetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Re-run onboarding on the next start",
		Run:   runOnboardReset, // Defined in cmd_onboard.go
	}
	profileCmd = &cobra.Command{
		Use:   "profile",
		Short: "Show your boxer profile",
		Run:   runProfile, // Defined in cmd_profile.go
	}
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkPerspective, "perspective", "p", "",
		"Which boxer to analyze: 'left', 'right', or 'alone'. Prompted when omitted.")

	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(listSessionsCmd)
	sessionsCmd.AddCommand(clearSessionsCmd)
	clearSessionsCmd.Flags().BoolVar(&clearForce, "force", false,
		"Required to confirm the deletion of all sessions.")

	rootCmd.AddCommand(dashboardCmd)

	rootCmd.AddCommand(onboardCmd)
	onboardCmd.AddCommand(onboardResetCmd)
	onboardResetCmd.Flags().BoolVar(&resetWipeProfile, "wipe-profile", false,
		"Also delete the stored profile answers.")

	rootCmd.AddCommand(profileCmd)
}
