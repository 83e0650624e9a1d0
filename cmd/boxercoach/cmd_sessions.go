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
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jinterlante1206/BoxerCoach/pkg/ux"
)

// runListSessions prints the recorded sessions, newest first.
func runListSessions(cmd *cobra.Command, args []string) {
	a, err := buildApp()
	if err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}
	defer a.close()

	sessions, err := a.sessions.GetAll(cmd.Context())
	if err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}
	if len(sessions) == 0 {
		ux.Info("No sessions yet. Run 'boxercoach check <video>' to get your first feedback.")
		return
	}

	ux.Title(fmt.Sprintf("Training Sessions (%d)", len(sessions)))
	for _, s := range sessions {
		when := s.CreatedAt
		if t, err := time.Parse(time.RFC3339, s.CreatedAt); err == nil {
			when = t.Local().Format("Jan 2 2006, 3:04 PM")
		}
		fmt.Printf("  %s  [%s]\n", when, s.Perspective)
		fmt.Printf("    %s\n", summarize(s.Feedback, 100))
		fmt.Printf("    video: %s\n\n", s.VideoURI)
	}
}

// runClearSessions deletes the full history. Requires --force.
func runClearSessions(cmd *cobra.Command, args []string) {
	if !clearForce {
		ux.Warn("This deletes every recorded session. Re-run with --force to confirm.")
		os.Exit(1)
	}

	a, err := buildApp()
	if err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}
	defer a.close()

	if err := a.sessions.ClearAll(cmd.Context()); err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}
	ux.Success("All sessions deleted.")
}

// runDashboard shows the training summary: greeting, session count, and
// the latest feedback.
func runDashboard(cmd *cobra.Command, args []string) {
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
	sessions, err := a.sessions.GetAll(ctx)
	if err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}

	name := profile.Name
	if name == "" {
		name = "boxer"
	}
	ux.Title(fmt.Sprintf("Welcome back, %s", name))

	switch n := len(sessions); n {
	case 0:
		ux.Info("No checks yet. Upload your first clip with 'boxercoach check <video>'.")
	case 1:
		ux.Info("1 session recorded. Good start, keep the reps coming.")
	default:
		ux.Info("%d sessions recorded. Consistency wins fights.", n)
	}

	if len(sessions) > 0 {
		fmt.Println()
		fmt.Println("  Latest feedback:")
		fmt.Printf("    %s\n", summarize(sessions[0].Feedback, 200))
	}
}

// summarize trims feedback to a single display line. Truncation counts
// runes, not bytes, so multi-byte text is never cut mid-character.
func summarize(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
