// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/jinterlante1206/BoxerCoach/pkg/ux"
	"github.com/jinterlante1206/BoxerCoach/services/coach/types"
	"github.com/jinterlante1206/BoxerCoach/services/coach/workflow"
)

// runCheckCommand drives a full check: stage the clip, upload it,
// analyze it, and show the feedback.
func runCheckCommand(cmd *cobra.Command, args []string) {
	a, err := buildApp()
	if err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}
	defer a.close()

	ctx := cmd.Context()

	if !a.gate.IsSessionLoaded() || !a.gate.IsSignedIn() {
		ux.Error("You are signed out. Sign in before running a check.")
		os.Exit(1)
	}

	done, err := a.profile.IsCompleted(ctx)
	if err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}
	if !done {
		ux.Info("Let's set up your profile first.")
		if !runOnboardingWizard(ctx, a) {
			os.Exit(1)
		}
	}

	videoPath, err := resolveVideoPath(args)
	if err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}

	handle, err := a.ctrl.SelectMedia(videoPath)
	if err != nil {
		exitCheckError(err)
	}
	ux.Info("Selected %s (%s)", handle.Name, formatSize(handle.Size))

	perspective, err := resolvePerspective()
	if err != nil {
		ux.Error("%v", err)
		os.Exit(1)
	}
	if err := a.ctrl.SetPerspective(perspective); err != nil {
		exitCheckError(err)
	}

	spin := ux.NewSpinner("Uploading your clip...")
	spin.Start()
	if _, err := a.ctrl.Upload(ctx); err != nil {
		spin.Fail("Upload failed")
		exitCheckError(err)
	}
	spin.Succeed("Clip uploaded")

	spin = ux.NewSpinner("Analyzing your technique...")
	spin.Start()
	sess, err := a.ctrl.Analyze(ctx)
	if err != nil {
		spin.Fail("Analysis failed")
		// The one partial success: the feedback arrived but could not
		// be saved. Show it before reporting the failure.
		var checkErr *workflow.CheckError
		if errors.As(err, &checkErr) && checkErr.Code == workflow.CodeStorage {
			ux.FeedbackCard(a.ctrl.State().Feedback)
		}
		exitCheckError(err)
	}
	spin.Succeed("Analysis complete")

	ux.FeedbackCard(sess.Feedback)
	ux.Success("Session saved. See it anytime with 'boxercoach sessions list'.")
}

// resolveVideoPath takes the clip path from the argument when given,
// otherwise prompts for one.
func resolveVideoPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	var path string
	if err := huh.NewInput().
		Title("Which clip should I check?").
		Placeholder("path/to/video.mp4").
		Value(&path).
		Run(); err != nil {
		return "", err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("no video file given")
	}
	return path, nil
}

// resolvePerspective uses the --perspective flag when given, otherwise
// prompts.
func resolvePerspective() (types.Perspective, error) {
	if checkPerspective != "" {
		return types.ParsePerspective(checkPerspective)
	}

	var choice string
	sel := huh.NewSelect[string]().
		Title("Which boxer should I watch?").
		Options(
			huh.NewOption("The boxer on the left", "left"),
			huh.NewOption("The boxer on the right", "right"),
			huh.NewOption("Training alone", "alone"),
		).
		Value(&choice)
	if err := sel.Run(); err != nil {
		return "", err
	}
	return types.ParsePerspective(choice)
}

// exitCheckError prints a workflow failure and exits.
func exitCheckError(err error) {
	var checkErr *workflow.CheckError
	if errors.As(err, &checkErr) {
		ux.Error("%s", checkErr.Message)
		if checkErr.Remediation != "" {
			ux.Info("%s", checkErr.Remediation)
		}
	} else {
		ux.Error("%v", err)
	}
	os.Exit(1)
}
