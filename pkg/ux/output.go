// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides rich terminal output styling for the BoxerCoach CLI.
package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// BoxerCoach color palette - corner reds and canvas neutrals
var (
	// Primary palette (brightest to darkest)
	ColorRedBright  = lipgloss.Color("#FF6B6B") // Bright red - highlights
	ColorRedPrimary = lipgloss.Color("#FF3B30") // Primary red - main brand color
	ColorRedDeep    = lipgloss.Color("#C9281F") // Deep red - borders, accents
	ColorGoldGlove  = lipgloss.Color("#FFAA00") // Glove gold - secondary accents
	ColorCanvas     = lipgloss.Color("#E8E2D6") // Canvas - light neutral text

	// Dark palette (for backgrounds, muted elements)
	ColorCorner = lipgloss.Color("#2D2D2D") // Corner stool grey
	ColorRopes  = lipgloss.Color("#4A4A52") // Ring rope slate - muted text

	// Semantic colors
	ColorSuccess = lipgloss.Color("#34C759") // Green for success
	ColorWarning = lipgloss.Color("#F4D03F") // Gold/amber for warnings
	ColorError   = lipgloss.Color("#E74C3C") // Red for errors
	ColorMuted   = lipgloss.Color("#4A4A52") // Slate for muted text
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	// Text styles
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	// Box styles
	Box         lipgloss.Style
	FeedbackBox lipgloss.Style
	WarningBox  lipgloss.Style
	ErrorBox    lipgloss.Style
}{
	// Text styles
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorRedBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorRedPrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorRopes),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorGoldGlove).Bold(true),

	// Box styles
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorRedDeep).
		Padding(0, 1),
	FeedbackBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSuccess).
		Padding(0, 1),
	WarningBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorWarning).
		Padding(0, 1),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconPending Icon = "○"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
	IconGlove   Icon = "🥊"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	if !IsInteractive() {
		return string(i)
	}
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconPending:
		return Styles.Muted.Render(string(i))
	default:
		return string(i)
	}
}

// interactive caches the TTY check; styled output and spinners are disabled
// when stdout is redirected so piped output stays machine-readable.
var interactive = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

// IsInteractive reports whether stdout is attached to a terminal.
func IsInteractive() bool {
	return interactive
}

// SetInteractive overrides TTY detection. Intended for tests.
func SetInteractive(v bool) {
	interactive = v
}

// Title prints a styled section title.
func Title(text string) {
	if interactive {
		fmt.Println(Styles.Title.Render(text))
		return
	}
	fmt.Println(text)
}

// Success prints a success line with the checkmark icon.
func Success(format string, args ...any) {
	fmt.Printf("%s %s\n", IconSuccess.Render(), fmt.Sprintf(format, args...))
}

// Warn prints a warning line.
func Warn(format string, args ...any) {
	fmt.Printf("%s %s\n", IconWarning.Render(), fmt.Sprintf(format, args...))
}

// Error prints an error line to stderr.
func Error(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", IconError.Render(), fmt.Sprintf(format, args...))
}

// Info prints a plain informational line.
func Info(format string, args ...any) {
	fmt.Printf("%s %s\n", IconArrow.Render(), fmt.Sprintf(format, args...))
}

// Box prints text inside a bordered box (plain text when not a TTY).
func Box(text string) {
	if interactive {
		fmt.Println(Styles.Box.Render(text))
		return
	}
	fmt.Println(text)
}

// FeedbackCard prints the coach feedback inside a highlighted box together
// with the standing training disclaimer.
func FeedbackCard(feedback string) {
	body := Styles.Bold.Render("AI Analysis Complete") + "\n\n" + feedback
	if interactive {
		fmt.Println(Styles.FeedbackBox.Render(body))
	} else {
		fmt.Println(body)
	}
	fmt.Println(Styles.Muted.Render(
		"This analysis is based on visible movement and posture. " +
			"Use it as training guidance, not professional or medical advice."))
}
