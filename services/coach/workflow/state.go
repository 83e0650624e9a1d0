// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package workflow

import (
	"github.com/jinterlante1206/BoxerCoach/services/coach/media"
	"github.com/jinterlante1206/BoxerCoach/services/coach/types"
)

// Phase is the position of the current check in the two-stage
// upload-then-analyze pipeline.
type Phase int

const (
	// PhaseIdle means no media has been selected for the current check.
	PhaseIdle Phase = iota

	// PhaseMediaSelected means a clip is staged but not yet uploaded.
	PhaseMediaSelected

	// PhaseUploading means the upload request is in flight.
	PhaseUploading

	// PhaseUploaded means the server holds the clip and returned its path.
	PhaseUploaded

	// PhaseAnalyzing means the analyze request is in flight.
	PhaseAnalyzing

	// PhaseComplete means feedback has been received and the session
	// recorded.
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMediaSelected:
		return "media-selected"
	case PhaseUploading:
		return "uploading"
	case PhaseUploaded:
		return "uploaded"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// BusyKind names which network operation is in flight, if any.
type BusyKind int

const (
	// BusyNone means no operation is in flight.
	BusyNone BusyKind = iota

	// BusyUpload means the upload call has not returned.
	BusyUpload

	// BusyAnalyze means the analyze call has not returned.
	BusyAnalyze
)

func (b BusyKind) String() string {
	switch b {
	case BusyNone:
		return "none"
	case BusyUpload:
		return "upload"
	case BusyAnalyze:
		return "analyze"
	default:
		return "unknown"
	}
}

// State is a snapshot of the controller. It is a value copy; mutating
// it does not affect the controller.
type State struct {
	// Phase is the pipeline position.
	Phase Phase

	// Busy names the in-flight operation, or BusyNone.
	Busy BusyKind

	// Generation counts media selections. A network response whose
	// recorded generation no longer matches is discarded.
	Generation uint64

	// Media is the staged clip, nil in PhaseIdle.
	Media *media.Handle

	// Perspective is the user's tag for the staged clip; empty until
	// chosen.
	Perspective types.Perspective

	// UploadedPath is the opaque server path, set once uploaded.
	UploadedPath string

	// Feedback is the coach text, set once analysis completes.
	Feedback string

	// LastSession is the most recently recorded session, if any
	// completed during this controller's lifetime.
	LastSession *types.Session
}
