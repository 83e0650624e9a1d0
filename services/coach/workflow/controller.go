// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package workflow drives a video check through its two-stage pipeline:
// stage a clip, upload it, analyze it, record the session.
//
// # Problem Statement
//
// The legacy client kept this state machine as a tangle of component
// flags, and a response from an abandoned upload could overwrite the
// state of a newer one. The Controller here owns all check state behind
// a mutex, admits one network operation at a time, and tags every
// network call with the generation of the selection that started it.
// A response whose generation is stale is discarded without touching
// state.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jinterlante1206/BoxerCoach/services/coach/backend"
	"github.com/jinterlante1206/BoxerCoach/services/coach/media"
	"github.com/jinterlante1206/BoxerCoach/services/coach/types"
)

// Picker stages a clip from disk. *media.Library satisfies it.
type Picker interface {
	Pick(path string) (*media.Handle, error)
}

// SessionAppender records a completed session. *storage.SessionStore
// satisfies it.
type SessionAppender interface {
	Append(ctx context.Context, sess types.Session) error
}

// Config wires a Controller's dependencies.
type Config struct {
	// Backend performs the upload and analyze calls. Required.
	Backend backend.Service

	// Picker stages selected clips. Required.
	Picker Picker

	// Sessions records completed checks. Required.
	Sessions SessionAppender

	// MaxUploadBytes is the upload ceiling, enforced before any network
	// activity. Required, must be positive.
	MaxUploadBytes int64

	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// Now overrides the clock; tests use it. Defaults to time.Now.
	Now func() time.Time
}

// Controller owns the state of the current check.
//
// Thread Safety: all methods are safe for concurrent use. At most one
// network operation is in flight at a time; a second Upload or Analyze
// while one is pending fails fast with CodeBusy. SelectMedia is the one
// exception: it is always admitted, starts a new check, and causes any
// in-flight operation to discard its result.
type Controller struct {
	mu sync.Mutex

	backend  backend.Service
	picker   Picker
	sessions SessionAppender
	maxBytes int64
	log      *slog.Logger
	now      func() time.Time

	state  State
	lastID int64
}

// NewController validates cfg and returns a Controller in PhaseIdle.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Backend == nil {
		return nil, errors.New("workflow: backend is required")
	}
	if cfg.Picker == nil {
		return nil, errors.New("workflow: picker is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("workflow: session appender is required")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, errors.New("workflow: max upload size must be positive")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Controller{
		backend:  cfg.Backend,
		picker:   cfg.Picker,
		sessions: cfg.Sessions,
		maxBytes: cfg.MaxUploadBytes,
		log:      log,
		now:      now,
	}, nil
}

// State returns a snapshot of the current check.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectMedia stages the clip at path and starts a new check.
//
// Description:
//
//	Always admitted, even while an upload or analyze is in flight: the
//	new selection supersedes the old check, the generation is bumped,
//	and the in-flight operation discards its result when it returns.
//	Staging failures leave the previous check's state untouched.
//
// Inputs:
//
//	path - the video file the user selected
//
// Outputs:
//
//	*media.Handle - the staged clip
//	error         - *CheckError when staging fails
func (c *Controller) SelectMedia(path string) (*media.Handle, error) {
	handle, err := c.picker.Pick(path)
	if err != nil {
		return nil, pickToCheckError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// A new pick invalidates all downstream progress, perspective
	// included. The stale uploaded path or tag must never be paired
	// with the new clip.
	c.state = State{
		Phase:       PhaseMediaSelected,
		Generation:  c.state.Generation + 1,
		Media:       handle,
		LastSession: c.state.LastSession,
	}

	c.log.Debug("media selected",
		"path", path,
		"size", handle.Size,
		"generation", c.state.Generation)
	return handle, nil
}

// SetPerspective records which subject the backend should analyze.
// Rejected while a network operation is in flight.
func (c *Controller) SetPerspective(p types.Perspective) error {
	if !p.Valid() {
		return &CheckError{
			Code:    CodeNoPerspective,
			Message: fmt.Sprintf("%q is not a valid perspective", string(p)),
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Busy != BusyNone {
		return c.busyError()
	}
	c.state.Perspective = p
	return nil
}

// Reset abandons the current check and returns to PhaseIdle. Only the
// last recorded session survives; an in-flight operation discards its
// result.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = State{
		Phase:       PhaseIdle,
		Generation:  c.state.Generation + 1,
		LastSession: c.state.LastSession,
	}
}

// Upload sends the staged clip to the backend.
//
// Description:
//
//	Preconditions checked in order: no operation in flight, a clip is
//	staged, the clip is under the upload ceiling. The ceiling check
//	happens before any network activity. On success the check moves to
//	PhaseUploaded; on failure it reverts to PhaseMediaSelected so the
//	user can retry. If the check was superseded while the request was
//	in flight, the response is discarded and ErrSuperseded returned.
//
// Inputs:
//
//	ctx - cancellation; the backend applies its own default deadline
//
// Outputs:
//
//	string - the opaque server path
//	error  - ErrSuperseded or *CheckError
func (c *Controller) Upload(ctx context.Context) (string, error) {
	c.mu.Lock()

	if c.state.Busy != BusyNone {
		defer c.mu.Unlock()
		return "", c.busyError()
	}
	if c.state.Media == nil {
		c.mu.Unlock()
		return "", &CheckError{
			Code:        CodeNoMedia,
			Message:     "no video selected",
			Remediation: "Select a video before uploading.",
		}
	}
	if c.state.Media.Size > c.maxBytes {
		c.mu.Unlock()
		return "", &CheckError{
			Code: CodeFileTooLarge,
			Message: fmt.Sprintf("video is %s, which exceeds the %s limit",
				formatBytes(c.state.Media.Size), formatBytes(c.maxBytes)),
			Remediation: "Trim the clip or record a shorter one.",
		}
	}

	gen := c.state.Generation
	handle := c.state.Media
	c.state.Phase = PhaseUploading
	c.state.Busy = BusyUpload
	c.mu.Unlock()

	serverPath, err := c.backend.UploadVideo(ctx, backend.UploadRequest{
		FilePath: handle.PersistedURI,
		FileName: handle.Name,
		MIMEType: handle.MIME,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Generation != gen {
		c.log.Debug("discarding stale upload result", "generation", gen)
		return "", ErrSuperseded
	}

	c.state.Busy = BusyNone
	if err != nil {
		c.state.Phase = PhaseMediaSelected
		return "", apiToCheckError(err)
	}

	c.state.Phase = PhaseUploaded
	c.state.UploadedPath = serverPath
	c.log.Info("upload complete", "server_path", serverPath)
	return serverPath, nil
}

// Analyze asks the backend for feedback on the uploaded clip and
// records the session.
//
// Description:
//
//	Preconditions checked in order: no operation in flight, a
//	successful upload has produced a server path, a perspective is
//	chosen. On success the session is recorded newest-first and the
//	check moves to PhaseComplete. If the backend succeeds but the
//	session cannot be recorded, the feedback is still returned together
//	with a CodeStorage error and the check stays in PhaseUploaded. A
//	superseded response is discarded with ErrSuperseded.
//
// Inputs:
//
//	ctx - cancellation; the backend applies its own default deadline
//
// Outputs:
//
//	*types.Session - the recorded session on full success
//	error          - ErrSuperseded or *CheckError
func (c *Controller) Analyze(ctx context.Context) (*types.Session, error) {
	c.mu.Lock()

	if c.state.Busy != BusyNone {
		defer c.mu.Unlock()
		return nil, c.busyError()
	}
	if c.state.UploadedPath == "" {
		c.mu.Unlock()
		return nil, &CheckError{
			Code:        CodeNoUploadedPath,
			Message:     "the video has not been uploaded yet",
			Remediation: "Upload the video before requesting analysis.",
		}
	}
	if !c.state.Perspective.Valid() {
		c.mu.Unlock()
		return nil, &CheckError{
			Code:        CodeNoPerspective,
			Message:     "no perspective chosen",
			Remediation: "Choose left, right, or alone before requesting analysis.",
		}
	}

	gen := c.state.Generation
	serverPath := c.state.UploadedPath
	perspective := c.state.Perspective
	videoURI := c.state.Media.PersistedURI
	c.state.Phase = PhaseAnalyzing
	c.state.Busy = BusyAnalyze
	c.mu.Unlock()

	feedback, err := c.backend.AnalyzeVideo(ctx, serverPath, perspective)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Generation != gen {
		c.log.Debug("discarding stale analyze result", "generation", gen)
		return nil, ErrSuperseded
	}

	c.state.Busy = BusyNone
	if err != nil {
		c.state.Phase = PhaseUploaded
		return nil, apiToCheckError(err)
	}

	sess := types.Session{
		ID:          c.nextID(),
		VideoURI:    videoURI,
		Perspective: perspective,
		Feedback:    feedback,
		CreatedAt:   c.now().UTC().Format(time.RFC3339),
	}

	if err := c.sessions.Append(ctx, sess); err != nil {
		// Feedback reached us; only the record is lost. Stay in
		// PhaseUploaded so the user can retry the analysis.
		c.state.Phase = PhaseUploaded
		c.state.Feedback = feedback
		return nil, &CheckError{
			Code:        CodeStorage,
			Message:     "feedback received but the session could not be saved",
			Remediation: "Check the data directory and try again.",
			Err:         err,
		}
	}

	c.state.Phase = PhaseComplete
	c.state.Feedback = feedback
	c.state.LastSession = &sess
	c.log.Info("analysis complete", "session_id", sess.ID)
	return &sess, nil
}

// nextID returns a millisecond timestamp that never repeats or goes
// backwards, even when two checks complete inside one millisecond.
// Caller holds mu.
func (c *Controller) nextID() int64 {
	id := c.now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}

// busyError describes the in-flight operation. Caller holds mu.
func (c *Controller) busyError() *CheckError {
	return &CheckError{
		Code:        CodeBusy,
		Message:     fmt.Sprintf("an %s is already in progress", c.state.Busy),
		Remediation: "Wait for the current operation to finish.",
	}
}

func pickToCheckError(err error) *CheckError {
	var pickErr *media.PickError
	if errors.As(err, &pickErr) {
		code := CodeMedia
		if pickErr.Code == media.PickPermissionDenied {
			code = CodePermissionDenied
		}
		return &CheckError{Code: code, Message: pickErr.Message, Err: err}
	}
	return &CheckError{Code: CodeMedia, Message: "could not stage the selected video", Err: err}
}

func apiToCheckError(err error) *CheckError {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		code := CodeNetwork
		if apiErr.Kind == backend.KindServer {
			code = CodeServer
		}
		return &CheckError{
			Code:        code,
			Message:     apiErr.Message,
			Remediation: apiErr.Remediation,
			Err:         err,
		}
	}
	return &CheckError{Code: CodeNetwork, Message: "request failed", Err: err}
}

func formatBytes(n int64) string {
	const mb = 1024 * 1024
	if n >= mb {
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
