// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package media selects video files from disk and copies them into the
// app's private library directory so a session's clip survives even if
// the user moves or deletes the original.
package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jinterlante1206/BoxerCoach/pkg/logging"
)

// videoExtensions is the allowlist of container formats the backend can
// ingest. Anything else is rejected before upload.
var videoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".m4v":  "video/x-m4v",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
}

// PickError reports why a file could not be taken into the library.
type PickError struct {
	// Code is a stable machine-readable reason.
	Code PickErrorCode

	// Message is the user-facing description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// PickErrorCode classifies pick failures.
type PickErrorCode int

const (
	// PickNotFound means the path does not exist.
	PickNotFound PickErrorCode = iota

	// PickPermissionDenied means the file exists but could not be read.
	PickPermissionDenied

	// PickNotVideo means the extension is not on the allowlist.
	PickNotVideo

	// PickEmpty means the file has zero bytes.
	PickEmpty

	// PickCopyFailed means the copy into the library directory failed.
	PickCopyFailed
)

func (e *PickError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("media: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("media: %s", e.Message)
}

func (e *PickError) Unwrap() error { return e.Err }

// Handle describes a clip that has been taken into the library.
type Handle struct {
	// URI is the original path the user selected.
	URI string

	// PersistedURI is the library copy. This is what sessions record,
	// since the original may vanish.
	PersistedURI string

	// Name is the original base filename.
	Name string

	// MIME is the content type inferred from the extension.
	MIME string

	// Size is the file size in bytes.
	Size int64
}

// Library copies selected clips into a private directory.
type Library struct {
	dir string
	log *slog.Logger
	now func() time.Time
}

// Option customizes a Library.
type Option func(*Library)

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(l *Library) { l.log = log.Slog() }
}

// WithClock overrides the clock used to name library copies. Tests use
// this to get deterministic filenames.
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// NewLibrary creates a Library rooted at dir, creating the directory if
// needed.
func NewLibrary(dir string, opts ...Option) (*Library, error) {
	if dir == "" {
		return nil, errors.New("media: library directory is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("media: could not create library directory: %w", err)
	}

	l := &Library{
		dir: dir,
		log: slog.Default(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Dir returns the library root.
func (l *Library) Dir() string { return l.dir }

// Pick validates the file at path and copies it into the library.
//
// Description:
//
//	The source must exist, be readable, be non-empty, and carry a video
//	extension from the allowlist. The copy is named boxing-<unix-ms>.mp4
//	so session records sort naturally by capture time.
//
// Inputs:
//
//	path - the file the user selected
//
// Outputs:
//
//	*Handle - the library entry on success
//	error   - *PickError on any failure
func (l *Library) Pick(path string) (*Handle, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PickError{Code: PickNotFound, Message: "the selected file does not exist", Err: err}
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, &PickError{Code: PickPermissionDenied, Message: "permission denied reading the selected file", Err: err}
		}
		return nil, &PickError{Code: PickNotFound, Message: "could not inspect the selected file", Err: err}
	}
	if info.IsDir() {
		return nil, &PickError{Code: PickNotVideo, Message: "the selected path is a directory"}
	}

	ext := strings.ToLower(filepath.Ext(path))
	mime, ok := videoExtensions[ext]
	if !ok {
		return nil, &PickError{
			Code:    PickNotVideo,
			Message: fmt.Sprintf("%q is not a supported video format", ext),
		}
	}
	if info.Size() == 0 {
		return nil, &PickError{Code: PickEmpty, Message: "the selected file is empty"}
	}

	src, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, &PickError{Code: PickPermissionDenied, Message: "permission denied reading the selected file", Err: err}
		}
		return nil, &PickError{Code: PickCopyFailed, Message: "could not open the selected file", Err: err}
	}
	defer src.Close()

	// Two picks in the same millisecond would collide on the timestamped
	// name, so bump until the create succeeds.
	ms := l.now().UnixMilli()
	var dstPath string
	var dst *os.File
	for {
		dstPath = filepath.Join(l.dir, fmt.Sprintf("boxing-%d.mp4", ms))
		dst, err = os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, &PickError{Code: PickCopyFailed, Message: "could not create library copy", Err: err}
		}
		ms++
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dstPath)
		return nil, &PickError{Code: PickCopyFailed, Message: "could not copy the selected file", Err: err}
	}
	if err := dst.Close(); err != nil {
		os.Remove(dstPath)
		return nil, &PickError{Code: PickCopyFailed, Message: "could not finish library copy", Err: err}
	}

	l.log.Debug("clip copied into library",
		"source", path,
		"copy", dstPath,
		"size", info.Size())

	return &Handle{
		URI:          path,
		PersistedURI: dstPath,
		Name:         filepath.Base(path),
		MIME:         mime,
		Size:         info.Size(),
	}, nil
}
