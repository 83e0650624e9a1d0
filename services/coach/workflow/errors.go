// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package workflow

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned by an in-flight operation whose check was
// replaced by a newer media selection. The result was discarded and no
// state changed; it is informational, not a failure to show the user.
var ErrSuperseded = errors.New("workflow: check superseded by a newer selection")

// ErrorCode classifies check failures for the presentation layer.
type ErrorCode int

const (
	// CodeNoMedia means an upload was requested with nothing staged.
	CodeNoMedia ErrorCode = iota

	// CodeFileTooLarge means the staged clip exceeds the upload ceiling.
	CodeFileTooLarge

	// CodeNoUploadedPath means analyze was requested before a
	// successful upload.
	CodeNoUploadedPath

	// CodeNoPerspective means analyze was requested before a
	// perspective was chosen.
	CodeNoPerspective

	// CodeBusy means another operation is already in flight.
	CodeBusy

	// CodeMedia means the selected file could not be staged.
	CodeMedia

	// CodePermissionDenied means the selected file could not be read.
	CodePermissionDenied

	// CodeNetwork means the request never completed.
	CodeNetwork

	// CodeServer means the backend rejected or failed the request.
	CodeServer

	// CodeStorage means the analysis succeeded but the session could
	// not be recorded.
	CodeStorage
)

func (c ErrorCode) String() string {
	switch c {
	case CodeNoMedia:
		return "no-media"
	case CodeFileTooLarge:
		return "file-too-large"
	case CodeNoUploadedPath:
		return "no-uploaded-path"
	case CodeNoPerspective:
		return "no-perspective"
	case CodeBusy:
		return "busy"
	case CodeMedia:
		return "media"
	case CodePermissionDenied:
		return "permission-denied"
	case CodeNetwork:
		return "network"
	case CodeServer:
		return "server"
	case CodeStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// CheckError is the single error type the workflow surfaces. Message is
// safe to show the user; Remediation, when set, tells them what to do
// next.
type CheckError struct {
	Code        ErrorCode
	Message     string
	Remediation string
	Err         error
}

func (e *CheckError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("workflow: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("workflow: %s", e.Message)
}

func (e *CheckError) Unwrap() error { return e.Err }
