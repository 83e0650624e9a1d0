// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
Package backend provides the HTTP client for the remote coaching service.

# Problem Statement

The analysis engine (pose tracking, technique scoring, feedback generation)
runs on a remote server and is opaque to this client. The CLI needs exactly
two operations against it:

 1. Upload a video as a multipart form and receive an opaque server path
 2. Request analysis for (server path, perspective) and receive feedback text

Both calls are one-shot: there are no retries, no polling, and no streaming.
Everything else — what the server does with the video, how long it keeps
it, how the feedback is produced — is deliberately outside this package.

# Wire Contract

Upload:

	POST {baseURL}/upload
	multipart/form-data, one field "video" (binary, filename, video/mp4)

	200 OK
	{ "videoPath": "/files/a.mp4" }

The server path may arrive in one of three fields depending on the backend
build: "videoPath", "videoUrl", or "congempath". They are accepted in that
fixed preference order; a 2xx body carrying none of them is a server error.

Analyze:

	POST {baseURL}/analyze
	{ "path": "/files/a.mp4", "perspective": "left" }

	200 OK
	{ "success": true, "feedback": "Keep your guard up" }

A response is a failure when the HTTP status is non-2xx OR the body's
"success" field is not true. Error text prefers the body's "message" field.

# Error Handling

All failures surface as *APIError with a Kind that separates transport
failures (request never completed) from server failures (the server
answered and said no). Callers revert their workflow state on either kind;
only the surfaced message differs.
*/
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jinterlante1206/BoxerCoach/pkg/logging"
	"github.com/jinterlante1206/BoxerCoach/services/coach/types"
)

// -----------------------------------------------------------------------------
// Error Types
// -----------------------------------------------------------------------------

// ErrorKind categorizes backend failures for programmatic handling.
type ErrorKind int

const (
	// KindTransport indicates the request never completed (connection
	// refused, timeout, DNS failure, malformed response body).
	KindTransport ErrorKind = iota

	// KindServer indicates the server answered with a non-2xx status or
	// a body that reports failure.
	KindServer
)

// String returns the kind as a string for logging.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "TRANSPORT"
	case KindServer:
		return "SERVER"
	default:
		return "UNKNOWN"
	}
}

// APIError provides structured error information for backend operations.
type APIError struct {
	// Op is the failed operation ("upload" or "analyze").
	Op string

	// Kind categorizes the failure.
	Kind ErrorKind

	// StatusCode is the HTTP status, 0 when the request never completed.
	StatusCode int

	// Message is a human-readable description. For server failures this
	// prefers the server-supplied message text.
	Message string

	// Remediation suggests how to fix the issue.
	Remediation string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed (HTTP %d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// -----------------------------------------------------------------------------
// Interface Definition
// -----------------------------------------------------------------------------

// Service defines the contract for the remote coaching backend. The
// workflow controller depends on this interface, which keeps it testable
// with fakes.
//
// Implementations must be safe for concurrent use.
type Service interface {
	// UploadVideo posts the media file as a multipart form and returns
	// the opaque server path for use in a subsequent AnalyzeVideo call.
	UploadVideo(ctx context.Context, req UploadRequest) (string, error)

	// AnalyzeVideo requests analysis for a previously uploaded video and
	// returns the coach feedback text verbatim.
	AnalyzeVideo(ctx context.Context, serverPath string, perspective types.Perspective) (string, error)
}

// UploadRequest describes the media blob to upload.
type UploadRequest struct {
	// FilePath is the local path of the video to read and send.
	FilePath string

	// FileName is the filename reported in the form part.
	FileName string

	// MIMEType is the content type of the part. Defaults to video/mp4.
	MIMEType string
}

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

// Config configures the backend Client.
type Config struct {
	// BaseURL is the backend root, e.g. "http://192.168.1.7:5000".
	BaseURL string

	// UploadTimeout bounds the upload call. Default 60s.
	UploadTimeout time.Duration

	// AnalyzeTimeout bounds the analyze call. Default 120s.
	AnalyzeTimeout time.Duration

	// Logger receives request/response logs. Defaults to logging.Default().
	Logger *logging.Logger
}

// Client implements Service over plain HTTP.
type Client struct {
	baseURL        string
	uploadTimeout  time.Duration
	analyzeTimeout time.Duration
	httpClient     *http.Client
	log            *logging.Logger
}

// NewClient creates a backend client.
//
// # Inputs
//
//   - cfg: client configuration. BaseURL is required; trailing slashes
//     are normalized away.
//
// # Outputs
//
//   - *Client: configured client instance
//   - error: non-nil when BaseURL is empty
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = 60 * time.Second
	}
	if cfg.AnalyzeTimeout <= 0 {
		cfg.AnalyzeTimeout = 120 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	return &Client{
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		uploadTimeout:  cfg.UploadTimeout,
		analyzeTimeout: cfg.AnalyzeTimeout,
		// Per-call deadlines come from context; the zero client timeout
		// avoids double-bounding long uploads.
		httpClient: &http.Client{},
		log:        cfg.Logger.With("component", "backend"),
	}, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// -----------------------------------------------------------------------------
// Upload
// -----------------------------------------------------------------------------

// uploadResponse is the JSON body returned by POST /upload. Which path
// field is populated depends on the backend build.
type uploadResponse struct {
	VideoPath  string `json:"videoPath"`
	VideoURL   string `json:"videoUrl"`
	Congempath string `json:"congempath"`
}

// serverPath returns the first populated path field in preference order.
func (r uploadResponse) serverPath() string {
	if r.VideoPath != "" {
		return r.VideoPath
	}
	if r.VideoURL != "" {
		return r.VideoURL
	}
	return r.Congempath
}

// UploadVideo posts the media file to {baseURL}/upload.
//
// # Description
//
// Reads the file at req.FilePath, wraps it in a single-field multipart
// form ("video"), and posts it. On 2xx the JSON body must carry a server
// path in one of the accepted fields; its absence is a server error.
//
// # Inputs
//
//   - ctx: cancellation; a deadline of the configured upload timeout is
//     applied if the context carries none
//   - req: the file to send
//
// # Outputs
//
//   - string: the opaque server path
//   - error: *APIError on any failure
func (c *Client) UploadVideo(ctx context.Context, req UploadRequest) (string, error) {
	reqID := uuid.NewString()
	log := c.log.With("request_id", reqID, "op", "upload")

	file, err := os.Open(req.FilePath)
	if err != nil {
		return "", &APIError{
			Op:          "upload",
			Kind:        KindTransport,
			Message:     "could not read the selected video",
			Remediation: "Check that the file still exists and is readable.",
			Err:         err,
		}
	}
	defer file.Close()

	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = "video/mp4"
	}
	fileName := req.FileName
	if fileName == "" {
		fileName = "upload.mp4"
	}

	// The upload ceiling is enforced by the workflow controller before
	// this call, so buffering the body is bounded.
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename=%q`, fileName))
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", &APIError{Op: "upload", Kind: KindTransport, Message: "could not build upload form", Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", &APIError{Op: "upload", Kind: KindTransport, Message: "could not read the selected video", Err: err}
	}
	if err := writer.Close(); err != nil {
		return "", &APIError{Op: "upload", Kind: KindTransport, Message: "could not finalize upload form", Err: err}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.uploadTimeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return "", &APIError{Op: "upload", Kind: KindTransport, Message: "could not build upload request", Err: err}
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	log.Info("uploading video", "file", fileName, "bytes", body.Len())
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error("upload transport failure", "error", err.Error())
		return "", &APIError{
			Op:          "upload",
			Kind:        KindTransport,
			Message:     "could not reach the coaching server",
			Remediation: "Check your network connection and the backend URL in the config.",
			Err:         err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("upload rejected", "status", resp.StatusCode)
		return "", &APIError{
			Op:         "upload",
			Kind:       KindServer,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("server rejected the upload (HTTP %d)", resp.StatusCode),
		}
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &APIError{Op: "upload", Kind: KindTransport, Message: "could not parse upload response", Err: err}
	}

	serverPath := parsed.serverPath()
	if serverPath == "" {
		return "", &APIError{
			Op:         "upload",
			Kind:       KindServer,
			StatusCode: resp.StatusCode,
			Message:    "no video path returned from server",
		}
	}

	log.Info("upload complete", "server_path", serverPath, "duration_ms", time.Since(start).Milliseconds())
	return serverPath, nil
}

// -----------------------------------------------------------------------------
// Analyze
// -----------------------------------------------------------------------------

// analyzeRequest is the JSON body for POST /analyze.
type analyzeRequest struct {
	Path        string            `json:"path"`
	Perspective types.Perspective `json:"perspective"`
}

// analyzeResponse is the JSON body returned by POST /analyze.
type analyzeResponse struct {
	Success  bool   `json:"success"`
	Feedback string `json:"feedback"`
	Message  string `json:"message"`
}

// AnalyzeVideo posts (path, perspective) to {baseURL}/analyze.
//
// # Description
//
// The call fails when the status is non-2xx OR the body's success field
// is not true; the surfaced message prefers the server's message text.
// On success the feedback string is returned verbatim.
//
// # Inputs
//
//   - ctx: cancellation; a deadline of the configured analyze timeout is
//     applied if the context carries none
//   - serverPath: the path returned by a prior UploadVideo
//   - perspective: which boxer to analyze
//
// # Outputs
//
//   - string: the coach feedback text
//   - error: *APIError on any failure
func (c *Client) AnalyzeVideo(ctx context.Context, serverPath string, perspective types.Perspective) (string, error) {
	reqID := uuid.NewString()
	log := c.log.With("request_id", reqID, "op", "analyze")

	payload, err := json.Marshal(analyzeRequest{Path: serverPath, Perspective: perspective})
	if err != nil {
		return "", &APIError{Op: "analyze", Kind: KindTransport, Message: "could not build analyze request", Err: err}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.analyzeTimeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return "", &APIError{Op: "analyze", Kind: KindTransport, Message: "could not build analyze request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	log.Info("requesting analysis", "server_path", serverPath, "perspective", perspective)
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error("analyze transport failure", "error", err.Error())
		return "", &APIError{
			Op:          "analyze",
			Kind:        KindTransport,
			Message:     "could not reach the coaching server",
			Remediation: "Check your network connection and the backend URL in the config.",
			Err:         err,
		}
	}
	defer resp.Body.Close()

	// The body is parsed even on non-2xx: error responses carry their
	// explanation in the message field.
	var parsed analyzeResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&parsed)

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	if !ok || !parsed.Success {
		msg := parsed.Message
		if msg == "" {
			msg = "Analysis failed"
		}
		log.Error("analysis rejected", "status", resp.StatusCode, "message", msg)
		return "", &APIError{
			Op:         "analyze",
			Kind:       KindServer,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}
	if decodeErr != nil {
		return "", &APIError{Op: "analyze", Kind: KindTransport, Message: "could not parse analyze response", Err: decodeErr}
	}

	log.Info("analysis complete", "duration_ms", time.Since(start).Milliseconds())
	return parsed.Feedback, nil
}

// Ensure Client implements Service
var _ Service = (*Client)(nil)
