// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinterlante1206/BoxerCoach/services/coach/backend"
	"github.com/jinterlante1206/BoxerCoach/services/coach/media"
	"github.com/jinterlante1206/BoxerCoach/services/coach/types"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakePicker struct {
	size int64
	err  error
}

func (p *fakePicker) Pick(path string) (*media.Handle, error) {
	if p.err != nil {
		return nil, p.err
	}
	size := p.size
	if size == 0 {
		size = 1024
	}
	return &media.Handle{
		URI:          path,
		PersistedURI: "/data/boxing-1700000000000.mp4",
		Name:         "clip.mp4",
		MIME:         "video/mp4",
		Size:         size,
	}, nil
}

type fakeBackend struct {
	mu          sync.Mutex
	uploadPath  string
	uploadErr   error
	feedback    string
	analyzeErr  error
	uploadCalls int

	// When non-nil, UploadVideo/AnalyzeVideo block until release is
	// closed. entered is closed once the call has started.
	entered chan struct{}
	release chan struct{}
}

func (b *fakeBackend) block() {
	if b.entered != nil {
		close(b.entered)
	}
	if b.release != nil {
		<-b.release
	}
}

func (b *fakeBackend) UploadVideo(ctx context.Context, req backend.UploadRequest) (string, error) {
	b.mu.Lock()
	b.uploadCalls++
	b.mu.Unlock()
	b.block()
	if b.uploadErr != nil {
		return "", b.uploadErr
	}
	if b.uploadPath == "" {
		return "/files/a.mp4", nil
	}
	return b.uploadPath, nil
}

func (b *fakeBackend) AnalyzeVideo(ctx context.Context, serverPath string, p types.Perspective) (string, error) {
	b.block()
	if b.analyzeErr != nil {
		return "", b.analyzeErr
	}
	if b.feedback == "" {
		return "Nice jab", nil
	}
	return b.feedback, nil
}

func (b *fakeBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploadCalls
}

type fakeSessions struct {
	mu       sync.Mutex
	appended []types.Session
	err      error
}

func (s *fakeSessions) Append(ctx context.Context, sess types.Session) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appended = append([]types.Session{sess}, s.appended...)
	return nil
}

type controllerDeps struct {
	backend  *fakeBackend
	picker   *fakePicker
	sessions *fakeSessions
}

func newTestController(t *testing.T, mutate func(*controllerDeps, *Config)) (*Controller, *controllerDeps) {
	t.Helper()
	deps := &controllerDeps{
		backend:  &fakeBackend{},
		picker:   &fakePicker{},
		sessions: &fakeSessions{},
	}
	cfg := Config{
		Backend:        deps.backend,
		Picker:         deps.picker,
		Sessions:       deps.sessions,
		MaxUploadBytes: 50 * 1024 * 1024,
		Now:            func() time.Time { return time.UnixMilli(1700000000000) },
	}
	if mutate != nil {
		mutate(deps, &cfg)
	}
	c, err := NewController(cfg)
	require.NoError(t, err)
	return c, deps
}

func requireCode(t *testing.T, err error, code ErrorCode) *CheckError {
	t.Helper()
	var checkErr *CheckError
	require.ErrorAs(t, err, &checkErr)
	require.Equal(t, code, checkErr.Code)
	return checkErr
}

// ---------------------------------------------------------------------------
// Selection and preconditions
// ---------------------------------------------------------------------------

// TestSelectMedia verifies staging moves the check forward and bumps the
// generation.
func TestSelectMedia(t *testing.T) {
	c, _ := newTestController(t, nil)

	h, err := c.SelectMedia("/videos/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "/videos/clip.mp4", h.URI)

	st := c.State()
	assert.Equal(t, PhaseMediaSelected, st.Phase)
	assert.Equal(t, uint64(1), st.Generation)
	assert.Equal(t, BusyNone, st.Busy)
	assert.Empty(t, st.UploadedPath)
}

// TestSelectMediaFailureKeepsState verifies a staging failure leaves the
// previous check untouched.
func TestSelectMediaFailureKeepsState(t *testing.T) {
	c, deps := newTestController(t, nil)

	_, err := c.SelectMedia("/videos/clip.mp4")
	require.NoError(t, err)

	deps.picker.err = &media.PickError{Code: media.PickPermissionDenied, Message: "permission denied"}
	_, err = c.SelectMedia("/videos/locked.mp4")
	requireCode(t, err, CodePermissionDenied)

	st := c.State()
	assert.Equal(t, PhaseMediaSelected, st.Phase)
	assert.Equal(t, uint64(1), st.Generation, "failed selection must not bump the generation")
	assert.Equal(t, "/videos/clip.mp4", st.Media.URI)
}

// TestUploadWithoutMedia verifies the no-media precondition.
func TestUploadWithoutMedia(t *testing.T) {
	c, deps := newTestController(t, nil)

	_, err := c.Upload(context.Background())
	requireCode(t, err, CodeNoMedia)
	assert.Zero(t, deps.backend.calls(), "no network call without media")
}

// TestUploadFileTooLarge verifies the ceiling is enforced before any
// network activity.
func TestUploadFileTooLarge(t *testing.T) {
	c, deps := newTestController(t, func(d *controllerDeps, cfg *Config) {
		d.picker.size = 51 * 1024 * 1024
	})

	_, err := c.SelectMedia("/videos/huge.mp4")
	require.NoError(t, err)

	_, err = c.Upload(context.Background())
	requireCode(t, err, CodeFileTooLarge)
	assert.Zero(t, deps.backend.calls(), "oversized clip must never reach the network")
	assert.Equal(t, PhaseMediaSelected, c.State().Phase)
}

// TestAnalyzePreconditionOrder verifies the missing-upload check fires
// before the missing-perspective check.
func TestAnalyzePreconditionOrder(t *testing.T) {
	c, _ := newTestController(t, nil)

	_, err := c.SelectMedia("/videos/clip.mp4")
	require.NoError(t, err)

	// Neither uploaded nor perspective: upload wins.
	_, err = c.Analyze(context.Background())
	requireCode(t, err, CodeNoUploadedPath)

	_, err = c.Upload(context.Background())
	require.NoError(t, err)

	// Uploaded but no perspective.
	_, err = c.Analyze(context.Background())
	requireCode(t, err, CodeNoPerspective)
}

// TestSetPerspectiveInvalid verifies the closed set is enforced.
func TestSetPerspectiveInvalid(t *testing.T) {
	c, _ := newTestController(t, nil)
	err := c.SetPerspective(types.Perspective("behind"))
	requireCode(t, err, CodeNoPerspective)
}

// TestSelectMediaResetsDownstream verifies a new pick invalidates every
// downstream artifact of the previous check.
func TestSelectMediaResetsDownstream(t *testing.T) {
	c, _ := newTestController(t, nil)

	_, err := c.SelectMedia("/videos/first.mp4")
	require.NoError(t, err)
	require.NoError(t, c.SetPerspective(types.PerspectiveRight))
	_, err = c.Upload(context.Background())
	require.NoError(t, err)
	_, err = c.Analyze(context.Background())
	require.NoError(t, err)

	_, err = c.SelectMedia("/videos/second.mp4")
	require.NoError(t, err)

	st := c.State()
	assert.Equal(t, PhaseMediaSelected, st.Phase)
	assert.Empty(t, st.UploadedPath)
	assert.Empty(t, st.Perspective)
	assert.Empty(t, st.Feedback)
	assert.Equal(t, "/videos/second.mp4", st.Media.URI)
}

// ---------------------------------------------------------------------------
// Upload and analyze
// ---------------------------------------------------------------------------

// TestUpload verifies the happy path moves to PhaseUploaded with the
// server path recorded.
func TestUpload(t *testing.T) {
	c, _ := newTestController(t, func(d *controllerDeps, cfg *Config) {
		d.backend.uploadPath = "/files/clip-77.mp4"
	})

	_, err := c.SelectMedia("/videos/clip.mp4")
	require.NoError(t, err)

	path, err := c.Upload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/files/clip-77.mp4", path)

	st := c.State()
	assert.Equal(t, PhaseUploaded, st.Phase)
	assert.Equal(t, "/files/clip-77.mp4", st.UploadedPath)
	assert.Equal(t, BusyNone, st.Busy)
}

// TestUploadFailureReverts verifies a failed upload returns the check to
// PhaseMediaSelected so the user can retry.
func TestUploadFailureReverts(t *testing.T) {
	c, _ := newTestController(t, func(d *controllerDeps, cfg *Config) {
		d.backend.uploadErr = &backend.APIError{Op: "upload", Kind: backend.KindTransport, Message: "connection refused"}
	})

	_, err := c.SelectMedia("/videos/clip.mp4")
	require.NoError(t, err)

	_, err = c.Upload(context.Background())
	requireCode(t, err, CodeNetwork)

	st := c.State()
	assert.Equal(t, PhaseMediaSelected, st.Phase)
	assert.Equal(t, BusyNone, st.Busy)
	assert.Empty(t, st.UploadedPath)
}

// TestAnalyze verifies the full happy path: feedback, recorded session,
// PhaseComplete.
func TestAnalyze(t *testing.T) {
	c, deps := newTestController(t, func(d *controllerDeps, cfg *Config) {
		d.backend.feedback = "Keep your guard up"
	})

	_, err := c.SelectMedia("/videos/clip.mp4")
	require.NoError(t, err)
	require.NoError(t, c.SetPerspective(types.PerspectiveLeft))
	_, err = c.Upload(context.Background())
	require.NoError(t, err)

	sess, err := c.Analyze(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1700000000000), sess.ID)
	assert.Equal(t, "/data/boxing-1700000000000.mp4", sess.VideoURI, "session must point at the persisted copy")
	assert.Equal(t, types.PerspectiveLeft, sess.Perspective)
	assert.Equal(t, "Keep your guard up", sess.Feedback)
	assert.Equal(t, "2023-11-14T22:13:20Z", sess.CreatedAt)

	require.Len(t, deps.sessions.appended, 1)
	assert.Equal(t, *sess, deps.sessions.appended[0])

	st := c.State()
	assert.Equal(t, PhaseComplete, st.Phase)
	assert.Equal(t, "Keep your guard up", st.Feedback)
	require.NotNil(t, st.LastSession)
	assert.Equal(t, sess.ID, st.LastSession.ID)
}

// TestAnalyzeServerFailureReverts verifies a rejected analysis returns
// to PhaseUploaded and surfaces the server message.
func TestAnalyzeServerFailureReverts(t *testing.T) {
	c, deps := newTestController(t, func(d *controllerDeps, cfg *Config) {
		d.backend.analyzeErr = &backend.APIError{Op: "analyze", Kind: backend.KindServer, Message: "no boxer detected"}
	})

	_, err := c.SelectMedia("/videos/clip.mp4")
	require.NoError(t, err)
	require.NoError(t, c.SetPerspective(types.PerspectiveAlone))
	_, err = c.Upload(context.Background())
	require.NoError(t, err)

	_, err = c.Analyze(context.Background())
	checkErr := requireCode(t, err, CodeServer)
	assert.Equal(t, "no boxer detected", checkErr.Message)

	assert.Equal(t, PhaseUploaded, c.State().Phase)
	assert.Empty(t, deps.sessions.appended, "failed analysis must not record a session")
}

// TestAnalyzeStorageFailure verifies feedback survives a failed session
// write and the check stays retryable.
func TestAnalyzeStorageFailure(t *testing.T) {
	c, _ := newTestController(t, func(d *controllerDeps, cfg *Config) {
		d.sessions.err = errors.New("disk full")
	})

	_, err := c.SelectMedia("/videos/clip.mp4")
	require.NoError(t, err)
	require.NoError(t, c.SetPerspective(types.PerspectiveLeft))
	_, err = c.Upload(context.Background())
	require.NoError(t, err)

	_, err = c.Analyze(context.Background())
	requireCode(t, err, CodeStorage)

	st := c.State()
	assert.Equal(t, PhaseUploaded, st.Phase)
	assert.Equal(t, "Nice jab", st.Feedback, "feedback must survive a failed record")
	assert.Nil(t, st.LastSession)
}

// TestSessionIDsMonotonic verifies two checks completing in the same
// millisecond still get distinct, increasing IDs.
func TestSessionIDsMonotonic(t *testing.T) {
	c, deps := newTestController(t, nil)

	runCheck := func() *types.Session {
		_, err := c.SelectMedia("/videos/clip.mp4")
		require.NoError(t, err)
		require.NoError(t, c.SetPerspective(types.PerspectiveLeft))
		_, err = c.Upload(context.Background())
		require.NoError(t, err)
		sess, err := c.Analyze(context.Background())
		require.NoError(t, err)
		return sess
	}

	first := runCheck()
	second := runCheck()

	assert.Equal(t, int64(1700000000000), first.ID)
	assert.Equal(t, int64(1700000000001), second.ID, "frozen clock must still yield a fresh ID")
	require.Len(t, deps.sessions.appended, 2)
}

// ---------------------------------------------------------------------------
// Busy latch and stale discard
// ---------------------------------------------------------------------------

// TestBusyLatch verifies a second operation fails fast while one is in
// flight.
func TestBusyLatch(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	c, _ := newTestController(t, func(d *controllerDeps, cfg *Config) {
		d.backend.entered = entered
		d.backend.release = release
	})

	_, err := c.SelectMedia("/videos/clip.mp4")
	require.NoError(t, err)
	require.NoError(t, c.SetPerspective(types.PerspectiveLeft))

	done := make(chan error, 1)
	go func() {
		_, err := c.Upload(context.Background())
		done <- err
	}()
	<-entered

	assert.Equal(t, BusyUpload, c.State().Busy)

	_, err = c.Upload(context.Background())
	requireCode(t, err, CodeBusy)
	_, err = c.Analyze(context.Background())
	requireCode(t, err, CodeBusy)
	err = c.SetPerspective(types.PerspectiveRight)
	requireCode(t, err, CodeBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, BusyNone, c.State().Busy)
}

// TestStaleUploadDiscarded verifies a new selection mid-upload causes
// the in-flight result to be thrown away without touching state.
func TestStaleUploadDiscarded(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	c, _ := newTestController(t, func(d *controllerDeps, cfg *Config) {
		d.backend.entered = entered
		d.backend.release = release
		d.backend.uploadPath = "/files/stale.mp4"
	})

	_, err := c.SelectMedia("/videos/old.mp4")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := c.Upload(context.Background())
		done <- err
	}()
	<-entered

	// User picks a different clip while the upload is in flight.
	_, err = c.SelectMedia("/videos/new.mp4")
	require.NoError(t, err)

	close(release)
	assert.ErrorIs(t, <-done, ErrSuperseded)

	st := c.State()
	assert.Equal(t, PhaseMediaSelected, st.Phase, "the new check must be unaffected")
	assert.Equal(t, uint64(2), st.Generation)
	assert.Equal(t, "/videos/new.mp4", st.Media.URI)
	assert.Empty(t, st.UploadedPath, "stale server path must not leak into the new check")
	assert.Equal(t, BusyNone, st.Busy, "superseded operation must not leave the latch set")
}

// TestStaleAnalyzeDiscarded verifies the same discard for analyze.
func TestStaleAnalyzeDiscarded(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	c, deps := newTestController(t, func(d *controllerDeps, cfg *Config) {
		d.backend.feedback = "stale feedback"
	})

	_, err := c.SelectMedia("/videos/old.mp4")
	require.NoError(t, err)
	require.NoError(t, c.SetPerspective(types.PerspectiveLeft))
	_, err = c.Upload(context.Background())
	require.NoError(t, err)

	deps.backend.entered = entered
	deps.backend.release = release

	done := make(chan error, 1)
	go func() {
		_, err := c.Analyze(context.Background())
		done <- err
	}()
	<-entered

	_, err = c.SelectMedia("/videos/new.mp4")
	require.NoError(t, err)

	close(release)
	assert.ErrorIs(t, <-done, ErrSuperseded)

	st := c.State()
	assert.Empty(t, st.Feedback, "stale feedback must not leak into the new check")
	assert.Empty(t, deps.sessions.appended, "a superseded analysis must not record a session")
}

// TestReset verifies abandoning a check returns to PhaseIdle while the
// last session survives.
func TestReset(t *testing.T) {
	c, _ := newTestController(t, nil)

	_, err := c.SelectMedia("/videos/clip.mp4")
	require.NoError(t, err)
	require.NoError(t, c.SetPerspective(types.PerspectiveAlone))
	_, err = c.Upload(context.Background())
	require.NoError(t, err)
	sess, err := c.Analyze(context.Background())
	require.NoError(t, err)

	c.Reset()

	st := c.State()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Nil(t, st.Media)
	assert.Empty(t, st.UploadedPath)
	assert.Empty(t, st.Feedback)
	assert.Empty(t, st.Perspective)
	require.NotNil(t, st.LastSession)
	assert.Equal(t, sess.ID, st.LastSession.ID)
}

// TestNewControllerValidation verifies required dependencies.
func TestNewControllerValidation(t *testing.T) {
	base := Config{
		Backend:        &fakeBackend{},
		Picker:         &fakePicker{},
		Sessions:       &fakeSessions{},
		MaxUploadBytes: 1,
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing backend", func(c *Config) { c.Backend = nil }},
		{"missing picker", func(c *Config) { c.Picker = nil }},
		{"missing sessions", func(c *Config) { c.Sessions = nil }},
		{"zero ceiling", func(c *Config) { c.MaxUploadBytes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := NewController(cfg)
			require.Error(t, err)
		})
	}
}
